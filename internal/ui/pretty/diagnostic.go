package pretty

import (
	"fmt"
	"strings"

	"github.com/yaklabco/texoutline/pkg/texast"
)

// FormatDiagnostics formats parse failures as "path:line: message" lines.
// When src is given, the offending line is shown under each message.
func (s *Styles) FormatDiagnostics(path string, diags []texast.Diagnostic, src string) string {
	var lines texast.Lines
	if src != "" {
		lines = texast.BuildLines(src)
	}

	var builder strings.Builder
	for _, diag := range diags {
		loc := path
		if diag.Line > 0 {
			loc = fmt.Sprintf("%s:%d", path, diag.Line)
		}
		builder.WriteString(s.FilePath.Render(loc))
		builder.WriteString(": ")
		builder.WriteString(s.Error.Render("error"))
		builder.WriteString(": ")
		builder.WriteString(s.Message.Render(diag.Message))
		builder.WriteString("\n")

		if excerpt := lines.Content(src, diag.Line); strings.TrimSpace(excerpt) != "" {
			builder.WriteString(s.Dim.Render("    " + excerpt))
			builder.WriteString("\n")
		}
	}
	return builder.String()
}

// FormatFileHeader formats a file header for grouped output.
func (s *Styles) FormatFileHeader(path string, detail string) string {
	header := s.FilePath.Render(path)
	if detail != "" {
		header += s.Dim.Render(" (" + detail + ")")
	}
	return header
}
