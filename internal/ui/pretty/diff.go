package pretty

import (
	"fmt"
	"strings"

	"github.com/yaklabco/texoutline/pkg/diff"
)

// FormatDifferences renders an edit script with one line per change:
// "+ 2 text" for additions, "~ 0 text" for edits and "- 3" for removals.
func (s *Styles) FormatDifferences(title string, diffs []diff.Difference) string {
	var builder strings.Builder
	builder.WriteString(s.DiffHeader.Render(title))
	builder.WriteString("\n")

	if len(diffs) == 0 {
		builder.WriteString(s.Dim.Render("  no changes"))
		builder.WriteString("\n")
		return builder.String()
	}

	for _, d := range diffs {
		switch d.Op {
		case diff.OpAdded:
			builder.WriteString(s.DiffAdd.Render(fmt.Sprintf("+ %d %s", d.Pos, d.Text)))
		case diff.OpEdited:
			builder.WriteString(s.DiffEdit.Render(fmt.Sprintf("~ %d %s", d.Pos, d.Text)))
		case diff.OpRemoved:
			builder.WriteString(s.DiffRemove.Render(fmt.Sprintf("- %d", d.Pos)))
		}
		builder.WriteString("\n")
	}
	return builder.String()
}
