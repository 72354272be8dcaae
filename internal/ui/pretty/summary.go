package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/texoutline/pkg/document"
	"github.com/yaklabco/texoutline/pkg/runner"
)

const summaryDividerWidth = 40

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// FormatSummaryOneLine formats run statistics as a single line.
// Example: "3 files, 7 sections, 12 objects, 1 failed".
func (s *Styles) FormatSummaryOneLine(stats runner.Stats) string {
	if stats.FilesDiscovered == 0 {
		return s.Dim.Render("No files found") + "\n"
	}

	parts := []string{
		fmt.Sprintf("%d %s", stats.FilesParsed, plural(stats.FilesParsed, "file", "files")),
		fmt.Sprintf("%d %s", stats.Sections, plural(stats.Sections, "section", "sections")),
		fmt.Sprintf("%d %s", stats.ObjectsTotal(), plural(stats.ObjectsTotal(), "object", "objects")),
	}
	if stats.Entries > 0 {
		parts = append(parts, fmt.Sprintf("%d %s", stats.Entries, plural(stats.Entries, "entry", "entries")))
	}
	if stats.FilesFailed > 0 {
		parts = append(parts, s.Failure.Render(fmt.Sprintf("%d failed", stats.FilesFailed)))
	}
	return strings.Join(parts, ", ") + "\n"
}

// FormatSummary formats run statistics as a summary block.
func (s *Styles) FormatSummary(stats runner.Stats) string {
	var builder strings.Builder

	row := func(label string, value string) {
		builder.WriteString(fmt.Sprintf("  %-19s%s\n", label+":", value))
	}

	builder.WriteString("\n")
	builder.WriteString(s.SummaryTitle.Render("Summary"))
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("-", summaryDividerWidth))
	builder.WriteString("\n")

	row("Files parsed", s.SummaryValue.Render(strconv.Itoa(stats.FilesParsed)))
	if stats.FilesFailed > 0 {
		row("Files failed", s.Failure.Render(strconv.Itoa(stats.FilesFailed)))
	}
	builder.WriteString("\n")

	row("Sections", s.SummaryValue.Render(strconv.Itoa(stats.Sections)))
	row("Subsections", s.SummaryValue.Render(strconv.Itoa(stats.Subsections)))
	row("Objects", s.SummaryValue.Render(strconv.Itoa(stats.ObjectsTotal())))
	for _, kind := range document.ObjectKinds() {
		if n := stats.Objects[kind]; n > 0 {
			row("  "+kind.String(), s.SummaryValue.Render(strconv.Itoa(n)))
		}
	}
	if stats.Entries > 0 {
		row("Bib entries", s.SummaryValue.Render(strconv.Itoa(stats.Entries)))
	}
	builder.WriteString("\n")

	if stats.FilesFailed > 0 {
		builder.WriteString(s.Failure.Render("Some files could not be parsed"))
	} else {
		builder.WriteString(s.Success.Render("All files parsed"))
	}
	builder.WriteString("\n")

	return builder.String()
}
