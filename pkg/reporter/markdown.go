package reporter

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/samber/lo"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/yaklabco/texoutline/pkg/analysis"
	"github.com/yaklabco/texoutline/pkg/document"
	"github.com/yaklabco/texoutline/pkg/runner"
	"github.com/yaklabco/texoutline/pkg/texast"
)

// MarkdownReporter writes each outline as a nested Markdown list.
type MarkdownReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewMarkdownReporter creates a new Markdown reporter.
func NewMarkdownReporter(opts Options) *MarkdownReporter {
	return &MarkdownReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *MarkdownReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	writeMarkdown(r.bw, result, r.opts)
	if result == nil {
		return 0, nil
	}
	return result.Stats.FilesFailed, nil
}

// HTMLReporter renders the Markdown report to HTML with goldmark.
type HTMLReporter struct {
	opts Options
	md   goldmark.Markdown
	bw   *bufio.Writer
}

// NewHTMLReporter creates a new HTML reporter.
func NewHTMLReporter(opts Options) *HTMLReporter {
	return &HTMLReporter{
		opts: opts,
		md: goldmark.New(
			goldmark.WithExtensions(extension.Table),
			goldmark.WithRendererOptions(html.WithXHTML()),
		),
		bw: bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *HTMLReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	var source bytes.Buffer
	writeMarkdown(&source, result, r.opts)
	if err := r.md.Convert(source.Bytes(), r.bw); err != nil {
		return 0, fmt.Errorf("render HTML: %w", err)
	}

	if result == nil {
		return 0, nil
	}
	return result.Stats.FilesFailed, nil
}

func writeMarkdown(w io.Writer, result *runner.Result, opts Options) {
	if result == nil || len(result.Files) == 0 {
		fmt.Fprintln(w, "_No files to outline._")
		return
	}

	for idx, file := range result.Files {
		if idx > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "## %s\n\n", markdownEscape(displayPath(file.Path, opts.WorkingDir)))

		if file.Error != nil {
			writeMarkdownError(w, file.Error)
			continue
		}
		if file.Result == nil {
			continue
		}

		if file.Result.Dialect != analysis.DialectBib {
			var items []document.Item
			if file.Result.Document != nil {
				items = filterItems(file.Result.Document.Items, opts.Objects)
			}
			if len(items) == 0 {
				fmt.Fprintln(w, "_Empty outline._")
			}
			writeMarkdownItems(w, items, 0, opts)
		}
		if opts.ShowEntries && len(file.Result.Entries) > 0 {
			fmt.Fprintln(w)
			writeMarkdownEntries(w, file.Result.Entries)
		}
	}

	if opts.ShowSummary {
		stats := result.Stats
		fmt.Fprintf(w, "\n---\n\n%d files parsed, %d failed, %d sections, %d objects.\n",
			stats.FilesParsed, stats.FilesFailed, stats.Sections, stats.ObjectsTotal())
	}
}

func writeMarkdownError(w io.Writer, err error) {
	var parseErr *analysis.ParseError
	if !errors.As(err, &parseErr) {
		fmt.Fprintf(w, "> **error**: %s\n", markdownEscape(err.Error()))
		return
	}
	for _, diag := range parseErr.Diagnostics {
		fmt.Fprintf(w, "> **error** %s\n>\n", markdownEscape(diag.String()))
	}
}

func writeMarkdownItems(w io.Writer, items []document.Item, depth int, opts Options) {
	indent := strings.Repeat("  ", depth)
	for idx := range items {
		item := &items[idx]
		line := ""
		if opts.ShowLines && item.Line > 0 {
			line = fmt.Sprintf(" (line %d)", item.Line)
		}

		switch {
		case item.Section != nil:
			fmt.Fprintf(w, "%s- **%d %s**%s\n", indent, item.Section.Index+1, markdownEscape(item.Section.Name), line)
		case item.Subsection != nil:
			sub := item.Subsection
			fmt.Fprintf(w, "%s- *%d.%d %s*%s\n", indent, sub.Parent+1, sub.Local+1, markdownEscape(sub.Name), line)
		case item.Object != nil:
			fmt.Fprintf(w, "%s- %s%s\n", indent, markdownObject(item.Object), line)
		}
		writeMarkdownItems(w, item.Children(), depth+1, opts)
	}
}

func markdownObject(obj *document.Object) string {
	parts := []string{fmt.Sprintf("%s %d", obj.Kind, obj.Ordinal+1)}
	if obj.Label != "" {
		parts = append(parts, "`"+obj.Label+"`")
	}
	if obj.File != "" {
		parts = append(parts, "`"+obj.File+"`")
	}
	if obj.Language != "" {
		parts = append(parts, "("+obj.Language+")")
	}
	if obj.Caption != "" {
		parts = append(parts, markdownEscape(obj.Caption))
	}
	return strings.Join(parts, " ")
}

func writeMarkdownEntries(w io.Writer, entries []texast.BibEntry) {
	fmt.Fprintln(w, "| Key | Kind | Title | Year |")
	fmt.Fprintln(w, "| --- | --- | --- | --- |")
	for idx := range entries {
		entry := &entries[idx]
		year, _ := entry.Field("year")
		cells := lo.Map([]string{entry.Key, entry.Kind.String(), entry.Title(), year}, func(cell string, _ int) string {
			return strings.ReplaceAll(markdownEscape(cell), "|", `\|`)
		})
		fmt.Fprintf(w, "| %s |\n", strings.Join(cells, " | "))
	}
}

//nolint:gochecknoglobals // Read-only replacer.
var markdownReplacer = strings.NewReplacer(
	`\`, `\\`,
	"*", `\*`,
	"_", `\_`,
	"`", "\\`",
	"[", `\[`,
	"]", `\]`,
	"<", "&lt;",
	">", "&gt;",
)

// markdownEscape keeps LaTeX text such as "\emph{x}" from being read as markup.
func markdownEscape(s string) string {
	return markdownReplacer.Replace(s)
}
