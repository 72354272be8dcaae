package reporter

import (
	"bufio"
	"context"
	"errors"
	"fmt"

	"github.com/yaklabco/texoutline/internal/ui/pretty"
	"github.com/yaklabco/texoutline/pkg/analysis"
	"github.com/yaklabco/texoutline/pkg/runner"
)

// TextReporter draws each outline as a styled tree.
type TextReporter struct {
	opts   Options
	styles *pretty.Styles
	tables *pretty.TableFormatter
	bw     *bufio.Writer
}

// NewTextReporter creates a new text reporter.
func NewTextReporter(opts Options) *TextReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	styles := pretty.NewStyles(colorEnabled)
	return &TextReporter{
		opts:   opts,
		styles: styles,
		tables: pretty.NewTableFormatter(styles, 0),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *TextReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil || len(result.Files) == 0 {
		if r.opts.ShowSummary {
			fmt.Fprintln(r.bw, r.styles.Dim.Render("No files to outline."))
		}
		return 0, nil
	}

	outlineOpts := pretty.OutlineOptions{Objects: r.opts.Objects, Lines: r.opts.ShowLines}
	for idx, file := range result.Files {
		if idx > 0 {
			fmt.Fprintln(r.bw)
		}
		path := displayPath(file.Path, r.opts.WorkingDir)

		if file.Error != nil {
			r.writeError(path, file.Error)
			continue
		}
		if file.Result == nil {
			continue
		}

		if file.Result.Dialect != analysis.DialectBib {
			fmt.Fprint(r.bw, r.styles.FormatOutline(path, file.Result.Document, outlineOpts))
		} else {
			fmt.Fprintln(r.bw, r.styles.FormatFileHeader(path, fmt.Sprintf("%d entries", len(file.Result.Entries))))
		}
		if r.opts.ShowEntries && len(file.Result.Entries) > 0 {
			fmt.Fprint(r.bw, r.tables.FormatEntries(file.Result.Entries))
		}
	}

	if r.opts.ShowSummary {
		fmt.Fprintln(r.bw)
		fmt.Fprint(r.bw, r.styles.FormatSummaryOneLine(result.Stats))
	}

	return result.Stats.FilesFailed, nil
}

func (r *TextReporter) writeError(path string, err error) {
	var parseErr *analysis.ParseError
	if errors.As(err, &parseErr) {
		fmt.Fprint(r.bw, r.styles.FormatDiagnostics(path, parseErr.Diagnostics, ""))
		return
	}
	fmt.Fprintf(r.bw, "%s: %s\n",
		r.styles.FilePath.Render(path),
		r.styles.Error.Render(fmt.Sprintf("error: %v", err)),
	)
}
