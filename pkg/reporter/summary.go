package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/texoutline/internal/ui/pretty"
	"github.com/yaklabco/texoutline/pkg/runner"
)

// SummaryReporter writes only aggregate statistics and failures.
type SummaryReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewSummaryReporter creates a new summary reporter.
func NewSummaryReporter(opts Options) *SummaryReporter {
	return &SummaryReporter{
		opts:   opts,
		styles: pretty.NewStyles(pretty.IsColorEnabled(opts.Color, opts.Writer)),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *SummaryReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil {
		result = &runner.Result{}
	}
	for _, file := range result.Failed() {
		fmt.Fprintf(r.bw, "%s: %s\n",
			r.styles.FilePath.Render(displayPath(file.Path, r.opts.WorkingDir)),
			r.styles.Error.Render(file.Error.Error()),
		)
	}
	fmt.Fprint(r.bw, r.styles.FormatSummary(result.Stats))

	return result.Stats.FilesFailed, nil
}
