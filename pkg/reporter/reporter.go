// Package reporter writes the outlines of a run in the supported output
// formats.
package reporter

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/yaklabco/texoutline/pkg/runner"
)

// Reporter formats and writes run results.
type Reporter interface {
	// Report writes formatted output for the given result.
	// It returns the number of files that failed and any write error.
	Report(ctx context.Context, result *runner.Result) (int, error)
}

// New creates a Reporter for the specified options.
func New(opts Options) (Reporter, error) {
	if opts.Writer == nil {
		opts.Writer = DefaultOptions().Writer
	}

	format := opts.Format
	if format == "" {
		format = FormatText
	}
	if !format.IsValid() {
		return nil, fmt.Errorf("unsupported format: %s", format)
	}

	switch format {
	case FormatJSON:
		return NewJSONReporter(opts), nil
	case FormatYAML:
		return NewYAMLReporter(opts), nil
	case FormatMarkdown:
		return NewMarkdownReporter(opts), nil
	case FormatHTML:
		return NewHTMLReporter(opts), nil
	case FormatSummary:
		return NewSummaryReporter(opts), nil
	default:
		return NewTextReporter(opts), nil
	}
}

// displayPath makes path relative to workDir when that is shorter.
func displayPath(path, workDir string) string {
	if workDir == "" {
		return path
	}
	rel, err := filepath.Rel(workDir, path)
	if err != nil || len(rel) >= len(path) {
		return path
	}
	return rel
}
