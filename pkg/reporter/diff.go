package reporter

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/yaklabco/texoutline/internal/ui/pretty"
	"github.com/yaklabco/texoutline/pkg/diff"
)

// DiffReport is the edit script between two revisions along one axis.
type DiffReport struct {
	Before      string            `json:"before" yaml:"before"`
	After       string            `json:"after" yaml:"after"`
	Axis        string            `json:"axis" yaml:"axis"`
	Differences []diff.Difference `json:"differences" yaml:"differences"`
}

// WriteDiff writes report in the given format. Markdown and HTML share the
// plain list layout of the text format without styling.
func WriteDiff(w io.Writer, report DiffReport, opts Options) (err error) {
	bw := bufio.NewWriterSize(w, bufWriterSize)
	defer func() {
		if flushErr := bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if report.Differences == nil {
		report.Differences = []diff.Difference{}
	}

	switch opts.Format {
	case FormatJSON:
		encoder := json.NewEncoder(bw)
		if !opts.Compact {
			encoder.SetIndent("", "  ")
		}
		if err := encoder.Encode(report); err != nil {
			return fmt.Errorf("encode JSON: %w", err)
		}
	case FormatYAML:
		encoder := yaml.NewEncoder(bw)
		encoder.SetIndent(2)
		if err := encoder.Encode(report); err != nil {
			return fmt.Errorf("encode YAML: %w", err)
		}
		if err := encoder.Close(); err != nil {
			return fmt.Errorf("encode YAML: %w", err)
		}
	default:
		colorEnabled := opts.Format == FormatText && pretty.IsColorEnabled(opts.Color, w)
		styles := pretty.NewStyles(colorEnabled)
		title := fmt.Sprintf("%s: %s -> %s", report.Axis, report.Before, report.After)
		fmt.Fprint(bw, styles.FormatDifferences(title, report.Differences))
	}
	return nil
}
