package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/yaklabco/texoutline/pkg/runner"
)

// JSONReporter formats results as JSON.
type JSONReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(opts Options) *JSONReporter {
	return &JSONReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *JSONReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	output := BuildOutput(result, r.opts)

	encoder := json.NewEncoder(r.bw)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}
	if err := encoder.Encode(output); err != nil {
		return 0, fmt.Errorf("encode JSON: %w", err)
	}

	return output.Summary.Failed, nil
}

// YAMLReporter formats results as YAML.
type YAMLReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewYAMLReporter creates a new YAML reporter.
func NewYAMLReporter(opts Options) *YAMLReporter {
	return &YAMLReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *YAMLReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	output := BuildOutput(result, r.opts)

	encoder := yaml.NewEncoder(r.bw)
	encoder.SetIndent(2)
	if err := encoder.Encode(output); err != nil {
		return 0, fmt.Errorf("encode YAML: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return 0, fmt.Errorf("encode YAML: %w", err)
	}

	return output.Summary.Failed, nil
}
