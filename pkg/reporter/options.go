package reporter

import (
	"io"
	"os"

	"github.com/yaklabco/texoutline/pkg/document"
)

// bufWriterSize is the buffer size for buffered output writers (64 KiB).
const bufWriterSize = 64 * 1024

// Options configures reporter behavior.
type Options struct {
	// Writer is the destination for output (typically os.Stdout).
	Writer io.Writer

	// Format specifies the output format.
	Format Format

	// Color controls colorized output.
	// Values: "auto" (default), "always", "never"
	Color string

	// ShowSummary displays aggregate statistics after results.
	ShowSummary bool

	// ShowLines appends source lines to outline items.
	ShowLines bool

	// ShowEntries lists bibliography entries under each outline.
	ShowEntries bool

	// Objects limits the object kinds shown. Nil shows every kind.
	Objects []document.ObjectKind

	// Compact uses minified output where applicable.
	Compact bool

	// WorkingDir is the directory to make paths relative to.
	// If empty, paths are kept as-is.
	WorkingDir string
}

// DefaultOptions returns Options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		Writer:      os.Stdout,
		Format:      FormatText,
		Color:       "auto",
		ShowSummary: true,
		ShowEntries: true,
	}
}
