package analysis

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yaklabco/texoutline/pkg/blocks"
	"github.com/yaklabco/texoutline/pkg/document"
	"github.com/yaklabco/texoutline/pkg/lexer"
	"github.com/yaklabco/texoutline/pkg/texast"
)

// ParseError reports that a source could not be parsed. Every dialect
// reports through it, so callers see one list of located messages whatever
// the underlying failure.
type ParseError struct {
	Path        string
	Dialect     Dialect
	Diagnostics []texast.Diagnostic

	// Err is the underlying LaTeX error, if any.
	Err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	msgs := make([]string, len(e.Diagnostics))
	for i, d := range e.Diagnostics {
		msgs[i] = d.String()
	}
	return fmt.Sprintf("%s: %s", e.Path, strings.Join(msgs, "; "))
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// texDiagnostic locates a LaTeX pipeline error.
func texDiagnostic(err error) texast.Diagnostic {
	var (
		lexErr    *lexer.LexError
		structErr *blocks.StructuralError
		buildErr  *document.BuildError
	)
	switch {
	case errors.As(err, &lexErr):
		return texast.Diagnostic{Line: lexErr.Line + 1, Message: fmt.Sprintf("%s near %q", lexErr.Message, lexErr.Snippet)}
	case errors.As(err, &structErr):
		return texast.Diagnostic{Line: structErr.Line + 1, Message: structuralMessage(structErr)}
	case errors.As(err, &buildErr):
		return texast.Diagnostic{Line: buildErr.Line, Message: buildErr.Kind.String()}
	default:
		return texast.Diagnostic{Message: err.Error()}
	}
}

func structuralMessage(err *blocks.StructuralError) string {
	switch err.Kind {
	case blocks.MismatchedEnd:
		return fmt.Sprintf("\\end{%s} does not close \\begin{%s}", err.Found, err.Environment)
	case blocks.UnmatchedEnd:
		return fmt.Sprintf("\\end{%s} has no matching \\begin", err.Found)
	default:
		return fmt.Sprintf("\\begin{%s} is never closed", err.Environment)
	}
}
