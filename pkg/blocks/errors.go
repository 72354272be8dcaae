package blocks

import (
	"fmt"

	"github.com/yaklabco/texoutline/pkg/texast"
)

// ErrorKind classifies a nesting violation.
type ErrorKind uint8

const (
	// MismatchedEnd is an \end whose environment differs from the open block.
	MismatchedEnd ErrorKind = iota + 1
	// UnmatchedEnd is an \end with no open block.
	UnmatchedEnd
	// UnterminatedBlock is a \begin never closed before end of input.
	UnterminatedBlock
)

func (k ErrorKind) String() string {
	switch k {
	case MismatchedEnd:
		return "mismatched end"
	case UnmatchedEnd:
		return "unmatched end"
	case UnterminatedBlock:
		return "unterminated block"
	default:
		return "structural error"
	}
}

// StructuralError reports violated begin/end nesting.
type StructuralError struct {
	Kind ErrorKind

	// Environment is the open environment involved, if any.
	Environment string

	// Found is the environment named by the offending \end, if any.
	Found string

	// Offset is the byte offset of the offending command.
	Offset int

	// Line is the 0-based line of Offset.
	Line int
}

func newStructuralError(src string, kind ErrorKind, env, found string, offset int) *StructuralError {
	return &StructuralError{
		Kind:        kind,
		Environment: env,
		Found:       found,
		Offset:      offset,
		Line:        texast.LineOf(src, offset),
	}
}

// Error implements the error interface.
func (e *StructuralError) Error() string {
	switch e.Kind {
	case MismatchedEnd:
		return fmt.Sprintf("line %d: %s: \\end{%s} closes \\begin{%s}", e.Line+1, e.Kind, e.Found, e.Environment)
	case UnmatchedEnd:
		return fmt.Sprintf("line %d: %s: \\end{%s} without \\begin", e.Line+1, e.Kind, e.Found)
	case UnterminatedBlock:
		return fmt.Sprintf("line %d: %s: \\begin{%s} is never closed", e.Line+1, e.Kind, e.Environment)
	default:
		return fmt.Sprintf("line %d: %s", e.Line+1, e.Kind)
	}
}
