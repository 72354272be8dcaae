package document

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingDocumentBody is returned when the source has no document body.
	ErrMissingDocumentBody = errors.New("missing document body")

	// ErrMultipleDocumentBodies is returned when the source has more than one document body.
	ErrMultipleDocumentBodies = errors.New("multiple document bodies")
)

// BuildErrorKind classifies an outline assembly failure.
type BuildErrorKind uint8

const (
	UnnamedSection BuildErrorKind = iota + 1
	UnnamedSubsection
	SubsectionWithoutSection
)

func (k BuildErrorKind) String() string {
	switch k {
	case UnnamedSection:
		return "section without a name"
	case UnnamedSubsection:
		return "subsection without a name"
	case SubsectionWithoutSection:
		return "subsection outside of any section"
	default:
		return "build error"
	}
}

// BuildError reports an outline that violates section nesting rules.
type BuildError struct {
	Kind BuildErrorKind

	// Line is the 1-based line of the offending marker.
	Line int
}

// Error implements the error interface.
func (e *BuildError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Kind)
}
