// Package diff computes positional edit scripts between two revisions of
// an outline axis.
package diff

import (
	"fmt"

	"github.com/yaklabco/texoutline/pkg/texast"
)

// Op is the kind of change at one position.
type Op uint8

const (
	// OpAdded means the position exists only in the new revision.
	OpAdded Op = iota + 1
	// OpEdited means both revisions have the position with different text.
	OpEdited
	// OpRemoved means the position exists only in the old revision.
	OpRemoved
)

func (o Op) String() string {
	switch o {
	case OpAdded:
		return "added"
	case OpEdited:
		return "edited"
	case OpRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (o Op) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (o *Op) UnmarshalText(text []byte) error {
	for _, op := range []Op{OpAdded, OpEdited, OpRemoved} {
		if op.String() == string(text) {
			*o = op
			return nil
		}
	}
	return fmt.Errorf("unknown op %q", text)
}

// Difference is one entry of an edit script.
type Difference struct {
	Op  Op  `json:"op" yaml:"op"`
	Pos int `json:"pos" yaml:"pos"`

	// Text is the new text for OpAdded and OpEdited. It is empty for OpRemoved.
	Text string `json:"text,omitempty" yaml:"text,omitempty"`
}

// Spanner exposes the spans of one revision along an axis.
type Spanner interface {
	Spans(axis texast.Axis) []string
}

// Compare walks both lists by index. Entries are matched purely by
// position, so moving an entry shows up as a run of edits followed by one
// addition or removal.
func Compare(before, after []string) []Difference {
	var diffs []Difference
	for pos := range max(len(before), len(after)) {
		switch {
		case pos < len(before) && pos < len(after):
			if before[pos] != after[pos] {
				diffs = append(diffs, Difference{Op: OpEdited, Pos: pos, Text: after[pos]})
			}
		case pos < len(after):
			diffs = append(diffs, Difference{Op: OpAdded, Pos: pos, Text: after[pos]})
		default:
			diffs = append(diffs, Difference{Op: OpRemoved, Pos: pos})
		}
	}
	return diffs
}

// CompareAxis compares the spans of two revisions along axis. A nil
// revision has no spans.
func CompareAxis(before, after Spanner, axis texast.Axis) []Difference {
	return Compare(spans(before, axis), spans(after, axis))
}

func spans(s Spanner, axis texast.Axis) []string {
	if s == nil {
		return nil
	}
	return s.Spans(axis)
}
