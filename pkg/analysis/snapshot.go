package analysis

import (
	"strings"

	"github.com/yaklabco/texoutline/pkg/texast"
)

// Snapshot is the owned, position-mapped view of one parse that survives
// the parse itself. It is what revisions are diffed against.
type Snapshot interface {
	// Spans returns the texts selected by axis, in source order.
	Spans(axis texast.Axis) []string
	// LineOfToken returns the 1-based line where unit i starts.
	LineOfToken(i int) (int, bool)
	// Len returns the number of units.
	Len() int
}

// BibSnapshot is the snapshot of a bibliography file. Its units are the
// entries; both axes yield their keys.
type BibSnapshot struct {
	Text    string
	Keys    []string
	Offsets []int
	Lines   texast.Lines
}

func newBibSnapshot(text string, entries []texast.BibEntry, offsets []int) *BibSnapshot {
	keys := make([]string, len(entries))
	for i := range entries {
		keys[i] = entries[i].Key
	}
	owned := strings.Clone(text)
	return &BibSnapshot{
		Text:    owned,
		Keys:    keys,
		Offsets: offsets,
		Lines:   texast.BuildLines(owned),
	}
}

// Len returns the number of entries.
func (s *BibSnapshot) Len() int {
	return len(s.Keys)
}

// LineOfToken returns the 1-based line of entry i.
func (s *BibSnapshot) LineOfToken(i int) (int, bool) {
	if i < 0 || i >= len(s.Offsets) {
		return 0, false
	}
	line, _ := s.Lines.LineAt(s.Offsets[i])
	return line, line > 0
}

// Spans returns the entry keys.
func (s *BibSnapshot) Spans(texast.Axis) []string {
	return append([]string(nil), s.Keys...)
}
