package session

import (
	"github.com/yaklabco/texoutline/pkg/diff"
	"github.com/yaklabco/texoutline/pkg/document"
	"github.com/yaklabco/texoutline/pkg/texast"
)

// UpdateKind says which part of an Update is set.
type UpdateKind uint8

const (
	// UpdateOutline follows a text event.
	UpdateOutline UpdateKind = iota + 1
	// UpdateBibliography follows a bibliography lookup.
	UpdateBibliography
)

// Update is what the loop publishes after handling an event.
type Update struct {
	Kind UpdateKind

	// Document is the current outline. After a failed parse it is the last
	// good outline, or nil if there has been none.
	Document *document.Document

	// Sections and References are the edit scripts from the previous good
	// revision. After TextInitialized everything is an addition.
	Sections   []diff.Difference
	References []diff.Difference

	// Unchanged is set when the revision produced the same outline.
	Unchanged bool

	// Bibliography and Entries are set for UpdateBibliography.
	Bibliography string
	Entries      []texast.BibEntry

	// Err is the parse or lookup failure.
	Err error
}
