package texast

import (
	"fmt"
	"strings"
)

// EntryKind is the closed set of bibliography entry types.
type EntryKind uint8

// Entry kinds recognized after '@'. Matching is case-sensitive.
const (
	EntryUnknown EntryKind = iota
	EntryBook
	EntryBooklet
	EntryArticle
	EntryConference
	EntryInBook
	EntryInCollection
	EntryInProceedings
	EntryManual
	EntryMasterThesis
	EntryMisc
	EntryPhdThesis
	EntryProceedings
	EntryTechReport
	EntryUnpublished
)

// entryKindNames maps entry kinds to their source spelling.
//
//nolint:gochecknoglobals // Read-only lookup table.
var entryKindNames = [...]string{
	EntryUnknown:       "",
	EntryBook:          "book",
	EntryBooklet:       "booklet",
	EntryArticle:       "article",
	EntryConference:    "conference",
	EntryInBook:        "inbook",
	EntryInCollection:  "incollection",
	EntryInProceedings: "inproceedings",
	EntryManual:        "manual",
	EntryMasterThesis:  "masterthesis",
	EntryMisc:          "misc",
	EntryPhdThesis:     "phdthesis",
	EntryProceedings:   "proceedings",
	EntryTechReport:    "techreport",
	EntryUnpublished:   "unpublished",
}

// String returns the source spelling of the kind.
func (k EntryKind) String() string {
	if int(k) < len(entryKindNames) {
		return entryKindNames[k]
	}
	return ""
}

// MarshalText implements encoding.TextMarshaler.
func (k EntryKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *EntryKind) UnmarshalText(text []byte) error {
	kind, ok := ParseEntryKind(string(text))
	if !ok {
		return fmt.Errorf("unknown entry kind %q", text)
	}
	*k = kind
	return nil
}

// ParseEntryKind looks up an entry kind by its exact spelling.
func ParseEntryKind(name string) (EntryKind, bool) {
	for kind, spelling := range entryKindNames {
		if kind != int(EntryUnknown) && spelling == name {
			return EntryKind(kind), true
		}
	}
	return EntryUnknown, false
}

// EntryKinds returns every recognized kind in declaration order.
func EntryKinds() []EntryKind {
	kinds := make([]EntryKind, 0, len(entryKindNames)-1)
	for kind := EntryBook; kind <= EntryUnpublished; kind++ {
		kinds = append(kinds, kind)
	}
	return kinds
}

// Field is one name = value pair of a bibliography entry.
type Field struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// BibEntry is a parsed @kind{key, field = value, ...} entry.
// Strings are owned copies, so an entry may outlive the source buffer.
type BibEntry struct {
	Kind   EntryKind `json:"kind" yaml:"kind"`
	Key    string    `json:"key" yaml:"key"`
	Fields []Field   `json:"fields" yaml:"fields"`
}

// Field returns the value of the first field with the given name.
// Names compare case-insensitively, as BibTeX does.
func (e *BibEntry) Field(name string) (string, bool) {
	if e == nil {
		return "", false
	}
	for _, f := range e.Fields {
		if strings.EqualFold(f.Name, name) {
			return f.Value, true
		}
	}
	return "", false
}

// Title returns the title field, or the key when the entry has none.
func (e *BibEntry) Title() string {
	if title, ok := e.Field("title"); ok {
		return title
	}
	return e.Key
}
