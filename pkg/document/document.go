// Package document holds the outline of a parsed source: sections,
// subsections and the typed objects they contain.
package document

import (
	"fmt"
	"iter"
	"reflect"
)

// ObjectKind classifies a leaf object.
type ObjectKind uint8

const (
	ObjectTable ObjectKind = iota
	ObjectImage
	ObjectEquation
	ObjectCode
	ObjectBibliography

	objectKindCount
)

//nolint:gochecknoglobals // Read-only lookup table.
var objectKindNames = [...]string{
	ObjectTable:        "table",
	ObjectImage:        "image",
	ObjectEquation:     "equation",
	ObjectCode:         "code",
	ObjectBibliography: "bibliography",
}

func (k ObjectKind) String() string {
	if k < objectKindCount {
		return objectKindNames[k]
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler.
func (k ObjectKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *ObjectKind) UnmarshalText(text []byte) error {
	kind, ok := ParseObjectKind(string(text))
	if !ok {
		return fmt.Errorf("unknown object kind %q", text)
	}
	*k = kind
	return nil
}

// ParseObjectKind looks up an object kind by name.
func ParseObjectKind(name string) (ObjectKind, bool) {
	for kind, spelling := range objectKindNames {
		if spelling == name {
			return ObjectKind(kind), true
		}
	}
	return 0, false
}

// ObjectKinds returns every object kind.
func ObjectKinds() []ObjectKind {
	kinds := make([]ObjectKind, 0, objectKindCount)
	for kind := range objectKindCount {
		kinds = append(kinds, kind)
	}
	return kinds
}

// Level is the kind of container an object sits in.
type Level uint8

const (
	LevelRoot Level = iota
	LevelSection
	LevelSubsection
)

func (l Level) String() string {
	switch l {
	case LevelRoot:
		return "root"
	case LevelSection:
		return "section"
	case LevelSubsection:
		return "subsection"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Level) UnmarshalText(text []byte) error {
	for _, level := range []Level{LevelRoot, LevelSection, LevelSubsection} {
		if level.String() == string(text) {
			*l = level
			return nil
		}
	}
	return fmt.Errorf("unknown level %q", text)
}

// ObjectIndex locates an object: its container and its position among the
// container's items. Section and Subsection are only meaningful at the
// matching level; Subsection is the local index within the section.
type ObjectIndex struct {
	Level      Level `json:"level" yaml:"level"`
	Section    int   `json:"section" yaml:"section"`
	Subsection int   `json:"subsection" yaml:"subsection"`
	Pos        int   `json:"pos" yaml:"pos"`
}

// Object is a leaf item such as a table or an image.
type Object struct {
	Kind ObjectKind `json:"kind" yaml:"kind"`

	// Ordinal counts objects of the same kind in document order, from 0.
	Ordinal int         `json:"ordinal" yaml:"ordinal"`
	Index   ObjectIndex `json:"index" yaml:"index"`

	Label    string `json:"label,omitempty" yaml:"label,omitempty"`
	Caption  string `json:"caption,omitempty" yaml:"caption,omitempty"`
	Language string `json:"language,omitempty" yaml:"language,omitempty"`

	// File is the referenced file of images and bibliographies.
	File string `json:"file,omitempty" yaml:"file,omitempty"`
}

// Section is a top-level division.
type Section struct {
	Name  string `json:"name" yaml:"name"`
	Index int    `json:"index" yaml:"index"`
	Items []Item `json:"items,omitempty" yaml:"items,omitempty"`
}

// Subsection is a division inside a section.
type Subsection struct {
	Name   string `json:"name" yaml:"name"`
	Parent int    `json:"parent" yaml:"parent"`
	Local  int    `json:"local" yaml:"local"`
	Global int    `json:"global" yaml:"global"`
	Items  []Item `json:"items,omitempty" yaml:"items,omitempty"`
}

// Item is one outline entry. Exactly one of Section, Subsection and Object
// is set.
type Item struct {
	// TokenIndex is the linear index of the token the item begins at.
	TokenIndex int `json:"token_index" yaml:"token_index"`

	// Line is the 1-based source line the item begins at.
	Line int `json:"line" yaml:"line"`

	Section    *Section    `json:"section,omitempty" yaml:"section,omitempty"`
	Subsection *Subsection `json:"subsection,omitempty" yaml:"subsection,omitempty"`
	Object     *Object     `json:"object,omitempty" yaml:"object,omitempty"`
}

// Children returns the nested items of a section or subsection.
func (it *Item) Children() []Item {
	switch {
	case it.Section != nil:
		return it.Section.Items
	case it.Subsection != nil:
		return it.Subsection.Items
	default:
		return nil
	}
}

// Name returns the section or subsection name, or the object kind.
func (it *Item) Name() string {
	switch {
	case it.Section != nil:
		return it.Section.Name
	case it.Subsection != nil:
		return it.Subsection.Name
	case it.Object != nil:
		return it.Object.Kind.String()
	default:
		return ""
	}
}

// Document is the outline of one source.
type Document struct {
	Items []Item `json:"items" yaml:"items"`
}

// ItemAt resolves an outline path: a root index, then optionally an index
// within that section, then optionally an index within that subsection.
// Paths of other lengths, out of range indices and paths that descend into
// anything other than the expected container resolve to nothing.
func (d *Document) ItemAt(path []int) (*Item, bool) {
	if d == nil || len(path) < 1 || len(path) > 3 {
		return nil, false
	}

	item, ok := at(d.Items, path[0])
	if !ok || len(path) == 1 {
		return item, ok
	}
	if item.Section == nil {
		return nil, false
	}

	item, ok = at(item.Section.Items, path[1])
	if !ok || len(path) == 2 {
		return item, ok
	}
	if item.Subsection == nil {
		return nil, false
	}

	return at(item.Subsection.Items, path[2])
}

// TokenIndexAt returns the token index at which the item at path begins.
func (d *Document) TokenIndexAt(path []int) (int, bool) {
	item, ok := d.ItemAt(path)
	if !ok {
		return 0, false
	}
	return item.TokenIndex, true
}

func at(items []Item, idx int) (*Item, bool) {
	if idx < 0 || idx >= len(items) {
		return nil, false
	}
	return &items[idx], true
}

// Objects yields every object, container by container, in document order.
func (d *Document) Objects() iter.Seq[*Object] {
	return func(yield func(*Object) bool) {
		if d == nil {
			return
		}
		walkObjects(d.Items, yield)
	}
}

func walkObjects(items []Item, yield func(*Object) bool) bool {
	for idx := range items {
		item := &items[idx]
		if item.Object != nil {
			if !yield(item.Object) {
				return false
			}
			continue
		}
		if !walkObjects(item.Children(), yield) {
			return false
		}
	}
	return true
}

// Sections returns the top-level sections in order.
func (d *Document) Sections() []*Section {
	if d == nil {
		return nil
	}
	var sections []*Section
	for idx := range d.Items {
		if s := d.Items[idx].Section; s != nil {
			sections = append(sections, s)
		}
	}
	return sections
}

// Counts tallies objects per kind.
func (d *Document) Counts() map[ObjectKind]int {
	counts := make(map[ObjectKind]int)
	for obj := range d.Objects() {
		counts[obj.Kind]++
	}
	return counts
}

// Equal reports whether two documents are structurally identical.
func (d *Document) Equal(other *Document) bool {
	return reflect.DeepEqual(d, other)
}
