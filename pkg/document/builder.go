package document

// Builder assembles a Document from markers fed in document order.
// Front ends translate their own syntax into calls on a Builder, so every
// dialect shares the same counting and nesting rules.
type Builder struct {
	items []Item

	section    *Item
	subsection *Item

	sections  int
	subLocal  int
	subGlobal int
	ordinals  [objectKindCount]int
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Section opens a new section, closing any open subsection and section.
func (b *Builder) Section(name string, tokenIndex, line int) error {
	if name == "" {
		return &BuildError{Kind: UnnamedSection, Line: line}
	}

	b.sealSubsection()
	b.sealSection()

	b.section = &Item{
		TokenIndex: tokenIndex,
		Line:       line,
		Section:    &Section{Name: name, Index: b.sections},
	}
	b.sections++
	b.subLocal = 0
	return nil
}

// Subsection opens a new subsection inside the open section.
func (b *Builder) Subsection(name string, tokenIndex, line int) error {
	if b.section == nil {
		return &BuildError{Kind: SubsectionWithoutSection, Line: line}
	}
	if name == "" {
		return &BuildError{Kind: UnnamedSubsection, Line: line}
	}

	b.sealSubsection()

	b.subsection = &Item{
		TokenIndex: tokenIndex,
		Line:       line,
		Subsection: &Subsection{
			Name:   name,
			Parent: b.section.Section.Index,
			Local:  b.subLocal,
			Global: b.subGlobal,
		},
	}
	b.subLocal++
	b.subGlobal++
	return nil
}

// Object appends obj to the innermost open container. Its Ordinal and
// Index are assigned here; the returned pointer may be used to fill in
// details found after the object marker.
func (b *Builder) Object(obj Object, tokenIndex, line int) *Object {
	obj.Ordinal = b.ordinals[obj.Kind]
	b.ordinals[obj.Kind]++

	item := Item{TokenIndex: tokenIndex, Line: line, Object: &obj}

	switch {
	case b.subsection != nil:
		sub := b.subsection.Subsection
		obj.Index = ObjectIndex{
			Level:      LevelSubsection,
			Section:    sub.Parent,
			Subsection: sub.Local,
			Pos:        len(sub.Items),
		}
		sub.Items = append(sub.Items, item)
	case b.section != nil:
		sec := b.section.Section
		obj.Index = ObjectIndex{Level: LevelSection, Section: sec.Index, Pos: len(sec.Items)}
		sec.Items = append(sec.Items, item)
	default:
		obj.Index = ObjectIndex{Level: LevelRoot, Pos: len(b.items)}
		b.items = append(b.items, item)
	}

	return &obj
}

// Finish closes any open containers and returns the document.
// The builder must not be used afterwards.
func (b *Builder) Finish() *Document {
	b.sealSubsection()
	b.sealSection()
	return &Document{Items: b.items}
}

func (b *Builder) sealSubsection() {
	if b.subsection == nil {
		return
	}
	b.section.Section.Items = append(b.section.Section.Items, *b.subsection)
	b.subsection = nil
}

func (b *Builder) sealSection() {
	if b.section == nil {
		return
	}
	b.items = append(b.items, *b.section)
	b.section = nil
}
