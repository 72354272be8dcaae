package pretty

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss/tree"
	"github.com/samber/lo"

	"github.com/yaklabco/texoutline/pkg/document"
)

// OutlineOptions controls which outline items are drawn.
type OutlineOptions struct {
	// Objects limits the object kinds shown. Nil shows every kind.
	Objects []document.ObjectKind

	// Lines appends the source line of each item.
	Lines bool
}

// FormatOutline draws a document as a tree rooted at title.
func (s *Styles) FormatOutline(title string, doc *document.Document, opts OutlineOptions) string {
	root := tree.Root(s.Document.Render(title)).
		Enumerator(tree.RoundedEnumerator).
		EnumeratorStyle(s.Enumerator)

	if doc == nil || len(doc.Items) == 0 {
		root.Child(s.Dim.Render("(empty)"))
		return root.String() + "\n"
	}

	s.addItems(root, doc.Items, opts)
	return root.String() + "\n"
}

func (s *Styles) addItems(parent *tree.Tree, items []document.Item, opts OutlineOptions) {
	for idx := range items {
		item := &items[idx]
		switch {
		case item.Section != nil:
			node := tree.Root(s.withLine(s.Section.Render(fmt.Sprintf("%d %s", item.Section.Index+1, item.Section.Name)), item, opts))
			s.addItems(node, item.Section.Items, opts)
			parent.Child(node)
		case item.Subsection != nil:
			sub := item.Subsection
			label := fmt.Sprintf("%d.%d %s", sub.Parent+1, sub.Local+1, sub.Name)
			node := tree.Root(s.withLine(s.Subsection.Render(label), item, opts))
			s.addItems(node, sub.Items, opts)
			parent.Child(node)
		case item.Object != nil:
			if opts.Objects != nil && !lo.Contains(opts.Objects, item.Object.Kind) {
				continue
			}
			parent.Child(s.withLine(s.FormatObject(item.Object), item, opts))
		}
	}
}

func (s *Styles) withLine(text string, item *document.Item, opts OutlineOptions) string {
	if !opts.Lines || item.Line <= 0 {
		return text
	}
	return text + s.Location.Render(fmt.Sprintf(" :%d", item.Line))
}

// FormatObject renders one object on a single line, for example
// "table 2 [tab:results] Results by year".
func (s *Styles) FormatObject(obj *document.Object) string {
	parts := []string{s.Object.Render(fmt.Sprintf("%s %d", obj.Kind, obj.Ordinal+1))}
	if obj.Label != "" {
		parts = append(parts, s.Label.Render("["+obj.Label+"]"))
	}
	if obj.File != "" {
		parts = append(parts, s.Dim.Render(obj.File))
	}
	if obj.Language != "" {
		parts = append(parts, s.Dim.Render("("+obj.Language+")"))
	}
	if obj.Caption != "" {
		parts = append(parts, s.Caption.Render(obj.Caption))
	}
	return strings.Join(parts, " ")
}
