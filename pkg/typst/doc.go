package typst

import (
	"errors"
	"strings"

	"github.com/yaklabco/texoutline/pkg/document"
	"github.com/yaklabco/texoutline/pkg/texast"
)

// Snapshot is the owned result of one Typst parse. It maps node indices to
// lines and exposes the spans compared between revisions.
type Snapshot struct {
	Text  string
	Nodes []Node
	Lines texast.Lines
}

// Len returns the number of nodes.
func (s *Snapshot) Len() int {
	return len(s.Nodes)
}

// LineOfToken returns the 1-based line where node i starts.
func (s *Snapshot) LineOfToken(i int) (int, bool) {
	if i < 0 || i >= len(s.Nodes) {
		return 0, false
	}
	line, _ := s.Lines.LineAt(s.Nodes[i].StartOffset)
	return line, line > 0
}

// Spans returns the source of top-level headings for AxisSections and of
// bibliography calls for AxisReferences.
func (s *Snapshot) Spans(axis texast.Axis) []string {
	var spans []string
	for _, node := range s.Nodes {
		switch {
		case axis == texast.AxisSections && node.Kind == NodeHeading && node.Level == 1,
			axis == texast.AxisReferences && node.Kind == NodeCall && node.Name == "bibliography":
			spans = append(spans, node.Text(s.Text))
		}
	}
	return spans
}

// ParseDoc parses Typst markup into an outline. Level one headings open
// sections and level two headings open subsections; tables, images,
// figures, display math, raw blocks and bibliography calls become objects.
// On failure the document is nil and every problem found is returned.
func ParseDoc(src string, opts ...document.Option) (*document.Document, *Snapshot, []texast.Diagnostic) {
	text := strings.Clone(src)
	nodes, diags := Parse(text)
	snap := &Snapshot{Text: text, Nodes: nodes, Lines: texast.BuildLines(text)}

	b := &docBuilder{
		snap:    snap,
		builder: document.NewBuilder(),
		opts:    document.ApplyOptions(opts...),
	}
	for idx := range nodes {
		if err := b.node(idx); err != nil {
			var buildErr *document.BuildError
			if !errors.As(err, &buildErr) {
				return nil, snap, []texast.Diagnostic{{Message: err.Error()}}
			}
			diags = append(diags, texast.Diagnostic{Line: buildErr.Line, Message: buildErr.Kind.String()})
		}
	}

	if len(diags) > 0 {
		return nil, snap, diags
	}
	return b.builder.Finish(), snap, nil
}

type docBuilder struct {
	snap    *Snapshot
	builder *document.Builder
	opts    document.Options
}

func (b *docBuilder) node(idx int) error {
	node := b.snap.Nodes[idx]
	line, _ := b.snap.LineOfToken(idx)

	switch node.Kind {
	case NodeHeading:
		switch node.Level {
		case 1:
			return b.builder.Section(node.Name, idx, line)
		case 2:
			return b.builder.Subsection(node.Name, idx, line)
		}

	case NodeMath:
		if node.Display {
			b.object(document.Object{Kind: document.ObjectEquation}, idx, line)
		}

	case NodeRaw:
		if node.Display {
			b.object(document.Object{Kind: document.ObjectCode, Language: b.language(node)}, idx, line)
		}

	case NodeCall:
		if obj, ok := b.call(node); ok {
			b.object(obj, idx, line)
		}
	}
	return nil
}

func (b *docBuilder) object(obj document.Object, idx, line int) {
	obj.Label = b.followingLabel(idx)
	b.builder.Object(obj, idx, line)
}

// call maps a function call to an object.
func (b *docBuilder) call(node Node) (document.Object, bool) {
	switch node.Name {
	case "table":
		return document.Object{Kind: document.ObjectTable}, true
	case "image":
		return document.Object{Kind: document.ObjectImage, File: firstString(node.Args)}, true
	case "bibliography":
		return document.Object{Kind: document.ObjectBibliography, File: firstString(node.Args)}, true
	case "figure":
		return b.figure(node)
	default:
		return document.Object{}, false
	}
}

// figure classifies a figure by its body: the first positional argument or
// the trailing content block.
func (b *docBuilder) figure(node Node) (document.Object, bool) {
	body := strings.TrimSpace(node.Body)
	if args := strings.TrimSpace(node.Args); args != "" && !strings.HasPrefix(args, "caption") {
		body = args
	}
	body = strings.TrimPrefix(strings.TrimPrefix(body, "["), "#")

	var obj document.Object
	switch {
	case strings.HasPrefix(body, "image("):
		obj = document.Object{Kind: document.ObjectImage, File: firstString(body)}
	case strings.HasPrefix(body, "table("):
		obj = document.Object{Kind: document.ObjectTable}
	case strings.HasPrefix(body, "```"):
		lang := ""
		if fields := strings.Fields(strings.TrimPrefix(body, "```")); len(fields) > 0 {
			lang = fields[0]
		}
		obj = document.Object{Kind: document.ObjectCode, Language: strings.Clone(lang)}
	default:
		return document.Object{}, false
	}
	obj.Caption = namedContent(node.Args, "caption")
	return obj, true
}

// followingLabel returns the label attached right after node idx, allowing
// intervening blank text.
func (b *docBuilder) followingLabel(idx int) string {
	for next := idx + 1; next < len(b.snap.Nodes); next++ {
		node := b.snap.Nodes[next]
		switch {
		case node.Kind == NodeLabel:
			return strings.Clone(node.Name)
		case node.Kind == NodeText && strings.TrimSpace(node.Text(b.snap.Text)) == "":
			continue
		default:
			return ""
		}
	}
	return ""
}

func (b *docBuilder) language(node Node) string {
	if node.Name != "" {
		return strings.Clone(node.Name)
	}
	if detect := b.opts.DetectLanguage; detect != nil {
		return detect(node.Body)
	}
	return ""
}

// firstString returns the content of the first string literal in args.
func firstString(args string) string {
	open := strings.IndexByte(args, '"')
	if open < 0 {
		return ""
	}
	for idx := open + 1; idx < len(args); idx++ {
		switch args[idx] {
		case '\\':
			idx++
		case '"':
			return strings.Clone(args[open+1 : idx])
		}
	}
	return ""
}

// namedContent returns the text of a named argument whose value is a
// [content] block or a string.
func namedContent(args, name string) string {
	idx := strings.Index(args, name+":")
	if idx < 0 {
		return ""
	}
	value := strings.TrimSpace(args[idx+len(name)+1:])
	switch {
	case strings.HasPrefix(value, "\""):
		return firstString(value)
	case strings.HasPrefix(value, "["):
		depth := 0
		for i := 0; i < len(value); i++ {
			switch value[i] {
			case '[':
				depth++
			case ']':
				depth--
				if depth == 0 {
					return strings.Clone(strings.TrimSpace(value[1:i]))
				}
			}
		}
	}
	return ""
}
