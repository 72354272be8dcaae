// Package typst extracts outlines from Typst style markup.
//
// The markup is parsed into a flat list of syntax nodes (headings, function
// calls, raw blocks, math, comments, labels and text). Unlike the LaTeX
// lexer the parser does not stop at the first problem: every unclosed
// delimiter is reported and parsing resumes after it.
package typst

// NodeKind classifies a syntax node.
type NodeKind uint8

const (
	NodeText NodeKind = iota
	NodeHeading
	NodeCall
	NodeCode
	NodeRaw
	NodeMath
	NodeComment
	NodeEscape
	NodeLabel
)

//nolint:gochecknoglobals // Read-only lookup table.
var nodeKindNames = [...]string{
	NodeText:    "Text",
	NodeHeading: "Heading",
	NodeCall:    "Call",
	NodeCode:    "Code",
	NodeRaw:     "Raw",
	NodeMath:    "Math",
	NodeComment: "Comment",
	NodeEscape:  "Escape",
	NodeLabel:   "Label",
}

func (k NodeKind) String() string {
	if int(k) < len(nodeKindNames) {
		return nodeKindNames[k]
	}
	return "Unknown"
}

// Node is one syntax node. Offsets are byte offsets into the source.
type Node struct {
	Kind        NodeKind
	StartOffset int
	EndOffset   int

	// Level is the number of '=' of a heading.
	Level int

	// Name is the heading text, the function or keyword name of a call,
	// the language of a raw block or the name of a label.
	Name string

	// Args is the source between the parentheses of a call.
	Args string

	// Body is the source of trailing [content] blocks of a call, or the
	// content of raw text and math.
	Body string

	// Display is set for block-level raw text and display math.
	Display bool
}

// Text returns the source of the node.
func (n Node) Text(src string) string {
	return src[n.StartOffset:n.EndOffset]
}
