// Package blocks reconciles \begin{...} and \end{...} commands in a flat
// token sequence into a tree of environments.
package blocks

import (
	"github.com/yaklabco/texoutline/pkg/texast"
)

// Node is one element of a block tree: either a leaf token or a nested block.
// Exactly one field is set.
type Node struct {
	Token *texast.Token
	Block *Block
}

// IsBlock reports whether the node is a nested block.
func (n Node) IsBlock() bool {
	return n.Block != nil
}

// TokenCount returns the number of top-level tokens the node spans.
func (n Node) TokenCount() int {
	if n.Block != nil {
		return n.Block.TokenCount()
	}
	return 1
}

// Block is an environment delimited by a begin/end command pair.
type Block struct {
	// Name is the environment name taken from the begin command.
	Name string

	// Start is the \begin command.
	Start *texast.Token

	// End is the \end command. It is nil only while the block is open.
	End *texast.Token

	// Inner holds the tokens and blocks between Start and End.
	Inner []Node
}

// TokenCount returns 2 for the delimiting commands plus the token count of
// every child.
func (b *Block) TokenCount() int {
	count := 2
	for _, node := range b.Inner {
		count += node.TokenCount()
	}
	return count
}

// Range returns the source span from the begin command through the end command.
func (b *Block) Range() texast.SourceRange {
	r := b.Start.Range()
	if b.End != nil {
		r.EndOffset = b.End.EndOffset
	}
	return r
}

// Content returns the source between the begin and end commands.
func (b *Block) Content(src string) string {
	if b.End == nil {
		return ""
	}
	return src[b.Start.EndOffset:b.End.StartOffset]
}

// Build nests tokens into blocks. Leaf nodes point into tokens, so the
// slice must not be modified while the tree is in use.
func Build(src string, tokens []texast.Token) ([]Node, error) {
	var (
		out   []Node
		stack []*Block
	)

	appendNode := func(node Node) {
		if len(stack) == 0 {
			out = append(out, node)
			return
		}
		top := stack[len(stack)-1]
		top.Inner = append(top.Inner, node)
	}

	for idx := range tokens {
		tok := &tokens[idx]

		switch {
		case tok.IsCommand("begin"):
			stack = append(stack, &Block{Name: tok.Environment(src), Start: tok})

		case tok.IsCommand("end"):
			name := tok.Environment(src)
			if len(stack) == 0 {
				return nil, newStructuralError(src, UnmatchedEnd, "", name, tok.StartOffset)
			}
			top := stack[len(stack)-1]
			if top.Name != name {
				return nil, newStructuralError(src, MismatchedEnd, top.Name, name, tok.StartOffset)
			}
			stack = stack[:len(stack)-1]
			top.End = tok
			appendNode(Node{Block: top})

		default:
			appendNode(Node{Token: tok})
		}
	}

	if len(stack) > 0 {
		open := stack[0]
		return nil, newStructuralError(src, UnterminatedBlock, open.Name, "", open.Start.StartOffset)
	}

	return out, nil
}

// Walk calls fn for every node in pre-order, with the linear index of the
// node's first top-level token. Returning false from fn skips the children
// of a block.
func Walk(nodes []Node, start int, fn func(node Node, index int) bool) {
	idx := start
	for _, node := range nodes {
		if fn(node, idx) && node.Block != nil {
			Walk(node.Block.Inner, idx+1, fn)
		}
		idx += node.TokenCount()
	}
}
