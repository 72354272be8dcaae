package texast

import (
	"strconv"
	"strings"
)

// Kind classifies a token in the markup source.
type Kind uint16

// Token kinds, in lexer dispatch order where it matters.
const (
	KindText Kind = iota
	KindEscape
	KindLineBreak
	KindCommand
	KindGroup
	KindMath
	KindComment
	KindReference
)

var kindNames = [...]string{
	KindText:      "Text",
	KindEscape:    "Escape",
	KindLineBreak: "LineBreak",
	KindCommand:   "Command",
	KindGroup:     "Group",
	KindMath:      "Math",
	KindComment:   "Comment",
	KindReference: "Reference",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// MathStyle records which dollar quoting delimited a math span.
type MathStyle uint8

const (
	// MathSingle is an inline span: $...$.
	MathSingle MathStyle = iota + 1
	// MathDouble is a display span: $$...$$.
	MathDouble
)

func (m MathStyle) String() string {
	switch m {
	case MathSingle:
		return "single"
	case MathDouble:
		return "double"
	default:
		return "none"
	}
}

// Token represents a typed span of bytes in the source.
// Top-level tokens are contiguous and non-overlapping, covering [0, len(src)).
type Token struct {
	// Kind classifies what this token represents.
	Kind Kind

	// StartOffset is the byte index where this token begins (inclusive).
	StartOffset int

	// EndOffset is the byte index where this token ends (exclusive).
	EndOffset int

	// Command is set for KindCommand.
	Command *Command

	// Children holds the tokens between the braces of a KindGroup.
	Children []Token

	// Math is set for KindMath.
	Math MathStyle

	// Entry is set for KindReference.
	Entry *BibEntry
}

// Command is a control sequence with its optional options and arguments.
type Command struct {
	// Name is the control sequence name without the leading backslash.
	Name string

	// Options are the comma-separated entries of a [...] list.
	// Nil means the command had no option list.
	Options []string

	// Argument is the first brace-delimited argument, if any.
	Argument *Argument

	// ExtraArgument is the second brace-delimited argument, if any.
	ExtraArgument *Argument
}

// Argument is a brace-delimited command argument.
// An argument that lexes to exactly one plain text token is kept as Text;
// anything else keeps its nested tokens.
type Argument struct {
	Text   string
	Tokens []Token
}

// IsText reports whether the argument reduced to plain text.
func (a *Argument) IsText() bool {
	return a != nil && a.Tokens == nil
}

// String renders the argument content. Nested tokens are rendered from src.
func (a *Argument) String(src string) string {
	if a == nil {
		return ""
	}
	if a.Tokens == nil {
		return a.Text
	}
	return Render(src, a.Tokens)
}

// Text returns the source text of this token.
func (t Token) Text(src string) string {
	if t.StartOffset < 0 || t.EndOffset > len(src) || t.StartOffset > t.EndOffset {
		return ""
	}
	return src[t.StartOffset:t.EndOffset]
}

// Len returns the length of this token in bytes.
func (t Token) Len() int {
	return t.EndOffset - t.StartOffset
}

// Range returns the byte range covered by the token.
func (t Token) Range() SourceRange {
	return SourceRange{StartOffset: t.StartOffset, EndOffset: t.EndOffset}
}

// IsCommand reports whether t is a command with the given name.
func (t Token) IsCommand(name string) bool {
	return t.Kind == KindCommand && t.Command != nil && t.Command.Name == name
}

// Environment returns the environment name of a begin or end command.
func (t Token) Environment(src string) string {
	if t.Kind != KindCommand || t.Command == nil {
		return ""
	}
	return strings.TrimSpace(t.Command.Argument.String(src))
}

// Render concatenates the source spans of tokens in order.
// For a complete top-level token slice this reproduces the source.
func Render(src string, tokens []Token) string {
	var b strings.Builder
	for _, tok := range tokens {
		b.WriteString(tok.Text(src))
	}
	return b.String()
}

// ValidateTokens checks that a token slice is valid:
// - Tokens are contiguous and non-overlapping.
// - Tokens cover the full content range [0, contentLen).
// Returns true if valid, false otherwise.
func ValidateTokens(tokens []Token, contentLen int) bool {
	if len(tokens) == 0 {
		return contentLen == 0
	}

	if tokens[0].StartOffset != 0 {
		return false
	}

	if tokens[len(tokens)-1].EndOffset != contentLen {
		return false
	}

	for i := 1; i < len(tokens); i++ {
		if tokens[i].StartOffset != tokens[i-1].EndOffset {
			return false
		}
	}

	return true
}
