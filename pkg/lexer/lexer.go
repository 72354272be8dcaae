// Package lexer turns LaTeX/BibTeX style markup into a flat, lossless
// sequence of texast tokens.
//
// At every position the lexer tries a fixed list of alternatives and the
// first that matches wins:
//
//  1. escaped special character (\&, \%, \$, \#, \_, \{, \}, ...)
//  2. line break (\\)
//  3. command with optional [options] and up to two {arguments}
//  4. math span ($$...$$, then $...$)
//  5. line comment (% to end of line)
//  6. bibliography entry (@kind{key, field = value, ...})
//  7. brace group ({...}, contents lexed recursively)
//  8. text run
//
// The order is load-bearing: reordering changes which kind wins on
// ambiguous input.
package lexer

import (
	"fmt"
	"strings"

	"github.com/yaklabco/texoutline/pkg/texast"
)

// DefaultMaxDepth bounds the nesting of groups and command arguments.
const DefaultMaxDepth = 128

// Option configures a lexing pass.
type Option func(*lexer)

// WithMaxDepth sets the maximum nesting depth of groups and arguments.
// Values below one fall back to DefaultMaxDepth.
func WithMaxDepth(depth int) Option {
	return func(l *lexer) {
		if depth > 0 {
			l.maxDepth = depth
		}
	}
}

type lexer struct {
	src      string
	depth    int
	maxDepth int

	// tooDeep is set once any alternative failed because of maxDepth.
	tooDeep bool
}

// Scan tokenizes the whole of src.
// It either consumes all input or returns a *LexError locating the first
// byte it could not consume. Concatenating the returned token spans
// reproduces src exactly.
func Scan(src string, opts ...Option) ([]texast.Token, error) {
	l := &lexer{src: src, maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(l)
	}

	tokens, pos := l.sequence(0)
	if pos < len(src) {
		msg := "unexpected input"
		if l.tooDeep {
			msg = fmt.Sprintf("maximum nesting depth %d exceeded", l.maxDepth)
		}
		return nil, &LexError{
			Message: msg,
			Line:    texast.LineOf(src, pos),
			Offset:  pos,
			Snippet: snippet(src[pos:]),
		}
	}

	return tokens, nil
}

// sequence lexes tokens from pos until no alternative advances.
// It returns the tokens and the first position it could not consume.
func (l *lexer) sequence(pos int) ([]texast.Token, int) {
	var tokens []texast.Token
	for pos < len(l.src) {
		tok, ok := l.next(pos)
		if !ok {
			break
		}
		tokens = append(tokens, tok)
		pos = tok.EndOffset
	}
	return tokens, pos
}

// next tries every alternative at pos in precedence order.
func (l *lexer) next(pos int) (texast.Token, bool) {
	alternatives := [...]func(int) (texast.Token, bool){
		l.escape,
		l.lineBreak,
		l.command,
		l.math,
		l.comment,
		l.reference,
		l.group,
		l.text,
	}
	for _, alt := range alternatives {
		if tok, ok := alt(pos); ok {
			return tok, true
		}
	}
	return texast.Token{}, false
}

// escapable lists the characters that form an Escape after a backslash.
// Brackets and whitespace are included so that \[, \] and control spaces,
// which have no command name, still lex.
const escapable = "&%$#_{}[]~^ \t\r\n"

func (l *lexer) escape(pos int) (texast.Token, bool) {
	if pos+1 >= len(l.src) || l.src[pos] != '\\' {
		return texast.Token{}, false
	}
	if strings.IndexByte(escapable, l.src[pos+1]) < 0 {
		return texast.Token{}, false
	}
	return texast.Token{Kind: texast.KindEscape, StartOffset: pos, EndOffset: pos + 2}, true
}

func (l *lexer) lineBreak(pos int) (texast.Token, bool) {
	if !strings.HasPrefix(l.src[pos:], `\\`) {
		return texast.Token{}, false
	}
	return texast.Token{Kind: texast.KindLineBreak, StartOffset: pos, EndOffset: pos + 2}, true
}

func (l *lexer) math(pos int) (texast.Token, bool) {
	rest := l.src[pos:]
	if strings.HasPrefix(rest, "$$") {
		if end := strings.IndexByte(rest[2:], '$'); end >= 0 && strings.HasPrefix(rest[2+end:], "$$") {
			return texast.Token{
				Kind:        texast.KindMath,
				StartOffset: pos,
				EndOffset:   pos + 2 + end + 2,
				Math:        texast.MathDouble,
			}, true
		}
	}
	if strings.HasPrefix(rest, "$") {
		if end := strings.IndexByte(rest[1:], '$'); end >= 0 {
			return texast.Token{
				Kind:        texast.KindMath,
				StartOffset: pos,
				EndOffset:   pos + 1 + end + 1,
				Math:        texast.MathSingle,
			}, true
		}
	}
	return texast.Token{}, false
}

func (l *lexer) comment(pos int) (texast.Token, bool) {
	if l.src[pos] != '%' {
		return texast.Token{}, false
	}
	end := strings.IndexByte(l.src[pos:], '\n')
	if end < 0 {
		end = len(l.src) - pos
	}
	return texast.Token{Kind: texast.KindComment, StartOffset: pos, EndOffset: pos + end}, true
}

func (l *lexer) reference(pos int) (texast.Token, bool) {
	if l.src[pos] != '@' {
		return texast.Token{}, false
	}
	rest, entry, ok := ParseEntry(l.src[pos:])
	if !ok {
		return texast.Token{}, false
	}
	return texast.Token{
		Kind:        texast.KindReference,
		StartOffset: pos,
		EndOffset:   len(l.src) - len(rest),
		Entry:       &entry,
	}, true
}

func (l *lexer) group(pos int) (texast.Token, bool) {
	if l.src[pos] != '{' {
		return texast.Token{}, false
	}
	children, end, ok := l.braced(pos)
	if !ok {
		return texast.Token{}, false
	}
	return texast.Token{
		Kind:        texast.KindGroup,
		StartOffset: pos,
		EndOffset:   end,
		Children:    children,
	}, true
}

// braced lexes the content of a brace pair opening at pos.
// It returns the inner tokens and the offset just past the closing brace.
func (l *lexer) braced(pos int) ([]texast.Token, int, bool) {
	if l.depth >= l.maxDepth {
		l.tooDeep = true
		return nil, 0, false
	}
	l.depth++
	children, end := l.sequence(pos + 1)
	l.depth--

	if end >= len(l.src) || l.src[end] != '}' {
		return nil, 0, false
	}
	if children == nil {
		children = []texast.Token{}
	}
	return children, end + 1, true
}

// textStops are the bytes that end a text run.
const textStops = "\\%$@{}"

func (l *lexer) text(pos int) (texast.Token, bool) {
	end := pos
	// A leading '@' reaches this point only when no bibliography entry
	// matched, so it is ordinary text.
	if l.src[end] == '@' {
		end++
	}
	for end < len(l.src) && strings.IndexByte(textStops, l.src[end]) < 0 {
		end++
	}
	if end == pos {
		return texast.Token{}, false
	}
	return texast.Token{Kind: texast.KindText, StartOffset: pos, EndOffset: end}, true
}
