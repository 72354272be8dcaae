package typst

import (
	"strings"

	"github.com/yaklabco/texoutline/pkg/texast"
)

// codeKeywords introduce a line of code rather than a function call.
//
//nolint:gochecknoglobals // Read-only lookup table.
var codeKeywords = map[string]bool{
	"let":     true,
	"set":     true,
	"show":    true,
	"import":  true,
	"include": true,
}

type parser struct {
	src   string
	pos   int
	nodes []Node
	diags []texast.Diagnostic
}

// Parse splits src into syntax nodes. Concatenating the node spans
// reproduces src. Every syntax error is reported as a diagnostic.
func Parse(src string) ([]Node, []texast.Diagnostic) {
	p := &parser{src: src}
	for p.pos < len(p.src) {
		p.next()
	}
	return p.nodes, p.diags
}

func (p *parser) emit(node Node) {
	p.nodes = append(p.nodes, node)
	p.pos = node.EndOffset
}

func (p *parser) errorf(offset int, msg string) {
	p.diags = append(p.diags, texast.Diagnostic{
		Line:    texast.LineOf(p.src, offset) + 1,
		Message: msg,
	})
}

func (p *parser) atLineStart() bool {
	return p.pos == 0 || p.src[p.pos-1] == '\n'
}

func (p *parser) next() {
	rest := p.src[p.pos:]

	switch {
	case p.atLineStart() && p.heading():
	case strings.HasPrefix(rest, "//"):
		p.emit(Node{Kind: NodeComment, StartOffset: p.pos, EndOffset: p.lineEnd(p.pos)})
	case strings.HasPrefix(rest, "/*"):
		p.blockComment()
	case strings.HasPrefix(rest, "```"):
		p.rawBlock()
	case rest[0] == '`':
		p.delimited('`', NodeRaw, "unclosed raw text")
	case rest[0] == '$':
		p.delimited('$', NodeMath, "unclosed math")
	case rest[0] == '\\':
		end := min(p.pos+2, len(p.src))
		p.emit(Node{Kind: NodeEscape, StartOffset: p.pos, EndOffset: end})
	case rest[0] == '#':
		p.hash()
	case rest[0] == '<' && p.label():
	default:
		p.text()
	}
}

// heading parses "= Title" at the start of a line. Leading spaces are allowed.
func (p *parser) heading() bool {
	idx := p.pos
	for idx < len(p.src) && (p.src[idx] == ' ' || p.src[idx] == '\t') {
		idx++
	}
	level := 0
	for idx < len(p.src) && p.src[idx] == '=' {
		level++
		idx++
	}
	if level == 0 || (idx < len(p.src) && p.src[idx] != ' ' && p.src[idx] != '\n') {
		return false
	}

	end := p.lineEnd(idx)
	title := p.src[idx:end]
	if open := strings.LastIndexByte(title, '<'); open >= 0 && strings.HasSuffix(strings.TrimSpace(title), ">") {
		title = title[:open]
	}

	p.emit(Node{
		Kind:        NodeHeading,
		StartOffset: p.pos,
		EndOffset:   end,
		Level:       level,
		Name:        strings.TrimSpace(title),
	})
	return true
}

func (p *parser) lineEnd(from int) int {
	if nl := strings.IndexByte(p.src[from:], '\n'); nl >= 0 {
		return from + nl
	}
	return len(p.src)
}

func (p *parser) blockComment() {
	end := strings.Index(p.src[p.pos+2:], "*/")
	if end < 0 {
		p.errorf(p.pos, "unclosed block comment")
		p.emit(Node{Kind: NodeComment, StartOffset: p.pos, EndOffset: len(p.src)})
		return
	}
	p.emit(Node{Kind: NodeComment, StartOffset: p.pos, EndOffset: p.pos + 2 + end + 2})
}

func (p *parser) rawBlock() {
	start := p.pos + 3
	end := strings.Index(p.src[start:], "```")
	if end < 0 {
		p.errorf(p.pos, "unclosed raw block")
		p.emit(Node{Kind: NodeText, StartOffset: p.pos, EndOffset: start})
		return
	}

	body := p.src[start : start+end]
	lang := ""
	if idx := strings.IndexAny(body, " \t\r\n"); idx > 0 {
		lang, body = body[:idx], body[idx:]
	}
	p.emit(Node{
		Kind:        NodeRaw,
		StartOffset: p.pos,
		EndOffset:   start + end + 3,
		Name:        lang,
		Body:        body,
		Display:     true,
	})
}

// delimited parses inline raw text or math closed by the same delimiter.
// Backslash escapes the delimiter inside math.
func (p *parser) delimited(delim byte, kind NodeKind, unclosed string) {
	for idx := p.pos + 1; idx < len(p.src); idx++ {
		switch p.src[idx] {
		case '\\':
			if kind == NodeMath {
				idx++
			}
		case delim:
			body := p.src[p.pos+1 : idx]
			p.emit(Node{
				Kind:        kind,
				StartOffset: p.pos,
				EndOffset:   idx + 1,
				Body:        body,
				Display:     kind == NodeMath && isDisplayMath(body),
			})
			return
		}
	}
	p.errorf(p.pos, unclosed)
	p.emit(Node{Kind: NodeText, StartOffset: p.pos, EndOffset: p.pos + 1})
}

// isDisplayMath reports whether math content is padded by whitespace on
// both sides, which makes it a block equation.
func isDisplayMath(body string) bool {
	if strings.TrimSpace(body) == "" {
		return false
	}
	return isSpace(body[0]) && isSpace(body[len(body)-1])
}

func (p *parser) hash() {
	start := p.pos
	idx := start + 1
	for idx < len(p.src) && isIdent(p.src[idx]) {
		idx++
	}
	name := p.src[start+1 : idx]
	if name == "" {
		p.emit(Node{Kind: NodeText, StartOffset: start, EndOffset: idx})
		return
	}

	if codeKeywords[name] {
		end, ok := p.balanced(idx, true)
		if !ok {
			p.emit(Node{Kind: NodeText, StartOffset: start, EndOffset: idx})
			return
		}
		p.emit(Node{Kind: NodeCode, StartOffset: start, EndOffset: end, Name: name, Args: p.src[idx:end]})
		return
	}

	node := Node{Kind: NodeCall, StartOffset: start, Name: name}
	end := idx
	if end < len(p.src) && p.src[end] == '(' {
		closeAt, ok := p.balanced(end, false)
		if !ok {
			p.emit(Node{Kind: NodeText, StartOffset: start, EndOffset: idx})
			return
		}
		node.Args = p.src[end+1 : closeAt-1]
		end = closeAt
	}
	bodyStart := end
	for end < len(p.src) && p.src[end] == '[' {
		closeAt, ok := p.balanced(end, false)
		if !ok {
			p.emit(Node{Kind: NodeText, StartOffset: start, EndOffset: idx})
			return
		}
		end = closeAt
	}
	node.Body = p.src[bodyStart:end]
	node.EndOffset = end
	p.emit(node)
}

// balanced scans from from past a balanced bracket group. Inside code,
// string literals are skipped and all bracket kinds nest; inside [content]
// only square brackets count. With line set it scans code up to the end of
// the line instead, continuing across lines while brackets are open. It
// reports the problem and returns false when the group is not closed.
func (p *parser) balanced(from int, line bool) (int, bool) {
	var stack []byte
	for idx := from; idx < len(p.src); idx++ {
		ch := p.src[idx]
		markup := len(stack) > 0 && stack[len(stack)-1] == ']'
		if markup && ch != '[' && ch != ']' {
			continue
		}

		switch ch {
		case '\n':
			if line && len(stack) == 0 {
				return idx, true
			}
		case '"':
			end, ok := p.stringEnd(idx)
			if !ok {
				return 0, false
			}
			idx = end - 1
		case '(', '[', '{':
			stack = append(stack, closerOf(ch))
		case ')', ']', '}':
			if len(stack) == 0 || stack[len(stack)-1] != ch {
				p.errorf(idx, "unexpected closing delimiter "+string(ch))
				return 0, false
			}
			stack = stack[:len(stack)-1]
			if !line && len(stack) == 0 {
				return idx + 1, true
			}
		}
	}
	if len(stack) == 0 && line {
		return len(p.src), true
	}
	p.errorf(from, "unclosed delimiter")
	return 0, false
}

func (p *parser) stringEnd(open int) (int, bool) {
	for idx := open + 1; idx < len(p.src); idx++ {
		switch p.src[idx] {
		case '\\':
			idx++
		case '"':
			return idx + 1, true
		case '\n':
			p.errorf(open, "unclosed string")
			return 0, false
		}
	}
	p.errorf(open, "unclosed string")
	return 0, false
}

func closerOf(open byte) byte {
	switch open {
	case '(':
		return ')'
	case '[':
		return ']'
	default:
		return '}'
	}
}

func (p *parser) label() bool {
	idx := p.pos + 1
	for idx < len(p.src) && (isIdent(p.src[idx]) || p.src[idx] == ':') {
		idx++
	}
	if idx == p.pos+1 || idx >= len(p.src) || p.src[idx] != '>' {
		return false
	}
	p.emit(Node{Kind: NodeLabel, StartOffset: p.pos, EndOffset: idx + 1, Name: p.src[p.pos+1 : idx]})
	return true
}

// text consumes up to and including the next newline, or up to the next
// byte that may start another node.
func (p *parser) text() {
	idx := p.pos + 1
	if p.src[p.pos] == '\n' {
		p.emit(Node{Kind: NodeText, StartOffset: p.pos, EndOffset: idx})
		return
	}
	for idx < len(p.src) {
		ch := p.src[idx]
		if ch == '\n' {
			idx++
			break
		}
		if strings.IndexByte("`$\\#<", ch) >= 0 || p.commentAt(idx) {
			break
		}
		idx++
	}
	p.emit(Node{Kind: NodeText, StartOffset: p.pos, EndOffset: idx})
}

// commentAt reports whether a comment starts at idx. "//" after a colon is
// taken as part of a URL.
func (p *parser) commentAt(idx int) bool {
	if p.src[idx] != '/' || idx+1 >= len(p.src) {
		return false
	}
	switch p.src[idx+1] {
	case '*':
		return true
	case '/':
		return idx == 0 || p.src[idx-1] != ':'
	default:
		return false
	}
}

func isIdent(b byte) bool {
	return b == '_' || b == '-' || b == '.' ||
		(b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r' || b == '\n'
}
