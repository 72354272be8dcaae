package lexer

import (
	"strings"

	"github.com/yaklabco/texoutline/pkg/texast"
)

// maxArguments is the number of brace arguments a command may take.
const maxArguments = 2

// command lexes \name[opt, ...]{arg}{arg}.
// The option list may instead follow the first argument, as in
// \begin{table}[h] or \newcommand{\x}[1]{...}. A command followed by a
// third argument or a second option list does not match, so that input is
// left to the remaining alternatives.
func (l *lexer) command(pos int) (texast.Token, bool) {
	if l.src[pos] != '\\' {
		return texast.Token{}, false
	}

	end := pos + 1
	for end < len(l.src) && !texast.IsNameStop(l.src[end]) {
		end++
	}
	if end == pos+1 {
		return texast.Token{}, false
	}
	cmd := &texast.Command{Name: l.src[pos+1 : end]}

	next, ok := l.commandOptions(cmd, end)
	if !ok {
		return texast.Token{}, false
	}
	end = next

	for range maxArguments {
		if end >= len(l.src) || l.src[end] != '{' {
			break
		}
		arg, next, ok := l.argument(end)
		if !ok {
			return texast.Token{}, false
		}
		end = next
		if cmd.Argument != nil {
			cmd.ExtraArgument = arg
			continue
		}
		cmd.Argument = arg
		if cmd.Options == nil {
			if end, ok = l.commandOptions(cmd, end); !ok {
				return texast.Token{}, false
			}
		}
	}

	if end < len(l.src) && (l.src[end] == '{' || l.src[end] == '[') {
		return texast.Token{}, false
	}

	return texast.Token{
		Kind:        texast.KindCommand,
		StartOffset: pos,
		EndOffset:   end,
		Command:     cmd,
	}, true
}

// commandOptions parses an option list at pos into cmd, if one is there.
func (l *lexer) commandOptions(cmd *texast.Command, pos int) (int, bool) {
	if pos >= len(l.src) || l.src[pos] != '[' {
		return pos, true
	}
	opts, next, ok := options(l.src, pos)
	if !ok {
		return 0, false
	}
	cmd.Options = opts
	return next, true
}

// argument lexes a brace argument opening at pos.
func (l *lexer) argument(pos int) (*texast.Argument, int, bool) {
	tokens, end, ok := l.braced(pos)
	if !ok {
		return nil, 0, false
	}
	if len(tokens) == 1 && tokens[0].Kind == texast.KindText {
		return &texast.Argument{Text: tokens[0].Text(l.src)}, end, true
	}
	return &texast.Argument{Tokens: tokens}, end, true
}

// options parses a bracketed option list opening at pos.
// Braces inside the list may hold commas and brackets. Entries are
// trimmed of surrounding whitespace.
func options(src string, pos int) ([]string, int, bool) {
	depth := 0
	start := pos + 1
	opts := []string{}

	for i := pos + 1; i < len(src); i++ {
		switch src[i] {
		case '\\':
			i++
		case '{':
			depth++
		case '}':
			if depth == 0 {
				return nil, 0, false
			}
			depth--
		case ',':
			if depth == 0 {
				opts = append(opts, strings.TrimSpace(src[start:i]))
				start = i + 1
			}
		case ']':
			if depth == 0 {
				if entry := strings.TrimSpace(src[start:i]); entry != "" || len(opts) > 0 {
					opts = append(opts, entry)
				}
				return opts, i + 1, true
			}
		}
	}
	return nil, 0, false
}
