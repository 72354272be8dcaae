package lexer

import (
	"strings"

	"github.com/yaklabco/texoutline/pkg/texast"
)

// ParseEntry parses one bibliography entry at the start of text:
//
//	@kind{key, name = value, name = value}
//
// Values may be {braced}, {{double braced}}, "quoted" or bare words.
// Anything after the last well-formed field is skipped up to the brace
// that closes the entry. On success the unconsumed remainder is returned.
// Strings in the entry are copies and do not alias text.
func ParseEntry(text string) (string, texast.BibEntry, bool) {
	if !strings.HasPrefix(text, "@") {
		return text, texast.BibEntry{}, false
	}

	pos := 1
	for pos < len(text) && isLetter(text[pos]) {
		pos++
	}
	kind, ok := texast.ParseEntryKind(text[1:pos])
	if !ok {
		return text, texast.BibEntry{}, false
	}
	if pos >= len(text) || text[pos] != '{' {
		return text, texast.BibEntry{}, false
	}
	pos++

	comma := strings.IndexByte(text[pos:], ',')
	if comma < 0 {
		return text, texast.BibEntry{}, false
	}
	key := text[pos : pos+comma]
	if strings.ContainsAny(key, "{}") {
		return text, texast.BibEntry{}, false
	}
	pos += comma + 1

	entry := texast.BibEntry{
		Kind: kind,
		Key:  strings.Clone(strings.TrimSpace(key)),
	}

	for {
		field, next, ok := parseField(text, pos)
		if !ok {
			break
		}
		entry.Fields = append(entry.Fields, field)
		pos = skipSpace(text, next)
		if pos >= len(text) || text[pos] != ',' {
			break
		}
		pos++
	}
	if len(entry.Fields) == 0 {
		return text, texast.BibEntry{}, false
	}

	end, ok := closeEntry(text, pos)
	if !ok {
		return text, texast.BibEntry{}, false
	}

	return text[end:], entry, true
}

// ParseEntries extracts every well-formed entry from a bibliography file.
// Malformed entries, @string/@comment/@preamble blocks and lines starting
// with % are skipped.
func ParseEntries(text string) []texast.BibEntry {
	entries, _ := LocateEntries(text)
	return entries
}

// LocateEntries is ParseEntries that also returns the byte offset of the
// @ opening each entry.
func LocateEntries(text string) ([]texast.BibEntry, []int) {
	var (
		entries []texast.BibEntry
		offsets []int
	)
	pos := 0
	for pos < len(text) {
		switch {
		case text[pos] == '%' && (pos == 0 || text[pos-1] == '\n'):
			nl := strings.IndexByte(text[pos:], '\n')
			if nl < 0 {
				return entries, offsets
			}
			pos += nl + 1
		case text[pos] == '@':
			rest, entry, ok := ParseEntry(text[pos:])
			if ok {
				entries = append(entries, entry)
				offsets = append(offsets, pos)
				pos = len(text) - len(rest)
			} else {
				pos++
			}
		default:
			pos++
		}
	}
	return entries, offsets
}

func parseField(text string, pos int) (texast.Field, int, bool) {
	pos = skipSpace(text, pos)
	start := pos
	for pos < len(text) && strings.IndexByte("=,{}\" \t\r\n", text[pos]) < 0 {
		pos++
	}
	if pos == start {
		return texast.Field{}, 0, false
	}
	name := text[start:pos]

	pos = skipSpace(text, pos)
	if pos >= len(text) || text[pos] != '=' {
		return texast.Field{}, 0, false
	}
	pos = skipSpace(text, pos+1)

	value, end, ok := parseValue(text, pos)
	if !ok {
		return texast.Field{}, 0, false
	}
	return texast.Field{Name: strings.Clone(name), Value: strings.Clone(value)}, end, true
}

func parseValue(text string, pos int) (string, int, bool) {
	if pos >= len(text) {
		return "", 0, false
	}
	switch text[pos] {
	case '{':
		closing, ok := matchBrace(text, pos)
		if !ok {
			return "", 0, false
		}
		inner := text[pos+1 : closing]
		// {{Title}} protects capitalisation; keep only the inner text.
		if strings.HasPrefix(inner, "{") {
			if innerClose, ok := matchBrace(inner, 0); ok && innerClose == len(inner)-1 {
				inner = inner[1:innerClose]
			}
		}
		return inner, closing + 1, true
	case '"':
		depth := 0
		for i := pos + 1; i < len(text); i++ {
			switch text[i] {
			case '\\':
				i++
			case '{':
				depth++
			case '}':
				if depth == 0 {
					return "", 0, false
				}
				depth--
			case '"':
				if depth == 0 {
					return text[pos+1 : i], i + 1, true
				}
			}
		}
		return "", 0, false
	default:
		end := pos
		for end < len(text) && strings.IndexByte(",{}\"# \t\r\n", text[end]) < 0 {
			end++
		}
		if end == pos {
			return "", 0, false
		}
		return text[pos:end], end, true
	}
}

// matchBrace returns the index of the brace closing the one at pos.
// Backslash escapes are skipped.
func matchBrace(text string, pos int) (int, bool) {
	depth := 0
	for i := pos; i < len(text); i++ {
		switch text[i] {
		case '\\':
			i++
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}

// closeEntry skips to the brace that closes the entry and returns the
// offset just past it.
func closeEntry(text string, pos int) (int, bool) {
	depth := 0
	for i := pos; i < len(text); i++ {
		switch text[i] {
		case '\\':
			i++
		case '{':
			depth++
		case '}':
			if depth == 0 {
				return i + 1, true
			}
			depth--
		}
	}
	return 0, false
}

func skipSpace(text string, pos int) int {
	for pos < len(text) && strings.IndexByte(" \t\r\n", text[pos]) >= 0 {
		pos++
	}
	return pos
}

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
