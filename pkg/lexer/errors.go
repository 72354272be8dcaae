package lexer

import (
	"fmt"
	"unicode/utf8"
)

// snippetLimit is the number of characters of unconsumed input kept in a LexError.
const snippetLimit = 100

// LexError reports input the lexer could not consume.
type LexError struct {
	// Message describes why tokenization stopped.
	Message string

	// Line is the 0-based line where tokenization stalled.
	Line int

	// Offset is the byte offset of the first unconsumed byte.
	Offset int

	// Snippet holds the start of the unconsumed remainder.
	Snippet string
}

// Error implements the error interface.
func (e *LexError) Error() string {
	return fmt.Sprintf("line %d: %s near %q", e.Line+1, e.Message, e.Snippet)
}

// snippet returns at most snippetLimit characters of s, cut on a rune boundary.
func snippet(s string) string {
	if utf8.RuneCountInString(s) <= snippetLimit {
		return s
	}
	count := 0
	for idx := range s {
		if count == snippetLimit {
			return s[:idx]
		}
		count++
	}
	return s
}
