package texast

import (
	"sort"
	"strings"
)

// LineInfo holds metadata for a single line in a file.
type LineInfo struct {
	// StartOffset is the byte index of the line start.
	StartOffset int

	// NewlineStart is the byte index where newline characters begin.
	// For lines without a trailing newline (e.g., last line), this equals EndOffset.
	NewlineStart int

	// EndOffset is the byte index just after the newline (or end of file).
	EndOffset int
}

// Lines is a line index over a source string.
type Lines []LineInfo

// BuildLines constructs line metadata from file content.
// It handles both LF (\n) and CRLF (\r\n) line endings.
func BuildLines(content string) Lines {
	if len(content) == 0 {
		return Lines{}
	}

	lines := make(Lines, 0, strings.Count(content, "\n")+1)
	lineStart := 0

	for idx := 0; idx < len(content); idx++ {
		if content[idx] != '\n' {
			continue
		}
		newlineStart := idx
		if idx > 0 && content[idx-1] == '\r' {
			newlineStart = idx - 1
		}

		lines = append(lines, LineInfo{
			StartOffset:  lineStart,
			NewlineStart: newlineStart,
			EndOffset:    idx + 1,
		})
		lineStart = idx + 1
	}

	// Last line may not have a trailing newline.
	lines = append(lines, LineInfo{
		StartOffset:  lineStart,
		NewlineStart: len(content),
		EndOffset:    len(content),
	})

	return lines
}

// LineAt converts a byte offset to 1-based line and column numbers.
// Column counts bytes, not runes.
// Returns (0, 0) if the offset is out of range.
func (l Lines) LineAt(offset int) (int, int) {
	if offset < 0 || len(l) == 0 {
		return 0, 0
	}

	last := l[len(l)-1]
	if offset >= last.EndOffset {
		return len(l), offset - last.StartOffset + 1
	}

	lineIdx := sort.Search(len(l), func(i int) bool {
		return l[i].EndOffset > offset
	})
	if lineIdx >= len(l) {
		lineIdx = len(l) - 1
	}

	info := l[lineIdx]
	if offset < info.StartOffset {
		return 0, 0
	}

	return lineIdx + 1, offset - info.StartOffset + 1
}

// Content returns the text of a 1-based line number, excluding the newline.
// Returns "" if the line number is out of range.
func (l Lines) Content(src string, line int) string {
	if line < 1 || line > len(l) {
		return ""
	}
	info := l[line-1]
	if info.NewlineStart > len(src) {
		return ""
	}
	return src[info.StartOffset:info.NewlineStart]
}

// LineOf returns the 0-based line of offset by counting newlines in the
// prefix. It needs no index and is used for error reporting.
func LineOf(src string, offset int) int {
	if offset > len(src) {
		offset = len(src)
	}
	if offset < 0 {
		return 0
	}
	return strings.Count(src[:offset], "\n")
}
