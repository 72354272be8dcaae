package texast

import "strings"

// Axis selects the token category compared by the differencer.
type Axis uint8

const (
	// AxisSections selects section-opening commands.
	AxisSections Axis = iota
	// AxisReferences selects bibliography entries.
	AxisReferences
)

func (a Axis) String() string {
	switch a {
	case AxisSections:
		return "sections"
	case AxisReferences:
		return "references"
	default:
		return "unknown"
	}
}

// ParseAxis parses an axis name.
func ParseAxis(name string) (Axis, bool) {
	switch strings.ToLower(name) {
	case "sections", "section":
		return AxisSections, true
	case "references", "reference", "refs":
		return AxisReferences, true
	default:
		return 0, false
	}
}

// TokenInfo is an owned summary of one lexing pass: the full text plus the
// kind and byte range of every top-level token. It outlives the token slice
// and is what later passes diff against.
type TokenInfo struct {
	Text   string
	Kinds  []Kind
	Ranges []SourceRange
	Lines  Lines
}

// NewTokenInfo builds a TokenInfo from top-level tokens of src.
func NewTokenInfo(src string, tokens []Token) *TokenInfo {
	text := strings.Clone(src)
	info := &TokenInfo{
		Text:   text,
		Kinds:  make([]Kind, len(tokens)),
		Ranges: make([]SourceRange, len(tokens)),
		Lines:  BuildLines(text),
	}
	for i, tok := range tokens {
		info.Kinds[i] = tok.Kind
		info.Ranges[i] = tok.Range()
	}
	return info
}

// Len returns the number of tokens.
func (ti *TokenInfo) Len() int {
	return len(ti.Kinds)
}

// TokenText returns the text of token i.
func (ti *TokenInfo) TokenText(i int) string {
	if i < 0 || i >= len(ti.Ranges) {
		return ""
	}
	r := ti.Ranges[i]
	return ti.Text[r.StartOffset:r.EndOffset]
}

// LineOfToken returns the 1-based line where token i starts.
func (ti *TokenInfo) LineOfToken(i int) (int, bool) {
	if i < 0 || i >= len(ti.Ranges) {
		return 0, false
	}
	line, _ := ti.Lines.LineAt(ti.Ranges[i].StartOffset)
	return line, line > 0
}

// Spans returns the texts of the tokens selected by axis, in source order.
func (ti *TokenInfo) Spans(axis Axis) []string {
	var spans []string
	for i, kind := range ti.Kinds {
		switch axis {
		case AxisSections:
			if kind == KindCommand && IsSectionMarker(ti.TokenText(i)) {
				spans = append(spans, ti.TokenText(i))
			}
		case AxisReferences:
			if kind == KindReference {
				spans = append(spans, ti.TokenText(i))
			}
		}
	}
	return spans
}

// CommandName extracts the control sequence name from rendered command text.
func CommandName(text string) string {
	if !strings.HasPrefix(text, `\`) {
		return ""
	}
	end := 1
	for end < len(text) && !IsNameStop(text[end]) {
		end++
	}
	return text[1:end]
}

// IsNameStop reports whether b terminates a command name.
func IsNameStop(b byte) bool {
	switch b {
	case ' ', '\t', '\r', '\n', '{', '}', '[', ']', '\\':
		return true
	default:
		return false
	}
}

// IsSectionMarker reports whether rendered command text opens a section.
func IsSectionMarker(text string) bool {
	name := CommandName(text)
	return name == "section" || name == "section*"
}

// IsSubsectionMarker reports whether rendered command text opens a subsection.
func IsSubsectionMarker(text string) bool {
	name := CommandName(text)
	return name == "subsection" || name == "subsection*"
}
