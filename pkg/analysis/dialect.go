package analysis

import (
	"path/filepath"
	"strings"
)

// Dialect is the markup language of a source.
type Dialect string

const (
	// DialectAuto picks the dialect from the file extension, then the content.
	DialectAuto Dialect = "auto"
	// DialectTeX is LaTeX markup.
	DialectTeX Dialect = "tex"
	// DialectTypst is Typst markup.
	DialectTypst Dialect = "typst"
	// DialectBib is a BibTeX bibliography file.
	DialectBib Dialect = "bib"
)

// IsValid reports whether d is a known dialect.
func (d Dialect) IsValid() bool {
	switch d {
	case DialectAuto, DialectTeX, DialectTypst, DialectBib:
		return true
	default:
		return false
	}
}

// ParseDialect parses a dialect name. The empty string means auto.
func ParseDialect(name string) (Dialect, bool) {
	d := Dialect(strings.ToLower(strings.TrimSpace(name)))
	if d == "" {
		return DialectAuto, true
	}
	if d == "latex" {
		return DialectTeX, true
	}
	return d, d.IsValid()
}

// extensions maps file extensions to dialects.
//
//nolint:gochecknoglobals // Read-only lookup table.
var extensions = map[string]Dialect{
	".tex":   DialectTeX,
	".ltx":   DialectTeX,
	".latex": DialectTeX,
	".typ":   DialectTypst,
	".bib":   DialectBib,
}

// Extensions returns the file extensions with a known dialect.
func Extensions() []string {
	return []string{".tex", ".ltx", ".latex", ".typ", ".bib"}
}

// DetectDialect picks a dialect by file extension, falling back to the
// content when the extension is unknown.
func DetectDialect(path, content string) Dialect {
	if d, ok := extensions[strings.ToLower(filepath.Ext(path))]; ok {
		return d
	}
	return sniff(content)
}

// sniff guesses a dialect from content.
func sniff(content string) Dialect {
	trimmed := strings.TrimSpace(content)
	switch {
	case strings.Contains(content, `\begin{document}`), strings.HasPrefix(trimmed, `\`):
		return DialectTeX
	case strings.HasPrefix(trimmed, "@"):
		return DialectBib
	case strings.HasPrefix(trimmed, "#"), strings.HasPrefix(trimmed, "="):
		return DialectTypst
	default:
		return DialectTeX
	}
}
