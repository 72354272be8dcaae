package reporter

import (
	"fmt"
	"strings"
)

// Format represents an output format.
type Format string

// Output formats supported by the reporter.
const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
	FormatSummary  Format = "summary"
)

// Formats returns every supported format.
func Formats() []Format {
	return []Format{FormatText, FormatJSON, FormatYAML, FormatMarkdown, FormatHTML, FormatSummary}
}

// ParseFormat parses a format string, returning an error for unknown formats.
func ParseFormat(formatStr string) (Format, error) {
	switch strings.ToLower(formatStr) {
	case "text", "":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "html":
		return FormatHTML, nil
	case "summary":
		return FormatSummary, nil
	default:
		return "", fmt.Errorf("unknown format %q; valid formats: text, json, yaml, markdown, html, summary", formatStr)
	}
}

// String returns the string representation of the format.
func (f Format) String() string {
	return string(f)
}

// IsValid returns true if the format is a known valid format.
func (f Format) IsValid() bool {
	switch f {
	case FormatText, FormatJSON, FormatYAML, FormatMarkdown, FormatHTML, FormatSummary:
		return true
	default:
		return false
	}
}
