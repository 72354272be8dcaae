package pretty

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/yaklabco/texoutline/pkg/texast"
)

const (
	defaultTermWidth = 100
	minTableWidth    = 40
)

// TableFormatter draws bibliography and token listings as bordered tables.
type TableFormatter struct {
	styles    *Styles
	termWidth int
	title     cases.Caser
}

// NewTableFormatter creates a table formatter that fits termWidth columns.
func NewTableFormatter(styles *Styles, termWidth int) *TableFormatter {
	if termWidth <= 0 {
		termWidth = defaultTermWidth
	}
	return &TableFormatter{
		styles:    styles,
		termWidth: max(termWidth, minTableWidth),
		title:     cases.Title(language.English),
	}
}

func (t *TableFormatter) newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(t.styles.TableBorder).
		Width(t.termWidth).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return t.styles.TableHeader
			}
			return t.styles.TableCell
		})
}

// FormatEntries lists bibliography entries with their kind, key, title and
// year.
func (t *TableFormatter) FormatEntries(entries []texast.BibEntry) string {
	tbl := t.newTable("#", "Kind", "Key", "Title", "Year")
	for idx := range entries {
		entry := &entries[idx]
		year, _ := entry.Field("year")
		tbl.Row(
			strconv.Itoa(idx+1),
			t.title.String(entry.Kind.String()),
			entry.Key,
			entry.Title(),
			year,
		)
	}
	return tbl.String() + "\n"
}

// FormatTokens lists top-level tokens with their kind, byte range and line.
// Token text is cut to one line.
func (t *TableFormatter) FormatTokens(info *texast.TokenInfo) string {
	tbl := t.newTable("#", "Kind", "Range", "Line", "Text")
	for idx := range info.Len() {
		line, _ := info.LineOfToken(idx)
		r := info.Ranges[idx]
		tbl.Row(
			strconv.Itoa(idx),
			info.Kinds[idx].String(),
			strconv.Itoa(r.StartOffset)+"-"+strconv.Itoa(r.EndOffset),
			strconv.Itoa(line),
			oneLine(info.TokenText(idx), t.termWidth/2),
		)
	}
	return tbl.String() + "\n"
}

// oneLine shows control characters as escapes and truncates to limit runes.
func oneLine(text string, limit int) string {
	quoted := strconv.Quote(text)
	quoted = quoted[1 : len(quoted)-1]
	runes := []rune(quoted)
	if len(runes) > limit && limit > 3 {
		return string(runes[:limit-3]) + "..."
	}
	return quoted
}
