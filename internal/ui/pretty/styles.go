// Package pretty provides Lipgloss-based styled output utilities.
package pretty

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Styles contains all styled renderers for CLI output.
type Styles struct {
	// Severity styles
	Error   lipgloss.Style
	Warning lipgloss.Style

	// Location components
	FilePath lipgloss.Style
	Location lipgloss.Style
	Message  lipgloss.Style

	// Outline styles
	Document   lipgloss.Style
	Section    lipgloss.Style
	Subsection lipgloss.Style
	Object     lipgloss.Style
	Label      lipgloss.Style
	Caption    lipgloss.Style
	Enumerator lipgloss.Style

	// Diff styles
	DiffHeader lipgloss.Style
	DiffAdd    lipgloss.Style
	DiffRemove lipgloss.Style
	DiffEdit   lipgloss.Style

	// Summary styles
	SummaryTitle lipgloss.Style
	SummaryValue lipgloss.Style
	Success      lipgloss.Style
	Failure      lipgloss.Style

	// Table styles
	TableHeader lipgloss.Style
	TableBorder lipgloss.Style
	TableCell   lipgloss.Style

	// Misc
	Dim  lipgloss.Style
	Bold lipgloss.Style
}

// NewStyles creates a new Styles with the given color mode.
func NewStyles(colorEnabled bool) *Styles {
	if !colorEnabled {
		return newNoColorStyles()
	}
	return newColorStyles()
}

// newColorStyles creates styles with ANSI 256 colors.
func newColorStyles() *Styles {
	return &Styles{
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),

		FilePath: lipgloss.NewStyle().Bold(true),
		Location: lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Message:  lipgloss.NewStyle(),

		Document:   lipgloss.NewStyle().Bold(true).Underline(true),
		Section:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		Subsection: lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
		Object:     lipgloss.NewStyle().Foreground(lipgloss.Color("13")),
		Label:      lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Caption:    lipgloss.NewStyle().Italic(true),
		Enumerator: lipgloss.NewStyle().Foreground(lipgloss.Color("8")).MarginRight(1),

		DiffHeader: lipgloss.NewStyle().Bold(true),
		DiffAdd:    lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		DiffRemove: lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		DiffEdit:   lipgloss.NewStyle().Foreground(lipgloss.Color("11")),

		SummaryTitle: lipgloss.NewStyle().Bold(true),
		SummaryValue: lipgloss.NewStyle(),
		Success:      lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
		Failure:      lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),

		TableHeader: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7")).Padding(0, 1),
		TableBorder: lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		TableCell:   lipgloss.NewStyle().Padding(0, 1),

		Dim:  lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Bold: lipgloss.NewStyle().Bold(true),
	}
}

// newNoColorStyles creates styles with no color formatting.
func newNoColorStyles() *Styles {
	plain := lipgloss.NewStyle()
	return &Styles{
		Error:        plain,
		Warning:      plain,
		FilePath:     plain,
		Location:     plain,
		Message:      plain,
		Document:     plain,
		Section:      plain,
		Subsection:   plain,
		Object:       plain,
		Label:        plain,
		Caption:      plain,
		Enumerator:   plain.MarginRight(1),
		DiffHeader:   plain,
		DiffAdd:      plain,
		DiffRemove:   plain,
		DiffEdit:     plain,
		SummaryTitle: plain,
		SummaryValue: plain,
		Success:      plain,
		Failure:      plain,
		TableHeader:  plain.Padding(0, 1),
		TableBorder:  plain,
		TableCell:    plain.Padding(0, 1),
		Dim:          plain,
		Bold:         plain,
	}
}

// IsColorEnabled determines if color should be enabled based on mode and writer.
// Mode values: "auto" (default), "always", "never".
// In auto mode, color is enabled only if the writer is a TTY and NO_COLOR is not set.
func IsColorEnabled(mode string, writer io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	default:
		// https://no-color.org/
		if os.Getenv("NO_COLOR") != "" {
			return false
		}
		if f, ok := writer.(*os.File); ok {
			return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
		}
		return false
	}
}
