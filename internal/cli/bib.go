package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/yaklabco/texoutline/internal/logging"
	"github.com/yaklabco/texoutline/internal/ui/pretty"
	"github.com/yaklabco/texoutline/pkg/analysis"
	"github.com/yaklabco/texoutline/pkg/bibfile"
	"github.com/yaklabco/texoutline/pkg/reporter"
	"github.com/yaklabco/texoutline/pkg/session"
	"github.com/yaklabco/texoutline/pkg/texast"
)

type bibFlags struct {
	format  string
	kinds   []string
	baseDir string
}

func newBibCommand() *cobra.Command {
	flags := &bibFlags{}

	cmd := &cobra.Command{
		Use:   "bib <file>",
		Short: "List bibliography entries",
		Long: `List the entries of a BibTeX file. Given a LaTeX or Typst document,
the bibliography it names is resolved relative to the document and listed.

Examples:
  texoutline bib refs.bib                 # Entry table
  texoutline bib paper.tex                # Entries of the linked bibliography
  texoutline bib --kind article refs.bib  # Only articles
  texoutline bib --format json refs.bib   # Machine-readable output`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBib(cmd, args[0], flags)
		},
	}

	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, json, yaml")
	cmd.Flags().StringSliceVar(&flags.kinds, "kind", nil, "only list entries of these kinds")
	cmd.Flags().StringVar(&flags.baseDir, "base-dir", "", "directory bibliography names resolve against")

	return cmd
}

func runBib(cmd *cobra.Command, path string, flags *bibFlags) error {
	logger := logging.Default()
	ctx := commandContext(cmd)

	format, err := reporter.ParseFormat(flags.format)
	if err != nil || (format != reporter.FormatText && format != reporter.FormatJSON && format != reporter.FormatYAML) {
		return fmt.Errorf("%w: bib supports text, json and yaml output", ErrUsage)
	}

	kinds := make([]texast.EntryKind, 0, len(flags.kinds))
	for _, name := range flags.kinds {
		kind, ok := texast.ParseEntryKind(name)
		if !ok {
			return fmt.Errorf("%w: unknown entry kind %q", ErrUsage, name)
		}
		kinds = append(kinds, kind)
	}

	cfg, _, err := loadConfig(cmd, nil)
	if err != nil {
		return err
	}

	result, err := newAnalyzer(cfg).ParseFile(ctx, path)
	if err != nil {
		return reportParseError(cmd, path, err)
	}

	entries := result.Entries
	if result.Dialect != analysis.DialectBib {
		name := session.BibliographyName(result.Document)
		if name == "" {
			return fmt.Errorf("%w: %s names no bibliography", ErrNotFound, path)
		}
		baseDir := lo.CoalesceOrEmpty(flags.baseDir, cfg.Bibliography.BaseDir, filepath.Dir(path))
		logger.Debug("resolving bibliography", logging.FieldBibliography, name, logging.FieldPath, baseDir)

		entries, err = bibfile.Resolve(ctx, baseDir, name)
		if err != nil {
			return err
		}
	}

	if len(kinds) > 0 {
		entries = lo.Filter(entries, func(entry texast.BibEntry, _ int) bool {
			return lo.Contains(kinds, entry.Kind)
		})
	}
	if entries == nil {
		entries = []texast.BibEntry{}
	}

	return writeEntries(cmd.OutOrStdout(), entries, format, cfg.Color)
}

func writeEntries(w io.Writer, entries []texast.BibEntry, format reporter.Format, color string) error {
	switch format {
	case reporter.FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(entries)
	case reporter.FormatYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(entries); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return encoder.Close()
	default:
		styles := pretty.NewStyles(pretty.IsColorEnabled(color, w))
		if len(entries) == 0 {
			_, err := fmt.Fprintln(w, styles.Dim.Render("No entries found"))
			return err
		}
		_, err := io.WriteString(w, pretty.NewTableFormatter(styles, terminalWidth()).FormatEntries(entries))
		return err
	}
}

// reportParseError prints the diagnostics of a parse failure and returns
// ErrParseFailures. Other errors are returned as they are.
func reportParseError(cmd *cobra.Command, path string, err error) error {
	var parseErr *analysis.ParseError
	if !errors.As(err, &parseErr) {
		return err
	}
	colorMode, _ := cmd.Flags().GetString("color")
	styles := pretty.NewStyles(pretty.IsColorEnabled(colorMode, cmd.OutOrStdout()))
	_, _ = io.WriteString(cmd.OutOrStdout(), styles.FormatDiagnostics(path, parseErr.Diagnostics, ""))
	return ErrParseFailures
}
