package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/texoutline/internal/logging"
	"github.com/yaklabco/texoutline/pkg/diff"
	"github.com/yaklabco/texoutline/pkg/reporter"
	"github.com/yaklabco/texoutline/pkg/texast"
)

type diffFlags struct {
	axes   []string
	format string
}

func newDiffCommand() *cobra.Command {
	flags := &diffFlags{}

	cmd := &cobra.Command{
		Use:   "diff <before> <after>",
		Short: "Compare the sections or references of two revisions",
		Long: `Compare two revisions of a document position by position along an
axis: section headings or bibliography entries. Each difference is an
addition, a removal or an edit at a position.

Examples:
  texoutline diff old.tex new.tex                   # Sections and references
  texoutline diff --axis sections old.tex new.tex   # Sections only
  texoutline diff --format json old.bib new.bib     # Machine-readable output`,
		Args: cobra.ExactArgs(2), //nolint:mnd // before and after
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiff(cmd, args[0], args[1], flags)
		},
	}

	cmd.Flags().StringSliceVar(&flags.axes, "axis", []string{"sections", "references"}, "axes to compare: sections, references")
	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, json, yaml")

	return cmd
}

func runDiff(cmd *cobra.Command, beforePath, afterPath string, flags *diffFlags) error {
	logger := logging.Default()
	ctx := commandContext(cmd)

	axes := make([]texast.Axis, 0, len(flags.axes))
	for _, name := range flags.axes {
		axis, ok := texast.ParseAxis(strings.TrimSpace(name))
		if !ok {
			return fmt.Errorf("%w: unknown axis %q", ErrUsage, name)
		}
		axes = append(axes, axis)
	}

	format, err := reporter.ParseFormat(flags.format)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}

	cfg, _, err := loadConfig(cmd, nil)
	if err != nil {
		return err
	}
	analyzer := newAnalyzer(cfg)

	before, err := analyzer.ParseFile(ctx, beforePath)
	if err != nil {
		return reportParseError(cmd, beforePath, err)
	}
	after, err := analyzer.ParseFile(ctx, afterPath)
	if err != nil {
		return reportParseError(cmd, afterPath, err)
	}

	for _, axis := range axes {
		differences := diff.CompareAxis(before.Info, after.Info, axis)
		logger.Debug("compared revisions", logging.FieldAxis, axis.String(), logging.FieldChanges, len(differences))

		report := reporter.DiffReport{
			Before:      beforePath,
			After:       afterPath,
			Axis:        axis.String(),
			Differences: differences,
		}
		if err := reporter.WriteDiff(cmd.OutOrStdout(), report, reporter.Options{
			Format: format,
			Color:  cfg.Color,
		}); err != nil {
			return fmt.Errorf("write diff: %w", err)
		}
	}

	return nil
}
