package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/yaklabco/texoutline/internal/logging"
	"github.com/yaklabco/texoutline/pkg/config"
	"github.com/yaklabco/texoutline/pkg/fsutil"
	"github.com/yaklabco/texoutline/pkg/reporter"
	"github.com/yaklabco/texoutline/pkg/runner"
)

type outlineFlags struct {
	format         string
	dialect        string
	include        []string
	ignore         []string
	extensions     []string
	objects        []string
	maxDepth       int
	noLanguages    bool
	noSummary      bool
	compact        bool
	followSymlinks bool
	output         string
}

func newOutlineCommand() *cobra.Command {
	var cfg config.Config
	flags := &outlineFlags{}

	cmd := &cobra.Command{
		Use:     "outline [paths...]",
		Aliases: []string{"o"},
		Short:   "Print the outline of LaTeX, Typst and BibTeX files",
		Long:    outlineLongDescription,
		Args:    cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOutline(cmd, args, &cfg, flags)
		},
	}

	addOutlineFlags(cmd, &cfg, flags)

	return cmd
}

const outlineLongDescription = `Build the section and object outline of each source file.

By default, every .tex, .ltx, .latex, .typ and .bib file under the current
directory is processed. Specify paths to process specific files or
directories. Files that fail to parse are reported with their diagnostics
and make the command exit with status 1.

Examples:
  texoutline outline                      # Outline the current directory
  texoutline outline paper.tex            # Outline a single file
  texoutline outline --objects table,code # Only list tables and listings
  texoutline outline --format json        # Machine-readable output
  texoutline outline --lines --entries    # Show lines and bib entries`

func addOutlineFlags(cmd *cobra.Command, cfg *config.Config, flags *outlineFlags) {
	cmd.Flags().StringVar(&flags.format, "format", "", "output format: text, json, yaml, markdown, html, summary")
	cmd.Flags().StringVar(&flags.dialect, "dialect", "", "force a dialect: auto, tex, typst, bib")
	cmd.Flags().IntVar(&cfg.Jobs, "jobs", 0, "number of parallel workers (0 = auto)")
	cmd.Flags().StringSliceVar(&flags.include, "include", nil, "only process paths matching these globs")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns to ignore")
	cmd.Flags().StringSliceVar(&flags.extensions, "ext", nil, "file extensions to process")
	cmd.Flags().StringSliceVar(&flags.objects, "objects", nil, "object kinds to show: table, image, equation, code, bibliography")
	cmd.Flags().BoolVar(&cfg.Outline.Lines, "lines", false, "show source line numbers")
	cmd.Flags().BoolVar(&cfg.Outline.Entries, "entries", false, "list bibliography entries")
	cmd.Flags().IntVar(&flags.maxDepth, "max-depth", 0, "maximum group nesting (0 = default)")
	cmd.Flags().BoolVar(&flags.noLanguages, "no-detect-languages", false, "do not guess code listing languages")
	cmd.Flags().BoolVar(&flags.noSummary, "no-summary", false, "hide the summary line")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "use compact output where applicable")
	cmd.Flags().BoolVar(&flags.followSymlinks, "follow-symlinks", false, "follow directory symlinks")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "write the report to a file instead of stdout")
}

// cliConfig copies explicitly set flags into cfg.
func (f *outlineFlags) cliConfig(cmd *cobra.Command, cfg *config.Config) *config.Config {
	changed := cmd.Flags().Changed
	if changed("format") {
		cfg.Format = config.OutputFormat(f.format)
	}
	if changed("dialect") {
		cfg.Dialect = f.dialect
	}
	if changed("ignore") {
		cfg.Ignore = f.ignore
	}
	if changed("ext") {
		cfg.Extensions = f.extensions
	}
	if changed("objects") {
		cfg.Outline.Objects = f.objects
	}
	if changed("max-depth") {
		cfg.MaxDepth = f.maxDepth
	}
	if f.noLanguages {
		cfg.DetectLanguages = config.Bool(false)
	}
	return cfg
}

func runOutline(cmd *cobra.Command, args []string, cliCfg *config.Config, flags *outlineFlags) error {
	logger := logging.Default()
	ctx := commandContext(cmd)

	cfg, workDir, err := loadConfig(cmd, flags.cliConfig(cmd, cliCfg))
	if err != nil {
		return err
	}

	format, err := reporter.ParseFormat(string(cfg.Format))
	if err != nil {
		return errors.Join(ErrUsage, err)
	}

	runOpts := runner.Options{
		Paths:          args,
		WorkingDir:     workDir,
		Extensions:     cfg.Extensions,
		IncludeGlobs:   flags.include,
		ExcludeGlobs:   cfg.Ignore,
		FollowSymlinks: flags.followSymlinks,
		Jobs:           cfg.Jobs,
	}

	logger.Debug("starting outline run",
		logging.FieldPaths, runOpts.Paths,
		logging.FieldWorkingDir, runOpts.WorkingDir,
		logging.FieldJobs, runOpts.Jobs,
	)

	start := time.Now()
	result, err := runner.New(newAnalyzer(cfg)).Run(ctx, runOpts)
	if err != nil {
		return fmt.Errorf("outline run failed: %w", err)
	}

	logger.Debug("outline run finished",
		logging.FieldFilesDiscovered, result.Stats.FilesDiscovered,
		logging.FieldFilesParsed, result.Stats.FilesParsed,
		logging.FieldFilesFailed, result.Stats.FilesFailed,
		logging.FieldDuration, time.Since(start),
	)

	var buf bytes.Buffer
	var out io.Writer = cmd.OutOrStdout()
	if flags.output != "" {
		out = &buf
	}

	rep, err := reporter.New(reporter.Options{
		Writer:      out,
		Format:      format,
		Color:       outputColor(cfg, flags.output),
		ShowSummary: !flags.noSummary,
		ShowLines:   cfg.Outline.Lines,
		ShowEntries: cfg.Outline.Entries,
		Objects:     objectKinds(cfg.Outline.Objects),
		Compact:     flags.compact,
		WorkingDir:  workDir,
	})
	if err != nil {
		return fmt.Errorf("create reporter: %w", err)
	}

	if _, err := rep.Report(ctx, result); err != nil {
		return fmt.Errorf("report results: %w", err)
	}

	if flags.output != "" {
		written, err := fsutil.WriteAtomicIfChanged(ctx, flags.output, buf.Bytes(), 0)
		if err != nil {
			return fmt.Errorf("write %s: %w", flags.output, err)
		}
		logger.Debug("report written", logging.FieldPath, flags.output, logging.FieldChanges, written)
	}

	if ExitCodeFromResult(result) != ExitSuccess {
		return ErrParseFailures
	}
	return nil
}

// outputColor disables color for reports written to files.
func outputColor(cfg *config.Config, output string) string {
	if output != "" {
		return "never"
	}
	return cfg.Color
}
