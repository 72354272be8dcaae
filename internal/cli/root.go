package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/texoutline/internal/logging"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCommand creates the root texoutline command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	var debug bool
	var configPath string
	var color string

	rootCmd := &cobra.Command{
		Use:   "texoutline",
		Short: "Outlines, bibliographies and revision diffs for LaTeX and Typst",
		Long: `texoutline reads LaTeX, Typst and BibTeX sources losslessly and builds
their outline: sections, subsections and the tables, images, equations,
code listings and bibliographies inside them.

It lists bibliography entries, compares the sections and references of two
revisions, resolves outline paths to source lines and can watch a file,
printing a fresh outline after every edit.`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if debug {
				logging.SetLevel("debug")
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags.
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&color, "color", "auto",
		"colorize output: auto, always, never")

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	})

	// Add subcommands.
	rootCmd.AddCommand(newOutlineCommand())
	rootCmd.AddCommand(newTokensCommand())
	rootCmd.AddCommand(newBibCommand())
	rootCmd.AddCommand(newDiffCommand())
	rootCmd.AddCommand(newLocateCommand())
	rootCmd.AddCommand(newWatchCommand())
	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newVersionCommand(info))

	applyHelp(rootCmd)

	return rootCmd
}
