package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yaklabco/texoutline/internal/configloader"
	"github.com/yaklabco/texoutline/internal/logging"
	"github.com/yaklabco/texoutline/pkg/analysis"
	"github.com/yaklabco/texoutline/pkg/config"
	"github.com/yaklabco/texoutline/pkg/document"
)

// defaultTermWidth is used when stdout is not a terminal.
const defaultTermWidth = 100

// commandContext returns the command context, or Background when unset.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// loadConfig resolves configuration for cmd with cliCfg layered on top.
// The persistent --config and --color flags are read here.
func loadConfig(cmd *cobra.Command, cliCfg *config.Config) (*config.Config, string, error) {
	logger := logging.Default()
	ctx := commandContext(cmd)

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, "", fmt.Errorf("get config flag: %w", err)
	}

	if cliCfg == nil {
		cliCfg = &config.Config{}
	}
	if cmd.Flags().Changed("color") {
		cliCfg.Color, _ = cmd.Flags().GetString("color")
	}

	workDir, err := os.Getwd()
	if err != nil {
		return nil, "", fmt.Errorf("get working directory: %w", err)
	}

	loadResult, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: configPath,
		CLIConfig:    cliCfg,
	})
	if err != nil {
		return nil, "", errors.Join(ErrConfig, err)
	}

	for _, warning := range loadResult.Warnings {
		logger.Warn(warning)
	}
	if len(loadResult.LoadedFrom) > 0 {
		logger.Debug("loaded configuration", logging.FieldConfig, loadResult.LoadedFrom)
	}

	cfg := loadResult.Config
	logger.Debug("configuration resolved",
		logging.FieldDialect, cfg.Dialect,
		logging.FieldFormat, cfg.Format,
		logging.FieldJobs, cfg.Jobs,
	)

	return cfg, workDir, nil
}

// newAnalyzer builds an analyzer from the resolved configuration.
func newAnalyzer(cfg *config.Config) *analysis.Analyzer {
	dialect, _ := analysis.ParseDialect(cfg.Dialect)
	return analysis.New(analysis.Options{
		Dialect:         dialect,
		MaxDepth:        cfg.EffectiveMaxDepth(),
		DetectLanguages: cfg.LanguagesEnabled(),
	})
}

// objectKinds converts validated kind names. Empty means every kind.
func objectKinds(names []string) []document.ObjectKind {
	if len(names) == 0 {
		return nil
	}
	kinds := make([]document.ObjectKind, 0, len(names))
	for _, name := range names {
		if kind, ok := document.ParseObjectKind(name); ok {
			kinds = append(kinds, kind)
		}
	}
	return kinds
}

// terminalWidth returns the width of stdout, or defaultTermWidth.
func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return defaultTermWidth
	}
	return width
}
