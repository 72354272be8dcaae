package cli

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yaklabco/texoutline/internal/configloader"
	"github.com/yaklabco/texoutline/internal/logging"
	"github.com/yaklabco/texoutline/pkg/config"
)

// initFlags holds the flags for the init command.
type initFlags struct {
	force  bool
	full   bool
	format string
	output string
}

func newInitCommand() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new texoutline configuration file",
		Long: `Create a new .texoutline.yml configuration file in the current directory
with sensible defaults.

Examples:
  texoutline init                      Create minimal .texoutline.yml
  texoutline init --full               Create config with every setting
  texoutline init --format json        Create .texoutline.json instead
  texoutline init --output custom.yml  Write to a custom file path`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd, flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "Overwrite existing configuration file")
	cmd.Flags().BoolVar(&flags.full, "full", false, "Generate full template with every setting")
	cmd.Flags().StringVar(&flags.format, "format", "yaml", "Output format: yaml or json")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output file path (default: .texoutline.yml or .texoutline.json)")

	return cmd
}

func runInit(cmd *cobra.Command, flags *initFlags) error {
	logger := logging.NewInteractive()

	if flags.format != "yaml" && flags.format != "json" {
		return fmt.Errorf("%w: invalid format %q: must be yaml or json", ErrUsage, flags.format)
	}

	outputPath := flags.output
	if outputPath == "" {
		outputPath = configloader.ProjectConfigName
		if flags.format == "json" {
			outputPath = ".texoutline.json"
		}
	}

	absPath, err := filepath.Abs(outputPath)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	content, err := config.GenerateTemplate(config.TemplateOptions{
		Full:   flags.full,
		Format: flags.format,
	})
	if err != nil {
		return fmt.Errorf("generate template: %w", err)
	}

	if err := configloader.WriteFile(commandContext(cmd), absPath, content, flags.force); err != nil {
		if errors.Is(err, configloader.ErrConfigExists) {
			return fmt.Errorf("%w: %w", ErrUsage, err)
		}
		return err
	}

	logger.Info("created configuration file", logging.FieldPath, outputPath)
	if flags.format == "json" && flags.output == "" {
		logger.Info("pass it with --config; only .texoutline.yml is discovered automatically")
	}

	return nil
}
