// Package configloader provides configuration loading and resolution.
// It implements XDG-compliant configuration discovery, hierarchical merging,
// environment variable support and validation.
package configloader

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/yaklabco/texoutline/pkg/config"
	"github.com/yaklabco/texoutline/pkg/fsutil"
)

// configFilePermissions is the file mode for configuration files (world-readable).
const configFilePermissions = 0o644

// ErrConfigExists is returned when writing over an existing file without force.
var ErrConfigExists = errors.New("config file already exists")

// LoadOptions controls configuration loading behavior.
type LoadOptions struct {
	// WorkingDir is the directory to search from for project config.
	// Defaults to current working directory if empty.
	WorkingDir string

	// ExplicitPath is an explicit config file path (from --config flag).
	ExplicitPath string

	// IgnoreSystemConfig skips loading system-level configuration.
	IgnoreSystemConfig bool

	// IgnoreUserConfig skips loading user-level configuration.
	IgnoreUserConfig bool

	// IgnoreProjectConfig skips loading project-level configuration.
	IgnoreProjectConfig bool

	// IgnoreEnv skips loading environment variables.
	IgnoreEnv bool

	// CLIConfig contains configuration from CLI flags.
	// These take highest precedence.
	CLIConfig *config.Config
}

// LoadResult contains the resolved configuration and metadata.
type LoadResult struct {
	// Config is the final merged configuration.
	Config *config.Config

	// Paths contains the discovered configuration file paths.
	Paths *ConfigPaths

	// LoadedFrom lists the files that were actually loaded (in order).
	LoadedFrom []string

	// Warnings contains non-fatal issues encountered during loading.
	Warnings []string
}

// Load resolves the final configuration by merging all sources.
// Precedence (highest to lowest):
//  1. CLI flags (opts.CLIConfig)
//  2. Environment variables (TEXOUTLINE_*)
//  3. Explicit config file (opts.ExplicitPath)
//  4. Project config (.texoutline.yml upward search)
//  5. User config ($XDG_CONFIG_HOME/texoutline/config.yaml)
//  6. System config (/etc/texoutline/config.yaml)
//  7. Defaults
func Load(ctx context.Context, opts LoadOptions) (*LoadResult, error) {
	workDir := opts.WorkingDir
	if workDir == "" {
		var err error
		workDir, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("get working directory: %w", err)
		}
	}

	paths, err := DiscoverPaths(ctx, workDir)
	if err != nil {
		return nil, fmt.Errorf("discover paths: %w", err)
	}
	paths.Explicit = opts.ExplicitPath

	result := &LoadResult{Paths: paths}
	layers := []*config.Config{config.NewConfig()}

	sources := []struct {
		label string
		path  string
		skip  bool
	}{
		{label: "system", path: paths.System, skip: opts.IgnoreSystemConfig},
		{label: "user", path: paths.User, skip: opts.IgnoreUserConfig},
		{label: "project", path: paths.Project, skip: opts.IgnoreProjectConfig},
		{label: "explicit", path: paths.Explicit},
	}

	for _, src := range sources {
		if src.skip || src.path == "" {
			continue
		}
		fileCfg, err := loadConfigFile(ctx, src.path)
		if err != nil {
			return nil, fmt.Errorf("load %s config: %w", src.label, err)
		}
		if validation := ValidateWithFile(fileCfg, src.path); !validation.Valid() {
			return nil, &validation.Errors[0]
		}
		layers = append(layers, fileCfg)
		result.LoadedFrom = append(result.LoadedFrom, src.path)
	}
	cfg := MergeAll(layers...)

	if !opts.IgnoreEnv {
		if err := LoadFromEnv(cfg); err != nil {
			return nil, fmt.Errorf("load environment: %w", err)
		}
	}

	if opts.CLIConfig != nil {
		cfg = merge(cfg, opts.CLIConfig)
	}

	validation := Validate(cfg)
	if !validation.Valid() {
		return nil, &validation.Errors[0]
	}
	for _, w := range validation.Warnings {
		result.Warnings = append(result.Warnings, w.Error())
	}

	result.Config = cfg
	return result, nil
}

// loadConfigFile loads a configuration from a YAML file.
func loadConfigFile(ctx context.Context, path string) (*config.Config, error) {
	content, _, err := fsutil.ReadText(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	cfg, err := config.FromYAML([]byte(content))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

// WriteConfig writes cfg to path with the default header. Existing files
// are only replaced when force is set.
func WriteConfig(ctx context.Context, cfg *config.Config, path string, force bool) error {
	content, err := cfg.ToYAMLWithHeader(config.DefaultTemplateHeader())
	if err != nil {
		return err
	}
	return WriteFile(ctx, path, content, force)
}

// WriteFile writes raw configuration bytes to path.
func WriteFile(ctx context.Context, path string, content []byte, force bool) error {
	if !force && fileExists(path) {
		return fmt.Errorf("%w: %s (use --force to overwrite)", ErrConfigExists, path)
	}
	if err := fsutil.WriteAtomic(ctx, path, content, configFilePermissions); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
