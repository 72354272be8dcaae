package configloader

import "github.com/yaklabco/texoutline/pkg/config"

// merge combines two configurations, with override taking precedence over base.
// The merge follows these rules:
//   - Scalar values: override overwrites base if override is non-zero
//   - Pointer booleans: override wins whenever it is set
//   - Slices: override replaces base entirely if override is non-nil
//   - Plain booleans can only be switched on by override
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	result := *base

	if override.Dialect != "" {
		result.Dialect = override.Dialect
	}
	if override.Format != "" {
		result.Format = override.Format
	}
	if override.MaxDepth != 0 {
		result.MaxDepth = override.MaxDepth
	}
	if override.Jobs != 0 {
		result.Jobs = override.Jobs
	}
	if override.Color != "" {
		result.Color = override.Color
	}

	if override.DetectLanguages != nil {
		result.DetectLanguages = override.DetectLanguages
	}
	if override.Bibliography.Resolve != nil {
		result.Bibliography.Resolve = override.Bibliography.Resolve
	}
	if override.Bibliography.BaseDir != "" {
		result.Bibliography.BaseDir = override.Bibliography.BaseDir
	}

	if override.Outline.Lines {
		result.Outline.Lines = true
	}
	if override.Outline.Entries {
		result.Outline.Entries = true
	}

	if override.Ignore != nil {
		result.Ignore = override.Ignore
	}
	if override.Extensions != nil {
		result.Extensions = override.Extensions
	}
	if override.Outline.Objects != nil {
		result.Outline.Objects = override.Outline.Objects
	}

	return &result
}

// MergeAll merges multiple configurations in order, with later configs taking precedence.
func MergeAll(configs ...*config.Config) *config.Config {
	if len(configs) == 0 {
		return nil
	}

	result := configs[0]
	for i := 1; i < len(configs); i++ {
		result = merge(result, configs[i])
	}
	return result
}
