package configloader

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/yaklabco/texoutline/pkg/config"
)

// envVarPrefix is the prefix for all texoutline environment variables.
const envVarPrefix = "TEXOUTLINE_"

// envFieldType represents the type of a configuration field.
type envFieldType int

const (
	envTypeString envFieldType = iota
	envTypeBool
	envTypeInt
	envTypeSlice
)

// envMapping defines an environment variable to config field mapping.
type envMapping struct {
	field       string
	typ         envFieldType
	description string
}

// envMappings maps environment variable names (without prefix) to config fields.
//
//nolint:gochecknoglobals // Read-only lookup table.
var envMappings = map[string]envMapping{
	"DIALECT":          {field: "dialect", typ: envTypeString, description: "Dialect: auto, tex, typst or bib"},
	"FORMAT":           {field: "format", typ: envTypeString, description: "Output format: text, json, yaml, markdown, html or summary"},
	"MAX_DEPTH":        {field: "max_depth", typ: envTypeInt, description: "Maximum group nesting accepted by the lexer"},
	"JOBS":             {field: "jobs", typ: envTypeInt, description: "Number of parallel workers (0 = auto)"},
	"COLOR":            {field: "color", typ: envTypeString, description: "Color mode: auto, always or never"},
	"IGNORE":           {field: "ignore", typ: envTypeSlice, description: "Comma-separated list of ignore patterns"},
	"EXTENSIONS":       {field: "extensions", typ: envTypeSlice, description: "Comma-separated list of file extensions"},
	"OBJECTS":          {field: "outline.objects", typ: envTypeSlice, description: "Comma-separated list of object kinds to show"},
	"LINES":            {field: "outline.lines", typ: envTypeBool, description: "Show heading line numbers: true or false"},
	"DETECT_LANGUAGES": {field: "detect_languages", typ: envTypeBool, description: "Guess code listing languages: true or false"},
	"BIB_RESOLVE":      {field: "bibliography.resolve", typ: envTypeBool, description: "Resolve bibliographies in watch mode: true or false"},
	"BIB_BASE_DIR":     {field: "bibliography.base_dir", typ: envTypeString, description: "Directory bibliography names resolve against"},
}

// LoadFromEnv applies environment variable overrides to the configuration.
// Environment variables are prefixed with TEXOUTLINE_ (e.g., TEXOUTLINE_DIALECT).
func LoadFromEnv(cfg *config.Config) error {
	if cfg == nil {
		return nil
	}

	for envSuffix, mapping := range envMappings {
		envVar := envVarPrefix + envSuffix
		value := os.Getenv(envVar)
		if value == "" {
			continue
		}

		if err := applyEnvValue(cfg, mapping, value, envVar); err != nil {
			return err
		}
	}

	return nil
}

// applyEnvValue applies a single environment variable value to the config.
func applyEnvValue(cfg *config.Config, mapping envMapping, value, envVar string) error {
	switch mapping.typ {
	case envTypeString:
		return setStringField(cfg, mapping.field, value)
	case envTypeBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for %s: %q (expected true/false/1/0)", envVar, value)
		}
		return setBoolField(cfg, mapping.field, b)
	case envTypeInt:
		i, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer for %s: %q", envVar, value)
		}
		return setIntField(cfg, mapping.field, i)
	case envTypeSlice:
		return setSliceField(cfg, mapping.field, parseSliceValue(value))
	default:
		return fmt.Errorf("unknown field type for %s", envVar)
	}
}

// parseSliceValue parses a comma-separated string into a slice.
// Each element is trimmed of whitespace.
func parseSliceValue(value string) []string {
	return lo.FilterMap(strings.Split(value, ","), func(part string, _ int) (string, bool) {
		trimmed := strings.TrimSpace(part)
		return trimmed, trimmed != ""
	})
}

func setStringField(cfg *config.Config, field, value string) error {
	switch field {
	case "dialect":
		cfg.Dialect = value
	case "format":
		cfg.Format = config.OutputFormat(value)
	case "color":
		cfg.Color = value
	case "bibliography.base_dir":
		cfg.Bibliography.BaseDir = value
	default:
		return fmt.Errorf("unknown string field: %s", field)
	}
	return nil
}

func setBoolField(cfg *config.Config, field string, value bool) error {
	switch field {
	case "outline.lines":
		cfg.Outline.Lines = value
	case "detect_languages":
		cfg.DetectLanguages = config.Bool(value)
	case "bibliography.resolve":
		cfg.Bibliography.Resolve = config.Bool(value)
	default:
		return fmt.Errorf("unknown boolean field: %s", field)
	}
	return nil
}

func setIntField(cfg *config.Config, field string, value int) error {
	switch field {
	case "jobs":
		cfg.Jobs = value
	case "max_depth":
		cfg.MaxDepth = value
	default:
		return fmt.Errorf("unknown integer field: %s", field)
	}
	return nil
}

func setSliceField(cfg *config.Config, field string, value []string) error {
	switch field {
	case "ignore":
		cfg.Ignore = value
	case "extensions":
		cfg.Extensions = value
	case "outline.objects":
		cfg.Outline.Objects = value
	default:
		return fmt.Errorf("unknown slice field: %s", field)
	}
	return nil
}

// GetEnvVarName returns the full environment variable name for a config field.
func GetEnvVarName(field string) string {
	for suffix, mapping := range envMappings {
		if mapping.field == field {
			return envVarPrefix + suffix
		}
	}
	return ""
}

// ListEnvVars returns all supported environment variables with their descriptions.
func ListEnvVars() map[string]string {
	out := make(map[string]string, len(envMappings))
	for suffix, mapping := range envMappings {
		out[envVarPrefix+suffix] = mapping.description
	}
	return out
}
