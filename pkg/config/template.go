package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Full writes every setting with its default instead of a commented
	// minimal file.
	Full bool

	// Format is the output format: "yaml" or "json".
	Format string
}

// GenerateTemplate creates a configuration file template.
func GenerateTemplate(opts TemplateOptions) ([]byte, error) {
	if strings.EqualFold(opts.Format, "json") {
		return templateToJSON(opts.Full)
	}
	if opts.Full {
		return generateFullTemplate()
	}
	return []byte(minimalTemplate), nil
}

const minimalTemplate = `# texoutline configuration
# See: https://github.com/yaklabco/texoutline

# Dialect: auto, tex, typst or bib
dialect: auto

# Default output format: text, json, yaml, markdown, html or summary
# format: text

# Maximum group nesting accepted by the lexer
# max_depth: 128

# File patterns to ignore (glob patterns)
# ignore:
#   - "build/**"
#   - "*.sty"

# Outline view
# outline:
#   objects: [table, image, code]
#   lines: false
#   entries: false

# Guess the language of code listings
# detect_languages: true

# Bibliography resolution in watch mode
# bibliography:
#   resolve: true
#   base_dir: ""
`

// generateFullTemplate writes the default configuration with all keys.
func generateFullTemplate() ([]byte, error) {
	cfg := NewConfig()
	cfg.Ignore = []string{"build/**"}
	cfg.Extensions = []string{".tex", ".typ", ".bib"}
	cfg.Outline.Objects = []string{}

	return cfg.ToYAMLWithHeader(DefaultTemplateHeader() + `
#
# This template lists every setting with its default value.`)
}

// templateToJSON renders the template as JSON. JSON has no comments, so the
// minimal form only carries the dialect.
func templateToJSON(full bool) ([]byte, error) {
	out := map[string]any{"dialect": "auto"}
	if full {
		cfg := NewConfig()
		out = map[string]any{
			"dialect":          cfg.Dialect,
			"format":           cfg.Format,
			"max_depth":        cfg.MaxDepth,
			"ignore":           []string{"build/**"},
			"extensions":       []string{".tex", ".typ", ".bib"},
			"detect_languages": cfg.LanguagesEnabled(),
			"outline": map[string]any{
				"objects": []string{},
				"lines":   false,
				"entries": false,
			},
			"bibliography": map[string]any{
				"resolve":  cfg.ResolveBibliography(),
				"base_dir": "",
			},
		}
	}

	jsonBytes, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal JSON: %w", err)
	}

	var buf bytes.Buffer
	buf.Write(jsonBytes)
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// DefaultTemplateHeader returns the default header for generated configs.
func DefaultTemplateHeader() string {
	return `# texoutline configuration
# See: https://github.com/yaklabco/texoutline`
}
