package configloader

import (
	"fmt"
	"strings"

	"github.com/yaklabco/texoutline/pkg/analysis"
	"github.com/yaklabco/texoutline/pkg/config"
	"github.com/yaklabco/texoutline/pkg/document"
	"github.com/yaklabco/texoutline/pkg/reporter"
	"github.com/yaklabco/texoutline/pkg/runner"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Field is the path to the invalid field (e.g., "outline.objects[1]").
	Field string

	// Value is the invalid value.
	Value any

	// Message describes the validation error.
	Message string

	// FilePath is the config file containing the error (if known).
	FilePath string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var parts []string
	if e.FilePath != "" {
		parts = append(parts, e.FilePath)
	}
	if e.Field != "" {
		parts = append(parts, e.Field)
	}
	parts = append(parts, e.Message)

	return strings.Join(parts, ": ")
}

// ValidationResult contains all validation findings.
type ValidationResult struct {
	// Errors are validation failures that prevent loading.
	Errors []ValidationError

	// Warnings are non-fatal issues.
	Warnings []ValidationError
}

// Valid returns true if there are no errors.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// HasWarnings returns true if there are any warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// AllMessages returns all error and warning messages combined.
func (r *ValidationResult) AllMessages() []string {
	messages := make([]string, 0, len(r.Errors)+len(r.Warnings))
	for _, e := range r.Errors {
		messages = append(messages, "error: "+e.Error())
	}
	for _, w := range r.Warnings {
		messages = append(messages, "warning: "+w.Error())
	}
	return messages
}

func (r *ValidationResult) fail(field string, value any, format string, args ...any) {
	r.Errors = append(r.Errors, ValidationError{Field: field, Value: value, Message: fmt.Sprintf(format, args...)})
}

func (r *ValidationResult) warn(field string, value any, format string, args ...any) {
	r.Warnings = append(r.Warnings, ValidationError{Field: field, Value: value, Message: fmt.Sprintf(format, args...)})
}

// Validate checks a configuration for errors and warnings.
func Validate(cfg *config.Config) *ValidationResult {
	result := &ValidationResult{}
	if cfg == nil {
		return result
	}

	if cfg.Dialect != "" {
		if _, ok := analysis.ParseDialect(cfg.Dialect); !ok {
			result.fail("dialect", cfg.Dialect, "invalid dialect %q; must be one of: auto, tex, typst, bib", cfg.Dialect)
		}
	}

	if cfg.Format != "" {
		if _, err := reporter.ParseFormat(string(cfg.Format)); err != nil {
			result.fail("format", cfg.Format, "%v", err)
		}
	}

	if cfg.MaxDepth < 0 {
		result.fail("max_depth", cfg.MaxDepth, "max_depth must be >= 0 (0 means default)")
	}

	if cfg.Jobs < 0 {
		result.fail("jobs", cfg.Jobs, "jobs must be >= 0 (0 means auto)")
	}

	switch cfg.Color {
	case "", "auto", "always", "never":
	default:
		result.fail("color", cfg.Color, "invalid color mode %q; must be one of: auto, always, never", cfg.Color)
	}

	for i, kind := range cfg.Outline.Objects {
		if _, ok := document.ParseObjectKind(kind); !ok {
			result.fail(fmt.Sprintf("outline.objects[%d]", i), kind, "unknown object kind %q", kind)
		}
	}

	for i, ext := range cfg.Extensions {
		if strings.TrimSpace(ext) == "" {
			result.warn(fmt.Sprintf("extensions[%d]", i), ext, "empty extension is ignored")
		}
	}

	for i, pattern := range cfg.Ignore {
		if _, err := runner.CompileGlobs([]string{pattern}); err != nil {
			result.fail(fmt.Sprintf("ignore[%d]", i), pattern, "invalid glob pattern: %v", err)
		}
	}

	return result
}

// ValidateWithFile validates configuration and includes file path in errors.
func ValidateWithFile(cfg *config.Config, filePath string) *ValidationResult {
	result := Validate(cfg)

	for i := range result.Errors {
		result.Errors[i].FilePath = filePath
	}
	for i := range result.Warnings {
		result.Warnings[i].FilePath = filePath
	}

	return result
}
