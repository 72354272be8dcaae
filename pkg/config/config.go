// Package config defines the configuration types for texoutline.
// These types are plain data with yaml tags; loading and merging live in
// internal/configloader.
package config

// OutputFormat names a report format. Values are validated by the loader
// against the reporter's format list.
type OutputFormat string

const (
	FormatText     OutputFormat = "text"
	FormatJSON     OutputFormat = "json"
	FormatYAML     OutputFormat = "yaml"
	FormatMarkdown OutputFormat = "markdown"
	FormatHTML     OutputFormat = "html"
	FormatSummary  OutputFormat = "summary"
)

// DefaultMaxDepth bounds group and argument nesting in the lexer.
const DefaultMaxDepth = 128

// OutlineConfig controls what the outline view shows.
type OutlineConfig struct {
	// Objects limits listed objects to these kinds ("table", "image", ...).
	// Empty means all kinds.
	Objects []string `yaml:"objects,omitempty"`

	// Lines appends source line numbers to headings.
	Lines bool `yaml:"lines,omitempty"`

	// Entries lists bibliography entries under .bib files.
	Entries bool `yaml:"entries,omitempty"`
}

// BibliographyConfig controls bibliography resolution in watch mode.
type BibliographyConfig struct {
	// Resolve loads the file named by \bibliography or #bibliography.
	Resolve *bool `yaml:"resolve,omitempty"`

	// BaseDir overrides the directory bibliography names resolve against.
	// Empty means the directory of the document.
	BaseDir string `yaml:"base_dir,omitempty"`
}

// Config is the root configuration structure.
type Config struct {
	// Dialect forces a dialect: auto, tex, typst or bib.
	Dialect string `yaml:"dialect,omitempty"`

	// Format is the default report format.
	Format OutputFormat `yaml:"format,omitempty"`

	// MaxDepth bounds lexer recursion. Zero means DefaultMaxDepth.
	MaxDepth int `yaml:"max_depth,omitempty"`

	// Ignore contains glob patterns for files to skip.
	Ignore []string `yaml:"ignore,omitempty"`

	// Extensions overrides the file extensions picked up during discovery.
	Extensions []string `yaml:"extensions,omitempty"`

	// Outline configures the outline view.
	Outline OutlineConfig `yaml:"outline,omitempty"`

	// DetectLanguages guesses the language of code listings.
	DetectLanguages *bool `yaml:"detect_languages,omitempty"`

	// Bibliography configures bibliography resolution.
	Bibliography BibliographyConfig `yaml:"bibliography,omitempty"`

	// CLI-level options (not persisted to config files).

	// Jobs specifies the number of parallel workers.
	Jobs int `yaml:"-"`

	// Color is the color mode: auto, always or never.
	Color string `yaml:"-"`
}

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Dialect:         "auto",
		Format:          FormatText,
		MaxDepth:        DefaultMaxDepth,
		DetectLanguages: Bool(true),
		Bibliography: BibliographyConfig{
			Resolve: Bool(true),
		},
		Jobs:  0, // 0 means use GOMAXPROCS
		Color: "auto",
	}
}

// Bool returns a pointer to b.
func Bool(b bool) *bool {
	return &b
}

// LanguagesEnabled reports whether code listing language detection is on.
func (c *Config) LanguagesEnabled() bool {
	return c.DetectLanguages == nil || *c.DetectLanguages
}

// ResolveBibliography reports whether bibliographies are resolved in watch mode.
func (c *Config) ResolveBibliography() bool {
	return c.Bibliography.Resolve == nil || *c.Bibliography.Resolve
}

// EffectiveMaxDepth returns MaxDepth, or DefaultMaxDepth when unset.
func (c *Config) EffectiveMaxDepth() int {
	if c.MaxDepth <= 0 {
		return DefaultMaxDepth
	}
	return c.MaxDepth
}
