package reporter

import (
	"errors"

	"github.com/samber/lo"

	"github.com/yaklabco/texoutline/pkg/analysis"
	"github.com/yaklabco/texoutline/pkg/document"
	"github.com/yaklabco/texoutline/pkg/runner"
	"github.com/yaklabco/texoutline/pkg/texast"
)

// schemaVersion identifies the layout of structured output.
const schemaVersion = "1"

// Output is the structured form of a run, shared by JSON and YAML.
type Output struct {
	Version string       `json:"version" yaml:"version"`
	Files   []FileOutput `json:"files" yaml:"files"`
	Summary Summary      `json:"summary" yaml:"summary"`
}

// FileOutput is one file's outline or failure.
type FileOutput struct {
	Path        string              `json:"path" yaml:"path"`
	Dialect     string              `json:"dialect,omitempty" yaml:"dialect,omitempty"`
	Outline     []document.Item     `json:"outline,omitempty" yaml:"outline,omitempty"`
	Entries     []texast.BibEntry   `json:"entries,omitempty" yaml:"entries,omitempty"`
	Diagnostics []texast.Diagnostic `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
	Error       string              `json:"error,omitempty" yaml:"error,omitempty"`
}

// Summary holds aggregate counts.
type Summary struct {
	Files       int            `json:"files" yaml:"files"`
	Parsed      int            `json:"parsed" yaml:"parsed"`
	Failed      int            `json:"failed" yaml:"failed"`
	Sections    int            `json:"sections" yaml:"sections"`
	Subsections int            `json:"subsections" yaml:"subsections"`
	Objects     map[string]int `json:"objects" yaml:"objects"`
	Entries     int            `json:"entries" yaml:"entries"`
}

// BuildOutput converts a run result into its structured form.
func BuildOutput(result *runner.Result, opts Options) *Output {
	output := &Output{
		Version: schemaVersion,
		Files:   make([]FileOutput, 0),
		Summary: Summary{Objects: make(map[string]int)},
	}
	if result == nil {
		return output
	}

	for _, file := range result.Files {
		output.Files = append(output.Files, buildFile(file, opts))
	}

	stats := result.Stats
	output.Summary = Summary{
		Files:       stats.FilesDiscovered,
		Parsed:      stats.FilesParsed,
		Failed:      stats.FilesFailed,
		Sections:    stats.Sections,
		Subsections: stats.Subsections,
		Objects: lo.MapKeys(stats.Objects, func(_ int, kind document.ObjectKind) string {
			return kind.String()
		}),
		Entries: stats.Entries,
	}
	return output
}

func buildFile(file runner.FileOutcome, opts Options) FileOutput {
	out := FileOutput{Path: displayPath(file.Path, opts.WorkingDir)}

	if file.Error != nil {
		var parseErr *analysis.ParseError
		if errors.As(file.Error, &parseErr) {
			out.Dialect = string(parseErr.Dialect)
			out.Diagnostics = parseErr.Diagnostics
		} else {
			out.Error = file.Error.Error()
		}
		return out
	}
	if file.Result == nil {
		return out
	}

	out.Dialect = string(file.Result.Dialect)
	if file.Result.Document != nil {
		out.Outline = filterItems(file.Result.Document.Items, opts.Objects)
	}
	if opts.ShowEntries {
		out.Entries = file.Result.Entries
	}
	return out
}

// filterItems drops objects whose kind is not in kinds. Nil kinds keeps
// everything. Containers are copied, never modified in place.
func filterItems(items []document.Item, kinds []document.ObjectKind) []document.Item {
	if kinds == nil {
		return items
	}

	out := make([]document.Item, 0, len(items))
	for _, item := range items {
		switch {
		case item.Object != nil:
			if !lo.Contains(kinds, item.Object.Kind) {
				continue
			}
		case item.Section != nil:
			section := *item.Section
			section.Items = filterItems(section.Items, kinds)
			item.Section = &section
		case item.Subsection != nil:
			sub := *item.Subsection
			sub.Items = filterItems(sub.Items, kinds)
			item.Subsection = &sub
		}
		out = append(out, item)
	}
	return out
}
