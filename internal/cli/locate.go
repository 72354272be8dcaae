package cli

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/texoutline/pkg/document"
)

// Location is what locate reports for an outline path.
type Location struct {
	Path       []int  `json:"path"`
	Kind       string `json:"kind"`
	Name       string `json:"name"`
	TokenIndex int    `json:"token_index"`
	Line       int    `json:"line"`
}

func newLocateCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "locate <file> <outline-path>",
		Short: "Find the source position of an outline item",
		Long: `Resolve an outline path to the token and line where the item begins.

The path is a dot-separated list of 0-based indices: a root item, then an
item within that section, then an item within that subsection.

Examples:
  texoutline locate paper.tex 0       # First section
  texoutline locate paper.tex 1.2     # Third item of the second section
  texoutline locate paper.tex 1.0.3   # Fourth item of its first subsection`,
		Args: cobra.ExactArgs(2), //nolint:mnd // file and path
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLocate(cmd, args[0], args[1], asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the location as JSON")

	return cmd
}

// ParseOutlinePath parses "1.0.2" (or "1/0/2") into indices.
func ParseOutlinePath(text string) ([]int, error) {
	fields := strings.FieldsFunc(text, func(r rune) bool { return r == '.' || r == '/' })
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: empty outline path", ErrUsage)
	}
	path := make([]int, len(fields))
	for i, field := range fields {
		n, err := strconv.Atoi(field)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%w: invalid outline path %q", ErrUsage, text)
		}
		path[i] = n
	}
	return path, nil
}

func runLocate(cmd *cobra.Command, file, pathText string, asJSON bool) error {
	path, err := ParseOutlinePath(pathText)
	if err != nil {
		return err
	}

	cfg, _, err := loadConfig(cmd, nil)
	if err != nil {
		return err
	}

	result, err := newAnalyzer(cfg).ParseFile(commandContext(cmd), file)
	if err != nil {
		return reportParseError(cmd, file, err)
	}

	item, ok := result.Document.ItemAt(path)
	if !ok {
		return fmt.Errorf("%w: %s in %s", ErrNotFound, pathText, file)
	}

	loc := Location{
		Path:       path,
		Kind:       itemKind(item),
		Name:       item.Name(),
		TokenIndex: item.TokenIndex,
		Line:       item.Line,
	}
	if result.Info != nil {
		if line, ok := result.Info.LineOfToken(item.TokenIndex); ok {
			loc.Line = line
		}
	}

	out := cmd.OutOrStdout()
	if asJSON {
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(loc)
	}
	_, err = fmt.Fprintf(out, "%s:%d: %s %q (token %d)\n", file, loc.Line, loc.Kind, loc.Name, loc.TokenIndex)
	return err
}

func itemKind(item *document.Item) string {
	switch {
	case item.Section != nil:
		return "section"
	case item.Subsection != nil:
		return "subsection"
	default:
		return "object"
	}
}
