package cli_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/texoutline/internal/cli"
)

const testdataDir = "../../testdata"

// runCommand executes the root command with args and returns its output.
func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := cli.NewRootCommand(cli.BuildInfo{Version: "test", Commit: "test", Date: "test"})
	cmd.SetArgs(append([]string{"--color", "never"}, args...))

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)

	err := cmd.Execute()
	return out.String(), err
}

func testdataPath(name string) string {
	return filepath.Join(testdataDir, name)
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestOutlineText(t *testing.T) {
	t.Parallel()

	out, err := runCommand(t, "outline", "--lines", testdataPath("paper.tex"))
	require.NoError(t, err)

	assert.Contains(t, out, "1 Introduction")
	assert.Contains(t, out, "1.1 Motivation")
	assert.Contains(t, out, "2 Results")
	assert.Contains(t, out, "System overview")
	assert.Contains(t, out, ":14")
}

func TestOutlineJSON(t *testing.T) {
	t.Parallel()

	out, err := runCommand(t, "outline", "--format", "json", testdataPath("paper.tex"))
	require.NoError(t, err)

	var decoded struct {
		Files []struct {
			Dialect string           `json:"dialect"`
			Outline []map[string]any `json:"outline"`
		} `json:"files"`
		Summary struct {
			Parsed      int `json:"parsed"`
			Sections    int `json:"sections"`
			Subsections int `json:"subsections"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))

	require.Len(t, decoded.Files, 1)
	assert.Equal(t, "tex", decoded.Files[0].Dialect)
	assert.Len(t, decoded.Files[0].Outline, 2)
	assert.Equal(t, 1, decoded.Summary.Parsed)
	assert.Equal(t, 2, decoded.Summary.Sections)
	assert.Equal(t, 1, decoded.Summary.Subsections)
}

func TestOutlineParseFailure(t *testing.T) {
	t.Parallel()

	path := writeTemp(t, "broken.tex", "\\section{A}\n\\begin{figure}\n")

	out, err := runCommand(t, "outline", path)
	require.ErrorIs(t, err, cli.ErrParseFailures)
	assert.Equal(t, cli.ExitParseErrors, cli.ExitCode(err))
	assert.Contains(t, out, "broken.tex")
}

func TestOutlineWritesOutputFile(t *testing.T) {
	t.Parallel()

	target := filepath.Join(t.TempDir(), "outline.json")

	_, err := runCommand(t, "outline", "--format", "json", "--output", target, testdataPath("paper.tex"))
	require.NoError(t, err)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Introduction")
}

func TestBibCommand(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		args     []string
		wantKeys []string
	}{
		{
			name:     "bib file",
			args:     []string{"bib", "--format", "json", testdataPath("refs.bib")},
			wantKeys: []string{"knuth1984", "lamport1986"},
		},
		{
			name:     "linked from document",
			args:     []string{"bib", "--format", "json", testdataPath("paper.tex")},
			wantKeys: []string{"knuth1984", "lamport1986"},
		},
		{
			name:     "kind filter",
			args:     []string{"bib", "--format", "json", "--kind", "article", testdataPath("refs.bib")},
			wantKeys: []string{"lamport1986"},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			out, err := runCommand(t, testCase.args...)
			require.NoError(t, err)

			var entries []struct {
				Key string `json:"key"`
			}
			require.NoError(t, json.Unmarshal([]byte(out), &entries))

			keys := make([]string, 0, len(entries))
			for _, entry := range entries {
				keys = append(keys, entry.Key)
			}
			assert.Equal(t, testCase.wantKeys, keys)
		})
	}
}

func TestBibRejectsMarkdown(t *testing.T) {
	t.Parallel()

	_, err := runCommand(t, "bib", "--format", "markdown", testdataPath("refs.bib"))
	require.ErrorIs(t, err, cli.ErrUsage)
}

func TestDiffCommand(t *testing.T) {
	t.Parallel()

	before := writeTemp(t, "before.tex", "\\section{A}\nfirst\n")
	after := writeTemp(t, "after.tex", "\\section{A}\nfirst\n\\section{B}\nsecond\n")

	out, err := runCommand(t, "diff", "--axis", "sections", before, after)
	require.NoError(t, err)
	assert.Contains(t, out, "sections:")
	assert.Contains(t, out, "+ 1")

	out, err = runCommand(t, "diff", "--axis", "sections", before, before)
	require.NoError(t, err)
	assert.Contains(t, out, "no changes")

	_, err = runCommand(t, "diff", "--axis", "chapters", before, after)
	require.ErrorIs(t, err, cli.ErrUsage)
}

func TestLocateCommand(t *testing.T) {
	t.Parallel()

	out, err := runCommand(t, "locate", "--json", testdataPath("paper.tex"), "0.1")
	require.NoError(t, err)

	var loc cli.Location
	require.NoError(t, json.Unmarshal([]byte(out), &loc))
	assert.Equal(t, []int{0, 1}, loc.Path)
	assert.Equal(t, "subsection", loc.Kind)
	assert.Equal(t, "Motivation", loc.Name)
	assert.Equal(t, 14, loc.Line)

	_, err = runCommand(t, "locate", testdataPath("paper.tex"), "7")
	require.ErrorIs(t, err, cli.ErrNotFound)
	assert.Equal(t, cli.ExitNotFound, cli.ExitCode(err))
}

func TestTokensCommand(t *testing.T) {
	t.Parallel()

	out, err := runCommand(t, "tokens", "--blocks", testdataPath("paper.tex"))
	require.NoError(t, err)
	assert.Contains(t, out, "document  #")
	assert.Contains(t, out, "  figure  #")

	out, err = runCommand(t, "tokens", "--dump", testdataPath("paper.tex"))
	require.NoError(t, err)
	assert.Contains(t, out, "Token{")
}

func TestInitCommand(t *testing.T) {
	t.Parallel()

	target := filepath.Join(t.TempDir(), "texoutline.yml")

	_, err := runCommand(t, "init", "--full", "--output", target)
	require.NoError(t, err)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(data), "dialect: auto")

	_, err = runCommand(t, "init", "--output", target)
	require.ErrorIs(t, err, cli.ErrUsage)

	_, err = runCommand(t, "init", "--force", "--output", target)
	require.NoError(t, err)
}

func TestWatchOnce(t *testing.T) {
	t.Parallel()

	out, err := runCommand(t, "watch", "--once", "--no-bib", testdataPath("paper.tex"))
	require.NoError(t, err)
	assert.Contains(t, out, "Introduction")
}

func TestUsageAndConfigErrors(t *testing.T) {
	t.Parallel()

	_, err := runCommand(t, "outline", "--no-such-flag")
	assert.Equal(t, cli.ExitInvalidUsage, cli.ExitCode(err))

	configPath := writeTemp(t, "bad.yml", "dialect: cobol\n")
	_, err = runCommand(t, "--config", configPath, "outline", testdataPath("paper.tex"))
	assert.Equal(t, cli.ExitConfigError, cli.ExitCode(err))
}
