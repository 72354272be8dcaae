package pretty_test

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/texoutline/internal/ui/pretty"
	"github.com/yaklabco/texoutline/pkg/diff"
	"github.com/yaklabco/texoutline/pkg/document"
	"github.com/yaklabco/texoutline/pkg/lexer"
	"github.com/yaklabco/texoutline/pkg/runner"
	"github.com/yaklabco/texoutline/pkg/texast"
)

func TestNewStyles_ColorDisabled(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)
	require.NotNil(t, styles)
	assert.Equal(t, "test", styles.Bold.Render("test"))
	assert.Equal(t, "test", styles.Section.Render("test"))
}

func TestIsColorEnabled(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	assert.True(t, pretty.IsColorEnabled("always", &buf))
	assert.False(t, pretty.IsColorEnabled("never", os.Stdout))
	assert.False(t, pretty.IsColorEnabled("auto", &buf))
}

func TestIsColorEnabled_NoColorEnv(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	assert.False(t, pretty.IsColorEnabled("auto", os.Stdout))
}

func outline(t *testing.T, body string) *document.Document {
	t.Helper()

	src := "\\begin{document}\n" + body + "\n\\end{document}"
	tokens, err := lexer.Scan(src)
	require.NoError(t, err)
	doc, err := document.FromTokens(src, tokens)
	require.NoError(t, err)
	return doc
}

func TestFormatOutline(t *testing.T) {
	t.Parallel()

	doc := outline(t, `\includegraphics{logo.png}
\section{Intro}
\subsection{Scope}
\begin{table}\caption{Results}\label{tab:r}\end{table}
\section{End}`)

	styles := pretty.NewStyles(false)
	out := styles.FormatOutline("paper.tex", doc, pretty.OutlineOptions{Lines: true})

	assert.Contains(t, out, "paper.tex")
	assert.Contains(t, out, "image 1 logo.png")
	assert.Contains(t, out, "1 Intro :3")
	assert.Contains(t, out, "1.1 Scope")
	assert.Contains(t, out, "table 1 [tab:r] Results")
	assert.Contains(t, out, "2 End")
	assert.Less(t, strings.Index(out, "Intro"), strings.Index(out, "Scope"))

	filtered := styles.FormatOutline("paper.tex", doc, pretty.OutlineOptions{
		Objects: []document.ObjectKind{document.ObjectTable},
	})
	assert.NotContains(t, filtered, "image")
	assert.Contains(t, filtered, "table 1")
	assert.NotContains(t, filtered, ":3")
}

func TestFormatOutline_Empty(t *testing.T) {
	t.Parallel()

	out := pretty.NewStyles(false).FormatOutline("x.tex", nil, pretty.OutlineOptions{})
	assert.Contains(t, out, "(empty)")
}

func TestFormatDiagnostics(t *testing.T) {
	t.Parallel()

	src := "first\nsecond line\n"
	out := pretty.NewStyles(false).FormatDiagnostics("a.tex", []texast.Diagnostic{
		{Line: 2, Message: "unclosed math"},
		{Message: "missing document body"},
	}, src)

	assert.Contains(t, out, "a.tex:2: error: unclosed math\n    second line\n")
	assert.Contains(t, out, "a.tex: error: missing document body\n")
}

func TestFormatSummary(t *testing.T) {
	t.Parallel()

	stats := runner.Stats{
		FilesDiscovered: 3,
		FilesParsed:     2,
		FilesFailed:     1,
		Sections:        4,
		Subsections:     1,
		Objects:         map[document.ObjectKind]int{document.ObjectTable: 2, document.ObjectCode: 1},
	}
	styles := pretty.NewStyles(false)

	line := styles.FormatSummaryOneLine(stats)
	assert.Equal(t, "2 files, 4 sections, 3 objects, 1 failed\n", line)

	block := styles.FormatSummary(stats)
	assert.Contains(t, block, "Files failed:")
	assert.Contains(t, block, "table:")
	assert.Contains(t, block, "Some files could not be parsed")
	assert.NotContains(t, block, "image:")

	assert.Contains(t, styles.FormatSummaryOneLine(runner.Stats{}), "No files found")
}

func TestFormatDifferences(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)
	out := styles.FormatDifferences("sections", []diff.Difference{
		{Op: diff.OpEdited, Pos: 0, Text: `\section{A}`},
		{Op: diff.OpAdded, Pos: 1, Text: `\section{B}`},
		{Op: diff.OpRemoved, Pos: 2},
	})
	assert.Equal(t, "sections\n~ 0 \\section{A}\n+ 1 \\section{B}\n- 2\n", out)

	assert.Contains(t, styles.FormatDifferences("references", nil), "no changes")
}

func TestFormatEntries(t *testing.T) {
	t.Parallel()

	entries := lexer.ParseEntries("@inproceedings{lamport94, title = {LaTeX}, year = 1994}")
	formatter := pretty.NewTableFormatter(pretty.NewStyles(false), 120)
	out := formatter.FormatEntries(entries)

	assert.Contains(t, out, "Inproceedings")
	assert.Contains(t, out, "lamport94")
	assert.Contains(t, out, "LaTeX")
	assert.Contains(t, out, "1994")
}

func TestFormatTokens(t *testing.T) {
	t.Parallel()

	src := "a\\\\\n$x$"
	tokens, err := lexer.Scan(src)
	require.NoError(t, err)

	formatter := pretty.NewTableFormatter(pretty.NewStyles(false), 0)
	out := formatter.FormatTokens(texast.NewTokenInfo(src, tokens))

	assert.Contains(t, out, "Text")
	assert.Contains(t, out, "LineBreak")
	assert.Contains(t, out, "Math")
	assert.Contains(t, out, "$x$")
}
