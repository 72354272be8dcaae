package reporter_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/yaklabco/texoutline/pkg/analysis"
	"github.com/yaklabco/texoutline/pkg/diff"
	"github.com/yaklabco/texoutline/pkg/document"
	"github.com/yaklabco/texoutline/pkg/reporter"
	"github.com/yaklabco/texoutline/pkg/runner"
)

const paper = `\begin{document}
\section{Intro}
\begin{table}\caption{Data}\label{tab:data}\end{table}
\subsection{Notes}
\includegraphics{plot.png}
\bibliography{refs}
\end{document}
`

// runFixture parses a small tree: one good LaTeX file, one broken one and
// one bibliography.
func runFixture(t *testing.T) (*runner.Result, string) {
	t.Helper()

	dir := t.TempDir()
	files := map[string]string{
		"paper.tex":  paper,
		"broken.tex": "\\begin{document}\n\\subsection{Early}\n\\end{document}\n",
		"refs.bib":   "@article{doe20, title = {Results}, year = 2020}\n",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
	}

	r := runner.New(analysis.New(analysis.Options{}))
	result, err := r.Run(context.Background(), runner.Options{WorkingDir: dir, Jobs: 1})
	require.NoError(t, err)
	return result, dir
}

func report(t *testing.T, format reporter.Format, opts reporter.Options) (string, int) {
	t.Helper()

	result, dir := runFixture(t)

	var buf bytes.Buffer
	opts.Writer = &buf
	opts.Format = format
	opts.Color = "never"
	opts.WorkingDir = dir

	rep, err := reporter.New(opts)
	require.NoError(t, err)
	failed, err := rep.Report(context.Background(), result)
	require.NoError(t, err)
	return buf.String(), failed
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    reporter.Format
		wantErr bool
	}{
		{input: "", want: reporter.FormatText},
		{input: "text", want: reporter.FormatText},
		{input: "JSON", want: reporter.FormatJSON},
		{input: "yml", want: reporter.FormatYAML},
		{input: "md", want: reporter.FormatMarkdown},
		{input: "html", want: reporter.FormatHTML},
		{input: "summary", want: reporter.FormatSummary},
		{input: "sarif", wantErr: true},
	}

	for _, testCase := range tests {
		t.Run(testCase.input, func(t *testing.T) {
			t.Parallel()

			got, err := reporter.ParseFormat(testCase.input)
			if testCase.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, testCase.want, got)
			assert.True(t, got.IsValid())
		})
	}
}

func TestNew_UnknownFormat(t *testing.T) {
	t.Parallel()

	_, err := reporter.New(reporter.Options{Format: "xml", Writer: &bytes.Buffer{}})
	require.Error(t, err)
}

func TestTextReporter(t *testing.T) {
	t.Parallel()

	out, failed := report(t, reporter.FormatText, reporter.Options{ShowSummary: true, ShowEntries: true})
	assert.Equal(t, 1, failed)

	assert.Contains(t, out, "broken.tex:2: error: subsection outside of any section")
	assert.Contains(t, out, "1 Intro")
	assert.Contains(t, out, "table 1 [tab:data] Data")
	assert.Contains(t, out, "1.1 Notes")
	assert.Contains(t, out, "bibliography 1 refs")
	assert.Contains(t, out, "refs.bib (1 entries)")
	assert.Contains(t, out, "doe20")
	assert.Contains(t, out, "2 files, 1 section, 3 objects, 1 entry, 1 failed")
}

func TestJSONReporter(t *testing.T) {
	t.Parallel()

	out, failed := report(t, reporter.FormatJSON, reporter.Options{ShowEntries: true})
	assert.Equal(t, 1, failed)

	var output reporter.Output
	require.NoError(t, json.Unmarshal([]byte(out), &output))
	require.Len(t, output.Files, 3)

	broken := output.Files[0]
	assert.Equal(t, "broken.tex", broken.Path)
	require.Len(t, broken.Diagnostics, 1)
	assert.Equal(t, 2, broken.Diagnostics[0].Line)

	assert.Equal(t, "paper.tex", output.Files[1].Path)
	assert.Equal(t, "tex", output.Files[1].Dialect)
	require.Len(t, output.Files[1].Outline, 1)
	assert.Equal(t, "Intro", output.Files[1].Outline[0].Section.Name)

	assert.Equal(t, "bib", output.Files[2].Dialect)
	assert.Contains(t, out, `"kind": "article"`)

	assert.Equal(t, 1, output.Summary.Failed)
	assert.Equal(t, map[string]int{"table": 1, "image": 1, "bibliography": 1}, output.Summary.Objects)
}

func TestJSONReporter_ObjectFilter(t *testing.T) {
	t.Parallel()

	out, _ := report(t, reporter.FormatJSON, reporter.Options{
		Objects: []document.ObjectKind{document.ObjectImage},
		Compact: true,
	})
	assert.NotContains(t, out, `"kind":"table"`)
	assert.Contains(t, out, `"kind":"image"`)
	assert.NotContains(t, out, `"entries":[`)
}

func TestYAMLReporter(t *testing.T) {
	t.Parallel()

	out, failed := report(t, reporter.FormatYAML, reporter.Options{})
	assert.Equal(t, 1, failed)

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "1", decoded["version"])
	assert.Contains(t, out, "name: Intro")
}

func TestMarkdownReporter(t *testing.T) {
	t.Parallel()

	out, _ := report(t, reporter.FormatMarkdown, reporter.Options{ShowEntries: true, ShowLines: true})

	assert.Contains(t, out, "## paper.tex")
	assert.Contains(t, out, "- **1 Intro** (line 2)")
	assert.Contains(t, out, "  - table 1 `tab:data` Data")
	assert.Contains(t, out, "  - *1.1 Notes*")
	assert.Contains(t, out, "| doe20 | article | Results | 2020 |")
	assert.Contains(t, out, "> **error** line 2: subsection outside of any section")
}

func TestHTMLReporter(t *testing.T) {
	t.Parallel()

	out, _ := report(t, reporter.FormatHTML, reporter.Options{ShowEntries: true})

	assert.Contains(t, out, "<h2>paper.tex</h2>")
	assert.Contains(t, out, "<strong>1 Intro</strong>")
	assert.Contains(t, out, "<code>tab:data</code>")
	assert.Contains(t, out, "<table>")
	assert.Contains(t, out, "<td>doe20</td>")
}

func TestSummaryReporter(t *testing.T) {
	t.Parallel()

	out, failed := report(t, reporter.FormatSummary, reporter.Options{})
	assert.Equal(t, 1, failed)
	assert.Contains(t, out, "broken.tex")
	assert.Contains(t, out, "Summary")
	assert.Contains(t, out, "Some files could not be parsed")
}

func TestReport_Empty(t *testing.T) {
	t.Parallel()

	for _, format := range reporter.Formats() {
		var buf bytes.Buffer
		rep, err := reporter.New(reporter.Options{Writer: &buf, Format: format, Color: "never"})
		require.NoError(t, err)

		failed, err := rep.Report(context.Background(), &runner.Result{})
		require.NoError(t, err, format)
		assert.Zero(t, failed)
	}
}

func TestWriteDiff(t *testing.T) {
	t.Parallel()

	rep := reporter.DiffReport{
		Before: "a.tex",
		After:  "b.tex",
		Axis:   "sections",
		Differences: []diff.Difference{
			{Op: diff.OpAdded, Pos: 1, Text: `\section{New}`},
			{Op: diff.OpRemoved, Pos: 2},
		},
	}

	var text bytes.Buffer
	require.NoError(t, reporter.WriteDiff(&text, rep, reporter.Options{Format: reporter.FormatText, Color: "never"}))
	assert.Equal(t, "sections: a.tex -> b.tex\n+ 1 \\section{New}\n- 2\n", text.String())

	var js bytes.Buffer
	require.NoError(t, reporter.WriteDiff(&js, rep, reporter.Options{Format: reporter.FormatJSON, Compact: true}))
	assert.True(t, strings.HasPrefix(js.String(), `{"before":"a.tex","after":"b.tex","axis":"sections","differences":[{"op":"added","pos":1,"text":"\\section{New}"},{"op":"removed","pos":2}]}`))

	var empty bytes.Buffer
	require.NoError(t, reporter.WriteDiff(&empty, reporter.DiffReport{Axis: "references"},
		reporter.Options{Format: reporter.FormatYAML}))
	assert.Contains(t, empty.String(), "differences: []")
}
