package runner_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/texoutline/pkg/analysis"
	"github.com/yaklabco/texoutline/pkg/document"
	"github.com/yaklabco/texoutline/pkg/runner"
)

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
}

const goodTeX = `\begin{document}
\section{A}
\subsection{A1}
\includegraphics{x.png}
\section{B}
\end{document}
`

func TestRun(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"paper.tex":   goodTeX,
		"notes.typ":   "= One\n$ x $\n",
		"refs.bib":    "@book{a, title = {A}}\n@misc{b, note = c}\n",
		"broken.tex":  "\\begin{document}\n\\begin{table}\n\\end{document}\n",
		"ignored.txt": "not a source",
	})

	r := runner.New(analysis.New(analysis.Options{}))
	res, err := r.Run(context.Background(), runner.Options{WorkingDir: dir, Jobs: 2})
	require.NoError(t, err)

	require.Len(t, res.Files, 4)
	assert.Equal(t, filepath.Join(dir, "broken.tex"), res.Files[0].Path)
	assert.Equal(t, filepath.Join(dir, "notes.typ"), res.Files[1].Path)

	assert.Equal(t, 4, res.Stats.FilesDiscovered)
	assert.Equal(t, 3, res.Stats.FilesParsed)
	assert.Equal(t, 1, res.Stats.FilesFailed)
	assert.Equal(t, 3, res.Stats.Sections)
	assert.Equal(t, 1, res.Stats.Subsections)
	assert.Equal(t, 2, res.Stats.Entries)
	assert.Equal(t, 1, res.Stats.Objects[document.ObjectImage])
	assert.Equal(t, 1, res.Stats.Objects[document.ObjectEquation])
	assert.Equal(t, 2, res.Stats.ObjectsTotal())

	assert.True(t, res.HasFailures())
	failed := res.Failed()
	require.Len(t, failed, 1)
	assert.True(t, analysis.IsParseError(failed[0].Error))
}

func TestRun_Empty(t *testing.T) {
	t.Parallel()

	r := runner.New(analysis.New(analysis.Options{}))
	res, err := r.Run(context.Background(), runner.Options{WorkingDir: t.TempDir()})
	require.NoError(t, err)
	assert.Empty(t, res.Files)
	assert.False(t, res.HasFailures())
}

func TestRun_Cancelled(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"a.tex": goodTeX})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := runner.New(analysis.New(analysis.Options{}))
	_, err := r.Run(ctx, runner.Options{WorkingDir: dir})
	require.ErrorIs(t, err, context.Canceled)
}

func TestRunFiles_MissingFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	r := runner.New(analysis.New(analysis.Options{}))
	res, err := r.RunFiles(context.Background(), []string{filepath.Join(dir, "gone.tex")}, 1)
	require.NoError(t, err)
	require.Len(t, res.Files, 1)
	require.Error(t, res.Files[0].Error)
	assert.False(t, analysis.IsParseError(res.Files[0].Error))
}
