package analysis_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/texoutline/pkg/analysis"
	"github.com/yaklabco/texoutline/pkg/blocks"
	"github.com/yaklabco/texoutline/pkg/document"
	"github.com/yaklabco/texoutline/pkg/fsutil"
	"github.com/yaklabco/texoutline/pkg/lexer"
	"github.com/yaklabco/texoutline/pkg/texast"
)

const texSource = `\documentclass{article}
\begin{document}
\section{Intro}
Some text.
\subsection{Details}
\begin{equation}
x = 1
\end{equation}
@misc{inline, note = {here}}
\end{document}
`

func TestParse_TeX(t *testing.T) {
	t.Parallel()

	a := analysis.New(analysis.Options{})
	res, err := a.Parse(context.Background(), "paper.tex", texSource)
	require.NoError(t, err)

	assert.Equal(t, analysis.DialectTeX, res.Dialect)
	require.Len(t, res.Document.Sections(), 1)
	assert.Equal(t, "Intro", res.Document.Sections()[0].Name)
	assert.Equal(t, []string{`\section{Intro}`}, res.Info.Spans(texast.AxisSections))

	require.Len(t, res.Entries, 1)
	assert.Equal(t, "inline", res.Entries[0].Key)
	assert.NotEmpty(t, res.Tokens)
}

func TestParse_Typst(t *testing.T) {
	t.Parallel()

	a := analysis.New(analysis.Options{})
	res, err := a.Parse(context.Background(), "notes.typ", "= One\n== Two\n#image(\"a.png\")\n")
	require.NoError(t, err)

	assert.Equal(t, analysis.DialectTypst, res.Dialect)
	assert.Equal(t, []string{"= One"}, res.Info.Spans(texast.AxisSections))
	assert.Nil(t, res.Tokens)

	count := 0
	for obj := range res.Document.Objects() {
		assert.Equal(t, document.ObjectImage, obj.Kind)
		count++
	}
	assert.Equal(t, 1, count)
}

func TestParse_Bib(t *testing.T) {
	t.Parallel()

	a := analysis.New(analysis.Options{})
	src := "% refs\n@book{knuth, title = {TAOCP}}\n\n@misc{web, note = x}\n"
	res, err := a.Parse(context.Background(), "refs.bib", src)
	require.NoError(t, err)

	assert.Equal(t, analysis.DialectBib, res.Dialect)
	require.Len(t, res.Entries, 2)
	assert.Equal(t, []string{"knuth", "web"}, res.Info.Spans(texast.AxisReferences))
	assert.Equal(t, 2, res.Info.Len())

	line, ok := res.Info.LineOfToken(1)
	require.True(t, ok)
	assert.Equal(t, 4, line)

	_, ok = res.Info.LineOfToken(2)
	assert.False(t, ok)
	assert.Empty(t, res.Document.Items)
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		path     string
		content  string
		wantLine int
		wantAs   func(error) bool
	}{
		{
			name:     "lex error",
			path:     "a.tex",
			content:  "\\begin{document}\nok\n{unclosed\n\\end{document}",
			wantLine: 0,
			wantAs: func(err error) bool {
				var target *lexer.LexError
				return errors.As(err, &target)
			},
		},
		{
			name:     "structural error",
			path:     "a.tex",
			content:  "\\begin{document}\n\\begin{table}\n\\end{figure}\n\\end{document}",
			wantLine: 3,
			wantAs: func(err error) bool {
				var target *blocks.StructuralError
				return errors.As(err, &target)
			},
		},
		{
			name:     "missing body",
			path:     "a.tex",
			content:  "\\section{A}",
			wantLine: 0,
			wantAs: func(err error) bool {
				return errors.Is(err, document.ErrMissingDocumentBody)
			},
		},
		{
			name:     "subsection first",
			path:     "a.tex",
			content:  "\\begin{document}\n\\subsection{A}\n\\end{document}",
			wantLine: 2,
			wantAs: func(err error) bool {
				var target *document.BuildError
				return errors.As(err, &target)
			},
		},
	}

	a := analysis.New(analysis.Options{})
	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			res, err := a.Parse(context.Background(), testCase.path, testCase.content)
			require.Error(t, err)
			assert.Nil(t, res)
			assert.True(t, analysis.IsParseError(err))
			assert.True(t, testCase.wantAs(err))

			var parseErr *analysis.ParseError
			require.ErrorAs(t, err, &parseErr)
			require.Len(t, parseErr.Diagnostics, 1)
			if testCase.wantLine > 0 {
				assert.Equal(t, testCase.wantLine, parseErr.Diagnostics[0].Line)
			}
			assert.Contains(t, err.Error(), testCase.path)
		})
	}
}

func TestParse_TypstAggregatesDiagnostics(t *testing.T) {
	t.Parallel()

	a := analysis.New(analysis.Options{})
	_, err := a.Parse(context.Background(), "bad.typ", "= A\n$ x\n#f(\"s\n")
	require.Error(t, err)

	var parseErr *analysis.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, analysis.DialectTypst, parseErr.Dialect)
	assert.GreaterOrEqual(t, len(parseErr.Diagnostics), 2)
}

func TestParse_ForcedDialect(t *testing.T) {
	t.Parallel()

	a := analysis.New(analysis.Options{Dialect: analysis.DialectTypst})
	res, err := a.Parse(context.Background(), "weird.tex", "= Heading\n")
	require.NoError(t, err)
	assert.Equal(t, analysis.DialectTypst, res.Dialect)
}

func TestParse_MaxDepth(t *testing.T) {
	t.Parallel()

	a := analysis.New(analysis.Options{MaxDepth: 2})
	_, err := a.Parse(context.Background(), "deep.tex", "\\begin{document}{{{{x}}}}\\end{document}")
	require.Error(t, err)
	assert.True(t, analysis.IsParseError(err))
}

func TestParse_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := analysis.New(analysis.Options{}).Parse(ctx, "a.tex", texSource)
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, analysis.IsParseError(err))
}

func TestParseFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "paper.tex")
	require.NoError(t, os.WriteFile(path, []byte(texSource), 0o600))

	a := analysis.New(analysis.Options{DetectLanguages: true})
	res, err := a.ParseFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, path, res.Path)

	_, err = a.ParseFile(context.Background(), filepath.Join(dir, "missing.tex"))
	require.ErrorIs(t, err, fsutil.ErrNotFound)
	assert.False(t, analysis.IsParseError(err))
}

func TestDetectDialect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path    string
		content string
		want    analysis.Dialect
	}{
		{path: "a.tex", want: analysis.DialectTeX},
		{path: "a.LTX", want: analysis.DialectTeX},
		{path: "a.typ", want: analysis.DialectTypst},
		{path: "a.bib", want: analysis.DialectBib},
		{path: "stdin", content: "\\documentclass{article}", want: analysis.DialectTeX},
		{path: "stdin", content: "@book{k, title = x}", want: analysis.DialectBib},
		{path: "stdin", content: "= Title\n", want: analysis.DialectTypst},
		{path: "stdin", content: "#set page(width: 10cm)", want: analysis.DialectTypst},
		{path: "stdin", content: "plain words", want: analysis.DialectTeX},
	}

	for _, testCase := range tests {
		t.Run(testCase.path+"/"+string(testCase.want), func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, testCase.want, analysis.DetectDialect(testCase.path, testCase.content))
		})
	}
}

func TestParseDialect(t *testing.T) {
	t.Parallel()

	d, ok := analysis.ParseDialect("")
	assert.True(t, ok)
	assert.Equal(t, analysis.DialectAuto, d)

	d, ok = analysis.ParseDialect("LaTeX")
	assert.True(t, ok)
	assert.Equal(t, analysis.DialectTeX, d)

	_, ok = analysis.ParseDialect("markdown")
	assert.False(t, ok)
}
