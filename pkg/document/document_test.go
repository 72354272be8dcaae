package document_test

import (
	"errors"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/texoutline/pkg/blocks"
	"github.com/yaklabco/texoutline/pkg/document"
	"github.com/yaklabco/texoutline/pkg/lexer"
)

func parse(t *testing.T, src string, opts ...document.Option) (*document.Document, error) {
	t.Helper()

	tokens, err := lexer.Scan(src)
	require.NoError(t, err)
	return document.FromTokens(src, tokens, opts...)
}

func TestFromTokens_SectionNesting(t *testing.T) {
	t.Parallel()

	src := `\begin{document}
\section{Intro}
\subsection{Background}
\begin{table}
x
\end{table}
\section{Methods}
\end{document}`

	doc, err := parse(t, src)
	require.NoError(t, err)

	expected := &document.Document{Items: []document.Item{
		{
			TokenIndex: 2,
			Line:       2,
			Section: &document.Section{
				Name:  "Intro",
				Index: 0,
				Items: []document.Item{{
					TokenIndex: 4,
					Line:       3,
					Subsection: &document.Subsection{
						Name: "Background",
						Items: []document.Item{{
							TokenIndex: 6,
							Line:       4,
							Object: &document.Object{
								Kind:  document.ObjectTable,
								Index: document.ObjectIndex{Level: document.LevelSubsection},
							},
						}},
					},
				}},
			},
		},
		{
			TokenIndex: 10,
			Line:       7,
			Section:    &document.Section{Name: "Methods", Index: 1},
		},
	}}

	if diff := cmp.Diff(expected, doc); diff != "" {
		t.Errorf("document mismatch (-want +got):\n%s", diff)
	}
}

func TestFromTokens_Objects(t *testing.T) {
	t.Parallel()

	src := `\begin{document}\includegraphics{a.png}\section{S}$$x$$` +
		`\begin{figure}\includegraphics{b.png}\caption{B}\label{fig:b}\end{figure}` +
		`\bibliography{refs}\end{document}`

	doc, err := parse(t, src)
	require.NoError(t, err)
	require.Len(t, doc.Items, 2)

	root := doc.Items[0]
	require.NotNil(t, root.Object)
	assert.Equal(t, 1, root.TokenIndex)
	assert.Equal(t, document.Object{
		Kind:  document.ObjectImage,
		Index: document.ObjectIndex{Level: document.LevelRoot, Pos: 0},
		File:  "a.png",
	}, *root.Object)

	section := doc.Items[1].Section
	require.NotNil(t, section)
	require.Len(t, section.Items, 3)

	assert.Equal(t, 3, section.Items[0].TokenIndex)
	assert.Equal(t, document.Object{
		Kind:  document.ObjectEquation,
		Index: document.ObjectIndex{Level: document.LevelSection},
	}, *section.Items[0].Object)

	assert.Equal(t, 5, section.Items[1].TokenIndex)
	assert.Equal(t, document.Object{
		Kind:    document.ObjectImage,
		Ordinal: 1,
		Index:   document.ObjectIndex{Level: document.LevelSection, Pos: 1},
		File:    "b.png",
		Caption: "B",
		Label:   "fig:b",
	}, *section.Items[1].Object)

	assert.Equal(t, 9, section.Items[2].TokenIndex)
	assert.Equal(t, document.Object{
		Kind:  document.ObjectBibliography,
		Index: document.ObjectIndex{Level: document.LevelSection, Pos: 2},
		File:  "refs",
	}, *section.Items[2].Object)

	var kinds []document.ObjectKind
	for obj := range doc.Objects() {
		kinds = append(kinds, obj.Kind)
	}
	assert.Equal(t, []document.ObjectKind{
		document.ObjectImage, document.ObjectEquation, document.ObjectImage, document.ObjectBibliography,
	}, kinds)

	assert.Equal(t, map[document.ObjectKind]int{
		document.ObjectImage:        2,
		document.ObjectEquation:     1,
		document.ObjectBibliography: 1,
	}, doc.Counts())
}

func TestDocument_TokenIndexAt(t *testing.T) {
	t.Parallel()

	src := `\begin{document}\includegraphics{a.png}\section{S}$$x$$\subsection{T}$$y$$\end{document}`
	// Tokens: 0 begin, 1 image, 2 section, 3 math, 4 subsection, 5 math, 6 end.
	doc, err := parse(t, src)
	require.NoError(t, err)

	tests := []struct {
		name  string
		path  []int
		index int
		ok    bool
	}{
		{name: "root object", path: []int{0}, index: 1, ok: true},
		{name: "section", path: []int{1}, index: 2, ok: true},
		{name: "object in section", path: []int{1, 0}, index: 3, ok: true},
		{name: "subsection", path: []int{1, 1}, index: 4, ok: true},
		{name: "object in subsection", path: []int{1, 1, 0}, index: 5, ok: true},
		{name: "empty path", path: nil},
		{name: "too deep", path: []int{1, 1, 0, 0}},
		{name: "out of range", path: []int{2}},
		{name: "negative", path: []int{-1}},
		{name: "descend into object", path: []int{0, 0}},
		{name: "object where subsection expected", path: []int{1, 0, 0}},
		{name: "past subsection items", path: []int{1, 1, 1}},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			index, ok := doc.TokenIndexAt(testCase.path)
			assert.Equal(t, testCase.ok, ok)
			assert.Equal(t, testCase.index, index)
		})
	}
}

func TestFromTokens_Counters(t *testing.T) {
	t.Parallel()

	src := `\begin{document}
\section{A}\subsection{A1}\subsection{A2}$$x$$
\section{B}\subsection{B1}$$y$$
\end{document}`

	doc, err := parse(t, src)
	require.NoError(t, err)

	sections := doc.Sections()
	require.Len(t, sections, 2)

	require.Len(t, sections[0].Items, 2)
	a2 := sections[0].Items[1].Subsection
	require.NotNil(t, a2)
	assert.Equal(t, document.Subsection{
		Name: "A2", Parent: 0, Local: 1, Global: 1, Items: a2.Items,
	}, *a2)
	assert.Equal(t, document.ObjectIndex{
		Level: document.LevelSubsection, Section: 0, Subsection: 1, Pos: 0,
	}, a2.Items[0].Object.Index)

	b1 := sections[1].Items[0].Subsection
	require.NotNil(t, b1)
	assert.Equal(t, 1, b1.Parent)
	assert.Equal(t, 0, b1.Local)
	assert.Equal(t, 2, b1.Global)

	eq := b1.Items[0].Object
	assert.Equal(t, 1, eq.Ordinal)
	assert.Equal(t, document.ObjectIndex{Level: document.LevelSubsection, Section: 1, Pos: 0}, eq.Index)
}

func TestFromTokens_CodeLanguage(t *testing.T) {
	t.Parallel()

	src := "\\begin{document}" +
		"\\begin{lstlisting}[language=Go]\nx := 1\n\\end{lstlisting}" +
		"\\begin{minted}{python}\nprint(1)\n\\end{minted}" +
		"\\begin{verbatim}\necho hi\n\\end{verbatim}" +
		"\\end{document}"

	var detected []string
	detect := func(content string) string {
		detected = append(detected, content)
		return "Shell"
	}

	doc, err := parse(t, src, document.WithLanguageDetector(detect))
	require.NoError(t, err)

	var languages []string
	for obj := range doc.Objects() {
		assert.Equal(t, document.ObjectCode, obj.Kind)
		languages = append(languages, obj.Language)
	}
	assert.Equal(t, []string{"Go", "python", "Shell"}, languages)
	assert.Equal(t, []string{"\necho hi\n"}, detected)
}

func TestFromTokens_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		sentinel error
		kind     document.BuildErrorKind
		line     int
	}{
		{name: "no body", input: `\section{A}`, sentinel: document.ErrMissingDocumentBody},
		{
			name:     "two bodies",
			input:    `\begin{document}\end{document}\begin{document}\end{document}`,
			sentinel: document.ErrMultipleDocumentBodies,
		},
		{
			name:  "orphan subsection",
			input: "\\begin{document}\n\\subsection{A}\n\\end{document}",
			kind:  document.SubsectionWithoutSection,
			line:  2,
		},
		{
			name:  "unnamed section",
			input: `\begin{document}\section{}\end{document}`,
			kind:  document.UnnamedSection,
			line:  1,
		},
		{
			name:  "unnamed subsection",
			input: `\begin{document}\section{A}\subsection{ }\end{document}`,
			kind:  document.UnnamedSubsection,
			line:  1,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			doc, err := parse(t, testCase.input)
			require.Error(t, err)
			assert.Nil(t, doc)

			if testCase.sentinel != nil {
				assert.ErrorIs(t, err, testCase.sentinel)
				return
			}

			var buildErr *document.BuildError
			require.True(t, errors.As(err, &buildErr))
			assert.Equal(t, testCase.kind, buildErr.Kind)
			assert.Equal(t, testCase.line, buildErr.Line)
			assert.Contains(t, buildErr.Error(), testCase.kind.String())
		})
	}
}

func TestFromTokens_StructuralErrorPassesThrough(t *testing.T) {
	t.Parallel()

	_, err := parse(t, `\begin{document}\begin{table}\end{document}`)

	var structErr *blocks.StructuralError
	require.ErrorAs(t, err, &structErr)
	assert.Equal(t, blocks.MismatchedEnd, structErr.Kind)
}

func TestFromTokens_Deterministic(t *testing.T) {
	t.Parallel()

	src := `\begin{document}\section{A}\begin{table}\caption{T}\end{table}\end{document}`

	first, err := parse(t, src)
	require.NoError(t, err)
	second, err := parse(t, src)
	require.NoError(t, err)

	assert.True(t, first.Equal(second))

	third, err := parse(t, `\begin{document}\section{B}\end{document}`)
	require.NoError(t, err)
	assert.False(t, first.Equal(third))
}

func TestObjectKind(t *testing.T) {
	t.Parallel()

	for _, kind := range document.ObjectKinds() {
		parsed, ok := document.ParseObjectKind(kind.String())
		require.True(t, ok)
		assert.Equal(t, kind, parsed)
	}
	_, ok := document.ParseObjectKind("chart")
	assert.False(t, ok)
	assert.True(t, slices.Contains(document.ObjectKinds(), document.ObjectCode))
}

func TestFromTokens_IncludedListings(t *testing.T) {
	t.Parallel()

	src := `\begin{document}\lstinputlisting[language=C]{a.c}\lstinputlisting{b.py}\inputminted{go}{c.go}\end{document}`
	forFile := func(name string) string {
		if name == "b.py" {
			return "python"
		}
		return "unexpected"
	}

	doc, err := parse(t, src, document.WithFileLanguages(forFile))
	require.NoError(t, err)

	var files, languages []string
	for obj := range doc.Objects() {
		assert.Equal(t, document.ObjectCode, obj.Kind)
		files = append(files, obj.File)
		languages = append(languages, obj.Language)
	}
	assert.Equal(t, []string{"a.c", "b.py", "c.go"}, files)
	assert.Equal(t, []string{"C", "python", "go"}, languages)
}

func TestUnmarshalText(t *testing.T) {
	t.Parallel()

	var kind document.ObjectKind
	require.NoError(t, kind.UnmarshalText([]byte("equation")))
	assert.Equal(t, document.ObjectEquation, kind)
	require.Error(t, kind.UnmarshalText([]byte("figure")))

	var level document.Level
	require.NoError(t, level.UnmarshalText([]byte("subsection")))
	assert.Equal(t, document.LevelSubsection, level)
	require.Error(t, level.UnmarshalText([]byte("chapter")))
}
