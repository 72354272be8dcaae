package typst_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/texoutline/pkg/document"
	"github.com/yaklabco/texoutline/pkg/texast"
	"github.com/yaklabco/texoutline/pkg/typst"
)

const sample = "#set page(paper: \"a4\")\n" +
	"= Intro <intro>\n" +
	"Some text with $x$ inline.\n" +
	"== Background\n" +
	"#figure(image(\"plot.png\"), caption: [A plot]) <fig:plot>\n" +
	"$ E = m c^2 $\n" +
	"= Methods\n" +
	"```python\nprint(1)\n```\n" +
	"#table(columns: 2)[a][b]\n" +
	"#bibliography(\"refs.bib\")\n"

func TestParse_RoundTrip(t *testing.T) {
	t.Parallel()

	nodes, diags := typst.Parse(sample)
	require.Empty(t, diags)

	var b strings.Builder
	for idx, node := range nodes {
		if idx > 0 {
			assert.Equal(t, nodes[idx-1].EndOffset, node.StartOffset)
		}
		b.WriteString(node.Text(sample))
	}
	assert.Equal(t, sample, b.String())
}

func TestParse_Nodes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected typst.Node
	}{
		{
			name:     "heading with label",
			input:    "== Results <res>",
			expected: typst.Node{Kind: typst.NodeHeading, EndOffset: 16, Level: 2, Name: "Results"},
		},
		{
			name:     "inline math",
			input:    "$x$",
			expected: typst.Node{Kind: typst.NodeMath, EndOffset: 3, Body: "x"},
		},
		{
			name:     "display math",
			input:    "$ x $",
			expected: typst.Node{Kind: typst.NodeMath, EndOffset: 5, Body: " x ", Display: true},
		},
		{
			name:  "call with content",
			input: `#strong("a")[b [c]]`,
			expected: typst.Node{
				Kind: typst.NodeCall, EndOffset: 19, Name: "strong", Args: `"a"`, Body: "[b [c]]",
			},
		},
		{
			name:     "code line",
			input:    "#let x = (1,\n 2)",
			expected: typst.Node{Kind: typst.NodeCode, EndOffset: 16, Name: "let", Args: " x = (1,\n 2)"},
		},
		{
			name:     "raw block",
			input:    "```go\nx\n```",
			expected: typst.Node{Kind: typst.NodeRaw, EndOffset: 11, Name: "go", Body: "\nx\n", Display: true},
		},
		{
			name:     "block comment",
			input:    "/* a */",
			expected: typst.Node{Kind: typst.NodeComment, EndOffset: 7},
		},
		{
			name:     "label",
			input:    "<fig:a>",
			expected: typst.Node{Kind: typst.NodeLabel, EndOffset: 7, Name: "fig:a"},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			nodes, diags := typst.Parse(testCase.input)
			require.Empty(t, diags)
			require.Len(t, nodes, 1)

			if diff := cmp.Diff(testCase.expected, nodes[0]); diff != "" {
				t.Errorf("node mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParse_URLIsNotComment(t *testing.T) {
	t.Parallel()

	nodes, diags := typst.Parse("see https://example.com // note")
	require.Empty(t, diags)
	require.Len(t, nodes, 2)
	assert.Equal(t, typst.NodeText, nodes[0].Kind)
	assert.Equal(t, typst.NodeComment, nodes[1].Kind)
}

func TestParseDoc(t *testing.T) {
	t.Parallel()

	doc, snap, diags := typst.ParseDoc(sample)
	require.Empty(t, diags)
	require.NotNil(t, doc)
	require.NotNil(t, snap)

	sections := doc.Sections()
	require.Len(t, sections, 2)
	assert.Equal(t, "Intro", sections[0].Name)
	assert.Equal(t, "Methods", sections[1].Name)

	require.Len(t, sections[0].Items, 1)
	background := sections[0].Items[0].Subsection
	require.NotNil(t, background)
	assert.Equal(t, "Background", background.Name)
	require.Len(t, background.Items, 2)

	assert.Equal(t, document.Object{
		Kind:    document.ObjectImage,
		Index:   document.ObjectIndex{Level: document.LevelSubsection},
		File:    "plot.png",
		Caption: "A plot",
		Label:   "fig:plot",
	}, *background.Items[0].Object)
	assert.Equal(t, document.Object{
		Kind:  document.ObjectEquation,
		Index: document.ObjectIndex{Level: document.LevelSubsection, Pos: 1},
	}, *background.Items[1].Object)

	methods := sections[1].Items
	require.Len(t, methods, 3)
	assert.Equal(t, document.Object{
		Kind:     document.ObjectCode,
		Index:    document.ObjectIndex{Level: document.LevelSection, Section: 1},
		Language: "python",
	}, *methods[0].Object)
	assert.Equal(t, document.ObjectTable, methods[1].Object.Kind)
	assert.Equal(t, document.Object{
		Kind:  document.ObjectBibliography,
		Index: document.ObjectIndex{Level: document.LevelSection, Section: 1, Pos: 2},
		File:  "refs.bib",
	}, *methods[2].Object)

	for _, path := range [][]int{{0}, {0, 0}, {0, 0, 1}, {1, 2}} {
		item, ok := doc.ItemAt(path)
		require.True(t, ok, path)
		line, ok := snap.LineOfToken(item.TokenIndex)
		require.True(t, ok)
		assert.Equal(t, item.Line, line, path)
	}
	assert.Equal(t, 2, doc.Items[0].Line)
	assert.Equal(t, 7, doc.Items[1].Line)

	assert.Equal(t, []string{"= Intro <intro>", "= Methods"}, snap.Spans(texast.AxisSections))
	assert.Equal(t, []string{`#bibliography("refs.bib")`}, snap.Spans(texast.AxisReferences))
}

func TestParseDoc_LanguageDetection(t *testing.T) {
	t.Parallel()

	src := "= Code\n```\necho hi\n```\n"
	doc, _, diags := typst.ParseDoc(src, document.WithLanguageDetector(func(string) string { return "Shell" }))
	require.Empty(t, diags)

	var languages []string
	for obj := range doc.Objects() {
		languages = append(languages, obj.Language)
	}
	assert.Equal(t, []string{"Shell"}, languages)
}

func TestParseDoc_AggregatesDiagnostics(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected []texast.Diagnostic
	}{
		{
			name:  "syntax errors",
			input: "#figure(image(\"a.png\"\n$ x\n```go\nfoo",
			expected: []texast.Diagnostic{
				{Line: 1, Message: "unclosed delimiter"},
				{Line: 2, Message: "unclosed math"},
				{Line: 3, Message: "unclosed raw block"},
			},
		},
		{
			name:  "structure errors",
			input: "== Orphan\n= \n",
			expected: []texast.Diagnostic{
				{Line: 1, Message: "subsection outside of any section"},
				{Line: 2, Message: "section without a name"},
			},
		},
		{
			name:  "unclosed string",
			input: "#image(\"a.png)\n",
			expected: []texast.Diagnostic{
				{Line: 1, Message: "unclosed string"},
			},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			doc, snap, diags := typst.ParseDoc(testCase.input)
			assert.Nil(t, doc)
			assert.NotNil(t, snap)
			assert.Equal(t, testCase.expected, diags)
		})
	}
}
