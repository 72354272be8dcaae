package bibfile_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/texoutline/pkg/bibfile"
	"github.com/yaklabco/texoutline/pkg/fsutil"
)

func TestPath(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	abs := filepath.Join(dir, "abs.bib")

	tests := []struct {
		name     string
		baseDir  string
		input    string
		expected string
		sentinel error
	}{
		{name: "adds extension", baseDir: dir, input: "refs", expected: filepath.Join(dir, "refs.bib")},
		{name: "keeps extension", baseDir: dir, input: "refs.bib", expected: filepath.Join(dir, "refs.bib")},
		{name: "trims", baseDir: dir, input: " refs ", expected: filepath.Join(dir, "refs.bib")},
		{name: "absolute ignores base", baseDir: "", input: abs, expected: abs},
		{name: "empty name", baseDir: dir, input: "  ", sentinel: bibfile.ErrEmptyName},
		{name: "no base", baseDir: "", input: "refs", sentinel: bibfile.ErrNoBaseDir},
		{name: "missing base", baseDir: filepath.Join(dir, "gone"), input: "refs", sentinel: bibfile.ErrNoBaseDir},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			got, err := bibfile.Path(testCase.baseDir, testCase.input)
			if testCase.sentinel != nil {
				require.ErrorIs(t, err, testCase.sentinel)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, testCase.expected, got)
		})
	}
}

func TestResolve(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	content := "@book{knuth, title = {The Art}}\n@misc{web, note = \"x\"}\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "refs.bib"), []byte(content), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "empty.bib"), []byte("% nothing\n"), 0o644))

	ctx := context.Background()

	entries, err := bibfile.Resolve(ctx, dir, "refs")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "knuth", entries[0].Key)
	assert.Equal(t, "The Art", entries[0].Title())

	entries, err = bibfile.Resolve(ctx, dir, "empty")
	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)

	_, err = bibfile.Resolve(ctx, dir, "missing")
	require.ErrorIs(t, err, fsutil.ErrNotFound)
}
