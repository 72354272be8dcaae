// Package bibfile loads the external bibliography named by a document.
package bibfile

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/yaklabco/texoutline/pkg/fsutil"
	"github.com/yaklabco/texoutline/pkg/lexer"
	"github.com/yaklabco/texoutline/pkg/texast"
)

// Extension is appended to names given without one.
const Extension = ".bib"

var (
	// ErrNoBaseDir is returned when there is no directory to resolve against.
	ErrNoBaseDir = errors.New("no base directory for bibliography")

	// ErrEmptyName is returned for an empty bibliography name.
	ErrEmptyName = errors.New("empty bibliography name")
)

// Path returns the file a bibliography name refers to. Relative names are
// resolved against baseDir. \bibliography{refs} names refs.bib, so the
// extension is added when missing.
func Path(baseDir, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyName
	}
	if filepath.Ext(name) == "" {
		name += Extension
	}
	if filepath.IsAbs(name) {
		return filepath.Clean(name), nil
	}
	if baseDir == "" {
		return "", ErrNoBaseDir
	}

	stat, err := os.Stat(baseDir)
	if err != nil || !stat.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrNoBaseDir, baseDir)
	}
	return filepath.Join(baseDir, name), nil
}

// Resolve reads the bibliography named name and parses its entries.
// A file with no recognizable entries yields an empty slice, not an error.
func Resolve(ctx context.Context, baseDir, name string) ([]texast.BibEntry, error) {
	path, err := Path(baseDir, name)
	if err != nil {
		return nil, err
	}

	text, _, err := fsutil.ReadText(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("bibliography %q: %w", name, err)
	}

	entries := lexer.ParseEntries(text)
	if entries == nil {
		entries = []texast.BibEntry{}
	}
	return entries, nil
}
