// Package runner builds outlines for many files concurrently.
package runner

import (
	"strings"

	"github.com/samber/lo"

	"github.com/yaklabco/texoutline/pkg/analysis"
)

// Options controls discovery and the worker pool.
type Options struct {
	// Paths are the user-specified paths (files or directories) to process.
	// If empty, defaults to the current working directory.
	Paths []string

	// WorkingDir is the base directory used to resolve relative Paths.
	// If empty, the current process working directory is used.
	WorkingDir string

	// Extensions is the set of file extensions considered sources.
	// Defaults to DefaultExtensions().
	Extensions []string

	// IncludeGlobs restrict discovery to matching paths, relative to WorkingDir.
	// Empty means every file with a matching extension.
	IncludeGlobs []string

	// ExcludeGlobs skip matching files or directories.
	ExcludeGlobs []string

	// FollowSymlinks controls whether directory symlinks are traversed.
	FollowSymlinks bool

	// Jobs controls the maximum number of concurrent workers.
	// 0 or negative means runtime.NumCPU().
	Jobs int
}

// DefaultExtensions returns the extensions of every supported dialect.
func DefaultExtensions() []string {
	return analysis.Extensions()
}

// effectiveExtensions returns lowercase dotted extensions, defaulting if empty.
func (o Options) effectiveExtensions() []string {
	if len(o.Extensions) == 0 {
		return DefaultExtensions()
	}
	return lo.Uniq(lo.Map(o.Extensions, func(ext string, _ int) string {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		return ext
	}))
}

// effectivePaths returns the paths to process, defaulting to "." if empty.
func (o Options) effectivePaths() []string {
	if len(o.Paths) == 0 {
		return []string{"."}
	}
	return o.Paths
}
