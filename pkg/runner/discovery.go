package runner

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
	"github.com/samber/lo"
)

// Matcher is a compiled set of glob patterns. Patterns use '/' as the
// separator; "*" stays within one path component and "**" crosses them.
type Matcher struct {
	globs []glob.Glob
}

// CompileGlobs compiles patterns into a Matcher.
func CompileGlobs(patterns []string) (*Matcher, error) {
	m := &Matcher{}
	for _, pattern := range patterns {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}
		g, err := glob.Compile(filepath.ToSlash(pattern), '/')
		if err != nil {
			return nil, fmt.Errorf("compile glob %q: %w", pattern, err)
		}
		m.globs = append(m.globs, g)
	}
	return m, nil
}

// Empty reports whether the matcher has no patterns.
func (m *Matcher) Empty() bool {
	return m == nil || len(m.globs) == 0
}

// Match reports whether relPath, or its base name, matches any pattern.
// Directories also match a pattern that covers their contents, so
// "build/**" skips the build directory itself.
func (m *Matcher) Match(relPath string, isDir bool) bool {
	if m.Empty() {
		return false
	}
	relPath = filepath.ToSlash(relPath)
	candidates := []string{relPath, filepath.Base(relPath)}
	if isDir {
		candidates = append(candidates, relPath+"/")
	}
	return lo.SomeBy(m.globs, func(g glob.Glob) bool {
		return lo.SomeBy(candidates, g.Match)
	})
}

type discoverer struct {
	workDir    string
	extensions []string
	include    *Matcher
	exclude    *Matcher
	follow     bool
}

// Discover finds source files matching opts. It returns a sorted,
// deduplicated list of absolute paths.
func Discover(ctx context.Context, opts Options) ([]string, error) {
	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	include, err := CompileGlobs(opts.IncludeGlobs)
	if err != nil {
		return nil, err
	}
	exclude, err := CompileGlobs(opts.ExcludeGlobs)
	if err != nil {
		return nil, err
	}

	d := &discoverer{
		workDir:    workDir,
		extensions: opts.effectiveExtensions(),
		include:    include,
		exclude:    exclude,
		follow:     opts.FollowSymlinks,
	}

	var files []string
	for _, inputPath := range opts.effectivePaths() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("discovery cancelled: %w", err)
		}

		absPath := inputPath
		if !filepath.IsAbs(inputPath) {
			absPath = filepath.Join(workDir, inputPath)
		}
		absPath = filepath.Clean(absPath)

		info, err := os.Stat(absPath)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", inputPath, err)
		}

		if !info.IsDir() {
			// Named files bypass extension filtering but not excludes.
			if !d.exclude.Match(d.rel(absPath), false) {
				files = append(files, absPath)
			}
			continue
		}

		found, err := d.walk(ctx, absPath)
		if err != nil {
			return nil, err
		}
		files = append(files, found...)
	}

	files = lo.Uniq(files)
	sort.Strings(files)
	return files, nil
}

func resolveWorkDir(workDir string) (string, error) {
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		return wd, nil
	}
	absPath, err := filepath.Abs(workDir)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}
	return absPath, nil
}

func (d *discoverer) rel(path string) string {
	relPath, err := filepath.Rel(d.workDir, path)
	if err != nil {
		return path
	}
	return relPath
}

func (d *discoverer) walk(ctx context.Context, root string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if os.IsPermission(walkErr) {
				return nil
			}
			return walkErr
		}

		relPath := d.rel(path)
		hidden := path != root && strings.HasPrefix(entry.Name(), ".")

		if entry.IsDir() {
			if hidden || d.exclude.Match(relPath, true) {
				return filepath.SkipDir
			}
			return nil
		}
		if hidden {
			return nil
		}

		if entry.Type()&fs.ModeSymlink != 0 {
			info, statErr := os.Stat(path)
			if statErr != nil {
				return nil //nolint:nilerr // Broken symlinks are skipped.
			}
			if info.IsDir() {
				if !d.follow {
					return nil
				}
				realPath, evalErr := filepath.EvalSymlinks(path)
				if evalErr != nil {
					return nil //nolint:nilerr // Unresolvable symlinks are skipped.
				}
				sub, err := d.walk(ctx, realPath)
				if err != nil {
					return err
				}
				files = append(files, sub...)
				return nil
			}
		}

		if d.matches(path, relPath) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk directory %s: %w", root, err)
	}

	return files, nil
}

func (d *discoverer) matches(path, relPath string) bool {
	if !lo.Contains(d.extensions, strings.ToLower(filepath.Ext(path))) {
		return false
	}
	if d.exclude.Match(relPath, false) {
		return false
	}
	return d.include.Empty() || d.include.Match(relPath, false)
}
