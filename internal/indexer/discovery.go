package indexer

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
)

// Default discovery patterns
var (
	DefaultInclude = []string{"**/*.stan", "**/*.stanfunctions"}
	DefaultIgnore  = []string{".git/**", ".standoc/**"}
)

// compiledPattern holds both the pattern string and compiled glob
type compiledPattern struct {
	pattern string
	glob    glob.Glob
	// root-level variant of a "**/" pattern
	rootGlob glob.Glob
}

// FileDiscovery finds source files under a root with include and ignore globs.
// Patterns match slash-separated paths relative to the root.
type FileDiscovery struct {
	rootDir string
	include []compiledPattern
	ignore  []compiledPattern
}

// NewFileDiscovery compiles the patterns. Empty include patterns fall back to
// DefaultInclude.
func NewFileDiscovery(rootDir string, include, ignore []string) (*FileDiscovery, error) {
	if len(include) == 0 {
		include = DefaultInclude
	}

	fd := &FileDiscovery{rootDir: rootDir}
	var err error
	if fd.include, err = compilePatterns(include); err != nil {
		return nil, err
	}
	if fd.ignore, err = compilePatterns(ignore); err != nil {
		return nil, err
	}
	return fd, nil
}

func compilePatterns(patterns []string) ([]compiledPattern, error) {
	compiled := make([]compiledPattern, 0, len(patterns))
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}
		cp := compiledPattern{pattern: pattern, glob: g}
		// "**/*.stan" should also match "model.stan" at the root
		if simplified, ok := strings.CutPrefix(pattern, "**/"); ok {
			if rg, err := glob.Compile(simplified, '/'); err == nil {
				cp.rootGlob = rg
			}
		}
		compiled = append(compiled, cp)
	}
	return compiled, nil
}

// DiscoverFiles walks the tree and returns matching files as slash-separated
// paths relative to the root, sorted. The sorted order is the submission
// order used for merging, so global declaration order is stable across runs.
func (fd *FileDiscovery) DiscoverFiles() ([]string, error) {
	files := []string{}

	err := filepath.Walk(fd.rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(fd.rootDir, path)
		if err != nil {
			return err
		}
		relPath = filepath.ToSlash(relPath)

		if info.IsDir() {
			if relPath != "." && fd.ShouldIgnore(relPath) {
				return filepath.SkipDir
			}
			return nil
		}

		if fd.Matches(relPath) {
			files = append(files, relPath)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

// Matches reports whether a relative file path is included and not ignored
func (fd *FileDiscovery) Matches(relPath string) bool {
	return !fd.ShouldIgnore(relPath) && matchesAny(relPath, fd.include)
}

// ShouldIgnore checks a relative path against the ignore patterns. A
// directory also matches "dir/**" patterns.
func (fd *FileDiscovery) ShouldIgnore(relPath string) bool {
	if matchesAny(relPath, fd.ignore) {
		return true
	}
	return matchesAny(relPath+"/**", fd.ignore)
}

func matchesAny(path string, patterns []compiledPattern) bool {
	atRoot := !strings.Contains(path, "/")
	for _, cp := range patterns {
		if cp.glob.Match(path) {
			return true
		}
		if atRoot && cp.rootGlob != nil && cp.rootGlob.Match(path) {
			return true
		}
	}
	return false
}
