package fsutil

import (
	"fmt"
	"path"
	"path/filepath"

	"github.com/gobwas/glob"
)

// GlobSet matches slash-separated relative paths against a list of patterns.
// A pattern matches either the whole path or its final element, so "*.import"
// excludes import files in every directory while "addons/**" excludes a subtree.
type GlobSet struct {
	patterns []string
	globs    []glob.Glob
}

// CompileGlobs compiles patterns into a GlobSet.
func CompileGlobs(patterns []string) (*GlobSet, error) {
	set := &GlobSet{
		patterns: make([]string, 0, len(patterns)),
		globs:    make([]glob.Glob, 0, len(patterns)),
	}
	for _, pattern := range patterns {
		compiled, err := glob.Compile(filepath.ToSlash(pattern), '/')
		if err != nil {
			return nil, fmt.Errorf("compile glob %q: %w", pattern, err)
		}
		set.patterns = append(set.patterns, pattern)
		set.globs = append(set.globs, compiled)
	}
	return set, nil
}

// Patterns returns the source patterns.
func (s *GlobSet) Patterns() []string {
	if s == nil {
		return nil
	}
	return s.patterns
}

// Match reports whether rel matches any pattern.
func (s *GlobSet) Match(rel string) bool {
	if s == nil || len(s.globs) == 0 {
		return false
	}
	rel = filepath.ToSlash(rel)
	base := path.Base(rel)
	for _, g := range s.globs {
		if g.Match(rel) || g.Match(base) {
			return true
		}
	}
	return false
}

// MatchDir reports whether directory rel is excluded, either by name or
// because a "dir/**" pattern covers everything under it.
func (s *GlobSet) MatchDir(rel string) bool {
	if s.Match(rel) {
		return true
	}
	return s != nil && len(s.globs) > 0 && s.Match(filepath.ToSlash(rel)+"/")
}
