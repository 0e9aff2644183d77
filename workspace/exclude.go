package workspace

import (
	"path/filepath"
	"strings"
)

// DefaultExcludes lists path prefixes and glob patterns that are never
// analyzed: build output, dependency directories, VCS metadata, the tool's
// own script directory, and temporary or log files.
var DefaultExcludes = []string{
	"node_modules",
	"dist",
	"build",
	".git",
	".hg",
	".svn",
	"scripts/impact-analysis",
	"coverage",
	"*.log",
	"*.tmp",
	"**/.DS_Store",
}

// Excluder decides whether a path is ever considered by the engine. The
// same predicate is applied to scanned paths and to changed-file lists from
// VCS output, so an excluded file can never enter the graph through either
// door.
type Excluder struct {
	patterns  []string
	gitignore *GitignoreParser
}

// NewExcluder creates an Excluder from the given patterns. Patterns match
// by exact path, by ancestor-directory prefix, or by glob where `*` spans a
// single path segment and `**` spans any depth.
func NewExcluder(patterns []string) *Excluder {
	if patterns == nil {
		patterns = DefaultExcludes
	}
	return &Excluder{patterns: patterns}
}

// WithGitignore layers the project's .gitignore on top of the pattern list.
func (e *Excluder) WithGitignore(gp *GitignoreParser) *Excluder {
	e.gitignore = gp
	return e
}

// ShouldExclude reports whether the given project-relative path matches any
// exclusion pattern. It is a pure predicate: no filesystem access.
func (e *Excluder) ShouldExclude(path string) bool {
	p := strings.TrimPrefix(filepath.ToSlash(path), "./")
	if p == "" {
		return false
	}

	for _, pattern := range e.patterns {
		if matchExclusion(pattern, p) {
			return true
		}
	}

	if e.gitignore != nil && e.gitignore.ShouldIgnore(p) {
		return true
	}

	return false
}

// Patterns returns the active exclusion pattern list.
func (e *Excluder) Patterns() []string {
	return e.patterns
}

func matchExclusion(pattern, path string) bool {
	pattern = strings.TrimSuffix(filepath.ToSlash(pattern), "/")

	if pattern == path {
		return true
	}

	// Ancestor-directory prefix: "node_modules" excludes
	// "node_modules/lodash/index.js".
	if !strings.ContainsAny(pattern, "*?") {
		if strings.HasPrefix(path, pattern+"/") {
			return true
		}
		// A bare directory name also matches anywhere in the path, the
		// way gitignore treats unanchored patterns.
		if !strings.Contains(pattern, "/") {
			for _, segment := range strings.Split(path, "/") {
				if segment == pattern {
					return true
				}
			}
		}
		return false
	}

	if matchGlob(pattern, path) {
		return true
	}

	// A glob matching an ancestor directory excludes everything below it.
	segments := strings.Split(path, "/")
	for i := 1; i < len(segments); i++ {
		if matchGlob(pattern, strings.Join(segments[:i], "/")) {
			return true
		}
	}

	// An unanchored glob like "*.log" matches any path segment.
	if !strings.Contains(pattern, "/") {
		for _, segment := range segments {
			if matchGlob(pattern, segment) {
				return true
			}
		}
	}

	return false
}

// matchGlob matches path against pattern where `*` spans a single path
// segment and `**` spans any number of segments.
func matchGlob(pattern, path string) bool {
	if !strings.Contains(pattern, "**") {
		matched, _ := filepath.Match(pattern, path)
		return matched
	}

	parts := strings.Split(pattern, "**")
	if len(parts) == 2 {
		prefix := strings.TrimSuffix(parts[0], "/")
		suffix := strings.TrimPrefix(parts[1], "/")

		rest := path
		if prefix != "" {
			if rest != prefix && !strings.HasPrefix(rest, prefix+"/") {
				return false
			}
			rest = strings.TrimPrefix(strings.TrimPrefix(rest, prefix), "/")
		}

		if suffix == "" {
			return true
		}

		// The suffix may match at any remaining depth.
		segments := strings.Split(rest, "/")
		for i := range segments {
			candidate := strings.Join(segments[i:], "/")
			if matched, _ := filepath.Match(suffix, candidate); matched {
				return true
			}
		}
		return false
	}

	// Multiple "**" separators: require the literal parts to appear in order.
	idx := 0
	for i, part := range parts {
		part = strings.Trim(part, "/")
		if part == "" {
			continue
		}
		pos := strings.Index(path[idx:], part)
		if pos == -1 {
			return false
		}
		if i == 0 && !strings.HasPrefix(pattern, "**") && pos != 0 {
			return false
		}
		idx += pos + len(part)
	}
	return true
}
