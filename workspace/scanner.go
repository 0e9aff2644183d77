package workspace

import (
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
)

// sourceExtensions are the file types the engine analyzes.
var sourceExtensions = map[string]bool{
	".js":  true,
	".jsx": true,
	".ts":  true,
	".tsx": true,
	".mjs": true,
	".cjs": true,
	".vue": true,
}

// IsSourceFile reports whether the path has an analyzable extension.
func IsSourceFile(path string) bool {
	return sourceExtensions[strings.ToLower(filepath.Ext(path))]
}

// Scanner enumerates candidate source files under the workspace root.
type Scanner struct {
	ws       *Workspace
	excluder *Excluder
	includes []string
}

// NewScanner creates a Scanner. includes is an optional list of glob
// patterns; when empty every source file not excluded is returned.
func NewScanner(ws *Workspace, excluder *Excluder, includes []string) *Scanner {
	return &Scanner{ws: ws, excluder: excluder, includes: includes}
}

// Scan walks the workspace and returns project-relative paths of all source
// files that pass the include globs and the exclusion predicate. Walk errors
// on individual entries are logged and skipped, never fatal.
func (s *Scanner) Scan() ([]string, error) {
	var files []string

	err := filepath.WalkDir(s.ws.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			slog.Warn("skipping unreadable path", "path", path, "error", err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		rel := s.ws.NormalizePath(path)
		if rel == "." {
			return nil
		}

		if d.IsDir() {
			if s.excluder.ShouldExclude(rel) {
				return filepath.SkipDir
			}
			return nil
		}

		if !IsSourceFile(rel) {
			return nil
		}
		if s.excluder.ShouldExclude(rel) {
			return nil
		}
		if !s.matchesIncludes(rel) {
			return nil
		}

		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return files, nil
}

func (s *Scanner) matchesIncludes(path string) bool {
	if len(s.includes) == 0 {
		return true
	}
	for _, pattern := range s.includes {
		if matchGlob(filepath.ToSlash(pattern), path) {
			return true
		}
	}
	return false
}
