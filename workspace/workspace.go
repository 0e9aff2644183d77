package workspace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNoProjectRoot is returned when no VCS marker is found in any ancestor
// directory of the starting path.
var ErrNoProjectRoot = errors.New("no project root found")

// vcsMarkers are the directory entries that identify a project root.
var vcsMarkers = []string{".git", ".hg", ".svn"}

// Workspace anchors all path operations to a discovered project root.
type Workspace struct {
	Root string
}

// Discover walks upward from start until it finds a directory containing a
// VCS marker and returns a Workspace rooted there.
func Discover(start string) (*Workspace, error) {
	abs, err := filepath.Abs(start)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve start path %s: %w", start, err)
	}

	dir := abs
	for {
		for _, marker := range vcsMarkers {
			if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
				return &Workspace{Root: dir}, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, fmt.Errorf("%w: searched from %s", ErrNoProjectRoot, abs)
		}
		dir = parent
	}
}

// Open returns a Workspace rooted at the given directory without searching
// for VCS markers. The directory must exist and be readable.
func Open(root string) (*Workspace, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root %s: %w", root, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("project root not readable: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("project root %s is not a directory", abs)
	}

	return &Workspace{Root: abs}, nil
}

// NormalizePath converts a path to the canonical project-relative form:
// forward slashes, relative to the workspace root. Paths already in that
// form are returned unchanged, so the operation is idempotent.
func (ws *Workspace) NormalizePath(path string) string {
	if path == "" {
		return ""
	}

	p := filepath.ToSlash(path)

	root := filepath.ToSlash(ws.Root)
	if strings.HasPrefix(p, root+"/") {
		p = strings.TrimPrefix(p, root+"/")
	} else if p == root {
		return "."
	}

	p = strings.TrimPrefix(p, "./")

	// Collapse any interior "." or ".." segments.
	p = filepath.ToSlash(filepath.Clean(p))

	return p
}

// Abs converts a project-relative path back to an absolute filesystem path.
func (ws *Workspace) Abs(relPath string) string {
	if filepath.IsAbs(relPath) {
		return relPath
	}
	return filepath.Join(ws.Root, filepath.FromSlash(relPath))
}

// Exists reports whether the project-relative path refers to an existing file.
func (ws *Workspace) Exists(relPath string) bool {
	info, err := os.Stat(ws.Abs(relPath))
	return err == nil && !info.IsDir()
}

// DirExists reports whether the project-relative path refers to an existing
// directory.
func (ws *Workspace) DirExists(relPath string) bool {
	info, err := os.Stat(ws.Abs(relPath))
	return err == nil && info.IsDir()
}
