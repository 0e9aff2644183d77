package workspace

import (
	"path"
	"path/filepath"
	"strings"
)

// DefaultSourceRoots are the directories tried when resolving alias and
// bare-specifier imports, in order.
var DefaultSourceRoots = []string{
	"src",
	"web/src",
	"bklog/web/src",
}

// ResolutionKind classifies the outcome of resolving a module specifier.
type ResolutionKind int

const (
	// ResolvedInternal means the specifier maps to a file inside the project.
	ResolvedInternal ResolutionKind = iota

	// ResolvedExternal means the specifier refers to something outside the
	// project (an npm package, an absolute system path) and is carried
	// verbatim as an opaque reference.
	ResolvedExternal

	// ResolutionNotFound means the specifier looked internal but no file
	// matched; the import edge is omitted from the graph.
	ResolutionNotFound
)

// Resolution is the outcome of resolving one module specifier.
type Resolution struct {
	Path string
	Kind ResolutionKind
}

// Resolver canonicalizes module specifiers against the workspace.
type Resolver struct {
	ws          *Workspace
	sourceRoots []string
}

// NewResolver creates a Resolver. sourceRoots defaults to
// DefaultSourceRoots when nil.
func NewResolver(ws *Workspace, sourceRoots []string) *Resolver {
	if sourceRoots == nil {
		sourceRoots = DefaultSourceRoots
	}
	return &Resolver{ws: ws, sourceRoots: sourceRoots}
}

// resolveExtensions are tried, in order, after the literal path.
var resolveExtensions = []string{".js", ".vue", ".ts"}

// Resolve maps an import specifier, as written in fromFile, to a canonical
// project-relative path. fromFile must already be project-relative.
func (r *Resolver) Resolve(specifier, fromFile string) Resolution {
	switch {
	case filepath.IsAbs(specifier):
		rel := r.ws.NormalizePath(specifier)
		if !strings.HasPrefix(rel, "..") && r.ws.Exists(rel) {
			return Resolution{Path: rel, Kind: ResolvedInternal}
		}
		return Resolution{Path: specifier, Kind: ResolvedExternal}

	case strings.HasPrefix(specifier, "./") || strings.HasPrefix(specifier, "../"):
		base := path.Join(path.Dir(fromFile), specifier)
		if found, ok := r.tryCandidates(base); ok {
			return Resolution{Path: found, Kind: ResolvedInternal}
		}
		return Resolution{Path: specifier, Kind: ResolutionNotFound}

	case strings.HasPrefix(specifier, "@/"):
		suffix := strings.TrimPrefix(specifier, "@/")
		for _, root := range r.sourceRoots {
			if found, ok := r.tryCandidates(path.Join(root, suffix)); ok {
				return Resolution{Path: found, Kind: ResolvedInternal}
			}
		}
		return Resolution{Path: specifier, Kind: ResolutionNotFound}

	case !strings.Contains(specifier, "/") && !strings.Contains(fromFile, "node_modules/"):
		// A bare specifier may still be a project-local module before it
		// is assumed to be an npm package.
		roots := append([]string{"."}, r.sourceRoots...)
		for _, root := range roots {
			if found, ok := r.tryCandidates(path.Join(root, specifier)); ok {
				return Resolution{Path: found, Kind: ResolvedInternal}
			}
		}
		return Resolution{Path: specifier, Kind: ResolvedExternal}

	default:
		return Resolution{Path: specifier, Kind: ResolvedExternal}
	}
}

// tryCandidates checks the literal path, then with each known extension,
// then as a directory with an index file.
func (r *Resolver) tryCandidates(base string) (string, bool) {
	base = path.Clean(base)

	if r.ws.Exists(base) {
		return base, true
	}
	for _, ext := range resolveExtensions {
		if r.ws.Exists(base + ext) {
			return base + ext, true
		}
	}
	if r.ws.DirExists(base) {
		for _, ext := range resolveExtensions {
			idx := path.Join(base, "index"+ext)
			if r.ws.Exists(idx) {
				return idx, true
			}
		}
	}

	return "", false
}
