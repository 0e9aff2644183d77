package graph

import (
	"time"

	"github.com/hannajonsd/impact-analysis/parser"
)

// ModuleType is the inferred role of a module, derived from the directory
// it lives in.
type ModuleType string

const (
	ModuleComponent ModuleType = "component"
	ModuleUtility   ModuleType = "utility"
	ModuleService   ModuleType = "service"
	ModuleView      ModuleType = "view"
	ModuleUnknown   ModuleType = "unknown"
)

// CallSite is one textual occurrence of a function call.
type CallSite struct {
	File    string `json:"file"`
	Line    int    `json:"line"`
	Context string `json:"context"`
}

// FunctionEntry records where a function is defined and everywhere it is
// called. Owned exclusively by the Builder.
type FunctionEntry struct {
	Name           string              `json:"name"`
	DefinitionFile string              `json:"definitionFile"`
	Calls          []CallSite          `json:"calls,omitempty"`
	Callers        map[string]struct{} `json:"-"`
}

// CallerFiles returns the set of files containing calls, as a slice.
func (e *FunctionEntry) CallerFiles() []string {
	files := make([]string, 0, len(e.Callers))
	for f := range e.Callers {
		files = append(files, f)
	}
	return files
}

// ModuleInfo describes one entry in the module registry.
type ModuleInfo struct {
	Name      string     `json:"name"`
	File      string     `json:"file"`
	Type      ModuleType `json:"type"`
	Exports   []string   `json:"exports,omitempty"`
	Functions []string   `json:"functions,omitempty"`
}

// Graph is the cached output of one full build: per-file records, the
// import graph, the function call graph, and the module registry. All maps
// are keyed by project-relative file path or by name; after Build returns
// the Graph is read-only.
type Graph struct {
	Files      map[string]*parser.FileRecord
	Imports    map[string]map[string]struct{} // resolved path -> importing files
	Functions  map[string]*FunctionEntry      // function name -> entry
	Modules    map[string]*ModuleInfo         // module name -> info
	Generation uint64
	BuiltAt    time.Time
}

// ImportersOf returns the files that import the given resolved path.
func (g *Graph) ImportersOf(resolvedPath string) []string {
	set := g.Imports[resolvedPath]
	files := make([]string, 0, len(set))
	for f := range set {
		files = append(files, f)
	}
	return files
}

// Record returns the FileRecord for a path, or nil when the file is not in
// the graph.
func (g *Graph) Record(path string) *parser.FileRecord {
	return g.Files[path]
}
