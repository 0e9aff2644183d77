package usage

import (
	"log/slog"
	"os"
	"regexp"
	"strings"

	"github.com/hannajonsd/impact-analysis/graph"
	"github.com/hannajonsd/impact-analysis/parser"
	"github.com/hannajonsd/impact-analysis/workspace"
)

// contextWindow bounds the text recorded with each match for human review.
const contextWindow = 120

// Caller is a file containing textual invocations of a function.
type Caller struct {
	File      string           `json:"file"`
	CallCount int              `json:"callCount"`
	CallSites []graph.CallSite `json:"callSites"`
}

// Importer is a file whose import clause names a function from its
// defining module.
type Importer struct {
	File         string `json:"file"`
	ImportType   string `json:"importType"`
	ImportSource string `json:"importSource"`
}

// Locator finds every caller and importer of a named function across the
// graph. Matches inside comments or string literals are never counted;
// that invariant is load-bearing for risk-score accuracy.
type Locator struct {
	ws       *workspace.Workspace
	g        *graph.Graph
	resolver *workspace.Resolver
	filter   RegionFilter

	contents map[string]string
}

// NewLocator creates a Locator over a built graph. A nil filter uses the
// default heuristic region filter.
func NewLocator(ws *workspace.Workspace, g *graph.Graph, resolver *workspace.Resolver, filter RegionFilter) *Locator {
	if filter == nil {
		filter = NewHeuristicRegionFilter()
	}
	return &Locator{
		ws:       ws,
		g:        g,
		resolver: resolver,
		filter:   filter,
		contents: make(map[string]string),
	}
}

// callShapes builds the patterns recognized as usage of a function name:
// direct call, method call, destructured reference, template interpolation,
// assignment right-hand-side, and argument position.
func callShapes(name string) []*regexp.Regexp {
	quoted := regexp.QuoteMeta(name)
	return []*regexp.Regexp{
		// direct and method calls: foo(...) / this.foo(...) / util.foo(...)
		regexp.MustCompile(`\b` + quoted + `\s*\(`),
		// destructured reference: const { foo } = ...
		regexp.MustCompile(`\{[^{}]*\b` + quoted + `\b[^{}]*\}\s*=`),
		// template interpolation: {{ foo(...) }} / {{ foo }}
		regexp.MustCompile(`\{\{[^}]*\b` + quoted + `\b`),
		// assignment right-hand-side: handler = foo
		regexp.MustCompile(`=\s*` + quoted + `\b\s*[;,)\n]`),
		// argument position: map(foo) / call(a, foo)
		regexp.MustCompile(`[(,]\s*` + quoted + `\s*[),]`),
	}
}

// FindCallers scans every file in the graph for usages of the function,
// excluding its own definition file and any match inside a comment or
// string literal.
func (l *Locator) FindCallers(functionName string) []Caller {
	entry := l.g.Functions[functionName]
	definitionFile := ""
	if entry != nil {
		definitionFile = entry.DefinitionFile
	}

	shapes := callShapes(functionName)
	var callers []Caller

	for path := range l.g.Files {
		if path == definitionFile {
			continue
		}

		content := l.content(path)
		if content == "" {
			continue
		}

		sites := l.matchSites(path, content, functionName, shapes)
		if len(sites) == 0 {
			continue
		}

		callers = append(callers, Caller{
			File:      path,
			CallCount: len(sites),
			CallSites: sites,
		})
	}

	return callers
}

// matchSites collects distinct usages across all shapes, applying the
// region filter to each. Dedup is keyed on the position of the name token
// itself, not the shape's match start: shapes anchor at different offsets
// and would otherwise count one occurrence once per shape.
func (l *Locator) matchSites(path, content, name string, shapes []*regexp.Regexp) []graph.CallSite {
	nameToken, err := regexp.Compile(`\b` + regexp.QuoteMeta(name) + `\b`)
	if err != nil {
		return nil
	}

	seen := make(map[int]bool)
	var sites []graph.CallSite

	for _, shape := range shapes {
		for _, loc := range shape.FindAllStringIndex(content, -1) {
			rel := nameToken.FindStringIndex(content[loc[0]:loc[1]])
			if rel == nil {
				continue
			}
			offset := loc[0] + rel[0]
			if seen[offset] {
				continue
			}
			seen[offset] = true

			if l.filter.InCommentOrString(content, offset) {
				continue
			}

			sites = append(sites, graph.CallSite{
				File:    path,
				Line:    lineOf(content, offset),
				Context: contextAround(content, offset),
			})
		}
	}

	return sites
}

// FindImporters returns every file whose import clause names the function
// from its defining module. Importing the module alone is not enough; the
// clause must mention the symbol.
func (l *Locator) FindImporters(functionName, definitionFile string) []Importer {
	var importers []Importer

	for importingFile := range l.g.Imports[definitionFile] {
		record := l.g.Record(importingFile)
		if record == nil {
			continue
		}

		for _, imp := range record.Imports {
			res := l.resolver.Resolve(imp.Module, importingFile)
			if res.Kind != workspace.ResolvedInternal || res.Path != definitionFile {
				continue
			}

			if importNamesSymbol(imp, functionName) {
				importers = append(importers, Importer{
					File:         importingFile,
					ImportType:   string(imp.Type),
					ImportSource: imp.Module,
				})
				break
			}
		}
	}

	return importers
}

// importNamesSymbol reports whether the import clause mentions the symbol:
// as a named/destructured symbol, as the local default/namespace name, or
// anywhere in the raw statement for formats the extractor abbreviates.
func importNamesSymbol(imp parser.Import, name string) bool {
	for _, symbol := range imp.Symbols {
		if symbol == name {
			return true
		}
	}
	if imp.Default == name {
		return true
	}

	pattern, err := regexp.Compile(`\b` + regexp.QuoteMeta(name) + `\b`)
	if err != nil {
		return false
	}
	return pattern.MatchString(imp.Raw)
}

func (l *Locator) content(path string) string {
	if cached, ok := l.contents[path]; ok {
		return cached
	}

	data, err := os.ReadFile(l.ws.Abs(path))
	if err != nil {
		slog.Warn("unreadable file during usage scan", "path", path, "error", err)
		l.contents[path] = ""
		return ""
	}

	l.contents[path] = string(data)
	return l.contents[path]
}

func lineOf(content string, offset int) int {
	return strings.Count(content[:offset], "\n") + 1
}

// contextAround returns the line containing the offset, bounded to the
// review window.
func contextAround(content string, offset int) string {
	start := strings.LastIndexByte(content[:offset], '\n') + 1
	end := strings.IndexByte(content[offset:], '\n')
	if end == -1 {
		end = len(content)
	} else {
		end += offset
	}

	line := strings.TrimSpace(content[start:end])
	if len(line) > contextWindow {
		line = line[:contextWindow]
	}
	return line
}
