package graph

import (
	"context"
	"log/slog"
	"os"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/hannajonsd/impact-analysis/parser"
	"github.com/hannajonsd/impact-analysis/workspace"
)

// DefaultBatchSize bounds how many files are analyzed concurrently.
const DefaultBatchSize = 10

// Builder produces the dependency graph, import graph, function call graph,
// and module registry for a workspace. Files are processed in fixed-size
// batches: every file in a batch runs in parallel, batches run sequentially,
// which bounds peak open file handles and memory.
type Builder struct {
	ws        *workspace.Workspace
	excluder  *workspace.Excluder
	resolver  *workspace.Resolver
	scanner   *workspace.Scanner
	batchSize int
	useTS     bool
	cache     *Cache
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithBatchSize overrides the per-batch concurrency bound.
func WithBatchSize(n int) BuilderOption {
	return func(b *Builder) {
		if n > 0 {
			b.batchSize = n
		}
	}
}

// WithTreeSitter enables the grammar-aware analyzer for plain JS/TS files.
func WithTreeSitter(enabled bool) BuilderOption {
	return func(b *Builder) { b.useTS = enabled }
}

// WithCache attaches a build cache consulted at the start of Build.
func WithCache(c *Cache) BuilderOption {
	return func(b *Builder) { b.cache = c }
}

// WithIncludes restricts the scan to files matching the given globs.
func WithIncludes(globs []string) BuilderOption {
	return func(b *Builder) {
		b.scanner = workspace.NewScanner(b.ws, b.excluder, globs)
	}
}

// NewBuilder creates a Builder for the workspace.
func NewBuilder(ws *workspace.Workspace, excluder *workspace.Excluder, resolver *workspace.Resolver, opts ...BuilderOption) *Builder {
	b := &Builder{
		ws:        ws,
		excluder:  excluder,
		resolver:  resolver,
		scanner:   workspace.NewScanner(ws, excluder, nil),
		batchSize: DefaultBatchSize,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build returns a graph for the workspace, reusing a cached one when it is
// still inside the freshness window. Callers needing a guaranteed-fresh
// graph pass force=true.
func (b *Builder) Build(ctx context.Context, force bool) (*Graph, error) {
	if !force && b.cache != nil {
		if g, ok := b.cache.Get(b.ws.Root); ok {
			slog.Debug("reusing cached graph",
				"root", b.ws.Root, "generation", g.Generation, "builtAt", g.BuiltAt)
			return g, nil
		}
	}

	files, err := b.scanner.Scan()
	if err != nil {
		return nil, err
	}

	g := &Graph{
		Files:     make(map[string]*parser.FileRecord, len(files)),
		Imports:   make(map[string]map[string]struct{}),
		Functions: make(map[string]*FunctionEntry),
		Modules:   make(map[string]*ModuleInfo),
		BuiltAt:   time.Now(),
	}

	contents := make(map[string]string, len(files))

	// Phase 1: read and parse in bounded batches. Each task writes only its
	// own slot, so the batch needs no locking.
	for start := 0; start < len(files); start += b.batchSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		end := start + b.batchSize
		if end > len(files) {
			end = len(files)
		}
		batch := files[start:end]

		type parsed struct {
			record  *parser.FileRecord
			content string
		}
		results := make([]parsed, len(batch))

		var wg sync.WaitGroup
		for i, path := range batch {
			wg.Add(1)
			go func(i int, path string) {
				defer wg.Done()
				record, content := b.analyzeFile(path)
				results[i] = parsed{record: record, content: content}
			}(i, path)
		}
		wg.Wait()

		for i, path := range batch {
			g.Files[path] = results[i].record
			contents[path] = results[i].content
			registerModules(g.Modules, results[i].record)
		}
	}

	// Phase 2: resolve imports into the import graph. Unresolvable
	// specifiers simply contribute no edge.
	for path, record := range g.Files {
		for _, imp := range record.Imports {
			res := b.resolver.Resolve(imp.Module, path)
			if res.Kind != workspace.ResolvedInternal {
				continue
			}
			if g.Imports[res.Path] == nil {
				g.Imports[res.Path] = make(map[string]struct{})
			}
			g.Imports[res.Path][path] = struct{}{}
		}
	}

	// Phase 3: function call graph. Every function defined anywhere is
	// matched against every file's text.
	for name, entry := range b.collectDefinitions(g) {
		g.Functions[name] = entry
	}
	for path, content := range contents {
		b.recordCalls(g, path, content)
	}

	g.Generation = nextGeneration()
	if b.cache != nil {
		b.cache.Put(b.ws.Root, g)
	}

	slog.Info("graph build complete",
		"files", len(g.Files), "functions", len(g.Functions),
		"modules", len(g.Modules), "generation", g.Generation)

	return g, nil
}

// analyzeFile reads and parses one file. Read or parse failures degrade to
// an empty record so a bad file never aborts the batch.
func (b *Builder) analyzeFile(path string) (*parser.FileRecord, string) {
	source, err := os.ReadFile(b.ws.Abs(path))
	if err != nil {
		slog.Warn("unreadable source file, treating as empty", "path", path, "error", err)
		return parser.EmptyRecord(path), ""
	}

	analyzer := parser.AnalyzerFor(path, b.useTS)
	record, err := analyzer.Analyze(path, source)
	if err != nil || record == nil {
		slog.Warn("parse failed, treating file as empty", "path", path, "error", err)
		return parser.EmptyRecord(path), string(source)
	}

	return record, string(source)
}

func (b *Builder) collectDefinitions(g *Graph) map[string]*FunctionEntry {
	defs := make(map[string]*FunctionEntry)
	for path, record := range g.Files {
		for _, fn := range record.Functions {
			if _, exists := defs[fn.Name]; exists {
				// First definition wins; same-named functions in multiple
				// files share one entry keyed by name.
				continue
			}
			defs[fn.Name] = &FunctionEntry{
				Name:           fn.Name,
				DefinitionFile: path,
				Callers:        make(map[string]struct{}),
			}
		}
	}
	return defs
}

// recordCalls scans one file's text for calls to every known function and
// records the call sites. This is the builder's own cheap scan; the usage
// package applies the richer comment- and string-aware matcher when the
// impact pass needs exact counts.
func (b *Builder) recordCalls(g *Graph, path, content string) {
	lines := strings.Split(content, "\n")

	for name, entry := range g.Functions {
		if entry.DefinitionFile == path {
			continue
		}
		pattern, err := callPattern(name)
		if err != nil {
			continue
		}

		for lineNo, line := range lines {
			if !pattern.MatchString(line) {
				continue
			}
			entry.Calls = append(entry.Calls, CallSite{
				File:    path,
				Line:    lineNo + 1,
				Context: strings.TrimSpace(line),
			})
			entry.Callers[path] = struct{}{}
		}
	}
}

var callPatternCache sync.Map // function name -> *regexp.Regexp

func callPattern(name string) (*regexp.Regexp, error) {
	if cached, ok := callPatternCache.Load(name); ok {
		return cached.(*regexp.Regexp), nil
	}
	pattern, err := regexp.Compile(`\b` + regexp.QuoteMeta(name) + `\s*\(`)
	if err != nil {
		return nil, err
	}
	callPatternCache.Store(name, pattern)
	return pattern, nil
}
