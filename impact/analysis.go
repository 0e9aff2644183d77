package impact

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/hannajonsd/impact-analysis/changes"
	"github.com/hannajonsd/impact-analysis/graph"
	"github.com/hannajonsd/impact-analysis/usage"
	"github.com/hannajonsd/impact-analysis/workspace"
)

// Phase tracks where an analysis run is in its lifecycle.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseScanning
	PhaseGraphReady
	PhasePropagating
	PhaseScored
	PhaseDone
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseScanning:
		return "scanning"
	case PhaseGraphReady:
		return "graph-ready"
	case PhasePropagating:
		return "propagating"
	case PhaseScored:
		return "scored"
	case PhaseDone:
		return "done"
	default:
		return "unknown"
	}
}

// Analysis is the per-run context: every component is reachable from here
// and no state is shared between runs, so independent analyses can proceed
// concurrently on separate Analysis values.
type Analysis struct {
	ws       *workspace.Workspace
	excluder *workspace.Excluder
	resolver *workspace.Resolver
	builder  *graph.Builder
	detector *changes.Detector
	filter   usage.RegionFilter
	weights  Weights

	phase Phase
}

// Option configures an Analysis.
type Option func(*Analysis)

// WithWeights overrides the scoring constants.
func WithWeights(w Weights) Option {
	return func(a *Analysis) { a.weights = w }
}

// WithRegionFilter substitutes the comment/string detection strategy.
func WithRegionFilter(f usage.RegionFilter) Option {
	return func(a *Analysis) { a.filter = f }
}

// WithDetector substitutes the change detector (diff mode, context window).
func WithDetector(d *changes.Detector) Option {
	return func(a *Analysis) { a.detector = d }
}

// New creates an Analysis over a workspace.
func New(ws *workspace.Workspace, excluder *workspace.Excluder, resolver *workspace.Resolver, builder *graph.Builder, opts ...Option) *Analysis {
	a := &Analysis{
		ws:       ws,
		excluder: excluder,
		resolver: resolver,
		builder:  builder,
		detector: changes.NewDetector(ws),
		weights:  DefaultWeights(),
		phase:    PhaseIdle,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Phase returns the current lifecycle phase.
func (a *Analysis) Phase() Phase {
	return a.phase
}

// Run executes the full pipeline over a list of changed file paths. The
// list comes straight from VCS output; exclusion filtering happens here,
// never in the caller.
func (a *Analysis) Run(ctx context.Context, changedFiles []string, forceRebuild bool) (*Report, error) {
	a.phase = PhaseScanning
	g, err := a.builder.Build(ctx, forceRebuild)
	if err != nil {
		a.phase = PhaseIdle
		return nil, fmt.Errorf("graph build failed: %w", err)
	}
	a.phase = PhaseGraphReady

	report := &Report{
		DirectImpact:        []FileImpact{},
		IndirectImpact:      []IndirectImpact{},
		AffectedComponents:  []string{},
		AffectedModules:     []string{},
		AffectedFunctions:   []string{},
		FunctionLevelImpact: []FunctionImpact{},
		CallChain:           []CallChainEntry{},
		ExcludedFiles:       []string{},
	}

	var included []string
	for _, file := range changedFiles {
		path := a.ws.NormalizePath(file)
		if path == "" || path == "." {
			continue
		}
		if a.excluder.ShouldExclude(path) {
			report.ExcludedFiles = append(report.ExcludedFiles, path)
			continue
		}
		included = append(included, path)
	}

	a.phase = PhasePropagating
	locator := usage.NewLocator(a.ws, g, a.resolver, a.filter)

	componentSet := make(map[string]struct{})
	moduleSet := make(map[string]struct{})
	functionSet := make(map[string]struct{})
	indirectSet := make(map[string]struct{})

	for _, file := range included {
		fileType := ClassifyFile(file)
		record := g.Record(file)

		var modified []string
		if fileType == FileUtility {
			// Deep pass: diff-level function detection plus usage analysis
			// for every function the file defines.
			modified = a.detector.ModifiedFunctions(ctx, file)
		} else if record != nil {
			// Shallow pass: all defined functions treated as modified for
			// conservative scoring.
			modified = record.FunctionNames()
		}

		report.DirectImpact = append(report.DirectImpact, FileImpact{
			File:              file,
			Type:              fileType,
			ModifiedFunctions: modified,
		})

		modifiedSet := make(map[string]struct{}, len(modified))
		for _, name := range modified {
			modifiedSet[name] = struct{}{}
		}

		var analyzed []string
		if record != nil {
			analyzed = record.FunctionNames()
		}
		// Functions the diff names but the parser missed still get a pass.
		for _, name := range modified {
			if record == nil || !contains(analyzed, name) {
				analyzed = append(analyzed, name)
			}
		}

		for _, name := range analyzed {
			if _, done := functionSet[name]; done {
				continue
			}
			functionSet[name] = struct{}{}

			_, isModified := modifiedSet[name]
			fi := a.analyzeFunction(locator, g, name, file, isModified)
			report.FunctionLevelImpact = append(report.FunctionLevelImpact, fi)

			for _, caller := range fi.Callers {
				report.CallChain = append(report.CallChain, CallChainEntry{
					Caller:   caller.File,
					Callee:   fi.DefinitionFile,
					Function: name,
				})
				noteFile(g, caller.File, componentSet, moduleSet)
			}
			for _, importer := range fi.Importers {
				noteFile(g, importer.File, componentSet, moduleSet)
			}
		}

		noteFile(g, file, componentSet, moduleSet)

		// Indirect impact: direct importers only, one hop, which bounds
		// report size. An importer shared by several changed files is
		// recorded once so it cannot weight the score more than once.
		for _, importer := range g.ImportersOf(file) {
			if _, dup := indirectSet[importer]; dup {
				continue
			}
			indirectSet[importer] = struct{}{}
			report.IndirectImpact = append(report.IndirectImpact, IndirectImpact{
				File:   importer,
				Source: file,
				Kind:   "importer",
			})
		}
	}

	report.AffectedComponents = sortedKeys(componentSet)
	report.AffectedModules = sortedKeys(moduleSet)
	report.AffectedFunctions = sortedKeys(functionSet)
	sortFunctionImpacts(report.FunctionLevelImpact)

	a.phase = PhaseScored
	report.RiskScore, report.RiskLevel = a.weights.Score(report)

	report.Summary = Summary{
		ChangedFiles:     len(included),
		ExcludedFiles:    len(report.ExcludedFiles),
		AffectedFiles:    len(report.IndirectImpact) + len(included),
		FunctionsTracked: len(report.FunctionLevelImpact),
		RiskScore:        report.RiskScore,
		RiskLevel:        report.RiskLevel,
	}

	a.phase = PhaseDone
	slog.Info("analysis complete",
		"changed", len(included), "excluded", len(report.ExcludedFiles),
		"functions", len(report.FunctionLevelImpact),
		"score", report.RiskScore, "level", report.RiskLevel)

	return report, nil
}

// analyzeFunction runs the usage locator for one function and buckets the
// result.
func (a *Analysis) analyzeFunction(locator *usage.Locator, g *graph.Graph, name, changedFile string, isModified bool) FunctionImpact {
	definitionFile := changedFile
	if entry := g.Functions[name]; entry != nil {
		definitionFile = entry.DefinitionFile
	}

	callers := locator.FindCallers(name)
	importers := locator.FindImporters(name, definitionFile)

	total := 0
	callerFiles := make(map[string]struct{}, len(callers))
	for _, c := range callers {
		total += c.CallCount
		callerFiles[c.File] = struct{}{}
	}
	// An importer that also calls is already counted through its call
	// sites; only import-only files add usage.
	for _, imp := range importers {
		if _, calls := callerFiles[imp.File]; !calls {
			total++
		}
	}

	return FunctionImpact{
		FunctionName:   name,
		DefinitionFile: definitionFile,
		Callers:        callers,
		Importers:      importers,
		TotalUsages:    total,
		ImpactLevel:    usageLevel(total),
		IsModified:     isModified,
	}
}

// noteFile records a file's component and module membership.
func noteFile(g *graph.Graph, file string, components, modules map[string]struct{}) {
	if graph.InferModuleType(file) == graph.ModuleComponent {
		components[file] = struct{}{}
	}

	if record := g.Record(file); record != nil {
		for _, name := range record.Modules {
			modules[name] = struct{}{}
		}
	}
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// sortFunctionImpacts ranks entries by usage, heaviest first, for a stable
// report ordering.
func sortFunctionImpacts(impacts []FunctionImpact) {
	sort.SliceStable(impacts, func(i, j int) bool {
		if impacts[i].TotalUsages != impacts[j].TotalUsages {
			return impacts[i].TotalUsages > impacts[j].TotalUsages
		}
		return impacts[i].FunctionName < impacts[j].FunctionName
	})
}
