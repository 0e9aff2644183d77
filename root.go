package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/hannajonsd/impact-analysis/changes"
	"github.com/hannajonsd/impact-analysis/config"
	"github.com/hannajonsd/impact-analysis/graph"
	"github.com/hannajonsd/impact-analysis/impact"
	"github.com/hannajonsd/impact-analysis/workspace"
)

var (
	flagConfig  string
	flagRoot    string
	flagVerbose bool
	flagJSON    bool

	cfg config.Config
)

var rootCmd = &cobra.Command{
	Use:   "impact-analysis",
	Short: "Source-change impact analysis for frontend codebases",
	Long: `Analyzes which functions changed in a set of modified files, traces
every caller and importer across the project, and emits a weighted risk
score for the change set.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelWarn
		if flagVerbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

		var err error
		cfg, err = config.Load(flagConfig)
		if err != nil {
			return err
		}
		if flagRoot != "" {
			cfg.ProjectRoot = flagRoot
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", ".impact-analysis.yaml", "path to config file")
	rootCmd.PersistentFlags().StringVar(&flagRoot, "root", "", "project root override (default: discovered via VCS marker)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "emit JSON instead of a text summary")
}

// openWorkspace discovers or opens the project root per configuration.
func openWorkspace() (*workspace.Workspace, error) {
	if cfg.ProjectRoot != "" {
		return workspace.Open(cfg.ProjectRoot)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	return workspace.Discover(cwd)
}

// buildPipeline wires the engine components for one run.
func buildPipeline(ws *workspace.Workspace, mode changes.DiffMode, revision string) (*impact.Analysis, *changes.Detector) {
	excluder := workspace.NewExcluder(excludePatterns()).
		WithGitignore(workspace.NewGitignoreParser(ws))
	resolver := workspace.NewResolver(ws, cfg.SourceRoots)

	builderOpts := []graph.BuilderOption{
		graph.WithCache(graph.NewCache(cfg.CacheTTL)),
		graph.WithTreeSitter(cfg.UseTreeSitter),
	}
	if cfg.BatchSize > 0 {
		builderOpts = append(builderOpts, graph.WithBatchSize(cfg.BatchSize))
	}
	if len(cfg.Include) > 0 {
		builderOpts = append(builderOpts, graph.WithIncludes(cfg.Include))
	}
	builder := graph.NewBuilder(ws, excluder, resolver, builderOpts...)

	detectorOpts := []changes.DetectorOption{changes.WithMode(mode, revision)}
	if cfg.ContextWindow > 0 {
		detectorOpts = append(detectorOpts, changes.WithContextWindow(cfg.ContextWindow))
	}
	detector := changes.NewDetector(ws, detectorOpts...)

	analysis := impact.New(ws, excluder, resolver, builder,
		impact.WithWeights(cfg.Weights),
		impact.WithDetector(detector),
	)

	return analysis, detector
}

func excludePatterns() []string {
	if len(cfg.Exclude) > 0 {
		return append(append([]string{}, workspace.DefaultExcludes...), cfg.Exclude...)
	}
	return nil
}

// exitCodeFor maps a risk level against the configured maximum: above the
// line means a non-zero exit so hooks and CI can abort.
func exitCodeFor(level impact.Level, maxRisk string) int {
	limit := impact.ParseLevel(maxRisk)
	if level.AtLeast(limit) && level != impact.LevelNone {
		return 1
	}
	return 0
}

func printSummary(report *impact.Report) {
	s := report.Summary
	fmt.Printf("Changed files:      %d (%d excluded)\n", s.ChangedFiles, s.ExcludedFiles)
	fmt.Printf("Affected files:     %d\n", s.AffectedFiles)
	fmt.Printf("Functions tracked:  %d\n", s.FunctionsTracked)
	fmt.Printf("Affected components: %d\n", len(report.AffectedComponents))
	fmt.Printf("Risk score:         %d\n", s.RiskScore)
	fmt.Printf("Risk level:         %s\n", s.RiskLevel)

	if len(report.FunctionLevelImpact) > 0 {
		fmt.Println("\nTop function impact:")
		for i, fn := range report.FunctionLevelImpact {
			if i >= 10 {
				break
			}
			marker := " "
			if fn.IsModified {
				marker = "*"
			}
			fmt.Printf("  %s %-30s usages=%-4d level=%s (%s)\n",
				marker, fn.FunctionName, fn.TotalUsages, fn.ImpactLevel, fn.DefinitionFile)
		}
	}
}
