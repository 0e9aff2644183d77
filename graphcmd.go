package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/hannajonsd/impact-analysis/graph"
	"github.com/hannajonsd/impact-analysis/workspace"
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Build the dependency graph and print statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace()
		if err != nil {
			return err
		}

		excluder := workspace.NewExcluder(excludePatterns()).
			WithGitignore(workspace.NewGitignoreParser(ws))
		resolver := workspace.NewResolver(ws, cfg.SourceRoots)
		builder := graph.NewBuilder(ws, excluder, resolver,
			graph.WithTreeSitter(cfg.UseTreeSitter),
		)

		g, err := builder.Build(cmd.Context(), true)
		if err != nil {
			return err
		}

		if flagJSON {
			return dumpGraphJSON(g)
		}

		fmt.Printf("Project root:  %s\n", ws.Root)
		fmt.Printf("Files:         %d\n", len(g.Files))
		fmt.Printf("Functions:     %d\n", len(g.Functions))
		fmt.Printf("Modules:       %d\n", len(g.Modules))
		fmt.Printf("Import edges:  %d\n", importEdgeCount(g))
		fmt.Printf("Generation:    %d\n", g.Generation)

		byType := make(map[graph.ModuleType]int)
		for _, m := range g.Modules {
			byType[m.Type]++
		}
		fmt.Println("\nModules by type:")
		for _, t := range []graph.ModuleType{
			graph.ModuleComponent, graph.ModuleUtility, graph.ModuleService,
			graph.ModuleView, graph.ModuleUnknown,
		} {
			if byType[t] > 0 {
				fmt.Printf("  %-10s %d\n", t, byType[t])
			}
		}

		return nil
	},
}

func importEdgeCount(g *graph.Graph) int {
	n := 0
	for _, importers := range g.Imports {
		n += len(importers)
	}
	return n
}

// dumpGraphJSON emits a compact JSON view of the graph for external tools.
func dumpGraphJSON(g *graph.Graph) error {
	type edge struct {
		From string `json:"from"`
		To   string `json:"to"`
	}

	var edges []edge
	for target, importers := range g.Imports {
		for importer := range importers {
			edges = append(edges, edge{From: importer, To: target})
		}
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].From != edges[j].From {
			return edges[i].From < edges[j].From
		}
		return edges[i].To < edges[j].To
	})

	out := struct {
		Files      int                             `json:"files"`
		Generation uint64                          `json:"generation"`
		Edges      []edge                          `json:"importEdges"`
		Functions  map[string]*graph.FunctionEntry `json:"functions"`
		Modules    map[string]*graph.ModuleInfo    `json:"modules"`
	}{
		Files:      len(g.Files),
		Generation: g.Generation,
		Edges:      edges,
		Functions:  g.Functions,
		Modules:    g.Modules,
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
