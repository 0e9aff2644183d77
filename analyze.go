package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hannajonsd/impact-analysis/changes"
)

var (
	flagStaged       bool
	flagRevision     string
	flagForceRebuild bool
	flagMaxRisk      string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [files...]",
	Short: "Analyze the impact of changed files",
	Long: `Runs the full pipeline over a set of changed files. With no file
arguments the changed list is read from git (working tree by default,
--staged or --rev for other baselines). Exits non-zero when the risk level
reaches the configured maximum.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace()
		if err != nil {
			return err
		}

		mode := changes.DiffWorkingTree
		revision := ""
		if flagStaged {
			mode = changes.DiffStaged
		}
		if flagRevision != "" {
			mode = changes.DiffRevision
			revision = flagRevision
		}

		analysis, detector := buildPipeline(ws, mode, revision)

		changedFiles := args
		if len(changedFiles) == 0 {
			changedFiles, err = detector.ChangedFiles(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to read changed files from git: %w", err)
			}
		}

		report, err := analysis.Run(cmd.Context(), changedFiles, flagForceRebuild)
		if err != nil {
			return err
		}

		if flagJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(report); err != nil {
				return err
			}
		} else {
			printSummary(report)
		}

		maxRisk := cfg.MaxRisk
		if flagMaxRisk != "" {
			maxRisk = flagMaxRisk
		}
		if code := exitCodeFor(report.RiskLevel, maxRisk); code != 0 {
			return fmt.Errorf("risk level %s reaches the configured maximum (%s)",
				report.RiskLevel, maxRisk)
		}
		return nil
	},
}

func init() {
	analyzeCmd.Flags().BoolVar(&flagStaged, "staged", false, "analyze staged changes instead of the working tree")
	analyzeCmd.Flags().StringVar(&flagRevision, "rev", "", "analyze changes against a revision or range")
	analyzeCmd.Flags().BoolVar(&flagForceRebuild, "force-rebuild", false, "ignore the cached graph")
	analyzeCmd.Flags().StringVar(&flagMaxRisk, "max-risk", "", "risk level that triggers a non-zero exit")

	rootCmd.AddCommand(analyzeCmd)
}
