package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hannajonsd/impact-analysis/changes"
	"github.com/hannajonsd/impact-analysis/impact"
)

var flagCheckMaxRisk string

// checkCmd is the pre-commit entry point: staged changes only, quiet
// output, non-zero exit above the threshold so a hook can abort the commit.
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Gate staged changes against a risk threshold",
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace()
		if err != nil {
			return err
		}

		analysis, detector := buildPipeline(ws, changes.DiffStaged, "")

		changedFiles, err := detector.ChangedFiles(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to read staged files from git: %w", err)
		}
		if len(changedFiles) == 0 {
			fmt.Println("impact check: no staged changes")
			return nil
		}

		report, err := analysis.Run(cmd.Context(), changedFiles, false)
		if err != nil {
			return err
		}

		maxRisk := cfg.MaxRisk
		if flagCheckMaxRisk != "" {
			maxRisk = flagCheckMaxRisk
		}

		if code := exitCodeFor(report.RiskLevel, maxRisk); code != 0 {
			fmt.Printf("impact check: BLOCKED: risk %s (score %d) reaches the %s threshold\n",
				report.RiskLevel, report.RiskScore, maxRisk)
			for _, fn := range report.FunctionLevelImpact {
				if fn.ImpactLevel.AtLeast(impact.LevelHigh) {
					fmt.Printf("  high-impact function: %s (%d usages, defined in %s)\n",
						fn.FunctionName, fn.TotalUsages, fn.DefinitionFile)
				}
			}
			return fmt.Errorf("change set exceeds the allowed risk level")
		}

		fmt.Printf("impact check: ok: risk %s (score %d)\n", report.RiskLevel, report.RiskScore)
		return nil
	},
}

func init() {
	checkCmd.Flags().StringVar(&flagCheckMaxRisk, "max-risk", "", "risk level that blocks the commit")
	rootCmd.AddCommand(checkCmd)
}
