package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/decisiond/internal/analysis"
	"github.com/fyrsmithlabs/decisiond/internal/decision"
)

var analyzePattern string

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run a named pattern analysis over all decisions",
	Long: `Run a named pattern analysis over all decisions.

Patterns:
  emotion_hijack  decisions dominated by emotional factors, plus recent trend
  validation      decisions made without a validation step
  multi_task      the pending-decision backlog

Examples:
  dcsn analyze --pattern emotion_hijack`,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzePattern, "pattern", "", "pattern name (required)")
	analyzeCmd.MarkFlagRequired("pattern") //nolint:errcheck
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	decisions, err := a.store.List(cmd.Context(), decision.ListRequest{})
	if err != nil {
		return err
	}

	result, err := a.analyzer.AnalyzePattern(analysis.Pattern(analyzePattern), decisions)
	if err != nil {
		return err
	}

	fmt.Printf("Pattern analysis: %s\n", result.Pattern)
	fmt.Printf("  Total decisions: %d\n", result.TotalDecisions)

	if len(result.Findings) > 0 {
		fmt.Println("\nFindings:")
		for _, f := range result.Findings {
			fmt.Printf("  - %s\n", f)
		}
	}
	if len(result.Recommendations) > 0 {
		fmt.Println("\nRecommendations:")
		for _, r := range result.Recommendations {
			fmt.Printf("  - %s\n", r)
		}
	}

	return nil
}
