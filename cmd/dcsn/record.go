package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/decisiond/internal/decision"
)

var (
	recordType        string
	recordDescription string
	recordRational    string
	recordEmotions    []string
	recordWarning     string
)

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Record a new decision",
	Long: `Record a new decision. The risk level and emotion ratio are computed
at creation and stamped onto the record.

Examples:
  # Record a life-level decision
  dcsn record --type life_level --description "考虑买房"

  # Record with emotional factors
  dcsn record --description "换项目" --emotions 为了家人 --emotions 应该`,
	RunE: runRecord,
}

func init() {
	recordCmd.Flags().StringVar(&recordType, "type", string(decision.TypeImportant), "decision type (life_level, important, daily)")
	recordCmd.Flags().StringVar(&recordDescription, "description", "", "decision description (required)")
	recordCmd.Flags().StringVar(&recordRational, "rational", "", "rational analysis")
	recordCmd.Flags().StringArrayVar(&recordEmotions, "emotions", nil, "emotional factors (repeatable)")
	recordCmd.Flags().StringVar(&recordWarning, "warning", "", "advisory warning to attach")
	recordCmd.MarkFlagRequired("description") //nolint:errcheck
}

func runRecord(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	d, err := a.store.Create(cmd.Context(), decision.CreateRequest{
		Description:      recordDescription,
		Type:             decision.Type(recordType),
		RationalAnalysis: recordRational,
		EmotionalFactors: recordEmotions,
		AIWarning:        recordWarning,
	})
	if err != nil {
		return err
	}

	fmt.Println("Decision recorded")
	printDecision(d)
	return nil
}

// printDecision prints a one-record summary.
func printDecision(d *decision.Decision) {
	fmt.Printf("  ID:          %s\n", d.ID)
	fmt.Printf("  Created:     %s\n", d.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("  Type:        %s\n", d.Type)
	fmt.Printf("  Description: %s\n", d.Description)
	if len(d.EmotionalFactors) > 0 {
		fmt.Printf("  Emotions:    %s\n", strings.Join(d.EmotionalFactors, ", "))
		fmt.Printf("  Ratio:       %.0f%%\n", d.EmotionRatio*100)
	}
	fmt.Printf("  Risk:        %s\n", strings.ToUpper(string(d.RiskLevel)))
	if d.AIWarning != "" {
		fmt.Printf("  Warning:     %s\n", d.AIWarning)
	}
	if len(d.RequiredActions) > 0 {
		fmt.Println("  Required actions:")
		for _, action := range d.RequiredActions {
			fmt.Printf("    - %s\n", action)
		}
	}
	fmt.Printf("  Status:      %s\n", d.Outcome)
	if d.Outcome == decision.StatusCompleted && d.Result != "" {
		fmt.Printf("  Result:      %s\n", d.Result)
		fmt.Printf("  Outcome:     %s\n", d.FinalOutcome)
		if d.LessonsLearned != "" {
			fmt.Printf("  Lessons:     %s\n", d.LessonsLearned)
		}
	}
}
