package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/decisiond/internal/decision"
)

var (
	statusValue string
	statusNote  string

	completeResult  string
	completeOutcome string
	completeLessons string
)

var updateStatusCmd = &cobra.Command{
	Use:   "update-status <decision-id>",
	Short: "Move a decision to a new lifecycle status",
	Long: `Move a decision to a new lifecycle status. A note, when given, is
appended to the decision's status history.

Examples:
  dcsn update-status 2026-09-01-a1b2c3d4 --status in_progress --note "started"`,
	Args: cobra.ExactArgs(1),
	RunE: runUpdateStatus,
}

var completeCmd = &cobra.Command{
	Use:   "complete <decision-id>",
	Short: "Mark a decision completed with its result",
	Long: `Mark a decision completed, recording the result (success, failure,
partial), the final outcome, and optional lessons learned.

Examples:
  dcsn complete 2026-09-01-a1b2c3d4 --result success --outcome "signed the contract"`,
	Args: cobra.ExactArgs(1),
	RunE: runComplete,
}

func init() {
	updateStatusCmd.Flags().StringVar(&statusValue, "status", "", "new status (pending, in_progress, accepted, rejected, completed)")
	updateStatusCmd.Flags().StringVar(&statusNote, "note", "", "note to append to the status history")
	updateStatusCmd.MarkFlagRequired("status") //nolint:errcheck

	completeCmd.Flags().StringVar(&completeResult, "result", "", "result (success, failure, partial)")
	completeCmd.Flags().StringVar(&completeOutcome, "outcome", "", "final outcome description")
	completeCmd.Flags().StringVar(&completeLessons, "lessons", "", "lessons learned")
	completeCmd.MarkFlagRequired("result")  //nolint:errcheck
	completeCmd.MarkFlagRequired("outcome") //nolint:errcheck
}

func runUpdateStatus(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	d, err := a.lifecycle.UpdateStatus(cmd.Context(), args[0], decision.Status(statusValue), statusNote)
	if err != nil {
		return err
	}

	fmt.Printf("Status updated: %s -> %s\n", d.ID, d.Outcome)
	if statusNote != "" {
		fmt.Printf("  Note: %s\n", statusNote)
	}
	return nil
}

func runComplete(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	d, err := a.lifecycle.Complete(cmd.Context(), args[0], decision.Result(completeResult), completeOutcome, completeLessons)
	if err != nil {
		return err
	}

	fmt.Printf("Decision completed: %s\n", d.ID)
	fmt.Printf("  Result:  %s\n", d.Result)
	fmt.Printf("  Outcome: %s\n", d.FinalOutcome)
	if d.LessonsLearned != "" {
		fmt.Printf("  Lessons: %s\n", d.LessonsLearned)
	}
	return nil
}
