package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/decisiond/internal/decision"
)

var (
	listDays   int
	listStatus string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List decisions, most recent first",
	Long: `List decisions, most recent first.

Examples:
  # All decisions
  dcsn list

  # Last 30 days, pending only
  dcsn list --days 30 --status pending`,
	RunE: runList,
}

var showCmd = &cobra.Command{
	Use:   "show <decision-id>",
	Short: "Show one decision in full",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	listCmd.Flags().IntVar(&listDays, "days", 0, "only decisions from the last N days")
	listCmd.Flags().StringVar(&listStatus, "status", "", "filter by status (pending, in_progress, accepted, rejected, completed)")
}

func runList(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	req := decision.ListRequest{WindowDays: listDays}
	if listStatus != "" {
		st := decision.Status(listStatus)
		if !st.Valid() {
			return fmt.Errorf("%w: %q", decision.ErrInvalidStatus, listStatus)
		}
		req.Status = st
	}

	decisions, err := a.store.List(cmd.Context(), req)
	if err != nil {
		return err
	}

	if len(decisions) == 0 {
		fmt.Println("No decisions found")
		return nil
	}

	fmt.Printf("%d decision(s)\n\n", len(decisions))
	for _, d := range decisions {
		fmt.Printf("%s  [%s/%s]  %s\n", d.ID, d.Type, d.Outcome, d.Description)
	}
	return nil
}

func runShow(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	d, err := a.store.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	printDecision(d)
	if len(d.StatusHistory) > 0 {
		fmt.Println("  History:")
		for _, h := range d.StatusHistory {
			fmt.Printf("    %s  %s -> %s  %s\n",
				h.Timestamp.Format("2006-01-02 15:04"), h.From, h.To, h.Note)
		}
	}
	return nil
}
