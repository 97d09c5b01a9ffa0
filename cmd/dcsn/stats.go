package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/decisiond/internal/analysis"
	"github.com/fyrsmithlabs/decisiond/internal/decision"
)

var statsDays int

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregate decision metrics",
	Long: `Show aggregate decision metrics: counts by type, risk, and status,
plus the emotional profile of the record set.

Examples:
  # All decisions
  dcsn stats

  # Last 30 days only
  dcsn stats --days 30`,
	RunE: runStats,
}

func init() {
	statsCmd.Flags().IntVar(&statsDays, "days", 0, "only decisions from the last N days")
}

func runStats(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	decisions, err := a.store.List(cmd.Context(), decision.ListRequest{WindowDays: statsDays})
	if err != nil {
		return err
	}

	fmt.Print(renderStats(a.analyzer.GenericMetrics(decisions), statsDays))
	return nil
}

// renderStats formats the aggregate metrics for terminal output.
func renderStats(m *analysis.Metrics, days int) string {
	var b strings.Builder

	if days > 0 {
		fmt.Fprintf(&b, "Decision stats (last %d days)\n", days)
	} else {
		b.WriteString("Decision stats\n")
	}
	fmt.Fprintf(&b, "  Total: %d\n", m.TotalDecisions)

	if m.TotalDecisions == 0 {
		return b.String()
	}

	b.WriteString("\nBy type:\n")
	for _, t := range []decision.Type{decision.TypeLifeLevel, decision.TypeImportant, decision.TypeDaily} {
		if n := m.ByType[t]; n > 0 {
			fmt.Fprintf(&b, "  %-12s %d\n", t, n)
		}
	}

	b.WriteString("\nBy risk:\n")
	for _, r := range []decision.RiskLevel{decision.RiskHigh, decision.RiskMedium, decision.RiskLow} {
		if n := m.ByRisk[r]; n > 0 {
			fmt.Fprintf(&b, "  %-12s %d\n", r, n)
		}
	}

	b.WriteString("\nBy status:\n")
	for _, s := range []decision.Status{
		decision.StatusPending, decision.StatusInProgress, decision.StatusAccepted,
		decision.StatusRejected, decision.StatusCompleted,
	} {
		if n := m.ByOutcome[s]; n > 0 {
			fmt.Fprintf(&b, "  %-12s %d\n", s, n)
		}
	}

	b.WriteString("\nEmotions:\n")
	fmt.Fprintf(&b, "  High-emotion decisions: %d (%.0f%%)\n", m.HighEmotionCount, m.HighEmotionRate*100)
	fmt.Fprintf(&b, "  Average emotion ratio:  %.0f%%\n", m.AvgEmotionRatio*100)

	return b.String()
}
