package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	reportWeek    int
	reportPersona string

	metadataPersona string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate periodic growth reports",
}

var reportWeeklyCmd = &cobra.Command{
	Use:   "weekly",
	Short: "Generate the weekly growth report",
	Long: `Generate the weekly growth report for the given week index (1 is the
current week, 2 the week before, and so on) and save it under the reviews
directory.

Examples:
  dcsn report weekly --week 1 --persona ~/persona.md`,
	RunE: runReportWeekly,
}

var extractMetadataCmd = &cobra.Command{
	Use:   "extract-metadata",
	Short: "Extract persona metadata and print it as JSON",
	Long: `Extract structured metadata (behavioral patterns, blind spots,
weaknesses, triggers, decision keywords, improvement areas) from a persona
document and print it as JSON. Extraction is best-effort; absent sections
yield empty lists.`,
	RunE: runExtractMetadata,
}

func init() {
	reportWeeklyCmd.Flags().IntVar(&reportWeek, "week", 1, "week index, counting back from the current week")
	reportWeeklyCmd.Flags().StringVar(&reportPersona, "persona", "", "path to a persona document")
	reportCmd.AddCommand(reportWeeklyCmd)

	extractMetadataCmd.Flags().StringVar(&metadataPersona, "persona", "", "path to a persona document (required)")
	extractMetadataCmd.MarkFlagRequired("persona") //nolint:errcheck
}

func runReportWeekly(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	r, err := a.reports.GenerateWeekly(cmd.Context(), reportWeek, reportPersona)
	if err != nil {
		return err
	}

	fmt.Print(r.Content)
	fmt.Printf("\nReport saved to %s\n", r.Path)
	if r.PersonaDegraded {
		fmt.Printf("Note: persona document %s could not be read; report generated without metadata\n", reportPersona)
	}
	return nil
}

func runExtractMetadata(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	meta, degraded := a.extractor.ExtractFile(metadataPersona)
	if degraded {
		return fmt.Errorf("failed to read persona document %s", metadataPersona)
	}

	out, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}

	fmt.Println(string(out))
	return nil
}
