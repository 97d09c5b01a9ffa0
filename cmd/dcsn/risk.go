package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	riskDescription string
	riskPersona     string
)

var checkRiskCmd = &cobra.Command{
	Use:   "check-risk",
	Short: "Probe a decision description for risk before recording it",
	Long: `Probe a decision description for risk before recording it. Scans the
text against the high-risk and emotional-trigger keyword tables and, when a
persona document is supplied, attaches matched advisories.

Examples:
  dcsn check-risk --description "我要结婚"
  dcsn check-risk --description "我要创业" --persona ~/persona.md`,
	RunE: runCheckRisk,
}

func init() {
	checkRiskCmd.Flags().StringVar(&riskDescription, "description", "", "decision description (required)")
	checkRiskCmd.Flags().StringVar(&riskPersona, "persona", "", "path to a persona document")
	checkRiskCmd.MarkFlagRequired("description") //nolint:errcheck
}

func runCheckRisk(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	assessment := a.classifier.ProbeFile(riskDescription, riskPersona)

	fmt.Println("Risk assessment")
	fmt.Printf("  Description:    %s\n", assessment.Description)
	fmt.Printf("  Suggested type: %s\n", assessment.TypeSuggestion)
	if len(assessment.DetectedKeywords) > 0 {
		fmt.Printf("  Keywords:       %s\n", strings.Join(assessment.DetectedKeywords, ", "))
	}
	if len(assessment.EmotionFactors) > 0 {
		fmt.Printf("  Emotions:       %s\n", strings.Join(assessment.EmotionFactors, ", "))
		fmt.Printf("  Ratio:          %.0f%%\n", assessment.EmotionRatio*100)
	}
	fmt.Printf("  Risk:           %s\n", strings.ToUpper(string(assessment.RiskLevel)))

	if len(assessment.Warnings) > 0 {
		fmt.Println("\nWarnings:")
		for _, w := range assessment.Warnings {
			fmt.Printf("  - %s\n", w)
		}
	}
	if len(assessment.RequiredActions) > 0 {
		fmt.Println("\nRequired actions:")
		for _, action := range assessment.RequiredActions {
			fmt.Printf("  - %s\n", action)
		}
	}
	if len(assessment.PersonaReferences) > 0 {
		fmt.Println("\nPersona advisories:")
		for _, ref := range assessment.PersonaReferences {
			fmt.Printf("  - %s\n", ref)
		}
	}
	if assessment.PersonaDegraded {
		fmt.Printf("\nNote: persona document %s could not be read; advisories skipped\n", riskPersona)
	}

	return nil
}
