package classifier

import (
	"github.com/fyrsmithlabs/decisiond/internal/decision"
)

// Assessment is the result of a free-text risk probe.
type Assessment struct {
	// Description is the probed text, echoed back.
	Description string `json:"description"`

	// DetectedKeywords are the high-risk keywords found in the description.
	DetectedKeywords []string `json:"detected_keywords"`

	// TypeSuggestion is the decision type the probe recommends.
	TypeSuggestion decision.Type `json:"decision_type_suggestion"`

	// EmotionFactors are the matched emotional trigger phrases.
	EmotionFactors []string `json:"emotion_factors"`

	// EmotionRatio is min(0.25 * len(EmotionFactors), 1.0).
	EmotionRatio float64 `json:"emotion_ratio"`

	// RiskLevel is the resolved risk classification.
	RiskLevel decision.RiskLevel `json:"risk_level"`

	// Warnings are structured notices emitted for high-risk probes.
	Warnings []string `json:"warnings"`

	// RequiredActions is the life-level checklist when suggested.
	RequiredActions []string `json:"required_actions"`

	// PersonaReferences are advisory sentences matched from persona text.
	PersonaReferences []string `json:"persona_references"`

	// PersonaDegraded is set when persona text was requested but could not
	// be read; the probe proceeded without advisories.
	PersonaDegraded bool `json:"persona_degraded,omitempty"`
}
