package analysis

import (
	"errors"

	"github.com/fyrsmithlabs/decisiond/internal/decision"
)

// ErrUnknownPattern indicates a pattern name outside the supported set.
var ErrUnknownPattern = errors.New("unknown analysis pattern")

// Pattern names a behavioral pattern analysis.
type Pattern string

const (
	// PatternEmotionHijack inspects emotion-dominated decisions and the
	// recent emotional trend.
	PatternEmotionHijack Pattern = "emotion_hijack"
	// PatternValidation inspects decisions made without a validation step.
	PatternValidation Pattern = "validation"
	// PatternMultiTask inspects the pending-decision backlog.
	PatternMultiTask Pattern = "multi_task"
)

// Valid reports whether p is a supported pattern name.
func (p Pattern) Valid() bool {
	switch p {
	case PatternEmotionHijack, PatternValidation, PatternMultiTask:
		return true
	}
	return false
}

// Metrics are the generic aggregates computable for any record set.
type Metrics struct {
	TotalDecisions int `json:"total_decisions"`

	ByType    map[decision.Type]int      `json:"by_type"`
	ByRisk    map[decision.RiskLevel]int `json:"by_risk"`
	ByOutcome map[decision.Status]int    `json:"by_outcome"`

	// HighEmotionCount counts records with emotion_ratio > 0.5.
	HighEmotionCount int `json:"high_emotion_count"`
	// HighEmotionRate is HighEmotionCount over the total.
	HighEmotionRate float64 `json:"high_emotion_rate"`
	// AvgEmotionRatio is the mean emotion ratio across the set.
	AvgEmotionRatio float64 `json:"avg_emotion_ratio"`
	// EmotionDistribution holds every emotion ratio in set order, for
	// downstream trend plotting.
	EmotionDistribution []float64 `json:"emotion_distribution"`
}

// PersonalMetrics are the persona-driven aggregates.
type PersonalMetrics struct {
	// TriggerMatches counts occurrences of each trigger phrase or decision
	// keyword across descriptions.
	TriggerMatches map[string]int `json:"trigger_matches"`
	// BlindSpotViolations counts records matching a known blind-spot
	// heuristic, keyed by blind-spot label.
	BlindSpotViolations map[string]int `json:"blind_spot_violations"`
}

// PatternAnalysis is the result of one named pattern analysis.
type PatternAnalysis struct {
	Pattern         Pattern  `json:"pattern"`
	TotalDecisions  int      `json:"total_decisions"`
	Findings        []string `json:"findings"`
	Recommendations []string `json:"recommendations"`
}
