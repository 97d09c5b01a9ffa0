// Package analysis computes aggregate statistics and named behavioral
// patterns over a set of decision records.
package analysis

import (
	"fmt"
	"strings"

	"github.com/fyrsmithlabs/decisiond/internal/decision"
	"github.com/fyrsmithlabs/decisiond/internal/persona"
)

// highEmotionThreshold flags decisions whose emotion ratio exceeds it.
const highEmotionThreshold = 0.5

// recentWindow is how many of the most recent decisions the trend check
// in the emotion_hijack analysis considers.
const recentWindow = 5

// recentEmotionThreshold triggers the cooling-off recommendation when the
// recent mean emotion ratio exceeds it.
const recentEmotionThreshold = 0.3

// BlindSpotEmotionHijack is the fixed label blind-spot violations are
// tagged with: high risk combined with a dominant emotion ratio.
const BlindSpotEmotionHijack = "情感劫持"

// Analyzer computes metrics and pattern analyses. validationMarker is the
// term whose absence from a rational analysis flags a decision as
// unvalidated.
type Analyzer struct {
	validationMarker string
}

// NewAnalyzer creates an analyzer. An empty marker falls back to the
// default validation term.
func NewAnalyzer(validationMarker string) *Analyzer {
	if validationMarker == "" {
		validationMarker = "验证"
	}
	return &Analyzer{validationMarker: validationMarker}
}

// GenericMetrics computes the always-available aggregate statistics.
func (a *Analyzer) GenericMetrics(records []*decision.Decision) *Metrics {
	m := &Metrics{
		TotalDecisions:      len(records),
		ByType:              make(map[decision.Type]int),
		ByRisk:              make(map[decision.RiskLevel]int),
		ByOutcome:           make(map[decision.Status]int),
		EmotionDistribution: make([]float64, 0, len(records)),
	}

	var sum float64
	for _, d := range records {
		m.ByType[d.Type]++
		m.ByRisk[d.RiskLevel]++
		m.ByOutcome[d.Outcome]++

		m.EmotionDistribution = append(m.EmotionDistribution, d.EmotionRatio)
		sum += d.EmotionRatio
		if d.EmotionRatio > highEmotionThreshold {
			m.HighEmotionCount++
		}
	}

	if len(records) > 0 {
		m.AvgEmotionRatio = sum / float64(len(records))
		m.HighEmotionRate = float64(m.HighEmotionCount) / float64(len(records))
	}

	return m
}

// PersonalizedMetrics counts persona trigger phrases and decision keywords
// across descriptions (case-insensitive substring match), and tags records
// that are both high risk and emotion-dominated as blind-spot violations.
func (a *Analyzer) PersonalizedMetrics(records []*decision.Decision, meta *persona.Metadata) *PersonalMetrics {
	m := &PersonalMetrics{
		TriggerMatches:      make(map[string]int),
		BlindSpotViolations: make(map[string]int),
	}
	if meta == nil {
		return m
	}

	terms := make([]string, 0, len(meta.Triggers)+len(meta.DecisionKeywords))
	terms = append(terms, meta.Triggers...)
	terms = append(terms, meta.DecisionKeywords...)

	for _, d := range records {
		desc := strings.ToLower(d.Description)

		for _, term := range terms {
			if term == "" {
				continue
			}
			if strings.Contains(desc, strings.ToLower(term)) {
				m.TriggerMatches[term]++
			}
		}

		if d.RiskLevel == decision.RiskHigh && d.EmotionRatio > highEmotionThreshold {
			m.BlindSpotViolations[BlindSpotEmotionHijack]++
		}
	}

	return m
}

// AnalyzePattern runs the named pattern analysis over the record set,
// which is expected newest-first (the store's listing order). Returns
// ErrUnknownPattern for names outside the supported set.
func (a *Analyzer) AnalyzePattern(name Pattern, records []*decision.Decision) (*PatternAnalysis, error) {
	result := &PatternAnalysis{
		Pattern:         name,
		TotalDecisions:  len(records),
		Findings:        []string{},
		Recommendations: []string{},
	}

	switch name {
	case PatternEmotionHijack:
		a.analyzeEmotionHijack(records, result)
	case PatternValidation:
		a.analyzeValidation(records, result)
	case PatternMultiTask:
		a.analyzeMultiTask(records, result)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPattern, name)
	}

	return result, nil
}

// analyzeEmotionHijack reports the emotion-dominated subset and checks the
// recent trend over the latest records.
func (a *Analyzer) analyzeEmotionHijack(records []*decision.Decision, result *PatternAnalysis) {
	var flagged []*decision.Decision
	for _, d := range records {
		if d.EmotionRatio > highEmotionThreshold {
			flagged = append(flagged, d)
		}
	}

	result.Findings = append(result.Findings,
		fmt.Sprintf("发现%d个可能被情感劫持的决策（占比>50%%）", len(flagged)))

	if len(flagged) > 0 {
		var sum float64
		for _, d := range flagged {
			sum += d.EmotionRatio
		}
		avg := sum / float64(len(flagged))
		result.Findings = append(result.Findings,
			fmt.Sprintf("平均情感占比：%.0f%%", avg*100))
	}

	// Trend over the most recent decisions. Records arrive newest-first.
	recent := records
	if len(recent) > recentWindow {
		recent = recent[:recentWindow]
	}
	var recentMean float64
	if len(recent) > 0 {
		var sum float64
		for _, d := range recent {
			sum += d.EmotionRatio
		}
		recentMean = sum / float64(len(recent))
	}

	if recentMean > recentEmotionThreshold {
		result.Recommendations = append(result.Recommendations,
			"最近决策中情感因素较多，建议加强冷静期执行")
	} else {
		result.Recommendations = append(result.Recommendations,
			"最近决策较为理性，继续保持")
	}
}

// analyzeValidation reports decisions whose rational analysis lacks the
// validation marker term.
func (a *Analyzer) analyzeValidation(records []*decision.Decision, result *PatternAnalysis) {
	var unvalidated int
	for _, d := range records {
		if !strings.Contains(d.RationalAnalysis, a.validationMarker) {
			unvalidated++
		}
	}

	result.Findings = append(result.Findings,
		fmt.Sprintf("发现%d个可能未做充分验证的决策", unvalidated))

	if unvalidated > 3 {
		result.Recommendations = append(result.Recommendations,
			"你经常跳过验证环节，建议每次决策前先做市场验证")
	}
}

// analyzeMultiTask reports the pending backlog.
func (a *Analyzer) analyzeMultiTask(records []*decision.Decision, result *PatternAnalysis) {
	var pending int
	for _, d := range records {
		if d.Outcome == decision.StatusPending {
			pending++
		}
	}

	result.Findings = append(result.Findings,
		fmt.Sprintf("当前有%d个待完成决策", pending))

	if pending > 3 {
		result.Recommendations = append(result.Recommendations,
			"同时进行的决策过多，建议聚焦完成其中一个")
	}
}
