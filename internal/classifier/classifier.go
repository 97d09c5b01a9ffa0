package classifier

import (
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/fyrsmithlabs/decisiond/internal/decision"
)

// Weight of each factor in the emotion ratio, per scoring path.
const (
	declaredFactorWeight = 0.20
	probedFactorWeight   = 0.25
)

// emotionHijackThreshold is the ratio above which emotion is considered to
// dominate the decision.
const emotionHijackThreshold = 0.5

// Classifier scores decisions against its keyword tables. Stateless beyond
// the tables; safe for concurrent use.
type Classifier struct {
	tables Tables
}

// New creates a classifier, filling empty table fields with defaults.
func New(tables Tables) *Classifier {
	return &Classifier{tables: tables.withDefaults()}
}

// Tables returns the lookup data the classifier was built with.
func (c *Classifier) Tables() Tables {
	return c.tables
}

// Score computes the derived fields for a new decision from its declared
// type and emotional factors:
//
//	emotion_ratio = min(0.20 * len(factors), 1.0)
//	risk_level    = high   if life_level or ratio > 0.5
//	                medium if important
//	                low    otherwise
//
// The mandatory checklist is attached iff the type is life_level.
func (c *Classifier) Score(t decision.Type, emotionalFactors []string) (float64, decision.RiskLevel, []string) {
	ratio := math.Min(float64(len(emotionalFactors))*declaredFactorWeight, 1.0)

	risk := decision.RiskLow
	switch {
	case t == decision.TypeLifeLevel:
		risk = decision.RiskHigh
	case ratio > emotionHijackThreshold:
		risk = decision.RiskHigh
	case t == decision.TypeImportant:
		risk = decision.RiskMedium
	}

	var actions []string
	if t == decision.TypeLifeLevel {
		actions = append(actions, c.tables.LifeLevelActions...)
	}

	return ratio, risk, actions
}

// Probe scans a raw description against the keyword tables and returns a
// risk assessment independent of any stored record. personaText, when
// non-empty, is scanned for marker phrases to attach canonical advisories.
func (c *Classifier) Probe(description, personaText string) *Assessment {
	a := &Assessment{
		Description:       description,
		DetectedKeywords:  []string{},
		TypeSuggestion:    decision.TypeDaily,
		EmotionFactors:    []string{},
		RiskLevel:         decision.RiskLow,
		Warnings:          []string{},
		RequiredActions:   []string{},
		PersonaReferences: []string{},
	}

	for _, kw := range c.tables.HighRiskKeywords {
		if strings.Contains(description, kw) {
			a.DetectedKeywords = append(a.DetectedKeywords, kw)
			a.TypeSuggestion = decision.TypeLifeLevel
		}
	}

	for _, kw := range c.tables.EmotionKeywords {
		if strings.Contains(description, kw) {
			a.EmotionFactors = append(a.EmotionFactors, kw)
		}
	}
	if len(a.EmotionFactors) > 0 {
		a.EmotionRatio = math.Min(float64(len(a.EmotionFactors))*probedFactorWeight, 1.0)
	}

	switch {
	case a.TypeSuggestion == decision.TypeLifeLevel:
		a.RiskLevel = decision.RiskHigh
	case a.EmotionRatio > emotionHijackThreshold:
		a.RiskLevel = decision.RiskHigh
		a.TypeSuggestion = decision.TypeImportant
	case len(a.DetectedKeywords) > 0:
		a.RiskLevel = decision.RiskMedium
		a.TypeSuggestion = decision.TypeImportant
	}

	if a.RiskLevel == decision.RiskHigh {
		a.Warnings = append(a.Warnings, "检测到高风险决策")
		if a.EmotionRatio > emotionHijackThreshold {
			a.Warnings = append(a.Warnings,
				fmt.Sprintf("情感因素占比%.0f%%，可能劫持理性", a.EmotionRatio*100))
		}
		a.Warnings = append(a.Warnings, "建议执行7天冷静期")
	}

	if a.TypeSuggestion == decision.TypeLifeLevel {
		a.RequiredActions = append(a.RequiredActions, c.tables.LifeLevelActions...)
	}

	if personaText != "" {
		for _, adv := range c.tables.Advisories {
			if matchesAll(personaText, adv.Markers) {
				a.PersonaReferences = append(a.PersonaReferences, adv.Sentence)
			}
		}
	}

	return a
}

// ProbeFile is Probe with the persona text read from a file. An unreadable
// file degrades to an assessment without advisories, flagged as degraded;
// it never fails the probe.
func (c *Classifier) ProbeFile(description, personaPath string) *Assessment {
	if personaPath == "" {
		return c.Probe(description, "")
	}

	content, err := os.ReadFile(personaPath)
	if err != nil {
		a := c.Probe(description, "")
		a.PersonaDegraded = true
		return a
	}

	return c.Probe(description, string(content))
}

// matchesAll reports whether every marker appears in the text.
func matchesAll(text string, markers []string) bool {
	for _, m := range markers {
		if !strings.Contains(text, m) {
			return false
		}
	}
	return len(markers) > 0
}

// Ensure Classifier satisfies the store's scoring contract.
var _ decision.Scorer = (*Classifier)(nil)
