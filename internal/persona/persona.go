// Package persona extracts structured metadata from free-text persona
// documents.
//
// Extraction is best-effort regex matching driven by a declarative rule
// schema: each rule names a target field, an optional section marker that
// narrows the scope, and an item pattern. Absent sections yield empty lists;
// an unreadable document yields empty metadata with a degraded flag. Nothing
// here ever fails the calling pipeline.
package persona

import (
	"os"
	"regexp"
	"strings"
)

// Metadata is the structured, best-effort extraction result. All fields
// degrade to empty lists.
type Metadata struct {
	BehavioralPatterns []string `json:"behavioral_patterns"`
	BlindSpots         []string `json:"blind_spots"`
	Weaknesses         []string `json:"weaknesses"`
	DecisionKeywords   []string `json:"decision_keywords"`
	Triggers           []string `json:"triggers"`
	ImprovementAreas   []string `json:"improvement_areas"`
}

// Empty reports whether no field was extracted.
func (m *Metadata) Empty() bool {
	return len(m.BehavioralPatterns) == 0 &&
		len(m.BlindSpots) == 0 &&
		len(m.Weaknesses) == 0 &&
		len(m.DecisionKeywords) == 0 &&
		len(m.Triggers) == 0 &&
		len(m.ImprovementAreas) == 0
}

// Field names a Metadata slice a rule appends into.
type Field string

const (
	FieldBehavioralPatterns Field = "behavioral_patterns"
	FieldBlindSpots         Field = "blind_spots"
	FieldWeaknesses         Field = "weaknesses"
	FieldDecisionKeywords   Field = "decision_keywords"
	FieldTriggers           Field = "triggers"
	FieldImprovementAreas   Field = "improvement_areas"
)

// Rule extracts items for one field. When Section is non-nil, its first
// capture group scopes the text the Item pattern runs over; a section that
// does not match skips the rule. Item's first capture group is the extracted
// value. Multiple rules may target the same field; their results append.
type Rule struct {
	Field   Field
	Section *regexp.Regexp
	Item    *regexp.Regexp
	Dedup   bool
}

// Extractor applies an ordered rule set to persona text.
type Extractor struct {
	rules []Rule
}

// NewExtractor creates an extractor with the built-in rules.
func NewExtractor() *Extractor {
	return &Extractor{rules: defaultRules()}
}

// NewExtractorWithRules creates an extractor with a custom rule set.
func NewExtractorWithRules(rules []Rule) *Extractor {
	return &Extractor{rules: rules}
}

// defaultRules targets the section layout of generated persona documents.
func defaultRules() []Rule {
	return []Rule{
		{
			Field:   FieldBehavioralPatterns,
			Section: regexp.MustCompile(`(?s)### 行为模式\n+(.*?)(?:\n###|\n##|$)`),
			Item:    regexp.MustCompile(`\*\*([\d.\s]*\S.*?)\*\*`),
		},
		{
			Field:   FieldBlindSpots,
			Section: regexp.MustCompile(`(?s)### 盲区\n+(.*?)(?:\n---|\n##|$)`),
			Item:    regexp.MustCompile(`\d+\.\s+\*\*(.+?)\*\*`),
		},
		{
			Field:   FieldWeaknesses,
			Section: regexp.MustCompile(`(?s)## 我的核心劣势\n+(.*?)(?:\n---|\n##|$)`),
			Item:    regexp.MustCompile(`\*\*([\d.\s]*\S.+?)\*\*`),
		},
		{
			Field: FieldTriggers,
			Item:  regexp.MustCompile(`当(?:我)?说[“"]?([^”"\n]+)`),
			Dedup: true,
		},
		{
			Field:   FieldDecisionKeywords,
			Section: regexp.MustCompile(`提到.*?关键词.*?[:：]\s*([^\n]+)`),
			Item:    regexp.MustCompile(`[“"]([\p{Han}A-Za-z]+)[”"]`),
		},
		{
			Field: FieldImprovementAreas,
			Item:  regexp.MustCompile(`\*\*待改进\*\*[:：]\s*([^\n]+)`),
		},
		{
			Field: FieldImprovementAreas,
			Item:  regexp.MustCompile(`需要改进[:：]\s*([^\n]+)`),
		},
		{
			Field: FieldImprovementAreas,
			Item:  regexp.MustCompile(`改进建议[:：]\s*([^\n]+)`),
		},
	}
}

// Extract applies the rule set to the given text.
func (e *Extractor) Extract(content string) *Metadata {
	m := &Metadata{
		BehavioralPatterns: []string{},
		BlindSpots:         []string{},
		Weaknesses:         []string{},
		DecisionKeywords:   []string{},
		Triggers:           []string{},
		ImprovementAreas:   []string{},
	}

	for _, rule := range e.rules {
		scope := content
		if rule.Section != nil {
			sm := rule.Section.FindStringSubmatch(content)
			if sm == nil {
				continue
			}
			scope = sm[1]
		}

		var items []string
		for _, im := range rule.Item.FindAllStringSubmatch(scope, -1) {
			if v := strings.TrimSpace(im[1]); v != "" {
				items = append(items, v)
			}
		}
		if rule.Dedup {
			items = dedup(items)
		}

		m.assign(rule.Field, items)
	}

	return m
}

// ExtractFile reads and extracts the persona document at path. A read
// failure returns empty metadata with degraded=true; extraction itself
// cannot fail.
func (e *Extractor) ExtractFile(path string) (m *Metadata, degraded bool) {
	if path == "" {
		return e.Extract(""), true
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return e.Extract(""), true
	}

	return e.Extract(string(content)), false
}

// assign appends items to the field's slice.
func (m *Metadata) assign(f Field, items []string) {
	switch f {
	case FieldBehavioralPatterns:
		m.BehavioralPatterns = append(m.BehavioralPatterns, items...)
	case FieldBlindSpots:
		m.BlindSpots = append(m.BlindSpots, items...)
	case FieldWeaknesses:
		m.Weaknesses = append(m.Weaknesses, items...)
	case FieldDecisionKeywords:
		m.DecisionKeywords = append(m.DecisionKeywords, items...)
	case FieldTriggers:
		m.Triggers = append(m.Triggers, items...)
	case FieldImprovementAreas:
		m.ImprovementAreas = append(m.ImprovementAreas, items...)
	}
}

// dedup removes duplicates preserving first-seen order.
func dedup(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := items[:0]
	for _, it := range items {
		if _, ok := seen[it]; ok {
			continue
		}
		seen[it] = struct{}{}
		out = append(out, it)
	}
	return out
}
