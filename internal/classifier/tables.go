package classifier

// Tables holds the keyword and advisory lookup data driving classification.
// All fields can be overridden from configuration; empty fields fall back to
// the built-in defaults.
type Tables struct {
	// HighRiskKeywords mark a description as a life-level candidate.
	HighRiskKeywords []string `koanf:"high_risk_keywords"`

	// EmotionKeywords are trigger phrases counted as emotional factors.
	EmotionKeywords []string `koanf:"emotion_keywords"`

	// LifeLevelActions is the mandatory checklist for life-level decisions.
	LifeLevelActions []string `koanf:"life_level_actions"`

	// ValidationMarker is the term whose absence from a rational analysis
	// flags a decision as unvalidated in pattern analysis.
	ValidationMarker string `koanf:"validation_marker"`

	// Advisories map persona marker phrases to canonical advisory sentences.
	Advisories []Advisory `koanf:"advisories"`
}

// Advisory emits Sentence when every marker phrase appears in the persona
// reference text.
type Advisory struct {
	Markers  []string `koanf:"markers"`
	Sentence string   `koanf:"sentence"`
}

// DefaultTables returns the built-in lookup data.
func DefaultTables() Tables {
	return Tables{
		HighRiskKeywords: []string{"买房", "结婚", "生子", "投资", "换工作", "创业"},
		EmotionKeywords:  []string{"为了父母", "为了家人", "结婚需求", "应该", "必须"},
		LifeLevelActions: []string{
			"列出3个不做的理由",
			"最坏情况推演",
			"咨询3个不同立场的人",
			"7天冷静期",
			"检查'责任'主题",
		},
		ValidationMarker: "验证",
		Advisories: []Advisory{
			{
				Markers:  []string{"战略规划14年"},
				Sentence: "你简历上写着战略规划14年，这次有做战略分析吗？",
			},
			{
				Markers:  []string{"盖洛普", "责任"},
				Sentence: "你盖洛普'责任'主题排名第3，是不是又在对他人的期待负责？",
			},
			{
				Markers:  []string{"情感劫持"},
				Sentence: "根据你的画像，纯理性判断准确率>2/3，情感介入往往失败。这次是什么情况？",
			},
		},
	}
}

// withDefaults fills empty table fields from DefaultTables.
func (t Tables) withDefaults() Tables {
	defaults := DefaultTables()
	if len(t.HighRiskKeywords) == 0 {
		t.HighRiskKeywords = defaults.HighRiskKeywords
	}
	if len(t.EmotionKeywords) == 0 {
		t.EmotionKeywords = defaults.EmotionKeywords
	}
	if len(t.LifeLevelActions) == 0 {
		t.LifeLevelActions = defaults.LifeLevelActions
	}
	if t.ValidationMarker == "" {
		t.ValidationMarker = defaults.ValidationMarker
	}
	if len(t.Advisories) == 0 {
		t.Advisories = defaults.Advisories
	}
	return t
}
