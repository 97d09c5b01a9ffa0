package classifier

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/decisiond/internal/decision"
)

func TestScore_RatioFormula(t *testing.T) {
	c := New(Tables{})

	tests := []struct {
		name    string
		factors []string
		want    float64
	}{
		{"no factors", nil, 0},
		{"one factor", []string{"应该"}, 0.2},
		{"two factors", []string{"应该", "必须"}, 0.4},
		{"three factors", []string{"a", "b", "c"}, 0.6},
		{"five factors caps at one", []string{"a", "b", "c", "d", "e"}, 1.0},
		{"six factors still capped", []string{"a", "b", "c", "d", "e", "f"}, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ratio, _, _ := c.Score(decision.TypeDaily, tt.factors)
			assert.InDelta(t, tt.want, ratio, 1e-9)
		})
	}
}

func TestScore_RiskResolution(t *testing.T) {
	c := New(Tables{})

	tests := []struct {
		name    string
		typ     decision.Type
		factors []string
		want    decision.RiskLevel
	}{
		{"life level is always high", decision.TypeLifeLevel, nil, decision.RiskHigh},
		{"emotion dominated is high", decision.TypeDaily, []string{"a", "b", "c"}, decision.RiskHigh},
		{"important is medium", decision.TypeImportant, nil, decision.RiskMedium},
		{"important with two factors stays medium", decision.TypeImportant, []string{"a", "b"}, decision.RiskMedium},
		{"daily is low", decision.TypeDaily, nil, decision.RiskLow},
		{"ratio exactly half stays low", decision.TypeDaily, []string{"a", "b"}, decision.RiskLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, risk, _ := c.Score(tt.typ, tt.factors)
			assert.Equal(t, tt.want, risk)
		})
	}
}

func TestScore_ActionsOnlyForLifeLevel(t *testing.T) {
	c := New(Tables{})

	_, _, actions := c.Score(decision.TypeLifeLevel, nil)
	assert.Equal(t, DefaultTables().LifeLevelActions, actions)

	_, _, actions = c.Score(decision.TypeImportant, nil)
	assert.Empty(t, actions)

	_, _, actions = c.Score(decision.TypeDaily, []string{"a", "b", "c"})
	assert.Empty(t, actions)
}

func TestProbe_HighRiskKeyword(t *testing.T) {
	c := New(Tables{})

	a := c.Probe("我要结婚了", "")

	assert.Contains(t, a.DetectedKeywords, "结婚")
	assert.Equal(t, decision.TypeLifeLevel, a.TypeSuggestion)
	assert.Equal(t, decision.RiskHigh, a.RiskLevel)
	assert.Contains(t, a.Warnings, "检测到高风险决策")
	assert.Contains(t, a.Warnings, "建议执行7天冷静期")
	assert.Equal(t, DefaultTables().LifeLevelActions, a.RequiredActions)
}

func TestProbe_EmotionDominated(t *testing.T) {
	c := New(Tables{})

	// Three emotion keywords, no high-risk keywords: ratio 0.75 > 0.5.
	a := c.Probe("为了父母，为了家人，我必须这么做", "")

	assert.Empty(t, a.DetectedKeywords)
	assert.Len(t, a.EmotionFactors, 3)
	assert.InDelta(t, 0.75, a.EmotionRatio, 1e-9)
	assert.Equal(t, decision.TypeImportant, a.TypeSuggestion)
	assert.Equal(t, decision.RiskHigh, a.RiskLevel)
	assert.Contains(t, a.Warnings, "情感因素占比75%，可能劫持理性")
	assert.Empty(t, a.RequiredActions)
}

func TestProbe_Benign(t *testing.T) {
	c := New(Tables{})

	a := c.Probe("今天学什么", "")

	assert.Empty(t, a.DetectedKeywords)
	assert.Empty(t, a.EmotionFactors)
	assert.Zero(t, a.EmotionRatio)
	assert.Equal(t, decision.TypeDaily, a.TypeSuggestion)
	assert.Equal(t, decision.RiskLow, a.RiskLevel)
	assert.Empty(t, a.Warnings)
	assert.Empty(t, a.RequiredActions)
}

func TestProbe_KeywordAndEmotionCombined(t *testing.T) {
	c := New(Tables{})

	a := c.Probe("为了父母我应该买房", "")

	assert.Contains(t, a.DetectedKeywords, "买房")
	assert.Equal(t, decision.TypeLifeLevel, a.TypeSuggestion)
	assert.Equal(t, decision.RiskHigh, a.RiskLevel)
	assert.InDelta(t, 0.5, a.EmotionRatio, 1e-9)
	// Ratio at exactly 0.5 does not add the hijack warning.
	assert.Len(t, a.Warnings, 2)
}

func TestProbe_PersonaAdvisories(t *testing.T) {
	c := New(Tables{})

	persona := "简历：战略规划14年。盖洛普优势：责任 排名第3。"
	a := c.Probe("我要创业", persona)

	require.Len(t, a.PersonaReferences, 2)
	assert.Contains(t, a.PersonaReferences[0], "战略规划14年")
	assert.Contains(t, a.PersonaReferences[1], "责任")
}

func TestProbe_PersonaAdvisoriesRequireAllMarkers(t *testing.T) {
	c := New(Tables{})

	// "盖洛普" without "责任" must not match the two-marker advisory.
	a := c.Probe("我要创业", "盖洛普测评结果")
	assert.Empty(t, a.PersonaReferences)
}

func TestProbeFile_MissingFileDegrades(t *testing.T) {
	c := New(Tables{})

	a := c.ProbeFile("我要结婚", filepath.Join(t.TempDir(), "missing.md"))

	assert.True(t, a.PersonaDegraded)
	assert.Empty(t, a.PersonaReferences)
	// Keyword detection still runs.
	assert.Equal(t, decision.RiskHigh, a.RiskLevel)
}

func TestProbeFile_ReadsPersona(t *testing.T) {
	c := New(Tables{})

	path := filepath.Join(t.TempDir(), "persona.md")
	require.NoError(t, os.WriteFile(path, []byte("战略规划14年经验"), 0600))

	a := c.ProbeFile("我要投资", path)

	assert.False(t, a.PersonaDegraded)
	require.Len(t, a.PersonaReferences, 1)
}

func TestProbeFile_EmptyPathSkipsPersona(t *testing.T) {
	c := New(Tables{})

	a := c.ProbeFile("我要投资", "")
	assert.False(t, a.PersonaDegraded)
	assert.Empty(t, a.PersonaReferences)
}

func TestTables_WithDefaults(t *testing.T) {
	custom := Tables{
		HighRiskKeywords: []string{"quit"},
	}.withDefaults()

	assert.Equal(t, []string{"quit"}, custom.HighRiskKeywords)
	assert.Equal(t, DefaultTables().EmotionKeywords, custom.EmotionKeywords)
	assert.Equal(t, DefaultTables().LifeLevelActions, custom.LifeLevelActions)
	assert.Equal(t, "验证", custom.ValidationMarker)
	assert.Len(t, custom.Advisories, 3)
}

func TestNew_CustomTablesDriveDetection(t *testing.T) {
	c := New(Tables{HighRiskKeywords: []string{"quit job"}})

	a := c.Probe("I will quit job tomorrow", "")
	assert.Equal(t, decision.TypeLifeLevel, a.TypeSuggestion)

	// The default keyword set is replaced, not merged.
	a = c.Probe("我要结婚", "")
	assert.Equal(t, decision.TypeDaily, a.TypeSuggestion)
}
