package persona

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePersona = `# 个人画像

## 我的核心优势

- **战略思维**：擅长长期规划

### 行为模式

1. **过度承诺** 容易答应太多事情
2. **完美主义** 迟迟不发布

### 盲区

1. **情感劫持**：重大决策时情感介入
2. **责任过载**：对他人的期待负责

---

## 我的核心劣势

- **1. 执行拖延**：计划多于行动

---

## 触发规则

当我说"为了父母"时，提醒我检查情感占比。
当说"应该"时，先问是谁的期待。
当我说"为了父母"时，重复规则用于去重测试。

提到以下关键词时警惕："买房"、"结婚"、"创业"

**待改进**：缩短决策周期
需要改进：减少同时进行的决策
`

func TestExtract_BehavioralPatterns(t *testing.T) {
	m := NewExtractor().Extract(samplePersona)

	require.Len(t, m.BehavioralPatterns, 2)
	assert.Equal(t, "过度承诺", m.BehavioralPatterns[0])
	assert.Equal(t, "完美主义", m.BehavioralPatterns[1])
}

func TestExtract_BlindSpots(t *testing.T) {
	m := NewExtractor().Extract(samplePersona)

	require.Len(t, m.BlindSpots, 2)
	assert.Equal(t, "情感劫持", m.BlindSpots[0])
	assert.Equal(t, "责任过载", m.BlindSpots[1])
}

func TestExtract_Weaknesses(t *testing.T) {
	m := NewExtractor().Extract(samplePersona)

	require.Len(t, m.Weaknesses, 1)
	assert.Contains(t, m.Weaknesses[0], "执行拖延")
}

func TestExtract_TriggersDeduped(t *testing.T) {
	m := NewExtractor().Extract(samplePersona)

	// The duplicated 为了父母 rule collapses to one entry.
	require.Len(t, m.Triggers, 2)
	assert.Contains(t, m.Triggers[0], "为了父母")
	assert.Contains(t, m.Triggers[1], "应该")
}

func TestExtract_DecisionKeywords(t *testing.T) {
	m := NewExtractor().Extract(samplePersona)

	assert.Equal(t, []string{"买房", "结婚", "创业"}, m.DecisionKeywords)
}

func TestExtract_ImprovementAreas(t *testing.T) {
	m := NewExtractor().Extract(samplePersona)

	require.Len(t, m.ImprovementAreas, 2)
	assert.Equal(t, "缩短决策周期", m.ImprovementAreas[0])
	assert.Equal(t, "减少同时进行的决策", m.ImprovementAreas[1])
}

func TestExtract_EmptyText(t *testing.T) {
	m := NewExtractor().Extract("")

	assert.True(t, m.Empty())
	// Fields are empty lists, not nil, so JSON renders [] not null.
	assert.NotNil(t, m.BehavioralPatterns)
	assert.NotNil(t, m.Triggers)
}

func TestExtract_MissingSectionsSkipRules(t *testing.T) {
	m := NewExtractor().Extract("# 画像\n\n没有任何结构化段落。\n")

	assert.Empty(t, m.BehavioralPatterns)
	assert.Empty(t, m.BlindSpots)
	assert.Empty(t, m.Weaknesses)
}

func TestExtract_CustomRules(t *testing.T) {
	rules := []Rule{
		{
			Field: FieldTriggers,
			Item:  regexp.MustCompile(`trigger: (\w+)`),
			Dedup: true,
		},
	}
	e := NewExtractorWithRules(rules)

	m := e.Extract("trigger: alpha\ntrigger: beta\ntrigger: alpha\n")
	assert.Equal(t, []string{"alpha", "beta"}, m.Triggers)
}

func TestExtractFile_ReadsDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "persona.md")
	require.NoError(t, os.WriteFile(path, []byte(samplePersona), 0600))

	m, degraded := NewExtractor().ExtractFile(path)

	assert.False(t, degraded)
	assert.False(t, m.Empty())
}

func TestExtractFile_MissingFileDegrades(t *testing.T) {
	m, degraded := NewExtractor().ExtractFile(filepath.Join(t.TempDir(), "nope.md"))

	assert.True(t, degraded)
	assert.True(t, m.Empty())
}

func TestExtractFile_EmptyPathDegrades(t *testing.T) {
	m, degraded := NewExtractor().ExtractFile("")

	assert.True(t, degraded)
	assert.True(t, m.Empty())
}

func TestMetadata_Empty(t *testing.T) {
	assert.True(t, (&Metadata{}).Empty())
	assert.False(t, (&Metadata{Triggers: []string{"x"}}).Empty())
}
