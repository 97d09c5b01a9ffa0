package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/fyrsmithlabs/decisiond/internal/analysis"
	"github.com/fyrsmithlabs/decisiond/internal/decision"
	"github.com/fyrsmithlabs/decisiond/internal/persona"
)

var typeLabels = map[decision.Type]string{
	decision.TypeLifeLevel: "生命级",
	decision.TypeImportant: "重要",
	decision.TypeDaily:     "日常",
}

var riskEmoji = map[decision.RiskLevel]string{
	decision.RiskHigh:   "🔴",
	decision.RiskMedium: "🟡",
	decision.RiskLow:    "🟢",
}

// renderWeekly produces the markdown document with the fixed section order:
// header, per-decision detail, behavioral patterns, metrics table, persona
// comparison, recommendations.
func renderWeekly(week int, start, end time.Time, records []*decision.Decision, metrics *analysis.Metrics, personal *analysis.PersonalMetrics, meta *persona.Metadata) string {
	var b strings.Builder

	// Header: range + counts by type.
	fmt.Fprintf(&b, "# 成长周报（第%d周：%s 至 %s）\n\n",
		week, start.Format("2006-01-02"), end.AddDate(0, 0, -1).Format("2006-01-02"))
	b.WriteString("## 📊 决策追踪\n\n")
	fmt.Fprintf(&b, "- **本周记录决策**：%d 个\n", len(records))
	fmt.Fprintf(&b, "- **生命级决策**：%d 个\n", metrics.ByType[decision.TypeLifeLevel])
	fmt.Fprintf(&b, "- **重要决策**：%d 个\n", metrics.ByType[decision.TypeImportant])
	fmt.Fprintf(&b, "- **日常决策**：%d 个\n\n", metrics.ByType[decision.TypeDaily])

	// Per-decision detail.
	if len(records) > 0 {
		b.WriteString("### 本周决策详情\n\n")
		for i, d := range records {
			fmt.Fprintf(&b, "#### %d. %s\n", i+1, d.Description)
			fmt.Fprintf(&b, "- **ID**：`%s`\n", d.ID)
			fmt.Fprintf(&b, "- **时间**：%s\n", d.CreatedAt.Format("2006-01-02 15:04"))
			fmt.Fprintf(&b, "- **类型**：%s | **风险**：%s %s\n",
				typeLabel(d.Type), riskEmoji[d.RiskLevel], strings.ToUpper(string(d.RiskLevel)))
			fmt.Fprintf(&b, "- **情感因素**：%s\n", emotionLine(d))
			fmt.Fprintf(&b, "- **状态**：%s\n\n", d.Outcome)
		}
	}

	// Behavioral patterns.
	b.WriteString("## 🔍 行为模式分析\n\n")
	hasTriggers := len(personal.TriggerMatches) > 0
	hasBlindSpots := len(personal.BlindSpotViolations) > 0

	if hasTriggers {
		b.WriteString("**触发的关键词/模式**：\n")
		for _, tc := range sortedCounts(personal.TriggerMatches) {
			fmt.Fprintf(&b, "- \"%s\": %d 次\n", tc.term, tc.count)
		}
		b.WriteString("\n")
	}
	if hasBlindSpots {
		b.WriteString("**⚠️ 盲区触发**：\n")
		for _, tc := range sortedCounts(personal.BlindSpotViolations) {
			fmt.Fprintf(&b, "- %s: %d 次\n", tc.term, tc.count)
		}
		b.WriteString("\n")
	}
	if !hasTriggers && !hasBlindSpots {
		b.WriteString("✅ 本周无明显行为模式重复\n\n")
	}

	// Metrics table.
	b.WriteString("## 📈 指标追踪\n\n")
	b.WriteString("| 指标 | 本周 | 说明 |\n")
	b.WriteString("|------|------|------|\n")
	fmt.Fprintf(&b, "| 决策总数 | %d | 本周记录的决策数量 |\n", metrics.TotalDecisions)
	fmt.Fprintf(&b, "| 高情感决策 | %d (%.0f%%) | 情感占比>50%%的决策 |\n",
		metrics.HighEmotionCount, metrics.HighEmotionRate*100)
	fmt.Fprintf(&b, "| 平均情感占比 | %.0f%% | 所有决策的平均情感因素 |\n\n",
		metrics.AvgEmotionRatio*100)

	// Persona comparison.
	b.WriteString("## 🎯 画像对比\n\n")
	if len(meta.BehavioralPatterns) > 0 {
		b.WriteString("**对比画像中的行为模式**：\n")
		for i, p := range topN(meta.BehavioralPatterns, 3) {
			fmt.Fprintf(&b, "%d. %s\n", i+1, p)
		}
		b.WriteString("\n")
	}
	if len(meta.BlindSpots) > 0 {
		b.WriteString("**对比画像中的盲区**：\n")
		for i, p := range topN(meta.BlindSpots, 3) {
			fmt.Fprintf(&b, "%d. %s\n", i+1, p)
		}
		b.WriteString("\n")
	}

	// Recommendations by rule triggers.
	b.WriteString("## 💡 下周建议\n\n")
	var recs []string
	if metrics.HighEmotionCount > 0 {
		recs = append(recs, "加强冷静期执行：重大决策前至少冷静2-3天")
	}
	if hasTriggers {
		top := sortedCounts(personal.TriggerMatches)[0]
		recs = append(recs, fmt.Sprintf("注意触发词：\"%s\" 出现 %d 次，决策前先做风险评估", top.term, top.count))
	}
	if metrics.ByRisk[decision.RiskHigh] > 0 {
		recs = append(recs, "高风险决策管理：确保完成所有必要行动（列出反对理由、咨询他人、最坏情况推演）")
	}
	if len(recs) == 0 {
		b.WriteString("继续保持理性决策的习惯！\n")
	} else {
		for i, r := range recs {
			fmt.Fprintf(&b, "%d. %s\n", i+1, r)
		}
	}

	b.WriteString("\n---\n\n")
	fmt.Fprintf(&b, "**生成时间**：%s\n", time.Now().Format("2006-01-02 15:04"))

	return b.String()
}

func typeLabel(t decision.Type) string {
	if label, ok := typeLabels[t]; ok {
		return label
	}
	return string(t)
}

// emotionLine formats the emotion percentage with listed factors, or 无
// when no factors were recorded.
func emotionLine(d *decision.Decision) string {
	if len(d.EmotionalFactors) == 0 {
		return fmt.Sprintf("%.0f%% 无", d.EmotionRatio*100)
	}
	return fmt.Sprintf("%.0f%% (%s)", d.EmotionRatio*100, strings.Join(d.EmotionalFactors, ", "))
}

type termCount struct {
	term  string
	count int
}

// sortedCounts orders terms by count descending, term ascending on ties.
func sortedCounts(m map[string]int) []termCount {
	out := make([]termCount, 0, len(m))
	for term, count := range m {
		out = append(out, termCount{term, count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].count != out[j].count {
			return out[i].count > out[j].count
		}
		return out[i].term < out[j].term
	})
	return out
}

func topN(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}
