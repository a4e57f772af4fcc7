package analyzer

import (
	"sort"

	"github.com/RecoveryAshes/JsSecretScan/internal/models"
	"github.com/RecoveryAshes/JsSecretScan/internal/rules"
)

// Analyzer 单资产分析管线
// 规范化 → 规则匹配 → 质量过滤 → 类别内去重排序 → 相似合并。
// 无内部状态,可被多个worker并发使用。
type Analyzer struct {
	corpus *rules.Corpus
	filter *QualityFilter
}

// New 创建分析器
func New(corpus *rules.Corpus, minEntropy float64) *Analyzer {
	return &Analyzer{
		corpus: corpus,
		filter: NewQualityFilter(minEntropy),
	}
}

// AnalyzeContent 分析一个资产的脚本内容
// 返回的AssetResult只含本资产的发现,由编排器负责合并
func (a *Analyzer) AnalyzeContent(assetURL, content string) *models.AssetResult {
	result := &models.AssetResult{
		URL:      assetURL,
		Size:     len(content),
		Findings: make(models.FindingSet),
	}

	normalized := Normalize(content)
	candidates := ExtractCandidates(a.corpus, normalized)

	// 类别内按值去重
	accepted := make(map[string]map[string]struct{})
	for i := range candidates {
		c := &candidates[i]
		if !a.filter.Accept(c) {
			continue
		}
		if accepted[c.Category] == nil {
			accepted[c.Category] = make(map[string]struct{})
		}
		accepted[c.Category][c.Value] = struct{}{}
	}

	// 排序后做相似合并,保证结果确定性
	for _, category := range a.corpus.Categories() {
		values := accepted[category]
		if len(values) == 0 {
			continue
		}
		items := make([]string, 0, len(values))
		for v := range values {
			items = append(items, v)
		}
		sort.Strings(items)

		collapsed, stat := Collapse(category, items)
		if len(collapsed) == 0 {
			continue
		}
		result.Findings[category] = collapsed
		if stat.Removed > 0 {
			result.Collapse = append(result.Collapse, stat)
		}
	}

	return result
}
