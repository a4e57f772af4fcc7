package analyzer

import (
	"strings"

	"github.com/RecoveryAshes/JsSecretScan/internal/models"
	"github.com/RecoveryAshes/JsSecretScan/internal/rules"
)

// Collapse 相似项合并
// 输入必须是已去重且按字典序排序的同类别发现列表;
// 按顺序处理,每个相似类保留第一个代表项。幂等:
// 对已合并结果再次合并,输出不变。
func Collapse(category string, items []string) ([]string, models.CollapseStat) {
	stat := models.CollapseStat{
		Category: category,
		Before:   len(items),
	}

	if len(items) <= 1 {
		stat.After = len(items)
		return items, stat
	}

	kept := make([]string, 0, len(items))
	for _, item := range items {
		similar := false
		for _, existing := range kept {
			if itemsAreSimilar(category, item, existing) {
				similar = true
				break
			}
		}
		if !similar {
			kept = append(kept, item)
		}
	}

	stat.After = len(kept)
	stat.Removed = stat.Before - stat.After
	return kept, stat
}

// itemsAreSimilar 两项是否属于同一相似类
// 路径/URL类别: 问号前内容相同即相似(同一端点的不同查询参数);
// 其他类别: 相等,或较短串是较长串的子串(同一密钥的前后缀变体)。
func itemsAreSimilar(category, a, b string) bool {
	if rules.PathCategories[category] {
		baseA, _, _ := strings.Cut(a, "?")
		baseB, _, _ := strings.Cut(b, "?")
		return baseA == baseB
	}

	if a == b {
		return true
	}
	if len(a) > len(b) {
		return strings.Contains(a, b)
	}
	return strings.Contains(b, a)
}
