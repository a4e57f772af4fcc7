package analyzer

import (
	"strings"

	"github.com/RecoveryAshes/JsSecretScan/internal/rules"
)

// Candidate 一条原始匹配结果
// 携带产出它的规则与类别,未经质量过滤
type Candidate struct {
	// Value 清理后的匹配字符串(去除首尾引号和空白)
	Value string

	// Rule 产出该匹配的规则
	Rule *rules.PatternRule

	// Category 规则所属类别
	Category string
}

// ExtractCandidates 对规范化文本执行全量规则匹配
// 按类别固定顺序、类别内规则顺序执行;取第一个非空捕获组,
// 去除首尾空白与引号。单条规则执行异常仅跳过该规则。
func ExtractCandidates(corpus *rules.Corpus, content string) []Candidate {
	var candidates []Candidate

	for _, category := range corpus.Categories() {
		for _, rule := range corpus.Rules(category) {
			matches := runRule(rule, content)
			for _, groups := range matches {
				value := firstNonEmptyGroup(groups)
				if value == "" {
					continue
				}
				value = strings.Trim(strings.TrimSpace(value), `'"`)
				if value == "" {
					continue
				}
				candidates = append(candidates, Candidate{
					Value:    value,
					Rule:     rule,
					Category: category,
				})
			}
		}
	}

	return candidates
}

// runRule 执行单条规则,异常输入不会中断整体匹配
func runRule(rule *rules.PatternRule, content string) (matches [][]string) {
	defer func() {
		if r := recover(); r != nil {
			matches = nil
		}
	}()
	return rule.FindAllSubmatch(content)
}

// firstNonEmptyGroup 取第一个非空捕获组
// 无捕获组的规则退化为整体匹配
func firstNonEmptyGroup(groups []string) string {
	if len(groups) > 1 {
		for _, g := range groups[1:] {
			if g != "" {
				return g
			}
		}
		return ""
	}
	if len(groups) == 1 {
		return groups[0]
	}
	return ""
}
