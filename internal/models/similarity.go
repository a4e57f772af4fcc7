package models

import "encoding/json"

// CollapseStat 单类别的相似合并统计
// 记录相似项合并前后的数量变化
type CollapseStat struct {
	// Category 类别名称
	Category string `json:"category"`

	// Before 合并前数量
	Before int `json:"before"`

	// After 合并后数量
	After int `json:"after"`

	// Removed 被移除的相似项数量
	Removed int `json:"removed"`
}

// CollapseSummary 整次扫描的相似合并汇总
type CollapseSummary struct {
	// PerCategory 按类别的统计
	PerCategory []CollapseStat `json:"per_category"`

	// TotalRemoved 移除总数
	TotalRemoved int `json:"total_removed"`
}

// Add 累加一条类别统计
func (s *CollapseSummary) Add(stat CollapseStat) {
	s.PerCategory = append(s.PerCategory, stat)
	s.TotalRemoved += stat.Removed
}

// ToJSON 序列化为JSON
func (s *CollapseSummary) ToJSON() ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}
