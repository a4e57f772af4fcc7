package models

import (
	"encoding/json"
	"sort"
	"time"
)

// FindingSet 按类别聚合的发现集合
// 键: 类别名称 (如 "secrets")
// 值: 排序且去重后的敏感信息字符串列表
type FindingSet map[string][]string

// Merge 合并另一个发现集合(有序集合并集)
// 合并满足交换律和幂等性: 任意顺序、重复合并结果一致
func (fs FindingSet) Merge(src FindingSet) {
	for category, items := range src {
		if len(items) == 0 {
			continue
		}
		seen := make(map[string]struct{}, len(fs[category])+len(items))
		for _, v := range fs[category] {
			seen[v] = struct{}{}
		}
		for _, v := range items {
			seen[v] = struct{}{}
		}
		merged := make([]string, 0, len(seen))
		for v := range seen {
			merged = append(merged, v)
		}
		sort.Strings(merged)
		fs[category] = merged
	}
}

// Total 所有类别的发现总数
func (fs FindingSet) Total() int {
	total := 0
	for _, items := range fs {
		total += len(items)
	}
	return total
}

// Categories 含有发现的类别数
func (fs FindingSet) Categories() int {
	count := 0
	for _, items := range fs {
		if len(items) > 0 {
			count++
		}
	}
	return count
}

// HighRiskCount 高风险项数量(密钥+JWT令牌)
func (fs FindingSet) HighRiskCount() int {
	return len(fs["secrets"]) + len(fs["jwt_tokens"])
}

// AssetResult 单个JS资产的分析结果
type AssetResult struct {
	URL      string         `json:"url"`                // 资产URL
	Size     int            `json:"size"`               // 内容大小(字符)
	Findings FindingSet     `json:"findings"`           // 按类别的发现
	Collapse []CollapseStat `json:"collapse,omitempty"` // 相似合并统计
	Error    string         `json:"error,omitempty"`    // 资产级错误(不影响整体扫描)
}

// CollapsedTotal 该资产被合并移除的相似项总数
func (a *AssetResult) CollapsedTotal() int {
	total := 0
	for _, c := range a.Collapse {
		total += c.Removed
	}
	return total
}

// ScanResult 一次扫描的聚合结果
// 由编排器独占持有,合并阶段之外不可变
type ScanResult struct {
	// 目标信息
	TaskID    string `json:"task_id"`    // 关联的任务ID
	Domain    string `json:"domain"`     // 目标域名
	TargetURL string `json:"target_url"` // 实际访问的根URL

	// 发现结果
	Findings FindingSet `json:"findings"` // 按类别聚合的发现

	// 统计信息
	AssetCount int       `json:"js_files_count"` // 派发分析的JS资产数
	Stats      ScanStats `json:"stats"`          // 详细统计

	// 执行信息
	Success       bool    `json:"success"`         // 扫描是否成功
	Error         string  `json:"error,omitempty"` // 失败原因(目标级)
	ScanTime      string  `json:"scan_time"`       // 扫描开始时间(ISO格式)
	ExecutionTime float64 `json:"execution_time"`  // 执行耗时(秒)
}

// NewScanResult 创建空结果
func NewScanResult(taskID, domain string) *ScanResult {
	return &ScanResult{
		TaskID:   taskID,
		Domain:   domain,
		Findings: make(FindingSet),
		ScanTime: time.Now().Format(time.RFC3339),
	}
}

// MergeAsset 将单资产结果并入聚合结果
// 仅编排器调用,天然串行
func (r *ScanResult) MergeAsset(ar *AssetResult) {
	if ar == nil {
		return
	}
	r.Findings.Merge(ar.Findings)
	r.Stats.CollapsedItems += ar.CollapsedTotal()
	r.Stats.TotalBytes += int64(ar.Size)
}

// ToJSON 序列化为JSON
func (r *ScanResult) ToJSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// FromJSON 从JSON反序列化
func (r *ScanResult) FromJSON(data []byte) error {
	return json.Unmarshal(data, r)
}

// ScanReport 扫描报告(JSON输出格式)
type ScanReport struct {
	ScanInfo ReportInfo    `json:"scan_info"` // 扫描信息
	Findings FindingSet    `json:"findings"`  // 发现结果
	Summary  ReportSummary `json:"summary"`   // 汇总信息
}

// ReportInfo 报告头部信息
type ReportInfo struct {
	ScanTime      string  `json:"scan_time"`      // 扫描时间
	Domain        string  `json:"domain"`         // 目标域名
	JSFilesCount  int     `json:"js_files_count"` // JS资产数量
	ExecutionTime float64 `json:"execution_time"` // 执行耗时(秒)
	Success       bool    `json:"success"`        // 是否成功
}

// ReportSummary 报告汇总
type ReportSummary struct {
	TotalFindings   int `json:"total_findings"`   // 发现总数
	CategoriesFound int `json:"categories_found"` // 涉及类别数
	HighRiskItems   int `json:"high_risk_items"`  // 高风险项数量
}

// BuildScanReport 从扫描结果构建报告
func BuildScanReport(result *ScanResult) *ScanReport {
	return &ScanReport{
		ScanInfo: ReportInfo{
			ScanTime:      result.ScanTime,
			Domain:        result.Domain,
			JSFilesCount:  result.AssetCount,
			ExecutionTime: result.ExecutionTime,
			Success:       result.Success,
		},
		Findings: result.Findings,
		Summary: ReportSummary{
			TotalFindings:   result.Findings.Total(),
			CategoriesFound: result.Findings.Categories(),
			HighRiskItems:   result.Findings.HighRiskCount(),
		},
	}
}

// ToJSON 序列化为JSON
func (r *ScanReport) ToJSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}
