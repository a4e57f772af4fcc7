package utils

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/RecoveryAshes/JsSecretScan/internal/models"
)

// categoryPriority 类别重要性级别 (CSV报告用)
var categoryPriority = map[string]string{
	"secrets":         "Critical",
	"jwt_tokens":      "Critical",
	"database_urls":   "Critical",
	"api_endpoints":   "High",
	"sensitive_paths": "High",
	"cloud_config":    "High",
	"webhooks":        "High",
	"emails":          "Medium",
	"phones":          "Medium",
	"ip_addresses":    "Medium",
	"id_cards":        "Medium",
	"urls_domains":    "Low",
	"crypto_info":     "Low",
}

// priorityLabel 类别的中文标签,按重要性排序 (TXT报告用)
type priorityLabel struct {
	category string
	label    string
}

var priorityLabels = []priorityLabel{
	{"secrets", "🔑 密钥信息"},
	{"jwt_tokens", "🎫 JWT令牌"},
	{"database_urls", "🗄️ 数据库连接"},
	{"cloud_config", "☁️ 云服务配置"},
	{"webhooks", "🔗 Webhook地址"},
	{"api_endpoints", "🔗 API端点"},
	{"sensitive_paths", "⚠️ 敏感路径"},
	{"emails", "📧 邮箱地址"},
	{"phones", "📱 手机号码"},
	{"ip_addresses", "🌐 IP地址"},
	{"urls_domains", "🔗 域名URL"},
	{"id_cards", "🆔 身份证号"},
	{"crypto_info", "🔐 加密信息"},
}

// Reporter 扫描报告生成器
// 将完成的扫描结果写出为JSON/CSV/TXT报告文件
type Reporter struct {
	outputDir string
}

// NewReporter 创建报告生成器
func NewReporter(outputDir string) *Reporter {
	if outputDir == "" {
		outputDir = "output"
	}
	return &Reporter{outputDir: outputDir}
}

// Write 按格式写出报告
// format: json / csv / txt / all
// 返回写出的文件路径列表
func (r *Reporter) Write(result *models.ScanResult, format string) ([]string, error) {
	if result == nil {
		return nil, fmt.Errorf("扫描结果为空")
	}
	if err := os.MkdirAll(r.outputDir, 0755); err != nil {
		return nil, fmt.Errorf("创建输出目录失败: %w", err)
	}

	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = "all"
	}

	var formats []string
	switch format {
	case "all":
		formats = []string{"json", "csv", "txt"}
	case "json", "csv", "txt":
		formats = []string{format}
	default:
		return nil, fmt.Errorf("不支持的报告格式: %s", format)
	}

	timestamp := time.Now().Format("20060102_150405")
	written := make([]string, 0, len(formats))

	for _, f := range formats {
		path := filepath.Join(r.outputDir, r.filename(result.Domain, timestamp, f))

		var err error
		switch f {
		case "json":
			err = r.writeJSON(result, path)
		case "csv":
			err = r.writeCSV(result, path)
		case "txt":
			err = r.writeTXT(result, path)
		}
		if err != nil {
			return written, fmt.Errorf("写出%s报告失败: %w", f, err)
		}
		written = append(written, path)
	}

	Infof("✅ 报告已生成: %s", strings.Join(written, ", "))
	return written, nil
}

// filename 生成报告文件名
func (r *Reporter) filename(domain, timestamp, ext string) string {
	// 域名中的路径分隔符不能进入文件名
	safe := strings.ReplaceAll(domain, "/", "_")
	safe = strings.ReplaceAll(safe, ":", "_")
	return fmt.Sprintf("%s_scan_results_%s.%s", safe, timestamp, ext)
}

// writeJSON 写出JSON报告 (scan_info/findings/summary)
func (r *Reporter) writeJSON(result *models.ScanResult, path string) error {
	report := models.BuildScanReport(result)
	data, err := report.ToJSON()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// writeCSV 写出CSV报告
// 列: 类别, 信息内容, 重要性级别, 扫描时间, 域名
func (r *Reporter) writeCSV(result *models.ScanResult, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"类别", "信息内容", "重要性级别", "扫描时间", "域名"}); err != nil {
		return err
	}

	// 按固定类别顺序输出,保证报告稳定可比
	for _, pl := range priorityLabels {
		priority, ok := categoryPriority[pl.category]
		if !ok {
			priority = "Medium"
		}
		for _, finding := range result.Findings[pl.category] {
			row := []string{pl.category, finding, priority, result.ScanTime, result.Domain}
			if err := writer.Write(row); err != nil {
				return err
			}
		}
	}

	writer.Flush()
	return writer.Error()
}

// writeTXT 写出可读文本报告
func (r *Reporter) writeTXT(result *models.ScanResult, path string) error {
	var b strings.Builder

	b.WriteString("JsSecretScan 扫描报告\n")
	b.WriteString(strings.Repeat("=", 50) + "\n\n")
	fmt.Fprintf(&b, "扫描时间: %s\n", result.ScanTime)
	fmt.Fprintf(&b, "目标域名: %s\n", result.Domain)
	fmt.Fprintf(&b, "JS资产数量: %d\n", result.AssetCount)
	fmt.Fprintf(&b, "执行时间: %.2f 秒\n", result.ExecutionTime)
	fmt.Fprintf(&b, "发现敏感信息: %d 个\n\n", result.Findings.Total())

	// 按重要性排序显示
	for _, pl := range priorityLabels {
		findings := result.Findings[pl.category]
		if len(findings) == 0 {
			continue
		}
		fmt.Fprintf(&b, "%s (%d 个):\n", pl.label, len(findings))
		for i, finding := range findings {
			fmt.Fprintf(&b, "  %d. %s\n", i+1, finding)
		}
		b.WriteString("\n")
	}

	return os.WriteFile(path, []byte(b.String()), 0644)
}
