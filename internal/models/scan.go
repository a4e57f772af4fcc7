package models

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// ScanStatus 扫描状态
type ScanStatus string

const (
	ScanStatusPending   ScanStatus = "pending"   // 待执行
	ScanStatusRunning   ScanStatus = "running"   // 执行中
	ScanStatusCompleted ScanStatus = "completed" // 已完成
	ScanStatusFailed    ScanStatus = "failed"    // 失败
	ScanStatusCancelled ScanStatus = "cancelled" // 已取消
)

// FetchMode 首页获取模式
type FetchMode string

const (
	ModeStatic FetchMode = "static" // 静态HTTP获取
	ModeRender FetchMode = "render" // 无头浏览器渲染
)

// ScanStats 扫描统计
type ScanStats struct {
	AssetsDiscovered int     `json:"assets_discovered"` // 发现的JS资产数
	AssetsAnalyzed   int     `json:"assets_analyzed"`   // 成功分析的资产数
	AssetsFailed     int     `json:"assets_failed"`     // 下载或分析失败数
	AssetsSkipped    int     `json:"assets_skipped"`    // 超限/重复而跳过的资产数
	InlineScripts    int     `json:"inline_scripts"`    // 内联脚本块数量
	TotalBytes       int64   `json:"total_bytes"`       // 下载字节总数
	TotalFindings    int     `json:"total_findings"`    // 敏感信息总数
	CollapsedItems   int     `json:"collapsed_items"`   // 相似项合并移除数
	Duration         float64 `json:"duration"`          // 总耗时(秒)
}

// ScanConfig 扫描配置
type ScanConfig struct {
	MaxAssets      int      `json:"max_assets"`      // 单次扫描JS资产上限 (默认:30)
	Timeout        int      `json:"timeout"`         // 单请求超时(秒) (默认:15)
	Workers        int      `json:"workers"`         // 资产分析并发数 (默认:6)
	MaxAssetSize   int64    `json:"max_asset_size"`  // 单资产大小上限(字节) (默认:10MB)
	RetryAttempts  int      `json:"retry_attempts"`  // 传输层重试次数 (默认:3)
	MinEntropy     float64  `json:"min_entropy"`     // 密钥类熵值阈值 (默认:3.5)
	RenderMode     bool     `json:"render_mode"`     // 使用浏览器渲染首页
	Proxy          string   `json:"proxy"`           // 代理地址 (可选)
	ExcludeDomains []string `json:"exclude_domains"` // 附加的第三方域名排除项
}

// Validate 验证配置
func (c *ScanConfig) Validate() error {
	if c.MaxAssets < 1 || c.MaxAssets > 500 {
		return fmt.Errorf("资产上限必须在1-500之间")
	}
	if c.Timeout < 1 || c.Timeout > 300 {
		return fmt.Errorf("超时必须在1-300秒之间")
	}
	if c.Workers < 1 || c.Workers > 100 {
		return fmt.Errorf("并发数必须在1-100之间")
	}
	if c.MaxAssetSize < 1024 {
		return fmt.Errorf("资产大小上限不能小于1KB")
	}
	if c.RetryAttempts < 0 || c.RetryAttempts > 10 {
		return fmt.Errorf("重试次数必须在0-10之间")
	}
	if c.MinEntropy < 0 || c.MinEntropy > 8 {
		return fmt.Errorf("熵值阈值必须在0-8之间")
	}
	return nil
}

// ScanTask 单目标扫描任务
type ScanTask struct {
	// 基本信息
	ID          string     `json:"id"`                     // 任务唯一ID (UUID)
	Target      string     `json:"target"`                 // 用户输入的目标(域名或URL)
	TargetURL   string     `json:"target_url"`             // 实际访问的根URL
	Domain      string     `json:"domain"`                 // 解析的域名
	CreatedAt   time.Time  `json:"created_at"`             // 创建时间
	StartedAt   *time.Time `json:"started_at,omitempty"`   // 开始时间
	CompletedAt *time.Time `json:"completed_at,omitempty"` // 完成时间

	// 配置参数
	Config ScanConfig `json:"config"` // 扫描配置

	// 执行状态
	Status ScanStatus `json:"status"` // 任务状态
	Mode   FetchMode  `json:"mode"`   // 首页获取模式

	// 统计信息
	Stats ScanStats `json:"stats"` // 任务统计

	// 错误信息
	ErrorMessage string `json:"error_message,omitempty"` // 错误消息
}

// NewScanTask 创建新扫描任务
// target 可以是裸域名(github.com)或完整URL(https://github.com)
func NewScanTask(target string, config ScanConfig) (*ScanTask, error) {
	target = strings.TrimSpace(target)
	if target == "" {
		return nil, fmt.Errorf("扫描目标不能为空")
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	mode := ModeStatic
	if config.RenderMode {
		mode = ModeRender
	}

	return &ScanTask{
		ID:        generateID(),
		Target:    target,
		Domain:    ExtractDomain(target),
		CreatedAt: time.Now(),
		Config:    config,
		Status:    ScanStatusPending,
		Mode:      mode,
		Stats:     ScanStats{},
	}, nil
}

// ExtractDomain 从目标中提取域名
// 目标带协议时取其host部分,否则截断路径后原样返回
func ExtractDomain(target string) string {
	target = strings.TrimSpace(target)
	if strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://") {
		if parsed, err := url.Parse(target); err == nil && parsed.Host != "" {
			return parsed.Host
		}
	}
	if idx := strings.IndexAny(target, "/?#"); idx >= 0 {
		target = target[:idx]
	}
	return target
}

// ToJSON 序列化为JSON
func (t *ScanTask) ToJSON() ([]byte, error) {
	return json.MarshalIndent(t, "", "  ")
}

// FromJSON 从JSON反序列化
func (t *ScanTask) FromJSON(data []byte) error {
	return json.Unmarshal(data, t)
}

// BatchScanTask 批量扫描任务
type BatchScanTask struct {
	// 基本信息
	ID          string     `json:"id"`
	TargetsFile string     `json:"targets_file"` // 目标列表文件路径
	CreatedAt   time.Time  `json:"created_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	// 配置
	Config          ScanConfig `json:"config"`            // 扫描配置
	BatchDelay      int        `json:"batch_delay"`       // 目标之间延迟(秒)
	ContinueOnError bool       `json:"continue_on_error"` // 遇到错误继续

	// 状态
	Status ScanStatus `json:"status"`

	// 统计
	TotalTargets      int `json:"total_targets"`
	SuccessfulTargets int `json:"successful_targets"`
	FailedTargets     int `json:"failed_targets"`
	TotalFindings     int `json:"total_findings"`

	// 子任务
	SubTasks []string `json:"sub_tasks"` // 子任务ID列表
}
