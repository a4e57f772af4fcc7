package models

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
	"time"
)

const (
	// MaxAssetSize 单个JS资产最大大小 10MB
	MaxAssetSize = 10 * 1024 * 1024

	// MaxAssetURLLength 资产URL最大长度
	MaxAssetURLLength = 800
)

// 资产发现来源标识
const (
	SourceScriptTag = "script_tag" // <script src>标签
	SourceInline    = "inline"     // 内联脚本伪资产
	SourceTextRule  = "text_rule"  // 文本提取规则
)

// AssetRef 一个已规范化的JS资产引用
// 用途:
//   - 在发现集合与分析工作池之间传递资产定位符
//   - Source记录发现途径,便于调试与统计
type AssetRef struct {
	// URL 规范化后的绝对URL
	URL string `json:"url"`

	// Source 发现来源(script_tag或具体文本规则名)
	Source string `json:"source"`

	// DiscoveredAt 发现时间
	DiscoveredAt time.Time `json:"discovered_at"`
}

// NewAssetRef 创建资产引用
func NewAssetRef(url, source string) AssetRef {
	return AssetRef{
		URL:          url,
		Source:       source,
		DiscoveredAt: time.Now(),
	}
}

// IsJSAssetURL 判断URL是否指向JS资产
// 路径以.js结尾或含.js?查询分隔
func IsJSAssetURL(url string) bool {
	return strings.HasSuffix(url, ".js") || strings.Contains(url, ".js?")
}

// AssetFingerprint 资产身份指纹
// 对定位符(而非内容)取哈希: 重定向到相同资源的不同URL仍按URL身份去重
func AssetFingerprint(url string) string {
	sum := md5.Sum([]byte(url))
	return hex.EncodeToString(sum[:])
}
