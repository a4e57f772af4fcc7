package crawlers

import (
	"net/url"
	"strings"

	"github.com/RecoveryAshes/JsSecretScan/internal/models"
	"github.com/RecoveryAshes/JsSecretScan/internal/utils"
	regexp "github.com/wasilibs/go-re2"
	"golang.org/x/net/html"
)

// DefaultExcludedDomains 第三方统计/客服/广告脚本的排除列表
// 这些域名的脚本与目标站点无关,不计入资产集合
var DefaultExcludedDomains = []string{
	"google-analytics", "googletagmanager", "facebook.net", "doubleclick.net",
	"googlesyndication", "scorecardresearch", "amazon-adsystem", "adsystem.amazon",
	"googletag", "analytics.js", "gtag.js", "fbevents.js", "hotjar", "intercom",
	"zendesk", "drift.com", "crisp.chat", "mouseflow", "fullstory", "mixpanel",
	"segment.com", "amplitude.com", "heap.io", "pendo.io", "livechat", "zopim",
	"olark.com", "salesforce.com", "pardot.com", "marketo.com", "eloqua.com",
	"adobe.com", "omniture.com", "chartbeat.com", "quantserve.com", "outbrain.com",
	"taboola.com", "addthis.com", "sharethis.com", "disqus.com", "gravatar.com",
}

// 页面文本中的JS资产引用模式
// 固定顺序执行: 基础.js引用、打包产物、src赋值、动态import、
// require、loadScript、压缩产物。页面体量可达数MB,用re2编译。
var assetTextPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)["']([^"']*\.js(?:\?[^"']*)?)["']`),
	regexp.MustCompile(`(?i)["']([^"']*(?:chunk|bundle|vendor|main|app|runtime|polyfill)[^"']*\.js(?:\?[^"']*)?)["']`),
	regexp.MustCompile(`(?i)src\s*[:=]\s*["']([^"']*\.js(?:\?[^"']*)?)["']`),
	regexp.MustCompile(`(?i)import\s*\(\s*["']([^"']*\.js(?:\?[^"']*)?)["']`),
	regexp.MustCompile(`(?i)require\s*\(\s*["']([^"']*\.js(?:\?[^"']*)?)["']`),
	regexp.MustCompile(`(?i)loadScript\s*\(\s*["']([^"']*\.js(?:\?[^"']*)?)["']`),
	regexp.MustCompile(`(?i)["']([^"']*(?:min|compressed|minified)[^"']*\.js(?:\?[^"']*)?)["']`),
}

// AssetExtractor 资产定位器
// 职责: 从页面标记中定位JS资产引用,规范化、校验后交给ScanState接纳
type AssetExtractor struct {
	// 扫描状态引用
	state *ScanState

	// 排除域名列表(默认列表+配置扩展)
	excludeDomains []string
}

// NewAssetExtractor 创建资产定位器实例
func NewAssetExtractor(state *ScanState, extraExcludes []string) *AssetExtractor {
	excludes := make([]string, 0, len(DefaultExcludedDomains)+len(extraExcludes))
	excludes = append(excludes, DefaultExcludedDomains...)
	excludes = append(excludes, extraExcludes...)

	return &AssetExtractor{
		state:          state,
		excludeDomains: excludes,
	}
}

// CollectScriptSrcs 接纳script标签的src引用
// script标签优先于文本规则处理,返回本次新接纳的数量
func (e *AssetExtractor) CollectScriptSrcs(base *url.URL, srcs []string) int {
	added := 0
	for _, src := range srcs {
		if e.state.Full() {
			break
		}
		normalized := e.NormalizeAssetURL(src, base)
		if normalized == "" || !e.isValidAssetURL(normalized) {
			continue
		}
		if e.state.TryAdd(models.NewAssetRef(normalized, models.SourceScriptTag)) {
			added++
		}
	}
	return added
}

// CollectFromMarkup 用文本规则从原始标记中定位更多资产
// script标签处理完后仍未达上限时调用;每个匹配在接纳前
// 都重新检查上限,保证总数不超过配置的最大值
func (e *AssetExtractor) CollectFromMarkup(base *url.URL, markup string) int {
	added := 0
	for _, pattern := range assetTextPatterns {
		if e.state.Full() {
			break
		}
		for _, groups := range pattern.FindAllStringSubmatch(markup, -1) {
			if e.state.Full() {
				break
			}
			if len(groups) < 2 {
				continue
			}
			normalized := e.NormalizeAssetURL(groups[1], base)
			if normalized == "" || !e.isValidAssetURL(normalized) {
				continue
			}
			if e.state.TryAdd(models.NewAssetRef(normalized, models.SourceTextRule)) {
				added++
			}
		}
	}

	if added > 0 {
		utils.Debugf("文本规则新发现 %d 个JS资产, 总计 %d 个", added, e.state.DiscoveredCount())
	}
	return added
}

// ParseScriptElements 从HTML字符串解析script元素
// 渲染模式拿到的是最终HTML字符串,用tokenizer提取src引用与内联脚本
func ParseScriptElements(markup string) (srcs []string, inline []string) {
	tokenizer := html.NewTokenizer(strings.NewReader(markup))

	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			// 输入耗尽或标记损坏,两种情况都结束解析
			return srcs, inline

		case html.StartTagToken:
			token := tokenizer.Token()
			if token.Data != "script" {
				continue
			}

			src := ""
			for _, attr := range token.Attr {
				if attr.Key == "src" {
					src = strings.TrimSpace(attr.Val)
					break
				}
			}

			if src != "" {
				srcs = append(srcs, src)
				continue
			}

			// 无src的script: 下一个文本token是内联脚本体
			if tokenizer.Next() == html.TextToken {
				text := strings.TrimSpace(string(tokenizer.Text()))
				if text != "" {
					inline = append(inline, text)
				}
			}
		}
	}
}

// NormalizeAssetURL 规范化资产URL
// 丢弃data:/javascript:/mailto:/#/blob:引用;协议相对补base的scheme;
// 根相对拼接base的scheme+host;其余相对引用按base解析
func (e *AssetExtractor) NormalizeAssetURL(raw string, base *url.URL) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	for _, prefix := range []string{"data:", "javascript:", "mailto:", "#", "blob:"} {
		if strings.HasPrefix(raw, prefix) {
			return ""
		}
	}

	switch {
	case strings.HasPrefix(raw, "//"):
		// HTTP回退后的目标不能把协议相对引用升级成https
		return base.Scheme + ":" + raw
	case strings.HasPrefix(raw, "/"):
		return base.Scheme + "://" + base.Host + raw
	case strings.HasPrefix(raw, "http://"), strings.HasPrefix(raw, "https://"):
		return raw
	default:
		ref, err := url.Parse(raw)
		if err != nil {
			return ""
		}
		return base.ResolveReference(ref).String()
	}
}

// isValidAssetURL 校验资产URL
// 必须是JS文件形态,不超长,且不命中排除域名列表
func (e *AssetExtractor) isValidAssetURL(assetURL string) bool {
	if !models.IsJSAssetURL(assetURL) {
		return false
	}
	if len(assetURL) > models.MaxAssetURLLength {
		return false
	}

	lower := strings.ToLower(assetURL)
	for _, excluded := range e.excludeDomains {
		if strings.Contains(lower, excluded) {
			return false
		}
	}
	return true
}
