package analyzer

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/RecoveryAshes/JsSecretScan/internal/rules"
)

// DefaultMinEntropy 密钥类候选的默认熵值阈值
const DefaultMinEntropy = 3.5

// verdict 单层检查的裁决
type verdict int

const (
	verdictNext   verdict = iota // 通过本层,继续下一层
	verdictAccept                // 确定接受,跳过剩余层
	verdictReject                // 确定拒绝
)

// stage 一层检查: 纯谓词,只依赖候选本身
type stage func(c *Candidate) verdict

// 第3层: 裸代码形态(右括号/关键字/纯数字/单字母等)
var codeShapePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^\s*\)\s*[,;]?\s*$`),
	regexp.MustCompile(`(?i)^\s*\}\s*[,;]?\s*$`),
	regexp.MustCompile(`(?i)^\s*,\s*$`),
	regexp.MustCompile(`(?i)^\s*;\s*$`),
	regexp.MustCompile(`(?i)^\s*null\s*$`),
	regexp.MustCompile(`(?i)^\s*true\s*$`),
	regexp.MustCompile(`(?i)^\s*false\s*$`),
	regexp.MustCompile(`(?i)^\s*undefined\s*$`),
	regexp.MustCompile(`(?i)^\s*\d+\s*$`),
	regexp.MustCompile(`(?i)^\s*[a-zA-Z]\s*$`),
	regexp.MustCompile(`(?i)^function\s*\(`),
	regexp.MustCompile(`(?i)^var\s+`),
	regexp.MustCompile(`(?i)^let\s+`),
	regexp.MustCompile(`(?i)^const\s+`),
	regexp.MustCompile(`(?i)^if\s*\(`),
	regexp.MustCompile(`(?i)^for\s*\(`),
	regexp.MustCompile(`(?i)^while\s*\(`),
	regexp.MustCompile(`(?i)^return\s*`),
	regexp.MustCompile(`(?i)^console\.`),
	regexp.MustCompile(`(?i)^window\.`),
	regexp.MustCompile(`(?i)^document\.`),
}

// 第6层: 常见UI/DOM属性名
var commonAttributeNames = map[string]bool{
	"length": true, "width": true, "height": true, "value": true,
	"name": true, "type": true, "class": true, "id": true,
	"style": true, "href": true, "src": true, "alt": true, "title": true,
}

// 第12层: 测试/占位数据标记
var testDataPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^test`),
	regexp.MustCompile(`(?i)^example`),
	regexp.MustCompile(`(?i)^demo`),
	regexp.MustCompile(`(?i)^sample`),
	regexp.MustCompile(`(?i)^placeholder`),
	regexp.MustCompile(`(?i)12345`),
	regexp.MustCompile(`(?i)abcde`),
	regexp.MustCompile(`(?i)lorem`),
	regexp.MustCompile(`(?i)ipsum`),
}

var (
	htmlTagPattern = regexp.MustCompile(`<[^>]+>`)
	emailPattern   = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phonePattern   = regexp.MustCompile(`^(86-?)?\d{10,11}$`)
)

// QualityFilter 15层质量过滤器
// 按固定顺序逐层检查候选,首个拒绝即短路;
// 后面的层假定候选已通过前面的层,顺序不可调整。
type QualityFilter struct {
	minEntropy float64
	stages     []stage
}

// NewQualityFilter 创建过滤器
// minEntropy <= 0时使用默认阈值
func NewQualityFilter(minEntropy float64) *QualityFilter {
	if minEntropy <= 0 {
		minEntropy = DefaultMinEntropy
	}
	f := &QualityFilter{minEntropy: minEntropy}
	f.stages = []stage{
		f.checkMinLength,        // 1. 基础长度
		f.checkExcludeList,      // 2. 排除列表
		f.checkCodeShape,        // 3. 裸代码形态
		f.checkBracketRatio,     // 4. 结构符号占比
		f.checkSpaceRatio,       // 5. 空格占比
		f.checkCommonAttribute,  // 6. 常见属性名
		f.checkCategoryShape,    // 7. 类别特定验证
		f.checkHTMLTag,          // 8. HTML标签
		f.checkDataImage,        // 9. Base64图片数据
		f.checkEntropy,          // 10. 熵值(密钥类)
		f.checkRepetition,       // 11. 重复字符占比
		f.checkTestData,         // 12. 测试数据标记
		f.checkShortASCII,       // 13. 过短纯ASCII
		f.checkPathSegments,     // 14. 路径分段
		f.checkQualityGate,      // 15. 最终质量门槛
	}
	return f
}

// Accept 判断候选是否为高质量结果
// 过滤过程中的任何意外故障按拒绝处理,不向外传播
func (f *QualityFilter) Accept(c *Candidate) (accepted bool) {
	defer func() {
		if r := recover(); r != nil {
			accepted = false
		}
	}()

	for _, s := range f.stages {
		switch s(c) {
		case verdictAccept:
			return true
		case verdictReject:
			return false
		}
	}
	return true
}

func (f *QualityFilter) checkMinLength(c *Candidate) verdict {
	if len(c.Value) < c.Rule.MinLength {
		return verdictReject
	}
	return verdictNext
}

func (f *QualityFilter) checkExcludeList(c *Candidate) verdict {
	if c.Rule.Excluded(c.Value) {
		return verdictReject
	}
	return verdictNext
}

func (f *QualityFilter) checkCodeShape(c *Candidate) verdict {
	for _, p := range codeShapePatterns {
		if p.MatchString(c.Value) {
			return verdictReject
		}
	}
	return verdictNext
}

func (f *QualityFilter) checkBracketRatio(c *Candidate) verdict {
	count := 0
	for _, ch := range c.Value {
		switch ch {
		case '(', ')', '{', '}', '[', ']':
			count++
		}
	}
	if float64(count) > float64(len(c.Value))*0.3 {
		return verdictReject
	}
	return verdictNext
}

func (f *QualityFilter) checkSpaceRatio(c *Candidate) verdict {
	if float64(strings.Count(c.Value, " ")) > float64(len(c.Value))*0.4 {
		return verdictReject
	}
	return verdictNext
}

func (f *QualityFilter) checkCommonAttribute(c *Candidate) verdict {
	if commonAttributeNames[strings.ToLower(c.Value)] {
		return verdictReject
	}
	return verdictNext
}

// checkCategoryShape 第7层: 类别特定结构验证
// 邮箱/手机号/IP/域名/JWT的验证是终局性的(直接接受或拒绝);
// 路径类别只做否定性筛查,通过后仍继续后续通用层。
func (f *QualityFilter) checkCategoryShape(c *Candidate) verdict {
	v := c.Value
	switch c.Category {
	case rules.CategoryEmails:
		if emailPattern.MatchString(v) {
			return verdictAccept
		}
		return verdictReject

	case rules.CategoryPhones:
		if isAllDigits(v) {
			if (len(v) == 10 || len(v) == 11) && (v[0] == '1' || v[0] == '0') {
				return verdictAccept
			}
			return verdictReject
		}
		if phonePattern.MatchString(v) {
			return verdictAccept
		}
		return verdictReject

	case rules.CategoryIPAddresses:
		host := strings.SplitN(v, ":", 2)[0]
		octets := strings.Split(host, ".")
		if len(octets) != 4 {
			return verdictReject
		}
		for _, o := range octets {
			n, err := strconv.Atoi(o)
			if err != nil || n < 0 || n > 255 {
				return verdictReject
			}
		}
		return verdictAccept

	case rules.CategoryURLsDomains:
		if !strings.Contains(v, ".") {
			return verdictReject
		}
		if strings.HasPrefix(v, "http://") || strings.HasPrefix(v, "https://") || strings.HasPrefix(v, "//") {
			return verdictAccept
		}
		labels := strings.Split(v, ".")
		if len(labels) >= 2 && len(labels[len(labels)-1]) >= 2 {
			return verdictAccept
		}
		return verdictReject

	case rules.CategoryJWTTokens:
		segments := strings.Split(v, ".")
		if len(segments) != 3 {
			return verdictReject
		}
		for _, seg := range segments {
			if len(seg) <= 10 {
				return verdictReject
			}
		}
		return verdictAccept

	case rules.CategoryAPIEndpoints, rules.CategorySensitivePaths:
		if !strings.HasPrefix(v, "/") && !strings.Contains(v, "/") {
			return verdictReject
		}
		if strings.Count(v, ".") > 0 && strings.Count(v, "/") <= 1 {
			stripped := strings.ReplaceAll(strings.ReplaceAll(v, "/", ""), ".", "")
			if len(stripped) <= 3 {
				return verdictReject
			}
		}
		return verdictNext
	}
	return verdictNext
}

func (f *QualityFilter) checkHTMLTag(c *Candidate) verdict {
	if htmlTagPattern.MatchString(c.Value) {
		return verdictReject
	}
	return verdictNext
}

func (f *QualityFilter) checkDataImage(c *Candidate) verdict {
	if strings.HasPrefix(c.Value, "data:image/") {
		return verdictReject
	}
	return verdictNext
}

func (f *QualityFilter) checkEntropy(c *Candidate) verdict {
	if c.Category != rules.CategorySecrets && c.Category != rules.CategoryJWTTokens {
		return verdictNext
	}
	if c.Rule.Quality != rules.QualityCritical && c.Rule.Quality != rules.QualityHigh {
		return verdictNext
	}
	if Entropy(c.Value) < f.minEntropy {
		return verdictReject
	}
	return verdictNext
}

func (f *QualityFilter) checkRepetition(c *Candidate) verdict {
	runes := []rune(c.Value)
	distinct := make(map[rune]bool, len(runes))
	for _, r := range runes {
		distinct[r] = true
	}
	if float64(len(distinct)) < float64(len(runes))*0.3 {
		return verdictReject
	}
	return verdictNext
}

func (f *QualityFilter) checkTestData(c *Candidate) verdict {
	for _, p := range testDataPatterns {
		if p.MatchString(c.Value) {
			return verdictReject
		}
	}
	return verdictNext
}

func (f *QualityFilter) checkShortASCII(c *Candidate) verdict {
	if len(c.Value) < 6 && isASCIIAlnum(c.Value) {
		return verdictReject
	}
	return verdictNext
}

func (f *QualityFilter) checkPathSegments(c *Candidate) verdict {
	if c.Category != rules.CategoryAPIEndpoints && c.Category != rules.CategorySensitivePaths {
		return verdictNext
	}
	trimmed := strings.Trim(c.Value, "/")
	segments := strings.Split(trimmed, "/")
	for _, seg := range segments {
		if seg == "" {
			return verdictReject
		}
	}
	if len(segments) < 2 && len(c.Value) < 8 {
		return verdictReject
	}
	return verdictNext
}

func (f *QualityFilter) checkQualityGate(c *Candidate) verdict {
	if c.Rule.Quality == rules.QualityCritical && len(c.Value) < 8 {
		return verdictReject
	}
	if c.Rule.Quality == rules.QualityHigh && len(c.Value) < 5 {
		return verdictReject
	}
	return verdictAccept
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func isASCIIAlnum(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		default:
			return false
		}
	}
	return true
}
