package rules

import (
	"strings"

	regexp "github.com/wasilibs/go-re2"
)

// Quality 规则质量等级
// 等级决定最小长度门槛与熵值检查的严格程度
type Quality string

const (
	QualityCritical Quality = "critical" // 关键: 长度≥8
	QualityHigh     Quality = "high"     // 高: 长度≥5
	QualityMedium   Quality = "medium"   // 中
	QualityLow      Quality = "low"      // 低
)

// Valid 质量等级是否合法
func (q Quality) Valid() bool {
	switch q {
	case QualityCritical, QualityHigh, QualityMedium, QualityLow:
		return true
	}
	return false
}

// PatternRule 单条匹配规则
// 启动时编译,扫描期间只读
type PatternRule struct {
	// Pattern 原始正则表达式(大小写不敏感、多行模式编译)
	Pattern string

	// MinLength 匹配结果最小长度
	MinLength int

	// Quality 质量等级
	Quality Quality

	// Exclude 逐字排除列表(大小写不敏感精确匹配)
	Exclude []string

	re *regexp.Regexp
}

// FindAllSubmatch 在内容上执行规则
// 返回所有匹配的子组切片; 编译失败的规则返回nil
func (r *PatternRule) FindAllSubmatch(content string) [][]string {
	if r.re == nil {
		return nil
	}
	return r.re.FindAllStringSubmatch(content, -1)
}

// Excluded 值是否命中排除列表
func (r *PatternRule) Excluded(value string) bool {
	for _, ex := range r.Exclude {
		if strings.EqualFold(value, ex) {
			return true
		}
	}
	return false
}

// Category 类别名称常量
const (
	CategoryAPIEndpoints   = "api_endpoints"
	CategorySensitivePaths = "sensitive_paths"
	CategorySecrets        = "secrets"
	CategoryJWTTokens      = "jwt_tokens"
	CategoryEmails         = "emails"
	CategoryPhones         = "phones"
	CategoryIDCards        = "id_cards"
	CategoryIPAddresses    = "ip_addresses"
	CategoryURLsDomains    = "urls_domains"
	CategoryDatabaseURLs   = "database_urls"
	CategoryCloudConfig    = "cloud_config"
	CategoryWebhooks       = "webhooks"
	CategoryCryptoInfo     = "crypto_info"
)

// CategoryOrder 类别固定遍历顺序
// map遍历无序,匹配阶段按此顺序执行保证结果确定性
var CategoryOrder = []string{
	CategoryAPIEndpoints,
	CategorySensitivePaths,
	CategorySecrets,
	CategoryJWTTokens,
	CategoryEmails,
	CategoryPhones,
	CategoryIDCards,
	CategoryIPAddresses,
	CategoryURLsDomains,
	CategoryDatabaseURLs,
	CategoryCloudConfig,
	CategoryWebhooks,
	CategoryCryptoInfo,
}

// PathCategories 路径/URL形态的类别
// 相似合并时这些类别按问号前内容比较
var PathCategories = map[string]bool{
	CategoryAPIEndpoints:   true,
	CategorySensitivePaths: true,
	CategoryURLsDomains:    true,
}

// Corpus 规则库
// 类别到有序规则列表的只读映射,进程内加载一次
type Corpus struct {
	categories map[string][]*PatternRule
}

// Categories 返回固定顺序的类别列表
func (c *Corpus) Categories() []string {
	return CategoryOrder
}

// Rules 返回某类别的有序规则
func (c *Corpus) Rules(category string) []*PatternRule {
	return c.categories[category]
}

// RuleCount 规则总数
func (c *Corpus) RuleCount() int {
	total := 0
	for _, rules := range c.categories {
		total += len(rules)
	}
	return total
}

// NewCorpus 编译规则表构建规则库
// 单条规则编译失败仅跳过该规则,不影响其余规则
func NewCorpus(table map[string][]PatternRule) *Corpus {
	categories := make(map[string][]*PatternRule, len(table))
	for category, list := range table {
		compiled := make([]*PatternRule, 0, len(list))
		for i := range list {
			rule := list[i]
			re, err := regexp.Compile("(?im)" + rule.Pattern)
			if err != nil {
				continue
			}
			rule.re = re
			compiled = append(compiled, &rule)
		}
		categories[category] = compiled
	}
	return &Corpus{categories: categories}
}

// DefaultCorpus 内置规则库
// 集成nuclei风格的密钥正则与JS端点提取规则
func DefaultCorpus() *Corpus {
	return NewCorpus(defaultTable())
}

func defaultTable() map[string][]PatternRule {
	return map[string][]PatternRule{
		// API端点 - RESTful/GraphQL/RPC/微服务/管理接口
		CategoryAPIEndpoints: {
			{Pattern: `["']([/]api[/][a-zA-Z0-9_\-/.]{2,120})["']`, MinLength: 5, Quality: QualityCritical},
			{Pattern: `["']([/]v[1-9][0-9]*[/][a-zA-Z0-9_\-/.]{2,120})["']`, MinLength: 4, Quality: QualityCritical},
			{Pattern: `["']([/]rest[/][a-zA-Z0-9_\-/.]{2,120})["']`, MinLength: 6, Quality: QualityCritical},
			{Pattern: `["']([/]webapi[/][a-zA-Z0-9_\-/.]{2,120})["']`, MinLength: 8, Quality: QualityCritical},
			{Pattern: `["']([/]graphql[/]?[a-zA-Z0-9_\-/.]*)["']`, MinLength: 8, Quality: QualityCritical},
			{Pattern: `["']([/]rpc[/][a-zA-Z0-9_\-/.]{2,120})["']`, MinLength: 5, Quality: QualityHigh},
			{Pattern: `["']([/]grpc[/][a-zA-Z0-9_\-/.]{2,120})["']`, MinLength: 6, Quality: QualityHigh},
			{Pattern: `["']([/]service[/][a-zA-Z0-9_\-/.]{2,120})["']`, MinLength: 9, Quality: QualityHigh},
			{Pattern: `["']([/]microservice[/][a-zA-Z0-9_\-/.]{2,120})["']`, MinLength: 14, Quality: QualityHigh},
			{Pattern: `["']([/]endpoint[/][a-zA-Z0-9_\-/.]{2,120})["']`, MinLength: 10, Quality: QualityHigh},
			{Pattern: `["']([/][a-zA-Z0-9_\-/.]+\.(?:php|jsp|asp|aspx|do|action|cgi|py|rb|go|java|pl|sh)(?:\?[^"']*)?)["']`, MinLength: 5, Quality: QualityHigh},
			{Pattern: `["']([/]admin[/][a-zA-Z0-9_\-/.]{2,120})["']`, MinLength: 7, Quality: QualityCritical},
			{Pattern: `["']([/]manage[/][a-zA-Z0-9_\-/.]{2,120})["']`, MinLength: 8, Quality: QualityCritical},
			{Pattern: `["']([/]dashboard[/][a-zA-Z0-9_\-/.]{2,120})["']`, MinLength: 11, Quality: QualityHigh},
			{Pattern: `["']([/]console[/][a-zA-Z0-9_\-/.]{2,120})["']`, MinLength: 9, Quality: QualityHigh},
			{Pattern: `["']([/]data[/][a-zA-Z0-9_\-/.]{2,120})["']`, MinLength: 6, Quality: QualityMedium},
			{Pattern: `["']([/]json[/][a-zA-Z0-9_\-/.]{2,120})["']`, MinLength: 6, Quality: QualityMedium},
			{Pattern: `["']([/]xml[/][a-zA-Z0-9_\-/.]{2,120})["']`, MinLength: 5, Quality: QualityMedium},
			{Pattern: `["']([/]odata[/][a-zA-Z0-9_\-/.]{2,120})["']`, MinLength: 7, Quality: QualityHigh},
			{Pattern: `["']([/]soap[/][a-zA-Z0-9_\-/.]{2,120})["']`, MinLength: 6, Quality: QualityMedium},
			{Pattern: `["']([/]mobile[/][a-zA-Z0-9_\-/.]{2,120})["']`, MinLength: 8, Quality: QualityMedium},
			{Pattern: `["']([/]app[/][a-zA-Z0-9_\-/.]{2,120})["']`, MinLength: 5, Quality: QualityMedium},
			{Pattern: `["']([/]cdn[/][a-zA-Z0-9_\-/.]{2,120})["']`, MinLength: 5, Quality: QualityLow},
			{Pattern: `["']([/]static[/][a-zA-Z0-9_\-/.]{2,120})["']`, MinLength: 8, Quality: QualityLow},
		},

		// 敏感路径 - 配置/后台/认证/文件/维护/调试/日志
		CategorySensitivePaths: {
			{Pattern: `["']([/]config[/][a-zA-Z0-9_\-/.]{1,120})["']`, MinLength: 8, Quality: QualityCritical},
			{Pattern: `["']([/]configuration[/][a-zA-Z0-9_\-/.]{1,120})["']`, MinLength: 15, Quality: QualityCritical},
			{Pattern: `["']([/]settings[/][a-zA-Z0-9_\-/.]{1,120})["']`, MinLength: 10, Quality: QualityCritical},
			{Pattern: `["']([/]\.env[a-zA-Z0-9_\-/.]{0,120})["']`, MinLength: 5, Quality: QualityCritical},
			{Pattern: `["']([/]\.config[a-zA-Z0-9_\-/.]{0,120})["']`, MinLength: 8, Quality: QualityCritical},
			{Pattern: `["']([/]properties[/][a-zA-Z0-9_\-/.]{1,120})["']`, MinLength: 12, Quality: QualityHigh},
			{Pattern: `["']([/]admin[/][a-zA-Z0-9_\-/.]{1,120})["']`, MinLength: 7, Quality: QualityCritical},
			{Pattern: `["']([/]administrator[/][a-zA-Z0-9_\-/.]{1,120})["']`, MinLength: 15, Quality: QualityCritical},
			{Pattern: `["']([/]manage[/][a-zA-Z0-9_\-/.]{1,120})["']`, MinLength: 8, Quality: QualityCritical},
			{Pattern: `["']([/]manager[/][a-zA-Z0-9_\-/.]{1,120})["']`, MinLength: 9, Quality: QualityCritical},
			{Pattern: `["']([/]control[/][a-zA-Z0-9_\-/.]{1,120})["']`, MinLength: 9, Quality: QualityHigh},
			{Pattern: `["']([/]panel[/][a-zA-Z0-9_\-/.]{1,120})["']`, MinLength: 7, Quality: QualityHigh},
			{Pattern: `["']([/]cpanel[/][a-zA-Z0-9_\-/.]{1,120})["']`, MinLength: 8, Quality: QualityHigh},
			{Pattern: `["']([/]login[a-zA-Z0-9_\-/.]{0,120})["']`, MinLength: 6, Quality: QualityMedium},
			{Pattern: `["']([/]signin[a-zA-Z0-9_\-/.]{0,120})["']`, MinLength: 7, Quality: QualityMedium},
			{Pattern: `["']([/]logout[a-zA-Z0-9_\-/.]{0,120})["']`, MinLength: 7, Quality: QualityMedium},
			{Pattern: `["']([/]auth[/]?[a-zA-Z0-9_\-/.]{0,120})["']`, MinLength: 5, Quality: QualityMedium},
			{Pattern: `["']([/]oauth[/][a-zA-Z0-9_\-/.]{1,120})["']`, MinLength: 7, Quality: QualityHigh},
			{Pattern: `["']([/]sso[/][a-zA-Z0-9_\-/.]{1,120})["']`, MinLength: 5, Quality: QualityHigh},
			{Pattern: `["']([/]saml[/][a-zA-Z0-9_\-/.]{1,120})["']`, MinLength: 6, Quality: QualityHigh},
			{Pattern: `["']([/]upload[/][a-zA-Z0-9_\-/.]{1,120})["']`, MinLength: 8, Quality: QualityHigh},
			{Pattern: `["']([/]download[/][a-zA-Z0-9_\-/.]{1,120})["']`, MinLength: 10, Quality: QualityHigh},
			{Pattern: `["']([/]file[/][a-zA-Z0-9_\-/.]{1,120})["']`, MinLength: 6, Quality: QualityMedium},
			{Pattern: `["']([/]files[/][a-zA-Z0-9_\-/.]{1,120})["']`, MinLength: 7, Quality: QualityMedium},
			{Pattern: `["']([/]attachment[/][a-zA-Z0-9_\-/.]{1,120})["']`, MinLength: 12, Quality: QualityMedium},
			{Pattern: `["']([/]attachments[/][a-zA-Z0-9_\-/.]{1,120})["']`, MinLength: 13, Quality: QualityMedium},
			{Pattern: `["']([/]backup[/][a-zA-Z0-9_\-/.]{1,120})["']`, MinLength: 8, Quality: QualityCritical},
			{Pattern: `["']([/]backups[/][a-zA-Z0-9_\-/.]{1,120})["']`, MinLength: 9, Quality: QualityCritical},
			{Pattern: `["']([/]restore[/][a-zA-Z0-9_\-/.]{1,120})["']`, MinLength: 9, Quality: QualityCritical},
			{Pattern: `["']([/]system[/][a-zA-Z0-9_\-/.]{1,120})["']`, MinLength: 8, Quality: QualityHigh},
			{Pattern: `["']([/]maintenance[/][a-zA-Z0-9_\-/.]{1,120})["']`, MinLength: 13, Quality: QualityHigh},
			{Pattern: `["']([/]debug[/][a-zA-Z0-9_\-/.]{1,120})["']`, MinLength: 7, Quality: QualityCritical},
			{Pattern: `["']([/]test[/][a-zA-Z0-9_\-/.]{1,120})["']`, MinLength: 6, Quality: QualityMedium},
			{Pattern: `["']([/]tests[/][a-zA-Z0-9_\-/.]{1,120})["']`, MinLength: 7, Quality: QualityMedium},
			{Pattern: `["']([/]dev[/][a-zA-Z0-9_\-/.]{1,120})["']`, MinLength: 5, Quality: QualityHigh},
			{Pattern: `["']([/]development[/][a-zA-Z0-9_\-/.]{1,120})["']`, MinLength: 13, Quality: QualityHigh},
			{Pattern: `["']([/]tmp[/][a-zA-Z0-9_\-/.]{1,120})["']`, MinLength: 5, Quality: QualityHigh},
			{Pattern: `["']([/]temp[/][a-zA-Z0-9_\-/.]{1,120})["']`, MinLength: 6, Quality: QualityHigh},
			{Pattern: `["']([/]cache[/][a-zA-Z0-9_\-/.]{1,120})["']`, MinLength: 7, Quality: QualityMedium},
			{Pattern: `["']([/]log[/][a-zA-Z0-9_\-/.]{1,120})["']`, MinLength: 5, Quality: QualityHigh},
			{Pattern: `["']([/]logs[/][a-zA-Z0-9_\-/.]{1,120})["']`, MinLength: 6, Quality: QualityHigh},
			{Pattern: `["']([/]monitor[/][a-zA-Z0-9_\-/.]{1,120})["']`, MinLength: 9, Quality: QualityMedium},
			{Pattern: `["']([/]metrics[/][a-zA-Z0-9_\-/.]{1,120})["']`, MinLength: 9, Quality: QualityMedium},
		},

		// 密钥和令牌 - 云厂商/通用API密钥/令牌/密码/高熵字符串
		CategorySecrets: {
			{Pattern: `((?:ghp|gho|ghu|ghs|ghr|github_pat)_[a-zA-Z0-9_]{36,255})`, MinLength: 40, Quality: QualityCritical},
			{Pattern: `(glpat-[a-zA-Z0-9\-=_]{20,22})`, MinLength: 25, Quality: QualityCritical},
			{Pattern: `((?:A3T[A-Z0-9]|AKIA|AGPA|AIDA|AROA|AIPA|ANPA|ANVA|ASIA)[A-Z0-9]{16})`, MinLength: 20, Quality: QualityCritical},
			{Pattern: `(?:aws[_-]?secret[_-]?access[_-]?key|AWS_SECRET_ACCESS_KEY)\s*[:=]\s*["']([A-Za-z0-9/+=]{40})["']`, MinLength: 40, Quality: QualityCritical},
			{Pattern: `(?:aws[_-]?access[_-]?key[_-]?id|AWS_ACCESS_KEY_ID)\s*[:=]\s*["']([A-Z0-9]{20})["']`, MinLength: 20, Quality: QualityCritical},
			{Pattern: `(LTAI[A-Za-z\d]{12,30})`, MinLength: 16, Quality: QualityCritical},
			{Pattern: `(?:aliyun|ali)[_-]?access[_-]?key[_-]?id\s*[:=]\s*["']([a-zA-Z0-9]{16,30})["']`, MinLength: 16, Quality: QualityCritical},
			{Pattern: `(AKID[A-Za-z\d]{13,40})`, MinLength: 17, Quality: QualityCritical},
			{Pattern: `(JDC_[0-9A-Z]{25,40})`, MinLength: 29, Quality: QualityCritical},
			{Pattern: `["']?(wx[a-z0-9]{15,18})["']?`, MinLength: 17, Quality: QualityHigh},
			{Pattern: `["']?(ww[a-z0-9]{15,18})["']?`, MinLength: 17, Quality: QualityHigh},
			{Pattern: `(?:api[_-]?key|apikey)\s*[:=]\s*["']([a-zA-Z0-9_\-+/=]{12,120})["']`, MinLength: 12, Quality: QualityCritical},
			{Pattern: `(?:secret[_-]?key|secretkey)\s*[:=]\s*["']([a-zA-Z0-9_\-+/=]{12,120})["']`, MinLength: 12, Quality: QualityCritical},
			{Pattern: `(?:app[_-]?secret|appsecret)\s*[:=]\s*["']([a-zA-Z0-9_\-+/=]{12,120})["']`, MinLength: 12, Quality: QualityCritical},
			{Pattern: `(?:client[_-]?secret|clientsecret)\s*[:=]\s*["']([a-zA-Z0-9_\-+/=]{12,120})["']`, MinLength: 12, Quality: QualityCritical},
			{Pattern: `(?:access[_-]?token|accesstoken)\s*[:=]\s*["']([a-zA-Z0-9_\-+/=]{16,120})["']`, MinLength: 16, Quality: QualityCritical},
			{Pattern: `(?:bearer[_-]?token|bearertoken)\s*[:=]\s*["']([a-zA-Z0-9_\-+/=]{20,120})["']`, MinLength: 20, Quality: QualityCritical},
			{Pattern: `(?:refresh[_-]?token|refreshtoken)\s*[:=]\s*["']([a-zA-Z0-9_\-+/=]{20,120})["']`, MinLength: 20, Quality: QualityCritical},
			{Pattern: `(?:session[_-]?token|sessiontoken)\s*[:=]\s*["']([a-zA-Z0-9_\-+/=]{16,120})["']`, MinLength: 16, Quality: QualityHigh},
			{Pattern: `(?:auth[_-]?token|authtoken)\s*[:=]\s*["']([a-zA-Z0-9_\-+/=]{16,120})["']`, MinLength: 16, Quality: QualityHigh},
			{Pattern: `(?:private[_-]?key|privatekey)\s*[:=]\s*["']([a-zA-Z0-9_\-+/=]{24,120})["']`, MinLength: 24, Quality: QualityCritical},
			{Pattern: `(?:public[_-]?key|publickey)\s*[:=]\s*["']([a-zA-Z0-9_\-+/=]{20,120})["']`, MinLength: 20, Quality: QualityHigh},
			{Pattern: `(?:password|passwd|pwd)\s*[:=]\s*["']([^"'\s]{8,50})["']`, MinLength: 8, Quality: QualityHigh,
				Exclude: []string{"password", "test123", "123456", "admin", "test", "demo", "example", "changeme"}},
			{Pattern: `(?:encryption[_-]?key|encryptionkey)\s*[:=]\s*["']([a-zA-Z0-9_\-+/=]{16,120})["']`, MinLength: 16, Quality: QualityCritical},
			{Pattern: `(?:cipher[_-]?key|cipherkey)\s*[:=]\s*["']([a-zA-Z0-9_\-+/=]{16,120})["']`, MinLength: 16, Quality: QualityCritical},
			{Pattern: `(?:salt)\s*[:=]\s*["']([a-zA-Z0-9_\-+/=]{8,120})["']`, MinLength: 8, Quality: QualityMedium},
			{Pattern: `(?:iv|nonce)\s*[:=]\s*["']([a-zA-Z0-9_\-+/=]{8,120})["']`, MinLength: 8, Quality: QualityMedium},
			{Pattern: `[Bb]earer\s+([a-zA-Z0-9\-=._+/\\]{20,500})`, MinLength: 20, Quality: QualityCritical},
			{Pattern: `[Bb]asic\s+([A-Za-z0-9+/]{18,}={0,2})`, MinLength: 18, Quality: QualityHigh},
			{Pattern: `(?:database|db)[_-]?password\s*[:=]\s*["']([^"'\s]{6,50})["']`, MinLength: 6, Quality: QualityCritical},
			{Pattern: `eyJrIjoi([a-zA-Z0-9\-_+/]{50,100}={0,2})`, MinLength: 50, Quality: QualityCritical},
			{Pattern: `["']([a-zA-Z0-9+/]{40,}={0,2})["']`, MinLength: 40, Quality: QualityLow},
			{Pattern: `["']([a-fA-F0-9]{32,})["']`, MinLength: 32, Quality: QualityLow},
		},

		// JWT令牌
		CategoryJWTTokens: {
			{Pattern: `\b(eyJ[A-Za-z0-9_/+-]*\.eyJ[A-Za-z0-9_/+-]*\.[A-Za-z0-9_/+-]+)\b`, MinLength: 50, Quality: QualityCritical},
			{Pattern: `["']?(eyJ[A-Za-z0-9_/+-]*\.eyJ[A-Za-z0-9_/+-]*\.[A-Za-z0-9_/+-]+)["']?`, MinLength: 50, Quality: QualityCritical},
			{Pattern: `(?:bearer\s+|Bearer\s+)(eyJ[A-Za-z0-9_/+-]*\.eyJ[A-Za-z0-9_/+-]*\.[A-Za-z0-9_/+-]+)`, MinLength: 50, Quality: QualityCritical},
			{Pattern: `(?:jwt|token)\s*[:=]\s*["']?(eyJ[A-Za-z0-9_/+-]*\.eyJ[A-Za-z0-9_/+-]*\.[A-Za-z0-9_/+-]+)["']?`, MinLength: 50, Quality: QualityCritical},
		},

		// 邮箱地址
		CategoryEmails: {
			{Pattern: `\b([a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,})\b`, MinLength: 6, Quality: QualityMedium},
		},

		// 手机号码
		CategoryPhones: {
			{Pattern: `\b(1[3-9]\d{9})\b`, MinLength: 11, Quality: QualityMedium},
			{Pattern: `\b(86-?1[3-9]\d{9})\b`, MinLength: 13, Quality: QualityMedium},
			{Pattern: `\b(0\d{2,3}-?\d{7,8})\b`, MinLength: 10, Quality: QualityLow},
		},

		// 身份证号
		CategoryIDCards: {
			{Pattern: `\b([1-9]\d{5}(?:18|19|20)\d{2}(?:0[1-9]|1[0-2])(?:0[1-9]|[12]\d|3[01])\d{3}[\dXx])\b`, MinLength: 18, Quality: QualityHigh},
		},

		// IP地址和端口
		CategoryIPAddresses: {
			{Pattern: `\b((?:(?:25[0-5]|2[0-4][0-9]|1[0-9][0-9]|[1-9]?[0-9])\.){3}(?:25[0-5]|2[0-4][0-9]|1[0-9][0-9]|[1-9]?[0-9])(?::\d{1,5})?)\b`, MinLength: 7, Quality: QualityHigh},
		},

		// 域名和URL
		CategoryURLsDomains: {
			{Pattern: `\b(https?://[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}(?:[:/][^\s"'<>]*)?)\b`, MinLength: 10, Quality: QualityMedium},
			{Pattern: `["']([a-zA-Z0-9-]+\.(?:com|cn|net|org|gov|edu|co|io|me|cc|xyz|top|api|admin|www|cdn|static))["']`, MinLength: 6, Quality: QualityMedium},
			{Pattern: `//([a-zA-Z0-9.-]+\.[a-zA-Z]{2,})(?:[:/][^\s"'<>]*)?`, MinLength: 6, Quality: QualityMedium},
		},

		// 数据库连接字符串
		CategoryDatabaseURLs: {
			{Pattern: `\b((?:mysql|postgresql|mongodb|redis|oracle|sqlserver|sqlite|mariadb)://[^\s"'<>]+)\b`, MinLength: 15, Quality: QualityCritical},
			{Pattern: `\b(jdbc:[^\s"'<>]+)\b`, MinLength: 15, Quality: QualityCritical},
			{Pattern: `(?:host|server|endpoint)\s*[:=]\s*["']([a-zA-Z0-9.-]+)["']`, MinLength: 5, Quality: QualityMedium},
			{Pattern: `(?:database|db[_-]?name)\s*[:=]\s*["']([a-zA-Z0-9_-]+)["']`, MinLength: 3, Quality: QualityMedium},
		},

		// 云服务配置
		CategoryCloudConfig: {
			{Pattern: `(?:bucket|region|endpoint|zone)\s*[:=]\s*["']([^"']{3,})["']`, MinLength: 3, Quality: QualityMedium},
			{Pattern: `(?:oss|cos|s3)[_-]?(?:bucket|endpoint)\s*[:=]\s*["']([^"']{3,})["']`, MinLength: 3, Quality: QualityHigh},
			{Pattern: `(?:cdn|domain)[_-]?(?:url|endpoint)\s*[:=]\s*["']([^"']{5,})["']`, MinLength: 5, Quality: QualityMedium},
		},

		// Webhook和回调地址
		CategoryWebhooks: {
			{Pattern: `(?:webhook|callback)[_-]?url\s*[:=]\s*["']([^"']{10,})["']`, MinLength: 10, Quality: QualityHigh},
			{Pattern: `(https://hooks\.slack\.com/services/[a-zA-Z0-9\-_]{6,12}/[a-zA-Z0-9\-_]{6,12}/[a-zA-Z0-9\-_]{15,24})`, MinLength: 50, Quality: QualityCritical},
			{Pattern: `(https://qyapi\.weixin\.qq\.com/cgi-bin/webhook/send\?key=[a-zA-Z0-9\-]{25,50})`, MinLength: 60, Quality: QualityCritical},
			{Pattern: `(https://oapi\.dingtalk\.com/robot/send\?access_token=[a-z0-9]{50,80})`, MinLength: 70, Quality: QualityCritical},
			{Pattern: `(https://open\.feishu\.cn/open-apis/bot/v2/hook/[a-z0-9\-]{25,50})`, MinLength: 60, Quality: QualityCritical},
		},

		// 加密算法引用
		CategoryCryptoInfo: {
			{Pattern: `\W(Base64\.encode|Base64\.decode|btoa|atob|CryptoJS|crypto|encrypt|decrypt|md5|sha1|sha256|sha512|hmac|aes|des|rsa)[\(.]`, MinLength: 3, Quality: QualityLow},
			{Pattern: `(?:algorithm|cipher)\s*[:=]\s*["']([^"']+)["']`, MinLength: 3, Quality: QualityMedium},
		},
	}
}
