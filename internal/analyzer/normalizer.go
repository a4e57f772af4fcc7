package analyzer

import (
	"net/url"
	"regexp"
	"strconv"
)

// 解码与断行模式(包级编译,所有worker共享)
var (
	hexEscapePattern     = regexp.MustCompile(`\\x([0-9a-fA-F]{2})`)
	unicodeEscapePattern = regexp.MustCompile(`\\u([0-9a-fA-F]{4})`)
	percentEscapePattern = regexp.MustCompile(`%([0-9a-fA-F]{2})`)
	stmtBreakPattern     = regexp.MustCompile(`;([a-zA-Z_$])`)
	blockBreakPattern    = regexp.MustCompile(`\{([a-zA-Z_$])`)
)

// Normalize 逆转常见的编码混淆,产出仅用于匹配的文本
// 结果不展示给用户; 解码失败的片段保持原样,任何输入都不会报错
func Normalize(content string) string {
	content = decodeHexEscapes(content)
	content = decodeUnicodeEscapes(content)
	content = decodePercentEscapes(content)
	content = insertLineBreaks(content)
	return content
}

// decodeHexEscapes 解码\xNN十六进制转义
// 仅解码ASCII范围(<0x80),非ASCII码点保持编码形态
func decodeHexEscapes(content string) string {
	return hexEscapePattern.ReplaceAllStringFunc(content, func(match string) string {
		n, err := strconv.ParseInt(match[2:], 16, 32)
		if err != nil || n >= 0x80 {
			return match
		}
		return string(rune(n))
	})
}

// decodeUnicodeEscapes 解码\uNNNN四位Unicode转义
func decodeUnicodeEscapes(content string) string {
	return unicodeEscapePattern.ReplaceAllStringFunc(content, func(match string) string {
		n, err := strconv.ParseInt(match[2:], 16, 32)
		if err != nil {
			return match
		}
		return string(rune(n))
	})
}

// decodePercentEscapes URL百分号解码
// 整体解码失败时降级为逐个转义解码,坏转义保持原样
func decodePercentEscapes(content string) string {
	if decoded, err := url.PathUnescape(content); err == nil {
		return decoded
	}
	return percentEscapePattern.ReplaceAllStringFunc(content, func(match string) string {
		n, err := strconv.ParseInt(match[1:], 16, 32)
		if err != nil {
			return match
		}
		return string(rune(n))
	})
}

// insertLineBreaks 在语句/块边界后断行
// 压缩代码的多语句长行经此处理后可被行导向规则命中
func insertLineBreaks(content string) string {
	content = stmtBreakPattern.ReplaceAllString(content, ";\n$1")
	content = blockBreakPattern.ReplaceAllString(content, "{\n$1")
	return content
}
