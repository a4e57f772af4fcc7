package analyzer

import "math"

// Entropy 计算字符串的香农熵(以2为底, 单位bit/字符)
// 按观测到的字符频率分布计算,用于衡量"像不像随机密钥"
func Entropy(text string) float64 {
	runes := []rune(text)
	if len(runes) == 0 {
		return 0
	}

	freq := make(map[rune]int, len(runes))
	for _, r := range runes {
		freq[r]++
	}

	length := float64(len(runes))
	entropy := 0.0
	for _, count := range freq {
		p := float64(count) / length
		entropy -= p * math.Log2(p)
	}
	return entropy
}
