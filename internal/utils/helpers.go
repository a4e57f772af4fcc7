package utils

import (
	"bufio"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/schollz/progressbar/v3"
)

// ReadTargetsFromFile 从文件中读取扫描目标列表
// 每行一个目标,支持裸域名(example.com)和完整URL,#开头为注释
func ReadTargetsFromFile(filepath string) ([]string, error) {
	file, err := os.Open(filepath)
	if err != nil {
		return nil, fmt.Errorf("打开目标文件失败: %w", err)
	}
	defer file.Close()

	targets := make([]string, 0)
	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// 跳过空行和注释行
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// 验证目标格式
		if err := ValidateTarget(line); err != nil {
			Warnf("跳过无效目标 (行 %d): %s - %v", lineNum, line, err)
			continue
		}

		targets = append(targets, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("读取目标文件失败: %w", err)
	}

	if len(targets) == 0 {
		return nil, fmt.Errorf("目标文件中没有有效的目标")
	}

	Infof("从文件加载了 %d 个目标", len(targets))
	return targets, nil
}

// ValidateTarget 验证扫描目标格式
// 带协议的必须是合法HTTP(S) URL;裸域名只要求非空主机名
func ValidateTarget(target string) error {
	target = strings.TrimSpace(target)
	if target == "" {
		return fmt.Errorf("目标为空")
	}

	if strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://") {
		return ValidateURL(target)
	}

	// 裸域名: 不允许空格和内嵌协议
	if strings.ContainsAny(target, " \t") {
		return fmt.Errorf("目标包含空白字符")
	}
	if strings.Contains(target, "://") {
		return fmt.Errorf("目标协议必须是http或https")
	}
	return nil
}

// ValidateURL 验证URL格式
func ValidateURL(rawURL string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("URL格式无效: %w", err)
	}

	if parsed.Scheme == "" {
		return fmt.Errorf("URL缺少协议(http/https)")
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("URL协议必须是http或https")
	}

	if parsed.Host == "" {
		return fmt.Errorf("URL缺少主机名")
	}

	return nil
}

// NewProgressBar 创建统一风格的进度条
func NewProgressBar(total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWidth(30),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}
