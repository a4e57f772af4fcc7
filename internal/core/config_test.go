package core

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig_Defaults(t *testing.T) {
	// 指向不存在配置文件的目录,应回落到默认值
	config, err := LoadConfig("")
	if err != nil {
		t.Fatalf("加载默认配置失败: %v", err)
	}

	scan := config.GetScanConfig()
	if scan.MaxAssets != 30 {
		t.Errorf("默认资产上限 = %d, 期望 30", scan.MaxAssets)
	}
	if scan.Timeout != 15 {
		t.Errorf("默认超时 = %d, 期望 15", scan.Timeout)
	}
	if scan.Workers != 6 {
		t.Errorf("默认并发数 = %d, 期望 6", scan.Workers)
	}
	if scan.MaxAssetSize != 10*1024*1024 {
		t.Errorf("默认资产大小上限 = %d, 期望 10MB", scan.MaxAssetSize)
	}
	if scan.RetryAttempts != 3 {
		t.Errorf("默认重试次数 = %d, 期望 3", scan.RetryAttempts)
	}
	if scan.MinEntropy != 3.5 {
		t.Errorf("默认熵值阈值 = %f, 期望 3.5", scan.MinEntropy)
	}
	if scan.RenderMode {
		t.Error("渲染模式默认应关闭")
	}

	if config.Output.BaseDir != "output" {
		t.Errorf("默认输出目录 = %q, 期望 output", config.Output.BaseDir)
	}
	if config.Output.Format != "all" {
		t.Errorf("默认报告格式 = %q, 期望 all", config.Output.Format)
	}
	if config.Logging.Level != "info" {
		t.Errorf("默认日志级别 = %q, 期望 info", config.Logging.Level)
	}

	if err := scan.Validate(); err != nil {
		t.Errorf("默认扫描配置应通过验证: %v", err)
	}
}

func TestLoadConfig_FromFile(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "config.yaml")
	content := `scan:
  max_assets: 50
  timeout: 30
  workers: 10
filter:
  min_entropy: 4.0
  exclude_domains:
    - tracker.internal.example
logging:
  level: debug
output:
  format: json
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("写入配置文件失败: %v", err)
	}

	config, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("加载配置失败: %v", err)
	}

	scan := config.GetScanConfig()
	if scan.MaxAssets != 50 {
		t.Errorf("资产上限 = %d, 期望 50", scan.MaxAssets)
	}
	if scan.Timeout != 30 {
		t.Errorf("超时 = %d, 期望 30", scan.Timeout)
	}
	if scan.Workers != 10 {
		t.Errorf("并发数 = %d, 期望 10", scan.Workers)
	}
	// filter段并入扫描配置
	if scan.MinEntropy != 4.0 {
		t.Errorf("熵值阈值 = %f, 期望 4.0", scan.MinEntropy)
	}
	if len(scan.ExcludeDomains) != 1 || scan.ExcludeDomains[0] != "tracker.internal.example" {
		t.Errorf("排除域名 = %v", scan.ExcludeDomains)
	}
	// 未覆盖的项保持默认
	if scan.RetryAttempts != 3 {
		t.Errorf("重试次数 = %d, 期望默认 3", scan.RetryAttempts)
	}
	if config.Logging.Level != "debug" {
		t.Errorf("日志级别 = %q, 期望 debug", config.Logging.Level)
	}
	if config.Output.Format != "json" {
		t.Errorf("报告格式 = %q, 期望 json", config.Output.Format)
	}
}

func TestConfig_MergeCLIFlags(t *testing.T) {
	config, err := LoadConfig("")
	if err != nil {
		t.Fatalf("加载默认配置失败: %v", err)
	}

	config.MergeCLIFlags(100, 60, 12, true, "http://127.0.0.1:8080", "csv", "/tmp/reports")

	if config.Scan.MaxAssets != 100 {
		t.Errorf("资产上限 = %d, 期望 100", config.Scan.MaxAssets)
	}
	if config.Scan.Timeout != 60 {
		t.Errorf("超时 = %d, 期望 60", config.Scan.Timeout)
	}
	if config.Scan.Workers != 12 {
		t.Errorf("并发数 = %d, 期望 12", config.Scan.Workers)
	}
	if !config.Scan.RenderMode {
		t.Error("渲染模式应被开启")
	}
	if config.Scan.Proxy != "http://127.0.0.1:8080" {
		t.Errorf("代理 = %q", config.Scan.Proxy)
	}
	if config.Output.Format != "csv" {
		t.Errorf("报告格式 = %q, 期望 csv", config.Output.Format)
	}
	if config.Output.BaseDir != "/tmp/reports" {
		t.Errorf("输出目录 = %q", config.Output.BaseDir)
	}

	// 零值参数不覆盖现有配置
	config.MergeCLIFlags(0, 0, 0, false, "", "", "")
	if config.Scan.MaxAssets != 100 || config.Scan.Timeout != 60 {
		t.Error("零值参数不应覆盖已有配置")
	}
	if !config.Scan.RenderMode {
		t.Error("render=false不应关闭已开启的渲染模式")
	}
}
