package models

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{"有效的HTTPS URL", "https://example.com", false},
		{"有效的HTTP URL", "http://example.com/path", false},
		{"缺少协议", "example.com", true},
		{"不支持的协议", "ftp://example.com", true},
		{"缺少主机名", "https://", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.url)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) 错误 = %v, 期望错误 = %v", tt.url, err, tt.wantErr)
			}
		})
	}
}

func TestExtractDomain(t *testing.T) {
	tests := []struct {
		name   string
		target string
		want   string
	}{
		{"裸域名", "example.com", "example.com"},
		{"带HTTPS协议", "https://example.com", "example.com"},
		{"带路径的URL", "https://example.com/portal/index.html", "example.com"},
		{"带端口", "https://example.com:8443/app", "example.com:8443"},
		{"裸域名带路径", "example.com/portal", "example.com"},
		{"裸域名带查询", "example.com?debug=1", "example.com"},
		{"首尾空白", "  example.com  ", "example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractDomain(tt.target); got != tt.want {
				t.Errorf("ExtractDomain(%q) = %q, 期望 %q", tt.target, got, tt.want)
			}
		})
	}
}

func TestScanConfig_Validate(t *testing.T) {
	valid := ScanConfig{
		MaxAssets:     30,
		Timeout:       15,
		Workers:       6,
		MaxAssetSize:  10 * 1024 * 1024,
		RetryAttempts: 3,
		MinEntropy:    3.5,
	}

	tests := []struct {
		name    string
		mutate  func(c *ScanConfig)
		wantErr bool
	}{
		{"默认配置有效", func(c *ScanConfig) {}, false},
		{"资产上限为零", func(c *ScanConfig) { c.MaxAssets = 0 }, true},
		{"资产上限过大", func(c *ScanConfig) { c.MaxAssets = 1000 }, true},
		{"超时为零", func(c *ScanConfig) { c.Timeout = 0 }, true},
		{"并发数过大", func(c *ScanConfig) { c.Workers = 200 }, true},
		{"资产大小上限过小", func(c *ScanConfig) { c.MaxAssetSize = 100 }, true},
		{"重试次数为负", func(c *ScanConfig) { c.RetryAttempts = -1 }, true},
		{"熵值阈值超界", func(c *ScanConfig) { c.MinEntropy = 9 }, true},
		{"零重试合法", func(c *ScanConfig) { c.RetryAttempts = 0 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := valid
			tt.mutate(&config)
			err := config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() 错误 = %v, 期望错误 = %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewScanTask(t *testing.T) {
	config := ScanConfig{
		MaxAssets:     30,
		Timeout:       15,
		Workers:       6,
		MaxAssetSize:  10 * 1024 * 1024,
		RetryAttempts: 3,
		MinEntropy:    3.5,
	}

	t.Run("裸域名目标", func(t *testing.T) {
		task, err := NewScanTask("example.com", config)
		if err != nil {
			t.Fatalf("创建任务失败: %v", err)
		}
		if task.ID == "" {
			t.Error("任务ID不应为空")
		}
		if task.Domain != "example.com" {
			t.Errorf("域名 = %q, 期望 example.com", task.Domain)
		}
		if task.Status != ScanStatusPending {
			t.Errorf("初始状态 = %q, 期望 pending", task.Status)
		}
		if task.Mode != ModeStatic {
			t.Errorf("默认模式 = %q, 期望 static", task.Mode)
		}
	})

	t.Run("渲染模式配置", func(t *testing.T) {
		c := config
		c.RenderMode = true
		task, err := NewScanTask("https://example.com", c)
		if err != nil {
			t.Fatalf("创建任务失败: %v", err)
		}
		if task.Mode != ModeRender {
			t.Errorf("模式 = %q, 期望 render", task.Mode)
		}
	})

	t.Run("空目标被拒绝", func(t *testing.T) {
		if _, err := NewScanTask("   ", config); err == nil {
			t.Error("空目标应该返回错误")
		}
	})

	t.Run("无效配置被拒绝", func(t *testing.T) {
		c := config
		c.MaxAssets = 0
		if _, err := NewScanTask("example.com", c); err == nil {
			t.Error("无效配置应该返回错误")
		}
	})
}

func TestScanTask_JSON(t *testing.T) {
	config := ScanConfig{
		MaxAssets:     30,
		Timeout:       15,
		Workers:       6,
		MaxAssetSize:  10 * 1024 * 1024,
		RetryAttempts: 3,
		MinEntropy:    3.5,
	}

	task, err := NewScanTask("example.com", config)
	if err != nil {
		t.Fatalf("创建任务失败: %v", err)
	}

	data, err := task.ToJSON()
	if err != nil {
		t.Fatalf("序列化失败: %v", err)
	}

	var restored ScanTask
	if err := restored.FromJSON(data); err != nil {
		t.Fatalf("反序列化失败: %v", err)
	}

	if restored.ID != task.ID || restored.Domain != task.Domain {
		t.Error("序列化往返后任务信息不一致")
	}
	if restored.Config.MaxAssets != 30 {
		t.Errorf("配置丢失: MaxAssets = %d", restored.Config.MaxAssets)
	}
}

func TestFindingSet_Merge(t *testing.T) {
	t.Run("并集且排序", func(t *testing.T) {
		fs := FindingSet{"emails": {"a@example.com", "c@example.com"}}
		fs.Merge(FindingSet{"emails": {"b@example.com", "a@example.com"}})

		want := []string{"a@example.com", "b@example.com", "c@example.com"}
		if !reflect.DeepEqual(fs["emails"], want) {
			t.Errorf("合并结果 = %v, 期望 %v", fs["emails"], want)
		}
	})

	t.Run("交换律", func(t *testing.T) {
		a1 := FindingSet{"secrets": {"k1", "k2"}}
		a2 := FindingSet{"secrets": {"k2", "k3"}}
		b1 := FindingSet{"secrets": {"k2", "k3"}}
		b2 := FindingSet{"secrets": {"k1", "k2"}}

		a1.Merge(a2)
		b1.Merge(b2)

		if !reflect.DeepEqual(a1, b1) {
			t.Errorf("合并顺序影响了结果: %v != %v", a1, b1)
		}
	})

	t.Run("幂等性", func(t *testing.T) {
		fs := FindingSet{"phones": {"86-13800000000"}}
		src := FindingSet{"phones": {"86-13900000000"}}

		fs.Merge(src)
		first := append([]string(nil), fs["phones"]...)
		fs.Merge(src)

		if !reflect.DeepEqual(fs["phones"], first) {
			t.Errorf("重复合并改变了结果: %v != %v", fs["phones"], first)
		}
	})

	t.Run("空集合不产生类别", func(t *testing.T) {
		fs := make(FindingSet)
		fs.Merge(FindingSet{"emails": {}})
		if _, exists := fs["emails"]; exists {
			t.Error("空列表不应该创建类别")
		}
	})
}

func TestFindingSet_Counters(t *testing.T) {
	fs := FindingSet{
		"secrets":    {"key1", "key2"},
		"jwt_tokens": {"token1"},
		"emails":     {"a@example.com"},
		"urls":       {},
	}

	if got := fs.Total(); got != 4 {
		t.Errorf("Total() = %d, 期望 4", got)
	}
	if got := fs.Categories(); got != 3 {
		t.Errorf("Categories() = %d, 期望 3", got)
	}
	if got := fs.HighRiskCount(); got != 3 {
		t.Errorf("HighRiskCount() = %d, 期望 3", got)
	}
}

func TestScanResult_MergeAsset(t *testing.T) {
	result := NewScanResult("task-1", "example.com")

	result.MergeAsset(&AssetResult{
		URL:      "https://example.com/app.js",
		Size:     1024,
		Findings: FindingSet{"emails": {"dev@example.com"}},
		Collapse: []CollapseStat{{Category: "api_endpoints", Before: 3, After: 1, Removed: 2}},
	})
	result.MergeAsset(&AssetResult{
		URL:      "https://example.com/vendor.js",
		Size:     2048,
		Findings: FindingSet{"emails": {"ops@example.com"}},
	})
	result.MergeAsset(nil)

	if got := result.Findings.Total(); got != 2 {
		t.Errorf("合并后发现总数 = %d, 期望 2", got)
	}
	if result.Stats.TotalBytes != 3072 {
		t.Errorf("TotalBytes = %d, 期望 3072", result.Stats.TotalBytes)
	}
	if result.Stats.CollapsedItems != 2 {
		t.Errorf("CollapsedItems = %d, 期望 2", result.Stats.CollapsedItems)
	}
}

func TestAssetFingerprint(t *testing.T) {
	fp1 := AssetFingerprint("https://example.com/app.js")
	fp2 := AssetFingerprint("https://example.com/app.js")
	fp3 := AssetFingerprint("https://example.com/vendor.js")

	if fp1 != fp2 {
		t.Error("相同URL的指纹应该一致")
	}
	if fp1 == fp3 {
		t.Error("不同URL的指纹不应相同")
	}
	if len(fp1) != 32 {
		t.Errorf("指纹长度 = %d, 期望32位十六进制", len(fp1))
	}
}

func TestIsJSAssetURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want bool
	}{
		{"以.js结尾", "https://example.com/app.js", true},
		{"带查询参数", "https://example.com/app.js?v=1.2", true},
		{"非JS资产", "https://example.com/style.css", false},
		{"路径中含js目录", "https://example.com/js/readme.txt", false},
		{"json不算", "https://example.com/data.json", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsJSAssetURL(tt.url); got != tt.want {
				t.Errorf("IsJSAssetURL(%q) = %v, 期望 %v", tt.url, got, tt.want)
			}
		})
	}
}

func TestBatchCheckpoint_SaveAndLoad(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, BatchCheckpointFilename("targets"))

	config := ScanConfig{
		MaxAssets:     30,
		Timeout:       15,
		Workers:       6,
		MaxAssetSize:  10 * 1024 * 1024,
		RetryAttempts: 3,
		MinEntropy:    3.5,
	}

	cp := NewBatchCheckpoint("batch-1", "targets.txt", config)
	cp.MarkCompleted("example.com")
	cp.MarkCompleted("example.com") // 重复标记不应产生重复项
	cp.MarkCompleted("demo.example.org")
	cp.MarkFailed("broken.example.net")

	if err := cp.SaveToFile(path); err != nil {
		t.Fatalf("保存检查点失败: %v", err)
	}

	restored, err := LoadBatchCheckpointFromFile(path)
	if err != nil {
		t.Fatalf("加载检查点失败: %v", err)
	}

	if len(restored.CompletedTargets) != 2 {
		t.Errorf("已完成目标数 = %d, 期望 2", len(restored.CompletedTargets))
	}
	if !restored.IsCompleted("example.com") {
		t.Error("example.com 应标记为已完成")
	}
	if restored.IsCompleted("broken.example.net") {
		t.Error("失败目标不应算作已完成")
	}
	if restored.Config.MaxAssets != 30 {
		t.Error("配置快照未正确恢复")
	}

	// 文件确实落盘
	if _, err := os.Stat(path); err != nil {
		t.Errorf("检查点文件不存在: %v", err)
	}
}

func TestBuildScanReport(t *testing.T) {
	result := NewScanResult("task-1", "example.com")
	result.TargetURL = "https://example.com"
	result.AssetCount = 5
	result.Success = true
	result.ExecutionTime = 12.5
	result.Findings = FindingSet{
		"secrets": {"deadbeefcafe4096deadbeefcafe4096"},
		"emails":  {"dev@example.com", "ops@example.com"},
	}

	report := BuildScanReport(result)

	if report.ScanInfo.Domain != "example.com" {
		t.Errorf("报告域名 = %q", report.ScanInfo.Domain)
	}
	if report.ScanInfo.JSFilesCount != 5 {
		t.Errorf("JS资产数 = %d, 期望 5", report.ScanInfo.JSFilesCount)
	}
	if report.Summary.TotalFindings != 3 {
		t.Errorf("发现总数 = %d, 期望 3", report.Summary.TotalFindings)
	}
	if report.Summary.CategoriesFound != 2 {
		t.Errorf("类别数 = %d, 期望 2", report.Summary.CategoriesFound)
	}
	if report.Summary.HighRiskItems != 1 {
		t.Errorf("高风险项 = %d, 期望 1", report.Summary.HighRiskItems)
	}

	if _, err := report.ToJSON(); err != nil {
		t.Errorf("报告序列化失败: %v", err)
	}
}

func TestCollapseSummary_Add(t *testing.T) {
	var s CollapseSummary
	s.Add(CollapseStat{Category: "api_endpoints", Before: 5, After: 2, Removed: 3})
	s.Add(CollapseStat{Category: "emails", Before: 2, After: 2, Removed: 0})

	if s.TotalRemoved != 3 {
		t.Errorf("TotalRemoved = %d, 期望 3", s.TotalRemoved)
	}
	if len(s.PerCategory) != 2 {
		t.Errorf("类别统计数 = %d, 期望 2", len(s.PerCategory))
	}

	if _, err := s.ToJSON(); err != nil {
		t.Errorf("汇总序列化失败: %v", err)
	}
}
