package utils

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeTargetsFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "targets.txt")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("写入目标文件失败: %v", err)
	}
	return path
}

func TestReadTargetsFromFile(t *testing.T) {
	path := writeTargetsFile(t, `# 生产环境目标
example.com
https://portal.example-corp.cn

# 下面是无效行
ftp://bad.example.com
http://demo.example.org/app
`)

	targets, err := ReadTargetsFromFile(path)
	if err != nil {
		t.Fatalf("读取目标文件失败: %v", err)
	}

	want := []string{"example.com", "https://portal.example-corp.cn", "http://demo.example.org/app"}
	if !reflect.DeepEqual(targets, want) {
		t.Errorf("目标列表 = %v, 期望 %v", targets, want)
	}
}

func TestReadTargetsFromFile_AllInvalid(t *testing.T) {
	path := writeTargetsFile(t, "# 只有注释\n\nftp://bad.example.com\n")

	if _, err := ReadTargetsFromFile(path); err == nil {
		t.Error("没有有效目标时应返回错误")
	}
}

func TestReadTargetsFromFile_Missing(t *testing.T) {
	if _, err := ReadTargetsFromFile(filepath.Join(t.TempDir(), "nonexistent.txt")); err == nil {
		t.Error("文件不存在应返回错误")
	}
}

func TestValidateTarget(t *testing.T) {
	tests := []struct {
		name    string
		target  string
		wantErr bool
	}{
		{"裸域名", "example.com", false},
		{"带端口的裸域名", "example.com:8443", false},
		{"完整HTTPS URL", "https://example.com/path", false},
		{"完整HTTP URL", "http://example.com", false},
		{"空目标", "   ", true},
		{"含空格", "exam ple.com", true},
		{"非HTTP协议", "ftp://example.com", true},
		{"HTTPS缺主机", "https://", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTarget(tt.target)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateTarget(%q) 错误 = %v, 期望错误 = %v", tt.target, err, tt.wantErr)
			}
		})
	}
}

func TestNewProgressBar(t *testing.T) {
	bar := NewProgressBar(10, "测试进度")
	if bar == nil {
		t.Fatal("进度条不应为nil")
	}
	if err := bar.Add(3); err != nil {
		t.Errorf("进度推进失败: %v", err)
	}
	if err := bar.Finish(); err != nil {
		t.Errorf("进度完成失败: %v", err)
	}
}
