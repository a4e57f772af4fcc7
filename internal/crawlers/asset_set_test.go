package crawlers

import (
	"fmt"
	"sync"
	"testing"

	"github.com/RecoveryAshes/JsSecretScan/internal/models"
)

func TestScanState_TryAdd(t *testing.T) {
	t.Run("接纳新资产", func(t *testing.T) {
		s := NewScanState(5)
		if !s.TryAdd(models.NewAssetRef("https://a.cn/app.js", models.SourceScriptTag)) {
			t.Fatal("首次接纳应成功")
		}
		if s.DiscoveredCount() != 1 {
			t.Errorf("DiscoveredCount = %d, 期望 1", s.DiscoveredCount())
		}
		if !s.Contains("https://a.cn/app.js") {
			t.Error("Contains应能查到已接纳的URL")
		}
		if s.Contains("https://a.cn/other.js") {
			t.Error("Contains不应查到未接纳的URL")
		}
	})

	t.Run("重复URL被拒绝", func(t *testing.T) {
		s := NewScanState(5)
		s.TryAdd(models.NewAssetRef("https://a.cn/app.js", models.SourceScriptTag))
		if s.TryAdd(models.NewAssetRef("https://a.cn/app.js", models.SourceTextRule)) {
			t.Error("重复URL不应被再次接纳")
		}
		if s.DiscoveredCount() != 1 {
			t.Errorf("DiscoveredCount = %d, 期望 1", s.DiscoveredCount())
		}
	})

	t.Run("达到上限后拒绝", func(t *testing.T) {
		s := NewScanState(2)
		s.TryAdd(models.NewAssetRef("https://a.cn/1.js", models.SourceScriptTag))
		s.TryAdd(models.NewAssetRef("https://a.cn/2.js", models.SourceScriptTag))
		if s.TryAdd(models.NewAssetRef("https://a.cn/3.js", models.SourceScriptTag)) {
			t.Error("超过上限的资产不应被接纳")
		}
		if !s.Full() {
			t.Error("Full()应返回true")
		}
	})
}

func TestScanState_CapUnderConcurrency(t *testing.T) {
	// 并发发现路径下集合大小也不能超过上限
	const maxAssets = 5
	const goroutines = 10
	const perGoroutine = 30

	s := NewScanState(maxAssets)

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for i := 0; i < perGoroutine; i++ {
				url := fmt.Sprintf("https://a.cn/g%d/a%d.js", id, i)
				s.TryAdd(models.NewAssetRef(url, models.SourceTextRule))
			}
		}(g)
	}
	wg.Wait()

	if got := s.DiscoveredCount(); got != maxAssets {
		t.Errorf("并发接纳后数量 = %d, 期望恰好 %d", got, maxAssets)
	}
	if got := len(s.Assets()); got != maxAssets {
		t.Errorf("Assets()快照长度 = %d, 期望 %d", got, maxAssets)
	}
}

func TestScanState_MarkAnalyzed(t *testing.T) {
	s := NewScanState(10)

	fp := models.AssetFingerprint("https://a.cn/app.js")
	if !s.MarkAnalyzed(fp) {
		t.Fatal("首次标记应返回true")
	}
	if s.MarkAnalyzed(fp) {
		t.Error("重复标记应返回false")
	}

	// 不同URL的指纹互不影响
	if !s.MarkAnalyzed(models.AssetFingerprint("https://a.cn/other.js")) {
		t.Error("不同指纹的首次标记应返回true")
	}
}
