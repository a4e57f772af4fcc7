package crawlers

import (
	"compress/gzip"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/RecoveryAshes/JsSecretScan/internal/models"
)

func newTestFetcher(maxAssetSize int64, retryAttempts int) *AssetFetcher {
	return NewAssetFetcher(models.ScanConfig{
		MaxAssets:     30,
		Timeout:       5,
		Workers:       2,
		MaxAssetSize:  maxAssetSize,
		RetryAttempts: retryAttempts,
		MinEntropy:    3.5,
	}, nil)
}

func TestAssetFetcher_Fetch(t *testing.T) {
	jsBody := `function init() { var config = {}; const key = "value"; }`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/javascript")
		_, _ = w.Write([]byte(jsBody))
	}))
	defer server.Close()

	fetcher := newTestFetcher(1024*1024, 0)
	content, err := fetcher.Fetch(context.Background(), server.URL+"/app.js")
	if err != nil {
		t.Fatalf("下载失败: %v", err)
	}
	if content != jsBody {
		t.Errorf("内容不匹配: %q", content)
	}
}

func TestAssetFetcher_Fetch_GzipEncoded(t *testing.T) {
	jsBody := `function bootstrap() { const app = {}; var state = null; }`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
			t.Errorf("请求未声明gzip: %q", r.Header.Get("Accept-Encoding"))
		}
		w.Header().Set("Content-Type", "application/javascript")
		w.Header().Set("Content-Encoding", "gzip")
		gz := gzip.NewWriter(w)
		_, _ = gz.Write([]byte(jsBody))
		_ = gz.Close()
	}))
	defer server.Close()

	fetcher := newTestFetcher(1024*1024, 0)
	content, err := fetcher.Fetch(context.Background(), server.URL+"/bundle.js")
	if err != nil {
		t.Fatalf("下载失败: %v", err)
	}
	if content != jsBody {
		t.Errorf("解压后内容不匹配: %q", content)
	}
}

func TestAssetFetcher_Fetch_HTMLErrorPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<!DOCTYPE html><html><body>Access Denied</body></html>`))
	}))
	defer server.Close()

	fetcher := newTestFetcher(1024*1024, 2)
	_, err := fetcher.Fetch(context.Background(), server.URL+"/app.js")
	if !errors.Is(err, ErrNotJavaScript) {
		t.Errorf("期望ErrNotJavaScript, 得到: %v", err)
	}
}

func TestAssetFetcher_Fetch_TooLarge(t *testing.T) {
	var requests int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		w.Header().Set("Content-Type", "application/javascript")
		_, _ = w.Write([]byte(strings.Repeat("a", 4096)))
	}))
	defer server.Close()

	fetcher := newTestFetcher(1024, 3)
	_, err := fetcher.Fetch(context.Background(), server.URL+"/huge.js")
	if !errors.Is(err, ErrAssetTooLarge) {
		t.Fatalf("期望ErrAssetTooLarge, 得到: %v", err)
	}

	// 超限是终局错误,不应重试
	if got := atomic.LoadInt32(&requests); got != 1 {
		t.Errorf("请求次数 = %d, 期望 1 (不重试)", got)
	}
}

func TestAssetFetcher_Fetch_FakeNotFound(t *testing.T) {
	jsBody := `function probe() { var token = "x"; const flag = true; }`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/javascript")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(jsBody))
	}))
	defer server.Close()

	// 反爬虫站点返回404但body是真实JS,应照常接受
	fetcher := newTestFetcher(1024*1024, 0)
	content, err := fetcher.Fetch(context.Background(), server.URL+"/app.js")
	if err != nil {
		t.Fatalf("假404应被接受: %v", err)
	}
	if content != jsBody {
		t.Errorf("内容不匹配: %q", content)
	}
}

func TestAssetFetcher_Fetch_RetryOnServerError(t *testing.T) {
	var requests int32
	jsBody := `function retry() { var ok = true; const done = 1; }`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&requests, 1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte("server error"))
			return
		}
		w.Header().Set("Content-Type", "application/javascript")
		_, _ = w.Write([]byte(jsBody))
	}))
	defer server.Close()

	fetcher := newTestFetcher(1024*1024, 1)
	content, err := fetcher.Fetch(context.Background(), server.URL+"/flaky.js")
	if err != nil {
		t.Fatalf("重试后应成功: %v", err)
	}
	if content != jsBody {
		t.Errorf("内容不匹配: %q", content)
	}
	if got := atomic.LoadInt32(&requests); got != 2 {
		t.Errorf("请求次数 = %d, 期望 2", got)
	}
}

func TestAssetFetcher_Fetch_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fetcher := newTestFetcher(1024*1024, 3)
	_, err := fetcher.Fetch(ctx, server.URL+"/app.js")
	if err == nil {
		t.Fatal("取消的上下文应返回错误")
	}
}
