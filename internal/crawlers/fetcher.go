package crawlers

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/RecoveryAshes/JsSecretScan/internal/models"
	"github.com/RecoveryAshes/JsSecretScan/internal/utils"
	"github.com/andybalholm/brotli"
)

// 资产获取的错误类型
var (
	ErrAssetTooLarge = errors.New("资产内容超过大小上限")
	ErrNotJavaScript = errors.New("响应内容不是JavaScript")
)

// AssetFetcher JS资产下载器
// 职责: 带重试地下载单个资产,手动解压,内容嗅探。
// 无内部状态,可被多个worker并发使用。
type AssetFetcher struct {
	client         *http.Client
	headerProvider models.HeaderProvider

	// 日志用头部脱敏器
	redactor *utils.HeaderRedactor

	// 单资产大小上限(字节)
	maxSize int64

	// 总尝试次数(首次+重试)
	attempts int
}

// NewAssetFetcher 创建资产下载器
func NewAssetFetcher(config models.ScanConfig, headerProvider models.HeaderProvider) *AssetFetcher {
	transport := &http.Transport{
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: true,
		},
		// Accept-Encoding由我们自己声明并手动解压
		DisableCompression: true,
	}
	if config.Proxy != "" {
		if proxyURL, err := url.Parse(config.Proxy); err == nil {
			transport.Proxy = http.ProxyURL(proxyURL)
		} else {
			utils.Warnf("代理地址无效,忽略: %s", config.Proxy)
		}
	}

	maxSize := config.MaxAssetSize
	if maxSize <= 0 {
		maxSize = models.MaxAssetSize
	}

	return &AssetFetcher{
		client: &http.Client{
			Transport: transport,
			Timeout:   time.Duration(config.Timeout) * time.Second,
		},
		headerProvider: headerProvider,
		redactor:       utils.NewHeaderRedactor(),
		maxSize:        maxSize,
		attempts:       config.RetryAttempts + 1,
	}
}

// Fetch 下载一个JS资产并返回解压后的文本
// 传输层错误按配置重试;超限与内容类错误是资产级终局错误,不重试
func (f *AssetFetcher) Fetch(ctx context.Context, assetURL string) (string, error) {
	var lastErr error

	for attempt := 1; attempt <= f.attempts; attempt++ {
		if attempt > 1 {
			utils.Debugf("重试下载资产 (%d/%d): %s", attempt, f.attempts, assetURL)
		}

		content, err := f.fetchOnce(ctx, assetURL)
		if err == nil {
			return content, nil
		}
		if errors.Is(err, ErrAssetTooLarge) || errors.Is(err, ErrNotJavaScript) {
			return "", err
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		lastErr = err
	}

	return "", fmt.Errorf("下载资产失败(尝试%d次): %w", f.attempts, lastErr)
}

func (f *AssetFetcher) fetchOnce(ctx context.Context, assetURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, assetURL, nil)
	if err != nil {
		return "", fmt.Errorf("构造请求失败: %w", err)
	}

	if f.headerProvider != nil {
		headers, herr := f.headerProvider.GetHeaders()
		if herr != nil {
			utils.Warnf("获取HTTP头部失败: %v", herr)
		} else {
			for name, values := range headers {
				if len(values) > 0 {
					req.Header.Set(name, values[0])
				}
			}
		}
	}
	req.Header.Set("Accept-Encoding", "gzip, deflate, br")
	utils.Debugf("请求头部 [%s]: %s", assetURL, f.redactor.RedactToString(req.Header))

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("请求失败: %w", err)
	}
	defer resp.Body.Close()

	// 多读1字节以区分"正好到上限"与"超过上限"
	raw, err := io.ReadAll(io.LimitReader(resp.Body, f.maxSize+1))
	if err != nil {
		return "", fmt.Errorf("读取响应失败: %w", err)
	}
	if int64(len(raw)) > f.maxSize {
		return "", fmt.Errorf("%w: %s 超过 %d bytes", ErrAssetTooLarge, assetURL, f.maxSize)
	}

	body, err := decompressBody(resp.Header.Get("Content-Encoding"), raw)
	if err != nil {
		utils.Warnf("解压响应失败 [%s]: %v, 使用原始内容", assetURL, err)
		body = raw
	}
	if int64(len(body)) > f.maxSize {
		return "", fmt.Errorf("%w: %s 解压后超过 %d bytes", ErrAssetTooLarge, assetURL, f.maxSize)
	}

	contentType := resp.Header.Get("Content-Type")

	// 反爬虫站点会对JS路径返回HTML错误页,按资产级噪声丢弃
	if looksLikeHTML(body) {
		return "", fmt.Errorf("%w: %s 返回HTML页面", ErrNotJavaScript, assetURL)
	}

	// 假HTTP错误: 状态码>=400但body是真实JS代码,内容检测通过则照常分析
	if resp.StatusCode >= 400 {
		if !isLikelyJavaScript(contentType, body) {
			return "", fmt.Errorf("HTTP %d: %s", resp.StatusCode, assetURL)
		}
		utils.Debugf("检测到假HTTP错误 [%s]: 状态码%d但内容有效", assetURL, resp.StatusCode)
	}

	return string(body), nil
}

// looksLikeHTML 嗅探body是否是HTML页面
func looksLikeHTML(body []byte) bool {
	sample := body
	if len(sample) > 256 {
		sample = sample[:256]
	}
	head := strings.ToLower(strings.TrimSpace(string(sample)))
	return strings.HasPrefix(head, "<!doctype") || strings.HasPrefix(head, "<html")
}

// isLikelyJavaScript 检测响应内容是否为有效的JavaScript
// 用于绕过反爬虫的假404响应(返回404但body包含真实JS代码)
func isLikelyJavaScript(contentType string, body []byte) bool {
	// Content-Type是最可靠的指标
	if strings.Contains(strings.ToLower(contentType), "javascript") {
		return true
	}

	// 内容特征检测(只看前1KB)
	sample := body
	if len(body) > 1024 {
		sample = body[:1024]
	}

	jsKeywords := []string{"function", "var", "const", "let", "class", "import", "export", "=>"}
	matchCount := 0
	for _, keyword := range jsKeywords {
		if strings.Contains(string(sample), keyword) {
			matchCount++
		}
	}

	// 至少匹配2个关键字才认为是JS,避免偶发字样误判
	return matchCount >= 2
}

// decompressBody 根据Content-Encoding头部解压响应体
// 支持 gzip, deflate, br (Brotli) 三种压缩格式
func decompressBody(contentEncoding string, body []byte) ([]byte, error) {
	encoding := strings.ToLower(strings.TrimSpace(contentEncoding))

	switch encoding {
	case "gzip":
		reader, err := gzip.NewReader(bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("gzip解压失败: %w", err)
		}
		defer reader.Close()

		decompressed, err := io.ReadAll(reader)
		if err != nil {
			return nil, fmt.Errorf("gzip读取失败: %w", err)
		}
		return decompressed, nil

	case "deflate":
		reader := flate.NewReader(bytes.NewReader(body))
		defer reader.Close()

		decompressed, err := io.ReadAll(reader)
		if err != nil {
			return nil, fmt.Errorf("deflate读取失败: %w", err)
		}
		return decompressed, nil

	case "br":
		decompressed, err := io.ReadAll(brotli.NewReader(bytes.NewReader(body)))
		if err != nil {
			return nil, fmt.Errorf("brotli读取失败: %w", err)
		}
		return decompressed, nil

	case "":
		return body, nil

	default:
		utils.Warnf("未知的Content-Encoding: %s", contentEncoding)
		return body, nil
	}
}
