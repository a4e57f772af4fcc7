package crawlers

import (
	"crypto/tls"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/RecoveryAshes/JsSecretScan/internal/models"
	"github.com/RecoveryAshes/JsSecretScan/internal/utils"
	"github.com/gocolly/colly/v2"
)

// PageCapture 一次根页面抓取的产物
type PageCapture struct {
	// HTML 原始页面标记(文本规则的输入)
	HTML string

	// ScriptSrcs script[src]标签的原始src值,按文档顺序
	ScriptSrcs []string

	// InlineJS 所有内联脚本拼接后的文本
	InlineJS string

	// InlineCount 内联脚本块数量
	InlineCount int
}

// PageCollector 根页面采集器(使用Colly)
// 只访问目标根页面本身,不做链接跟随
type PageCollector struct {
	// 请求超时
	timeout time.Duration

	// 代理地址(空表示直连)
	proxy string

	// HTTP头部提供者
	headerProvider models.HeaderProvider
}

// NewPageCollector 创建根页面采集器
func NewPageCollector(timeout time.Duration, proxy string, headerProvider models.HeaderProvider) *PageCollector {
	return &PageCollector{
		timeout:        timeout,
		proxy:          proxy,
		headerProvider: headerProvider,
	}
}

// Fetch 抓取目标根页面
// 单次同步Visit,回调收集script标签与原始标记。
// 抓取失败返回错误,由编排器决定降级到HTTP重试。
func (pc *PageCollector) Fetch(targetURL string) (*PageCapture, error) {
	c := colly.NewCollector()

	// 跳过证书验证,允许访问自签名或过期证书的站点
	httpClient := &http.Client{
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{
				InsecureSkipVerify: true,
			},
		},
		Timeout: pc.timeout,
	}
	c.SetClient(httpClient)
	c.SetRequestTimeout(pc.timeout)

	if pc.proxy != "" {
		if err := c.SetProxy(pc.proxy); err != nil {
			return nil, fmt.Errorf("设置代理失败: %w", err)
		}
	}

	capture := &PageCapture{}
	var inlineParts []string
	var fetchErr error

	c.OnRequest(func(r *colly.Request) {
		if pc.headerProvider != nil {
			headers, err := pc.headerProvider.GetHeaders()
			if err != nil {
				utils.Warnf("获取HTTP头部失败: %v", err)
			} else {
				for name, values := range headers {
					if len(values) > 0 {
						r.Headers.Set(name, values[0])
					}
				}
			}
		}
		utils.Debugf("访问根页面: %s", r.URL.String())
	})

	c.OnHTML("script[src]", func(e *colly.HTMLElement) {
		src := strings.TrimSpace(e.Attr("src"))
		if src != "" {
			capture.ScriptSrcs = append(capture.ScriptSrcs, src)
		}
	})

	c.OnHTML("script:not([src])", func(e *colly.HTMLElement) {
		text := strings.TrimSpace(e.Text)
		if text != "" {
			inlineParts = append(inlineParts, text)
		}
	})

	c.OnResponse(func(r *colly.Response) {
		capture.HTML = string(r.Body)
	})

	c.OnError(func(r *colly.Response, err error) {
		fetchErr = err
	})

	if err := c.Visit(targetURL); err != nil {
		return nil, fmt.Errorf("访问根页面失败: %w", err)
	}
	c.Wait()

	if fetchErr != nil {
		return nil, fmt.Errorf("抓取根页面失败: %w", fetchErr)
	}
	if capture.HTML == "" {
		return nil, fmt.Errorf("根页面响应为空: %s", targetURL)
	}

	capture.InlineJS = strings.Join(inlineParts, "\n")
	capture.InlineCount = len(inlineParts)

	utils.Debugf("根页面抓取完成: %d bytes, script标签=%d, 内联脚本=%d",
		len(capture.HTML), len(capture.ScriptSrcs), capture.InlineCount)

	return capture, nil
}
