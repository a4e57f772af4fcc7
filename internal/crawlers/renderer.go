package crawlers

import (
	"fmt"
	"time"

	"github.com/RecoveryAshes/JsSecretScan/internal/models"
	"github.com/RecoveryAshes/JsSecretScan/internal/utils"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// PageRenderer 根页面渲染器(使用Rod)
// SPA站点的script标签由前端路由在运行后才注入,
// 渲染模式取最终HTML,交给同一套资产定位规则处理
type PageRenderer struct {
	// 页面加载超时
	timeout time.Duration

	// 代理地址(空表示直连)
	proxy string

	// HTTP头部提供者
	headerProvider models.HeaderProvider

	// 资源监控器,内存压力下拒绝启动浏览器
	monitor *ResourceMonitor
}

// NewPageRenderer 创建根页面渲染器
func NewPageRenderer(timeout time.Duration, proxy string, headerProvider models.HeaderProvider, monitor *ResourceMonitor) *PageRenderer {
	return &PageRenderer{
		timeout:        timeout,
		proxy:          proxy,
		headerProvider: headerProvider,
		monitor:        monitor,
	}
}

// Render 渲染目标根页面并返回最终HTML
// 浏览器按次启动按次关闭;panic转换为普通错误,由编排器降级处理
func (pr *PageRenderer) Render(targetURL string) (html string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("浏览器渲染panic: %v", r)
		}
	}()

	if pr.monitor != nil {
		if ok, reason := pr.monitor.CheckResourceAvailability(); !ok {
			return "", fmt.Errorf("系统资源不足,拒绝启动渲染模式: %s", reason)
		}
	}

	l := launcher.New().Headless(true)

	// 跳过证书验证,允许访问自签名或过期证书的站点
	l = l.Set("ignore-certificate-errors")

	if pr.proxy != "" {
		l = l.Proxy(pr.proxy)
	}

	controlURL, err := l.Launch()
	if err != nil {
		return "", fmt.Errorf("启动浏览器失败: %w", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return "", fmt.Errorf("连接浏览器失败: %w", err)
	}
	defer browser.MustClose()

	utils.Debugf("浏览器已启动: %s", controlURL)

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", fmt.Errorf("创建页面失败: %w", err)
	}
	page = page.Timeout(pr.timeout)

	if pr.headerProvider != nil {
		headers, herr := pr.headerProvider.GetHeaders()
		if herr != nil {
			utils.Warnf("获取HTTP头部失败: %v", herr)
		} else {
			var pairs []string
			for name, values := range headers {
				if len(values) > 0 {
					pairs = append(pairs, name, values[0])
				}
			}
			if len(pairs) > 0 {
				if _, herr := page.SetExtraHeaders(pairs); herr != nil {
					utils.Warnf("设置浏览器头部失败: %v", herr)
				}
			}
		}
	}

	if err := page.Navigate(targetURL); err != nil {
		return "", fmt.Errorf("导航失败: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return "", fmt.Errorf("等待页面加载失败: %w", err)
	}

	html, err = page.HTML()
	if err != nil {
		return "", fmt.Errorf("获取页面HTML失败: %w", err)
	}

	utils.Debugf("页面渲染完成: %s (%d bytes)", targetURL, len(html))
	return html, nil
}
