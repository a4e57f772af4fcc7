package core

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/RecoveryAshes/JsSecretScan/internal/analyzer"
	"github.com/RecoveryAshes/JsSecretScan/internal/crawlers"
	"github.com/RecoveryAshes/JsSecretScan/internal/models"
	"github.com/RecoveryAshes/JsSecretScan/internal/rules"
	"github.com/RecoveryAshes/JsSecretScan/internal/utils"
)

// Scanner 单目标扫描编排器
// 负责: 协议探测 → 首页获取 → 资产发现 → 并发分析 → 结果归并
type Scanner struct {
	task           *models.ScanTask
	config         models.ScanConfig
	headerProvider models.HeaderProvider

	// 扫描期状态 (资产集合 + 分析指纹集)
	state     *crawlers.ScanState
	extractor *crawlers.AssetExtractor
	fetcher   *crawlers.AssetFetcher
	analyzer  *analyzer.Analyzer
	monitor   *crawlers.ResourceMonitor
}

// NewScanner 创建扫描器
// target 可以是裸域名(example.com)或完整URL(https://example.com/portal)
func NewScanner(target string, config models.ScanConfig, headerProvider models.HeaderProvider) (*Scanner, error) {
	task, err := models.NewScanTask(target, config)
	if err != nil {
		return nil, fmt.Errorf("创建扫描任务失败: %w", err)
	}

	state := crawlers.NewScanState(config.MaxAssets)
	monitor := crawlers.NewResourceMonitor(crawlers.ResourceMonitorConfig{
		MaxWorkersLimit: config.Workers,
	})

	return &Scanner{
		task:           task,
		config:         config,
		headerProvider: headerProvider,
		state:          state,
		extractor:      crawlers.NewAssetExtractor(state, config.ExcludeDomains),
		fetcher:        crawlers.NewAssetFetcher(config, headerProvider),
		analyzer:       analyzer.New(rules.DefaultCorpus(), config.MinEntropy),
		monitor:        monitor,
	}, nil
}

// Task 返回关联的扫描任务
func (s *Scanner) Task() *models.ScanTask {
	return s.task
}

// Scan 执行一次完整扫描
// 目标级失败(首页不可达等)体现在结果的Success/Error上,不返回Go错误;
// 资产级失败只影响单个资产
func (s *Scanner) Scan(ctx context.Context) *models.ScanResult {
	startTime := time.Now()
	now := startTime
	s.task.StartedAt = &now
	s.task.Status = models.ScanStatusRunning

	result := models.NewScanResult(s.task.ID, s.task.Domain)

	// 后台采样内存/CPU,供工作池收缩和渲染门槛使用
	s.monitor.StartMonitoring(1 * time.Second)
	defer s.monitor.StopMonitoring()

	utils.Infof("🚀 开始扫描: %s", s.task.Target)
	utils.Infof("资产上限: %d, 并发数: %d, 模式: %s", s.config.MaxAssets, s.config.Workers, s.task.Mode)

	// 首页获取 (含协议回退)
	rootURL, capture, err := s.fetchRootPage(ctx)
	if err != nil {
		s.task.Status = models.ScanStatusFailed
		s.task.ErrorMessage = err.Error()
		result.Success = false
		result.Error = err.Error()
		result.ExecutionTime = time.Since(startTime).Seconds()
		utils.Errorf("❌ 目标不可达: %v", err)
		return result
	}
	s.task.TargetURL = rootURL
	result.TargetURL = rootURL

	base, parseErr := url.Parse(rootURL)
	if parseErr != nil {
		s.task.Status = models.ScanStatusFailed
		result.Success = false
		result.Error = fmt.Sprintf("解析根URL失败: %v", parseErr)
		result.ExecutionTime = time.Since(startTime).Seconds()
		return result
	}

	// 资产发现: script标签优先,其后是页面文本规则
	tagCount := s.extractor.CollectScriptSrcs(base, capture.ScriptSrcs)
	textCount := s.extractor.CollectFromMarkup(base, capture.HTML)
	utils.Infof("🔍 发现JS资产: %d个 (标签 %d, 文本规则 %d)", s.state.DiscoveredCount(), tagCount, textCount)

	// 内联脚本作为单个伪资产同步分析
	if capture.InlineCount > 0 {
		s.analyzeInline(rootURL, capture, result)
	}

	// 并发分析外部资产
	s.analyzeAssets(ctx, result)

	// 收尾统计
	result.Stats.AssetsDiscovered = s.state.DiscoveredCount()
	result.Stats.InlineScripts = capture.InlineCount
	result.Stats.TotalFindings = result.Findings.Total()
	result.Stats.Duration = time.Since(startTime).Seconds()
	result.ExecutionTime = result.Stats.Duration
	result.Success = true

	done := time.Now()
	s.task.CompletedAt = &done
	s.task.Status = models.ScanStatusCompleted
	s.task.Stats = result.Stats

	utils.Infof("✅ 扫描完成: 发现 %d 项敏感信息 (%d 个类别), 耗时 %.2f秒",
		result.Stats.TotalFindings, result.Findings.Categories(), result.ExecutionTime)
	mem := s.monitor.GetMemoryStatus()
	utils.Debugf("内存状态: 已分配 %.1fMB, 压力等级 %s",
		float64(mem.AllocatedMemory)/(1024*1024), mem.MemoryPressure)
	s.logFindings(result)

	return result
}

// logFindings 按类别输出发现明细到调试日志
// 密钥类值做脱敏,完整值只进报告文件
func (s *Scanner) logFindings(result *models.ScanResult) {
	for category, items := range result.Findings {
		utils.Debugf("📊 %s: %d 项", category, len(items))
		for _, v := range items {
			utils.Debugf("  - %s", utils.RedactFinding(category, v))
		}
	}
}

// fetchRootPage 获取根页面
// 无协议目标先尝试HTTPS,失败后回退HTTP;渲染模式失败时回退静态获取
func (s *Scanner) fetchRootPage(ctx context.Context) (string, *crawlers.PageCapture, error) {
	var lastErr error

	for _, candidate := range s.rootCandidates() {
		if err := ctx.Err(); err != nil {
			return "", nil, err
		}

		capture, err := s.fetchPage(candidate)
		if err == nil {
			return candidate, capture, nil
		}
		lastErr = err
		utils.Warnf("⚠️ 首页获取失败 [%s]: %v", candidate, err)
	}

	return "", nil, fmt.Errorf("所有协议尝试均失败: %w", lastErr)
}

// rootCandidates 根据目标形式生成待尝试的根URL列表
func (s *Scanner) rootCandidates() []string {
	target := strings.TrimSpace(s.task.Target)
	if strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://") {
		return []string{target}
	}
	return []string{"https://" + target, "http://" + target}
}

// fetchPage 按模式获取单个页面
func (s *Scanner) fetchPage(pageURL string) (*crawlers.PageCapture, error) {
	timeout := time.Duration(s.config.Timeout) * time.Second

	if s.task.Mode == models.ModeRender {
		renderer := crawlers.NewPageRenderer(timeout, s.config.Proxy, s.headerProvider, s.monitor)
		html, err := renderer.Render(pageURL)
		if err == nil {
			srcs, inline := crawlers.ParseScriptElements(html)
			return &crawlers.PageCapture{
				HTML:        html,
				ScriptSrcs:  srcs,
				InlineJS:    strings.Join(inline, "\n"),
				InlineCount: len(inline),
			}, nil
		}
		utils.Warnf("⚠️ 渲染模式失败,回退静态获取: %v", err)
	}

	collector := crawlers.NewPageCollector(timeout, s.config.Proxy, s.headerProvider)
	return collector.Fetch(pageURL)
}

// analyzeInline 分析内联脚本伪资产
// 同步执行,不占用工作池,也不计入资产上限
func (s *Scanner) analyzeInline(rootURL string, capture *crawlers.PageCapture, result *models.ScanResult) {
	inlineURL := rootURL + "#inline"
	utils.Debugf("分析内联脚本: %d 个代码块", capture.InlineCount)

	ar := s.analyzer.AnalyzeContent(inlineURL, capture.InlineJS)
	result.MergeAsset(ar)
	result.Stats.AssetsAnalyzed++
}

// analyzeAssets 通过固定大小工作池并发分析外部资产
// 结果归并只发生在本方法的收集循环中
func (s *Scanner) analyzeAssets(ctx context.Context, result *models.ScanResult) {
	assets := s.state.Assets()
	if len(assets) == 0 {
		return
	}

	// 内存/CPU压力下收缩工作池
	workers := s.config.Workers
	if safe := s.monitor.CalculateMaxWorkers(); safe > 0 && safe < workers {
		utils.Warnf("⚠️ 资源受限,工作池从 %d 收缩到 %d", workers, safe)
		workers = safe
	}
	if workers > len(assets) {
		workers = len(assets)
	}

	jobs := make(chan models.AssetRef)
	results := make(chan *models.AssetResult)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ref := range jobs {
				results <- s.analyzeOne(ctx, ref)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, ref := range assets {
			select {
			case jobs <- ref:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	bar := utils.NewProgressBar(len(assets), "📥 分析JS资产")
	dispatched := 0
	var collapse models.CollapseSummary
	for ar := range results {
		_ = bar.Add(1)
		dispatched++

		if ar == nil {
			continue
		}
		if ar.Error != "" {
			result.Stats.AssetsFailed++
			utils.Debugf("资产分析失败 [%s]: %s", ar.URL, ar.Error)
			continue
		}
		if ar.Findings == nil {
			// 重复指纹或被取消,计入跳过
			result.Stats.AssetsSkipped++
			continue
		}

		result.MergeAsset(ar)
		result.Stats.AssetsAnalyzed++
		for _, stat := range ar.Collapse {
			collapse.Add(stat)
		}
	}
	_ = bar.Finish()

	if collapse.TotalRemoved > 0 {
		utils.Debugf("相似合并: 移除 %d 项相似内容", collapse.TotalRemoved)
		for _, stat := range collapse.PerCategory {
			if stat.Removed > 0 {
				utils.Debugf("  - %s: %d → %d", stat.Category, stat.Before, stat.After)
			}
		}
	}

	result.AssetCount = dispatched
}

// analyzeOne 下载并分析单个资产
// 返回的AssetResult中: Error非空表示资产级失败; Findings为nil表示跳过
func (s *Scanner) analyzeOne(ctx context.Context, ref models.AssetRef) *models.AssetResult {
	ar := &models.AssetResult{URL: ref.URL}

	if err := ctx.Err(); err != nil {
		return ar
	}

	// URL指纹去重: 同一资产只分析一次
	if !s.state.MarkAnalyzed(models.AssetFingerprint(ref.URL)) {
		utils.Debugf("跳过重复资产: %s", ref.URL)
		return ar
	}

	content, err := s.fetcher.Fetch(ctx, ref.URL)
	if err != nil {
		ar.Error = err.Error()
		return ar
	}

	return s.analyzer.AnalyzeContent(ref.URL, content)
}
