// Package crawlers 提供JS资产的发现与获取能力
//
// # 概述
//
// crawlers包覆盖扫描的网络侧: 抓取目标根页面,从标记中定位JS资产,
// 下载资产内容并交给分析管线。不做链接跟随,扫描范围始终是
// 根页面本身及其引用的脚本资产。
//
// # 核心组件
//
// ## PageCollector (根页面采集器)
//
// 基于Colly的根页面抓取器,单次同步Visit,通过OnHTML回调收集
// script[src]引用与内联脚本,OnResponse捕获原始标记供文本规则使用。
//
//	collector := NewPageCollector(15*time.Second, "", headerProvider)
//	capture, err := collector.Fetch("https://example.com")
//
// ## PageRenderer (根页面渲染器)
//
// 基于go-rod的可选渲染模式,针对script标签由前端路由运行后才注入的
// SPA站点。渲染产出最终HTML,交给同一套资产定位规则处理。
// 启动前通过ResourceMonitor检查内存压力。
//
//	renderer := NewPageRenderer(30*time.Second, "", headerProvider, monitor)
//	html, err := renderer.Render("https://example.com")
//
// ## AssetExtractor (资产定位器)
//
// 从页面标记中定位JS资产: 先处理script标签的src引用,再按固定顺序
// 执行文本提取规则。每个候选经过规范化(协议相对补全、相对路径解析)
// 与校验(JS形态、长度上限、第三方域名排除)后交给ScanState接纳。
//
//	extractor := NewAssetExtractor(state, config.ExcludeDomains)
//	extractor.CollectScriptSrcs(base, capture.ScriptSrcs)
//	extractor.CollectFromMarkup(base, capture.HTML)
//
// ## ScanState (扫描状态)
//
// 单次扫描的资产集合与已分析指纹集合,所有操作在单锁下原子完成。
// 上限检查与去重在同一临界区内,并发发现路径下总数不会超过配置上限。
//
// ## AssetFetcher (资产下载器)
//
// 带重试的资产下载: 声明Accept-Encoding并手动解压gzip/deflate/br,
// 强制单资产大小上限,嗅探HTML错误页,识别假HTTP错误
// (状态码>=400但body是真实JS代码)。
//
//	fetcher := NewAssetFetcher(config, headerProvider)
//	content, err := fetcher.Fetch(ctx, assetURL)
//
// ## ResourceMonitor (资源监控器)
//
// 实时监控系统可用内存和CPU负载,给出分析worker数量上限,
// 并在内存压力下拒绝开销大的渲染模式。
//
//	monitor := NewResourceMonitor(config)
//	monitor.StartMonitoring(1 * time.Second)
//	defer monitor.StopMonitoring()
//
//	maxWorkers := monitor.CalculateMaxWorkers()
//	ok, reason := monitor.CheckResourceAvailability()
//
// # 并发安全
//
//   - ScanState: sync.Mutex,所有状态单锁保护
//   - AssetFetcher: 无内部状态,worker间共享安全
//   - ResourceMonitor: sync.RWMutex
//   - PageCollector/PageRenderer: 每次扫描独立实例,不跨扫描共享
//
// # 错误处理
//
//   - 根页面抓取失败: 返回错误,由编排器执行协议降级重试
//   - 资产下载失败: 资产级错误,计入失败统计,不影响其他资产
//   - 超过大小上限/HTML错误页: 终局性资产级错误,不重试
//   - 渲染失败或资源不足: 编排器降级到静态抓取
package crawlers
