package crawlers

import (
	"sync"

	"github.com/RecoveryAshes/JsSecretScan/internal/models"
)

// ScanState 单次扫描的资产集合状态
// 职责: 管理已发现资产与已分析指纹,所有操作在单锁下原子完成。
// 状态仅在一次扫描内有效,批量扫描时每个目标使用全新实例。
type ScanState struct {
	// 保护下方全部字段的互斥锁
	mu sync.Mutex

	// 资产数量上限
	maxAssets int

	// 已接纳资产的URL标记集合
	seen map[string]bool

	// 已接纳资产的有序列表(按接纳顺序)
	assets []models.AssetRef

	// 已分析资产的URL指纹集合
	analyzed map[string]bool
}

// NewScanState 创建扫描状态实例
func NewScanState(maxAssets int) *ScanState {
	return &ScanState{
		maxAssets: maxAssets,
		seen:      make(map[string]bool),
		assets:    make([]models.AssetRef, 0, maxAssets),
		analyzed:  make(map[string]bool),
	}
}

// TryAdd 尝试接纳一个资产
// 上限检查、去重检查和追加在同一临界区内完成,
// 并发发现路径下集合大小也不会超过上限
func (s *ScanState) TryAdd(ref models.AssetRef) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.assets) >= s.maxAssets {
		return false
	}
	if s.seen[ref.URL] {
		return false
	}

	s.seen[ref.URL] = true
	s.assets = append(s.assets, ref)
	return true
}

// Full 集合是否已达上限
func (s *ScanState) Full() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.assets) >= s.maxAssets
}

// Contains 资产URL是否已被接纳
func (s *ScanState) Contains(url string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seen[url]
}

// Assets 返回已接纳资产的快照
func (s *ScanState) Assets() []models.AssetRef {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := make([]models.AssetRef, len(s.assets))
	copy(snapshot, s.assets)
	return snapshot
}

// DiscoveredCount 已接纳资产数量
func (s *ScanState) DiscoveredCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.assets)
}

// MarkAnalyzed 标记一个URL指纹为已分析
// 首次标记返回true,重复标记返回false,调用方据此跳过重复分析
func (s *ScanState) MarkAnalyzed(fingerprint string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.analyzed[fingerprint] {
		return false
	}
	s.analyzed[fingerprint] = true
	return true
}
