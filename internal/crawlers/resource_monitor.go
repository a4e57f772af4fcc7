package crawlers

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// ResourceMonitor 系统资源监控器
// 职责: 实时监控内存和CPU,给出分析worker数量上限,
// 并在内存压力下拒绝开销大的渲染模式
type ResourceMonitor struct {
	// 配置参数
	config ResourceMonitorConfig

	// 缓存的内存统计数据
	lastMemStats runtime.MemStats

	// 系统总内存(字节)
	totalMemory uint64

	// 缓存的CalculateMaxWorkers结果(每秒更新)
	cachedMaxWorkers int
	lastCacheTime    time.Time
	cacheMu          sync.RWMutex

	// CPU使用率监控
	lastCPUTime  time.Time
	lastCPUUsage float64
	cpuUsageMu   sync.RWMutex

	// 保护lastMemStats的读写锁
	mu sync.RWMutex

	// 监控控制
	cancelFunc context.CancelFunc
	isRunning  bool
}

// ResourceMonitorConfig 资源监控器配置
type ResourceMonitorConfig struct {
	SafetyReserveMemory int64 // 安全保留内存(字节)
	SafetyThreshold     int64 // 安全阈值(字节)
	CPULoadThreshold    int   // CPU负载阈值(%)
	MaxWorkersLimit     int   // 绝对最大worker数
	WorkerMemoryUsage   int64 // 单个worker平均内存消耗(字节)
}

// MemoryStatus 内存状态信息
type MemoryStatus struct {
	TotalMemory     uint64 // 系统总内存(字节)
	AllocatedMemory uint64 // 当前程序已分配内存(字节)
	AvailableMemory int64  // 可用内存(字节)
	SafetyReserve   int64  // 安全保留内存(字节)
	SafetyThreshold int64  // 安全阈值(字节)
	MemoryPressure  string // 内存压力等级
}

// NewResourceMonitor 创建资源监控器实例
func NewResourceMonitor(config ResourceMonitorConfig) *ResourceMonitor {
	// 初始化默认值
	if config.WorkerMemoryUsage == 0 {
		config.WorkerMemoryUsage = 50 * 1024 * 1024 // 50MB
	}
	if config.SafetyReserveMemory == 0 {
		config.SafetyReserveMemory = 1024 * 1024 * 1024 // 1GB
	}
	if config.SafetyThreshold == 0 {
		config.SafetyThreshold = 500 * 1024 * 1024 // 500MB
	}
	if config.CPULoadThreshold == 0 {
		config.CPULoadThreshold = 80 // 80%
	}

	// 获取系统总内存(使用gopsutil获取真实系统内存)
	vmStat, err := mem.VirtualMemory()
	var totalMem uint64
	if err != nil {
		log.Warn().Err(err).Msg("获取系统内存失败,使用默认值")
		totalMem = 4 * 1024 * 1024 * 1024 // 默认4GB
		log.Info().Msgf("系统总内存: 4.00 GB (默认值)")
	} else {
		totalMem = vmStat.Total
		log.Info().Msgf("系统总内存: %.2f GB", float64(totalMem)/(1024*1024*1024))
	}

	// 读取初始内存统计
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	return &ResourceMonitor{
		config:       config,
		totalMemory:  totalMem,
		lastMemStats: memStats,
		isRunning:    false,
		lastCPUTime:  time.Now(),
		lastCPUUsage: 0.0,
	}
}

// StartMonitoring 启动资源监控
// 启动后台goroutine周期性采样runtime.MemStats
func (rm *ResourceMonitor) StartMonitoring(interval time.Duration) {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	// 如果已经在运行,直接返回(幂等)
	if rm.isRunning {
		return
	}

	// 创建可取消的context
	ctx, cancel := context.WithCancel(context.Background())
	rm.cancelFunc = cancel
	rm.isRunning = true

	// 启动后台采样goroutine
	go rm.monitoringLoop(ctx, interval)
}

// monitoringLoop 后台监控循环
func (rm *ResourceMonitor) monitoringLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// 采样内存统计
			var memStats runtime.MemStats
			runtime.ReadMemStats(&memStats)

			// 更新内存缓存
			rm.mu.Lock()
			rm.lastMemStats = memStats
			rm.mu.Unlock()

			// 更新CPU使用率
			cpuUsage := rm.getCPUUsage()
			rm.cpuUsageMu.Lock()
			rm.lastCPUUsage = cpuUsage
			rm.lastCPUTime = time.Now()
			rm.cpuUsageMu.Unlock()
		}
	}
}

// getCPUUsage 获取当前系统的CPU使用率(百分比)
// 使用gopsutil/v3/cpu获取真实的系统CPU使用率
func (rm *ResourceMonitor) getCPUUsage() float64 {
	// 100毫秒采样间隔,避免阻塞过久; perCPU=false返回所有核心的平均值
	percentages, err := cpu.Percent(100*time.Millisecond, false)
	if err != nil {
		log.Warn().Err(err).Msg("获取CPU使用率失败")
		return 0.0
	}

	if len(percentages) == 0 {
		log.Warn().Msg("CPU使用率数据为空")
		return 0.0
	}

	return percentages[0]
}

// StopMonitoring 停止资源监控
func (rm *ResourceMonitor) StopMonitoring() {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	if rm.isRunning && rm.cancelFunc != nil {
		rm.cancelFunc()
		rm.isRunning = false
		rm.cancelFunc = nil
	}
}

// CalculateMaxWorkers 动态计算当前允许的最大worker数
// 结果缓存1秒;返回基于可用内存和CPU核心数计算的上限
func (rm *ResourceMonitor) CalculateMaxWorkers() int {
	// 检查缓存是否有效(1秒内)
	rm.cacheMu.RLock()
	if time.Since(rm.lastCacheTime) < time.Second && rm.cachedMaxWorkers > 0 {
		cached := rm.cachedMaxWorkers
		rm.cacheMu.RUnlock()
		return cached
	}
	rm.cacheMu.RUnlock()

	// 缓存失效,重新计算
	rm.mu.RLock()
	memStats := rm.lastMemStats
	rm.mu.RUnlock()

	// 计算可用内存
	allocatedMemory := memStats.Alloc
	availableMemory := int64(rm.totalMemory) - int64(allocatedMemory) - rm.config.SafetyReserveMemory

	// 基于内存计算上限
	maxWorkersByMemory := 1 // 默认至少1个
	if availableMemory > rm.config.SafetyThreshold {
		surplus := availableMemory - rm.config.SafetyThreshold
		maxWorkersByMemory = int(surplus / rm.config.WorkerMemoryUsage)
		if maxWorkersByMemory < 1 {
			maxWorkersByMemory = 1
		}
	}

	// 基于CPU计算上限
	maxWorkersByCPU := runtime.NumCPU()

	// 取最小值
	result := maxWorkersByMemory
	if maxWorkersByCPU < result {
		result = maxWorkersByCPU
	}
	if rm.config.MaxWorkersLimit > 0 && rm.config.MaxWorkersLimit < result {
		result = rm.config.MaxWorkersLimit
	}

	// 确保至少1个worker
	if result < 1 {
		result = 1
	}

	// 更新缓存
	rm.cacheMu.Lock()
	rm.cachedMaxWorkers = result
	rm.lastCacheTime = time.Now()
	rm.cacheMu.Unlock()

	return result
}

// CheckResourceAvailability 检查当前资源是否允许开销大的操作(如浏览器渲染)
// 返回canProceed(是否允许)和reason(不允许时的原因)
func (rm *ResourceMonitor) CheckResourceAvailability() (canProceed bool, reason string) {
	rm.mu.RLock()
	memStats := rm.lastMemStats
	rm.mu.RUnlock()

	// 计算可用内存
	allocatedMemory := memStats.Alloc
	availableMemory := int64(rm.totalMemory) - int64(allocatedMemory) - rm.config.SafetyReserveMemory

	// 检查内存
	if availableMemory < rm.config.SafetyThreshold {
		availableMemoryMB := availableMemory / (1024 * 1024)
		reasonStr := fmt.Sprintf("内存不足(当前%dMB)", availableMemoryMB)

		log.Warn().Msgf("可用内存不足(当前%dMB),高开销操作受限", availableMemoryMB)

		return false, reasonStr
	}

	// 检查CPU负载
	// 如果配置的阈值 >= 200, 则跳过CPU检查(视为禁用)
	if rm.config.CPULoadThreshold < 200 {
		rm.cpuUsageMu.RLock()
		cpuUsage := rm.lastCPUUsage
		rm.cpuUsageMu.RUnlock()

		if cpuUsage > float64(rm.config.CPULoadThreshold) {
			return false, fmt.Sprintf("CPU负载过高(当前%.1f%%)", cpuUsage)
		}
	}

	return true, ""
}

// GetMemoryStatus 获取当前内存状态
func (rm *ResourceMonitor) GetMemoryStatus() MemoryStatus {
	rm.mu.RLock()
	memStats := rm.lastMemStats
	rm.mu.RUnlock()

	allocatedMemory := memStats.Alloc
	availableMemory := int64(rm.totalMemory) - int64(allocatedMemory) - rm.config.SafetyReserveMemory

	// 判断内存压力等级
	var pressure string
	availableMemoryMB := availableMemory / (1024 * 1024)
	switch {
	case availableMemoryMB < 200:
		pressure = "emergency"
	case availableMemoryMB < 300:
		pressure = "critical"
	case availableMemoryMB < 500:
		pressure = "warning"
	default:
		pressure = "normal"
	}

	return MemoryStatus{
		TotalMemory:     rm.totalMemory,
		AllocatedMemory: allocatedMemory,
		AvailableMemory: availableMemory,
		SafetyReserve:   rm.config.SafetyReserveMemory,
		SafetyThreshold: rm.config.SafetyThreshold,
		MemoryPressure:  pressure,
	}
}
