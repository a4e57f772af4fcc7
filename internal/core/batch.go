package core

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/RecoveryAshes/JsSecretScan/internal/models"
	"github.com/RecoveryAshes/JsSecretScan/internal/utils"
)

// BatchScanner 批量扫描器
// 顺序处理目标列表,支持检查点续扫
type BatchScanner struct {
	config         models.ScanConfig
	outputDir      string
	format         string
	targetsFile    string
	batchDelay     time.Duration
	continueOnErr  bool
	resume         bool
	headerProvider models.HeaderProvider
}

// BatchResult 单目标扫描结果摘要
type BatchResult struct {
	Target      string
	Success     bool
	Error       error
	Findings    int
	Categories  int
	ProcessedAt time.Time
	Duration    float64
}

// BatchSummary 批量扫描摘要
type BatchSummary struct {
	TotalTargets  int
	SuccessCount  int
	FailCount     int
	SkippedCount  int
	TotalFindings int
	TotalDuration float64
	Results       []BatchResult
}

// NewBatchScanner 创建批量扫描器
func NewBatchScanner(config models.ScanConfig, outputDir, format, targetsFile string, batchDelay int, continueOnErr, resume bool, headerProvider models.HeaderProvider) *BatchScanner {
	return &BatchScanner{
		config:         config,
		outputDir:      outputDir,
		format:         format,
		targetsFile:    targetsFile,
		batchDelay:     time.Duration(batchDelay) * time.Second,
		continueOnErr:  continueOnErr,
		resume:         resume,
		headerProvider: headerProvider,
	}
}

// checkpointPath 检查点文件路径
// 由目标文件名派生,同一列表中断后可直接续扫
func (bs *BatchScanner) checkpointPath() string {
	token := strings.TrimSuffix(filepath.Base(bs.targetsFile), filepath.Ext(bs.targetsFile))
	token = strings.ReplaceAll(token, " ", "_")
	return filepath.Join(bs.outputDir, "checkpoints", models.BatchCheckpointFilename(token))
}

// loadOrCreateCheckpoint 加载或新建检查点
func (bs *BatchScanner) loadOrCreateCheckpoint(batchID string) *models.BatchCheckpoint {
	path := bs.checkpointPath()

	if bs.resume {
		if cp, err := models.LoadBatchCheckpointFromFile(path); err == nil {
			utils.Infof("📥 加载检查点: 已完成 %d 个目标", len(cp.CompletedTargets))
			return cp
		}
		utils.Warn("未找到可用检查点,从头开始")
	}

	return models.NewBatchCheckpoint(batchID, bs.targetsFile, bs.config)
}

// saveCheckpoint 保存检查点
// 保存失败只告警,不中断批量扫描
func (bs *BatchScanner) saveCheckpoint(cp *models.BatchCheckpoint) {
	path := bs.checkpointPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		utils.Warnf("创建检查点目录失败: %v", err)
		return
	}
	if err := cp.SaveToFile(path); err != nil {
		utils.Warnf("保存检查点失败: %v", err)
	}
}

// ScanBatch 批量扫描目标列表
func (bs *BatchScanner) ScanBatch(ctx context.Context, targets []string) (*BatchSummary, error) {
	utils.Infof("🚀 开始批量扫描: %d个目标", len(targets))

	batchID := models.NewBatchID()
	checkpoint := bs.loadOrCreateCheckpoint(batchID)

	summary := &BatchSummary{
		TotalTargets: len(targets),
		Results:      make([]BatchResult, 0, len(targets)),
	}

	startTime := time.Now()
	bar := utils.NewProgressBar(len(targets), "📊 批量扫描")

	for i, target := range targets {
		if err := ctx.Err(); err != nil {
			utils.Warn("批量扫描被取消")
			break
		}

		// 断点续扫: 跳过已完成目标
		if checkpoint.IsCompleted(target) {
			utils.Infof("⏭️  跳过已完成目标: %s", target)
			summary.SkippedCount++
			_ = bar.Add(1)
			continue
		}

		utils.Infof("\n==================== [%d/%d] ====================", i+1, len(targets))
		utils.Infof("目标: %s", target)

		result := bs.scanSingleTarget(ctx, target)
		summary.Results = append(summary.Results, result)
		_ = bar.Add(1)

		if result.Success {
			summary.SuccessCount++
			summary.TotalFindings += result.Findings
			checkpoint.MarkCompleted(target)
		} else {
			summary.FailCount++
			checkpoint.MarkFailed(target)
			utils.Errorf("❌ 扫描失败: %v", result.Error)

			// 如果不继续处理错误,则停止
			if !bs.continueOnErr {
				utils.Warn("批量扫描中止 (--continue-on-error=false)")
				bs.saveCheckpoint(checkpoint)
				break
			}
		}

		bs.saveCheckpoint(checkpoint)

		// 批量延迟(最后一个目标不需要延迟)
		if i < len(targets)-1 && bs.batchDelay > 0 {
			utils.Debugf("等待 %.0f 秒后处理下一个目标...", bs.batchDelay.Seconds())
			select {
			case <-time.After(bs.batchDelay):
			case <-ctx.Done():
			}
		}
	}
	_ = bar.Finish()

	summary.TotalDuration = time.Since(startTime).Seconds()

	// 显示批量扫描摘要
	bs.printSummary(summary)

	return summary, nil
}

// scanSingleTarget 扫描单个目标并生成报告
func (bs *BatchScanner) scanSingleTarget(ctx context.Context, target string) BatchResult {
	result := BatchResult{
		Target:      target,
		ProcessedAt: time.Now(),
	}

	startTime := time.Now()

	scanner, err := NewScanner(target, bs.config, bs.headerProvider)
	if err != nil {
		result.Error = fmt.Errorf("创建扫描器失败: %w", err)
		result.Duration = time.Since(startTime).Seconds()
		return result
	}

	scanResult := scanner.Scan(ctx)
	result.Duration = time.Since(startTime).Seconds()

	if !scanResult.Success {
		result.Error = fmt.Errorf("扫描失败: %s", scanResult.Error)
		return result
	}

	// 每个目标独立出报告
	reporter := utils.NewReporter(bs.outputDir)
	if _, err := reporter.Write(scanResult, bs.format); err != nil {
		utils.Warnf("生成报告失败 [%s]: %v", target, err)
	}

	result.Success = true
	result.Findings = scanResult.Findings.Total()
	result.Categories = scanResult.Findings.Categories()

	return result
}

// printSummary 打印批量扫描摘要
func (bs *BatchScanner) printSummary(summary *BatchSummary) {
	utils.Info("\n==================================================")
	utils.Info("📊 批量扫描摘要")
	utils.Info("==================================================")
	utils.Infof("总目标数: %d", summary.TotalTargets)
	utils.Infof("✅ 成功: %d", summary.SuccessCount)
	utils.Infof("❌ 失败: %d", summary.FailCount)
	if summary.SkippedCount > 0 {
		utils.Infof("⏭️  跳过(检查点): %d", summary.SkippedCount)
	}
	utils.Infof("🔍 敏感信息总数: %d", summary.TotalFindings)
	utils.Infof("⏱️  总耗时: %.2f秒", summary.TotalDuration)
	utils.Info("==================================================")

	// 显示失败的目标
	if summary.FailCount > 0 {
		utils.Warn("\n失败的目标:")
		for _, result := range summary.Results {
			if !result.Success {
				utils.Warnf("  - %s: %v", result.Target, result.Error)
			}
		}
	}
}
