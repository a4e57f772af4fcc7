package main

import (
	"fmt"

	"github.com/RecoveryAshes/JsSecretScan/internal/utils"
)

// ValidateFlags 验证命令行标志
func ValidateFlags(target string, maxAssets, timeout, workers int) error {
	// 验证目标
	if target != "" {
		if err := utils.ValidateTarget(target); err != nil {
			return fmt.Errorf("无效的扫描目标: %w", err)
		}
	}

	// 验证资产上限
	if maxAssets < 1 || maxAssets > 500 {
		return fmt.Errorf("资产上限必须在1-500之间,当前值: %d", maxAssets)
	}

	// 验证超时
	if timeout < 1 || timeout > 300 {
		return fmt.Errorf("超时时间必须在1-300秒之间,当前值: %d", timeout)
	}

	// 验证并发数
	if workers < 1 || workers > 100 {
		return fmt.Errorf("并发数必须在1-100之间,当前值: %d", workers)
	}

	return nil
}

// ValidateTargetsFile 验证目标文件路径
func ValidateTargetsFile(filepath string) error {
	if filepath == "" {
		return fmt.Errorf("目标文件路径不能为空")
	}
	// 文件存在性检查将在运行时进行
	return nil
}
