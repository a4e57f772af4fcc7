package models

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// BatchCheckpoint 批量扫描检查点
// 批量任务中断后据此跳过已完成目标
type BatchCheckpoint struct {
	// 任务信息
	BatchID     string `json:"batch_id"`     // 关联的批量任务ID
	TargetsFile string `json:"targets_file"` // 目标列表文件路径

	// 进度信息
	CompletedTargets []string `json:"completed_targets"` // 已完成目标列表
	FailedTargets    []string `json:"failed_targets"`    // 失败目标列表

	// 时间戳
	CreatedAt time.Time `json:"created_at"` // 检查点创建时间
	UpdatedAt time.Time `json:"updated_at"` // 最后更新时间

	// 配置快照
	Config ScanConfig `json:"config"` // 配置快照
}

// NewBatchCheckpoint 创建检查点
func NewBatchCheckpoint(batchID, targetsFile string, config ScanConfig) *BatchCheckpoint {
	now := time.Now()
	return &BatchCheckpoint{
		BatchID:     batchID,
		TargetsFile: targetsFile,
		CreatedAt:   now,
		UpdatedAt:   now,
		Config:      config,
	}
}

// BatchCheckpointFilename 生成检查点文件名
func BatchCheckpointFilename(batchID string) string {
	return fmt.Sprintf("checkpoint_batch_%s.json", batchID)
}

// IsCompleted 目标是否已完成
func (c *BatchCheckpoint) IsCompleted(target string) bool {
	for _, t := range c.CompletedTargets {
		if t == target {
			return true
		}
	}
	return false
}

// MarkCompleted 标记目标完成
func (c *BatchCheckpoint) MarkCompleted(target string) {
	if !c.IsCompleted(target) {
		c.CompletedTargets = append(c.CompletedTargets, target)
	}
	c.UpdatedAt = time.Now()
}

// MarkFailed 标记目标失败
func (c *BatchCheckpoint) MarkFailed(target string) {
	c.FailedTargets = append(c.FailedTargets, target)
	c.UpdatedAt = time.Now()
}

// ToJSON 序列化为JSON
func (c *BatchCheckpoint) ToJSON() ([]byte, error) {
	return json.MarshalIndent(c, "", "  ")
}

// FromJSON 从JSON反序列化
func (c *BatchCheckpoint) FromJSON(data []byte) error {
	return json.Unmarshal(data, c)
}

// SaveToFile 保存到文件
func (c *BatchCheckpoint) SaveToFile(filepath string) error {
	data, err := c.ToJSON()
	if err != nil {
		return err
	}
	return os.WriteFile(filepath, data, 0644)
}

// LoadBatchCheckpointFromFile 从文件加载
func LoadBatchCheckpointFromFile(filepath string) (*BatchCheckpoint, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, err
	}

	var cp BatchCheckpoint
	if err := cp.FromJSON(data); err != nil {
		return nil, err
	}

	return &cp, nil
}
