package db

import (
	"time"

	"gorm.io/gorm"
)

// Task 定义了任务模型
// Completed 允许为 NULL：历史导入的数据可能缺失完成标记，统计时按未完成处理
type Task struct {
	gorm.Model
	Owner       string `gorm:"size:64;index;not null"`
	Title       string `gorm:"not null"`
	Description string
	Priority    string
	DueDate     *time.Time
	Completed   *bool
	CompletedAt *time.Time
}

// IsCompleted 返回任务是否已明确完成
func (t Task) IsCompleted() bool {
	return t.Completed != nil && *t.Completed
}
