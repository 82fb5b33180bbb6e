package db

import (
	"time"

	"gorm.io/gorm"
)

// FocusEntry 记录一次专注时段
// Owner + ClientToken 唯一，客户端重复提交同一条记录时保持幂等
type FocusEntry struct {
	gorm.Model
	Owner           string    `gorm:"size:64;index;uniqueIndex:idx_focus_client_token"`
	ClientToken     string    `gorm:"size:64;uniqueIndex:idx_focus_client_token"`
	DurationMinutes int       `gorm:"not null"`
	Date            time.Time `gorm:"index"`
	Label           string
	Note            string
}

// TableName 指定自定义表名。
func (FocusEntry) TableName() string {
	return "focus_entries"
}
