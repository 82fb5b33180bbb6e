package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/pixelpages/internal/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrPersistenceFailure 进度读写失败时返回
var ErrPersistenceFailure = errors.New("progress persistence failure")

// ProgressStore 是进度记录的持久化边界，不包含业务逻辑
type ProgressStore interface {
	// Get 返回 (actor, achievementID) 的记录，不存在时返回 nil, nil
	Get(actor, achievementID string) (*db.AchievementProgress, error)
	GetAll(actor string) ([]db.AchievementProgress, error)
	// Upsert 以 compare-and-set 方式写入：只接受未完成且进度不回退的写入。
	// applied=false 表示写入被并发更新抢先，不视为错误。
	Upsert(record db.AchievementProgress) (applied bool, err error)
}

// GormProgressStore 基于 gorm 的 ProgressStore 实现
type GormProgressStore struct {
	db *gorm.DB
}

// NewGormProgressStore 构造 GormProgressStore
func NewGormProgressStore(gdb *gorm.DB) *GormProgressStore {
	return &GormProgressStore{db: gdb}
}

// Get 实现 ProgressStore
func (s *GormProgressStore) Get(actor, achievementID string) (*db.AchievementProgress, error) {
	var record db.AchievementProgress
	if err := s.db.Where("actor = ? AND achievement_id = ?", actor, achievementID).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: get progress: %w", ErrPersistenceFailure, err)
	}
	return &record, nil
}

// GetAll 实现 ProgressStore
func (s *GormProgressStore) GetAll(actor string) ([]db.AchievementProgress, error) {
	var records []db.AchievementProgress
	if err := s.db.Where("actor = ?", actor).Order("achievement_id ASC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("%w: list progress: %w", ErrPersistenceFailure, err)
	}
	return records, nil
}

// Upsert 实现 ProgressStore
// 先尝试条件更新；没有命中则按唯一索引插入；插入冲突说明有并发写入，再做一次条件更新。
func (s *GormProgressStore) Upsert(record db.AchievementProgress) (bool, error) {
	applied, err := s.conditionalUpdate(record)
	if err != nil || applied {
		return applied, err
	}

	insert := db.AchievementProgress{
		Actor:              record.Actor,
		AchievementID:      record.AchievementID,
		Progress:           record.Progress,
		ProgressPercentage: record.ProgressPercentage,
		Completed:          record.Completed,
		UnlockedAt:         record.UnlockedAt,
	}
	result := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "actor"}, {Name: "achievement_id"}},
		DoNothing: true,
	}).Create(&insert)
	if result.Error != nil {
		return false, fmt.Errorf("%w: insert progress: %w", ErrPersistenceFailure, result.Error)
	}
	if result.RowsAffected == 1 {
		return true, nil
	}

	return s.conditionalUpdate(record)
}

func (s *GormProgressStore) conditionalUpdate(record db.AchievementProgress) (bool, error) {
	result := s.db.Model(&db.AchievementProgress{}).
		Where("actor = ? AND achievement_id = ?", record.Actor, record.AchievementID).
		Where("completed = ? AND progress <= ?", false, record.Progress).
		Updates(map[string]any{
			"progress":            record.Progress,
			"progress_percentage": record.ProgressPercentage,
			"completed":           record.Completed,
			"unlocked_at":         record.UnlockedAt,
			"updated_at":          time.Now(),
		})
	if result.Error != nil {
		return false, fmt.Errorf("%w: update progress: %w", ErrPersistenceFailure, result.Error)
	}
	return result.RowsAffected == 1, nil
}
