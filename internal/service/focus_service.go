package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pixelpages/internal/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const maxFocusMinutes = 24 * 60

var (
	// ErrFocusEntryNotFound 专注记录不存在或不属于当前用户
	ErrFocusEntryNotFound = errors.New("focus entry not found")
	// ErrFocusInvalidDuration 时长不在 (0, 1440] 分钟内
	ErrFocusInvalidDuration = errors.New("invalid focus duration")
)

// FocusService 负责专注记录
type FocusService struct {
	db  *gorm.DB
	now func() time.Time
}

// FocusInput 定义记录专注时段的输入
// ClientToken 由客户端生成，用于去重重复提交；为空时服务端生成
type FocusInput struct {
	ClientToken     string
	DurationMinutes int
	Date            time.Time
	Label           string
	Note            string
}

// FocusFilter 指定查询区间，零值表示不限
type FocusFilter struct {
	Start time.Time
	End   time.Time
}

// NewFocusService 构造 FocusService
func NewFocusService(gdb *gorm.DB) *FocusService {
	return &FocusService{db: gdb, now: time.Now}
}

// Log 幂等记录专注时段：同一 ClientToken 的重复提交返回已有记录，created=false
func (s *FocusService) Log(owner string, input FocusInput) (*db.FocusEntry, bool, error) {
	if input.DurationMinutes <= 0 || input.DurationMinutes > maxFocusMinutes {
		return nil, false, fmt.Errorf("%w: %d minutes", ErrFocusInvalidDuration, input.DurationMinutes)
	}

	token := strings.TrimSpace(input.ClientToken)
	if token == "" {
		token = uuid.NewString()
	}

	date := input.Date
	if date.IsZero() {
		date = s.now()
	}

	entry := db.FocusEntry{
		Owner:           owner,
		ClientToken:     token,
		DurationMinutes: input.DurationMinutes,
		Date:            date,
		Label:           strings.TrimSpace(input.Label),
		Note:            strings.TrimSpace(input.Note),
	}

	insert := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "owner"}, {Name: "client_token"}},
		DoNothing: true,
	}).Create(&entry)
	if insert.Error != nil {
		return nil, false, fmt.Errorf("log focus entry: %w", insert.Error)
	}
	created := insert.RowsAffected == 1

	var stored db.FocusEntry
	if err := s.db.Where("owner = ? AND client_token = ?", owner, token).First(&stored).Error; err != nil {
		return nil, false, fmt.Errorf("reload focus entry: %w", err)
	}
	return &stored, created, nil
}

// List 返回区间内的专注记录，按日期倒序
func (s *FocusService) List(owner string, filter FocusFilter) ([]db.FocusEntry, error) {
	var entries []db.FocusEntry

	query := s.db.Where("owner = ?", owner)
	if !filter.Start.IsZero() {
		query = query.Where("date >= ?", filter.Start)
	}
	if !filter.End.IsZero() {
		query = query.Where("date <= ?", filter.End)
	}

	if err := query.Order("date DESC").Order("id DESC").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("list focus entries: %w", err)
	}
	return entries, nil
}

// Delete 物理删除专注记录，释放其 ClientToken
func (s *FocusService) Delete(owner string, id uint) error {
	result := s.db.Unscoped().Where("owner = ?", owner).Delete(&db.FocusEntry{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete focus entry: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrFocusEntryNotFound
	}
	return nil
}
