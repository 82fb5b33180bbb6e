package service

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/pixelpages/internal/db"
)

// UnlockNotifier 接收解锁事件，负责面向用户的通知
type UnlockNotifier interface {
	NotifyUnlocked(actor string, unlocked []db.AchievementDefinition)
}

// LogNotifier 将解锁事件写入日志
type LogNotifier struct{}

// NotifyUnlocked 实现 UnlockNotifier
func (LogNotifier) NotifyUnlocked(actor string, unlocked []db.AchievementDefinition) {
	if len(unlocked) == 0 {
		return
	}
	ids := make([]string, 0, len(unlocked))
	for _, def := range unlocked {
		ids = append(ids, def.ID)
	}
	log.Printf("[achievement] actor=%s unlocked=%s", actor, strings.Join(ids, ","))
}

// AchievementProgressView 是目录与进度记录的联合视图
type AchievementProgressView struct {
	Definition         db.AchievementDefinition
	Progress           int64
	ProgressPercentage float64
	Completed          bool
	UnlockedAt         *time.Time
}

// AchievementSummary 汇总成就与等级信息
type AchievementSummary struct {
	CompletedCount       int
	TotalCount           int
	AchievementXP        int
	ActivityXP           int
	TotalXP              int
	CompletionPercentage float64
	Level                LevelProgress
}

// AchievementService 组合统计、引擎与目录，对外提供重算与查询入口
type AchievementService struct {
	catalog  *AchievementCatalog
	store    ProgressStore
	engine   *ProgressEngine
	stats    StatAggregator
	notifier UnlockNotifier
}

// NewAchievementService 构造 AchievementService，默认使用 LogNotifier
func NewAchievementService(catalog *AchievementCatalog, store ProgressStore, stats StatAggregator) *AchievementService {
	return &AchievementService{
		catalog:  catalog,
		store:    store,
		engine:   NewProgressEngine(catalog, store),
		stats:    stats,
		notifier: LogNotifier{},
	}
}

// WithNotifier 替换解锁通知器
func (s *AchievementService) WithNotifier(n UnlockNotifier) *AchievementService {
	if n != nil {
		s.notifier = n
	}
	return s
}

// WithClock 固定解锁时间，测试使用
func (s *AchievementService) WithClock(now func() time.Time) *AchievementService {
	s.engine.WithClock(now)
	return s
}

// Catalog 返回成就目录
func (s *AchievementService) Catalog() *AchievementCatalog {
	return s.catalog
}

// Snapshot 返回 actor 当前计数器
func (s *AchievementService) Snapshot(actor string) (Counters, error) {
	return s.stats.Snapshot(actor)
}

// RecomputeAndUnlock 计算快照并推进进度，返回本次新解锁的成就。
// 若解锁触发了 achievement_count 类成就，会继续推进直到不再有新解锁。
// 返回的 error 可能与非空的解锁列表同时出现：已提交的解锁依然有效。
func (s *AchievementService) RecomputeAndUnlock(actor string) ([]db.AchievementDefinition, error) {
	actor = strings.TrimSpace(actor)
	if actor == "" {
		return nil, errors.New("actor is required")
	}

	counters, err := s.stats.Snapshot(actor)
	if err != nil {
		return nil, fmt.Errorf("snapshot counters: %w", err)
	}

	unlocked, updateErr := s.engine.Update(actor, counters)

	if len(unlocked) > 0 && s.catalog.UsesRequirement(db.RequirementAchievementCount) {
		batch := unlocked
		for round := 0; len(batch) > 0 && round < s.catalog.Len(); round++ {
			completed, err := s.completedCount(actor)
			if err != nil {
				updateErr = errors.Join(updateErr, err)
				break
			}

			var roundErr error
			batch, roundErr = s.engine.Update(actor, Counters{db.RequirementAchievementCount: int64(completed)})
			updateErr = errors.Join(updateErr, roundErr)
			unlocked = append(unlocked, batch...)
		}
	}

	s.notifier.NotifyUnlocked(actor, unlocked)
	return unlocked, updateErr
}

// GetProgress 按目录顺序返回每个成就的进度，不存在的记录视为 0%
func (s *AchievementService) GetProgress(actor string) ([]AchievementProgressView, error) {
	records, err := s.store.GetAll(actor)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]db.AchievementProgress, len(records))
	for _, record := range records {
		byID[record.AchievementID] = record
	}

	defs := s.catalog.All()
	views := make([]AchievementProgressView, 0, len(defs))
	for _, def := range defs {
		view := AchievementProgressView{Definition: def}
		if record, ok := byID[def.ID]; ok {
			view.Progress = record.Progress
			view.ProgressPercentage = record.ProgressPercentage
			view.Completed = record.Completed
			view.UnlockedAt = record.UnlockedAt
		}
		views = append(views, view)
	}
	return views, nil
}

// GetAchievementProgress 返回单个成就的进度，未知 ID 返回 ErrUnknownAchievement
func (s *AchievementService) GetAchievementProgress(actor, achievementID string) (*AchievementProgressView, error) {
	def, ok := s.catalog.ByID(achievementID)
	if !ok {
		return nil, ErrUnknownAchievement
	}

	record, err := s.store.Get(actor, achievementID)
	if err != nil {
		return nil, err
	}

	view := &AchievementProgressView{Definition: def}
	if record != nil {
		view.Progress = record.Progress
		view.ProgressPercentage = record.ProgressPercentage
		view.Completed = record.Completed
		view.UnlockedAt = record.UnlockedAt
	}
	return view, nil
}

// GetSummary 返回完成数量、XP 与等级
func (s *AchievementService) GetSummary(actor string) (*AchievementSummary, error) {
	records, err := s.store.GetAll(actor)
	if err != nil {
		return nil, err
	}

	summary := &AchievementSummary{TotalCount: s.catalog.Len()}
	for _, record := range records {
		if !record.Completed {
			continue
		}
		def, ok := s.catalog.ByID(record.AchievementID)
		if !ok {
			// 目录中已不存在的旧记录不计入
			continue
		}
		summary.CompletedCount++
		summary.AchievementXP += def.XPReward
	}

	activityXP, err := s.stats.ActivityXP(actor)
	if err != nil {
		return nil, fmt.Errorf("activity xp: %w", err)
	}
	summary.ActivityXP = activityXP
	summary.TotalXP = summary.AchievementXP + activityXP

	if summary.TotalCount > 0 {
		summary.CompletionPercentage = float64(summary.CompletedCount) * 100 / float64(summary.TotalCount)
	}
	summary.Level = ComputeLevelProgress(summary.TotalXP)

	return summary, nil
}

func (s *AchievementService) completedCount(actor string) (int, error) {
	records, err := s.store.GetAll(actor)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, record := range records {
		if record.Completed {
			count++
		}
	}
	return count, nil
}
