package service

import (
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/pixelpages/internal/db"
)

// RecordError 描述单条进度记录的更新失败，不影响同批其它记录
type RecordError struct {
	Actor         string
	AchievementID string
	Err           error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("update progress %s/%s: %v", e.Actor, e.AchievementID, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

// ProgressEngine 根据计数器快照推进成就进度，并报告本次调用中新解锁的成就。
//
// 每个 (actor, achievement) 的状态为 absent → in-progress → completed，completed 为终态。
// 进度只增不减；解锁只会在写入真正把记录置为完成的那一次调用中报告。
type ProgressEngine struct {
	catalog *AchievementCatalog
	store   ProgressStore
	now     func() time.Time
}

// NewProgressEngine 构造 ProgressEngine
func NewProgressEngine(catalog *AchievementCatalog, store ProgressStore) *ProgressEngine {
	return &ProgressEngine{catalog: catalog, store: store, now: time.Now}
}

// WithClock 允许在测试中固定解锁时间
func (e *ProgressEngine) WithClock(now func() time.Time) *ProgressEngine {
	if now == nil {
		return e
	}
	e.now = now
	return e
}

// Update 遍历目录，对快照中存在的计数器逐条推进进度。
// 返回本次新解锁的成就（按目录顺序）；单条失败会被记录并以 RecordError 合并返回，
// 其余记录照常处理，失败的记录在下一次调用时自然重试。
func (e *ProgressEngine) Update(actor string, counters Counters) ([]db.AchievementDefinition, error) {
	var unlocked []db.AchievementDefinition
	var errs []error

	for _, def := range e.catalog.All() {
		observed, ok := counters[def.RequirementType]
		if !ok {
			continue
		}

		didUnlock, err := e.advance(actor, def, observed)
		if err != nil {
			log.Printf("[achievement] progress update failed actor=%s achievement=%s: %v", actor, def.ID, err)
			errs = append(errs, &RecordError{Actor: actor, AchievementID: def.ID, Err: err})
			continue
		}
		if didUnlock {
			unlocked = append(unlocked, def)
		}
	}

	return unlocked, errors.Join(errs...)
}

func (e *ProgressEngine) advance(actor string, def db.AchievementDefinition, observed int64) (bool, error) {
	existing, err := e.store.Get(actor, def.ID)
	if err != nil {
		return false, err
	}

	current := db.AchievementProgress{Actor: actor, AchievementID: def.ID}
	if existing != nil {
		current = *existing
	}

	if current.Completed {
		return false, nil
	}

	newProgress := max(current.Progress, observed)
	if existing != nil && newProgress == current.Progress {
		return false, nil
	}
	if existing == nil && newProgress <= 0 {
		// 零进度不创建记录
		return false, nil
	}

	next := current
	next.Progress = newProgress
	next.ProgressPercentage = progressPercentage(newProgress, def.RequirementTarget)
	next.Completed = newProgress >= def.RequirementTarget
	next.UnlockedAt = nil
	if next.Completed {
		unlockedAt := e.now()
		next.UnlockedAt = &unlockedAt
	}

	applied, err := e.store.Upsert(next)
	if err != nil {
		return false, err
	}

	return applied && next.Completed, nil
}

// progressPercentage 返回 [0, 100] 区间内的完成百分比
func progressPercentage(progress, target int64) float64 {
	if target <= 0 || progress <= 0 {
		return 0
	}
	return math.Min(100, float64(progress)*100/float64(target))
}
