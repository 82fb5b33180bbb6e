package service

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/pixelpages/internal/db"
	"gorm.io/gorm"
)

// Counters 是一次统计快照：计数器名称到当前值
type Counters map[db.Requirement]int64

// StatAggregator 为成就引擎提供计数器快照与活动 XP
type StatAggregator interface {
	Snapshot(actor string) (Counters, error)
	ActivityXP(actor string) (int, error)
}

const lateNightEndHour = 5

// StatsService 从用户的笔记、任务、专注记录中计算计数器，只读无副作用。
// 所有按天分桶的统计均使用同一个时区 loc。
type StatsService struct {
	db  *gorm.DB
	loc *time.Location
	now func() time.Time
}

// activity 是一次快照读取到的原始数据
type activity struct {
	notes             []db.Note
	tasks             []db.Task
	focus             []db.FocusEntry
	folders           int64
	completedAchieved int64
	today             time.Time
	loc               *time.Location
}

// counterFuncs 为每个计数器提供一个计算函数，db.Requirements 中的每一项都必须在此出现
var counterFuncs = map[db.Requirement]func(*activity) int64{
	db.RequirementNoteCount:        func(a *activity) int64 { return int64(len(a.notes)) },
	db.RequirementWordCount:        totalWordCount,
	db.RequirementTaskCount:        completedTaskCount,
	db.RequirementSessionCount:     func(a *activity) int64 { return int64(len(a.focus)) },
	db.RequirementTotalTime:        totalFocusMinutes,
	db.RequirementDailyStreak:      longestDailyStreak,
	db.RequirementLongSession:      longestFocusSession,
	db.RequirementTagCount:         distinctTagCount,
	db.RequirementFolderCount:      func(a *activity) int64 { return a.folders },
	db.RequirementWeekendNotes:     weekendNoteCount,
	db.RequirementLateNightNotes:   lateNightNoteCount,
	db.RequirementTasksInADay:      maxTasksInADay,
	db.RequirementAchievementCount: func(a *activity) int64 { return a.completedAchieved },
}

// NewStatsService 构造 StatsService，loc 为空时使用 UTC
func NewStatsService(gdb *gorm.DB, loc *time.Location) *StatsService {
	if loc == nil {
		loc = time.UTC
	}
	return &StatsService{db: gdb, loc: loc, now: time.Now}
}

// WithClock 允许在测试中固定“今天”
func (s *StatsService) WithClock(now func() time.Time) *StatsService {
	if now == nil {
		return s
	}
	s.now = now
	return s
}

// Snapshot 计算 actor 当前的全部计数器；没有任何数据时所有计数器为 0
func (s *StatsService) Snapshot(actor string) (Counters, error) {
	act, err := s.load(actor)
	if err != nil {
		return nil, err
	}

	counters := make(Counters, len(db.Requirements))
	for _, req := range db.Requirements {
		compute, ok := counterFuncs[req]
		if !ok {
			continue
		}
		counters[req] = compute(act)
	}
	return counters, nil
}

// ActivityXP 汇总笔记带来的活动 XP
func (s *StatsService) ActivityXP(actor string) (int, error) {
	var notes []db.Note
	if err := s.db.Preload("Tags").Where("owner = ?", actor).Find(&notes).Error; err != nil {
		return 0, fmt.Errorf("load notes: %w", err)
	}
	return ActivityXP(notes), nil
}

func (s *StatsService) load(actor string) (*activity, error) {
	act := &activity{loc: s.loc, today: civilDay(s.now(), s.loc)}

	if err := s.db.Preload("Tags").Where("owner = ?", actor).Find(&act.notes).Error; err != nil {
		return nil, fmt.Errorf("load notes: %w", err)
	}
	if err := s.db.Where("owner = ?", actor).Find(&act.tasks).Error; err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}
	if err := s.db.Where("owner = ?", actor).Find(&act.focus).Error; err != nil {
		return nil, fmt.Errorf("load focus entries: %w", err)
	}
	if err := s.db.Model(&db.Folder{}).Where("owner = ?", actor).Count(&act.folders).Error; err != nil {
		return nil, fmt.Errorf("count folders: %w", err)
	}
	if err := s.db.Model(&db.AchievementProgress{}).
		Where("actor = ? AND completed = ?", actor, true).
		Count(&act.completedAchieved).Error; err != nil {
		return nil, fmt.Errorf("count achievements: %w", err)
	}

	return act, nil
}

// CountWords 统计以空白分隔的词数，空白内容为 0
func CountWords(content string) int {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return 0
	}
	return len(strings.Fields(trimmed))
}

func totalWordCount(a *activity) int64 {
	var total int64
	for _, note := range a.notes {
		total += int64(CountWords(note.Content))
	}
	return total
}

func completedTaskCount(a *activity) int64 {
	var total int64
	for _, task := range a.tasks {
		if task.IsCompleted() {
			total++
		}
	}
	return total
}

func totalFocusMinutes(a *activity) int64 {
	var total int64
	for _, entry := range a.focus {
		if entry.DurationMinutes > 0 {
			total += int64(entry.DurationMinutes)
		}
	}
	return total
}

func longestFocusSession(a *activity) int64 {
	var longest int64
	for _, entry := range a.focus {
		longest = max(longest, int64(entry.DurationMinutes))
	}
	return longest
}

func distinctTagCount(a *activity) int64 {
	seen := make(map[string]struct{})
	for _, note := range a.notes {
		for _, tag := range note.Tags {
			name := strings.ToLower(strings.TrimSpace(tag.Name))
			if name == "" {
				continue
			}
			seen[name] = struct{}{}
		}
	}
	return int64(len(seen))
}

func weekendNoteCount(a *activity) int64 {
	var total int64
	for _, note := range a.notes {
		switch note.CreatedAt.In(a.loc).Weekday() {
		case time.Saturday, time.Sunday:
			total++
		}
	}
	return total
}

func lateNightNoteCount(a *activity) int64 {
	var total int64
	for _, note := range a.notes {
		if note.CreatedAt.In(a.loc).Hour() < lateNightEndHour {
			total++
		}
	}
	return total
}

func maxTasksInADay(a *activity) int64 {
	perDay := make(map[time.Time]int64)
	var best int64
	for _, task := range a.tasks {
		if !task.IsCompleted() || task.CompletedAt == nil {
			continue
		}
		day := civilDay(*task.CompletedAt, a.loc)
		perDay[day]++
		best = max(best, perDay[day])
	}
	return best
}

// longestDailyStreak 返回截至今天（含）连续活跃天数的最长值
func longestDailyStreak(a *activity) int64 {
	daySet := make(map[time.Time]struct{})
	mark := func(t time.Time) {
		if t.IsZero() {
			return
		}
		day := civilDay(t, a.loc)
		if day.After(a.today) {
			return
		}
		daySet[day] = struct{}{}
	}

	for _, note := range a.notes {
		mark(note.CreatedAt)
	}
	for _, task := range a.tasks {
		if task.IsCompleted() && task.CompletedAt != nil {
			mark(*task.CompletedAt)
		}
	}
	for _, entry := range a.focus {
		mark(entry.Date)
	}

	days := make([]time.Time, 0, len(daySet))
	for day := range daySet {
		days = append(days, day)
	}
	slices.SortFunc(days, func(x, y time.Time) int { return x.Compare(y) })

	_, longest := calculateStreaks(days)
	return int64(longest)
}

// calculateStreaks 对升序且去重的日期计算当前连胜与最长连胜
func calculateStreaks(days []time.Time) (current, longest int) {
	if len(days) == 0 {
		return 0, 0
	}

	longest = 1
	current = 1

	for i := 1; i < len(days); i++ {
		if days[i].Sub(days[i-1]) == 24*time.Hour {
			current++
			if current > longest {
				longest = current
			}
		} else {
			current = 1
		}
	}

	return current, longest
}

// civilDay 把时间归一到 loc 中的日历日，以 UTC 零点表示，避免夏令时影响天数差
func civilDay(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}
