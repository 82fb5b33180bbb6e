package db

import "time"

// Requirement 是成就条件读取的计数器名称，取值封闭
type Requirement string

const (
	RequirementNoteCount        Requirement = "note_count"
	RequirementWordCount        Requirement = "word_count"
	RequirementTaskCount        Requirement = "task_count"
	RequirementSessionCount     Requirement = "session_count"
	RequirementTotalTime        Requirement = "total_time"
	RequirementDailyStreak      Requirement = "daily_streak"
	RequirementLongSession      Requirement = "long_session"
	RequirementTagCount         Requirement = "tag_count"
	RequirementFolderCount      Requirement = "folder_count"
	RequirementWeekendNotes     Requirement = "weekend_notes"
	RequirementLateNightNotes   Requirement = "late_night_notes"
	RequirementTasksInADay      Requirement = "tasks_in_a_day"
	RequirementAchievementCount Requirement = "achievement_count"
)

// Requirements 列出全部计数器，顺序即统计输出顺序
var Requirements = []Requirement{
	RequirementNoteCount,
	RequirementWordCount,
	RequirementTaskCount,
	RequirementSessionCount,
	RequirementTotalTime,
	RequirementDailyStreak,
	RequirementLongSession,
	RequirementTagCount,
	RequirementFolderCount,
	RequirementWeekendNotes,
	RequirementLateNightNotes,
	RequirementTasksInADay,
	RequirementAchievementCount,
}

// Valid 判断是否为已知计数器
func (r Requirement) Valid() bool {
	for _, known := range Requirements {
		if r == known {
			return true
		}
	}
	return false
}

// 成就分类，仅用于展示分组
const (
	CategoryNotes = "notes"
	CategoryTasks = "tasks"
	CategoryFocus = "focus"
	CategoryCombo = "combo"
	CategoryMeta  = "meta"
)

// 成就稀有度，只影响排序与展示
const (
	TierCommon    = "common"
	TierUncommon  = "uncommon"
	TierRare      = "rare"
	TierLegendary = "legendary"
)

// AchievementDefinition 成就定义，启动后只读
// ID 为稳定键，永不复用
type AchievementDefinition struct {
	ID                string      `gorm:"primaryKey;size:64" json:"id"`
	Name              string      `gorm:"not null" json:"name"`
	Description       string      `json:"description"`
	Icon              string      `json:"icon"`
	Color             string      `json:"color"`
	Category          string      `gorm:"size:16;index" json:"category"`
	Tier              string      `gorm:"size:16" json:"tier"`
	XPReward          int         `gorm:"default:0" json:"xp_reward"`
	RequirementType   Requirement `gorm:"size:32;index;not null" json:"requirement_type"`
	RequirementTarget int64       `gorm:"not null" json:"requirement_target"`
	SortOrder         int         `gorm:"default:0" json:"sort_order"`
	CreatedAt         time.Time   `json:"-"`
	UpdatedAt         time.Time   `json:"-"`
}

// TableName 指定自定义表名。
func (AchievementDefinition) TableName() string {
	return "achievement_definitions"
}

// AchievementProgress 是 (actor, achievement) 维度的进度记录
// 同一组合只允许一条记录；Completed 置位后不再变化
type AchievementProgress struct {
	ID                 uint       `gorm:"primaryKey"`
	Actor              string     `gorm:"size:64;not null;uniqueIndex:idx_progress_actor_achievement"`
	AchievementID      string     `gorm:"size:64;not null;uniqueIndex:idx_progress_actor_achievement"`
	Progress           int64      `gorm:"not null;default:0"`
	ProgressPercentage float64    `gorm:"not null;default:0"`
	Completed          bool       `gorm:"not null;default:false;index"`
	UnlockedAt         *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// TableName 指定自定义表名。
func (AchievementProgress) TableName() string {
	return "achievement_progress"
}
