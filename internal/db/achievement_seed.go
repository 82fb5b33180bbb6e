package db

import (
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"
)

// ErrInvalidDefinition 成就定义不满足约束时返回
var ErrInvalidDefinition = errors.New("invalid achievement definition")

// DefaultAchievements 返回内置的成就定义集合
func DefaultAchievements() []AchievementDefinition {
	defs := []AchievementDefinition{
		// 笔记
		{ID: "first_scroll", Name: "First Scroll", Description: "Write your first note", Icon: "scroll", Color: "#8B5CF6", Category: CategoryNotes, Tier: TierCommon, XPReward: 25, RequirementType: RequirementNoteCount, RequirementTarget: 1},
		{ID: "apprentice_scribe", Name: "Apprentice Scribe", Description: "Write 5 notes", Icon: "feather", Color: "#8B5CF6", Category: CategoryNotes, Tier: TierCommon, XPReward: 50, RequirementType: RequirementNoteCount, RequirementTarget: 5},
		{ID: "journeyman_scribe", Name: "Journeyman Scribe", Description: "Write 25 notes", Icon: "book", Color: "#7C3AED", Category: CategoryNotes, Tier: TierUncommon, XPReward: 100, RequirementType: RequirementNoteCount, RequirementTarget: 25},
		{ID: "master_scribe", Name: "Master Scribe", Description: "Write 100 notes", Icon: "library", Color: "#6D28D9", Category: CategoryNotes, Tier: TierRare, XPReward: 250, RequirementType: RequirementNoteCount, RequirementTarget: 100},
		{ID: "wordsmith", Name: "Wordsmith", Description: "Write 1,000 words across your notes", Icon: "quill", Color: "#EC4899", Category: CategoryNotes, Tier: TierCommon, XPReward: 50, RequirementType: RequirementWordCount, RequirementTarget: 1000},
		{ID: "storyteller", Name: "Storyteller", Description: "Write 10,000 words across your notes", Icon: "tome", Color: "#DB2777", Category: CategoryNotes, Tier: TierRare, XPReward: 200, RequirementType: RequirementWordCount, RequirementTarget: 10000},
		{ID: "loremaster", Name: "Loremaster", Description: "Write 50,000 words across your notes", Icon: "crown", Color: "#BE185D", Category: CategoryNotes, Tier: TierLegendary, XPReward: 500, RequirementType: RequirementWordCount, RequirementTarget: 50000},
		{ID: "tag_collector", Name: "Tag Collector", Description: "Use 10 different tags", Icon: "tag", Color: "#F59E0B", Category: CategoryNotes, Tier: TierUncommon, XPReward: 75, RequirementType: RequirementTagCount, RequirementTarget: 10},
		{ID: "cartographer", Name: "Cartographer", Description: "Create 3 folders", Icon: "map", Color: "#10B981", Category: CategoryNotes, Tier: TierCommon, XPReward: 40, RequirementType: RequirementFolderCount, RequirementTarget: 3},
		{ID: "weekend_warrior", Name: "Weekend Warrior", Description: "Write 5 notes on weekends", Icon: "sword", Color: "#EF4444", Category: CategoryNotes, Tier: TierUncommon, XPReward: 60, RequirementType: RequirementWeekendNotes, RequirementTarget: 5},
		{ID: "night_owl", Name: "Night Owl", Description: "Write 3 notes between midnight and 5am", Icon: "moon", Color: "#1E3A8A", Category: CategoryNotes, Tier: TierUncommon, XPReward: 60, RequirementType: RequirementLateNightNotes, RequirementTarget: 3},

		// 任务
		{ID: "quest_accepted", Name: "Quest Accepted", Description: "Complete your first task", Icon: "check", Color: "#22C55E", Category: CategoryTasks, Tier: TierCommon, XPReward: 25, RequirementType: RequirementTaskCount, RequirementTarget: 1},
		{ID: "task_slayer", Name: "Task Slayer", Description: "Complete 10 tasks", Icon: "axe", Color: "#16A34A", Category: CategoryTasks, Tier: TierUncommon, XPReward: 100, RequirementType: RequirementTaskCount, RequirementTarget: 10},
		{ID: "quest_champion", Name: "Quest Champion", Description: "Complete 50 tasks", Icon: "trophy", Color: "#15803D", Category: CategoryTasks, Tier: TierRare, XPReward: 250, RequirementType: RequirementTaskCount, RequirementTarget: 50},
		{ID: "speedrunner", Name: "Speedrunner", Description: "Complete 3 tasks in a single day", Icon: "bolt", Color: "#EAB308", Category: CategoryTasks, Tier: TierUncommon, XPReward: 75, RequirementType: RequirementTasksInADay, RequirementTarget: 3},

		// 专注
		{ID: "focused_initiate", Name: "Focused Initiate", Description: "Log your first focus session", Icon: "hourglass", Color: "#06B6D4", Category: CategoryFocus, Tier: TierCommon, XPReward: 25, RequirementType: RequirementSessionCount, RequirementTarget: 1},
		{ID: "meditative_mind", Name: "Meditative Mind", Description: "Log 25 focus sessions", Icon: "lotus", Color: "#0891B2", Category: CategoryFocus, Tier: TierUncommon, XPReward: 100, RequirementType: RequirementSessionCount, RequirementTarget: 25},
		{ID: "time_keeper", Name: "Time Keeper", Description: "Focus for 10 hours in total", Icon: "clock", Color: "#0E7490", Category: CategoryFocus, Tier: TierRare, XPReward: 200, RequirementType: RequirementTotalTime, RequirementTarget: 600},
		{ID: "deep_diver", Name: "Deep Diver", Description: "Complete a single 90 minute focus session", Icon: "anchor", Color: "#155E75", Category: CategoryFocus, Tier: TierUncommon, XPReward: 80, RequirementType: RequirementLongSession, RequirementTarget: 90},

		// 综合
		{ID: "streak_spark", Name: "Streak Spark", Description: "Be active 3 days in a row", Icon: "flame", Color: "#F97316", Category: CategoryCombo, Tier: TierCommon, XPReward: 50, RequirementType: RequirementDailyStreak, RequirementTarget: 3},
		{ID: "streak_blaze", Name: "Streak Blaze", Description: "Be active 7 days in a row", Icon: "fire", Color: "#EA580C", Category: CategoryCombo, Tier: TierUncommon, XPReward: 120, RequirementType: RequirementDailyStreak, RequirementTarget: 7},
		{ID: "streak_inferno", Name: "Streak Inferno", Description: "Be active 30 days in a row", Icon: "phoenix", Color: "#C2410C", Category: CategoryCombo, Tier: TierLegendary, XPReward: 500, RequirementType: RequirementDailyStreak, RequirementTarget: 30},

		// 元成就
		{ID: "achievement_hunter", Name: "Achievement Hunter", Description: "Unlock 5 achievements", Icon: "medal", Color: "#A855F7", Category: CategoryMeta, Tier: TierUncommon, XPReward: 100, RequirementType: RequirementAchievementCount, RequirementTarget: 5},
		{ID: "completionist", Name: "Completionist", Description: "Unlock 15 achievements", Icon: "gem", Color: "#9333EA", Category: CategoryMeta, Tier: TierLegendary, XPReward: 400, RequirementType: RequirementAchievementCount, RequirementTarget: 15},
	}

	for i := range defs {
		defs[i].SortOrder = i + 1
	}
	return defs
}

// ValidateDefinitions 检查 ID 唯一、目标值为正、计数器已知
func ValidateDefinitions(defs []AchievementDefinition) error {
	seen := make(map[string]struct{}, len(defs))
	for _, def := range defs {
		if def.ID == "" {
			return fmt.Errorf("%w: empty id", ErrInvalidDefinition)
		}
		if _, dup := seen[def.ID]; dup {
			return fmt.Errorf("%w: duplicate id %s", ErrInvalidDefinition, def.ID)
		}
		seen[def.ID] = struct{}{}

		if def.RequirementTarget <= 0 {
			return fmt.Errorf("%w: %s target must be positive", ErrInvalidDefinition, def.ID)
		}
		if def.XPReward < 0 {
			return fmt.Errorf("%w: %s xp reward must not be negative", ErrInvalidDefinition, def.ID)
		}
		if !def.RequirementType.Valid() {
			return fmt.Errorf("%w: %s unknown requirement %s", ErrInvalidDefinition, def.ID, def.RequirementType)
		}
	}
	return nil
}

// SeedAchievements 仅当成就表为空时写入内置定义，重复启动不会产生重复数据。
// 返回本次写入的条数。
func SeedAchievements(gdb *gorm.DB) (int, error) {
	if gdb == nil {
		return 0, errors.New("database not initialized")
	}

	var count int64
	if err := gdb.Model(&AchievementDefinition{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count achievement definitions: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	defs := DefaultAchievements()
	if err := ValidateDefinitions(defs); err != nil {
		return 0, err
	}

	if err := gdb.Create(&defs).Error; err != nil {
		return 0, fmt.Errorf("seed achievement definitions: %w", err)
	}

	log.Printf("[achievement] seeded %d default definitions", len(defs))
	return len(defs), nil
}
