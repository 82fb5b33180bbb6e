package service

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/pixelpages/internal/db"
)

const (
	noteBaseXP             = 10
	noteLengthBonusCap     = 50
	noteLengthBonusDivisor = 10
	noteTagXP              = 5
	longTitleBonusXP       = 5
	longTitleThreshold     = 20
	xpPerLevelUnit         = 50
)

// LevelProgress 描述当前等级及其 XP 区间 [CurrentLevelXP, NextLevelXP)
type LevelProgress struct {
	TotalXP        int     `json:"total_xp"`
	Level          int     `json:"level"`
	CurrentLevelXP int     `json:"current_level_xp"`
	NextLevelXP    int     `json:"next_level_xp"`
	Percent        float64 `json:"percent"`
}

// NoteXP 计算单条笔记的活动 XP：基础分、正文长度加成（封顶）、标签与长标题奖励
func NoteXP(note db.Note) int {
	xp := noteBaseXP

	length := utf8.RuneCountInString(strings.TrimSpace(note.Content))
	xp += min(noteLengthBonusCap, length/noteLengthBonusDivisor)

	xp += noteTagXP * len(note.Tags)

	if utf8.RuneCountInString(strings.TrimSpace(note.Title)) > longTitleThreshold {
		xp += longTitleBonusXP
	}
	return xp
}

// ActivityXP 汇总多条笔记的活动 XP
func ActivityXP(notes []db.Note) int {
	total := 0
	for _, note := range notes {
		total += NoteXP(note)
	}
	return total
}

// LevelForXP level = floor(sqrt(xp / 50)) + 1
func LevelForXP(xp int) int {
	if xp <= 0 {
		return 1
	}
	return int(math.Floor(math.Sqrt(float64(xp)/xpPerLevelUnit))) + 1
}

// XPForLevel xpForLevel(n) = floor(n^2 * 50)
func XPForLevel(level int) int {
	if level <= 0 {
		return 0
	}
	return int(math.Floor(float64(level) * float64(level) * xpPerLevelUnit))
}

// ComputeLevelProgress 从总 XP 推导等级与区间，仅用于展示
func ComputeLevelProgress(totalXP int) LevelProgress {
	if totalXP < 0 {
		totalXP = 0
	}
	level := LevelForXP(totalXP)
	lower := XPForLevel(level - 1)
	upper := XPForLevel(level)

	progress := LevelProgress{
		TotalXP:        totalXP,
		Level:          level,
		CurrentLevelXP: lower,
		NextLevelXP:    upper,
	}
	if span := upper - lower; span > 0 {
		progress.Percent = math.Min(100, float64(totalXP-lower)*100/float64(span))
	}
	return progress
}
