package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pixelpages/internal/service"
)

// ListAchievements 返回目录与当前用户进度
func (a *API) ListAchievements(c *gin.Context) {
	views, err := a.achievements.GetProgress(currentActor(c))
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取成就失败")
		return
	}

	items := make([]gin.H, 0, len(views))
	for _, view := range views {
		items = append(items, progressViewPayload(view))
	}
	c.JSON(http.StatusOK, gin.H{"achievements": items})
}

// GetAchievement 返回单个成就的进度
func (a *API) GetAchievement(c *gin.Context) {
	view, err := a.achievements.GetAchievementProgress(currentActor(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrUnknownAchievement) {
			respondError(c, http.StatusNotFound, "成就不存在")
			return
		}
		respondError(c, http.StatusInternalServerError, "获取成就失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"achievement": progressViewPayload(*view)})
}

// AchievementSummary 返回完成度、XP 与等级
func (a *API) AchievementSummary(c *gin.Context) {
	summary, err := a.achievements.GetSummary(currentActor(c))
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取成就汇总失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"summary": summaryPayload(summary)})
}

// RecheckAchievements 手动触发一次重算
func (a *API) RecheckAchievements(c *gin.Context) {
	actor := currentActor(c)
	unlocked, err := a.achievements.RecomputeAndUnlock(actor)
	if err != nil {
		c.Error(err)
		respondError(c, http.StatusInternalServerError, "成就重算失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"unlocked": serializeDefinitions(unlocked)})
}

// Stats 返回计数器快照与等级
func (a *API) Stats(c *gin.Context) {
	actor := currentActor(c)
	counters, err := a.achievements.Snapshot(actor)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取统计失败")
		return
	}
	summary, err := a.achievements.GetSummary(actor)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取统计失败")
		return
	}

	values := make(gin.H, len(counters))
	for req, value := range counters {
		values[string(req)] = value
	}
	c.JSON(http.StatusOK, gin.H{
		"counters": values,
		"xp":       summary.TotalXP,
		"level":    levelPayload(summary.Level),
	})
}

func progressViewPayload(view service.AchievementProgressView) gin.H {
	item := definitionPayload(view.Definition)
	item["progress"] = view.Progress
	item["progress_percentage"] = view.ProgressPercentage
	item["completed"] = view.Completed
	item["unlocked_at"] = formatOptionalTime(view.UnlockedAt)
	return item
}

func summaryPayload(summary *service.AchievementSummary) gin.H {
	return gin.H{
		"completed_count":       summary.CompletedCount,
		"total_count":           summary.TotalCount,
		"achievement_xp":        summary.AchievementXP,
		"activity_xp":           summary.ActivityXP,
		"total_xp":              summary.TotalXP,
		"completion_percentage": summary.CompletionPercentage,
		"level":                 levelPayload(summary.Level),
	}
}

func levelPayload(level service.LevelProgress) gin.H {
	return gin.H{
		"level":            level.Level,
		"total_xp":         level.TotalXP,
		"current_level_xp": level.CurrentLevelXP,
		"next_level_xp":    level.NextLevelXP,
		"percent":          level.Percent,
	}
}
