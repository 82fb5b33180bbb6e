package handler

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
	"github.com/pixelpages/internal/db"
	"github.com/pixelpages/internal/service"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db           *gorm.DB
	notes        *service.NoteService
	folders      *service.FolderService
	tasks        *service.TaskService
	focus        *service.FocusService
	stats        *service.StatsService
	achievements *service.AchievementService
	loc          *time.Location
	markdown     goldmark.Markdown
	sanitizer    *bluemonday.Policy
}

// NewAPI constructs a handler set with shared services.
func NewAPI(gdb *gorm.DB, catalog *service.AchievementCatalog, loc *time.Location) *API {
	if loc == nil {
		loc = time.UTC
	}
	stats := service.NewStatsService(gdb, loc)

	return &API{
		db:           gdb,
		notes:        service.NewNoteService(gdb),
		folders:      service.NewFolderService(gdb),
		tasks:        service.NewTaskService(gdb),
		focus:        service.NewFocusService(gdb),
		stats:        stats,
		achievements: service.NewAchievementService(catalog, service.NewGormProgressStore(gdb), stats),
		loc:          loc,
		markdown: goldmark.New(
			goldmark.WithExtensions(extension.GFM, extension.Linkify, extension.Table),
			goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML()),
		),
		sanitizer: bluemonday.UGCPolicy(),
	}
}

// DB exposes the underlying gorm instance.
func (a *API) DB() *gorm.DB {
	return a.db
}

// Achievements exposes the achievement service for callers outside HTTP.
func (a *API) Achievements() *service.AchievementService {
	return a.achievements
}

// recompute 在数据变更后同步重算成就；失败只记录日志，不影响本次写操作的结果
func (a *API) recompute(c *gin.Context, actor string) []gin.H {
	unlocked, err := a.achievements.RecomputeAndUnlock(actor)
	if err != nil {
		c.Error(err)
		log.Printf("[achievement] recompute actor=%s failed: %v", actor, err)
	}
	return serializeDefinitions(unlocked)
}

func serializeDefinitions(defs []db.AchievementDefinition) []gin.H {
	items := make([]gin.H, 0, len(defs))
	for _, def := range defs {
		items = append(items, definitionPayload(def))
	}
	return items
}

func definitionPayload(def db.AchievementDefinition) gin.H {
	return gin.H{
		"id":                 def.ID,
		"name":               def.Name,
		"description":        def.Description,
		"icon":               def.Icon,
		"color":              def.Color,
		"category":           def.Category,
		"tier":               def.Tier,
		"xp_reward":          def.XPReward,
		"requirement_type":   def.RequirementType,
		"requirement_target": def.RequirementTarget,
	}
}
