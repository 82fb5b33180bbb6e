package router

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/pixelpages/internal/handler"
)

const sessionName = "pixelpages_session"

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(api *handler.API, sessionSecret string) *gin.Engine {
	r := gin.Default()

	// 配置会话中间件
	store := cookie.NewStore([]byte(sessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   30 * 24 * 3600,
		HttpOnly: true,
	})
	r.Use(sessions.Sessions(sessionName, store))

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	public := r.Group("/api")
	{
		public.POST("/register", api.Register)
		public.POST("/login", api.Login)
		public.POST("/logout", api.Logout)
	}

	// 需要登录的接口
	auth := r.Group("/api")
	auth.Use(handler.AuthRequired())
	{
		auth.GET("/me", api.Me)

		auth.GET("/notes", api.ListNotes)
		auth.GET("/notes/:id", api.GetNote)
		auth.GET("/notes/:id/preview", api.PreviewNote)
		auth.POST("/notes", api.CreateNote)
		auth.PUT("/notes/:id", api.UpdateNote)
		auth.DELETE("/notes/:id", api.DeleteNote)
		auth.GET("/tags", api.ListTags)

		auth.GET("/folders", api.ListFolders)
		auth.POST("/folders", api.CreateFolder)
		auth.PUT("/folders/:id", api.UpdateFolder)
		auth.DELETE("/folders/:id", api.DeleteFolder)

		auth.GET("/tasks", api.ListTasks)
		auth.POST("/tasks", api.CreateTask)
		auth.PUT("/tasks/:id", api.UpdateTask)
		auth.POST("/tasks/:id/complete", api.CompleteTask)
		auth.POST("/tasks/:id/reopen", api.ReopenTask)
		auth.DELETE("/tasks/:id", api.DeleteTask)

		auth.GET("/focus", api.ListFocusEntries)
		auth.POST("/focus", api.LogFocus)
		auth.DELETE("/focus/:id", api.DeleteFocusEntry)

		auth.GET("/achievements", api.ListAchievements)
		auth.GET("/achievements/summary", api.AchievementSummary)
		auth.POST("/achievements/recheck", api.RecheckAchievements)
		auth.GET("/achievements/:id", api.GetAchievement)
		auth.GET("/stats", api.Stats)
	}

	return r
}
