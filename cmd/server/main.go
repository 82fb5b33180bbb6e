package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/pixelpages/internal/config"
	"github.com/pixelpages/internal/db"
	"github.com/pixelpages/internal/handler"
	"github.com/pixelpages/internal/router"
	"github.com/pixelpages/internal/service"
)

func main() {
	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	// 初始化数据库
	if err := db.Init(cfg.DatabasePath); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	if cfg.SeedCatalog {
		inserted, err := db.SeedAchievements(db.DB)
		if err != nil {
			log.Fatalf("failed to seed achievements: %v", err)
		}
		if inserted > 0 {
			log.Printf("[achievement] seeded %d definitions", inserted)
		}
	}

	if err := db.EnsureUser(db.DB, cfg.AdminUserName, cfg.AdminPassword); err != nil {
		log.Fatalf("failed to ensure admin user: %v", err)
	}

	// 目录启动时加载一次，之后只读
	catalog, err := service.LoadAchievementCatalog(db.DB)
	if err != nil {
		log.Fatalf("failed to load achievement catalog: %v", err)
	}

	api := handler.NewAPI(db.DB, catalog, cfg.Location)
	r := router.SetupRouter(api, cfg.SessionSecret)
	log.Printf("[server] listening on %s (timezone %s, %d achievements)", cfg.ListenAddr, cfg.Timezone, catalog.Len())
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatalf("failed to run server: %v", err)
	}
}
