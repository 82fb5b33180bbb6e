package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig 汇总运行服务所需的基础配置。
type AppConfig struct {
	ListenAddr    string
	Port          string
	DatabasePath  string
	SessionSecret string
	GinMode       string
	Timezone      string
	Location      *time.Location
	SeedCatalog   bool
	AdminUserName string
	AdminPassword string
}

// Load 先尝试加载 .env，再从环境变量读取应用配置，并为缺失项提供安全的默认值。
func Load() AppConfig {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("[config] skip .env: %v", err)
	}

	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	listenAddr := strings.TrimSpace(os.Getenv("LISTEN_ADDR"))
	if listenAddr == "" {
		listenAddr = fmt.Sprintf(":%s", port)
	}

	databasePath := strings.TrimSpace(os.Getenv("DATABASE_PATH"))
	if databasePath == "" {
		databasePath = "pixelpages.db"
	}

	sessionSecret := strings.TrimSpace(os.Getenv("SESSION_SECRET"))
	if sessionSecret == "" {
		sessionSecret = "pixelpages-dev-secret"
	}

	ginMode := strings.TrimSpace(os.Getenv("GIN_MODE"))
	if ginMode == "" {
		ginMode = "release"
	}

	timezone := strings.TrimSpace(os.Getenv("APP_TIMEZONE"))
	if timezone == "" {
		timezone = "UTC"
	}
	location, err := time.LoadLocation(timezone)
	if err != nil {
		log.Printf("[config] unknown APP_TIMEZONE %q, falling back to UTC", timezone)
		timezone = "UTC"
		location = time.UTC
	}

	seedCatalog := true
	switch strings.ToLower(strings.TrimSpace(os.Getenv("SEED_ACHIEVEMENTS"))) {
	case "0", "false", "no", "off":
		seedCatalog = false
	}

	return AppConfig{
		ListenAddr:    listenAddr,
		Port:          port,
		DatabasePath:  databasePath,
		SessionSecret: sessionSecret,
		GinMode:       ginMode,
		Timezone:      timezone,
		Location:      location,
		SeedCatalog:   seedCatalog,
		AdminUserName: strings.TrimSpace(os.Getenv("ADMIN_USER_NAME")),
		AdminPassword: strings.TrimSpace(os.Getenv("ADMIN_PASSWORD")),
	}
}
