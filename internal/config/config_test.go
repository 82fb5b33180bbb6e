package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "LISTEN_ADDR", "DATABASE_PATH", "SESSION_SECRET", "GIN_MODE", "APP_TIMEZONE", "SEED_ACHIEVEMENTS"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.Port != "8080" || cfg.ListenAddr != ":8080" {
		t.Fatalf("unexpected listen config: port=%q addr=%q", cfg.Port, cfg.ListenAddr)
	}
	if cfg.DatabasePath != "pixelpages.db" {
		t.Fatalf("unexpected database path: %q", cfg.DatabasePath)
	}
	if cfg.Location != time.UTC || cfg.Timezone != "UTC" {
		t.Fatalf("expected UTC location, got %v", cfg.Location)
	}
	if !cfg.SeedCatalog {
		t.Fatal("expected catalog seeding to default on")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("LISTEN_ADDR", "")
	t.Setenv("APP_TIMEZONE", "not/a-zone")
	t.Setenv("SEED_ACHIEVEMENTS", "off")

	cfg := Load()

	if cfg.ListenAddr != ":9000" {
		t.Fatalf("expected listen addr derived from port, got %q", cfg.ListenAddr)
	}
	if cfg.Location != time.UTC {
		t.Fatalf("expected fallback to UTC, got %v", cfg.Location)
	}
	if cfg.SeedCatalog {
		t.Fatal("expected catalog seeding disabled")
	}
}
