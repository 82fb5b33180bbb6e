package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/pixelpages/internal/db"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:service-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return gdb
}

func TestGormProgressStoreInsertAndGet(t *testing.T) {
	store := NewGormProgressStore(setupServiceTestDB(t))

	record, err := store.Get("alice", "first_scroll")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if record != nil {
		t.Fatalf("expected absent record, got %+v", record)
	}

	applied, err := store.Upsert(db.AchievementProgress{Actor: "alice", AchievementID: "apprentice_scribe", Progress: 1, ProgressPercentage: 20})
	if err != nil || !applied {
		t.Fatalf("expected insert to apply, applied=%v err=%v", applied, err)
	}

	record, err = store.Get("alice", "apprentice_scribe")
	if err != nil || record == nil {
		t.Fatalf("expected stored record, got %+v err=%v", record, err)
	}
	if record.Progress != 1 || record.ProgressPercentage != 20 {
		t.Fatalf("unexpected record: %+v", record)
	}

	applied, err = store.Upsert(db.AchievementProgress{Actor: "alice", AchievementID: "apprentice_scribe", Progress: 3, ProgressPercentage: 60})
	if err != nil || !applied {
		t.Fatalf("expected update to apply, applied=%v err=%v", applied, err)
	}

	all, err := store.GetAll("alice")
	if err != nil {
		t.Fatalf("GetAll returned error: %v", err)
	}
	if len(all) != 1 || all[0].Progress != 3 {
		t.Fatalf("expected a single record at progress 3, got %+v", all)
	}
}

func TestGormProgressStoreRejectsRegression(t *testing.T) {
	store := NewGormProgressStore(setupServiceTestDB(t))

	if _, err := store.Upsert(db.AchievementProgress{Actor: "bob", AchievementID: "wordsmith", Progress: 800, ProgressPercentage: 80}); err != nil {
		t.Fatalf("Upsert returned error: %v", err)
	}

	applied, err := store.Upsert(db.AchievementProgress{Actor: "bob", AchievementID: "wordsmith", Progress: 500, ProgressPercentage: 50})
	if err != nil {
		t.Fatalf("Upsert returned error: %v", err)
	}
	if applied {
		t.Fatal("expected regressing write to be rejected")
	}

	record, _ := store.Get("bob", "wordsmith")
	if record.Progress != 800 {
		t.Fatalf("expected progress to remain 800, got %d", record.Progress)
	}
}

func TestGormProgressStoreFreezesCompleted(t *testing.T) {
	store := NewGormProgressStore(setupServiceTestDB(t))
	unlockedAt := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)

	applied, err := store.Upsert(db.AchievementProgress{Actor: "carol", AchievementID: "first_scroll", Progress: 1, ProgressPercentage: 100, Completed: true, UnlockedAt: &unlockedAt})
	if err != nil || !applied {
		t.Fatalf("expected completion to apply, applied=%v err=%v", applied, err)
	}

	later := unlockedAt.Add(time.Hour)
	applied, err = store.Upsert(db.AchievementProgress{Actor: "carol", AchievementID: "first_scroll", Progress: 2, ProgressPercentage: 100, Completed: true, UnlockedAt: &later})
	if err != nil {
		t.Fatalf("Upsert returned error: %v", err)
	}
	if applied {
		t.Fatal("expected completed record to reject further writes")
	}

	record, _ := store.Get("carol", "first_scroll")
	if record.Progress != 1 || record.UnlockedAt == nil || !record.UnlockedAt.Equal(unlockedAt) {
		t.Fatalf("completed record changed: %+v", record)
	}

	var count int64
	store.db.Model(&db.AchievementProgress{}).Where("actor = ?", "carol").Count(&count)
	if count != 1 {
		t.Fatalf("expected one record per (actor, achievement), got %d", count)
	}
}

func TestGormProgressStoreEngineRoundTrip(t *testing.T) {
	store := NewGormProgressStore(setupServiceTestDB(t))
	engine := NewProgressEngine(newTestCatalog(t, engineTestDefinitions()...), store)

	unlocked, err := engine.Update("dana", Counters{db.RequirementSessionCount: 1})
	if err != nil || len(unlocked) != 1 {
		t.Fatalf("expected a single unlock, got %v err=%v", unlockedIDs(unlocked), err)
	}

	unlocked, err = engine.Update("dana", Counters{db.RequirementSessionCount: 1})
	if err != nil || len(unlocked) != 0 {
		t.Fatalf("expected no repeat unlock on double submit, got %v err=%v", unlockedIDs(unlocked), err)
	}
}
