package service

import (
	"testing"
	"time"

	"github.com/pixelpages/internal/db"
	"gorm.io/gorm"
)

func boolPtr(v bool) *bool {
	return &v
}

func timePtr(t time.Time) *time.Time {
	return &t
}

func createNoteAt(t *testing.T, gdb *gorm.DB, owner, content string, at time.Time, tags ...string) db.Note {
	t.Helper()
	note := db.Note{Owner: owner, Title: "note", Content: content}
	note.CreatedAt = at
	note.UpdatedAt = at
	for _, tag := range tags {
		note.Tags = append(note.Tags, db.NoteTag{Owner: owner, Name: tag})
	}
	if err := gdb.Create(&note).Error; err != nil {
		t.Fatalf("create note: %v", err)
	}
	return note
}

func TestCountWords(t *testing.T) {
	tests := []struct {
		content string
		want    int
	}{
		{"", 0},
		{"   \n\t ", 0},
		{"hello world", 2},
		{"  spaced   out\n\nwords\tand tabs ", 5},
		{"one", 1},
	}
	for _, tt := range tests {
		if got := CountWords(tt.content); got != tt.want {
			t.Fatalf("CountWords(%q) = %d, want %d", tt.content, got, tt.want)
		}
	}
}

func TestCounterFuncsCoverEveryRequirement(t *testing.T) {
	for _, req := range db.Requirements {
		if _, ok := counterFuncs[req]; !ok {
			t.Fatalf("requirement %s has no counter", req)
		}
	}
	if len(counterFuncs) != len(db.Requirements) {
		t.Fatalf("counterFuncs has %d entries, expected %d", len(counterFuncs), len(db.Requirements))
	}
}

func TestStatsSnapshotZeroState(t *testing.T) {
	svc := NewStatsService(setupServiceTestDB(t), time.UTC)

	counters, err := svc.Snapshot("nobody")
	if err != nil {
		t.Fatalf("Snapshot returned error: %v", err)
	}
	for _, req := range db.Requirements {
		value, ok := counters[req]
		if !ok {
			t.Fatalf("expected counter %s to be present", req)
		}
		if value != 0 {
			t.Fatalf("expected %s to be zero, got %d", req, value)
		}
	}
}

func TestStatsSnapshotAggregatesActivity(t *testing.T) {
	gdb := setupServiceTestDB(t)
	today := time.Date(2024, 6, 10, 15, 0, 0, 0, time.UTC) // 周一
	svc := NewStatsService(gdb, time.UTC).WithClock(func() time.Time { return today })

	createNoteAt(t, gdb, "alice", "hello world", today.AddDate(0, 0, -1), "quest", "Lore")
	createNoteAt(t, gdb, "alice", "  ", today.AddDate(0, 0, -2).Add(-13*time.Hour), "quest")
	createNoteAt(t, gdb, "alice", "three little words", today, "daily")
	createNoteAt(t, gdb, "mallory", "not counted at all", today)

	tasks := []db.Task{
		{Owner: "alice", Title: "a", Completed: boolPtr(true), CompletedAt: timePtr(today)},
		{Owner: "alice", Title: "b", Completed: boolPtr(true), CompletedAt: timePtr(today.Add(time.Hour))},
		{Owner: "alice", Title: "c", Completed: boolPtr(true), CompletedAt: timePtr(today.AddDate(0, 0, -5))},
		{Owner: "alice", Title: "d", Completed: boolPtr(false)},
		{Owner: "alice", Title: "legacy"},
	}
	if err := gdb.Create(&tasks).Error; err != nil {
		t.Fatalf("create tasks: %v", err)
	}

	entries := []db.FocusEntry{
		{Owner: "alice", ClientToken: "f1", DurationMinutes: 25, Date: today.AddDate(0, 0, -3)},
		{Owner: "alice", ClientToken: "f2", DurationMinutes: 95, Date: today.AddDate(0, 0, -1)},
		{Owner: "alice", ClientToken: "f3", DurationMinutes: 30, Date: today.AddDate(0, 0, 3)},
	}
	if err := gdb.Create(&entries).Error; err != nil {
		t.Fatalf("create focus entries: %v", err)
	}

	if err := gdb.Create(&db.Folder{Owner: "alice", Name: "Journal"}).Error; err != nil {
		t.Fatalf("create folder: %v", err)
	}

	counters, err := svc.Snapshot("alice")
	if err != nil {
		t.Fatalf("Snapshot returned error: %v", err)
	}

	expected := map[db.Requirement]int64{
		db.RequirementNoteCount:      3,
		db.RequirementWordCount:      5,
		db.RequirementTaskCount:      3,
		db.RequirementSessionCount:   3,
		db.RequirementTotalTime:      150,
		db.RequirementLongSession:    95,
		db.RequirementTagCount:       3,
		db.RequirementFolderCount:    1,
		db.RequirementWeekendNotes:   2,
		db.RequirementLateNightNotes: 1,
		db.RequirementTasksInADay:    2,
		// 活跃日：-5, -3, -2, -1, 0；未来的专注记录不计入
		db.RequirementDailyStreak:      4,
		db.RequirementAchievementCount: 0,
	}
	for req, want := range expected {
		if got := counters[req]; got != want {
			t.Fatalf("%s = %d, want %d", req, got, want)
		}
	}
}

func TestStatsSnapshotUsesConfiguredTimezone(t *testing.T) {
	gdb := setupServiceTestDB(t)
	tokyo := time.FixedZone("JST", 9*3600)
	now := time.Date(2024, 6, 12, 12, 0, 0, 0, time.UTC)

	// UTC 周五 16:00 = 东京周六 01:00
	createNoteAt(t, gdb, "kai", "late", time.Date(2024, 6, 7, 16, 0, 0, 0, time.UTC))

	utcCounters, err := NewStatsService(gdb, time.UTC).WithClock(func() time.Time { return now }).Snapshot("kai")
	if err != nil {
		t.Fatalf("Snapshot returned error: %v", err)
	}
	tokyoCounters, err := NewStatsService(gdb, tokyo).WithClock(func() time.Time { return now }).Snapshot("kai")
	if err != nil {
		t.Fatalf("Snapshot returned error: %v", err)
	}

	if utcCounters[db.RequirementWeekendNotes] != 0 || utcCounters[db.RequirementLateNightNotes] != 0 {
		t.Fatalf("unexpected UTC buckets: %+v", utcCounters)
	}
	if tokyoCounters[db.RequirementWeekendNotes] != 1 || tokyoCounters[db.RequirementLateNightNotes] != 1 {
		t.Fatalf("unexpected Tokyo buckets: %+v", tokyoCounters)
	}
}

func TestStatsSnapshotCountsCompletedAchievements(t *testing.T) {
	gdb := setupServiceTestDB(t)
	records := []db.AchievementProgress{
		{Actor: "alice", AchievementID: "a", Progress: 1, Completed: true},
		{Actor: "alice", AchievementID: "b", Progress: 1, Completed: true},
		{Actor: "alice", AchievementID: "c", Progress: 1},
	}
	if err := gdb.Create(&records).Error; err != nil {
		t.Fatalf("create progress: %v", err)
	}

	counters, err := NewStatsService(gdb, time.UTC).Snapshot("alice")
	if err != nil {
		t.Fatalf("Snapshot returned error: %v", err)
	}
	if counters[db.RequirementAchievementCount] != 2 {
		t.Fatalf("expected 2 completed achievements, got %d", counters[db.RequirementAchievementCount])
	}
}

func TestCalculateStreaks(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2024, 5, d, 0, 0, 0, 0, time.UTC) }

	tests := []struct {
		name             string
		days             []time.Time
		current, longest int
	}{
		{name: "empty", days: nil, current: 0, longest: 0},
		{name: "single", days: []time.Time{day(1)}, current: 1, longest: 1},
		{name: "run then gap", days: []time.Time{day(1), day(2), day(3), day(5)}, current: 1, longest: 3},
		{name: "trailing run", days: []time.Time{day(1), day(3), day(4)}, current: 2, longest: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			current, longest := calculateStreaks(tt.days)
			if current != tt.current || longest != tt.longest {
				t.Fatalf("got current=%d longest=%d, want %d/%d", current, longest, tt.current, tt.longest)
			}
		})
	}
}
