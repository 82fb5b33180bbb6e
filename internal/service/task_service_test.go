package service

import (
	"errors"
	"testing"
	"time"
)

func TestTaskServiceCreateAndComplete(t *testing.T) {
	gdb := setupServiceTestDB(t)
	doneAt := time.Date(2024, 7, 1, 9, 30, 0, 0, time.UTC)
	svc := NewTaskService(gdb).WithClock(func() time.Time { return doneAt })

	task, err := svc.Create("alice", TaskInput{Title: "Slay the dragon", Priority: "HIGH"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if task.Priority != "high" || task.IsCompleted() {
		t.Fatalf("unexpected new task: %+v", task)
	}

	if _, err := svc.Create("alice", TaskInput{Title: "x", Priority: "urgent"}); !errors.Is(err, ErrTaskInvalidPriority) {
		t.Fatalf("expected ErrTaskInvalidPriority, got %v", err)
	}
	if _, err := svc.Create("alice", TaskInput{Title: " "}); !errors.Is(err, ErrTaskTitleRequired) {
		t.Fatalf("expected ErrTaskTitleRequired, got %v", err)
	}

	completed, err := svc.SetCompleted("alice", task.ID, true)
	if err != nil {
		t.Fatalf("SetCompleted returned error: %v", err)
	}
	if !completed.IsCompleted() || completed.CompletedAt == nil || !completed.CompletedAt.Equal(doneAt) {
		t.Fatalf("unexpected completed task: %+v", completed)
	}

	done, err := svc.List("alice", TaskFilter{Status: "done"})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(done) != 1 {
		t.Fatalf("expected one done task, got %d", len(done))
	}

	reopened, err := svc.SetCompleted("alice", task.ID, false)
	if err != nil {
		t.Fatalf("SetCompleted returned error: %v", err)
	}
	if reopened.IsCompleted() || reopened.CompletedAt != nil {
		t.Fatalf("expected reopened task, got %+v", reopened)
	}

	open, err := svc.List("alice", TaskFilter{Status: "open"})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(open) != 1 {
		t.Fatalf("expected one open task, got %d", len(open))
	}
}

func TestTaskServiceUpdateAndDelete(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewTaskService(gdb)

	task, err := svc.Create("alice", TaskInput{Title: "Write report"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if task.Priority != "medium" {
		t.Fatalf("expected default priority, got %q", task.Priority)
	}

	updated, err := svc.Update("alice", task.ID, TaskInput{Title: "Write final report", Priority: "low"})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.Title != "Write final report" || updated.Priority != "low" {
		t.Fatalf("unexpected update: %+v", updated)
	}

	if _, err := svc.Get("bob", task.ID); !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound for foreign task, got %v", err)
	}
	if err := svc.Delete("alice", task.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if err := svc.Delete("alice", task.ID); !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound on second delete, got %v", err)
	}
}
