package service

import (
	"errors"
	"testing"
)

func TestFolderServiceLifecycle(t *testing.T) {
	gdb := setupServiceTestDB(t)
	folders := NewFolderService(gdb)
	notes := NewNoteService(gdb)

	journal, err := folders.Create("alice", FolderInput{Name: "Journal", Color: "#fff"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if _, err := folders.Create("alice", FolderInput{Name: "journal"}); !errors.Is(err, ErrFolderExists) {
		t.Fatalf("expected ErrFolderExists, got %v", err)
	}
	if _, err := folders.Create("alice", FolderInput{Name: " "}); !errors.Is(err, ErrFolderNameRequired) {
		t.Fatalf("expected ErrFolderNameRequired, got %v", err)
	}
	if _, err := folders.Create("bob", FolderInput{Name: "Journal"}); err != nil {
		t.Fatalf("expected other owner to reuse name, got %v", err)
	}

	note, err := notes.Create("alice", NoteInput{Title: "Entry", FolderID: &journal.ID})
	if err != nil {
		t.Fatalf("create note: %v", err)
	}

	list, err := folders.List("alice")
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(list) != 1 || list[0].NoteCount != 1 {
		t.Fatalf("expected one folder with one note, got %+v", list)
	}

	renamed, err := folders.Update("alice", journal.ID, FolderInput{Name: "Diary"})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if renamed.Name != "Diary" {
		t.Fatalf("expected rename, got %q", renamed.Name)
	}

	if err := folders.Delete("alice", journal.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}

	reloaded, err := notes.Get("alice", note.ID)
	if err != nil {
		t.Fatalf("note should survive folder deletion: %v", err)
	}
	if reloaded.FolderID != nil {
		t.Fatalf("expected note to be detached, got folder %v", *reloaded.FolderID)
	}

	if err := folders.Delete("alice", journal.ID); !errors.Is(err, ErrFolderNotFound) {
		t.Fatalf("expected ErrFolderNotFound on second delete, got %v", err)
	}
}
