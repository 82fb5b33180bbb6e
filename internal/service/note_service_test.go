package service

import (
	"errors"
	"testing"
)

func TestNoteServiceCreateAndList(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewNoteService(gdb)

	note, err := svc.Create("alice", NoteInput{Content: "# **Dragon notes**\nthe red one", Tags: []string{"#Lore", "lore", " quests ", ""}})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if note.ID == 0 {
		t.Fatal("expected note to have ID")
	}
	if note.Title != "Dragon notes" {
		t.Fatalf("expected derived title, got %q", note.Title)
	}
	if len(note.Tags) != 2 || note.Tags[0].Name != "lore" || note.Tags[1].Name != "quests" {
		t.Fatalf("unexpected tags: %+v", note.Tags)
	}

	if _, err := svc.Create("alice", NoteInput{Title: "Shopping", Content: "potions"}); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if _, err := svc.Create("bob", NoteInput{Title: "Other", Content: "dragon"}); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	notes, err := svc.List("alice", NoteFilter{})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(notes) != 2 {
		t.Fatalf("expected 2 notes for alice, got %d", len(notes))
	}

	tagged, err := svc.List("alice", NoteFilter{Tag: "LORE"})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(tagged) != 1 || tagged[0].ID != note.ID {
		t.Fatalf("expected tag filter to match the dragon note, got %+v", tagged)
	}

	searched, err := svc.List("alice", NoteFilter{Search: "potion"})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(searched) != 1 || searched[0].Title != "Shopping" {
		t.Fatalf("unexpected search result: %+v", searched)
	}

	if _, err := svc.Create("alice", NoteInput{Title: "  ", Content: "\n"}); !errors.Is(err, ErrNoteEmpty) {
		t.Fatalf("expected ErrNoteEmpty, got %v", err)
	}
}

func TestNoteServiceUpdateReplacesTags(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewNoteService(gdb)

	note, err := svc.Create("alice", NoteInput{Title: "Quest", Content: "start", Tags: []string{"a", "b"}})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	updated, err := svc.Update("alice", note.ID, NoteInput{Title: "Quest log", Content: "middle", Tags: []string{"c"}})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.Title != "Quest log" || updated.Content != "middle" {
		t.Fatalf("unexpected update result: %+v", updated)
	}

	reloaded, err := svc.Get("alice", note.ID)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if len(reloaded.Tags) != 1 || reloaded.Tags[0].Name != "c" {
		t.Fatalf("expected tags to be replaced, got %+v", reloaded.Tags)
	}

	usages, err := svc.Tags("alice")
	if err != nil {
		t.Fatalf("Tags returned error: %v", err)
	}
	if len(usages) != 1 || usages[0].Name != "c" || usages[0].Count != 1 {
		t.Fatalf("unexpected tag usage: %+v", usages)
	}

	if _, err := svc.Update("bob", note.ID, NoteInput{Title: "steal"}); !errors.Is(err, ErrNoteNotFound) {
		t.Fatalf("expected ErrNoteNotFound for foreign note, got %v", err)
	}
}

func TestNoteServiceFolderOwnership(t *testing.T) {
	gdb := setupServiceTestDB(t)
	folders := NewFolderService(gdb)
	notes := NewNoteService(gdb)

	folder, err := folders.Create("bob", FolderInput{Name: "Bob's"})
	if err != nil {
		t.Fatalf("create folder: %v", err)
	}

	if _, err := notes.Create("alice", NoteInput{Title: "x", FolderID: &folder.ID}); !errors.Is(err, ErrFolderNotFound) {
		t.Fatalf("expected ErrFolderNotFound, got %v", err)
	}
}

func TestNoteServiceDelete(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewNoteService(gdb)

	note, err := svc.Create("alice", NoteInput{Title: "temp"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if err := svc.Delete("bob", note.ID); !errors.Is(err, ErrNoteNotFound) {
		t.Fatalf("expected ErrNoteNotFound for foreign delete, got %v", err)
	}
	if err := svc.Delete("alice", note.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if _, err := svc.Get("alice", note.ID); !errors.Is(err, ErrNoteNotFound) {
		t.Fatalf("expected deleted note to be gone, got %v", err)
	}
}
