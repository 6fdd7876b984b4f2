package server

import (
	"errors"
	"testing"
)

func TestStoreAddGameRejectsDuplicate(t *testing.T) {
	store := NewStore()
	if err := store.AddGame(&Game{ID: "g1"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.AddGame(&Game{ID: "g1"}); err == nil {
		t.Fatal("expected duplicate id to be rejected")
	}
}

func TestStoreUpdateGameNotFound(t *testing.T) {
	store := NewStore()
	_, err := store.UpdateGame("missing", func(game *Game) error { return nil })
	if !errors.Is(err, errGameNotFound) {
		t.Fatalf("expected errGameNotFound, got %v", err)
	}
}

func TestStoreViewGameReturnsIsolatedCopy(t *testing.T) {
	store := NewStore()
	turn := 0
	if err := store.AddGame(&Game{
		ID:      "g1",
		Turn:    &turn,
		Members: []Member{{PlayerID: "a", Points: 1}},
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	view, err := store.ViewGame("g1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	view.Members[0].Points = 99
	*view.Turn = 5

	fresh, err := store.ViewGame("g1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fresh.Members[0].Points != 1 {
		t.Fatalf("expected stored points untouched, got %v", fresh.Members[0].Points)
	}
	if *fresh.Turn != 0 {
		t.Fatalf("expected stored turn untouched, got %d", *fresh.Turn)
	}
}

func TestStoreCreateForHost(t *testing.T) {
	store := NewStore()
	id, existing := store.CreateForHost(&Game{ID: "g1", HostID: "h1"})
	if existing || id != "g1" {
		t.Fatalf("expected fresh insert of g1, got %q existing=%v", id, existing)
	}
	id, existing = store.CreateForHost(&Game{ID: "g2", HostID: "h1"})
	if !existing || id != "g1" {
		t.Fatalf("expected the existing lobby back, got %q existing=%v", id, existing)
	}
	if _, err := store.ViewGame("g2"); !errors.Is(err, errGameNotFound) {
		t.Fatal("the losing create must not be inserted")
	}

	if err := store.AddGame(&Game{ID: "g3", HostID: "h2", Finished: true}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	id, existing = store.CreateForHost(&Game{ID: "g4", HostID: "h2"})
	if existing || id != "g4" {
		t.Fatalf("a finished game must not block a new lobby, got %q existing=%v", id, existing)
	}
}

func TestStorePlayerRegistry(t *testing.T) {
	store := NewStore()
	if _, ok := store.PlayerName("p1"); ok {
		t.Fatal("expected unknown player")
	}
	store.RegisterPlayer("p1", "Ada")
	if name, ok := store.PlayerName("p1"); !ok || name != "Ada" {
		t.Fatalf("expected Ada, got %q ok=%v", name, ok)
	}
}
