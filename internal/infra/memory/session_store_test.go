package memory

import (
	"testing"

	"trivia-duel-service/internal/app"
)

func TestSessionStoreClaim(t *testing.T) {
	store := NewSessionStore()

	if !store.Claim("11-22-33", &app.Session{}) {
		t.Fatalf("first claim must succeed")
	}
	if store.Claim("11-22-33", &app.Session{}) {
		t.Fatalf("second claim of the same code must fail")
	}
	if _, ok := store.Get("11-22-33"); !ok {
		t.Fatalf("claimed session not found")
	}
	if _, ok := store.Get("99-99-99"); ok {
		t.Fatalf("unknown code must not resolve")
	}

	store.Delete("11-22-33")
	if _, ok := store.Get("11-22-33"); ok {
		t.Fatalf("deleted session still resolves")
	}
	if !store.Claim("11-22-33", &app.Session{}) {
		t.Fatalf("code must be claimable again after delete")
	}
}
