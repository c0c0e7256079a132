package ws

import (
	"testing"

	"crackthecode/internal/domain"
	"crackthecode/internal/game"
)

func closed(c *Client) bool {
	select {
	case <-c.Done:
		return true
	default:
		return false
	}
}

func TestHubReplacesSameSession(t *testing.T) {
	hub := NewHub()
	neo := domain.Player{Username: "neo"}

	first := NewClient(neo, game.ModeDaily, nil, hub)
	other := NewClient(neo, game.ModeEndless, nil, hub)
	second := NewClient(neo, game.ModeDaily, nil, hub)

	hub.Register(first)
	hub.Register(other)
	hub.Register(second)

	if !closed(first) {
		t.Fatalf("previous daily connection left open")
	}
	if closed(other) || closed(second) {
		t.Fatalf("unrelated connection closed")
	}
	if hub.Count() != 2 {
		t.Fatalf("count = %d", hub.Count())
	}
}

func TestHubAnonymousNotReplaced(t *testing.T) {
	hub := NewHub()
	a := NewClient(domain.Player{}, game.ModeEndless, nil, hub)
	b := NewClient(domain.Player{}, game.ModeEndless, nil, hub)
	hub.Register(a)
	hub.Register(b)
	if closed(a) || hub.Count() != 2 {
		t.Fatalf("anonymous clients collided")
	}

	hub.CloseAll()
	if !closed(a) || !closed(b) || hub.Count() != 0 {
		t.Fatalf("CloseAll left clients: %d", hub.Count())
	}
}

func TestHubCleanupStuck(t *testing.T) {
	hub := NewHub()
	stuck := NewClient(domain.Player{Username: "a"}, game.ModeEndless, nil, hub)
	fine := NewClient(domain.Player{Username: "b"}, game.ModeEndless, nil, hub)
	hub.Register(stuck)
	hub.Register(fine)

	for i := 0; i < cap(stuck.Send); i++ {
		stuck.Send <- []byte("x")
	}
	if n := hub.cleanupStuck(); n != 1 {
		t.Fatalf("cleaned %d", n)
	}
	if !closed(stuck) || closed(fine) {
		t.Fatalf("wrong client closed")
	}
}
