package game

import (
	"testing"
	"time"
)

func TestLedgerBonusCadence(t *testing.T) {
	l := NewLedger("s1", 3)
	for i := 1; i <= 9; i++ {
		bonus := l.Complete()
		want := i%3 == 0
		if bonus != want {
			t.Fatalf("completion %d: bonus = %v, want %v", i, bonus, want)
		}
	}
	if l.Score() != 9 || l.Completions() != 9 {
		t.Fatalf("score=%d completions=%d", l.Score(), l.Completions())
	}
}

func TestLedgerCadenceRestartsWithRun(t *testing.T) {
	l := NewLedger("s1", 3)
	l.Complete()
	l.Complete()
	l.Reset("s2")
	if l.Complete() {
		t.Fatalf("bonus carried over from previous run")
	}
	if l.SessionID() != "s2" || l.Score() != 1 {
		t.Fatalf("session=%s score=%d", l.SessionID(), l.Score())
	}
}

func TestLedgerFinalizeOnce(t *testing.T) {
	l := NewLedger("s1", 3)
	l.Complete()
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	rep, ok := l.Finalize(now)
	if !ok || rep.Score != 1 || rep.SessionID != "s1" || !rep.CompletedAt.Equal(now) {
		t.Fatalf("Finalize = %+v, %v", rep, ok)
	}
	if _, ok := l.Finalize(now); ok {
		t.Fatalf("second Finalize returned a report")
	}
	if _, ok := l.Retry(); ok {
		t.Fatalf("Retry allowed while in flight")
	}

	l.MarkDelivered(false)
	if !l.Pending() {
		t.Fatalf("failed report not pending")
	}
	again, ok := l.Retry()
	if !ok || again != rep {
		t.Fatalf("Retry = %+v, %v", again, ok)
	}
	l.MarkDelivered(true)
	if !l.Delivered() || l.Pending() {
		t.Fatalf("report not delivered")
	}
	if _, ok := l.Retry(); ok {
		t.Fatalf("Retry after delivery")
	}
}

func TestLedgerNoBonusWhenDisabled(t *testing.T) {
	l := NewLedger("s", 0)
	for i := 0; i < 6; i++ {
		if l.Complete() {
			t.Fatalf("bonus with cadence 0")
		}
	}
}
