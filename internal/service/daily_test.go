package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"crackthecode/internal/domain"
	"crackthecode/internal/game"
	"crackthecode/internal/quotes"
)

func fixedNow(t time.Time) func() time.Time { return func() time.Time { return t } }

func TestCleanQuote(t *testing.T) {
	got := cleanQuote("  Don't   stop, believing!\n2024 ")
	if got != "Dont stop believing" {
		t.Fatalf("cleanQuote = %q", got)
	}
}

func TestDailyPuzzleFromQuote(t *testing.T) {
	repo := newFakeDaily()
	q := &fakeQuotes{quote: quotes.Quote{Text: "Act, don't wait.", Author: "Anon"}}
	svc := NewDailyService(repo, q, nil)
	day := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	rec, err := svc.Puzzle(context.Background(), day)
	if err != nil {
		t.Fatalf("Puzzle: %v", err)
	}
	if rec.Sentence != "Act dont wait" || rec.Hint != "By Anon" || rec.Category != dailyCategory {
		t.Fatalf("rec = %+v", rec)
	}
	if len(rec.RevealedLetters) != dailyRevealed {
		t.Fatalf("revealed = %v", rec.RevealedLetters)
	}
	// a c d i n o t w -> 1..8
	if rec.LetterMap["a"] != 1 || rec.LetterMap["w"] != 8 {
		t.Fatalf("letter map = %v", rec.LetterMap)
	}

	again, _ := svc.Puzzle(context.Background(), day)
	if again.Sentence != rec.Sentence || q.calls != 1 {
		t.Fatalf("puzzle regenerated: calls=%d", q.calls)
	}
}

func TestDailyPuzzleFallback(t *testing.T) {
	svc := NewDailyService(newFakeDaily(), &fakeQuotes{err: errors.New("429")}, nil)
	rec, err := svc.Puzzle(context.Background(), time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Puzzle: %v", err)
	}
	if !strings.HasPrefix(rec.Sentence, "The journey") || rec.Hint != "By Lao Tzu" {
		t.Fatalf("rec = %+v", rec)
	}
}

func TestDailySourceLockout(t *testing.T) {
	repo := newFakeDaily()
	svc := NewDailyService(repo, &fakeQuotes{quote: quotes.Quote{Text: "Keep going", Author: "Me"}}, &fakeLock{})
	now := time.Date(2026, 5, 2, 15, 0, 0, 0, time.UTC)
	svc.now = fixedNow(now)
	player := domain.Player{Username: "neo"}

	src := svc.Source(player)
	p, err := src.Next(context.Background())
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if p.Key != "daily:2026-05-02" || src.Remaining() != 0 {
		t.Fatalf("phrase=%+v remaining=%d", p, src.Remaining())
	}
	if _, err := src.Next(context.Background()); !errors.Is(err, game.ErrSourceExhausted) {
		t.Fatalf("second Next err = %v", err)
	}

	// повторный старт в тот же день упирается в блокировку
	src.Rewind()
	if _, err := src.Next(context.Background()); !errors.Is(err, game.ErrAlreadyPlayed) {
		t.Fatalf("lock err = %v", err)
	}

	// и в записанную попытку, даже без redis
	repo.attempts[attemptKey("trinity", domain.Today(now))] = domain.DailyAttempt{}
	noLock := NewDailyService(repo, &fakeQuotes{}, nil)
	noLock.now = svc.now
	if _, err := noLock.Source(domain.Player{Username: "trinity"}).Next(context.Background()); !errors.Is(err, game.ErrAlreadyPlayed) {
		t.Fatalf("attempt err = %v", err)
	}
}

func TestDailySourceLockErrorFailsOpen(t *testing.T) {
	svc := NewDailyService(newFakeDaily(), &fakeQuotes{quote: quotes.Quote{Text: "x y", Author: "z"}}, &fakeLock{err: errors.New("redis down")})
	if _, err := svc.Source(domain.Player{Username: "neo"}).Next(context.Background()); err != nil {
		t.Fatalf("Next: %v", err)
	}
}

func TestDailyStatusAndStreak(t *testing.T) {
	repo := newFakeDaily()
	svc := NewDailyService(repo, &fakeQuotes{}, nil)
	day1 := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	player := domain.Player{Username: "neo"}

	won := func(at time.Time) game.RunReport {
		return game.RunReport{Report: game.Report{SessionID: at.String(), CompletedAt: at}, Mode: game.ModeDaily, Outcome: game.OutcomeCompleted, Player: "neo"}
	}

	if _, err := svc.Record(context.Background(), player, won(day1)); err != nil {
		t.Fatalf("Record: %v", err)
	}
	s, _ := svc.Record(context.Background(), player, won(day1.AddDate(0, 0, 1)))
	if s.Current != 2 || s.Longest != 2 {
		t.Fatalf("streak = %+v", s)
	}
	s, _ = svc.Record(context.Background(), player, won(day1.AddDate(0, 0, 5)))
	if s.Current != 1 || s.Longest != 2 {
		t.Fatalf("streak after gap = %+v", s)
	}
	lost := won(day1.AddDate(0, 0, 6))
	lost.Outcome = game.OutcomeFailed
	s, _ = svc.Record(context.Background(), player, lost)
	if s.Current != 0 || s.Longest != 2 {
		t.Fatalf("streak after loss = %+v", s)
	}

	svc.now = fixedNow(day1.AddDate(0, 0, 5))
	st, err := svc.Status(context.Background(), player)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if !st.PlayedToday || st.Current != 1 || st.Longest != 2 || st.Day != "2026-05-06" {
		t.Fatalf("status = %+v", st)
	}
}
