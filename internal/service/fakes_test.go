package service

import (
	"context"
	"sync"
	"time"

	"crackthecode/internal/domain"
	"crackthecode/internal/quotes"
	"crackthecode/internal/repository"
)

type fakePool struct {
	recs []*domain.PhraseRecord
	i    int
	err  error
}

func (f *fakePool) Random(ctx context.Context) (*domain.PhraseRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	if len(f.recs) == 0 {
		return nil, nil
	}
	r := *f.recs[f.i%len(f.recs)]
	f.i++
	return &r, nil
}

type fakeCategories struct {
	byName map[string][]domain.PhraseRecord
}

func (f *fakeCategories) List(ctx context.Context) ([]domain.CategoryInfo, error) {
	var out []domain.CategoryInfo
	for name, recs := range f.byName {
		out = append(out, domain.CategoryInfo{Name: name, Phrases: len(recs)})
	}
	return out, nil
}

func (f *fakeCategories) Phrases(ctx context.Context, category string) ([]domain.PhraseRecord, error) {
	return append([]domain.PhraseRecord(nil), f.byName[category]...), nil
}

type fakeScores struct {
	mu     sync.Mutex
	scores []domain.Score
	seen   map[string]bool
}

func (f *fakeScores) Insert(ctx context.Context, s *domain.Score) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.seen == nil {
		f.seen = map[string]bool{}
	}
	if f.seen[s.SessionID] {
		return repository.ErrDuplicateSession
	}
	f.seen[s.SessionID] = true
	f.scores = append(f.scores, *s)
	return nil
}

type fakeStamps struct {
	stamps []domain.CategoryStamp
}

func (f *fakeStamps) Add(ctx context.Context, s domain.CategoryStamp) error {
	f.stamps = append(f.stamps, s)
	return nil
}

type fakeDaily struct {
	mu        sync.Mutex
	puzzles   map[string]*domain.PhraseRecord
	attempts  map[string]domain.DailyAttempt
	streaks   map[string]domain.Streak
	resetDays []time.Time
}

func newFakeDaily() *fakeDaily {
	return &fakeDaily{
		puzzles:  map[string]*domain.PhraseRecord{},
		attempts: map[string]domain.DailyAttempt{},
		streaks:  map[string]domain.Streak{},
	}
}

func attemptKey(user string, day time.Time) string {
	return user + "|" + day.Format(domain.DayLayout)
}

func (f *fakeDaily) GetPuzzle(ctx context.Context, day time.Time) (*domain.PhraseRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.puzzles[day.Format(domain.DayLayout)], nil
}

func (f *fakeDaily) SavePuzzle(ctx context.Context, day time.Time, p *domain.PhraseRecord) (*domain.PhraseRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := day.Format(domain.DayLayout)
	if existing, ok := f.puzzles[key]; ok {
		return existing, nil
	}
	f.puzzles[key] = p
	return p, nil
}

func (f *fakeDaily) HasAttempt(ctx context.Context, username string, day time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.attempts[attemptKey(username, day)]
	return ok, nil
}

func (f *fakeDaily) RecordAttempt(ctx context.Context, a domain.DailyAttempt, won bool) (domain.Streak, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attempts[attemptKey(a.Username, a.Day)] = a
	s := f.streaks[a.Username]
	s.Username = a.Username
	if !won {
		s.Current = 0
		f.streaks[a.Username] = s
		return s, nil
	}
	yesterday := s.LastPlayed != nil && s.LastPlayed.Equal(a.Day.AddDate(0, 0, -1))
	s = domain.NextStreak(s, yesterday)
	day := a.Day
	s.LastPlayed = &day
	f.streaks[a.Username] = s
	return s, nil
}

func (f *fakeDaily) GetStreak(ctx context.Context, username string) (domain.Streak, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := f.streaks[username]
	s.Username = username
	return s, nil
}

func (f *fakeDaily) ResetStale(ctx context.Context, yesterday time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resetDays = append(f.resetDays, yesterday)
	return 0, nil
}

type fakeQuotes struct {
	quote quotes.Quote
	err   error
	calls int
}

func (f *fakeQuotes) Today(ctx context.Context) (quotes.Quote, error) {
	f.calls++
	return f.quote, f.err
}

type fakeLock struct {
	held map[string]bool
	err  error
}

func (f *fakeLock) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	if f.held == nil {
		f.held = map[string]bool{}
	}
	if f.held[key] {
		return false, nil
	}
	f.held[key] = true
	return true, nil
}
