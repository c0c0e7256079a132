package service

import (
	"context"
	"time"

	"crackthecode/internal/domain"
	"crackthecode/internal/quotes"
)

// интерфейсы хранилищ, которые реализует repository

type phrasePool interface {
	Random(ctx context.Context) (*domain.PhraseRecord, error)
}

type categoryStore interface {
	List(ctx context.Context) ([]domain.CategoryInfo, error)
	Phrases(ctx context.Context, category string) ([]domain.PhraseRecord, error)
}

type hintStore interface {
	Random(ctx context.Context) (string, error)
}

type scoreStore interface {
	Insert(ctx context.Context, s *domain.Score) error
}

type stampStore interface {
	Add(ctx context.Context, s domain.CategoryStamp) error
}

type dailyStore interface {
	GetPuzzle(ctx context.Context, day time.Time) (*domain.PhraseRecord, error)
	SavePuzzle(ctx context.Context, day time.Time, p *domain.PhraseRecord) (*domain.PhraseRecord, error)
	HasAttempt(ctx context.Context, username string, day time.Time) (bool, error)
	RecordAttempt(ctx context.Context, a domain.DailyAttempt, won bool) (domain.Streak, error)
	GetStreak(ctx context.Context, username string) (domain.Streak, error)
	ResetStale(ctx context.Context, yesterday time.Time) (int64, error)
}

type quoteFetcher interface {
	Today(ctx context.Context) (quotes.Quote, error)
}
