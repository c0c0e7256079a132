package game

import (
	"context"
	"errors"
	"sync"
	"time"
)

var (
	ErrNoPhraseAvailable = errors.New("no phrase available")
	ErrSourceExhausted   = errors.New("phrase source exhausted")
	ErrAlreadyPlayed     = errors.New("already played today")
	ErrNoPendingReport   = errors.New("no failed report to retry")
	ErrRunStarted        = errors.New("run already started")
	ErrClosed            = errors.New("sequencer closed")
)

// PlaceholderHint показывается, когда подсказку получить не удалось
const PlaceholderHint = "No hint available"

// PhraseSource выдает фразы по одной
type PhraseSource interface {
	Next(ctx context.Context) (Phrase, error)
}

// Remainer - источник с конечным списком
type Remainer interface {
	Remaining() int
}

// Rewinder - источник, который можно начать сначала при сбросе забега
type Rewinder interface {
	Rewind()
}

// HintOracle возвращает декоративную подсказку
type HintOracle interface {
	Hint(ctx context.Context) (string, error)
}

type RunOutcome string

const (
	OutcomeCompleted RunOutcome = "completed"
	OutcomeFailed    RunOutcome = "failed"
)

// RunReport - отчет вместе с контекстом забега
type RunReport struct {
	Report
	Mode     ModeName   `json:"mode"`
	Outcome  RunOutcome `json:"outcome"`
	Category string     `json:"category,omitempty"`
	Player   string     `json:"player,omitempty"`
	Phrases  int        `json:"phrases"`
}

// Reporter принимает итог забега (счет, серию, пройденную категорию)
type Reporter interface {
	Report(ctx context.Context, run RunReport) error
}

// CompletionPolicy решает, просить ли следующую фразу после разгаданной
type CompletionPolicy interface {
	Continue(src PhraseSource) bool
}

// Endlessly - забег идет, пока не кончатся жизни
type Endlessly struct{}

func (Endlessly) Continue(PhraseSource) bool { return true }

// UntilExhausted - забег заканчивается вместе со списком фраз
type UntilExhausted struct{}

func (UntilExhausted) Continue(src PhraseSource) bool {
	if r, ok := src.(Remainer); ok {
		return r.Remaining() > 0
	}
	return true
}

// Mode - набор правил забега
type Mode struct {
	Name           ModeName
	LivesMax       int
	Unique         bool
	UniqueAttempts int
	// ResetLives - каждая фраза начинается с полным запасом жизней
	ResetLives   bool
	BonusEvery   int
	AdvanceDelay time.Duration
	RevertDelay  time.Duration
	Policy       CompletionPolicy
}

func Endless() Mode {
	return Mode{
		Name:           ModeEndless,
		LivesMax:       10,
		Unique:         true,
		UniqueAttempts: 10,
		BonusEvery:     3,
		AdvanceDelay:   2000 * time.Millisecond,
		RevertDelay:    DefaultRevertDelay,
		Policy:         Endlessly{},
	}
}

func Daily() Mode {
	return Mode{
		Name:         ModeDaily,
		LivesMax:     5,
		BonusEvery:   3,
		AdvanceDelay: 2000 * time.Millisecond,
		RevertDelay:  DefaultRevertDelay,
		Policy:       UntilExhausted{},
	}
}

func Category() Mode {
	return Mode{
		Name:         ModeCategory,
		LivesMax:     10,
		ResetLives:   true,
		BonusEvery:   3,
		AdvanceDelay: 1500 * time.Millisecond,
		RevertDelay:  DefaultRevertDelay,
		Policy:       UntilExhausted{},
	}
}

// ListSource отдает фразы из фиксированного списка по порядку
type ListSource struct {
	mu      sync.Mutex
	phrases []Phrase
	next    int
}

func NewListSource(phrases []Phrase) *ListSource {
	return &ListSource{phrases: append([]Phrase(nil), phrases...)}
}

func (s *ListSource) Next(ctx context.Context) (Phrase, error) {
	if err := ctx.Err(); err != nil {
		return Phrase{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.next >= len(s.phrases) {
		return Phrase{}, ErrSourceExhausted
	}
	p := s.phrases[s.next]
	s.next++
	return p, nil
}

func (s *ListSource) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.phrases) - s.next
}

func (s *ListSource) Rewind() {
	s.mu.Lock()
	s.next = 0
	s.mu.Unlock()
}

// SourceFunc позволяет использовать функцию как PhraseSource
type SourceFunc func(ctx context.Context) (Phrase, error)

func (f SourceFunc) Next(ctx context.Context) (Phrase, error) { return f(ctx) }

// HintFunc позволяет использовать функцию как HintOracle
type HintFunc func(ctx context.Context) (string, error)

func (f HintFunc) Hint(ctx context.Context) (string, error) { return f(ctx) }
