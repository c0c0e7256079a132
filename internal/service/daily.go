package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode"

	"crackthecode/internal/domain"
	"crackthecode/internal/game"
	"crackthecode/internal/logger"
)

const (
	dailyCategory = "Quote of the Day"
	dailyRevealed = 2
	dailyLockTTL  = 48 * time.Hour
)

// fallbackQuote используется, если API цитат недоступно
var fallbackQuote = domain.PhraseRecord{
	Sentence: "The journey of a thousand miles begins with one step",
	Hint:     "By Lao Tzu",
}

// DailyService - фраза дня, блокировка повторной игры и серии
type DailyService struct {
	repo   dailyStore
	quotes quoteFetcher
	lock   DailyLock
	rng    *lockedRand
	now    func() time.Time

	mu sync.Mutex // сериализует создание фразы дня
}

func NewDailyService(repo dailyStore, quotes quoteFetcher, lock DailyLock) *DailyService {
	return &DailyService{
		repo:   repo,
		quotes: quotes,
		lock:   lock,
		rng:    newLockedRand(time.Now().UnixNano()),
		now:    time.Now,
	}
}

// Puzzle возвращает фразу дня, создавая ее из цитаты при первом запросе
func (s *DailyService) Puzzle(ctx context.Context, day time.Time) (*domain.PhraseRecord, error) {
	if rec, err := s.repo.GetPuzzle(ctx, day); err != nil || rec != nil {
		return rec, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if rec, err := s.repo.GetPuzzle(ctx, day); err != nil || rec != nil {
		return rec, err
	}

	rec := s.fromQuote(ctx)
	rec.Category = dailyCategory
	rec.LetterMap = game.SequentialLetterMap(rec.Sentence)
	s.rng.fillGaps(&rec, dailyRevealed, dailyRevealed)

	saved, err := s.repo.SavePuzzle(ctx, day, &rec)
	if err != nil {
		return nil, fmt.Errorf("save daily puzzle: %w", err)
	}
	logger.Info("daily puzzle created", "day", day.Format(domain.DayLayout))
	return saved, nil
}

func (s *DailyService) fromQuote(ctx context.Context) domain.PhraseRecord {
	q, err := s.quotes.Today(ctx)
	if err != nil {
		logger.Warn("quote api failed, using fallback", "error", err)
		return fallbackQuote
	}
	sentence := cleanQuote(q.Text)
	if sentence == "" {
		return fallbackQuote
	}
	author := strings.TrimSpace(q.Author)
	if author == "" {
		author = "Unknown"
	}
	return domain.PhraseRecord{Sentence: sentence, Hint: "By " + author}
}

// cleanQuote оставляет буквы и одиночные пробелы
func cleanQuote(text string) string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsSpace(r) {
			return r
		}
		return -1
	}, text)
	return strings.Join(strings.Fields(cleaned), " ")
}

// Status - сыграл ли игрок сегодня и его серия
func (s *DailyService) Status(ctx context.Context, player domain.Player) (domain.DailyStatus, error) {
	day := domain.Today(s.now())
	played, err := s.repo.HasAttempt(ctx, player.Username, day)
	if err != nil {
		return domain.DailyStatus{}, err
	}
	streak, err := s.repo.GetStreak(ctx, player.Username)
	if err != nil {
		return domain.DailyStatus{}, err
	}
	return domain.DailyStatus{
		Day:         day.Format(domain.DayLayout),
		PlayedToday: played,
		Current:     streak.Current,
		Longest:     streak.Longest,
	}, nil
}

// Source - источник из одной фразы дня с блокировкой повторной игры
func (s *DailyService) Source(player domain.Player) *DailySource {
	return &DailySource{svc: s, player: player}
}

// Record сохраняет попытку дня; выигрыш продлевает серию
func (s *DailyService) Record(ctx context.Context, player domain.Player, run game.RunReport) (domain.Streak, error) {
	return s.repo.RecordAttempt(ctx, domain.DailyAttempt{
		Username:  player.Username,
		Day:       domain.Today(run.CompletedAt),
		Outcome:   string(run.Outcome),
		SessionID: run.SessionID,
	}, run.Outcome == game.OutcomeCompleted)
}

// DailySource реализует game.PhraseSource для ежедневного режима
type DailySource struct {
	svc    *DailyService
	player domain.Player

	mu     sync.Mutex
	served bool
}

func (d *DailySource) Next(ctx context.Context) (game.Phrase, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.served {
		return game.Phrase{}, game.ErrSourceExhausted
	}

	day := domain.Today(d.svc.now())
	if !d.player.Anonymous() {
		played, err := d.svc.repo.HasAttempt(ctx, d.player.Username, day)
		if err != nil {
			return game.Phrase{}, fmt.Errorf("check daily attempt: %w", err)
		}
		if played {
			return game.Phrase{}, game.ErrAlreadyPlayed
		}
		if d.svc.lock != nil {
			key := "daily:" + day.Format(domain.DayLayout) + ":" + d.player.Username
			ok, err := d.svc.lock.Acquire(ctx, key, dailyLockTTL)
			switch {
			case err != nil:
				// попытки в postgres остаются источником правды
				logger.Warn("daily lock unavailable", "error", err)
			case !ok:
				return game.Phrase{}, game.ErrAlreadyPlayed
			}
		}
	}

	rec, err := d.svc.Puzzle(ctx, day)
	if err != nil {
		return game.Phrase{}, err
	}
	d.served = true
	return rec.Phrase("daily:" + day.Format(domain.DayLayout)), nil
}

func (d *DailySource) Remaining() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.served {
		return 0
	}
	return 1
}

func (d *DailySource) Rewind() {
	d.mu.Lock()
	d.served = false
	d.mu.Unlock()
}
