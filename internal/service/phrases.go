package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"crackthecode/internal/domain"
	"crackthecode/internal/game"
)

var ErrUnknownCategory = errors.New("unknown category")

// lockedRand - общий генератор под мьютексом
type lockedRand struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func newLockedRand(seed int64) *lockedRand {
	return &lockedRand{rng: rand.New(rand.NewSource(seed))}
}

func (r *lockedRand) do(fn func(rng *rand.Rand)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn(r.rng)
}

// fillGaps добавляет раскрытые буквы и карту номеров записям, где их нет
func (r *lockedRand) fillGaps(rec *domain.PhraseRecord, minRevealed, maxRevealed int) {
	r.do(func(rng *rand.Rand) {
		if len(rec.RevealedLetters) == 0 {
			n := minRevealed
			if maxRevealed > minRevealed {
				n += rng.Intn(maxRevealed - minRevealed + 1)
			}
			rec.RevealedLetters = game.PickRevealed(rng, rec.Sentence, n)
		}
		if len(rec.LetterMap) == 0 {
			rec.LetterMap = game.NewLetterMap(rng)
		}
	})
}

// PoolSource - бесконечный источник случайных фраз из общего пула
type PoolSource struct {
	repo phrasePool
	rng  *lockedRand
}

func NewPoolSource(repo phrasePool) *PoolSource {
	return &PoolSource{repo: repo, rng: newLockedRand(time.Now().UnixNano())}
}

func (s *PoolSource) Next(ctx context.Context) (game.Phrase, error) {
	rec, err := s.repo.Random(ctx)
	if err != nil {
		return game.Phrase{}, fmt.Errorf("random phrase: %w", err)
	}
	if rec == nil {
		return game.Phrase{}, game.ErrNoPhraseAvailable
	}
	s.rng.fillGaps(rec, 2, 4)
	return rec.Phrase("phrase:" + strconv.FormatInt(rec.ID, 10)), nil
}

// CategoryService отдает списки фраз по категориям
type CategoryService struct {
	repo categoryStore
	rng  *lockedRand
}

func NewCategoryService(repo categoryStore) *CategoryService {
	return &CategoryService{repo: repo, rng: newLockedRand(time.Now().UnixNano())}
}

func (s *CategoryService) List(ctx context.Context) ([]domain.CategoryInfo, error) {
	return s.repo.List(ctx)
}

// Source загружает категорию целиком в конечный список
func (s *CategoryService) Source(ctx context.Context, category string) (*game.ListSource, error) {
	if category == "" {
		return nil, ErrUnknownCategory
	}
	recs, err := s.repo.Phrases(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("category phrases: %w", err)
	}
	if len(recs) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCategory, category)
	}

	phrases := make([]game.Phrase, len(recs))
	for i := range recs {
		s.rng.fillGaps(&recs[i], 2, 4)
		if recs[i].Category == "" {
			recs[i].Category = category
		}
		phrases[i] = recs[i].Phrase("category:" + strconv.FormatInt(recs[i].ID, 10))
	}
	return game.NewListSource(phrases), nil
}

// HintService - декоративные подсказки из таблицы hints
type HintService struct {
	repo hintStore
}

func NewHintService(repo hintStore) *HintService {
	return &HintService{repo: repo}
}

func (s *HintService) Hint(ctx context.Context) (string, error) {
	return s.repo.Random(ctx)
}

// HintOrPlaceholder - подсказка для REST, с заглушкой при ошибке
func (s *HintService) HintOrPlaceholder(ctx context.Context) string {
	text, err := s.repo.Random(ctx)
	if err != nil || text == "" {
		return game.PlaceholderHint
	}
	return text
}
