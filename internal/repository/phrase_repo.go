package repository

import (
	"context"
	"errors"

	"crackthecode/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PhraseRepository - общий пул фраз бесконечного режима
type PhraseRepository struct {
	db *pgxpool.Pool
}

func NewPhraseRepository(db *pgxpool.Pool) *PhraseRepository {
	return &PhraseRepository{db: db}
}

// Random возвращает случайную фразу; nil, nil если пул пуст
func (r *PhraseRepository) Random(ctx context.Context) (*domain.PhraseRecord, error) {
	var p domain.PhraseRecord
	err := r.db.QueryRow(ctx,
		`SELECT id, sentence, category, hint, revealed_letters, letter_map
		 FROM phrases
		 ORDER BY random()
		 LIMIT 1`,
	).Scan(&p.ID, &p.Sentence, &p.Category, &p.Hint, &p.RevealedLetters, &p.LetterMap)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Upsert добавляет фразу или обновляет подсказку и раскрытые буквы
func (r *PhraseRepository) Upsert(ctx context.Context, p *domain.PhraseRecord) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO phrases (sentence, category, hint, revealed_letters, letter_map)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (sentence) DO UPDATE
		 SET category = EXCLUDED.category,
		     hint = EXCLUDED.hint,
		     revealed_letters = EXCLUDED.revealed_letters,
		     letter_map = EXCLUDED.letter_map
		 RETURNING id`,
		p.Sentence, p.Category, p.Hint, p.RevealedLetters, p.LetterMap,
	).Scan(&p.ID)
}

func (r *PhraseRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM phrases`).Scan(&n)
	return n, err
}
