package repository

import (
	"context"

	"crackthecode/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type CategoryRepository struct {
	db *pgxpool.Pool
}

func NewCategoryRepository(db *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// List возвращает категории с числом фраз
func (r *CategoryRepository) List(ctx context.Context) ([]domain.CategoryInfo, error) {
	rows, err := r.db.Query(ctx,
		`SELECT category, COUNT(*)
		 FROM category_phrases
		 GROUP BY category
		 ORDER BY category`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.CategoryInfo
	for rows.Next() {
		var c domain.CategoryInfo
		if err := rows.Scan(&c.Name, &c.Phrases); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Phrases возвращает фразы категории по порядку; пустой список - категории нет
func (r *CategoryRepository) Phrases(ctx context.Context, category string) ([]domain.PhraseRecord, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, sentence, category, hint, revealed_letters, letter_map
		 FROM category_phrases
		 WHERE category = $1
		 ORDER BY position, id`,
		category,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.PhraseRecord
	for rows.Next() {
		var p domain.PhraseRecord
		if err := rows.Scan(&p.ID, &p.Sentence, &p.Category, &p.Hint, &p.RevealedLetters, &p.LetterMap); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
