package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNoHints = errors.New("no hints found")

type HintRepository struct {
	db *pgxpool.Pool
}

func NewHintRepository(db *pgxpool.Pool) *HintRepository {
	return &HintRepository{db: db}
}

// Random - случайная декоративная подсказка
func (r *HintRepository) Random(ctx context.Context) (string, error) {
	var text string
	err := r.db.QueryRow(ctx, `SELECT text FROM hints ORDER BY random() LIMIT 1`).Scan(&text)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNoHints
	}
	return text, err
}
