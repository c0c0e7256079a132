package repository

import (
	"context"

	"crackthecode/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type StampRepository struct {
	db *pgxpool.Pool
}

func NewStampRepository(db *pgxpool.Pool) *StampRepository {
	return &StampRepository{db: db}
}

// Add ставит отметку о категории; повторная отметка ничего не меняет
func (r *StampRepository) Add(ctx context.Context, s domain.CategoryStamp) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO category_stamps (username, category, completed_at)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (username, category) DO NOTHING`,
		s.Username, s.Category, s.CompletedAt,
	)
	return err
}

func (r *StampRepository) List(ctx context.Context, username string) ([]domain.CategoryStamp, error) {
	rows, err := r.db.Query(ctx,
		`SELECT username, category, completed_at
		 FROM category_stamps
		 WHERE username = $1
		 ORDER BY completed_at`,
		username,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.CategoryStamp
	for rows.Next() {
		var s domain.CategoryStamp
		if err := rows.Scan(&s.Username, &s.Category, &s.CompletedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
