package repository

import (
	"context"

	"crackthecode/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type ScoreRepository struct {
	db *pgxpool.Pool
}

func NewScoreRepository(db *pgxpool.Pool) *ScoreRepository {
	return &ScoreRepository{db: db}
}

// Insert сохраняет счет забега; повтор sessionId - ErrDuplicateSession
func (r *ScoreRepository) Insert(ctx context.Context, s *domain.Score) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO scores (username, score, session_id, completed_at)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		s.Username, s.Score, s.SessionID, s.CompletedAt,
	).Scan(&s.ID)
	if isUniqueViolation(err) {
		return ErrDuplicateSession
	}
	return err
}
