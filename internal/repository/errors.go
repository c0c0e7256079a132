package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var ErrDuplicateSession = errors.New("score for this session already submitted")

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
