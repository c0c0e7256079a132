package db

import (
	"context"
	"time"

	"crackthecode/internal/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Connect открывает пул соединений и проверяет его пингом
func Connect(databaseURL string) *pgxpool.Pool {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		logger.Fatal("invalid DATABASE_URL", "error", err)
	}
	cfg.MaxConns = 20
	cfg.MaxConnIdleTime = 5 * time.Minute

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect failed", "error", err)
	}
	if err := pool.Ping(ctx); err != nil {
		logger.Fatal("db ping failed", "error", err)
	}
	logger.Info("db connected", "max_conns", cfg.MaxConns)
	return pool
}
