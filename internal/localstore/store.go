// Package localstore - sqlite банк фраз и журнал счета для терминальной игры.
package localstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"crackthecode/internal/domain"
	"crackthecode/internal/repository"
)

const schema = `
CREATE TABLE IF NOT EXISTS phrases (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	sentence TEXT NOT NULL UNIQUE,
	category TEXT NOT NULL DEFAULT '',
	hint TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS scores (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	username TEXT NOT NULL,
	score INTEGER NOT NULL,
	session_id TEXT NOT NULL UNIQUE,
	completed_at DATETIME NOT NULL
);
CREATE TABLE IF NOT EXISTS category_stamps (
	username TEXT NOT NULL,
	category TEXT NOT NULL,
	completed_at DATETIME NOT NULL,
	PRIMARY KEY (username, category)
);`

// Store реализует те же интерфейсы хранилищ, что и postgres репозитории
type Store struct {
	db *sql.DB
}

// Open открывает или создает файл базы; ":memory:" - база в памяти
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if path == ":memory:" {
		// каждое соединение получило бы свою пустую базу
		db.SetMaxOpenConns(1)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Seed добавляет фразы, уже известные пропускаются; возвращает число новых
func (s *Store) Seed(ctx context.Context, rows []Row) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, "INSERT OR IGNORE INTO phrases (sentence, category, hint) VALUES (?, ?, ?)")
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	added := 0
	for _, r := range rows {
		res, err := stmt.ExecContext(ctx, r.Sentence, r.Category, r.Hint)
		if err != nil {
			return 0, fmt.Errorf("insert %q: %w", r.Sentence, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			added++
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return added, nil
}

func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM phrases").Scan(&n)
	return n, err
}

// Random - случайная фраза; nil, nil если банк пуст
func (s *Store) Random(ctx context.Context) (*domain.PhraseRecord, error) {
	var p domain.PhraseRecord
	err := s.db.QueryRowContext(ctx,
		"SELECT id, sentence, category, hint FROM phrases ORDER BY random() LIMIT 1",
	).Scan(&p.ID, &p.Sentence, &p.Category, &p.Hint)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) List(ctx context.Context) ([]domain.CategoryInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT category, COUNT(*)
		FROM phrases
		WHERE category <> ''
		GROUP BY category
		ORDER BY category ASC`)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
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

// Phrases - фразы категории в порядке добавления
func (s *Store) Phrases(ctx context.Context, category string) ([]domain.PhraseRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, sentence, category, hint FROM phrases WHERE category = ? ORDER BY id ASC", category)
	if err != nil {
		return nil, fmt.Errorf("query category phrases: %w", err)
	}
	defer rows.Close()

	var out []domain.PhraseRecord
	for rows.Next() {
		var p domain.PhraseRecord
		if err := rows.Scan(&p.ID, &p.Sentence, &p.Category, &p.Hint); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Insert пишет счет; повтор sessionId - repository.ErrDuplicateSession
func (s *Store) Insert(ctx context.Context, sc *domain.Score) error {
	res, err := s.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO scores (username, score, session_id, completed_at) VALUES (?, ?, ?, ?)",
		sc.Username, sc.Score, sc.SessionID, sc.CompletedAt.UTC())
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return repository.ErrDuplicateSession
	}
	id, err := res.LastInsertId()
	if err == nil {
		sc.ID = id
	}
	return nil
}

// Best - лучшие счета игрока
func (s *Store) Best(ctx context.Context, username string, limit int) ([]domain.Score, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, username, score, session_id, completed_at
		FROM scores
		WHERE username = ?
		ORDER BY score DESC, completed_at ASC
		LIMIT ?`, username, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Score
	for rows.Next() {
		var sc domain.Score
		if err := rows.Scan(&sc.ID, &sc.Username, &sc.Score, &sc.SessionID, &sc.CompletedAt); err != nil {
			return nil, err
		}
		out = append(out, sc)
	}
	return out, rows.Err()
}

func (s *Store) Add(ctx context.Context, st domain.CategoryStamp) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO category_stamps (username, category, completed_at) VALUES (?, ?, ?)",
		st.Username, st.Category, st.CompletedAt.UTC())
	return err
}

func (s *Store) Stamps(ctx context.Context, username string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT category FROM category_stamps WHERE username = ? ORDER BY category", username)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Hints - подсказки из колонки hint банка фраз
func (s *Store) Hints() *Hints {
	return &Hints{db: s.db}
}

type Hints struct {
	db *sql.DB
}

func (h *Hints) Random(ctx context.Context) (string, error) {
	var hint string
	err := h.db.QueryRowContext(ctx,
		"SELECT hint FROM phrases WHERE hint <> '' ORDER BY random() LIMIT 1").Scan(&hint)
	if errors.Is(err, sql.ErrNoRows) {
		return "", repository.ErrNoHints
	}
	return strings.TrimSpace(hint), err
}

