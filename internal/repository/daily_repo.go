package repository

import (
	"context"
	"errors"
	"time"

	"crackthecode/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrAttemptExists = errors.New("daily attempt already recorded")

type DailyRepository struct {
	db *pgxpool.Pool
}

func NewDailyRepository(db *pgxpool.Pool) *DailyRepository {
	return &DailyRepository{db: db}
}

// GetPuzzle возвращает фразу дня; nil, nil если ее еще нет
func (r *DailyRepository) GetPuzzle(ctx context.Context, day time.Time) (*domain.PhraseRecord, error) {
	var p domain.PhraseRecord
	err := r.db.QueryRow(ctx,
		`SELECT sentence, category, hint, revealed_letters, letter_map
		 FROM daily_puzzles
		 WHERE day = $1`,
		day,
	).Scan(&p.Sentence, &p.Category, &p.Hint, &p.RevealedLetters, &p.LetterMap)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// SavePuzzle сохраняет фразу дня. Если параллельный запрос успел раньше,
// возвращается уже сохраненная.
func (r *DailyRepository) SavePuzzle(ctx context.Context, day time.Time, p *domain.PhraseRecord) (*domain.PhraseRecord, error) {
	_, err := r.db.Exec(ctx,
		`INSERT INTO daily_puzzles (day, sentence, category, hint, revealed_letters, letter_map)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (day) DO NOTHING`,
		day, p.Sentence, p.Category, p.Hint, p.RevealedLetters, p.LetterMap,
	)
	if err != nil {
		return nil, err
	}
	return r.GetPuzzle(ctx, day)
}

func (r *DailyRepository) HasAttempt(ctx context.Context, username string, day time.Time) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM daily_attempts WHERE username = $1 AND day = $2)`,
		username, day,
	).Scan(&exists)
	return exists, err
}

// RecordAttempt записывает попытку дня и, если она выиграна, продлевает серию.
// Всё в одной транзакции.
func (r *DailyRepository) RecordAttempt(ctx context.Context, a domain.DailyAttempt, won bool) (domain.Streak, error) {
	streak := domain.Streak{Username: a.Username}

	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`INSERT INTO daily_attempts (username, day, outcome, session_id)
			 VALUES ($1, $2, $3, $4)
			 ON CONFLICT (username, day) DO NOTHING`,
			a.Username, a.Day, a.Outcome, a.SessionID,
		)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrAttemptExists
		}

		err = tx.QueryRow(ctx,
			`SELECT current, longest, last_played FROM streaks WHERE username = $1 FOR UPDATE`,
			a.Username,
		).Scan(&streak.Current, &streak.Longest, &streak.LastPlayed)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return err
		}
		if !won {
			// проигрыш обрывает серию
			if streak.Current == 0 {
				return nil
			}
			streak.Current = 0
			_, err = tx.Exec(ctx,
				`UPDATE streaks SET current = 0, updated_at = NOW() WHERE username = $1`,
				a.Username,
			)
			return err
		}

		// last_played пишется только при победе
		yesterday := a.Day.AddDate(0, 0, -1)
		playedYesterday := streak.LastPlayed != nil && streak.LastPlayed.Equal(yesterday)

		streak = domain.NextStreak(streak, playedYesterday)
		day := a.Day
		streak.LastPlayed = &day
		_, err = tx.Exec(ctx,
			`INSERT INTO streaks (username, current, longest, last_played, updated_at)
			 VALUES ($1, $2, $3, $4, NOW())
			 ON CONFLICT (username) DO UPDATE
			 SET current = EXCLUDED.current,
			     longest = EXCLUDED.longest,
			     last_played = EXCLUDED.last_played,
			     updated_at = NOW()`,
			a.Username, streak.Current, streak.Longest, a.Day,
		)
		return err
	})
	return streak, err
}

// GetStreak - серия игрока; нулевая, если он не играл
func (r *DailyRepository) GetStreak(ctx context.Context, username string) (domain.Streak, error) {
	s := domain.Streak{Username: username}
	err := r.db.QueryRow(ctx,
		`SELECT current, longest, last_played FROM streaks WHERE username = $1`,
		username,
	).Scan(&s.Current, &s.Longest, &s.LastPlayed)
	if errors.Is(err, pgx.ErrNoRows) {
		return s, nil
	}
	return s, err
}

// ResetStale обнуляет текущую серию тем, чья последняя победа раньше yesterday
func (r *DailyRepository) ResetStale(ctx context.Context, yesterday time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE streaks
		 SET current = 0, updated_at = NOW()
		 WHERE current > 0
		   AND (last_played IS NULL OR last_played < $1)`,
		yesterday,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
