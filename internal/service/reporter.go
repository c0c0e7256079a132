package service

import (
	"context"
	"errors"
	"fmt"

	"crackthecode/internal/domain"
	"crackthecode/internal/game"
	"crackthecode/internal/logger"
	"crackthecode/internal/repository"
)

var ErrAnonymousPlayer = errors.New("anonymous player: result not saved")

// Reporter сохраняет итоги забегов: счет, попытку дня с серией, отметку категории
type Reporter struct {
	scores scoreStore
	daily  *DailyService
	stamps stampStore
}

func NewReporter(scores scoreStore, daily *DailyService, stamps stampStore) *Reporter {
	return &Reporter{scores: scores, daily: daily, stamps: stamps}
}

func (r *Reporter) Report(ctx context.Context, run game.RunReport) error {
	player := domain.Player{Username: run.Player}
	if player.Anonymous() {
		return ErrAnonymousPlayer
	}
	log := logger.WithContext(ctx).With("session_id", run.SessionID, "player", run.Player, "mode", string(run.Mode))

	switch run.Mode {
	case game.ModeEndless:
		err := r.SubmitScore(ctx, player, run.Report)
		if errors.Is(err, repository.ErrDuplicateSession) {
			// уже сохранен прошлой попыткой
			log.Info("score already stored")
			return nil
		}
		return err

	case game.ModeDaily:
		if r.daily == nil {
			return nil
		}
		streak, err := r.daily.Record(ctx, player, run)
		if errors.Is(err, repository.ErrAttemptExists) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("record daily attempt: %w", err)
		}
		log.Info("daily attempt recorded", "outcome", string(run.Outcome), "streak", streak.Current, "longest", streak.Longest)
		return nil

	case game.ModeCategory:
		if run.Outcome != game.OutcomeCompleted || run.Category == "" {
			return nil
		}
		err := r.stamps.Add(ctx, domain.CategoryStamp{
			Username:    player.Username,
			Category:    run.Category,
			CompletedAt: run.CompletedAt,
		})
		if err != nil {
			return fmt.Errorf("add category stamp: %w", err)
		}
		log.Info("category stamp added", "category", run.Category)
		return nil
	}
	return fmt.Errorf("unknown mode %q", run.Mode)
}

// SubmitScore сохраняет счет; повтор sessionId - repository.ErrDuplicateSession
func (r *Reporter) SubmitScore(ctx context.Context, player domain.Player, rep game.Report) error {
	if player.Anonymous() {
		return ErrAnonymousPlayer
	}
	err := r.scores.Insert(ctx, &domain.Score{
		Username:    player.Username,
		Score:       rep.Score,
		SessionID:   rep.SessionID,
		CompletedAt: rep.CompletedAt,
	})
	if err != nil && !errors.Is(err, repository.ErrDuplicateSession) {
		return fmt.Errorf("insert score: %w", err)
	}
	return err
}
