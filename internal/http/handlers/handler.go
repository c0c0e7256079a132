package handlers

import (
	"context"

	"crackthecode/internal/domain"
	"crackthecode/internal/game"
)

type categoryLister interface {
	List(ctx context.Context) ([]domain.CategoryInfo, error)
}

type hintSource interface {
	HintOrPlaceholder(ctx context.Context) string
}

type dailyStatus interface {
	Status(ctx context.Context, player domain.Player) (domain.DailyStatus, error)
}

type scoreSubmitter interface {
	SubmitScore(ctx context.Context, player domain.Player, rep game.Report) error
}

// Handler - REST поверхность игры
type Handler struct {
	Categories categoryLister
	Hints      hintSource
	Daily      dailyStatus
	Scores     scoreSubmitter
	Version    string
}
