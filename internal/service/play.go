package service

import (
	"context"
	"errors"
	"fmt"

	"crackthecode/internal/config"
	"crackthecode/internal/domain"
	"crackthecode/internal/game"
)

var ErrUnknownMode = errors.New("unknown mode")

// PlayRequest - параметры нового забега
type PlayRequest struct {
	Mode     game.ModeName
	Category string
	Player   domain.Player
}

// PlayService собирает Sequencer под режим: источник фраз, политика завершения,
// запас жизней. Транспорт (websocket, терминал) только передает ввод.
type PlayService struct {
	engine     config.EngineConfig
	pool       game.PhraseSource
	categories *CategoryService
	daily      *DailyService
	hints      game.HintOracle
	reporter   game.Reporter
}

func NewPlayService(engine config.EngineConfig, pool game.PhraseSource, categories *CategoryService, daily *DailyService, hints game.HintOracle, reporter game.Reporter) *PlayService {
	return &PlayService{
		engine:     engine,
		pool:       pool,
		categories: categories,
		daily:      daily,
		hints:      hints,
		reporter:   reporter,
	}
}

// NewRun готовит забег; Start вызывает вызывающая сторона
func (s *PlayService) NewRun(ctx context.Context, req PlayRequest, opts ...game.Option) (*game.Sequencer, error) {
	mode, ok := s.engine.Mode(req.Mode)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, req.Mode)
	}

	var src game.PhraseSource
	switch req.Mode {
	case game.ModeEndless:
		src = s.pool
	case game.ModeDaily:
		if s.daily == nil {
			return nil, fmt.Errorf("%w: daily disabled", ErrUnknownMode)
		}
		src = s.daily.Source(req.Player)
	case game.ModeCategory:
		if s.categories == nil {
			return nil, fmt.Errorf("%w: categories disabled", ErrUnknownMode)
		}
		list, err := s.categories.Source(ctx, req.Category)
		if err != nil {
			return nil, err
		}
		src = list
	}

	base := append(s.engine.Options(),
		game.WithPlayer(req.Player.Username),
		game.WithCategory(req.Category),
	)
	if s.hints != nil {
		base = append(base, game.WithHints(s.hints))
	}
	if s.reporter != nil {
		base = append(base, game.WithReporter(s.reporter))
	}
	return game.NewSequencer(mode, src, append(base, opts...)...), nil
}
