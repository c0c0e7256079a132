package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"crackthecode/internal/game"
)

// Build собирает забег с переданным listener
type Build func(listener func([]game.Event)) (*game.Sequencer, error)

// Run запускает терминальную игру и блокируется до выхода
func Run(ctx context.Context, build Build) error {
	var program *tea.Program
	run, err := build(func(events []game.Event) {
		// listener срабатывает только после Start из Init, program уже задан
		program.Send(eventsMsg(events))
	})
	if err != nil {
		return err
	}
	defer run.Close()

	program = tea.NewProgram(New(ctx, run), tea.WithContext(ctx), tea.WithAltScreen())
	_, err = program.Run()
	return err
}
