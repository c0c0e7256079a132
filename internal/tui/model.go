package tui

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"crackthecode/internal/game"
)

// Runner - часть Sequencer, которой пользуется терминал
type Runner interface {
	Start(ctx context.Context) ([]game.Event, error)
	Reset(ctx context.Context) ([]game.Event, error)
	Submit(index int, raw string) []game.Event
	Hint(ctx context.Context) string
	RetryReport(ctx context.Context) error
	View() game.RunView
	Close()
}

// события от таймеров приходят через Program.Send
type eventsMsg []game.Event

type loadedMsg struct {
	events []game.Event
	err    error
}

type hintMsg string

type retryMsg struct{ err error }

type Model struct {
	ctx    context.Context
	run    Runner
	keys   keyMap
	help   help.Model
	styles styles

	view   game.RunView
	focus  int
	hint   string
	status string
	failed bool
	width  int
}

func New(ctx context.Context, run Runner) Model {
	return Model{
		ctx:    ctx,
		run:    run,
		keys:   defaultKeys(),
		help:   help.New(),
		styles: defaultStyles(),
		view:   run.View(),
	}
}

func (m Model) Init() tea.Cmd {
	return func() tea.Msg {
		events, err := m.run.Start(m.ctx)
		return loadedMsg{events: events, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case loadedMsg:
		m.apply(msg.events)
		if msg.err != nil && len(msg.events) == 0 {
			m.setStatus(msg.err.Error(), true)
		}
		return m, nil

	case eventsMsg:
		m.apply(msg)
		return m, nil

	case hintMsg:
		m.hint = string(msg)
		return m, nil

	case retryMsg:
		if msg.err != nil {
			m.setStatus("Save failed: "+msg.err.Error(), true)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.run.Close()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Left):
		m.moveFocus(-1)
		return m, nil
	case key.Matches(msg, m.keys.Right):
		m.moveFocus(1)
		return m, nil
	case key.Matches(msg, m.keys.Delete):
		m.apply(m.run.Submit(m.focus, ""))
		return m, nil
	case key.Matches(msg, m.keys.Reset):
		m.setStatus("Starting a new run...", false)
		return m, func() tea.Msg {
			events, err := m.run.Reset(m.ctx)
			return loadedMsg{events: events, err: err}
		}
	case key.Matches(msg, m.keys.Hint):
		return m, func() tea.Msg {
			return hintMsg(m.run.Hint(m.ctx))
		}
	case key.Matches(msg, m.keys.Retry):
		return m, func() tea.Msg {
			return retryMsg{err: m.run.RetryReport(m.ctx)}
		}
	}

	if msg.Type == tea.KeyRunes && len(msg.Runes) == 1 && unicode.IsLetter(msg.Runes[0]) {
		m.apply(m.run.Submit(m.focus, string(msg.Runes)))
	}
	return m, nil
}

// apply переносит события в строку статуса и обновляет снимок
func (m *Model) apply(events []game.Event) {
	for _, ev := range events {
		switch p := ev.Payload.(type) {
		case game.StartedPayload:
			m.hint = ""
			m.focus = -1
			m.setStatus(fmt.Sprintf("New phrase: %d letters to find", p.Cells), false)
		case game.FocusPayload:
			m.focus = p.Index
		case game.GuessPayload:
			m.setStatus(fmt.Sprintf("%q is wrong, %d lives left", p.Letter, p.Lives), true)
		case game.PhrasePayload:
			switch ev.Kind {
			case game.EventBonusLife:
				m.setStatus(fmt.Sprintf("Bonus life! %d lives", p.Lives), false)
			case game.EventPhraseCompleted:
				m.setStatus(fmt.Sprintf("Solved! Score %d", p.Score), false)
			}
		case game.RunPayload:
			switch ev.Kind {
			case game.EventRunFailed:
				m.setStatus(fmt.Sprintf("Out of lives. Final score %d. ctrl+r to play again", p.Score), true)
			case game.EventRunCompleted:
				text := p.Message
				if text == "" {
					text = fmt.Sprintf("Run complete! Score %d", p.Score)
				}
				m.setStatus(text, false)
			}
		case game.NoPhrasePayload:
			m.setStatus("No phrase available: "+p.Reason, true)
		case game.ReportPayload:
			if p.OK {
				m.setStatus(m.status+" (saved)", m.failed)
			} else {
				m.setStatus("Score not saved: "+p.Error+". ctrl+s to retry", true)
			}
		}
	}

	m.view = m.run.View()
	if m.focus < 0 || !m.open(m.focus) {
		m.focus = m.firstOpen()
	}
}

func (m *Model) setStatus(text string, failed bool) {
	m.status = text
	m.failed = failed
}

func (m Model) cells() []game.CellView {
	if m.view.Puzzle == nil {
		return nil
	}
	return m.view.Puzzle.Cells
}

func (m Model) open(index int) bool {
	cells := m.cells()
	return index >= 0 && index < len(cells) && cells[index].Status != game.CellLocked
}

func (m Model) firstOpen() int {
	for i := range m.cells() {
		if m.open(i) {
			return i
		}
	}
	return 0
}

// moveFocus пропускает закрепленные ячейки
func (m *Model) moveFocus(step int) {
	n := len(m.cells())
	if n == 0 {
		return
	}
	i := m.focus
	for k := 0; k < n; k++ {
		i = (i + step + n) % n
		if m.open(i) {
			m.focus = i
			return
		}
	}
}

func (m Model) View() string {
	var b strings.Builder
	s := m.styles

	b.WriteString(s.title.Render("Crack the Code"))
	b.WriteString("  ")
	b.WriteString(s.meta.Render(fmt.Sprintf("%s · score %d · %s",
		m.view.Mode, m.view.Score, lives(m.view.Lives, m.view.LivesMax))))
	b.WriteString("\n\n")

	if pz := m.view.Puzzle; pz != nil {
		if pz.Category != "" {
			b.WriteString(s.meta.Render("Category: " + pz.Category))
			b.WriteString("\n\n")
		}
		b.WriteString(m.board(pz))
		b.WriteString("\n")
		if m.hint != "" {
			b.WriteString(s.hint.Render("Hint: " + m.hint))
			b.WriteString("\n")
		}
	}

	if m.status != "" {
		b.WriteString("\n")
		if m.failed {
			b.WriteString(s.failure.Render(m.status))
		} else {
			b.WriteString(s.status.Render(m.status))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

// board рисует фразу по словам: строка букв и строка номеров под ними
func (m Model) board(pz *game.PuzzleView) string {
	s := m.styles
	byPos := make(map[int]game.CellView, len(pz.Cells))
	for _, c := range pz.Cells {
		byPos[c.Position] = c
	}

	var words []string
	var top, bottom []string
	flush := func() {
		if len(top) == 0 {
			return
		}
		if len(words) > 0 {
			words = append(words, "   ")
		}
		words = append(words, lipgloss.JoinVertical(lipgloss.Left,
			lipgloss.JoinHorizontal(lipgloss.Top, top...),
			lipgloss.JoinHorizontal(lipgloss.Top, bottom...)))
		top, bottom = nil, nil
	}

	for pos, r := range []rune(pz.Mask) {
		if r == ' ' {
			flush()
			continue
		}
		c, ok := byPos[pos]
		if !ok {
			top = append(top, s.empty.Render(string(r)))
			bottom = append(bottom, s.label.Render(""))
			continue
		}
		top = append(top, m.cell(c))
		label := ""
		if c.Label > 0 {
			label = fmt.Sprint(c.Label)
		}
		bottom = append(bottom, s.label.Render(label))
	}
	flush()

	return lipgloss.JoinHorizontal(lipgloss.Top, words...)
}

func (m Model) cell(c game.CellView) string {
	s := m.styles
	text := "_"
	if c.Value != "" {
		text = strings.ToUpper(c.Value)
	}
	st := s.empty
	switch c.Status {
	case game.CellPending:
		st = s.pending
	case game.CellLocked:
		st = s.locked
	}
	if c.Index == m.focus && c.Status != game.CellLocked {
		st = st.Inherit(s.focus).Reverse(true)
	}
	return st.Render(text)
}

func lives(n, total int) string {
	if total <= 0 {
		return ""
	}
	n = min(max(n, 0), total)
	return strings.Repeat("♥", n) + strings.Repeat("♡", total-n)
}
