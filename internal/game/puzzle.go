package game

import (
	"sync"
	"time"
)

type PuzzleState string

const (
	StateActive PuzzleState = "active"
	StateWon    PuzzleState = "won"
	StateLost   PuzzleState = "lost"
)

type CellStatus string

const (
	CellEmpty   CellStatus = "empty"
	CellPending CellStatus = "pending"
	CellLocked  CellStatus = "locked"
)

// DefaultRevertDelay - сколько неверная буква висит в ячейке до сброса
const DefaultRevertDelay = time.Second

type cell struct {
	value  rune
	status CellStatus
}

// PuzzleConfig задает параметры одной фразы
type PuzzleConfig struct {
	LivesMax    int
	Lives       int // 0 - начать с LivesMax
	RevertDelay time.Duration
	Scheduler   Scheduler
	// Locker защищает ячейки; nil - у фразы свой мьютекс
	Locker sync.Locker
	// Notify получает события от таймеров (откат ячейки) вне замка
	Notify func([]Event)
}

// Puzzle - попытка разгадать одну фразу: ячейки, жизни, исход
type Puzzle struct {
	mu          sync.Locker
	phrase      Phrase
	answer      Canonical
	positions   []int
	cells       []cell
	lives       int
	livesMax    int
	state       PuzzleState
	revertDelay time.Duration
	timers      *Coordinator
	closed      bool
}

// NewPuzzle строит фразу. Все вхождения заранее открытых букв сразу
// заблокированы; фраза без букв считается сразу разгаданной.
func NewPuzzle(phrase Phrase, cfg PuzzleConfig) *Puzzle {
	if cfg.LivesMax <= 0 {
		cfg.LivesMax = 10
	}
	if cfg.Lives <= 0 || cfg.Lives > cfg.LivesMax {
		cfg.Lives = cfg.LivesMax
	}
	if cfg.RevertDelay <= 0 {
		cfg.RevertDelay = DefaultRevertDelay
	}
	if cfg.Locker == nil {
		cfg.Locker = &sync.Mutex{}
	}

	answer, positions := Normalize(phrase.Text)
	p := &Puzzle{
		mu:          cfg.Locker,
		phrase:      phrase,
		answer:      answer,
		positions:   positions,
		cells:       make([]cell, len(answer)),
		lives:       cfg.Lives,
		livesMax:    cfg.LivesMax,
		state:       StateActive,
		revertDelay: cfg.RevertDelay,
	}
	p.timers = NewCoordinator(cfg.Locker, cfg.Scheduler, cfg.Notify)

	revealed := phrase.revealedSet()
	for i, r := range answer {
		if revealed[r] {
			p.cells[i] = cell{value: r, status: CellLocked}
		} else {
			p.cells[i] = cell{status: CellEmpty}
		}
	}
	if p.allLocked() {
		p.state = StateWon
	}
	return p
}

// Submit вводит букву raw в ячейку index ("" - стереть).
// Возвращает события, вызванные вводом; некорректный ввод ничего не меняет.
func (p *Puzzle) Submit(index int, raw string) []Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.submitLocked(index, raw)
}

func (p *Puzzle) submitLocked(index int, raw string) []Event {
	if p.closed || p.state != StateActive {
		return nil
	}
	if index < 0 || index >= len(p.cells) {
		return nil
	}
	letter, ok := parseInput(raw)
	if !ok {
		return nil
	}
	c := &p.cells[index]
	if c.status == CellLocked {
		return nil
	}

	switch {
	case letter == 0:
		p.timers.Cancel(index)
		*c = cell{status: CellEmpty}
		return nil

	case letter == p.answer[index]:
		p.timers.Cancel(index)
		*c = cell{value: letter, status: CellLocked}
		if p.allLocked() {
			p.state = StateWon
			p.timers.CancelAll()
			return []Event{{Kind: EventPhraseCompleted, Payload: PhrasePayload{Lives: p.lives}}}
		}
		if next, ok := p.nextOpen(index); ok {
			return []Event{{Kind: EventFocusAdvance, Payload: FocusPayload{Index: next}}}
		}
		return nil

	default:
		*c = cell{value: letter, status: CellPending}
		p.lives--
		if p.lives < 0 {
			p.lives = 0
		}
		events := []Event{{Kind: EventWrongGuess, Payload: GuessPayload{Index: index, Letter: string(letter), Lives: p.lives}}}
		if p.lives == 0 {
			// доска замирает в момент проигрыша
			p.state = StateLost
			p.timers.CancelAll()
			return append(events, Event{Kind: EventPhraseFailed, Payload: PhrasePayload{Lives: 0}})
		}
		p.timers.Schedule(index, p.revertDelay, func() []Event { return p.revert(index) })
		return events
	}
}

// revert вызывается координатором под замком
func (p *Puzzle) revert(index int) []Event {
	if p.closed || p.state != StateActive {
		return nil
	}
	c := &p.cells[index]
	if c.status != CellPending || c.value == p.answer[index] {
		return nil
	}
	*c = cell{status: CellEmpty}
	return []Event{{Kind: EventCellReverted, Payload: CellPayload{Index: index}}}
}

func (p *Puzzle) allLocked() bool {
	for _, c := range p.cells {
		if c.status != CellLocked {
			return false
		}
	}
	return true
}

// nextOpen ищет первую незаблокированную ячейку правее index
func (p *Puzzle) nextOpen(index int) (int, bool) {
	for j := index + 1; j < len(p.cells); j++ {
		if p.cells[j].status != CellLocked {
			return j, true
		}
	}
	return 0, false
}

// Close снимает все таймеры; после этого фраза не меняется
func (p *Puzzle) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closeLocked()
}

func (p *Puzzle) closeLocked() {
	p.closed = true
	p.timers.CancelAll()
}

func (p *Puzzle) State() PuzzleState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *Puzzle) Lives() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lives
}

func (p *Puzzle) Phrase() Phrase {
	return p.phrase
}

// PendingTimers - число взведенных таймеров отката
func (p *Puzzle) PendingTimers() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.timers.Len()
}

type CellView struct {
	Index    int        `json:"index"`
	Value    string     `json:"value"`
	Status   CellStatus `json:"status"`
	Label    int        `json:"label,omitempty"`
	Position int        `json:"position"`
}

// PuzzleView - состояние фразы для отрисовки; ответ в нем не раскрывается
type PuzzleView struct {
	Mask     string      `json:"mask"`
	Category string      `json:"category"`
	Hint     string      `json:"hint"`
	Cells    []CellView  `json:"cells"`
	Lives    int         `json:"lives"`
	LivesMax int         `json:"livesMax"`
	State    PuzzleState `json:"state"`
}

func (p *Puzzle) View() PuzzleView {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.viewLocked()
}

func (p *Puzzle) viewLocked() PuzzleView {
	cells := make([]CellView, len(p.cells))
	for i, c := range p.cells {
		v := CellView{
			Index:    i,
			Status:   c.status,
			Label:    p.phrase.LetterMap[string(p.answer[i])],
			Position: p.positions[i],
		}
		if c.value != 0 {
			v.Value = string(c.value)
		}
		cells[i] = v
	}
	return PuzzleView{
		Mask:     Mask(p.phrase.Text),
		Category: p.phrase.Category,
		Hint:     p.phrase.Hint,
		Cells:    cells,
		Lives:    p.lives,
		LivesMax: p.livesMax,
		State:    p.state,
	}
}
