package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"crackthecode/internal/logger"

	"github.com/google/uuid"
)

type RunStatus string

const (
	RunIdle      RunStatus = "idle"
	RunPlaying   RunStatus = "playing"
	RunAdvancing RunStatus = "advancing"
	RunCompleted RunStatus = "completed"
	RunFailed    RunStatus = "failed"
	RunStalled   RunStatus = "stalled"
)

type Option func(*Sequencer)

func WithReporter(r Reporter) Option { return func(q *Sequencer) { q.reporter = r } }

func WithHints(h HintOracle) Option { return func(q *Sequencer) { q.hints = h } }

func WithScheduler(s Scheduler) Option { return func(q *Sequencer) { q.sched = s } }

// WithListener задает получателя событий от таймеров и фоновой работы
// (откат ячейки, следующая фраза, результат отправки отчета).
// Вызывается вне замков.
func WithListener(fn func([]Event)) Option { return func(q *Sequencer) { q.listener = fn } }

func WithLogger(l *slog.Logger) Option { return func(q *Sequencer) { q.log = l } }

func WithSessionIDs(fn func() string) Option { return func(q *Sequencer) { q.newID = fn } }

func WithClock(now func() time.Time) Option { return func(q *Sequencer) { q.now = now } }

// WithFetchTimeout ограничивает каждый запрос фразы; 0 - без ограничения
func WithFetchTimeout(d time.Duration) Option { return func(q *Sequencer) { q.fetchTimeout = d } }

// WithReportTimeout ограничивает каждую попытку отправки отчета; 0 - без ограничения
func WithReportTimeout(d time.Duration) Option { return func(q *Sequencer) { q.reportTimeout = d } }

// WithReportRetries - сколько раз автоматически повторить неудачную отправку
func WithReportRetries(n int) Option { return func(q *Sequencer) { q.reportRetries = n } }

func WithPlayer(name string) Option { return func(q *Sequencer) { q.player = name } }

func WithCategory(name string) Option { return func(q *Sequencer) { q.category = name } }

// Sequencer связывает фразы в забег: берет фразу у источника, строит Puzzle,
// решает что делать после победы или поражения.
//
// Вызовы возвращают события, которые они вызвали. События от таймеров и
// фоновых запросов уходят в listener.
type Sequencer struct {
	mu       sync.Mutex
	mode     Mode
	source   PhraseSource
	reporter Reporter
	hints    HintOracle
	sched    Scheduler
	listener func([]Event)
	log      *slog.Logger
	newID    func() string
	now      func() time.Time

	fetchTimeout  time.Duration
	reportTimeout time.Duration
	reportRetries int
	player        string
	category      string

	ledger  *Ledger
	used    map[string]struct{}
	lives   int
	puzzle  *Puzzle
	status  RunStatus
	runGen  uint64
	advance Timer
	lastRun RunReport
	outbox  *RunReport
	closed  bool
}

func NewSequencer(mode Mode, source PhraseSource, opts ...Option) *Sequencer {
	q := &Sequencer{
		mode:   mode,
		source: source,
		sched:  SystemScheduler,
		newID:  func() string { return uuid.New().String() },
		now:    time.Now,
		status: RunIdle,
		used:   make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(q)
	}
	if q.mode.LivesMax <= 0 {
		q.mode.LivesMax = 10
	}
	if q.mode.Policy == nil {
		q.mode.Policy = Endlessly{}
	}
	if q.log == nil {
		q.log = logger.Get()
	}
	q.ledger = NewLedger(q.newID(), q.mode.BonusEvery)
	q.lives = q.mode.LivesMax
	q.log = q.log.With("mode", string(q.mode.Name))
	return q
}

// Start запрашивает первую фразу забега
func (q *Sequencer) Start(ctx context.Context) ([]Event, error) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil, ErrClosed
	}
	if q.status != RunIdle {
		q.mu.Unlock()
		return nil, ErrRunStarted
	}
	q.status = RunAdvancing
	gen := q.runGen
	q.mu.Unlock()

	return q.load(ctx, gen)
}

// Reset начинает новый забег: новый sessionId, нулевой счет, полный запас жизней
func (q *Sequencer) Reset(ctx context.Context) ([]Event, error) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil, ErrClosed
	}
	q.teardownLocked()
	q.runGen++
	gen := q.runGen
	q.ledger.Reset(q.newID())
	q.used = make(map[string]struct{})
	q.lives = q.mode.LivesMax
	q.puzzle = nil
	q.outbox = nil
	q.lastRun = RunReport{}
	q.status = RunAdvancing
	sessionID := q.ledger.SessionID()
	q.mu.Unlock()

	if rw, ok := q.source.(Rewinder); ok {
		rw.Rewind()
	}
	q.log.Info("run reset", "session_id", sessionID)

	events := []Event{{Kind: EventRunReset, Payload: RunPayload{Mode: q.mode.Name, SessionID: sessionID}}}
	more, err := q.load(ctx, gen)
	return append(events, more...), err
}

// Submit передает ввод в текущую фразу
func (q *Sequencer) Submit(index int, raw string) []Event {
	q.mu.Lock()
	if q.closed || q.puzzle == nil || q.status != RunPlaying {
		q.mu.Unlock()
		return nil
	}

	var out []Event
	for _, ev := range q.puzzle.submitLocked(index, raw) {
		switch ev.Kind {
		case EventPhraseCompleted:
			out = append(out, q.completedLocked()...)
		case EventPhraseFailed:
			out = append(out, q.failedLocked()...)
		default:
			out = append(out, ev)
		}
	}
	job := q.takeReportLocked()
	q.mu.Unlock()

	q.dispatch(job)
	return out
}

// Close останавливает забег и снимает все таймеры
func (q *Sequencer) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	q.runGen++
	q.teardownLocked()
}

// Hint спрашивает подсказку; при ошибке - заглушка
func (q *Sequencer) Hint(ctx context.Context) string {
	if q.hints == nil {
		return PlaceholderHint
	}
	ctx, cancel := withTimeout(ctx, q.fetchTimeout)
	defer cancel()

	text, err := q.hints.Hint(ctx)
	if err != nil {
		q.log.Warn("hint unavailable", "error", err)
		return PlaceholderHint
	}
	if strings.TrimSpace(text) == "" {
		return PlaceholderHint
	}
	return text
}

// RetryReport повторяет отправку отчета после неудачи
func (q *Sequencer) RetryReport(ctx context.Context) error {
	q.mu.Lock()
	if q.reporter == nil {
		q.mu.Unlock()
		return ErrNoPendingReport
	}
	rep, ok := q.ledger.Retry()
	if !ok {
		q.mu.Unlock()
		return ErrNoPendingReport
	}
	run := q.lastRun
	run.Report = rep
	gen := q.runGen
	q.mu.Unlock()

	ctx, cancel := withTimeout(ctx, q.reportTimeout)
	err := q.reporter.Report(ctx, run)
	cancel()

	q.mu.Lock()
	if gen == q.runGen {
		q.ledger.MarkDelivered(err == nil)
	}
	q.mu.Unlock()

	if err != nil {
		q.log.Warn("report retry failed", "session_id", run.SessionID, "error", err)
		return fmt.Errorf("report run: %w", err)
	}
	return nil
}

func (q *Sequencer) Lives() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.puzzle != nil && q.puzzle.state == StateActive {
		return q.puzzle.lives
	}
	return q.lives
}

func (q *Sequencer) Score() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.ledger.Score()
}

func (q *Sequencer) SessionID() string {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.ledger.SessionID()
}

func (q *Sequencer) Status() RunStatus {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.status
}

func (q *Sequencer) Mode() Mode { return q.mode }

// ReportPending - отчет не доставлен, можно вызвать RetryReport
func (q *Sequencer) ReportPending() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.ledger.Pending()
}

// UsedPhrases - сколько разных фраз уже было в забеге
func (q *Sequencer) UsedPhrases() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.used)
}

// RunView - снимок забега для отрисовки
type RunView struct {
	Mode      ModeName    `json:"mode"`
	Status    RunStatus   `json:"status"`
	SessionID string      `json:"sessionId"`
	Score     int         `json:"score"`
	Lives     int         `json:"lives"`
	LivesMax  int         `json:"livesMax"`
	Puzzle    *PuzzleView `json:"puzzle,omitempty"`
}

func (q *Sequencer) View() RunView {
	q.mu.Lock()
	defer q.mu.Unlock()

	v := RunView{
		Mode:      q.mode.Name,
		Status:    q.status,
		SessionID: q.ledger.SessionID(),
		Score:     q.ledger.Score(),
		Lives:     q.lives,
		LivesMax:  q.mode.LivesMax,
	}
	if q.puzzle != nil {
		pv := q.puzzle.viewLocked()
		v.Puzzle = &pv
		if q.puzzle.state == StateActive {
			v.Lives = q.puzzle.lives
		}
	}
	return v
}

// load получает фразу вне замка и ставит ее, если забег не сменился
func (q *Sequencer) load(ctx context.Context, gen uint64) ([]Event, error) {
	phrase, err := q.fetch(ctx, gen)

	q.mu.Lock()
	if gen != q.runGen || q.closed {
		q.mu.Unlock()
		return nil, nil
	}

	var events []Event
	switch {
	case err == nil:
		events = q.installLocked(phrase)
	case errors.Is(err, ErrSourceExhausted) && q.ledger.Completions() > 0:
		err = nil
		events = q.finishLocked(OutcomeCompleted)
	default:
		// текущая фраза (если есть) остается как была
		q.status = RunStalled
		events = []Event{{Kind: EventNoPhrase, Payload: NoPhrasePayload{Reason: err.Error()}}}
	}
	job := q.takeReportLocked()
	q.mu.Unlock()

	if err != nil {
		q.log.Warn("no phrase", "error", err)
	}
	q.dispatch(job)
	return events, err
}

func (q *Sequencer) fetch(ctx context.Context, gen uint64) (Phrase, error) {
	attempts := 1
	if q.mode.Unique && q.mode.UniqueAttempts > 1 {
		attempts = q.mode.UniqueAttempts
	}

	for i := 0; i < attempts; i++ {
		fctx, cancel := withTimeout(ctx, q.fetchTimeout)
		phrase, err := q.source.Next(fctx)
		cancel()
		if err != nil {
			return Phrase{}, err
		}
		if !q.mode.Unique {
			return phrase, nil
		}

		q.mu.Lock()
		_, seen := q.used[phrase.ID()]
		stale := gen != q.runGen
		q.mu.Unlock()
		if stale {
			return Phrase{}, ErrNoPhraseAvailable
		}
		if !seen {
			return phrase, nil
		}
		q.log.Debug("phrase already used", "attempt", i+1)
	}
	return Phrase{}, ErrNoPhraseAvailable
}

func (q *Sequencer) installLocked(phrase Phrase) []Event {
	if q.puzzle != nil {
		q.puzzle.closeLocked()
	}
	if q.mode.Unique {
		q.used[phrase.ID()] = struct{}{}
	}
	lives := q.lives
	if q.mode.ResetLives {
		lives = q.mode.LivesMax
	}

	q.puzzle = NewPuzzle(phrase, PuzzleConfig{
		LivesMax:    q.mode.LivesMax,
		Lives:       lives,
		RevertDelay: q.mode.RevertDelay,
		Scheduler:   q.sched,
		Locker:      &q.mu,
		Notify:      q.emit,
	})
	q.status = RunPlaying
	q.log.Debug("phrase started", "session_id", q.ledger.SessionID(), "cells", len(q.puzzle.cells))

	events := []Event{{Kind: EventPhraseStarted, Payload: StartedPayload{
		Category: phrase.Category,
		Cells:    len(q.puzzle.cells),
		Lives:    q.puzzle.lives,
		Score:    q.ledger.Score(),
	}}}
	if q.puzzle.state == StateWon {
		events = append(events, q.completedLocked()...)
	}
	return events
}

func (q *Sequencer) completedLocked() []Event {
	bonus := q.ledger.Complete()
	lives := q.puzzle.lives
	if bonus && lives < q.mode.LivesMax {
		lives++
	}
	q.lives = lives

	events := []Event{{Kind: EventPhraseCompleted, Payload: PhrasePayload{Score: q.ledger.Score(), Lives: lives}}}
	if bonus {
		events = append(events, Event{Kind: EventBonusLife, Payload: PhrasePayload{Score: q.ledger.Score(), Lives: lives}})
	}

	if !q.mode.Policy.Continue(q.source) {
		return append(events, q.finishLocked(OutcomeCompleted)...)
	}

	q.status = RunAdvancing
	gen := q.runGen
	q.advance = q.sched.AfterFunc(q.mode.AdvanceDelay, func() { q.advanceTo(gen) })
	return events
}

func (q *Sequencer) failedLocked() []Event {
	q.lives = 0
	events := []Event{{Kind: EventPhraseFailed, Payload: PhrasePayload{Score: q.ledger.Score()}}}
	return append(events, q.finishLocked(OutcomeFailed)...)
}

func (q *Sequencer) finishLocked(outcome RunOutcome) []Event {
	payload := RunPayload{
		Mode:      q.mode.Name,
		Score:     q.ledger.Score(),
		SessionID: q.ledger.SessionID(),
		Category:  q.category,
	}
	kind := EventRunFailed
	q.status = RunFailed
	if outcome == OutcomeCompleted {
		kind = EventRunCompleted
		q.status = RunCompleted
		if q.mode.Name == ModeCategory && q.category != "" {
			payload.Message = fmt.Sprintf("Category %s complete!", q.category)
		}
	}
	q.log.Info("run finished", "session_id", payload.SessionID, "outcome", string(outcome), "score", payload.Score)

	if q.reporter != nil {
		if rep, ok := q.ledger.Finalize(q.now()); ok {
			q.lastRun = RunReport{
				Report:   rep,
				Mode:     q.mode.Name,
				Outcome:  outcome,
				Category: q.category,
				Player:   q.player,
				Phrases:  q.ledger.Completions(),
			}
			run := q.lastRun
			q.outbox = &run
		}
	}
	return []Event{{Kind: kind, Payload: payload}}
}

func (q *Sequencer) advanceTo(gen uint64) {
	q.mu.Lock()
	if gen != q.runGen || q.closed || q.status != RunAdvancing {
		q.mu.Unlock()
		return
	}
	q.advance = nil
	q.mu.Unlock()

	events, _ := q.load(context.Background(), gen)
	q.emit(events)
}

func (q *Sequencer) teardownLocked() {
	if q.advance != nil {
		q.advance.Stop()
		q.advance = nil
	}
	if q.puzzle != nil {
		q.puzzle.closeLocked()
	}
}

type reportJob struct {
	run RunReport
	gen uint64
}

func (q *Sequencer) takeReportLocked() *reportJob {
	if q.outbox == nil {
		return nil
	}
	job := &reportJob{run: *q.outbox, gen: q.runGen}
	q.outbox = nil
	return job
}

// dispatch отправляет отчет в фоне, не блокируя ввод
func (q *Sequencer) dispatch(job *reportJob) {
	if job == nil {
		return
	}
	q.sched.AfterFunc(0, func() { q.deliver(job) })
}

func (q *Sequencer) deliver(job *reportJob) {
	var err error
	for attempt := 0; attempt <= q.reportRetries; attempt++ {
		ctx, cancel := withTimeout(context.Background(), q.reportTimeout)
		err = q.reporter.Report(ctx, job.run)
		cancel()
		if err == nil {
			break
		}
		q.log.Warn("report failed", "session_id", job.run.SessionID, "attempt", attempt+1, "error", err)
	}

	q.mu.Lock()
	current := job.gen == q.runGen
	if current {
		q.ledger.MarkDelivered(err == nil)
	}
	q.mu.Unlock()
	if !current {
		return
	}

	payload := ReportPayload{OK: err == nil}
	if err != nil {
		payload.Error = err.Error()
	}
	q.emit([]Event{{Kind: EventReportResult, Payload: payload}})
}

func (q *Sequencer) emit(events []Event) {
	if q.listener != nil && len(events) > 0 {
		q.listener(events)
	}
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
