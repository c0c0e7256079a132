package game

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"
)

// manualScheduler - ручные часы: таймеры срабатывают только в Advance
type manualScheduler struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*manualTimer
}

type manualTimer struct {
	s       *manualScheduler
	at      time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (t *manualTimer) Stop() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

func (s *manualScheduler) AfterFunc(d time.Duration, f func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &manualTimer{s: s, at: s.now + d, f: f}
	s.timers = append(s.timers, t)
	return t
}

// Advance сдвигает время и по порядку запускает созревшие таймеры
func (s *manualScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	s.now += d
	s.mu.Unlock()

	for {
		s.mu.Lock()
		var next *manualTimer
		for _, t := range s.timers {
			if t.stopped || t.fired || t.at > s.now {
				continue
			}
			if next == nil || t.at < next.at {
				next = t
			}
		}
		if next == nil {
			s.mu.Unlock()
			return
		}
		next.fired = true
		s.mu.Unlock()
		next.f()
	}
}

// fireStopped запускает колбэки уже остановленных таймеров: так выглядит
// таймер, который сработал, но проиграл гонку за замок отмене
func (s *manualScheduler) fireStopped() {
	s.mu.Lock()
	var stale []*manualTimer
	for _, t := range s.timers {
		if t.stopped && !t.fired {
			t.fired = true
			stale = append(stale, t)
		}
	}
	s.mu.Unlock()
	for _, t := range stale {
		t.f()
	}
}

func (s *manualScheduler) live() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) listen(events []Event) {
	r.mu.Lock()
	r.events = append(r.events, events...)
	r.mu.Unlock()
}

func (r *recorder) kinds() []EventKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Kinds(r.events)
}

func (r *recorder) count(kind EventKind) int {
	n := 0
	for _, k := range r.kinds() {
		if k == kind {
			n++
		}
	}
	return n
}

type fakeReporter struct {
	mu    sync.Mutex
	runs  []RunReport
	fails int
}

func (f *fakeReporter) Report(_ context.Context, run RunReport) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.runs = append(f.runs, run)
	if f.fails > 0 {
		f.fails--
		return fmt.Errorf("reporter down")
	}
	return nil
}

func (f *fakeReporter) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.runs)
}

// counterSource выдает фразы "ab" с ключами p1, p2, ...
type counterSource struct {
	mu    sync.Mutex
	n     int
	calls int
}

func (s *counterSource) Next(ctx context.Context) (Phrase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	s.calls++
	return Phrase{Key: fmt.Sprintf("p%d", s.n), Text: "ab", Category: "test"}, nil
}

func (s *counterSource) Rewind() {
	s.mu.Lock()
	s.n = 0
	s.mu.Unlock()
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func hasKind(events []Event, kind EventKind) bool {
	for _, ev := range events {
		if ev.Kind == kind {
			return true
		}
	}
	return false
}
