package service

import (
	"context"
	"sync"
	"time"

	"crackthecode/internal/domain"
	"crackthecode/internal/logger"
)

// StreakResetter раз в сутки (после 00:05 UTC) обнуляет серии тех,
// кто пропустил вчерашнюю фразу
type StreakResetter struct {
	repo     dailyStore
	interval time.Duration
	now      func() time.Time

	mu      sync.Mutex
	stop    chan struct{}
	running bool
	lastDay time.Time
}

const streakResetAfter = 5 * time.Minute

func NewStreakResetter(repo dailyStore, interval time.Duration) *StreakResetter {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &StreakResetter{
		repo:     repo,
		interval: interval,
		now:      time.Now,
		stop:     make(chan struct{}),
	}
}

// Start запускает проверку в текущей горутине до Stop
func (w *StreakResetter) Start() {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return
	}
	w.running = true
	w.mu.Unlock()

	log := logger.Get()
	log.Info("запуск streak resetter", "interval", w.interval)

	w.check(context.Background())

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.check(context.Background())
		case <-w.stop:
			log.Info("остановка streak resetter")
			return
		}
	}
}

// Stop останавливает resetter
func (w *StreakResetter) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		close(w.stop)
		w.running = false
	}
}

// check сбрасывает серии не чаще раза в сутки; true - сброс выполнен
func (w *StreakResetter) check(ctx context.Context) bool {
	now := w.now().UTC()
	today := domain.Today(now)
	if now.Sub(today) < streakResetAfter {
		return false
	}

	w.mu.Lock()
	done := w.lastDay.Equal(today)
	w.mu.Unlock()
	if done {
		return false
	}

	n, err := w.repo.ResetStale(ctx, today.AddDate(0, 0, -1))
	if err != nil {
		logger.Error("streak reset failed", "error", err)
		return false
	}

	w.mu.Lock()
	w.lastDay = today
	w.mu.Unlock()
	logger.Info("streaks reset", "day", today.Format(domain.DayLayout), "players", n)
	return true
}
