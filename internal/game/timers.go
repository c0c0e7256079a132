package game

import (
	"sync"
	"time"
)

// Timer - отменяемый отложенный вызов (*time.Timer подходит)
type Timer interface {
	Stop() bool
}

// Scheduler запускает f через d в отдельной горутине
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type systemScheduler struct{}

func (systemScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// SystemScheduler работает на time.AfterFunc
var SystemScheduler Scheduler = systemScheduler{}

type cellTimer struct {
	gen   uint64
	timer Timer
}

// Coordinator держит не больше одного таймера на ячейку.
//
// Все методы вызываются под mu (тот же замок, что защищает ячейки).
// Срабатывание таймера берет mu и сверяет поколение: если ячейку за это время
// отменили или перевзвели, onExpire не вызывается. Так отмена всегда
// наблюдается раньше любого эффекта истекшего таймера.
type Coordinator struct {
	mu     sync.Locker
	sched  Scheduler
	notify func([]Event)
	timers map[int]cellTimer
	gen    uint64
}

// NewCoordinator создает координатор. notify получает события, которые вернул
// onExpire, уже после освобождения mu; может быть nil.
func NewCoordinator(mu sync.Locker, sched Scheduler, notify func([]Event)) *Coordinator {
	if sched == nil {
		sched = SystemScheduler
	}
	return &Coordinator{
		mu:     mu,
		sched:  sched,
		notify: notify,
		timers: make(map[int]cellTimer),
	}
}

// Schedule отменяет прежний таймер ячейки и взводит новый
func (c *Coordinator) Schedule(index int, delay time.Duration, onExpire func() []Event) {
	c.Cancel(index)

	c.gen++
	gen := c.gen
	t := c.sched.AfterFunc(delay, func() { c.expire(index, gen, onExpire) })
	c.timers[index] = cellTimer{gen: gen, timer: t}
}

// Cancel снимает таймер ячейки, если он есть
func (c *Coordinator) Cancel(index int) {
	ct, ok := c.timers[index]
	if !ok {
		return
	}
	ct.timer.Stop()
	delete(c.timers, index)
}

func (c *Coordinator) CancelAll() {
	for index, ct := range c.timers {
		ct.timer.Stop()
		delete(c.timers, index)
	}
}

func (c *Coordinator) Pending(index int) bool {
	_, ok := c.timers[index]
	return ok
}

func (c *Coordinator) Len() int {
	return len(c.timers)
}

func (c *Coordinator) expire(index int, gen uint64, onExpire func() []Event) {
	c.mu.Lock()
	ct, ok := c.timers[index]
	if !ok || ct.gen != gen {
		// устаревший таймер
		c.mu.Unlock()
		return
	}
	delete(c.timers, index)
	events := onExpire()
	c.mu.Unlock()

	if c.notify != nil && len(events) > 0 {
		c.notify(events)
	}
}
