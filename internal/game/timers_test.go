package game

import (
	"sync"
	"testing"
	"time"
)

func TestCoordinatorReplacesTimer(t *testing.T) {
	var mu sync.Mutex
	sched := &manualScheduler{}
	c := NewCoordinator(&mu, sched, nil)

	fired := map[string]int{}
	mu.Lock()
	c.Schedule(0, time.Second, func() []Event { fired["first"]++; return nil })
	c.Schedule(0, time.Second, func() []Event { fired["second"]++; return nil })
	if c.Len() != 1 {
		t.Fatalf("Len = %d, want 1", c.Len())
	}
	mu.Unlock()

	sched.Advance(time.Second)
	if fired["first"] != 0 || fired["second"] != 1 {
		t.Fatalf("fired = %v", fired)
	}
	mu.Lock()
	defer mu.Unlock()
	if c.Pending(0) {
		t.Fatalf("timer still pending after expiry")
	}
}

func TestCoordinatorCancelWinsRace(t *testing.T) {
	var mu sync.Mutex
	sched := &manualScheduler{}
	c := NewCoordinator(&mu, sched, nil)

	fired := 0
	mu.Lock()
	c.Schedule(3, time.Second, func() []Event { fired++; return nil })
	c.Cancel(3)
	mu.Unlock()

	// колбэк все равно запускается, как если бы Stop опоздал
	sched.fireStopped()
	if fired != 0 {
		t.Fatalf("onExpire ran after Cancel")
	}
}

func TestCoordinatorCancelAllIndependentCells(t *testing.T) {
	var mu sync.Mutex
	sched := &manualScheduler{}
	var notified []Event
	c := NewCoordinator(&mu, sched, func(evs []Event) { notified = append(notified, evs...) })

	mu.Lock()
	for i := 0; i < 3; i++ {
		i := i
		c.Schedule(i, time.Duration(i+1)*time.Second, func() []Event {
			return []Event{{Kind: EventCellReverted, Payload: CellPayload{Index: i}}}
		})
	}
	c.Cancel(1)
	mu.Unlock()

	sched.Advance(time.Second)
	if len(notified) != 1 {
		t.Fatalf("notified %d events, want 1", len(notified))
	}

	mu.Lock()
	c.CancelAll()
	mu.Unlock()
	sched.fireStopped()
	sched.Advance(5 * time.Second)
	if len(notified) != 1 {
		t.Fatalf("timer fired after CancelAll: %v", notified)
	}
}
