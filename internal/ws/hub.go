package ws

import (
	"fmt"
	"sync"
	"time"

	"crackthecode/internal/game"
	"crackthecode/internal/logger"
	"crackthecode/internal/metrics"
)

// уникально идентифицирует забег игрока: одно соединение на игрока и режим
type SessionKey struct {
	Player string
	Mode   game.ModeName
}

func (k SessionKey) String() string {
	return fmt.Sprintf("%s_%s", k.Player, k.Mode)
}

// Hub - реестр живых клиентов
type Hub struct {
	mu       sync.RWMutex
	clients  map[*Client]struct{}
	byPlayer map[SessionKey]*Client
	stop     chan struct{}
	stopOnce sync.Once
}

func NewHub() *Hub {
	return &Hub{
		clients:  make(map[*Client]struct{}),
		byPlayer: make(map[SessionKey]*Client),
		stop:     make(chan struct{}),
	}
}

// Register добавляет клиента; прежнее соединение того же игрока в том же режиме закрывается
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	var old *Client
	if !c.Player.Anonymous() {
		key := SessionKey{Player: c.Player.Username, Mode: c.Mode}
		old = h.byPlayer[key]
		h.byPlayer[key] = c
	}
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()

	metrics.LiveClients.Set(float64(n))
	if old != nil && old != c {
		logger.Info("replacing previous connection", "player", c.Player.Username, "mode", string(c.Mode))
		old.Close()
	}
}

func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, c)
	key := SessionKey{Player: c.Player.Username, Mode: c.Mode}
	if h.byPlayer[key] == c {
		delete(h.byPlayer, key)
	}
	n := len(h.clients)
	h.mu.Unlock()

	metrics.LiveClients.Set(float64(n))
}

func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// CloseAll отключает всех клиентов при остановке сервера
func (h *Hub) CloseAll() {
	h.stopOnce.Do(func() { close(h.stop) })
	for _, c := range h.snapshot() {
		c.Close()
	}
}

func (h *Hub) snapshot() []*Client {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		out = append(out, c)
	}
	return out
}

// StartCleanup периодически отключает клиентов с забитой очередью отправки
func (h *Hub) StartCleanup(interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				h.cleanupStuck()
			case <-h.stop:
				return
			}
		}
	}()
}

func (h *Hub) cleanupStuck() int {
	var stuck []*Client
	for _, c := range h.snapshot() {
		if len(c.Send) == cap(c.Send) {
			stuck = append(stuck, c)
		}
	}
	for _, c := range stuck {
		logger.Warn("отключение зависшего клиента", "player", c.Player.Username, "mode", string(c.Mode))
		c.Close()
	}
	return len(stuck)
}
