package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"crackthecode/internal/domain"
	"crackthecode/internal/game"
	"crackthecode/internal/logger"
	"crackthecode/internal/metrics"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 30 * time.Second
	pingPeriod = 25 * time.Second
)

// входящее сообщение клиента
type inbound struct {
	Type   string `json:"type"`
	Index  int    `json:"index"`
	Letter string `json:"letter"`
}

// исходящее сообщение: событие движка и снимок забега
type outbound struct {
	Type  string        `json:"type"`
	Data  any           `json:"data,omitempty"`
	State *game.RunView `json:"state,omitempty"`
}

type errorData struct {
	Message string `json:"message"`
}

type hintData struct {
	Hint string `json:"hint"`
}

// Client - одно соединение и один забег
type Client struct {
	Player domain.Player
	Mode   game.ModeName
	Conn   *websocket.Conn
	Send   chan []byte
	Hub    *Hub
	Done   chan struct{}

	run    *game.Sequencer
	ctx    context.Context
	cancel context.CancelFunc
	once   sync.Once
	log    *slog.Logger
}

func NewClient(player domain.Player, mode game.ModeName, conn *websocket.Conn, hub *Hub) *Client {
	ctx, cancel := context.WithCancel(context.Background())
	return &Client{
		Player: player,
		Mode:   mode,
		Conn:   conn,
		Send:   make(chan []byte, 1024),
		Hub:    hub,
		Done:   make(chan struct{}),
		ctx:    ctx,
		cancel: cancel,
		log:    logger.With("player", player.Username, "mode", string(mode)),
	}
}

// Attach привязывает забег; вызывается до Run
func (c *Client) Attach(run *game.Sequencer) {
	c.run = run
}

// OnEvents - listener забега для событий таймеров и фоновых запросов
func (c *Client) OnEvents(events []game.Event) {
	c.push(events)
}

// Run запускает запись, первую фразу и чтение; возвращается после отключения
func (c *Client) Run() {
	go c.writePump()
	c.Hub.Register(c)

	events, err := c.run.Start(c.ctx)
	if err != nil {
		c.log.Warn("run start failed", "error", err)
	}
	c.push(events)

	c.readPump()
}

// Close отключает клиента и останавливает его забег
func (c *Client) Close() {
	c.once.Do(func() {
		c.cancel()
		if c.run != nil {
			c.run.Close()
		}
		c.Hub.Unregister(c)
		close(c.Done)
	})
}

// read
func (c *Client) readPump() {
	defer c.Close()

	c.Conn.SetReadLimit(4096)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, msg, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Warn("ошибка чтения", "error", err)
			}
			return
		}
		c.handle(msg)
	}
}

// write
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case msg := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				c.log.Warn("ошибка записи", "error", err)
				c.Close()
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.Close()
				return
			}

		case <-c.Done:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.Conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

func (c *Client) handle(msg []byte) {
	var in inbound
	if err := json.Unmarshal(msg, &in); err != nil {
		c.sendError("bad message")
		return
	}

	switch in.Type {
	case "submit":
		c.push(c.run.Submit(in.Index, in.Letter))
	case "delete":
		c.push(c.run.Submit(in.Index, ""))
	case "reset":
		events, err := c.run.Reset(c.ctx)
		if err != nil {
			c.log.Warn("run reset failed", "error", err)
		}
		c.push(events)
	case "hint":
		c.sendJSON(outbound{Type: "hint", Data: hintData{Hint: c.run.Hint(c.ctx)}})
	case "retry_report":
		// результат придет событием report_result
		if err := c.run.RetryReport(c.ctx); errors.Is(err, game.ErrNoPendingReport) {
			c.sendError("no report to retry")
		}
	case "state":
		view := c.run.View()
		c.sendJSON(outbound{Type: "state", State: &view})
	default:
		c.sendError("unknown message type")
	}
}

// push отправляет события со снимком состояния после них
func (c *Client) push(events []game.Event) {
	if len(events) == 0 {
		return
	}
	metrics.Observe(c.Mode, events)

	view := c.run.View()
	for _, ev := range events {
		c.sendJSON(outbound{Type: string(ev.Kind), Data: ev.Payload, State: &view})
	}
}

func (c *Client) sendError(message string) {
	c.sendJSON(outbound{Type: "error", Data: errorData{Message: message}})
}

// sendJSON не блокирует: при переполненной очереди сообщение отбрасывается
func (c *Client) sendJSON(v outbound) {
	b, err := json.Marshal(v)
	if err != nil {
		c.log.Error("marshal message", "error", err)
		return
	}
	select {
	case <-c.Done:
	case c.Send <- b:
	default:
		c.log.Warn("send queue full, message dropped", "type", v.Type)
	}
}
