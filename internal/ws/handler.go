package ws

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"crackthecode/internal/game"
	"crackthecode/internal/logger"
	"crackthecode/internal/service"
)

// RunFactory собирает забег под режим
type RunFactory interface {
	NewRun(ctx context.Context, req service.PlayRequest, opts ...game.Option) (*game.Sequencer, error)
}

// содержит зависимости для обработки WebSocket
type WSHandler struct {
	Hub           *Hub
	Runs          RunFactory
	Auth          *service.Auth
	AllowedOrigin string
}

func NewWSHandler(hub *Hub, runs RunFactory, auth *service.Auth, allowedOrigin string) *WSHandler {
	return &WSHandler{
		Hub:           hub,
		Runs:          runs,
		Auth:          auth,
		AllowedOrigin: allowedOrigin,
	}
}

// HandleWS - GET /ws/play?mode=endless|daily|category&category=NAME&token=JWT
func (h *WSHandler) HandleWS() gin.HandlerFunc {
	return func(c *gin.Context) {
		player, err := h.Auth.PlayerFromRequest(c.Request)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "неверный токен"})
			return
		}

		// режим по умолчанию: endless
		mode, err := game.ParseMode(c.Query("mode"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown mode"})
			return
		}

		// ошибки режима и категории отдаем до апгрейда
		var client *Client
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		run, err := h.Runs.NewRun(ctx, service.PlayRequest{
			Mode:     mode,
			Category: c.Query("category"),
			Player:   player,
		}, game.WithListener(func(events []game.Event) {
			client.OnEvents(events)
		}))
		cancel()
		switch {
		case errors.Is(err, service.ErrUnknownMode):
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown mode"})
			return
		case errors.Is(err, service.ErrUnknownCategory):
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown category"})
			return
		case err != nil:
			logger.Error("new run failed", "error", err, "mode", string(mode))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to start run"})
			return
		}

		upgrader := websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				if h.AllowedOrigin == "" {
					return true
				}
				return r.Header.Get("Origin") == h.AllowedOrigin
			},
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.Warn("ошибка обновления ws", "error", err)
			run.Close()
			return
		}

		// listener срабатывает только после Start, client к этому моменту задан
		client = NewClient(player, mode, conn, h.Hub)
		client.Attach(run)
		go client.Run()
	}
}
