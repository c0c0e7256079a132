package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"crackthecode/internal/game"
	"crackthecode/internal/http/middleware"
	"crackthecode/internal/logger"
	"crackthecode/internal/repository"
)

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "version": h.Version})
}

// список категорий с числом фраз
func (h *Handler) ListCategories(c *gin.Context) {
	cats, err := h.Categories.List(c.Request.Context())
	if err != nil {
		logger.WithContext(c.Request.Context()).Error("list categories", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get categories"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": cats})
}

// декоративная подсказка; при ошибке - заглушка
func (h *Handler) GetHint(c *gin.Context) {
	text := game.PlaceholderHint
	if h.Hints != nil {
		text = h.Hints.HintOrPlaceholder(c.Request.Context())
	}
	c.JSON(http.StatusOK, gin.H{"hint": text})
}

// сыграна ли фраза дня и текущая серия
func (h *Handler) DailyStatus(c *gin.Context) {
	if h.Daily == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "daily mode disabled"})
		return
	}
	status, err := h.Daily.Status(c.Request.Context(), middleware.Player(c))
	if err != nil {
		logger.WithContext(c.Request.Context()).Error("daily status", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	c.JSON(http.StatusOK, status)
}

// ручная повторная отправка итога забега
func (h *Handler) SubmitScore(c *gin.Context) {
	var rep game.Report
	if err := c.BindJSON(&rep); err != nil {
		return
	}
	if strings.TrimSpace(rep.SessionID) == "" || rep.Score < 0 || rep.CompletedAt.IsZero() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	err := h.Scores.SubmitScore(c.Request.Context(), middleware.Player(c), rep)
	switch {
	case errors.Is(err, repository.ErrDuplicateSession):
		c.JSON(http.StatusConflict, gin.H{"error": "session already reported"})
	case err != nil:
		logger.WithContext(c.Request.Context()).Error("submit score", "error", err, "session_id", rep.SessionID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
	default:
		c.JSON(http.StatusCreated, gin.H{"ok": true, "sessionId": rep.SessionID})
	}
}
