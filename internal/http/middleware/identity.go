package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"crackthecode/internal/domain"
	"crackthecode/internal/service"
)

const playerKey = "player"

// Identity кладет игрока из JWT в контекст; без токена игрок анонимный
func Identity(auth *service.Auth) gin.HandlerFunc {
	return func(c *gin.Context) {
		player, err := auth.PlayerFromRequest(c.Request)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set(playerKey, player)
		c.Next()
	}
}

// RequirePlayer пропускает только авторизованных игроков
func RequirePlayer() gin.HandlerFunc {
	return func(c *gin.Context) {
		if Player(c).Anonymous() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}

func Player(c *gin.Context) domain.Player {
	v, ok := c.Get(playerKey)
	if !ok {
		return domain.Player{}
	}
	p, _ := v.(domain.Player)
	return p
}
