package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"crackthecode/internal/logger"
)

// Counter считает запросы в окне
type Counter interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

// RedisCounter - INCR + EXPIRE на первом запросе окна
type RedisCounter struct {
	client *redis.Client
	prefix string
}

func NewRedisCounter(client *redis.Client) *RedisCounter {
	return &RedisCounter{client: client, prefix: "crackthecode:rl:"}
}

func (r *RedisCounter) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	n, err := r.client.Incr(ctx, r.prefix+key).Result()
	if err != nil {
		return 0, err
	}
	if n == 1 {
		if err := r.client.Expire(ctx, r.prefix+key, window).Err(); err != nil {
			return n, err
		}
	}
	return n, nil
}

// RateLimit ограничивает число запросов с одного IP в минуту.
// Ошибка счетчика пропускает запрос.
func RateLimit(counter Counter, perMinute int) gin.HandlerFunc {
	return rateLimit(counter, perMinute, time.Now)
}

func rateLimit(counter Counter, perMinute int, now func() time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		if counter == nil || perMinute <= 0 {
			c.Next()
			return
		}

		minute := now().Unix() / 60
		key := fmt.Sprintf("%s:%d", c.ClientIP(), minute)
		n, err := counter.Incr(c.Request.Context(), key, time.Minute)
		if err != nil {
			logger.Warn("rate limiter unavailable", "error", err)
			c.Next()
			return
		}

		remaining := perMinute - int(n)
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(perMinute))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		if int(n) > perMinute {
			c.Header("Retry-After", strconv.FormatInt(60-now().Unix()%60, 10))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}
		c.Next()
	}
}
