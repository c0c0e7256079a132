package service

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// DailyLock - быстрая защита от повторного старта ежедневной фразы
type DailyLock interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

// RedisLock держит ключи через SETNX
type RedisLock struct {
	client *redis.Client
	prefix string
}

func NewRedisLock(client *redis.Client) *RedisLock {
	return &RedisLock{client: client, prefix: "crackthecode:"}
}

func (l *RedisLock) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return l.client.SetNX(ctx, l.prefix+key, time.Now().Unix(), ttl).Result()
}
