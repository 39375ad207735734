package notice

import (
	"context"
	"time"

	"creatorhub_backend/internal/logger"

	"github.com/go-redis/redis/v8"
)

// RedisDeduper - общий для всех инстансов вариант через SETNX с TTL
type RedisDeduper struct {
	client *redis.Client
	prefix string
	window time.Duration
}

func NewRedisDeduper(client *redis.Client, window time.Duration) *RedisDeduper {
	return &RedisDeduper{
		client: client,
		prefix: "notice:",
		window: window,
	}
}

// Allow пропускает уведомление при ошибке redis: лучше показать дубль, чем потерять ошибку
func (d *RedisDeduper) Allow(ctx context.Context, key string) bool {
	ok, err := d.client.SetNX(ctx, d.prefix+key, 1, d.window).Result()
	if err != nil {
		logger.CtxWarn(ctx, "notice dedup: redis unavailable", "error", err)
		return true
	}
	return ok
}
