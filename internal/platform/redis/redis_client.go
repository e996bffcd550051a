// Package redis opens the optional Redis client.
package redis

import (
	"context"
	"log/slog"
	"net"

	"github.com/redis/go-redis/v9"

	"whoami_backend/internal/platform/config"
)

// NewRedisClient connects to Redis and pings it. It returns (nil, nil) when
// REDIS_HOST is empty so callers can run without a cache.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	if cfg.Host == "" {
		slog.Info("Redis not configured, running without cache")
		return nil, nil
	}

	addr := net.JoinHostPort(cfg.Host, cfg.Port)
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.Password,
		DB:       0,
	})

	// 接続確認
	if err := rdb.Ping(ctx).Err(); err != nil {
		slog.Error("Redis connection failed", "address", addr, "error", err)
		_ = rdb.Close()
		return nil, err
	}

	slog.Info("Redis connection successful", "address", addr)
	return rdb, nil
}
