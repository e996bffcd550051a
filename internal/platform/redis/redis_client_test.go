package redis

import (
	"context"
	"testing"

	"whoami_backend/internal/platform/config"
)

func TestNewRedisClient_NotConfigured(t *testing.T) {
	t.Parallel()

	rdb, err := NewRedisClient(context.Background(), config.RedisConfig{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rdb != nil {
		t.Error("expected nil client when REDIS_HOST is empty")
	}
}

func TestNewRedisClient_Unreachable(t *testing.T) {
	t.Parallel()

	// Port 1 is reserved and refuses connections.
	rdb, err := NewRedisClient(context.Background(), config.RedisConfig{Host: "127.0.0.1", Port: "1"})
	if err == nil {
		t.Fatal("expected connection error")
	}
	if rdb != nil {
		t.Error("expected nil client on failure")
	}
}
