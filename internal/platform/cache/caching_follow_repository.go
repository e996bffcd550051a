// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"whoami_backend/internal/feature/board/usecase"
)

const (
	defaultFollowTTL       = 30 * time.Second
	defaultFollowNamespace = "follows"

	approvedValue    = "1"
	notApprovedValue = "0"
)

// CachingFollowRepository decorates a FollowRepository with Redis caching.
// Both positive and negative answers are cached, so a follow approved or
// revoked elsewhere becomes visible once the TTL expires.
type CachingFollowRepository struct {
	inner     usecase.FollowRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ usecase.FollowRepository = (*CachingFollowRepository)(nil)

// NewCachingFollowRepository decorates a FollowRepository with Redis caching.
// If ttl is 0, it defaults to 30 seconds. If namespace is empty, it uses "follows".
// A nil rdb disables caching.
func NewCachingFollowRepository(rdb *redis.Client, ttl time.Duration, inner usecase.FollowRepository, namespace string) *CachingFollowRepository {
	if ttl <= 0 {
		ttl = defaultFollowTTL
	}
	if namespace == "" {
		namespace = defaultFollowNamespace
	}
	return &CachingFollowRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// ApprovedFollowExists checks the cache first then falls back to the inner repository.
// Redis failures never fail the lookup.
func (c *CachingFollowRepository) ApprovedFollowExists(ctx context.Context, followerID, followedID uuid.UUID) (bool, error) {
	if c.rdb == nil {
		return c.inner.ApprovedFollowExists(ctx, followerID, followedID)
	}

	key := c.cacheKey(followerID, followedID)

	// 1) Check cache
	v, err := c.rdb.Get(ctx, key).Result()
	switch {
	case err == nil && (v == approvedValue || v == notApprovedValue):
		return v == approvedValue, nil
	case err == nil:
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	case !errors.Is(err, redis.Nil):
		slog.Warn("follow cache read failed", "key", key, "error", err)
	}

	// 2) Fallback to database
	ok, err := c.inner.ApprovedFollowExists(ctx, followerID, followedID)
	if err != nil {
		return false, err
	}

	// 3) Store in cache (best effort)
	val := notApprovedValue
	if ok {
		val = approvedValue
	}
	if err := c.rdb.Set(ctx, key, val, c.ttl).Err(); err != nil {
		slog.Warn("follow cache write failed", "key", key, "error", err)
	}
	return ok, nil
}

// cacheKey generates a cache key for a follower/followed pair.
func (c *CachingFollowRepository) cacheKey(followerID, followedID uuid.UUID) string {
	return fmt.Sprintf("%s:approved:%s:%s", c.namespace, followerID, followedID)
}
