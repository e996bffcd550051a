package di

import (
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	boardadapters "whoami_backend/internal/feature/board/adapters"
	"whoami_backend/internal/feature/board/usecase"
	"whoami_backend/internal/platform/cache"
)

// NewFollowRepository creates a FollowRepository implementation.
// If Redis is available, approved-follow lookups are cached for ttl.
// Otherwise, it queries the database directly.
func NewFollowRepository(rdb *redis.Client, db *gorm.DB, ttl time.Duration) usecase.FollowRepository {
	store := boardadapters.NewFollowGorm(db)
	if rdb != nil {
		return cache.NewCachingFollowRepository(rdb, ttl, store, "follows")
	}
	return store
}
