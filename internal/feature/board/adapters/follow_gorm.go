// Package adapters はboardフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"whoami_backend/internal/feature/board/usecase"
)

// followGorm はFollowRepositoryインターフェースのGORM実装です。
type followGorm struct {
	db *gorm.DB
}

var _ usecase.FollowRepository = (*followGorm)(nil)

// NewFollowGorm はfollowGormの新しいインスタンスを生成します。
func NewFollowGorm(db *gorm.DB) *followGorm {
	return &followGorm{db: db}
}

// ApprovedFollowExists は承認済みのフォロー関係が存在するかを返します。
func (r *followGorm) ApprovedFollowExists(ctx context.Context, followerID, followedID uuid.UUID) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&FollowModel{}).
		Where("follower_id = ? AND followed_id = ? AND approved = ?", followerID.String(), followedID.String(), true).
		Count(&n).Error
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
