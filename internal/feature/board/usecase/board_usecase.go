// Package usecase はボード閲覧の可否判定を提供します。
package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"whoami_backend/internal/feature/auth/domain"
	"whoami_backend/internal/feature/auth/domain/entity"
	authusecase "whoami_backend/internal/feature/auth/usecase"
)

// Reasons returned when a board cannot be shown.
const (
	ReasonTargetNotFound   = "User not found"
	ReasonTargetInactive   = "Target user is not active"
	ReasonNotAuthenticated = "Not authenticated"
	ReasonNotApproved      = "Current user is not an approved follower of the target user"
)

// FollowRepository はフォロー関係の参照を抽象化します。
type FollowRepository interface {
	// ApprovedFollowExists はfollowerからfollowedへの承認済みフォローが存在するかを返します。
	ApprovedFollowExists(ctx context.Context, followerID, followedID uuid.UUID) (bool, error)
}

// TargetFinder はユーザー名でボードの持ち主を取得します。
type TargetFinder interface {
	FindByUsername(ctx context.Context, username string, withPassword bool) (*entity.User, error)
}

// BoardUsecase はボードの閲覧可否を判定します。
type BoardUsecase struct {
	users   TargetFinder
	follows FollowRepository
}

// NewBoardUsecase はBoardUsecaseを生成します。
func NewBoardUsecase(users TargetFinder, follows FollowRepository) *BoardUsecase {
	return &BoardUsecase{users: users, follows: follows}
}

// CanViewBoard はviewerがtargetのボードを閲覧できるかを判定します。閲覧可能ならnilを返します。
// viewerがnilの場合は未ログインとして扱います。
//
// 判定は次の順に行います:
//  1. targetが存在しない: NotFound
//  2. targetが無効化されている: BadRequest
//  3. targetが公開: 許可
//  4. 未ログイン: Unauthorized
//  5. 本人: 許可
//  6. 承認済みフォロワー: 許可、それ以外はForbidden
func (u *BoardUsecase) CanViewBoard(ctx context.Context, viewer, target *entity.User) error {
	if target == nil {
		return domain.NotFound(ReasonTargetNotFound)
	}
	if !target.Active {
		return domain.BadRequest(ReasonTargetInactive)
	}
	if target.Public {
		return nil
	}
	if viewer == nil {
		return domain.Unauthorized(ReasonNotAuthenticated)
	}
	if viewer.ID == target.ID {
		return nil
	}

	ok, err := u.follows.ApprovedFollowExists(ctx, viewer.ID, target.ID)
	if err != nil {
		return fmt.Errorf("failed to look up follow: %w", err)
	}
	if !ok {
		return domain.Forbidden(ReasonNotApproved)
	}
	return nil
}

// ViewBoard はユーザー名でボードの持ち主を取得し、閲覧可能であればそのユーザーを返します。
func (u *BoardUsecase) ViewBoard(ctx context.Context, viewer *entity.User, username string) (*entity.User, error) {
	target, err := u.users.FindByUsername(ctx, username, false)
	if err != nil {
		if !errors.Is(err, authusecase.ErrUserNotFound) {
			return nil, fmt.Errorf("failed to find board owner: %w", err)
		}
		target = nil
	}
	if err := u.CanViewBoard(ctx, viewer, target); err != nil {
		return nil, err
	}
	return target, nil
}
