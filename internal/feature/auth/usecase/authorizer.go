package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"whoami_backend/internal/feature/auth/domain"
	"whoami_backend/internal/feature/auth/domain/entity"
)

// TokenVerifier はトークンを検証してsubject（ユーザーID）を返します。
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// UserFinder はIDでユーザーを取得します。
type UserFinder interface {
	FindByID(ctx context.Context, id uuid.UUID, withPassword bool) (*entity.User, error)
}

// Authorizer はBearerトークンからリクエストごとの現在のユーザーを解決します。
type Authorizer struct {
	users  UserFinder
	tokens TokenVerifier
}

// NewAuthorizer はAuthorizerを生成します。
func NewAuthorizer(users UserFinder, tokens TokenVerifier) *Authorizer {
	return &Authorizer{users: users, tokens: tokens}
}

func (a *Authorizer) resolve(ctx context.Context, token string, withPassword bool) (*entity.User, error) {
	if token == "" {
		return nil, domain.Unauthorized("Not authenticated")
	}

	sub, err := a.tokens.Verify(token)
	if err != nil {
		return nil, domain.Unauthorized(err.Error())
	}

	id, err := uuid.Parse(sub)
	if err != nil {
		return nil, domain.Unauthorized("The given user_id in the token is not valid")
	}

	user, err := a.users.FindByID(ctx, id, withPassword)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, domain.Unauthorized("The given user_id in the token is not valid")
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// Required はトークンが無い・無効・ユーザーが存在しない場合にUnauthorizedを返します。
func (a *Authorizer) Required(ctx context.Context, token string) (*entity.User, error) {
	return a.resolve(ctx, token, false)
}

// ActiveOnly はRequiredに加え、無効化されたユーザーをUnauthorizedとして拒否します。
func (a *Authorizer) ActiveOnly(ctx context.Context, token string) (*entity.User, error) {
	user, err := a.Required(ctx, token)
	if err != nil {
		return nil, err
	}
	if !user.Active {
		return nil, domain.Unauthorized("Inactive user")
	}
	return user, nil
}

// WithPassword はRequiredと同じですが、パスワードハッシュも読み込みます。
func (a *Authorizer) WithPassword(ctx context.Context, token string) (*entity.User, error) {
	return a.resolve(ctx, token, true)
}

// Optional は有効なユーザーを解決できた場合のみそのユーザーを返します。
// トークンが無い・無効・無効化ユーザー・ストアのエラーはすべてnilになります。
func (a *Authorizer) Optional(ctx context.Context, token string) *entity.User {
	if token == "" {
		return nil
	}
	user, err := a.ActiveOnly(ctx, token)
	if err != nil {
		if domain.KindOf(err) == 0 {
			slog.Warn("optional auth: failed to resolve user", "error", err)
		}
		return nil
	}
	return user
}
