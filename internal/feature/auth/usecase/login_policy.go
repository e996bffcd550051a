package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"whoami_backend/internal/feature/auth/domain/entity"
)

// LoginStatus はログイン成功後にクライアントへ返す状態です。
type LoginStatus int

const (
	// LoginOK は通常のログイン成功です。
	LoginOK LoginStatus = iota
	// LoginConfirmationRequired はメール確認が未完了であることを示します（トークンは発行済み）。
	LoginConfirmationRequired
	// LoginInactive は無効化されたアカウントであることを示します（v1のみ）。
	LoginInactive
)

// LoginResult はLoginの結果です。Statusに関わらずAccessTokenは常に設定されます。
type LoginResult struct {
	User        *entity.User
	AccessToken string
	Status      LoginStatus
}

// UserActivator はアカウントの有効/無効を切り替えます。
type UserActivator interface {
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
}

// LoginPolicy はAPIバージョンごとに異なるログイン後の振る舞いを表します。
type LoginPolicy interface {
	// AllowsUsername はユーザー名によるログインを受け付けるかを返します。
	AllowsUsername() bool
	// AfterLogin は認証済みユーザーの確認状態・有効状態からLoginStatusを決定します。
	AfterLogin(ctx context.Context, users UserActivator, user *entity.User) (LoginStatus, error)
}

type loginPolicyV1 struct{}

// LoginPolicyV1 はメールアドレスのみを受け付け、無効化されたアカウントにはLoginInactiveを返します。
var LoginPolicyV1 LoginPolicy = loginPolicyV1{}

func (loginPolicyV1) AllowsUsername() bool { return false }

func (loginPolicyV1) AfterLogin(_ context.Context, _ UserActivator, user *entity.User) (LoginStatus, error) {
	switch {
	case !user.Confirmed:
		return LoginConfirmationRequired, nil
	case !user.Active:
		return LoginInactive, nil
	default:
		return LoginOK, nil
	}
}

type loginPolicyV2 struct{}

// LoginPolicyV2 はメールアドレスとユーザー名の両方を受け付け、無効化されたアカウントはログイン成功時に再有効化します。
var LoginPolicyV2 LoginPolicy = loginPolicyV2{}

func (loginPolicyV2) AllowsUsername() bool { return true }

func (loginPolicyV2) AfterLogin(ctx context.Context, users UserActivator, user *entity.User) (LoginStatus, error) {
	if !user.Confirmed {
		return LoginConfirmationRequired, nil
	}
	if !user.Active {
		if err := users.SetActive(ctx, user.ID, true); err != nil {
			return LoginOK, fmt.Errorf("failed to reactivate user: %w", err)
		}
		user.Active = true
	}
	return LoginOK, nil
}
