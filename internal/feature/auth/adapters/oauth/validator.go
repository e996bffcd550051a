// Package oauth は第三者IDプロバイダー（Google、Facebook）の資格情報検証を実装します。
package oauth

import (
	"context"

	"whoami_backend/internal/feature/auth/domain"
	"whoami_backend/internal/feature/auth/domain/entity"
	"whoami_backend/internal/feature/auth/usecase"
)

// Validator はプロバイダー固有の検証戦略です。
// existing が渡された場合（再ログイン）、保存済みのプロバイダーユーザーIDとの一致も確認します。
type Validator interface {
	Validate(ctx context.Context, claim usecase.ThirdPartyClaim, existing *entity.AuthAttributes) (*entity.AuthAttributes, error)
}

// Registry はauth_serviceの値に応じて検証戦略を選択します。
type Registry struct {
	validators map[entity.Provider]Validator
}

// Registryがusecase.ThirdPartyValidatorを実装していることをコンパイル時に検証します。
var _ usecase.ThirdPartyValidator = (*Registry)(nil)

// NewRegistry はGoogleとFacebookの検証戦略を持つRegistryを生成します。
func NewRegistry(google, facebook Validator) *Registry {
	return &Registry{validators: map[entity.Provider]Validator{
		entity.ProviderGoogle:   google,
		entity.ProviderFacebook: facebook,
	}}
}

// Validate はclaim.Providerに対応する戦略で資格情報を検証します。
func (r *Registry) Validate(ctx context.Context, claim usecase.ThirdPartyClaim, existing *entity.AuthAttributes) (*entity.AuthAttributes, error) {
	v, ok := r.validators[claim.Provider]
	if !ok || v == nil {
		return nil, domain.BadRequest("Unsupported auth service: " + string(claim.Provider))
	}
	if existing != nil && existing.Provider != claim.Provider {
		return nil, domain.BadRequest("User signed up with " + existing.Provider.DisplayName() + " OAuth")
	}
	return v.Validate(ctx, claim, existing)
}

// checkStoredUserID は再ログイン時に検証済みのプロバイダーユーザーIDが保存済みのものと一致するか確認します。
func checkStoredUserID(verifiedID string, existing *entity.AuthAttributes) error {
	if existing != nil && existing.ProviderUserID != verifiedID {
		return domain.BadRequest("The given user_id does not match the stored user_id")
	}
	return nil
}
