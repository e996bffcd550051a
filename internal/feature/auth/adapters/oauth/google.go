package oauth

import (
	"context"
	"errors"
	"log/slog"

	"whoami_backend/internal/feature/auth/domain"
	"whoami_backend/internal/feature/auth/domain/entity"
	"whoami_backend/internal/feature/auth/usecase"
	"whoami_backend/internal/platform/externalapi/google"
)

// GoogleTokenVerifier はGoogleのtokeninfoエンドポイント呼び出しを抽象化します。
type GoogleTokenVerifier interface {
	Verify(ctx context.Context, token string) (*google.TokenInfo, error)
}

// GoogleValidator はGoogle IDトークンを検証します。
type GoogleValidator struct {
	verifier GoogleTokenVerifier
}

// NewGoogleValidator は指定されたverifierでGoogleValidatorを生成します。
func NewGoogleValidator(verifier GoogleTokenVerifier) *GoogleValidator {
	return &GoogleValidator{verifier: verifier}
}

// Validate はトークンをGoogleに問い合わせ、検証済みのメールアドレスとユーザーIDが申告値と一致するか確認します。
func (g *GoogleValidator) Validate(ctx context.Context, claim usecase.ThirdPartyClaim, existing *entity.AuthAttributes) (*entity.AuthAttributes, error) {
	info, err := g.verifier.Verify(ctx, claim.Credential)
	if err != nil {
		slog.Warn("google token verification failed", "error", err)
		return nil, domain.BadRequest("Cannot verify the given access_token: " + googleCause(err))
	}

	if info.Email != claim.Email {
		return nil, domain.BadRequest("The given email does not match the email of the access_token")
	}
	if info.Subject != claim.ProviderUserID {
		return nil, domain.BadRequest("The given user_id does not match the user_id of the access_token")
	}
	if err := checkStoredUserID(info.Subject, existing); err != nil {
		return nil, err
	}

	return &entity.AuthAttributes{
		Provider:       entity.ProviderGoogle,
		ProviderUserID: info.Subject,
		Credential:     claim.Credential,
	}, nil
}

// googleCause はユーザーに表示しても安全な短い失敗理由を返します。
func googleCause(err error) string {
	switch {
	case errors.Is(err, google.ErrClientIDMissing):
		return "provider not configured"
	case errors.Is(err, google.ErrAudienceMismatch):
		return "token was issued for another client"
	case errors.Is(err, google.ErrTokenRejected):
		return "token rejected by provider"
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return "verification timed out"
	default:
		return "verification request failed"
	}
}
