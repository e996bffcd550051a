package oauth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"whoami_backend/internal/feature/auth/domain"
	"whoami_backend/internal/feature/auth/domain/entity"
	"whoami_backend/internal/feature/auth/usecase"
	"whoami_backend/internal/platform/externalapi/google"
)

// newGoogleValidator はtokeninfoエンドポイントを模したサーバーに接続するGoogleValidatorを返します。
func newGoogleValidator(t *testing.T, status int, body string) *GoogleValidator {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	client := google.NewTokenInfoClient(google.Config{ClientID: "client-id", TokenInfoURL: server.URL}, server.Client())
	return NewGoogleValidator(client)
}

const googleOK = `{"sub": "g-1", "email": "user@example.com", "aud": "client-id"}`

func googleClaim(id, email string) usecase.ThirdPartyClaim {
	return usecase.ThirdPartyClaim{Provider: entity.ProviderGoogle, ProviderUserID: id, Email: email, Credential: "id-token"}
}

func TestGoogleValidator_Validate(t *testing.T) {
	t.Parallel()

	t.Run("matching claim", func(t *testing.T) {
		t.Parallel()

		v := newGoogleValidator(t, http.StatusOK, googleOK)
		attrs, err := v.Validate(context.Background(), googleClaim("g-1", "user@example.com"), nil)

		require.NoError(t, err)
		assert.Equal(t, &entity.AuthAttributes{Provider: entity.ProviderGoogle, ProviderUserID: "g-1", Credential: "id-token"}, attrs)
	})

	tests := []struct {
		name       string
		status     int
		body       string
		claim      usecase.ThirdPartyClaim
		existing   *entity.AuthAttributes
		wantReason string
	}{
		{
			name:       "email mismatch",
			status:     http.StatusOK,
			body:       googleOK,
			claim:      googleClaim("g-1", "other@example.com"),
			wantReason: "The given email does not match the email of the access_token",
		},
		{
			name:       "subject mismatch",
			status:     http.StatusOK,
			body:       googleOK,
			claim:      googleClaim("g-2", "user@example.com"),
			wantReason: "The given user_id does not match the user_id of the access_token",
		},
		{
			name:       "stored id mismatch",
			status:     http.StatusOK,
			body:       googleOK,
			claim:      googleClaim("g-1", "user@example.com"),
			existing:   &entity.AuthAttributes{Provider: entity.ProviderGoogle, ProviderUserID: "g-0"},
			wantReason: "The given user_id does not match the stored user_id",
		},
		{
			name:       "token rejected",
			status:     http.StatusBadRequest,
			body:       `{"error_description": "Invalid Value"}`,
			claim:      googleClaim("g-1", "user@example.com"),
			wantReason: "Cannot verify the given access_token: token rejected by provider",
		},
		{
			name:       "wrong audience",
			status:     http.StatusOK,
			body:       `{"sub": "g-1", "email": "user@example.com", "aud": "another-app"}`,
			claim:      googleClaim("g-1", "user@example.com"),
			wantReason: "Cannot verify the given access_token: token was issued for another client",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			v := newGoogleValidator(t, tt.status, tt.body)
			_, err := v.Validate(context.Background(), tt.claim, tt.existing)

			assert.ErrorIs(t, err, domain.BadRequest(tt.wantReason))
		})
	}
}

func TestRegistry_Validate(t *testing.T) {
	t.Parallel()

	fb := NewFacebookValidator()
	r := NewRegistry(nil, fb)

	t.Run("dispatches to facebook", func(t *testing.T) {
		t.Parallel()

		attrs, err := r.Validate(context.Background(), usecase.ThirdPartyClaim{
			Provider: entity.ProviderFacebook, ProviderUserID: "10001", Credential: signedRequest(`{"user_id":"10001"}`),
		}, nil)

		require.NoError(t, err)
		assert.Equal(t, entity.ProviderFacebook, attrs.Provider)
	})

	t.Run("unconfigured provider", func(t *testing.T) {
		t.Parallel()

		_, err := r.Validate(context.Background(), googleClaim("g-1", "user@example.com"), nil)

		assert.Equal(t, domain.KindBadRequest, domain.KindOf(err))
	})

	t.Run("account linked to another provider", func(t *testing.T) {
		t.Parallel()

		existing := &entity.AuthAttributes{Provider: entity.ProviderGoogle, ProviderUserID: "g-1"}
		_, err := r.Validate(context.Background(), usecase.ThirdPartyClaim{
			Provider: entity.ProviderFacebook, ProviderUserID: "10001", Credential: signedRequest(`{"user_id":"10001"}`),
		}, existing)

		assert.ErrorIs(t, err, domain.BadRequest("User signed up with Google OAuth"))
	})
}
