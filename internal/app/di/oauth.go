// Package di provides dependency injection factories for creating application components.
package di

import (
	"log/slog"

	"whoami_backend/internal/feature/auth/adapters/oauth"
	"whoami_backend/internal/platform/config"
	"whoami_backend/internal/platform/externalapi/google"
	infrahttp "whoami_backend/internal/platform/http"
)

// NewThirdPartyValidator creates the provider registry used for third-party
// signup and login. Google calls go through a dedicated HTTP client bounded by OAUTH_TIMEOUT.
// Without GOOGLE_CLIENT_ID, Google is left out of the registry and answers as an unsupported service.
func NewThirdPartyValidator(cfg config.GoogleConfig) *oauth.Registry {
	var googleValidator oauth.Validator
	if cfg.ClientID != "" {
		httpClient := infrahttp.NewHTTPClient(cfg.Timeout)
		tokenInfo := google.NewTokenInfoClient(google.Config{
			ClientID:     cfg.ClientID,
			TokenInfoURL: cfg.TokenInfoURL,
			Timeout:      cfg.Timeout,
		}, httpClient)
		googleValidator = oauth.NewGoogleValidator(tokenInfo)
	} else {
		slog.Warn("GOOGLE_CLIENT_ID is not set, Google sign-in disabled")
	}
	return oauth.NewRegistry(googleValidator, oauth.NewFacebookValidator())
}
