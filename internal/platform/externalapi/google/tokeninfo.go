package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
)

var (
	// ErrTokenRejected is returned when Google refuses the token (expired, revoked, malformed).
	ErrTokenRejected = errors.New("google: token rejected")
	// ErrAudienceMismatch is returned when the token was issued for another client.
	ErrAudienceMismatch = errors.New("google: wrong audience")
	// ErrClientIDMissing is returned when no client id is configured to check the audience against.
	ErrClientIDMissing = errors.New("google: client id not configured")
)

// TokenInfo is the subset of the tokeninfo response the service relies on.
type TokenInfo struct {
	Subject       string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified string `json:"email_verified"`
	Audience      string `json:"aud"`
	Expiry        string `json:"exp"`
	ErrorDesc     string `json:"error_description"`
}

// TokenInfoClient verifies Google ID tokens against the tokeninfo endpoint.
type TokenInfoClient struct {
	cfg    Config
	client *http.Client
}

// NewTokenInfoClient creates a client. The http.Client should carry a timeout.
func NewTokenInfoClient(cfg Config, client *http.Client) *TokenInfoClient {
	if cfg.TokenInfoURL == "" {
		cfg.TokenInfoURL = DefaultTokenInfoURL
	}
	return &TokenInfoClient{cfg: cfg, client: client}
}

// Verify asks Google to validate token and checks that it was issued for the configured client id.
// Without a client id every token is refused before Google is called.
func (c *TokenInfoClient) Verify(ctx context.Context, token string) (*TokenInfo, error) {
	if c.cfg.ClientID == "" {
		return nil, ErrClientIDMissing
	}

	q := url.Values{}
	q.Set("id_token", token)
	u := fmt.Sprintf("%s?%s", c.cfg.TokenInfoURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	res, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	var body TokenInfo
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		if res.StatusCode >= 400 {
			return nil, fmt.Errorf("%w: http %d", ErrTokenRejected, res.StatusCode)
		}
		return nil, fmt.Errorf("google: decode tokeninfo: %w", err)
	}
	if res.StatusCode >= 400 {
		if body.ErrorDesc != "" {
			return nil, fmt.Errorf("%w: %s", ErrTokenRejected, body.ErrorDesc)
		}
		return nil, fmt.Errorf("%w: http %d", ErrTokenRejected, res.StatusCode)
	}

	if body.Audience != c.cfg.ClientID {
		return nil, ErrAudienceMismatch
	}
	return &body, nil
}
