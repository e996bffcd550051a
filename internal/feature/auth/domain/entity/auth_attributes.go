package entity

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Provider identifies a third-party identity provider.
type Provider string

const (
	ProviderGoogle   Provider = "google"
	ProviderFacebook Provider = "facebook"
)

// ParseProvider converts a client-supplied auth_service value into a Provider.
func ParseProvider(s string) (Provider, error) {
	switch p := Provider(strings.ToLower(strings.TrimSpace(s))); p {
	case ProviderGoogle, ProviderFacebook:
		return p, nil
	default:
		return "", fmt.Errorf("unsupported auth service: %q", s)
	}
}

// DisplayName returns the provider name as shown to end users ("Google").
func (p Provider) DisplayName() string {
	if p == "" {
		return ""
	}
	return strings.ToUpper(string(p[:1])) + string(p[1:])
}

// credentialKey is the JSON key under which the raw provider credential is stored.
func (p Provider) credentialKey() string {
	if p == ProviderFacebook {
		return "signed_request"
	}
	return "access_token"
}

// AuthAttributes is a snapshot of the last verified third-party credential.
type AuthAttributes struct {
	Provider       Provider
	ProviderUserID string
	// Credential is the raw access token (Google) or signed request (Facebook).
	Credential string
}

// MarshalJSON stores the attributes as
// {"user_id": ..., "access_token"|"signed_request": ..., "auth_service": ...}.
func (a AuthAttributes) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]string{
		"user_id":                  a.ProviderUserID,
		a.Provider.credentialKey(): a.Credential,
		"auth_service":             string(a.Provider),
	})
}

// UnmarshalJSON reads the persisted shape written by MarshalJSON.
func (a *AuthAttributes) UnmarshalJSON(b []byte) error {
	var raw map[string]string
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("decode auth attributes: %w", err)
	}
	provider, err := ParseProvider(raw["auth_service"])
	if err != nil {
		return err
	}
	a.Provider = provider
	a.ProviderUserID = raw["user_id"]
	a.Credential = raw[provider.credentialKey()]
	return nil
}
