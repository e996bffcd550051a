// Package google provides a client for Google's OAuth2 tokeninfo endpoint.
package google

import "time"

// DefaultTokenInfoURL is Google's public token verification endpoint.
const DefaultTokenInfoURL = "https://oauth2.googleapis.com/tokeninfo"

// Config holds configuration for the tokeninfo client.
type Config struct {
	ClientID     string        // OAuth client id the token must be issued for (aud)
	TokenInfoURL string        // Endpoint URL; DefaultTokenInfoURL when empty
	Timeout      time.Duration // HTTP request timeout
}
