package entity

// IdentifierKind selects which field a login attempt identifies the user by.
type IdentifierKind int

const (
	IdentifierEmail IdentifierKind = iota
	IdentifierUsername
)

// Credential is a login attempt. Exactly one of Password or the third-party
// fields (AccessToken, AuthService, ServiceUserID) is expected, and exactly one
// of Email or Username.
type Credential struct {
	Email    string `validate:"required_without=Username,excluded_with=Username,omitempty,email"`
	Username string `validate:"required_without=Email,omitempty,max=20"`
	Password string `validate:"required_without=AccessToken,excluded_with=AccessToken"`

	AccessToken   string `validate:"required_without=Password"`
	AuthService   string `validate:"required_with=AccessToken,omitempty,oneof=google facebook"`
	ServiceUserID string `validate:"required_with=AccessToken"`
}

// IdentifierKind reports whether the credential identifies the user by email or username.
func (c Credential) IdentifierKind() IdentifierKind {
	if c.Email == "" && c.Username != "" {
		return IdentifierUsername
	}
	return IdentifierEmail
}

// IsThirdParty reports whether the credential carries a provider token instead of a password.
func (c Credential) IsThirdParty() bool {
	return c.AccessToken != ""
}
