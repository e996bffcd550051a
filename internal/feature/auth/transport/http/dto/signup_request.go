// Package dto defines data transfer objects for the auth feature's HTTP transport layer.
package dto

// SignupReq represents the request body for the signup endpoints.
// Exactly one of Password or AccessToken must be set; the usecase enforces
// that rule and the password policy.
type SignupReq struct {
	Email         string `json:"email" binding:"required,email"`
	FirstName     string `json:"first_name" binding:"max=100"`
	LastName      string `json:"last_name" binding:"max=100"`
	Password      string `json:"password"`
	AccessToken   string `json:"access_token"`
	AuthService   string `json:"auth_service"`
	ServiceUserID string `json:"service_user_id"`
}

// TokenRes carries a login token.
type TokenRes struct {
	AccessToken string `json:"access_token"`
}
