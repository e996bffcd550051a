package dto

// PasswordResetReq requests a password reset link.
type PasswordResetReq struct {
	Email string `json:"email" binding:"required,email"`
}

// UpdatePasswordReq changes the password after re-checking the current one.
type UpdatePasswordReq struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
}

// ResetPasswordReq sets a new password with a reset token.
type ResetPasswordReq struct {
	NewPassword string `json:"new_password" binding:"required"`
}

// ConfirmPasswordReq re-checks the current password.
type ConfirmPasswordReq struct {
	Password string `json:"password" binding:"required"`
}

// DeactivateReq deactivates the account. Password is ignored for third-party accounts.
type DeactivateReq struct {
	Password string `json:"password"`
}

// PrivacyReq sets whether the board is public.
type PrivacyReq struct {
	Public *bool `json:"public" binding:"required"`
}

// EmailUpdateReq starts an email change.
type EmailUpdateReq struct {
	NewEmail string `json:"new_email" binding:"required,email"`
}

// ConfirmNewEmailReq completes an email change. The address must match the pending one.
type ConfirmNewEmailReq struct {
	ConfirmedNewEmail string `json:"confirmed_new_email" binding:"required,email"`
}

// EmailRes carries the caller's email after a change.
type EmailRes struct {
	Email string `json:"email"`
}

// ConfirmRes is returned after a successful email confirmation.
type ConfirmRes struct {
	ConfirmedUserEmail string `json:"confirmed_user_email"`
}

// UserRes is the caller's own profile.
type UserRes struct {
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Bio       string `json:"bio"`
	Confirmed bool   `json:"confirmed"`
	Active    bool   `json:"active"`
	Public    bool   `json:"public"`
}

// ErrorRes is the body of a failed request.
type ErrorRes struct {
	Error string `json:"error"`
}

// MessageRes is a plain acknowledgement.
type MessageRes struct {
	Message string `json:"message"`
}
