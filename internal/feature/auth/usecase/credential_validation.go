package usecase

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"whoami_backend/internal/feature/auth/domain"
	"whoami_backend/internal/feature/auth/domain/entity"
)

var credentialValidator = validator.New(validator.WithRequiredStructEnabled())

var credentialFieldNames = map[string]string{
	"Email":         "email",
	"Username":      "username",
	"Password":      "password",
	"AccessToken":   "access_token",
	"AuthService":   "auth_service",
	"ServiceUserID": "service_user_id",
}

// validateCredential はログイン資格情報の組み合わせを検証します。
// 受け付けるのは {email, password}、{email, access_token, auth_service, service_user_id}、
// allowUsernameがtrueの場合はさらに {username, password} です。
func validateCredential(cred entity.Credential, allowUsername bool) error {
	if !allowUsername && cred.Username != "" {
		return domain.BadRequest("Login with username is not supported; use email")
	}
	if allowUsername && cred.Username != "" && cred.IsThirdParty() {
		return domain.BadRequest("Third-party login requires email")
	}

	if err := credentialValidator.Struct(cred); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return domain.BadRequest(fmt.Sprintf("Invalid login credentials: %s (%s)", credentialFieldNames[fe.Field()], fe.Tag()))
		}
		return domain.BadRequest("Invalid login credentials")
	}
	return nil
}
