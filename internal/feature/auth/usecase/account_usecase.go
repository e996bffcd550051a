package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"whoami_backend/internal/feature/auth/domain"
	"whoami_backend/internal/feature/auth/domain/entity"
	"whoami_backend/internal/platform/password"
)

// ConfirmUser はメールアドレスの確認を完了し、確認したメールアドレスを返します。
func (u *authUsecase) ConfirmUser(ctx context.Context, user *entity.User) (string, error) {
	if user.Confirmed {
		return "", domain.BadRequest("User is already confirmed")
	}
	if err := u.users.Confirm(ctx, user.ID); err != nil {
		return "", fmt.Errorf("failed to confirm user: %w", err)
	}
	user.Confirmed = true
	return user.Email, nil
}

// ResendConfirmation は未確認ユーザーに確認用トークンを再発行して送信します。
func (u *authUsecase) ResendConfirmation(ctx context.Context, user *entity.User) error {
	if user.Confirmed {
		return domain.BadRequest(fmt.Sprintf("The target user (%s) is already confirmed", user.Email))
	}
	token, err := u.tokens.Issue(user.ID.String(), u.ttls.Confirmation)
	if err != nil {
		return fmt.Errorf("failed to issue token: %w", err)
	}
	if u.links == nil {
		return nil
	}
	if err := u.links.SendConfirmation(ctx, user, token); err != nil {
		return fmt.Errorf("failed to send confirmation link: %w", err)
	}
	return nil
}

// RequestPasswordReset はパスワードリセット用トークンを発行して送信します。
// ユーザーの存在有無を漏らさないため、存在しないメールアドレスでもnilを返します。
func (u *authUsecase) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := u.users.FindByEmail(ctx, normalizeEmail(email), false)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			slog.Info("password reset requested for unknown email")
			return nil
		}
		return fmt.Errorf("failed to find user: %w", err)
	}
	if user.AuthAttributes != nil {
		slog.Info("password reset requested for third-party account", "user_id", user.ID)
		return nil
	}

	token, err := u.tokens.Issue(user.ID.String(), u.ttls.PasswordReset)
	if err != nil {
		return fmt.Errorf("failed to issue token: %w", err)
	}
	if u.links == nil {
		return nil
	}
	return u.links.SendPasswordReset(ctx, user, token)
}

// UpdatePassword は現在のパスワードを確認した上で新しいパスワードに変更します。
// userはパスワードハッシュ付きで読み込まれている必要があります。
func (u *authUsecase) UpdatePassword(ctx context.Context, user *entity.User, current, next string) error {
	if err := u.ConfirmPassword(ctx, user, current); err != nil {
		return err
	}
	return u.setPassword(ctx, user, next)
}

// ResetPassword はリセット用トークンで認証されたユーザーのパスワードを設定します。
func (u *authUsecase) ResetPassword(ctx context.Context, user *entity.User, next string) error {
	if user.AuthAttributes != nil {
		return domain.BadRequest("User signed up with " + user.AuthAttributes.Provider.DisplayName() + " OAuth")
	}
	return u.setPassword(ctx, user, next)
}

func (u *authUsecase) setPassword(ctx context.Context, user *entity.User, next string) error {
	if err := password.Validate(next); err != nil {
		return domain.BadRequest(err.Error())
	}
	hashed, err := u.hasher.Hash(next)
	if err != nil {
		return err
	}
	if err := u.users.UpdatePasswordHash(ctx, user.ID, hashed); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	user.PasswordHash = hashed
	user.FailedLoginAttemptCount = 0
	return nil
}

// ConfirmPassword はパスワードが一致するかを確認します。不一致の場合はBadRequestを返します。
func (u *authUsecase) ConfirmPassword(_ context.Context, user *entity.User, plaintext string) error {
	if !user.HasPassword() {
		if user.AuthAttributes != nil {
			return domain.BadRequest("User signed up with " + user.AuthAttributes.Provider.DisplayName() + " OAuth")
		}
		return domain.BadRequest("User has no password set")
	}
	if !u.hasher.Verify(plaintext, user.PasswordHash) {
		return domain.BadRequest("Wrong password")
	}
	return nil
}

// Deactivate はアカウントを無効化します。パスワードで登録したユーザーはパスワードの確認が必要です。
func (u *authUsecase) Deactivate(ctx context.Context, user *entity.User, plaintext string) error {
	if user.AuthAttributes == nil {
		if err := u.ConfirmPassword(ctx, user, plaintext); err != nil {
			return err
		}
	}
	if err := u.users.SetActive(ctx, user.ID, false); err != nil {
		return fmt.Errorf("failed to deactivate user: %w", err)
	}
	user.Active = false
	return nil
}

// UpdatePrivacy はボードの公開設定を変更します。
func (u *authUsecase) UpdatePrivacy(ctx context.Context, user *entity.User, public bool) error {
	if err := u.users.UpdatePrivacy(ctx, user.ID, public); err != nil {
		return fmt.Errorf("failed to update privacy: %w", err)
	}
	user.Public = public
	return nil
}

// InitiateEmailUpdate は新しいメールアドレスを確認待ちとして保存し、そのアドレス宛てに確認リンクを送信します。
// 現在のアドレスや使用済みのアドレスは指定できません。
func (u *authUsecase) InitiateEmailUpdate(ctx context.Context, user *entity.User, newEmail string) error {
	newEmail = normalizeEmail(newEmail)
	if newEmail == "" {
		return domain.BadRequest("No email provided")
	}
	if newEmail == user.Email {
		return domain.BadRequest("The given email is the target user's email")
	}
	if _, err := u.users.FindByEmail(ctx, newEmail, false); err == nil {
		return domain.BadRequest("The given email is already taken")
	} else if !errors.Is(err, ErrUserNotFound) {
		return fmt.Errorf("failed to check email: %w", err)
	}

	if err := u.users.SetUnconfirmedNewEmail(ctx, user.ID, newEmail); err != nil {
		return fmt.Errorf("failed to store new email: %w", err)
	}
	user.UnconfirmedNewEmail = newEmail

	token, err := u.tokens.Issue(user.ID.String(), u.ttls.Confirmation)
	if err != nil {
		return fmt.Errorf("failed to issue token: %w", err)
	}
	if u.links == nil {
		return nil
	}
	if err := u.links.SendEmailChange(ctx, user, newEmail, token); err != nil {
		return fmt.Errorf("failed to send email change link: %w", err)
	}
	return nil
}

// ConfirmNewEmail は確認待ちのアドレスがconfirmedと一致する場合にメールアドレスを置き換え、新しいアドレスを返します。
func (u *authUsecase) ConfirmNewEmail(ctx context.Context, user *entity.User, confirmed string) (string, error) {
	confirmed = normalizeEmail(confirmed)
	if user.UnconfirmedNewEmail == "" || user.UnconfirmedNewEmail != confirmed {
		return "", domain.BadRequest(fmt.Sprintf(
			"Unconfirmed new email address (%s) does not match with the given confirmed new email address (%s)",
			user.UnconfirmedNewEmail, confirmed))
	}

	if err := u.users.ConfirmNewEmail(ctx, user.ID, confirmed); err != nil {
		switch {
		case errors.Is(err, ErrEmailAlreadyExists):
			return "", domain.Forbidden("The given email is already taken")
		case errors.Is(err, ErrNoPendingEmailChange):
			return "", domain.BadRequest("No pending email change")
		}
		return "", fmt.Errorf("failed to confirm new email: %w", err)
	}
	user.Email = confirmed
	user.UnconfirmedNewEmail = ""
	return confirmed, nil
}

// CancelEmailUpdate は確認待ちのメールアドレス変更を取り消します。
func (u *authUsecase) CancelEmailUpdate(ctx context.Context, user *entity.User) error {
	if err := u.users.SetUnconfirmedNewEmail(ctx, user.ID, ""); err != nil {
		return fmt.Errorf("failed to cancel email update: %w", err)
	}
	user.UnconfirmedNewEmail = ""
	return nil
}
