package adapters

import (
	"context"
	"log/slog"
	"net/url"
	"strings"

	"whoami_backend/internal/feature/auth/domain/entity"
	"whoami_backend/internal/feature/auth/usecase"
)

// Paths on the frontend that consume confirmation and password reset tokens.
const (
	confirmationPath  = "/confirm"
	passwordResetPath = "/reset-password"
	emailChangePath   = "/users/confirm-new-email"
)

// logLinkSender はメール配信の代わりに確認リンクを構造化ログへ出力するLinkSender実装です。
// リンクにはトークンが含まれるため、Debugレベルでのみ出力します。
type logLinkSender struct {
	logger  *slog.Logger
	baseURL string
}

var _ usecase.LinkSender = (*logLinkSender)(nil)

// NewLogLinkSender はリンクの生成元となるフロントエンドのURLを受け取ります。
// loggerがnilの場合はslog.Default()を使用します。
func NewLogLinkSender(logger *slog.Logger, frontendURL string) *logLinkSender {
	if logger == nil {
		logger = slog.Default()
	}
	return &logLinkSender{logger: logger, baseURL: strings.TrimRight(frontendURL, "/")}
}

// SendConfirmation はアカウント確認リンクを出力します。
func (s *logLinkSender) SendConfirmation(ctx context.Context, u *entity.User, token string) error {
	s.send(ctx, "confirmation link issued", u, s.link(confirmationPath, token))
	return nil
}

// SendPasswordReset はパスワード再設定リンクを出力します。
func (s *logLinkSender) SendPasswordReset(ctx context.Context, u *entity.User, token string) error {
	s.send(ctx, "password reset link issued", u, s.link(passwordResetPath, token))
	return nil
}

// SendEmailChange は新しいメールアドレスの確認リンクを出力します。
func (s *logLinkSender) SendEmailChange(ctx context.Context, u *entity.User, newEmail, token string) error {
	link := s.link(emailChangePath, token) + "&" + url.Values{"new_email": {newEmail}}.Encode()
	s.send(ctx, "email change link issued", u, link)
	return nil
}

func (s *logLinkSender) send(ctx context.Context, msg string, u *entity.User, link string) {
	s.logger.InfoContext(ctx, msg, "user_id", u.ID.String())
	s.logger.DebugContext(ctx, msg, "user_id", u.ID.String(), "email", u.Email, "link", link)
}

func (s *logLinkSender) link(path, token string) string {
	return s.baseURL + path + "?" + url.Values{"token": {token}}.Encode()
}
