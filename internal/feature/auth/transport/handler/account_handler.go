package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"whoami_backend/internal/feature/auth/domain/entity"
	"whoami_backend/internal/feature/auth/transport/http/dto"
	httphandler "whoami_backend/internal/platform/http/handler"
	jwtmw "whoami_backend/internal/platform/jwt"
)

// AccountUsecase はログイン中ユーザーのアカウント操作を定義します。
type AccountUsecase interface {
	ConfirmUser(ctx context.Context, user *entity.User) (string, error)
	RequestPasswordReset(ctx context.Context, email string) error
	UpdatePassword(ctx context.Context, user *entity.User, current, next string) error
	ResetPassword(ctx context.Context, user *entity.User, next string) error
	ConfirmPassword(ctx context.Context, user *entity.User, plaintext string) error
	Deactivate(ctx context.Context, user *entity.User, plaintext string) error
	UpdatePrivacy(ctx context.Context, user *entity.User, public bool) error
	ResendConfirmation(ctx context.Context, user *entity.User) error
	InitiateEmailUpdate(ctx context.Context, user *entity.User, newEmail string) error
	ConfirmNewEmail(ctx context.Context, user *entity.User, confirmed string) (string, error)
	CancelEmailUpdate(ctx context.Context, user *entity.User) error
}

// AccountHandler はアカウント操作のHTTPリクエストを処理します。
// パスワード再設定の依頼以外はゲートミドルウェアの後に登録します。
type AccountHandler struct {
	accounts AccountUsecase
}

// NewAccountHandler はAccountHandlerの新しいインスタンスを生成します。
func NewAccountHandler(accounts AccountUsecase) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

// currentUser はゲートが設定したユーザーを返します。未設定の場合は401で中断します。
func currentUser(c *gin.Context) (*entity.User, bool) {
	user, ok := jwtmw.CurrentUser(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorRes{Error: "Not authenticated"})
	}
	return user, ok
}

// bind はリクエストボディをreqにバインドします。失敗した場合は400で中断します。
func bind(c *gin.Context, req any, op string) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		slog.Warn(op+" validation failed", "error", err, "remote_addr", c.ClientIP())
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.ErrorRes{Error: err.Error()})
		return false
	}
	return true
}

// Me はログイン中ユーザーのプロフィールを返します。
func (h *AccountHandler) Me(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, dto.UserRes{
		UserID:    user.ID.String(),
		Email:     user.Email,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Bio:       user.Bio,
		Confirmed: user.Confirmed,
		Active:    user.Active,
		Public:    user.Public,
	})
}

// Confirm は確認用トークンで認証されたユーザーのメールアドレスを確認済みにします。
func (h *AccountHandler) Confirm(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	email, err := h.accounts.ConfirmUser(c.Request.Context(), user)
	if err != nil {
		slog.Warn("confirmation failed", "error", err, "user_id", user.ID.String(), "remote_addr", c.ClientIP())
		httphandler.RespondError(c, err)
		return
	}
	slog.Info("user confirmed", "user_id", user.ID.String())
	c.JSON(http.StatusOK, dto.ConfirmRes{ConfirmedUserEmail: email})
}

// ResendConfirmation は未確認ユーザーに確認リンクを再送します。
// ログイン時の403で返したトークンで呼び出せるよう、ActiveRequiredミドルウェアの後に登録します。
func (h *AccountHandler) ResendConfirmation(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	if err := h.accounts.ResendConfirmation(c.Request.Context(), user); err != nil {
		slog.Warn("resend confirmation failed", "error", err, "user_id", user.ID.String(), "remote_addr", c.ClientIP())
		httphandler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, dto.MessageRes{Message: "Confirmation link sent"})
}

// SendPasswordReset はパスワード再設定リンクを送信します。
// 登録有無を推測されないよう、入力が正しければ常に202を返します。
func (h *AccountHandler) SendPasswordReset(c *gin.Context) {
	var req dto.PasswordResetReq
	if !bind(c, &req, "password reset request") {
		return
	}
	if err := h.accounts.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		slog.Error("password reset request failed", "error", err, "remote_addr", c.ClientIP())
	}
	c.JSON(http.StatusAccepted, dto.MessageRes{Message: "If the email is registered, a reset link has been sent"})
}

// UpdatePassword は現在のパスワードを確認した上でパスワードを変更します。
// PasswordRequiredミドルウェアの後に登録します。
func (h *AccountHandler) UpdatePassword(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req dto.UpdatePasswordReq
	if !bind(c, &req, "update password") {
		return
	}
	if err := h.accounts.UpdatePassword(c.Request.Context(), user, req.CurrentPassword, req.NewPassword); err != nil {
		slog.Warn("update password failed", "error", err, "user_id", user.ID.String(), "remote_addr", c.ClientIP())
		httphandler.RespondError(c, err)
		return
	}
	slog.Info("password updated", "user_id", user.ID.String())
	c.JSON(http.StatusOK, dto.MessageRes{Message: "Password updated"})
}

// ResetPassword はリセット用トークンで認証されたユーザーのパスワードを設定します。
func (h *AccountHandler) ResetPassword(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req dto.ResetPasswordReq
	if !bind(c, &req, "reset password") {
		return
	}
	if err := h.accounts.ResetPassword(c.Request.Context(), user, req.NewPassword); err != nil {
		slog.Warn("reset password failed", "error", err, "user_id", user.ID.String(), "remote_addr", c.ClientIP())
		httphandler.RespondError(c, err)
		return
	}
	slog.Info("password reset", "user_id", user.ID.String())
	c.JSON(http.StatusOK, dto.MessageRes{Message: "Password updated"})
}

// ConfirmPassword はパスワードが正しいかを確認します。
func (h *AccountHandler) ConfirmPassword(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req dto.ConfirmPasswordReq
	if !bind(c, &req, "confirm password") {
		return
	}
	if err := h.accounts.ConfirmPassword(c.Request.Context(), user, req.Password); err != nil {
		slog.Warn("confirm password failed", "error", err, "user_id", user.ID.String(), "remote_addr", c.ClientIP())
		httphandler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageRes{Message: "Password confirmed"})
}

// UpdatePrivacy はボードの公開設定を変更します。
func (h *AccountHandler) UpdatePrivacy(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req dto.PrivacyReq
	if !bind(c, &req, "update privacy") {
		return
	}
	if err := h.accounts.UpdatePrivacy(c.Request.Context(), user, *req.Public); err != nil {
		httphandler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"public": *req.Public})
}

// Deactivate はアカウントを無効化します。
func (h *AccountHandler) Deactivate(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req dto.DeactivateReq
	if !bind(c, &req, "deactivate") {
		return
	}
	if err := h.accounts.Deactivate(c.Request.Context(), user, req.Password); err != nil {
		slog.Warn("deactivate failed", "error", err, "user_id", user.ID.String(), "remote_addr", c.ClientIP())
		httphandler.RespondError(c, err)
		return
	}
	slog.Info("user deactivated", "user_id", user.ID.String())
	c.JSON(http.StatusOK, dto.MessageRes{Message: "Account deactivated"})
}

// InitiateEmailUpdate は新しいメールアドレス宛てに変更確認リンクを送信します。
func (h *AccountHandler) InitiateEmailUpdate(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req dto.EmailUpdateReq
	if !bind(c, &req, "email update") {
		return
	}
	if err := h.accounts.InitiateEmailUpdate(c.Request.Context(), user, req.NewEmail); err != nil {
		slog.Warn("email update failed", "error", err, "user_id", user.ID.String(), "remote_addr", c.ClientIP())
		httphandler.RespondError(c, err)
		return
	}
	slog.Info("email update initiated", "user_id", user.ID.String())
	c.JSON(http.StatusAccepted, dto.MessageRes{Message: "Confirmation link sent to the new email"})
}

// ConfirmNewEmail は確認待ちのメールアドレスを確定します。
func (h *AccountHandler) ConfirmNewEmail(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req dto.ConfirmNewEmailReq
	if !bind(c, &req, "confirm new email") {
		return
	}
	email, err := h.accounts.ConfirmNewEmail(c.Request.Context(), user, req.ConfirmedNewEmail)
	if err != nil {
		slog.Warn("confirm new email failed", "error", err, "user_id", user.ID.String(), "remote_addr", c.ClientIP())
		httphandler.RespondError(c, err)
		return
	}
	slog.Info("email updated", "user_id", user.ID.String())
	c.JSON(http.StatusOK, dto.EmailRes{Email: email})
}

// CancelEmailUpdate は確認待ちのメールアドレス変更を取り消します。
func (h *AccountHandler) CancelEmailUpdate(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	if err := h.accounts.CancelEmailUpdate(c.Request.Context(), user); err != nil {
		httphandler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageRes{Message: "Email update cancelled"})
}
