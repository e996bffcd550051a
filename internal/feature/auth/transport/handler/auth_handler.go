// Package handler はauthフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"whoami_backend/internal/feature/auth/domain"
	"whoami_backend/internal/feature/auth/domain/entity"
	"whoami_backend/internal/feature/auth/transport/http/dto"
	"whoami_backend/internal/feature/auth/usecase"
	httphandler "whoami_backend/internal/platform/http/handler"
)

// AuthUsecase は認証操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type AuthUsecase interface {
	// Signup は新規ユーザーを登録し、ログイントークンを返します。
	Signup(ctx context.Context, in usecase.SignupInput) (string, error)
	// Login はユーザーを認証し、policyに従ってログイン結果を返します。
	Login(ctx context.Context, cred entity.Credential, policy usecase.LoginPolicy) (*usecase.LoginResult, error)
}

// AuthHandler は認証操作のHTTPリクエストを処理します。
// AuthUsecaseインターフェースに依存し、JSONリクエスト/レスポンスを処理します。
type AuthHandler struct {
	auth AuthUsecase
}

// NewAuthHandler はAuthHandlerの新しいインスタンスを生成します。
// 依存性注入用のコンストラクタで、外部からAuthUsecaseを注入します。
func NewAuthHandler(auth AuthUsecase) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Signup はユーザー登録APIエンドポイントを処理します。
// - リクエストJSONをSignupReqにバインド
// - バリデーションエラー・メール重複・パスワード形式不正時は400を返却
// - 成功時はログイントークン付きで201を返却
func (h *AuthHandler) Signup(c *gin.Context) {
	var req dto.SignupReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("signup validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, dto.ErrorRes{Error: err.Error()})
		return
	}

	token, err := h.auth.Signup(c.Request.Context(), usecase.SignupInput{
		Email:         req.Email,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Password:      req.Password,
		AccessToken:   req.AccessToken,
		AuthService:   req.AuthService,
		ServiceUserID: req.ServiceUserID,
	})
	if err != nil {
		slog.Warn("signup failed", "error", err, "email", req.Email, "remote_addr", c.ClientIP())
		httphandler.RespondError(c, err)
		return
	}
	slog.Info("user signup successful", "email", req.Email, "remote_addr", c.ClientIP())
	c.JSON(http.StatusCreated, dto.TokenRes{AccessToken: token})
}

// LoginV1 はメールアドレスによるログインを処理します。無効化されたアカウントは401を返します。
func (h *AuthHandler) LoginV1(c *gin.Context) {
	h.login(c, usecase.LoginPolicyV1)
}

// LoginV2 はメールアドレスまたはユーザー名によるログインを処理します。無効化されたアカウントは再有効化されます。
func (h *AuthHandler) LoginV2(c *gin.Context) {
	h.login(c, usecase.LoginPolicyV2)
}

// login はユーザーログインを処理します。
// - パスワード誤り: 401（失敗回数付き）
// - ロック中: 423
// - メール未確認: 403（トークン付き）
// - 無効化（v1）: 401（トークン付き）
// - 成功時はJWTトークン付きで200を返却
func (h *AuthHandler) login(c *gin.Context, policy usecase.LoginPolicy) {
	var req dto.LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("login validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, dto.ErrorRes{Error: "invalid request"})
		return
	}

	res, err := h.auth.Login(c.Request.Context(), entity.Credential{
		Email:         req.Email,
		Username:      req.Username,
		Password:      req.Password,
		AccessToken:   req.AccessToken,
		AuthService:   req.AuthService,
		ServiceUserID: req.ServiceUserID,
	}, policy)
	if err != nil {
		slog.Warn("login failed", "error", err, "email", req.Email, "username", req.Username, "remote_addr", c.ClientIP())
		var authErr *domain.AuthError
		if errors.As(err, &authErr) && authErr.FailedLoginAttemptCount > 0 {
			c.Header("WWW-Authenticate", "Bearer")
			c.JSON(http.StatusUnauthorized, dto.LoginFailedRes{
				Error:                   authErr.Reason,
				FailedLoginAttemptCount: authErr.FailedLoginAttemptCount,
			})
			return
		}
		httphandler.RespondError(c, err)
		return
	}

	switch res.Status {
	case usecase.LoginConfirmationRequired:
		c.JSON(http.StatusForbidden, dto.LoginStatusRes{Message: "User confirmation required", AccessToken: res.AccessToken})
	case usecase.LoginInactive:
		c.JSON(http.StatusUnauthorized, dto.LoginStatusRes{Message: "Inactive user", AccessToken: res.AccessToken})
	default:
		slog.Info("user login successful", "user_id", res.User.ID.String(), "remote_addr", c.ClientIP())
		c.JSON(http.StatusOK, dto.TokenRes{AccessToken: res.AccessToken})
	}
}
