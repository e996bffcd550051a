// Package router builds the gin engine and registers every route.
package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	authhandler "whoami_backend/internal/feature/auth/transport/handler"
	boardhandler "whoami_backend/internal/feature/board/transport/handler"
	jwtmw "whoami_backend/internal/platform/jwt"
	sentrymw "whoami_backend/internal/platform/sentry"
)

// Handlers groups everything NewRouter wires.
type Handlers struct {
	Auth    *authhandler.AuthHandler
	Account *authhandler.AccountHandler
	Board   *boardhandler.BoardHandler
	Health  gin.HandlerFunc
	// Gate resolves the current user for the auth middlewares.
	Gate jwtmw.Gate
	// Throttle limits login, signup and password reset requests. Nil disables it.
	Throttle gin.HandlerFunc
	// AllowedOrigins enables CORS for the given frontend hosts. Empty disables CORS.
	AllowedOrigins []string
}

func NewRouter(h Handlers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), sentrymw.Recovery())

	if len(h.AllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     h.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	throttle := h.Throttle
	if throttle == nil {
		throttle = func(c *gin.Context) { c.Next() }
	}

	// 導通確認用
	r.GET("/healthz", h.Health)
	r.HEAD("/healthz", h.Health)
	r.OPTIONS("/healthz", h.Health)

	v1 := r.Group("/v1")
	{
		// 認証不要
		v1.POST("/users/signup", throttle, h.Auth.Signup)
		v1.POST("/users/login", throttle, h.Auth.LoginV1)
		v1.POST("/users/send-password-reset", throttle, h.Account.SendPasswordReset)

		v1.GET("/users/me", jwtmw.ActiveRequired(h.Gate), h.Account.Me)
		v1.GET("/users/resend-confirmation", jwtmw.ActiveRequired(h.Gate), h.Account.ResendConfirmation)
		// 確認用・リセット用トークンは無効化されたユーザーにも発行されうるため、有効状態は問わない
		v1.PATCH("/users/confirm", jwtmw.AuthRequired(h.Gate), h.Account.Confirm)

		account := v1.Group("/account")
		account.PATCH("/update-password", jwtmw.PasswordRequired(h.Gate), h.Account.UpdatePassword)
		account.PATCH("/reset-password", jwtmw.AuthRequired(h.Gate), h.Account.ResetPassword)
		account.POST("/confirm-password", jwtmw.PasswordRequired(h.Gate), h.Account.ConfirmPassword)
		account.PATCH("/privacy", jwtmw.ActiveRequired(h.Gate), h.Account.UpdatePrivacy)
		account.PATCH("/deactivate", jwtmw.PasswordRequired(h.Gate), h.Account.Deactivate)
		account.PATCH("/email", jwtmw.ActiveRequired(h.Gate), h.Account.InitiateEmailUpdate)
		account.PATCH("/confirm-new-email", jwtmw.ActiveRequired(h.Gate), h.Account.ConfirmNewEmail)
		account.PATCH("/cancel-email-update", jwtmw.ActiveRequired(h.Gate), h.Account.CancelEmailUpdate)

		v1.GET("/board/:username", jwtmw.AuthOptional(h.Gate), h.Board.Show)
	}

	v2 := r.Group("/v2")
	{
		v2.POST("/users/signup", throttle, h.Auth.Signup)
		v2.POST("/users/login", throttle, h.Auth.LoginV2)
		v2.GET("/board/:username", jwtmw.AuthOptional(h.Gate), h.Board.Show)
	}

	return r
}
