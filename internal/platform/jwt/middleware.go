package jwtmw

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"whoami_backend/internal/feature/auth/domain"
	"whoami_backend/internal/feature/auth/domain/entity"
)

const (
	// ContextUserID holds the authenticated user's id as a string.
	ContextUserID = "userID"
	// ContextUser holds the authenticated *entity.User.
	ContextUser = "currentUser"
)

// Gate resolves the current user from a bearer token.
// It is implemented by the auth usecase's Authorizer.
type Gate interface {
	Required(ctx context.Context, token string) (*entity.User, error)
	ActiveOnly(ctx context.Context, token string) (*entity.User, error)
	WithPassword(ctx context.Context, token string) (*entity.User, error)
	Optional(ctx context.Context, token string) *entity.User
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header.
// It returns "" when the header is missing or uses another scheme.
func BearerToken(c *gin.Context) string {
	auth := c.GetHeader("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
}

// AuthRequired rejects requests without a valid token for an existing user.
func AuthRequired(g Gate) gin.HandlerFunc {
	return gate(g.Required)
}

// ActiveRequired is AuthRequired that also rejects deactivated users.
func ActiveRequired(g Gate) gin.HandlerFunc {
	return gate(g.ActiveOnly)
}

// PasswordRequired is AuthRequired with the password hash loaded on the user,
// for handlers that re-check the current password.
func PasswordRequired(g Gate) gin.HandlerFunc {
	return gate(g.WithPassword)
}

// AuthOptional sets the current user when a valid token is presented and
// otherwise lets the request through anonymously.
func AuthOptional(g Gate) gin.HandlerFunc {
	return func(c *gin.Context) {
		if u := g.Optional(c.Request.Context(), BearerToken(c)); u != nil {
			setUser(c, u)
		}
		c.Next()
	}
}

// CurrentUser returns the user stored by one of the gate middlewares.
func CurrentUser(c *gin.Context) (*entity.User, bool) {
	v, ok := c.Get(ContextUser)
	if !ok {
		return nil, false
	}
	u, ok := v.(*entity.User)
	return u, ok && u != nil
}

func gate(resolve func(ctx context.Context, token string) (*entity.User, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, err := resolve(c.Request.Context(), BearerToken(c))
		if err != nil {
			var ae *domain.AuthError
			if errors.As(err, &ae) && ae.Kind == domain.KindUnauthorized {
				c.Header("WWW-Authenticate", "Bearer")
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": ae.Reason})
				return
			}
			slog.Error("failed to resolve current user", "error", err, "path", c.FullPath())
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}
		setUser(c, u)
		c.Next()
	}
}

func setUser(c *gin.Context, u *entity.User) {
	c.Set(ContextUser, u)
	c.Set(ContextUserID, u.ID.String())
}
