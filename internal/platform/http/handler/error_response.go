package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"whoami_backend/internal/feature/auth/domain"
)

// StatusForKind maps an AuthError kind to its HTTP status.
func StatusForKind(k domain.Kind) int {
	switch k {
	case domain.KindUnauthorized:
		return http.StatusUnauthorized
	case domain.KindLocked:
		return http.StatusLocked
	case domain.KindForbidden:
		return http.StatusForbidden
	case domain.KindBadRequest:
		return http.StatusBadRequest
	case domain.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// RespondError writes {"error": reason} for an *domain.AuthError and a
// generic 500 for anything else, so infrastructure details never leak.
func RespondError(c *gin.Context, err error) {
	var authErr *domain.AuthError
	if !errors.As(err, &authErr) {
		slog.Error("request failed", "error", err, "path", c.FullPath())
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	status := StatusForKind(authErr.Kind)
	if status == http.StatusUnauthorized {
		c.Header("WWW-Authenticate", "Bearer")
	}
	c.AbortWithStatusJSON(status, gin.H{"error": authErr.Reason})
}
