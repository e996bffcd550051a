package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"whoami_backend/internal/feature/auth/domain"
)

func TestRespondError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
	}{
		{"unauthorized", domain.Unauthorized("Not authenticated"), http.StatusUnauthorized, "Not authenticated"},
		{"locked", domain.Locked(), http.StatusLocked, domain.ReasonLocked},
		{"forbidden", domain.Forbidden("nope"), http.StatusForbidden, "nope"},
		{"bad request", domain.BadRequest("bad"), http.StatusBadRequest, "bad"},
		{"not found", domain.NotFound("missing"), http.StatusNotFound, "missing"},
		{"wrapped auth error", fmt.Errorf("login: %w", domain.Forbidden("wrapped")), http.StatusForbidden, "wrapped"},
		{"infrastructure error", errors.New("dial tcp: connection refused"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			RespondError(c, tt.err)

			if w.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
			var body map[string]string
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("failed to unmarshal response: %v", err)
			}
			if body["error"] != tt.wantError {
				t.Errorf("expected error %q, got %q", tt.wantError, body["error"])
			}
			if !c.IsAborted() {
				t.Error("expected context to be aborted")
			}
		})
	}
}
