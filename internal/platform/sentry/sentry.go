// Package sentrymw wires panic reporting to Sentry.
package sentrymw

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
)

// flushTimeout bounds how long shutdown waits for queued events.
const flushTimeout = 2 * time.Second

// Init configures the global Sentry client. An empty dsn leaves reporting
// disabled and returns a no-op flush.
func Init(dsn, environment string) (flush func(), err error) {
	if dsn == "" {
		return func() {}, nil
	}
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         dsn,
		Environment: environment,
	}); err != nil {
		return func() {}, fmt.Errorf("sentry init failed: %w", err)
	}
	slog.Info("sentry enabled", "environment", environment)
	return func() { sentry.Flush(flushTimeout) }, nil
}

// Recovery recovers panics in later handlers, reports them to Sentry when a
// client is configured, and responds 500.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			hub := sentry.CurrentHub().Clone()
			hub.Scope().SetRequest(c.Request)
			ctx := sentry.SetHubOnContext(context.Background(), hub)
			if id := hub.RecoverWithContext(ctx, rec); id != nil {
				slog.Error("panic recovered", "panic", rec, "path", c.FullPath(), "sentry_event_id", string(*id))
			} else {
				slog.Error("panic recovered", "panic", rec, "path", c.FullPath())
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}()
		c.Next()
	}
}
