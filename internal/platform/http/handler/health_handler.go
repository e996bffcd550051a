// Package handler はプラットフォームレベルのエンドポイント用HTTPハンドラーを提供します。
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
)

// healthCheckTimeout bounds each dependency ping.
const healthCheckTimeout = 2 * time.Second

// Pinger は依存先（DB、Redisなど）の疎通確認を行います。
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingerFunc は関数をPingerとして扱うためのアダプターです。
type PingerFunc func(ctx context.Context) error

// Ping はf(ctx)を呼び出します。
func (f PingerFunc) Ping(ctx context.Context) error {
	return f(ctx)
}

// Health は /healthz エンドポイントのハンドラーを返します。
// GETでは登録された依存先をすべて確認し、1つでも失敗した場合は503を返します。
// HEADは本文なし、OPTIONSは204を返します。いずれもキャッシュを防止します。
func Health(checks map[string]Pinger) gin.HandlerFunc {
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store")

		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}

		status := http.StatusOK
		results := make(map[string]string, len(names))
		for _, name := range names {
			ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
			err := checks[name].Ping(ctx)
			cancel()
			if err != nil {
				slog.Warn("health check failed", "dependency", name, "error", err)
				results[name] = "unavailable"
				status = http.StatusServiceUnavailable
				continue
			}
			results[name] = "ok"
		}

		if c.Request.Method == http.MethodHead {
			c.Status(status)
			return
		}

		body := gin.H{"status": "ok"}
		if status != http.StatusOK {
			body["status"] = "degraded"
		}
		if len(results) > 0 {
			body["checks"] = results
		}
		c.JSON(status, body)
	}
}
