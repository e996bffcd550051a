// Package ratelimiter はクライアントIPごとのリクエスト制限を提供します。
package ratelimiter

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/didip/tollbooth/v6"
	"github.com/didip/tollbooth/v6/limiter"
	"github.com/gin-gonic/gin"
)

// bucketTTL は使われなくなったクライアントのバケットを破棄するまでの時間です。
const bucketTTL = time.Hour

// NewLimiter はクライアントIPごとに毎秒perSecond回までを許可するトークンバケットを生成します。
// perSecondが0以下の場合は1として扱います。
func NewLimiter(perSecond float64) *limiter.Limiter {
	if perSecond <= 0 {
		perSecond = 1
	}
	lmt := tollbooth.NewLimiter(perSecond, &limiter.ExpirableOptions{DefaultExpirationTTL: bucketTTL})
	lmt.SetIPLookups([]string{"RemoteAddr", "X-Forwarded-For", "X-Real-IP"})
	return lmt
}

// Middleware は上限を超えたリクエストを429で中断するginミドルウェアを返します。
// 待機や再試行は行いません。
func Middleware(lmt *limiter.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if httpErr := tollbooth.LimitByRequest(lmt, c.Writer, c.Request); httpErr != nil {
			slog.Warn("rate limit exceeded", "path", c.FullPath(), "remote_addr", c.ClientIP())
			status := httpErr.StatusCode
			if status == 0 {
				status = http.StatusTooManyRequests
			}
			c.AbortWithStatusJSON(status, gin.H{"error": "too many requests"})
			return
		}
		c.Next()
	}
}
