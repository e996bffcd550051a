// Package http builds outbound HTTP clients for calls to third-party APIs.
package http

import (
	"net"
	"net/http"
	"time"
)

// Transport limits shared by every outbound client.
const (
	dialTimeout           = 5 * time.Second
	keepAlive             = 30 * time.Second
	tlsHandshakeTimeout   = 5 * time.Second
	idleConnTimeout       = 90 * time.Second
	maxIdleConns          = 100
	maxIdleConnsPerHost   = 10
	defaultRequestTimeout = 10 * time.Second
)

// NewHTTPClient は外部API呼び出し用のHTTPクライアントを作成します。
// timeoutはリクエスト全体（接続からボディ読み取りまで）の上限で、0以下の場合は10秒を使います。
// http.DefaultClientにはタイムアウトがないため、外部呼び出しには常にこのクライアントを使用すること。
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	t := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   dialTimeout,
			KeepAlive: keepAlive,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          maxIdleConns,
		MaxIdleConnsPerHost:   maxIdleConnsPerHost,
		IdleConnTimeout:       idleConnTimeout,
		TLSHandshakeTimeout:   tlsHandshakeTimeout,
		ResponseHeaderTimeout: timeout,
	}
	return &http.Client{Timeout: timeout, Transport: t}
}
