// Package dto はauthフィーチャーのHTTPトランスポート層のデータ転送オブジェクトを定義します。
package dto

// LoginReq はログインエンドポイントのリクエストボディを表します。
// 組み合わせの検証はユースケース側で行います（v1はメールアドレスのみ、v2はユーザー名も可）。
type LoginReq struct {
	Email         string `json:"email"`
	Username      string `json:"username"`
	Password      string `json:"password"`
	AccessToken   string `json:"access_token"`
	AuthService   string `json:"auth_service"`
	ServiceUserID string `json:"service_user_id"`
}

// LoginFailedRes はパスワード誤りの際に失敗回数を返します。
type LoginFailedRes struct {
	Error                   string `json:"error"`
	FailedLoginAttemptCount int    `json:"failed_login_attempt_count"`
}

// LoginStatusRes は認証には成功したが追加の対応が必要な場合のレスポンスです。
type LoginStatusRes struct {
	Message     string `json:"message"`
	AccessToken string `json:"access_token"`
}
