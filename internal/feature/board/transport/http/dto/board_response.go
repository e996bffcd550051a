// Package dto はboardフィーチャーのHTTPトランスポート層のデータ転送オブジェクトを定義します。
package dto

// BoardRes is the body returned when the board is visible to the caller.
type BoardRes struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Public   bool   `json:"public"`
}
