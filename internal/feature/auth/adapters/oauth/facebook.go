package oauth

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"strings"

	"whoami_backend/internal/feature/auth/domain"
	"whoami_backend/internal/feature/auth/domain/entity"
	"whoami_backend/internal/feature/auth/usecase"
)

// FacebookValidator はFacebookのsigned_requestをローカルでデコードして検証します。
// ネットワーク呼び出しは行いません。
type FacebookValidator struct{}

// NewFacebookValidator はFacebookValidatorを生成します。
func NewFacebookValidator() *FacebookValidator {
	return &FacebookValidator{}
}

type signedRequestPayload struct {
	UserID json.RawMessage `json:"user_id"`
}

// Validate はsigned_requestのペイロードからuser_idを取り出し、申告値および保存済みの値と比較します。
func (f *FacebookValidator) Validate(_ context.Context, claim usecase.ThirdPartyClaim, existing *entity.AuthAttributes) (*entity.AuthAttributes, error) {
	userID, err := decodeSignedRequest(claim.Credential)
	if err != nil {
		return nil, err
	}
	if userID != claim.ProviderUserID {
		return nil, domain.BadRequest("The given user_id does not match the user_id of the signed_request")
	}
	if err := checkStoredUserID(userID, existing); err != nil {
		return nil, err
	}

	return &entity.AuthAttributes{
		Provider:       entity.ProviderFacebook,
		ProviderUserID: userID,
		Credential:     claim.Credential,
	}, nil
}

// decodeSignedRequest は "<signature>.<base64url(JSON)>" 形式からuser_idを取り出します。
// 署名部分は使用しません。
func decodeSignedRequest(signedRequest string) (string, error) {
	parts := strings.Split(signedRequest, ".")
	if len(parts) != 2 {
		return "", domain.BadRequest("Cannot verify the given signed_request: malformed signed_request")
	}

	payload := parts[1]
	if rem := len(payload) % 4; rem != 0 {
		payload += strings.Repeat("=", 4-rem)
	}
	raw, err := base64.URLEncoding.DecodeString(payload)
	if err != nil {
		// 一部のクライアントは標準のbase64アルファベットで送ってくる
		if raw, err = base64.StdEncoding.DecodeString(payload); err != nil {
			return "", domain.BadRequest("Cannot verify the given signed_request: payload is not base64")
		}
	}

	var body signedRequestPayload
	if err := json.Unmarshal(raw, &body); err != nil {
		return "", domain.BadRequest("Cannot verify the given signed_request: payload is not JSON")
	}

	var userID string
	if err := json.Unmarshal(body.UserID, &userID); err != nil {
		// 数値で届くuser_idはそのまま文字列として扱う
		var n json.Number
		if err := json.Unmarshal(body.UserID, &n); err != nil {
			return "", domain.BadRequest("Cannot verify the given signed_request: user_id is missing")
		}
		userID = n.String()
	}
	if userID == "" {
		return "", domain.BadRequest("Cannot verify the given signed_request: user_id is missing")
	}
	return userID, nil
}
