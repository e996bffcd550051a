// Package usecase はauthフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"whoami_backend/internal/feature/auth/domain"
	"whoami_backend/internal/feature/auth/domain/entity"
	"whoami_backend/internal/platform/password"
)

const (
	// MaxFailedLoginAttempts はアカウントがロックされる連続失敗回数です。
	MaxFailedLoginAttempts = 5

	// maxUsernameBase は自動生成ユーザー名の基底部分の最大文字数です（サフィックス分を残す）。
	maxUsernameBase = 14
)

// UserRepository はユーザーエンティティの永続化層を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type UserRepository interface {
	// Create は新しいユーザーをストレージに永続化します。
	// メールアドレスが重複する場合はErrEmailAlreadyExistsを返します。
	Create(ctx context.Context, user *entity.User) error

	// FindByID / FindByEmail / FindByUsername はユーザーを取得します。
	// withPassword がfalseの場合、PasswordHashは読み込まれません。
	// ユーザーが存在しない場合はErrUserNotFoundを返します。
	FindByID(ctx context.Context, id uuid.UUID, withPassword bool) (*entity.User, error)
	FindByEmail(ctx context.Context, email string, withPassword bool) (*entity.User, error)
	// FindByUsername は大文字小文字を区別せずに検索します。
	FindByUsername(ctx context.Context, username string, withPassword bool) (*entity.User, error)

	// IncrementFailedLogin は失敗回数をアトミックに1増やし、更新後の値を返します。
	IncrementFailedLogin(ctx context.Context, id uuid.UUID) (int, error)
	// ResetFailedLogin は失敗回数を0に戻します。
	ResetFailedLogin(ctx context.Context, id uuid.UUID) error

	UpdateAuthAttributes(ctx context.Context, id uuid.UUID, attrs *entity.AuthAttributes) error
	// UpdatePasswordHash はパスワードハッシュを更新し、失敗回数もリセットします。
	UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error
	UsernameExists(ctx context.Context, username string) (bool, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	Confirm(ctx context.Context, id uuid.UUID) error
	UpdatePrivacy(ctx context.Context, id uuid.UUID, public bool) error

	// SetUnconfirmedNewEmail は確認待ちの新しいメールアドレスを保存します。空文字で取り消します。
	SetUnconfirmedNewEmail(ctx context.Context, id uuid.UUID, email string) error
	// ConfirmNewEmail は確認待ちのアドレスがnewEmailと一致する場合に限りメールアドレスを置き換えます。
	// 一致する確認待ちが無い場合はErrNoPendingEmailChange、使用済みの場合はErrEmailAlreadyExistsを返します。
	ConfirmNewEmail(ctx context.Context, id uuid.UUID, newEmail string) error
}

// PasswordHasher はパスワードの一方向ハッシュと照合を抽象化します。
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	// Verify は不正な形式のハッシュに対してもpanicせずfalseを返します。
	Verify(plaintext, hash string) bool
}

// TokenIssuer は署名済みトークンを発行します。有効期限は呼び出し側が指定します。
type TokenIssuer interface {
	Issue(userID string, ttl time.Duration) (string, error)
}

// ThirdPartyClaim はクライアントが申告した第三者IDと資格情報です。
type ThirdPartyClaim struct {
	Provider       entity.Provider
	ProviderUserID string
	Email          string
	Credential     string
}

// ThirdPartyValidator は第三者資格情報を検証し、正規化されたAuthAttributesを返します。
type ThirdPartyValidator interface {
	Validate(ctx context.Context, claim ThirdPartyClaim, existing *entity.AuthAttributes) (*entity.AuthAttributes, error)
}

// LinkSender は確認用・パスワードリセット用のトークンをユーザーに届けます。
type LinkSender interface {
	SendConfirmation(ctx context.Context, user *entity.User, token string) error
	SendPasswordReset(ctx context.Context, user *entity.User, token string) error
	// SendEmailChange は新しいメールアドレス宛てに変更確認リンクを届けます。
	SendEmailChange(ctx context.Context, user *entity.User, newEmail, token string) error
}

// TokenTTLs は用途ごとのトークン有効期限です。
type TokenTTLs struct {
	Login         time.Duration
	Confirmation  time.Duration
	PasswordReset time.Duration
}

// DefaultTokenTTLs はログイン168時間、確認3時間、パスワードリセット24時間です。
var DefaultTokenTTLs = TokenTTLs{
	Login:         168 * time.Hour,
	Confirmation:  3 * time.Hour,
	PasswordReset: 24 * time.Hour,
}

// Dependencies はauthUsecaseの構築時に注入する依存関係です。
type Dependencies struct {
	Users      UserRepository
	Hasher     PasswordHasher
	Tokens     TokenIssuer
	ThirdParty ThirdPartyValidator
	Links      LinkSender
	TTLs       TokenTTLs
}

// authUsecase は認証とアカウント操作のビジネスロジックを実装します。
type authUsecase struct {
	users      UserRepository
	hasher     PasswordHasher
	tokens     TokenIssuer
	thirdParty ThirdPartyValidator
	links      LinkSender
	ttls       TokenTTLs
}

// NewAuthUsecase はauthUsecaseの新しいインスタンスを生成します。
// TTLが0の項目はDefaultTokenTTLsの値を使用します。
func NewAuthUsecase(deps Dependencies) *authUsecase {
	ttls := deps.TTLs
	if ttls.Login <= 0 {
		ttls.Login = DefaultTokenTTLs.Login
	}
	if ttls.Confirmation <= 0 {
		ttls.Confirmation = DefaultTokenTTLs.Confirmation
	}
	if ttls.PasswordReset <= 0 {
		ttls.PasswordReset = DefaultTokenTTLs.PasswordReset
	}
	return &authUsecase{
		users:      deps.Users,
		hasher:     deps.Hasher,
		tokens:     deps.Tokens,
		thirdParty: deps.ThirdParty,
		links:      deps.Links,
		ttls:       ttls,
	}
}

// Authenticate はログイン試行を検証し、成功時にユーザーを返します。
// パスワードの場合はロックアウトを照合前に確認し、失敗回数を更新します。
// 第三者資格情報の場合は検証後に保存済みのAuthAttributesを更新します。
func (u *authUsecase) Authenticate(ctx context.Context, cred entity.Credential) (*entity.User, error) {
	cred.Email = normalizeEmail(cred.Email)
	user, err := u.lookup(ctx, cred)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, domain.Unauthorized("No user found with the given credentials")
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if cred.IsThirdParty() {
		return u.authenticateThirdParty(ctx, user, cred)
	}
	return u.authenticatePassword(ctx, user, cred.Password)
}

func (u *authUsecase) lookup(ctx context.Context, cred entity.Credential) (*entity.User, error) {
	if cred.IdentifierKind() == entity.IdentifierUsername {
		return u.users.FindByUsername(ctx, cred.Username, true)
	}
	return u.users.FindByEmail(ctx, cred.Email, true)
}

func (u *authUsecase) authenticatePassword(ctx context.Context, user *entity.User, plaintext string) (*entity.User, error) {
	if !user.HasPassword() {
		if user.AuthAttributes != nil {
			return nil, domain.Unauthorized("User signed up with " + user.AuthAttributes.Provider.DisplayName() + " OAuth")
		}
		return nil, domain.Unauthorized("User has no password set")
	}

	// ロック中は正しいパスワードでも拒否し、カウンターも変更しない
	if user.IsLocked(MaxFailedLoginAttempts) {
		return nil, domain.Locked()
	}

	if !u.hasher.Verify(plaintext, user.PasswordHash) {
		count, err := u.users.IncrementFailedLogin(ctx, user.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to record failed login: %w", err)
		}
		return nil, domain.WrongPassword(count)
	}

	if err := u.users.ResetFailedLogin(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("failed to reset failed logins: %w", err)
	}
	user.FailedLoginAttemptCount = 0
	return user, nil
}

func (u *authUsecase) authenticateThirdParty(ctx context.Context, user *entity.User, cred entity.Credential) (*entity.User, error) {
	if user.AuthAttributes == nil {
		return nil, domain.Unauthorized("User signed up with password")
	}

	provider, err := entity.ParseProvider(cred.AuthService)
	if err != nil {
		return nil, domain.BadRequest("Unsupported auth service: " + cred.AuthService)
	}

	email := cred.Email
	if email == "" {
		email = user.Email
	}
	attrs, err := u.thirdParty.Validate(ctx, ThirdPartyClaim{
		Provider:       provider,
		ProviderUserID: cred.ServiceUserID,
		Email:          email,
		Credential:     cred.AccessToken,
	}, user.AuthAttributes)
	if err != nil {
		return nil, err
	}

	if err := u.users.UpdateAuthAttributes(ctx, user.ID, attrs); err != nil {
		return nil, fmt.Errorf("failed to update auth attributes: %w", err)
	}
	user.AuthAttributes = attrs
	return user, nil
}

// Login は資格情報の形式を検証して認証し、ログイントークンを発行した上でpolicyを適用します。
func (u *authUsecase) Login(ctx context.Context, cred entity.Credential, policy LoginPolicy) (*LoginResult, error) {
	cred.Email = normalizeEmail(cred.Email)
	if err := validateCredential(cred, policy.AllowsUsername()); err != nil {
		return nil, err
	}

	user, err := u.Authenticate(ctx, cred)
	if err != nil {
		return nil, err
	}

	token, err := u.tokens.Issue(user.ID.String(), u.ttls.Login)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	status, err := policy.AfterLogin(ctx, u.users, user)
	if err != nil {
		return nil, err
	}
	return &LoginResult{User: user, AccessToken: token, Status: status}, nil
}

// SignupInput は新規登録リクエストです。PasswordとAccessTokenのどちらか一方を指定します。
type SignupInput struct {
	Email         string
	FirstName     string
	LastName      string
	Password      string
	AccessToken   string
	AuthService   string
	ServiceUserID string
}

// Signup は新規ユーザーを登録し、ログイントークンを返します。
// パスワード登録の場合は未確認状態で作成し、確認用トークンを送信します。
// 第三者登録の場合はプロバイダーがメールアドレスを確認済みのため確認済み状態で作成します。
func (u *authUsecase) Signup(ctx context.Context, in SignupInput) (string, error) {
	in.Email = normalizeEmail(in.Email)
	if in.Email == "" {
		return "", domain.BadRequest("No email provided")
	}
	if (in.Password == "") == (in.AccessToken == "") {
		return "", domain.BadRequest("Provide either a password or an access_token")
	}

	username, err := u.availableUsername(ctx, in.Email)
	if err != nil {
		return "", err
	}

	var user *entity.User
	if in.Password != "" {
		if err := password.Validate(in.Password); err != nil {
			return "", domain.BadRequest(err.Error())
		}
		hashed, err := u.hasher.Hash(in.Password)
		if err != nil {
			return "", err
		}
		user = entity.NewPasswordUser(in.Email, username, hashed)
	} else {
		provider, err := entity.ParseProvider(in.AuthService)
		if err != nil {
			return "", domain.BadRequest("Unsupported auth service: " + in.AuthService)
		}
		attrs, err := u.thirdParty.Validate(ctx, ThirdPartyClaim{
			Provider:       provider,
			ProviderUserID: in.ServiceUserID,
			Email:          in.Email,
			Credential:     in.AccessToken,
		}, nil)
		if err != nil {
			return "", err
		}
		user = entity.NewThirdPartyUser(in.Email, username, attrs)
	}
	user.FirstName = in.FirstName
	user.LastName = in.LastName

	if err := user.Validate(); err != nil {
		return "", err
	}
	if err := u.users.Create(ctx, user); err != nil {
		switch {
		case errors.Is(err, ErrEmailAlreadyExists):
			return "", domain.BadRequest("Email is already registered")
		case errors.Is(err, ErrUsernameAlreadyExists):
			return "", domain.BadRequest("Username is already taken, please try again")
		}
		return "", fmt.Errorf("failed to create user: %w", err)
	}

	if !user.Confirmed {
		u.sendConfirmation(ctx, user)
	}

	token, err := u.tokens.Issue(user.ID.String(), u.ttls.Login)
	if err != nil {
		return "", fmt.Errorf("failed to issue token: %w", err)
	}
	return token, nil
}

// sendConfirmation は確認用トークンを送信します。送信に失敗しても登録自体は成功扱いです。
func (u *authUsecase) sendConfirmation(ctx context.Context, user *entity.User) {
	if u.links == nil {
		return
	}
	token, err := u.tokens.Issue(user.ID.String(), u.ttls.Confirmation)
	if err == nil {
		err = u.links.SendConfirmation(ctx, user, token)
	}
	if err != nil {
		slog.Warn("failed to send confirmation link", "error", err, "user_id", user.ID)
	}
}

// normalizeEmail は保存・検索に使う形にそろえます（前後の空白を除去）。
func normalizeEmail(email string) string {
	return strings.TrimSpace(email)
}

// availableUsername はメールアドレスのローカル部分から未使用のユーザー名を生成します。
// 使用済みの場合は "name_0", "name_1", ... を順に試します。
func (u *authUsecase) availableUsername(ctx context.Context, email string) (string, error) {
	base := usernameFromEmail(email)
	candidate := base
	for i := 0; ; i++ {
		exists, err := u.users.UsernameExists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("failed to check username: %w", err)
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s_%d", base, i)
	}
}

// usernameFromEmail はローカル部分を小文字化し、ユーザー名に使える文字（a-z、0-9、_、.）だけを残します。
func usernameFromEmail(email string) string {
	local, _, _ := strings.Cut(email, "@")
	var b strings.Builder
	for _, r := range strings.ToLower(local) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '.' {
			b.WriteRune(r)
		}
		if b.Len() == maxUsernameBase {
			break
		}
	}
	if b.Len() == 0 {
		return "user"
	}
	return b.String()
}
