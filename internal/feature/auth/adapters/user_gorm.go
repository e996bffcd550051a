// Package adapters はauthフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"whoami_backend/internal/feature/auth/domain/entity"
	"whoami_backend/internal/feature/auth/usecase"
)

// pgUniqueViolation はPostgreSQLの一意制約違反のエラーコードです。
const pgUniqueViolation = "23505"

// userGorm はUserRepositoryインターフェースのGORM実装です。
// 本番ではPostgreSQL、テストではSQLiteで動作します。
type userGorm struct {
	db *gorm.DB
}

// userGormがUserRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.UserRepository = (*userGorm)(nil)

// NewUserGorm は指定されたgorm.DB接続でuserGormの新しいインスタンスを生成します。
func NewUserGorm(db *gorm.DB) *userGorm {
	return &userGorm{db: db}
}

// Create はユーザーをデータベースに追加します。
// パスワードと第三者認証情報のどちらか一方だけを持つユーザーのみ保存できます。
func (r *userGorm) Create(ctx context.Context, u *entity.User) error {
	if u == nil {
		return errors.New("user is nil")
	}
	if err := u.Validate(); err != nil {
		return err
	}
	m, err := UserModelFromEntity(u)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		if dup := duplicateKeyError(err); dup != nil {
			return dup
		}
		return err
	}
	u.CreatedAt = m.CreatedAt
	u.UpdatedAt = m.UpdatedAt
	return nil
}

// duplicateKeyError は一意制約違反をusecaseのエラーに変換します。該当しない場合はnilを返します。
func duplicateKeyError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		if strings.Contains(pgErr.ConstraintName, "username") {
			return usecase.ErrUsernameAlreadyExists
		}
		return usecase.ErrEmailAlreadyExists
	}
	// SQLite: "UNIQUE constraint failed: users.email"
	if msg := err.Error(); errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(msg, "UNIQUE constraint failed") {
		if strings.Contains(msg, "username") {
			return usecase.ErrUsernameAlreadyExists
		}
		return usecase.ErrEmailAlreadyExists
	}
	return nil
}

func (r *userGorm) find(ctx context.Context, withPassword bool, query string, args ...interface{}) (*entity.User, error) {
	q := r.db.WithContext(ctx).Model(&UserModel{})
	if !withPassword {
		q = q.Omit("password")
	}

	var m UserModel
	if err := q.Where(query, args...).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrUserNotFound
		}
		return nil, err
	}
	return m.ToEntity()
}

// FindByID はIDでユーザーを取得します。
func (r *userGorm) FindByID(ctx context.Context, id uuid.UUID, withPassword bool) (*entity.User, error) {
	return r.find(ctx, withPassword, "id = ?", id.String())
}

// FindByEmail はメールアドレスでユーザーを取得します。
func (r *userGorm) FindByEmail(ctx context.Context, email string, withPassword bool) (*entity.User, error) {
	return r.find(ctx, withPassword, "email = ?", email)
}

// FindByUsername はユーザー名で大文字小文字を区別せずにユーザーを取得します。
func (r *userGorm) FindByUsername(ctx context.Context, username string, withPassword bool) (*entity.User, error) {
	return r.find(ctx, withPassword, "LOWER(username) = LOWER(?)", username)
}

// IncrementFailedLogin は失敗回数を1増やし、更新後の値を返します。
// UPDATEで行ロックを取得したトランザクション内で読み直すため、同時に失敗しても加算が失われません。
func (r *userGorm) IncrementFailedLogin(ctx context.Context, id uuid.UUID) (int, error) {
	var count int
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&UserModel{}).
			Where("id = ?", id.String()).
			UpdateColumn("failed_login_attempt_count", gorm.Expr("failed_login_attempt_count + ?", 1))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return usecase.ErrUserNotFound
		}
		return tx.Model(&UserModel{}).
			Select("failed_login_attempt_count").
			Where("id = ?", id.String()).
			Scan(&count).Error
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

// ResetFailedLogin は失敗回数を0に戻します。
func (r *userGorm) ResetFailedLogin(ctx context.Context, id uuid.UUID) error {
	return r.updateColumns(ctx, id, map[string]interface{}{"failed_login_attempt_count": 0})
}

// UpdateAuthAttributes は第三者認証情報を上書きします。
func (r *userGorm) UpdateAuthAttributes(ctx context.Context, id uuid.UUID, attrs *entity.AuthAttributes) error {
	b, err := json.Marshal(attrs)
	if err != nil {
		return err
	}
	return r.updateColumns(ctx, id, map[string]interface{}{"auth_attributes": datatypes.JSON(b)})
}

// UpdatePasswordHash はパスワードハッシュを更新し、失敗回数をリセットします。
func (r *userGorm) UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error {
	return r.updateColumns(ctx, id, map[string]interface{}{
		"password":                   hash,
		"failed_login_attempt_count": 0,
	})
}

// UsernameExists はユーザー名が使用済みかを大文字小文字を区別せずに確認します。
func (r *userGorm) UsernameExists(ctx context.Context, username string) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&UserModel{}).
		Where("LOWER(username) = LOWER(?)", username).
		Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// SetActive はアカウントの有効状態を変更します。
func (r *userGorm) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	return r.updateColumns(ctx, id, map[string]interface{}{"active": active})
}

// Confirm はメールアドレスを確認済みにします。
func (r *userGorm) Confirm(ctx context.Context, id uuid.UUID) error {
	return r.updateColumns(ctx, id, map[string]interface{}{"confirmed": true})
}

// UpdatePrivacy はボードの公開設定を変更します。
func (r *userGorm) UpdatePrivacy(ctx context.Context, id uuid.UUID, public bool) error {
	return r.updateColumns(ctx, id, map[string]interface{}{"public": public})
}

// SetUnconfirmedNewEmail は確認待ちのメールアドレスを保存します。空文字で取り消します。
func (r *userGorm) SetUnconfirmedNewEmail(ctx context.Context, id uuid.UUID, email string) error {
	return r.updateColumns(ctx, id, map[string]interface{}{"unconfirmed_new_email": email})
}

// ConfirmNewEmail は確認待ちのアドレスがnewEmailと一致する行だけメールアドレスを置き換えます。
func (r *userGorm) ConfirmNewEmail(ctx context.Context, id uuid.UUID, newEmail string) error {
	res := r.db.WithContext(ctx).Model(&UserModel{}).
		Where("id = ? AND unconfirmed_new_email = ?", id.String(), newEmail).
		Updates(map[string]interface{}{
			"email":                 newEmail,
			"unconfirmed_new_email": "",
		})
	if res.Error != nil {
		if dup := duplicateKeyError(res.Error); dup != nil {
			return dup
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return usecase.ErrNoPendingEmailChange
	}
	return nil
}

// updateColumns は1行だけを更新します。該当行が無い場合はErrUserNotFoundを返します。
func (r *userGorm) updateColumns(ctx context.Context, id uuid.UUID, values map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&UserModel{}).Where("id = ?", id.String()).Updates(values)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return usecase.ErrUserNotFound
	}
	return nil
}
