package adapters

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"whoami_backend/internal/feature/auth/domain/entity"
)

// UserModel is the GORM model for the users table.
type UserModel struct {
	ID                  string  `gorm:"primaryKey;size:36"`
	Email               string  `gorm:"uniqueIndex:idx_users_email;size:255;not null"`
	UnconfirmedNewEmail string  `gorm:"size:255"`
	Username            string  `gorm:"uniqueIndex:idx_users_username;size:64;not null"`
	FirstName           string  `gorm:"size:100"`
	LastName            string  `gorm:"size:100"`
	Bio                 string  `gorm:"size:500"`
	Password            *string `gorm:"size:255"` // NULL for third-party accounts
	// AuthAttributes holds JSON null for password accounts.
	AuthAttributes          datatypes.JSON `gorm:"not null;default:'null'"`
	Confirmed               bool           `gorm:"not null"`
	Active                  bool           `gorm:"not null"`
	Public                  bool           `gorm:"not null"`
	FailedLoginAttemptCount int            `gorm:"not null;default:0"`
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

// TableName returns the table name for GORM.
func (UserModel) TableName() string {
	return "users"
}

// ToEntity converts the GORM model to a domain entity.
func (m *UserModel) ToEntity() (*entity.User, error) {
	id, err := uuid.Parse(m.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id %q: %w", m.ID, err)
	}

	u := &entity.User{
		ID:                      id,
		Email:                   m.Email,
		UnconfirmedNewEmail:     m.UnconfirmedNewEmail,
		Username:                m.Username,
		FirstName:               m.FirstName,
		LastName:                m.LastName,
		Bio:                     m.Bio,
		Confirmed:               m.Confirmed,
		Active:                  m.Active,
		Public:                  m.Public,
		FailedLoginAttemptCount: m.FailedLoginAttemptCount,
		CreatedAt:               m.CreatedAt,
		UpdatedAt:               m.UpdatedAt,
	}
	if m.Password != nil {
		u.PasswordHash = *m.Password
	}
	if raw := bytes.TrimSpace(m.AuthAttributes); len(raw) > 0 && !bytes.Equal(raw, []byte("null")) {
		var attrs entity.AuthAttributes
		if err := json.Unmarshal(raw, &attrs); err != nil {
			return nil, err
		}
		u.AuthAttributes = &attrs
	}
	return u, nil
}

// UserModelFromEntity converts a domain entity to a GORM model.
func UserModelFromEntity(u *entity.User) (*UserModel, error) {
	m := &UserModel{
		ID:                      u.ID.String(),
		Email:                   u.Email,
		UnconfirmedNewEmail:     u.UnconfirmedNewEmail,
		Username:                u.Username,
		FirstName:               u.FirstName,
		LastName:                u.LastName,
		Bio:                     u.Bio,
		Confirmed:               u.Confirmed,
		Active:                  u.Active,
		Public:                  u.Public,
		FailedLoginAttemptCount: u.FailedLoginAttemptCount,
		CreatedAt:               u.CreatedAt,
		UpdatedAt:               u.UpdatedAt,
	}
	if u.PasswordHash != "" {
		hash := u.PasswordHash
		m.Password = &hash
	}
	if u.AuthAttributes != nil {
		b, err := json.Marshal(u.AuthAttributes)
		if err != nil {
			return nil, err
		}
		m.AuthAttributes = datatypes.JSON(b)
	}
	return m, nil
}
