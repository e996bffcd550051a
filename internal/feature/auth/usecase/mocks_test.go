package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"whoami_backend/internal/feature/auth/domain/entity"
)

// mockUserRepository is a mock implementation of the UserRepository interface.
// Each method delegates to its Func field when set.
type mockUserRepository struct {
	CreateFunc               func(user *entity.User) error
	FindByIDFunc             func(id uuid.UUID, withPassword bool) (*entity.User, error)
	FindByEmailFunc          func(email string, withPassword bool) (*entity.User, error)
	FindByUsernameFunc       func(username string, withPassword bool) (*entity.User, error)
	IncrementFailedLoginFunc func(id uuid.UUID) (int, error)
	ResetFailedLoginFunc     func(id uuid.UUID) error
	UpdateAuthAttributesFunc func(id uuid.UUID, attrs *entity.AuthAttributes) error
	UpdatePasswordHashFunc   func(id uuid.UUID, hash string) error
	UsernameExistsFunc       func(username string) (bool, error)
	SetActiveFunc            func(id uuid.UUID, active bool) error
	ConfirmFunc              func(id uuid.UUID) error
	UpdatePrivacyFunc        func(id uuid.UUID, public bool) error
	SetUnconfirmedEmailFunc  func(id uuid.UUID, email string) error
	ConfirmNewEmailFunc      func(id uuid.UUID, newEmail string) error
}

func (m *mockUserRepository) Create(_ context.Context, user *entity.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(user)
	}
	return nil
}

func (m *mockUserRepository) FindByID(_ context.Context, id uuid.UUID, withPassword bool) (*entity.User, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(id, withPassword)
	}
	return nil, ErrUserNotFound
}

func (m *mockUserRepository) FindByEmail(_ context.Context, email string, withPassword bool) (*entity.User, error) {
	if m.FindByEmailFunc != nil {
		return m.FindByEmailFunc(email, withPassword)
	}
	return nil, ErrUserNotFound
}

func (m *mockUserRepository) FindByUsername(_ context.Context, username string, withPassword bool) (*entity.User, error) {
	if m.FindByUsernameFunc != nil {
		return m.FindByUsernameFunc(username, withPassword)
	}
	return nil, ErrUserNotFound
}

func (m *mockUserRepository) IncrementFailedLogin(_ context.Context, id uuid.UUID) (int, error) {
	if m.IncrementFailedLoginFunc != nil {
		return m.IncrementFailedLoginFunc(id)
	}
	return 1, nil
}

func (m *mockUserRepository) ResetFailedLogin(_ context.Context, id uuid.UUID) error {
	if m.ResetFailedLoginFunc != nil {
		return m.ResetFailedLoginFunc(id)
	}
	return nil
}

func (m *mockUserRepository) UpdateAuthAttributes(_ context.Context, id uuid.UUID, attrs *entity.AuthAttributes) error {
	if m.UpdateAuthAttributesFunc != nil {
		return m.UpdateAuthAttributesFunc(id, attrs)
	}
	return nil
}

func (m *mockUserRepository) UpdatePasswordHash(_ context.Context, id uuid.UUID, hash string) error {
	if m.UpdatePasswordHashFunc != nil {
		return m.UpdatePasswordHashFunc(id, hash)
	}
	return nil
}

func (m *mockUserRepository) UsernameExists(_ context.Context, username string) (bool, error) {
	if m.UsernameExistsFunc != nil {
		return m.UsernameExistsFunc(username)
	}
	return false, nil
}

func (m *mockUserRepository) SetActive(_ context.Context, id uuid.UUID, active bool) error {
	if m.SetActiveFunc != nil {
		return m.SetActiveFunc(id, active)
	}
	return nil
}

func (m *mockUserRepository) Confirm(_ context.Context, id uuid.UUID) error {
	if m.ConfirmFunc != nil {
		return m.ConfirmFunc(id)
	}
	return nil
}

func (m *mockUserRepository) UpdatePrivacy(_ context.Context, id uuid.UUID, public bool) error {
	if m.UpdatePrivacyFunc != nil {
		return m.UpdatePrivacyFunc(id, public)
	}
	return nil
}

func (m *mockUserRepository) SetUnconfirmedNewEmail(_ context.Context, id uuid.UUID, email string) error {
	if m.SetUnconfirmedEmailFunc != nil {
		return m.SetUnconfirmedEmailFunc(id, email)
	}
	return nil
}

func (m *mockUserRepository) ConfirmNewEmail(_ context.Context, id uuid.UUID, newEmail string) error {
	if m.ConfirmNewEmailFunc != nil {
		return m.ConfirmNewEmailFunc(id, newEmail)
	}
	return nil
}

// mockTokens implements TokenIssuer and TokenVerifier.
// Issued tokens have the form "<userID>|<ttl>" unless IssueFunc is set.
type mockTokens struct {
	IssueFunc  func(userID string, ttl time.Duration) (string, error)
	VerifyFunc func(token string) (string, error)
	issued     []time.Duration
}

func (m *mockTokens) Issue(userID string, ttl time.Duration) (string, error) {
	m.issued = append(m.issued, ttl)
	if m.IssueFunc != nil {
		return m.IssueFunc(userID, ttl)
	}
	return fmt.Sprintf("%s|%s", userID, ttl), nil
}

func (m *mockTokens) Verify(token string) (string, error) {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(token)
	}
	return "", fmt.Errorf("invalid token")
}

// mockThirdParty is a mock ThirdPartyValidator.
type mockThirdParty struct {
	ValidateFunc func(claim ThirdPartyClaim, existing *entity.AuthAttributes) (*entity.AuthAttributes, error)
}

func (m *mockThirdParty) Validate(_ context.Context, claim ThirdPartyClaim, existing *entity.AuthAttributes) (*entity.AuthAttributes, error) {
	if m.ValidateFunc != nil {
		return m.ValidateFunc(claim, existing)
	}
	return &entity.AuthAttributes{Provider: claim.Provider, ProviderUserID: claim.ProviderUserID, Credential: claim.Credential}, nil
}

// mockLinks records the tokens handed to it.
type mockLinks struct {
	confirmations []string
	resets        []string
	emailChanges  []string
	err           error
}

func (m *mockLinks) SendConfirmation(_ context.Context, _ *entity.User, token string) error {
	m.confirmations = append(m.confirmations, token)
	return m.err
}

func (m *mockLinks) SendPasswordReset(_ context.Context, _ *entity.User, token string) error {
	m.resets = append(m.resets, token)
	return m.err
}

func (m *mockLinks) SendEmailChange(_ context.Context, _ *entity.User, newEmail, token string) error {
	m.emailChanges = append(m.emailChanges, newEmail+"|"+token)
	return m.err
}
