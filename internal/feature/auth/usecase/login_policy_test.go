package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"whoami_backend/internal/feature/auth/domain/entity"
)

func TestLoginPolicies_AfterLogin(t *testing.T) {
	tests := []struct {
		name           string
		policy         LoginPolicy
		confirmed      bool
		active         bool
		wantStatus     LoginStatus
		wantReactivate bool
	}{
		{"v1 ok", LoginPolicyV1, true, true, LoginOK, false},
		{"v1 unconfirmed", LoginPolicyV1, false, true, LoginConfirmationRequired, false},
		{"v1 inactive", LoginPolicyV1, true, false, LoginInactive, false},
		{"v1 unconfirmed and inactive", LoginPolicyV1, false, false, LoginConfirmationRequired, false},
		{"v2 ok", LoginPolicyV2, true, true, LoginOK, false},
		{"v2 unconfirmed", LoginPolicyV2, false, true, LoginConfirmationRequired, false},
		{"v2 inactive is reactivated", LoginPolicyV2, true, false, LoginOK, true},
		{"v2 unconfirmed and inactive stays inactive", LoginPolicyV2, false, false, LoginConfirmationRequired, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := &entity.User{ID: uuid.New(), Confirmed: tt.confirmed, Active: tt.active}
			reactivated := false
			repo := &mockUserRepository{SetActiveFunc: func(id uuid.UUID, active bool) error {
				assert.Equal(t, user.ID, id)
				assert.True(t, active)
				reactivated = true
				return nil
			}}

			status, err := tt.policy.AfterLogin(context.Background(), repo, user)

			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantReactivate, reactivated)
			if tt.wantReactivate {
				assert.True(t, user.Active)
			}
		})
	}
}

func TestLoginPolicyV2_ReactivateFailure(t *testing.T) {
	repo := &mockUserRepository{SetActiveFunc: func(uuid.UUID, bool) error { return errors.New("db down") }}

	_, err := LoginPolicyV2.AfterLogin(context.Background(), repo, &entity.User{ID: uuid.New(), Confirmed: true})

	assert.Error(t, err)
}

func TestLoginPolicies_AllowsUsername(t *testing.T) {
	assert.False(t, LoginPolicyV1.AllowsUsername())
	assert.True(t, LoginPolicyV2.AllowsUsername())
}
