package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"whoami_backend/internal/feature/auth/domain"
	"whoami_backend/internal/feature/auth/domain/entity"
	"whoami_backend/internal/feature/auth/usecase"
)

// mockAuthUsecase is a mock implementation of the AuthUsecase interface.
type mockAuthUsecase struct {
	SignupFunc func(ctx context.Context, in usecase.SignupInput) (string, error)
	LoginFunc  func(ctx context.Context, cred entity.Credential, policy usecase.LoginPolicy) (*usecase.LoginResult, error)
}

// Signup is the mock implementation of the Signup method.
func (m *mockAuthUsecase) Signup(ctx context.Context, in usecase.SignupInput) (string, error) {
	if m.SignupFunc != nil {
		return m.SignupFunc(ctx, in)
	}
	return "signup-token", nil // Default: success
}

// Login is the mock implementation of the Login method.
func (m *mockAuthUsecase) Login(ctx context.Context, cred entity.Credential, policy usecase.LoginPolicy) (*usecase.LoginResult, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, cred, policy)
	}
	return nil, domain.Unauthorized("No user found with the given credentials") // Default: failure
}

func doJSON(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	b, _ := json.Marshal(body)
	req, _ := http.NewRequest(method, path, bytes.NewBuffer(b))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthHandler_Signup(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		requestBody    gin.H
		mockSignupFunc func(ctx context.Context, in usecase.SignupInput) (string, error)
		expectedStatus int
		expectedBody   gin.H
	}{
		{
			name:        "success: password signup",
			requestBody: gin.H{"email": "test@example.com", "password": "password123", "first_name": "Test"},
			mockSignupFunc: func(ctx context.Context, in usecase.SignupInput) (string, error) {
				if in.Email != "test@example.com" || in.Password != "password123" || in.FirstName != "Test" {
					return "", errors.New("unexpected input")
				}
				return "login-token", nil
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   gin.H{"access_token": "login-token"},
		},
		{
			name:        "success: third-party signup",
			requestBody: gin.H{"email": "g@example.com", "access_token": "tok", "auth_service": "google", "service_user_id": "g-1"},
			mockSignupFunc: func(ctx context.Context, in usecase.SignupInput) (string, error) {
				if in.AccessToken != "tok" || in.AuthService != "google" || in.ServiceUserID != "g-1" {
					return "", errors.New("unexpected input")
				}
				return "login-token", nil
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   gin.H{"access_token": "login-token"},
		},
		{
			name:           "failure: invalid email address",
			requestBody:    gin.H{"email": "invalid-email", "password": "password123"},
			mockSignupFunc: nil, // Usecase is not called
			expectedStatus: http.StatusBadRequest,
			expectedBody:   gin.H{"error": "Key: 'SignupReq.Email' Error:Field validation for 'Email' failed on the 'email' tag"},
		},
		{
			name:        "failure: duplicate email (usecase error)",
			requestBody: gin.H{"email": "existing@example.com", "password": "password123"},
			mockSignupFunc: func(ctx context.Context, in usecase.SignupInput) (string, error) {
				return "", domain.BadRequest("Email is already registered")
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   gin.H{"error": "Email is already registered"},
		},
		{
			name:        "failure: store error is hidden",
			requestBody: gin.H{"email": "test@example.com", "password": "password123"},
			mockSignupFunc: func(ctx context.Context, in usecase.SignupInput) (string, error) {
				return "", errors.New("pq: connection reset")
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   gin.H{"error": "internal server error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockUC := &mockAuthUsecase{SignupFunc: tt.mockSignupFunc}
			handler := NewAuthHandler(mockUC)

			router := gin.New()
			router.POST("/v1/users/signup", handler.Signup)

			w := doJSON(router, http.MethodPost, "/v1/users/signup", tt.requestBody)

			assert.Equal(t, tt.expectedStatus, w.Code)

			var responseBody gin.H
			err := json.Unmarshal(w.Body.Bytes(), &responseBody)
			assert.NoError(t, err)

			// Binding errors include Gin validation details, so check partial match
			if tt.expectedStatus == http.StatusBadRequest {
				assert.Contains(t, responseBody["error"], tt.expectedBody["error"])
			} else {
				assert.Equal(t, tt.expectedBody, responseBody)
			}
		})
	}
}

func TestAuthHandler_Login(t *testing.T) {
	gin.SetMode(gin.TestMode)

	user := entity.NewPasswordUser("test@example.com", "tester", "hash")
	result := func(status usecase.LoginStatus) func(context.Context, entity.Credential, usecase.LoginPolicy) (*usecase.LoginResult, error) {
		return func(context.Context, entity.Credential, usecase.LoginPolicy) (*usecase.LoginResult, error) {
			return &usecase.LoginResult{User: user, AccessToken: "jwt", Status: status}, nil
		}
	}
	fail := func(err error) func(context.Context, entity.Credential, usecase.LoginPolicy) (*usecase.LoginResult, error) {
		return func(context.Context, entity.Credential, usecase.LoginPolicy) (*usecase.LoginResult, error) {
			return nil, err
		}
	}

	tests := []struct {
		name           string
		mockLoginFunc  func(context.Context, entity.Credential, usecase.LoginPolicy) (*usecase.LoginResult, error)
		expectedStatus int
		expectedBody   gin.H
	}{
		{
			name:           "success: user login",
			mockLoginFunc:  result(usecase.LoginOK),
			expectedStatus: http.StatusOK,
			expectedBody:   gin.H{"access_token": "jwt"},
		},
		{
			name:           "unconfirmed user gets a token with 403",
			mockLoginFunc:  result(usecase.LoginConfirmationRequired),
			expectedStatus: http.StatusForbidden,
			expectedBody:   gin.H{"message": "User confirmation required", "access_token": "jwt"},
		},
		{
			name:           "inactive user gets a token with 401",
			mockLoginFunc:  result(usecase.LoginInactive),
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   gin.H{"message": "Inactive user", "access_token": "jwt"},
		},
		{
			name:           "wrong password reports the failed attempt count",
			mockLoginFunc:  fail(domain.WrongPassword(3)),
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   gin.H{"error": "wrong password", "failed_login_attempt_count": float64(3)},
		},
		{
			name:           "locked account",
			mockLoginFunc:  fail(domain.Locked()),
			expectedStatus: http.StatusLocked,
			expectedBody:   gin.H{"error": domain.ReasonLocked},
		},
		{
			name:           "unknown user",
			mockLoginFunc:  nil,
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   gin.H{"error": "No user found with the given credentials"},
		},
		{
			name:           "malformed credential",
			mockLoginFunc:  fail(domain.BadRequest("Login with username is not supported")),
			expectedStatus: http.StatusBadRequest,
			expectedBody:   gin.H{"error": "Login with username is not supported"},
		},
		{
			name:           "store error is hidden",
			mockLoginFunc:  fail(errors.New("server misconfigured")),
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   gin.H{"error": "internal server error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockUC := &mockAuthUsecase{LoginFunc: tt.mockLoginFunc}
			handler := NewAuthHandler(mockUC)

			router := gin.New()
			router.POST("/v1/users/login", handler.LoginV1)

			w := doJSON(router, http.MethodPost, "/v1/users/login", gin.H{"email": "test@example.com", "password": "password123"})

			assert.Equal(t, tt.expectedStatus, w.Code)

			var responseBody gin.H
			err := json.Unmarshal(w.Body.Bytes(), &responseBody)
			assert.NoError(t, err)
			assert.Equal(t, tt.expectedBody, responseBody)
		})
	}
}

// TestAuthHandler_Login_PolicyPerVersion はv1/v2のエンドポイントがそれぞれのポリシーと資格情報を渡すことを検証します。
func TestAuthHandler_Login_PolicyPerVersion(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var gotPolicy usecase.LoginPolicy
	var gotCred entity.Credential
	mockUC := &mockAuthUsecase{LoginFunc: func(_ context.Context, cred entity.Credential, policy usecase.LoginPolicy) (*usecase.LoginResult, error) {
		gotPolicy, gotCred = policy, cred
		return &usecase.LoginResult{User: entity.NewPasswordUser("a@example.com", "alice", "h"), AccessToken: "jwt"}, nil
	}}
	handler := NewAuthHandler(mockUC)

	router := gin.New()
	router.POST("/v1/users/login", handler.LoginV1)
	router.POST("/v2/users/login", handler.LoginV2)

	doJSON(router, http.MethodPost, "/v1/users/login", gin.H{"email": "a@example.com", "password": "pw"})
	assert.Equal(t, usecase.LoginPolicyV1, gotPolicy)
	assert.Equal(t, "a@example.com", gotCred.Email)

	doJSON(router, http.MethodPost, "/v2/users/login", gin.H{"username": "alice", "password": "pw"})
	assert.Equal(t, usecase.LoginPolicyV2, gotPolicy)
	assert.Equal(t, "alice", gotCred.Username)
	assert.Equal(t, "pw", gotCred.Password)
}

func TestAuthHandler_Login_InvalidJSON(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.POST("/v1/users/login", NewAuthHandler(&mockAuthUsecase{}).LoginV1)

	req, _ := http.NewRequest(http.MethodPost, "/v1/users/login", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
