package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/md-rashed-zaman/gymdesk/services/gym-service/internal/accounts"
	"github.com/md-rashed-zaman/gymdesk/services/gym-service/internal/handlers"
	"github.com/md-rashed-zaman/gymdesk/services/gym-service/internal/model"
	"github.com/md-rashed-zaman/gymdesk/services/gym-service/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) Register(ctx context.Context, in accounts.RegisterInput) (accounts.Session, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(accounts.Session), args.Error(1)
}

func (m *MockAccountService) Login(ctx context.Context, username, password string) (accounts.Session, error) {
	args := m.Called(ctx, username, password)
	return args.Get(0).(accounts.Session), args.Error(1)
}

func (m *MockAccountService) Me(ctx context.Context, admin session.Identity) (model.Admin, error) {
	args := m.Called(ctx, admin)
	return args.Get(0).(model.Admin), args.Error(1)
}

func (m *MockAccountService) UpdatePassword(ctx context.Context, admin session.Identity, current, next string) (accounts.Session, error) {
	args := m.Called(ctx, admin, current, next)
	return args.Get(0).(accounts.Session), args.Error(1)
}

func TestAuthHandler_Login(t *testing.T) {
	t.Run("returns token and admin at the top level", func(t *testing.T) {
		svc := new(MockAccountService)
		h := handlers.NewAuthHandler(svc, discard())
		svc.On("Login", mock.Anything, "coach", "s3cret-pass").Return(accounts.Session{
			Token: "tok",
			Admin: model.Admin{ID: coach.ID, Username: "coach", PasswordHash: "$2a$10$hash"},
		}, nil)

		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", jsonBody(t, map[string]string{"username": "coach", "password": "s3cret-pass"}))
		w := httptest.NewRecorder()
		h.Login(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, true, body["success"])
		assert.Equal(t, "tok", body["token"])
		admin, ok := body["admin"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "coach", admin["username"])
		assert.NotContains(t, admin, "passwordHash")
		assert.NotContains(t, w.Body.String(), "$2a$10$hash")
	})

	t.Run("bad credentials are 401", func(t *testing.T) {
		svc := new(MockAccountService)
		h := handlers.NewAuthHandler(svc, discard())
		svc.On("Login", mock.Anything, "coach", "nope").Return(accounts.Session{}, accounts.ErrInvalidCredentials)

		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", jsonBody(t, map[string]string{"username": "coach", "password": "nope"}))
		w := httptest.NewRecorder()
		h.Login(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Invalid credentials", decode(t, w).Message)
	})
}

func TestAuthHandler_Register(t *testing.T) {
	svc := new(MockAccountService)
	h := handlers.NewAuthHandler(svc, discard())
	svc.On("Register", mock.Anything, accounts.RegisterInput{Username: "coach", Email: "c@gym.test", Password: "longenough", SecretKey: "wrong"}).
		Return(accounts.Session{}, accounts.ErrInvalidSecretKey)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", jsonBody(t, map[string]string{
		"username": "coach", "email": "c@gym.test", "password": "longenough", "secretKey": "wrong",
	}))
	w := httptest.NewRecorder()
	h.Register(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	svc.AssertExpectations(t)
}

func TestAuthHandler_UpdatePassword(t *testing.T) {
	svc := new(MockAccountService)
	h := handlers.NewAuthHandler(svc, discard())
	svc.On("UpdatePassword", mock.Anything, coach, "old-password", "new-password").Return(accounts.Session{Token: "fresh"}, nil)

	req := httptest.NewRequest(http.MethodPut, "/api/auth/updatepassword", jsonBody(t, map[string]string{
		"currentPassword": "old-password", "newPassword": "new-password",
	}))
	w := httptest.NewRecorder()
	h.UpdatePassword(w, req, coach)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "fresh", decode(t, w).Token)
}
