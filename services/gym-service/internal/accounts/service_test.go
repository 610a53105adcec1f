package accounts

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/md-rashed-zaman/gymdesk/libs/auth"
	"github.com/md-rashed-zaman/gymdesk/services/gym-service/internal/apperr"
	"github.com/md-rashed-zaman/gymdesk/services/gym-service/internal/model"
	"github.com/md-rashed-zaman/gymdesk/services/gym-service/internal/session"
	"github.com/md-rashed-zaman/gymdesk/services/gym-service/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	secret  = "test-secret"
	regKey  = "let-me-in"
	goodPwd = "correct horse"
)

type memAdmins struct {
	mu     sync.Mutex
	admins map[string]model.Admin
}

func (m *memAdmins) Create(_ context.Context, a model.Admin) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.admins {
		if existing.Username == a.Username || existing.Email == a.Email {
			return storage.ErrDuplicate
		}
	}
	m.admins[a.ID] = a
	return nil
}

func (m *memAdmins) GetByID(_ context.Context, id string) (model.Admin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.admins[id]
	if !ok {
		return model.Admin{}, storage.ErrNotFound
	}
	return a, nil
}

func (m *memAdmins) GetByUsername(_ context.Context, username string) (model.Admin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.admins {
		if a.Username == username {
			return a, nil
		}
	}
	return model.Admin{}, storage.ErrNotFound
}

func (m *memAdmins) UpdatePassword(_ context.Context, id, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.admins[id]
	if !ok {
		return storage.ErrNotFound
	}
	a.PasswordHash = hash
	m.admins[id] = a
	return nil
}

func newService(key string) (*Service, *memAdmins) {
	store := &memAdmins{admins: map[string]model.Admin{}}
	svc := NewService(store, Config{JWTSecret: secret, RegistrationKey: key}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return svc, store
}

func register(t *testing.T, svc *Service) Session {
	t.Helper()
	sess, err := svc.Register(context.Background(), RegisterInput{
		Username:  " coach ",
		Email:     "Coach@Gym.example",
		Password:  goodPwd,
		SecretKey: regKey,
	})
	require.NoError(t, err)
	return sess
}

func identity(a model.Admin) session.Identity {
	return session.Identity{ID: a.ID, Username: a.Username, Email: a.Email}
}

func TestRegisterIssuesToken(t *testing.T) {
	svc, store := newService(regKey)
	sess := register(t, svc)

	assert.Equal(t, "coach", sess.Admin.Username)
	assert.Equal(t, "coach@gym.example", sess.Admin.Email)
	assert.NotEqual(t, goodPwd, store.admins[sess.Admin.ID].PasswordHash)

	claims, err := auth.ParseAndVerifyHS256(sess.Token, secret)
	require.NoError(t, err)
	assert.Equal(t, sess.Admin.ID, claims.Sub)
	assert.Equal(t, auth.RoleAdmin, claims.Role)
	assert.Equal(t, int64(24*time.Hour/time.Second), claims.Exp-claims.Iat)
}

func TestRegisterGate(t *testing.T) {
	closed, _ := newService("")
	_, err := closed.Register(context.Background(), RegisterInput{Username: "coach", Email: "c@gym.example", Password: goodPwd, SecretKey: ""})
	assert.ErrorIs(t, err, ErrRegistrationClosed)

	open, _ := newService(regKey)
	_, err = open.Register(context.Background(), RegisterInput{Username: "coach", Email: "c@gym.example", Password: goodPwd, SecretKey: "guess"})
	assert.ErrorIs(t, err, ErrInvalidSecretKey)
}

func TestRegisterValidationAndDuplicates(t *testing.T) {
	svc, _ := newService(regKey)
	_, err := svc.Register(context.Background(), RegisterInput{Username: "ab", Email: "nope", Password: "short", SecretKey: regKey})
	v, ok := apperr.AsValidation(err)
	require.True(t, ok, "want validation error, got %v", err)
	assert.Contains(t, v.Fields, "username")
	assert.Contains(t, v.Fields, "email")
	assert.Contains(t, v.Fields, "password")

	register(t, svc)
	_, err = svc.Register(context.Background(), RegisterInput{Username: "coach", Email: "other@gym.example", Password: goodPwd, SecretKey: regKey})
	assert.ErrorIs(t, err, ErrAdminExists)
}

func TestOverlongPasswordIsAValidationError(t *testing.T) {
	svc, _ := newService(regKey)
	long := strings.Repeat("p", 80)

	_, err := svc.Register(context.Background(), RegisterInput{Username: "coach", Email: "c@gym.example", Password: long, SecretKey: regKey})
	v, ok := apperr.AsValidation(err)
	require.True(t, ok, "want validation error, got %v", err)
	assert.Equal(t, "Password must be at most 72 bytes long", v.Fields["password"])

	reg := register(t, svc)
	_, err = svc.UpdatePassword(context.Background(), identity(reg.Admin), goodPwd, long)
	v, ok = apperr.AsValidation(err)
	require.True(t, ok, "want validation error, got %v", err)
	assert.Contains(t, v.Fields, "newPassword")

	_, err = svc.Register(context.Background(), RegisterInput{Username: "coach2", Email: "c2@gym.example", Password: strings.Repeat("p", 72), SecretKey: regKey})
	assert.NoError(t, err)
}

func TestLogin(t *testing.T) {
	svc, _ := newService(regKey)
	reg := register(t, svc)

	sess, err := svc.Login(context.Background(), "coach", goodPwd)
	require.NoError(t, err)
	assert.Equal(t, reg.Admin.ID, sess.Admin.ID)

	for _, c := range []struct{ user, pass string }{
		{"coach", "wrong password"},
		{"stranger", goodPwd},
		{"", ""},
	} {
		_, err := svc.Login(context.Background(), c.user, c.pass)
		assert.ErrorIs(t, err, ErrInvalidCredentials, c.user)
	}
}

func TestMe(t *testing.T) {
	svc, _ := newService(regKey)
	reg := register(t, svc)

	a, err := svc.Me(context.Background(), identity(reg.Admin))
	require.NoError(t, err)
	assert.Equal(t, "coach", a.Username)

	_, err = svc.Me(context.Background(), session.Identity{})
	assert.ErrorIs(t, err, session.ErrUnauthorized)
}

func TestUpdatePassword(t *testing.T) {
	svc, _ := newService(regKey)
	reg := register(t, svc)
	ctx := context.Background()
	id := identity(reg.Admin)

	_, err := svc.UpdatePassword(ctx, id, "not it", "brand new pass")
	assert.ErrorIs(t, err, ErrWrongPassword)

	_, err = svc.UpdatePassword(ctx, id, goodPwd, "tiny")
	v, ok := apperr.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, v.Fields, "newPassword")

	sess, err := svc.UpdatePassword(ctx, id, goodPwd, "brand new pass")
	require.NoError(t, err)
	assert.NotEmpty(t, sess.Token)

	_, err = svc.Login(ctx, "coach", goodPwd)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, "coach", "brand new pass")
	assert.NoError(t, err)
}
