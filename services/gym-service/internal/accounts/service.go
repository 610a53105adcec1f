// Package accounts handles admin registration, login and password changes.
package accounts

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/md-rashed-zaman/gymdesk/libs/auth"
	"github.com/md-rashed-zaman/gymdesk/services/gym-service/internal/apperr"
	"github.com/md-rashed-zaman/gymdesk/services/gym-service/internal/model"
	"github.com/md-rashed-zaman/gymdesk/services/gym-service/internal/session"
	"github.com/md-rashed-zaman/gymdesk/services/gym-service/internal/storage"
)

var (
	ErrRegistrationClosed = apperr.Forbidden("Admin registration is disabled")
	ErrInvalidSecretKey   = apperr.Forbidden("Invalid registration key")
	ErrInvalidCredentials = apperr.Unauthorized("Invalid credentials")
	ErrWrongPassword      = apperr.Unauthorized("Current password is incorrect")
	ErrAdminExists        = apperr.Conflict("An admin with this username or email already exists.")
	ErrAdminNotFound      = apperr.NotFound("Admin not found")
)

const (
	defaultTokenTTL = 24 * time.Hour
	minUsernameLen  = 3
)

type Store interface {
	Create(ctx context.Context, a model.Admin) error
	GetByID(ctx context.Context, id string) (model.Admin, error)
	GetByUsername(ctx context.Context, username string) (model.Admin, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}

type Config struct {
	JWTSecret string
	TokenTTL  time.Duration
	// RegistrationKey must be presented to register. Empty closes registration.
	RegistrationKey string
}

type Service struct {
	store  Store
	cfg    Config
	logger *slog.Logger
	now    func() time.Time
	newID  func() string
}

func NewService(store Store, cfg Config, logger *slog.Logger) *Service {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = defaultTokenTTL
	}
	return &Service{store: store, cfg: cfg, logger: logger, now: time.Now, newID: uuid.NewString}
}

// Session is a signed token and the admin it was issued to.
type Session struct {
	Token string
	Admin model.Admin
}

type RegisterInput struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	SecretKey string `json:"secretKey"`
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (Session, error) {
	if s.cfg.RegistrationKey == "" {
		return Session{}, ErrRegistrationClosed
	}
	if subtle.ConstantTimeCompare([]byte(in.SecretKey), []byte(s.cfg.RegistrationKey)) != 1 {
		return Session{}, ErrInvalidSecretKey
	}

	a := model.Admin{
		ID:        s.newID(),
		Username:  strings.TrimSpace(in.Username),
		Email:     strings.ToLower(strings.TrimSpace(in.Email)),
		CreatedAt: s.now().UTC(),
	}
	v := apperr.NewValidation()
	v.Require("username", "Username", a.Username)
	if a.Username != "" && len([]rune(a.Username)) < minUsernameLen {
		v.Add("username", fmt.Sprintf("Username must be at least %d characters long", minUsernameLen))
	}
	v.Require("email", "Email", a.Email)
	if a.Email != "" && !model.ValidEmail(a.Email) {
		v.Add("email", "Please enter a valid email address")
	}
	checkPassword(v, "password", in.Password)
	if err := v.Err(); err != nil {
		return Session{}, err
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		return Session{}, fmt.Errorf("hash password: %w", err)
	}
	a.PasswordHash = hash
	if err := s.store.Create(ctx, a); err != nil {
		if storage.IsDuplicate(err) {
			return Session{}, ErrAdminExists
		}
		return Session{}, fmt.Errorf("create admin: %w", err)
	}
	s.logger.Info("admin registered", "admin_id", a.ID, "username", a.Username)
	return s.issue(a)
}

func (s *Service) Login(ctx context.Context, username, password string) (Session, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return Session{}, ErrInvalidCredentials
	}
	a, err := s.store.GetByUsername(ctx, username)
	if err != nil {
		if storage.IsNotFound(err) {
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, fmt.Errorf("load admin: %w", err)
	}
	if err := verifyPassword(a.PasswordHash, password); err != nil {
		s.logger.Warn("admin login failed", "admin_id", a.ID)
		return Session{}, ErrInvalidCredentials
	}
	return s.issue(a)
}

func (s *Service) Me(ctx context.Context, admin session.Identity) (model.Admin, error) {
	if !admin.Valid() {
		return model.Admin{}, session.ErrUnauthorized
	}
	a, err := s.store.GetByID(ctx, admin.ID)
	if err != nil {
		if storage.IsNotFound(err) {
			return model.Admin{}, ErrAdminNotFound
		}
		return model.Admin{}, fmt.Errorf("load admin: %w", err)
	}
	return a, nil
}

// UpdatePassword checks the current password, stores the new one and
// returns a fresh token.
func (s *Service) UpdatePassword(ctx context.Context, admin session.Identity, current, next string) (Session, error) {
	a, err := s.Me(ctx, admin)
	if err != nil {
		return Session{}, err
	}
	if err := verifyPassword(a.PasswordHash, current); err != nil {
		return Session{}, ErrWrongPassword
	}
	v := apperr.NewValidation()
	checkPassword(v, "newPassword", next)
	if err := v.Err(); err != nil {
		return Session{}, err
	}

	hash, err := hashPassword(next)
	if err != nil {
		return Session{}, fmt.Errorf("hash password: %w", err)
	}
	if err := s.store.UpdatePassword(ctx, a.ID, hash); err != nil {
		return Session{}, fmt.Errorf("update password: %w", err)
	}
	a.PasswordHash = hash
	s.logger.Info("admin password updated", "admin_id", a.ID)
	return s.issue(a)
}

func (s *Service) issue(a model.Admin) (Session, error) {
	token, err := auth.SignHS256(auth.NewClaims(a.ID, a.Username, s.cfg.TokenTTL, s.now()), s.cfg.JWTSecret)
	if err != nil {
		return Session{}, fmt.Errorf("sign token: %w", err)
	}
	return Session{Token: token, Admin: a}, nil
}

func checkPassword(v *apperr.ValidationError, field, pw string) {
	switch {
	case pw == "":
		v.Add(field, "Password is required")
	case len(pw) < minPasswordLen:
		v.Add(field, fmt.Sprintf("Password must be at least %d characters long", minPasswordLen))
	case len(pw) > maxPasswordBytes:
		v.Add(field, fmt.Sprintf("Password must be at most %d bytes long", maxPasswordBytes))
	}
}
