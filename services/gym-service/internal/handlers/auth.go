package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/md-rashed-zaman/gymdesk/libs/httpx"
	"github.com/md-rashed-zaman/gymdesk/services/gym-service/internal/accounts"
	"github.com/md-rashed-zaman/gymdesk/services/gym-service/internal/model"
	"github.com/md-rashed-zaman/gymdesk/services/gym-service/internal/session"
)

type AccountService interface {
	Register(ctx context.Context, in accounts.RegisterInput) (accounts.Session, error)
	Login(ctx context.Context, username, password string) (accounts.Session, error)
	Me(ctx context.Context, admin session.Identity) (model.Admin, error)
	UpdatePassword(ctx context.Context, admin session.Identity, current, next string) (accounts.Session, error)
}

type AuthHandler struct {
	svc    AccountService
	logger *slog.Logger
}

func NewAuthHandler(svc AccountService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, logger: logger}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type updatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type sessionResponse struct {
	Success bool         `json:"success"`
	Token   string       `json:"token"`
	Admin   *model.Admin `json:"admin,omitempty"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req accounts.RegisterInput
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	sess, err := h.svc.Register(r.Context(), req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, sessionResponse{Success: true, Token: sess.Token, Admin: &sess.Admin})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	sess, err := h.svc.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, sessionResponse{Success: true, Token: sess.Token, Admin: &sess.Admin})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request, admin session.Identity) {
	a, err := h.svc.Me(r.Context(), admin)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeData(w, http.StatusOK, a)
}

func (h *AuthHandler) UpdatePassword(w http.ResponseWriter, r *http.Request, admin session.Identity) {
	var req updatePasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	sess, err := h.svc.UpdatePassword(r.Context(), admin, req.CurrentPassword, req.NewPassword)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, sessionResponse{Success: true, Token: sess.Token})
}
