package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/md-rashed-zaman/gymdesk/services/gym-service/internal/model"
	"github.com/md-rashed-zaman/gymdesk/services/gym-service/internal/session"
	"github.com/md-rashed-zaman/gymdesk/services/gym-service/internal/trainers"
)

type TrainerService interface {
	List(ctx context.Context) ([]model.Trainer, error)
	Get(ctx context.Context, id string) (model.Trainer, error)
	Create(ctx context.Context, admin session.Identity, in trainers.Input) (model.Trainer, error)
	Update(ctx context.Context, admin session.Identity, id string, in trainers.Input) (model.Trainer, error)
	Delete(ctx context.Context, admin session.Identity, id string) error
	ToggleStatus(ctx context.Context, admin session.Identity, id string) (model.Trainer, error)
}

type TrainerHandler struct {
	svc    TrainerService
	logger *slog.Logger
}

func NewTrainerHandler(svc TrainerService, logger *slog.Logger) *TrainerHandler {
	return &TrainerHandler{svc: svc, logger: logger}
}

func (h *TrainerHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.List(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeData(w, http.StatusOK, list)
}

func (h *TrainerHandler) Get(w http.ResponseWriter, r *http.Request) {
	t, err := h.svc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeData(w, http.StatusOK, t)
}

func (h *TrainerHandler) Create(w http.ResponseWriter, r *http.Request, admin session.Identity) {
	var in trainers.Input
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	t, err := h.svc.Create(r.Context(), admin, in)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeData(w, http.StatusCreated, t)
}

func (h *TrainerHandler) Update(w http.ResponseWriter, r *http.Request, admin session.Identity) {
	var in trainers.Input
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	t, err := h.svc.Update(r.Context(), admin, r.PathValue("id"), in)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeData(w, http.StatusOK, t)
}

func (h *TrainerHandler) Delete(w http.ResponseWriter, r *http.Request, admin session.Identity) {
	if err := h.svc.Delete(r.Context(), admin, r.PathValue("id")); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *TrainerHandler) ToggleStatus(w http.ResponseWriter, r *http.Request, admin session.Identity) {
	t, err := h.svc.ToggleStatus(r.Context(), admin, r.PathValue("id"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeData(w, http.StatusOK, t)
}
