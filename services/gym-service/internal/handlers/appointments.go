package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/md-rashed-zaman/gymdesk/services/gym-service/internal/appointments"
	"github.com/md-rashed-zaman/gymdesk/services/gym-service/internal/session"
)

type AppointmentService interface {
	Create(ctx context.Context, in appointments.CreateInput) (appointments.View, error)
	List(ctx context.Context, admin session.Identity, status string) ([]appointments.View, error)
	UpdateStatus(ctx context.Context, admin session.Identity, id, status string) (appointments.View, error)
}

type AppointmentHandler struct {
	svc    AppointmentService
	logger *slog.Logger
}

func NewAppointmentHandler(svc AppointmentService, logger *slog.Logger) *AppointmentHandler {
	return &AppointmentHandler{svc: svc, logger: logger}
}

type createAppointmentRequest struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	PreferredDate string `json:"preferredDate"`
	Message       string `json:"message"`
	PlanID        string `json:"planId"`
}

func (h *AppointmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createAppointmentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	view, err := h.svc.Create(r.Context(), appointments.CreateInput{
		Name:          req.Name,
		Email:         req.Email,
		Phone:         req.Phone,
		PreferredDate: req.PreferredDate,
		Message:       req.Message,
		PlanID:        req.PlanID,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeData(w, http.StatusCreated, view)
}

func (h *AppointmentHandler) List(w http.ResponseWriter, r *http.Request, admin session.Identity) {
	views, err := h.svc.List(r.Context(), admin, r.URL.Query().Get("status"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeData(w, http.StatusOK, views)
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (h *AppointmentHandler) UpdateStatus(w http.ResponseWriter, r *http.Request, admin session.Identity) {
	var req updateStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	view, err := h.svc.UpdateStatus(r.Context(), admin, r.PathValue("id"), req.Status)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeData(w, http.StatusOK, view)
}
