package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/md-rashed-zaman/gymdesk/services/gym-service/internal/catalog"
	"github.com/md-rashed-zaman/gymdesk/services/gym-service/internal/model"
	"github.com/md-rashed-zaman/gymdesk/services/gym-service/internal/session"
)

type CatalogService interface {
	ListPlans(ctx context.Context) ([]model.Plan, error)
	GetPlan(ctx context.Context, id string) (model.Plan, error)
	CreatePlan(ctx context.Context, admin session.Identity, in catalog.PlanInput) (model.Plan, error)
	UpdatePlan(ctx context.Context, admin session.Identity, id string, in catalog.PlanInput) (model.Plan, error)
	DeletePlan(ctx context.Context, admin session.Identity, id string) error

	ListPromotions(ctx context.Context) ([]model.Promotion, error)
	CreatePromotion(ctx context.Context, admin session.Identity, in catalog.PromotionInput) (model.Promotion, error)
	UpdatePromotion(ctx context.Context, admin session.Identity, id string, in catalog.PromotionInput) (model.Promotion, error)
	DeletePromotion(ctx context.Context, admin session.Identity, id string) error
	ApplyPromotion(ctx context.Context, admin session.Identity, code, planID string) (catalog.ApplyResult, error)

	ListEvents(ctx context.Context) ([]model.Event, error)
	CreateEvent(ctx context.Context, admin session.Identity, in catalog.EventInput) (model.Event, error)
	UpdateEvent(ctx context.Context, admin session.Identity, id string, in catalog.EventInput) (model.Event, error)
	DeleteEvent(ctx context.Context, admin session.Identity, id string) error

	Analytics(ctx context.Context, admin session.Identity) (catalog.Report, error)
}

type PricingHandler struct {
	svc    CatalogService
	logger *slog.Logger
}

func NewPricingHandler(svc CatalogService, logger *slog.Logger) *PricingHandler {
	return &PricingHandler{svc: svc, logger: logger}
}

// respond writes data, or the mapped error when err is set.
func (h *PricingHandler) respond(w http.ResponseWriter, r *http.Request, status int, data any, err error) {
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeData(w, status, data)
}

func (h *PricingHandler) ListPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := h.svc.ListPlans(r.Context())
	h.respond(w, r, http.StatusOK, plans, err)
}

func (h *PricingHandler) GetPlan(w http.ResponseWriter, r *http.Request) {
	plan, err := h.svc.GetPlan(r.Context(), r.PathValue("id"))
	h.respond(w, r, http.StatusOK, plan, err)
}

func (h *PricingHandler) CreatePlan(w http.ResponseWriter, r *http.Request, admin session.Identity) {
	var in catalog.PlanInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	plan, err := h.svc.CreatePlan(r.Context(), admin, in)
	h.respond(w, r, http.StatusCreated, plan, err)
}

func (h *PricingHandler) UpdatePlan(w http.ResponseWriter, r *http.Request, admin session.Identity) {
	var in catalog.PlanInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	plan, err := h.svc.UpdatePlan(r.Context(), admin, r.PathValue("id"), in)
	h.respond(w, r, http.StatusOK, plan, err)
}

func (h *PricingHandler) DeletePlan(w http.ResponseWriter, r *http.Request, admin session.Identity) {
	if err := h.svc.DeletePlan(r.Context(), admin, r.PathValue("id")); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeMessage(w, http.StatusOK, "Plan deleted successfully")
}

func (h *PricingHandler) ListPromotions(w http.ResponseWriter, r *http.Request) {
	promos, err := h.svc.ListPromotions(r.Context())
	h.respond(w, r, http.StatusOK, promos, err)
}

func (h *PricingHandler) CreatePromotion(w http.ResponseWriter, r *http.Request, admin session.Identity) {
	var in catalog.PromotionInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	promo, err := h.svc.CreatePromotion(r.Context(), admin, in)
	h.respond(w, r, http.StatusCreated, promo, err)
}

func (h *PricingHandler) UpdatePromotion(w http.ResponseWriter, r *http.Request, admin session.Identity) {
	var in catalog.PromotionInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	promo, err := h.svc.UpdatePromotion(r.Context(), admin, r.PathValue("id"), in)
	h.respond(w, r, http.StatusOK, promo, err)
}

func (h *PricingHandler) DeletePromotion(w http.ResponseWriter, r *http.Request, admin session.Identity) {
	if err := h.svc.DeletePromotion(r.Context(), admin, r.PathValue("id")); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type applyPromotionRequest struct {
	Code   string `json:"code"`
	PlanID string `json:"planId"`
}

func (h *PricingHandler) ApplyPromotion(w http.ResponseWriter, r *http.Request, admin session.Identity) {
	var req applyPromotionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	res, err := h.svc.ApplyPromotion(r.Context(), admin, req.Code, req.PlanID)
	h.respond(w, r, http.StatusOK, res, err)
}

func (h *PricingHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.svc.ListEvents(r.Context())
	h.respond(w, r, http.StatusOK, events, err)
}

func (h *PricingHandler) CreateEvent(w http.ResponseWriter, r *http.Request, admin session.Identity) {
	var in catalog.EventInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	event, err := h.svc.CreateEvent(r.Context(), admin, in)
	h.respond(w, r, http.StatusCreated, event, err)
}

func (h *PricingHandler) UpdateEvent(w http.ResponseWriter, r *http.Request, admin session.Identity) {
	var in catalog.EventInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	event, err := h.svc.UpdateEvent(r.Context(), admin, r.PathValue("id"), in)
	h.respond(w, r, http.StatusOK, event, err)
}

func (h *PricingHandler) DeleteEvent(w http.ResponseWriter, r *http.Request, admin session.Identity) {
	if err := h.svc.DeleteEvent(r.Context(), admin, r.PathValue("id")); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *PricingHandler) Analytics(w http.ResponseWriter, r *http.Request, admin session.Identity) {
	report, err := h.svc.Analytics(r.Context(), admin)
	h.respond(w, r, http.StatusOK, report, err)
}
