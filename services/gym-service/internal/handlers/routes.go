package handlers

import (
	"net/http"

	"github.com/md-rashed-zaman/gymdesk/libs/httpx"
	"github.com/md-rashed-zaman/gymdesk/services/gym-service/internal/session"
)

type Routes struct {
	Guard        *session.Guard
	Appointments *AppointmentHandler
	Auth         *AuthHandler
	Pricing      *PricingHandler
	Trainers     *TrainerHandler
	// PublicWriteLimit throttles the unauthenticated write endpoints.
	// Nil disables throttling.
	PublicWriteLimit httpx.Middleware
}

func (rt Routes) Register(mux *http.ServeMux) {
	limited := func(h http.HandlerFunc) http.Handler {
		if rt.PublicWriteLimit == nil {
			return h
		}
		return rt.PublicWriteLimit(h)
	}
	guard := rt.Guard.Require

	a := rt.Appointments
	mux.Handle("POST /api/appointments", limited(a.Create))
	mux.Handle("GET /api/appointments", guard(a.List))
	mux.Handle("PUT /api/appointments/{id}/status", guard(a.UpdateStatus))

	au := rt.Auth
	mux.HandleFunc("POST /api/auth/register", au.Register)
	mux.Handle("POST /api/auth/login", limited(au.Login))
	mux.Handle("GET /api/auth/me", guard(au.Me))
	mux.Handle("PUT /api/auth/updatepassword", guard(au.UpdatePassword))
	mux.Handle("PUT /api/auth/update-password", guard(au.UpdatePassword))

	p := rt.Pricing
	mux.HandleFunc("GET /api/pricing/plans", p.ListPlans)
	mux.HandleFunc("GET /api/pricing/plans/{id}", p.GetPlan)
	mux.Handle("POST /api/pricing/plans", guard(p.CreatePlan))
	mux.Handle("PUT /api/pricing/plans/{id}", guard(p.UpdatePlan))
	mux.Handle("DELETE /api/pricing/plans/{id}", guard(p.DeletePlan))
	mux.HandleFunc("GET /api/pricing/promotions", p.ListPromotions)
	mux.Handle("POST /api/pricing/promotions", guard(p.CreatePromotion))
	mux.Handle("POST /api/pricing/promotions/apply", guard(p.ApplyPromotion))
	mux.Handle("PUT /api/pricing/promotions/{id}", guard(p.UpdatePromotion))
	mux.Handle("DELETE /api/pricing/promotions/{id}", guard(p.DeletePromotion))
	mux.HandleFunc("GET /api/pricing/events", p.ListEvents)
	mux.Handle("POST /api/pricing/events", guard(p.CreateEvent))
	mux.Handle("PUT /api/pricing/events/{id}", guard(p.UpdateEvent))
	mux.Handle("DELETE /api/pricing/events/{id}", guard(p.DeleteEvent))
	mux.Handle("GET /api/pricing/analytics", guard(p.Analytics))

	t := rt.Trainers
	mux.HandleFunc("GET /api/trainers", t.List)
	mux.HandleFunc("GET /api/trainers/{id}", t.Get)
	mux.Handle("POST /api/trainers", guard(t.Create))
	mux.Handle("PUT /api/trainers/{id}", guard(t.Update))
	mux.Handle("DELETE /api/trainers/{id}", guard(t.Delete))
	mux.Handle("PATCH /api/trainers/{id}/toggle-status", guard(t.ToggleStatus))
}
