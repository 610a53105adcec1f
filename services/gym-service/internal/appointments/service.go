// Package appointments owns the appointment lifecycle: public booking against
// a plan, the admin listing, and admin status changes.
package appointments

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/md-rashed-zaman/gymdesk/services/gym-service/internal/apperr"
	"github.com/md-rashed-zaman/gymdesk/services/gym-service/internal/model"
	"github.com/md-rashed-zaman/gymdesk/services/gym-service/internal/session"
	"github.com/md-rashed-zaman/gymdesk/services/gym-service/internal/storage"
)

var (
	ErrPlanNotFound        = apperr.NotFound("Selected plan not found")
	ErrAppointmentNotFound = apperr.NotFound("Appointment not found")
)

// PlanFinder is the one capability needed from the plan catalog.
type PlanFinder interface {
	FindPlan(ctx context.Context, id string) (model.Plan, error)
}

type Store interface {
	Create(ctx context.Context, appt model.Appointment) error
	List(ctx context.Context, status model.AppointmentStatus) ([]model.AppointmentRow, error)
	UpdateStatus(ctx context.Context, id string, status model.AppointmentStatus) (model.AppointmentRow, error)
}

type Service struct {
	plans  PlanFinder
	store  Store
	logger *slog.Logger
	now    func() time.Time
	newID  func() string
}

func NewService(plans PlanFinder, store Store, logger *slog.Logger) *Service {
	return &Service{
		plans:  plans,
		store:  store,
		logger: logger,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// CreateInput is a booking request as submitted. PreferredDate is the raw
// form value; see model.ParseTime for the accepted layouts.
type CreateInput struct {
	Name          string
	Email         string
	Phone         string
	PreferredDate string
	Message       string
	PlanID        string
}

// Create books an appointment. The plan must exist right now; nothing is
// written when it does not.
func (s *Service) Create(ctx context.Context, in CreateInput) (View, error) {
	planID := strings.TrimSpace(in.PlanID)
	if _, err := uuid.Parse(planID); err != nil {
		return View{}, ErrPlanNotFound
	}
	plan, err := s.plans.FindPlan(ctx, planID)
	if err != nil {
		if storage.IsNotFound(err) {
			return View{}, ErrPlanNotFound
		}
		return View{}, fmt.Errorf("find plan: %w", err)
	}

	appt := model.Appointment{
		ID:        s.newID(),
		Name:      strings.TrimSpace(in.Name),
		Email:     strings.ToLower(strings.TrimSpace(in.Email)),
		Phone:     strings.TrimSpace(in.Phone),
		Message:   strings.TrimSpace(in.Message),
		PlanID:    plan.ID,
		Status:    model.StatusPending,
		CreatedAt: s.now().UTC(),
	}
	if err := validate(&appt, in.PreferredDate); err != nil {
		return View{}, err
	}
	if err := s.store.Create(ctx, appt); err != nil {
		return View{}, fmt.Errorf("create appointment: %w", err)
	}

	return View{
		ID:            appt.ID,
		Name:          appt.Name,
		Email:         appt.Email,
		Phone:         appt.Phone,
		PreferredDate: appt.PreferredDate,
		Message:       appt.Message,
		Plan:          ResolvePlan(&plan),
		Status:        appt.Status,
		CreatedAt:     appt.CreatedAt,
	}, nil
}

// validate checks the trimmed fields and parses the preferred date into a.
func validate(a *model.Appointment, preferredDate string) error {
	v := apperr.NewValidation()
	v.Require("name", "Name", a.Name)
	v.Require("email", "Email", a.Email)
	v.Require("phone", "Phone number", a.Phone)
	if strings.TrimSpace(preferredDate) == "" {
		v.Add("preferredDate", "Preferred date is required")
	} else if t, err := model.ParseTime(preferredDate); err != nil {
		v.Add("preferredDate", "Preferred date is not a valid date")
	} else {
		a.PreferredDate = t
	}
	return v.Err()
}

// List returns every well-formed appointment, newest first. A non-empty
// status narrows the result.
func (s *Service) List(ctx context.Context, admin session.Identity, status string) ([]View, error) {
	if !admin.Valid() {
		return nil, session.ErrUnauthorized
	}
	var filter model.AppointmentStatus
	if status = strings.ToLower(strings.TrimSpace(status)); status != "" {
		filter = model.AppointmentStatus(status)
		if !filter.IsValid() {
			return nil, invalidStatus()
		}
	}

	rows, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	views := make([]View, 0, len(rows))
	for _, row := range rows {
		v, ok := normalize(row)
		if !ok {
			s.logger.Warn("skipping malformed appointment", "appointment_id", row.ID)
			continue
		}
		views = append(views, v)
	}
	return views, nil
}

// UpdateStatus overwrites the status of one appointment. Any status may
// follow any other; concurrent updates are last-write-wins.
func (s *Service) UpdateStatus(ctx context.Context, admin session.Identity, id, status string) (View, error) {
	if !admin.Valid() {
		return View{}, session.ErrUnauthorized
	}
	next := model.AppointmentStatus(strings.ToLower(strings.TrimSpace(status)))
	if !next.IsValid() {
		return View{}, invalidStatus()
	}
	if _, err := uuid.Parse(id); err != nil {
		return View{}, ErrAppointmentNotFound
	}

	row, err := s.store.UpdateStatus(ctx, id, next)
	if err != nil {
		if storage.IsNotFound(err) {
			return View{}, ErrAppointmentNotFound
		}
		return View{}, fmt.Errorf("update appointment status: %w", err)
	}
	v, ok := normalize(row)
	if !ok {
		s.logger.Warn("status updated on malformed appointment", "appointment_id", row.ID)
	}
	s.logger.Info("appointment status updated", "appointment_id", v.ID, "status", v.Status, "admin_id", admin.ID)
	return v, nil
}

func invalidStatus() error {
	v := apperr.NewValidation()
	v.Add("status", "Status must be one of pending, confirmed, cancelled")
	return v
}
