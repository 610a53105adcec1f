package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/md-rashed-zaman/gymdesk/services/gym-service/internal/apperr"
	"github.com/md-rashed-zaman/gymdesk/services/gym-service/internal/model"
	"github.com/md-rashed-zaman/gymdesk/services/gym-service/internal/session"
	"github.com/md-rashed-zaman/gymdesk/services/gym-service/internal/storage"
)

var ErrEventNotFound = apperr.NotFound("Event not found")

type EventInput struct {
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	StartDate       string   `json:"startDate"`
	EndDate         string   `json:"endDate"`
	DiscountType    string   `json:"discountType"`
	DiscountValue   *Amount  `json:"discountValue"`
	ApplicablePlans []string `json:"applicablePlans"`
	Active          *bool    `json:"active"`
}

// ListEvents returns events ordered by start date.
func (s *Service) ListEvents(ctx context.Context) ([]model.Event, error) {
	return s.events.List(ctx)
}

func (s *Service) CreateEvent(ctx context.Context, admin session.Identity, in EventInput) (model.Event, error) {
	if !admin.Valid() {
		return model.Event{}, session.ErrUnauthorized
	}
	e := model.Event{ID: s.newID(), CreatedAt: s.now().UTC()}
	if err := applyEventInput(&e, in); err != nil {
		return model.Event{}, err
	}
	created, err := s.events.Create(ctx, e)
	if err != nil {
		return model.Event{}, eventErr(err, "create event")
	}
	s.record(ctx, admin.ID, "event.created", "event", created.ID, map[string]any{"title": created.Title})
	return created, nil
}

func (s *Service) UpdateEvent(ctx context.Context, admin session.Identity, id string, in EventInput) (model.Event, error) {
	if !admin.Valid() {
		return model.Event{}, session.ErrUnauthorized
	}
	if !validID(id) {
		return model.Event{}, ErrEventNotFound
	}
	e, err := s.events.Get(ctx, id)
	if err != nil {
		return model.Event{}, eventErr(err, "get event")
	}
	if err := applyEventInput(&e, in); err != nil {
		return model.Event{}, err
	}
	updated, err := s.events.Update(ctx, e)
	if err != nil {
		return model.Event{}, eventErr(err, "update event")
	}
	s.record(ctx, admin.ID, "event.updated", "event", updated.ID, map[string]any{"title": updated.Title})
	return updated, nil
}

func (s *Service) DeleteEvent(ctx context.Context, admin session.Identity, id string) error {
	if !admin.Valid() {
		return session.ErrUnauthorized
	}
	if !validID(id) {
		return ErrEventNotFound
	}
	if err := s.events.Delete(ctx, id); err != nil {
		return eventErr(err, "delete event")
	}
	s.record(ctx, admin.ID, "event.deleted", "event", id, nil)
	return nil
}

func applyEventInput(e *model.Event, in EventInput) error {
	v := apperr.NewValidation()

	e.Title = strings.TrimSpace(in.Title)
	v.Require("title", "Event title", e.Title)
	e.Description = strings.TrimSpace(in.Description)
	v.Require("description", "Event description", e.Description)

	e.StartDate, e.EndDate = parseWindow(v, in.StartDate, in.EndDate)

	e.DiscountType = model.DiscountType(strings.ToLower(strings.TrimSpace(in.DiscountType)))
	if !e.DiscountType.IsValid() {
		v.Add("discountType", "Discount type must be percentage or fixed")
	}
	checkDiscount(v, "discountValue", e.DiscountType, in.DiscountValue, &e.DiscountValue)

	e.ApplicablePlans = planIDs(v, in.ApplicablePlans)
	e.Active = in.Active == nil || *in.Active
	return v.Err()
}

func eventErr(err error, op string) error {
	if storage.IsNotFound(err) {
		return ErrEventNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}
