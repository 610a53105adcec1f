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

var (
	ErrPlanNotFound   = apperr.NotFound("Plan not found")
	ErrDuplicateTitle = apperr.Conflict("A plan with this title already exists.")
)

const defaultAvailability = "always"

type PlanInput struct {
	Title              string          `json:"title"`
	Description        string          `json:"description"`
	Type               string          `json:"type"`
	Price              *Amount         `json:"price"`
	Features           []model.Feature `json:"features"`
	IsPopular          *bool           `json:"isPopular"`
	Availability       string          `json:"availability"`
	Active             *bool           `json:"active"`
	TermsAndConditions string          `json:"termsAndConditions"`
	Metadata           *MetadataInput  `json:"metadata"`
}

// MetadataInput is merged into the stored metadata; absent counters keep
// their current value.
type MetadataInput struct {
	Views          *int64   `json:"views"`
	Subscriptions  *int64   `json:"subscriptions"`
	ConversionRate *float64 `json:"conversionRate"`
}

// ListPlans is the public plan list, cheapest first.
func (s *Service) ListPlans(ctx context.Context) ([]model.Plan, error) {
	if s.cache == nil {
		return s.plans.List(ctx)
	}
	return s.cache.Plans(ctx, s.plans.List)
}

func (s *Service) GetPlan(ctx context.Context, id string) (model.Plan, error) {
	if !validID(id) {
		return model.Plan{}, ErrPlanNotFound
	}
	p, err := s.plans.FindPlan(ctx, id)
	if err != nil {
		return model.Plan{}, planErr(err, "get plan")
	}
	return p, nil
}

func (s *Service) CreatePlan(ctx context.Context, admin session.Identity, in PlanInput) (model.Plan, error) {
	if !admin.Valid() {
		return model.Plan{}, session.ErrUnauthorized
	}
	plan := model.Plan{
		ID:           s.newID(),
		Availability: defaultAvailability,
		Active:       true,
	}
	if err := applyPlanInput(&plan, in); err != nil {
		return model.Plan{}, err
	}

	created, err := s.plans.Create(ctx, plan)
	if err != nil {
		return model.Plan{}, planErr(err, "create plan")
	}
	s.planChanged(ctx, admin, "plan.created", created)
	if s.syncer != nil {
		if err := s.syncer.Created(ctx, created); err != nil {
			s.logger.Warn("plan stripe sync failed", "err", err, "plan_id", created.ID)
		}
	}
	return created, nil
}

// UpdatePlan replaces the editable fields of a plan. Metadata is merged
// rather than replaced.
func (s *Service) UpdatePlan(ctx context.Context, admin session.Identity, id string, in PlanInput) (model.Plan, error) {
	if !admin.Valid() {
		return model.Plan{}, session.ErrUnauthorized
	}
	if !validID(id) {
		return model.Plan{}, ErrPlanNotFound
	}
	before, err := s.plans.FindPlan(ctx, id)
	if err != nil {
		return model.Plan{}, planErr(err, "find plan")
	}

	next := before
	if err := applyPlanInput(&next, in); err != nil {
		return model.Plan{}, err
	}
	updated, err := s.plans.Update(ctx, next)
	if err != nil {
		return model.Plan{}, planErr(err, "update plan")
	}
	s.planChanged(ctx, admin, "plan.updated", updated)
	if s.syncer != nil {
		if err := s.syncer.Updated(ctx, before, updated); err != nil {
			s.logger.Warn("plan stripe sync failed", "err", err, "plan_id", updated.ID)
		}
	}
	return updated, nil
}

// DeletePlan removes a plan even when appointments still point at it.
// Those appointments show the deleted-plan placeholder from then on.
func (s *Service) DeletePlan(ctx context.Context, admin session.Identity, id string) error {
	if !admin.Valid() {
		return session.ErrUnauthorized
	}
	if !validID(id) {
		return ErrPlanNotFound
	}
	deleted, err := s.plans.Delete(ctx, id)
	if err != nil {
		return planErr(err, "delete plan")
	}
	s.planChanged(ctx, admin, "plan.deleted", deleted)
	if s.syncer != nil {
		if err := s.syncer.Deleted(ctx, deleted); err != nil {
			s.logger.Warn("plan stripe archive failed", "err", err, "plan_id", deleted.ID)
		}
	}
	return nil
}

func (s *Service) planChanged(ctx context.Context, admin session.Identity, action string, p model.Plan) {
	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
	s.record(ctx, admin.ID, action, "plan", p.ID, map[string]any{
		"title": p.Title,
		"type":  p.Type,
		"price": p.Price,
	})
	s.logger.Info(action, "plan_id", p.ID, "admin_id", admin.ID)
}

func applyPlanInput(p *model.Plan, in PlanInput) error {
	v := apperr.NewValidation()

	p.Title = strings.TrimSpace(in.Title)
	v.Require("title", "Plan title", p.Title)
	p.Description = strings.TrimSpace(in.Description)
	p.TermsAndConditions = strings.TrimSpace(in.TermsAndConditions)

	p.Type = model.PlanType(strings.ToLower(strings.TrimSpace(in.Type)))
	if p.Type == "" {
		p.Type = model.PlanMonthly
	}
	if !p.Type.IsValid() {
		v.Add("type", "Plan type must be one of monthly, quarterly, yearly")
	}

	switch {
	case in.Price == nil:
		v.Add("price", "Price is required")
	case !in.Price.finite():
		v.Add("price", "Price must be a number")
	case *in.Price < 0:
		v.Add("price", "Price cannot be negative")
	default:
		p.Price = float64(*in.Price)
	}

	p.Features = make([]model.Feature, 0, len(in.Features))
	for i, f := range in.Features {
		f.Text = strings.TrimSpace(f.Text)
		f.Description = strings.TrimSpace(f.Description)
		if f.Text == "" {
			v.Add(fmt.Sprintf("features[%d].text", i), "Feature text is required")
		}
		if f.Category == "" {
			f.Category = model.FeatureBasic
		}
		if !f.Category.IsValid() {
			v.Add(fmt.Sprintf("features[%d].category", i), fmt.Sprintf("Feature category %q is not supported", f.Category))
		}
		p.Features = append(p.Features, f)
	}

	if a := strings.TrimSpace(in.Availability); a != "" {
		p.Availability = a
	}
	if in.IsPopular != nil {
		p.IsPopular = *in.IsPopular
	}
	if in.Active != nil {
		p.Active = *in.Active
	}
	if m := in.Metadata; m != nil {
		if m.Views != nil {
			p.Metadata.Views = *m.Views
		}
		if m.Subscriptions != nil {
			p.Metadata.Subscriptions = *m.Subscriptions
		}
		if m.ConversionRate != nil {
			p.Metadata.ConversionRate = *m.ConversionRate
		}
	}
	return v.Err()
}

func planErr(err error, op string) error {
	switch {
	case storage.IsNotFound(err):
		return ErrPlanNotFound
	case storage.IsDuplicate(err):
		return ErrDuplicateTitle
	}
	return fmt.Errorf("%s: %w", op, err)
}
