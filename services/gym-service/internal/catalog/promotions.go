package catalog

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/md-rashed-zaman/gymdesk/services/gym-service/internal/apperr"
	"github.com/md-rashed-zaman/gymdesk/services/gym-service/internal/model"
	"github.com/md-rashed-zaman/gymdesk/services/gym-service/internal/session"
	"github.com/md-rashed-zaman/gymdesk/services/gym-service/internal/storage"
)

var (
	ErrPromotionNotFound  = apperr.NotFound("Promotion not found")
	ErrDuplicateCode      = apperr.Conflict("A promotion with this code already exists.")
	ErrInvalidPromotion   = apperr.NotFound("Invalid or expired promotion code")
	ErrPromotionExhausted = apperr.Invalid("Promotion code has reached maximum uses")
	ErrNotApplicable      = apperr.Invalid("Promotion not applicable to this plan")
	ErrBelowMinimum       = apperr.Invalid("Plan price is below the minimum purchase amount for this promotion")
)

type PromotionInput struct {
	Code              string   `json:"code"`
	Type              string   `json:"type"`
	Value             *Amount  `json:"value"`
	StartDate         string   `json:"startDate"`
	EndDate           string   `json:"endDate"`
	MaxUses           *int     `json:"maxUses"`
	CurrentUses       *int     `json:"currentUses"`
	MinPurchaseAmount *Amount  `json:"minPurchaseAmount"`
	ApplicablePlans   []string `json:"applicablePlans"`
	Active            *bool    `json:"active"`
}

type PromotionSummary struct {
	Code  string             `json:"code"`
	Type  model.DiscountType `json:"type"`
	Value float64            `json:"value"`
}

type ApplyResult struct {
	Discount   float64          `json:"discount"`
	FinalPrice float64          `json:"finalPrice"`
	Plan       model.Plan       `json:"plan"`
	Promotion  PromotionSummary `json:"promotion"`
}

func (s *Service) ListPromotions(ctx context.Context) ([]model.Promotion, error) {
	return s.promotions.List(ctx)
}

func (s *Service) CreatePromotion(ctx context.Context, admin session.Identity, in PromotionInput) (model.Promotion, error) {
	if !admin.Valid() {
		return model.Promotion{}, session.ErrUnauthorized
	}
	p := model.Promotion{ID: s.newID(), CreatedAt: s.now().UTC()}
	if err := applyPromotionInput(&p, in); err != nil {
		return model.Promotion{}, err
	}
	created, err := s.promotions.Create(ctx, p)
	if err != nil {
		return model.Promotion{}, promotionErr(err, "create promotion")
	}
	s.record(ctx, admin.ID, "promotion.created", "promotion", created.ID, map[string]any{"code": created.Code})
	return created, nil
}

// UpdatePromotion replaces the promotion. The usage counter is kept unless
// the request sets it explicitly.
func (s *Service) UpdatePromotion(ctx context.Context, admin session.Identity, id string, in PromotionInput) (model.Promotion, error) {
	if !admin.Valid() {
		return model.Promotion{}, session.ErrUnauthorized
	}
	if !validID(id) {
		return model.Promotion{}, ErrPromotionNotFound
	}
	p, err := s.promotions.Get(ctx, id)
	if err != nil {
		return model.Promotion{}, promotionErr(err, "get promotion")
	}
	if err := applyPromotionInput(&p, in); err != nil {
		return model.Promotion{}, err
	}
	updated, err := s.promotions.Update(ctx, p)
	if err != nil {
		return model.Promotion{}, promotionErr(err, "update promotion")
	}
	s.record(ctx, admin.ID, "promotion.updated", "promotion", updated.ID, map[string]any{"code": updated.Code})
	return updated, nil
}

func (s *Service) DeletePromotion(ctx context.Context, admin session.Identity, id string) error {
	if !admin.Valid() {
		return session.ErrUnauthorized
	}
	if !validID(id) {
		return ErrPromotionNotFound
	}
	if err := s.promotions.Delete(ctx, id); err != nil {
		return promotionErr(err, "delete promotion")
	}
	s.record(ctx, admin.ID, "promotion.deleted", "promotion", id, nil)
	return nil
}

// ApplyPromotion prices planID with the promotion and consumes one use.
// The discount never exceeds the plan price.
func (s *Service) ApplyPromotion(ctx context.Context, admin session.Identity, code, planID string) (ApplyResult, error) {
	if !admin.Valid() {
		return ApplyResult{}, session.ErrUnauthorized
	}
	code = strings.TrimSpace(code)
	planID = strings.TrimSpace(planID)
	if code == "" {
		return ApplyResult{}, ErrInvalidPromotion
	}

	promo, err := s.promotions.GetLiveByCode(ctx, code, s.now().UTC())
	if err != nil {
		if storage.IsNotFound(err) {
			return ApplyResult{}, ErrInvalidPromotion
		}
		return ApplyResult{}, fmt.Errorf("find promotion: %w", err)
	}
	if promo.MaxUses != nil && promo.CurrentUses >= *promo.MaxUses {
		return ApplyResult{}, ErrPromotionExhausted
	}
	if !promo.AppliesTo(planID) {
		return ApplyResult{}, ErrNotApplicable
	}
	plan, err := s.GetPlan(ctx, planID)
	if err != nil {
		return ApplyResult{}, err
	}
	if promo.MinPurchaseAmount != nil && plan.Price < *promo.MinPurchaseAmount {
		return ApplyResult{}, ErrBelowMinimum
	}

	discount := Discount(promo.Type, promo.Value, plan.Price)
	if _, err := s.promotions.IncrementUses(ctx, promo.ID); err != nil {
		if errors.Is(err, storage.ErrExhausted) {
			return ApplyResult{}, ErrPromotionExhausted
		}
		return ApplyResult{}, fmt.Errorf("consume promotion: %w", err)
	}
	s.record(ctx, admin.ID, "promotion.applied", "promotion", promo.ID, map[string]any{
		"code":     promo.Code,
		"plan_id":  plan.ID,
		"discount": discount,
	})

	return ApplyResult{
		Discount:   discount,
		FinalPrice: roundCents(plan.Price - discount),
		Plan:       plan,
		Promotion:  PromotionSummary{Code: promo.Code, Type: promo.Type, Value: promo.Value},
	}, nil
}

// Discount is the amount taken off price, rounded to cents and capped at
// the price itself.
func Discount(t model.DiscountType, value, price float64) float64 {
	var d float64
	if t == model.DiscountPercentage {
		d = price * value / 100
	} else {
		d = value
	}
	d = math.Max(0, math.Min(d, price))
	return roundCents(d)
}

func roundCents(f float64) float64 {
	return math.Round(f*100) / 100
}

func applyPromotionInput(p *model.Promotion, in PromotionInput) error {
	v := apperr.NewValidation()

	p.Code = strings.TrimSpace(in.Code)
	v.Require("code", "Promotion code", p.Code)

	p.Type = model.DiscountType(strings.ToLower(strings.TrimSpace(in.Type)))
	if !p.Type.IsValid() {
		v.Add("type", "Type must be percentage or fixed")
	}
	checkDiscount(v, "value", p.Type, in.Value, &p.Value)

	start, end := parseWindow(v, in.StartDate, in.EndDate)
	p.StartDate, p.EndDate = start, end

	p.MaxUses = in.MaxUses
	if p.MaxUses != nil && *p.MaxUses < 1 {
		v.Add("maxUses", "Maximum uses must be at least 1")
	}
	if in.CurrentUses != nil {
		p.CurrentUses = *in.CurrentUses
	}
	if p.CurrentUses < 0 {
		v.Add("currentUses", "Current uses cannot be negative")
	}
	if p.MaxUses != nil && p.CurrentUses > *p.MaxUses {
		v.Add("currentUses", "Current uses cannot exceed maximum uses")
	}

	p.MinPurchaseAmount = nil
	if in.MinPurchaseAmount != nil {
		switch {
		case !in.MinPurchaseAmount.finite():
			v.Add("minPurchaseAmount", "Minimum purchase amount must be a number")
		case *in.MinPurchaseAmount < 0:
			v.Add("minPurchaseAmount", "Minimum purchase amount cannot be negative")
		}
		amount := float64(*in.MinPurchaseAmount)
		p.MinPurchaseAmount = &amount
	}

	p.ApplicablePlans = planIDs(v, in.ApplicablePlans)
	p.Active = in.Active == nil || *in.Active
	return v.Err()
}

// checkDiscount validates a discount amount and stores it in dst.
func checkDiscount(v *apperr.ValidationError, field string, t model.DiscountType, in *Amount, dst *float64) {
	switch {
	case in == nil:
		v.Add(field, "Discount value is required")
	case !in.finite():
		v.Add(field, "Discount value must be a number")
	case *in < 0:
		v.Add(field, "Discount value cannot be negative")
	case t == model.DiscountPercentage && *in > 100:
		v.Add(field, "Percentage discount must be between 0 and 100")
	default:
		*dst = float64(*in)
	}
}

func parseWindow(v *apperr.ValidationError, rawStart, rawEnd string) (time.Time, time.Time) {
	var start, end time.Time
	var err error
	if strings.TrimSpace(rawStart) == "" {
		v.Add("startDate", "Start date is required")
	} else if start, err = model.ParseTime(rawStart); err != nil {
		v.Add("startDate", "Start date is not a valid date")
	}
	if strings.TrimSpace(rawEnd) == "" {
		v.Add("endDate", "End date is required")
	} else if end, err = model.ParseTime(rawEnd); err != nil {
		v.Add("endDate", "End date is not a valid date")
	}
	if !start.IsZero() && !end.IsZero() && !end.After(start) {
		v.Add("endDate", "End date must be after start date")
	}
	return start, end
}

func planIDs(v *apperr.ValidationError, raw []string) []string {
	ids := make([]string, 0, len(raw))
	seen := make(map[string]bool, len(raw))
	for _, id := range raw {
		id = strings.TrimSpace(id)
		if !validID(id) {
			v.Add("applicablePlans", "Applicable plans must be plan ids")
			continue
		}
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids
}

func promotionErr(err error, op string) error {
	switch {
	case storage.IsNotFound(err):
		return ErrPromotionNotFound
	case storage.IsDuplicate(err):
		return ErrDuplicateCode
	}
	return fmt.Errorf("%s: %w", op, err)
}
