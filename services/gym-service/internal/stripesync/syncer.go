// Package stripesync mirrors pricing plans into Stripe Products and
// recurring Prices. It is best effort: callers log failures and carry on.
package stripesync

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/md-rashed-zaman/gymdesk/services/gym-service/internal/model"
	"github.com/stripe/stripe-go/v79"
)

type RefStore interface {
	SetStripeRefs(ctx context.Context, id, productID, priceID string) error
}

type Syncer struct {
	api      API
	refs     RefStore
	currency string
	logger   *slog.Logger
	enabled  bool
}

type Config struct {
	SecretKey string
	Currency  string
}

// New returns a syncer that does nothing when no secret key is configured.
func New(cfg Config, refs RefStore, logger *slog.Logger) *Syncer {
	key := strings.TrimSpace(cfg.SecretKey)
	if key != "" {
		stripe.Key = key
	}
	return newSyncer(stripeAPI{}, refs, cfg.Currency, logger, key != "")
}

func newSyncer(api API, refs RefStore, currency string, logger *slog.Logger, enabled bool) *Syncer {
	currency = strings.ToLower(strings.TrimSpace(currency))
	if currency == "" {
		currency = string(stripe.CurrencyUSD)
	}
	return &Syncer{api: api, refs: refs, currency: currency, logger: logger, enabled: enabled}
}

func (s *Syncer) Enabled() bool {
	return s != nil && s.enabled
}

// Created creates a product and its first price, then stores both ids on the
// plan row.
func (s *Syncer) Created(ctx context.Context, p model.Plan) error {
	if !s.Enabled() {
		return nil
	}
	params := productParams(ctx, p)
	params.Active = stripe.Bool(p.Active)
	prod, err := s.api.NewProduct(params)
	if err != nil {
		return fmt.Errorf("stripe create product: %w", err)
	}
	pr, err := s.api.NewPrice(s.priceParams(ctx, prod.ID, p))
	if err != nil {
		return fmt.Errorf("stripe create price: %w", err)
	}
	s.logger.Info("plan synced to stripe", "plan_id", p.ID, "stripe_product_id", prod.ID, "stripe_price_id", pr.ID)
	return s.refs.SetStripeRefs(ctx, p.ID, prod.ID, pr.ID)
}

// Updated refreshes the product. Stripe prices are immutable, so a change of
// amount or interval creates a new price and deactivates the old one.
func (s *Syncer) Updated(ctx context.Context, before, after model.Plan) error {
	if !s.Enabled() {
		return nil
	}
	if before.StripeProductID == "" {
		return s.Created(ctx, after)
	}
	params := productParams(ctx, after)
	params.Active = stripe.Bool(after.Active)
	if _, err := s.api.UpdateProduct(before.StripeProductID, params); err != nil {
		return fmt.Errorf("stripe update product: %w", err)
	}
	if before.StripePriceID != "" && unitAmount(before.Price) == unitAmount(after.Price) && before.Type == after.Type {
		return nil
	}

	pr, err := s.api.NewPrice(s.priceParams(ctx, before.StripeProductID, after))
	if err != nil {
		return fmt.Errorf("stripe create price: %w", err)
	}
	if before.StripePriceID != "" {
		deactivate := &stripe.PriceParams{Active: stripe.Bool(false)}
		deactivate.Context = ctx
		if _, err := s.api.UpdatePrice(before.StripePriceID, deactivate); err != nil {
			s.logger.Warn("stripe deactivate old price failed", "err", err, "stripe_price_id", before.StripePriceID)
		}
	}
	return s.refs.SetStripeRefs(ctx, after.ID, before.StripeProductID, pr.ID)
}

// Deleted archives the product. The plan row is already gone.
func (s *Syncer) Deleted(ctx context.Context, p model.Plan) error {
	if !s.Enabled() || p.StripeProductID == "" {
		return nil
	}
	params := &stripe.ProductParams{Active: stripe.Bool(false)}
	params.Context = ctx
	if _, err := s.api.UpdateProduct(p.StripeProductID, params); err != nil {
		return fmt.Errorf("stripe archive product: %w", err)
	}
	return nil
}

func productParams(ctx context.Context, p model.Plan) *stripe.ProductParams {
	params := &stripe.ProductParams{Name: stripe.String(p.Title)}
	if p.Description != "" {
		params.Description = stripe.String(p.Description)
	}
	params.Context = ctx
	params.AddMetadata("plan_id", p.ID)
	params.AddMetadata("plan_type", string(p.Type))
	return params
}

func (s *Syncer) priceParams(ctx context.Context, productID string, p model.Plan) *stripe.PriceParams {
	interval, count := Recurrence(p.Type)
	params := &stripe.PriceParams{
		Product:    stripe.String(productID),
		Currency:   stripe.String(s.currency),
		UnitAmount: stripe.Int64(unitAmount(p.Price)),
		Recurring: &stripe.PriceRecurringParams{
			Interval:      stripe.String(interval),
			IntervalCount: stripe.Int64(count),
		},
	}
	params.Context = ctx
	params.AddMetadata("plan_id", p.ID)
	return params
}

// Recurrence maps a plan type onto a Stripe billing interval.
func Recurrence(t model.PlanType) (string, int64) {
	switch t {
	case model.PlanQuarterly:
		return string(stripe.PriceRecurringIntervalMonth), 3
	case model.PlanYearly:
		return string(stripe.PriceRecurringIntervalYear), 1
	default:
		return string(stripe.PriceRecurringIntervalMonth), 1
	}
}

func unitAmount(price float64) int64 {
	return int64(math.Round(price * 100))
}
