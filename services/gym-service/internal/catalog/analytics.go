package catalog

import (
	"context"
	"fmt"

	"github.com/md-rashed-zaman/gymdesk/services/gym-service/internal/session"
)

type PlanMetrics struct {
	PlanID  string `json:"planId"`
	Title   string `json:"title"`
	Metrics struct {
		Views          int64   `json:"views"`
		Subscriptions  int64   `json:"subscriptions"`
		ConversionRate float64 `json:"conversionRate"`
	} `json:"metrics"`
}

type Report struct {
	Plans      []PlanMetrics `json:"plans"`
	Promotions struct {
		Active int `json:"active"`
	} `json:"promotions"`
	Events struct {
		Upcoming int `json:"upcoming"`
	} `json:"events"`
}

// Analytics summarizes plan metrics alongside the promotions running now
// and the events that have not started yet.
func (s *Service) Analytics(ctx context.Context, admin session.Identity) (Report, error) {
	if !admin.Valid() {
		return Report{}, session.ErrUnauthorized
	}
	now := s.now().UTC()

	plans, err := s.plans.List(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("list plans: %w", err)
	}
	var r Report
	r.Plans = make([]PlanMetrics, 0, len(plans))
	for _, p := range plans {
		m := PlanMetrics{PlanID: p.ID, Title: p.Title}
		m.Metrics.Views = p.Metadata.Views
		m.Metrics.Subscriptions = p.Metadata.Subscriptions
		m.Metrics.ConversionRate = p.Metadata.ConversionRate
		r.Plans = append(r.Plans, m)
	}

	if r.Promotions.Active, err = s.promotions.CountLive(ctx, now); err != nil {
		return Report{}, fmt.Errorf("count promotions: %w", err)
	}
	if r.Events.Upcoming, err = s.events.CountUpcoming(ctx, now); err != nil {
		return Report{}, fmt.Errorf("count events: %w", err)
	}
	return r, nil
}
