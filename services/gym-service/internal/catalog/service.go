// Package catalog runs the back-office pricing catalog: plans, promotion
// codes, seasonal events and the analytics summary built from them.
package catalog

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/md-rashed-zaman/gymdesk/services/gym-service/internal/audit"
	"github.com/md-rashed-zaman/gymdesk/services/gym-service/internal/model"
	"github.com/md-rashed-zaman/gymdesk/services/gym-service/internal/plancache"
)

type PlanStore interface {
	List(ctx context.Context) ([]model.Plan, error)
	FindPlan(ctx context.Context, id string) (model.Plan, error)
	Create(ctx context.Context, p model.Plan) (model.Plan, error)
	Update(ctx context.Context, p model.Plan) (model.Plan, error)
	Delete(ctx context.Context, id string) (model.Plan, error)
}

type PromotionStore interface {
	List(ctx context.Context) ([]model.Promotion, error)
	Get(ctx context.Context, id string) (model.Promotion, error)
	GetLiveByCode(ctx context.Context, code string, now time.Time) (model.Promotion, error)
	Create(ctx context.Context, p model.Promotion) (model.Promotion, error)
	Update(ctx context.Context, p model.Promotion) (model.Promotion, error)
	Delete(ctx context.Context, id string) error
	IncrementUses(ctx context.Context, id string) (int, error)
	CountLive(ctx context.Context, now time.Time) (int, error)
}

type EventStore interface {
	List(ctx context.Context) ([]model.Event, error)
	Get(ctx context.Context, id string) (model.Event, error)
	Create(ctx context.Context, e model.Event) (model.Event, error)
	Update(ctx context.Context, e model.Event) (model.Event, error)
	Delete(ctx context.Context, id string) error
	CountUpcoming(ctx context.Context, now time.Time) (int, error)
}

type PlanCache interface {
	Plans(ctx context.Context, load plancache.Loader) ([]model.Plan, error)
	Invalidate(ctx context.Context)
}

// PlanSyncer mirrors plan changes into the payment provider.
type PlanSyncer interface {
	Created(ctx context.Context, p model.Plan) error
	Updated(ctx context.Context, before, after model.Plan) error
	Deleted(ctx context.Context, p model.Plan) error
}

type Recorder interface {
	Record(ctx context.Context, e audit.Entry) error
}

// Deps wires the service. Cache, Syncer and Recorder are optional.
type Deps struct {
	Plans      PlanStore
	Promotions PromotionStore
	Events     EventStore
	Cache      PlanCache
	Syncer     PlanSyncer
	Recorder   Recorder
	Logger     *slog.Logger
}

type Service struct {
	plans      PlanStore
	promotions PromotionStore
	events     EventStore
	cache      PlanCache
	syncer     PlanSyncer
	recorder   Recorder
	logger     *slog.Logger
	now        func() time.Time
	newID      func() string
}

func NewService(d Deps) *Service {
	return &Service{
		plans:      d.Plans,
		promotions: d.Promotions,
		events:     d.Events,
		cache:      d.Cache,
		syncer:     d.Syncer,
		recorder:   d.Recorder,
		logger:     d.Logger,
		now:        time.Now,
		newID:      uuid.NewString,
	}
}

// record writes the audit trail. It runs after the change is committed, so a
// failure here is logged and not returned.
func (s *Service) record(ctx context.Context, actorID, action, entityType, entityID string, meta map[string]any) {
	if s.recorder == nil {
		return
	}
	err := s.recorder.Record(ctx, audit.Entry{
		ActorID:    actorID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Metadata:   meta,
	})
	if err != nil {
		s.logger.Error("audit record failed", "err", err, "action", action, "entity_id", entityID)
	}
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
