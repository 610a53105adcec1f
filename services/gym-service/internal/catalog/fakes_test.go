package catalog

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/md-rashed-zaman/gymdesk/services/gym-service/internal/audit"
	"github.com/md-rashed-zaman/gymdesk/services/gym-service/internal/model"
	"github.com/md-rashed-zaman/gymdesk/services/gym-service/internal/plancache"
	"github.com/md-rashed-zaman/gymdesk/services/gym-service/internal/session"
	"github.com/md-rashed-zaman/gymdesk/services/gym-service/internal/storage"
	"github.com/stretchr/testify/mock"
)

type memPlans struct {
	mu    sync.Mutex
	plans map[string]model.Plan
	lists int
}

func (m *memPlans) List(context.Context) ([]model.Plan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lists++
	out := make([]model.Plan, 0, len(m.plans))
	for _, p := range m.plans {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	return out, nil
}

func (m *memPlans) FindPlan(_ context.Context, id string) (model.Plan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.plans[id]
	if !ok {
		return model.Plan{}, storage.ErrNotFound
	}
	return p, nil
}

func (m *memPlans) titleTaken(title, exceptID string) bool {
	for _, p := range m.plans {
		if p.Title == title && p.ID != exceptID {
			return true
		}
	}
	return false
}

func (m *memPlans) Create(_ context.Context, p model.Plan) (model.Plan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.titleTaken(p.Title, "") {
		return model.Plan{}, storage.ErrDuplicate
	}
	m.plans[p.ID] = p
	return p, nil
}

func (m *memPlans) Update(_ context.Context, p model.Plan) (model.Plan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.plans[p.ID]; !ok {
		return model.Plan{}, storage.ErrNotFound
	}
	if m.titleTaken(p.Title, p.ID) {
		return model.Plan{}, storage.ErrDuplicate
	}
	m.plans[p.ID] = p
	return p, nil
}

func (m *memPlans) Delete(_ context.Context, id string) (model.Plan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.plans[id]
	if !ok {
		return model.Plan{}, storage.ErrNotFound
	}
	delete(m.plans, id)
	return p, nil
}

type memPromotions struct {
	mu     sync.Mutex
	promos map[string]model.Promotion
}

func (m *memPromotions) List(context.Context) ([]model.Promotion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Promotion, 0, len(m.promos))
	for _, p := range m.promos {
		out = append(out, p)
	}
	return out, nil
}

func (m *memPromotions) Get(_ context.Context, id string) (model.Promotion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.promos[id]
	if !ok {
		return model.Promotion{}, storage.ErrNotFound
	}
	return p, nil
}

func (m *memPromotions) GetLiveByCode(_ context.Context, code string, now time.Time) (model.Promotion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.promos {
		if p.Code == code && p.LiveAt(now) {
			return p, nil
		}
	}
	return model.Promotion{}, storage.ErrNotFound
}

func (m *memPromotions) Create(_ context.Context, p model.Promotion) (model.Promotion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.promos {
		if existing.Code == p.Code {
			return model.Promotion{}, storage.ErrDuplicate
		}
	}
	m.promos[p.ID] = p
	return p, nil
}

func (m *memPromotions) Update(_ context.Context, p model.Promotion) (model.Promotion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.promos[p.ID]; !ok {
		return model.Promotion{}, storage.ErrNotFound
	}
	m.promos[p.ID] = p
	return p, nil
}

func (m *memPromotions) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.promos[id]; !ok {
		return storage.ErrNotFound
	}
	delete(m.promos, id)
	return nil
}

func (m *memPromotions) IncrementUses(_ context.Context, id string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.promos[id]
	if !ok || (p.MaxUses != nil && p.CurrentUses >= *p.MaxUses) {
		return 0, storage.ErrExhausted
	}
	p.CurrentUses++
	m.promos[id] = p
	return p.CurrentUses, nil
}

func (m *memPromotions) CountLive(_ context.Context, now time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, p := range m.promos {
		if p.LiveAt(now) {
			n++
		}
	}
	return n, nil
}

type memEvents struct {
	mu     sync.Mutex
	events map[string]model.Event
}

func (m *memEvents) List(context.Context) ([]model.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Event, 0, len(m.events))
	for _, e := range m.events {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	return out, nil
}

func (m *memEvents) Get(_ context.Context, id string) (model.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.events[id]
	if !ok {
		return model.Event{}, storage.ErrNotFound
	}
	return e, nil
}

func (m *memEvents) Create(_ context.Context, e model.Event) (model.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events[e.ID] = e
	return e, nil
}

func (m *memEvents) Update(_ context.Context, e model.Event) (model.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.events[e.ID]; !ok {
		return model.Event{}, storage.ErrNotFound
	}
	m.events[e.ID] = e
	return e, nil
}

func (m *memEvents) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.events[id]; !ok {
		return storage.ErrNotFound
	}
	delete(m.events, id)
	return nil
}

func (m *memEvents) CountUpcoming(_ context.Context, now time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.events {
		if e.Active && !e.StartDate.Before(now) {
			n++
		}
	}
	return n, nil
}

// countingCache memoizes the first load until invalidated.
type countingCache struct {
	cached      []model.Plan
	invalidated int
}

func (c *countingCache) Plans(ctx context.Context, load plancache.Loader) ([]model.Plan, error) {
	if c.cached != nil {
		return c.cached, nil
	}
	plans, err := load(ctx)
	if err == nil {
		c.cached = plans
	}
	return plans, err
}

func (c *countingCache) Invalidate(context.Context) {
	c.cached = nil
	c.invalidated++
}

type mockSyncer struct {
	mock.Mock
}

func (m *mockSyncer) Created(ctx context.Context, p model.Plan) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockSyncer) Updated(ctx context.Context, before, after model.Plan) error {
	return m.Called(ctx, before, after).Error(0)
}

func (m *mockSyncer) Deleted(ctx context.Context, p model.Plan) error {
	return m.Called(ctx, p).Error(0)
}

type mockRecorder struct {
	mock.Mock
}

func (m *mockRecorder) Record(ctx context.Context, e audit.Entry) error {
	return m.Called(ctx, e).Error(0)
}

var admin = session.Identity{ID: "0b7f6c1e-5a7d-4e1b-9f57-7d3c2a1b0c9d", Username: "frontdesk"}

type fixture struct {
	svc      *Service
	plans    *memPlans
	promos   *memPromotions
	events   *memEvents
	cache    *countingCache
	syncer   *mockSyncer
	recorder *mockRecorder
	now      time.Time
}

func newFixture() *fixture {
	f := &fixture{
		plans:    &memPlans{plans: map[string]model.Plan{}},
		promos:   &memPromotions{promos: map[string]model.Promotion{}},
		events:   &memEvents{events: map[string]model.Event{}},
		cache:    &countingCache{},
		syncer:   &mockSyncer{},
		recorder: &mockRecorder{},
		now:      time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	f.svc = NewService(Deps{
		Plans:      f.plans,
		Promotions: f.promos,
		Events:     f.events,
		Cache:      f.cache,
		Syncer:     f.syncer,
		Recorder:   f.recorder,
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	f.svc.now = func() time.Time { return f.now }
	return f
}

// quiet accepts every side effect without asserting on it.
func (f *fixture) quiet() *fixture {
	f.syncer.On("Created", mock.Anything, mock.Anything).Return(nil).Maybe()
	f.syncer.On("Updated", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	f.syncer.On("Deleted", mock.Anything, mock.Anything).Return(nil).Maybe()
	f.recorder.On("Record", mock.Anything, mock.Anything).Return(nil).Maybe()
	return f
}

func amount(f float64) *Amount {
	a := Amount(f)
	return &a
}

func ptr[T any](v T) *T { return &v }
