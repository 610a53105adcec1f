package trainers

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/md-rashed-zaman/gymdesk/services/gym-service/internal/apperr"
	"github.com/md-rashed-zaman/gymdesk/services/gym-service/internal/model"
	"github.com/md-rashed-zaman/gymdesk/services/gym-service/internal/session"
	"github.com/md-rashed-zaman/gymdesk/services/gym-service/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	mu       sync.Mutex
	trainers map[string]model.Trainer
}

func (m *memStore) List(context.Context) ([]model.Trainer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Trainer, 0, len(m.trainers))
	for _, t := range m.trainers {
		out = append(out, t)
	}
	return out, nil
}

func (m *memStore) Get(_ context.Context, id string) (model.Trainer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.trainers[id]
	if !ok {
		return model.Trainer{}, storage.ErrNotFound
	}
	return t, nil
}

func (m *memStore) Create(_ context.Context, t model.Trainer) (model.Trainer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.trainers {
		if existing.Email == t.Email {
			return model.Trainer{}, storage.ErrDuplicate
		}
	}
	m.trainers[t.ID] = t
	return t, nil
}

func (m *memStore) Update(_ context.Context, t model.Trainer) (model.Trainer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.trainers[t.ID]; !ok {
		return model.Trainer{}, storage.ErrNotFound
	}
	m.trainers[t.ID] = t
	return t, nil
}

func (m *memStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.trainers[id]; !ok {
		return storage.ErrNotFound
	}
	delete(m.trainers, id)
	return nil
}

func (m *memStore) ToggleActive(_ context.Context, id string) (model.Trainer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.trainers[id]
	if !ok {
		return model.Trainer{}, storage.ErrNotFound
	}
	t.Active = !t.Active
	m.trainers[id] = t
	return t, nil
}

var admin = session.Identity{ID: "5a4b3c2d-1e0f-4a9b-8c7d-6e5f4a3b2c1d", Username: "owner"}

func newService() (*Service, *memStore) {
	store := &memStore{trainers: map[string]model.Trainer{}}
	return NewService(store, slog.New(slog.NewTextHandler(io.Discard, nil))), store
}

func str(s string) *string { return &s }

func list(s ...string) *[]string { return &s }

func alexInput() Input {
	return Input{
		Name:       str(" Alex Rivera "),
		Email:      str("Alex@Example.com"),
		Phone:      str("555-0101"),
		Specialty:  list("Strength", " "),
		Experience: str("8 years"),
		Bio:        str("Former powerlifter."),
		Expertise:  list("Weight Training", "HIIT"),
		Schedule:   str("Monday: Morning\nWednesday: Evening"),
		Qualifications: &[]model.Qualification{
			{Title: "NASM CPT", Year: 2018},
		},
	}
}

func TestCreateTrainer(t *testing.T) {
	svc, _ := newService()
	tr, err := svc.Create(context.Background(), admin, alexInput())
	require.NoError(t, err)

	assert.Equal(t, "Alex Rivera", tr.Name)
	assert.Equal(t, "alex@example.com", tr.Email)
	assert.Equal(t, []string{"Strength"}, tr.Specialty)
	assert.True(t, tr.Active)
	assert.Equal(t, model.TrainerAvailable, tr.Status)
	assert.Equal(t, "FaCertificate", tr.Qualifications[0].Icon)
	assert.Equal(t, []model.DayAvailability{
		{Day: "Monday", Slots: []string{"Morning"}},
		{Day: "Wednesday", Slots: []string{"Evening"}},
	}, tr.Availability)

	_, err = svc.Create(context.Background(), admin, alexInput())
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestCreateTrainerValidation(t *testing.T) {
	svc, store := newService()
	in := Input{
		Email:           str("not-an-email"),
		Specialty:       list(),
		Expertise:       list("Juggling"),
		Rating:          &model.Rating{Average: 6},
		Status:          str("Busy"),
		Specializations: &[]model.Specialization{{Area: "Rehab", Level: "Guru"}},
		Qualifications:  &[]model.Qualification{{Title: "CPR", Icon: "FaStar"}},
	}
	_, err := svc.Create(context.Background(), admin, in)
	v, ok := apperr.AsValidation(err)
	require.True(t, ok, "want validation error, got %v", err)
	for _, field := range []string{
		"name", "email", "phone", "specialty", "experience", "bio", "expertise",
		"rating.average", "status", "specializations[0].level", "qualifications[0].icon",
	} {
		assert.Contains(t, v.Fields, field)
	}
	assert.Empty(t, store.trainers)
}

func TestUpdateIsPartial(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()
	tr, err := svc.Create(ctx, admin, alexInput())
	require.NoError(t, err)

	updated, err := svc.Update(ctx, admin, tr.ID, Input{Phone: str("555-0199"), Featured: boolPtr(true)})
	require.NoError(t, err)
	assert.Equal(t, "555-0199", updated.Phone)
	assert.True(t, updated.Featured)
	assert.Equal(t, tr.Name, updated.Name)
	assert.Equal(t, tr.Availability, updated.Availability)

	updated, err = svc.Update(ctx, admin, tr.ID, Input{Schedule: str("Sunday: Afternoon")})
	require.NoError(t, err)
	assert.Equal(t, []model.DayAvailability{{Day: "Sunday", Slots: []string{"Afternoon"}}}, updated.Availability)

	_, err = svc.Update(ctx, admin, tr.ID, Input{Name: str("")})
	_, ok := apperr.AsValidation(err)
	assert.True(t, ok)
}

func TestToggleAndDelete(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()
	tr, err := svc.Create(ctx, admin, alexInput())
	require.NoError(t, err)

	toggled, err := svc.ToggleStatus(ctx, admin, tr.ID)
	require.NoError(t, err)
	assert.False(t, toggled.Active)
	toggled, err = svc.ToggleStatus(ctx, admin, tr.ID)
	require.NoError(t, err)
	assert.True(t, toggled.Active)

	require.NoError(t, svc.Delete(ctx, admin, tr.ID))
	_, err = svc.Get(ctx, tr.ID)
	assert.ErrorIs(t, err, ErrTrainerNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, admin, tr.ID), ErrTrainerNotFound)
	_, err = svc.ToggleStatus(ctx, admin, "garbage")
	assert.ErrorIs(t, err, ErrTrainerNotFound)
}

func TestTrainerWritesRequireAdmin(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()
	_, err := svc.Create(ctx, session.Identity{}, alexInput())
	assert.ErrorIs(t, err, session.ErrUnauthorized)
	_, err = svc.ToggleStatus(ctx, session.Identity{}, "x")
	assert.ErrorIs(t, err, session.ErrUnauthorized)
	assert.ErrorIs(t, svc.Delete(ctx, session.Identity{}, "x"), session.ErrUnauthorized)
}

func boolPtr(b bool) *bool { return &b }
