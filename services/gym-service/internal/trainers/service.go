// Package trainers manages the public trainer directory.
package trainers

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/md-rashed-zaman/gymdesk/services/gym-service/internal/apperr"
	"github.com/md-rashed-zaman/gymdesk/services/gym-service/internal/model"
	"github.com/md-rashed-zaman/gymdesk/services/gym-service/internal/session"
	"github.com/md-rashed-zaman/gymdesk/services/gym-service/internal/storage"
)

var (
	ErrTrainerNotFound = apperr.NotFound("Trainer not found")
	ErrDuplicateEmail  = apperr.Conflict("A trainer with this email already exists.")
)

const defaultQualificationIcon = "FaCertificate"

type Store interface {
	List(ctx context.Context) ([]model.Trainer, error)
	Get(ctx context.Context, id string) (model.Trainer, error)
	Create(ctx context.Context, t model.Trainer) (model.Trainer, error)
	Update(ctx context.Context, t model.Trainer) (model.Trainer, error)
	Delete(ctx context.Context, id string) error
	ToggleActive(ctx context.Context, id string) (model.Trainer, error)
}

// Input carries a trainer write. Absent fields are nil; on update they keep
// their stored value. Schedule is free text parsed into availability.
type Input struct {
	Name            *string                 `json:"name"`
	Email           *string                 `json:"email"`
	Phone           *string                 `json:"phone"`
	Specialty       *[]string               `json:"specialty"`
	Experience      *string                 `json:"experience"`
	Qualifications  *[]model.Qualification  `json:"qualifications"`
	Certifications  *[]string               `json:"certifications"`
	Bio             *string                 `json:"bio"`
	Expertise       *[]string               `json:"expertise"`
	Languages       *[]string               `json:"languages"`
	Schedule        *string                 `json:"schedule"`
	Img             *string                 `json:"img"`
	SocialMedia     *model.SocialMedia      `json:"socialMedia"`
	Achievements    *[]model.Achievement    `json:"achievements"`
	Specializations *[]model.Specialization `json:"specializations"`
	Rating          *model.Rating           `json:"rating"`
	Active          *bool                   `json:"active"`
	Featured        *bool                   `json:"featured"`
	Status          *string                 `json:"status"`
}

type Service struct {
	store  Store
	logger *slog.Logger
	now    func() time.Time
	newID  func() string
}

func NewService(store Store, logger *slog.Logger) *Service {
	return &Service{store: store, logger: logger, now: time.Now, newID: uuid.NewString}
}

func (s *Service) List(ctx context.Context) ([]model.Trainer, error) {
	return s.store.List(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (model.Trainer, error) {
	if !validID(id) {
		return model.Trainer{}, ErrTrainerNotFound
	}
	t, err := s.store.Get(ctx, id)
	if err != nil {
		return model.Trainer{}, trainerErr(err, "get trainer")
	}
	return t, nil
}

func (s *Service) Create(ctx context.Context, admin session.Identity, in Input) (model.Trainer, error) {
	if !admin.Valid() {
		return model.Trainer{}, session.ErrUnauthorized
	}
	t := model.Trainer{
		ID:        s.newID(),
		Active:    true,
		Status:    model.TrainerAvailable,
		CreatedAt: s.now().UTC(),
	}
	in.apply(&t)
	if err := validate(t); err != nil {
		return model.Trainer{}, err
	}
	created, err := s.store.Create(ctx, t)
	if err != nil {
		return model.Trainer{}, trainerErr(err, "create trainer")
	}
	s.logger.Info("trainer created", "trainer_id", created.ID, "admin_id", admin.ID)
	return created, nil
}

// Update changes only the fields present in the input.
func (s *Service) Update(ctx context.Context, admin session.Identity, id string, in Input) (model.Trainer, error) {
	if !admin.Valid() {
		return model.Trainer{}, session.ErrUnauthorized
	}
	t, err := s.Get(ctx, id)
	if err != nil {
		return model.Trainer{}, err
	}
	in.apply(&t)
	if err := validate(t); err != nil {
		return model.Trainer{}, err
	}
	updated, err := s.store.Update(ctx, t)
	if err != nil {
		return model.Trainer{}, trainerErr(err, "update trainer")
	}
	s.logger.Info("trainer updated", "trainer_id", updated.ID, "admin_id", admin.ID)
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, admin session.Identity, id string) error {
	if !admin.Valid() {
		return session.ErrUnauthorized
	}
	if !validID(id) {
		return ErrTrainerNotFound
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return trainerErr(err, "delete trainer")
	}
	s.logger.Info("trainer deleted", "trainer_id", id, "admin_id", admin.ID)
	return nil
}

// ToggleStatus flips the active flag and returns the trainer.
func (s *Service) ToggleStatus(ctx context.Context, admin session.Identity, id string) (model.Trainer, error) {
	if !admin.Valid() {
		return model.Trainer{}, session.ErrUnauthorized
	}
	if !validID(id) {
		return model.Trainer{}, ErrTrainerNotFound
	}
	t, err := s.store.ToggleActive(ctx, id)
	if err != nil {
		return model.Trainer{}, trainerErr(err, "toggle trainer")
	}
	return t, nil
}

func (in Input) apply(t *model.Trainer) {
	setString(&t.Name, in.Name)
	if in.Email != nil {
		t.Email = strings.ToLower(strings.TrimSpace(*in.Email))
	}
	setString(&t.Phone, in.Phone)
	setString(&t.Experience, in.Experience)
	setString(&t.Bio, in.Bio)
	setString(&t.Img, in.Img)
	setList(&t.Specialty, in.Specialty)
	setList(&t.Certifications, in.Certifications)
	setList(&t.Expertise, in.Expertise)
	setList(&t.Languages, in.Languages)

	if in.Qualifications != nil {
		t.Qualifications = make([]model.Qualification, 0, len(*in.Qualifications))
		for _, q := range *in.Qualifications {
			q.Title = strings.TrimSpace(q.Title)
			if q.Icon == "" {
				q.Icon = defaultQualificationIcon
			}
			t.Qualifications = append(t.Qualifications, q)
		}
	}
	if in.Achievements != nil {
		t.Achievements = *in.Achievements
	}
	if in.Specializations != nil {
		t.Specializations = *in.Specializations
	}
	if in.SocialMedia != nil {
		t.SocialMedia = *in.SocialMedia
	}
	if in.Rating != nil {
		t.Rating = *in.Rating
	}
	if in.Schedule != nil {
		t.Availability = ParseSchedule(*in.Schedule)
	}
	if in.Active != nil {
		t.Active = *in.Active
	}
	if in.Featured != nil {
		t.Featured = *in.Featured
	}
	if in.Status != nil {
		t.Status = model.TrainerStatus(strings.TrimSpace(*in.Status))
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

// setList trims entries and drops blanks.
func setList(dst *[]string, v *[]string) {
	if v == nil {
		return
	}
	out := make([]string, 0, len(*v))
	for _, s := range *v {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	*dst = out
}

func validate(t model.Trainer) error {
	v := apperr.NewValidation()
	v.Require("name", "Name", t.Name)
	v.Require("email", "Email", t.Email)
	if t.Email != "" && !model.ValidEmail(t.Email) {
		v.Add("email", "Please provide a valid email")
	}
	v.Require("phone", "Phone number", t.Phone)
	if len(t.Specialty) == 0 {
		v.Add("specialty", "At least one specialty is required")
	}
	v.Require("experience", "Experience", t.Experience)
	v.Require("bio", "Bio", t.Bio)

	for _, e := range t.Expertise {
		if !slices.Contains(model.Expertise, e) {
			v.Add("expertise", fmt.Sprintf("Expertise %q is not supported", e))
		}
	}
	for i, q := range t.Qualifications {
		if q.Title == "" {
			v.Add(fmt.Sprintf("qualifications[%d].title", i), "Qualification title is required")
		}
		if !slices.Contains(model.QualificationIcons, q.Icon) {
			v.Add(fmt.Sprintf("qualifications[%d].icon", i), fmt.Sprintf("Icon %q is not supported", q.Icon))
		}
	}
	for i, sp := range t.Specializations {
		if strings.TrimSpace(sp.Area) == "" {
			v.Add(fmt.Sprintf("specializations[%d].area", i), "Specialization area is required")
		}
		if sp.Level != "" && !slices.Contains(model.SpecializationLevels, sp.Level) {
			v.Add(fmt.Sprintf("specializations[%d].level", i), fmt.Sprintf("Level %q is not supported", sp.Level))
		}
	}
	if t.Rating.Average < 0 || t.Rating.Average > 5 {
		v.Add("rating.average", "Rating must be between 0 and 5")
	}
	if t.Rating.Count < 0 {
		v.Add("rating.count", "Rating count cannot be negative")
	}
	if !t.Status.IsValid() {
		v.Add("status", "Status must be one of Available, Fully Booked, On Leave, Inactive")
	}
	return v.Err()
}

func trainerErr(err error, op string) error {
	switch {
	case storage.IsNotFound(err):
		return ErrTrainerNotFound
	case storage.IsDuplicate(err):
		return ErrDuplicateEmail
	}
	return fmt.Errorf("%s: %w", op, err)
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
