package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/md-rashed-zaman/gymdesk/libs/db"
	"github.com/md-rashed-zaman/gymdesk/services/gym-service/internal/model"
)

type TrainerRepository struct {
	pool *db.Pool
}

func NewTrainerRepository(pool *db.Pool) *TrainerRepository {
	return &TrainerRepository{pool: pool}
}

const trainerColumns = `id::text, name, email, phone, specialty, experience, qualifications, certifications, bio,
	expertise, languages, availability, img, social_media, achievements, specializations,
	rating_average, rating_count, active, featured, status, created_at`

type trainerDocs struct {
	qualifications  []byte
	availability    []byte
	socialMedia     []byte
	achievements    []byte
	specializations []byte
}

func scanTrainer(row pgx.Row) (model.Trainer, error) {
	var t model.Trainer
	var docs trainerDocs
	err := row.Scan(
		&t.ID,
		&t.Name,
		&t.Email,
		&t.Phone,
		&t.Specialty,
		&t.Experience,
		&docs.qualifications,
		&t.Certifications,
		&t.Bio,
		&t.Expertise,
		&t.Languages,
		&docs.availability,
		&t.Img,
		&docs.socialMedia,
		&docs.achievements,
		&docs.specializations,
		&t.Rating.Average,
		&t.Rating.Count,
		&t.Active,
		&t.Featured,
		&t.Status,
		&t.CreatedAt,
	)
	if err != nil {
		return model.Trainer{}, err
	}
	for _, d := range []struct {
		raw []byte
		dst any
	}{
		{docs.qualifications, &t.Qualifications},
		{docs.availability, &t.Availability},
		{docs.socialMedia, &t.SocialMedia},
		{docs.achievements, &t.Achievements},
		{docs.specializations, &t.Specializations},
	} {
		if len(d.raw) == 0 {
			continue
		}
		if err := json.Unmarshal(d.raw, d.dst); err != nil {
			return model.Trainer{}, fmt.Errorf("decode trainer %s: %w", t.ID, err)
		}
	}
	t.Specialty = nonNil(t.Specialty)
	t.Certifications = nonNil(t.Certifications)
	t.Expertise = nonNil(t.Expertise)
	t.Languages = nonNil(t.Languages)
	t.Qualifications = nonNil(t.Qualifications)
	t.Availability = nonNil(t.Availability)
	t.Achievements = nonNil(t.Achievements)
	t.Specializations = nonNil(t.Specializations)
	return t, nil
}

func encodeTrainerDocs(t model.Trainer) (trainerDocs, error) {
	var docs trainerDocs
	var err error
	if docs.qualifications, err = json.Marshal(nonNil(t.Qualifications)); err != nil {
		return docs, err
	}
	if docs.availability, err = json.Marshal(nonNil(t.Availability)); err != nil {
		return docs, err
	}
	if docs.socialMedia, err = json.Marshal(t.SocialMedia); err != nil {
		return docs, err
	}
	if docs.achievements, err = json.Marshal(nonNil(t.Achievements)); err != nil {
		return docs, err
	}
	if docs.specializations, err = json.Marshal(nonNil(t.Specializations)); err != nil {
		return docs, err
	}
	return docs, nil
}

func (r *TrainerRepository) List(ctx context.Context) ([]model.Trainer, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+trainerColumns+` FROM trainers ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	trainers := []model.Trainer{}
	for rows.Next() {
		t, err := scanTrainer(rows)
		if err != nil {
			return nil, err
		}
		trainers = append(trainers, t)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return trainers, nil
}

func (r *TrainerRepository) Get(ctx context.Context, id string) (model.Trainer, error) {
	t, err := scanTrainer(r.pool.QueryRow(ctx, `SELECT `+trainerColumns+` FROM trainers WHERE id = $1`, id))
	if err != nil {
		return model.Trainer{}, translate(err)
	}
	return t, nil
}

func (r *TrainerRepository) Create(ctx context.Context, t model.Trainer) (model.Trainer, error) {
	docs, err := encodeTrainerDocs(t)
	if err != nil {
		return model.Trainer{}, err
	}
	created, err := scanTrainer(r.pool.QueryRow(ctx, `
		INSERT INTO trainers
			(id, name, email, phone, specialty, experience, qualifications, certifications, bio, expertise,
			 languages, availability, img, social_media, achievements, specializations, rating_average,
			 rating_count, active, featured, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7::jsonb, $8, $9, $10, $11, $12::jsonb, $13, $14::jsonb, $15::jsonb,
			$16::jsonb, $17, $18, $19, $20, $21, $22)
		RETURNING `+trainerColumns,
		t.ID, t.Name, t.Email, t.Phone, nonNil(t.Specialty), t.Experience, string(docs.qualifications),
		nonNil(t.Certifications), t.Bio, nonNil(t.Expertise), nonNil(t.Languages), string(docs.availability), t.Img,
		string(docs.socialMedia), string(docs.achievements), string(docs.specializations), t.Rating.Average,
		t.Rating.Count, t.Active, t.Featured, string(t.Status), t.CreatedAt,
	))
	if err != nil {
		return model.Trainer{}, translate(err)
	}
	return created, nil
}

// Update writes every mutable column; created_at is never touched.
func (r *TrainerRepository) Update(ctx context.Context, t model.Trainer) (model.Trainer, error) {
	docs, err := encodeTrainerDocs(t)
	if err != nil {
		return model.Trainer{}, err
	}
	updated, err := scanTrainer(r.pool.QueryRow(ctx, `
		UPDATE trainers
		SET name = $2,
			email = $3,
			phone = $4,
			specialty = $5,
			experience = $6,
			qualifications = $7::jsonb,
			certifications = $8,
			bio = $9,
			expertise = $10,
			languages = $11,
			availability = $12::jsonb,
			img = $13,
			social_media = $14::jsonb,
			achievements = $15::jsonb,
			specializations = $16::jsonb,
			rating_average = $17,
			rating_count = $18,
			active = $19,
			featured = $20,
			status = $21
		WHERE id = $1
		RETURNING `+trainerColumns,
		t.ID, t.Name, t.Email, t.Phone, nonNil(t.Specialty), t.Experience, string(docs.qualifications),
		nonNil(t.Certifications), t.Bio, nonNil(t.Expertise), nonNil(t.Languages), string(docs.availability), t.Img,
		string(docs.socialMedia), string(docs.achievements), string(docs.specializations), t.Rating.Average,
		t.Rating.Count, t.Active, t.Featured, string(t.Status),
	))
	if err != nil {
		return model.Trainer{}, translate(err)
	}
	return updated, nil
}

func (r *TrainerRepository) Delete(ctx context.Context, id string) error {
	return rowsAffected(r.pool.Exec(ctx, `DELETE FROM trainers WHERE id = $1`, id))
}

func (r *TrainerRepository) ToggleActive(ctx context.Context, id string) (model.Trainer, error) {
	t, err := scanTrainer(r.pool.QueryRow(ctx, `
		UPDATE trainers SET active = NOT active WHERE id = $1
		RETURNING `+trainerColumns, id))
	if err != nil {
		return model.Trainer{}, translate(err)
	}
	return t, nil
}
