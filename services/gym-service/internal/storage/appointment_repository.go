package storage

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/md-rashed-zaman/gymdesk/libs/db"
	"github.com/md-rashed-zaman/gymdesk/services/gym-service/internal/model"
)

type AppointmentRepository struct {
	pool *db.Pool
}

func NewAppointmentRepository(pool *db.Pool) *AppointmentRepository {
	return &AppointmentRepository{pool: pool}
}

func (r *AppointmentRepository) Create(ctx context.Context, appt model.Appointment) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO appointments (id, name, email, phone, preferred_date, message, plan_id, status, created_at)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, $8, $9)
	`, appt.ID, appt.Name, appt.Email, appt.Phone, appt.PreferredDate, appt.Message, appt.PlanID,
		string(appt.Status), appt.CreatedAt)
	return translate(err)
}

// The plan columns come from a LEFT JOIN, so every one of them is NULL when
// the reference dangles. p.id decides whether a plan is present.
const appointmentRowColumns = `a.id::text, COALESCE(a.name, ''), COALESCE(a.email, ''), COALESCE(a.phone, ''),
	a.preferred_date, COALESCE(a.message, ''), COALESCE(a.plan_id::text, ''), a.status, a.created_at,
	p.id::text, COALESCE(p.title, ''), COALESCE(p.description, ''), COALESCE(p.type, ''), COALESCE(p.price, 0),
	COALESCE(p.features, '[]'::jsonb), COALESCE(p.is_popular, false), COALESCE(p.availability, ''),
	COALESCE(p.active, false), COALESCE(p.terms_and_conditions, ''), COALESCE(p.views, 0),
	COALESCE(p.subscriptions, 0), COALESCE(p.conversion_rate, 0), COALESCE(p.stripe_product_id, ''),
	COALESCE(p.stripe_price_id, ''), p.created_at, p.updated_at`

func scanAppointmentRow(row pgx.Row) (model.AppointmentRow, error) {
	var (
		a             model.AppointmentRow
		planID        *string
		p             model.Plan
		features      []byte
		planCreatedAt *time.Time
		planUpdatedAt *time.Time
	)
	err := row.Scan(
		&a.ID,
		&a.Name,
		&a.Email,
		&a.Phone,
		&a.PreferredDate,
		&a.Message,
		&a.PlanID,
		&a.Status,
		&a.CreatedAt,
		&planID,
		&p.Title,
		&p.Description,
		&p.Type,
		&p.Price,
		&features,
		&p.IsPopular,
		&p.Availability,
		&p.Active,
		&p.TermsAndConditions,
		&p.Metadata.Views,
		&p.Metadata.Subscriptions,
		&p.Metadata.ConversionRate,
		&p.StripeProductID,
		&p.StripePriceID,
		&planCreatedAt,
		&planUpdatedAt,
	)
	if err != nil {
		return model.AppointmentRow{}, err
	}
	if planID == nil {
		return a, nil
	}
	p.ID = *planID
	if planCreatedAt != nil {
		p.CreatedAt = *planCreatedAt
	}
	if planUpdatedAt != nil {
		p.UpdatedAt = *planUpdatedAt
	}
	if err := decodeFeatures(features, &p); err != nil {
		// A broken features blob must not hide the plan itself.
		p.Features = []model.Feature{}
	}
	a.Plan = &p
	return a, nil
}

// List returns every appointment joined against the current plans, newest
// first. status filters when non-empty.
func (r *AppointmentRepository) List(ctx context.Context, status model.AppointmentStatus) ([]model.AppointmentRow, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+appointmentRowColumns+`
		FROM appointments a
		LEFT JOIN plans p ON p.id = a.plan_id
		WHERE ($1 = '' OR a.status = $1)
		ORDER BY a.created_at DESC, a.id DESC
	`, string(status))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.AppointmentRow
	for rows.Next() {
		row, err := scanAppointmentRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return out, nil
}

// UpdateStatus overwrites status only and returns the row joined with its plan
// in the same statement.
func (r *AppointmentRepository) UpdateStatus(ctx context.Context, id string, status model.AppointmentStatus) (model.AppointmentRow, error) {
	row, err := scanAppointmentRow(r.pool.QueryRow(ctx, `
		WITH a AS (
			UPDATE appointments SET status = $2 WHERE id = $1
			RETURNING id, name, email, phone, preferred_date, message, plan_id, status, created_at
		)
		SELECT `+appointmentRowColumns+`
		FROM a
		LEFT JOIN plans p ON p.id = a.plan_id
	`, id, string(status)))
	if err != nil {
		return model.AppointmentRow{}, translate(err)
	}
	return row, nil
}
