package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/md-rashed-zaman/gymdesk/libs/db"
	"github.com/md-rashed-zaman/gymdesk/services/gym-service/internal/model"
)

type PlanRepository struct {
	pool *db.Pool
}

func NewPlanRepository(pool *db.Pool) *PlanRepository {
	return &PlanRepository{pool: pool}
}

const planColumns = `id::text, title, description, type, price, features, is_popular, availability, active,
	terms_and_conditions, views, subscriptions, conversion_rate,
	COALESCE(stripe_product_id, ''), COALESCE(stripe_price_id, ''), created_at, updated_at`

func scanPlan(row pgx.Row) (model.Plan, error) {
	var p model.Plan
	var features []byte
	err := row.Scan(
		&p.ID,
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
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return model.Plan{}, err
	}
	if err := decodeFeatures(features, &p); err != nil {
		return model.Plan{}, err
	}
	return p, nil
}

func decodeFeatures(raw []byte, p *model.Plan) error {
	p.Features = []model.Feature{}
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, &p.Features); err != nil {
		return fmt.Errorf("decode plan %s features: %w", p.ID, err)
	}
	return nil
}

func (r *PlanRepository) List(ctx context.Context) ([]model.Plan, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+planColumns+` FROM plans ORDER BY price ASC, title ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	plans := []model.Plan{}
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return plans, nil
}

// FindPlan is the catalog lookup used when booking an appointment.
func (r *PlanRepository) FindPlan(ctx context.Context, id string) (model.Plan, error) {
	p, err := scanPlan(r.pool.QueryRow(ctx, `SELECT `+planColumns+` FROM plans WHERE id = $1`, id))
	if err != nil {
		return model.Plan{}, translate(err)
	}
	return p, nil
}

func (r *PlanRepository) Create(ctx context.Context, p model.Plan) (model.Plan, error) {
	features, err := json.Marshal(nonNil(p.Features))
	if err != nil {
		return model.Plan{}, err
	}
	created, err := scanPlan(r.pool.QueryRow(ctx, `
		INSERT INTO plans
			(id, title, description, type, price, features, is_popular, availability, active,
			 terms_and_conditions, views, subscriptions, conversion_rate)
		VALUES ($1, $2, $3, $4, $5, $6::jsonb, $7, $8, $9, $10, $11, $12, $13)
		RETURNING `+planColumns,
		p.ID, p.Title, p.Description, p.Type, p.Price, string(features), p.IsPopular, p.Availability, p.Active,
		p.TermsAndConditions, p.Metadata.Views, p.Metadata.Subscriptions, p.Metadata.ConversionRate,
	))
	if err != nil {
		return model.Plan{}, translate(err)
	}
	return created, nil
}

// Update overwrites the editable columns and bumps updated_at.
func (r *PlanRepository) Update(ctx context.Context, p model.Plan) (model.Plan, error) {
	features, err := json.Marshal(nonNil(p.Features))
	if err != nil {
		return model.Plan{}, err
	}
	updated, err := scanPlan(r.pool.QueryRow(ctx, `
		UPDATE plans
		SET title = $2,
			description = $3,
			type = $4,
			price = $5,
			features = $6::jsonb,
			is_popular = $7,
			availability = $8,
			active = $9,
			terms_and_conditions = $10,
			views = $11,
			subscriptions = $12,
			conversion_rate = $13,
			updated_at = now()
		WHERE id = $1
		RETURNING `+planColumns,
		p.ID, p.Title, p.Description, p.Type, p.Price, string(features), p.IsPopular, p.Availability, p.Active,
		p.TermsAndConditions, p.Metadata.Views, p.Metadata.Subscriptions, p.Metadata.ConversionRate,
	))
	if err != nil {
		return model.Plan{}, translate(err)
	}
	return updated, nil
}

// Delete removes the plan and returns what was deleted. Appointments that
// reference it are left alone.
func (r *PlanRepository) Delete(ctx context.Context, id string) (model.Plan, error) {
	p, err := scanPlan(r.pool.QueryRow(ctx, `DELETE FROM plans WHERE id = $1 RETURNING `+planColumns, id))
	if err != nil {
		return model.Plan{}, translate(err)
	}
	return p, nil
}

func (r *PlanRepository) SetStripeRefs(ctx context.Context, id, productID, priceID string) error {
	return rowsAffected(r.pool.Exec(ctx, `
		UPDATE plans
		SET stripe_product_id = NULLIF($2, ''),
			stripe_price_id = NULLIF($3, '')
		WHERE id = $1
	`, id, productID, priceID))
}
