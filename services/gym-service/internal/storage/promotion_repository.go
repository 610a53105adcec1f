package storage

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/md-rashed-zaman/gymdesk/libs/db"
	"github.com/md-rashed-zaman/gymdesk/services/gym-service/internal/model"
)

// ErrExhausted means a promotion has no uses left.
var ErrExhausted = errors.New("promotion exhausted")

type PromotionRepository struct {
	pool *db.Pool
}

func NewPromotionRepository(pool *db.Pool) *PromotionRepository {
	return &PromotionRepository{pool: pool}
}

const promotionColumns = `id::text, code, type, value, start_date, end_date, max_uses, current_uses,
	min_purchase_amount, applicable_plans, active, created_at`

func scanPromotion(row pgx.Row) (model.Promotion, error) {
	var p model.Promotion
	err := row.Scan(
		&p.ID,
		&p.Code,
		&p.Type,
		&p.Value,
		&p.StartDate,
		&p.EndDate,
		&p.MaxUses,
		&p.CurrentUses,
		&p.MinPurchaseAmount,
		&p.ApplicablePlans,
		&p.Active,
		&p.CreatedAt,
	)
	if err != nil {
		return model.Promotion{}, err
	}
	p.ApplicablePlans = nonNil(p.ApplicablePlans)
	return p, nil
}

func (r *PromotionRepository) List(ctx context.Context) ([]model.Promotion, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+promotionColumns+` FROM promotions ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	promos := []model.Promotion{}
	for rows.Next() {
		p, err := scanPromotion(rows)
		if err != nil {
			return nil, err
		}
		promos = append(promos, p)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return promos, nil
}

func (r *PromotionRepository) Get(ctx context.Context, id string) (model.Promotion, error) {
	p, err := scanPromotion(r.pool.QueryRow(ctx, `SELECT `+promotionColumns+` FROM promotions WHERE id = $1`, id))
	if err != nil {
		return model.Promotion{}, translate(err)
	}
	return p, nil
}

// GetLiveByCode finds an active promotion whose window contains now.
func (r *PromotionRepository) GetLiveByCode(ctx context.Context, code string, now time.Time) (model.Promotion, error) {
	p, err := scanPromotion(r.pool.QueryRow(ctx, `
		SELECT `+promotionColumns+`
		FROM promotions
		WHERE code = $1 AND active AND start_date <= $2 AND end_date >= $2
	`, code, now))
	if err != nil {
		return model.Promotion{}, translate(err)
	}
	return p, nil
}

func (r *PromotionRepository) Create(ctx context.Context, p model.Promotion) (model.Promotion, error) {
	created, err := scanPromotion(r.pool.QueryRow(ctx, `
		INSERT INTO promotions
			(id, code, type, value, start_date, end_date, max_uses, current_uses, min_purchase_amount,
			 applicable_plans, active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING `+promotionColumns,
		p.ID, p.Code, string(p.Type), p.Value, p.StartDate, p.EndDate, p.MaxUses, p.CurrentUses,
		p.MinPurchaseAmount, nonNil(p.ApplicablePlans), p.Active, p.CreatedAt,
	))
	if err != nil {
		return model.Promotion{}, translate(err)
	}
	return created, nil
}

func (r *PromotionRepository) Update(ctx context.Context, p model.Promotion) (model.Promotion, error) {
	updated, err := scanPromotion(r.pool.QueryRow(ctx, `
		UPDATE promotions
		SET code = $2,
			type = $3,
			value = $4,
			start_date = $5,
			end_date = $6,
			max_uses = $7,
			current_uses = $8,
			min_purchase_amount = $9,
			applicable_plans = $10,
			active = $11
		WHERE id = $1
		RETURNING `+promotionColumns,
		p.ID, p.Code, string(p.Type), p.Value, p.StartDate, p.EndDate, p.MaxUses, p.CurrentUses,
		p.MinPurchaseAmount, nonNil(p.ApplicablePlans), p.Active,
	))
	if err != nil {
		return model.Promotion{}, translate(err)
	}
	return updated, nil
}

func (r *PromotionRepository) Delete(ctx context.Context, id string) error {
	return rowsAffected(r.pool.Exec(ctx, `DELETE FROM promotions WHERE id = $1`, id))
}

// IncrementUses consumes one use. The max_uses guard lives in the UPDATE so
// two concurrent redemptions cannot both take the last use.
func (r *PromotionRepository) IncrementUses(ctx context.Context, id string) (int, error) {
	var uses int
	err := r.pool.QueryRow(ctx, `
		UPDATE promotions
		SET current_uses = current_uses + 1
		WHERE id = $1 AND (max_uses IS NULL OR current_uses < max_uses)
		RETURNING current_uses
	`, id).Scan(&uses)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrExhausted
	}
	if err != nil {
		return 0, translate(err)
	}
	return uses, nil
}

func (r *PromotionRepository) CountLive(ctx context.Context, now time.Time) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `
		SELECT count(*) FROM promotions WHERE active AND start_date <= $1 AND end_date >= $1
	`, now).Scan(&n)
	return n, err
}
