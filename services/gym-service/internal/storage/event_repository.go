package storage

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/md-rashed-zaman/gymdesk/libs/db"
	"github.com/md-rashed-zaman/gymdesk/services/gym-service/internal/model"
)

type EventRepository struct {
	pool *db.Pool
}

func NewEventRepository(pool *db.Pool) *EventRepository {
	return &EventRepository{pool: pool}
}

const eventColumns = `id::text, title, description, start_date, end_date, discount_type, discount_value,
	applicable_plans, active, created_at`

func scanEvent(row pgx.Row) (model.Event, error) {
	var e model.Event
	err := row.Scan(
		&e.ID,
		&e.Title,
		&e.Description,
		&e.StartDate,
		&e.EndDate,
		&e.DiscountType,
		&e.DiscountValue,
		&e.ApplicablePlans,
		&e.Active,
		&e.CreatedAt,
	)
	if err != nil {
		return model.Event{}, err
	}
	e.ApplicablePlans = nonNil(e.ApplicablePlans)
	return e, nil
}

func (r *EventRepository) List(ctx context.Context) ([]model.Event, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+eventColumns+` FROM events ORDER BY start_date ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []model.Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return events, nil
}

func (r *EventRepository) Get(ctx context.Context, id string) (model.Event, error) {
	e, err := scanEvent(r.pool.QueryRow(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id))
	if err != nil {
		return model.Event{}, translate(err)
	}
	return e, nil
}

func (r *EventRepository) Create(ctx context.Context, e model.Event) (model.Event, error) {
	created, err := scanEvent(r.pool.QueryRow(ctx, `
		INSERT INTO events
			(id, title, description, start_date, end_date, discount_type, discount_value, applicable_plans,
			 active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING `+eventColumns,
		e.ID, e.Title, e.Description, e.StartDate, e.EndDate, string(e.DiscountType), e.DiscountValue,
		nonNil(e.ApplicablePlans), e.Active, e.CreatedAt,
	))
	if err != nil {
		return model.Event{}, translate(err)
	}
	return created, nil
}

func (r *EventRepository) Update(ctx context.Context, e model.Event) (model.Event, error) {
	updated, err := scanEvent(r.pool.QueryRow(ctx, `
		UPDATE events
		SET title = $2,
			description = $3,
			start_date = $4,
			end_date = $5,
			discount_type = $6,
			discount_value = $7,
			applicable_plans = $8,
			active = $9
		WHERE id = $1
		RETURNING `+eventColumns,
		e.ID, e.Title, e.Description, e.StartDate, e.EndDate, string(e.DiscountType), e.DiscountValue,
		nonNil(e.ApplicablePlans), e.Active,
	))
	if err != nil {
		return model.Event{}, translate(err)
	}
	return updated, nil
}

func (r *EventRepository) Delete(ctx context.Context, id string) error {
	return rowsAffected(r.pool.Exec(ctx, `DELETE FROM events WHERE id = $1`, id))
}

func (r *EventRepository) CountUpcoming(ctx context.Context, now time.Time) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM events WHERE active AND start_date >= $1`, now).Scan(&n)
	return n, err
}
