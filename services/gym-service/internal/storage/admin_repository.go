package storage

import (
	"context"

	"github.com/md-rashed-zaman/gymdesk/libs/db"
	"github.com/md-rashed-zaman/gymdesk/services/gym-service/internal/model"
)

type AdminRepository struct {
	pool *db.Pool
}

func NewAdminRepository(pool *db.Pool) *AdminRepository {
	return &AdminRepository{pool: pool}
}

func (r *AdminRepository) Create(ctx context.Context, a model.Admin) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO admins (id, username, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, a.ID, a.Username, a.Email, a.PasswordHash, a.CreatedAt)
	return translate(err)
}

func (r *AdminRepository) GetByID(ctx context.Context, id string) (model.Admin, error) {
	return r.getOne(ctx, `WHERE id = $1`, id)
}

func (r *AdminRepository) GetByUsername(ctx context.Context, username string) (model.Admin, error) {
	return r.getOne(ctx, `WHERE username = $1`, username)
}

func (r *AdminRepository) getOne(ctx context.Context, where string, arg any) (model.Admin, error) {
	var a model.Admin
	err := r.pool.QueryRow(ctx, `
		SELECT id::text, username, email, password_hash, created_at
		FROM admins `+where, arg).Scan(&a.ID, &a.Username, &a.Email, &a.PasswordHash, &a.CreatedAt)
	if err != nil {
		return model.Admin{}, translate(err)
	}
	return a, nil
}

func (r *AdminRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	return rowsAffected(r.pool.Exec(ctx, `UPDATE admins SET password_hash = $2 WHERE id = $1`, id, passwordHash))
}
