// Package storage holds the Postgres repositories. Every repository
// translates driver errors into ErrNotFound and ErrDuplicate so callers never
// import pgx to classify failures.
package storage

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/md-rashed-zaman/gymdesk/libs/db"
)

//go:embed schema.sql
var schema string

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate")
)

// Migrate creates any missing tables. It is safe to run on every start.
func Migrate(ctx context.Context, pool *db.Pool) error {
	if err := pool.Migrate(ctx, schema); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}

func IsNotFound(err error) bool  { return errors.Is(err, ErrNotFound) }
func IsDuplicate(err error) bool { return errors.Is(err, ErrDuplicate) }

// translate maps pgx errors onto the package sentinels. A malformed uuid
// (22P02) cannot match any row, so it is reported as not found.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return fmt.Errorf("%w: %s", ErrDuplicate, pgErr.ConstraintName)
		case "22P02":
			return ErrNotFound
		}
	}
	return err
}

// rowsAffected turns a zero-row UPDATE or DELETE into ErrNotFound.
func rowsAffected(tag pgconn.CommandTag, err error) error {
	if err != nil {
		return translate(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
