// Package records holds what the per-collection repositories share regardless of backend: the
// not-found and conflict sentinels, and small helpers for the Postgres and Supabase implementations.
package records

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound is returned by point lookups that match no row. Callers on the beneficiary path
	// treat it as a normal branch, not a failure.
	ErrNotFound = errors.New("record not found")

	// ErrConflict is returned when an insert violates a uniqueness constraint.
	ErrConflict = errors.New("record already exists")
)

const uniqueViolation = "23505"

// FromPostgres normalises pgx errors onto the package sentinels.
func FromPostgres(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrConflict
	}
	return err
}

// FromSupabase normalises PostgREST errors onto the package sentinels. PostgREST reports the
// Postgres error code inside the message body.
func FromSupabase(err error) error {
	if err == nil {
		return nil
	}
	if strings.Contains(err.Error(), uniqueViolation) {
		return ErrConflict
	}
	return err
}
