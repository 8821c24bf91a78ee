package db

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// ConstraintName returns the violated constraint's name for a Postgres
// error, or "" for any other error. Lets repositories distinguish a
// reference collision (retryable) from a real ownership conflict.
func ConstraintName(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	return ""
}
