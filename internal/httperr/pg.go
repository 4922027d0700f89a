package httperr

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgExclusionViolation  = "23P01"
	pgSerializationFailed = "40001"
)

// IsExclusionConflict reports whether err comes from Postgres refusing a
// conflicting booking row (exclusion constraint or serialization failure).
// The row lock makes this rare; when it fires it is reported to the caller
// exactly like any other lost slot.
func IsExclusionConflict(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == pgExclusionViolation || pgErr.Code == pgSerializationFailed
}
