package shared

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrTokenUnknown indicates a bearer token with no live session.
var ErrTokenUnknown = errors.New("token unknown or expired")

const (
	uniqueViolationCode     = "23505"
	foreignKeyViolationCode = "23503"
)

// IsUniqueViolation reports whether err is a PostgreSQL unique constraint
// violation. Uniqueness invariants are enforced at the storage layer and
// surface to callers as conflicts, never as silent overwrites.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

// IsForeignKeyViolation reports whether err is a PostgreSQL foreign key
// violation, i.e. a referenced parent row does not exist.
func IsForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolationCode
}
