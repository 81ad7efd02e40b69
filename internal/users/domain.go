package users

import (
	"time"

	"github.com/google/uuid"
)

// User represents a user account. The decision path only cares about
// existence, the active flag and the superuser flag; the rest belongs to
// the account lifecycle endpoints.
type User struct {
	ID           uuid.UUID
	Email        string
	FirstName    string
	MiddleName   string
	LastName     string
	PasswordHash string
	IsActive     bool
	IsSuperuser  bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
