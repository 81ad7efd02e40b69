// Package assignments stores role membership: one row per (user, role) pair.
package assignments

import (
	"time"

	"github.com/google/uuid"
)

// UserRole links a user to a role. A user may hold any number of roles and
// a role any number of users, but the storage layer guarantees at most one
// row per pair.
type UserRole struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	RoleID    uuid.UUID
	CreatedAt time.Time
}
