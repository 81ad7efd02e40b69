package roles

import (
	"time"

	"github.com/google/uuid"
)

// Role represents a named bundle of grants assignable to users.
type Role struct {
	ID          uuid.UUID
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
