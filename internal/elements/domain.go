// Package elements manages the business element catalog: the named
// protected resources access rules attach to.
package elements

import (
	"time"

	"github.com/google/uuid"
)

// Element represents a named protected resource.
type Element struct {
	ID          uuid.UUID
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
