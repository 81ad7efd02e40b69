// Package rules stores the grant matrix: one row of permission flags per
// (role, element) pair.
package rules

import (
	"time"

	"github.com/google/uuid"
)

// PermissionFlags is the closed permission vocabulary as a fixed record of
// named booleans. "Own"-scoped flags restrict the holder to resources they
// own; the "all" variants lift that restriction. Create has no variant
// since creation has no prior owner. Ownership enforcement itself lives
// outside this service.
type PermissionFlags struct {
	Read      bool
	ReadAll   bool
	Create    bool
	Update    bool
	UpdateAll bool
	Delete    bool
	DeleteAll bool
}

// Grants maps a requested permission name to its flag. Names outside the
// fixed vocabulary never grant; they are not an error.
func (f PermissionFlags) Grants(perm string) bool {
	switch perm {
	case "read":
		return f.Read
	case "read_all":
		return f.ReadAll
	case "create":
		return f.Create
	case "update":
		return f.Update
	case "update_all":
		return f.UpdateAll
	case "delete":
		return f.Delete
	case "delete_all":
		return f.DeleteAll
	default:
		return false
	}
}

// GrantsAll reports whether this single rule satisfies every requested
// permission. Partial matches never grant.
func (f PermissionFlags) GrantsAll(perms []string) bool {
	for _, p := range perms {
		if !f.Grants(p) {
			return false
		}
	}
	return true
}

// Rule is the permission matrix row for one (role, element) pair. The
// storage layer guarantees at most one rule per pair.
type Rule struct {
	ID        uuid.UUID
	RoleID    uuid.UUID
	ElementID uuid.UUID
	Flags     PermissionFlags
	CreatedAt time.Time
	UpdatedAt time.Time
}
