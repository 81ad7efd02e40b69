// Package access implements the access decision engine: given a user, a
// business element name and a set of requested permissions, it resolves the
// user's roles against the grant matrix and produces a single allow/deny
// answer.
package access

import "github.com/gatewarden/gatewarden/internal/elements"

// Denial reasons. Both map to the same authorization failure at the
// transport boundary so callers cannot probe for resource existence; the
// message is for operator diagnostics only and is not a stable contract.
const (
	ReasonResourceNotFound        = "resource not found"
	ReasonInsufficientPermissions = "insufficient permissions"
)

// Decision is the outcome of an access check. A granted decision carries a
// snapshot of the resolved element; a denied one carries only the reason.
type Decision struct {
	Granted bool
	Reason  string
	Element *elements.Element
}
