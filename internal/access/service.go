package access

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/gatewarden/gatewarden/internal/elements"
	"github.com/gatewarden/gatewarden/internal/platform/httpx"
	"github.com/gatewarden/gatewarden/internal/rules"
	"github.com/gatewarden/gatewarden/internal/users"
)

// UserDirectory is the only read the engine performs against user accounts.
type UserDirectory interface {
	FindActiveByID(ctx context.Context, id uuid.UUID) (users.User, error)
}

// ElementDirectory resolves business elements by exact name.
type ElementDirectory interface {
	FindByName(ctx context.Context, name string) (elements.Element, error)
}

// RoleSource enumerates the roles a user holds.
type RoleSource interface {
	RolesForUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}

// RuleSource fetches the rule for a (role, element) pair; absence means
// "no explicit grant" and is reported as httpx.ErrNotFound.
type RuleSource interface {
	FindByRoleAndElement(ctx context.Context, roleID, elementID uuid.UUID) (rules.Rule, error)
}

// Service is the decision engine. It holds no mutable state and re-reads
// the stores on every call, so a decision always reflects the latest
// committed grants and may be invoked concurrently without coordination.
type Service struct {
	users    UserDirectory
	elements ElementDirectory
	roles    RoleSource
	rules    RuleSource
}

// NewService builds Service instance.
func NewService(users UserDirectory, elements ElementDirectory, roles RoleSource, rules RuleSource) *Service {
	return &Service{users: users, elements: elements, roles: roles, rules: rules}
}

// CheckAccess decides whether the user may exercise every requested
// permission on the named element.
//
// The checks run in a fixed order: parameter validation, then user
// resolution, then element resolution, then rule evaluation. A grant
// requires a single role whose rule satisfies the whole requested set;
// grants are additive across roles but never combine across them. The
// role iteration order is unspecified; evaluation short-circuits on the
// first satisfying rule, and any satisfying rule yields the same answer.
func (s *Service) CheckAccess(ctx context.Context, userID, resourceName, permissionsRaw string) (Decision, error) {
	userID = strings.TrimSpace(userID)
	resourceName = strings.TrimSpace(resourceName)
	perms := ParsePermissions(permissionsRaw)
	if userID == "" || resourceName == "" || len(perms) == 0 {
		return Decision{}, fmt.Errorf("access: missing required parameters: user_id, resource, permissions: %w", httpx.ErrValidation)
	}

	// User resolution precedes element resolution: an unknown caller learns
	// nothing, not even a validation hint about the resource.
	uid, err := uuid.Parse(userID)
	if err != nil {
		return Decision{}, userNotFound()
	}
	if _, err := s.users.FindActiveByID(ctx, uid); err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			return Decision{}, userNotFound()
		}
		return Decision{}, err
	}

	element, err := s.elements.FindByName(ctx, resourceName)
	if err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			return Decision{Granted: false, Reason: ReasonResourceNotFound}, nil
		}
		return Decision{}, err
	}

	roleIDs, err := s.roles.RolesForUser(ctx, uid)
	if err != nil {
		return Decision{}, err
	}
	for _, roleID := range roleIDs {
		rule, err := s.rules.FindByRoleAndElement(ctx, roleID, element.ID)
		if err != nil {
			if errors.Is(err, httpx.ErrNotFound) {
				continue
			}
			return Decision{}, err
		}
		if rule.Flags.GrantsAll(perms) {
			return Decision{Granted: true, Element: &element}, nil
		}
	}

	return Decision{Granted: false, Reason: ReasonInsufficientPermissions}, nil
}

func userNotFound() error {
	return fmt.Errorf("access: user not found or inactive: %w", httpx.ErrUnauthorized)
}
