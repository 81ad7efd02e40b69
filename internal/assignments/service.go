package assignments

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/gatewarden/gatewarden/internal/platform/httpx"
	"github.com/gatewarden/gatewarden/internal/shared"
)

// RepositoryPort defines data access methods for role assignments.
type RepositoryPort interface {
	Assign(ctx context.Context, userID, roleID uuid.UUID) (UserRole, error)
	Unassign(ctx context.Context, userID, roleID uuid.UUID) (bool, error)
	RolesForUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]UserRole, error)
}

// AuditRecorder persists administrative mutations.
type AuditRecorder interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Service handles role membership business logic.
type Service struct {
	repo  RepositoryPort
	audit AuditRecorder
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, audit AuditRecorder) *Service {
	return &Service{repo: repo, audit: audit}
}

// Assign grants the role to the user.
func (s *Service) Assign(ctx context.Context, actor uuid.UUID, userID, roleID uuid.UUID) (UserRole, error) {
	ur, err := s.repo.Assign(ctx, userID, roleID)
	if err != nil {
		return UserRole{}, err
	}
	s.record(ctx, actor, "assignment.create", ur.ID, map[string]any{
		"user_id": userID.String(),
		"role_id": roleID.String(),
	})
	return ur, nil
}

// Unassign revokes the role from the user. The store treats an absent pair
// as a no-op; the admin API surfaces it as 404.
func (s *Service) Unassign(ctx context.Context, actor uuid.UUID, userID, roleID uuid.UUID) error {
	deleted, err := s.repo.Unassign(ctx, userID, roleID)
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("assignments: user does not hold role: %w", httpx.ErrNotFound)
	}
	s.record(ctx, actor, "assignment.delete", userID, map[string]any{
		"user_id": userID.String(),
		"role_id": roleID.String(),
	})
	return nil
}

// RolesForUser returns the ids of every role the user holds.
func (s *Service) RolesForUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	return s.repo.RolesForUser(ctx, userID)
}

// ListForUser returns the full membership rows for a user.
func (s *Service) ListForUser(ctx context.Context, userID uuid.UUID) ([]UserRole, error) {
	return s.repo.ListForUser(ctx, userID)
}

func (s *Service) record(ctx context.Context, actor uuid.UUID, action string, entityID uuid.UUID, meta map[string]any) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Record(ctx, shared.AuditLog{
		ActorID:  actor,
		Action:   action,
		Entity:   "user_role",
		EntityID: entityID.String(),
		Meta:     meta,
	})
}
