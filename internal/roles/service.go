package roles

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/gatewarden/gatewarden/internal/platform/httpx"
	"github.com/gatewarden/gatewarden/internal/shared"
)

// RepositoryPort defines data access methods for roles.
type RepositoryPort interface {
	List(ctx context.Context) ([]Role, error)
	Get(ctx context.Context, id uuid.UUID) (Role, error)
	Create(ctx context.Context, name, description string) (Role, error)
	Update(ctx context.Context, id uuid.UUID, name, description string) (Role, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// AuditRecorder persists administrative mutations.
type AuditRecorder interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Service handles role catalog business logic.
type Service struct {
	repo  RepositoryPort
	audit AuditRecorder
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, audit AuditRecorder) *Service {
	return &Service{repo: repo, audit: audit}
}

// List returns all roles.
func (s *Service) List(ctx context.Context) ([]Role, error) {
	return s.repo.List(ctx)
}

// Get fetches a role by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (Role, error) {
	return s.repo.Get(ctx, id)
}

// Create inserts a new role.
func (s *Service) Create(ctx context.Context, actor uuid.UUID, req CreateRoleRequest) (Role, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return Role{}, fmt.Errorf("roles: name required: %w", httpx.ErrValidation)
	}
	role, err := s.repo.Create(ctx, name, strings.TrimSpace(req.Description))
	if err != nil {
		return Role{}, err
	}
	s.record(ctx, actor, "role.create", role.ID, map[string]any{"name": role.Name})
	return role, nil
}

// Update applies the provided fields to an existing role.
func (s *Service) Update(ctx context.Context, actor uuid.UUID, id uuid.UUID, req UpdateRoleRequest) (Role, error) {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return Role{}, err
	}
	name, description := current.Name, current.Description
	if req.Name != nil {
		name = strings.TrimSpace(*req.Name)
		if name == "" {
			return Role{}, fmt.Errorf("roles: name required: %w", httpx.ErrValidation)
		}
	}
	if req.Description != nil {
		description = strings.TrimSpace(*req.Description)
	}
	role, err := s.repo.Update(ctx, id, name, description)
	if err != nil {
		return Role{}, err
	}
	s.record(ctx, actor, "role.update", role.ID, map[string]any{"name": role.Name})
	return role, nil
}

// Delete removes a role together with its dependent rules and assignments.
func (s *Service) Delete(ctx context.Context, actor uuid.UUID, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.record(ctx, actor, "role.delete", id, nil)
	return nil
}

func (s *Service) record(ctx context.Context, actor uuid.UUID, action string, entityID uuid.UUID, meta map[string]any) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Record(ctx, shared.AuditLog{
		ActorID:  actor,
		Action:   action,
		Entity:   "role",
		EntityID: entityID.String(),
		Meta:     meta,
	})
}
