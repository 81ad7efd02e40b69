package rules

import (
	"context"

	"github.com/google/uuid"

	"github.com/gatewarden/gatewarden/internal/shared"
)

// RepositoryPort defines data access methods for rules.
type RepositoryPort interface {
	List(ctx context.Context) ([]Rule, error)
	Get(ctx context.Context, id uuid.UUID) (Rule, error)
	FindByRoleAndElement(ctx context.Context, roleID, elementID uuid.UUID) (Rule, error)
	Create(ctx context.Context, roleID, elementID uuid.UUID, f PermissionFlags) (Rule, error)
	Update(ctx context.Context, id uuid.UUID, f PermissionFlags) (Rule, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// AuditRecorder persists administrative mutations.
type AuditRecorder interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Service handles grant matrix business logic.
type Service struct {
	repo  RepositoryPort
	audit AuditRecorder
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, audit AuditRecorder) *Service {
	return &Service{repo: repo, audit: audit}
}

// List returns all rules.
func (s *Service) List(ctx context.Context) ([]Rule, error) {
	return s.repo.List(ctx)
}

// Get fetches a rule by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (Rule, error) {
	return s.repo.Get(ctx, id)
}

// FindByRoleAndElement fetches the rule for a (role, element) pair.
func (s *Service) FindByRoleAndElement(ctx context.Context, roleID, elementID uuid.UUID) (Rule, error) {
	return s.repo.FindByRoleAndElement(ctx, roleID, elementID)
}

// Create inserts the rule for a (role, element) pair; a duplicate pair is a
// conflict, never an implicit update.
func (s *Service) Create(ctx context.Context, actor uuid.UUID, req CreateRuleRequest) (Rule, error) {
	rule, err := s.repo.Create(ctx, req.RoleID, req.ElementID, req.flags())
	if err != nil {
		return Rule{}, err
	}
	s.record(ctx, actor, "rule.create", rule.ID, map[string]any{
		"role_id":    rule.RoleID.String(),
		"element_id": rule.ElementID.String(),
	})
	return rule, nil
}

// Update replaces the flags on an existing rule, keeping unset ones.
func (s *Service) Update(ctx context.Context, actor uuid.UUID, id uuid.UUID, req UpdateRuleRequest) (Rule, error) {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return Rule{}, err
	}
	rule, err := s.repo.Update(ctx, id, req.apply(current.Flags))
	if err != nil {
		return Rule{}, err
	}
	s.record(ctx, actor, "rule.update", rule.ID, nil)
	return rule, nil
}

// Delete removes a rule by id.
func (s *Service) Delete(ctx context.Context, actor uuid.UUID, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.record(ctx, actor, "rule.delete", id, nil)
	return nil
}

func (s *Service) record(ctx context.Context, actor uuid.UUID, action string, entityID uuid.UUID, meta map[string]any) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Record(ctx, shared.AuditLog{
		ActorID:  actor,
		Action:   action,
		Entity:   "access_role_rule",
		EntityID: entityID.String(),
		Meta:     meta,
	})
}
