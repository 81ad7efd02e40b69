package elements

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/gatewarden/gatewarden/internal/platform/httpx"
	"github.com/gatewarden/gatewarden/internal/shared"
)

// RepositoryPort defines data access methods for elements.
type RepositoryPort interface {
	List(ctx context.Context) ([]Element, error)
	Get(ctx context.Context, id uuid.UUID) (Element, error)
	FindByName(ctx context.Context, name string) (Element, error)
	Create(ctx context.Context, name, description string) (Element, error)
	Update(ctx context.Context, id uuid.UUID, name, description string) (Element, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// AuditRecorder persists administrative mutations.
type AuditRecorder interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Service handles element catalog business logic.
type Service struct {
	repo  RepositoryPort
	audit AuditRecorder
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, audit AuditRecorder) *Service {
	return &Service{repo: repo, audit: audit}
}

// List returns all elements.
func (s *Service) List(ctx context.Context) ([]Element, error) {
	return s.repo.List(ctx)
}

// Get fetches an element by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (Element, error) {
	return s.repo.Get(ctx, id)
}

// FindByName fetches an element by exact name.
func (s *Service) FindByName(ctx context.Context, name string) (Element, error) {
	return s.repo.FindByName(ctx, name)
}

// Create inserts a new element.
func (s *Service) Create(ctx context.Context, actor uuid.UUID, req CreateElementRequest) (Element, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return Element{}, fmt.Errorf("elements: name required: %w", httpx.ErrValidation)
	}
	elem, err := s.repo.Create(ctx, name, strings.TrimSpace(req.Description))
	if err != nil {
		return Element{}, err
	}
	s.record(ctx, actor, "element.create", elem.ID, map[string]any{"name": elem.Name})
	return elem, nil
}

// Update applies the provided fields to an existing element.
func (s *Service) Update(ctx context.Context, actor uuid.UUID, id uuid.UUID, req UpdateElementRequest) (Element, error) {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return Element{}, err
	}
	name, description := current.Name, current.Description
	if req.Name != nil {
		name = strings.TrimSpace(*req.Name)
		if name == "" {
			return Element{}, fmt.Errorf("elements: name required: %w", httpx.ErrValidation)
		}
	}
	if req.Description != nil {
		description = strings.TrimSpace(*req.Description)
	}
	elem, err := s.repo.Update(ctx, id, name, description)
	if err != nil {
		return Element{}, err
	}
	s.record(ctx, actor, "element.update", elem.ID, map[string]any{"name": elem.Name})
	return elem, nil
}

// Delete removes an element together with its dependent rules.
func (s *Service) Delete(ctx context.Context, actor uuid.UUID, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.record(ctx, actor, "element.delete", id, nil)
	return nil
}

func (s *Service) record(ctx context.Context, actor uuid.UUID, action string, entityID uuid.UUID, meta map[string]any) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Record(ctx, shared.AuditLog{
		ActorID:  actor,
		Action:   action,
		Entity:   "business_element",
		EntityID: entityID.String(),
		Meta:     meta,
	})
}
