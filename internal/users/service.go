package users

import (
	"context"

	"github.com/google/uuid"
)

// RepositoryPort defines data access methods for users.
type RepositoryPort interface {
	List(ctx context.Context) ([]User, error)
	FindByID(ctx context.Context, id uuid.UUID) (User, error)
	FindActiveByID(ctx context.Context, id uuid.UUID) (User, error)
}

// Service handles user directory reads for the admin surface.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// List returns all users.
func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx)
}

// Get fetches a user by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (User, error) {
	return s.repo.FindByID(ctx, id)
}

// FindActiveByID exposes the directory read consumed by the decision engine.
func (s *Service) FindActiveByID(ctx context.Context, id uuid.UUID) (User, error) {
	return s.repo.FindActiveByID(ctx, id)
}
