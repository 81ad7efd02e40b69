// Package auth implements the account lifecycle and bearer-token
// authentication consumed by the rest of the API.
package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/gatewarden/gatewarden/internal/platform/httpx"
	"github.com/gatewarden/gatewarden/internal/users"
)

// Repository defines the user-directory writes the auth flows need.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (users.User, error)
	FindActiveByID(ctx context.Context, id uuid.UUID) (users.User, error)
	Create(ctx context.Context, u users.User) (users.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, firstName, middleName, lastName string) (users.User, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
}

// TokenStore abstracts bearer token issuance and revocation.
type TokenStore interface {
	Issue(ctx context.Context, userID uuid.UUID) (string, error)
	Resolve(ctx context.Context, token string) (uuid.UUID, error)
	Revoke(ctx context.Context, token string) error
}

// Service wraps authentication business rules.
type Service struct {
	repo   Repository
	tokens TokenStore
}

// NewService constructs a new Service.
func NewService(repo Repository, tokens TokenStore) *Service {
	return &Service{repo: repo, tokens: tokens}
}

// Register creates an account and logs it in.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (users.User, string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return users.User{}, "", err
	}
	user, err := s.repo.Create(ctx, users.User{
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		FirstName:    strings.TrimSpace(req.FirstName),
		MiddleName:   strings.TrimSpace(req.MiddleName),
		LastName:     strings.TrimSpace(req.LastName),
		PasswordHash: string(hash),
		IsActive:     true,
	})
	if err != nil {
		return users.User{}, "", err
	}
	token, err := s.tokens.Issue(ctx, user.ID)
	if err != nil {
		return users.User{}, "", err
	}
	return user, token, nil
}

// Login validates credentials and issues a token. Unknown accounts,
// inactive accounts and wrong passwords are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (users.User, string, error) {
	user, err := s.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return users.User{}, "", invalidCredentials()
	}
	if !user.IsActive {
		return users.User{}, "", invalidCredentials()
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return users.User{}, "", invalidCredentials()
	}
	token, err := s.tokens.Issue(ctx, user.ID)
	if err != nil {
		return users.User{}, "", err
	}
	return user, token, nil
}

// Logout revokes the presented token.
func (s *Service) Logout(ctx context.Context, token string) error {
	return s.tokens.Revoke(ctx, token)
}

// UpdateProfile changes the caller's profile fields, keeping unset ones.
func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (users.User, error) {
	current, err := s.repo.FindActiveByID(ctx, userID)
	if err != nil {
		return users.User{}, err
	}
	first, middle, last := current.FirstName, current.MiddleName, current.LastName
	if req.FirstName != nil {
		first = strings.TrimSpace(*req.FirstName)
	}
	if req.MiddleName != nil {
		middle = strings.TrimSpace(*req.MiddleName)
	}
	if req.LastName != nil {
		last = strings.TrimSpace(*req.LastName)
	}
	return s.repo.UpdateProfile(ctx, userID, first, middle, last)
}

// DeleteAccount soft-deletes the caller and revokes the presented token.
func (s *Service) DeleteAccount(ctx context.Context, userID uuid.UUID, token string) error {
	if err := s.repo.Deactivate(ctx, userID); err != nil {
		return err
	}
	return s.tokens.Revoke(ctx, token)
}

func invalidCredentials() error {
	return fmt.Errorf("auth: invalid credentials: %w", httpx.ErrUnauthorized)
}
