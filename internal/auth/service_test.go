package auth_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/gatewarden/gatewarden/internal/auth"
	"github.com/gatewarden/gatewarden/internal/platform/httpx"
	"github.com/gatewarden/gatewarden/internal/shared"
	"github.com/gatewarden/gatewarden/internal/users"
	_ "github.com/gatewarden/gatewarden/testing"
)

type memoryUserRepo struct {
	byID map[uuid.UUID]users.User
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{byID: make(map[uuid.UUID]users.User)}
}

func (r *memoryUserRepo) FindByEmail(ctx context.Context, email string) (users.User, error) {
	for _, u := range r.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return users.User{}, fmt.Errorf("user: %w", httpx.ErrNotFound)
}

func (r *memoryUserRepo) FindActiveByID(ctx context.Context, id uuid.UUID) (users.User, error) {
	u, ok := r.byID[id]
	if !ok || !u.IsActive {
		return users.User{}, fmt.Errorf("user: %w", httpx.ErrNotFound)
	}
	return u, nil
}

func (r *memoryUserRepo) Create(ctx context.Context, u users.User) (users.User, error) {
	for _, existing := range r.byID {
		if existing.Email == u.Email {
			return users.User{}, fmt.Errorf("email already registered: %w", httpx.ErrConflict)
		}
	}
	u.ID = uuid.New()
	r.byID[u.ID] = u
	return u, nil
}

func (r *memoryUserRepo) UpdateProfile(ctx context.Context, id uuid.UUID, firstName, middleName, lastName string) (users.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return users.User{}, fmt.Errorf("user: %w", httpx.ErrNotFound)
	}
	u.FirstName, u.MiddleName, u.LastName = firstName, middleName, lastName
	r.byID[id] = u
	return u, nil
}

func (r *memoryUserRepo) Deactivate(ctx context.Context, id uuid.UUID) error {
	u, ok := r.byID[id]
	if !ok || !u.IsActive {
		return fmt.Errorf("user: %w", httpx.ErrNotFound)
	}
	u.IsActive = false
	r.byID[id] = u
	return nil
}

func newAuthService(t *testing.T) (*auth.Service, *memoryUserRepo, *shared.TokenStore) {
	t.Helper()
	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = redisClient.Close() })
	tokens := shared.NewTokenStore(redisClient, nil, time.Hour)
	repo := newMemoryUserRepo()
	return auth.NewService(repo, tokens), repo, tokens
}

func TestRegisterIssuesToken(t *testing.T) {
	svc, repo, tokens := newAuthService(t)
	ctx := context.Background()

	user, token, err := svc.Register(ctx, auth.RegisterRequest{
		Email:     "  Ada@Example.Test ",
		Password:  "hunter2hunter2",
		FirstName: "Ada",
		LastName:  "Root",
	})
	require.NoError(t, err)
	require.Equal(t, "ada@example.test", user.Email)
	require.True(t, user.IsActive)
	require.NotEmpty(t, token)

	resolved, err := tokens.Resolve(ctx, token)
	require.NoError(t, err)
	require.Equal(t, user.ID, resolved)

	stored := repo.byID[user.ID]
	require.NotEqual(t, "hunter2hunter2", stored.PasswordHash)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("hunter2hunter2")))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _ := newAuthService(t)
	ctx := context.Background()
	req := auth.RegisterRequest{Email: "ada@example.test", Password: "hunter2hunter2"}

	_, _, err := svc.Register(ctx, req)
	require.NoError(t, err)

	_, _, err = svc.Register(ctx, req)
	require.ErrorIs(t, err, httpx.ErrConflict)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	svc, repo, _ := newAuthService(t)
	ctx := context.Background()

	user, _, err := svc.Register(ctx, auth.RegisterRequest{Email: "ada@example.test", Password: "hunter2hunter2"})
	require.NoError(t, err)

	// Unknown account.
	_, _, unknownErr := svc.Login(ctx, "nobody@example.test", "hunter2hunter2")
	require.ErrorIs(t, unknownErr, httpx.ErrUnauthorized)

	// Wrong password.
	_, _, wrongErr := svc.Login(ctx, "ada@example.test", "wrong")
	require.ErrorIs(t, wrongErr, httpx.ErrUnauthorized)

	// Deactivated account.
	require.NoError(t, repo.Deactivate(ctx, user.ID))
	_, _, inactiveErr := svc.Login(ctx, "ada@example.test", "hunter2hunter2")
	require.ErrorIs(t, inactiveErr, httpx.ErrUnauthorized)

	require.Equal(t, unknownErr.Error(), wrongErr.Error())
	require.Equal(t, wrongErr.Error(), inactiveErr.Error())
}

func TestLogoutRevokesToken(t *testing.T) {
	svc, _, tokens := newAuthService(t)
	ctx := context.Background()

	_, token, err := svc.Register(ctx, auth.RegisterRequest{Email: "ada@example.test", Password: "hunter2hunter2"})
	require.NoError(t, err)
	require.NoError(t, svc.Logout(ctx, token))

	_, err = tokens.Resolve(ctx, token)
	require.ErrorIs(t, err, shared.ErrTokenUnknown)

	// Revoking an already revoked token is a no-op.
	require.NoError(t, svc.Logout(ctx, token))
}

func TestUpdateProfileKeepsUnsetFields(t *testing.T) {
	svc, _, _ := newAuthService(t)
	ctx := context.Background()

	user, _, err := svc.Register(ctx, auth.RegisterRequest{
		Email: "ada@example.test", Password: "hunter2hunter2",
		FirstName: "Ada", LastName: "Root",
	})
	require.NoError(t, err)

	last := "Lovelace"
	updated, err := svc.UpdateProfile(ctx, user.ID, auth.UpdateProfileRequest{LastName: &last})
	require.NoError(t, err)
	require.Equal(t, "Ada", updated.FirstName)
	require.Equal(t, "Lovelace", updated.LastName)
}

func TestDeleteAccountDeactivatesAndRevokes(t *testing.T) {
	svc, repo, tokens := newAuthService(t)
	ctx := context.Background()

	user, token, err := svc.Register(ctx, auth.RegisterRequest{Email: "ada@example.test", Password: "hunter2hunter2"})
	require.NoError(t, err)
	require.NoError(t, svc.DeleteAccount(ctx, user.ID, token))

	require.False(t, repo.byID[user.ID].IsActive)
	_, err = tokens.Resolve(ctx, token)
	require.ErrorIs(t, err, shared.ErrTokenUnknown)
}
