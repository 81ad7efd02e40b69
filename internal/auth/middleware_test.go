package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/gatewarden/gatewarden/internal/auth"
	"github.com/gatewarden/gatewarden/internal/shared"
	"github.com/gatewarden/gatewarden/internal/users"
)

func newMiddleware(t *testing.T) (auth.Middleware, *memoryUserRepo, *shared.TokenStore) {
	t.Helper()
	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = redisClient.Close() })
	tokens := shared.NewTokenStore(redisClient, nil, time.Hour)
	repo := newMemoryUserRepo()
	return auth.Middleware{Tokens: tokens, Users: repo}, repo, tokens
}

func guardedEndpoint(mw auth.Middleware) http.Handler {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return mw.Authenticate(mw.RequireSuperuser(ok))
}

func issueFor(t *testing.T, repo *memoryUserRepo, tokens *shared.TokenStore, superuser bool) string {
	t.Helper()
	user, err := repo.Create(context.Background(), users.User{
		Email:       "user@example.test",
		IsActive:    true,
		IsSuperuser: superuser,
	})
	require.NoError(t, err)
	token, err := tokens.Issue(context.Background(), user.ID)
	require.NoError(t, err)
	return token
}

func TestSuperuserGuardAnonymous(t *testing.T) {
	mw, _, _ := newMiddleware(t)

	req := httptest.NewRequest(http.MethodGet, "/roles", nil)
	res := httptest.NewRecorder()
	guardedEndpoint(mw).ServeHTTP(res, req)

	require.Equal(t, http.StatusUnauthorized, res.Code)
}

func TestSuperuserGuardInvalidToken(t *testing.T) {
	mw, _, _ := newMiddleware(t)

	req := httptest.NewRequest(http.MethodGet, "/roles", nil)
	req.Header.Set("Authorization", "Bearer bogus")
	res := httptest.NewRecorder()
	guardedEndpoint(mw).ServeHTTP(res, req)

	require.Equal(t, http.StatusUnauthorized, res.Code)
}

func TestSuperuserGuardNonSuperuser(t *testing.T) {
	mw, repo, tokens := newMiddleware(t)
	token := issueFor(t, repo, tokens, false)

	req := httptest.NewRequest(http.MethodGet, "/roles", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	res := httptest.NewRecorder()
	guardedEndpoint(mw).ServeHTTP(res, req)

	require.Equal(t, http.StatusForbidden, res.Code)
}

func TestSuperuserGuardSuperuser(t *testing.T) {
	mw, repo, tokens := newMiddleware(t)
	token := issueFor(t, repo, tokens, true)

	req := httptest.NewRequest(http.MethodGet, "/roles", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	res := httptest.NewRecorder()
	guardedEndpoint(mw).ServeHTTP(res, req)

	require.Equal(t, http.StatusOK, res.Code)
}

func TestAuthenticateRejectsTokenForDeactivatedAccount(t *testing.T) {
	mw, repo, tokens := newMiddleware(t)
	token := issueFor(t, repo, tokens, true)

	for id := range repo.byID {
		require.NoError(t, repo.Deactivate(context.Background(), id))
	}

	req := httptest.NewRequest(http.MethodGet, "/roles", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	res := httptest.NewRecorder()
	guardedEndpoint(mw).ServeHTTP(res, req)

	require.Equal(t, http.StatusUnauthorized, res.Code)
}
