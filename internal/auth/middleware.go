package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gatewarden/gatewarden/internal/platform/httpx"
	"github.com/gatewarden/gatewarden/internal/shared"
)

// Middleware resolves bearer tokens into request principals and provides
// the superuser guard protecting the administrative catalogs.
type Middleware struct {
	Tokens TokenStore
	Users  Repository
	Logger *slog.Logger
}

// Authenticate attaches the principal for requests carrying a valid bearer
// token. Requests without an Authorization header pass through anonymous;
// requests with an invalid or expired token are rejected outright.
func (m Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}
		userID, err := m.Tokens.Resolve(r.Context(), token)
		if err != nil {
			if errors.Is(err, shared.ErrTokenUnknown) {
				httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "invalid or expired token")
				return
			}
			if m.Logger != nil {
				m.Logger.Error("resolve token", slog.Any("error", err))
			}
			httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
			return
		}
		user, err := m.Users.FindActiveByID(r.Context(), userID)
		if err != nil {
			// Token outlived the account; treat as unauthenticated.
			httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "invalid or expired token")
			return
		}
		ctx := shared.ContextWithPrincipal(r.Context(), &shared.Principal{
			ID:          user.ID,
			Email:       user.Email,
			IsSuperuser: user.IsSuperuser,
		})
		ctx = contextWithToken(ctx, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAuth rejects anonymous requests.
func (m Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if shared.PrincipalFromContext(r.Context()) == nil {
			httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireSuperuser gates the administrative catalogs: anonymous callers get
// 401, authenticated non-superusers get 403.
func (m Middleware) RequireSuperuser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := shared.PrincipalFromContext(r.Context())
		if p == nil {
			httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "authentication required")
			return
		}
		if !p.IsSuperuser {
			httpx.Problem(w, http.StatusForbidden, "Forbidden", "superuser access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

type tokenContextKey struct{}

func contextWithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenContextKey{}, token)
}

// TokenFromContext returns the raw bearer token behind the current request.
func TokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(tokenContextKey{}).(string)
	return token
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
