package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/gatewarden/gatewarden/internal/access"
	"github.com/gatewarden/gatewarden/internal/assignments"
	"github.com/gatewarden/gatewarden/internal/auth"
	"github.com/gatewarden/gatewarden/internal/elements"
	"github.com/gatewarden/gatewarden/internal/observability"
	"github.com/gatewarden/gatewarden/internal/roles"
	"github.com/gatewarden/gatewarden/internal/rules"
	"github.com/gatewarden/gatewarden/internal/users"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger             *slog.Logger
	Config             *Config
	AuthMiddleware     auth.Middleware
	AuthHandler        *auth.Handler
	AccessHandler      *access.Handler
	RolesHandler       *roles.Handler
	ElementsHandler    *elements.Handler
	RulesHandler       *rules.Handler
	UsersHandler       *users.Handler
	AssignmentsHandler *assignments.Handler
	Metrics            *observability.Metrics
}

// NewRouter constructs the chi.Router with Gatewarden defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Auth:    params.AuthMiddleware,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", params.AuthHandler.MountRoutes)
		r.Route("/access", params.AccessHandler.MountRoutes)
		r.Route("/roles", params.RolesHandler.MountRoutes)
		r.Route("/elements", params.ElementsHandler.MountRoutes)
		r.Route("/rules", params.RulesHandler.MountRoutes)
		r.Route("/users", func(r chi.Router) {
			params.UsersHandler.MountRoutes(r)
			r.Route("/{id}/roles", params.AssignmentsHandler.MountRoutes)
		})
	})

	return r
}
