package access

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/gatewarden/gatewarden/internal/platform/httpx"
)

// DecisionRecorder counts granted and denied decisions.
type DecisionRecorder interface {
	RecordDecision(granted bool)
}

// Handler exposes the access check endpoint.
type Handler struct {
	logger  *slog.Logger
	service *Service
	metrics DecisionRecorder
	guard   func(http.Handler) http.Handler
}

// NewHandler builds Handler instance. metrics may be nil.
func NewHandler(logger *slog.Logger, service *Service, metrics DecisionRecorder, guard func(http.Handler) http.Handler) *Handler {
	return &Handler{logger: logger, service: service, metrics: metrics, guard: guard}
}

// MountRoutes registers the access routes. The check itself is an open
// read; the vocabulary listing is an administrative convenience.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.check)
	r.Group(func(r chi.Router) {
		r.Use(h.guard)
		r.Get("/permissions", h.permissions)
	})
}

type elementSnapshot struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (h *Handler) check(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	decision, err := h.service.CheckAccess(r.Context(), q.Get("user_id"), q.Get("resource"), q.Get("permissions"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if h.metrics != nil {
		h.metrics.RecordDecision(decision.Granted)
	}
	if !decision.Granted {
		httpx.Problem(w, http.StatusForbidden, "Forbidden", decision.Reason)
		return
	}
	e := decision.Element
	httpx.JSON(w, http.StatusOK, elementSnapshot{
		ID:          e.ID,
		Name:        e.Name,
		Description: e.Description,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	})
}

func (h *Handler) permissions(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, map[string][]string{"permissions": PermissionNames})
}
