package assignments

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/gatewarden/gatewarden/internal/platform/httpx"
	"github.com/gatewarden/gatewarden/internal/shared"
)

// Handler manages role membership endpoints, mounted under /users/{id}/roles.
type Handler struct {
	logger  *slog.Logger
	service *Service
	guard   func(http.Handler) http.Handler
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, guard func(http.Handler) http.Handler) *Handler {
	return &Handler{logger: logger, service: service, guard: guard}
}

// MountRoutes registers assignment routes, all behind the superuser guard.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.guard)
		r.Get("/", h.list)
		r.Post("/", h.assign)
		r.Delete("/{roleID}", h.unassign)
	})
}

type assignRequest struct {
	RoleID uuid.UUID `json:"role_id"`
}

type assignmentResponse struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	RoleID    uuid.UUID `json:"role_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid user id")
		return
	}
	list, err := h.service.ListForUser(r.Context(), userID)
	if err != nil {
		h.logger.Error("list assignments", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	out := make([]assignmentResponse, 0, len(list))
	for _, ur := range list {
		out = append(out, assignmentResponse{ID: ur.ID, UserID: ur.UserID, RoleID: ur.RoleID, CreatedAt: ur.CreatedAt})
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) assign(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid user id")
		return
	}
	var req assignRequest
	if err := httpx.DecodeJSON(r, &req); err != nil || req.RoleID == uuid.Nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "role_id required")
		return
	}
	ur, err := h.service.Assign(r.Context(), actorID(r), userID, req.RoleID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, assignmentResponse{ID: ur.ID, UserID: ur.UserID, RoleID: ur.RoleID, CreatedAt: ur.CreatedAt})
}

func (h *Handler) unassign(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid user id")
		return
	}
	roleID, err := uuid.Parse(chi.URLParam(r, "roleID"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid role id")
		return
	}
	if err := h.service.Unassign(r.Context(), actorID(r), userID, roleID); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.NoContent(w)
}

func actorID(r *http.Request) uuid.UUID {
	if p := shared.PrincipalFromContext(r.Context()); p != nil {
		return p.ID
	}
	return uuid.Nil
}
