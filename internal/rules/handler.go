package rules

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/gatewarden/gatewarden/internal/platform/httpx"
	"github.com/gatewarden/gatewarden/internal/shared"
)

// Handler manages the grant matrix endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
	guard    func(http.Handler) http.Handler
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, guard func(http.Handler) http.Handler) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New(), guard: guard}
}

// MountRoutes registers rule routes, all behind the superuser guard.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.guard)
		r.Get("/", h.list)
		r.Post("/", h.create)
		r.Get("/{id}", h.get)
		r.Put("/{id}", h.update)
		r.Delete("/{id}", h.delete)
	})
}

type ruleResponse struct {
	ID        uuid.UUID `json:"id"`
	RoleID    uuid.UUID `json:"role_id"`
	ElementID uuid.UUID `json:"element_id"`
	Read      bool      `json:"read_permission"`
	ReadAll   bool      `json:"read_all_permission"`
	Create    bool      `json:"create_permission"`
	Update    bool      `json:"update_permission"`
	UpdateAll bool      `json:"update_all_permission"`
	Delete    bool      `json:"delete_permission"`
	DeleteAll bool      `json:"delete_all_permission"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toResponse(rule Rule) ruleResponse {
	return ruleResponse{
		ID:        rule.ID,
		RoleID:    rule.RoleID,
		ElementID: rule.ElementID,
		Read:      rule.Flags.Read,
		ReadAll:   rule.Flags.ReadAll,
		Create:    rule.Flags.Create,
		Update:    rule.Flags.Update,
		UpdateAll: rule.Flags.UpdateAll,
		Delete:    rule.Flags.Delete,
		DeleteAll: rule.Flags.DeleteAll,
		CreatedAt: rule.CreatedAt,
		UpdatedAt: rule.UpdatedAt,
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list rules", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	out := make([]ruleResponse, 0, len(list))
	for _, rule := range list {
		out = append(out, toResponse(rule))
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid rule id")
		return
	}
	rule, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(rule))
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req CreateRuleRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	rule, err := h.service.Create(r.Context(), actorID(r), req)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toResponse(rule))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid rule id")
		return
	}
	var req UpdateRuleRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	rule, err := h.service.Update(r.Context(), actorID(r), id, req)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(rule))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid rule id")
		return
	}
	if err := h.service.Delete(r.Context(), actorID(r), id); err != nil {
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
