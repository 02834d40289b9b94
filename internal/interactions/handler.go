package interactions

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/modernmaestros/maestro/internal/auth"
	"github.com/modernmaestros/maestro/internal/platform/httpx"
)

// Handler serves the /interactions endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	guard    auth.Guard
	validate *validator.Validate
}

// NewHandler constructs the interactions Handler.
func NewHandler(logger *slog.Logger, service *Service, guard auth.Guard) *Handler {
	return &Handler{logger: logger, service: service, guard: guard, validate: validator.New()}
}

// MountRoutes attaches interaction routes with their guards.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/{id}", h.Show)
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireLogin)
		r.Post("/", h.Create)
		r.Patch("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}

// List handles GET /interactions with targetId/targetType/userId filters.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	req, err := parseListRequest(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	interactions, err := h.service.List(r.Context(), req)
	if err != nil {
		h.logger.Error("list interactions failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"interactions": interactions})
}

// Show handles GET /interactions/{id}.
func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	interaction, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"interaction": interaction})
}

// Create handles POST /interactions.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateInteractionRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: malformed request body", httpx.ErrValidation))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %s", httpx.ErrValidation, err.Error()))
		return
	}

	claims := auth.ClaimsFromContext(r.Context())
	interaction, err := h.service.Create(r.Context(), claims, req)
	if err != nil {
		h.logger.Warn("create interaction failed",
			slog.Int64("targetId", req.TargetID), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"interaction": interaction})
}

// Update handles PATCH /interactions/{id}, owner-or-admin.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	var req UpdateInteractionRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: malformed request body", httpx.ErrValidation))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %s", httpx.ErrValidation, err.Error()))
		return
	}

	claims := auth.ClaimsFromContext(r.Context())
	interaction, err := h.service.Update(r.Context(), claims, id, req)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"interaction": interaction})
}

// Delete handles DELETE /interactions/{id}, owner-or-admin.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	claims := auth.ClaimsFromContext(r.Context())
	if err := h.service.Delete(r.Context(), claims, id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"deleted": id})
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: invalid interaction id", httpx.ErrValidation))
		return 0, false
	}
	return id, true
}

func parseListRequest(r *http.Request) (ListInteractionsRequest, error) {
	var req ListInteractionsRequest
	q := r.URL.Query()
	if v := q.Get("targetId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return req, fmt.Errorf("%w: invalid targetId filter", httpx.ErrValidation)
		}
		req.TargetID = &id
	}
	req.TargetType = q.Get("targetType")
	if v := q.Get("userId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return req, fmt.Errorf("%w: invalid userId filter", httpx.ErrValidation)
		}
		req.UserID = &id
	}
	return req, nil
}
