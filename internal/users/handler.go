package users

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/modernmaestros/maestro/internal/auth"
	"github.com/modernmaestros/maestro/internal/platform/httpx"
)

// Handler serves the /users endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	issuer   *auth.Issuer
	guard    auth.Guard
	validate *validator.Validate
}

// NewHandler constructs the users Handler.
func NewHandler(logger *slog.Logger, service *Service, issuer *auth.Issuer, guard auth.Guard) *Handler {
	return &Handler{
		logger:   logger,
		service:  service,
		issuer:   issuer,
		guard:    guard,
		validate: validator.New(),
	}
}

// MountRoutes attaches user routes with their guards.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireAdmin)
		r.Post("/", h.Create)
		r.Get("/", h.List)
		r.Get("/search", h.Search)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireSelfOrAdmin("username", h.resolveTarget))
		r.Get("/{username}", h.Show)
		r.Patch("/{username}", h.Update)
		r.Delete("/{username}", h.Delete)
	})
}

func (h *Handler) resolveTarget(r *http.Request, username string) (int64, error) {
	return h.service.repo.ResolveID(r.Context(), username)
}

// Create handles POST /users (admin only) and returns the user plus a token.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: malformed request body", httpx.ErrValidation))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %s", httpx.ErrValidation, err.Error()))
		return
	}

	user, err := h.service.Create(r.Context(), req)
	if err != nil {
		h.logger.Warn("create user failed", slog.String("username", req.Username), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	token, err := h.issuer.Issue(user.ID, user.Username, user.IsAdmin)
	if err != nil {
		h.logger.Error("issue token", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"user": user, "token": token})
}

// List handles GET /users (admin only).
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list users failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"users": users})
}

// Search handles GET /users/search (admin only).
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	req := SearchUsersRequest{
		Username: r.URL.Query().Get("username"),
		Email:    r.URL.Query().Get("email"),
		UserType: r.URL.Query().Get("user_type"),
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %s", httpx.ErrValidation, err.Error()))
		return
	}
	users, err := h.service.Search(r.Context(), req)
	if err != nil {
		h.logger.Error("search users failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"users": users})
}

// Show handles GET /users/{username}.
func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	user, err := h.service.Get(r.Context(), username)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"user": user})
}

// Update handles PATCH /users/{username}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	var req UpdateUserRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: malformed request body", httpx.ErrValidation))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %s", httpx.ErrValidation, err.Error()))
		return
	}

	user, err := h.service.Update(r.Context(), username, req)
	if err != nil {
		h.logger.Warn("update user failed", slog.String("username", username), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"user": user})
}

// Delete handles DELETE /users/{username}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	if err := h.service.Delete(r.Context(), username); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"deleted": username})
}
