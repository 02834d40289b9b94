package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/modernmaestros/maestro/internal/auth"
	"github.com/modernmaestros/maestro/internal/composers"
	"github.com/modernmaestros/maestro/internal/compositions"
	"github.com/modernmaestros/maestro/internal/interactions"
	"github.com/modernmaestros/maestro/internal/performances"
	"github.com/modernmaestros/maestro/internal/users"
	"github.com/modernmaestros/maestro/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger              *slog.Logger
	Config              *Config
	Guard               auth.Guard
	AuthHandler         *auth.Handler
	UsersHandler        *users.Handler
	ComposersHandler    *composers.Handler
	CompositionsHandler *compositions.Handler
	PerformancesHandler *performances.Handler
	InteractionsHandler *interactions.Handler
	JobHandler          *jobs.Handler
}

// NewRouter constructs the chi.Router with Maestro defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger: params.Logger,
		Config: params.Config,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	// Bearer tokens are extracted once for the whole tree; a present but
	// invalid token fails here with 401 before any handler runs.
	r.Use(params.Guard.Authenticate)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/auth", params.AuthHandler.MountRoutes)
	r.Route("/users", params.UsersHandler.MountRoutes)
	r.Route("/composers", params.ComposersHandler.MountRoutes)
	r.Route("/compositions", params.CompositionsHandler.MountRoutes)
	r.Route("/performances", params.PerformancesHandler.MountRoutes)
	r.Route("/interactions", params.InteractionsHandler.MountRoutes)
	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}

	return r
}
