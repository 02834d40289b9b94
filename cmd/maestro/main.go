package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/modernmaestros/maestro/internal/app"
	"github.com/modernmaestros/maestro/internal/auth"
	"github.com/modernmaestros/maestro/internal/composers"
	"github.com/modernmaestros/maestro/internal/compositions"
	"github.com/modernmaestros/maestro/internal/interactions"
	"github.com/modernmaestros/maestro/internal/migrate"
	"github.com/modernmaestros/maestro/internal/performances"
	"github.com/modernmaestros/maestro/internal/platform/cache"
	"github.com/modernmaestros/maestro/internal/platform/db"
	"github.com/modernmaestros/maestro/internal/users"
	"github.com/modernmaestros/maestro/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	if err := migrate.Up(ctx, cfg.PGDSN); err != nil {
		logger.Error("apply migrations", slog.Any("error", err))
		os.Exit(1)
	}

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis unavailable, list cache disabled", slog.Any("error", err))
		redisClient = nil
	}
	defer func() {
		if redisClient == nil {
			return
		}
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	issuer := auth.NewIssuer(cfg.JWTSecret, cfg.TokenTTL, time.Now)
	guard := auth.Guard{Issuer: issuer, Logger: logger}

	authRepo := auth.NewRepository(pool)
	authService := auth.NewService(authRepo)
	authHandler := auth.NewHandler(logger, authService, issuer)

	usersRepo := users.NewRepository(pool)
	usersService := users.NewService(usersRepo)
	usersHandler := users.NewHandler(logger, usersService, issuer, guard)

	composersRepo := composers.NewRepository(pool)
	composersService := composers.NewService(composersRepo)
	composersHandler := composers.NewHandler(logger, composersService, guard)

	compositionsRepo := compositions.NewRepository(pool)
	compositionsCache := compositions.NewCache(redisClient, cfg.CacheTTL)
	compositionsService := compositions.NewService(compositionsRepo, compositionsCache, logger)
	compositionsHandler := compositions.NewHandler(logger, compositionsService, guard)

	performancesRepo := performances.NewRepository(pool)
	performancesService := performances.NewService(performancesRepo)
	performancesHandler := performances.NewHandler(logger, performancesService, guard)

	interactionsRepo := interactions.NewRepository(pool)
	interactionsService := interactions.NewService(interactionsRepo)
	interactionsHandler := interactions.NewHandler(logger, interactionsService, guard)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:              logger,
		Config:              cfg,
		Guard:               guard,
		AuthHandler:         authHandler,
		UsersHandler:        usersHandler,
		ComposersHandler:    composersHandler,
		CompositionsHandler: compositionsHandler,
		PerformancesHandler: performancesHandler,
		InteractionsHandler: interactionsHandler,
		JobHandler:          jobHandler,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
