package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/modernmaestros/maestro/internal/app"
	"github.com/modernmaestros/maestro/internal/composers"
	"github.com/modernmaestros/maestro/internal/compositions"
	"github.com/modernmaestros/maestro/internal/ingest"
	"github.com/modernmaestros/maestro/internal/platform/db"
	"github.com/modernmaestros/maestro/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
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

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	composersRepo := composers.NewRepository(pool)
	compositionsRepo := compositions.NewRepository(pool)
	importer := ingest.NewImporter(composersRepo, compositionsRepo, logger)

	catalogClient := ingest.NewCatalogClient(ingest.CatalogConfig{
		TokenURL:     cfg.CatalogTokenURL,
		APIURL:       cfg.CatalogAPIURL,
		ClientID:     cfg.CatalogClientID,
		ClientSecret: cfg.CatalogClientSecret,
	}, nil)
	scraper := ingest.NewScraper(nil)

	var cron []jobs.CronRegistration
	if cfg.ScrapeURL != "" {
		scrapeTask, err := jobs.NewScrapeImportTask(jobs.ScrapeImportPayload{URL: cfg.ScrapeURL})
		if err != nil {
			logger.Error("build scrape task", slog.Any("error", err))
			os.Exit(1)
		}
		cron = append(cron, jobs.CronRegistration{
			Spec:    "0 3 * * *",
			Task:    scrapeTask,
			Options: []asynq.Option{asynq.MaxRetry(3)},
		})
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskCatalogImport, Handler: jobs.HandleCatalogImport(catalogClient, importer)},
			{Type: jobs.TaskScrapeImport, Handler: jobs.HandleScrapeImport(scraper, importer)},
		},
		Cron: cron,
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
