// Package jobs runs background ingestion through Asynq.
package jobs

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"

	"github.com/modernmaestros/maestro/internal/ingest"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskCatalogImport imports an artist's works from the external
	// music-catalog API.
	TaskCatalogImport = "catalog:import_artist"
	// TaskScrapeImport imports compositions scraped from an HTML listing.
	TaskScrapeImport = "scrape:import"
)

// CatalogImportPayload names the artist whose catalog should be imported.
type CatalogImportPayload struct {
	Artist string `json:"artist"`
}

// ScrapeImportPayload names the page to scrape for compositions.
type ScrapeImportPayload struct {
	URL string `json:"url"`
}

// NewCatalogImportTask constructs a catalog-import task.
func NewCatalogImportTask(payload CatalogImportPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCatalogImport, data), nil
}

// NewScrapeImportTask constructs a scrape-import task.
func NewScrapeImportTask(payload ScrapeImportPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskScrapeImport, data), nil
}

// HandleCatalogImport builds the handler for TaskCatalogImport tasks.
// Imports are idempotent by natural key, so retries are safe.
func HandleCatalogImport(client *ingest.CatalogClient, importer *ingest.Importer) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload CatalogImportPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
		if payload.Artist == "" {
			return asynq.SkipRetry
		}
		candidates, err := client.SearchArtistTracks(ctx, payload.Artist)
		if err != nil {
			return err
		}
		_, err = importer.Import(ctx, "catalog:"+payload.Artist, candidates)
		return err
	}
}

// HandleScrapeImport builds the handler for TaskScrapeImport tasks.
func HandleScrapeImport(scraper *ingest.Scraper, importer *ingest.Importer) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload ScrapeImportPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
		if payload.URL == "" {
			return asynq.SkipRetry
		}
		candidates, err := scraper.Fetch(ctx, payload.URL)
		if err != nil {
			return err
		}
		_, err = importer.Import(ctx, payload.URL, candidates)
		return err
	}
}
