package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/unicode/norm"

	"github.com/modernmaestros/maestro/internal/composers"
	"github.com/modernmaestros/maestro/internal/compositions"
	"github.com/modernmaestros/maestro/internal/platform/httpx"
)

// ComposerStore is the slice of the composers repository the importer needs.
type ComposerStore interface {
	FindByName(ctx context.Context, name string) (*composers.Composer, error)
	Create(ctx context.Context, composer composers.Composer) (int64, error)
}

// CompositionStore is the slice of the compositions repository the importer
// needs. Create must reject natural-key duplicates with ErrConflict.
type CompositionStore interface {
	Create(ctx context.Context, composition compositions.Composition) (int64, error)
}

// Summary reports the outcome of one import run.
type Summary struct {
	RunID    string `json:"run_id"`
	Source   string `json:"source"`
	Inserted int    `json:"inserted"`
	Skipped  int    `json:"skipped"`
	Failed   int    `json:"failed"`
}

// Importer persists Candidates into the catalog, finding or creating
// composers by normalized name and skipping natural-key duplicates.
type Importer struct {
	composerStore    ComposerStore
	compositionStore CompositionStore
	logger           *slog.Logger
}

// NewImporter constructs an Importer.
func NewImporter(composerStore ComposerStore, compositionStore CompositionStore, logger *slog.Logger) *Importer {
	return &Importer{composerStore: composerStore, compositionStore: compositionStore, logger: logger}
}

var defaultInstrumentation = json.RawMessage(`["Not specified"]`)

// importConcurrency bounds parallel record inserts per batch.
const importConcurrency = 4

// Import runs one batch. A failing record is logged and skipped rather than
// aborting the batch, so a single bad row cannot sink an import.
func (im *Importer) Import(ctx context.Context, source string, candidates []Candidate) (Summary, error) {
	summary := Summary{RunID: uuid.NewString(), Source: source}
	log := im.logger.With(slog.String("runId", summary.RunID), slog.String("source", source))
	log.Info("import started", slog.Int("candidates", len(candidates)))

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(importConcurrency)
	for _, candidate := range candidates {
		candidate := candidate
		if candidate.Title == "" || candidate.Composer == "" {
			// Workers already update the summary under mu; the inline
			// skip must hold it too.
			mu.Lock()
			summary.Skipped++
			mu.Unlock()
			continue
		}
		g.Go(func() error {
			inserted, err := im.importOne(gctx, candidate)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				summary.Failed++
				log.Warn("import record failed",
					slog.String("title", candidate.Title),
					slog.String("composer", candidate.Composer),
					slog.Any("error", err))
			case inserted:
				summary.Inserted++
			default:
				summary.Skipped++
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return summary, err
	}

	log.Info("import finished",
		slog.Int("inserted", summary.Inserted),
		slog.Int("skipped", summary.Skipped),
		slog.Int("failed", summary.Failed))
	return summary, nil
}

func (im *Importer) importOne(ctx context.Context, candidate Candidate) (bool, error) {
	composerID, err := im.findOrCreateComposer(ctx, candidate.Composer)
	if err != nil {
		return false, err
	}

	composition := compositions.Composition{
		ComposerID:      composerID,
		Title:           strings.TrimSpace(candidate.Title),
		Year:            candidate.Year,
		Description:     candidate.Description,
		DurationSeconds: candidate.DurationSeconds,
		Status:          "available",
		Instrumentation: defaultInstrumentation,
	}
	if candidate.Source != "" {
		source := candidate.Source
		composition.ExternalAPIName = &source
	}
	if _, err := im.compositionStore.Create(ctx, composition); err != nil {
		if errors.Is(err, httpx.ErrConflict) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (im *Importer) findOrCreateComposer(ctx context.Context, name string) (int64, error) {
	normalized := NormalizeName(name)
	if normalized == "" {
		return 0, fmt.Errorf("ingest: empty composer name")
	}
	existing, err := im.composerStore.FindByName(ctx, normalized)
	if err == nil {
		return existing.ID, nil
	}
	if !errors.Is(err, httpx.ErrNotFound) {
		return 0, err
	}

	id, err := im.composerStore.Create(ctx, composers.Composer{Name: normalized})
	if err != nil {
		if errors.Is(err, httpx.ErrConflict) {
			// Lost a race with a concurrent import of the same composer.
			if existing, ferr := im.composerStore.FindByName(ctx, normalized); ferr == nil {
				return existing.ID, nil
			}
		}
		return 0, err
	}
	return id, nil
}

// NormalizeName canonicalizes a composer name for natural-key matching:
// NFC form with runs of whitespace collapsed to single spaces.
func NormalizeName(name string) string {
	return strings.Join(strings.Fields(norm.NFC.String(name)), " ")
}
