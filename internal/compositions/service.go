package compositions

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/modernmaestros/maestro/internal/platform/httpx"
)

// Service wraps composition business rules.
type Service struct {
	repo   Repository
	cache  *Cache
	logger *slog.Logger
}

// NewService constructs a new Service. cache may be nil.
func NewService(repo Repository, cache *Cache, logger *slog.Logger) *Service {
	return &Service{repo: repo, cache: cache, logger: logger}
}

// Create adds a composition. The referenced composer must exist; a missing
// composer is a request error, not a server one.
func (s *Service) Create(ctx context.Context, req CreateCompositionRequest) (*Composition, error) {
	exists, err := s.repo.ComposerExists(ctx, req.ComposerID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: composer %d does not exist", httpx.ErrValidation, req.ComposerID)
	}

	status := req.Status
	if status == "" {
		status = "available"
	}
	composition := Composition{
		ComposerID:      req.ComposerID,
		Title:           req.Title,
		Year:            req.Year,
		Description:     req.Description,
		DurationSeconds: req.DurationSeconds,
		Status:          status,
		Instrumentation: req.Instrumentation,
		ExternalAPIName: req.ExternalAPIName,
	}
	id, err := s.repo.Create(ctx, composition)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return s.repo.Get(ctx, id)
}

type listResult struct {
	Compositions []Composition `json:"compositions"`
	Total        int           `json:"total"`
}

// List returns compositions matching the filters. Read side goes through
// the versioned cache.
func (s *Service) List(ctx context.Context, req ListCompositionsRequest) ([]Composition, int, error) {
	key, err := s.cache.BuildKey(ctx, "compositions", "list", listToken(req))
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("composition cache key", slog.Any("error", err))
		}
		return s.repo.List(ctx, req)
	}
	var cached listResult
	err = s.cache.FetchJSON(ctx, key, &cached, func(ctx context.Context) (any, error) {
		compositions, total, err := s.repo.List(ctx, req)
		if err != nil {
			return nil, err
		}
		return listResult{Compositions: compositions, Total: total}, nil
	})
	if err != nil {
		return nil, 0, err
	}
	return cached.Compositions, cached.Total, nil
}

// Get returns one composition by id.
func (s *Service) Get(ctx context.Context, id int64) (*Composition, error) {
	return s.repo.Get(ctx, id)
}

// Update patches composition fields.
func (s *Service) Update(ctx context.Context, id int64, req UpdateCompositionRequest) (*Composition, error) {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return nil, err
	}
	updates := make(map[string]any)
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Year != nil {
		updates["year_of_composition"] = *req.Year
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.DurationSeconds != nil {
		updates["duration_seconds"] = *req.DurationSeconds
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if len(req.Instrumentation) > 0 {
		updates["instrumentation"] = []byte(req.Instrumentation)
	}
	if len(updates) > 0 {
		if err := s.repo.Update(ctx, id, updates); err != nil {
			return nil, err
		}
		s.invalidate(ctx)
	}
	return s.repo.Get(ctx, id)
}

// Delete removes a composition.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *Service) invalidate(ctx context.Context) {
	if err := s.cache.Bump(ctx); err != nil && s.logger != nil {
		s.logger.Warn("composition cache bump", slog.Any("error", err))
	}
}

func listToken(req ListCompositionsRequest) string {
	year := "-"
	if req.Year != nil {
		year = strconv.Itoa(*req.Year)
	}
	composer := "-"
	if req.ComposerID != nil {
		composer = strconv.FormatInt(*req.ComposerID, 10)
	}
	status := req.Status
	if status == "" {
		status = "-"
	}
	return fmt.Sprintf("%s:%s:%s:%d:%d", year, status, composer, req.Limit, req.Offset)
}
