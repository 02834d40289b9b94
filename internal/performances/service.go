package performances

import (
	"context"
	"fmt"

	"github.com/modernmaestros/maestro/internal/auth"
	"github.com/modernmaestros/maestro/internal/platform/httpx"
)

// Service wraps performance business rules.
type Service struct {
	repo Repository
}

// NewService constructs a new Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create records a performance owned by the caller. The referenced
// composition must exist.
func (s *Service) Create(ctx context.Context, claims *auth.Claims, req CreatePerformanceRequest) (*Performance, error) {
	exists, err := s.repo.CompositionExists(ctx, req.CompositionID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: composition %d does not exist", httpx.ErrValidation, req.CompositionID)
	}

	owner := claims.UserID
	performance := Performance{
		CompositionID: req.CompositionID,
		UserID:        &owner,
		RecordingDate: req.RecordingDate,
		Location:      req.Location,
		FileURL:       req.FileURL,
	}
	id, err := s.repo.Create(ctx, performance)
	if err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

// List returns performances matching the filters.
func (s *Service) List(ctx context.Context, req ListPerformancesRequest) ([]Performance, error) {
	return s.repo.List(ctx, req)
}

// Get returns one performance by id.
func (s *Service) Get(ctx context.Context, id int64) (*Performance, error) {
	return s.repo.Get(ctx, id)
}

// Update patches performance fields. Only the uploader or an admin may
// change a performance.
func (s *Service) Update(ctx context.Context, claims *auth.Claims, id int64, req UpdatePerformanceRequest) (*Performance, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !claims.AllowsMutation(existing.UserID) {
		return nil, fmt.Errorf("%w: performance %d does not belong to you", httpx.ErrForbidden, id)
	}

	updates := make(map[string]any)
	if req.RecordingDate != nil {
		updates["recording_date"] = *req.RecordingDate
	}
	if req.Location != nil {
		updates["location"] = *req.Location
	}
	if req.FileURL != nil {
		updates["file_url"] = *req.FileURL
	}
	if len(updates) > 0 {
		if err := s.repo.Update(ctx, id, updates); err != nil {
			return nil, err
		}
	}
	return s.repo.Get(ctx, id)
}

// Delete removes a performance, owner-or-admin only.
func (s *Service) Delete(ctx context.Context, claims *auth.Claims, id int64) error {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if !claims.AllowsMutation(existing.UserID) {
		return fmt.Errorf("%w: performance %d does not belong to you", httpx.ErrForbidden, id)
	}
	return s.repo.Delete(ctx, id)
}
