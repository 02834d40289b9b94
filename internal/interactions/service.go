package interactions

import (
	"context"
	"fmt"

	"github.com/modernmaestros/maestro/internal/auth"
	"github.com/modernmaestros/maestro/internal/platform/httpx"
)

// Service wraps interaction business rules.
type Service struct {
	repo Repository
}

// NewService constructs a new Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create records an interaction owned by the caller.
func (s *Service) Create(ctx context.Context, claims *auth.Claims, req CreateInteractionRequest) (*Interaction, error) {
	owner := claims.UserID
	interaction := Interaction{
		UserID:          &owner,
		TargetID:        req.TargetID,
		TargetType:      req.TargetType,
		InteractionType: req.InteractionType,
		Content:         req.Content,
		Rating:          req.Rating,
	}
	id, err := s.repo.Create(ctx, interaction)
	if err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

// List returns interactions matching the filters.
func (s *Service) List(ctx context.Context, req ListInteractionsRequest) ([]Interaction, error) {
	return s.repo.List(ctx, req)
}

// Get returns one interaction by id.
func (s *Service) Get(ctx context.Context, id int64) (*Interaction, error) {
	return s.repo.Get(ctx, id)
}

// Update patches content or rating. Only the author or an admin may change
// an interaction.
func (s *Service) Update(ctx context.Context, claims *auth.Claims, id int64, req UpdateInteractionRequest) (*Interaction, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !claims.AllowsMutation(existing.UserID) {
		return nil, fmt.Errorf("%w: interaction %d does not belong to you", httpx.ErrForbidden, id)
	}

	updates := make(map[string]any)
	if req.Content != nil {
		updates["content"] = *req.Content
	}
	if req.Rating != nil {
		updates["rating"] = *req.Rating
	}
	if len(updates) > 0 {
		if err := s.repo.Update(ctx, id, updates); err != nil {
			return nil, err
		}
	}
	return s.repo.Get(ctx, id)
}

// Delete removes an interaction, owner-or-admin only.
func (s *Service) Delete(ctx context.Context, claims *auth.Claims, id int64) error {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if !claims.AllowsMutation(existing.UserID) {
		return fmt.Errorf("%w: interaction %d does not belong to you", httpx.ErrForbidden, id)
	}
	return s.repo.Delete(ctx, id)
}
