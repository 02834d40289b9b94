package composers

import (
	"context"
	"errors"
	"fmt"

	"github.com/modernmaestros/maestro/internal/auth"
	"github.com/modernmaestros/maestro/internal/platform/httpx"
)

// Service wraps composer business rules, including the user linkage
// constraints: a composer belongs to at most one user and a user holds at
// most one linked composer profile.
type Service struct {
	repo Repository
}

// NewService constructs a new Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create adds a composer profile. When LinkToSelf is set the new profile is
// linked to the caller, subject to the one-profile-per-user rule.
func (s *Service) Create(ctx context.Context, req CreateComposerRequest, claims *auth.Claims) (*Composer, error) {
	composer := Composer{
		Name:             req.Name,
		Biography:        req.Biography,
		Website:          req.Website,
		SocialMediaLinks: req.SocialMediaLinks,
	}
	if req.LinkToSelf {
		if err := s.ensureUnlinked(ctx, claims.UserID); err != nil {
			return nil, err
		}
		composer.UserID = &claims.UserID
	}
	id, err := s.repo.Create(ctx, composer)
	if err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

// List returns composers, optionally filtered by a name substring.
func (s *Service) List(ctx context.Context, search string) ([]Composer, error) {
	return s.repo.List(ctx, search)
}

// Get returns one composer by id.
func (s *Service) Get(ctx context.Context, id int64) (*Composer, error) {
	return s.repo.Get(ctx, id)
}

// Update patches a composer profile. Only the linked user or an admin may
// mutate it; the owner is read from the current row, not the token.
func (s *Service) Update(ctx context.Context, id int64, req UpdateComposerRequest, claims *auth.Claims) (*Composer, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !claims.AllowsMutation(existing.UserID) {
		return nil, fmt.Errorf("%w: not the linked user", httpx.ErrForbidden)
	}

	updates := make(map[string]any)
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Biography != nil {
		updates["biography"] = *req.Biography
	}
	if req.Website != nil {
		updates["website"] = *req.Website
	}
	if len(req.SocialMediaLinks) > 0 {
		updates["social_media_links"] = []byte(req.SocialMediaLinks)
	}
	if len(updates) > 0 {
		if err := s.repo.Update(ctx, id, updates); err != nil {
			return nil, err
		}
	}
	return s.repo.Get(ctx, id)
}

// Delete removes a composer profile outright. Admin only; route-guarded.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// Claim links the composer profile to the calling principal. Fails with
// Conflict when the profile already belongs to a different user or the
// caller already holds a linked profile.
func (s *Service) Claim(ctx context.Context, id int64, claims *auth.Claims) (*Composer, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.UserID != nil {
		if *existing.UserID == claims.UserID {
			return existing, nil
		}
		return nil, fmt.Errorf("%w: composer already linked to another user", httpx.ErrConflict)
	}
	if err := s.ensureUnlinked(ctx, claims.UserID); err != nil {
		return nil, err
	}
	if err := s.repo.Link(ctx, id, claims.UserID); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

// Unlink removes the user linkage, orphaning the composer row. The row is
// never deleted here.
func (s *Service) Unlink(ctx context.Context, id int64, claims *auth.Claims) (*Composer, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !claims.AllowsMutation(existing.UserID) {
		return nil, fmt.Errorf("%w: not the linked user", httpx.ErrForbidden)
	}
	if existing.UserID == nil {
		return existing, nil
	}
	if err := s.repo.Unlink(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) ensureUnlinked(ctx context.Context, userID int64) error {
	_, err := s.repo.FindByUserID(ctx, userID)
	if err == nil {
		return fmt.Errorf("%w: user already linked to a composer", httpx.ErrConflict)
	}
	if errors.Is(err, httpx.ErrNotFound) {
		return nil
	}
	return err
}
