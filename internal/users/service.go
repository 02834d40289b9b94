package users

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Service wraps user management business rules.
type Service struct {
	repo Repository
}

// NewService constructs a new Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create adds a user on behalf of an admin. Unlike self-registration this
// path may set the elevated flag.
func (s *Service) Create(ctx context.Context, req CreateUserRequest) (*User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("users: hash password: %w", err)
	}
	userType := req.UserType
	if userType == "" {
		userType = "normal"
	}
	user := User{
		Username:    req.Username,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		UserType:    userType,
		Preferences: req.Preferences,
		IsAdmin:     req.IsAdmin,
	}
	if _, err := s.repo.Create(ctx, user, string(hashed)); err != nil {
		return nil, err
	}
	return s.repo.FindByUsername(ctx, req.Username)
}

// List returns all users.
func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx)
}

// Get returns a single user by username.
func (s *Service) Get(ctx context.Context, username string) (*User, error) {
	return s.repo.FindByUsername(ctx, username)
}

// Search filters users by exact username, email, or user type.
func (s *Service) Search(ctx context.Context, req SearchUsersRequest) ([]User, error) {
	return s.repo.Search(ctx, req)
}

// Update patches profile fields. A new password is re-hashed before storage.
func (s *Service) Update(ctx context.Context, username string, req UpdateUserRequest) (*User, error) {
	updates := make(map[string]any)
	if req.FirstName != nil {
		updates["first_name"] = *req.FirstName
	}
	if req.LastName != nil {
		updates["last_name"] = *req.LastName
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.Password != nil {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("users: hash password: %w", err)
		}
		updates["password_hash"] = string(hashed)
	}
	if req.UserType != nil {
		updates["user_type"] = *req.UserType
	}
	if len(req.Preferences) > 0 {
		updates["preferences"] = []byte(req.Preferences)
	}

	if len(updates) > 0 {
		if err := s.repo.Update(ctx, username, updates); err != nil {
			return nil, err
		}
	}
	return s.repo.FindByUsername(ctx, username)
}

// Delete removes a user record.
func (s *Service) Delete(ctx context.Context, username string) error {
	return s.repo.Delete(ctx, username)
}
