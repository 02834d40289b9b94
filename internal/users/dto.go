package users

import "encoding/json"

// CreateUserRequest is the admin payload for POST /users.
type CreateUserRequest struct {
	Username    string          `json:"username" validate:"required,min=1,max=50"`
	FirstName   string          `json:"firstName" validate:"required,max=100"`
	LastName    *string         `json:"lastName,omitempty" validate:"omitempty,max=100"`
	Email       string          `json:"email" validate:"required,email"`
	Password    string          `json:"password" validate:"required,min=5,max=72"`
	UserType    string          `json:"user_type,omitempty" validate:"omitempty,oneof=normal composer"`
	Preferences json.RawMessage `json:"preferences,omitempty"`
	IsAdmin     bool            `json:"isAdmin"`
}

// UpdateUserRequest is the payload for PATCH /users/{username}.
type UpdateUserRequest struct {
	FirstName   *string         `json:"firstName,omitempty" validate:"omitempty,max=100"`
	LastName    *string         `json:"lastName,omitempty" validate:"omitempty,max=100"`
	Email       *string         `json:"email,omitempty" validate:"omitempty,email"`
	Password    *string         `json:"password,omitempty" validate:"omitempty,min=5,max=72"`
	UserType    *string         `json:"user_type,omitempty" validate:"omitempty,oneof=normal composer"`
	Preferences json.RawMessage `json:"preferences,omitempty"`
}

// SearchUsersRequest mirrors the GET /users/search query parameters.
type SearchUsersRequest struct {
	Username string `validate:"omitempty,max=50"`
	Email    string `validate:"omitempty,max=200"`
	UserType string `validate:"omitempty,oneof=normal composer"`
}
