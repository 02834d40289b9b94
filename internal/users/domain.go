// Package users implements the admin- and self-service user surface.
package users

import (
	"encoding/json"
	"time"
)

// User is the catalog account record exposed by the API. The password hash
// never leaves the repository layer.
type User struct {
	ID          int64           `json:"userId"`
	Username    string          `json:"username"`
	FirstName   string          `json:"firstName"`
	LastName    *string         `json:"lastName,omitempty"`
	Email       string          `json:"email"`
	UserType    string          `json:"user_type"`
	Preferences json.RawMessage `json:"preferences,omitempty"`
	IsAdmin     bool            `json:"isAdmin"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
