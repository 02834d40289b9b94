package auth

import "time"

// User is the credential-store view of an account.
type User struct {
	ID           int64
	Username     string
	FirstName    string
	LastName     *string
	Email        string
	PasswordHash string
	UserType     string
	IsAdmin      bool
	CreatedAt    time.Time
}
