package auth

// RegisterRequest is the payload for POST /auth/register.
type RegisterRequest struct {
	Username  string  `json:"username" validate:"required,min=1,max=50"`
	FirstName string  `json:"firstName" validate:"required,max=100"`
	LastName  *string `json:"lastName,omitempty" validate:"omitempty,max=100"`
	Email     string  `json:"email" validate:"required,email"`
	Password  string  `json:"password" validate:"required,min=5,max=72"`
	UserType  string  `json:"user_type,omitempty" validate:"omitempty,oneof=normal composer"`
}

// TokenRequest is the payload for POST /auth/token.
type TokenRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// TokenResponse carries a freshly issued token.
type TokenResponse struct {
	Token string `json:"token"`
}
