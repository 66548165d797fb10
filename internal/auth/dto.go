package auth

import (
	"github.com/baxoq/baxoq-store-backend/internal/users"
)

// RegisterRequest contains the payload for creating a storefront account.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginRequest carries the credential pair.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Credentials is a freshly minted access/refresh pair. AccessID keys the
// refresh session in Redis and travels inside the refresh cookie.
type Credentials struct {
	AccessToken  string
	AccessID     string
	RefreshToken string
}

// AuthResponse is returned from register, login, and refresh.
type AuthResponse struct {
	Credentials Credentials
	User        users.UserDTO
}
