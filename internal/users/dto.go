package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/baxoq/baxoq-store-backend/pkg/db/models"
	"github.com/baxoq/baxoq-store-backend/pkg/types"
)

// UserDTO is the outward-facing user shape (no credential material).
type UserDTO struct {
	ID              uuid.UUID      `json:"id"`
	Name            string         `json:"name"`
	Email           string         `json:"email"`
	IsAdmin         bool           `json:"isAdmin"`
	ShippingAddress *types.Address `json:"shippingAddress,omitempty"`
	LastLoginAt     *time.Time     `json:"lastLoginAt,omitempty"`
	CreatedAt       time.Time      `json:"createdAt"`
}

// FromModel converts the persistence model to its DTO.
func FromModel(user *models.User) UserDTO {
	return UserDTO{
		ID:              user.ID,
		Name:            user.Name,
		Email:           user.Email,
		IsAdmin:         user.IsAdmin,
		ShippingAddress: user.ShippingAddress,
		LastLoginAt:     user.LastLoginAt,
		CreatedAt:       user.CreatedAt,
	}
}
