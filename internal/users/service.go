package users

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/baxoq/baxoq-store-backend/pkg/config"
	"github.com/baxoq/baxoq-store-backend/pkg/db"
	"github.com/baxoq/baxoq-store-backend/pkg/db/models"
	pkgerrors "github.com/baxoq/baxoq-store-backend/pkg/errors"
	"github.com/baxoq/baxoq-store-backend/pkg/pagination"
	"github.com/baxoq/baxoq-store-backend/pkg/security"
	"github.com/baxoq/baxoq-store-backend/pkg/types"
)

type accountRepo interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Save(ctx context.Context, user *models.User) error
	List(ctx context.Context, params pagination.Params) ([]models.User, int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// UpdateProfileInput carries the fields a shopper may change. Nil fields are
// left untouched.
type UpdateProfileInput struct {
	Name            *string
	Email           *string
	Password        *string
	ShippingAddress *types.Address
}

// Service exposes account self-service plus the admin user surface.
type Service interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (UserDTO, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (UserDTO, error)
	List(ctx context.Context, params pagination.Params) ([]UserDTO, pagination.Page, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo        accountRepo
	passwordCfg config.PasswordConfig
}

// NewService builds the account service.
func NewService(repo accountRepo, passwordCfg config.PasswordConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("account repository required")
	}
	return &service{repo: repo, passwordCfg: passwordCfg}, nil
}

// GetProfile returns the caller's own account.
func (s *service) GetProfile(ctx context.Context, userID uuid.UUID) (UserDTO, error) {
	user, err := s.find(ctx, userID)
	if err != nil {
		return UserDTO{}, err
	}
	return FromModel(user), nil
}

// UpdateProfile applies the provided fields. Every invalid field is reported
// in a single validation error.
func (s *service) UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (UserDTO, error) {
	user, err := s.find(ctx, userID)
	if err != nil {
		return UserDTO{}, err
	}

	details := map[string]any{}

	var name string
	if input.Name != nil {
		name = strings.TrimSpace(*input.Name)
		if name == "" {
			details["name"] = "is required"
		}
	}

	var email string
	if input.Email != nil {
		email = strings.ToLower(strings.TrimSpace(*input.Email))
		if email == "" {
			details["email"] = "is required"
		} else if _, err := mail.ParseAddress(email); err != nil {
			details["email"] = "must be a valid address"
		}
	}

	if input.Password != nil && len(*input.Password) < 8 {
		details["password"] = "must be at least 8 characters"
	}

	var addr *types.Address
	if input.ShippingAddress != nil {
		if missing := input.ShippingAddress.MissingFields(); len(missing) > 0 {
			for _, field := range missing {
				details[field] = "is required"
			}
		} else {
			trimmed := input.ShippingAddress.Trimmed()
			addr = &trimmed
		}
	}

	if len(details) > 0 {
		return UserDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid profile update").WithDetails(details)
	}

	if input.Email != nil && email != user.Email {
		if _, err := s.repo.FindByEmail(ctx, email); err == nil {
			return UserDTO{}, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return UserDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup user")
		}
		user.Email = email
	}
	if input.Name != nil {
		user.Name = name
	}
	if input.Password != nil {
		hash, err := security.HashPassword(*input.Password, s.passwordCfg)
		if err != nil {
			return UserDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
		}
		user.PasswordHash = hash
	}
	if addr != nil {
		user.ShippingAddress = addr
	}

	if err := s.repo.Save(ctx, user); err != nil {
		if db.IsUniqueViolation(err, "idx_users_email") {
			return UserDTO{}, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		}
		return UserDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save user")
	}
	return FromModel(user), nil
}

// List returns a page of accounts for the admin screen.
func (s *service) List(ctx context.Context, params pagination.Params) ([]UserDTO, pagination.Page, error) {
	list, total, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, pagination.Page{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "user storage unavailable")
	}
	out := make([]UserDTO, 0, len(list))
	for i := range list {
		out = append(out, FromModel(&list[i]))
	}
	return out, pagination.NewPage(params, total), nil
}

// Delete removes an account. Admin accounts cannot be deleted.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	user, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if user.IsAdmin {
		return pkgerrors.New(pkgerrors.CodeConflict, "cannot delete an admin account")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete user")
	}
	return nil
}

func (s *service) find(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup user")
	}
	return user, nil
}
