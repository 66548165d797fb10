package product

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/baxoq/baxoq-store-backend/pkg/db"
	"github.com/baxoq/baxoq-store-backend/pkg/db/models"
	"github.com/baxoq/baxoq-store-backend/pkg/enums"
	pkgerrors "github.com/baxoq/baxoq-store-backend/pkg/errors"
	"github.com/baxoq/baxoq-store-backend/pkg/pagination"
	"github.com/baxoq/baxoq-store-backend/pkg/types"
)

type catalogRepo interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindBySlug(ctx context.Context, slug string) (*models.Product, error)
	FindByIDWithReviews(ctx context.Context, id uuid.UUID) (*models.Product, error)
	List(ctx context.Context, input ListInput) ([]models.Product, int64, error)
	Create(ctx context.Context, product *models.Product) (*models.Product, error)
	Save(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountByName(ctx context.Context, name string, excludeID uuid.UUID) (int64, error)
	HasReview(ctx context.Context, productID, userID uuid.UUID) (bool, error)
	CreateReview(ctx context.Context, review *models.ProductReview) error
	RefreshRating(ctx context.Context, productID uuid.UUID) error
}

// UpsertInput carries the admin-editable listing fields.
type UpsertInput struct {
	Name          string
	Description   string
	Brand         string
	Category      enums.ProductCategory
	Images        []string
	Details       *types.ProductDetails
	Price         decimal.Decimal
	DiscountPrice *decimal.Decimal
	CountInStock  int
	IsFeatured    bool
	IsCollectible bool
}

// ReviewInput carries one customer review.
type ReviewInput struct {
	Rating  int
	Comment string
}

// Service exposes catalog operations.
type Service interface {
	List(ctx context.Context, input ListInput) (*ListResult, error)
	GetBySlugOrID(ctx context.Context, key string) (*models.Product, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	Create(ctx context.Context, input UpsertInput) (*models.Product, error)
	Update(ctx context.Context, id uuid.UUID, input UpsertInput) (*models.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
	AddReview(ctx context.Context, productID, userID uuid.UUID, userName string, input ReviewInput) (*models.Product, error)
}

type service struct {
	repo catalogRepo
}

// NewService builds the catalog service.
func NewService(repo catalogRepo) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo}, nil
}

// List returns one filtered, sorted catalog page.
func (s *service) List(ctx context.Context, input ListInput) (*ListResult, error) {
	items, total, err := s.repo.List(ctx, input)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "catalog storage unavailable")
	}
	if items == nil {
		items = []models.Product{}
	}
	return &ListResult{
		Items: items,
		Page:  pagination.NewPage(input.Pagination, total),
	}, nil
}

// GetBySlugOrID resolves a catalog key that may be a UUID or a slug.
func (s *service) GetBySlugOrID(ctx context.Context, key string) (*models.Product, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product key is required")
	}

	var (
		product *models.Product
		err     error
	)
	if id, parseErr := uuid.Parse(key); parseErr == nil {
		product, err = s.repo.FindByIDWithReviews(ctx, id)
	} else {
		product, err = s.repo.FindBySlug(ctx, key)
	}
	if err != nil {
		return nil, s.mapFindErr(err)
	}
	return product, nil
}

// GetByID loads the bare product; the cart uses this to snapshot price and stock.
func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapFindErr(err)
	}
	return product, nil
}

// Create adds a listing. Product names are unique and drive the slug.
func (s *service) Create(ctx context.Context, input UpsertInput) (*models.Product, error) {
	if err := s.validate(input); err != nil {
		return nil, err
	}
	if err := s.ensureUniqueName(ctx, input.Name, uuid.Nil); err != nil {
		return nil, err
	}

	product := &models.Product{
		Slug:          Slugify(input.Name),
		Name:          strings.TrimSpace(input.Name),
		Description:   input.Description,
		Brand:         input.Brand,
		Category:      input.Category,
		Images:        input.Images,
		Details:       input.Details,
		Price:         input.Price,
		DiscountPrice: input.DiscountPrice,
		CountInStock:  input.CountInStock,
		IsFeatured:    input.IsFeatured,
		IsCollectible: input.IsCollectible,
	}

	created, err := s.repo.Create(ctx, product)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "product name already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "catalog storage unavailable")
	}
	return created, nil
}

// Update rewrites the listing fields, regenerating the slug when the name moves.
func (s *service) Update(ctx context.Context, id uuid.UUID, input UpsertInput) (*models.Product, error) {
	if err := s.validate(input); err != nil {
		return nil, err
	}

	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapFindErr(err)
	}

	name := strings.TrimSpace(input.Name)
	if name != product.Name {
		if err := s.ensureUniqueName(ctx, name, id); err != nil {
			return nil, err
		}
		product.Name = name
		product.Slug = Slugify(name)
	}

	product.Description = input.Description
	product.Brand = input.Brand
	product.Category = input.Category
	product.Images = input.Images
	product.Details = input.Details
	product.Price = input.Price
	product.DiscountPrice = input.DiscountPrice
	product.CountInStock = input.CountInStock
	product.IsFeatured = input.IsFeatured
	product.IsCollectible = input.IsCollectible

	if err := s.repo.Save(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "catalog storage unavailable")
	}
	return product, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.mapFindErr(err)
	}
	return nil
}

// AddReview stores one review per user per product and refreshes the aggregates.
func (s *service) AddReview(ctx context.Context, productID, userID uuid.UUID, userName string, input ReviewInput) (*models.Product, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5").
			WithDetails(map[string]any{"rating": input.Rating})
	}

	if _, err := s.repo.FindByID(ctx, productID); err != nil {
		return nil, s.mapFindErr(err)
	}

	exists, err := s.repo.HasReview(ctx, productID, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "catalog storage unavailable")
	}
	if exists {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "product already reviewed")
	}

	review := &models.ProductReview{
		ProductID: productID,
		UserID:    userID,
		UserName:  userName,
		Rating:    input.Rating,
		Comment:   strings.TrimSpace(input.Comment),
	}
	if err := s.repo.CreateReview(ctx, review); err != nil {
		if db.IsUniqueViolation(err, "idx_product_reviews_product_user") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "product already reviewed")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "catalog storage unavailable")
	}

	if err := s.repo.RefreshRating(ctx, productID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "catalog storage unavailable")
	}

	product, err := s.repo.FindByIDWithReviews(ctx, productID)
	if err != nil {
		return nil, s.mapFindErr(err)
	}
	return product, nil
}

func (s *service) validate(input UpsertInput) error {
	details := map[string]any{}
	if strings.TrimSpace(input.Name) == "" {
		details["name"] = "is required"
	}
	if !input.Category.IsValid() {
		details["category"] = "must be one of sword, knife, dagger, accessory"
	}
	if input.Price.IsNegative() || input.Price.IsZero() {
		details["price"] = "must be positive"
	}
	if input.DiscountPrice != nil && input.DiscountPrice.GreaterThanOrEqual(input.Price) {
		details["discountPrice"] = "must be lower than price"
	}
	if input.CountInStock < 0 {
		details["countInStock"] = "must not be negative"
	}
	if len(details) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid product").WithDetails(details)
	}
	return nil
}

func (s *service) ensureUniqueName(ctx context.Context, name string, excludeID uuid.UUID) error {
	count, err := s.repo.CountByName(ctx, strings.TrimSpace(name), excludeID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "catalog storage unavailable")
	}
	if count > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "product name already exists")
	}
	return nil
}

func (s *service) mapFindErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "catalog storage unavailable")
}
