package product

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/baxoq/baxoq-store-backend/pkg/db/models"
)

// Repository wires together catalog persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// FindByID loads the product without associations.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindBySlug loads the product with its reviews preloaded.
func (r *Repository) FindBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Reviews").
		First(&product, "slug = ?", slug).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// FindByIDWithReviews loads the product with its reviews preloaded.
func (r *Repository) FindByIDWithReviews(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Reviews").
		First(&product, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// List applies the catalog filters and returns one page plus the total count.
func (r *Repository) List(ctx context.Context, input ListInput) ([]models.Product, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Product{})

	filters := input.Filters
	if keyword := strings.TrimSpace(filters.Keyword); keyword != "" {
		// LOWER/LIKE instead of ILIKE so the SQLite dev path behaves the same.
		query = query.Where("LOWER(name) LIKE LOWER(?)", "%"+keyword+"%")
	}
	if filters.Category != nil {
		query = query.Where("category = ?", filters.Category.String())
	}
	if filters.PriceMin != nil {
		query = query.Where("price >= ?", filters.PriceMin)
	}
	if filters.PriceMax != nil {
		query = query.Where("price <= ?", filters.PriceMax)
	}
	if filters.Featured != nil {
		query = query.Where("is_featured = ?", *filters.Featured)
	}
	if filters.Collectible != nil {
		query = query.Where("is_collectible = ?", *filters.Collectible)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	for _, key := range input.Sort {
		column := sortColumns[key.Field]
		if column == "" {
			continue
		}
		dir := "ASC"
		if key.Desc {
			dir = "DESC"
		}
		query = query.Order(column + " " + dir)
	}
	// Newest first as the stable default and tie-breaker.
	query = query.Order("created_at DESC")

	var items []models.Product
	err := query.
		Offset(input.Pagination.Offset()).
		Limit(input.Pagination.Limit()).
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Create persists a new catalog listing.
func (r *Repository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// Save updates an existing listing.
func (r *Repository) Save(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

// Delete removes the listing and its reviews.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountByName reports how many listings carry the name, excluding an optional id.
func (r *Repository) CountByName(ctx context.Context, name string, excludeID uuid.UUID) (int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Product{}).Where("name = ?", name)
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// HasReview reports whether the user already reviewed the product.
func (r *Repository) HasReview(ctx context.Context, productID, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ProductReview{}).
		Where("product_id = ? AND user_id = ?", productID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// CreateReview stores the review row.
func (r *Repository) CreateReview(ctx context.Context, review *models.ProductReview) error {
	return r.db.WithContext(ctx).Create(review).Error
}

// RefreshRating rederives the product's review aggregates from its rows.
func (r *Repository) RefreshRating(ctx context.Context, productID uuid.UUID) error {
	return r.db.WithContext(ctx).Exec(`
		UPDATE products SET
			num_reviews = (SELECT COUNT(*) FROM product_reviews WHERE product_id = ?),
			rating = COALESCE((SELECT AVG(rating) FROM product_reviews WHERE product_id = ?), 0)
		WHERE id = ?`,
		productID, productID, productID,
	).Error
}
