package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/baxoq/baxoq-store-backend/api/middleware"
	"github.com/baxoq/baxoq-store-backend/api/responses"
	"github.com/baxoq/baxoq-store-backend/api/validators"
	product "github.com/baxoq/baxoq-store-backend/internal/products"
	"github.com/baxoq/baxoq-store-backend/pkg/db/models"
	"github.com/baxoq/baxoq-store-backend/pkg/enums"
	pkgerrors "github.com/baxoq/baxoq-store-backend/pkg/errors"
	"github.com/baxoq/baxoq-store-backend/pkg/logger"
	"github.com/baxoq/baxoq-store-backend/pkg/types"
)

// ProductList serves the public catalog browse endpoint.
func ProductList(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		input, err := buildListInput(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.List(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// ProductDetail resolves a product by slug or id.
func ProductDetail(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		key := strings.TrimSpace(chi.URLParam(r, "key"))
		if key == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "product key is required"))
			return
		}

		record, err := svc.GetBySlugOrID(r.Context(), key)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, record)
	}
}

type productUpsertRequest struct {
	Name          string                `json:"name" validate:"required"`
	Description   string                `json:"description"`
	Brand         string                `json:"brand"`
	Category      string                `json:"category" validate:"required"`
	Images        []string              `json:"images"`
	Details       *types.ProductDetails `json:"details"`
	Price         decimal.Decimal       `json:"price" validate:"required"`
	DiscountPrice *decimal.Decimal      `json:"discountPrice"`
	CountInStock  int                   `json:"countInStock" validate:"gte=0"`
	IsFeatured    bool                  `json:"isFeatured"`
	IsCollectible bool                  `json:"isCollectible"`
}

func (p productUpsertRequest) toInput() (product.UpsertInput, error) {
	category, err := enums.ParseProductCategory(p.Category)
	if err != nil {
		return product.UpsertInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown product category").
			WithDetails(map[string]any{"field": "category"})
	}
	return product.UpsertInput{
		Name:          p.Name,
		Description:   p.Description,
		Brand:         p.Brand,
		Category:      category,
		Images:        p.Images,
		Details:       p.Details,
		Price:         p.Price,
		DiscountPrice: p.DiscountPrice,
		CountInStock:  p.CountInStock,
		IsFeatured:    p.IsFeatured,
		IsCollectible: p.IsCollectible,
	}, nil
}

func AdminProductCreate(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		var body productUpsertRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := body.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, record)
	}
}

func AdminProductUpdate(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		id, err := validators.ParseUUIDParam(chi.URLParam(r, "productId"), "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body productUpsertRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := body.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.Update(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, record)
	}
}

func AdminProductDelete(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		id, err := validators.ParseUUIDParam(chi.URLParam(r, "productId"), "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

type reviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

// reviewerLookup resolves the display name attached to a review.
type reviewerLookup interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// ProductReviewCreate records one review per customer per product.
func ProductReviewCreate(svc product.Service, users reviewerLookup, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		userID := middleware.UserIDFromContext(r.Context())
		productID, err := validators.ParseUUIDParam(chi.URLParam(r, "productId"), "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body reviewRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		userName := ""
		if users != nil {
			account, err := users.FindByID(r.Context(), userID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load reviewer"))
				return
			}
			userName = account.Name
		}

		record, err := svc.AddReview(r.Context(), productID, userID, userName, product.ReviewInput{
			Rating:  body.Rating,
			Comment: body.Comment,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, record)
	}
}

func buildListInput(r *http.Request) (product.ListInput, error) {
	params, err := validators.ParsePagination(r)
	if err != nil {
		return product.ListInput{}, err
	}

	filters := product.ListFilters{
		Keyword: strings.TrimSpace(r.URL.Query().Get("q")),
	}

	if raw := strings.TrimSpace(r.URL.Query().Get("category")); raw != "" {
		category, err := enums.ParseProductCategory(raw)
		if err != nil {
			return product.ListInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown product category").
				WithDetails(map[string]any{"field": "category"})
		}
		filters.Category = &category
	}

	if filters.PriceMin, err = validators.ParseQueryDecimal(r, "priceMin"); err != nil {
		return product.ListInput{}, err
	}
	if filters.PriceMax, err = validators.ParseQueryDecimal(r, "priceMax"); err != nil {
		return product.ListInput{}, err
	}
	if filters.PriceMin != nil && filters.PriceMax != nil && filters.PriceMin.GreaterThan(*filters.PriceMax) {
		return product.ListInput{}, pkgerrors.New(pkgerrors.CodeValidation, "priceMin must not exceed priceMax")
	}

	if filters.Featured, err = validators.ParseQueryBool(r, "featured"); err != nil {
		return product.ListInput{}, err
	}
	if filters.Collectible, err = validators.ParseQueryBool(r, "collectible"); err != nil {
		return product.ListInput{}, err
	}

	sort, err := product.ParseSort(r.URL.Query().Get("sort"))
	if err != nil {
		return product.ListInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid sort").
			WithDetails(map[string]any{"field": "sort"})
	}

	return product.ListInput{
		Filters:    filters,
		Sort:       sort,
		Pagination: params,
	}, nil
}
