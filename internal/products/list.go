package product

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/baxoq/baxoq-store-backend/pkg/db/models"
	"github.com/baxoq/baxoq-store-backend/pkg/enums"
	"github.com/baxoq/baxoq-store-backend/pkg/pagination"
)

// ListFilters describe the supported filter knobs for the browse endpoint.
type ListFilters struct {
	Keyword     string                 `json:"q,omitempty"`
	Category    *enums.ProductCategory `json:"category,omitempty"`
	PriceMin    *decimal.Decimal       `json:"priceMin,omitempty"`
	PriceMax    *decimal.Decimal       `json:"priceMax,omitempty"`
	Featured    *bool                  `json:"featured,omitempty"`
	Collectible *bool                  `json:"collectible,omitempty"`
}

// SortKey is one parsed "field:dir" pair.
type SortKey struct {
	Field string
	Desc  bool
}

var sortColumns = map[string]string{
	"price":     "price",
	"rating":    "rating",
	"name":      "name",
	"createdAt": "created_at",
}

// ParseSort turns a comma-separated "field:dir" list into sort keys. Unknown
// fields and directions are rejected.
func ParseSort(value string) ([]SortKey, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}

	var keys []SortKey
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		field, dir, _ := strings.Cut(part, ":")
		if _, ok := sortColumns[field]; !ok {
			return nil, fmt.Errorf("unknown sort field %q", field)
		}

		desc := false
		switch strings.ToLower(dir) {
		case "", "asc":
		case "desc":
			desc = true
		default:
			return nil, fmt.Errorf("unknown sort direction %q", dir)
		}

		keys = append(keys, SortKey{Field: field, Desc: desc})
	}
	return keys, nil
}

// ListInput captures the inputs needed to paginate/filter the catalog.
type ListInput struct {
	Filters    ListFilters
	Sort       []SortKey
	Pagination pagination.Params
}

// ListResult is one catalog page plus its pagination summary.
type ListResult struct {
	Items []models.Product `json:"items"`
	Page  pagination.Page  `json:"page"`
}
