package pagination

import "math"

const (
	// DefaultPageSize is the standard catalog page size.
	DefaultPageSize = 10
	// MaxPageSize caps how many rows any listing can request.
	MaxPageSize = 50
)

// Params holds page-number pagination inputs from controllers or services.
type Params struct {
	Page     int
	PageSize int
}

// Page describes the slice of a result set returned to the client.
type Page struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	TotalItems int64 `json:"totalItems"`
	TotalPages int   `json:"totalPages"`
}

// Normalize clamps the page number and page size to sane bounds.
func (p Params) Normalize() Params {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.PageSize <= 0 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	return p
}

// Offset returns the row offset for the normalized page.
func (p Params) Offset() int {
	n := p.Normalize()
	return (n.Page - 1) * n.PageSize
}

// Limit returns the normalized page size.
func (p Params) Limit() int {
	return p.Normalize().PageSize
}

// NewPage builds the page summary from a normalized request and a total row count.
func NewPage(params Params, total int64) Page {
	n := params.Normalize()
	pages := 0
	if total > 0 {
		pages = int(math.Ceil(float64(total) / float64(n.PageSize)))
	}
	return Page{
		Page:       n.Page,
		PageSize:   n.PageSize,
		TotalItems: total,
		TotalPages: pages,
	}
}
