package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeDefaults(t *testing.T) {
	n := Params{}.Normalize()
	assert.Equal(t, 1, n.Page)
	assert.Equal(t, DefaultPageSize, n.PageSize)

	n = Params{Page: -3, PageSize: 500}.Normalize()
	assert.Equal(t, 1, n.Page)
	assert.Equal(t, MaxPageSize, n.PageSize)
}

func TestOffsetAndLimit(t *testing.T) {
	p := Params{Page: 3, PageSize: 10}
	assert.Equal(t, 20, p.Offset())
	assert.Equal(t, 10, p.Limit())

	assert.Equal(t, 0, Params{}.Offset())
}

func TestNewPage(t *testing.T) {
	page := NewPage(Params{Page: 2, PageSize: 10}, 25)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 10, page.PageSize)
	assert.Equal(t, int64(25), page.TotalItems)
	assert.Equal(t, 3, page.TotalPages)

	empty := NewPage(Params{}, 0)
	assert.Equal(t, 0, empty.TotalPages)
}
