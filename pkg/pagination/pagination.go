package pagination

import (
	"math"
	"net/http"
	"strconv"
)

const (
	DefaultPageSize = 6
	MaxPageSize     = 50
	// MaxPageIndex keeps Skip within an int32 at any page size.
	MaxPageIndex = math.MaxInt32/MaxPageSize + 1
)

// Params holds the pageIndex/pageSize pair read from the query string.
type Params struct {
	PageIndex int `json:"pageIndex"`
	PageSize  int `json:"pageSize"`
}

// DefaultParams returns the first page at the default size.
func DefaultParams() Params {
	return Params{PageIndex: 1, PageSize: DefaultPageSize}
}

// FromRequest reads pageIndex and pageSize. Non-positive or malformed values
// fall back to the defaults and sizes above MaxPageSize are clamped.
func FromRequest(r *http.Request) Params {
	q := r.URL.Query()
	p := DefaultParams()

	if v, err := strconv.Atoi(q.Get("pageIndex")); err == nil && v > 0 {
		p.PageIndex = v
	}
	if v, err := strconv.Atoi(q.Get("pageSize")); err == nil && v > 0 {
		p.PageSize = v
	}
	return p.Normalize()
}

// Normalize applies the defaults and the MaxPageSize and MaxPageIndex clamps.
func (p Params) Normalize() Params {
	if p.PageIndex < 1 {
		p.PageIndex = 1
	}
	if p.PageIndex > MaxPageIndex {
		p.PageIndex = MaxPageIndex
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	return p
}

// Skip is the number of rows preceding the page.
func (p Params) Skip() int {
	return p.PageSize * (p.PageIndex - 1)
}

// Take is the page size.
func (p Params) Take() int {
	return p.PageSize
}

// Page is the paged list envelope returned to clients. Count is the total number
// of matching rows, not the length of Data.
type Page[T any] struct {
	PageIndex int   `json:"pageIndex"`
	PageSize  int   `json:"pageSize"`
	Count     int64 `json:"count"`
	Data      []T   `json:"data"`
}

// NewPage builds a Page, replacing a nil slice so Data encodes as [].
func NewPage[T any](params Params, count int64, data []T) Page[T] {
	if data == nil {
		data = []T{}
	}
	return Page[T]{
		PageIndex: params.PageIndex,
		PageSize:  params.PageSize,
		Count:     count,
		Data:      data,
	}
}
