package paging

import "github.com/dori/taskhub/internal/apperr"

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

// Paginate converts a page/limit pair into an offset and a count. Inputs are
// expected to be validated already; no clamping happens here.
func Paginate(page, limit int) (skip, take int) {
	return (page - 1) * limit, limit
}

// TotalPages returns ceil(total/limit), or 0 when there is nothing to page.
func TotalPages(total, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

// Request is a validated page request.
type Request struct {
	Page  int
	Limit int
}

// NewRequest validates page and limit, substituting defaults for zero values.
func NewRequest(page, limit int) (Request, error) {
	if page == 0 {
		page = DefaultPage
	}
	if limit == 0 {
		limit = DefaultLimit
	}
	if page < 1 {
		return Request{}, apperr.Validation("page", "must be at least 1")
	}
	if limit < 1 {
		return Request{}, apperr.Validation("limit", "must be at least 1")
	}
	if limit > MaxLimit {
		return Request{}, apperr.Validationf("limit", "must be at most %d", MaxLimit)
	}
	return Request{Page: page, Limit: limit}, nil
}

// Default returns the first page with the default limit.
func Default() Request {
	return Request{Page: DefaultPage, Limit: DefaultLimit}
}

func (r Request) Skip() int {
	skip, _ := Paginate(r.Page, r.Limit)
	return skip
}

func (r Request) Take() int {
	_, take := Paginate(r.Page, r.Limit)
	return take
}

// Page is one page of a list result.
type Page[T any] struct {
	Items      []T `json:"items"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"total_pages"`
}

func NewPage[T any](items []T, total int, r Request) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items:      items,
		Total:      total,
		Page:       r.Page,
		Limit:      r.Limit,
		TotalPages: TotalPages(total, r.Limit),
	}
}

// HasNext reports whether a page after this one exists.
func (p Page[T]) HasNext() bool {
	return p.Page < p.TotalPages
}
