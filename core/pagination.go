package core

// PaginationParams is a 1-based page request. Callers are responsible for
// rejecting non-positive values upstream; nothing here validates or fails.
type PaginationParams struct {
	Page    int64 `json:"page"`
	PerPage int64 `json:"per_page"`
}

// DefaultPaginationParams returns the first page with the default page size.
func DefaultPaginationParams() PaginationParams {
	return PaginationParams{Page: 1, PerPage: 10}
}

// FromLimitOffset converts limit/offset query parameters to page/per_page.
// Offsets that are not a multiple of the limit truncate to the containing
// page.
func FromLimitOffset(limit, offset int64) PaginationParams {
	return PaginationParams{
		Page:    offset/limit + 1,
		PerPage: limit,
	}
}

// Offset returns the row offset for the requested page.
func (p PaginationParams) Offset() int64 {
	return (p.Page - 1) * p.PerPage
}

// PaginationMeta is the derived, read-only pagination summary attached to
// list responses.
type PaginationMeta struct {
	CurrentPage     int64 `json:"current_page"`
	PerPage         int64 `json:"per_page"`
	TotalItems      int64 `json:"total_items"`
	TotalPages      int64 `json:"total_pages"`
	HasNextPage     bool  `json:"has_next_page"`
	HasPreviousPage bool  `json:"has_previous_page"`
}

// NewPaginationMeta computes page metadata from a total item count and the
// requested page. total_pages is ceil(total/per_page); a total of zero yields
// zero pages and both navigation flags false.
func NewPaginationMeta(total int64, p PaginationParams) PaginationMeta {
	totalPages := (total + p.PerPage - 1) / p.PerPage
	return PaginationMeta{
		CurrentPage:     p.Page,
		PerPage:         p.PerPage,
		TotalItems:      total,
		TotalPages:      totalPages,
		HasNextPage:     p.Page < totalPages,
		HasPreviousPage: p.Page > 1,
	}
}
