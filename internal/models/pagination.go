package models

// Paging bounds shared by every list endpoint. Requests outside them are
// clamped rather than rejected.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Pagination is the paging envelope attached to list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalCount int64 `json:"total_count"`
	TotalPages int   `json:"total_pages"`
}

// NewPagination builds the envelope from clamped paging inputs and the
// unpaged row count.
func NewPagination(page, pageSize int, totalCount int64) Pagination {
	return Pagination{
		Page:       page,
		PageSize:   pageSize,
		TotalCount: totalCount,
		TotalPages: int((totalCount + int64(pageSize) - 1) / int64(pageSize)),
	}
}

// ClampPage normalizes page and pageSize in place: pages start at 1 and the
// page size falls back to DefaultPageSize, capped at MaxPageSize.
func ClampPage(page, pageSize *int) {
	if *page < 1 {
		*page = 1
	}
	if *pageSize < 1 {
		*pageSize = DefaultPageSize
	}
	if *pageSize > MaxPageSize {
		*pageSize = MaxPageSize
	}
}

// PageOffset converts clamped paging inputs into a SQL offset.
func PageOffset(page, pageSize int) int {
	return (page - 1) * pageSize
}
