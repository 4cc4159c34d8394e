package helpers

import (
	"net/http"
	"strconv"

	"dancehub/internal/domain"
)

// DefaultPage is the page served when none is requested.
const DefaultPage = 1

// ParsePagination reads page and page_size from the query string. Missing, malformed
// or non-positive values fall back to the defaults; page_size is capped at domain.MaxPageSize.
func ParsePagination(r *http.Request) domain.PaginationParams {
	q := r.URL.Query()
	return domain.PaginationParams{
		Page:     positiveInt(q.Get("page"), DefaultPage),
		PageSize: min(positiveInt(q.Get("page_size"), domain.DefaultPageSize), domain.MaxPageSize),
	}
}

func positiveInt(s string, fallback int) int {
	if v, err := strconv.Atoi(s); err == nil && v > 0 {
		return v
	}
	return fallback
}

// PaginationMeta is the pagination block of list responses.
// Total is omitted for lists whose size is only known after filtering.
// swagger:model PaginationMeta
type PaginationMeta struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total,omitempty"`
	TotalPages int `json:"total_pages,omitempty"`
}

// PageMeta describes the page that was served without a total.
func PageMeta(p domain.PaginationParams) PaginationMeta {
	return PaginationMeta{Page: p.Page, PageSize: p.PageSize}
}

// NewPaginationMeta describes the page that was served out of total items.
func NewPaginationMeta(p domain.PaginationParams, total int) PaginationMeta {
	meta := PageMeta(p)
	meta.Total = total
	if p.PageSize > 0 {
		meta.TotalPages = (total + p.PageSize - 1) / p.PageSize
	}
	return meta
}
