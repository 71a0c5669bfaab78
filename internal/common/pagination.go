package common

import (
	"net/http"
	"strconv"
)

// Pagination is the paging block returned with catalog listings.
type Pagination struct {
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	TotalItems int `json:"total_items"`
}

// ParsePagination reads page and page_size from the query. limit is accepted
// as an alias for page_size. Missing or non-positive values fall back to page 1
// and defaultPerPage.
func ParsePagination(r *http.Request, defaultPerPage int) (page, perPage int) {
	q := r.URL.Query()
	page = 1
	perPage = defaultPerPage
	if p, err := strconv.Atoi(q.Get("page")); err == nil && p > 0 {
		page = p
	}
	size := q.Get("page_size")
	if size == "" {
		size = q.Get("limit")
	}
	if l, err := strconv.Atoi(size); err == nil && l > 0 {
		perPage = l
	}
	return
}

// PageBounds returns the [start, end) slice bounds of page for total items.
// Pages past the end yield an empty range.
func PageBounds(page, perPage, total int) (start, end int) {
	if page < 1 || perPage < 1 {
		return total, total
	}
	pages := total / perPage
	if total%perPage != 0 {
		pages++
	}
	if page > pages {
		return total, total
	}
	start = (page - 1) * perPage
	end = start + perPage
	if end > total {
		end = total
	}
	return start, end
}
