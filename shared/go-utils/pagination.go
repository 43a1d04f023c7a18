package utils

import (
	"net/http"
	"strconv"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
	// MaxPage keeps Offset well inside int range for any limit.
	MaxPage = 100000
)

// Page is a 1-based page request, already clamped.
type Page struct {
	Page  int
	Limit int
}

// Offset is the number of rows to skip for this page.
func (p Page) Offset() int {
	page, limit := min(max(p.Page, 1), MaxPage), min(max(p.Limit, 0), MaxPageSize)
	return (page - 1) * limit
}

// PageFromRequest reads ?page= and ?limit= and clamps them to sane values.
func PageFromRequest(r *http.Request) Page {
	q := r.URL.Query()
	page, err := strconv.Atoi(q.Get("page"))
	if err != nil || page < 1 {
		page = 1
	}
	if page > MaxPage {
		page = MaxPage
	}
	limit, err := strconv.Atoi(q.Get("limit"))
	if err != nil || limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return Page{Page: page, Limit: limit}
}

// Pagination mirrors the envelope the mobile client reads.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

func NewPagination(p Page, total int) Pagination {
	totalPages := 0
	if p.Limit > 0 {
		totalPages = (total + p.Limit - 1) / p.Limit
	}
	return Pagination{Page: p.Page, Limit: p.Limit, Total: total, TotalPages: totalPages}
}
