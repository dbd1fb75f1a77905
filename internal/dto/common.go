// Package dto defines the request and response shapes of the HTTP API.
package dto

// Meta carries pagination metadata for list responses.
type Meta struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// NewMeta computes total pages from the row count.
func NewMeta(page, perPage int, total int64) Meta {
	pages := int(total) / perPage
	if int(total)%perPage > 0 {
		pages++
	}
	return Meta{Page: page, PerPage: perPage, Total: total, TotalPages: pages}
}
