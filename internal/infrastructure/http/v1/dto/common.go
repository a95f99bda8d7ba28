// Package dto provides Data Transfer Objects for API requests/responses.
package dto

import "bodega/internal/domain"

// PaginationRequest contains pagination query parameters.
type PaginationRequest struct {
	Limit  int `form:"limit"`
	Offset int `form:"offset"`
}

// Page converts the request to domain pagination.
func (p PaginationRequest) Page() domain.Page {
	return domain.Page{Limit: p.Limit, Offset: p.Offset}
}

// ListMeta contains listing metadata returned alongside items.
type ListMeta struct {
	TotalCount int64 `json:"totalCount"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
}
