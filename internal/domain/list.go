// Package domain provides shared business-layer types.
package domain

// ListResult contains paginated results.
type ListResult[T any] struct {
	Items      []T   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
}

// Page holds pagination parameters with defaults applied.
type Page struct {
	Limit  int
	Offset int
}

// Normalize clamps pagination to sane bounds.
func (p *Page) Normalize() {
	if p.Limit <= 0 {
		p.Limit = 10
	}
	if p.Limit > 200 {
		p.Limit = 200
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}
