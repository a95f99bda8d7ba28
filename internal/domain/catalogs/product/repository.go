package product

import (
	"context"

	"bodega/internal/domain"
)

// Repository defines storage operations for the product catalog.
type Repository interface {
	// Create inserts a product.
	Create(ctx context.Context, p *Product) error

	// Update overwrites the mutable fields of an existing product.
	Update(ctx context.Context, p *Product) error

	// GetByCode returns a product or NotFound.
	GetByCode(ctx context.Context, code string) (*Product, error)

	// ExistsByCode reports whether the code is taken. Feeds code generation.
	ExistsByCode(ctx context.Context, code string) (bool, error)

	// List returns catalog rows with aggregate stock, filtered and paginated.
	List(ctx context.Context, filter ListFilter) (domain.ListResult[*WithStock], error)

	// SetVisible flips the visibility flag.
	SetVisible(ctx context.Context, code string, visible bool) error

	// Delete removes the product row. Callers must run the association
	// guard first.
	Delete(ctx context.Context, code string) error
}
