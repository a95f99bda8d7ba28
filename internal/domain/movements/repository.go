package movements

import (
	"context"
	"time"

	"bodega/internal/core/id"
	"bodega/internal/domain"
)

// Repository defines storage operations for movement headers and lines.
type Repository interface {
	// Create inserts a movement header.
	Create(ctx context.Context, m *Movement) error

	// SaveLines inserts detail rows for a header.
	SaveLines(ctx context.Context, movementID id.ID, lines []Line) error

	// GetByID retrieves a header without lines.
	GetByID(ctx context.Context, movementID id.ID) (*Movement, error)

	// GetActiveForUpdate retrieves the header row-locked for the current
	// transaction, but only when it matches the given type and is still
	// active. Returns NotActive otherwise: the lock plus the conditional
	// MarkReturned guard two concurrent reversal attempts.
	GetActiveForUpdate(ctx context.Context, movementID id.ID, typ Type) (*Movement, error)

	// GetLines returns detail rows ordered by line number.
	GetLines(ctx context.Context, movementID id.ID) ([]Line, error)

	// MarkReturned flips status active -> returned, storing the note and
	// the reversing user. Fails with NotActive when no row matched,
	// i.e. a concurrent reversal already won.
	MarkReturned(ctx context.Context, movementID id.ID, typ Type, note, processedBy string) error

	// List returns the unified movement feed with lines attached.
	List(ctx context.Context, filter ListFilter) (domain.ListResult[*Summary], error)

	// HasLinesForProduct reports whether any detail of the given type
	// references the product. Feeds the product lifecycle guard.
	HasLinesForProduct(ctx context.Context, productCode string, typ Type) (bool, error)
}

// ListFilter selects movements for the unified feed.
type ListFilter struct {
	domain.Page

	DateFrom          *time.Time
	DateTo            *time.Time
	Type              *Type
	Status            *Status
	WarehouseID       *id.ID
	RequirementNumber string
	ProcessedBy       string
}

// Summary is a feed row: the header joined with display names.
type Summary struct {
	Movement

	OriginWarehouseName string `db:"origin_warehouse_name" json:"originWarehouseName,omitempty"`
	DestWarehouseName   string `db:"dest_warehouse_name" json:"destWarehouseName,omitempty"`
	ProcessedByName     string `db:"processed_by_name" json:"processedByName,omitempty"`
}
