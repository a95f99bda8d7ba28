// Package ledger provides the per-warehouse-per-product stock register.
package ledger

import (
	"context"
	"time"

	"bodega/internal/core/id"
)

// Entry is the current quantity for one (warehouse, product) pair.
// Quantity is never negative; rows are created on first stock-in and
// updated in place thereafter.
type Entry struct {
	WarehouseID id.ID     `db:"warehouse_id" json:"warehouseId"`
	ProductCode string    `db:"product_code" json:"productCode"`
	Quantity    int64     `db:"quantity" json:"quantity"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// WarehouseStock is an Entry joined with product data, used by listings.
type WarehouseStock struct {
	ProductCode string `db:"product_code" json:"productCode"`
	ProductName string `db:"product_name" json:"productName"`
	Unit        string `db:"unit" json:"unit,omitempty"`
	Quantity    int64  `db:"quantity" json:"quantity"`
}

// Repository defines storage operations for the stock ledger.
//
// GetForUpdate must acquire a row-level exclusive lock scoped to the
// enclosing transaction; every read that precedes a mutation goes
// through it.
type Repository interface {
	// Get returns the entry or nil when absent. No lock.
	Get(ctx context.Context, warehouseID id.ID, productCode string) (*Entry, error)

	// GetForUpdate returns the entry locked for the current transaction,
	// or nil when no row exists.
	GetForUpdate(ctx context.Context, warehouseID id.ID, productCode string) (*Entry, error)

	// Insert creates a new ledger row.
	Insert(ctx context.Context, warehouseID id.ID, productCode string, quantity int64) error

	// Add applies a delta to an existing row and returns the new quantity.
	Add(ctx context.Context, warehouseID id.ID, productCode string, delta int64) (int64, error)

	// Upsert sets the absolute quantity, creating the row when absent.
	Upsert(ctx context.Context, warehouseID id.ID, productCode string, quantity int64) error

	// ByWarehouse returns stock for all products held in a warehouse.
	ByWarehouse(ctx context.Context, warehouseID id.ID, onlyPositive bool) ([]WarehouseStock, error)

	// ByProduct returns stock rows for a product across warehouses.
	ByProduct(ctx context.Context, productCode string) ([]Entry, error)

	// HasRowsForProduct reports whether any ledger row references the product.
	HasRowsForProduct(ctx context.Context, productCode string) (bool, error)
}
