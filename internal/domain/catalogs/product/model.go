// Package product provides the product catalog with generated codes,
// visibility toggling and the deletion guard over movement history.
package product

import (
	"time"

	"bodega/internal/core/apperror"
	"bodega/internal/core/id"
	"bodega/internal/core/types"
	"bodega/internal/domain/ledger"
)

// StockState buckets a product's total quantity against its minimum.
type StockState string

const (
	StockLow    StockState = "low"
	StockMedium StockState = "medium"
	StockHigh   StockState = "high"
)

// classifyStock maps a total quantity to a state. Medium spans the
// band from the minimum up to 125% of it.
func classifyStock(total, minStock int64) StockState {
	switch {
	case total < minStock:
		return StockLow
	case total*4 <= minStock*5:
		return StockMedium
	default:
		return StockHigh
	}
}

// Product is a catalog item. Code is the immutable generated key used
// by movement lines and the stock ledger. MinStock 0 means the product
// inherits the minimum from its category.
type Product struct {
	Code          string      `db:"code" json:"code"`
	Name          string      `db:"name" json:"name"`
	Description   string      `db:"description" json:"description,omitempty"`
	CategoryID    id.ID       `db:"category_id" json:"categoryId"`
	Unit          string      `db:"unit" json:"unit"`
	UnitPrice     types.Money `db:"unit_price" json:"unitPrice"`
	MinStock      int64       `db:"min_stock" json:"minStock"`
	ShelfLifeDays int64       `db:"shelf_life_days" json:"shelfLifeDays,omitempty"`
	Visible       bool        `db:"visible" json:"visible"`
	CreatedAt     time.Time   `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time   `db:"updated_at" json:"updatedAt"`
}

// WithStock is a listing row: product plus aggregate quantity and state.
type WithStock struct {
	Product

	CategoryName     string     `db:"category_name" json:"categoryName"`
	CategoryMinStock int64      `db:"category_min_stock" json:"-"`
	TotalQuantity    int64      `db:"total_quantity" json:"totalQuantity"`
	State            StockState `db:"-" json:"stockState"`
}

// EffectiveMinStock resolves the minimum used for state classification,
// falling back to the category default when the product carries none.
func (w *WithStock) EffectiveMinStock() int64 {
	if w.MinStock > 0 {
		return w.MinStock
	}
	return w.CategoryMinStock
}

// Detail is one product with its per-warehouse stock breakdown.
type Detail struct {
	Product

	Stock []ledger.Entry `json:"stock"`
}

// InitialStock seeds one warehouse when a product is created.
type InitialStock struct {
	WarehouseID id.ID `json:"warehouseId"`
	Quantity    int64 `json:"quantity"`
}

// CreateInput is the payload for registering a product.
type CreateInput struct {
	Name          string
	Description   string
	CategoryID    id.ID
	Unit          string
	UnitPrice     types.Money
	MinStock      int64
	ShelfLifeDays int64
	InitialStocks []InitialStock
}

// Validate checks required fields before the transaction starts.
func (in *CreateInput) Validate() error {
	if in.Name == "" {
		return apperror.NewValidation("product name is required")
	}
	if id.IsNil(in.CategoryID) {
		return apperror.NewValidation("category is required")
	}
	if in.Unit == "" {
		return apperror.NewValidation("unit of measure is required")
	}
	if in.MinStock < 0 {
		return apperror.NewValidation("minimum stock cannot be negative")
	}
	if in.ShelfLifeDays < 0 {
		return apperror.NewValidation("shelf life cannot be negative")
	}
	for _, s := range in.InitialStocks {
		if id.IsNil(s.WarehouseID) {
			return apperror.NewValidation("initial stock requires a warehouse")
		}
		if s.Quantity < 0 {
			return apperror.NewValidation("initial stock cannot be negative")
		}
	}
	return nil
}

// UpdateInput carries the mutable product fields. Code never changes.
// StockOverrides, when present, set absolute per-warehouse quantities
// in the same transaction as the field update.
type UpdateInput struct {
	Name           string
	Description    string
	CategoryID     id.ID
	Unit           string
	UnitPrice      types.Money
	MinStock       int64
	ShelfLifeDays  int64
	StockOverrides []InitialStock
}

// Validate checks required fields.
func (in *UpdateInput) Validate() error {
	if in.Name == "" {
		return apperror.NewValidation("product name is required")
	}
	if id.IsNil(in.CategoryID) {
		return apperror.NewValidation("category is required")
	}
	if in.Unit == "" {
		return apperror.NewValidation("unit of measure is required")
	}
	if in.MinStock < 0 {
		return apperror.NewValidation("minimum stock cannot be negative")
	}
	if in.ShelfLifeDays < 0 {
		return apperror.NewValidation("shelf life cannot be negative")
	}
	for _, s := range in.StockOverrides {
		if id.IsNil(s.WarehouseID) {
			return apperror.NewValidation("stock override requires a warehouse")
		}
		if s.Quantity < 0 {
			return apperror.NewValidation("stock override cannot be negative")
		}
	}
	return nil
}

// ListFilter selects catalog rows. WarehouseID both restricts results to
// products held there and scopes the quantity aggregation to it.
type ListFilter struct {
	Search      string
	CategoryID  *id.ID
	WarehouseID *id.ID
	OnlyVisible bool
	State       *StockState
	MinPrice    *types.Money
	MaxPrice    *types.Money
	Limit       int
	Offset      int
}

// AssociatedRecords enumerates why a product cannot be deleted.
type AssociatedRecords struct {
	Entries   bool `json:"entries"`
	Exits     bool `json:"exits"`
	Transfers bool `json:"transfers"`
	Stock     bool `json:"stock"`
}

// Any reports whether at least one association exists.
func (a AssociatedRecords) Any() bool {
	return a.Entries || a.Exits || a.Transfers || a.Stock
}

// Reasons lists the associations for the error payload.
func (a AssociatedRecords) Reasons() []string {
	var out []string
	if a.Entries {
		out = append(out, "entries")
	}
	if a.Exits {
		out = append(out, "exits")
	}
	if a.Transfers {
		out = append(out, "transfers")
	}
	if a.Stock {
		out = append(out, "stock")
	}
	return out
}
