package catalog_repo

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"bodega/internal/core/apperror"
	"bodega/internal/core/id"
	"bodega/internal/domain/catalogs/warehouse"
	"bodega/internal/infrastructure/storage/postgres"
)

const warehousesTable = "warehouses"

// WarehouseRepo implements warehouse.Repository.
type WarehouseRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

var _ warehouse.Repository = (*WarehouseRepo)(nil)

// NewWarehouseRepo creates a new warehouse repository.
func NewWarehouseRepo(txManager *postgres.TxManager) *WarehouseRepo {
	return &WarehouseRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a warehouse.
func (r *WarehouseRepo) Create(ctx context.Context, w *warehouse.Warehouse) error {
	sql, args, err := r.builder.
		Insert(warehousesTable).
		Columns("id", "name", "location", "created_at").
		Values(w.ID, w.Name, w.Location, w.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}
	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		if postgres.IsUniqueViolation(err) {
			return apperror.NewDuplicate("warehouse", "name", w.Name)
		}
		return fmt.Errorf("insert warehouse: %w", err)
	}
	return nil
}

// Update overwrites the editable fields.
func (r *WarehouseRepo) Update(ctx context.Context, w *warehouse.Warehouse) error {
	sql, args, err := r.builder.
		Update(warehousesTable).
		Set("name", w.Name).
		Set("location", w.Location).
		Where(squirrel.Eq{"id": w.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	tag, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update warehouse: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("warehouse", w.ID)
	}
	return nil
}

// GetByID returns one warehouse or NotFound.
func (r *WarehouseRepo) GetByID(ctx context.Context, warehouseID id.ID) (*warehouse.Warehouse, error) {
	var w warehouse.Warehouse
	err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &w,
		"SELECT id, name, location, created_at FROM "+warehousesTable+" WHERE id = $1", warehouseID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("warehouse", warehouseID)
		}
		return nil, fmt.Errorf("get warehouse: %w", err)
	}
	return &w, nil
}

// List returns all warehouses.
func (r *WarehouseRepo) List(ctx context.Context) ([]*warehouse.Warehouse, error) {
	var out []*warehouse.Warehouse
	err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &out,
		"SELECT id, name, location, created_at FROM "+warehousesTable+" ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("select warehouses: %w", err)
	}
	return out, nil
}

// Delete removes a warehouse row. The foreign keys from stock_ledger
// and movements backstop the service-side dependency checks.
func (r *WarehouseRepo) Delete(ctx context.Context, warehouseID id.ID) error {
	tag, err := r.txManager.GetQuerier(ctx).
		Exec(ctx, "DELETE FROM "+warehousesTable+" WHERE id = $1", warehouseID)
	if err != nil {
		if postgres.IsForeignKeyViolation(err) {
			return &apperror.AppError{
				Code:       apperror.CodeDependentRecords,
				Message:    "warehouse has associated records and cannot be deleted",
				HTTPStatus: http.StatusConflict,
				Details:    map[string]any{"warehouse_id": warehouseID},
			}
		}
		return fmt.Errorf("delete warehouse: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("warehouse", warehouseID)
	}
	return nil
}

// HasStock reports whether any ledger row references the warehouse.
func (r *WarehouseRepo) HasStock(ctx context.Context, warehouseID id.ID) (bool, error) {
	var one int
	err := r.txManager.GetQuerier(ctx).
		QueryRow(ctx, "SELECT 1 FROM stock_ledger WHERE warehouse_id = $1 LIMIT 1", warehouseID).
		Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check warehouse stock: %w", err)
	}
	return true, nil
}

// HasMovements reports whether any movement references the warehouse.
func (r *WarehouseRepo) HasMovements(ctx context.Context, warehouseID id.ID) (bool, error) {
	var one int
	err := r.txManager.GetQuerier(ctx).
		QueryRow(ctx, "SELECT 1 FROM movements WHERE origin_warehouse_id = $1 OR dest_warehouse_id = $1 LIMIT 1", warehouseID).
		Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check warehouse movements: %w", err)
	}
	return true, nil
}
