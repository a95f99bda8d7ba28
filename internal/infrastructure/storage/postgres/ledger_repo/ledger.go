// Package ledger_repo provides the PostgreSQL stock ledger repository.
package ledger_repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"bodega/internal/core/id"
	"bodega/internal/domain/ledger"
	"bodega/internal/infrastructure/storage/postgres"
)

const ledgerTable = "stock_ledger"

// LedgerRepo implements ledger.Repository.
type LedgerRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

var _ ledger.Repository = (*LedgerRepo)(nil)

// NewLedgerRepo creates a new stock ledger repository.
func NewLedgerRepo(txManager *postgres.TxManager) *LedgerRepo {
	return &LedgerRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *LedgerRepo) get(ctx context.Context, warehouseID id.ID, productCode string, forUpdate bool) (*ledger.Entry, error) {
	q := r.builder.
		Select("warehouse_id", "product_code", "quantity", "updated_at").
		From(ledgerTable).
		Where(squirrel.Eq{"warehouse_id": warehouseID, "product_code": productCode})
	if forUpdate {
		q = q.Suffix("FOR UPDATE")
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var entry ledger.Entry
	err = pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &entry, sql, args...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get ledger entry: %w", err)
	}
	return &entry, nil
}

// Get returns the entry without locking, or nil when absent.
func (r *LedgerRepo) Get(ctx context.Context, warehouseID id.ID, productCode string) (*ledger.Entry, error) {
	return r.get(ctx, warehouseID, productCode, false)
}

// GetForUpdate returns the entry locked for the current transaction,
// or nil when no row exists.
func (r *LedgerRepo) GetForUpdate(ctx context.Context, warehouseID id.ID, productCode string) (*ledger.Entry, error) {
	return r.get(ctx, warehouseID, productCode, true)
}

// Insert creates a new ledger row.
func (r *LedgerRepo) Insert(ctx context.Context, warehouseID id.ID, productCode string, quantity int64) error {
	sql, args, err := r.builder.
		Insert(ledgerTable).
		Columns("warehouse_id", "product_code", "quantity", "updated_at").
		Values(warehouseID, productCode, quantity, time.Now().UTC()).
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}
	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert ledger entry: %w", err)
	}
	return nil
}

// Add applies a delta to an existing row and returns the new quantity.
func (r *LedgerRepo) Add(ctx context.Context, warehouseID id.ID, productCode string, delta int64) (int64, error) {
	sql, args, err := r.builder.
		Update(ledgerTable).
		Set("quantity", squirrel.Expr("quantity + ?", delta)).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"warehouse_id": warehouseID, "product_code": productCode}).
		Suffix("RETURNING quantity").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build query: %w", err)
	}

	var quantity int64
	if err := r.txManager.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&quantity); err != nil {
		return 0, fmt.Errorf("adjust ledger entry: %w", err)
	}
	return quantity, nil
}

// Upsert sets the absolute quantity, creating the row when absent.
func (r *LedgerRepo) Upsert(ctx context.Context, warehouseID id.ID, productCode string, quantity int64) error {
	sql, args, err := r.builder.
		Insert(ledgerTable).
		Columns("warehouse_id", "product_code", "quantity", "updated_at").
		Values(warehouseID, productCode, quantity, time.Now().UTC()).
		Suffix("ON CONFLICT (warehouse_id, product_code) DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = EXCLUDED.updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}
	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("upsert ledger entry: %w", err)
	}
	return nil
}

// ByWarehouse returns stock for all products held in a warehouse,
// joined with the product catalog for display fields.
func (r *LedgerRepo) ByWarehouse(ctx context.Context, warehouseID id.ID, onlyPositive bool) ([]ledger.WarehouseStock, error) {
	q := r.builder.
		Select("l.product_code", "p.name AS product_name", "p.unit", "l.quantity").
		From(ledgerTable + " l").
		Join("products p ON p.code = l.product_code").
		Where(squirrel.Eq{"l.warehouse_id": warehouseID}).
		OrderBy("p.name")
	if onlyPositive {
		q = q.Where(squirrel.Gt{"l.quantity": 0})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var out []ledger.WarehouseStock
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &out, sql, args...); err != nil {
		return nil, fmt.Errorf("select warehouse stock: %w", err)
	}
	return out, nil
}

// ByProduct returns stock rows for a product across warehouses.
func (r *LedgerRepo) ByProduct(ctx context.Context, productCode string) ([]ledger.Entry, error) {
	sql, args, err := r.builder.
		Select("warehouse_id", "product_code", "quantity", "updated_at").
		From(ledgerTable).
		Where(squirrel.Eq{"product_code": productCode}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var out []ledger.Entry
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &out, sql, args...); err != nil {
		return nil, fmt.Errorf("select product stock: %w", err)
	}
	return out, nil
}

// HasRowsForProduct reports whether any ledger row references the product.
func (r *LedgerRepo) HasRowsForProduct(ctx context.Context, productCode string) (bool, error) {
	sql, args, err := r.builder.
		Select("1").
		From(ledgerTable).
		Where(squirrel.Eq{"product_code": productCode}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build query: %w", err)
	}

	var one int
	err = r.txManager.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check ledger rows: %w", err)
	}
	return true, nil
}
