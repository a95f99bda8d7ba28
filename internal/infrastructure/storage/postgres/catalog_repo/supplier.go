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
	"bodega/internal/domain/catalogs/supplier"
	"bodega/internal/infrastructure/storage/postgres"
)

const suppliersTable = "suppliers"

// SupplierRepo implements supplier.Repository.
type SupplierRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

var _ supplier.Repository = (*SupplierRepo)(nil)

// NewSupplierRepo creates a new supplier repository.
func NewSupplierRepo(txManager *postgres.TxManager) *SupplierRepo {
	return &SupplierRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a supplier.
func (r *SupplierRepo) Create(ctx context.Context, s *supplier.Supplier) error {
	sql, args, err := r.builder.
		Insert(suppliersTable).
		Columns("id", "name", "tax_id", "phone", "address", "created_at").
		Values(s.ID, s.Name, s.TaxID, s.Phone, s.Address, s.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}
	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		if postgres.IsUniqueViolation(err) {
			return apperror.NewDuplicate("supplier", "tax_id", s.TaxID)
		}
		return fmt.Errorf("insert supplier: %w", err)
	}
	return nil
}

// Update overwrites the editable fields.
func (r *SupplierRepo) Update(ctx context.Context, s *supplier.Supplier) error {
	sql, args, err := r.builder.
		Update(suppliersTable).
		Set("name", s.Name).
		Set("tax_id", s.TaxID).
		Set("phone", s.Phone).
		Set("address", s.Address).
		Where(squirrel.Eq{"id": s.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	tag, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update supplier: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("supplier", s.ID)
	}
	return nil
}

// GetByID returns one supplier or NotFound.
func (r *SupplierRepo) GetByID(ctx context.Context, supplierID id.ID) (*supplier.Supplier, error) {
	var s supplier.Supplier
	err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &s,
		"SELECT id, name, tax_id, phone, address, created_at FROM "+suppliersTable+" WHERE id = $1", supplierID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("supplier", supplierID)
		}
		return nil, fmt.Errorf("get supplier: %w", err)
	}
	return &s, nil
}

// List returns all suppliers.
func (r *SupplierRepo) List(ctx context.Context) ([]*supplier.Supplier, error) {
	var out []*supplier.Supplier
	err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &out,
		"SELECT id, name, tax_id, phone, address, created_at FROM "+suppliersTable+" ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("select suppliers: %w", err)
	}
	return out, nil
}

// Delete removes a supplier row. Movements keep their supplier
// reference forever, so the foreign key blocks deletion once any
// entry names the supplier.
func (r *SupplierRepo) Delete(ctx context.Context, supplierID id.ID) error {
	tag, err := r.txManager.GetQuerier(ctx).
		Exec(ctx, "DELETE FROM "+suppliersTable+" WHERE id = $1", supplierID)
	if err != nil {
		if postgres.IsForeignKeyViolation(err) {
			return &apperror.AppError{
				Code:       apperror.CodeDependentRecords,
				Message:    "supplier is referenced by movements and cannot be deleted",
				HTTPStatus: http.StatusConflict,
				Details:    map[string]any{"supplier_id": supplierID},
			}
		}
		return fmt.Errorf("delete supplier: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("supplier", supplierID)
	}
	return nil
}
