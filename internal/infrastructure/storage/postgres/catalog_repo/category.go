package catalog_repo

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"bodega/internal/core/apperror"
	"bodega/internal/core/id"
	"bodega/internal/domain/catalogs/category"
	"bodega/internal/infrastructure/storage/postgres"
)

const categoriesTable = "categories"

// CategoryRepo implements category.Repository.
type CategoryRepo struct {
	txManager *postgres.TxManager
}

var _ category.Repository = (*CategoryRepo)(nil)

// NewCategoryRepo creates a new category repository.
func NewCategoryRepo(txManager *postgres.TxManager) *CategoryRepo {
	return &CategoryRepo{txManager: txManager}
}

// Create inserts a category.
func (r *CategoryRepo) Create(ctx context.Context, c *category.Category) error {
	_, err := r.txManager.GetQuerier(ctx).Exec(ctx,
		"INSERT INTO "+categoriesTable+" (id, name, min_stock, created_at) VALUES ($1, $2, $3, $4)",
		c.ID, c.Name, c.MinStock, c.CreatedAt)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return apperror.NewDuplicate("category", "name", c.Name)
		}
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

// Update overwrites the editable category fields.
func (r *CategoryRepo) Update(ctx context.Context, c *category.Category) error {
	tag, err := r.txManager.GetQuerier(ctx).Exec(ctx,
		"UPDATE "+categoriesTable+" SET name = $1, min_stock = $2 WHERE id = $3",
		c.Name, c.MinStock, c.ID)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return apperror.NewDuplicate("category", "name", c.Name)
		}
		return fmt.Errorf("update category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("category", c.ID)
	}
	return nil
}

// GetByID returns one category or NotFound.
func (r *CategoryRepo) GetByID(ctx context.Context, categoryID id.ID) (*category.Category, error) {
	var c category.Category
	err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &c,
		"SELECT id, name, min_stock, created_at FROM "+categoriesTable+" WHERE id = $1", categoryID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("category", categoryID)
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return &c, nil
}

// List returns all categories.
func (r *CategoryRepo) List(ctx context.Context) ([]*category.Category, error) {
	var out []*category.Category
	err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &out,
		"SELECT id, name, min_stock, created_at FROM "+categoriesTable+" ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("select categories: %w", err)
	}
	return out, nil
}

// Delete removes a category row. The foreign key from products
// backstops the service-side HasProducts check.
func (r *CategoryRepo) Delete(ctx context.Context, categoryID id.ID) error {
	tag, err := r.txManager.GetQuerier(ctx).Exec(ctx,
		"DELETE FROM "+categoriesTable+" WHERE id = $1", categoryID)
	if err != nil {
		if postgres.IsForeignKeyViolation(err) {
			return &apperror.AppError{
				Code:       apperror.CodeDependentRecords,
				Message:    "category has products and cannot be deleted",
				HTTPStatus: http.StatusConflict,
				Details:    map[string]any{"category_id": categoryID},
			}
		}
		return fmt.Errorf("delete category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("category", categoryID)
	}
	return nil
}

// HasProducts reports whether any product references the category.
func (r *CategoryRepo) HasProducts(ctx context.Context, categoryID id.ID) (bool, error) {
	var one int
	err := r.txManager.GetQuerier(ctx).
		QueryRow(ctx, "SELECT 1 FROM products WHERE category_id = $1 LIMIT 1", categoryID).
		Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check category products: %w", err)
	}
	return true, nil
}
