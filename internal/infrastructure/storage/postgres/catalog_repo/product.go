// Package catalog_repo provides PostgreSQL implementations for the
// catalog repositories.
package catalog_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"bodega/internal/core/apperror"
	"bodega/internal/domain"
	"bodega/internal/domain/catalogs/product"
	"bodega/internal/infrastructure/storage/postgres"
)

const productsTable = "products"

var productColumns = []string{
	"code", "name", "description", "category_id", "unit",
	"unit_price", "min_stock", "shelf_life_days", "visible", "created_at", "updated_at",
}

// ProductRepo implements product.Repository.
type ProductRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

var _ product.Repository = (*ProductRepo)(nil)

// NewProductRepo creates a new product repository.
func NewProductRepo(txManager *postgres.TxManager) *ProductRepo {
	return &ProductRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a product.
func (r *ProductRepo) Create(ctx context.Context, p *product.Product) error {
	sql, args, err := r.builder.
		Insert(productsTable).
		Columns(productColumns...).
		Values(
			p.Code, p.Name, p.Description, p.CategoryID, p.Unit,
			p.UnitPrice, p.MinStock, p.ShelfLifeDays, p.Visible, p.CreatedAt, p.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}
	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		if postgres.IsUniqueViolation(err) {
			return apperror.NewDuplicate("product", "code", p.Code)
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// Update overwrites the mutable fields of an existing product.
func (r *ProductRepo) Update(ctx context.Context, p *product.Product) error {
	sql, args, err := r.builder.
		Update(productsTable).
		Set("name", p.Name).
		Set("description", p.Description).
		Set("category_id", p.CategoryID).
		Set("unit", p.Unit).
		Set("unit_price", p.UnitPrice).
		Set("min_stock", p.MinStock).
		Set("shelf_life_days", p.ShelfLifeDays).
		Set("updated_at", p.UpdatedAt).
		Where(squirrel.Eq{"code": p.Code}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	tag, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("product", p.Code)
	}
	return nil
}

// GetByCode returns a product or NotFound.
func (r *ProductRepo) GetByCode(ctx context.Context, code string) (*product.Product, error) {
	sql, args, err := r.builder.
		Select(productColumns...).
		From(productsTable).
		Where(squirrel.Eq{"code": code}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var p product.Product
	err = pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &p, sql, args...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("product", code)
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

// ExistsByCode reports whether the code is taken.
func (r *ProductRepo) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var one int
	err := r.txManager.GetQuerier(ctx).
		QueryRow(ctx, "SELECT 1 FROM "+productsTable+" WHERE code = $1", code).
		Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check product code: %w", err)
	}
	return true, nil
}

// List returns catalog rows with aggregate stock, filtered and paginated.
func (r *ProductRepo) List(ctx context.Context, filter product.ListFilter) (domain.ListResult[*product.WithStock], error) {
	var result domain.ListResult[*product.WithStock]

	base := func(q squirrel.SelectBuilder) squirrel.SelectBuilder {
		if filter.Search != "" {
			like := "%" + filter.Search + "%"
			q = q.Where(squirrel.Or{
				squirrel.ILike{"p.name": like},
				squirrel.ILike{"p.code": like},
			})
		}
		if filter.CategoryID != nil {
			q = q.Where(squirrel.Eq{"p.category_id": *filter.CategoryID})
		}
		if filter.WarehouseID != nil {
			q = q.Where(squirrel.Expr(
				"EXISTS (SELECT 1 FROM stock_ledger sl WHERE sl.product_code = p.code AND sl.warehouse_id = ?)",
				*filter.WarehouseID))
		}
		if filter.MinPrice != nil {
			q = q.Where(squirrel.GtOrEq{"p.unit_price": *filter.MinPrice})
		}
		if filter.MaxPrice != nil {
			q = q.Where(squirrel.LtOrEq{"p.unit_price": *filter.MaxPrice})
		}
		if filter.OnlyVisible {
			q = q.Where(squirrel.Eq{"p.visible": true})
		}
		return q
	}

	ledgerJoin := "stock_ledger l ON l.product_code = p.code"
	var joinArgs []any
	if filter.WarehouseID != nil {
		// Quantities scoped to the requested warehouse
		ledgerJoin += " AND l.warehouse_id = ?"
		joinArgs = append(joinArgs, *filter.WarehouseID)
	}

	// State is decided over the aggregate, so it lives in HAVING. The
	// effective minimum falls back to the category default, same rule as
	// WithStock.EffectiveMinStock.
	const effMin = "(CASE WHEN p.min_stock > 0 THEN p.min_stock ELSE c.min_stock END)"
	const total = "COALESCE(SUM(l.quantity), 0)"
	withState := func(q squirrel.SelectBuilder) squirrel.SelectBuilder {
		if filter.State == nil {
			return q
		}
		switch *filter.State {
		case product.StockLow:
			return q.Having(total + " < " + effMin)
		case product.StockMedium:
			return q.Having(total + " >= " + effMin).Having(total + " * 4 <= " + effMin + " * 5")
		default:
			return q.Having(total + " * 4 > " + effMin + " * 5")
		}
	}

	if filter.State == nil {
		countSQL, countArgs, err := base(
			r.builder.Select("COUNT(*)").From(productsTable + " p"),
		).ToSql()
		if err != nil {
			return result, fmt.Errorf("build count query: %w", err)
		}
		if err := r.txManager.GetQuerier(ctx).QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
			return result, fmt.Errorf("count products: %w", err)
		}
	} else {
		matchSQL, matchArgs, err := withState(base(r.builder.
			Select("p.code").
			From(productsTable+" p").
			Join("categories c ON c.id = p.category_id").
			LeftJoin(ledgerJoin, joinArgs...).
			GroupBy("p.code", "c.min_stock"))).ToSql()
		if err != nil {
			return result, fmt.Errorf("build count query: %w", err)
		}
		countSQL := "SELECT COUNT(*) FROM (" + matchSQL + ") AS matched"
		if err := r.txManager.GetQuerier(ctx).QueryRow(ctx, countSQL, matchArgs...).Scan(&result.TotalCount); err != nil {
			return result, fmt.Errorf("count products: %w", err)
		}
	}

	q := withState(base(r.builder.
		Select(
			"p.code", "p.name", "p.description", "p.category_id", "p.unit",
			"p.unit_price", "p.min_stock", "p.shelf_life_days", "p.visible",
			"p.created_at", "p.updated_at",
			"c.name AS category_name",
			"c.min_stock AS category_min_stock",
			total+" AS total_quantity",
		).
		From(productsTable+" p").
		Join("categories c ON c.id = p.category_id").
		LeftJoin(ledgerJoin, joinArgs...).
		GroupBy("p.code", "c.name", "c.min_stock").
		OrderBy("p.name")))

	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit)).Offset(uint64(max(filter.Offset, 0)))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}

	var items []*product.WithStock
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &items, sql, args...); err != nil {
		return result, fmt.Errorf("select products: %w", err)
	}

	result.Items = items
	result.Limit = filter.Limit
	result.Offset = filter.Offset
	return result, nil
}

// SetVisible flips the visibility flag.
func (r *ProductRepo) SetVisible(ctx context.Context, code string, visible bool) error {
	tag, err := r.txManager.GetQuerier(ctx).
		Exec(ctx, "UPDATE "+productsTable+" SET visible = $1 WHERE code = $2", visible, code)
	if err != nil {
		return fmt.Errorf("set product visibility: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("product", code)
	}
	return nil
}

// Delete removes the product row.
func (r *ProductRepo) Delete(ctx context.Context, code string) error {
	tag, err := r.txManager.GetQuerier(ctx).
		Exec(ctx, "DELETE FROM "+productsTable+" WHERE code = $1", code)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("product", code)
	}
	return nil
}
