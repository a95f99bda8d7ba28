// Package movement_repo provides the PostgreSQL movement repository.
package movement_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"bodega/internal/core/apperror"
	"bodega/internal/core/id"
	"bodega/internal/domain"
	"bodega/internal/domain/movements"
	"bodega/internal/infrastructure/storage/postgres"
)

const (
	movementsTable = "movements"
	linesTable     = "movement_lines"
)

var headerColumns = []string{
	"id", "movement_type", "status", "requirement_number", "date",
	"origin_warehouse_id", "dest_warehouse_id",
	"supplier_id", "transporter_id", "zone_id", "equipment_id",
	"requester_id", "authorizer_id", "dispatcher_id",
	"processed_by", "note", "created_at",
}

// MovementRepo implements movements.Repository.
type MovementRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

var _ movements.Repository = (*MovementRepo)(nil)

// NewMovementRepo creates a new movement repository.
func NewMovementRepo(txManager *postgres.TxManager) *MovementRepo {
	return &MovementRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a movement header.
func (r *MovementRepo) Create(ctx context.Context, m *movements.Movement) error {
	sql, args, err := r.builder.
		Insert(movementsTable).
		Columns(headerColumns...).
		Values(
			m.ID, m.Type, m.Status, m.RequirementNumber, m.Date,
			m.OriginWarehouseID, m.DestWarehouseID,
			m.SupplierID, m.TransporterID, m.ZoneID, m.EquipmentID,
			m.RequesterID, m.AuthorizerID, m.DispatcherID,
			m.ProcessedBy, m.Note, m.CreatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}
	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

// SaveLines inserts detail rows for a header.
func (r *MovementRepo) SaveLines(ctx context.Context, movementID id.ID, lines []movements.Line) error {
	if len(lines) == 0 {
		return nil
	}

	q := r.builder.
		Insert(linesTable).
		Columns("movement_id", "line_no", "product_code", "quantity")
	for _, line := range lines {
		q = q.Values(movementID, line.LineNo, line.ProductCode, line.Quantity)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}
	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert movement lines: %w", err)
	}
	return nil
}

func (r *MovementRepo) getHeader(ctx context.Context, movementID id.ID, forUpdate bool) (*movements.Movement, error) {
	q := r.builder.
		Select(headerColumns...).
		From(movementsTable).
		Where(squirrel.Eq{"id": movementID})
	if forUpdate {
		q = q.Suffix("FOR UPDATE")
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var m movements.Movement
	err = pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &m, sql, args...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return &m, nil
}

// GetByID retrieves a header without lines.
func (r *MovementRepo) GetByID(ctx context.Context, movementID id.ID) (*movements.Movement, error) {
	m, err := r.getHeader(ctx, movementID, false)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, apperror.NewNotFound("movement", movementID)
	}
	return m, nil
}

// GetActiveForUpdate retrieves the header row-locked for the current
// transaction, failing with NotActive unless it matches the type and
// is still active.
func (r *MovementRepo) GetActiveForUpdate(ctx context.Context, movementID id.ID, typ movements.Type) (*movements.Movement, error) {
	m, err := r.getHeader(ctx, movementID, true)
	if err != nil {
		return nil, err
	}
	if m == nil || m.Type != typ || m.Status != movements.StatusActive {
		return nil, apperror.NewNotActive(movementID)
	}
	return m, nil
}

// GetLines returns detail rows ordered by line number.
func (r *MovementRepo) GetLines(ctx context.Context, movementID id.ID) ([]movements.Line, error) {
	sql, args, err := r.builder.
		Select("line_no", "product_code", "quantity").
		From(linesTable).
		Where(squirrel.Eq{"movement_id": movementID}).
		OrderBy("line_no").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var lines []movements.Line
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &lines, sql, args...); err != nil {
		return nil, fmt.Errorf("select movement lines: %w", err)
	}
	return lines, nil
}

// MarkReturned flips status active -> returned. The WHERE clause doubles
// as the idempotence guard: zero matched rows means a concurrent
// reversal already won, surfaced as NotActive.
func (r *MovementRepo) MarkReturned(ctx context.Context, movementID id.ID, typ movements.Type, note, processedBy string) error {
	sql, args, err := r.builder.
		Update(movementsTable).
		Set("status", movements.StatusReturned).
		Set("note", note).
		Set("processed_by", processedBy).
		Where(squirrel.Eq{
			"id":            movementID,
			"movement_type": typ,
			"status":        movements.StatusActive,
		}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	tag, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("mark movement returned: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotActive(movementID)
	}
	return nil
}

func applyListFilter(q squirrel.SelectBuilder, filter movements.ListFilter) squirrel.SelectBuilder {
	if filter.DateFrom != nil {
		q = q.Where(squirrel.GtOrEq{"m.date": *filter.DateFrom})
	}
	if filter.DateTo != nil {
		q = q.Where(squirrel.LtOrEq{"m.date": *filter.DateTo})
	}
	if filter.Type != nil {
		q = q.Where(squirrel.Eq{"m.movement_type": *filter.Type})
	}
	if filter.Status != nil {
		q = q.Where(squirrel.Eq{"m.status": *filter.Status})
	}
	if filter.WarehouseID != nil {
		q = q.Where(squirrel.Or{
			squirrel.Eq{"m.origin_warehouse_id": *filter.WarehouseID},
			squirrel.Eq{"m.dest_warehouse_id": *filter.WarehouseID},
		})
	}
	if filter.RequirementNumber != "" {
		q = q.Where(squirrel.Eq{"m.requirement_number": filter.RequirementNumber})
	}
	if filter.ProcessedBy != "" {
		q = q.Where(squirrel.Eq{"m.processed_by": filter.ProcessedBy})
	}
	return q
}

// List returns the unified movement feed with lines attached.
func (r *MovementRepo) List(ctx context.Context, filter movements.ListFilter) (domain.ListResult[*movements.Summary], error) {
	var result domain.ListResult[*movements.Summary]

	countSQL, countArgs, err := applyListFilter(
		r.builder.Select("COUNT(*)").From(movementsTable+" m"),
		filter,
	).ToSql()
	if err != nil {
		return result, fmt.Errorf("build count query: %w", err)
	}
	if err := r.txManager.GetQuerier(ctx).QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count movements: %w", err)
	}

	cols := make([]string, 0, len(headerColumns)+3)
	for _, c := range headerColumns {
		cols = append(cols, "m."+c)
	}
	cols = append(cols,
		"COALESCE(wo.name, '') AS origin_warehouse_name",
		"COALESCE(wd.name, '') AS dest_warehouse_name",
		"COALESCE(u.name, '') AS processed_by_name",
	)

	q := applyListFilter(
		r.builder.
			Select(cols...).
			From(movementsTable+" m").
			LeftJoin("warehouses wo ON wo.id = m.origin_warehouse_id").
			LeftJoin("warehouses wd ON wd.id = m.dest_warehouse_id").
			LeftJoin("users u ON u.dni = m.processed_by"),
		filter,
	).
		OrderBy("m.date DESC", "m.created_at DESC").
		Limit(uint64(filter.Limit)).
		Offset(uint64(filter.Offset))

	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}

	var items []*movements.Summary
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &items, sql, args...); err != nil {
		return result, fmt.Errorf("select movements: %w", err)
	}

	if err := r.attachLines(ctx, items); err != nil {
		return result, err
	}

	result.Items = items
	result.Limit = filter.Limit
	result.Offset = filter.Offset
	return result, nil
}

func (r *MovementRepo) attachLines(ctx context.Context, items []*movements.Summary) error {
	if len(items) == 0 {
		return nil
	}

	ids := make([]id.ID, 0, len(items))
	byID := make(map[id.ID]*movements.Summary, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
		byID[item.ID] = item
	}

	sql, args, err := r.builder.
		Select("movement_id", "line_no", "product_code", "quantity").
		From(linesTable).
		Where(squirrel.Eq{"movement_id": ids}).
		OrderBy("movement_id", "line_no").
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	type lineRow struct {
		MovementID  id.ID  `db:"movement_id"`
		LineNo      int    `db:"line_no"`
		ProductCode string `db:"product_code"`
		Quantity    int64  `db:"quantity"`
	}
	var rows []lineRow
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &rows, sql, args...); err != nil {
		return fmt.Errorf("select feed lines: %w", err)
	}

	for _, row := range rows {
		item := byID[row.MovementID]
		if item == nil {
			continue
		}
		item.Lines = append(item.Lines, movements.Line{
			LineNo:      row.LineNo,
			ProductCode: row.ProductCode,
			Quantity:    row.Quantity,
		})
	}
	return nil
}

// HasLinesForProduct reports whether any detail of the given type
// references the product.
func (r *MovementRepo) HasLinesForProduct(ctx context.Context, productCode string, typ movements.Type) (bool, error) {
	sql, args, err := r.builder.
		Select("1").
		From(linesTable + " l").
		Join(movementsTable + " m ON m.id = l.movement_id").
		Where(squirrel.Eq{"l.product_code": productCode, "m.movement_type": typ}).
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
		return false, fmt.Errorf("check movement lines: %w", err)
	}
	return true, nil
}
