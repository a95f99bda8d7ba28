package ledger

import (
	"context"
	"fmt"

	"bodega/internal/core/apperror"
	"bodega/internal/core/id"
)

// Service provides stock ledger operations.
//
// Apply and Set must run inside the transaction of the owning movement or
// catalog operation; they rely on the repository's row locks and on the
// caller's tx.Manager for atomicity.
type Service struct {
	repo Repository
}

// NewService creates a new ledger service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Quantity returns the current quantity, 0 when no row exists.
func (s *Service) Quantity(ctx context.Context, warehouseID id.ID, productCode string) (int64, error) {
	entry, err := s.repo.Get(ctx, warehouseID, productCode)
	if err != nil {
		return 0, fmt.Errorf("get ledger entry: %w", err)
	}
	if entry == nil {
		return 0, nil
	}
	return entry.Quantity, nil
}

// Apply adjusts stock by delta under a row lock and returns the new
// quantity. A missing row counts as quantity 0: positive deltas insert
// the row, negative deltas fail with InsufficientStock. Any result below
// zero fails with InsufficientStock and nothing is written.
func (s *Service) Apply(ctx context.Context, warehouseID id.ID, productCode string, delta int64) (int64, error) {
	entry, err := s.repo.GetForUpdate(ctx, warehouseID, productCode)
	if err != nil {
		return 0, fmt.Errorf("lock ledger entry: %w", err)
	}

	if entry == nil {
		if delta < 0 {
			return 0, apperror.NewInsufficientStock(productCode, -delta, 0)
		}
		if delta == 0 {
			return 0, nil
		}
		if err := s.repo.Insert(ctx, warehouseID, productCode, delta); err != nil {
			return 0, fmt.Errorf("insert ledger entry: %w", err)
		}
		return delta, nil
	}

	newQty := entry.Quantity + delta
	if newQty < 0 {
		return 0, apperror.NewInsufficientStock(productCode, -delta, entry.Quantity)
	}

	if _, err := s.repo.Add(ctx, warehouseID, productCode, delta); err != nil {
		return 0, fmt.Errorf("adjust ledger entry: %w", err)
	}
	return newQty, nil
}

// Set overwrites the quantity for a (warehouse, product) pair, creating
// the row when absent. Used by product maintenance, not by movements.
func (s *Service) Set(ctx context.Context, warehouseID id.ID, productCode string, quantity int64) error {
	if quantity < 0 {
		return apperror.NewValidation("quantity cannot be negative")
	}
	if err := s.repo.Upsert(ctx, warehouseID, productCode, quantity); err != nil {
		return fmt.Errorf("upsert ledger entry: %w", err)
	}
	return nil
}

// WarehouseStock returns products held in a warehouse, optionally only
// those with positive quantity.
func (s *Service) WarehouseStock(ctx context.Context, warehouseID id.ID, onlyPositive bool) ([]WarehouseStock, error) {
	return s.repo.ByWarehouse(ctx, warehouseID, onlyPositive)
}

// ProductStock returns per-warehouse quantities for a product.
func (s *Service) ProductStock(ctx context.Context, productCode string) ([]Entry, error) {
	return s.repo.ByProduct(ctx, productCode)
}

// HasRowsForProduct reports whether any warehouse holds a ledger row
// for the product.
func (s *Service) HasRowsForProduct(ctx context.Context, productCode string) (bool, error) {
	return s.repo.HasRowsForProduct(ctx, productCode)
}
