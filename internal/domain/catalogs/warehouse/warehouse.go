// Package warehouse provides the warehouse catalog.
package warehouse

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"bodega/internal/core/apperror"
	"bodega/internal/core/id"
)

// Warehouse is a physical storage site movements reference.
type Warehouse struct {
	ID        id.ID     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Location  string    `db:"location" json:"location,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// Input carries the editable warehouse fields.
type Input struct {
	Name     string
	Location string
}

// Validate checks required fields.
func (in *Input) Validate() error {
	if in.Name == "" {
		return apperror.NewValidation("warehouse name is required")
	}
	return nil
}

// Repository defines warehouse storage operations.
type Repository interface {
	Create(ctx context.Context, w *Warehouse) error
	Update(ctx context.Context, w *Warehouse) error
	GetByID(ctx context.Context, warehouseID id.ID) (*Warehouse, error)
	List(ctx context.Context) ([]*Warehouse, error)
	Delete(ctx context.Context, warehouseID id.ID) error

	// HasStock reports whether any ledger row references the warehouse.
	HasStock(ctx context.Context, warehouseID id.ID) (bool, error)

	// HasMovements reports whether any movement references the warehouse
	// as origin or destination.
	HasMovements(ctx context.Context, warehouseID id.ID) (bool, error)
}

// Service implements warehouse catalog operations.
type Service struct {
	repo Repository
}

// NewService creates a warehouse service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create registers a warehouse.
func (s *Service) Create(ctx context.Context, in Input) (*Warehouse, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	w := &Warehouse{
		ID:        id.New(),
		Name:      in.Name,
		Location:  in.Location,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, w); err != nil {
		return nil, fmt.Errorf("create warehouse: %w", err)
	}
	return w, nil
}

// Update overwrites the editable fields.
func (s *Service) Update(ctx context.Context, warehouseID id.ID, in Input) (*Warehouse, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	w, err := s.repo.GetByID(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	w.Name = in.Name
	w.Location = in.Location
	if err := s.repo.Update(ctx, w); err != nil {
		return nil, fmt.Errorf("update warehouse: %w", err)
	}
	return w, nil
}

// GetByID returns one warehouse.
func (s *Service) GetByID(ctx context.Context, warehouseID id.ID) (*Warehouse, error) {
	return s.repo.GetByID(ctx, warehouseID)
}

// List returns all warehouses.
func (s *Service) List(ctx context.Context) ([]*Warehouse, error) {
	return s.repo.List(ctx)
}

// Delete removes a warehouse unless stock or movement history
// references it.
func (s *Service) Delete(ctx context.Context, warehouseID id.ID) error {
	if _, err := s.repo.GetByID(ctx, warehouseID); err != nil {
		return err
	}
	hasStock, err := s.repo.HasStock(ctx, warehouseID)
	if err != nil {
		return fmt.Errorf("check warehouse stock: %w", err)
	}
	hasMovements, err := s.repo.HasMovements(ctx, warehouseID)
	if err != nil {
		return fmt.Errorf("check warehouse movements: %w", err)
	}
	if hasStock || hasMovements {
		appErr := &apperror.AppError{
			Code:       apperror.CodeDependentRecords,
			Message:    "warehouse has associated records and cannot be deleted",
			HTTPStatus: http.StatusConflict,
			Details:    map[string]any{"warehouse_id": warehouseID},
		}
		if hasStock {
			appErr.WithDetail("stock", true)
		}
		if hasMovements {
			appErr.WithDetail("movements", true)
		}
		return appErr
	}
	if err := s.repo.Delete(ctx, warehouseID); err != nil {
		return fmt.Errorf("delete warehouse: %w", err)
	}
	return nil
}
