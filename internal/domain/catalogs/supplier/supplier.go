// Package supplier provides the supplier catalog referenced by entries.
package supplier

import (
	"context"
	"fmt"
	"time"

	"bodega/internal/core/apperror"
	"bodega/internal/core/id"
)

// Supplier is a goods provider referenced by entry movements.
type Supplier struct {
	ID        id.ID     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	TaxID     string    `db:"tax_id" json:"taxId,omitempty"`
	Phone     string    `db:"phone" json:"phone,omitempty"`
	Address   string    `db:"address" json:"address,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// Input carries the editable supplier fields.
type Input struct {
	Name    string
	TaxID   string
	Phone   string
	Address string
}

// Validate checks required fields.
func (in *Input) Validate() error {
	if in.Name == "" {
		return apperror.NewValidation("supplier name is required")
	}
	return nil
}

// Repository defines supplier storage operations.
type Repository interface {
	Create(ctx context.Context, s *Supplier) error
	Update(ctx context.Context, s *Supplier) error
	GetByID(ctx context.Context, supplierID id.ID) (*Supplier, error)
	List(ctx context.Context) ([]*Supplier, error)
	Delete(ctx context.Context, supplierID id.ID) error
}

// Service implements supplier catalog operations.
type Service struct {
	repo Repository
}

// NewService creates a supplier service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create registers a supplier.
func (s *Service) Create(ctx context.Context, in Input) (*Supplier, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	sup := &Supplier{
		ID:        id.New(),
		Name:      in.Name,
		TaxID:     in.TaxID,
		Phone:     in.Phone,
		Address:   in.Address,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, sup); err != nil {
		return nil, fmt.Errorf("create supplier: %w", err)
	}
	return sup, nil
}

// Update overwrites the editable fields.
func (s *Service) Update(ctx context.Context, supplierID id.ID, in Input) (*Supplier, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	sup, err := s.repo.GetByID(ctx, supplierID)
	if err != nil {
		return nil, err
	}
	sup.Name = in.Name
	sup.TaxID = in.TaxID
	sup.Phone = in.Phone
	sup.Address = in.Address
	if err := s.repo.Update(ctx, sup); err != nil {
		return nil, fmt.Errorf("update supplier: %w", err)
	}
	return sup, nil
}

// GetByID returns one supplier.
func (s *Service) GetByID(ctx context.Context, supplierID id.ID) (*Supplier, error) {
	return s.repo.GetByID(ctx, supplierID)
}

// List returns all suppliers.
func (s *Service) List(ctx context.Context) ([]*Supplier, error) {
	return s.repo.List(ctx)
}

// Delete removes a supplier.
func (s *Service) Delete(ctx context.Context, supplierID id.ID) error {
	if _, err := s.repo.GetByID(ctx, supplierID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, supplierID); err != nil {
		return fmt.Errorf("delete supplier: %w", err)
	}
	return nil
}
