// Package category provides the product category catalog.
package category

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"bodega/internal/core/apperror"
	"bodega/internal/core/id"
)

// Category groups products in the catalog. MinStock is the default
// minimum for products in the category that carry none of their own.
type Category struct {
	ID        id.ID     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	MinStock  int64     `db:"min_stock" json:"minStock"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// Input carries the editable category fields.
type Input struct {
	Name     string
	MinStock int64
}

// Validate checks required fields.
func (in Input) Validate() error {
	if in.Name == "" {
		return apperror.NewValidation("category name is required")
	}
	if in.MinStock < 0 {
		return apperror.NewValidation("minimum stock cannot be negative")
	}
	return nil
}

// Repository defines category storage operations.
type Repository interface {
	Create(ctx context.Context, c *Category) error
	Update(ctx context.Context, c *Category) error
	GetByID(ctx context.Context, categoryID id.ID) (*Category, error)
	List(ctx context.Context) ([]*Category, error)
	Delete(ctx context.Context, categoryID id.ID) error

	// HasProducts reports whether any product references the category.
	HasProducts(ctx context.Context, categoryID id.ID) (bool, error)
}

// Service implements category catalog operations.
type Service struct {
	repo Repository
}

// NewService creates a category service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create registers a category.
func (s *Service) Create(ctx context.Context, in Input) (*Category, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	c := &Category{
		ID:        id.New(),
		Name:      in.Name,
		MinStock:  in.MinStock,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return c, nil
}

// Update overwrites the editable category fields.
func (s *Service) Update(ctx context.Context, categoryID id.ID, in Input) (*Category, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	c, err := s.repo.GetByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	c.Name = in.Name
	c.MinStock = in.MinStock
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}
	return c, nil
}

// List returns all categories.
func (s *Service) List(ctx context.Context) ([]*Category, error) {
	return s.repo.List(ctx)
}

// Delete removes a category unless products reference it.
func (s *Service) Delete(ctx context.Context, categoryID id.ID) error {
	if _, err := s.repo.GetByID(ctx, categoryID); err != nil {
		return err
	}
	hasProducts, err := s.repo.HasProducts(ctx, categoryID)
	if err != nil {
		return fmt.Errorf("check category products: %w", err)
	}
	if hasProducts {
		return &apperror.AppError{
			Code:       apperror.CodeDependentRecords,
			Message:    "category has products and cannot be deleted",
			HTTPStatus: http.StatusConflict,
			Details:    map[string]any{"category_id": categoryID},
		}
	}
	if err := s.repo.Delete(ctx, categoryID); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}
