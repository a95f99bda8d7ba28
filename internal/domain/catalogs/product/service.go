package product

import (
	"context"
	"fmt"
	"time"

	"bodega/internal/core/apperror"
	"bodega/internal/core/tx"
	"bodega/internal/domain"
	"bodega/internal/domain/ledger"
	"bodega/internal/domain/movements"
	"bodega/pkg/codegen"
	"bodega/pkg/logger"
)

// MovementLookup is the slice of movement storage the guard needs.
// Satisfied by movements.Repository.
type MovementLookup interface {
	HasLinesForProduct(ctx context.Context, productCode string, typ movements.Type) (bool, error)
}

// Service implements product catalog operations.
type Service struct {
	repo      Repository
	movements MovementLookup
	ledger    *ledger.Service
	txManager tx.Manager
	codes     *codegen.Generator
}

// NewService creates a product service.
func NewService(repo Repository, movementsRepo MovementLookup, ledgerSvc *ledger.Service, txManager tx.Manager) *Service {
	return &Service{
		repo:      repo,
		movements: movementsRepo,
		ledger:    ledgerSvc,
		txManager: txManager,
		codes:     codegen.New(codegen.DefaultConfig()),
	}
}

// Create registers a product with a generated code and optional initial
// stock per warehouse. Everything runs in one transaction.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Product, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	var p *Product
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		code, err := s.codes.Generate(ctx, s.repo.ExistsByCode)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		p = &Product{
			Code:          code,
			Name:          in.Name,
			Description:   in.Description,
			CategoryID:    in.CategoryID,
			Unit:          in.Unit,
			UnitPrice:     in.UnitPrice,
			MinStock:      in.MinStock,
			ShelfLifeDays: in.ShelfLifeDays,
			Visible:       true,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := s.repo.Create(ctx, p); err != nil {
			return fmt.Errorf("create product: %w", err)
		}

		for _, stock := range in.InitialStocks {
			if stock.Quantity == 0 {
				continue
			}
			if err := s.ledger.Set(ctx, stock.WarehouseID, code, stock.Quantity); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "product created", "product_code", p.Code, "name", p.Name)
	return p, nil
}

// Update overwrites the mutable fields of a product. Stock overrides,
// when present, are applied in the same transaction.
func (s *Service) Update(ctx context.Context, code string, in UpdateInput) (*Product, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	var p *Product
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		p, err = s.repo.GetByCode(ctx, code)
		if err != nil {
			return err
		}

		p.Name = in.Name
		p.Description = in.Description
		p.CategoryID = in.CategoryID
		p.Unit = in.Unit
		p.UnitPrice = in.UnitPrice
		p.MinStock = in.MinStock
		p.ShelfLifeDays = in.ShelfLifeDays
		p.UpdatedAt = time.Now().UTC()

		if err := s.repo.Update(ctx, p); err != nil {
			return fmt.Errorf("update product: %w", err)
		}

		for _, stock := range in.StockOverrides {
			if err := s.ledger.Set(ctx, stock.WarehouseID, code, stock.Quantity); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// GetByCode returns one product.
func (s *Service) GetByCode(ctx context.Context, code string) (*Product, error) {
	return s.repo.GetByCode(ctx, code)
}

// Detail returns one product with its per-warehouse stock breakdown.
func (s *Service) Detail(ctx context.Context, code string) (*Detail, error) {
	p, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	stock, err := s.ledger.ProductStock(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("product stock: %w", err)
	}
	return &Detail{Product: *p, Stock: stock}, nil
}

// List returns catalog rows with aggregate stock and a computed state.
// The state filter is applied by the repository before pagination.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*WithStock], error) {
	res, err := s.repo.List(ctx, filter)
	if err != nil {
		return domain.ListResult[*WithStock]{}, err
	}
	for _, row := range res.Items {
		row.State = classifyStock(row.TotalQuantity, row.EffectiveMinStock())
	}
	return res, nil
}

// Associations reports which record kinds reference the product.
func (s *Service) Associations(ctx context.Context, code string) (AssociatedRecords, error) {
	var assoc AssociatedRecords
	var err error

	if assoc.Entries, err = s.movements.HasLinesForProduct(ctx, code, movements.TypeEntry); err != nil {
		return assoc, fmt.Errorf("check entry lines: %w", err)
	}
	if assoc.Exits, err = s.movements.HasLinesForProduct(ctx, code, movements.TypeExit); err != nil {
		return assoc, fmt.Errorf("check exit lines: %w", err)
	}
	if assoc.Transfers, err = s.movements.HasLinesForProduct(ctx, code, movements.TypeTransfer); err != nil {
		return assoc, fmt.Errorf("check transfer lines: %w", err)
	}
	if assoc.Stock, err = s.ledger.HasRowsForProduct(ctx, code); err != nil {
		return assoc, fmt.Errorf("check ledger rows: %w", err)
	}
	return assoc, nil
}

// Hide makes a product invisible to catalog listings without touching
// its history. The escape hatch when Delete is blocked.
func (s *Service) Hide(ctx context.Context, code string) error {
	if _, err := s.repo.GetByCode(ctx, code); err != nil {
		return err
	}
	if err := s.repo.SetVisible(ctx, code, false); err != nil {
		return fmt.Errorf("hide product: %w", err)
	}
	logger.Info(ctx, "product hidden", "product_code", code)
	return nil
}

// Show restores a hidden product to catalog listings.
func (s *Service) Show(ctx context.Context, code string) error {
	if _, err := s.repo.GetByCode(ctx, code); err != nil {
		return err
	}
	if err := s.repo.SetVisible(ctx, code, true); err != nil {
		return fmt.Errorf("show product: %w", err)
	}
	logger.Info(ctx, "product shown", "product_code", code)
	return nil
}

// Delete removes a product only when nothing references it. With any
// movement line or ledger row present it fails with DependentRecords,
// listing the associations so the client can offer hiding instead.
func (s *Service) Delete(ctx context.Context, code string) error {
	if _, err := s.repo.GetByCode(ctx, code); err != nil {
		return err
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		assoc, err := s.Associations(ctx, code)
		if err != nil {
			return err
		}
		if assoc.Any() {
			return apperror.NewDependentRecords(code, assoc.Reasons())
		}
		if err := s.repo.Delete(ctx, code); err != nil {
			return fmt.Errorf("delete product: %w", err)
		}
		logger.Info(ctx, "product deleted", "product_code", code)
		return nil
	})
}
