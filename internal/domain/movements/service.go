package movements

import (
	"context"
	"fmt"

	"bodega/internal/core/apperror"
	appctx "bodega/internal/core/context"
	"bodega/internal/core/id"
	"bodega/internal/core/tx"
	"bodega/internal/domain"
	"bodega/internal/domain/ledger"
	"bodega/pkg/logger"
)

// AuditAction names the audited operation.
type AuditAction string

const (
	AuditActionRegister AuditAction = "register"
	AuditActionReturn   AuditAction = "return"
)

// AuditEvent is the trail record for one movement operation.
type AuditEvent struct {
	MovementID   id.ID
	MovementType Type
	Action       AuditAction
	UserDNI      string
	Lines        []Line
}

// AuditLog records movement operations. The concrete implementation
// lives in infrastructure; Record is called inside the operation's
// transaction so the trail commits or rolls back with it.
type AuditLog interface {
	Record(ctx context.Context, event AuditEvent) error
}

// Service implements the movement and reversal operations.
//
// Every operation is one transaction: header and detail writes plus all
// ledger mutations commit together or not at all. Ledger reads that
// precede a mutation always go through the row lock in ledger.Service,
// on the entry/exit paths as well as on transfers and reversals.
type Service struct {
	repo      Repository
	ledger    *ledger.Service
	txManager tx.Manager
	audit     AuditLog
}

// NewService creates a movement service. audit may be nil.
func NewService(repo Repository, ledgerSvc *ledger.Service, txManager tx.Manager, audit AuditLog) *Service {
	return &Service{
		repo:      repo,
		ledger:    ledgerSvc,
		txManager: txManager,
		audit:     audit,
	}
}

func (s *Service) actingUser(ctx context.Context) (string, error) {
	dni := appctx.GetUserDNI(ctx)
	if dni == "" {
		return "", apperror.NewUnauthorized("processing user is required")
	}
	return dni, nil
}

func (s *Service) recordAudit(ctx context.Context, event AuditEvent) error {
	if s.audit == nil {
		return nil
	}
	return s.audit.Record(ctx, event)
}

// RegisterEntry records a stock-in: header, lines and a positive ledger
// adjustment per line on the destination warehouse.
func (s *Service) RegisterEntry(ctx context.Context, in EntryInput) (*Movement, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	actor, err := s.actingUser(ctx)
	if err != nil {
		return nil, err
	}

	m := newEntry(in, actor)
	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, m); err != nil {
			return fmt.Errorf("create entry header: %w", err)
		}
		for i, line := range in.Lines {
			if err := validateLine(i+1, line); err != nil {
				return err
			}
			if _, err := s.ledger.Apply(ctx, in.DestWarehouseID, line.ProductCode, line.Quantity); err != nil {
				return err
			}
		}
		if err := s.repo.SaveLines(ctx, m.ID, m.Lines); err != nil {
			return fmt.Errorf("save entry lines: %w", err)
		}
		return s.recordAudit(ctx, AuditEvent{
			MovementID:   m.ID,
			MovementType: TypeEntry,
			Action:       AuditActionRegister,
			UserDNI:      actor,
			Lines:        m.Lines,
		})
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "entry registered",
		"movement_id", m.ID,
		"requirement_number", m.RequirementNumber,
		"lines", len(m.Lines),
	)
	return m, nil
}

// RegisterExit records a stock-out: each line locks the origin ledger
// row and fails with InsufficientStock when the available quantity is
// absent or lower than requested.
func (s *Service) RegisterExit(ctx context.Context, in ExitInput) (*Movement, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	actor, err := s.actingUser(ctx)
	if err != nil {
		return nil, err
	}

	m := newExit(in, actor)
	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, m); err != nil {
			return fmt.Errorf("create exit header: %w", err)
		}
		for i, line := range in.Lines {
			if err := validateLine(i+1, line); err != nil {
				return err
			}
			if _, err := s.ledger.Apply(ctx, in.OriginWarehouseID, line.ProductCode, -line.Quantity); err != nil {
				return err
			}
		}
		if err := s.repo.SaveLines(ctx, m.ID, m.Lines); err != nil {
			return fmt.Errorf("save exit lines: %w", err)
		}
		return s.recordAudit(ctx, AuditEvent{
			MovementID:   m.ID,
			MovementType: TypeExit,
			Action:       AuditActionRegister,
			UserDNI:      actor,
			Lines:        m.Lines,
		})
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "exit registered",
		"movement_id", m.ID,
		"requirement_number", m.RequirementNumber,
		"lines", len(m.Lines),
	)
	return m, nil
}

// RegisterTransfer moves stock between warehouses. Both the origin
// decrement and the destination increment run under row locks in the
// same transaction, so two concurrent transfers cannot both pass the
// sufficiency check against a stale quantity.
func (s *Service) RegisterTransfer(ctx context.Context, in TransferInput) (*Movement, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	actor, err := s.actingUser(ctx)
	if err != nil {
		return nil, err
	}

	m := newTransfer(in, actor)
	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, m); err != nil {
			return fmt.Errorf("create transfer header: %w", err)
		}
		for i, line := range in.Lines {
			if err := validateLine(i+1, line); err != nil {
				return err
			}
			if _, err := s.ledger.Apply(ctx, in.OriginWarehouseID, line.ProductCode, -line.Quantity); err != nil {
				return err
			}
			if _, err := s.ledger.Apply(ctx, in.DestWarehouseID, line.ProductCode, line.Quantity); err != nil {
				return err
			}
		}
		if err := s.repo.SaveLines(ctx, m.ID, m.Lines); err != nil {
			return fmt.Errorf("save transfer lines: %w", err)
		}
		return s.recordAudit(ctx, AuditEvent{
			MovementID:   m.ID,
			MovementType: TypeTransfer,
			Action:       AuditActionRegister,
			UserDNI:      actor,
			Lines:        m.Lines,
		})
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "transfer registered",
		"movement_id", m.ID,
		"requirement_number", m.RequirementNumber,
		"lines", len(m.Lines),
	)
	return m, nil
}

// reverse undoes a movement's ledger effect and flips it to returned.
// applyLine computes the inverse effect for one detail line.
func (s *Service) reverse(
	ctx context.Context,
	movementID id.ID,
	typ Type,
	note string,
	applyLine func(ctx context.Context, m *Movement, line Line) error,
) (*Movement, error) {
	if id.IsNil(movementID) {
		return nil, apperror.NewValidation("movement id is required")
	}
	actor, err := s.actingUser(ctx)
	if err != nil {
		return nil, err
	}

	var m *Movement
	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		m, err = s.repo.GetActiveForUpdate(ctx, movementID, typ)
		if err != nil {
			return err
		}

		lines, err := s.repo.GetLines(ctx, movementID)
		if err != nil {
			return fmt.Errorf("get movement lines: %w", err)
		}
		for _, line := range lines {
			if err := applyLine(ctx, m, line); err != nil {
				return err
			}
		}
		m.Lines = lines

		if err := s.repo.MarkReturned(ctx, movementID, typ, note, actor); err != nil {
			return err
		}
		m.Status = StatusReturned
		m.Note = note
		m.ProcessedBy = actor

		return s.recordAudit(ctx, AuditEvent{
			MovementID:   movementID,
			MovementType: typ,
			Action:       AuditActionReturn,
			UserDNI:      actor,
			Lines:        lines,
		})
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "movement returned",
		"movement_id", movementID,
		"movement_type", typ,
	)
	return m, nil
}

// ReturnEntry reverses a stock-in by decrementing the destination
// warehouse. Fails with InsufficientStock when later exits already
// consumed the received quantity.
func (s *Service) ReturnEntry(ctx context.Context, movementID id.ID, note string) (*Movement, error) {
	return s.reverse(ctx, movementID, TypeEntry, note,
		func(ctx context.Context, m *Movement, line Line) error {
			_, err := s.ledger.Apply(ctx, *m.DestWarehouseID, line.ProductCode, -line.Quantity)
			return err
		})
}

// ReturnExit reverses a stock-out by restoring quantity to the origin
// warehouse, recreating the ledger row when it was cleaned up.
func (s *Service) ReturnExit(ctx context.Context, movementID id.ID, note string) (*Movement, error) {
	return s.reverse(ctx, movementID, TypeExit, note,
		func(ctx context.Context, m *Movement, line Line) error {
			_, err := s.ledger.Apply(ctx, *m.OriginWarehouseID, line.ProductCode, line.Quantity)
			return err
		})
}

// ReturnTransfer reverses a transfer: decrement the destination (may
// fail with InsufficientStock), then restore the origin.
func (s *Service) ReturnTransfer(ctx context.Context, movementID id.ID, note string) (*Movement, error) {
	return s.reverse(ctx, movementID, TypeTransfer, note,
		func(ctx context.Context, m *Movement, line Line) error {
			if _, err := s.ledger.Apply(ctx, *m.DestWarehouseID, line.ProductCode, -line.Quantity); err != nil {
				return err
			}
			_, err := s.ledger.Apply(ctx, *m.OriginWarehouseID, line.ProductCode, line.Quantity)
			return err
		})
}

// GetByID retrieves a movement with its lines.
func (s *Service) GetByID(ctx context.Context, movementID id.ID) (*Movement, error) {
	m, err := s.repo.GetByID(ctx, movementID)
	if err != nil {
		return nil, err
	}
	lines, err := s.repo.GetLines(ctx, movementID)
	if err != nil {
		return nil, fmt.Errorf("get movement lines: %w", err)
	}
	m.Lines = lines
	return m, nil
}

// List returns the unified movement feed.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Summary], error) {
	filter.Normalize()
	return s.repo.List(ctx, filter)
}
