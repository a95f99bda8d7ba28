package movements

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bodega/internal/core/apperror"
	appctx "bodega/internal/core/context"
	"bodega/internal/core/id"
	"bodega/internal/domain"
	"bodega/internal/domain/ledger"
)

// memState is the mutable world shared by the fake repositories. The
// fake tx manager snapshots it before each transaction and restores the
// snapshot when the transaction function returns an error, so rollback
// semantics match the real postgres implementation.
type memState struct {
	stock     map[string]int64
	movements map[id.ID]*Movement
	lines     map[id.ID][]Line
}

func newMemState() *memState {
	return &memState{
		stock:     make(map[string]int64),
		movements: make(map[id.ID]*Movement),
		lines:     make(map[id.ID][]Line),
	}
}

func stockKey(warehouseID id.ID, productCode string) string {
	return warehouseID.String() + "/" + productCode
}

func (s *memState) snapshot() *memState {
	cp := newMemState()
	for k, v := range s.stock {
		cp.stock[k] = v
	}
	for k, v := range s.movements {
		m := *v
		cp.movements[k] = &m
	}
	for k, v := range s.lines {
		cp.lines[k] = append([]Line(nil), v...)
	}
	return cp
}

func (s *memState) restore(from *memState) {
	s.stock = from.stock
	s.movements = from.movements
	s.lines = from.lines
}

// memTxManager serializes transactions with a mutex, standing in for
// row locks held until commit.
type memTxManager struct {
	mu    sync.Mutex
	state *memState
}

func (m *memTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	snap := m.state.snapshot()
	if err := fn(ctx); err != nil {
		m.state.restore(snap)
		return err
	}
	return nil
}

type memLedgerRepo struct {
	state *memState
}

func (r *memLedgerRepo) Get(_ context.Context, warehouseID id.ID, productCode string) (*ledger.Entry, error) {
	qty, ok := r.state.stock[stockKey(warehouseID, productCode)]
	if !ok {
		return nil, nil
	}
	return &ledger.Entry{WarehouseID: warehouseID, ProductCode: productCode, Quantity: qty}, nil
}

func (r *memLedgerRepo) GetForUpdate(ctx context.Context, warehouseID id.ID, productCode string) (*ledger.Entry, error) {
	return r.Get(ctx, warehouseID, productCode)
}

func (r *memLedgerRepo) Insert(_ context.Context, warehouseID id.ID, productCode string, quantity int64) error {
	r.state.stock[stockKey(warehouseID, productCode)] = quantity
	return nil
}

func (r *memLedgerRepo) Add(_ context.Context, warehouseID id.ID, productCode string, delta int64) (int64, error) {
	key := stockKey(warehouseID, productCode)
	r.state.stock[key] += delta
	return r.state.stock[key], nil
}

func (r *memLedgerRepo) Upsert(_ context.Context, warehouseID id.ID, productCode string, quantity int64) error {
	r.state.stock[stockKey(warehouseID, productCode)] = quantity
	return nil
}

func (r *memLedgerRepo) ByWarehouse(_ context.Context, _ id.ID, _ bool) ([]ledger.WarehouseStock, error) {
	return nil, nil
}

func (r *memLedgerRepo) ByProduct(_ context.Context, _ string) ([]ledger.Entry, error) {
	return nil, nil
}

func (r *memLedgerRepo) HasRowsForProduct(_ context.Context, productCode string) (bool, error) {
	for key := range r.state.stock {
		if strings.HasSuffix(key, "/"+productCode) {
			return true, nil
		}
	}
	return false, nil
}

type memMovementRepo struct {
	state *memState
}

func (r *memMovementRepo) Create(_ context.Context, m *Movement) error {
	cp := *m
	r.state.movements[m.ID] = &cp
	return nil
}

func (r *memMovementRepo) SaveLines(_ context.Context, movementID id.ID, lines []Line) error {
	r.state.lines[movementID] = append([]Line(nil), lines...)
	return nil
}

func (r *memMovementRepo) GetByID(_ context.Context, movementID id.ID) (*Movement, error) {
	m, ok := r.state.movements[movementID]
	if !ok {
		return nil, apperror.NewNotFound("movement", movementID)
	}
	cp := *m
	return &cp, nil
}

func (r *memMovementRepo) GetActiveForUpdate(_ context.Context, movementID id.ID, typ Type) (*Movement, error) {
	m, ok := r.state.movements[movementID]
	if !ok || m.Type != typ || m.Status != StatusActive {
		return nil, apperror.NewNotActive(movementID)
	}
	cp := *m
	return &cp, nil
}

func (r *memMovementRepo) GetLines(_ context.Context, movementID id.ID) ([]Line, error) {
	return append([]Line(nil), r.state.lines[movementID]...), nil
}

func (r *memMovementRepo) MarkReturned(_ context.Context, movementID id.ID, typ Type, note, processedBy string) error {
	m, ok := r.state.movements[movementID]
	if !ok || m.Type != typ || m.Status != StatusActive {
		return apperror.NewNotActive(movementID)
	}
	m.Status = StatusReturned
	m.Note = note
	m.ProcessedBy = processedBy
	return nil
}

func (r *memMovementRepo) List(_ context.Context, filter ListFilter) (domain.ListResult[*Summary], error) {
	var items []*Summary
	for _, m := range r.state.movements {
		if filter.Type != nil && m.Type != *filter.Type {
			continue
		}
		if filter.Status != nil && m.Status != *filter.Status {
			continue
		}
		cp := *m
		items = append(items, &Summary{Movement: cp})
	}
	return domain.ListResult[*Summary]{
		Items:      items,
		TotalCount: int64(len(items)),
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	}, nil
}

func (r *memMovementRepo) HasLinesForProduct(_ context.Context, productCode string, typ Type) (bool, error) {
	for mid, lines := range r.state.lines {
		m := r.state.movements[mid]
		if m == nil || m.Type != typ {
			continue
		}
		for _, l := range lines {
			if l.ProductCode == productCode {
				return true, nil
			}
		}
	}
	return false, nil
}

type fixture struct {
	state   *memState
	service *Service
	ledger  *ledger.Service
}

func newFixture() *fixture {
	state := newMemState()
	ledgerSvc := ledger.NewService(&memLedgerRepo{state: state})
	txm := &memTxManager{state: state}
	svc := NewService(&memMovementRepo{state: state}, ledgerSvc, txm, nil)
	return &fixture{state: state, service: svc, ledger: ledgerSvc}
}

func (f *fixture) qty(t *testing.T, warehouseID id.ID, productCode string) int64 {
	t.Helper()
	q, err := f.ledger.Quantity(context.Background(), warehouseID, productCode)
	require.NoError(t, err)
	return q
}

func userCtx(dni string) context.Context {
	return appctx.WithUser(context.Background(), &appctx.UserContext{DNI: dni, Name: "Test User", Role: "admin"})
}

func entryInput(dest id.ID, lines ...LineInput) EntryInput {
	return EntryInput{
		RequirementNumber: "REQ-001",
		DestWarehouseID:   dest,
		SupplierID:        id.New(),
		Date:              time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		Lines:             lines,
	}
}

func exitInput(origin id.ID, lines ...LineInput) ExitInput {
	return ExitInput{
		RequirementNumber: "REQ-002",
		OriginWarehouseID: origin,
		Date:              time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC),
		Lines:             lines,
	}
}

func transferInput(origin, dest id.ID, lines ...LineInput) TransferInput {
	return TransferInput{
		RequirementNumber: "REQ-003",
		OriginWarehouseID: origin,
		DestWarehouseID:   dest,
		Date:              time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC),
		Lines:             lines,
	}
}

func TestRegisterEntry_CreatesLedgerRows(t *testing.T) {
	f := newFixture()
	ctx := userCtx("11111111")
	w := id.New()

	m, err := f.service.RegisterEntry(ctx, entryInput(w,
		LineInput{ProductCode: "ABC1234", Quantity: 10},
		LineInput{ProductCode: "XYZ9876", Quantity: 3},
	))
	require.NoError(t, err)

	assert.Equal(t, TypeEntry, m.Type)
	assert.Equal(t, StatusActive, m.Status)
	assert.Equal(t, "11111111", m.ProcessedBy)
	assert.Len(t, m.Lines, 2)
	assert.Equal(t, int64(10), f.qty(t, w, "ABC1234"))
	assert.Equal(t, int64(3), f.qty(t, w, "XYZ9876"))
}

func TestRegisterEntry_AccumulatesOnExistingRow(t *testing.T) {
	f := newFixture()
	ctx := userCtx("11111111")
	w := id.New()

	_, err := f.service.RegisterEntry(ctx, entryInput(w, LineInput{ProductCode: "ABC1234", Quantity: 10}))
	require.NoError(t, err)
	_, err = f.service.RegisterEntry(ctx, entryInput(w, LineInput{ProductCode: "ABC1234", Quantity: 5}))
	require.NoError(t, err)

	assert.Equal(t, int64(15), f.qty(t, w, "ABC1234"))
}

func TestRegisterEntry_RequiresActingUser(t *testing.T) {
	f := newFixture()
	w := id.New()

	_, err := f.service.RegisterEntry(context.Background(), entryInput(w, LineInput{ProductCode: "ABC1234", Quantity: 1}))
	assert.True(t, apperror.IsCode(err, apperror.CodeUnauthorized))
}

func TestRegister_MissingWarehouseRejected(t *testing.T) {
	f := newFixture()
	ctx := userCtx("11111111")

	in := entryInput(id.Nil(), LineInput{ProductCode: "ABC1234", Quantity: 1})
	_, err := f.service.RegisterEntry(ctx, in)
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))

	out := exitInput(id.Nil(), LineInput{ProductCode: "ABC1234", Quantity: 1})
	_, err = f.service.RegisterExit(ctx, out)
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))

	assert.Empty(t, f.state.movements)
}

func TestRegisterEntry_InvalidLineRollsBackWholeMovement(t *testing.T) {
	f := newFixture()
	ctx := userCtx("11111111")
	w := id.New()

	_, err := f.service.RegisterEntry(ctx, entryInput(w,
		LineInput{ProductCode: "ABC1234", Quantity: 10},
		LineInput{ProductCode: "XYZ9876", Quantity: 0},
	))
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeInvalidLineItem))

	assert.Equal(t, int64(0), f.qty(t, w, "ABC1234"))
	assert.Empty(t, f.state.movements)
}

func TestRegisterExit_DecrementsStock(t *testing.T) {
	f := newFixture()
	ctx := userCtx("22222222")
	w := id.New()

	_, err := f.service.RegisterEntry(ctx, entryInput(w, LineInput{ProductCode: "ABC1234", Quantity: 10}))
	require.NoError(t, err)

	m, err := f.service.RegisterExit(ctx, exitInput(w, LineInput{ProductCode: "ABC1234", Quantity: 4}))
	require.NoError(t, err)

	assert.Equal(t, TypeExit, m.Type)
	assert.Equal(t, int64(6), f.qty(t, w, "ABC1234"))
}

func TestRegisterExit_InsufficientStockRollsBack(t *testing.T) {
	f := newFixture()
	ctx := userCtx("22222222")
	w := id.New()

	_, err := f.service.RegisterEntry(ctx, entryInput(w, LineInput{ProductCode: "ABC1234", Quantity: 5}))
	require.NoError(t, err)

	_, err = f.service.RegisterExit(ctx, exitInput(w, LineInput{ProductCode: "ABC1234", Quantity: 8}))
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, int64(8), appErr.Details["requested"])
	assert.Equal(t, int64(5), appErr.Details["available"])

	// exit header must not survive the rollback
	assert.Equal(t, int64(5), f.qty(t, w, "ABC1234"))
	assert.Len(t, f.state.movements, 1)
}

func TestRegisterExit_UnknownProductIsInsufficient(t *testing.T) {
	f := newFixture()
	ctx := userCtx("22222222")
	w := id.New()

	_, err := f.service.RegisterExit(ctx, exitInput(w, LineInput{ProductCode: "NOPE111", Quantity: 1}))
	assert.True(t, apperror.IsInsufficientStock(err))
}

func TestRegisterExit_MultiLinePartialShortageRollsBackAll(t *testing.T) {
	f := newFixture()
	ctx := userCtx("22222222")
	w := id.New()

	_, err := f.service.RegisterEntry(ctx, entryInput(w,
		LineInput{ProductCode: "ABC1234", Quantity: 10},
		LineInput{ProductCode: "XYZ9876", Quantity: 2},
	))
	require.NoError(t, err)

	_, err = f.service.RegisterExit(ctx, exitInput(w,
		LineInput{ProductCode: "ABC1234", Quantity: 3},
		LineInput{ProductCode: "XYZ9876", Quantity: 5},
	))
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))

	// the first line's decrement must be undone too
	assert.Equal(t, int64(10), f.qty(t, w, "ABC1234"))
	assert.Equal(t, int64(2), f.qty(t, w, "XYZ9876"))
}

func TestRegisterTransfer_MovesStockBetweenWarehouses(t *testing.T) {
	f := newFixture()
	ctx := userCtx("33333333")
	w1, w2 := id.New(), id.New()

	_, err := f.service.RegisterEntry(ctx, entryInput(w1, LineInput{ProductCode: "ABC1234", Quantity: 10}))
	require.NoError(t, err)

	m, err := f.service.RegisterTransfer(ctx, transferInput(w1, w2, LineInput{ProductCode: "ABC1234", Quantity: 4}))
	require.NoError(t, err)

	assert.Equal(t, TypeTransfer, m.Type)
	assert.Equal(t, int64(6), f.qty(t, w1, "ABC1234"))
	assert.Equal(t, int64(4), f.qty(t, w2, "ABC1234"))
}

func TestRegisterTransfer_InsufficientOriginRollsBack(t *testing.T) {
	f := newFixture()
	ctx := userCtx("33333333")
	w1, w2 := id.New(), id.New()

	_, err := f.service.RegisterEntry(ctx, entryInput(w1, LineInput{ProductCode: "ABC1234", Quantity: 2}))
	require.NoError(t, err)

	_, err = f.service.RegisterTransfer(ctx, transferInput(w1, w2, LineInput{ProductCode: "ABC1234", Quantity: 5}))
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))

	assert.Equal(t, int64(2), f.qty(t, w1, "ABC1234"))
	assert.Equal(t, int64(0), f.qty(t, w2, "ABC1234"))
}

func TestRegisterTransfer_SameWarehouseRejected(t *testing.T) {
	f := newFixture()
	ctx := userCtx("33333333")
	w := id.New()

	_, err := f.service.RegisterTransfer(ctx, transferInput(w, w, LineInput{ProductCode: "ABC1234", Quantity: 1}))
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))
}

func TestReturnEntry_RestoresStockAndMarksReturned(t *testing.T) {
	f := newFixture()
	ctx := userCtx("11111111")
	w := id.New()

	m, err := f.service.RegisterEntry(ctx, entryInput(w, LineInput{ProductCode: "ABC1234", Quantity: 10}))
	require.NoError(t, err)

	returned, err := f.service.ReturnEntry(userCtx("44444444"), m.ID, "damaged batch")
	require.NoError(t, err)

	assert.Equal(t, StatusReturned, returned.Status)
	assert.Equal(t, "damaged batch", returned.Note)
	assert.Equal(t, "44444444", returned.ProcessedBy)
	assert.Equal(t, int64(0), f.qty(t, w, "ABC1234"))
}

func TestReturnEntry_SecondAttemptFails(t *testing.T) {
	f := newFixture()
	ctx := userCtx("11111111")
	w := id.New()

	m, err := f.service.RegisterEntry(ctx, entryInput(w, LineInput{ProductCode: "ABC1234", Quantity: 10}))
	require.NoError(t, err)

	_, err = f.service.ReturnEntry(ctx, m.ID, "first")
	require.NoError(t, err)

	_, err = f.service.ReturnEntry(ctx, m.ID, "second")
	assert.True(t, apperror.IsCode(err, apperror.CodeNotActive))
	assert.Equal(t, int64(0), f.qty(t, w, "ABC1234"))
}

func TestReturnEntry_ConsumedStockBlocksReversal(t *testing.T) {
	f := newFixture()
	ctx := userCtx("11111111")
	w := id.New()

	m, err := f.service.RegisterEntry(ctx, entryInput(w, LineInput{ProductCode: "ABC1234", Quantity: 10}))
	require.NoError(t, err)

	_, err = f.service.RegisterExit(ctx, exitInput(w, LineInput{ProductCode: "ABC1234", Quantity: 7}))
	require.NoError(t, err)

	_, err = f.service.ReturnEntry(ctx, m.ID, "oops")
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))

	// the failed reversal leaves everything untouched
	got, getErr := f.service.GetByID(ctx, m.ID)
	require.NoError(t, getErr)
	assert.Equal(t, StatusActive, got.Status)
	assert.Equal(t, int64(3), f.qty(t, w, "ABC1234"))
}

func TestReturnExit_RestoresStock(t *testing.T) {
	f := newFixture()
	ctx := userCtx("22222222")
	w := id.New()

	_, err := f.service.RegisterEntry(ctx, entryInput(w, LineInput{ProductCode: "ABC1234", Quantity: 10}))
	require.NoError(t, err)

	m, err := f.service.RegisterExit(ctx, exitInput(w, LineInput{ProductCode: "ABC1234", Quantity: 6}))
	require.NoError(t, err)
	assert.Equal(t, int64(4), f.qty(t, w, "ABC1234"))

	_, err = f.service.ReturnExit(ctx, m.ID, "wrong requisition")
	require.NoError(t, err)
	assert.Equal(t, int64(10), f.qty(t, w, "ABC1234"))
}

func TestReturnExit_WrongTypeFails(t *testing.T) {
	f := newFixture()
	ctx := userCtx("22222222")
	w := id.New()

	m, err := f.service.RegisterEntry(ctx, entryInput(w, LineInput{ProductCode: "ABC1234", Quantity: 10}))
	require.NoError(t, err)

	_, err = f.service.ReturnExit(ctx, m.ID, "not an exit")
	assert.True(t, apperror.IsCode(err, apperror.CodeNotActive))
}

func TestReturnTransfer_RestoresBothWarehouses(t *testing.T) {
	f := newFixture()
	ctx := userCtx("33333333")
	w1, w2 := id.New(), id.New()

	_, err := f.service.RegisterEntry(ctx, entryInput(w1, LineInput{ProductCode: "ABC1234", Quantity: 10}))
	require.NoError(t, err)

	m, err := f.service.RegisterTransfer(ctx, transferInput(w1, w2, LineInput{ProductCode: "ABC1234", Quantity: 4}))
	require.NoError(t, err)

	_, err = f.service.ReturnTransfer(ctx, m.ID, "sent to wrong site")
	require.NoError(t, err)

	assert.Equal(t, int64(10), f.qty(t, w1, "ABC1234"))
	assert.Equal(t, int64(0), f.qty(t, w2, "ABC1234"))
}

func TestReturnTransfer_DestinationConsumedBlocksReversal(t *testing.T) {
	f := newFixture()
	ctx := userCtx("33333333")
	w1, w2 := id.New(), id.New()

	_, err := f.service.RegisterEntry(ctx, entryInput(w1, LineInput{ProductCode: "ABC1234", Quantity: 10}))
	require.NoError(t, err)

	m, err := f.service.RegisterTransfer(ctx, transferInput(w1, w2, LineInput{ProductCode: "ABC1234", Quantity: 4}))
	require.NoError(t, err)

	_, err = f.service.RegisterExit(ctx, exitInput(w2, LineInput{ProductCode: "ABC1234", Quantity: 3}))
	require.NoError(t, err)

	_, err = f.service.ReturnTransfer(ctx, m.ID, "too late")
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))

	assert.Equal(t, int64(6), f.qty(t, w1, "ABC1234"))
	assert.Equal(t, int64(1), f.qty(t, w2, "ABC1234"))
	got, getErr := f.service.GetByID(ctx, m.ID)
	require.NoError(t, getErr)
	assert.Equal(t, StatusActive, got.Status)
}

func TestReturn_UnknownMovementFails(t *testing.T) {
	f := newFixture()
	ctx := userCtx("11111111")

	_, err := f.service.ReturnEntry(ctx, id.New(), "nothing there")
	assert.True(t, apperror.IsCode(err, apperror.CodeNotActive))
}

func TestConcurrentExits_ExactlyOneSucceeds(t *testing.T) {
	f := newFixture()
	ctx := userCtx("55555555")
	w := id.New()

	_, err := f.service.RegisterEntry(ctx, entryInput(w, LineInput{ProductCode: "ABC1234", Quantity: 10}))
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.service.RegisterExit(ctx, exitInput(w, LineInput{ProductCode: "ABC1234", Quantity: 7}))
		}(i)
	}
	wg.Wait()

	var succeeded, insufficient int
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case apperror.IsInsufficientStock(err):
			insufficient++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, insufficient)
	assert.Equal(t, int64(3), f.qty(t, w, "ABC1234"))
}

func TestConcurrentReturns_ExactlyOneSucceeds(t *testing.T) {
	f := newFixture()
	ctx := userCtx("55555555")
	w := id.New()

	_, err := f.service.RegisterEntry(ctx, entryInput(w, LineInput{ProductCode: "ABC1234", Quantity: 10}))
	require.NoError(t, err)

	m, err := f.service.RegisterExit(ctx, exitInput(w, LineInput{ProductCode: "ABC1234", Quantity: 4}))
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.service.ReturnExit(ctx, m.ID, fmt.Sprintf("attempt %d", i))
		}(i)
	}
	wg.Wait()

	var succeeded, conflicted int
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case apperror.IsCode(err, apperror.CodeNotActive):
			conflicted++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, conflicted)
	// the reversal applied exactly once
	assert.Equal(t, int64(10), f.qty(t, w, "ABC1234"))
}

func TestList_FiltersByTypeAndStatus(t *testing.T) {
	f := newFixture()
	ctx := userCtx("11111111")
	w := id.New()

	_, err := f.service.RegisterEntry(ctx, entryInput(w, LineInput{ProductCode: "ABC1234", Quantity: 10}))
	require.NoError(t, err)
	m2, err := f.service.RegisterEntry(ctx, entryInput(w, LineInput{ProductCode: "ABC1234", Quantity: 5}))
	require.NoError(t, err)
	_, err = f.service.RegisterExit(ctx, exitInput(w, LineInput{ProductCode: "ABC1234", Quantity: 2}))
	require.NoError(t, err)

	_, err = f.service.ReturnEntry(ctx, m2.ID, "back")
	require.NoError(t, err)

	typ := TypeEntry
	status := StatusReturned
	res, err := f.service.List(ctx, ListFilter{Type: &typ, Status: &status})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, m2.ID, res.Items[0].ID)
	assert.Equal(t, 10, res.Limit)
}
