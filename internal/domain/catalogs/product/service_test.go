package product

import (
	"context"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bodega/internal/core/apperror"
	"bodega/internal/core/id"
	"bodega/internal/core/types"
	"bodega/internal/domain"
	"bodega/internal/domain/ledger"
	"bodega/internal/domain/movements"
)

type memProductRepo struct {
	products map[string]*Product

	// totals feeds List's aggregate quantity per product code
	totals map[string]int64
}

func newMemProductRepo() *memProductRepo {
	return &memProductRepo{
		products: make(map[string]*Product),
		totals:   make(map[string]int64),
	}
}

func (r *memProductRepo) Create(_ context.Context, p *Product) error {
	cp := *p
	r.products[p.Code] = &cp
	return nil
}

func (r *memProductRepo) Update(_ context.Context, p *Product) error {
	cp := *p
	r.products[p.Code] = &cp
	return nil
}

func (r *memProductRepo) GetByCode(_ context.Context, code string) (*Product, error) {
	p, ok := r.products[code]
	if !ok {
		return nil, apperror.NewNotFound("product", code)
	}
	cp := *p
	return &cp, nil
}

func (r *memProductRepo) ExistsByCode(_ context.Context, code string) (bool, error) {
	_, ok := r.products[code]
	return ok, nil
}

// List mirrors the SQL implementation: the state predicate is applied
// before counting and pagination.
func (r *memProductRepo) List(_ context.Context, filter ListFilter) (domain.ListResult[*WithStock], error) {
	var items []*WithStock
	for _, p := range r.products {
		if filter.OnlyVisible && !p.Visible {
			continue
		}
		cp := *p
		row := &WithStock{Product: cp, TotalQuantity: r.totals[p.Code]}
		if filter.State != nil && classifyStock(row.TotalQuantity, row.EffectiveMinStock()) != *filter.State {
			continue
		}
		items = append(items, row)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })

	res := domain.ListResult[*WithStock]{
		TotalCount: int64(len(items)),
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	}
	if filter.Offset > 0 {
		if filter.Offset >= len(items) {
			items = nil
		} else {
			items = items[filter.Offset:]
		}
	}
	if filter.Limit > 0 && len(items) > filter.Limit {
		items = items[:filter.Limit]
	}
	res.Items = items
	return res, nil
}

func (r *memProductRepo) SetVisible(_ context.Context, code string, visible bool) error {
	p, ok := r.products[code]
	if !ok {
		return apperror.NewNotFound("product", code)
	}
	p.Visible = visible
	return nil
}

func (r *memProductRepo) Delete(_ context.Context, code string) error {
	delete(r.products, code)
	return nil
}

type memLedgerRepo struct {
	stock map[string]int64
}

func lkey(warehouseID id.ID, productCode string) string {
	return warehouseID.String() + "/" + productCode
}

func (r *memLedgerRepo) Get(_ context.Context, warehouseID id.ID, productCode string) (*ledger.Entry, error) {
	qty, ok := r.stock[lkey(warehouseID, productCode)]
	if !ok {
		return nil, nil
	}
	return &ledger.Entry{WarehouseID: warehouseID, ProductCode: productCode, Quantity: qty}, nil
}

func (r *memLedgerRepo) GetForUpdate(ctx context.Context, warehouseID id.ID, productCode string) (*ledger.Entry, error) {
	return r.Get(ctx, warehouseID, productCode)
}

func (r *memLedgerRepo) Insert(_ context.Context, warehouseID id.ID, productCode string, quantity int64) error {
	r.stock[lkey(warehouseID, productCode)] = quantity
	return nil
}

func (r *memLedgerRepo) Add(_ context.Context, warehouseID id.ID, productCode string, delta int64) (int64, error) {
	key := lkey(warehouseID, productCode)
	r.stock[key] += delta
	return r.stock[key], nil
}

func (r *memLedgerRepo) Upsert(_ context.Context, warehouseID id.ID, productCode string, quantity int64) error {
	r.stock[lkey(warehouseID, productCode)] = quantity
	return nil
}

func (r *memLedgerRepo) ByWarehouse(_ context.Context, _ id.ID, _ bool) ([]ledger.WarehouseStock, error) {
	return nil, nil
}

func (r *memLedgerRepo) ByProduct(_ context.Context, productCode string) ([]ledger.Entry, error) {
	var out []ledger.Entry
	for key, qty := range r.stock {
		parts := strings.SplitN(key, "/", 2)
		if parts[1] != productCode {
			continue
		}
		warehouseID, err := id.Parse(parts[0])
		if err != nil {
			return nil, err
		}
		out = append(out, ledger.Entry{WarehouseID: warehouseID, ProductCode: productCode, Quantity: qty})
	}
	return out, nil
}

func (r *memLedgerRepo) HasRowsForProduct(_ context.Context, productCode string) (bool, error) {
	for key := range r.stock {
		if key[len(key)-len(productCode):] == productCode {
			return true, nil
		}
	}
	return false, nil
}

type stubMovements struct {
	byType map[movements.Type]bool
}

func (s *stubMovements) HasLinesForProduct(_ context.Context, _ string, typ movements.Type) (bool, error) {
	return s.byType[typ], nil
}

type noopTxManager struct{}

func (noopTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type productFixture struct {
	repo      *memProductRepo
	ledger    *memLedgerRepo
	movements *stubMovements
	service   *Service
}

func newProductFixture() *productFixture {
	repo := newMemProductRepo()
	ledgerRepo := &memLedgerRepo{stock: make(map[string]int64)}
	mv := &stubMovements{byType: make(map[movements.Type]bool)}
	svc := NewService(repo, mv, ledger.NewService(ledgerRepo), noopTxManager{})
	return &productFixture{repo: repo, ledger: ledgerRepo, movements: mv, service: svc}
}

func createInput() CreateInput {
	return CreateInput{
		Name:       "Hex bolt M8",
		CategoryID: id.New(),
		Unit:       "unit",
		UnitPrice:  types.MustMoney("1.50"),
		MinStock:   20,
	}
}

func TestCreate_GeneratesCodeAndSeedsStock(t *testing.T) {
	f := newProductFixture()
	w1, w2 := id.New(), id.New()

	in := createInput()
	in.InitialStocks = []InitialStock{
		{WarehouseID: w1, Quantity: 15},
		{WarehouseID: w2, Quantity: 0},
	}

	p, err := f.service.Create(context.Background(), in)
	require.NoError(t, err)

	assert.Len(t, p.Code, 7)
	assert.True(t, p.Visible)
	assert.Equal(t, int64(15), f.ledger.stock[lkey(w1, p.Code)])

	_, seeded := f.ledger.stock[lkey(w2, p.Code)]
	assert.False(t, seeded, "zero initial stock must not create a ledger row")
}

func TestCreate_ValidatesInput(t *testing.T) {
	f := newProductFixture()

	in := createInput()
	in.Name = ""
	_, err := f.service.Create(context.Background(), in)
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))

	in = createInput()
	in.MinStock = -1
	_, err = f.service.Create(context.Background(), in)
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))
}

func TestUpdate_KeepsCode(t *testing.T) {
	f := newProductFixture()
	p, err := f.service.Create(context.Background(), createInput())
	require.NoError(t, err)

	updated, err := f.service.Update(context.Background(), p.Code, UpdateInput{
		Name:       "Hex bolt M10",
		CategoryID: p.CategoryID,
		Unit:       "box",
		UnitPrice:  types.MustMoney("2.00"),
		MinStock:   30,
	})
	require.NoError(t, err)

	assert.Equal(t, p.Code, updated.Code)
	assert.Equal(t, "Hex bolt M10", updated.Name)
	assert.Equal(t, int64(30), updated.MinStock)
}

func TestUpdate_AppliesStockOverrides(t *testing.T) {
	f := newProductFixture()
	w1 := id.New()

	in := createInput()
	in.InitialStocks = []InitialStock{{WarehouseID: w1, Quantity: 15}}
	p, err := f.service.Create(context.Background(), in)
	require.NoError(t, err)

	_, err = f.service.Update(context.Background(), p.Code, UpdateInput{
		Name:           p.Name,
		CategoryID:     p.CategoryID,
		Unit:           p.Unit,
		UnitPrice:      p.UnitPrice,
		MinStock:       p.MinStock,
		StockOverrides: []InitialStock{{WarehouseID: w1, Quantity: 40}},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(40), f.ledger.stock[lkey(w1, p.Code)])
}

func TestDetail_IncludesStockBreakdown(t *testing.T) {
	f := newProductFixture()
	w1, w2 := id.New(), id.New()

	in := createInput()
	in.InitialStocks = []InitialStock{
		{WarehouseID: w1, Quantity: 15},
		{WarehouseID: w2, Quantity: 3},
	}
	p, err := f.service.Create(context.Background(), in)
	require.NoError(t, err)

	detail, err := f.service.Detail(context.Background(), p.Code)
	require.NoError(t, err)

	assert.Equal(t, p.Code, detail.Code)
	require.Len(t, detail.Stock, 2)

	total := int64(0)
	for _, entry := range detail.Stock {
		total += entry.Quantity
	}
	assert.Equal(t, int64(18), total)
}

func TestEffectiveMinStock_FallsBackToCategory(t *testing.T) {
	own := &WithStock{Product: Product{MinStock: 30}, CategoryMinStock: 10}
	assert.Equal(t, int64(30), own.EffectiveMinStock())

	inherited := &WithStock{Product: Product{MinStock: 0}, CategoryMinStock: 10}
	assert.Equal(t, int64(10), inherited.EffectiveMinStock())

	none := &WithStock{}
	assert.Equal(t, int64(0), none.EffectiveMinStock())
}

func TestDelete_CleanProductSucceeds(t *testing.T) {
	f := newProductFixture()
	p, err := f.service.Create(context.Background(), createInput())
	require.NoError(t, err)

	require.NoError(t, f.service.Delete(context.Background(), p.Code))

	_, err = f.service.GetByCode(context.Background(), p.Code)
	assert.True(t, apperror.IsNotFound(err))
}

func TestDelete_BlockedByMovementHistory(t *testing.T) {
	f := newProductFixture()
	p, err := f.service.Create(context.Background(), createInput())
	require.NoError(t, err)

	f.movements.byType[movements.TypeEntry] = true
	f.movements.byType[movements.TypeTransfer] = true

	err = f.service.Delete(context.Background(), p.Code)
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeDependentRecords))

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.ElementsMatch(t, []string{"entries", "transfers"}, appErr.Details["reasons"])

	// still present
	_, err = f.service.GetByCode(context.Background(), p.Code)
	assert.NoError(t, err)
}

func TestDelete_BlockedByLedgerRows(t *testing.T) {
	f := newProductFixture()
	in := createInput()
	in.InitialStocks = []InitialStock{{WarehouseID: id.New(), Quantity: 5}}
	p, err := f.service.Create(context.Background(), in)
	require.NoError(t, err)

	err = f.service.Delete(context.Background(), p.Code)
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeDependentRecords))
}

func TestHideAndShow_ToggleVisibility(t *testing.T) {
	f := newProductFixture()
	p, err := f.service.Create(context.Background(), createInput())
	require.NoError(t, err)

	require.NoError(t, f.service.Hide(context.Background(), p.Code))
	got, err := f.service.GetByCode(context.Background(), p.Code)
	require.NoError(t, err)
	assert.False(t, got.Visible)

	require.NoError(t, f.service.Show(context.Background(), p.Code))
	got, err = f.service.GetByCode(context.Background(), p.Code)
	require.NoError(t, err)
	assert.True(t, got.Visible)
}

func TestHide_UnknownProductFails(t *testing.T) {
	f := newProductFixture()
	err := f.service.Hide(context.Background(), "NOPE123")
	assert.True(t, apperror.IsNotFound(err))
}

func TestClassifyStock(t *testing.T) {
	tests := []struct {
		name     string
		total    int64
		minStock int64
		want     StockState
	}{
		{"below minimum is low", 19, 20, StockLow},
		{"zero against positive minimum is low", 0, 20, StockLow},
		{"exactly minimum is medium", 20, 20, StockMedium},
		{"within 125 percent band is medium", 25, 20, StockMedium},
		{"above the band is high", 26, 20, StockHigh},
		{"zero minimum with stock is high", 10, 0, StockHigh},
		{"zero minimum zero stock is medium", 0, 0, StockMedium},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classifyStock(tt.total, tt.minStock))
		})
	}
}

func TestList_StateFilterAppliesBeforePagination(t *testing.T) {
	f := newProductFixture()

	inA := createInput()
	inA.Name = "Anchor"
	a, err := f.service.Create(context.Background(), inA)
	require.NoError(t, err)

	inB := createInput()
	inB.Name = "Washer"
	b, err := f.service.Create(context.Background(), inB)
	require.NoError(t, err)

	// Anchor sits below its minimum, Washer well above it. With a page
	// size of one, the high match must still be found even though it
	// sorts after the first page.
	f.repo.totals[a.Code] = 5
	f.repo.totals[b.Code] = 90

	high := StockHigh
	res, err := f.service.List(context.Background(), ListFilter{State: &high, Limit: 1})
	require.NoError(t, err)

	require.Len(t, res.Items, 1)
	assert.Equal(t, b.Code, res.Items[0].Code)
	assert.Equal(t, StockHigh, res.Items[0].State)
	assert.Equal(t, int64(1), res.TotalCount)
}

func TestList_ComputesStockState(t *testing.T) {
	f := newProductFixture()
	_, err := f.service.Create(context.Background(), createInput())
	require.NoError(t, err)

	res, err := f.service.List(context.Background(), ListFilter{})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, StockLow, res.Items[0].State)
}
