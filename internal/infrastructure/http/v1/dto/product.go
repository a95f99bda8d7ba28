package dto

import (
	"bodega/internal/core/apperror"
	"bodega/internal/core/id"
	"bodega/internal/core/types"
	"bodega/internal/domain/catalogs/product"
)

// InitialStockRequest seeds one warehouse at product creation.
type InitialStockRequest struct {
	WarehouseID id.ID `json:"warehouseId"`
	Quantity    int64 `json:"quantity"`
}

// ProductCreateRequest is the payload for registering a product.
type ProductCreateRequest struct {
	Name          string                `json:"name"`
	Description   string                `json:"description"`
	CategoryID    id.ID                 `json:"categoryId"`
	Unit          string                `json:"unit"`
	UnitPrice     string                `json:"unitPrice"`
	MinStock      int64                 `json:"minStock"`
	ShelfLifeDays int64                 `json:"shelfLifeDays"`
	InitialStocks []InitialStockRequest `json:"initialStocks"`
}

// ToInput converts the request to the domain payload.
func (r ProductCreateRequest) ToInput() (product.CreateInput, error) {
	price, err := parsePrice(r.UnitPrice)
	if err != nil {
		return product.CreateInput{}, err
	}
	stocks := make([]product.InitialStock, 0, len(r.InitialStocks))
	for _, s := range r.InitialStocks {
		stocks = append(stocks, product.InitialStock{WarehouseID: s.WarehouseID, Quantity: s.Quantity})
	}
	return product.CreateInput{
		Name:          r.Name,
		Description:   r.Description,
		CategoryID:    r.CategoryID,
		Unit:          r.Unit,
		UnitPrice:     price,
		MinStock:      r.MinStock,
		ShelfLifeDays: r.ShelfLifeDays,
		InitialStocks: stocks,
	}, nil
}

// ProductUpdateRequest carries the mutable product fields plus optional
// absolute per-warehouse stock overrides.
type ProductUpdateRequest struct {
	Name           string                `json:"name"`
	Description    string                `json:"description"`
	CategoryID     id.ID                 `json:"categoryId"`
	Unit           string                `json:"unit"`
	UnitPrice      string                `json:"unitPrice"`
	MinStock       int64                 `json:"minStock"`
	ShelfLifeDays  int64                 `json:"shelfLifeDays"`
	StockOverrides []InitialStockRequest `json:"stockOverrides"`
}

// ToInput converts the request to the domain payload.
func (r ProductUpdateRequest) ToInput() (product.UpdateInput, error) {
	price, err := parsePrice(r.UnitPrice)
	if err != nil {
		return product.UpdateInput{}, err
	}
	overrides := make([]product.InitialStock, 0, len(r.StockOverrides))
	for _, s := range r.StockOverrides {
		overrides = append(overrides, product.InitialStock{WarehouseID: s.WarehouseID, Quantity: s.Quantity})
	}
	return product.UpdateInput{
		Name:           r.Name,
		Description:    r.Description,
		CategoryID:     r.CategoryID,
		Unit:           r.Unit,
		UnitPrice:      price,
		MinStock:       r.MinStock,
		ShelfLifeDays:  r.ShelfLifeDays,
		StockOverrides: overrides,
	}, nil
}

func parsePrice(raw string) (types.Money, error) {
	if raw == "" {
		return types.ZeroMoney(), nil
	}
	price, err := types.NewMoneyFromString(raw)
	if err != nil {
		return types.ZeroMoney(), apperror.NewValidation("invalid unit price").WithDetail("unitPrice", raw)
	}
	return price, nil
}

// ProductActionRequest selects a lifecycle action for a product.
// Action is one of verify, hide, show, delete.
type ProductActionRequest struct {
	Action string `json:"action"`
}

// ProductListRequest holds catalog listing query parameters.
type ProductListRequest struct {
	PaginationRequest

	Search      string `form:"search"`
	CategoryID  string `form:"categoryId"`
	WarehouseID string `form:"warehouseId"`
	OnlyVisible bool   `form:"onlyVisible"`
	State       string `form:"state"`
	MinPrice    string `form:"minPrice"`
	MaxPrice    string `form:"maxPrice"`
}

// ToFilter converts query parameters to the domain filter.
func (r ProductListRequest) ToFilter() (product.ListFilter, error) {
	filter := product.ListFilter{
		Search:      r.Search,
		OnlyVisible: r.OnlyVisible,
		Limit:       r.Limit,
		Offset:      r.Offset,
	}
	if r.CategoryID != "" {
		categoryID, err := id.Parse(r.CategoryID)
		if err != nil {
			return filter, apperror.NewValidation("invalid categoryId").WithDetail("categoryId", r.CategoryID)
		}
		filter.CategoryID = &categoryID
	}
	if r.WarehouseID != "" {
		warehouseID, err := id.Parse(r.WarehouseID)
		if err != nil {
			return filter, apperror.NewValidation("invalid warehouseId").WithDetail("warehouseId", r.WarehouseID)
		}
		filter.WarehouseID = &warehouseID
	}
	if r.State != "" {
		state := product.StockState(r.State)
		switch state {
		case product.StockLow, product.StockMedium, product.StockHigh:
			filter.State = &state
		default:
			return filter, apperror.NewValidation("invalid stock state").WithDetail("state", r.State)
		}
	}
	if r.MinPrice != "" {
		price, err := types.NewMoneyFromString(r.MinPrice)
		if err != nil {
			return filter, apperror.NewValidation("invalid minPrice").WithDetail("minPrice", r.MinPrice)
		}
		filter.MinPrice = &price
	}
	if r.MaxPrice != "" {
		price, err := types.NewMoneyFromString(r.MaxPrice)
		if err != nil {
			return filter, apperror.NewValidation("invalid maxPrice").WithDetail("maxPrice", r.MaxPrice)
		}
		filter.MaxPrice = &price
	}
	return filter, nil
}
