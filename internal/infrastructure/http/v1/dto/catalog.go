package dto

import (
	"bodega/internal/domain/catalogs/category"
	"bodega/internal/domain/catalogs/supplier"
	"bodega/internal/domain/catalogs/warehouse"
)

// WarehouseRequest carries the editable warehouse fields.
type WarehouseRequest struct {
	Name     string `json:"name"`
	Location string `json:"location"`
}

// ToInput converts the request to the domain payload.
func (r WarehouseRequest) ToInput() warehouse.Input {
	return warehouse.Input{Name: r.Name, Location: r.Location}
}

// CategoryRequest carries the editable category fields.
type CategoryRequest struct {
	Name     string `json:"name"`
	MinStock int64  `json:"minStock"`
}

// ToInput converts the request to the domain payload.
func (r CategoryRequest) ToInput() category.Input {
	return category.Input{Name: r.Name, MinStock: r.MinStock}
}

// SupplierRequest carries the editable supplier fields.
type SupplierRequest struct {
	Name    string `json:"name"`
	TaxID   string `json:"taxId"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// ToInput converts the request to the domain payload.
func (r SupplierRequest) ToInput() supplier.Input {
	return supplier.Input{Name: r.Name, TaxID: r.TaxID, Phone: r.Phone, Address: r.Address}
}
