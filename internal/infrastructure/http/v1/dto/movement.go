package dto

import (
	"time"

	"bodega/internal/core/id"
	"bodega/internal/domain/movements"
)

// MovementLineRequest is one requested detail line.
type MovementLineRequest struct {
	ProductCode string `json:"productCode"`
	Quantity    int64  `json:"quantity"`
}

func toLineInputs(lines []MovementLineRequest) []movements.LineInput {
	out := make([]movements.LineInput, 0, len(lines))
	for _, l := range lines {
		out = append(out, movements.LineInput{ProductCode: l.ProductCode, Quantity: l.Quantity})
	}
	return out
}

// EntryRequest is the payload for registering a stock-in.
type EntryRequest struct {
	RequirementNumber string                `json:"requirementNumber"`
	DestWarehouseID   id.ID                 `json:"destWarehouseId"`
	SupplierID        id.ID                 `json:"supplierId"`
	TransporterID     *id.ID                `json:"transporterId"`
	Note              string                `json:"note"`
	Date              time.Time             `json:"date"`
	Lines             []MovementLineRequest `json:"lines"`
}

// ToInput converts the request to the domain payload.
func (r EntryRequest) ToInput() movements.EntryInput {
	return movements.EntryInput{
		RequirementNumber: r.RequirementNumber,
		DestWarehouseID:   r.DestWarehouseID,
		SupplierID:        r.SupplierID,
		TransporterID:     r.TransporterID,
		Note:              r.Note,
		Date:              r.Date,
		Lines:             toLineInputs(r.Lines),
	}
}

// ExitRequest is the payload for registering a stock-out.
type ExitRequest struct {
	RequirementNumber string                `json:"requirementNumber"`
	OriginWarehouseID id.ID                 `json:"originWarehouseId"`
	Date              time.Time             `json:"date"`
	ZoneID            *id.ID                `json:"zoneId"`
	EquipmentID       *id.ID                `json:"equipmentId"`
	RequesterID       *id.ID                `json:"requesterId"`
	AuthorizerID      *id.ID                `json:"authorizerId"`
	DispatcherID      *id.ID                `json:"dispatcherId"`
	Note              string                `json:"note"`
	Lines             []MovementLineRequest `json:"lines"`
}

// ToInput converts the request to the domain payload.
func (r ExitRequest) ToInput() movements.ExitInput {
	return movements.ExitInput{
		RequirementNumber: r.RequirementNumber,
		OriginWarehouseID: r.OriginWarehouseID,
		Date:              r.Date,
		ZoneID:            r.ZoneID,
		EquipmentID:       r.EquipmentID,
		RequesterID:       r.RequesterID,
		AuthorizerID:      r.AuthorizerID,
		DispatcherID:      r.DispatcherID,
		Note:              r.Note,
		Lines:             toLineInputs(r.Lines),
	}
}

// TransferRequest is the payload for registering a transfer.
type TransferRequest struct {
	RequirementNumber string                `json:"requirementNumber"`
	OriginWarehouseID id.ID                 `json:"originWarehouseId"`
	DestWarehouseID   id.ID                 `json:"destWarehouseId"`
	Date              time.Time             `json:"date"`
	AuthorizerID      *id.ID                `json:"authorizerId"`
	DispatcherID      *id.ID                `json:"dispatcherId"`
	Note              string                `json:"note"`
	Lines             []MovementLineRequest `json:"lines"`
}

// ToInput converts the request to the domain payload.
func (r TransferRequest) ToInput() movements.TransferInput {
	return movements.TransferInput{
		RequirementNumber: r.RequirementNumber,
		OriginWarehouseID: r.OriginWarehouseID,
		DestWarehouseID:   r.DestWarehouseID,
		Date:              r.Date,
		AuthorizerID:      r.AuthorizerID,
		DispatcherID:      r.DispatcherID,
		Note:              r.Note,
		Lines:             toLineInputs(r.Lines),
	}
}

// ReturnRequest is the payload for reversing a movement.
type ReturnRequest struct {
	Note string `json:"note"`
}

// MovementListRequest holds the unified feed query parameters.
type MovementListRequest struct {
	PaginationRequest

	DateFrom          *time.Time `form:"dateFrom" time_format:"2006-01-02"`
	DateTo            *time.Time `form:"dateTo" time_format:"2006-01-02"`
	Type              string     `form:"type"`
	Status            string     `form:"status"`
	WarehouseID       string     `form:"warehouseId"`
	RequirementNumber string     `form:"requirementNumber"`
	ProcessedBy       string     `form:"processedBy"`
}

// ToFilter converts query parameters to the domain filter. Unknown
// type/status values are rejected by the caller before this runs.
func (r MovementListRequest) ToFilter() (movements.ListFilter, error) {
	filter := movements.ListFilter{
		Page:              r.Page(),
		DateFrom:          r.DateFrom,
		DateTo:            r.DateTo,
		RequirementNumber: r.RequirementNumber,
		ProcessedBy:       r.ProcessedBy,
	}
	if r.Type != "" {
		typ := movements.Type(r.Type)
		filter.Type = &typ
	}
	if r.Status != "" {
		status := movements.Status(r.Status)
		filter.Status = &status
	}
	if r.WarehouseID != "" {
		warehouseID, err := id.Parse(r.WarehouseID)
		if err != nil {
			return filter, err
		}
		filter.WarehouseID = &warehouseID
	}
	return filter, nil
}
