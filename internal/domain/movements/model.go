// Package movements provides the stock movement documents: entries,
// exits, transfers and their reversals.
package movements

import (
	"time"

	"bodega/internal/core/apperror"
	"bodega/internal/core/id"
)

// Type tags the movement variant.
type Type string

const (
	TypeEntry    Type = "entry"
	TypeExit     Type = "exit"
	TypeTransfer Type = "transfer"
)

// Status is the movement lifecycle state. A movement is created active
// and transitions exactly once to returned; it is never deleted.
type Status string

const (
	StatusActive   Status = "active"
	StatusReturned Status = "returned"
)

// Line is one (product, quantity) detail of a movement.
type Line struct {
	LineNo      int    `db:"line_no" json:"lineNo"`
	ProductCode string `db:"product_code" json:"productCode"`
	Quantity    int64  `db:"quantity" json:"quantity"`
}

// Movement is the header shared by all three variants. Warehouse
// references depend on the type: Entry uses Destination, Exit uses
// Origin, Transfer uses both. The remaining references are optional
// and variant-specific.
type Movement struct {
	ID                id.ID     `db:"id" json:"id"`
	Type              Type      `db:"movement_type" json:"type"`
	Status            Status    `db:"status" json:"status"`
	RequirementNumber string    `db:"requirement_number" json:"requirementNumber"`
	Date              time.Time `db:"date" json:"date"`

	OriginWarehouseID *id.ID `db:"origin_warehouse_id" json:"originWarehouseId,omitempty"`
	DestWarehouseID   *id.ID `db:"dest_warehouse_id" json:"destWarehouseId,omitempty"`

	SupplierID    *id.ID `db:"supplier_id" json:"supplierId,omitempty"`
	TransporterID *id.ID `db:"transporter_id" json:"transporterId,omitempty"`
	ZoneID        *id.ID `db:"zone_id" json:"zoneId,omitempty"`
	EquipmentID   *id.ID `db:"equipment_id" json:"equipmentId,omitempty"`
	RequesterID   *id.ID `db:"requester_id" json:"requesterId,omitempty"`
	AuthorizerID  *id.ID `db:"authorizer_id" json:"authorizerId,omitempty"`
	DispatcherID  *id.ID `db:"dispatcher_id" json:"dispatcherId,omitempty"`

	// ProcessedBy is the DNI of the user who registered the movement,
	// overwritten by the reversing user when the movement is returned.
	ProcessedBy string `db:"processed_by" json:"processedBy"`
	Note        string `db:"note" json:"note,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`

	Lines []Line `db:"-" json:"lines"`
}

// LineInput is a requested detail line.
type LineInput struct {
	ProductCode string `json:"productCode"`
	Quantity    int64  `json:"quantity"`
}

// EntryInput is the payload for registering a stock-in.
type EntryInput struct {
	RequirementNumber string
	DestWarehouseID   id.ID
	SupplierID        id.ID
	TransporterID     *id.ID
	Note              string
	Date              time.Time
	Lines             []LineInput
}

// Validate checks required header fields. Runs before any transaction.
func (in *EntryInput) Validate() error {
	if in.RequirementNumber == "" {
		return apperror.NewValidation("requirement number is required")
	}
	if id.IsNil(in.DestWarehouseID) {
		return apperror.NewValidation("destination warehouse is required")
	}
	if id.IsNil(in.SupplierID) {
		return apperror.NewValidation("supplier is required")
	}
	if in.Date.IsZero() {
		return apperror.NewValidation("date is required")
	}
	if len(in.Lines) == 0 {
		return apperror.NewValidation("at least one detail line is required")
	}
	return nil
}

// ExitInput is the payload for registering a stock-out.
type ExitInput struct {
	RequirementNumber string
	OriginWarehouseID id.ID
	Date              time.Time
	ZoneID            *id.ID
	EquipmentID       *id.ID
	RequesterID       *id.ID
	AuthorizerID      *id.ID
	DispatcherID      *id.ID
	Note              string
	Lines             []LineInput
}

// Validate checks required header fields.
func (in *ExitInput) Validate() error {
	if in.RequirementNumber == "" {
		return apperror.NewValidation("requirement number is required")
	}
	if id.IsNil(in.OriginWarehouseID) {
		return apperror.NewValidation("origin warehouse is required")
	}
	if in.Date.IsZero() {
		return apperror.NewValidation("date is required")
	}
	if len(in.Lines) == 0 {
		return apperror.NewValidation("at least one detail line is required")
	}
	return nil
}

// TransferInput is the payload for registering a warehouse transfer.
type TransferInput struct {
	RequirementNumber string
	OriginWarehouseID id.ID
	DestWarehouseID   id.ID
	Date              time.Time
	AuthorizerID      *id.ID
	DispatcherID      *id.ID
	Note              string
	Lines             []LineInput
}

// Validate checks required header fields.
func (in *TransferInput) Validate() error {
	if in.RequirementNumber == "" {
		return apperror.NewValidation("requirement number is required")
	}
	if id.IsNil(in.OriginWarehouseID) {
		return apperror.NewValidation("origin warehouse is required")
	}
	if id.IsNil(in.DestWarehouseID) {
		return apperror.NewValidation("destination warehouse is required")
	}
	if in.OriginWarehouseID == in.DestWarehouseID {
		return apperror.NewValidation("origin and destination warehouses must differ")
	}
	if in.Date.IsZero() {
		return apperror.NewValidation("date is required")
	}
	if len(in.Lines) == 0 {
		return apperror.NewValidation("at least one detail line is required")
	}
	return nil
}

// validateLine checks one detail line; the caller rolls back the whole
// operation when any line is invalid.
func validateLine(lineNo int, in LineInput) error {
	if in.ProductCode == "" {
		return apperror.NewInvalidLineItem(lineNo, "each detail line must reference a product")
	}
	if in.Quantity <= 0 {
		return apperror.NewInvalidLineItem(lineNo, "each detail line must have a positive quantity")
	}
	return nil
}

func buildLines(inputs []LineInput) []Line {
	lines := make([]Line, 0, len(inputs))
	for i, in := range inputs {
		lines = append(lines, Line{
			LineNo:      i + 1,
			ProductCode: in.ProductCode,
			Quantity:    in.Quantity,
		})
	}
	return lines
}

func newEntry(in EntryInput, processedBy string) *Movement {
	dest := in.DestWarehouseID
	return &Movement{
		ID:                id.New(),
		Type:              TypeEntry,
		Status:            StatusActive,
		RequirementNumber: in.RequirementNumber,
		Date:              in.Date,
		DestWarehouseID:   &dest,
		SupplierID:        &in.SupplierID,
		TransporterID:     in.TransporterID,
		ProcessedBy:       processedBy,
		Note:              in.Note,
		CreatedAt:         time.Now().UTC(),
		Lines:             buildLines(in.Lines),
	}
}

func newExit(in ExitInput, processedBy string) *Movement {
	origin := in.OriginWarehouseID
	return &Movement{
		ID:                id.New(),
		Type:              TypeExit,
		Status:            StatusActive,
		RequirementNumber: in.RequirementNumber,
		Date:              in.Date,
		OriginWarehouseID: &origin,
		ZoneID:            in.ZoneID,
		EquipmentID:       in.EquipmentID,
		RequesterID:       in.RequesterID,
		AuthorizerID:      in.AuthorizerID,
		DispatcherID:      in.DispatcherID,
		ProcessedBy:       processedBy,
		Note:              in.Note,
		CreatedAt:         time.Now().UTC(),
		Lines:             buildLines(in.Lines),
	}
}

func newTransfer(in TransferInput, processedBy string) *Movement {
	origin := in.OriginWarehouseID
	dest := in.DestWarehouseID
	return &Movement{
		ID:                id.New(),
		Type:              TypeTransfer,
		Status:            StatusActive,
		RequirementNumber: in.RequirementNumber,
		Date:              in.Date,
		OriginWarehouseID: &origin,
		DestWarehouseID:   &dest,
		AuthorizerID:      in.AuthorizerID,
		DispatcherID:      in.DispatcherID,
		ProcessedBy:       processedBy,
		Note:              in.Note,
		CreatedAt:         time.Now().UTC(),
		Lines:             buildLines(in.Lines),
	}
}
