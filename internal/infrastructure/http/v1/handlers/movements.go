package handlers

import (
	"github.com/gin-gonic/gin"

	"bodega/internal/core/apperror"
	"bodega/internal/domain/movements"
	"bodega/internal/infrastructure/http/v1/dto"
	"bodega/internal/infrastructure/storage/postgres"
)

// MovementHandler handles movement registration, reversal and listing.
type MovementHandler struct {
	*BaseHandler
	service *movements.Service
	audit   *postgres.AuditService
}

// NewMovementHandler creates a movement handler.
func NewMovementHandler(service *movements.Service, audit *postgres.AuditService) *MovementHandler {
	return &MovementHandler{BaseHandler: NewBaseHandler(), service: service, audit: audit}
}

// RegisterEntry handles POST /movements/entries.
func (h *MovementHandler) RegisterEntry(c *gin.Context) {
	var req dto.EntryRequest
	if !h.BindJSON(c, &req) {
		return
	}

	m, err := h.service.RegisterEntry(c.Request.Context(), req.ToInput())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, "entry registered", m)
}

// RegisterExit handles POST /movements/exits.
func (h *MovementHandler) RegisterExit(c *gin.Context) {
	var req dto.ExitRequest
	if !h.BindJSON(c, &req) {
		return
	}

	m, err := h.service.RegisterExit(c.Request.Context(), req.ToInput())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, "exit registered", m)
}

// RegisterTransfer handles POST /movements/transfers.
func (h *MovementHandler) RegisterTransfer(c *gin.Context) {
	var req dto.TransferRequest
	if !h.BindJSON(c, &req) {
		return
	}

	m, err := h.service.RegisterTransfer(c.Request.Context(), req.ToInput())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, "transfer registered", m)
}

// ReturnEntry handles POST /movements/entries/:id/return.
func (h *MovementHandler) ReturnEntry(c *gin.Context) {
	movementID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.ReturnRequest
	if !h.BindJSON(c, &req) {
		return
	}

	m, err := h.service.ReturnEntry(c.Request.Context(), movementID, req.Note)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, "entry returned", m)
}

// ReturnExit handles POST /movements/exits/:id/return.
func (h *MovementHandler) ReturnExit(c *gin.Context) {
	movementID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.ReturnRequest
	if !h.BindJSON(c, &req) {
		return
	}

	m, err := h.service.ReturnExit(c.Request.Context(), movementID, req.Note)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, "exit returned", m)
}

// ReturnTransfer handles POST /movements/transfers/:id/return.
func (h *MovementHandler) ReturnTransfer(c *gin.Context) {
	movementID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.ReturnRequest
	if !h.BindJSON(c, &req) {
		return
	}

	m, err := h.service.ReturnTransfer(c.Request.Context(), movementID, req.Note)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, "transfer returned", m)
}

// Get handles GET /movements/:id.
func (h *MovementHandler) Get(c *gin.Context) {
	movementID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	m, err := h.service.GetByID(c.Request.Context(), movementID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, "movement", m)
}

// Audit handles GET /movements/:id/audit, the per-movement trail.
func (h *MovementHandler) Audit(c *gin.Context) {
	movementID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}
	limit := h.ParseIntQuery(c, "limit", 0)

	rows, err := h.audit.History(c.Request.Context(), movementID, limit)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, "movement audit trail", rows)
}

// List handles GET /movements, the unified feed.
func (h *MovementHandler) List(c *gin.Context) {
	var req dto.MovementListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.Error(c, apperror.NewValidation("invalid query parameters").WithDetail("error", err.Error()))
		return
	}

	filter, err := req.ToFilter()
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid warehouseId").WithDetail("warehouseId", req.WarehouseID))
		return
	}

	res, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, "movements", gin.H{
		"items": res.Items,
		"meta": dto.ListMeta{
			TotalCount: res.TotalCount,
			Limit:      res.Limit,
			Offset:     res.Offset,
		},
	})
}
