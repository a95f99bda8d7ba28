package handlers

import (
	"github.com/gin-gonic/gin"

	"bodega/internal/domain/catalogs/warehouse"
	"bodega/internal/infrastructure/http/v1/dto"
)

// WarehouseHandler handles the warehouse catalog endpoints.
type WarehouseHandler struct {
	*BaseHandler
	service *warehouse.Service
}

// NewWarehouseHandler creates a warehouse handler.
func NewWarehouseHandler(service *warehouse.Service) *WarehouseHandler {
	return &WarehouseHandler{BaseHandler: NewBaseHandler(), service: service}
}

// Create handles POST /warehouses.
func (h *WarehouseHandler) Create(c *gin.Context) {
	var req dto.WarehouseRequest
	if !h.BindJSON(c, &req) {
		return
	}

	w, err := h.service.Create(c.Request.Context(), req.ToInput())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, "warehouse created", w)
}

// Update handles PUT /warehouses/:id.
func (h *WarehouseHandler) Update(c *gin.Context) {
	warehouseID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.WarehouseRequest
	if !h.BindJSON(c, &req) {
		return
	}

	w, err := h.service.Update(c.Request.Context(), warehouseID, req.ToInput())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, "warehouse updated", w)
}

// List handles GET /warehouses.
func (h *WarehouseHandler) List(c *gin.Context) {
	items, err := h.service.List(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, "warehouses", items)
}

// Delete handles DELETE /warehouses/:id.
func (h *WarehouseHandler) Delete(c *gin.Context) {
	warehouseID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), warehouseID); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, "warehouse deleted", nil)
}
