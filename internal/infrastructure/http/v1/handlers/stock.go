package handlers

import (
	"github.com/gin-gonic/gin"

	"bodega/internal/domain/ledger"
)

// StockHandler handles stock ledger queries.
type StockHandler struct {
	*BaseHandler
	service *ledger.Service
}

// NewStockHandler creates a stock handler.
func NewStockHandler(service *ledger.Service) *StockHandler {
	return &StockHandler{BaseHandler: NewBaseHandler(), service: service}
}

// ByWarehouse handles GET /stock/warehouses/:id.
func (h *StockHandler) ByWarehouse(c *gin.Context) {
	warehouseID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}
	onlyPositive := c.Query("onlyPositive") != "false"

	items, err := h.service.WarehouseStock(c.Request.Context(), warehouseID, onlyPositive)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, "warehouse stock", items)
}

// ByProduct handles GET /stock/products/:code.
func (h *StockHandler) ByProduct(c *gin.Context) {
	items, err := h.service.ProductStock(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, "product stock", items)
}

// Quantity handles GET /stock/warehouses/:id/products/:code.
func (h *StockHandler) Quantity(c *gin.Context) {
	warehouseID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	qty, err := h.service.Quantity(c.Request.Context(), warehouseID, c.Param("code"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, "stock quantity", gin.H{
		"warehouseId": warehouseID,
		"productCode": c.Param("code"),
		"quantity":    qty,
	})
}
