package handlers

import (
	"github.com/gin-gonic/gin"

	"bodega/internal/domain/catalogs/supplier"
	"bodega/internal/infrastructure/http/v1/dto"
)

// SupplierHandler handles the supplier catalog endpoints.
type SupplierHandler struct {
	*BaseHandler
	service *supplier.Service
}

// NewSupplierHandler creates a supplier handler.
func NewSupplierHandler(service *supplier.Service) *SupplierHandler {
	return &SupplierHandler{BaseHandler: NewBaseHandler(), service: service}
}

// Create handles POST /suppliers.
func (h *SupplierHandler) Create(c *gin.Context) {
	var req dto.SupplierRequest
	if !h.BindJSON(c, &req) {
		return
	}

	s, err := h.service.Create(c.Request.Context(), req.ToInput())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, "supplier created", s)
}

// Update handles PUT /suppliers/:id.
func (h *SupplierHandler) Update(c *gin.Context) {
	supplierID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.SupplierRequest
	if !h.BindJSON(c, &req) {
		return
	}

	s, err := h.service.Update(c.Request.Context(), supplierID, req.ToInput())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, "supplier updated", s)
}

// List handles GET /suppliers.
func (h *SupplierHandler) List(c *gin.Context) {
	items, err := h.service.List(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, "suppliers", items)
}

// Delete handles DELETE /suppliers/:id.
func (h *SupplierHandler) Delete(c *gin.Context) {
	supplierID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), supplierID); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, "supplier deleted", nil)
}
