package handlers

import (
	"github.com/gin-gonic/gin"

	"bodega/internal/core/apperror"
	"bodega/internal/domain/catalogs/product"
	"bodega/internal/infrastructure/http/v1/dto"
)

// ProductHandler handles the product catalog endpoints.
type ProductHandler struct {
	*BaseHandler
	service *product.Service
}

// NewProductHandler creates a product handler.
func NewProductHandler(service *product.Service) *ProductHandler {
	return &ProductHandler{BaseHandler: NewBaseHandler(), service: service}
}

// Create handles POST /products.
func (h *ProductHandler) Create(c *gin.Context) {
	var req dto.ProductCreateRequest
	if !h.BindJSON(c, &req) {
		return
	}

	in, err := req.ToInput()
	if err != nil {
		h.Error(c, err)
		return
	}

	p, err := h.service.Create(c.Request.Context(), in)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, "product created", p)
}

// Update handles PUT /products/:code.
func (h *ProductHandler) Update(c *gin.Context) {
	var req dto.ProductUpdateRequest
	if !h.BindJSON(c, &req) {
		return
	}

	in, err := req.ToInput()
	if err != nil {
		h.Error(c, err)
		return
	}

	p, err := h.service.Update(c.Request.Context(), c.Param("code"), in)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, "product updated", p)
}

// Get handles GET /products/:code. The payload includes the
// per-warehouse stock breakdown.
func (h *ProductHandler) Get(c *gin.Context) {
	p, err := h.service.Detail(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, "product", p)
}

// List handles GET /products.
func (h *ProductHandler) List(c *gin.Context) {
	var req dto.ProductListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.Error(c, apperror.NewValidation("invalid query parameters").WithDetail("error", err.Error()))
		return
	}

	filter, err := req.ToFilter()
	if err != nil {
		h.Error(c, err)
		return
	}

	res, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, "products", gin.H{
		"items": res.Items,
		"meta": dto.ListMeta{
			TotalCount: res.TotalCount,
			Limit:      res.Limit,
			Offset:     res.Offset,
		},
	})
}

// Action handles POST /products/:code/action with one of
// verify, hide, show, delete. Verify reports the associations that
// would block deletion, so clients can decide what to offer.
func (h *ProductHandler) Action(c *gin.Context) {
	var req dto.ProductActionRequest
	if !h.BindJSON(c, &req) {
		return
	}
	code := c.Param("code")
	ctx := c.Request.Context()

	switch req.Action {
	case "verify":
		assoc, err := h.service.Associations(ctx, code)
		if err != nil {
			h.Error(c, err)
			return
		}
		h.OK(c, "associations", gin.H{
			"associations": assoc,
			"deletable":    !assoc.Any(),
		})
	case "hide":
		if err := h.service.Hide(ctx, code); err != nil {
			h.Error(c, err)
			return
		}
		h.OK(c, "product hidden", nil)
	case "show":
		if err := h.service.Show(ctx, code); err != nil {
			h.Error(c, err)
			return
		}
		h.OK(c, "product shown", nil)
	case "delete":
		if err := h.service.Delete(ctx, code); err != nil {
			h.Error(c, err)
			return
		}
		h.OK(c, "product deleted", nil)
	default:
		h.Error(c, apperror.NewValidation("unknown action").WithDetail("action", req.Action))
	}
}
