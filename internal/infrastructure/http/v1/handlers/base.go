// Package handlers provides HTTP request handlers for API v1.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"bodega/internal/core/apperror"
	appctx "bodega/internal/core/context"
	"bodega/internal/core/id"
)

// BaseHandler provides common handler utilities. All success bodies
// carry the status:true envelope, error bodies status:false; the shape
// is produced in one place so clients can key on it.
type BaseHandler struct{}

// NewBaseHandler creates a new base handler.
func NewBaseHandler() *BaseHandler {
	return &BaseHandler{}
}

// BindJSON binds and validates JSON request body.
func (h *BaseHandler) BindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		h.Error(c, apperror.NewValidation("invalid request body").WithDetail("error", err.Error()))
		return false
	}
	return true
}

// Error registers error on Gin context and aborts request.
// Actual JSON response is produced by middleware.ErrorHandler.
func (h *BaseHandler) Error(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// OK writes a 200 envelope.
func (h *BaseHandler) OK(c *gin.Context, message string, data any) {
	h.respond(c, http.StatusOK, message, data)
}

// Created writes a 201 envelope.
func (h *BaseHandler) Created(c *gin.Context, message string, data any) {
	h.respond(c, http.StatusCreated, message, data)
}

func (h *BaseHandler) respond(c *gin.Context, status int, message string, data any) {
	body := gin.H{
		"status":  true,
		"message": message,
	}
	if data != nil {
		body["data"] = data
	}
	c.JSON(status, body)
}

// ParseIntQuery parses integer query parameter with default value.
func (h *BaseHandler) ParseIntQuery(c *gin.Context, key string, defaultVal int) int {
	val := c.Query(key)
	if val == "" {
		return defaultVal
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return parsed
}

// ParseIDParam parses a UUID path parameter, reporting a validation
// error to the client when malformed.
func (h *BaseHandler) ParseIDParam(c *gin.Context, name string) (id.ID, bool) {
	parsed, err := id.Parse(c.Param(name))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid "+name).WithDetail(name, c.Param(name)))
		return id.Nil(), false
	}
	return parsed, true
}

// GetUserDNI extracts the acting user's DNI from request context.
func (h *BaseHandler) GetUserDNI(c *gin.Context) string {
	return appctx.GetUserDNI(c.Request.Context())
}
