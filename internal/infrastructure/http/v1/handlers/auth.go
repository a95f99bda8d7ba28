package handlers

import (
	"github.com/gin-gonic/gin"

	"bodega/internal/core/apperror"
	"bodega/internal/domain/auth"
	"bodega/internal/infrastructure/http/v1/dto"
)

// AuthHandler handles authentication and account endpoints.
type AuthHandler struct {
	*BaseHandler
	service *auth.Service
}

// NewAuthHandler creates an auth handler.
func NewAuthHandler(service *auth.Service) *AuthHandler {
	return &AuthHandler{BaseHandler: NewBaseHandler(), service: service}
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !h.BindJSON(c, &req) {
		return
	}

	res, err := h.service.Login(c.Request.Context(), req.DNI, req.Password)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, "login successful", res)
}

// Register handles POST /auth/users. Admin only.
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterUserRequest
	if !h.BindJSON(c, &req) {
		return
	}

	u, err := h.service.Register(c.Request.Context(), auth.RegisterInput{
		DNI:      req.DNI,
		Name:     req.Name,
		Role:     req.Role,
		Password: req.Password,
	})
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, "user registered", u)
}

// ChangePassword handles POST /auth/password for the acting user.
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req dto.ChangePasswordRequest
	if !h.BindJSON(c, &req) {
		return
	}

	dni := h.GetUserDNI(c)
	if dni == "" {
		h.Error(c, apperror.NewUnauthorized("authentication required"))
		return
	}

	if err := h.service.ChangePassword(c.Request.Context(), dni, req.CurrentPassword, req.NewPassword); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, "password changed", nil)
}

// ListUsers handles GET /auth/users. Admin only.
func (h *AuthHandler) ListUsers(c *gin.Context) {
	users, err := h.service.List(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, "users", users)
}
