package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Mirxonjon/charge-one-backend/domain"
)

// AdminHandlers handles admin account HTTP requests
type AdminHandlers struct {
	authSvc domain.AuthService
}

// NewAdminHandlers creates new admin handlers
func NewAdminHandlers(authSvc domain.AuthService) *AdminHandlers {
	return &AdminHandlers{authSvc: authSvc}
}

// AdminCreateRequest creates a new admin account
type AdminCreateRequest struct {
	Phone     string `json:"phone" binding:"required,e164"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
}

// CreateAdmin handles POST /admin/create (ADMIN only)
func (h *AdminHandlers) CreateAdmin(c *gin.Context) {
	var req AdminCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.authSvc.CreateAdmin(c.Request.Context(), req.Phone, req.Password, req.FirstName, req.LastName)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": user.ID, "phone": user.Phone})
}

// AdminLogin handles POST /admin/login
func (h *AdminHandlers) AdminLogin(c *gin.Context) {
	var req PasswordLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tokens, err := h.authSvc.AdminLogin(c.Request.Context(), req.Phone, req.Password, device(c))
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, tokens)
}
