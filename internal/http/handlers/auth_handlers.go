package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Mirxonjon/charge-one-backend/domain"
	"github.com/Mirxonjon/charge-one-backend/internal/http/middleware"
)

// AuthHandlers handles authentication HTTP requests
type AuthHandlers struct {
	authSvc domain.AuthService
}

// NewAuthHandlers creates new auth handlers
func NewAuthHandlers(authSvc domain.AuthService) *AuthHandlers {
	return &AuthHandlers{authSvc: authSvc}
}

// PhoneRequest carries a bare phone number
type PhoneRequest struct {
	Phone string `json:"phone" binding:"required,e164"`
}

// OTPVerifyRequest carries a phone + code pair
type OTPVerifyRequest struct {
	Phone string `json:"phone" binding:"required,e164"`
	Code  string `json:"code" binding:"required,numeric"`
}

// PasswordLoginRequest carries phone + password credentials
type PasswordLoginRequest struct {
	Phone    string `json:"phone" binding:"required,e164"`
	Password string `json:"password" binding:"required"`
}

// CompleteRegistrationRequest consumes a registration token
type CompleteRegistrationRequest struct {
	RegistrationToken string `json:"registrationToken" binding:"required"`
	Password          string `json:"password" binding:"required,min=8"`
	FirstName         string `json:"firstName"`
	LastName          string `json:"lastName"`
}

// RefreshRequest carries a refresh token
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// SetNewPasswordRequest consumes a password reset token
type SetNewPasswordRequest struct {
	ResetToken  string `json:"resetToken" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=8"`
}

func device(c *gin.Context) domain.DeviceInfo {
	return domain.DeviceInfo{
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
}

// Register handles POST /auth/register
func (h *AuthHandlers) Register(c *gin.Context) {
	var req PhoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.authSvc.Register(c.Request.Context(), req.Phone); err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "OTP sent"})
}

// VerifyRegistration handles POST /auth/otp/verify
func (h *AuthHandlers) VerifyRegistration(c *gin.Context) {
	var req OTPVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.authSvc.VerifyRegistration(c.Request.Context(), req.Phone, req.Code, device(c))
	if err != nil {
		respondAuthError(c, err)
		return
	}

	resp := gin.H{"tokens": result.Tokens}
	if result.RegistrationToken != "" {
		resp["registrationToken"] = result.RegistrationToken
	}
	c.JSON(http.StatusOK, resp)
}

// CompleteRegistration handles POST /auth/register/complete
func (h *AuthHandlers) CompleteRegistration(c *gin.Context) {
	var req CompleteRegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tokens, err := h.authSvc.CompleteRegistration(c.Request.Context(),
		req.RegistrationToken, req.Password, req.FirstName, req.LastName, device(c))
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, tokens)
}

// RequestLoginOtp handles POST /auth/otp/request
func (h *AuthHandlers) RequestLoginOtp(c *gin.Context) {
	var req PhoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.authSvc.RequestLoginOtp(c.Request.Context(), req.Phone); err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "OTP sent"})
}

// LoginWithOtp handles POST /auth/otp/login
func (h *AuthHandlers) LoginWithOtp(c *gin.Context) {
	var req OTPVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tokens, err := h.authSvc.LoginWithOtp(c.Request.Context(), req.Phone, req.Code, device(c))
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, tokens)
}

// LoginWithPassword handles POST /auth/login
func (h *AuthHandlers) LoginWithPassword(c *gin.Context) {
	var req PasswordLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tokens, err := h.authSvc.LoginWithPassword(c.Request.Context(), req.Phone, req.Password, device(c))
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, tokens)
}

// Refresh handles POST /auth/refresh
func (h *AuthHandlers) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tokens, err := h.authSvc.Refresh(c.Request.Context(), req.RefreshToken, device(c))
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, tokens)
}

// Logout handles POST /auth/logout (requires authentication)
func (h *AuthHandlers) Logout(c *gin.Context) {
	userID, ok := middleware.SubjectID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	if err := h.authSvc.Logout(c.Request.Context(), userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Logout failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ForgotPassword handles POST /auth/password/forgot. The response shape is
// identical whether or not the phone is registered.
func (h *AuthHandlers) ForgotPassword(c *gin.Context) {
	var req PhoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.authSvc.ForgotPassword(c.Request.Context(), req.Phone); err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// VerifyResetOtp handles POST /auth/password/verify-otp
func (h *AuthHandlers) VerifyResetOtp(c *gin.Context) {
	var req OTPVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resetToken, err := h.authSvc.VerifyResetOtp(c.Request.Context(), req.Phone, req.Code)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"resetToken": resetToken})
}

// SetNewPassword handles POST /auth/password/reset
func (h *AuthHandlers) SetNewPassword(c *gin.Context) {
	var req SetNewPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tokens, err := h.authSvc.SetNewPassword(c.Request.Context(), req.ResetToken, req.NewPassword, device(c))
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, tokens)
}

// Me handles GET /auth/me (requires authentication)
func (h *AuthHandlers) Me(c *gin.Context) {
	userID, ok := middleware.SubjectID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	user, err := h.authSvc.GetUserProfile(c.Request.Context(), userID)
	if err != nil {
		if err == domain.ErrUserNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get user profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":         user.ID,
		"phone":      user.Phone,
		"firstName":  user.FirstName,
		"lastName":   user.LastName,
		"isVerified": user.IsVerified,
		"role":       user.Role.Name,
		"createdAt":  user.CreatedAt,
	})
}

// respondAuthError maps domain errors onto the HTTP taxonomy. Messages stay
// generic; which specific check failed is never disclosed.
func respondAuthError(c *gin.Context, err error) {
	switch err {
	case domain.ErrOTPResendLimit:
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Please wait before requesting another OTP"})
	case domain.ErrLoginRateLimited:
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many attempts, try again later"})
	case domain.ErrInvalidCredentials:
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
	case domain.ErrTokenInvalid, domain.ErrSessionExpired:
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
	case domain.ErrOTPInvalid, domain.ErrOTPMaxAttempts, domain.ErrSecretTokenInvalid:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired code"})
	case domain.ErrUserAlreadyExists:
		c.JSON(http.StatusConflict, gin.H{"error": "Phone already registered"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Request failed"})
	}
}
