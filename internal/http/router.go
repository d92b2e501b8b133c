package httpx

import (
	"github.com/gin-gonic/gin"

	"github.com/Mirxonjon/charge-one-backend/domain"
	"github.com/Mirxonjon/charge-one-backend/internal/http/handlers"
	"github.com/Mirxonjon/charge-one-backend/internal/http/middleware"
)

// BuildRouter wires the HTTP surface of the auth core.
func BuildRouter(
	ah *handlers.AuthHandlers,
	adh *handlers.AdminHandlers,
	tokenSvc domain.TokenService,
	userRepo domain.UserRepository,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	auth := r.Group("/auth")
	auth.POST("/register", ah.Register)
	auth.POST("/register/complete", ah.CompleteRegistration)
	auth.POST("/otp/verify", ah.VerifyRegistration)
	auth.POST("/otp/request", ah.RequestLoginOtp)
	auth.POST("/otp/login", ah.LoginWithOtp)
	auth.POST("/login", ah.LoginWithPassword)
	auth.POST("/refresh", ah.Refresh)
	auth.POST("/password/forgot", ah.ForgotPassword)
	auth.POST("/password/verify-otp", ah.VerifyResetOtp)
	auth.POST("/password/reset", ah.SetNewPassword)

	authed := r.Group("/auth").Use(middleware.AuthMiddleware(tokenSvc))
	authed.POST("/logout", ah.Logout)
	authed.GET("/me", ah.Me)

	admin := r.Group("/admin")
	admin.POST("/login", adh.AdminLogin)
	admin.POST("/create",
		middleware.AuthMiddleware(tokenSvc),
		middleware.RequireRoles(userRepo, domain.RoleAdmin),
		adh.CreateAdmin)

	return r
}
