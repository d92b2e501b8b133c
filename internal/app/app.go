package app

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Mirxonjon/charge-one-backend/internal/config"
	httpx "github.com/Mirxonjon/charge-one-backend/internal/http"
	"github.com/Mirxonjon/charge-one-backend/internal/http/handlers"
)

// Run wires the container and serves the HTTP surface.
func Run(cfg *config.Config, logger *zap.Logger) error {
	gin.SetMode(cfg.GinMode)

	c, err := NewContainer(cfg, logger)
	if err != nil {
		return err
	}
	defer c.Close()

	authH := handlers.NewAuthHandlers(c.AuthSvc)
	adminH := handlers.NewAdminHandlers(c.AuthSvc)

	r := httpx.BuildRouter(authH, adminH, c.TokenSvc, c.UserRepo)

	addr := ":" + cfg.Port
	logger.Info("listening", zap.String("addr", addr))
	return http.ListenAndServe(addr, r)
}
