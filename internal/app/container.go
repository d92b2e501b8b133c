package app

import (
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Mirxonjon/charge-one-backend/domain"
	"github.com/Mirxonjon/charge-one-backend/internal/config"
	"github.com/Mirxonjon/charge-one-backend/internal/infrastructure/auth"
	"github.com/Mirxonjon/charge-one-backend/internal/infrastructure/database"
	"github.com/Mirxonjon/charge-one-backend/internal/infrastructure/notifications"
	"github.com/Mirxonjon/charge-one-backend/internal/infrastructure/ratelimit"
	"github.com/Mirxonjon/charge-one-backend/internal/infrastructure/repositories"
	"github.com/Mirxonjon/charge-one-backend/internal/services"
)

// Container holds all dependencies
type Container struct {
	Config *config.Config
	Logger *zap.Logger

	DB          *gorm.DB
	RedisClient *redis.Client

	UserRepo    domain.UserRepository
	RoleRepo    domain.RoleRepository
	OtpRepo     domain.OtpRepository
	SessionRepo domain.SessionRepository
	SecretRepo  domain.SecretTokenRepository

	PasswordSvc  domain.PasswordService
	SecretHasher domain.SecretHasher
	TokenSvc     domain.TokenService
	SmsSvc       domain.SmsService
	LoginLimiter domain.RateLimiter
	OTPSvc       domain.OTPService
	SessionSvc   domain.SessionService
	AuthSvc      domain.AuthService
}

// NewContainer creates and wires all dependencies
func NewContainer(cfg *config.Config, logger *zap.Logger) (*Container, error) {
	c := &Container{Config: cfg, Logger: logger}

	db, err := database.Open(cfg.DSN)
	if err != nil {
		return nil, err
	}
	if err := database.AutoMigrate(db); err != nil {
		return nil, err
	}
	c.DB = db

	c.RedisClient = database.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB).Client

	c.UserRepo = repositories.NewUserRepository(db)
	c.RoleRepo = repositories.NewRoleRepository(db)
	c.OtpRepo = repositories.NewOtpRepository(db)
	c.SessionRepo = repositories.NewSessionRepository(db)
	c.SecretRepo = repositories.NewSecretTokenRepository(db)

	c.PasswordSvc = auth.NewPasswordService()
	c.SecretHasher = auth.NewSecretHasher()
	c.TokenSvc = auth.NewJWTService(cfg.JWTSecret, cfg.JWTIssuer, cfg.AccessTTL, cfg.RefreshTTL)
	c.SmsSvc = notifications.NewTwilioService(cfg.TwilioSID, cfg.TwilioToken, cfg.TwilioFrom, logger)

	switch cfg.LoginLimitStore {
	case "redis":
		limiter, err := ratelimit.NewRedisLimiter(c.RedisClient, cfg.LoginLimitAttempts, cfg.LoginLimitWindow)
		if err != nil {
			return nil, err
		}
		c.LoginLimiter = limiter
	case "memory", "":
		// Process-local; counters are not shared across instances.
		c.LoginLimiter = ratelimit.NewMemoryLimiter(cfg.LoginLimitAttempts, cfg.LoginLimitWindow)
	default:
		return nil, fmt.Errorf("unknown login limit store %q", cfg.LoginLimitStore)
	}

	c.OTPSvc = services.NewOTPService(c.OtpRepo, services.OTPConfig{
		Length:       cfg.OTPLength,
		TTL:          cfg.OTPTTL,
		MaxAttempts:  cfg.OTPMaxAttempts,
		ResendWindow: cfg.OTPResendWindow,
	}, logger)
	c.SessionSvc = services.NewSessionService(c.SessionRepo, c.TokenSvc, c.SecretHasher, logger)
	c.AuthSvc = services.NewAuthService(
		c.UserRepo,
		c.RoleRepo,
		c.SecretRepo,
		c.OTPSvc,
		c.SessionSvc,
		c.PasswordSvc,
		c.SecretHasher,
		c.SmsSvc,
		c.LoginLimiter,
		cfg.SecretTokenTTL,
		logger,
	)

	return c, nil
}

// Close closes all connections
func (c *Container) Close() error {
	if c.RedisClient != nil {
		c.RedisClient.Close()
	}
	if c.DB != nil {
		sqlDB, err := c.DB.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}
	return nil
}
