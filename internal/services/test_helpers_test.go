package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Mirxonjon/charge-one-backend/domain"
	"github.com/Mirxonjon/charge-one-backend/internal/infrastructure/auth"
	"github.com/Mirxonjon/charge-one-backend/internal/infrastructure/repositories"
	"github.com/Mirxonjon/charge-one-backend/internal/mocks"
)

// authFixture wires the real services over an in-memory sqlite database.
// Only the outbound edges (SMS, login limiter) are mocked.
type authFixture struct {
	db          *gorm.DB
	userRepo    domain.UserRepository
	roleRepo    domain.RoleRepository
	otpRepo     domain.OtpRepository
	sessionRepo domain.SessionRepository
	secretRepo  domain.SecretTokenRepository

	otpSvc     domain.OTPService
	sessionSvc domain.SessionService
	authSvc    domain.AuthService

	sms     *mocks.MockSmsService
	limiter *mocks.MockRateLimiter
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(
		&repositories.DBRole{},
		&repositories.DBUser{},
		&repositories.DBOtpCode{},
		&repositories.DBSession{},
		&repositories.DBSecretToken{},
	); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	f := &authFixture{
		db:          db,
		userRepo:    repositories.NewUserRepository(db),
		roleRepo:    repositories.NewRoleRepository(db),
		otpRepo:     repositories.NewOtpRepository(db),
		sessionRepo: repositories.NewSessionRepository(db),
		secretRepo:  repositories.NewSecretTokenRepository(db),
		sms:         mocks.NewMockSmsService(),
		limiter:     mocks.NewMockRateLimiter(),
	}

	log := zap.NewNop()
	tokenSvc := auth.NewJWTService("test-secret", "charge-one-test", 15*time.Minute, 14*24*time.Hour)
	hasher := auth.NewSecretHasher()

	f.otpSvc = NewOTPService(f.otpRepo, OTPConfig{
		Length:       6,
		TTL:          3 * time.Minute,
		MaxAttempts:  5,
		ResendWindow: time.Minute,
	}, log)
	f.sessionSvc = NewSessionService(f.sessionRepo, tokenSvc, hasher, log)
	f.authSvc = NewAuthService(
		f.userRepo,
		f.roleRepo,
		f.secretRepo,
		f.otpSvc,
		f.sessionSvc,
		auth.NewPasswordService(),
		hasher,
		f.sms,
		f.limiter,
		15*time.Minute,
		log,
	)
	return f
}

// latestCode reads the newest stored plaintext code for a phone. Tests stand
// in for the SMS channel this way.
func (f *authFixture) latestCode(t *testing.T, phone string) string {
	t.Helper()
	otp, err := f.otpRepo.FindLatest(context.Background(), phone)
	if err != nil {
		t.Fatalf("no OTP stored for %s: %v", phone, err)
	}
	return otp.Code
}

var testDevice = domain.DeviceInfo{IP: "10.0.0.1", UserAgent: "go-test"}
