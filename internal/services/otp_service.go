package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"go.uber.org/zap"

	"github.com/Mirxonjon/charge-one-backend/domain"
)

// OTPServiceImpl implements domain.OTPService over relational OTP rows
type OTPServiceImpl struct {
	otpRepo domain.OtpRepository
	config  OTPConfig
	logger  *zap.Logger
}

type OTPConfig struct {
	Length       int
	TTL          time.Duration
	MaxAttempts  int
	ResendWindow time.Duration
}

// NewOTPService creates a new OTP service
func NewOTPService(otpRepo domain.OtpRepository, config OTPConfig, logger *zap.Logger) domain.OTPService {
	return &OTPServiceImpl{
		otpRepo: otpRepo,
		config:  config,
		logger:  logger,
	}
}

// AssertRateLimit implements domain.OTPService. It fails with
// ErrOTPResendLimit when a code was issued for the phone within the resend
// window and has no side effects on failure.
func (s *OTPServiceImpl) AssertRateLimit(ctx context.Context, phone string) error {
	latest, err := s.otpRepo.FindLatest(ctx, phone)
	if err != nil {
		if err == domain.ErrOTPInvalid {
			return nil
		}
		return err
	}
	if time.Since(latest.CreatedAt) < s.config.ResendWindow {
		return domain.ErrOTPResendLimit
	}
	return nil
}

// Generate implements domain.OTPService. The plaintext code is returned to
// the caller, which owns delivery.
func (s *OTPServiceImpl) Generate(ctx context.Context, phone string, userID *uint) (*domain.OtpCode, error) {
	code, err := s.generateCode()
	if err != nil {
		return nil, fmt.Errorf("failed to generate OTP code: %w", err)
	}

	otp := &domain.OtpCode{
		Phone:     phone,
		UserID:    userID,
		Code:      code,
		ExpiresAt: time.Now().Add(s.config.TTL),
		IsUsed:    false,
		Attempts:  0,
	}
	if err := s.otpRepo.Create(ctx, otp); err != nil {
		return nil, fmt.Errorf("failed to store OTP: %w", err)
	}

	s.logger.Debug("otp generated", zap.String("phone", phone))
	return otp, nil
}

// Verify implements domain.OTPService. Only the newest unused, unexpired
// code for the phone is trusted. The attempt counter is incremented before
// comparison, so guessing is bounded even when every guess is wrong; once
// the cap is exceeded the row is burned and the correct code fails too. A
// successful match invalidates every other unused code for the phone.
func (s *OTPServiceImpl) Verify(ctx context.Context, phone, code string) (bool, error) {
	otp, err := s.otpRepo.FindUsable(ctx, phone)
	if err != nil {
		if err == domain.ErrOTPInvalid {
			return false, nil
		}
		return false, err
	}

	attempts, err := s.otpRepo.IncrementAttempts(ctx, otp.ID)
	if err != nil {
		return false, err
	}
	if attempts > s.config.MaxAttempts {
		if err := s.otpRepo.MarkUsed(ctx, otp.ID); err != nil {
			return false, err
		}
		s.logger.Warn("otp attempt cap exceeded", zap.String("phone", phone))
		return false, nil
	}

	if otp.Code != code {
		return false, nil
	}

	if err := s.otpRepo.MarkUsed(ctx, otp.ID); err != nil {
		return false, err
	}
	if err := s.otpRepo.InvalidateOthers(ctx, phone, otp.ID); err != nil {
		return false, err
	}
	return true, nil
}

// generateCode produces a uniformly random fixed-width numeric code, e.g.
// 100000-999999 for length 6.
func (s *OTPServiceImpl) generateCode() (string, error) {
	low := int64(1)
	for i := 1; i < s.config.Length; i++ {
		low *= 10
	}
	span := low*10 - low

	n, err := rand.Int(rand.Reader, big.NewInt(span))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d", low+n.Int64()), nil
}
