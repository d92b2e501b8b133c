package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Mirxonjon/charge-one-backend/domain"
)

// secretScanLimit caps the newest-first hash-compare scan over pending
// registration/reset tokens.
const secretScanLimit = 50

// AuthServiceImpl implements domain.AuthService
type AuthServiceImpl struct {
	userRepo     domain.UserRepository
	roleRepo     domain.RoleRepository
	secretRepo   domain.SecretTokenRepository
	otpSvc       domain.OTPService
	sessionSvc   domain.SessionService
	passwordSvc  domain.PasswordService
	hasher       domain.SecretHasher
	smsSvc       domain.SmsService
	loginLimiter domain.RateLimiter
	tokenTTL     time.Duration
	logger       *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo domain.UserRepository,
	roleRepo domain.RoleRepository,
	secretRepo domain.SecretTokenRepository,
	otpSvc domain.OTPService,
	sessionSvc domain.SessionService,
	passwordSvc domain.PasswordService,
	hasher domain.SecretHasher,
	smsSvc domain.SmsService,
	loginLimiter domain.RateLimiter,
	tokenTTL time.Duration,
	logger *zap.Logger,
) domain.AuthService {
	return &AuthServiceImpl{
		userRepo:     userRepo,
		roleRepo:     roleRepo,
		secretRepo:   secretRepo,
		otpSvc:       otpSvc,
		sessionSvc:   sessionSvc,
		passwordSvc:  passwordSvc,
		hasher:       hasher,
		smsSvc:       smsSvc,
		loginLimiter: loginLimiter,
		tokenTTL:     tokenTTL,
		logger:       logger,
	}
}

// Register implements domain.AuthService. The user row is created lazily on
// the first OTP request; SMS delivery is best-effort and never fails the
// request.
func (s *AuthServiceImpl) Register(ctx context.Context, phone string) error {
	if err := s.otpSvc.AssertRateLimit(ctx, phone); err != nil {
		return err
	}

	user, err := s.findOrCreateUser(ctx, phone)
	if err != nil {
		return err
	}

	otp, err := s.otpSvc.Generate(ctx, phone, &user.ID)
	if err != nil {
		return err
	}

	s.sendOtpBestEffort(phone, otp.Code)
	return nil
}

// VerifyRegistration implements domain.AuthService. OTP verification
// completes login; when the user has not set a password yet, a single-use
// registration token is handed out alongside the session for the later
// password-set step.
func (s *AuthServiceImpl) VerifyRegistration(ctx context.Context, phone, code string, device domain.DeviceInfo) (*domain.RegistrationResult, error) {
	user, err := s.findOrCreateUser(ctx, phone)
	if err != nil {
		return nil, err
	}

	ok, err := s.otpSvc.Verify(ctx, phone, code)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrOTPInvalid
	}

	if !user.IsVerified {
		if err := s.userRepo.MarkVerified(ctx, user.ID); err != nil {
			return nil, err
		}
	}

	tokens, err := s.sessionSvc.Issue(ctx, user.ID, device)
	if err != nil {
		return nil, err
	}

	result := &domain.RegistrationResult{Tokens: tokens}
	if !user.HasPassword() {
		raw, err := s.issueSecretToken(ctx, user.ID, domain.TokenKindRegistration)
		if err != nil {
			return nil, err
		}
		result.RegistrationToken = raw
	}
	return result, nil
}

// CompleteRegistration implements domain.AuthService. Consuming the token,
// setting the password and purging expired siblings happen in one
// transaction inside the repository.
func (s *AuthServiceImpl) CompleteRegistration(ctx context.Context, registrationToken, password, firstName, lastName string, device domain.DeviceInfo) (*domain.AuthTokens, error) {
	matched, err := s.matchSecretToken(ctx, domain.TokenKindRegistration, registrationToken)
	if err != nil {
		return nil, err
	}

	hash, err := s.passwordSvc.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.secretRepo.ConsumeWithPassword(ctx, matched, hash); err != nil {
		return nil, err
	}

	if firstName != "" || lastName != "" {
		user, err := s.userRepo.FindByID(ctx, matched.UserID)
		if err == nil {
			user.FirstName = firstName
			user.LastName = lastName
			if err := s.userRepo.Update(ctx, user); err != nil {
				s.logger.Warn("profile update failed", zap.Uint("user_id", user.ID), zap.Error(err))
			}
		}
	}

	return s.sessionSvc.Issue(ctx, matched.UserID, device)
}

// RequestLoginOtp implements domain.AuthService. The code is linked to the
// user when one exists, but existence is never revealed to the caller.
func (s *AuthServiceImpl) RequestLoginOtp(ctx context.Context, phone string) error {
	if err := s.otpSvc.AssertRateLimit(ctx, phone); err != nil {
		return err
	}

	var userID *uint
	if user, err := s.userRepo.FindByPhone(ctx, phone); err == nil {
		userID = &user.ID
	}

	otp, err := s.otpSvc.Generate(ctx, phone, userID)
	if err != nil {
		return err
	}

	s.sendOtpBestEffort(phone, otp.Code)
	return nil
}

// LoginWithOtp implements domain.AuthService
func (s *AuthServiceImpl) LoginWithOtp(ctx context.Context, phone, code string, device domain.DeviceInfo) (*domain.AuthTokens, error) {
	ok, err := s.otpSvc.Verify(ctx, phone, code)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.findOrCreateUser(ctx, phone)
	if err != nil {
		return nil, err
	}
	return s.sessionSvc.Issue(ctx, user.ID, device)
}

// LoginWithPassword implements domain.AuthService. Failures are uniformly
// reported as invalid credentials: an absent user, an unset password and a
// mismatch are indistinguishable to the caller.
func (s *AuthServiceImpl) LoginWithPassword(ctx context.Context, phone, password string, device domain.DeviceInfo) (*domain.AuthTokens, error) {
	if err := s.assertLoginLimit(ctx, phone, device.IP); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByPhone(ctx, phone)
	if err != nil {
		if err == domain.ErrUserNotFound {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.HasPassword() || !s.passwordSvc.Verify(user.PasswordHash, password) {
		return nil, domain.ErrInvalidCredentials
	}

	return s.sessionSvc.Issue(ctx, user.ID, device)
}

// Refresh implements domain.AuthService
func (s *AuthServiceImpl) Refresh(ctx context.Context, refreshToken string, device domain.DeviceInfo) (*domain.AuthTokens, error) {
	return s.sessionSvc.Refresh(ctx, refreshToken, device)
}

// Logout implements domain.AuthService
func (s *AuthServiceImpl) Logout(ctx context.Context, userID uint) error {
	return s.sessionSvc.RevokeAll(ctx, userID)
}

// ForgotPassword implements domain.AuthService. Unknown phones succeed
// silently; the SMS is only sent when the user exists.
func (s *AuthServiceImpl) ForgotPassword(ctx context.Context, phone string) error {
	if err := s.otpSvc.AssertRateLimit(ctx, phone); err != nil {
		return err
	}

	user, err := s.userRepo.FindByPhone(ctx, phone)
	if err != nil {
		if err == domain.ErrUserNotFound {
			return nil
		}
		return err
	}

	otp, err := s.otpSvc.Generate(ctx, phone, &user.ID)
	if err != nil {
		return err
	}

	s.sendOtpBestEffort(phone, otp.Code)
	return nil
}

// VerifyResetOtp implements domain.AuthService. An unknown phone and a wrong
// code fail identically so the response shape reveals nothing.
func (s *AuthServiceImpl) VerifyResetOtp(ctx context.Context, phone, code string) (string, error) {
	user, err := s.userRepo.FindByPhone(ctx, phone)
	if err != nil {
		if err == domain.ErrUserNotFound {
			return "", domain.ErrOTPInvalid
		}
		return "", err
	}

	ok, err := s.otpSvc.Verify(ctx, phone, code)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", domain.ErrOTPInvalid
	}

	return s.issueSecretToken(ctx, user.ID, domain.TokenKindPasswordReset)
}

// SetNewPassword implements domain.AuthService
func (s *AuthServiceImpl) SetNewPassword(ctx context.Context, resetToken, newPassword string, device domain.DeviceInfo) (*domain.AuthTokens, error) {
	matched, err := s.matchSecretToken(ctx, domain.TokenKindPasswordReset, resetToken)
	if err != nil {
		return nil, err
	}

	hash, err := s.passwordSvc.Hash(newPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.secretRepo.ConsumeWithPassword(ctx, matched, hash); err != nil {
		return nil, err
	}

	return s.sessionSvc.Issue(ctx, matched.UserID, device)
}

// CreateAdmin implements domain.AuthService. Admin accounts bypass OTP and
// are verified at creation. Duplicate phones surface as a conflict; the
// route is itself ADMIN-gated, so the disclosure is acceptable.
func (s *AuthServiceImpl) CreateAdmin(ctx context.Context, phone, password, firstName, lastName string) (*domain.User, error) {
	if _, err := s.userRepo.FindByPhone(ctx, phone); err == nil {
		return nil, domain.ErrUserAlreadyExists
	} else if err != domain.ErrUserNotFound {
		return nil, err
	}

	role, err := s.roleRepo.Ensure(ctx, domain.RoleAdmin)
	if err != nil {
		return nil, err
	}

	hash, err := s.passwordSvc.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Phone:        phone,
		PasswordHash: hash,
		IsVerified:   true,
		FirstName:    firstName,
		LastName:     lastName,
		RoleID:       role.ID,
		Role:         *role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("admin created", zap.Uint("user_id", user.ID))
	return user, nil
}

// AdminLogin implements domain.AuthService. A missing user, a non-admin role
// and a wrong password all fail the same way.
func (s *AuthServiceImpl) AdminLogin(ctx context.Context, phone, password string, device domain.DeviceInfo) (*domain.AuthTokens, error) {
	if err := s.assertLoginLimit(ctx, phone, device.IP); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByPhone(ctx, phone)
	if err != nil {
		if err == domain.ErrUserNotFound {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if user.Role.Name != domain.RoleAdmin {
		return nil, domain.ErrInvalidCredentials
	}
	if !user.HasPassword() || !s.passwordSvc.Verify(user.PasswordHash, password) {
		return nil, domain.ErrInvalidCredentials
	}

	return s.sessionSvc.Issue(ctx, user.ID, device)
}

// GetUserProfile implements domain.AuthService
func (s *AuthServiceImpl) GetUserProfile(ctx context.Context, userID uint) (*domain.User, error) {
	return s.userRepo.FindByID(ctx, userID)
}

func (s *AuthServiceImpl) findOrCreateUser(ctx context.Context, phone string) (*domain.User, error) {
	user, err := s.userRepo.FindByPhone(ctx, phone)
	if err == nil {
		return user, nil
	}
	if err != domain.ErrUserNotFound {
		return nil, err
	}

	role, err := s.roleRepo.Ensure(ctx, domain.RoleUser)
	if err != nil {
		return nil, err
	}
	user = &domain.User{
		Phone:  phone,
		RoleID: role.ID,
		Role:   *role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// Lost a concurrent create race; the row exists now.
		if existing, lookupErr := s.userRepo.FindByPhone(ctx, phone); lookupErr == nil {
			return existing, nil
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthServiceImpl) assertLoginLimit(ctx context.Context, phone, ip string) error {
	allowed, retryAfter, err := s.loginLimiter.Allow(ctx, phone+":"+ip)
	if err != nil {
		return err
	}
	if !allowed {
		s.logger.Warn("login rate limited",
			zap.String("phone", phone),
			zap.String("ip", ip),
			zap.Duration("retry_after", retryAfter))
		return domain.ErrLoginRateLimited
	}
	return nil
}

// sendOtpBestEffort delivers the code out-of-band. Provider failures are
// swallowed: the code exists in storage regardless of delivery.
func (s *AuthServiceImpl) sendOtpBestEffort(phone, code string) {
	message := fmt.Sprintf("Your ChargeOne verification code is: %s", code)
	if err := s.smsSvc.SendSMS(phone, message); err != nil {
		s.logger.Warn("sms delivery failed", zap.String("phone", phone), zap.Error(err))
	}
}

// issueSecretToken mints a 32-byte random secret, persists only its hash and
// returns the plaintext exactly once.
func (s *AuthServiceImpl) issueSecretToken(ctx context.Context, userID uint, kind domain.TokenKind) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	raw := hex.EncodeToString(buf)

	hash, err := s.hasher.Hash(raw)
	if err != nil {
		return "", err
	}

	token := &domain.SecretToken{
		UserID:    userID,
		Kind:      kind,
		TokenHash: hash,
		ExpiresAt: time.Now().Add(s.tokenTTL),
	}
	if err := s.secretRepo.Create(ctx, token); err != nil {
		return "", err
	}
	return raw, nil
}

// matchSecretToken hash-compares the presented secret against active tokens
// newest-first.
func (s *AuthServiceImpl) matchSecretToken(ctx context.Context, kind domain.TokenKind, presented string) (*domain.SecretToken, error) {
	candidates, err := s.secretRepo.FindActive(ctx, kind, secretScanLimit)
	if err != nil {
		return nil, err
	}
	for i := range candidates {
		if s.hasher.Compare(candidates[i].TokenHash, presented) {
			return &candidates[i], nil
		}
	}
	return nil, domain.ErrSecretTokenInvalid
}
