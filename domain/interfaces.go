package domain

import (
	"context"
	"time"
)

// UserRepository defines user data access operations
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	FindByPhone(ctx context.Context, phone string) (*User, error)
	FindByID(ctx context.Context, id uint) (*User, error)
	Update(ctx context.Context, user *User) error
	MarkVerified(ctx context.Context, userID uint) error
}

// RoleRepository defines role lookup-or-create by name
type RoleRepository interface {
	Ensure(ctx context.Context, name RoleName) (*Role, error)
}

// OtpRepository defines OTP row persistence
type OtpRepository interface {
	Create(ctx context.Context, otp *OtpCode) error
	// FindLatest returns the newest row for the phone regardless of state,
	// or ErrOTPInvalid when none exists.
	FindLatest(ctx context.Context, phone string) (*OtpCode, error)
	// FindUsable returns the newest unused, unexpired row for the phone,
	// or ErrOTPInvalid when none exists.
	FindUsable(ctx context.Context, phone string) (*OtpCode, error)
	// IncrementAttempts bumps the attempt counter and returns the new value.
	IncrementAttempts(ctx context.Context, id uint) (int, error)
	MarkUsed(ctx context.Context, id uint) error
	// InvalidateOthers marks every unused row for the phone except the given
	// one as used.
	InvalidateOthers(ctx context.Context, phone string, exceptID uint) error
}

// SessionRepository defines refresh-session persistence
type SessionRepository interface {
	Create(ctx context.Context, session *Session) error
	// FindByUser returns the user's sessions ordered newest-first.
	FindByUser(ctx context.Context, userID uint) ([]Session, error)
	Delete(ctx context.Context, id uint) error
	DeleteByUser(ctx context.Context, userID uint) error
	DeleteExpired(ctx context.Context) error
}

// SecretTokenRepository defines single-use opaque token persistence
type SecretTokenRepository interface {
	Create(ctx context.Context, token *SecretToken) error
	// FindActive returns unexpired tokens of a kind, newest-first, capped.
	FindActive(ctx context.Context, kind TokenKind, limit int) ([]SecretToken, error)
	// ConsumeWithPassword atomically sets the owner's password hash, marks
	// the owner verified, deletes the token and purges the owner's expired
	// tokens of the same kind.
	ConsumeWithPassword(ctx context.Context, token *SecretToken, passwordHash string) error
}

// PasswordService defines password hashing operations
type PasswordService interface {
	Hash(password string) (string, error)
	Verify(hashedPassword, password string) bool
}

// SecretHasher defines one-way hashing for refresh tokens and opaque secrets
type SecretHasher interface {
	Hash(secret string) (string, error)
	Compare(hash, secret string) bool
}

// TokenService defines JWT operations
type TokenService interface {
	GenerateAccessToken(userID uint) (string, error)
	GenerateRefreshToken(userID uint) (string, error)
	ValidateAccessToken(token string) (*TokenClaims, error)
	ValidateRefreshToken(token string) (*TokenClaims, error)
	AccessTTL() time.Duration
	RefreshTTL() time.Duration
}

// SmsService delivers codes out-of-band. Callers on auth flows treat
// delivery as best-effort and are permitted to ignore the error.
type SmsService interface {
	SendSMS(to, message string) error
}

// RateLimiter is a sliding-window counter keyed by an opaque composite key.
// Allow consumes one attempt.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (allowed bool, retryAfter time.Duration, err error)
}

// OTPService defines the OTP engine
type OTPService interface {
	AssertRateLimit(ctx context.Context, phone string) error
	Generate(ctx context.Context, phone string, userID *uint) (*OtpCode, error)
	Verify(ctx context.Context, phone, code string) (bool, error)
}

// SessionService issues, rotates and revokes refresh sessions
type SessionService interface {
	Issue(ctx context.Context, userID uint, device DeviceInfo) (*AuthTokens, error)
	Refresh(ctx context.Context, refreshToken string, device DeviceInfo) (*AuthTokens, error)
	RevokeAll(ctx context.Context, userID uint) error
}

// AuthService composes the auth flows exposed to the transport layer
type AuthService interface {
	Register(ctx context.Context, phone string) error
	VerifyRegistration(ctx context.Context, phone, code string, device DeviceInfo) (*RegistrationResult, error)
	CompleteRegistration(ctx context.Context, registrationToken, password, firstName, lastName string, device DeviceInfo) (*AuthTokens, error)
	RequestLoginOtp(ctx context.Context, phone string) error
	LoginWithOtp(ctx context.Context, phone, code string, device DeviceInfo) (*AuthTokens, error)
	LoginWithPassword(ctx context.Context, phone, password string, device DeviceInfo) (*AuthTokens, error)
	Refresh(ctx context.Context, refreshToken string, device DeviceInfo) (*AuthTokens, error)
	Logout(ctx context.Context, userID uint) error
	ForgotPassword(ctx context.Context, phone string) error
	VerifyResetOtp(ctx context.Context, phone, code string) (string, error)
	SetNewPassword(ctx context.Context, resetToken, newPassword string, device DeviceInfo) (*AuthTokens, error)
	CreateAdmin(ctx context.Context, phone, password, firstName, lastName string) (*User, error)
	AdminLogin(ctx context.Context, phone, password string, device DeviceInfo) (*AuthTokens, error)
	GetUserProfile(ctx context.Context, userID uint) (*User, error)
}
