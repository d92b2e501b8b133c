package domain

import "time"

// User represents an account in the charging marketplace
type User struct {
	ID           uint
	Phone        string
	PasswordHash string
	IsVerified   bool
	FirstName    string
	LastName     string
	BirthDate    *time.Time
	RoleID       uint
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasPassword reports whether the user completed the password-set step.
func (u *User) HasPassword() bool {
	return u.PasswordHash != ""
}

// Role is looked up or created idempotently by name
type Role struct {
	ID   uint
	Name RoleName
}

// OtpCode is a one-time code bound to a phone number. At most one usable
// (unused, unexpired) code is trusted per phone: the newest one.
type OtpCode struct {
	ID        uint
	Phone     string
	UserID    *uint
	Code      string
	ExpiresAt time.Time
	IsUsed    bool
	Attempts  int
	CreatedAt time.Time
}

// Expired reports whether the code's TTL has passed at the given instant.
func (o *OtpCode) Expired(now time.Time) bool {
	return o.ExpiresAt.Before(now)
}

// Session is a persisted refresh-token record. Only the one-way hash of the
// refresh token is stored, never the plaintext.
type Session struct {
	ID          uint
	UserID      uint
	RefreshHash string
	IPAddress   string
	UserAgent   string
	ExpiresAt   time.Time
	CreatedAt   time.Time
}

// TokenKind discriminates single-use opaque secrets
type TokenKind string

const (
	TokenKindRegistration  TokenKind = "registration"
	TokenKindPasswordReset TokenKind = "password_reset"
)

// SecretToken is a short-lived single-use secret bridging a verified OTP
// step to a later password-set step. The plaintext is handed to the client
// exactly once; only the hash is persisted.
type SecretToken struct {
	ID        uint
	UserID    uint
	Kind      TokenKind
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// DeviceInfo identifies the client device a session belongs to
type DeviceInfo struct {
	IP        string
	UserAgent string
}

// AuthTokens is the outcome of a successful sign-in or refresh
type AuthTokens struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int64  `json:"expiresIn"`
}

// RegistrationResult carries tokens plus the optional password-set handoff.
// RegistrationToken is empty when the user already has a password.
type RegistrationResult struct {
	Tokens            *AuthTokens
	RegistrationToken string
}

// TokenClaims represents decoded JWT claims
type TokenClaims struct {
	UserID    uint
	TokenType string
	IssuedAt  int64
	ExpiresAt int64
}
