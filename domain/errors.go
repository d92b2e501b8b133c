package domain

import "errors"

// Authentication errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserAlreadyExists  = errors.New("user already exists")
)

// OTP errors
var (
	ErrOTPInvalid     = errors.New("invalid or expired otp")
	ErrOTPMaxAttempts = errors.New("maximum otp attempts exceeded")
	ErrOTPResendLimit = errors.New("please wait before requesting another otp")
)

// Token and session errors
var (
	ErrTokenInvalid       = errors.New("invalid token")
	ErrSessionExpired     = errors.New("session has expired")
	ErrSecretTokenInvalid = errors.New("invalid or expired token")
)

// Rate limiting and authorization errors
var (
	ErrLoginRateLimited = errors.New("too many login attempts")
	ErrInsufficientRole = errors.New("insufficient role")
)
