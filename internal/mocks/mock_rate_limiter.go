package mocks

import (
	"context"
	"time"

	"github.com/Mirxonjon/charge-one-backend/domain"
)

// MockRateLimiter implements domain.RateLimiter for testing
type MockRateLimiter struct {
	AllowFunc func(ctx context.Context, key string) (bool, time.Duration, error)
	Keys      []string
}

// NewMockRateLimiter creates a new MockRateLimiter with default behaviors
func NewMockRateLimiter() *MockRateLimiter {
	return &MockRateLimiter{}
}

// Allow records the key and delegates to AllowFunc when set
func (m *MockRateLimiter) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	m.Keys = append(m.Keys, key)
	if m.AllowFunc != nil {
		return m.AllowFunc(ctx, key)
	}
	// Default behavior: always allowed
	return true, 0, nil
}

// Compile-time interface compliance verification
var _ domain.RateLimiter = (*MockRateLimiter)(nil)
