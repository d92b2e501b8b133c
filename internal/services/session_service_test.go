package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mirxonjon/charge-one-backend/domain"
)

func (f *authFixture) seedUser(t *testing.T, phone string) *domain.User {
	t.Helper()
	ctx := context.Background()
	role, err := f.roleRepo.Ensure(ctx, domain.RoleUser)
	require.NoError(t, err)
	user := &domain.User{Phone: phone, RoleID: role.ID}
	require.NoError(t, f.userRepo.Create(ctx, user))
	return user
}

func TestSessionService_IssueStoresHashedSession(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	user := f.seedUser(t, "+15552000001")

	tokens, err := f.sessionSvc.Issue(ctx, user.ID, testDevice)
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)
	assert.EqualValues(t, (15 * time.Minute).Seconds(), tokens.ExpiresIn)

	sessions, err := f.sessionRepo.FindByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.NotEqual(t, tokens.RefreshToken, sessions[0].RefreshHash, "refresh token must be stored hashed")
	assert.Equal(t, testDevice.IP, sessions[0].IPAddress)
}

func TestSessionService_RefreshRotates(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	user := f.seedUser(t, "+15552000002")

	first, err := f.sessionSvc.Issue(ctx, user.ID, testDevice)
	require.NoError(t, err)

	second, err := f.sessionSvc.Refresh(ctx, first.RefreshToken, testDevice)
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	// The rotated token is dead; replaying it must fail.
	_, err = f.sessionSvc.Refresh(ctx, first.RefreshToken, testDevice)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)

	// The fresh token still works.
	_, err = f.sessionSvc.Refresh(ctx, second.RefreshToken, testDevice)
	assert.NoError(t, err)
}

func TestSessionService_RefreshRejectsGarbage(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.sessionSvc.Refresh(context.Background(), "not-a-jwt", testDevice)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestSessionService_RefreshRejectsExpiredSession(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	user := f.seedUser(t, "+15552000003")

	tokens, err := f.sessionSvc.Issue(ctx, user.ID, testDevice)
	require.NoError(t, err)

	// Backdate the stored session past its expiry.
	sessions, err := f.sessionRepo.FindByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	require.NoError(t, f.db.Exec(
		"UPDATE sessions SET expires_at = ? WHERE id = ?",
		time.Now().Add(-time.Hour), sessions[0].ID,
	).Error)

	_, err = f.sessionSvc.Refresh(ctx, tokens.RefreshToken, testDevice)
	assert.ErrorIs(t, err, domain.ErrSessionExpired)
}

func TestSessionService_RevokeAllKillsEveryDevice(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	user := f.seedUser(t, "+15552000004")

	phoneTokens, err := f.sessionSvc.Issue(ctx, user.ID, domain.DeviceInfo{IP: "10.0.0.1", UserAgent: "phone"})
	require.NoError(t, err)
	laptopTokens, err := f.sessionSvc.Issue(ctx, user.ID, domain.DeviceInfo{IP: "10.0.0.2", UserAgent: "laptop"})
	require.NoError(t, err)

	require.NoError(t, f.sessionSvc.RevokeAll(ctx, user.ID))

	_, err = f.sessionSvc.Refresh(ctx, phoneTokens.RefreshToken, testDevice)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
	_, err = f.sessionSvc.Refresh(ctx, laptopTokens.RefreshToken, testDevice)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}
