package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mirxonjon/charge-one-backend/domain"
)

func TestOTPService_GenerateProducesFixedWidthCode(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	otp, err := f.otpSvc.Generate(ctx, "+15551000001", nil)
	require.NoError(t, err)
	assert.Len(t, otp.Code, 6)
	assert.Regexp(t, `^\d{6}$`, otp.Code)
	assert.False(t, otp.IsUsed)
	assert.Zero(t, otp.Attempts)
}

func TestOTPService_ResendWindow(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	require.NoError(t, f.otpSvc.AssertRateLimit(ctx, "+15551000002"), "no prior code, no limit")

	_, err := f.otpSvc.Generate(ctx, "+15551000002", nil)
	require.NoError(t, err)

	err = f.otpSvc.AssertRateLimit(ctx, "+15551000002")
	assert.ErrorIs(t, err, domain.ErrOTPResendLimit)

	// A different phone is unaffected.
	assert.NoError(t, f.otpSvc.AssertRateLimit(ctx, "+15551000003"))
}

func TestOTPService_VerifyIsSingleUse(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	otp, err := f.otpSvc.Generate(ctx, "+15551000004", nil)
	require.NoError(t, err)

	ok, err := f.otpSvc.Verify(ctx, "+15551000004", otp.Code)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.otpSvc.Verify(ctx, "+15551000004", otp.Code)
	require.NoError(t, err)
	assert.False(t, ok, "a consumed code must not verify twice")
}

func TestOTPService_WrongCodeThenRightCode(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	otp, err := f.otpSvc.Generate(ctx, "+15551000005", nil)
	require.NoError(t, err)

	ok, err := f.otpSvc.Verify(ctx, "+15551000005", "000000")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = f.otpSvc.Verify(ctx, "+15551000005", otp.Code)
	require.NoError(t, err)
	assert.True(t, ok, "a wrong guess under the cap must not burn the code")
}

func TestOTPService_AttemptCapBurnsCodePermanently(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	otp, err := f.otpSvc.Generate(ctx, "+15551000006", nil)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		ok, err := f.otpSvc.Verify(ctx, "+15551000006", "000000")
		require.NoError(t, err)
		assert.False(t, ok)
	}

	// The 6th attempt exceeds the cap even with the right code.
	ok, err := f.otpSvc.Verify(ctx, "+15551000006", otp.Code)
	require.NoError(t, err)
	assert.False(t, ok)

	// And the burn is permanent.
	ok, err = f.otpSvc.Verify(ctx, "+15551000006", otp.Code)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestOTPService_SuccessInvalidatesSiblings(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	older, err := f.otpSvc.Generate(ctx, "+15551000007", nil)
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)
	newer, err := f.otpSvc.Generate(ctx, "+15551000007", nil)
	require.NoError(t, err)

	ok, err := f.otpSvc.Verify(ctx, "+15551000007", newer.Code)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = f.otpSvc.Verify(ctx, "+15551000007", older.Code)
	require.NoError(t, err)
	assert.False(t, ok, "success must invalidate every other pending code")
}

func TestOTPService_OnlyNewestCodeIsTrusted(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	older, err := f.otpSvc.Generate(ctx, "+15551000008", nil)
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)
	_, err = f.otpSvc.Generate(ctx, "+15551000008", nil)
	require.NoError(t, err)

	ok, err := f.otpSvc.Verify(ctx, "+15551000008", older.Code)
	require.NoError(t, err)
	assert.False(t, ok, "an older code must not verify once a newer one exists")
}

func TestOTPService_VerifyWithoutCodeFailsClosed(t *testing.T) {
	f := newAuthFixture(t)

	ok, err := f.otpSvc.Verify(context.Background(), "+15551000009", "123456")
	require.NoError(t, err)
	assert.False(t, ok)
}
