package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mirxonjon/charge-one-backend/domain"
)

func TestUserRepository_FindByPhone(t *testing.T) {
	db := openTestDB(t)
	userRepo := NewUserRepository(db)
	roleRepo := NewRoleRepository(db)
	ctx := testContext(t)

	_, err := userRepo.FindByPhone(ctx, "+15550000020")
	assert.Equal(t, domain.ErrUserNotFound, err)

	role, err := roleRepo.Ensure(ctx, domain.RoleUser)
	require.NoError(t, err)

	user := &domain.User{Phone: "+15550000020", RoleID: role.ID}
	require.NoError(t, userRepo.Create(ctx, user))
	require.NotZero(t, user.ID)

	found, err := userRepo.FindByPhone(ctx, "+15550000020")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)
	assert.Equal(t, domain.RoleUser, found.Role.Name, "role must be preloaded")
	assert.False(t, found.IsVerified)
}

func TestUserRepository_MarkVerified(t *testing.T) {
	db := openTestDB(t)
	userRepo := NewUserRepository(db)
	roleRepo := NewRoleRepository(db)
	ctx := testContext(t)

	role, err := roleRepo.Ensure(ctx, domain.RoleUser)
	require.NoError(t, err)
	user := &domain.User{Phone: "+15550000021", RoleID: role.ID}
	require.NoError(t, userRepo.Create(ctx, user))

	require.NoError(t, userRepo.MarkVerified(ctx, user.ID))

	found, err := userRepo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, found.IsVerified)
}

func TestRoleRepository_EnsureIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	roleRepo := NewRoleRepository(db)
	ctx := testContext(t)

	first, err := roleRepo.Ensure(ctx, domain.RoleAdmin)
	require.NoError(t, err)
	second, err := roleRepo.Ensure(ctx, domain.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, db.Model(&DBRole{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}
