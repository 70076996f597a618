package repositories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/storycircle/backend/internal/models"
	"gorm.io/gorm"
)

func TestSeedRolesIsRepeatable(t *testing.T) {
	db := setupTestDB(t) // seeds once
	ctx := context.Background()
	repo := NewPostgresRoleRepository(db)

	// drift the stored permissions, reseed, and expect the canonical set back
	require.NoError(t, db.Model(&models.Role{}).
		Where("name = ?", "User").Update("permissions", 0).Error)
	require.NoError(t, repo.SeedRoles(ctx))

	var total int64
	require.NoError(t, db.Model(&models.Role{}).Count(&total).Error)
	assert.EqualValues(t, 3, total)

	user, err := repo.GetRoleByName(ctx, "User")
	require.NoError(t, err)
	assert.True(t, user.HasPermission(models.PermissionFollow))
	assert.True(t, user.HasPermission(models.PermissionComment))
	assert.True(t, user.HasPermission(models.PermissionWrite))
	assert.False(t, user.HasPermission(models.PermissionModerate))

	moderator, err := repo.GetRoleByName(ctx, "Moderator")
	require.NoError(t, err)
	assert.True(t, moderator.HasPermission(models.PermissionModerate))
	assert.False(t, moderator.HasPermission(models.PermissionAdmin))

	admin, err := repo.GetRoleByName(ctx, "Administrator")
	require.NoError(t, err)
	assert.True(t, admin.HasPermission(models.PermissionAdmin))
}

func TestGetDefaultRole(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewPostgresRoleRepository(db)

	role, err := repo.GetDefaultRole(ctx)
	require.NoError(t, err)
	assert.Equal(t, "User", role.Name)
	assert.True(t, role.Default)

	_, err = repo.GetRoleByName(ctx, "Superuser")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
