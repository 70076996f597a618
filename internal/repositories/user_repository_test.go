package repositories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/storycircle/backend/internal/models"
	"gorm.io/gorm"
)

func TestCreateUserAssignsDefaultRole(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	user := createTestUser(t, db, "alice")

	loaded, err := NewPostgresUserRepository(db, "").GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded.Role)
	assert.Equal(t, "User", loaded.Role.Name)
	assert.True(t, loaded.Can(models.PermissionWrite))
	assert.False(t, loaded.IsAdmin())
	assert.False(t, loaded.LastSeen.IsZero())
}

func TestCreateUserAdminEmailGetsAdministrator(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	repo := NewPostgresUserRepository(db, "root@example.com")
	user := &models.User{Username: "root", Email: "root@example.com", Password: "hash"}
	require.NoError(t, repo.CreateUser(ctx, user))

	loaded, err := repo.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded.Role)
	assert.Equal(t, "Administrator", loaded.Role.Name)
	assert.True(t, loaded.IsAdmin())
}

func TestCreateUserSeedsSelfFollow(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	user := createTestUser(t, db, "alice")

	following, err := NewPostgresFollowRepository(db).IsFollowing(ctx, user.ID, user.ID)
	require.NoError(t, err)
	assert.True(t, following)
}

func TestGetUserByEmailAndUsername(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewPostgresUserRepository(db, "")

	user := createTestUser(t, db, "alice")

	byEmail, err := repo.GetUserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	byName, err := repo.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byName.ID)

	_, err = repo.GetUserByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUpdatePassword(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewPostgresUserRepository(db, "")

	user := createTestUser(t, db, "alice")
	require.NoError(t, repo.UpdatePassword(ctx, user.ID, "newhash"))

	loaded, err := repo.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "newhash", loaded.Password)
}

func TestSearchUsers(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewPostgresUserRepository(db, "")

	createTestUser(t, db, "alice")
	createTestUser(t, db, "alicia")
	createTestUser(t, db, "bob")

	found, err := repo.SearchUsers(ctx, "ALI")
	require.NoError(t, err)
	assert.Len(t, found, 2)

	found, err = repo.SearchUsers(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "bob", found[0].Username)
}
