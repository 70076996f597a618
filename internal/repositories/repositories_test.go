package repositories

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/storycircle/backend/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens an in-memory database with the full schema and the
// built-in roles seeded.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Role{},
		&models.User{},
		&models.Follow{},
		&models.Like{},
		&models.Comment{},
		&models.Message{},
		&models.Notification{},
		&models.Post{},
		&models.Blog{},
		&models.Platform{},
	))

	require.NoError(t, NewPostgresRoleRepository(db).SeedRoles(context.Background()))
	return db
}

// createTestUser registers a user through the repository so role resolution
// and self-follow seeding run the same way they do in production.
func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	repo := NewPostgresUserRepository(db, "")
	user := &models.User{
		Username: username,
		Email:    fmt.Sprintf("%s@example.com", username),
		Password: "$2a$10$abcdefghijklmnopqrstuvwxyz012345678901234567890123456",
	}
	require.NoError(t, repo.CreateUser(context.Background(), user))
	return user
}
