package repositories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/storycircle/backend/internal/models"
)

func TestSetReplacesNotAppends(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewPostgresNotificationRepository(db)

	user := createTestUser(t, db, "alice")

	first, err := repo.Set(ctx, user.ID, models.NotificationUnreadMessages, 3)
	require.NoError(t, err)

	second, err := repo.Set(ctx, user.ID, models.NotificationUnreadMessages, 5)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, second.Timestamp, first.Timestamp)

	var total int64
	require.NoError(t, db.Model(&models.Notification{}).
		Where("user_id = ? AND name = ?", user.ID, models.NotificationUnreadMessages).
		Count(&total).Error)
	assert.EqualValues(t, 1, total)

	notifs, err := repo.FetchSince(ctx, user.ID, 0)
	require.NoError(t, err)
	require.Len(t, notifs, 1)

	var value int64
	require.NoError(t, notifs[0].Data(&value))
	assert.EqualValues(t, 5, value)
}

func TestSetKeepsOtherNames(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewPostgresNotificationRepository(db)

	user := createTestUser(t, db, "alice")

	_, err := repo.Set(ctx, user.ID, models.NotificationUnreadMessages, 1)
	require.NoError(t, err)
	_, err = repo.Set(ctx, user.ID, "task_progress", map[string]interface{}{"task": "export", "progress": 40})
	require.NoError(t, err)
	_, err = repo.Set(ctx, user.ID, "task_progress", map[string]interface{}{"task": "export", "progress": 80})
	require.NoError(t, err)

	notifs, err := repo.FetchSince(ctx, user.ID, 0)
	require.NoError(t, err)
	assert.Len(t, notifs, 2)
}

func TestFetchSinceIsStrictlyGreater(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewPostgresNotificationRepository(db)

	user := createTestUser(t, db, "alice")

	notif, err := repo.Set(ctx, user.ID, models.NotificationUnreadMessages, 2)
	require.NoError(t, err)

	// polling with the exact timestamp of the last seen notification
	// returns nothing new
	notifs, err := repo.FetchSince(ctx, user.ID, notif.Timestamp)
	require.NoError(t, err)
	assert.Empty(t, notifs)

	notifs, err = repo.FetchSince(ctx, user.ID, notif.Timestamp-1)
	require.NoError(t, err)
	assert.Len(t, notifs, 1)
}

func TestFetchSinceScopedToUser(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewPostgresNotificationRepository(db)

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	_, err := repo.Set(ctx, alice.ID, models.NotificationUnreadMessages, 1)
	require.NoError(t, err)

	notifs, err := repo.FetchSince(ctx, bob.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, notifs)
}
