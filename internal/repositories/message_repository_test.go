package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/storycircle/backend/internal/models"
	"gorm.io/gorm"
)

func TestSendAndUnreadCount(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewPostgresMessageRepository(db)

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	for _, body := range []string{"one", "two", "three"} {
		_, err := repo.Send(ctx, alice.ID, bob.ID, body)
		require.NoError(t, err)
	}

	count, err := repo.UnreadCount(ctx, bob.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)

	// the sender's own feed is untouched
	count, err = repo.UnreadCount(ctx, alice.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)
}

func TestSendToUnknownRecipient(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewPostgresMessageRepository(db)

	alice := createTestUser(t, db, "alice")

	_, err := repo.Send(ctx, alice.ID, 9999, "hello")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// nothing was committed
	var total int64
	require.NoError(t, db.Model(&models.Message{}).Count(&total).Error)
	assert.EqualValues(t, 0, total)
}

func TestMarkReadResetsUnread(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewPostgresMessageRepository(db)

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	_, err := repo.Send(ctx, alice.ID, bob.ID, "hello")
	require.NoError(t, err)

	require.NoError(t, repo.MarkRead(ctx, bob.ID))

	count, err := repo.UnreadCount(ctx, bob.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)

	assert.ErrorIs(t, repo.MarkRead(ctx, 9999), gorm.ErrRecordNotFound)
}

func TestSendRefreshesCounterNotification(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	messageRepo := NewPostgresMessageRepository(db)
	notifRepo := NewPostgresNotificationRepository(db)

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	_, err := messageRepo.Send(ctx, alice.ID, bob.ID, "hello")
	require.NoError(t, err)

	notifs, err := notifRepo.FetchSince(ctx, bob.ID, 0)
	require.NoError(t, err)
	require.Len(t, notifs, 1)
	assert.Equal(t, models.NotificationUnreadMessages, notifs[0].Name)

	var unread int64
	require.NoError(t, notifs[0].Data(&unread))
	assert.EqualValues(t, 1, unread)

	// reading the feed rewrites the same notification with zero
	require.NoError(t, messageRepo.MarkRead(ctx, bob.ID))

	notifs, err = notifRepo.FetchSince(ctx, bob.ID, 0)
	require.NoError(t, err)
	require.Len(t, notifs, 1)
	require.NoError(t, notifs[0].Data(&unread))
	assert.EqualValues(t, 0, unread)
}

func TestGetReceivedAndSentNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewPostgresMessageRepository(db)

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	for _, body := range []string{"first", "second", "third"} {
		_, err := repo.Send(ctx, alice.ID, bob.ID, body)
		require.NoError(t, err)
		time.Sleep(5 * time.Millisecond)
	}

	received, total, err := repo.GetReceived(ctx, bob.ID, 1, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, received, 2)
	assert.Equal(t, "third", received[0].Body)
	assert.Equal(t, "second", received[1].Body)

	sent, total, err := repo.GetSent(ctx, alice.ID, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Equal(t, "third", sent[0].Body)

	// bob has sent nothing
	sent, total, err = repo.GetSent(ctx, bob.ID, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 0, total)
	assert.Empty(t, sent)
}
