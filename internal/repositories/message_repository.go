package repositories

import (
	"context"
	"time"

	"github.com/storycircle/backend/internal/models"
	"gorm.io/gorm"
)

// MessageRepository defines the interface for private messages and the unread
// counter driven by them. Messages are append-only.
type MessageRepository interface {
	Send(ctx context.Context, senderID, recipientID uint, body string) (*models.Message, error)
	UnreadCount(ctx context.Context, userID uint) (int64, error)
	MarkRead(ctx context.Context, userID uint) error
	GetReceived(ctx context.Context, userID uint, page, pageSize int) ([]models.Message, int64, error)
	GetSent(ctx context.Context, userID uint, page, pageSize int) ([]models.Message, int64, error)
}

// PostgresMessageRepository implements MessageRepository for PostgreSQL
type PostgresMessageRepository struct {
	db *gorm.DB
}

// NewPostgresMessageRepository creates a new PostgresMessageRepository
func NewPostgresMessageRepository(db *gorm.DB) *PostgresMessageRepository {
	return &PostgresMessageRepository{db: db}
}

// Send creates the message and refreshes the recipient's unread counter
// notification in one transaction, so the counter can never miss a committed
// message. Returns gorm.ErrRecordNotFound when the recipient does not exist.
func (r *PostgresMessageRepository) Send(ctx context.Context, senderID, recipientID uint, body string) (*models.Message, error) {
	var message *models.Message
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recipient models.User
		if err := tx.First(&recipient, recipientID).Error; err != nil {
			return err
		}

		message = &models.Message{SenderID: senderID, RecipientID: recipientID, Body: body}
		if err := tx.Create(message).Error; err != nil {
			return err
		}

		count, err := unreadCountTx(tx, &recipient)
		if err != nil {
			return err
		}
		_, err = setNotificationTx(tx, recipientID, models.NotificationUnreadMessages, count)
		return err
	})
	if err != nil {
		return nil, err
	}
	return message, nil
}

// UnreadCount counts messages received after the user's last feed read
func (r *PostgresMessageRepository) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		return 0, err
	}
	return unreadCountTx(r.db.WithContext(ctx), &user)
}

// MarkRead stamps last_message_read_time and zeroes the unread counter
// notification together; a poller can never observe one without the other.
func (r *PostgresMessageRepository) MarkRead(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		res := tx.Model(&models.User{}).Where("id = ?", userID).
			Update("last_message_read_time", now)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		_, err := setNotificationTx(tx, userID, models.NotificationUnreadMessages, 0)
		return err
	})
}

// GetReceived returns messages sent to userID, newest first
func (r *PostgresMessageRepository) GetReceived(ctx context.Context, userID uint, page, pageSize int) ([]models.Message, int64, error) {
	return r.listMessages(ctx, "recipient_id = ?", userID, page, pageSize)
}

// GetSent returns messages sent by userID, newest first
func (r *PostgresMessageRepository) GetSent(ctx context.Context, userID uint, page, pageSize int) ([]models.Message, int64, error) {
	return r.listMessages(ctx, "sender_id = ?", userID, page, pageSize)
}

func (r *PostgresMessageRepository) listMessages(ctx context.Context, cond string, userID uint, page, pageSize int) ([]models.Message, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Message{}).
		Where(cond, userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var messages []models.Message
	err := r.db.WithContext(ctx).Where(cond, userID).
		Order("created_at DESC, id DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&messages).Error
	return messages, total, err
}

// unreadCountTx counts messages newer than the user's last read time, epoch
// start when the user has never read the feed.
func unreadCountTx(tx *gorm.DB, user *models.User) (int64, error) {
	lastRead := time.Unix(0, 0)
	if user.LastMessageReadTime != nil {
		lastRead = *user.LastMessageReadTime
	}
	var count int64
	err := tx.Model(&models.Message{}).
		Where("recipient_id = ? AND created_at > ?", user.ID, lastRead).
		Count(&count).Error
	return count, err
}
