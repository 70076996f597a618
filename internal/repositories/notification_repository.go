package repositories

import (
	"context"
	"encoding/json"
	"time"

	"github.com/storycircle/backend/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// NotificationRepository defines the interface for notification operations.
// Notifications are latest-value-wins: Set replaces any live row under the
// same name rather than appending to a log.
type NotificationRepository interface {
	Set(ctx context.Context, userID uint, name string, payload interface{}) (*models.Notification, error)
	FetchSince(ctx context.Context, userID uint, since float64) ([]models.Notification, error)
}

// PostgresNotificationRepository implements NotificationRepository for PostgreSQL
type PostgresNotificationRepository struct {
	db *gorm.DB
}

// NewPostgresNotificationRepository creates a new PostgresNotificationRepository
func NewPostgresNotificationRepository(db *gorm.DB) *PostgresNotificationRepository {
	return &PostgresNotificationRepository{db: db}
}

// Set replaces the notification under name with a fresh timestamp and payload
func (r *PostgresNotificationRepository) Set(ctx context.Context, userID uint, name string, payload interface{}) (*models.Notification, error) {
	var n *models.Notification
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		n, err = setNotificationTx(tx, userID, name, payload)
		return err
	})
	if err != nil {
		return nil, err
	}
	return n, nil
}

// FetchSince returns the user's notifications strictly newer than the cutoff,
// ascending by timestamp. Each call is a fresh point-in-time snapshot.
func (r *PostgresNotificationRepository) FetchSince(ctx context.Context, userID uint, since float64) ([]models.Notification, error) {
	var notifications []models.Notification
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND timestamp > ?", userID, since).
		Order("timestamp ASC").
		Find(&notifications).Error
	return notifications, err
}

// setNotificationTx is the delete-then-insert shared by every caller that
// refreshes a notification, including the message repository which runs it
// inside the same transaction as the triggering write.
func setNotificationTx(tx *gorm.DB, userID uint, name string, payload interface{}) (*models.Notification, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	if err := tx.Where("user_id = ? AND name = ?", userID, name).
		Delete(&models.Notification{}).Error; err != nil {
		return nil, err
	}
	n := &models.Notification{
		UserID:    userID,
		Name:      name,
		Timestamp: float64(time.Now().UnixNano()) / float64(time.Second),
		Payload:   datatypes.JSON(raw),
	}
	if err := tx.Create(n).Error; err != nil {
		return nil, err
	}
	return n, nil
}
