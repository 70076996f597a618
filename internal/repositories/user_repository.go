package repositories

import (
	"context"
	"time"

	"github.com/storycircle/backend/internal/models"
	"gorm.io/gorm"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
	UpdatePassword(ctx context.Context, id uint, hash string) error
	TouchLastSeen(ctx context.Context, id uint) error
	DeleteUser(ctx context.Context, id uint) error
	SearchUsers(ctx context.Context, query string) ([]models.User, error)
}

// PostgresUserRepository implements UserRepository for PostgreSQL
type PostgresUserRepository struct {
	db         *gorm.DB
	adminEmail string
}

// NewPostgresUserRepository creates a new PostgresUserRepository. Accounts
// registered with adminEmail receive the Administrator role.
func NewPostgresUserRepository(db *gorm.DB, adminEmail string) *PostgresUserRepository {
	return &PostgresUserRepository{db: db, adminEmail: adminEmail}
}

// CreateUser creates a new user. The role is resolved when not set (admin
// email gets Administrator, everyone else the default role) and the
// self-follow edge is seeded in the same transaction, so a half-created
// account can never be observed.
func (r *PostgresUserRepository) CreateUser(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if user.RoleID == 0 {
			var role models.Role
			if r.adminEmail != "" && user.Email == r.adminEmail {
				if err := tx.Where(&models.Role{Name: "Administrator"}).First(&role).Error; err != nil && err != gorm.ErrRecordNotFound {
					return err
				}
			}
			if role.ID == 0 {
				if err := tx.Where(&models.Role{Default: true}).First(&role).Error; err != nil {
					return err
				}
			}
			user.RoleID = role.ID
		}
		if user.LastSeen.IsZero() {
			user.LastSeen = time.Now()
		}
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		selfFollow := &models.Follow{FollowerID: user.ID, FollowedID: user.ID}
		return tx.Create(selfFollow).Error
	})
}

// GetUserByID retrieves a user by ID with the role preloaded
func (r *PostgresUserRepository) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Preload("Role").First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByEmail retrieves a user by email
func (r *PostgresUserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Preload("Role").Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByUsername retrieves a user by username
func (r *PostgresUserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Preload("Role").Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser updates an existing user
func (r *PostgresUserRepository) UpdateUser(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

// UpdatePassword replaces a user's password hash
func (r *PostgresUserRepository) UpdatePassword(ctx context.Context, id uint, hash string) error {
	return r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("password", hash).Error
}

// TouchLastSeen stamps the user's last_seen with the current time
func (r *PostgresUserRepository) TouchLastSeen(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("last_seen", time.Now()).Error
}

// DeleteUser deletes a user by ID
func (r *PostgresUserRepository) DeleteUser(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.User{}, id).Error
}

// SearchUsers searches for users by username or email (case-insensitive)
func (r *PostgresUserRepository) SearchUsers(ctx context.Context, query string) ([]models.User, error) {
	var users []models.User
	pattern := "%" + query + "%"
	if err := r.db.WithContext(ctx).
		Where("LOWER(username) LIKE LOWER(?) OR LOWER(email) LIKE LOWER(?)", pattern, pattern).
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}
