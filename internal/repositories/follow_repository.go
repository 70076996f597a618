package repositories

import (
	"context"

	"github.com/storycircle/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FollowRepository defines the interface for follow graph operations. Edges
// are directed; no symmetry is implied. Follow and Unfollow are idempotent.
type FollowRepository interface {
	Follow(ctx context.Context, followerID, followedID uint) error
	Unfollow(ctx context.Context, followerID, followedID uint) error
	IsFollowing(ctx context.Context, followerID, followedID uint) (bool, error)
	IsFollowedBy(ctx context.Context, userID, followerID uint) (bool, error)
	GetFollowers(ctx context.Context, userID uint, page, pageSize int) ([]models.User, int64, error)
	GetFollowing(ctx context.Context, userID uint, page, pageSize int) ([]models.User, int64, error)
	GetFollowersCount(ctx context.Context, userID uint) (int64, error)
	GetFollowingCount(ctx context.Context, userID uint) (int64, error)
	GetFollowingIDs(ctx context.Context, userID uint) ([]uint, error)
}

// PostgresFollowRepository implements FollowRepository for PostgreSQL
type PostgresFollowRepository struct {
	db *gorm.DB
}

// NewPostgresFollowRepository creates a new PostgresFollowRepository
func NewPostgresFollowRepository(db *gorm.DB) *PostgresFollowRepository {
	return &PostgresFollowRepository{db: db}
}

// Follow adds an edge if none exists. Duplicates resolve at the unique index,
// so concurrent double-follows converge on one edge. Self-edges are allowed;
// account creation uses one to seed the feed.
func (r *PostgresFollowRepository) Follow(ctx context.Context, followerID, followedID uint) error {
	edge := &models.Follow{FollowerID: followerID, FollowedID: followedID}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "follower_id"}, {Name: "followed_id"}},
		DoNothing: true,
	}).Create(edge).Error
}

// Unfollow removes the edge if present; no-op otherwise
func (r *PostgresFollowRepository) Unfollow(ctx context.Context, followerID, followedID uint) error {
	return r.db.WithContext(ctx).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Delete(&models.Follow{}).Error
}

// IsFollowing checks whether followerID follows followedID. A zero-valued id
// (unsaved entity) is defined to be not followed rather than an error.
func (r *PostgresFollowRepository) IsFollowing(ctx context.Context, followerID, followedID uint) (bool, error) {
	if followerID == 0 || followedID == 0 {
		return false, nil
	}
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// IsFollowedBy checks whether userID is followed by followerID
func (r *PostgresFollowRepository) IsFollowedBy(ctx context.Context, userID, followerID uint) (bool, error) {
	return r.IsFollowing(ctx, followerID, userID)
}

// GetFollowers returns the users following userID, ordered by when they
// followed (oldest first, edge id as tiebreak), with the total edge count.
func (r *PostgresFollowRepository) GetFollowers(ctx context.Context, userID uint, page, pageSize int) ([]models.User, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("followed_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []models.User
	err := r.db.WithContext(ctx).
		Joins("JOIN follows ON follows.follower_id = users.id").
		Where("follows.followed_id = ?", userID).
		Order("follows.created_at ASC, follows.id ASC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&users).Error
	return users, total, err
}

// GetFollowing returns the users userID follows, same ordering as GetFollowers.
func (r *PostgresFollowRepository) GetFollowing(ctx context.Context, userID uint, page, pageSize int) ([]models.User, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []models.User
	err := r.db.WithContext(ctx).
		Joins("JOIN follows ON follows.followed_id = users.id").
		Where("follows.follower_id = ?", userID).
		Order("follows.created_at ASC, follows.id ASC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&users).Error
	return users, total, err
}

// GetFollowersCount returns how many users follow userID
func (r *PostgresFollowRepository) GetFollowersCount(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Follow{}).Where("followed_id = ?", userID).Count(&count).Error
	return count, err
}

// GetFollowingCount returns how many users userID follows
func (r *PostgresFollowRepository) GetFollowingCount(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Follow{}).Where("follower_id = ?", userID).Count(&count).Error
	return count, err
}

// GetFollowingIDs returns the ids userID follows, used to build the feed
func (r *PostgresFollowRepository) GetFollowingIDs(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ?", userID).Pluck("followed_id", &ids).Error
	return ids, err
}
