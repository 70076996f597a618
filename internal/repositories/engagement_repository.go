package repositories

import (
	"context"

	"github.com/storycircle/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EngagementRepository defines the interface for like operations. One
// implementation covers every target kind; all mutations are idempotent, so
// liking twice or unliking a never-liked target is not an error.
type EngagementRepository interface {
	Like(ctx context.Context, userID uint, kind models.TargetKind, targetID uint) error
	Unlike(ctx context.Context, userID uint, kind models.TargetKind, targetID uint) error
	HasLiked(ctx context.Context, userID uint, kind models.TargetKind, targetID uint) (bool, error)
	CountLikes(ctx context.Context, kind models.TargetKind, targetID uint) (int64, error)
	GetLikedTargetIDs(ctx context.Context, userID uint, kind models.TargetKind, targetIDs []uint) (map[uint]bool, error)
}

// PostgresEngagementRepository implements EngagementRepository for PostgreSQL
type PostgresEngagementRepository struct {
	db *gorm.DB
}

// NewPostgresEngagementRepository creates a new PostgresEngagementRepository
func NewPostgresEngagementRepository(db *gorm.DB) *PostgresEngagementRepository {
	return &PostgresEngagementRepository{db: db}
}

// Like records a like. Duplicate likes hit the unique index and resolve to a
// no-op instead of a constraint fault, which closes the check-then-insert
// race under concurrent requests.
func (r *PostgresEngagementRepository) Like(ctx context.Context, userID uint, kind models.TargetKind, targetID uint) error {
	like := &models.Like{UserID: userID, TargetKind: kind, TargetID: targetID}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "target_kind"}, {Name: "target_id"}},
		DoNothing: true,
	}).Create(like).Error
}

// Unlike removes a like if one exists; removing a missing like is a no-op.
func (r *PostgresEngagementRepository) Unlike(ctx context.Context, userID uint, kind models.TargetKind, targetID uint) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND target_kind = ? AND target_id = ?", userID, kind, targetID).
		Delete(&models.Like{}).Error
}

// HasLiked checks whether a like exists for the (user, target) pair
func (r *PostgresEngagementRepository) HasLiked(ctx context.Context, userID uint, kind models.TargetKind, targetID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Like{}).
		Where("user_id = ? AND target_kind = ? AND target_id = ?", userID, kind, targetID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountLikes returns the number of likes on a target
func (r *PostgresEngagementRepository) CountLikes(ctx context.Context, kind models.TargetKind, targetID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Like{}).
		Where("target_kind = ? AND target_id = ?", kind, targetID).
		Count(&count).Error
	return count, err
}

// GetLikedTargetIDs returns which of the given targets the user has liked,
// used to flag listings without a query per row.
func (r *PostgresEngagementRepository) GetLikedTargetIDs(ctx context.Context, userID uint, kind models.TargetKind, targetIDs []uint) (map[uint]bool, error) {
	liked := make(map[uint]bool, len(targetIDs))
	if len(targetIDs) == 0 {
		return liked, nil
	}
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.Like{}).
		Where("user_id = ? AND target_kind = ? AND target_id IN ?", userID, kind, targetIDs).
		Pluck("target_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		liked[id] = true
	}
	return liked, nil
}
