package repositories

import (
	"context"

	"github.com/storycircle/backend/internal/models"
	"gorm.io/gorm"
)

// CommentRepository defines the interface for comment data operations. One
// table holds comments for every content kind, keyed by (parent_kind,
// parent_id).
type CommentRepository interface {
	CreateComment(ctx context.Context, comment *models.Comment) error
	GetCommentByID(ctx context.Context, id uint) (*models.Comment, error)
	GetCommentsByParent(ctx context.Context, kind models.TargetKind, parentID uint, page, pageSize int) ([]models.Comment, int64, error)
	SetDisabled(ctx context.Context, id uint, disabled bool) error
	DeleteComment(ctx context.Context, id uint) error
}

// PostgresCommentRepository implements CommentRepository for PostgreSQL
type PostgresCommentRepository struct {
	db *gorm.DB
}

// NewPostgresCommentRepository creates a new PostgresCommentRepository
func NewPostgresCommentRepository(db *gorm.DB) *PostgresCommentRepository {
	return &PostgresCommentRepository{db: db}
}

// CreateComment creates a new comment
func (r *PostgresCommentRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

// GetCommentByID retrieves a comment by ID
func (r *PostgresCommentRepository) GetCommentByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// GetCommentsByParent returns a page of comments under one parent entity,
// oldest first, excluding disabled comments.
func (r *PostgresCommentRepository) GetCommentsByParent(ctx context.Context, kind models.TargetKind, parentID uint, page, pageSize int) ([]models.Comment, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Comment{}).
		Where("parent_kind = ? AND parent_id = ? AND disabled = ?", kind, parentID, false).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var comments []models.Comment
	err := r.db.WithContext(ctx).
		Where("parent_kind = ? AND parent_id = ? AND disabled = ?", kind, parentID, false).
		Order("created_at ASC, id ASC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&comments).Error
	return comments, total, err
}

// SetDisabled flips a comment's moderation flag
func (r *PostgresCommentRepository) SetDisabled(ctx context.Context, id uint, disabled bool) error {
	res := r.db.WithContext(ctx).Model(&models.Comment{}).Where("id = ?", id).Update("disabled", disabled)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteComment deletes a comment by ID
func (r *PostgresCommentRepository) DeleteComment(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Comment{}, id).Error
}
