package models

import "time"

// Comment belongs to one parent entity of a given content kind. ParentKind
// mirrors the like table's target kinds so a comment on a post and a comment
// on a blog share one table.
type Comment struct {
	ID         uint       `json:"id" gorm:"primaryKey"`
	AuthorID   uint       `json:"author_id" gorm:"index"`
	ParentKind TargetKind `json:"parent_kind" gorm:"size:32;index:idx_parent"`
	ParentID   uint       `json:"parent_id" gorm:"index:idx_parent"`
	Body       string     `json:"body" gorm:"type:text"`
	Disabled   bool       `json:"disabled"`
	CreatedAt  time.Time  `json:"created_at" gorm:"index"`
}

// CommentKind returns the target kind of likes pointing at this comment.
func (c *Comment) CommentKind() TargetKind {
	switch c.ParentKind {
	case TargetBlog:
		return TargetBlogComment
	case TargetPlatform:
		return TargetPlatformComment
	default:
		return TargetComment
	}
}

// CreateCommentRequest defines the request body for creating a comment
type CreateCommentRequest struct {
	Body string `json:"body" validate:"required,min=1,max=2000"`
}
