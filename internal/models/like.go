package models

import "time"

// TargetKind names the kind of entity a like points at. One table covers all
// engagement targets instead of a separate like table per content kind.
type TargetKind string

const (
	TargetPost            TargetKind = "post"
	TargetComment         TargetKind = "comment"
	TargetBlog            TargetKind = "blog"
	TargetBlogComment     TargetKind = "blog_comment"
	TargetPlatform        TargetKind = "platform"
	TargetPlatformComment TargetKind = "platform_comment"
)

// Valid reports whether k is one of the known target kinds.
func (k TargetKind) Valid() bool {
	switch k {
	case TargetPost, TargetComment, TargetBlog, TargetBlogComment,
		TargetPlatform, TargetPlatformComment:
		return true
	}
	return false
}

// Like is one user's like of one target. The unique index over
// (user_id, target_kind, target_id) guarantees at most one live row per pair
// even under concurrent duplicate requests.
type Like struct {
	ID         uint       `json:"id" gorm:"primaryKey"`
	UserID     uint       `json:"user_id" gorm:"index;uniqueIndex:idx_user_kind_target"`
	TargetKind TargetKind `json:"target_kind" gorm:"size:32;uniqueIndex:idx_user_kind_target"`
	TargetID   uint       `json:"target_id" gorm:"index;uniqueIndex:idx_user_kind_target"`
	CreatedAt  time.Time  `json:"created_at"`
}
