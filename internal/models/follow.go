package models

import "time"

// Follow is a directed edge in the follow graph. The unique index over the
// ordered pair is what makes duplicate follows a storage-level no-op; a user
// follows itself from the moment the account is created.
type Follow struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	FollowerID uint      `json:"follower_id" gorm:"index;uniqueIndex:idx_follower_followed"`
	FollowedID uint      `json:"followed_id" gorm:"index;uniqueIndex:idx_follower_followed"`
	CreatedAt  time.Time `json:"created_at"`
}
