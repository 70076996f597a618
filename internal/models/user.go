package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// User is an account on the platform. Every user holds exactly one role and
// owns its authored content, messages, notifications, likes and follow edges.
type User struct {
	ID                  uint       `json:"id" gorm:"primaryKey"`
	RoleID              uint       `json:"role_id" gorm:"index"`
	Role                *Role      `json:"role,omitempty"`
	Username            string     `json:"username" gorm:"size:20;uniqueIndex;not null"`
	Email               string     `json:"email" gorm:"size:120;uniqueIndex;not null"`
	Password            string     `json:"-" gorm:"size:60;not null"` // bcrypt hash
	ImageFile           string     `json:"image_file" gorm:"size:20;default:default.jpg"`
	AboutMe             string     `json:"about_me" gorm:"size:140"`
	FirstName           string     `json:"first_name" gorm:"size:60"`
	LastName            string     `json:"last_name" gorm:"size:60"`
	City                string     `json:"city" gorm:"size:50"`
	Category            string     `json:"category" gorm:"size:60"`
	WebURL              string     `json:"web_url" gorm:"size:60"`
	MemberSince         time.Time  `json:"member_since" gorm:"autoCreateTime"`
	LastSeen            time.Time  `json:"last_seen"`
	LastMessageReadTime *time.Time `json:"last_message_read_time,omitempty"`
}

// Can reports whether the user's role holds every bit of perm.
func (u *User) Can(perm int) bool {
	return u.Role != nil && u.Role.HasPermission(perm)
}

// IsAdmin reports whether the user holds the admin permission.
func (u *User) IsAdmin() bool {
	return u.Can(PermissionAdmin)
}

// ToCompact returns the reduced shape embedded in enriched responses.
func (u *User) ToCompact() UserCompact {
	return UserCompact{
		ID:        u.ID,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		ImageFile: u.ImageFile,
	}
}

// UserCompact is the minimal user shape attached to posts, comments and likes.
type UserCompact struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	ImageFile string `json:"image_file,omitempty"`
}

// RegisterRequest defines the request body for account registration
type RegisterRequest struct {
	Username  string `json:"username" validate:"required,min=2,max=20"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"first_name,omitempty" validate:"omitempty,max=60"`
	LastName  string `json:"last_name,omitempty" validate:"omitempty,max=60"`
}

// UpdateUserRequest defines the request body for profile updates
type UpdateUserRequest struct {
	Username string `json:"username,omitempty" validate:"omitempty,min=2,max=20"`
	AboutMe  string `json:"about_me,omitempty" validate:"omitempty,max=140"`
	City     string `json:"city,omitempty" validate:"omitempty,max=50"`
	Category string `json:"category,omitempty" validate:"omitempty,max=60"`
	WebURL   string `json:"web_url,omitempty" validate:"omitempty,max=60"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}
