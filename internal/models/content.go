package models

import "time"

// The three content kinds share the same lifecycle: authored by a user,
// commentable, likeable, and mirrored into the external text index. Each
// implements search.Searchable through the SearchCollection / SearchDocID /
// SearchFields methods below.

// Post is a story entry.
type Post struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index;not null"`
	City      string    `json:"city" gorm:"size:50;not null"`
	Category  string    `json:"category" gorm:"size:50;not null"`
	Title     string    `json:"title" gorm:"size:500;not null"`
	Story     string    `json:"story" gorm:"type:text;not null"`
	Summary   string    `json:"summary" gorm:"type:text"`
	ImageFile string    `json:"image_file" gorm:"size:20;default:default.jpg"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Post) SearchCollection() string { return "posts" }
func (p *Post) SearchDocID() uint     { return p.ID }
func (p *Post) SearchFields() map[string]interface{} {
	return map[string]interface{}{"title": p.Title, "body": p.Story}
}

// Blog is a long-form entry.
type Blog struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index;not null"`
	City      string    `json:"city" gorm:"size:50;not null"`
	Category  string    `json:"category" gorm:"size:50;not null"`
	Title     string    `json:"title" gorm:"size:500;not null"`
	Story     string    `json:"story" gorm:"type:text;not null"`
	Summary   string    `json:"summary" gorm:"type:text"`
	ImageFile string    `json:"image_file" gorm:"size:20;default:default.jpg"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Blog) SearchCollection() string { return "blogs" }
func (b *Blog) SearchDocID() uint     { return b.ID }
func (b *Blog) SearchFields() map[string]interface{} {
	return map[string]interface{}{"title": b.Title, "body": b.Story}
}

// Platform is an organization/initiative entry.
type Platform struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	UserID      uint      `json:"user_id" gorm:"index;not null"`
	City        string    `json:"city" gorm:"size:50;not null"`
	Category    string    `json:"category" gorm:"size:50;not null"`
	Title       string    `json:"title" gorm:"size:500;not null"`
	Description string    `json:"description" gorm:"type:text;not null"`
	Summary     string    `json:"summary" gorm:"type:text"`
	ImageFile   string    `json:"image_file" gorm:"size:20;default:default.jpg"`
	CreatedAt   time.Time `json:"created_at" gorm:"index"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Platform) SearchCollection() string { return "platforms" }
func (p *Platform) SearchDocID() uint     { return p.ID }
func (p *Platform) SearchFields() map[string]interface{} {
	return map[string]interface{}{"title": p.Title, "body": p.Description}
}

// CreateContentRequest defines the request body shared by post and blog creation
type CreateContentRequest struct {
	City     string `json:"city" validate:"required,max=50"`
	Category string `json:"category" validate:"required,max=50"`
	Title    string `json:"title" validate:"required,min=1,max=500"`
	Story    string `json:"story" validate:"required,min=1"`
	Summary  string `json:"summary,omitempty"`
}

// CreatePlatformRequest defines the request body for platform entries
type CreatePlatformRequest struct {
	City        string `json:"city" validate:"required,max=50"`
	Category    string `json:"category" validate:"required,max=50"`
	Title       string `json:"title" validate:"required,min=1,max=500"`
	Description string `json:"description" validate:"required,min=1"`
	Summary     string `json:"summary,omitempty"`
}

// UpdateContentRequest defines the request body for content updates.
// Description is the platform-shaped alias for Story, matching the field
// name platform creation uses.
type UpdateContentRequest struct {
	City        string `json:"city,omitempty" validate:"omitempty,max=50"`
	Category    string `json:"category,omitempty" validate:"omitempty,max=50"`
	Title       string `json:"title,omitempty" validate:"omitempty,min=1,max=500"`
	Story       string `json:"story,omitempty" validate:"omitempty,min=1"`
	Description string `json:"description,omitempty" validate:"omitempty,min=1"`
	Summary     string `json:"summary,omitempty"`
}
