package models

import "time"

// Message is a directed private message. Rows are append-only: there is no
// update path once a message is created.
type Message struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	SenderID    uint      `json:"sender_id" gorm:"index"`
	RecipientID uint      `json:"recipient_id" gorm:"index"`
	Body        string    `json:"body" gorm:"size:140"`
	CreatedAt   time.Time `json:"created_at" gorm:"index"`
}

// SendMessageRequest defines the request body for sending a message
type SendMessageRequest struct {
	Body string `json:"body" validate:"required,min=1,max=140"`
}
