package models

import (
	"encoding/json"

	"gorm.io/datatypes"
)

// NotificationUnreadMessages is the counter notification refreshed on every
// message send and feed read.
const NotificationUnreadMessages = "unread_message_count"

// Notification is a latest-value-wins signal. At most one row exists per
// (user, name): writing a notification replaces any previous row under the
// same name. Timestamp is float unix seconds so clients can poll with a
// strictly-greater-than cutoff.
type Notification struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	UserID    uint           `json:"user_id" gorm:"index;uniqueIndex:idx_user_name"`
	Name      string         `json:"name" gorm:"size:128;uniqueIndex:idx_user_name"`
	Timestamp float64        `json:"timestamp" gorm:"index"`
	Payload   datatypes.JSON `json:"payload" gorm:"type:json"`
}

// Data unmarshals the payload into v.
func (n *Notification) Data(v interface{}) error {
	return json.Unmarshal(n.Payload, v)
}
