package domain

import (
	"errors"
	"time"
)

var (
	ErrNotificationNotFound    = errors.New("notification not found")
	ErrInvalidNotificationKind = errors.New("invalid notification kind")
)

// NotificationKind is the closed set of notification types.
type NotificationKind string

const (
	NotifyLike    NotificationKind = "like"
	NotifyComment NotificationKind = "comment"
	NotifySystem  NotificationKind = "system"
	NotifyInvite  NotificationKind = "invite"
)

// Valid reports whether k is a known notification kind.
func (k NotificationKind) Valid() bool {
	switch k {
	case NotifyLike, NotifyComment, NotifySystem, NotifyInvite:
		return true
	}
	return false
}

// Notification is a per-recipient event record. SenderID is empty for
// system-generated events. It is created only as a side effect of another
// mutation, and only its read flag ever changes afterwards.
type Notification struct {
	ID          string           `json:"id" bson:"_id,omitempty"`
	RecipientID string           `json:"recipient_id" bson:"recipient_id"`
	SenderID    string           `json:"sender_id,omitempty" bson:"sender_id,omitempty"`
	Kind        NotificationKind `json:"kind" bson:"kind"`
	Content     string           `json:"content" bson:"content"`
	Link        string           `json:"link,omitempty" bson:"link,omitempty"`
	IsRead      bool             `json:"is_read" bson:"is_read"`
	CreatedAt   time.Time        `json:"created_at" bson:"created_at"`
}
