package domain

import (
	"errors"
	"time"
)

var ErrConversationNotFound = errors.New("conversation not found")

// Message is an entry in a conversation's append-only log.
type Message struct {
	ID        string    `json:"id" bson:"_id"`
	SenderID  string    `json:"sender_id" bson:"sender_id"`
	Text      string    `json:"text" bson:"text"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// Conversation holds a member set and its full message history. A direct
// conversation (IsGroup false) is unique per unordered pair of members.
// LastMessage is a denormalized preview for list views.
type Conversation struct {
	ID          string    `json:"id" bson:"_id,omitempty"`
	MemberIDs   []string  `json:"member_ids" bson:"member_ids"`
	IsGroup     bool      `json:"is_group" bson:"is_group"`
	GroupName   string    `json:"group_name,omitempty" bson:"group_name,omitempty"`
	Messages    []Message `json:"messages" bson:"messages"`
	LastMessage string    `json:"last_message,omitempty" bson:"last_message,omitempty"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at"`
}

// HasMember reports whether userID belongs to the conversation.
func (c *Conversation) HasMember(userID string) bool {
	for _, id := range c.MemberIDs {
		if id == userID {
			return true
		}
	}
	return false
}
