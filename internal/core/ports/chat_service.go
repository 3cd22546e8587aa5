package ports

import (
	"context"

	"github.com/aulahub/lms-platform/internal/core/domain"
)

// ConversationView is a conversation with member identities resolved for
// presentation.
type ConversationView struct {
	Conversation *domain.Conversation   `json:"conversation"`
	Members      []domain.PublicProfile `json:"members"`
}

// PeerView is a chat candidate annotated with live presence.
type PeerView struct {
	domain.PublicProfile
	Online bool `json:"online"`
}

// ChatService defines direct-messaging use cases.
type ChatService interface {
	// CreateOrGet returns the existing direct conversation for the pair, or
	// creates one. The bool reports whether a new conversation was created.
	CreateOrGet(ctx context.Context, callerID, peerID string) (*ConversationView, bool, error)
	ListMine(ctx context.Context, userID string) ([]*ConversationView, error)
	// Send appends a message with a server-assigned timestamp and refreshes
	// the preview. The sender must be a member of the conversation.
	Send(ctx context.Context, conversationID, senderID, text string) (*domain.Message, error)
	SearchPeers(ctx context.Context, callerID string) ([]PeerView, error)
	// Delete permanently removes the conversation and its message log;
	// members only.
	Delete(ctx context.Context, conversationID, callerID string) error
}
