package ports

import (
	"context"

	"github.com/aulahub/lms-platform/internal/core/domain"
)

// CourseRepository defines persistence operations for course documents.
// Nested mutations (modules/lessons/resources) go through Replace: the
// service re-fetches the course, edits the embedded tree in memory and
// writes the whole document back.
type CourseRepository interface {
	Create(ctx context.Context, course *domain.Course) (*domain.Course, error)
	FindByID(ctx context.Context, id string) (*domain.Course, error)
	List(ctx context.Context) ([]*domain.Course, error)
	Replace(ctx context.Context, course *domain.Course) error
	Delete(ctx context.Context, id string) error
}

// PostRepository defines persistence operations for wall posts.
type PostRepository interface {
	Create(ctx context.Context, post *domain.Post) (*domain.Post, error)
	FindByID(ctx context.Context, id string) (*domain.Post, error)
	// List returns the feed, newest first.
	List(ctx context.Context) ([]*domain.Post, error)
	Replace(ctx context.Context, post *domain.Post) error
	Delete(ctx context.Context, id string) error
}

// ConversationRepository defines persistence operations for conversations.
type ConversationRepository interface {
	Create(ctx context.Context, conv *domain.Conversation) (*domain.Conversation, error)
	FindByID(ctx context.Context, id string) (*domain.Conversation, error)
	// FindDirect returns the non-group conversation whose member set is
	// exactly {memberA, memberB}, or domain.ErrConversationNotFound.
	FindDirect(ctx context.Context, memberA, memberB string) (*domain.Conversation, error)
	// ListByMember returns the user's conversations, most recently updated
	// first.
	ListByMember(ctx context.Context, userID string) ([]*domain.Conversation, error)
	Replace(ctx context.Context, conv *domain.Conversation) error
	Delete(ctx context.Context, id string) error
}

// NotificationRepository defines persistence operations for notifications.
type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) (*domain.Notification, error)
	// ListByRecipient returns the recipient's newest notifications, capped
	// at limit.
	ListByRecipient(ctx context.Context, recipientID string, limit int) ([]*domain.Notification, error)
	// MarkRead flips the read flag on one notification (id non-empty) or on
	// all of the recipient's notifications (id empty). Idempotent.
	MarkRead(ctx context.Context, recipientID, id string) error
}
