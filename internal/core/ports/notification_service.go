package ports

import (
	"context"

	"github.com/aulahub/lms-platform/internal/core/domain"
)

// NotifyInput describes an internal notification event. SenderID is empty
// for system events.
type NotifyInput struct {
	RecipientID string
	SenderID    string
	Kind        domain.NotificationKind
	Content     string
	Link        string
}

// NotificationView is a notification with the sender's display identity
// resolved; Sender is nil for system events.
type NotificationView struct {
	*domain.Notification
	Sender *domain.PublicProfile `json:"sender,omitempty"`
}

// NotificationService persists and fans out notification events. It is never
// exposed to clients directly; mutation handlers invoke Notify as a side
// effect.
type NotificationService interface {
	// Notify persists the notification and best-effort publishes it to the
	// recipient's user room. Self-notification (recipient == sender) is a
	// silent no-op. Publish failures are swallowed; only persistence errors
	// are returned, and callers log rather than fail their own mutation.
	Notify(ctx context.Context, input NotifyInput) error
	ListMine(ctx context.Context, userID string) ([]*NotificationView, error)
	// MarkRead marks one notification (id non-empty) or all of the caller's
	// notifications read. Idempotent.
	MarkRead(ctx context.Context, userID, id string) error
}
