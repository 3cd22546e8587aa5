package ports

import "context"

// Mailer sends transactional email. Implementations must return an error the
// caller can act on: the password-reset path rolls back its token when the
// send fails.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// FileStore uploads a local file to object storage and returns its permanent
// public URL. Implementations delete the local file regardless of outcome.
type FileStore interface {
	Upload(ctx context.Context, localPath, folder string) (string, error)
}

// Realtime event names pushed to connected clients.
const (
	EventNewNotification = "new_notification"
	EventReceiveMessage  = "receive_message"
)

// Realtime is the fan-out service: best-effort push to every connection
// currently subscribed to a room. Publish never blocks the caller and never
// reports delivery failures; the durable copy lives in the stores.
type Realtime interface {
	Publish(room, event string, payload any)
}

// Presence tracks which users currently hold a live socket connection.
// Entries expire on their own; Touch refreshes the TTL.
type Presence interface {
	Touch(ctx context.Context, userID string) error
	Drop(ctx context.Context, userID string) error
	Online(ctx context.Context, userIDs []string) (map[string]bool, error)
}

// UserRoom is the per-user room every session of that user joins; it carries
// notification pushes.
func UserRoom(userID string) string { return "user:" + userID }

// ConversationRoom is the per-conversation room carrying chat relays.
func ConversationRoom(conversationID string) string { return "conv:" + conversationID }
