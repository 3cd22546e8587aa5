package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/aulahub/lms-platform/internal/api/metrics"
	"github.com/aulahub/lms-platform/internal/core/domain"
	"github.com/aulahub/lms-platform/internal/core/ports"
)

const notificationListCap = 20

// NotificationService persists notification events and fans them out to the
// recipient's user room. The persisted record is the source of truth; the
// realtime push is a latency optimization for connected clients.
type NotificationService struct {
	notifications ports.NotificationRepository
	users         ports.UserRepository
	realtime      ports.Realtime
	logger        zerolog.Logger
}

func NewNotificationService(
	notifications ports.NotificationRepository,
	users ports.UserRepository,
	realtime ports.Realtime,
	logger zerolog.Logger,
) *NotificationService {
	return &NotificationService{
		notifications: notifications,
		users:         users,
		realtime:      realtime,
		logger:        logger,
	}
}

// Notify persists one notification, then publishes it to the recipient's
// room. Self-notification is suppressed before anything is written. The
// publish is best-effort: a room with no subscribers simply drops the event,
// and the recipient catches up through ListMine.
func (s *NotificationService) Notify(ctx context.Context, input ports.NotifyInput) error {
	if input.RecipientID == input.SenderID {
		return nil
	}
	if !input.Kind.Valid() {
		return domain.ErrInvalidNotificationKind
	}

	n := &domain.Notification{
		RecipientID: input.RecipientID,
		SenderID:    input.SenderID,
		Kind:        input.Kind,
		Content:     input.Content,
		Link:        input.Link,
		CreatedAt:   time.Now().UTC(),
	}
	created, err := s.notifications.Create(ctx, n)
	if err != nil {
		return err
	}

	view := &ports.NotificationView{Notification: created}
	if input.SenderID != "" {
		if sender, err := s.users.FindByID(ctx, input.SenderID); err == nil {
			p := sender.Public()
			view.Sender = &p
		} else {
			s.logger.Warn().Err(err).Str("sender_id", input.SenderID).Msg("notification sender lookup failed")
		}
	}

	s.realtime.Publish(ports.UserRoom(input.RecipientID), ports.EventNewNotification, view)
	metrics.NotificationsPublishedTotal.WithLabelValues(string(input.Kind)).Inc()
	return nil
}

func (s *NotificationService) ListMine(ctx context.Context, userID string) ([]*ports.NotificationView, error) {
	list, err := s.notifications.ListByRecipient(ctx, userID, notificationListCap)
	if err != nil {
		return nil, err
	}

	profiles := newProfileCache(s.users)
	views := make([]*ports.NotificationView, 0, len(list))
	for _, n := range list {
		view := &ports.NotificationView{Notification: n}
		if n.SenderID != "" {
			p := profiles.get(ctx, n.SenderID)
			view.Sender = &p
		}
		views = append(views, view)
	}
	return views, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, userID, id string) error {
	return s.notifications.MarkRead(ctx, userID, id)
}
