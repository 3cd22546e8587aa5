package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/aulahub/lms-platform/internal/core/domain"
	"github.com/aulahub/lms-platform/internal/core/ports"
)

// ChatService implements direct messaging. The durable message log is the
// source of truth; the websocket relay is a separate advisory path owned by
// the realtime gateway.
type ChatService struct {
	conversations ports.ConversationRepository
	users         ports.UserRepository
	presence      ports.Presence
	logger        zerolog.Logger
}

func NewChatService(
	conversations ports.ConversationRepository,
	users ports.UserRepository,
	presence ports.Presence,
	logger zerolog.Logger,
) *ChatService {
	return &ChatService{conversations: conversations, users: users, presence: presence, logger: logger}
}

// CreateOrGet returns the direct conversation for the unordered pair,
// creating it when absent. Calling it twice with the same pair always yields
// the same conversation.
func (s *ChatService) CreateOrGet(ctx context.Context, callerID, peerID string) (*ports.ConversationView, bool, error) {
	if _, err := s.users.FindByID(ctx, peerID); err != nil {
		return nil, false, err
	}

	existing, err := s.conversations.FindDirect(ctx, callerID, peerID)
	if err == nil {
		view, err := s.toView(ctx, existing)
		return view, false, err
	}
	if err != domain.ErrConversationNotFound {
		return nil, false, err
	}

	now := time.Now().UTC()
	conv := &domain.Conversation{
		MemberIDs: []string{callerID, peerID},
		IsGroup:   false,
		Messages:  []domain.Message{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	created, err := s.conversations.Create(ctx, conv)
	if err != nil {
		return nil, false, err
	}

	s.logger.Info().Str("conversation_id", created.ID).Msg("conversation created")
	view, err := s.toView(ctx, created)
	return view, true, err
}

func (s *ChatService) ListMine(ctx context.Context, userID string) ([]*ports.ConversationView, error) {
	convs, err := s.conversations.ListByMember(ctx, userID)
	if err != nil {
		return nil, err
	}

	views := make([]*ports.ConversationView, 0, len(convs))
	for _, c := range convs {
		view, err := s.toView(ctx, c)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

// Send appends a message with a server-assigned timestamp and refreshes the
// denormalized preview. The sender must be a conversation member.
func (s *ChatService) Send(ctx context.Context, conversationID, senderID, text string) (*domain.Message, error) {
	conv, err := s.conversations.FindByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if !conv.HasMember(senderID) {
		return nil, domain.ErrForbidden
	}

	msg := domain.Message{
		ID:        uuid.NewString(),
		SenderID:  senderID,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}
	conv.Messages = append(conv.Messages, msg)
	conv.LastMessage = text
	conv.UpdatedAt = msg.CreatedAt

	if err := s.conversations.Replace(ctx, conv); err != nil {
		return nil, err
	}
	return &msg, nil
}

// SearchPeers lists every other user as a chat candidate annotated with live
// presence. Presence lookup failures degrade to offline rather than failing
// the search.
func (s *ChatService) SearchPeers(ctx context.Context, callerID string) ([]ports.PeerView, error) {
	users, err := s.users.List(ctx, "")
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(users))
	for _, u := range users {
		if u.ID != callerID {
			ids = append(ids, u.ID)
		}
	}
	online, err := s.presence.Online(ctx, ids)
	if err != nil {
		s.logger.Warn().Err(err).Msg("presence lookup failed")
		online = map[string]bool{}
	}

	peers := make([]ports.PeerView, 0, len(ids))
	for _, u := range users {
		if u.ID == callerID {
			continue
		}
		peers = append(peers, ports.PeerView{PublicProfile: u.Public(), Online: online[u.ID]})
	}
	return peers, nil
}

// Delete permanently removes the conversation and its full message log.
// There is no per-member leave; deletion is global.
func (s *ChatService) Delete(ctx context.Context, conversationID, callerID string) error {
	conv, err := s.conversations.FindByID(ctx, conversationID)
	if err != nil {
		return err
	}
	if !conv.HasMember(callerID) {
		return domain.ErrForbidden
	}
	return s.conversations.Delete(ctx, conversationID)
}

func (s *ChatService) toView(ctx context.Context, conv *domain.Conversation) (*ports.ConversationView, error) {
	profiles := newProfileCache(s.users)
	members := make([]domain.PublicProfile, 0, len(conv.MemberIDs))
	for _, id := range conv.MemberIDs {
		members = append(members, profiles.get(ctx, id))
	}
	return &ports.ConversationView{Conversation: conv, Members: members}, nil
}
