package service

import (
	"context"
	"errors"
	"testing"

	"github.com/aulahub/lms-platform/internal/core/domain"
)

func newChatFixture(t *testing.T) (*ChatService, *stubConversationRepo, *stubUserRepo, *stubPresence) {
	t.Helper()
	convs := newStubConversationRepo()
	users := newStubUserRepo()
	presence := &stubPresence{}
	svc := NewChatService(convs, users, presence, testLogger())
	return svc, convs, users, presence
}

func TestChatService_CreateOrGet_Idempotent(t *testing.T) {
	svc, _, users, _ := newChatFixture(t)
	alice := users.seed(&domain.User{Username: "alice", Email: "a@example.com"})
	bob := users.seed(&domain.User{Username: "bob", Email: "b@example.com"})

	view, created, err := svc.CreateOrGet(context.Background(), alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("CreateOrGet returned error: %v", err)
	}
	if !created {
		t.Fatalf("expected a new conversation")
	}
	if len(view.Members) != 2 {
		t.Fatalf("expected 2 resolved members, got %d", len(view.Members))
	}

	// Same pair, either direction, always yields the same conversation.
	again, created, err := svc.CreateOrGet(context.Background(), bob.ID, alice.ID)
	if err != nil {
		t.Fatalf("CreateOrGet returned error: %v", err)
	}
	if created {
		t.Fatalf("second call must reuse the conversation")
	}
	if again.Conversation.ID != view.Conversation.ID {
		t.Fatalf("conversation ids differ: %s vs %s", again.Conversation.ID, view.Conversation.ID)
	}
}

func TestChatService_CreateOrGet_UnknownPeer(t *testing.T) {
	svc, _, users, _ := newChatFixture(t)
	alice := users.seed(&domain.User{Username: "alice", Email: "a@example.com"})

	if _, _, err := svc.CreateOrGet(context.Background(), alice.ID, "ghost"); err != domain.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestChatService_Send_AppendsAndUpdatesPreview(t *testing.T) {
	svc, convs, users, _ := newChatFixture(t)
	alice := users.seed(&domain.User{Username: "alice", Email: "a@example.com"})
	bob := users.seed(&domain.User{Username: "bob", Email: "b@example.com"})

	view, _, _ := svc.CreateOrGet(context.Background(), alice.ID, bob.ID)
	convID := view.Conversation.ID

	first, err := svc.Send(context.Background(), convID, alice.ID, "hi bob")
	if err != nil {
		t.Fatalf("Send returned error: %v", err)
	}
	if first.ID == "" {
		t.Fatalf("message needs an id")
	}
	if first.CreatedAt.IsZero() {
		t.Fatalf("timestamp must be server-assigned")
	}

	if _, err := svc.Send(context.Background(), convID, bob.ID, "hi alice"); err != nil {
		t.Fatalf("Send returned error: %v", err)
	}

	stored, _ := convs.FindByID(context.Background(), convID)
	if len(stored.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(stored.Messages))
	}
	if stored.Messages[0].Text != "hi bob" || stored.Messages[1].Text != "hi alice" {
		t.Fatalf("messages out of order: %+v", stored.Messages)
	}
	if stored.LastMessage != "hi alice" {
		t.Fatalf("preview not refreshed: %s", stored.LastMessage)
	}
	if !stored.UpdatedAt.Equal(stored.Messages[1].CreatedAt) {
		t.Fatalf("updated_at should track the last message")
	}
}

func TestChatService_Send_NonMemberForbidden(t *testing.T) {
	svc, _, users, _ := newChatFixture(t)
	alice := users.seed(&domain.User{Username: "alice", Email: "a@example.com"})
	bob := users.seed(&domain.User{Username: "bob", Email: "b@example.com"})
	eve := users.seed(&domain.User{Username: "eve", Email: "e@example.com"})

	view, _, _ := svc.CreateOrGet(context.Background(), alice.ID, bob.ID)

	if _, err := svc.Send(context.Background(), view.Conversation.ID, eve.ID, "let me in"); err != domain.ErrForbidden {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestChatService_Send_UnknownConversation(t *testing.T) {
	svc, _, users, _ := newChatFixture(t)
	alice := users.seed(&domain.User{Username: "alice", Email: "a@example.com"})

	if _, err := svc.Send(context.Background(), "missing", alice.ID, "hello?"); err != domain.ErrConversationNotFound {
		t.Fatalf("expected ErrConversationNotFound, got %v", err)
	}
}

func TestChatService_SearchPeers_PresenceFlags(t *testing.T) {
	svc, _, users, presence := newChatFixture(t)
	alice := users.seed(&domain.User{Username: "alice", Email: "a@example.com"})
	bob := users.seed(&domain.User{Username: "bob", Email: "b@example.com"})
	users.seed(&domain.User{Username: "carol", Email: "c@example.com"})

	_ = presence.Touch(context.Background(), bob.ID)

	peers, err := svc.SearchPeers(context.Background(), alice.ID)
	if err != nil {
		t.Fatalf("SearchPeers returned error: %v", err)
	}
	if len(peers) != 2 {
		t.Fatalf("expected 2 peers, got %d", len(peers))
	}
	for _, p := range peers {
		if p.ID == alice.ID {
			t.Fatalf("caller must be excluded")
		}
		if p.Username == "bob" && !p.Online {
			t.Fatalf("bob should be online")
		}
		if p.Username == "carol" && p.Online {
			t.Fatalf("carol should be offline")
		}
	}
}

func TestChatService_SearchPeers_PresenceFailureDegradesOffline(t *testing.T) {
	svc, _, users, presence := newChatFixture(t)
	alice := users.seed(&domain.User{Username: "alice", Email: "a@example.com"})
	users.seed(&domain.User{Username: "bob", Email: "b@example.com"})
	presence.err = errors.New("redis down")

	peers, err := svc.SearchPeers(context.Background(), alice.ID)
	if err != nil {
		t.Fatalf("presence failure must not fail the search: %v", err)
	}
	for _, p := range peers {
		if p.Online {
			t.Fatalf("all peers should degrade to offline")
		}
	}
}

func TestChatService_Delete_MembersOnly(t *testing.T) {
	svc, convs, users, _ := newChatFixture(t)
	alice := users.seed(&domain.User{Username: "alice", Email: "a@example.com"})
	bob := users.seed(&domain.User{Username: "bob", Email: "b@example.com"})
	eve := users.seed(&domain.User{Username: "eve", Email: "e@example.com"})

	view, _, _ := svc.CreateOrGet(context.Background(), alice.ID, bob.ID)
	convID := view.Conversation.ID

	if err := svc.Delete(context.Background(), convID, eve.ID); err != domain.ErrForbidden {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := svc.Delete(context.Background(), convID, alice.ID); err != nil {
		t.Fatalf("member delete failed: %v", err)
	}
	if _, err := convs.FindByID(context.Background(), convID); err != domain.ErrConversationNotFound {
		t.Fatalf("conversation should be gone, got %v", err)
	}
}
