package service

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/aulahub/lms-platform/internal/core/domain"
	"github.com/aulahub/lms-platform/internal/core/ports"
)

func newPostFixture(t *testing.T) (*PostService, *stubPostRepo, *stubUserRepo, *stubNotifier) {
	t.Helper()
	posts := newStubPostRepo()
	users := newStubUserRepo()
	notifier := &stubNotifier{}
	svc := NewPostService(posts, users, &stubFileStore{}, notifier, testLogger())
	return svc, posts, users, notifier
}

func TestPostService_Create_And_Feed(t *testing.T) {
	svc, _, users, _ := newPostFixture(t)
	author := users.seed(&domain.User{Username: "alice", Email: "a@example.com"})

	first, err := svc.Create(context.Background(), ports.CreatePostInput{AuthorID: author.ID, Content: "hello"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if first.Author.Username != "alice" {
		t.Fatalf("author not resolved: %+v", first.Author)
	}
	if first.LikedBy == nil || first.Comments == nil {
		t.Fatalf("like and comment lists must be initialized")
	}

	if _, err := svc.Create(context.Background(), ports.CreatePostInput{AuthorID: author.ID, Content: "second"}); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	feed, err := svc.Feed(context.Background())
	if err != nil {
		t.Fatalf("Feed returned error: %v", err)
	}
	if len(feed) != 2 {
		t.Fatalf("expected 2 posts, got %d", len(feed))
	}
	if feed[0].Content != "second" {
		t.Fatalf("feed not newest first: %s", feed[0].Content)
	}
}

func TestPostService_ToggleLike_DoubleToggleRestores(t *testing.T) {
	svc, _, users, notifier := newPostFixture(t)
	author := users.seed(&domain.User{Username: "alice", Email: "a@example.com"})
	liker := users.seed(&domain.User{Username: "bob", Email: "b@example.com"})

	post, _ := svc.Create(context.Background(), ports.CreatePostInput{AuthorID: author.ID, Content: "like me"})

	liked, err := svc.ToggleLike(context.Background(), post.ID, liker.ID)
	if err != nil {
		t.Fatalf("like failed: %v", err)
	}
	if len(liked) != 1 || liked[0] != liker.ID {
		t.Fatalf("unexpected like list: %v", liked)
	}
	if len(notifier.notified) != 1 {
		t.Fatalf("expected like notification, got %d", len(notifier.notified))
	}
	n := notifier.notified[0]
	if n.Kind != domain.NotifyLike || n.RecipientID != author.ID || n.SenderID != liker.ID {
		t.Fatalf("unexpected notification: %+v", n)
	}
	if !strings.Contains(n.Content, "bob") {
		t.Fatalf("content should name the liker: %s", n.Content)
	}

	unliked, err := svc.ToggleLike(context.Background(), post.ID, liker.ID)
	if err != nil {
		t.Fatalf("unlike failed: %v", err)
	}
	if len(unliked) != 0 {
		t.Fatalf("expected empty like list, got %v", unliked)
	}
	// Unlike is silent.
	if len(notifier.notified) != 1 {
		t.Fatalf("unlike must not notify, got %d notifications", len(notifier.notified))
	}
}

func TestPostService_AddComment_NotifiesWithPreview(t *testing.T) {
	svc, _, users, notifier := newPostFixture(t)
	author := users.seed(&domain.User{Username: "alice", Email: "a@example.com"})
	commenter := users.seed(&domain.User{Username: "bob", Email: "b@example.com"})

	post, _ := svc.Create(context.Background(), ports.CreatePostInput{AuthorID: author.ID, Content: "discuss"})

	long := "this comment is much longer than the preview cut"
	comments, err := svc.AddComment(context.Background(), post.ID, commenter.ID, long)
	if err != nil {
		t.Fatalf("AddComment returned error: %v", err)
	}
	if len(comments) != 1 {
		t.Fatalf("expected 1 comment, got %d", len(comments))
	}
	if comments[0].Text != long {
		t.Fatalf("full text must be stored: %s", comments[0].Text)
	}
	if comments[0].Author.Username != "bob" {
		t.Fatalf("commenter not resolved: %+v", comments[0].Author)
	}
	if comments[0].ID == "" {
		t.Fatalf("comment needs a stable id")
	}

	if len(notifier.notified) != 1 {
		t.Fatalf("expected comment notification")
	}
	content := notifier.notified[0].Content
	if !strings.Contains(content, long[:commentPreviewLen]+"...") {
		t.Fatalf("notification should carry the truncated preview: %s", content)
	}
	if strings.Contains(content, long) {
		t.Fatalf("notification must not carry the full text: %s", content)
	}
}

func TestPostService_AddComment_PreviewKeepsVerbs(t *testing.T) {
	svc, _, users, notifier := newPostFixture(t)
	author := users.seed(&domain.User{Username: "alice", Email: "a@example.com"})
	commenter := users.seed(&domain.User{Username: "bob", Email: "b@example.com"})

	post, _ := svc.Create(context.Background(), ports.CreatePostInput{AuthorID: author.ID, Content: "sale"})

	text := "50% off everything now, hurry"
	if _, err := svc.AddComment(context.Background(), post.ID, commenter.ID, text); err != nil {
		t.Fatalf("AddComment returned error: %v", err)
	}

	content := notifier.notified[0].Content
	if strings.Contains(content, "%!") || strings.Contains(content, "MISSING") {
		t.Fatalf("percent in comment text corrupted the notification: %s", content)
	}
	if !strings.Contains(content, "50% off everything n...") {
		t.Fatalf("preview missing or mangled: %s", content)
	}
}

func TestPostService_AddComment_PreviewCutsOnRuneBoundary(t *testing.T) {
	svc, _, users, notifier := newPostFixture(t)
	author := users.seed(&domain.User{Username: "alice", Email: "a@example.com"})
	commenter := users.seed(&domain.User{Username: "bob", Email: "b@example.com"})

	post, _ := svc.Create(context.Background(), ports.CreatePostInput{AuthorID: author.ID, Content: "intl"})

	text := strings.Repeat("ñ", commentPreviewLen+5)
	if _, err := svc.AddComment(context.Background(), post.ID, commenter.ID, text); err != nil {
		t.Fatalf("AddComment returned error: %v", err)
	}

	content := notifier.notified[0].Content
	if !utf8.ValidString(content) {
		t.Fatalf("truncation produced invalid UTF-8: %q", content)
	}
	if !strings.Contains(content, strings.Repeat("ñ", commentPreviewLen)+"...") {
		t.Fatalf("preview should keep whole runes: %s", content)
	}
}

func TestPostService_AddComment_SelfCommentStillStored(t *testing.T) {
	svc, posts, users, notifier := newPostFixture(t)
	author := users.seed(&domain.User{Username: "alice", Email: "a@example.com"})

	post, _ := svc.Create(context.Background(), ports.CreatePostInput{AuthorID: author.ID, Content: "mine"})
	if _, err := svc.AddComment(context.Background(), post.ID, author.ID, "note to self"); err != nil {
		t.Fatalf("AddComment returned error: %v", err)
	}

	stored, _ := posts.FindByID(context.Background(), post.ID)
	if len(stored.Comments) != 1 {
		t.Fatalf("comment not stored")
	}
	// The notifier is still invoked; suppression of self-notification is
	// the notification service's decision.
	if len(notifier.notified) != 1 {
		t.Fatalf("expected notify call, got %d", len(notifier.notified))
	}
}

func TestPostService_Delete_Permissions(t *testing.T) {
	svc, posts, users, _ := newPostFixture(t)
	author := users.seed(&domain.User{Username: "alice", Email: "a@example.com"})
	stranger := users.seed(&domain.User{Username: "bob", Email: "b@example.com"})

	post, _ := svc.Create(context.Background(), ports.CreatePostInput{AuthorID: author.ID, Content: "target"})

	if err := svc.Delete(context.Background(), post.ID, stranger.ID, domain.RoleUser); err != domain.ErrForbidden {
		t.Fatalf("expected ErrForbidden for stranger, got %v", err)
	}

	if err := svc.Delete(context.Background(), post.ID, stranger.ID, domain.RoleAdmin); err != nil {
		t.Fatalf("admin delete failed: %v", err)
	}
	if _, err := posts.FindByID(context.Background(), post.ID); err != domain.ErrPostNotFound {
		t.Fatalf("post should be gone, got %v", err)
	}

	other, _ := svc.Create(context.Background(), ports.CreatePostInput{AuthorID: author.ID, Content: "own"})
	if err := svc.Delete(context.Background(), other.ID, author.ID, domain.RoleUser); err != nil {
		t.Fatalf("author delete failed: %v", err)
	}
}

func TestPostService_Feed_DegradesOnMissingAuthor(t *testing.T) {
	svc, posts, _, _ := newPostFixture(t)

	_, _ = posts.Create(context.Background(), &domain.Post{AuthorID: "ghost", Content: "orphan"})

	feed, err := svc.Feed(context.Background())
	if err != nil {
		t.Fatalf("Feed returned error: %v", err)
	}
	if len(feed) != 1 {
		t.Fatalf("expected 1 post, got %d", len(feed))
	}
	if feed[0].Author.ID != "ghost" || feed[0].Author.Username != "" {
		t.Fatalf("missing author should degrade to bare id: %+v", feed[0].Author)
	}
}
