package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/aulahub/lms-platform/internal/core/domain"
	"github.com/aulahub/lms-platform/internal/core/ports"
)

const commentPreviewLen = 20

// PostService implements the social wall: feed, posts, like toggles and
// comments, with notification side effects on like and comment.
type PostService struct {
	posts    ports.PostRepository
	users    ports.UserRepository
	files    ports.FileStore
	notifier ports.NotificationService
	logger   zerolog.Logger
}

func NewPostService(
	posts ports.PostRepository,
	users ports.UserRepository,
	files ports.FileStore,
	notifier ports.NotificationService,
	logger zerolog.Logger,
) *PostService {
	return &PostService{posts: posts, users: users, files: files, notifier: notifier, logger: logger}
}

func (s *PostService) Feed(ctx context.Context) ([]*ports.PostView, error) {
	posts, err := s.posts.List(ctx)
	if err != nil {
		return nil, err
	}

	profiles := newProfileCache(s.users)
	views := make([]*ports.PostView, 0, len(posts))
	for _, p := range posts {
		view, err := s.toView(ctx, p, profiles)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

func (s *PostService) Create(ctx context.Context, input ports.CreatePostInput) (*ports.PostView, error) {
	image := ""
	if input.ImagePath != "" {
		url, err := s.files.Upload(ctx, input.ImagePath, "lms_posts")
		if err != nil {
			return nil, fmt.Errorf("upload post image: %w", err)
		}
		image = url
	}

	now := time.Now().UTC()
	post := &domain.Post{
		AuthorID:  input.AuthorID,
		Content:   input.Content,
		Image:     image,
		LikedBy:   []string{},
		Comments:  []domain.Comment{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := s.posts.Create(ctx, post)
	if err != nil {
		return nil, err
	}
	return s.toView(ctx, created, newProfileCache(s.users))
}

// ToggleLike adds or removes the user from the like list. Only the like
// direction notifies the author; removing a like is silent.
func (s *PostService) ToggleLike(ctx context.Context, postID, userID string) ([]string, error) {
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	if post.Liked(userID) {
		kept := post.LikedBy[:0]
		for _, id := range post.LikedBy {
			if id != userID {
				kept = append(kept, id)
			}
		}
		post.LikedBy = kept
	} else {
		post.LikedBy = append(post.LikedBy, userID)
		s.notifyAuthor(ctx, post, userID, domain.NotifyLike, "%s liked your post")
	}

	post.UpdatedAt = time.Now().UTC()
	if err := s.posts.Replace(ctx, post); err != nil {
		return nil, err
	}
	return post.LikedBy, nil
}

func (s *PostService) AddComment(ctx context.Context, postID, userID, text string) ([]ports.CommentView, error) {
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	post.Comments = append(post.Comments, domain.Comment{
		ID:        uuid.NewString(),
		UserID:    userID,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	})
	post.UpdatedAt = time.Now().UTC()

	if err := s.posts.Replace(ctx, post); err != nil {
		return nil, err
	}

	preview := text
	if runes := []rune(preview); len(runes) > commentPreviewLen {
		preview = string(runes[:commentPreviewLen]) + "..."
	}
	s.notifyAuthor(ctx, post, userID, domain.NotifyComment, "%s commented on your post: \"%s\"", preview)

	profiles := newProfileCache(s.users)
	views := make([]ports.CommentView, 0, len(post.Comments))
	for _, c := range post.Comments {
		views = append(views, ports.CommentView{
			ID:        c.ID,
			Author:    profiles.get(ctx, c.UserID),
			Text:      c.Text,
			CreatedAt: c.CreatedAt,
		})
	}
	return views, nil
}

func (s *PostService) Delete(ctx context.Context, postID, callerID string, callerRole domain.Role) error {
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.AuthorID != callerID && callerRole != domain.RoleAdmin {
		return domain.ErrForbidden
	}
	return s.posts.Delete(ctx, postID)
}

// notifyAuthor resolves the acting user's name, formats content with it
// (the username is always the first format argument) and notifies the post
// author. Failures are logged, never surfaced: the wall mutation already
// succeeded or will succeed on its own.
func (s *PostService) notifyAuthor(ctx context.Context, post *domain.Post, actorID string, kind domain.NotificationKind, contentFmt string, args ...any) {
	actor, err := s.users.FindByID(ctx, actorID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", actorID).Msg("notification actor lookup failed")
		return
	}
	err = s.notifier.Notify(ctx, ports.NotifyInput{
		RecipientID: post.AuthorID,
		SenderID:    actorID,
		Kind:        kind,
		Content:     fmt.Sprintf(contentFmt, append([]any{actor.Username}, args...)...),
		Link:        "/wall",
	})
	if err != nil {
		s.logger.Error().Err(err).Str("post_id", post.ID).Msg("notification failed")
	}
}

func (s *PostService) toView(ctx context.Context, p *domain.Post, profiles *profileCache) (*ports.PostView, error) {
	comments := make([]ports.CommentView, 0, len(p.Comments))
	for _, c := range p.Comments {
		comments = append(comments, ports.CommentView{
			ID:        c.ID,
			Author:    profiles.get(ctx, c.UserID),
			Text:      c.Text,
			CreatedAt: c.CreatedAt,
		})
	}
	return &ports.PostView{
		ID:        p.ID,
		Author:    profiles.get(ctx, p.AuthorID),
		Content:   p.Content,
		Image:     p.Image,
		LikedBy:   p.LikedBy,
		Comments:  comments,
		CreatedAt: p.CreatedAt,
	}, nil
}

// profileCache memoizes user lookups while building one read model. A
// missing or deleted user degrades to a bare id rather than failing the
// whole feed.
type profileCache struct {
	users ports.UserRepository
	seen  map[string]domain.PublicProfile
}

func newProfileCache(users ports.UserRepository) *profileCache {
	return &profileCache{users: users, seen: make(map[string]domain.PublicProfile)}
}

func (c *profileCache) get(ctx context.Context, userID string) domain.PublicProfile {
	if p, ok := c.seen[userID]; ok {
		return p
	}
	user, err := c.users.FindByID(ctx, userID)
	if err != nil {
		p := domain.PublicProfile{ID: userID}
		c.seen[userID] = p
		return p
	}
	p := user.Public()
	c.seen[userID] = p
	return p
}
