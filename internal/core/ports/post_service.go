package ports

import (
	"context"
	"time"

	"github.com/aulahub/lms-platform/internal/core/domain"
)

// CommentView is a comment with its author's display identity resolved.
type CommentView struct {
	ID        string               `json:"id"`
	Author    domain.PublicProfile `json:"author"`
	Text      string               `json:"text"`
	CreatedAt time.Time            `json:"created_at"`
}

// PostView is the feed read model: the post with author and commenter
// identities denormalized for presentation.
type PostView struct {
	ID        string               `json:"id"`
	Author    domain.PublicProfile `json:"author"`
	Content   string               `json:"content"`
	Image     string               `json:"image,omitempty"`
	LikedBy   []string             `json:"liked_by"`
	Comments  []CommentView        `json:"comments"`
	CreatedAt time.Time            `json:"created_at"`
}

// CreatePostInput carries a new wall post. ImagePath is the local temp file
// of an optional uploaded image.
type CreatePostInput struct {
	AuthorID  string
	Content   string
	ImagePath string
}

// PostService defines social wall use cases.
type PostService interface {
	Feed(ctx context.Context) ([]*PostView, error)
	Create(ctx context.Context, input CreatePostInput) (*PostView, error)
	// ToggleLike adds the user to the like list or removes them if already
	// present, returning the resulting like list. Only the like direction
	// notifies the post author.
	ToggleLike(ctx context.Context, postID, userID string) ([]string, error)
	AddComment(ctx context.Context, postID, userID, text string) ([]CommentView, error)
	// Delete removes a post; permitted for its author or an admin.
	Delete(ctx context.Context, postID, callerID string, callerRole domain.Role) error
}
