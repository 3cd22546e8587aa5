package ports

import (
	"context"

	"github.com/aulahub/lms-platform/internal/core/domain"
)

// UpdateProfileInput carries a profile edit. Empty fields are left unchanged;
// AvatarPath is the local temp file of an optional uploaded image.
type UpdateProfileInput struct {
	UserID     string
	Username   string
	Bio        string
	AvatarPath string
}

// UserService defines account administration use cases.
type UserService interface {
	UpdateProfile(ctx context.Context, input UpdateProfileInput) (*domain.User, error)
	List(ctx context.Context, search string) ([]*domain.User, error)
	SetRole(ctx context.Context, userID string, role domain.Role) error
	Delete(ctx context.Context, userID string) error
}
