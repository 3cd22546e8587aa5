package ports

import (
	"context"
	"time"

	"github.com/aulahub/lms-platform/internal/core/domain"
)

// UserRepository defines persistence operations for user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByInvitationToken(ctx context.Context, token string) (*domain.User, error)
	// FindByResetToken matches the stored token hash with an unexpired window.
	FindByResetToken(ctx context.Context, tokenHash string, now time.Time) (*domain.User, error)
	FindByCustomerID(ctx context.Context, customerID string) (*domain.User, error)
	// List returns users matching an optional case-insensitive search on
	// username or email; empty search returns everyone.
	List(ctx context.Context, search string) ([]*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id string) error
}
