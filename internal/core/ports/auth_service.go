package ports

import (
	"context"

	"github.com/aulahub/lms-platform/internal/core/domain"
)

// AuthResult carries a freshly issued session token with its subject.
type AuthResult struct {
	Token string
	User  *domain.User
}

// InviteResult is returned after an invitation email is dispatched.
type InviteResult struct {
	Email string
	Link  string
}

// CompleteProfileInput finishes a pending invited account. AvatarPath is the
// local temp file of an optional uploaded avatar; empty when none was sent.
type CompleteProfileInput struct {
	Token      string
	Username   string
	Password   string
	AvatarPath string
}

// AuthService defines account lifecycle use cases.
type AuthService interface {
	Register(ctx context.Context, username, email, password string) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Profile(ctx context.Context, userID string) (*domain.User, error)
	// Invite creates a pending account and emails a setup link. When the
	// email send fails the pending account is kept and the error reported.
	Invite(ctx context.Context, inviterID, email string, role domain.Role) (*InviteResult, error)
	CompleteProfile(ctx context.Context, input CompleteProfileInput) (*domain.User, error)
	// ForgotPassword stores a hashed one-hour reset token and emails the
	// plaintext; a failed send rolls the token back.
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
}
