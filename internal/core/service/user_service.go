package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/aulahub/lms-platform/internal/core/domain"
	"github.com/aulahub/lms-platform/internal/core/ports"
)

// UserService implements profile updates and admin user management.
type UserService struct {
	users  ports.UserRepository
	files  ports.FileStore
	logger zerolog.Logger
}

func NewUserService(users ports.UserRepository, files ports.FileStore, logger zerolog.Logger) *UserService {
	return &UserService{users: users, files: files, logger: logger}
}

func (s *UserService) UpdateProfile(ctx context.Context, input ports.UpdateProfileInput) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	if input.AvatarPath != "" {
		url, err := s.files.Upload(ctx, input.AvatarPath, "lms_avatars")
		if err != nil {
			return nil, fmt.Errorf("upload avatar: %w", err)
		}
		user.Avatar = url
	}

	if input.Username != "" {
		user.Username = input.Username
	}
	if input.Bio != "" {
		user.Bio = input.Bio
	}
	user.UpdatedAt = time.Now().UTC()

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) List(ctx context.Context, search string) ([]*domain.User, error) {
	return s.users.List(ctx, search)
}

func (s *UserService) SetRole(ctx context.Context, userID string, role domain.Role) error {
	if !role.Valid() {
		return domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	user.Role = role
	user.UpdatedAt = time.Now().UTC()
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}

	s.logger.Info().Str("user_id", userID).Str("role", string(role)).Msg("role updated")
	return nil
}

func (s *UserService) Delete(ctx context.Context, userID string) error {
	return s.users.Delete(ctx, userID)
}
