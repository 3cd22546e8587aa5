package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/aulahub/lms-platform/internal/core/domain"
	"github.com/aulahub/lms-platform/internal/core/ports"
)

const resetTokenTTL = time.Hour

// AuthService implements registration, login and the invitation and
// password-reset flows.
type AuthService struct {
	users       ports.UserRepository
	mailer      ports.Mailer
	files       ports.FileStore
	notifier    ports.NotificationService
	jwtSecret   string
	tokenTTL    time.Duration
	frontendURL string
	logger      zerolog.Logger
}

func NewAuthService(
	users ports.UserRepository,
	mailer ports.Mailer,
	files ports.FileStore,
	notifier ports.NotificationService,
	jwtSecret string,
	tokenTTL time.Duration,
	frontendURL string,
	logger zerolog.Logger,
) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 30 * 24 * time.Hour
	}
	return &AuthService{
		users:       users,
		mailer:      mailer,
		files:       files,
		notifier:    notifier,
		jwtSecret:   jwtSecret,
		tokenTTL:    tokenTTL,
		frontendURL: frontendURL,
		logger:      logger,
	}
}

func (s *AuthService) Register(ctx context.Context, username, email, password string) (*ports.AuthResult, error) {
	if username == "" || email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
		Avatar:       domain.DefaultAvatarURL,
		Status:       domain.StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	token, err := s.issueToken(created)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", created.ID).Str("email", email).Msg("user registered")
	return &ports.AuthResult{Token: token, User: created}, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	// Pending accounts have no password yet and cannot log in.
	if user.PasswordHash == "" ||
		bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, err
	}
	return &ports.AuthResult{Token: token, User: user}, nil
}

func (s *AuthService) Profile(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.FindByID(ctx, userID)
}

// Invite creates a pending account with a one-time setup token and emails
// the setup link. A failed send keeps the pending account: the invite can be
// re-issued after deleting it, and losing the row would orphan the email if
// it did arrive.
func (s *AuthService) Invite(ctx context.Context, inviterID, email string, role domain.Role) (*ports.InviteResult, error) {
	if email == "" {
		return nil, domain.ErrInvalidCredentials
	}
	if role == "" {
		role = domain.RoleUser
	}
	if !role.Valid() {
		return nil, domain.ErrInvalidCredentials
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrUserExists
	}

	token, err := randomToken()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Username:        "Pending User",
		Email:           email,
		Role:            role,
		Avatar:          domain.DefaultAvatarURL,
		Status:          domain.StatusPending,
		InvitationToken: token,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	link := s.frontendURL + "/setup-account/" + token
	if err := s.mailer.Send(ctx, email, "You have been invited to join the team", inviteEmailBody(string(role), link)); err != nil {
		// Accepted inconsistency: the pending account stays so the flow can
		// be retried by an admin; the caller sees the failure.
		s.logger.Error().Err(err).Str("email", email).Msg("invitation email failed")
		return nil, fmt.Errorf("send invitation email: %w", err)
	}

	if err := s.notifier.Notify(ctx, ports.NotifyInput{
		RecipientID: created.ID,
		SenderID:    inviterID,
		Kind:        domain.NotifyInvite,
		Content:     "You have been invited to join the platform",
		Link:        "/setup-account/" + token,
	}); err != nil {
		s.logger.Error().Err(err).Str("user_id", created.ID).Msg("invite notification failed")
	}

	s.logger.Info().Str("email", email).Str("role", string(role)).Msg("invitation sent")
	return &ports.InviteResult{Email: email, Link: link}, nil
}

func (s *AuthService) CompleteProfile(ctx context.Context, input ports.CompleteProfileInput) (*domain.User, error) {
	user, err := s.users.FindByInvitationToken(ctx, input.Token)
	if err != nil {
		return nil, domain.ErrInvalidToken
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
	if input.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}

	user.Status = domain.StatusActive
	user.InvitationToken = ""
	user.UpdatedAt = time.Now().UTC()

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}

	token, err := randomToken()
	if err != nil {
		return err
	}

	user.ResetPasswordToken = hashToken(token)
	user.ResetPasswordExpire = time.Now().UTC().Add(resetTokenTTL)
	user.UpdatedAt = time.Now().UTC()
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}

	resetURL := s.frontendURL + "/reset-password/" + token
	if err := s.mailer.Send(ctx, user.Email, "Reset your password", resetEmailBody(resetURL)); err != nil {
		// Roll the token back so the operation is retryable from scratch.
		user.ResetPasswordToken = ""
		user.ResetPasswordExpire = time.Time{}
		if rbErr := s.users.Update(ctx, user); rbErr != nil {
			s.logger.Error().Err(rbErr).Str("user_id", user.ID).Msg("reset token rollback failed")
		}
		return fmt.Errorf("send reset email: %w", err)
	}
	return nil
}

func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if newPassword == "" {
		return domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByResetToken(ctx, hashToken(token), time.Now().UTC())
	if err != nil {
		return domain.ErrInvalidToken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user.PasswordHash = string(hash)
	user.ResetPasswordToken = ""
	user.ResetPasswordExpire = time.Time{}
	user.UpdatedAt = time.Now().UTC()

	return s.users.Update(ctx, user)
}

func (s *AuthService) issueToken(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"role":    string(user.Role),
		"exp":     time.Now().Add(s.tokenTTL).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

// randomToken returns 20 random bytes hex-encoded (40 characters).
func randomToken() (string, error) {
	b := make([]byte, 20)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// hashToken is the storage form of reset tokens; only the digest is
// persisted.
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func inviteEmailBody(role, link string) string {
	return fmt.Sprintf(`<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
  <h2 style="color: #2563eb;">Welcome to the platform</h2>
  <p>You have been invited to join our dashboard as <strong>%s</strong>.</p>
  <p>To set up your account, password and photo, click the button below:</p>
  <a href="%s" style="background-color: #2563eb; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px; display: inline-block; margin-top: 10px;">Accept invitation</a>
  <p style="margin-top: 20px; font-size: 12px; color: #666;">If the button does not work, copy this link: %s</p>
</div>`, role, link, link)
}

func resetEmailBody(link string) string {
	return fmt.Sprintf(`<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
  <h2 style="color: #2563eb;">Password recovery</h2>
  <p>You requested a password reset. Click the link below:</p>
  <a href="%s" style="background-color: #2563eb; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px; display: inline-block; margin: 10px 0;">Reset password</a>
  <p style="font-size: 12px; color: #666;">This link expires in one hour.</p>
</div>`, link)
}
