package domain

import (
	"errors"
	"time"
)

// Role is the closed set of account roles.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin:
		return true
	}
	return false
}

// UserStatus is the account lifecycle state. Invited accounts start as
// pending and flip to active when the invitee completes their profile.
type UserStatus string

const (
	StatusPending UserStatus = "pending"
	StatusActive  UserStatus = "active"
)

// DefaultAvatarURL is assigned to accounts created without an avatar.
const DefaultAvatarURL = "https://cdn.aulahub.io/defaults/avatar.png"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrForbidden          = errors.New("access forbidden")
)

// Subscription is the billing snapshot kept on the user document. It mirrors
// the gateway's state as of the last webhook; the gateway is authoritative.
type Subscription struct {
	ID               string    `json:"id,omitempty" bson:"id,omitempty"`
	Status           string    `json:"status,omitempty" bson:"status,omitempty"`
	Plan             string    `json:"plan,omitempty" bson:"plan,omitempty"`
	CurrentPeriodEnd time.Time `json:"current_period_end,omitempty" bson:"current_period_end,omitempty"`
	CustomerID       string    `json:"customer_id,omitempty" bson:"customer_id,omitempty"`
}

// User models an account. PasswordHash is empty while an invitation is
// pending. Reset tokens are stored hashed; the plaintext only travels in the
// reset email.
type User struct {
	ID                  string       `json:"id" bson:"_id,omitempty"`
	Username            string       `json:"username" bson:"username"`
	Email               string       `json:"email" bson:"email"`
	PasswordHash        string       `json:"-" bson:"password_hash,omitempty"`
	Role                Role         `json:"role" bson:"role"`
	Avatar              string       `json:"avatar" bson:"avatar"`
	Bio                 string       `json:"bio" bson:"bio"`
	Status              UserStatus   `json:"status" bson:"status"`
	InvitationToken     string       `json:"-" bson:"invitation_token,omitempty"`
	ResetPasswordToken  string       `json:"-" bson:"reset_password_token,omitempty"`
	ResetPasswordExpire time.Time    `json:"-" bson:"reset_password_expire,omitempty"`
	Subscription        Subscription `json:"subscription,omitempty" bson:"subscription,omitempty"`
	CreatedAt           time.Time    `json:"created_at" bson:"created_at"`
	UpdatedAt           time.Time    `json:"updated_at" bson:"updated_at"`
}

// PublicProfile is the projection safe to embed in feeds, chats and
// notifications: identity plus display fields, nothing secret.
type PublicProfile struct {
	ID       string `json:"id" bson:"_id,omitempty"`
	Username string `json:"username" bson:"username"`
	Email    string `json:"email,omitempty" bson:"email,omitempty"`
	Avatar   string `json:"avatar" bson:"avatar"`
	Role     Role   `json:"role,omitempty" bson:"role,omitempty"`
}

// Public returns the user's public projection.
func (u *User) Public() PublicProfile {
	return PublicProfile{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Avatar:   u.Avatar,
		Role:     u.Role,
	}
}
