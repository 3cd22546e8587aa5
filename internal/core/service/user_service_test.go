package service

import (
	"context"
	"testing"

	"github.com/aulahub/lms-platform/internal/core/domain"
	"github.com/aulahub/lms-platform/internal/core/ports"
)

func TestUserService_UpdateProfile_PartialFields(t *testing.T) {
	users := newStubUserRepo()
	files := &stubFileStore{}
	svc := NewUserService(users, files, testLogger())

	user := users.seed(&domain.User{Username: "alice", Email: "a@example.com", Bio: "old bio"})

	updated, err := svc.UpdateProfile(context.Background(), ports.UpdateProfileInput{
		UserID:   user.ID,
		Username: "alice2",
	})
	if err != nil {
		t.Fatalf("UpdateProfile returned error: %v", err)
	}
	if updated.Username != "alice2" {
		t.Fatalf("username not applied: %s", updated.Username)
	}
	if updated.Bio != "old bio" {
		t.Fatalf("empty fields must be left unchanged: %s", updated.Bio)
	}

	withAvatar, err := svc.UpdateProfile(context.Background(), ports.UpdateProfileInput{
		UserID:     user.ID,
		AvatarPath: "/tmp/pic.png",
	})
	if err != nil {
		t.Fatalf("UpdateProfile returned error: %v", err)
	}
	if withAvatar.Avatar == "" || withAvatar.Avatar == domain.DefaultAvatarURL {
		t.Fatalf("avatar upload not applied: %s", withAvatar.Avatar)
	}
	if len(files.uploads) != 1 {
		t.Fatalf("expected one upload, got %d", len(files.uploads))
	}
}

func TestUserService_SetRole(t *testing.T) {
	users := newStubUserRepo()
	svc := NewUserService(users, &stubFileStore{}, testLogger())

	user := users.seed(&domain.User{Username: "bob", Email: "b@example.com", Role: domain.RoleUser})

	if err := svc.SetRole(context.Background(), user.ID, "superuser"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials for unknown role, got %v", err)
	}

	if err := svc.SetRole(context.Background(), user.ID, domain.RoleAdmin); err != nil {
		t.Fatalf("SetRole returned error: %v", err)
	}
	stored, _ := users.FindByID(context.Background(), user.ID)
	if stored.Role != domain.RoleAdmin {
		t.Fatalf("role not persisted: %s", stored.Role)
	}

	if err := svc.SetRole(context.Background(), "missing", domain.RoleAdmin); err != domain.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserService_Delete(t *testing.T) {
	users := newStubUserRepo()
	svc := NewUserService(users, &stubFileStore{}, testLogger())

	user := users.seed(&domain.User{Username: "gone", Email: "g@example.com"})
	if err := svc.Delete(context.Background(), user.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if _, err := users.FindByID(context.Background(), user.ID); err != domain.ErrUserNotFound {
		t.Fatalf("user should be gone, got %v", err)
	}
}
