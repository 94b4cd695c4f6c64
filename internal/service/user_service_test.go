package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
)

func TestUserServiceCreate_NormalizesEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(zap.NewNop(), repo)

	user, err := svc.CreateUser(context.Background(), CreateUserInput{
		Email:       " User@Example.COM ",
		DisplayName: " Ana ",
		Password:    "hunter22",
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if user.Email != "user@example.com" {
		t.Fatalf("expected normalized email, got %q", user.Email)
	}
	if user.DisplayName != "Ana" {
		t.Fatalf("expected trimmed display name, got %q", user.DisplayName)
	}
	if user.PasswordHash == "" || user.PasswordHash == "hunter22" {
		t.Fatalf("expected hashed password")
	}
}

func TestUserServiceCreate_InvalidEmail(t *testing.T) {
	svc := NewUserService(zap.NewNop(), newFakeUserRepo())

	if _, err := svc.CreateUser(context.Background(), CreateUserInput{Email: "not-an-email"}); !errors.Is(err, ErrInvalidEmail) {
		t.Fatalf("expected ErrInvalidEmail, got %v", err)
	}
}

func TestUserServiceAuthenticate(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(zap.NewNop(), repo)

	created, err := svc.CreateUser(context.Background(), CreateUserInput{
		Email:    "user@example.com",
		Password: "hunter22",
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	user, err := svc.Authenticate(context.Background(), "user@example.com", "hunter22")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if user.ID != created.ID {
		t.Fatalf("unexpected user %q", user.ID)
	}

	if _, err := svc.Authenticate(context.Background(), "user@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Authenticate(context.Background(), "ghost@example.com", "hunter22"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown user, got %v", err)
	}
}
