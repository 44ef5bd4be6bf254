package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gspp-platform/learning-service/internal/events"
	"github.com/gspp-platform/learning-service/internal/models"
)

func TestAuthService_RegisterAndLogin(t *testing.T) {
	ctx := context.Background()

	env := newTestEnv(t)
	svc := env.authService()

	t.Run("registers a student with a funded wallet", func(t *testing.T) {
		user, err := svc.RegisterStudent(ctx, &StudentRegisterRequest{
			Name:     "Alice",
			Email:    "alice@example.com",
			Password: "secret123",
			Profile:  "@alice",
		})
		if err != nil {
			t.Fatalf("RegisterStudent failed: %v", err)
		}

		if user.ID == 0 {
			t.Error("Registered user should have an id")
		}
		if user.Role != models.RoleStudent {
			t.Errorf("Expected Student role, got %s", user.Role)
		}
		if user.Balance != 30000 {
			t.Errorf("Expected starting balance 30000, got %d", user.Balance)
		}
		if user.CardNumber == "" || user.CVV == "" {
			t.Error("Registered user should have wallet card details")
		}
		if user.Password == "secret123" {
			t.Error("Password must not be stored in plain text")
		}

		published := env.publisher.GetPublishedEvents()
		if len(published) != 1 || published[0].Type != events.TopicUserRegistered {
			t.Errorf("Expected one %s event, got %v", events.TopicUserRegistered, published)
		}
	})

	t.Run("rejects a taken email", func(t *testing.T) {
		_, err := svc.RegisterStudent(ctx, &StudentRegisterRequest{
			Name:     "Alice Again",
			Email:    "alice@example.com",
			Password: "secret123",
			Profile:  "@alic",
		})
		if !errors.Is(err, ErrEmailTaken) {
			t.Fatalf("Expected ErrEmailTaken, got %v", err)
		}
	})

	t.Run("registers a teacher with a bio", func(t *testing.T) {
		user, err := svc.RegisterTeacher(ctx, &TeacherRegisterRequest{
			Name:     "Bob",
			Email:    "bob@example.com",
			Password: "secret123",
			Profile:  "@bob",
			Bio:      "Teaches Go",
		})
		if err != nil {
			t.Fatalf("RegisterTeacher failed: %v", err)
		}
		if user.Role != models.RoleTeacher {
			t.Errorf("Expected Teacher role, got %s", user.Role)
		}
		if user.Bio == nil || *user.Bio != "Teaches Go" {
			t.Error("Teacher bio was not stored")
		}
	})

	t.Run("logs in with the right password", func(t *testing.T) {
		resp, err := svc.Login(ctx, &LoginRequest{Email: "alice@example.com", Password: "secret123"})
		if err != nil {
			t.Fatalf("Login failed: %v", err)
		}
		if resp.Token == "" {
			t.Error("Login should return a token")
		}
		if resp.User.Email != "alice@example.com" {
			t.Errorf("Login returned wrong user: %s", resp.User.Email)
		}
	})

	t.Run("rejects the wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, &LoginRequest{Email: "alice@example.com", Password: "wrong-pass"})
		if !errors.Is(err, ErrInvalidCredential) {
			t.Fatalf("Expected ErrInvalidCredential, got %v", err)
		}
	})

	t.Run("rejects an unknown email", func(t *testing.T) {
		_, err := svc.Login(ctx, &LoginRequest{Email: "nobody@example.com", Password: "secret123"})
		if !errors.Is(err, ErrUserNotFound) {
			t.Fatalf("Expected ErrUserNotFound, got %v", err)
		}
	})
}

func TestAuthService_VerifyToken(t *testing.T) {
	ctx := context.Background()

	env := newTestEnv(t)
	svc := env.authService()

	user, err := svc.RegisterStudent(ctx, &StudentRegisterRequest{
		Name:     "Carol",
		Email:    "carol@example.com",
		Password: "secret123",
		Profile:  "@caro",
	})
	if err != nil {
		t.Fatalf("RegisterStudent failed: %v", err)
	}

	resp, err := svc.Login(ctx, &LoginRequest{Email: "carol@example.com", Password: "secret123"})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	t.Run("resolves a valid token to its user", func(t *testing.T) {
		verified, err := svc.VerifyToken(ctx, resp.Token)
		if err != nil {
			t.Fatalf("VerifyToken failed: %v", err)
		}
		if verified.ID != user.ID {
			t.Errorf("Expected user %d, got %d", user.ID, verified.ID)
		}
	})

	t.Run("rejects a garbage token", func(t *testing.T) {
		_, err := svc.VerifyToken(ctx, "not-a-token")
		if !errors.Is(err, ErrInvalidCredential) {
			t.Fatalf("Expected ErrInvalidCredential, got %v", err)
		}
	})

	t.Run("rejects a token signed with another secret", func(t *testing.T) {
		other := NewAuthService(env.repo, env.db, env.logger, env.validator, env.publisher, "other-secret", time.Hour)
		otherResp, err := other.Login(ctx, &LoginRequest{Email: "carol@example.com", Password: "secret123"})
		if err != nil {
			t.Fatalf("Login failed: %v", err)
		}
		if _, err := svc.VerifyToken(ctx, otherResp.Token); !errors.Is(err, ErrInvalidCredential) {
			t.Fatalf("Expected ErrInvalidCredential, got %v", err)
		}
	})
}
