package auth

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/rogerio-castellano/stockly/internal/errx"
	"github.com/rogerio-castellano/stockly/internal/redissvc"
	"github.com/rogerio-castellano/stockly/internal/repo"
)

func newTestService() *AuthService {
	return NewAuthService(repo.NewInMemoryUserRepository(), NewIssuer("test-secret", time.Hour), redissvc.NewMemoryStore())
}

func TestAuthService_RegisterLoginLogout(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	user, token, err := svc.Register(ctx, "Ana", " Ana@Example.com ", "secret123")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Email != "ana@example.com" {
		t.Errorf("expected normalized email, got %q", user.Email)
	}

	session, err := svc.Authenticate(ctx, token)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if session.ID != user.ID || session.Name != "Ana" || session.Email != "ana@example.com" {
		t.Errorf("unexpected session %+v", session)
	}

	loginToken, err := svc.Login(ctx, "ANA@example.com", "secret123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if err := svc.Logout(ctx, session); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := svc.Authenticate(ctx, token); err == nil {
		t.Error("expected revoked token to be rejected")
	}
	if _, err := svc.Authenticate(ctx, loginToken); err != nil {
		t.Errorf("expected other token to stay valid, got %v", err)
	}
}

func TestAuthService_Errors(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	if _, _, err := svc.Register(ctx, "Ana", "ana@example.com", "secret123"); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		call   func() error
		status int
	}{
		{"duplicate email", func() error {
			_, _, err := svc.Register(ctx, "Other", "ANA@example.com", "secret456")
			return err
		}, http.StatusConflict},
		{"wrong password", func() error {
			_, err := svc.Login(ctx, "ana@example.com", "nope")
			return err
		}, http.StatusUnauthorized},
		{"unknown email", func() error {
			_, err := svc.Login(ctx, "bob@example.com", "secret123")
			return err
		}, http.StatusUnauthorized},
		{"garbage token", func() error {
			_, err := svc.Authenticate(ctx, "not-a-token")
			return err
		}, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			if err == nil {
				t.Fatal("expected error")
			}
			if status, _ := errx.StatusOf(err); status != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, status)
			}
		})
	}
}

func TestIssuer_RejectsExpiredAndForeignTokens(t *testing.T) {
	ctx := context.Background()
	users := repo.NewInMemoryUserRepository()

	expired := NewAuthService(users, NewIssuer("test-secret", -time.Minute), redissvc.NewMemoryStore())
	_, token, err := expired.Register(ctx, "Ana", "ana@example.com", "secret123")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewIssuer("test-secret", time.Hour).Parse(token); err == nil {
		t.Error("expected expired token to be rejected")
	}

	user, err := users.GetByEmail(ctx, "ana@example.com")
	if err != nil {
		t.Fatal(err)
	}
	foreign, err := NewIssuer("other-secret", time.Hour).Issue(user)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewIssuer("test-secret", time.Hour).Parse(foreign); err == nil {
		t.Error("expected token signed with another secret to be rejected")
	}
}
