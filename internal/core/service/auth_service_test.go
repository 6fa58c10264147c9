package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/coursestore/storefront/internal/core/domain"
	"github.com/coursestore/storefront/internal/core/ports"
)

func newTestAuth(t *testing.T) (*Auth, *fixture) {
	t.Helper()
	fx := newFixture(t)
	return NewAuth(fx.api, fx.session, zerolog.Nop()), fx
}

func TestAuth_Login_Success(t *testing.T) {
	auth, fx := newTestAuth(t)

	err := auth.Login(context.Background(), ports.LoginInput{Email: "alice@example.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	fx.session.Wait()
	if !fx.session.IsAuthenticated() {
		t.Fatalf("expected authenticated session")
	}
}

func TestAuth_Login_Rejected(t *testing.T) {
	auth, fx := newTestAuth(t)

	err := auth.Login(context.Background(), ports.LoginInput{Email: "alice@example.com", Password: "wrong"})
	if !errors.Is(err, domain.ErrLoginFailed) {
		t.Fatalf("expected ErrLoginFailed, got %v", err)
	}
	if fx.session.IsAuthenticated() {
		t.Fatalf("rejected login must not open a session")
	}
	if token, _ := fx.store.Get(context.Background()); token != "" {
		t.Fatalf("expected no token, got %q", token)
	}
}

func TestAuth_Login_Validation(t *testing.T) {
	auth, fx := newTestAuth(t)

	err := auth.Login(context.Background(), ports.LoginInput{Email: "not-an-email"})
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if !strings.Contains(ve.Reason, "email") || !strings.Contains(ve.Reason, "password is required") {
		t.Fatalf("unexpected reason: %q", ve.Reason)
	}
	if fx.api.loginCalls != 0 {
		t.Fatalf("expected no API call, got %d", fx.api.loginCalls)
	}
}

func TestAuth_Register_PasswordMismatch(t *testing.T) {
	auth, fx := newTestAuth(t)

	_, err := auth.Register(context.Background(), ports.RegisterInput{
		Name: "Bob", Email: "bob@example.com", Password: "secret1", Confirm: "secret2",
	})
	if !errors.Is(err, domain.ErrPasswordMismatch) {
		t.Fatalf("expected ErrPasswordMismatch, got %v", err)
	}
	if len(fx.api.registered) != 0 {
		t.Fatalf("expected no registration request")
	}
}

func TestAuth_Register_ShortPassword(t *testing.T) {
	auth, _ := newTestAuth(t)

	_, err := auth.Register(context.Background(), ports.RegisterInput{
		Name: "Bob", Email: "bob@example.com", Password: "abc", Confirm: "abc",
	})
	var ve *domain.ValidationError
	if !errors.As(err, &ve) || !strings.Contains(ve.Reason, "at least 6") {
		t.Fatalf("expected min-length validation error, got %v", err)
	}
}

func TestAuth_Register_Success(t *testing.T) {
	auth, fx := newTestAuth(t)

	user, err := auth.Register(context.Background(), ports.RegisterInput{
		Name: "Bob", Email: "bob@example.com", Password: "secret1", Confirm: "secret1",
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.Email != "bob@example.com" {
		t.Fatalf("unexpected user: %+v", user)
	}
	if fx.session.IsAuthenticated() {
		t.Fatalf("registration must not log in")
	}
}

func TestAuth_Register_APIDetailSurvives(t *testing.T) {
	auth, _ := newTestAuth(t)

	_, err := auth.Register(context.Background(), ports.RegisterInput{
		Name: "Alice", Email: "alice@example.com", Password: "secret1", Confirm: "secret1",
	})
	notice := domain.NoticeFor(err)
	if notice == nil || notice.Message != "Email already registered" {
		t.Fatalf("expected API detail in notice, got %+v", notice)
	}
}

func TestAuth_Logout(t *testing.T) {
	auth, fx := newTestAuth(t)
	fx.login(t)

	if err := auth.Logout(context.Background()); err != nil {
		t.Fatalf("Logout returned error: %v", err)
	}
	if fx.session.IsAuthenticated() {
		t.Fatalf("expected logged out session")
	}
}
