package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/coursestore/storefront/internal/core/domain"
	"github.com/coursestore/storefront/internal/infrastructure/tokenstore"
)

func TestSession_LoginPersistsTokenAndFetchesProfile(t *testing.T) {
	fx := newFixture(t)
	fx.login(t)

	if !fx.session.IsAuthenticated() {
		t.Fatalf("expected session to be authenticated")
	}
	token, _ := fx.store.Get(context.Background())
	if token != validToken {
		t.Fatalf("expected token %q in store, got %q", validToken, token)
	}
	user := fx.session.CurrentUser()
	if user == nil || user.Email != "alice@example.com" {
		t.Fatalf("expected profile of alice, got %+v", user)
	}
}

func TestSession_LoginRejectsEmptyToken(t *testing.T) {
	fx := newFixture(t)

	err := fx.session.Login(context.Background(), "")
	if !errors.Is(err, domain.ErrLoginFailed) {
		t.Fatalf("expected ErrLoginFailed, got %v", err)
	}
	if fx.session.IsAuthenticated() {
		t.Fatalf("session must stay logged out")
	}
}

func TestSession_LogoutIsIdempotent(t *testing.T) {
	fx := newFixture(t)
	var reasons []string
	fx.session.OnLogout(func(reason string) { reasons = append(reasons, reason) })
	fx.login(t)

	for i := 0; i < 2; i++ {
		if err := fx.session.Logout(context.Background()); err != nil {
			t.Fatalf("Logout #%d returned error: %v", i+1, err)
		}
	}

	if fx.session.IsAuthenticated() {
		t.Fatalf("expected logged out session")
	}
	if fx.session.CurrentUser() != nil {
		t.Fatalf("expected profile to be cleared")
	}
	if token, _ := fx.store.Get(context.Background()); token != "" {
		t.Fatalf("expected store to be empty, got %q", token)
	}
	if len(reasons) != 1 || reasons[0] != LogoutExplicit {
		t.Fatalf("expected one explicit logout hook call, got %v", reasons)
	}
}

func TestSession_HandleAPIError_UnauthorizedForcesLogout(t *testing.T) {
	fx := newFixture(t)
	var reason string
	fx.session.OnLogout(func(r string) { reason = r })
	fx.login(t)

	err := fx.session.HandleAPIError(context.Background(), domain.ErrUnauthorized)
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected error to be returned unchanged, got %v", err)
	}
	if fx.session.IsAuthenticated() {
		t.Fatalf("expected 401 to log the session out")
	}
	if token, _ := fx.store.Get(context.Background()); token != "" {
		t.Fatalf("expected token to be removed, got %q", token)
	}
	if reason != LogoutUnauthorized {
		t.Fatalf("unexpected logout reason: %q", reason)
	}
}

func TestSession_HandleAPIError_OtherErrorsKeepSession(t *testing.T) {
	fx := newFixture(t)
	fx.login(t)

	for _, err := range []error{
		domain.ErrUnavailable,
		&domain.APIError{StatusCode: 500, Detail: "boom"},
		&domain.APIError{StatusCode: 403},
	} {
		if got := fx.session.HandleAPIError(context.Background(), err); got != err {
			t.Fatalf("expected %v back, got %v", err, got)
		}
	}
	if !fx.session.IsAuthenticated() {
		t.Fatalf("non-401 errors must not end the session")
	}
}

func TestSession_StaleProfileIsDiscarded(t *testing.T) {
	fx := newFixture(t)
	started := make(chan struct{})
	release := make(chan struct{})
	fx.api.meHook = func(context.Context) error {
		close(started)
		<-release
		return nil
	}

	if err := fx.session.Login(context.Background(), validToken); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	<-started
	if err := fx.session.Logout(context.Background()); err != nil {
		t.Fatalf("Logout returned error: %v", err)
	}
	close(release)
	fx.session.Wait()

	if fx.session.CurrentUser() != nil {
		t.Fatalf("profile resolved after logout must be dropped")
	}
	if fx.session.IsAuthenticated() {
		t.Fatalf("late profile must not revive the session")
	}
}

func TestSession_ProfileUnauthorizedLogsOut(t *testing.T) {
	fx := newFixture(t)
	fx.api.meHook = func(context.Context) error { return domain.ErrUnauthorized }

	if err := fx.session.Login(context.Background(), validToken); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	fx.session.Wait()

	if fx.session.IsAuthenticated() {
		t.Fatalf("expected 401 on profile fetch to log out")
	}
}

func TestSession_ProfileFailureKeepsToken(t *testing.T) {
	fx := newFixture(t)
	fx.api.meHook = func(context.Context) error { return domain.ErrUnavailable }
	fx.login(t)

	if !fx.session.IsAuthenticated() {
		t.Fatalf("profile failure must not revoke the session")
	}
	if token, _ := fx.store.Get(context.Background()); token != validToken {
		t.Fatalf("expected token to stay, got %q", token)
	}
}

func TestSession_TokenWithoutLogin(t *testing.T) {
	fx := newFixture(t)

	if _, err := fx.session.Token(context.Background()); !errors.Is(err, domain.ErrLoginRequired) {
		t.Fatalf("expected ErrLoginRequired, got %v", err)
	}
}

func TestSession_RestoreAdoptsStoredToken(t *testing.T) {
	hub := tokenstore.NewHub()
	if err := hub.Tab("tab-0", "auth_token").Set(context.Background(), validToken); err != nil {
		t.Fatalf("seed token: %v", err)
	}
	session := NewSession(hub.Tab("tab-1", "auth_token"), newFakeAPI(), zerolog.Nop())

	if err := session.Restore(context.Background()); err != nil {
		t.Fatalf("Restore returned error: %v", err)
	}
	session.Wait()

	if !session.IsAuthenticated() {
		t.Fatalf("expected restored session")
	}
	if session.CurrentUser() == nil {
		t.Fatalf("expected profile after restore")
	}
}

func TestSession_ReconcileFollowsStore(t *testing.T) {
	hub := tokenstore.NewHub()
	other := hub.Tab("tab-0", "auth_token")
	var reason string
	session := NewSession(hub.Tab("tab-1", "auth_token"), newFakeAPI(), zerolog.Nop())
	session.OnLogout(func(r string) { reason = r })
	ctx := context.Background()

	_ = other.Set(ctx, validToken)
	if err := session.Reconcile(ctx); err != nil {
		t.Fatalf("Reconcile returned error: %v", err)
	}
	session.Wait()
	if !session.IsAuthenticated() {
		t.Fatalf("expected token written elsewhere to log this tab in")
	}

	_ = other.Delete(ctx)
	if err := session.Reconcile(ctx); err != nil {
		t.Fatalf("Reconcile returned error: %v", err)
	}
	if session.IsAuthenticated() {
		t.Fatalf("expected removed token to log this tab out")
	}
	if reason != LogoutCrossTab {
		t.Fatalf("unexpected logout reason: %q", reason)
	}
}

// deleteFailingStore is a token store whose deletes always fail.
type deleteFailingStore struct {
	*tokenstore.Memory
}

func (deleteFailingStore) Delete(context.Context) error {
	return errors.New("store offline")
}

func TestSession_LogoutKeepsSessionWhenDeleteFails(t *testing.T) {
	store := deleteFailingStore{tokenstore.NewMemory("tab-1", "auth_token")}
	session := NewSession(store, newFakeAPI(), zerolog.Nop())
	ctx := context.Background()
	if err := session.Login(ctx, validToken); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	session.Wait()

	if err := session.Logout(ctx); err == nil {
		t.Fatalf("expected Logout to report the failed delete")
	}
	if !session.IsAuthenticated() || session.CurrentUser() == nil {
		t.Fatalf("session must stay open while its token is still stored")
	}
}

func TestSession_UnauthorizedDropsSessionWhenDeleteFails(t *testing.T) {
	store := deleteFailingStore{tokenstore.NewMemory("tab-1", "auth_token")}
	session := NewSession(store, newFakeAPI(), zerolog.Nop())
	ctx := context.Background()
	if err := session.Login(ctx, validToken); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	session.Wait()

	_ = session.HandleAPIError(ctx, domain.ErrUnauthorized)
	if session.IsAuthenticated() {
		t.Fatalf("a rejected token must close the session even if it cannot be deleted")
	}
}

func TestSession_TokenGoneClosesSession(t *testing.T) {
	fx := newFixture(t)
	var reason string
	fx.session.OnLogout(func(r string) { reason = r })
	fx.login(t)

	_ = fx.store.Delete(context.Background())
	if _, err := fx.session.Token(context.Background()); !errors.Is(err, domain.ErrLoginRequired) {
		t.Fatalf("expected ErrLoginRequired, got %v", err)
	}
	if fx.session.IsAuthenticated() || fx.session.CurrentUser() != nil {
		t.Fatalf("expected session closed once its token is gone")
	}
	if reason != LogoutCrossTab {
		t.Fatalf("expected cross tab logout reason, got %q", reason)
	}
}

func TestSession_ProfileUnauthorizedKeepsNewerToken(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	// Another tab logs in with a fresh token while the stale one is checked.
	fx.api.meHook = func(context.Context) error {
		return fx.store.Set(ctx, validToken)
	}

	if err := fx.session.Login(ctx, "token-stale"); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	fx.session.Wait()

	if token, _ := fx.store.Get(ctx); token != validToken {
		t.Fatalf("expected newer token to survive, got %q", token)
	}
	if !fx.session.IsAuthenticated() {
		t.Fatalf("expected session to follow the newer token")
	}
	if user := fx.session.CurrentUser(); user == nil || user.Email != "alice@example.com" {
		t.Fatalf("expected profile fetched with the newer token, got %+v", user)
	}
}
