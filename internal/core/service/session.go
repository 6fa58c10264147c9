package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/coursestore/storefront/internal/core/domain"
	"github.com/coursestore/storefront/internal/core/ports"
)

const defaultProfileTimeout = 10 * time.Second

// Reasons passed to logout hooks.
const (
	LogoutExplicit     = "logout"
	LogoutUnauthorized = "unauthorized"
	LogoutCrossTab     = "cross_tab"
)

// Session is the authentication state of one storefront tab. The token lives
// in the TokenStore and is re-read for every operation; the session itself
// only keeps the authenticated flag and the cached profile.
type Session struct {
	store          ports.TokenStore
	api            ports.MarketplaceAPI
	log            zerolog.Logger
	profileTimeout time.Duration

	mu            sync.Mutex
	authenticated bool
	user          *domain.User
	// epoch changes on every login and logout; a profile fetch only lands
	// if the epoch it started in is still current.
	epoch uint64
	hooks []func(reason string)

	pending sync.WaitGroup
}

func NewSession(store ports.TokenStore, api ports.MarketplaceAPI, log zerolog.Logger) *Session {
	return &Session{
		store:          store,
		api:            api,
		log:            log,
		profileTimeout: defaultProfileTimeout,
	}
}

// OnLogout registers fn to run after every transition to the logged-out
// state. fn runs outside the session lock.
func (s *Session) OnLogout(fn func(reason string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks = append(s.hooks, fn)
}

// Restore adopts a token left in the store by a previous run or another tab.
func (s *Session) Restore(ctx context.Context) error {
	token, err := s.store.Get(ctx)
	if err != nil {
		return fmt.Errorf("restore session: %w", err)
	}
	if token == "" {
		return nil
	}

	epoch := s.authenticate()
	s.log.Info().Msg("session restored from token store")
	s.fetchProfile(epoch, token)
	return nil
}

// Login persists token and marks the tab authenticated. The profile is
// fetched in the background; its failure never revokes the token.
func (s *Session) Login(ctx context.Context, token string) error {
	if token == "" {
		return fmt.Errorf("login: %w", domain.ErrLoginFailed)
	}
	if err := s.store.Set(ctx, token); err != nil {
		return fmt.Errorf("login: persist token: %w", err)
	}

	epoch := s.authenticate()
	s.log.Info().Msg("session opened")
	s.fetchProfile(epoch, token)
	return nil
}

// Logout clears the persisted token and the cached profile. Calling it while
// already logged out is a no-op apart from the store delete. If the token
// cannot be deleted the session stays open, so a later Restore cannot bring
// back a session the user believes is closed.
func (s *Session) Logout(ctx context.Context) error {
	return s.logout(ctx, LogoutExplicit)
}

func (s *Session) logout(ctx context.Context, reason string) error {
	err := s.store.Delete(ctx)
	if err != nil && reason == LogoutExplicit {
		return fmt.Errorf("logout: clear token: %w", err)
	}
	// A rejected token is dropped locally even when the store delete fails.
	s.invalidate(reason)
	if err != nil {
		return fmt.Errorf("logout: clear token: %w", err)
	}
	return nil
}

// HandleAPIError logs the session out when err is an authorization failure,
// then returns err unchanged. Every authorized call routes its error through
// here before surfacing it.
func (s *Session) HandleAPIError(ctx context.Context, err error) error {
	if err == nil || !errors.Is(err, domain.ErrUnauthorized) {
		return err
	}
	s.log.Warn().Err(err).Msg("api rejected token, forcing logout")
	if logoutErr := s.logout(ctx, LogoutUnauthorized); logoutErr != nil {
		s.log.Error().Err(logoutErr).Msg("forced logout could not clear token")
	}
	return err
}

// Token reads the current token from the store. A token that vanished while
// the tab still counts as logged in closes the session, as if the removal had
// been reported by the synchronizer.
func (s *Session) Token(ctx context.Context) (string, error) {
	token, err := s.store.Get(ctx)
	if err != nil {
		return "", fmt.Errorf("read token: %w", err)
	}
	if token == "" {
		if s.IsAuthenticated() {
			s.log.Info().Msg("token gone from store, closing session")
			s.invalidate(LogoutCrossTab)
		}
		return "", domain.ErrLoginRequired
	}
	return token, nil
}

// Reconcile re-reads the store after another tab changed it. A vanished
// token logs this tab out locally; a new token marks it authenticated and
// refreshes the profile.
func (s *Session) Reconcile(ctx context.Context) error {
	token, err := s.store.Get(ctx)
	if err != nil {
		return fmt.Errorf("reconcile session: %w", err)
	}

	authenticated := s.IsAuthenticated()
	switch {
	case token == "" && authenticated:
		s.invalidate(LogoutCrossTab)
		s.log.Info().Msg("session closed by another tab")
	case token != "" && !authenticated:
		epoch := s.authenticate()
		s.log.Info().Msg("session opened by another tab")
		s.fetchProfile(epoch, token)
	}
	return nil
}

func (s *Session) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authenticated
}

// CurrentUser returns a copy of the cached profile, or nil.
func (s *Session) CurrentUser() *domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Wait blocks until background profile fetches have finished.
func (s *Session) Wait() {
	s.pending.Wait()
}

func (s *Session) authenticate() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.authenticated = true
	s.user = nil
	s.epoch++
	return s.epoch
}

func (s *Session) invalidate(reason string) {
	s.mu.Lock()
	wasAuthenticated := s.authenticated
	s.authenticated = false
	s.user = nil
	s.epoch++
	hooks := append([]func(string){}, s.hooks...)
	s.mu.Unlock()

	if !wasAuthenticated {
		return
	}
	s.log.Info().Str("reason", reason).Msg("session closed")
	for _, fn := range hooks {
		fn(reason)
	}
}

func (s *Session) isEpoch(epoch uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.epoch == epoch
}

func (s *Session) fetchProfile(epoch uint64, token string) {
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()

		ctx, cancel := context.WithTimeout(context.Background(), s.profileTimeout)
		defer cancel()

		user, err := s.api.Me(ctx, token)
		if err != nil {
			if errors.Is(err, domain.ErrUnauthorized) && s.isEpoch(epoch) {
				s.rejectToken(ctx, token, err)
				return
			}
			s.log.Warn().Err(err).Msg("profile fetch failed")
			return
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		if s.epoch != epoch || !s.authenticated {
			s.log.Debug().Msg("discarding stale profile")
			return
		}
		s.user = user
	}()
}

// rejectToken handles a 401 for token. When another tab has meanwhile stored
// a different token, that one is adopted instead of logging out, so the newer
// session is not deleted.
func (s *Session) rejectToken(ctx context.Context, token string, err error) {
	stored, getErr := s.store.Get(ctx)
	if getErr == nil && stored != "" && stored != token {
		s.log.Info().Msg("rejected token was replaced by another tab")
		epoch := s.authenticate()
		s.fetchProfile(epoch, stored)
		return
	}
	_ = s.HandleAPIError(ctx, err)
}
