package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/coursestore/storefront/internal/core/ports"
)

// Synchronizer keeps the session in line with token writes made by other
// tabs sharing the same TokenStore.
type Synchronizer struct {
	store   ports.TokenStore
	session *Session
	tabID   string
	log     zerolog.Logger
}

// NewSynchronizer returns a synchronizer for the tab identified by tabID.
// Events written by that tab are ignored.
func NewSynchronizer(store ports.TokenStore, session *Session, tabID string, log zerolog.Logger) *Synchronizer {
	return &Synchronizer{store: store, session: session, tabID: tabID, log: log}
}

// Run consumes token events until ctx is done or the subscription closes.
func (s *Synchronizer) Run(ctx context.Context) error {
	events, err := s.store.Subscribe(ctx)
	if err != nil {
		return fmt.Errorf("subscribe to token events: %w", err)
	}
	s.log.Info().Str("tab_id", s.tabID).Msg("listening for token changes")

	// Writes made before the subscription existed produced no event.
	if err := s.session.Reconcile(ctx); err != nil {
		s.log.Warn().Err(err).Msg("initial session reconcile failed")
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if ev.Origin == s.tabID {
				continue
			}
			s.log.Debug().Str("origin", ev.Origin).Bool("present", ev.Present).Msg("token changed in another tab")
			if err := s.session.Reconcile(ctx); err != nil {
				s.log.Warn().Err(err).Msg("session reconcile failed")
			}
		}
	}
}
