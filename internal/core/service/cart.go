package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/coursestore/storefront/internal/core/domain"
	"github.com/coursestore/storefront/internal/core/ports"
)

// Cart mirrors the server-side cart of the logged-in user. The server is the
// source of truth; the local list only changes after the server confirmed a
// mutation or a fresh load arrived.
type Cart struct {
	api     ports.MarketplaceAPI
	session *Session
	log     zerolog.Logger

	mu    sync.Mutex
	items []domain.CartItem
	// gen changes whenever the view is cleared; loads that started under an
	// older generation are dropped.
	gen uint64
}

// NewCart returns a cart view bound to session. The view is cleared whenever
// the session logs out.
func NewCart(api ports.MarketplaceAPI, session *Session, log zerolog.Logger) *Cart {
	c := &Cart{api: api, session: session, log: log}
	session.OnLogout(func(string) { c.Clear() })
	return c
}

// Load fetches the cart. An authorization failure logs the session out and
// is returned so the caller can send the user to the login screen.
func (c *Cart) Load(ctx context.Context) ([]domain.CartItem, error) {
	token, err := c.session.Token(ctx)
	if err != nil {
		return nil, err
	}

	gen := c.generation()
	items, err := c.api.GetCart(ctx, token)
	if err != nil {
		err = c.session.HandleAPIError(ctx, err)
		c.log.Warn().Err(err).Msg("cart fetch failed")
		return nil, fmt.Errorf("load cart: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen {
		c.log.Debug().Msg("discarding stale cart result")
		return cloneItems(c.items), nil
	}
	c.items = cloneItems(items)
	return cloneItems(c.items), nil
}

// AddItem asks the server to add courseID. Without a session it fails with
// domain.ErrLoginRequired before any network call. A duplicate add fails
// with domain.ErrAlreadyInCart and leaves the view untouched.
func (c *Cart) AddItem(ctx context.Context, courseID int64) error {
	if !c.session.IsAuthenticated() {
		return domain.ErrLoginRequired
	}
	token, err := c.session.Token(ctx)
	if err != nil {
		return err
	}

	item, err := c.api.AddToCart(ctx, token, courseID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAlreadyInCart):
			return domain.ErrAlreadyInCart
		case errors.Is(err, domain.ErrUnauthorized):
			return c.session.HandleAPIError(ctx, err)
		}
		c.log.Warn().Err(err).Int64("course_id", courseID).Msg("add to cart failed")
		return fmt.Errorf("%w: %w", domain.ErrAddFailed, err)
	}

	c.log.Info().Int64("course_id", courseID).Msg("course added to cart")
	if item == nil || item.ID == 0 {
		// The API only acknowledged the add; pick the new line up from a fresh load.
		if _, err := c.Load(ctx); err != nil {
			c.log.Warn().Err(err).Msg("cart refresh after add failed")
		}
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, existing := range c.items {
		if existing.ID == item.ID || existing.Course.ID == item.Course.ID {
			return nil
		}
	}
	c.items = append(c.items, *item)
	return nil
}

// RemoveItem deletes a cart line. On failure the view is left as it was.
func (c *Cart) RemoveItem(ctx context.Context, cartItemID int64) error {
	token, err := c.session.Token(ctx)
	if err != nil {
		return err
	}

	if err := c.api.RemoveFromCart(ctx, token, cartItemID); err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			return c.session.HandleAPIError(ctx, err)
		}
		c.log.Warn().Err(err).Int64("cart_item_id", cartItemID).Msg("remove from cart failed")
		return fmt.Errorf("%w: %w", domain.ErrRemoveFailed, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	kept := c.items[:0]
	for _, it := range c.items {
		if it.ID != cartItemID {
			kept = append(kept, it)
		}
	}
	c.items = kept
	return nil
}

// Items returns a copy of the current view.
func (c *Cart) Items() []domain.CartItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	return cloneItems(c.items)
}

func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Total is derived from the current items on every call.
func (c *Cart) Total() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()
	return domain.CartTotal(c.items)
}

// Clear empties the view and drops the result of any load still in flight.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
	c.gen++
}

func (c *Cart) generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen
}

func cloneItems(items []domain.CartItem) []domain.CartItem {
	if items == nil {
		return []domain.CartItem{}
	}
	out := make([]domain.CartItem, len(items))
	copy(out, items)
	return out
}
