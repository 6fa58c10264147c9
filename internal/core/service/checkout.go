package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/coursestore/storefront/internal/core/domain"
	"github.com/coursestore/storefront/internal/core/ports"
)

// CartView is the part of the cart view model the checkout needs.
type CartView interface {
	Len() int
	Clear()
}

// Checkout turns the cart into an order, at most one submission at a time.
type Checkout struct {
	api     ports.MarketplaceAPI
	session *Session
	cart    CartView
	log     zerolog.Logger

	mu    sync.Mutex
	state domain.CheckoutState
}

func NewCheckout(api ports.MarketplaceAPI, session *Session, cart CartView, log zerolog.Logger) *Checkout {
	return &Checkout{
		api:     api,
		session: session,
		cart:    cart,
		log:     log,
		state:   domain.CheckoutIdle,
	}
}

// Submit sends exactly one order request when the cart is non-empty and no
// other submission is in flight. A call made while submitting is ignored
// with domain.ErrCheckoutInProgress. Failures leave the cart untouched and
// return the workflow to idle; nothing is retried.
func (w *Checkout) Submit(ctx context.Context) (*ports.CheckoutResult, error) {
	token, err := w.session.Token(ctx)
	if err != nil {
		return nil, err
	}

	w.mu.Lock()
	if w.state == domain.CheckoutSubmitting {
		w.mu.Unlock()
		w.log.Debug().Msg("checkout already in flight, ignoring trigger")
		return nil, domain.ErrCheckoutInProgress
	}
	if w.cart.Len() == 0 {
		w.mu.Unlock()
		return nil, domain.ErrEmptyCart
	}
	w.transition(domain.CheckoutSubmitting)
	w.mu.Unlock()

	order, err := w.api.CreateOrder(ctx, token)
	if err != nil {
		err = w.session.HandleAPIError(ctx, err)
		w.settle(domain.CheckoutFailed)
		w.log.Warn().Err(err).Msg("order submission failed")
		return nil, fmt.Errorf("%w: %w", domain.ErrOrderFailed, err)
	}

	w.cart.Clear()
	w.settle(domain.CheckoutSuccess)
	w.log.Info().
		Int64("order_id", order.ID).
		Str("total", order.TotalAmount.String()).
		Int("items", len(order.Items)).
		Msg("order placed")

	return &ports.CheckoutResult{Order: *order, Next: domain.PathProfile}, nil
}

// State returns the current workflow state.
func (w *Checkout) State() domain.CheckoutState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// settle records the outcome and re-arms the workflow.
func (w *Checkout) settle(outcome domain.CheckoutState) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.transition(outcome)
	w.transition(domain.CheckoutIdle)
}

// transition must be called with w.mu held.
func (w *Checkout) transition(next domain.CheckoutState) {
	if !w.state.CanTransitionTo(next) {
		w.log.Error().
			Str("from", string(w.state)).
			Str("to", string(next)).
			Msg("invalid checkout transition")
	}
	w.state = next
}
