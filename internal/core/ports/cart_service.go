package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/coursestore/storefront/internal/core/domain"
)

// CartService is the cart view model: a best-effort mirror of the server cart.
type CartService interface {
	Load(ctx context.Context) ([]domain.CartItem, error)
	AddItem(ctx context.Context, courseID int64) error
	RemoveItem(ctx context.Context, cartItemID int64) error
	Items() []domain.CartItem
	Total() decimal.Decimal
}

// CheckoutResult is returned by a successful checkout.
type CheckoutResult struct {
	Order domain.Order
	// Next is the screen to navigate to.
	Next string
}

type CheckoutService interface {
	Submit(ctx context.Context) (*CheckoutResult, error)
	State() domain.CheckoutState
}
