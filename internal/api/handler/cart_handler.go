package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/coursestore/storefront/internal/api/metrics"
	"github.com/coursestore/storefront/internal/core/domain"
	"github.com/coursestore/storefront/internal/core/ports"
)

type CartHandler struct {
	*Renderer
	cart     ports.CartService
	checkout ports.CheckoutService
}

func NewCartHandler(r *Renderer, cart ports.CartService, checkout ports.CheckoutService) *CartHandler {
	return &CartHandler{Renderer: r, cart: cart, checkout: checkout}
}

type cartData struct {
	Items []domain.CartItem `json:"items"`
	Count int               `json:"count"`
	Total decimal.Decimal   `json:"total"`
}

func (h *CartHandler) cartData() cartData {
	items := h.cart.Items()
	return cartData{Items: items, Count: len(items), Total: domain.CartTotal(items)}
}

// View fetches the cart from the API and renders it.
func (h *CartHandler) View(c echo.Context) error {
	if _, err := h.cart.Load(c.Request().Context()); err != nil {
		return err
	}
	return h.Render(c, http.StatusOK, "cart", h.cartData(), nil)
}

func (h *CartHandler) Remove(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid cart item id")
	}

	err = h.cart.RemoveItem(c.Request().Context(), id)
	metrics.CartMutationsTotal.WithLabelValues("remove", mutationResult(err)).Inc()
	if err != nil {
		return err
	}
	return h.Render(c, http.StatusOK, "cart", h.cartData(), nil)
}

// Checkout places an order for the whole cart and sends the user to the
// profile screen. The cart is re-read first so the empty-cart check sees the
// server state.
func (h *CartHandler) Checkout(c echo.Context) error {
	ctx := c.Request().Context()
	if h.checkout.State() != domain.CheckoutSubmitting {
		if _, err := h.cart.Load(ctx); err != nil {
			return err
		}
	}

	start := time.Now()
	res, err := h.checkout.Submit(ctx)
	switch {
	case err == nil:
		metrics.CheckoutsTotal.WithLabelValues("success").Inc()
		metrics.CheckoutDuration.WithLabelValues("success").Observe(time.Since(start).Seconds())
	case errors.Is(err, domain.ErrCheckoutInProgress):
		metrics.CheckoutsTotal.WithLabelValues("in_progress").Inc()
	case errors.Is(err, domain.ErrEmptyCart):
		metrics.CheckoutsTotal.WithLabelValues("empty_cart").Inc()
	default:
		metrics.CheckoutsTotal.WithLabelValues("failed").Inc()
		metrics.CheckoutDuration.WithLabelValues("failed").Observe(time.Since(start).Seconds())
	}
	if err != nil {
		return err
	}

	return h.Redirect(c, res.Next, domain.NewNotice(domain.NoticeOrderPlaced, "Your order has been placed."))
}
