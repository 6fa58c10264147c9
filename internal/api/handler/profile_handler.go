package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/coursestore/storefront/internal/core/domain"
	"github.com/coursestore/storefront/internal/core/ports"
)

type ProfileHandler struct {
	*Renderer
	session ports.SessionService
	orders  ports.OrderService
}

func NewProfileHandler(r *Renderer, session ports.SessionService, orders ports.OrderService) *ProfileHandler {
	return &ProfileHandler{Renderer: r, session: session, orders: orders}
}

type profileData struct {
	// User is nil while the profile is still being fetched.
	User   *domain.User   `json:"user"`
	Orders []domain.Order `json:"orders"`
}

func (h *ProfileHandler) Show(c echo.Context) error {
	orders, err := h.orders.List(c.Request().Context())
	if err != nil {
		return err
	}
	return h.Render(c, http.StatusOK, "profile", profileData{
		User:   h.session.CurrentUser(),
		Orders: orders,
	}, nil)
}
