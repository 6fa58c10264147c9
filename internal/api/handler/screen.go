package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/coursestore/storefront/internal/api/metrics"
	"github.com/coursestore/storefront/internal/core/domain"
	"github.com/coursestore/storefront/internal/core/ports"
)

// Screen is the envelope of every storefront response. A thin renderer turns
// it into a page.
type Screen struct {
	Name          string         `json:"screen"`
	Authenticated bool           `json:"authenticated"`
	User          *domain.User   `json:"user,omitempty"`
	Notice        *domain.Notice `json:"notice,omitempty"`
	// Redirect repeats the Location header of a 303 answer.
	Redirect string `json:"redirect,omitempty"`
	Data     any    `json:"data,omitempty"`
}

// Renderer stamps the session state on every screen.
type Renderer struct {
	session ports.SessionService
}

func NewRenderer(session ports.SessionService) *Renderer {
	return &Renderer{session: session}
}

func (r *Renderer) Render(c echo.Context, status int, name string, data any, notice *domain.Notice) error {
	return c.JSON(status, r.screen(name, data, notice))
}

// Redirect answers 303 See Other towards path, carrying notice to the next
// screen.
func (r *Renderer) Redirect(c echo.Context, path string, notice *domain.Notice) error {
	s := r.screen(path, nil, notice)
	s.Redirect = path
	c.Response().Header().Set(echo.HeaderLocation, path)
	return c.JSON(http.StatusSeeOther, s)
}

func (r *Renderer) screen(name string, data any, notice *domain.Notice) Screen {
	if notice != nil {
		metrics.NoticesTotal.WithLabelValues(string(notice.Kind)).Inc()
	}
	return Screen{
		Name:          name,
		Authenticated: r.session.IsAuthenticated(),
		User:          r.session.CurrentUser(),
		Notice:        notice,
		Data:          data,
	}
}
