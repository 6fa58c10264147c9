package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/coursestore/storefront/internal/api/metrics"
	"github.com/coursestore/storefront/internal/core/domain"
)

// Navigator decides whether a path may render.
type Navigator interface {
	Evaluate(path string) domain.Decision
}

// Guard runs the route guard before any handler. A redirect decision answers
// 303 with the target in Location; the handler never runs. Paths under one
// of the skip prefixes bypass the guard.
func Guard(nav Navigator, skip ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Request().URL.Path
			for _, prefix := range skip {
				if path == prefix || strings.HasPrefix(path, prefix+"/") {
					return next(c)
				}
			}

			d := nav.Evaluate(path)
			if !d.Redirect {
				return next(c)
			}

			from := "unknown"
			if access, ok := domain.AccessFor(path); ok {
				from = string(access)
			}
			metrics.GuardRedirectsTotal.WithLabelValues(from, d.Path).Inc()
			return c.Redirect(http.StatusSeeOther, d.Path)
		}
	}
}
