package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/coursestore/storefront/internal/api/handler"
	"github.com/coursestore/storefront/internal/core/domain"
)

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their HTTP status codes.
//   - Renders them as a screen carrying a user-facing notice.
//   - Sends an expired session to the login screen.
//   - Logs unexpected errors without leaking details to the client.
func NewHTTPErrorHandler(r *handler.Renderer, log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		if errors.Is(err, domain.ErrUnauthorized) {
			_ = r.Redirect(c, domain.PathLogin, domain.NoticeFor(err))
			return
		}

		code, notice := resolveError(err, log, c)
		_ = r.Render(c, code, "error", nil, notice)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, *domain.Notice) {
	// Echo's own errors (bind failures, 405 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, domain.NewNotice(domain.NoticeError, fmt.Sprintf("%v", he.Message))
	}

	notice := domain.NoticeFor(err)

	// Known domain errors → deterministic HTTP codes.
	var ve *domain.ValidationError
	switch {
	case errors.Is(err, domain.ErrUnavailable):
		log.Warn().Err(err).Str("path", c.Path()).Msg("marketplace api unavailable")
		return http.StatusServiceUnavailable, notice
	case errors.Is(err, domain.ErrLoginRequired),
		errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrLoginFailed):
		return http.StatusUnauthorized, notice
	case errors.Is(err, domain.ErrAlreadyInCart):
		return http.StatusConflict, notice
	case errors.Is(err, domain.ErrEmptyCart):
		return http.StatusBadRequest, notice
	case errors.Is(err, domain.ErrCheckoutInProgress):
		return http.StatusAccepted, notice
	case errors.Is(err, domain.ErrPasswordMismatch), errors.As(err, &ve):
		return http.StatusUnprocessableEntity, notice
	case errors.Is(err, domain.ErrCourseNotFound):
		return http.StatusNotFound, notice
	case errors.Is(err, domain.ErrAddFailed),
		errors.Is(err, domain.ErrRemoveFailed),
		errors.Is(err, domain.ErrOrderFailed):
		log.Warn().Err(err).Str("path", c.Path()).Msg("marketplace api rejected the request")
		return http.StatusBadGateway, notice
	}

	var ae *domain.APIError
	if errors.As(err, &ae) && ae.StatusCode >= 400 && ae.StatusCode < 500 {
		return http.StatusBadRequest, notice
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, domain.NewNotice(domain.NoticeError, "Something went wrong.")
}
