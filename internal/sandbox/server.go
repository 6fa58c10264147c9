package sandbox

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/coursestore/storefront/internal/pkg/validation"
)

type Config struct {
	JWTSecret string
	TokenTTL  time.Duration
}

// detailResponse is the error envelope: {"detail": "..."} or, for invalid
// input, {"detail": [{"msg": "..."}]}.
type detailResponse struct {
	Detail any `json:"detail"`
}

type detailEntry struct {
	Msg  string `json:"msg"`
	Type string `json:"type"`
}

// NewServer builds the sandbox API on store. Every business route lives
// under /api; /health is served at the root.
func NewServer(cfg Config, store *Store, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = validation.NewEcho()
	e.HTTPErrorHandler = newHTTPErrorHandler(log)

	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			log.Debug().
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	}))

	auth := NewAuth(store, cfg.JWTSecret, cfg.TokenTTL)
	h := NewHandler(store, auth)
	requireUser := RequireUser(auth)

	e.GET("/health", h.Health)

	api := e.Group("/api")
	api.POST("/register", h.Register)
	api.POST("/login", h.Login)
	api.GET("/me", h.Me, requireUser)

	api.GET("/courses", h.ListCourses)
	api.GET("/courses/:id", h.GetCourse)

	api.GET("/cart", h.GetCart, requireUser)
	api.POST("/cart", h.AddToCart, requireUser)
	api.DELETE("/cart/:id", h.RemoveFromCart, requireUser)

	api.POST("/orders", h.CreateOrder, requireUser)
	api.GET("/orders", h.ListOrders, requireUser)

	return e
}

func newHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		code, detail := resolveError(err, log, c)
		_ = c.JSON(code, detailResponse{Detail: detail})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, any) {
	var ve *validation.Error
	if errors.As(err, &ve) {
		return http.StatusUnprocessableEntity, []detailEntry{{Msg: ve.Reason, Type: "value_error"}}
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	switch {
	case errors.Is(err, ErrEmailTaken):
		return http.StatusBadRequest, "Email already registered"
	case errors.Is(err, ErrInvalidCredentials):
		return http.StatusUnauthorized, "Incorrect email or password"
	case errors.Is(err, ErrCourseNotFound):
		return http.StatusNotFound, "Course not found"
	case errors.Is(err, ErrAlreadyInCart):
		return http.StatusBadRequest, "Course already in cart"
	case errors.Is(err, ErrCourseUnavailable):
		return http.StatusBadRequest, "Course is not available"
	case errors.Is(err, ErrCartItemNotFound):
		return http.StatusNotFound, "Cart item not found"
	case errors.Is(err, ErrEmptyCart):
		return http.StatusBadRequest, "Cart is empty"
	case errors.Is(err, ErrUserNotFound):
		return http.StatusNotFound, "User not found"
	}

	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "Internal Server Error"
}
