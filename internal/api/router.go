package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/coursestore/storefront/internal/api/handler"
	"github.com/coursestore/storefront/internal/api/middleware"
	"github.com/coursestore/storefront/internal/core/ports"
)

// Dependencies are the services the storefront screens are built on.
type Dependencies struct {
	Session  ports.SessionService
	Auth     ports.AuthService
	Catalog  ports.CatalogService
	Orders   ports.OrderService
	Cart     ports.CartService
	Checkout ports.CheckoutService
	Guard    middleware.Navigator
	// Probes are checked by GET /health/ready, keyed by dependency name.
	Probes map[string]handler.Pinger
	// Registry receives the HTTP metrics. Nil means the default registry.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	renderer := handler.NewRenderer(deps.Session)
	e.HTTPErrorHandler = NewHTTPErrorHandler(renderer, log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			log.Info().
				Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	}))
	e.Use(metricsMiddleware(deps.Registry))
	e.Use(middleware.Guard(deps.Guard, "/health", "/metrics"))

	// --- Dependencies ---
	pages := handler.NewPagesHandler(renderer, deps.Catalog, deps.Session, log)
	auth := handler.NewAuthHandler(renderer, deps.Auth)
	courses := handler.NewCourseHandler(renderer, deps.Catalog, deps.Cart)
	cart := handler.NewCartHandler(renderer, deps.Cart, deps.Checkout)
	profile := handler.NewProfileHandler(renderer, deps.Session, deps.Orders)
	health := handler.NewHealthHandler(deps.Probes)

	// --- Public screens ---
	e.GET("/", pages.Home)
	e.GET("/about", pages.About)
	e.GET("/contacts", pages.Contacts)
	e.GET("/courses", courses.List)
	e.GET("/courses/:id", courses.Get)
	e.POST("/courses/:id/cart", courses.AddToCart)

	// --- Logged-out only ---
	e.GET("/login", auth.LoginForm)
	e.POST("/login", auth.Login)
	e.GET("/register", auth.RegisterForm)
	e.POST("/register", auth.Register)

	// --- Protected ---
	e.POST("/logout", auth.Logout)
	e.GET("/cart", cart.View)
	e.DELETE("/cart/:id", cart.Remove)
	e.POST("/cart/checkout", cart.Checkout)
	e.GET("/profile", profile.Show)

	// --- Operations (bypass the guard) ---
	e.GET("/health", health.Liveness)
	e.GET("/health/ready", health.Readiness)
	e.GET("/metrics", metricsHandler(deps.Registry))

	return e
}

func metricsMiddleware(reg *prometheus.Registry) echo.MiddlewareFunc {
	if reg == nil {
		return echoprometheus.NewMiddleware("storefront")
	}
	return echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "storefront",
		Registerer: reg,
	})
}

func metricsHandler(reg *prometheus.Registry) echo.HandlerFunc {
	if reg == nil {
		return echoprometheus.NewHandler()
	}
	return echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: reg})
}
