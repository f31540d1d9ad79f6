package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/devforge/auth-service/internal/api/handler"
	"github.com/devforge/auth-service/internal/api/middleware"
	"github.com/devforge/auth-service/internal/core/ports"
)

// Dependencies carries the wired services the router needs. Construction of
// the services (stores, token secret, throttle) happens in main.
type Dependencies struct {
	AuthService ports.AuthService
	Verifier    ports.TokenVerifier
	Readiness   []handler.DependencyCheck
	Log         zerolog.Logger

	// EnableMetrics registers the echoprometheus request middleware and the
	// /metrics route. Off in tests: the collectors live in the default
	// prometheus registry and can only be registered once per process.
	EnableMetrics bool
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	if deps.EnableMetrics {
		e.Use(echoprometheus.NewMiddleware("auth"))
	}

	authHandler := handler.NewAuthHandler(deps.AuthService)
	authMiddleware := middleware.Auth(deps.Verifier, deps.Log)

	// --- Auth routes ---
	e.POST("/register", authHandler.Register)
	e.POST("/login", authHandler.Login)
	e.GET("/me", authHandler.Me, authMiddleware)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.Readiness...)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?
	if deps.EnableMetrics {
		e.GET("/metrics", echoprometheus.NewHandler())
	}

	return e
}
