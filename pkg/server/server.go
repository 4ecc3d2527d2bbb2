package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/thanhthanh221/identity-gateway/pkg/controllers"
	"github.com/thanhthanh221/identity-gateway/pkg/middleware"
	services "github.com/thanhthanh221/identity-gateway/pkg/service"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Options carries the collaborators built at startup
type Options struct {
	Logger         *logrus.Logger
	TracerProvider trace.TracerProvider

	Verifier services.TokenVerifier
	Provider services.IdentityProvider
	Profiles services.ProfileStore
	Events   services.EventPublisher

	CORSAllowOrigins []string
	MetricsAPIKey    string
}

// Server is the HTTP surface of the gateway
type Server struct {
	echo   *echo.Echo
	logger *logrus.Logger
}

// New builds the echo instance with every route mounted
func New(opts Options) *Server {
	if opts.TracerProvider == nil {
		opts.TracerProvider = noop.NewTracerProvider()
	}
	if len(opts.CORSAllowOrigins) == 0 {
		opts.CORSAllowOrigins = []string{"*"}
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = middleware.NewHTTPErrorHandler(opts.Logger)

	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(middleware.RequestContextMiddleware())
	e.Use(middleware.RequestLogger(opts.Logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     opts.CORSAllowOrigins,
		AllowCredentials: true,
		// Browsers reject a literal "*" with credentials, so the caller's origin is echoed back
		UnsafeWildcardOriginWithAllowCredentials: true,
	}))
	e.Use(middleware.NewTracingMiddleware(opts.TracerProvider, opts.Logger).Middleware())
	e.Use(middleware.MetricsMiddleware())

	authService := services.NewAuthService(opts.Verifier, opts.Logger)
	auth := middleware.NewAuthMiddleware(authService, opts.Logger)

	authCtrl := controllers.NewAuthController()
	adminCtrl := controllers.NewAdminController(services.NewUserService(opts.Provider, opts.Events, opts.Logger))
	profileCtrl := controllers.NewProfileController(services.NewProfileService(opts.Profiles, opts.Events, opts.Logger))

	e.GET("/", authCtrl.Hello)
	e.GET("/health", authCtrl.Health)

	var metricsGuard []echo.MiddlewareFunc
	if opts.MetricsAPIKey != "" {
		metricsGuard = append(metricsGuard, middleware.APIKeyAuthMiddleware(opts.MetricsAPIKey))
	}
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()), metricsGuard...)

	authenticated := auth.RequireAuth()
	admin := []echo.MiddlewareFunc{authenticated, auth.RequireAdmin()}

	e.GET("/whoami", authCtrl.WhoAmI, authenticated)
	for _, path := range []string{"/verify_user", "/protected"} {
		e.GET(path, authCtrl.VerifyUser, authenticated)
		e.POST(path, authCtrl.VerifyUser, authenticated)
	}
	e.GET("/admin", authCtrl.AdminOnly, admin...)

	registerAdminRoutes(e, authCtrl, adminCtrl, admin)
	registerAdminRoutes(e.Group("/admin"), authCtrl, adminCtrl, admin)

	settings := e.Group("/settings")
	settings.GET("/profile", profileCtrl.GetProfile, authenticated)
	settings.PUT("/profile", profileCtrl.UpdateProfile, authenticated)
	settings.POST("/profile", profileCtrl.UpdateProfile, authenticated)

	return &Server{echo: e, logger: opts.Logger}
}

// router is satisfied by both *echo.Echo and *echo.Group
type router interface {
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	DELETE(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

func registerAdminRoutes(r router, authCtrl *controllers.AuthController, adminCtrl *controllers.AdminController, admin []echo.MiddlewareFunc) {
	r.GET("/admin-only", authCtrl.AdminOnly, admin...)
	r.GET("/verify_admin", authCtrl.AdminOnly, admin...)

	r.GET("/users", adminCtrl.ListUsers, admin...)
	r.GET("/get_users", adminCtrl.ListUsers, admin...)
	r.GET("/get_user/:id", adminCtrl.GetUser, admin...)
	r.GET("/get_user_by_email", adminCtrl.GetUserByEmail, admin...)
	r.GET("/search", adminCtrl.SearchUsers, admin...)
	r.POST("/create_user", adminCtrl.CreateUser, admin...)
	r.DELETE("/delete_user/:id", adminCtrl.DeleteUser, admin...)
	r.POST("/set_admin/:id", adminCtrl.SetAdmin, admin...)
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start serves on addr until Shutdown is called
func (s *Server) Start(addr string) error {
	s.logger.WithField("addr", addr).Info("HTTP server listening")
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
