// Package http provides the API server wiring the middleware pipeline and routes.
package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"

	authDomain "github.com/allisson/accounts/internal/auth/domain"
	authHTTP "github.com/allisson/accounts/internal/auth/http"
	authService "github.com/allisson/accounts/internal/auth/service"
	"github.com/allisson/accounts/internal/config"
	"github.com/allisson/accounts/internal/httputil"
	"github.com/allisson/accounts/internal/metrics"
	userHTTP "github.com/allisson/accounts/internal/user/http"
)

// ServerDeps bundles everything the API server needs to assemble its routes.
type ServerDeps struct {
	Config       *config.Config
	Logger       *slog.Logger
	Translator   *httputil.Translator
	TokenService authService.TokenService
	AuthHandler  *authHTTP.AuthHandler
	UserHandler  *userHTTP.UserHandler
	Metrics      *metrics.Provider
}

// Server is the API HTTP server.
type Server struct {
	server *http.Server
	router *gin.Engine
	logger *slog.Logger
}

// NewServer creates the API server and registers the full route table.
func NewServer(deps ServerDeps) *Server {
	gin.SetMode(deps.Config.GetGinMode())

	router := gin.New()
	router.Use(requestid.New())
	router.Use(gin.CustomRecovery(deps.Translator.RecoveryHandler()))
	router.Use(RequestLoggerMiddleware(deps.Logger))

	if corsMiddleware := createCORSMiddleware(
		deps.Config.CORSEnabled,
		deps.Config.CORSAllowOrigins,
		deps.Logger,
	); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	if deps.Config.MetricsEnabled && deps.Metrics != nil {
		router.Use(metrics.HTTPMetricsMiddleware(
			deps.Metrics.MeterProvider(),
			deps.Config.MetricsNamespace,
		))
	}

	router.NoRoute(deps.Translator.NoRouteHandler())

	registerRoutes(router, deps)

	return &Server{
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", deps.Config.ServerHost, deps.Config.ServerPort),
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		router: router,
		logger: deps.Logger,
	}
}

// registerRoutes wires the middleware chains for every route. Order inside a
// chain matters: the limiter runs first so rejected floods never reach token
// verification, then authentication, then authorization guards.
func registerRoutes(router *gin.Engine, deps ServerDeps) {
	translator := deps.Translator
	logger := deps.Logger

	authLimiter := authHTTP.RateLimitMiddleware(authHTTP.RateLimitConfig{
		Name:           "auth",
		Window:         deps.Config.RateLimitAuthWindow,
		Max:            deps.Config.RateLimitAuthMax,
		SkipSuccessful: true,
	}, translator, logger)
	apiLimiter := authHTTP.RateLimitMiddleware(authHTTP.RateLimitConfig{
		Name:   "api",
		Window: deps.Config.RateLimitAPIWindow,
		Max:    deps.Config.RateLimitAPIMax,
	}, translator, logger)
	adminLimiter := authHTTP.RateLimitMiddleware(authHTTP.RateLimitConfig{
		Name:   "admin",
		Window: deps.Config.RateLimitAdminWindow,
		Max:    deps.Config.RateLimitAdminMax,
	}, translator, logger)

	authenticate := authHTTP.AuthenticationMiddleware(deps.TokenService, translator, logger)
	adminOnly := authHTTP.RoleMiddleware(translator, logger, authDomain.RoleAdmin)
	resolveMe := authHTTP.ResolveMeMiddleware(translator, "id")
	ownership := authHTTP.OwnershipMiddleware(translator, logger, "id")
	modify := authHTTP.ModifyMiddleware(translator, logger, "id")

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	auth := router.Group("/api/auth")
	{
		auth.POST("/register", authLimiter, deps.AuthHandler.Register)
		auth.POST("/login", authLimiter, deps.AuthHandler.Login)
		auth.POST("/refresh", authLimiter, deps.AuthHandler.Refresh)
		auth.POST("/logout", apiLimiter, authenticate, deps.AuthHandler.Logout)
		auth.GET("/me", apiLimiter, authenticate, deps.AuthHandler.Me)
	}

	users := router.Group("/api/users")
	{
		users.GET("", adminLimiter, authenticate, adminOnly, deps.UserHandler.List)
		users.GET("/stats", adminLimiter, authenticate, adminOnly, deps.UserHandler.Stats)
		users.GET("/search", adminLimiter, authenticate, adminOnly, deps.UserHandler.Search)
		users.GET("/:id", apiLimiter, authenticate, resolveMe, ownership, deps.UserHandler.Get)
		users.PATCH("/:id", apiLimiter, authenticate, resolveMe, modify, deps.UserHandler.Update)
		users.PATCH("/:id/block", adminLimiter, authenticate, adminOnly, deps.UserHandler.Block)
		users.PATCH("/:id/unblock", adminLimiter, authenticate, adminOnly, deps.UserHandler.Unblock)
		users.DELETE("/:id", adminLimiter, authenticate, adminOnly, deps.UserHandler.Delete)
	}
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.router
}

// Start starts the API server and blocks until it stops.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("starting api server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start api server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the API server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down api server")
	return s.server.Shutdown(ctx)
}
