// Package server
//
// @title Megaplex Site API
// @version 1.0
// @description Marketing site content and admin session API
// @host localhost:5000
// @BasePath /api
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"gorm.io/gorm"

	"github.com/megaplex/realestate/internal/auth"
	"github.com/megaplex/realestate/internal/config"
	"github.com/megaplex/realestate/internal/content"
	"github.com/megaplex/realestate/internal/database"
	"github.com/megaplex/realestate/internal/metrics"
	"github.com/megaplex/realestate/internal/ratelimit"
	"github.com/megaplex/realestate/internal/workers"
)

// Server represents the HTTP server
type Server struct {
	router   *gin.Engine
	handler  http.Handler
	db       *gorm.DB
	config   *config.Config
	logger   zerolog.Logger
	content  *content.Service
	sessions *auth.Manager
	metrics  *metrics.ServerMetrics
	cron     *cron.Cron
	version  string

	// cancels background goroutines owned by the server (rate limiter cleanup)
	cancel context.CancelFunc
}

// New opens the database, seeds default content and builds the router
func New(cfg *config.Config, zlog zerolog.Logger, version string) (*Server, error) {
	db, err := database.Open(cfg.Database.URL, zlog)
	if err != nil {
		return nil, err
	}

	server, err := NewWithDB(cfg, db, zlog, version)
	if err != nil {
		_ = database.Close(db)
		return nil, err
	}

	seeded, err := server.content.SeedDefaults(context.Background())
	if err != nil {
		// Seeding is best effort, the site still serves whatever exists
		zlog.Error().Err(err).Msg("Error initializing default content")
	} else if seeded > 0 {
		zlog.Info().Int("sections", seeded).Msg("Seeded default content")
	}

	return server, nil
}

// NewWithDB builds a server around an already opened database
func NewWithDB(cfg *config.Config, db *gorm.DB, zlog zerolog.Logger, version string) (*Server, error) {
	if cfg.UsesDefaultSecret() {
		zlog.Warn().Msg("SESSION_SECRET is not set - using the built-in placeholder, do not run like this in production")
	}

	verifier, err := auth.NewStaticCredentials(cfg.Admin.Email, cfg.Admin.Password, cfg.Admin.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to configure admin credentials: %w", err)
	}

	signer, err := auth.NewTokenSigner(cfg.Session.Secret)
	if err != nil {
		return nil, fmt.Errorf("failed to configure sessions: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	serverMetrics := metrics.New()
	serverMetrics.SetBuildInfo(version)

	server := &Server{
		db:       db,
		config:   cfg,
		logger:   zlog,
		content:  content.NewService(db, zlog),
		sessions: auth.NewManager(db, verifier, signer, cfg.Session.TTL, zlog),
		metrics:  serverMetrics,
		version:  version,
		cancel:   cancel,
	}

	if err := server.setupRouter(ctx); err != nil {
		cancel()
		return nil, err
	}

	return server, nil
}

// setupRouter configures the Gin router with routes and middleware
func (s *Server) setupRouter(ctx context.Context) error {
	gin.SetMode(gin.ReleaseMode)

	s.router = gin.New()

	// ClientIP feeds the login limiter, so forwarded headers only count from known proxies
	if err := s.router.SetTrustedProxies(s.config.Server.TrustedProxies); err != nil {
		return fmt.Errorf("invalid trusted proxies: %w", err)
	}

	// Add middleware
	s.router.Use(gin.Recovery())
	s.router.Use(s.loggingMiddleware())
	s.router.Use(s.metrics.Middleware())

	// CORS middleware, credentials are needed for the session cookie
	s.router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{s.config.Server.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	if s.config.Metrics.Enabled {
		s.router.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}

	api := s.router.Group("/api")
	{
		api.GET("/health", s.healthCheck)

		// Public content
		api.GET("/content", s.listContent)
		api.GET("/content/:section", s.getContent)

		// Admin session
		login := []gin.HandlerFunc{}
		if perMinute := s.config.Server.LoginRateLimitPerMinute; perMinute > 0 {
			limiter := ratelimit.New(ctx,
				ratelimit.PerMinute(perMinute),
				ratelimit.WithOnDenied(func(string) { s.metrics.IncRateLimitDenied() }),
				ratelimit.WithOnFirstDenied(func(ip string) {
					s.logger.Warn().Str("client_ip", ip).Msg("Login rate limit exceeded")
				}),
			)
			login = append(login, limiter.Middleware())
		}
		api.POST("/admin/login", append(login, s.login)...)
		api.POST("/admin/logout", s.logout)
		api.GET("/admin/status", s.authStatus)

		// Content editing (admin session required)
		admin := api.Group("/admin")
		admin.Use(RequireAdminMiddleware(s.sessions, s.config.Session.CookieName, s.logger))
		{
			admin.PUT("/content/:section", s.updateContent)
		}
	}

	s.handler = otelhttp.NewHandler(s.router, "realestate-api",
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
	)

	return nil
}

// loggingMiddleware creates a custom logging middleware using zerolog
func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start)

		s.logger.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("route", c.FullPath()).
			Int("status", c.Writer.Status()).
			Dur("duration", duration).
			Str("client_ip", c.ClientIP()).
			Msg("HTTP request")
	}
}

// Handler returns the instrumented root handler
func (s *Server) Handler() http.Handler {
	return s.handler
}

// GetDB returns the database connection
func (s *Server) GetDB() *gorm.DB {
	return s.db
}

// Start serves HTTP until SIGINT/SIGTERM, then drains and releases resources
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Server.Port)

	// Setup signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	janitor, err := workers.StartSessionPurge(s.config.Jobs.SessionPurgeSchedule, s.sessions, s.metrics, s.logger)
	if err != nil {
		return err
	}
	s.cron = janitor

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.handler,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", addr).Msg("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	// Wait for shutdown signal or listener failure
	var serveErr error
	select {
	case <-sigChan:
		s.logger.Info().Msg("Received shutdown signal, shutting down gracefully...")
	case serveErr = <-errChan:
		s.logger.Error().Err(serveErr).Msg("HTTP server error")
	}

	// Stop scheduling new purges and wait for a running one
	<-s.cron.Stop().Done()
	s.cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	s.logger.Info().Msg("Shutting down HTTP server...")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Error().Err(err).Msg("Error shutting down HTTP server")
		return err
	}

	// Close database connection to flush WAL writes
	s.logger.Info().Msg("Closing database connection...")
	if err := database.Close(s.db); err != nil {
		s.logger.Error().Err(err).Msg("Error closing database")
	} else {
		s.logger.Info().Msg("Database closed successfully")
	}

	s.logger.Info().Msg("Server shutdown complete")
	return serveErr
}
