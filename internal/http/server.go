// Package http wires the gin router, middleware chain and HTTP servers.
package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/PrLayt0n/FiLeaked/internal/config"
	fingerprintHTTP "github.com/PrLayt0n/FiLeaked/internal/fingerprint/http"
	"github.com/PrLayt0n/FiLeaked/internal/metrics"
)

// Server is the API server.
type Server struct {
	server *http.Server
	router *gin.Engine
	logger *slog.Logger
	ready  atomic.Bool
}

// NewServer creates a new API server. Call SetupRouter before Start.
func NewServer(
	host string,
	port int,
	logger *slog.Logger,
) *Server {
	return &Server{
		logger: logger,
		server: &http.Server{
			Addr:              fmt.Sprintf("%s:%d", host, port),
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       60 * time.Second,
			WriteTimeout:      60 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
	}
}

// SetupRouter builds the route table. metricsProvider may be nil when metrics are disabled.
func (s *Server) SetupRouter(
	ctx context.Context,
	cfg *config.Config,
	fingerprintHandler *fingerprintHTTP.FingerprintHandler,
	metricsProvider *metrics.Provider,
) {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}
	if metricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(metricsProvider.MeterProvider(), cfg.MetricsNamespace))
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	v1 := router.Group("/v1")
	if cfg.RateLimitEnabled {
		v1.Use(RateLimitMiddleware(ctx, cfg.RateLimitRequestsPerSec, cfg.RateLimitBurst, s.logger))
	}
	v1.Use(BearerTokenMiddleware(cfg.APIToken, s.logger))
	{
		v1.POST("/fingerprints", fingerprintHandler.EmbedHandler)
		v1.POST("/scan", fingerprintHandler.ScanHandler)
	}

	s.router = router
	s.ready.Store(true)
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.router
}

func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports ready once routes are installed and until shutdown begins.
func (s *Server) readinessHandler(c *gin.Context) {
	if s.router == nil || !s.ready.Load() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

// Start serves until Shutdown is called.
func (s *Server) Start(ctx context.Context) error {
	if s.router == nil {
		return errors.New("router not configured")
	}
	s.server.Handler = s.router

	return listen(s.server, "api", s.logger)
}

// listen serves srv until it is shut down. A clean shutdown is not an error.
func listen(srv *http.Server, name string, logger *slog.Logger) error {
	logger.Info("listening", slog.String("server", name), slog.String("addr", srv.Addr))
	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return fmt.Errorf("%s server: %w", name, err)
}

// Shutdown marks the server not ready and drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.ready.Store(false)
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}
