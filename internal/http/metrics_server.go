package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/PrLayt0n/FiLeaked/internal/metrics"
)

// MetricsServer exposes /metrics and /health on METRICS_PORT so scrapes never
// pass through the authenticated API.
type MetricsServer struct {
	server *http.Server
	logger *slog.Logger
}

// NewMetricsServer routes /metrics only when provider is non-nil.
func NewMetricsServer(host string, port int, logger *slog.Logger, provider *metrics.Provider) *MetricsServer {
	router := gin.New()
	router.Use(gin.Recovery(), CustomLoggerMiddleware(logger))
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	if provider != nil {
		router.GET("/metrics", gin.WrapH(provider.Handler()))
	}

	return &MetricsServer{
		logger: logger,
		server: &http.Server{
			Addr:              fmt.Sprintf("%s:%d", host, port),
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      15 * time.Second,
		},
	}
}

func (s *MetricsServer) GetHandler() http.Handler {
	return s.server.Handler
}

// Start blocks until Shutdown.
func (s *MetricsServer) Start(ctx context.Context) error {
	return listen(s.server, "metrics", s.logger)
}

func (s *MetricsServer) Shutdown(ctx context.Context) error {
	s.logger.Info("stopping metrics listener")
	return s.server.Shutdown(ctx)
}
