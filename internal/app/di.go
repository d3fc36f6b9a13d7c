// Package app assembles the application's components. Every component is
// built lazily on first access and cached for the container's lifetime.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/PrLayt0n/FiLeaked/internal/carrier"
	"github.com/PrLayt0n/FiLeaked/internal/config"
	fingerprintDomain "github.com/PrLayt0n/FiLeaked/internal/fingerprint/domain"
	fingerprintHTTP "github.com/PrLayt0n/FiLeaked/internal/fingerprint/http"
	fingerprintService "github.com/PrLayt0n/FiLeaked/internal/fingerprint/service"
	fingerprintUseCase "github.com/PrLayt0n/FiLeaked/internal/fingerprint/usecase"
	"github.com/PrLayt0n/FiLeaked/internal/http"
	"github.com/PrLayt0n/FiLeaked/internal/metrics"
)

// Container holds the application's dependencies.
type Container struct {
	config *config.Config

	// ctx bounds background goroutines started by components (rate limiter
	// cleanup). It is cancelled by Shutdown.
	ctx    context.Context
	cancel context.CancelFunc

	logger          *slog.Logger
	metricsProvider *metrics.Provider
	businessMetrics metrics.BusinessMetrics

	kmsService  fingerprintService.KMSService
	aeadManager fingerprintService.AEADManager
	keys        *fingerprintDomain.Keys
	tokenCodec  fingerprintService.TokenCodec
	registry    *carrier.Registry

	fingerprintUseCase fingerprintUseCase.FingerprintUseCase
	fingerprintHandler *fingerprintHTTP.FingerprintHandler

	httpServer    *http.Server
	metricsServer *http.MetricsServer

	mu                     sync.Mutex
	closed                 bool
	loggerInit             sync.Once
	metricsProviderInit    sync.Once
	businessMetricsInit    sync.Once
	kmsServiceInit         sync.Once
	aeadManagerInit        sync.Once
	keysInit               sync.Once
	tokenCodecInit         sync.Once
	registryInit           sync.Once
	fingerprintUseCaseInit sync.Once
	fingerprintHandlerInit sync.Once
	httpServerInit         sync.Once
	metricsServerInit      sync.Once
	initErrors             map[string]error
}

// NewContainer creates a container for cfg. Nothing is built until requested.
func NewContainer(cfg *config.Config) *Container {
	ctx, cancel := context.WithCancel(context.Background())
	return &Container{
		config:     cfg,
		ctx:        ctx,
		cancel:     cancel,
		initErrors: make(map[string]error),
	}
}

func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns a JSON logger on stdout at the configured level.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// MetricsProvider returns the Prometheus-backed provider, or nil when metrics are disabled.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	var err error
	c.metricsProviderInit.Do(func() {
		c.metricsProvider, err = c.initMetricsProvider()
		if err != nil {
			c.initErrors["metricsProvider"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsProvider"]; exists {
		return nil, storedErr
	}
	return c.metricsProvider, nil
}

// BusinessMetrics returns the operation recorder. It is a no-op when metrics are disabled.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	var err error
	c.businessMetricsInit.Do(func() {
		c.businessMetrics, err = c.initBusinessMetrics()
		if err != nil {
			c.initErrors["businessMetrics"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["businessMetrics"]; exists {
		return nil, storedErr
	}
	return c.businessMetrics, nil
}

// HTTPServer returns the API server with its routes installed.
func (c *Container) HTTPServer() (*http.Server, error) {
	var err error
	c.httpServerInit.Do(func() {
		c.httpServer, err = c.initHTTPServer()
		if err != nil {
			c.initErrors["httpServer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["httpServer"]; exists {
		return nil, storedErr
	}
	return c.httpServer, nil
}

// MetricsServer returns the metrics server, or nil when metrics are disabled.
func (c *Container) MetricsServer() (*http.MetricsServer, error) {
	var err error
	c.metricsServerInit.Do(func() {
		c.metricsServer, err = c.initMetricsServer()
		if err != nil {
			c.initErrors["metricsServer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsServer"]; exists {
		return nil, storedErr
	}
	return c.metricsServer, nil
}

// Shutdown stops background work, flushes metrics and wipes key material.
// Servers are stopped by their callers. Calls after the first are no-ops.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	c.cancel()

	var errs []error
	if c.metricsProvider != nil {
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}
	if c.keys != nil {
		c.keys.Close()
	}

	return errors.Join(errs...)
}

func (c *Container) initLogger() *slog.Logger {
	var level slog.Level
	switch c.config.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}

func (c *Container) initMetricsProvider() (*metrics.Provider, error) {
	if !c.config.MetricsEnabled {
		return nil, nil
	}
	provider, err := metrics.NewProvider(c.config.MetricsNamespace)
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics provider: %w", err)
	}
	return provider, nil
}

func (c *Container) initBusinessMetrics() (metrics.BusinessMetrics, error) {
	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for business metrics: %w", err)
	}
	if provider == nil {
		return metrics.NewNoOpBusinessMetrics(), nil
	}
	return metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
}

func (c *Container) initHTTPServer() (*http.Server, error) {
	handler, err := c.FingerprintHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get fingerprint handler for http server: %w", err)
	}

	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for http server: %w", err)
	}

	server := http.NewServer(c.config.ServerHost, c.config.ServerPort, c.Logger())
	server.SetupRouter(c.ctx, c.config, handler, provider)
	return server, nil
}

func (c *Container) initMetricsServer() (*http.MetricsServer, error) {
	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for metrics server: %w", err)
	}
	if provider == nil {
		return nil, nil
	}
	return http.NewMetricsServer(c.config.ServerHost, c.config.MetricsPort, c.Logger(), provider), nil
}
