package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/PrLayt0n/FiLeaked/internal/app"
	"github.com/PrLayt0n/FiLeaked/internal/config"
	"github.com/PrLayt0n/FiLeaked/internal/http"
)

// listener is the part of the API and metrics servers RunServer drives.
type listener interface {
	Start(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

// RunServer runs the API, plus the metrics endpoint when enabled, until a
// signal arrives or one listener dies. Both are then drained within
// SHUTDOWN_TIMEOUT_SECONDS.
func RunServer(ctx context.Context, version string) error {
	cfg := config.Load()
	gin.SetMode(cfg.GetGinMode())

	container := app.NewContainer(cfg)
	logger := container.Logger()
	defer closeContainer(container, logger)

	api, err := container.HTTPServer()
	if err != nil {
		return fmt.Errorf("api server: %w", err)
	}
	listeners := []listener{api}

	metricsServer, err := container.MetricsServer()
	if err != nil {
		return fmt.Errorf("metrics server: %w", err)
	}
	if metricsServer != nil {
		listeners = append(listeners, metricsServer)
	}

	logger.Info("fileaked starting", slog.String("version", version), slog.Int("listeners", len(listeners)))

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	for _, l := range listeners {
		g.Go(func() error { return l.Start(gctx) })
	}
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("draining listeners", slog.Duration("timeout", cfg.ShutdownTimeout))
		return drain(cfg, listeners)
	})

	return g.Wait()
}

// drain shuts every listener down with a fresh deadline, since the run
// context is already done when it is called.
func drain(cfg *config.Config, listeners []listener) error {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	var errs []error
	for _, l := range listeners {
		if err := l.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

var (
	_ listener = (*http.Server)(nil)
	_ listener = (*http.MetricsServer)(nil)
)
