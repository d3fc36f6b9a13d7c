// Package metrics records fingerprint and HTTP instruments with OpenTelemetry
// and exposes them for Prometheus scrapes.
package metrics

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// Provider pairs an OpenTelemetry meter provider with the Prometheus registry
// its exporter feeds. Each Provider has its own registry, so tests and
// containers never collide on the global default.
type Provider struct {
	meters   *sdkmetric.MeterProvider
	registry *prometheus.Registry
}

func NewProvider(namespace string) (*Provider, error) {
	registry := prometheus.NewRegistry()
	reader, err := promexporter.New(promexporter.WithRegisterer(registry))
	if err != nil {
		return nil, fmt.Errorf("prometheus reader for %q metrics: %w", namespace, err)
	}
	return &Provider{
		meters:   sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)),
		registry: registry,
	}, nil
}

// Handler serves the registry, negotiating OpenMetrics when the scraper asks.
func (p *Provider) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

func (p *Provider) MeterProvider() *sdkmetric.MeterProvider {
	return p.meters
}

// Shutdown flushes pending measurements. A zero Provider has nothing to flush.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p.meters == nil {
		return nil
	}
	return p.meters.Shutdown(ctx)
}
