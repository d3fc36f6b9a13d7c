package metrics

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Outcome labels used by the use case decorators.
const (
	StatusSuccess  = "success"
	StatusError    = "error"
	StatusNotFound = "not_found"
)

// BusinessMetrics counts and times use case calls, labelled by domain,
// operation (fingerprint_embed, fingerprint_identify, fingerprint_distribute)
// and outcome.
type BusinessMetrics interface {
	RecordOperation(ctx context.Context, domain, operation, status string)
	RecordDuration(ctx context.Context, domain, operation string, duration time.Duration, status string)
}

type otelBusinessMetrics struct {
	calls   metric.Int64Counter
	latency metric.Float64Histogram
}

// NewBusinessMetrics registers <namespace>_operations_total and
// <namespace>_operation_duration_seconds.
func NewBusinessMetrics(meterProvider metric.MeterProvider, namespace string) (BusinessMetrics, error) {
	meter := meterProvider.Meter(namespace)

	calls, err := meter.Int64Counter(namespace+"_operations_total",
		metric.WithDescription("Fingerprint use case calls by outcome"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("operations counter: %w", err)
	}

	latency, err := meter.Float64Histogram(namespace+"_operation_duration_seconds",
		metric.WithDescription("Time spent in fingerprint use case calls"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("operation duration histogram: %w", err)
	}

	return &otelBusinessMetrics{calls: calls, latency: latency}, nil
}

func labels(domain, operation, status string) metric.MeasurementOption {
	return metric.WithAttributeSet(attribute.NewSet(
		attribute.String("domain", domain),
		attribute.String("operation", operation),
		attribute.String("status", status),
	))
}

func (m *otelBusinessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {
	m.calls.Add(ctx, 1, labels(domain, operation, status))
}

// RecordDuration stores duration in seconds.
func (m *otelBusinessMetrics) RecordDuration(ctx context.Context, domain, operation string, d time.Duration, status string) {
	m.latency.Record(ctx, d.Seconds(), labels(domain, operation, status))
}

// NoOpBusinessMetrics stands in when METRICS_ENABLED is false.
type NoOpBusinessMetrics struct{}

func NewNoOpBusinessMetrics() BusinessMetrics { return NoOpBusinessMetrics{} }

func (NoOpBusinessMetrics) RecordOperation(context.Context, string, string, string) {}

func (NoOpBusinessMetrics) RecordDuration(context.Context, string, string, time.Duration, string) {}
