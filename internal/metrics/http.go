package metrics

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type httpMetrics struct {
	requests  metric.Int64Counter
	durations metric.Float64Histogram
	uploads   metric.Int64Histogram
}

func newHTTPMetrics(meter metric.Meter, namespace string) (*httpMetrics, error) {
	requests, err := meter.Int64Counter(
		fmt.Sprintf("%s_http_requests_total", namespace),
		metric.WithDescription("HTTP requests by method, route and status code"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	durations, err := meter.Float64Histogram(
		fmt.Sprintf("%s_http_request_duration_seconds", namespace),
		metric.WithDescription("HTTP request latency"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	uploads, err := meter.Int64Histogram(
		fmt.Sprintf("%s_http_request_size", namespace),
		metric.WithDescription("Declared size of uploaded request bodies"),
		metric.WithUnit("By"),
		metric.WithExplicitBucketBoundaries(1<<10, 16<<10, 256<<10, 1<<20, 4<<20, 16<<20, 64<<20),
	)
	if err != nil {
		return nil, err
	}

	return &httpMetrics{requests: requests, durations: durations, uploads: uploads}, nil
}

// HTTPMetricsMiddleware counts requests and observes their latency labelled by
// method, route pattern and status code. Requests with a declared body also
// feed the upload size histogram. If the instruments cannot be created the
// middleware only calls c.Next.
func HTTPMetricsMiddleware(meterProvider metric.MeterProvider, namespace string) gin.HandlerFunc {
	m, err := newHTTPMetrics(meterProvider.Meter(namespace), namespace)
	if err != nil {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		elapsed := time.Since(start)

		ctx := c.Request.Context()
		route := routeLabel(c.FullPath())
		attrs := metric.WithAttributes(
			attribute.String("method", c.Request.Method),
			attribute.String("path", route),
			attribute.String("status_code", strconv.Itoa(c.Writer.Status())),
		)

		m.requests.Add(ctx, 1, attrs)
		m.durations.Record(ctx, elapsed.Seconds(), attrs)
		if c.Request.ContentLength > 0 {
			m.uploads.Record(ctx, c.Request.ContentLength, metric.WithAttributes(attribute.String("path", route)))
		}
	}
}

// routeLabel keeps label cardinality bounded: unmatched requests share "unknown".
func routeLabel(fullPath string) string {
	if fullPath == "" {
		return "unknown"
	}
	return fullPath
}
