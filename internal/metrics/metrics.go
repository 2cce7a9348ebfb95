package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

type Metrics struct {
	HTTPRequests     metric.Int64Counter
	HTTPDuration     metric.Float64Histogram
	ConflictChecks   metric.Int64Counter
	ConflictWarnings metric.Int64Counter
	MediaImports     metric.Int64Counter
}

func Setup(serviceName string) (*Metrics, http.Handler, error) {
	exporter, err := prometheus.New()
	if err != nil {
		return nil, nil, err
	}

	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	m := &Metrics{}

	m.HTTPRequests, err = meter.Int64Counter(
		"smo_http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
	)
	if err != nil {
		return nil, nil, err
	}

	m.HTTPDuration, err = meter.Float64Histogram(
		"smo_http_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
	)
	if err != nil {
		return nil, nil, err
	}

	m.ConflictChecks, err = meter.Int64Counter(
		"smo_conflict_checks_total",
		metric.WithDescription("Total number of conflict checks run"),
	)
	if err != nil {
		return nil, nil, err
	}

	m.ConflictWarnings, err = meter.Int64Counter(
		"smo_conflict_warnings_total",
		metric.WithDescription("Total number of conflict warnings raised, by type"),
	)
	if err != nil {
		return nil, nil, err
	}

	m.MediaImports, err = meter.Int64Counter(
		"smo_media_imports_total",
		metric.WithDescription("Total number of media assets imported"),
	)
	if err != nil {
		return nil, nil, err
	}

	handler := promhttp.Handler()
	return m, handler, nil
}

func (m *Metrics) RecordHTTPRequest(ctx context.Context, method, path string, status int, duration time.Duration) {
	labels := metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("path", path),
		attribute.Int("status", status),
	)

	m.HTTPRequests.Add(ctx, 1, labels)
	m.HTTPDuration.Record(ctx, duration.Seconds(), labels)
}

// ConflictCheck and ConflictWarning satisfy the conflict engine's Recorder
// interface.
func (m *Metrics) ConflictCheck(ctx context.Context) {
	m.ConflictChecks.Add(ctx, 1)
}

func (m *Metrics) ConflictWarning(ctx context.Context, warningType string) {
	m.ConflictWarnings.Add(ctx, 1, metric.WithAttributes(attribute.String("type", warningType)))
}

func (m *Metrics) RecordMediaImport(ctx context.Context) {
	m.MediaImports.Add(ctx, 1)
}
