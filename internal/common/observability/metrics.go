// internal/common/observability/metrics.go
package observability

import (
	"context"
	"fmt"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
)

// Observability exposes OpenTelemetry instruments through a Prometheus
// registry. A nil *Observability is valid and records nothing.
type Observability struct {
	meterProvider *metric.MeterProvider
	evaluations   otelmetric.Int64Counter
	uptake        otelmetric.Float64Histogram
	jobDuration   otelmetric.Float64Histogram
}

// New registers the exporter with reg; pass prom.DefaultRegisterer to share
// the /metrics endpoint.
func New(serviceName string, reg prom.Registerer) (*Observability, error) {
	exporter, err := prometheus.New(prometheus.WithRegisterer(reg))
	if err != nil {
		return nil, fmt.Errorf("create prometheus exporter: %w", err)
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)
	meter := provider.Meter(serviceName)

	evaluations, err := meter.Int64Counter(
		"uptake.evaluations",
		otelmetric.WithDescription("Model evaluations by scenario and outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("create evaluations counter: %w", err)
	}

	uptake, err := meter.Float64Histogram(
		"uptake.probability",
		otelmetric.WithDescription("Overall uptake probability per evaluation"),
		otelmetric.WithExplicitBucketBoundaries(0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9),
	)
	if err != nil {
		return nil, fmt.Errorf("create uptake histogram: %w", err)
	}

	jobDuration, err := meter.Float64Histogram(
		"jobs.duration",
		otelmetric.WithDescription("Job processing duration"),
		otelmetric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("create job duration histogram: %w", err)
	}

	return &Observability{
		meterProvider: provider,
		evaluations:   evaluations,
		uptake:        uptake,
		jobDuration:   jobDuration,
	}, nil
}

// RecordEvaluation counts one evaluation. uptake is only recorded on success.
func (o *Observability) RecordEvaluation(ctx context.Context, scenario string, uptake float64, err error) {
	if o == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	attrs := otelmetric.WithAttributes(
		attribute.String("scenario", scenario),
		attribute.String("status", status),
	)
	o.evaluations.Add(ctx, 1, attrs)
	if err == nil {
		o.uptake.Record(ctx, uptake, otelmetric.WithAttributes(attribute.String("scenario", scenario)))
	}
}

func (o *Observability) RecordJobDuration(ctx context.Context, taskType string, duration time.Duration, status string) {
	if o == nil {
		return
	}
	o.jobDuration.Record(ctx, float64(duration.Milliseconds()), otelmetric.WithAttributes(
		attribute.String("task_type", taskType),
		attribute.String("status", status),
	))
}

func (o *Observability) Shutdown(ctx context.Context) error {
	if o == nil || o.meterProvider == nil {
		return nil
	}
	return o.meterProvider.Shutdown(ctx)
}
