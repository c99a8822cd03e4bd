// internal/common/observability/metrics.go
package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"

	"kaoyan-advisor/internal/common/logger"
)

// Observability exports OpenTelemetry job metrics through the Prometheus
// registry served on /metrics.
type Observability struct {
	meterProvider *metric.MeterProvider
	jobCounter    otelmetric.Int64Counter
	jobDuration   otelmetric.Float64Histogram
	refDataLoads  otelmetric.Int64Counter
}

// New never fails; when the exporter cannot be built the returned value
// records nothing.
func New(serviceName string, log logger.Logger) *Observability {
	exporter, err := prometheus.New()
	if err != nil {
		log.Warn("Failed to create Prometheus exporter, OpenTelemetry metrics disabled", map[string]interface{}{
			"error": err.Error(),
		})
		return &Observability{}
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	jobCounter, _ := meter.Int64Counter(
		"advisory.jobs.processed",
		otelmetric.WithDescription("Number of advisory jobs processed"),
	)
	jobDuration, _ := meter.Float64Histogram(
		"advisory.jobs.duration",
		otelmetric.WithDescription("Advisory job processing duration"),
		otelmetric.WithUnit("ms"),
	)
	refDataLoads, _ := meter.Int64Counter(
		"advisory.reference_data.loads",
		otelmetric.WithDescription("Reference data load attempts"),
	)

	return &Observability{
		meterProvider: provider,
		jobCounter:    jobCounter,
		jobDuration:   jobDuration,
		refDataLoads:  refDataLoads,
	}
}

func (o *Observability) RecordJobProcessed(ctx context.Context, taskType, status string) {
	if o == nil || o.jobCounter == nil {
		return
	}
	o.jobCounter.Add(ctx, 1, otelmetric.WithAttributes(
		attribute.String("task_type", taskType),
		attribute.String("status", status),
	))
}

func (o *Observability) RecordJobDuration(ctx context.Context, taskType string, duration time.Duration, status string) {
	if o == nil || o.jobDuration == nil {
		return
	}
	o.jobDuration.Record(ctx, float64(duration.Milliseconds()), otelmetric.WithAttributes(
		attribute.String("task_type", taskType),
		attribute.String("status", status),
	))
}

// RecordReferenceDataLoad counts a load attempt from source.
func (o *Observability) RecordReferenceDataLoad(ctx context.Context, source string, ok bool) {
	if o == nil || o.refDataLoads == nil {
		return
	}
	o.refDataLoads.Add(ctx, 1, otelmetric.WithAttributes(
		attribute.String("source", source),
		attribute.Bool("success", ok),
	))
}

func (o *Observability) Shutdown() {
	if o == nil || o.meterProvider == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = o.meterProvider.Shutdown(ctx)
}
