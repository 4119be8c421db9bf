package infrastructure

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

const (
	ServiceName    = "prgcli"
	ServiceVersion = "1.0.0"
	MeterName      = "prgcli"
)

// OTelProviders holds the OpenTelemetry providers and the pipeline
// instruments derived from them.
type OTelProviders struct {
	TracerProvider *sdktrace.TracerProvider
	MeterProvider  *sdkmetric.MeterProvider
	Tracer         trace.Tracer
	Meter          metric.Meter
	PrometheusHTTP http.Handler

	Metrics *PipelineMetrics
}

// PipelineMetrics are the instruments recorded by the analysis pipeline.
type PipelineMetrics struct {
	AnalysesRun      metric.Int64Counter
	SourcesParsed    metric.Int64Counter
	ParseFailures    metric.Int64Counter
	PipelineDuration metric.Float64Histogram
}

// InitializeOTel initializes metrics (prometheus exporter) and, when
// enableTracing is set, a stdout trace exporter for development use.
func InitializeOTel(enableTracing bool, logger *slog.Logger) (*OTelProviders, error) {
	ctx := context.Background()

	res, err := resource.Merge(resource.Default(), resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(ServiceName),
		semconv.ServiceVersion(ServiceVersion),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create otel resource: %w", err)
	}

	registry := promclient.NewRegistry()
	promExporter, err := prometheus.New(prometheus.WithRegisterer(registry))
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(promExporter),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(meterProvider)

	tracerProvider := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.NeverSample()),
	)
	if enableTracing {
		traceExporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
		if err != nil {
			return nil, fmt.Errorf("failed to create trace exporter: %w", err)
		}
		tracerProvider = sdktrace.NewTracerProvider(
			sdktrace.WithBatcher(traceExporter),
			sdktrace.WithResource(res),
			sdktrace.WithSampler(sdktrace.AlwaysSample()),
		)
	}
	otel.SetTracerProvider(tracerProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	meter := meterProvider.Meter(MeterName)
	metrics, err := newPipelineMetrics(meter)
	if err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "OpenTelemetry initialized",
		slog.String("service", ServiceName),
		slog.Bool("tracing_enabled", enableTracing))

	return &OTelProviders{
		TracerProvider: tracerProvider,
		MeterProvider:  meterProvider,
		Tracer:         tracerProvider.Tracer(ServiceName),
		Meter:          meter,
		PrometheusHTTP: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		Metrics:        metrics,
	}, nil
}

func newPipelineMetrics(meter metric.Meter) (*PipelineMetrics, error) {
	analyses, err := meter.Int64Counter("prgcli_analyses_total",
		metric.WithDescription("Number of analysis runs executed"))
	if err != nil {
		return nil, err
	}
	sources, err := meter.Int64Counter("prgcli_sources_parsed_total",
		metric.WithDescription("Number of CSV sources parsed successfully"))
	if err != nil {
		return nil, err
	}
	failures, err := meter.Int64Counter("prgcli_parse_failures_total",
		metric.WithDescription("Number of CSV sources rejected, by reason"))
	if err != nil {
		return nil, err
	}
	duration, err := meter.Float64Histogram("prgcli_pipeline_duration_seconds",
		metric.WithDescription("End-to-end duration of one analysis run"))
	if err != nil {
		return nil, err
	}
	return &PipelineMetrics{
		AnalysesRun:      analyses,
		SourcesParsed:    sources,
		ParseFailures:    failures,
		PipelineDuration: duration,
	}, nil
}

// RecordParseFailure increments the failure counter with a reason label.
func (m *PipelineMetrics) RecordParseFailure(ctx context.Context, reason string) {
	if m == nil {
		return
	}
	m.ParseFailures.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
}

// Shutdown flushes and stops both providers.
func (p *OTelProviders) Shutdown(ctx context.Context) error {
	var firstErr error
	if err := p.TracerProvider.Shutdown(ctx); err != nil {
		firstErr = err
	}
	if err := p.MeterProvider.Shutdown(ctx); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
