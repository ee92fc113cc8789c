package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	prom "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.28.0"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"salescli/internal/config"
)

// MeterName is the instrumentation scope for tracers and meters.
const MeterName = "salescli"

// Telemetry holds the tracer and meter for one run together with whatever
// must be flushed when the run ends.
type Telemetry struct {
	Tracer trace.Tracer
	Meter  metric.Meter

	tracerProvider *sdktrace.TracerProvider
	meterProvider  *sdkmetric.MeterProvider
	registry       *prom.Registry
	metricsFile    string
	logger         *slog.Logger
}

// NoopTelemetry returns telemetry that records nothing.
func NoopTelemetry() *Telemetry {
	return &Telemetry{
		Tracer: tracenoop.NewTracerProvider().Tracer(MeterName),
		Meter:  metricnoop.NewMeterProvider().Meter(MeterName),
		logger: slog.Default(),
	}
}

// InitializeTelemetry wires the exporters selected in cfg. Disabled signals
// fall back to no-op implementations so callers never branch on them.
func InitializeTelemetry(ctx context.Context, cfg config.TelemetryConfig, logger *slog.Logger) (*Telemetry, error) {
	if logger == nil {
		logger = slog.Default()
	}

	t := NoopTelemetry()
	t.logger = logger

	res, err := createResource()
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	switch cfg.TraceExporter {
	case "stdout":
		// stdout carries pipeline diagnostics, so spans go to stderr
		exporter, err := stdouttrace.New(
			stdouttrace.WithWriter(os.Stderr),
			stdouttrace.WithPrettyPrint(),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create trace exporter: %w", err)
		}
		t.tracerProvider = sdktrace.NewTracerProvider(
			sdktrace.WithBatcher(exporter),
			sdktrace.WithResource(res),
			sdktrace.WithSampler(sdktrace.TraceIDRatioBased(cfg.SampleRatio)),
		)
		t.Tracer = t.tracerProvider.Tracer(MeterName, trace.WithInstrumentationVersion(config.AppVersion))
	case "none", "":
	default:
		return nil, fmt.Errorf("unsupported trace exporter: %s", cfg.TraceExporter)
	}

	switch cfg.MetricExporter {
	case "prometheus":
		t.registry = prom.NewRegistry()
		exporter, err := prometheus.New(prometheus.WithRegisterer(t.registry))
		if err != nil {
			return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
		}
		t.meterProvider = sdkmetric.NewMeterProvider(
			sdkmetric.WithResource(res),
			sdkmetric.WithReader(exporter),
		)
		t.Meter = t.meterProvider.Meter(MeterName, metric.WithInstrumentationVersion(config.AppVersion))
		t.metricsFile = cfg.MetricsFile
	case "none", "":
	default:
		return nil, fmt.Errorf("unsupported metric exporter: %s", cfg.MetricExporter)
	}

	logger.DebugContext(ctx, "Telemetry initialized",
		slog.String("trace_exporter", cfg.TraceExporter),
		slog.String("metric_exporter", cfg.MetricExporter))

	return t, nil
}

// createResource creates the OpenTelemetry resource
func createResource() (*resource.Resource, error) {
	return resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(config.AppName),
		semconv.ServiceVersion(config.AppVersion),
		attribute.String("service.instance.id", GenerateTraceID()),
	), nil
}

// Shutdown writes the metrics textfile, if configured, and flushes providers.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	var errs []error

	if t.registry != nil && t.metricsFile != "" {
		if err := os.MkdirAll(filepath.Dir(t.metricsFile), config.DirPermissions); err != nil {
			errs = append(errs, fmt.Errorf("failed to create metrics directory: %w", err))
		} else if err := prom.WriteToTextfile(t.metricsFile, t.registry); err != nil {
			errs = append(errs, fmt.Errorf("failed to write metrics file: %w", err))
		} else {
			t.logger.DebugContext(ctx, "Metrics written", slog.String("path", t.metricsFile))
		}
	}

	if t.meterProvider != nil {
		if err := t.meterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter provider shutdown: %w", err))
		}
	}
	if t.tracerProvider != nil {
		if err := t.tracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer provider shutdown: %w", err))
		}
	}

	return errors.Join(errs...)
}

// PipelineMetrics holds the instruments recorded by a formatter run.
type PipelineMetrics struct {
	FilesDiscovered metric.Int64Counter
	FilesSkipped    metric.Int64Counter
	RowsRead        metric.Int64Counter
	RowsDropped     metric.Int64Counter
	RowsWritten     metric.Int64Counter
	RunDuration     metric.Float64Histogram
}

// CreatePipelineMetrics creates the run-level instruments on meter.
func CreatePipelineMetrics(meter metric.Meter) (*PipelineMetrics, error) {
	filesDiscovered, err := meter.Int64Counter(
		"pipeline_files_discovered",
		metric.WithDescription("Number of candidate CSV files discovered"),
	)
	if err != nil {
		return nil, err
	}

	filesSkipped, err := meter.Int64Counter(
		"pipeline_files_skipped",
		metric.WithDescription("Number of input files that contributed no rows, by reason"),
	)
	if err != nil {
		return nil, err
	}

	rowsRead, err := meter.Int64Counter(
		"pipeline_rows_read",
		metric.WithDescription("Number of data rows parsed from input files"),
	)
	if err != nil {
		return nil, err
	}

	rowsDropped, err := meter.Int64Counter(
		"pipeline_rows_dropped",
		metric.WithDescription("Number of target rows dropped for non-numeric quantity or price"),
	)
	if err != nil {
		return nil, err
	}

	rowsWritten, err := meter.Int64Counter(
		"pipeline_rows_written",
		metric.WithDescription("Number of rows written to the output file"),
	)
	if err != nil {
		return nil, err
	}

	runDuration, err := meter.Float64Histogram(
		"pipeline_run_duration_seconds",
		metric.WithDescription("Pipeline run duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &PipelineMetrics{
		FilesDiscovered: filesDiscovered,
		FilesSkipped:    filesSkipped,
		RowsRead:        rowsRead,
		RowsDropped:     rowsDropped,
		RowsWritten:     rowsWritten,
		RunDuration:     runDuration,
	}, nil
}
