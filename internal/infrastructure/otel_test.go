package infrastructure

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"salescli/internal/config"
)

func TestInitializeTelemetry_Disabled(t *testing.T) {
	tel, err := InitializeTelemetry(context.Background(), config.TelemetryConfig{
		TraceExporter:  "none",
		MetricExporter: "none",
	}, nil)
	require.NoError(t, err)
	require.NotNil(t, tel.Tracer)
	require.NotNil(t, tel.Meter)

	_, span := tel.Tracer.Start(context.Background(), "noop")
	span.End()
	assert.False(t, span.SpanContext().IsValid())

	assert.NoError(t, tel.Shutdown(context.Background()))
}

func TestInitializeTelemetry_Unsupported(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.TelemetryConfig
	}{
		{name: "trace exporter", cfg: config.TelemetryConfig{TraceExporter: "jaeger"}},
		{name: "metric exporter", cfg: config.TelemetryConfig{MetricExporter: "statsd"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := InitializeTelemetry(context.Background(), tt.cfg, nil)
			assert.ErrorContains(t, err, "unsupported")
		})
	}
}

func TestTelemetry_PrometheusTextfile(t *testing.T) {
	metricsFile := filepath.Join(t.TempDir(), "metrics", "salescli.prom")

	tel, err := InitializeTelemetry(context.Background(), config.TelemetryConfig{
		TraceExporter:  "none",
		MetricExporter: "prometheus",
		MetricsFile:    metricsFile,
	}, nil)
	require.NoError(t, err)

	metrics, err := CreatePipelineMetrics(tel.Meter)
	require.NoError(t, err)

	ctx := context.Background()
	metrics.FilesDiscovered.Add(ctx, 3)
	metrics.FilesSkipped.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", "empty")))
	metrics.RowsWritten.Add(ctx, 7)
	metrics.RunDuration.Record(ctx, 0.25)

	require.NoError(t, tel.Shutdown(ctx))

	content, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	text := string(content)
	assert.Contains(t, text, "pipeline_files_discovered")
	assert.Contains(t, text, "pipeline_rows_written")
	assert.Contains(t, text, `reason="empty"`)
	assert.Contains(t, text, "pipeline_run_duration_seconds")
}

func TestCreatePipelineMetrics_Noop(t *testing.T) {
	metrics, err := CreatePipelineMetrics(NoopTelemetry().Meter)
	require.NoError(t, err)
	assert.NotNil(t, metrics.FilesDiscovered)
	assert.NotNil(t, metrics.RowsDropped)
	assert.NotNil(t, metrics.RowsRead)
}
