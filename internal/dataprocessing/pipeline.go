package dataprocessing

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"salescli/internal/config"
	apperrors "salescli/internal/errors"
	"salescli/internal/exporter"
	"salescli/internal/files"
	"salescli/internal/infrastructure"
)

// Options configures a pipeline run.
type Options struct {
	DataDir         string
	OutputFilename  string
	TargetProduct   string
	RequiredColumns []string
	// Workers bounds how many files are processed at once. Output order does
	// not depend on it.
	Workers    int
	XLSXMirror bool
}

// OptionsFromConfig copies the pipeline section of the configuration.
func OptionsFromConfig(cfg config.PipelineConfig) Options {
	return Options{
		DataDir:         cfg.DataDir,
		OutputFilename:  cfg.OutputFilename,
		TargetProduct:   cfg.TargetProduct,
		RequiredColumns: cfg.RequiredColumns,
		Workers:         cfg.Workers,
		XLSXMirror:      cfg.XLSXMirror,
	}
}

// FileResult records what happened to one input file.
type FileResult struct {
	Name           string
	Path           string
	Skip           SkipReason
	Reason         string
	// Err carries the parsing error for unreadable files.
	Err            error
	MissingColumns []string
	RowsRead       int
	Matched        int
	Dropped        int
	Written        int
	// Diagnostics are the human-readable lines emitted for this file.
	Diagnostics []string

	rows []OutputRow
}

// Qualifying reports whether the file contributed rows to the output.
func (r FileResult) Qualifying() bool {
	return r.Skip == SkipNone && r.Written > 0
}

func (r *FileResult) diagnose(format string, args ...interface{}) {
	r.Diagnostics = append(r.Diagnostics, fmt.Sprintf(format, args...))
}

// RunSummary describes a completed run.
type RunSummary struct {
	Files         []FileResult
	Discovered    int
	OutputSkipped bool
	TotalRows     int
	OutputPath    string
	Checksum      string
	XLSXPath      string
	Duration      time.Duration
}

// Skipped counts files that contributed no rows.
func (s *RunSummary) Skipped() int {
	n := 0
	for _, f := range s.Files {
		if !f.Qualifying() {
			n++
		}
	}
	return n
}

// Pipeline discovers CSV files, transforms each one independently and writes
// the combined output.
type Pipeline struct {
	opts        Options
	out         io.Writer
	logger      *slog.Logger
	tracer      trace.Tracer
	metrics     *infrastructure.PipelineMetrics
	discovery   *files.Discovery
	manager     *files.Manager
	csvWriter   *exporter.CSVWriter
	xlsxWriter  *exporter.XLSXWriter
	transformer *Transformer
}

// NewPipeline creates a pipeline. Diagnostics are written to out; a nil
// telemetry records nothing.
func NewPipeline(opts Options, out io.Writer, logger *slog.Logger, tel *infrastructure.Telemetry) (*Pipeline, error) {
	if opts.OutputFilename == "" || filepath.Base(opts.OutputFilename) != opts.OutputFilename {
		return nil, apperrors.NewValidationError(fmt.Sprintf("invalid output filename %q", opts.OutputFilename))
	}
	if opts.TargetProduct == "" {
		return nil, apperrors.NewValidationError("target product is required")
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if out == nil {
		out = io.Discard
	}
	if logger == nil {
		logger = slog.Default()
	}
	if tel == nil {
		tel = infrastructure.NoopTelemetry()
	}

	metrics, err := infrastructure.CreatePipelineMetrics(tel.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create pipeline metrics: %w", err)
	}

	logger = logger.With(slog.String("component", "pipeline"))
	manager := files.NewManager(opts.DataDir, logger)

	return &Pipeline{
		opts:        opts,
		out:         out,
		logger:      logger,
		tracer:      tel.Tracer,
		metrics:     metrics,
		discovery:   files.NewDiscovery(),
		manager:     manager,
		csvWriter:   exporter.NewCSVWriter(manager, logger),
		xlsxWriter:  exporter.NewXLSXWriter(manager, logger),
		transformer: NewTransformer(opts.RequiredColumns, opts.TargetProduct),
	}, nil
}

// Run processes every CSV file in the data directory and writes the output.
// Per-file problems are recorded in the summary and never fail the run; only
// a failed output write or a cancelled context returns an error.
func (p *Pipeline) Run(ctx context.Context) (*RunSummary, error) {
	start := time.Now()
	ctx, span := p.tracer.Start(ctx, "pipeline.run", trace.WithAttributes(
		attribute.String("data_dir", p.opts.DataDir),
		attribute.String("product", p.opts.TargetProduct),
	))
	defer span.End()

	summary := &RunSummary{}

	candidates, err := p.discovery.FindCSVFiles(p.opts.DataDir)
	if err != nil {
		p.logger.WarnContext(ctx, "Failed to scan data directory",
			slog.String("dir", p.opts.DataDir),
			slog.String("error", err.Error()))
		candidates = nil
	}

	if len(candidates) == 0 {
		p.printf("No CSV files found in %s/\n", p.opts.DataDir)
	}

	inputs, excluded := files.ExcludeName(candidates, p.opts.OutputFilename)
	summary.OutputSkipped = excluded
	summary.Discovered = len(inputs)
	p.metrics.FilesDiscovered.Add(ctx, int64(len(inputs)))

	p.logger.InfoContext(ctx, "Discovered input files",
		slog.String("dir", p.opts.DataDir),
		slog.Int("count", len(inputs)),
		slog.Bool("output_excluded", excluded))

	results, err := p.processAll(ctx, inputs)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "run cancelled")
		return nil, err
	}

	// Diagnostics are printed in discovery order once every file is done,
	// with the output notice at the output file's own position
	noticePending := excluded
	for _, r := range results {
		if noticePending && r.Name > p.opts.OutputFilename {
			p.printOutputNotice()
			noticePending = false
		}
		for _, line := range r.Diagnostics {
			p.printf("%s\n", line)
		}
		p.record(ctx, r)
	}
	if noticePending {
		p.printOutputNotice()
	}
	summary.Files = results

	rows := Aggregate(results)
	records := Records(rows)

	written, err := p.csvWriter.WriteCSV(ctx, p.opts.OutputFilename, exporter.WriteOptions{
		Headers: config.OutputHeader(),
		Records: records,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "output write failed")
		return nil, apperrors.NewStorageError("failed to write output file", err).
			WithContext("path", p.manager.Path(p.opts.OutputFilename))
	}

	summary.TotalRows = written.Rows
	summary.OutputPath = written.Path
	summary.Checksum = written.Checksum
	p.metrics.RowsWritten.Add(ctx, int64(written.Rows))

	if p.opts.XLSXMirror {
		if err := p.writeMirror(ctx, summary, records); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "xlsx mirror write failed")
			return nil, err
		}
	}

	if len(rows) == 0 {
		p.printf("No %s data found in any files. Created empty %s with headers.\n",
			p.opts.TargetProduct, written.Path)
	} else {
		p.printf("Created %s with %d rows.\n", written.Path, written.Rows)
	}

	summary.Duration = time.Since(start)
	p.metrics.RunDuration.Record(ctx, summary.Duration.Seconds())
	span.SetAttributes(
		attribute.Int("files", len(results)),
		attribute.Int("rows_written", summary.TotalRows),
	)

	return summary, nil
}

// processAll transforms every input with at most Workers files in flight.
// Results are stored by index so their order matches discovery order.
func (p *Pipeline) processAll(ctx context.Context, inputs []files.FileInfo) ([]FileResult, error) {
	results := make([]FileResult, len(inputs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.Workers)

	for i, file := range inputs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = p.ProcessFile(gctx, file)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// ProcessFile loads and transforms a single file. It never fails: every
// problem is captured in the returned FileResult.
func (p *Pipeline) ProcessFile(ctx context.Context, file files.FileInfo) FileResult {
	_, span := p.tracer.Start(ctx, "pipeline.file", trace.WithAttributes(
		attribute.String("file", file.Name),
		attribute.Int64("size_bytes", file.Size),
	))
	defer span.End()

	result := FileResult{Name: file.Name, Path: file.Path}
	result.diagnose("Processing: %s", file.Name)

	loaded := LoadFile(p.manager, file)
	switch loaded.Skip {
	case SkipNone:
	case SkipEmpty:
		result.diagnose("  - Skipping empty file: %s", file.Name)
		return p.skip(ctx, span, result, loaded.Skip, "")
	case SkipNoData:
		result.diagnose("  - Skipping file with no data: %s", file.Name)
		return p.skip(ctx, span, result, loaded.Skip, loaded.Reason)
	default:
		result.Err = loaded.Err
		result.diagnose("  - Failed to read %s: %s", file.Name, loaded.Reason)
		span.RecordError(loaded.Err)
		return p.skip(ctx, span, result, loaded.Skip, loaded.Reason)
	}

	result.RowsRead = loaded.Table.Len()
	if loaded.Truncated > 0 {
		p.logger.DebugContext(ctx, "Ignored cells beyond header width",
			slog.String("file", file.Name),
			slog.Int("rows", loaded.Truncated))
	}

	transformed := p.transformer.Transform(loaded.Table)
	result.MissingColumns = transformed.MissingColumns
	result.Matched = transformed.Matched
	result.Dropped = transformed.Dropped

	if transformed.Skip == SkipMissingColumns {
		result.diagnose("  - Missing columns [%s]; skipping file.", strings.Join(transformed.MissingColumns, ", "))
		return p.skip(ctx, span, result, transformed.Skip, "missing "+strings.Join(transformed.MissingColumns, ","))
	}
	if transformed.Skip == SkipNoMatchingProduct {
		result.diagnose("  - No %s rows found in this file; skipping.", p.opts.TargetProduct)
		return p.skip(ctx, span, result, transformed.Skip, "")
	}

	if transformed.Dropped > 0 {
		result.diagnose("  - Dropped %d rows with non-numeric price/quantity.", transformed.Dropped)
	}
	if transformed.Skip != SkipNone {
		return p.skip(ctx, span, result, transformed.Skip, "")
	}

	result.rows = transformed.Rows
	result.Written = len(transformed.Rows)

	span.SetAttributes(attribute.Int("rows", result.Written))
	p.logger.DebugContext(ctx, "File processed",
		slog.String("file", file.Name),
		slog.Int("rows_read", result.RowsRead),
		slog.Int("matched", result.Matched),
		slog.Int("dropped", result.Dropped),
		slog.Int("written", result.Written))

	return result
}

func (p *Pipeline) skip(ctx context.Context, span trace.Span, result FileResult, reason SkipReason, detail string) FileResult {
	result.Skip = reason
	result.Reason = detail

	span.SetAttributes(attribute.String("skip_reason", reason.String()))
	attrs := []any{
		slog.String("file", result.Name),
		slog.String("reason", reason.String()),
		slog.String("detail", detail),
	}
	if result.Err != nil {
		attrs = append(attrs, slog.String("error", result.Err.Error()))
	}
	p.logger.InfoContext(ctx, "Skipping file", attrs...)

	return result
}

func (p *Pipeline) record(ctx context.Context, r FileResult) {
	p.metrics.RowsRead.Add(ctx, int64(r.RowsRead))
	if r.Dropped > 0 {
		p.metrics.RowsDropped.Add(ctx, int64(r.Dropped))
	}
	if r.Skip != SkipNone {
		p.metrics.FilesSkipped.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", r.Skip.String())))
	}
}

func (p *Pipeline) writeMirror(ctx context.Context, summary *RunSummary, records [][]string) error {
	name := strings.TrimSuffix(p.opts.OutputFilename, filepath.Ext(p.opts.OutputFilename)) + config.XLSXExtension

	written, err := p.xlsxWriter.WriteXLSX(ctx, name, exporter.XLSXOptions{
		Headers:        config.OutputHeader(),
		Records:        records,
		NumericColumns: []int{0},
	})
	if err != nil {
		return apperrors.NewStorageError("failed to write xlsx mirror", err).
			WithContext("path", p.manager.Path(name))
	}

	summary.XLSXPath = written.Path
	return nil
}

func (p *Pipeline) printOutputNotice() {
	p.printf("Skipping output file if present: %s\n", p.opts.OutputFilename)
}

func (p *Pipeline) printf(format string, args ...interface{}) {
	fmt.Fprintf(p.out, format, args...)
}
