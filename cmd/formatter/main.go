package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"salescli/internal/config"
	"salescli/internal/dataprocessing"
	apperrors "salescli/internal/errors"
	"salescli/internal/infrastructure"
)

const shutdownTimeout = 5 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes one formatter pass and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet(config.AppName, flag.ContinueOnError)
	fs.SetOutput(stderr)
	dataDir := fs.String("dir", "", "directory to scan for daily sales CSV files (overrides config)")
	output := fs.String("out", "", "output filename inside the data directory (overrides config)")
	product := fs.String("product", "", "product to keep (overrides config)")
	workers := fs.Int("workers", 0, "number of files processed concurrently (overrides config)")
	xlsx := fs.Bool("xlsx", false, "also write an .xlsx copy of the output")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 1
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "invalid configuration: %v\n", err)
		return 1
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "dir":
			cfg.Pipeline.DataDir = *dataDir
		case "out":
			cfg.Pipeline.OutputFilename = *output
		case "product":
			cfg.Pipeline.TargetProduct = *product
		case "workers":
			cfg.Pipeline.Workers = *workers
		case "xlsx":
			cfg.Pipeline.XLSXMirror = *xlsx
		}
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "invalid configuration: %v\n",
			apperrors.NewConfigError("invalid command-line flags", err))
		return 1
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	ctx = infrastructure.EnsureTraceID(ctx)

	tel, err := infrastructure.InitializeTelemetry(ctx, cfg.Telemetry, logger)
	if err != nil {
		logger.WarnContext(ctx, "Failed to initialize telemetry, continuing without it",
			slog.String("error", err.Error()))
		tel = infrastructure.NoopTelemetry()
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := tel.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Telemetry shutdown failed", slog.String("error", err.Error()))
		}
	}()

	logger.InfoContext(ctx, "Starting sales formatter",
		slog.String("version", config.AppVersion),
		slog.String("data_dir", cfg.Pipeline.DataDir),
		slog.String("output", cfg.Pipeline.OutputFilename),
		slog.String("product", cfg.Pipeline.TargetProduct),
		slog.Int("workers", cfg.Pipeline.Workers))

	pipeline, err := dataprocessing.NewPipeline(dataprocessing.OptionsFromConfig(cfg.Pipeline), stdout, logger, tel)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to create pipeline", slog.String("error", err.Error()))
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	summary, err := pipeline.Run(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "Pipeline run failed", slog.String("error", err.Error()))
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	logger.InfoContext(ctx, "Pipeline run complete",
		slog.Int("files", len(summary.Files)),
		slog.Int("skipped", summary.Skipped()),
		slog.Int("rows_written", summary.TotalRows),
		slog.String("output_path", summary.OutputPath),
		slog.String("xxh3", summary.Checksum),
		slog.Duration("duration", summary.Duration))

	return 0
}
