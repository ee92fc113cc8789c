package exporter

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"

	"salescli/internal/files"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVWriter provides CSV export functionality
type CSVWriter struct {
	manager *files.Manager
	logger  *slog.Logger
}

// NewCSVWriter creates a new CSV writer instance
func NewCSVWriter(manager *files.Manager, logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{manager: manager, logger: logger}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// WriteResult describes a completed write.
type WriteResult struct {
	Path     string
	Rows     int
	Bytes    int
	Checksum string
}

// RenderCSV encodes headers and records as CSV with "\n" line endings.
func RenderCSV(options WriteOptions) ([]byte, error) {
	var buf bytes.Buffer

	if options.BOMPrefix {
		buf.Write(utf8BOM)
	}

	writer := csv.NewWriter(&buf)

	if len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return nil, fmt.Errorf("failed to write headers: %w", err)
		}
	}

	for i, record := range options.Records {
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// WriteCSV renders the options and replaces name with the result. The
// previous file, if any, stays intact when rendering or writing fails.
func (w *CSVWriter) WriteCSV(ctx context.Context, name string, options WriteOptions) (*WriteResult, error) {
	fullPath := w.manager.Path(name)

	data, err := RenderCSV(options)
	if err != nil {
		return nil, err
	}

	if err := w.manager.WriteFile(name, data); err != nil {
		return nil, err
	}

	result := &WriteResult{
		Path:     fullPath,
		Rows:     len(options.Records),
		Bytes:    len(data),
		Checksum: ComputeChecksum(data),
	}

	w.logger.InfoContext(ctx, "Wrote CSV file",
		slog.String("full_path", result.Path),
		slog.Int("record_count", result.Rows),
		slog.Int("size_bytes", result.Bytes),
		slog.String("xxh3", result.Checksum))

	return result, nil
}
