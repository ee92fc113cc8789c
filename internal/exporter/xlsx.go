package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/xuri/excelize/v2"

	"salescli/internal/files"
)

// DefaultSheetName is the worksheet the XLSX writer fills.
const DefaultSheetName = "Sales"

// XLSXWriter writes records to a single-sheet workbook.
type XLSXWriter struct {
	manager   *files.Manager
	logger    *slog.Logger
	sheetName string
}

// NewXLSXWriter creates a workbook writer.
func NewXLSXWriter(manager *files.Manager, logger *slog.Logger) *XLSXWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &XLSXWriter{manager: manager, logger: logger, sheetName: DefaultSheetName}
}

// XLSXOptions configures a workbook write. Cells in NumericColumns that parse
// as numbers are stored as numbers; everything else is stored as text.
type XLSXOptions struct {
	Headers        []string
	Records        [][]string
	NumericColumns []int
}

// WriteXLSX builds the workbook in memory and replaces name with it.
func (w *XLSXWriter) WriteXLSX(ctx context.Context, name string, options XLSXOptions) (*WriteResult, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), w.sheetName); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	numeric := make(map[int]bool, len(options.NumericColumns))
	for _, col := range options.NumericColumns {
		numeric[col] = true
	}

	if len(options.Headers) > 0 {
		header := make([]interface{}, len(options.Headers))
		for i, h := range options.Headers {
			header[i] = h
		}
		if err := f.SetSheetRow(w.sheetName, "A1", &header); err != nil {
			return nil, fmt.Errorf("failed to write headers: %w", err)
		}
	}

	for i, record := range options.Records {
		row := make([]interface{}, len(record))
		for j, cell := range record {
			row[j] = cell
			if numeric[j] {
				if v, err := strconv.ParseFloat(cell, 64); err == nil {
					row[j] = v
				}
			}
		}

		cellName, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(w.sheetName, cellName, &row); err != nil {
			return nil, fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to encode workbook: %w", err)
	}
	data := buf.Bytes()

	if err := w.manager.WriteFile(name, data); err != nil {
		return nil, err
	}

	result := &WriteResult{
		Path:     w.manager.Path(name),
		Rows:     len(options.Records),
		Bytes:    len(data),
		Checksum: ComputeChecksum(data),
	}

	w.logger.InfoContext(ctx, "Wrote XLSX file",
		slog.String("full_path", result.Path),
		slog.Int("record_count", result.Rows),
		slog.String("sheet", w.sheetName))

	return result, nil
}
