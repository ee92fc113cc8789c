// Package exporter writes the pipeline's combined output.
//
// CSVWriter renders a header and records with encoding/csv and replaces the
// target file in a single atomic write through files.Manager. Every write
// reports an xxh3 checksum of the bytes written, so two runs over the same
// input can be compared cheaply.
//
// XLSXWriter produces an optional spreadsheet copy of the same rows.
//
// Example usage:
//
//	writer := exporter.NewCSVWriter(files.NewManager("data", logger), logger)
//	result, err := writer.WriteCSV(ctx, "formatted_sales.csv", exporter.WriteOptions{
//		Headers: config.OutputHeader(),
//		Records: records,
//	})
package exporter
