package dataprocessing

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"

	apperrors "salescli/internal/errors"
	"salescli/internal/files"
)

// LoadResult is the outcome of reading one file: either a Table, or a skip
// classification with a human-readable reason.
type LoadResult struct {
	Table  *Table
	Skip   SkipReason
	Reason string
	// Err is a parsing error for unreadable files.
	Err error
	// Truncated counts rows that had more cells than the header.
	Truncated int
}

// OK reports whether a table was produced.
func (r LoadResult) OK() bool {
	return r.Skip == SkipNone && r.Table != nil
}

// LoadFile reads file through m and parses it. A zero size seen at discovery
// is classified as empty without opening the file.
func LoadFile(m *files.Manager, file files.FileInfo) LoadResult {
	if file.Size == 0 {
		return LoadResult{Skip: SkipEmpty}
	}

	data, err := m.ReadFile(file.Name)
	if err != nil {
		return unreadable(file.Name, err)
	}

	result := ParseCSV(data)
	var appErr *apperrors.AppError
	if errors.As(result.Err, &appErr) {
		appErr.WithContext("file", file.Name)
	}
	return result
}

func unreadable(name string, cause error) LoadResult {
	return LoadResult{
		Skip:   SkipUnreadable,
		Reason: cause.Error(),
		Err:    apperrors.NewParsingError("failed to read file", cause).WithContext("file", name),
	}
}

// ParseCSV parses delimited text tolerantly. Rows may be ragged: short rows
// are padded with empty cells and cells beyond the header width are dropped.
// Quotes are handled lazily. A leading UTF-8 byte-order mark is removed.
// Content that is not valid UTF-8 is unreadable.
func ParseCSV(data []byte) LoadResult {
	if len(data) == 0 {
		return LoadResult{Skip: SkipEmpty}
	}

	if !utf8.Valid(data) {
		return parseFailure(errors.New("content is not valid UTF-8"))
	}

	content, err := unicode.UTF8BOM.NewDecoder().Bytes(data)
	if err != nil {
		return parseFailure(fmt.Errorf("decode: %w", err))
	}

	reader := csv.NewReader(bytes.NewReader(content))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := readRecord(reader)
	if errors.Is(err, io.EOF) {
		return LoadResult{Skip: SkipNoData, Reason: "no columns to parse"}
	}
	if err != nil {
		return parseFailure(err)
	}

	table := &Table{Columns: header}
	truncated := 0
	for {
		record, err := readRecord(reader)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return parseFailure(err)
		}

		row := make([]string, len(header))
		if len(record) > len(header) {
			truncated++
		}
		copy(row, record)
		table.Rows = append(table.Rows, row)
	}

	if len(table.Rows) == 0 {
		return LoadResult{Skip: SkipNoData, Reason: "header without data rows"}
	}

	return LoadResult{Table: table, Truncated: truncated}
}

func parseFailure(cause error) LoadResult {
	return LoadResult{
		Skip:   SkipUnreadable,
		Reason: cause.Error(),
		Err:    apperrors.NewParsingError("failed to parse CSV", cause),
	}
}

// readRecord returns the next record, skipping lines that hold nothing but
// whitespace.
func readRecord(r *csv.Reader) ([]string, error) {
	for {
		record, err := r.Read()
		if err != nil {
			return nil, err
		}
		if len(record) == 1 && strings.TrimSpace(record[0]) == "" {
			continue
		}
		return record, nil
	}
}
