package exporter

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"salescli/internal/files"
)

func TestXLSXWriter_WriteXLSX(t *testing.T) {
	dir := t.TempDir()
	writer := NewXLSXWriter(files.NewManager(dir, nil), nil)

	result, err := writer.WriteXLSX(context.Background(), "out.xlsx", XLSXOptions{
		Headers: testHeaders,
		Records: [][]string{
			{"35.0", "2021-01-10", "north"},
			{"7.5", "2021-01-11", "south"},
		},
		NumericColumns: []int{0},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Rows)

	f, err := excelize.OpenFile(filepath.Join(dir, "out.xlsx"))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(DefaultSheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, testHeaders, rows[0])
	// Stored as a number, so the text "35.0" comes back as 35
	assert.Equal(t, []string{"35", "2021-01-10", "north"}, rows[1])
	assert.Equal(t, []string{"7.5", "2021-01-11", "south"}, rows[2])
}

func TestXLSXWriter_HeaderOnly(t *testing.T) {
	dir := t.TempDir()
	writer := NewXLSXWriter(files.NewManager(dir, nil), nil)

	_, err := writer.WriteXLSX(context.Background(), "empty.xlsx", XLSXOptions{Headers: testHeaders})
	require.NoError(t, err)

	f, err := excelize.OpenFile(filepath.Join(dir, "empty.xlsx"))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(DefaultSheetName)
	require.NoError(t, err)
	assert.Equal(t, [][]string{testHeaders}, rows)
}
