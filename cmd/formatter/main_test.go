package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("SALES_CONFIG_FILE", "")
	t.Setenv("SALES_LOGGING_OUTPUT", "stderr")
	t.Setenv("SALES_TELEMETRY_TRACE_EXPORTER", "none")
	t.Setenv("SALES_TELEMETRY_METRIC_EXPORTER", "none")
	return dir
}

func TestRun(t *testing.T) {
	dir := isolate(t)
	dataDir := filepath.Join(dir, "input")
	require.NoError(t, os.MkdirAll(dataDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "a.csv"),
		[]byte("product,quantity,price,date,region\nPink Morsel,10,3.5,2021-01-10,north\n"), 0644))

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-dir", dataDir, "-out", "result.csv", "-workers", "2"}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	content, err := os.ReadFile(filepath.Join(dataDir, "result.csv"))
	require.NoError(t, err)
	assert.Equal(t, "Sales,Date,Region\n35.0,2021-01-10,north\n", string(content))
	assert.Contains(t, stdout.String(), "Processing: a.csv")
	assert.Contains(t, stdout.String(), "with 1 rows.")
}

func TestRun_DefaultDataDir(t *testing.T) {
	dir := isolate(t)

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), nil, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	content, err := os.ReadFile(filepath.Join(dir, "data", "formatted_sales.csv"))
	require.NoError(t, err)
	assert.Equal(t, "Sales,Date,Region\n", string(content))
	assert.Contains(t, stdout.String(), "No CSV files found in data/")
}

func TestRun_InvalidInput(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "unknown flag", args: []string{"-bogus"}},
		{name: "workers out of range", args: []string{"-workers", "0"}},
		{name: "output with directory", args: []string{"-out", "nested/out.csv"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)

			var stdout, stderr bytes.Buffer
			code := run(context.Background(), tt.args, &stdout, &stderr)
			assert.Equal(t, 1, code)
			assert.NotEmpty(t, stderr.String())
			assert.Empty(t, stdout.String())
		})
	}
}

func TestRun_WriteFailure(t *testing.T) {
	dir := isolate(t)
	blocker := filepath.Join(dir, "data")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-dir", blocker}, &stdout, &stderr)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "failed to write output file")
}

func TestRun_Help(t *testing.T) {
	isolate(t)

	var stdout, stderr bytes.Buffer
	assert.Equal(t, 0, run(context.Background(), []string{"-h"}, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "-workers")
}

func TestRun_InvalidEnvConfig(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		file    string
		wantErr string
	}{
		{
			name:    "out of range value",
			env:     map[string]string{"SALES_PIPELINE_WORKERS": "0"},
			wantErr: "Workers must be greater than or equal to 1",
		},
		{
			name:    "unparsable value",
			env:     map[string]string{"SALES_PIPELINE_WORKERS": "many"},
			wantErr: "failed to load config from env",
		},
		{
			name:    "malformed yaml file",
			file:    "pipeline: [unterminated",
			wantErr: "failed to load config from file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := isolate(t)
			dataDir := filepath.Join(dir, "input")
			require.NoError(t, os.MkdirAll(dataDir, 0755))
			require.NoError(t, os.WriteFile(filepath.Join(dataDir, "a.csv"),
				[]byte("product,quantity,price,date,region\nPink Morsel,1,1,2021-01-01,north\n"), 0644))

			t.Setenv("SALES_PIPELINE_DATA_DIR", dataDir)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if tt.file != "" {
				path := filepath.Join(dir, "salescli.yaml")
				require.NoError(t, os.WriteFile(path, []byte(tt.file), 0644))
				t.Setenv("SALES_CONFIG_FILE", path)
			}

			var stdout, stderr bytes.Buffer
			code := run(context.Background(), nil, &stdout, &stderr)

			assert.Equal(t, 1, code)
			assert.Contains(t, stderr.String(), "[CONFIG]")
			assert.Contains(t, stderr.String(), tt.wantErr)
			assert.Empty(t, stdout.String(), "no run happens on invalid configuration")
			assert.NoFileExists(t, filepath.Join(dataDir, "formatted_sales.csv"))
			assert.NoDirExists(t, filepath.Join(dir, "data"))
		})
	}
}
