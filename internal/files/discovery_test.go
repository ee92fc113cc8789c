package files

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindCSVFiles(t *testing.T) {
	tests := []struct {
		name          string
		files         []string
		dirs          []string
		expectedNames []string
	}{
		{
			name:          "only CSV files",
			files:         []string{"data1.csv", "data2.CSV", "report.csv"},
			expectedNames: []string{"data1.csv", "data2.CSV", "report.csv"},
		},
		{
			name:          "mixed file types",
			files:         []string{"data.csv", "report.xlsx", "notes.txt", "csv", "archive.csv.bak"},
			expectedNames: []string{"data.csv"},
		},
		{
			name:          "lexical order regardless of creation order",
			files:         []string{"daily_sales_data_2.csv", "daily_sales_data_0.csv", "daily_sales_data_1.csv"},
			expectedNames: []string{"daily_sales_data_0.csv", "daily_sales_data_1.csv", "daily_sales_data_2.csv"},
		},
		{
			name:          "directories with csv names are ignored",
			files:         []string{"a.csv"},
			dirs:          []string{"nested.csv"},
			expectedNames: []string{"a.csv"},
		},
		{
			name:          "empty directory",
			expectedNames: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			discovery := NewDiscovery()

			for i, filename := range tt.files {
				path := filepath.Join(tmpDir, filename)
				require.NoError(t, os.WriteFile(path, []byte("product\n"), 0644))
				// Later files get older timestamps so mod time cannot explain the order
				modTime := time.Now().Add(-time.Duration(i) * time.Minute)
				require.NoError(t, os.Chtimes(path, modTime, modTime))
			}
			for _, d := range tt.dirs {
				require.NoError(t, os.MkdirAll(filepath.Join(tmpDir, d), 0755))
			}

			files, err := discovery.FindCSVFiles(tmpDir)
			require.NoError(t, err)

			var names []string
			for _, f := range files {
				names = append(names, f.Name)
				assert.Equal(t, filepath.Join(tmpDir, f.Name), f.Path)
				assert.Equal(t, int64(len("product\n")), f.Size)
				assert.False(t, f.ModTime.IsZero())
			}
			assert.Equal(t, tt.expectedNames, names)
		})
	}
}

func TestFindCSVFiles_ZeroByteFileReported(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "empty.csv"), nil, 0644))

	files, err := NewDiscovery().FindCSVFiles(tmpDir)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, int64(0), files[0].Size)
}

func TestFindCSVFiles_MissingDirectory(t *testing.T) {
	files, err := NewDiscovery().FindCSVFiles(filepath.Join(t.TempDir(), "does-not-exist"))
	assert.NoError(t, err)
	assert.Empty(t, files)
}

func TestFindCSVFiles_NotADirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.csv")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	_, err := NewDiscovery().FindCSVFiles(path)
	assert.Error(t, err)
}

func TestExcludeName(t *testing.T) {
	files := []FileInfo{
		{Name: "a.csv"},
		{Name: "formatted_sales.csv"},
		{Name: "z.csv"},
	}

	kept, found := ExcludeName(files, "formatted_sales.csv")
	assert.True(t, found)
	assert.Equal(t, []FileInfo{{Name: "a.csv"}, {Name: "z.csv"}}, kept)

	kept, found = ExcludeName(files, "Formatted_Sales.csv")
	assert.False(t, found, "exclusion is an exact name match")
	assert.Len(t, kept, 3)
}
