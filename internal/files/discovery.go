package files

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"salescli/internal/config"
)

// FileInfo represents information about a discovered file
type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

// Discovery provides file discovery operations
type Discovery struct{}

// NewDiscovery creates a new file discovery instance
func NewDiscovery() *Discovery {
	return &Discovery{}
}

// FindFilesByExtension returns the regular files in dir whose extension
// matches ext case-insensitively, sorted by name. Subdirectories are not
// descended into. A missing directory yields no files and no error.
func (d *Discovery) FindFilesByExtension(dir, ext string) ([]FileInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var files []FileInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		if !strings.EqualFold(filepath.Ext(name), ext) {
			continue
		}

		path := filepath.Join(dir, name)
		// Stat follows symlinks so a linked file reports its target's size
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}

		files = append(files, FileInfo{
			Path:    path,
			Name:    name,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	// os.ReadDir already sorts, but the order is part of the output contract
	sort.SliceStable(files, func(i, j int) bool {
		return files[i].Name < files[j].Name
	})

	return files, nil
}

// FindCSVFiles finds all CSV files in the specified directory in lexical order
func (d *Discovery) FindCSVFiles(dir string) ([]FileInfo, error) {
	return d.FindFilesByExtension(dir, config.CSVExtension)
}

// ExcludeName drops the file called name from files and reports whether it
// was present. The comparison is exact.
func ExcludeName(files []FileInfo, name string) ([]FileInfo, bool) {
	kept := make([]FileInfo, 0, len(files))
	found := false
	for _, f := range files {
		if f.Name == name {
			found = true
			continue
		}
		kept = append(kept, f)
	}
	return kept, found
}
