package files

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"salescli/internal/config"
)

// Manager reads and writes files under a single directory.
type Manager struct {
	baseDir string
	logger  *slog.Logger
}

// NewManager creates a manager rooted at baseDir.
func NewManager(baseDir string, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{baseDir: baseDir, logger: logger}
}

// Path resolves name against the base directory.
func (m *Manager) Path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(m.baseDir, name)
}

// ReadFile reads the entire content of a file
func (m *Manager) ReadFile(name string) ([]byte, error) {
	fullPath := m.Path(name)

	m.logger.Debug("Reading file", slog.String("full_path", fullPath))

	return os.ReadFile(fullPath)
}

// WriteFile replaces the file with data. Content goes to a temporary file in
// the same directory first and is renamed into place, so readers never see a
// partially written file.
func (m *Manager) WriteFile(name string, data []byte) error {
	fullPath := m.Path(name)
	dir := filepath.Dir(fullPath)

	m.logger.Debug("Writing file",
		slog.String("full_path", fullPath),
		slog.Int("size_bytes", len(data)))

	if err := os.MkdirAll(dir, config.DirPermissions); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(fullPath)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write temporary file: %w", err)
	}
	if err := tmp.Chmod(config.FilePermissions); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to set file mode: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temporary file: %w", err)
	}

	if err := os.Rename(tmpName, fullPath); err != nil {
		return fmt.Errorf("failed to move file into place: %w", err)
	}
	return nil
}
