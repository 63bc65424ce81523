package files

import (
	"fmt"
	"os"
	"path/filepath"

	"attendcli/internal/config"
)

// Workspace resolves and prepares the application's working directories.
type Workspace struct {
	paths config.PathsConfig
}

// NewWorkspace creates a workspace over the configured paths.
func NewWorkspace(paths config.PathsConfig) *Workspace {
	return &Workspace{paths: paths}
}

// EnsureDirectories creates the data, reports and logs directories if they
// do not exist yet.
func (w *Workspace) EnsureDirectories() error {
	for _, dir := range []string{w.paths.DataDir, w.paths.ReportsDir, w.paths.LogsDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// DataDir returns the swipe log directory.
func (w *Workspace) DataDir() string {
	return w.paths.DataDir
}

// ReportPath joins a file name onto the reports directory.
func (w *Workspace) ReportPath(name string) string {
	return filepath.Join(w.paths.ReportsDir, name)
}
