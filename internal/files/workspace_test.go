package files

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"attendcli/internal/config"
)

func TestEnsureDirectories(t *testing.T) {
	root := t.TempDir()
	w := NewWorkspace(config.PathsConfig{
		DataDir:    filepath.Join(root, "data"),
		ReportsDir: filepath.Join(root, "reports"),
		LogsDir:    filepath.Join(root, "logs"),
	})

	require.NoError(t, w.EnsureDirectories())

	for _, dir := range []string{"data", "reports", "logs"} {
		info, err := os.Stat(filepath.Join(root, dir))
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}

	// Idempotent.
	require.NoError(t, w.EnsureDirectories())
}

func TestReportPath(t *testing.T) {
	w := NewWorkspace(config.PathsConfig{DataDir: "data", ReportsDir: "reports"})
	assert.Equal(t, filepath.Join("reports", "june.xlsx"), w.ReportPath("june.xlsx"))
	assert.Equal(t, "data", w.DataDir())
}
