package files

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string, modTime time.Time) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("data"), 0644))
	require.NoError(t, os.Chtimes(path, modTime, modTime))
}

func TestListLogFilesNewestFirst(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()
	touch(t, filepath.Join(dir, "old.csv"), now.Add(-2*time.Hour))
	touch(t, filepath.Join(dir, "new.csv"), now)
	touch(t, filepath.Join(dir, "mid.CSV"), now.Add(-time.Hour))

	d := NewDiscovery(dir, slog.Default())
	logs, err := d.ListLogFiles(context.Background())
	require.NoError(t, err)

	require.Len(t, logs, 3)
	assert.Equal(t, "new.csv", logs[0].Name)
	assert.Equal(t, "mid.CSV", logs[1].Name)
	assert.Equal(t, "old.csv", logs[2].Name)
	assert.Equal(t, filepath.Join(dir, "new.csv"), logs[0].Path)
}

func TestListLogFilesIgnoresNonCSV(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "report.xlsx"), time.Now())
	touch(t, filepath.Join(dir, "notes.txt"), time.Now())
	touch(t, filepath.Join(dir, "log.csv"), time.Now())
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.csv"), 0755))

	d := NewDiscovery(dir, slog.Default())
	logs, err := d.ListLogFiles(context.Background())
	require.NoError(t, err)

	require.Len(t, logs, 1)
	assert.Equal(t, "log.csv", logs[0].Name)
}

func TestListLogFilesMissingDir(t *testing.T) {
	d := NewDiscovery(filepath.Join(t.TempDir(), "missing"), slog.Default())
	logs, err := d.ListLogFiles(context.Background())
	require.NoError(t, err)
	assert.Empty(t, logs)
}
