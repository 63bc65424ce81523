package files

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// LogFile describes one candidate swipe log in the data directory.
type LogFile struct {
	Name    string    `json:"name"`
	Path    string    `json:"path"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"mod_time"`
}

// Discovery lists swipe log files available for analysis.
type Discovery struct {
	dir    string
	logger *slog.Logger
}

// NewDiscovery creates a discovery rooted at the data directory.
func NewDiscovery(dir string, logger *slog.Logger) *Discovery {
	if logger == nil {
		logger = slog.Default()
	}
	return &Discovery{dir: dir, logger: logger}
}

// ListLogFiles returns the CSV files in the data directory, newest first.
// A missing directory yields an empty list, not an error: the directory is
// created lazily on first export or upload.
func (d *Discovery) ListLogFiles(ctx context.Context) ([]LogFile, error) {
	entries, err := os.ReadDir(d.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var logs []LogFile
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".csv") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		logs = append(logs, LogFile{
			Name:    entry.Name(),
			Path:    filepath.Join(d.dir, entry.Name()),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(logs, func(i, j int) bool {
		return logs[i].ModTime.After(logs[j].ModTime)
	})

	d.logger.DebugContext(ctx, "log files listed",
		slog.String("dir", d.dir),
		slog.Int("count", len(logs)))

	return logs, nil
}
