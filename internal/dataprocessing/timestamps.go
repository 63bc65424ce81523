package dataprocessing

import (
	"log/slog"
	"time"

	"github.com/araddon/dateparse"

	apperrors "attendcli/internal/errors"
	"attendcli/pkg/contracts/domain"
)

// timestampLayouts is the fixed, ordered list of explicit formats attempted
// before the generic fallback pass. Order matters: the most common badge
// reader format comes first.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006/01/02 15:04:05",
	"2006-01-02 15:04",
	"2006/01/02 15:04",
	"02-01-2006 15:04:05",
	"02/01/2006 15:04:05",
}

// ParseStats describes the outcome of a normalization pass so callers can
// observe silent data loss.
type ParseStats struct {
	Total   int `json:"total"`
	Parsed  int `json:"parsed"`
	Dropped int `json:"dropped"`
}

// NormalizeTimestamps resolves each event's raw timestamp into a canonical
// instant. Every explicit layout is tried in order against the rows still
// unresolved; a generic parse pass sweeps up whatever remains. Rows that
// stay unresolved are dropped from the returned slice. The whole pass fails
// only when zero rows resolve.
func NormalizeTimestamps(events []domain.RawEvent, logger *slog.Logger) ([]domain.RawEvent, ParseStats, error) {
	if logger == nil {
		logger = slog.Default()
	}

	stats := ParseStats{Total: len(events)}

	for _, layout := range timestampLayouts {
		matched := 0
		for i := range events {
			if events[i].Parsed {
				continue
			}
			if t, err := time.ParseInLocation(layout, events[i].RawTimestamp, time.Local); err == nil {
				events[i].Instant = t
				events[i].Parsed = true
				matched++
				stats.Parsed++
			}
		}
		logger.Debug("timestamp layout attempted",
			slog.String("layout", layout),
			slog.Int("newly_parsed", matched),
			slog.Int("parsed", stats.Parsed),
			slog.Int("total", stats.Total))
		if stats.Parsed == stats.Total {
			break
		}
	}

	// Generic pass for whatever the explicit layouts missed.
	if stats.Parsed < stats.Total {
		matched := 0
		for i := range events {
			if events[i].Parsed || events[i].RawTimestamp == "" {
				continue
			}
			if t, err := dateparse.ParseLocal(events[i].RawTimestamp); err == nil {
				events[i].Instant = t
				events[i].Parsed = true
				matched++
				stats.Parsed++
			}
		}
		logger.Debug("generic timestamp pass finished",
			slog.Int("newly_parsed", matched),
			slog.Int("parsed", stats.Parsed),
			slog.Int("total", stats.Total))
	}

	stats.Dropped = stats.Total - stats.Parsed
	if stats.Parsed == 0 {
		return nil, stats, apperrors.NewNoValidTimestampsError(stats.Total)
	}

	if stats.Dropped > 0 {
		logger.Warn("dropping rows with unparseable timestamps",
			slog.Int("dropped", stats.Dropped),
			slog.Int("total", stats.Total))
	}

	resolved := make([]domain.RawEvent, 0, stats.Parsed)
	for _, e := range events {
		if e.Parsed {
			resolved = append(resolved, e)
		}
	}

	return resolved, stats, nil
}
