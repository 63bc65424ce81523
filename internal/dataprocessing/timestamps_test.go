package dataprocessing

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "attendcli/internal/errors"
	"attendcli/pkg/contracts/domain"
)

func rawEvents(timestamps ...string) []domain.RawEvent {
	events := make([]domain.RawEvent, len(timestamps))
	for i, ts := range timestamps {
		events[i] = domain.RawEvent{BadgeID: "1001", RawTimestamp: ts}
	}
	return events
}

func TestNormalizeTimestampsLayouts(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want time.Time
	}{
		{name: "dash with seconds", raw: "2024-06-03 08:55:00", want: time.Date(2024, 6, 3, 8, 55, 0, 0, time.Local)},
		{name: "slash with seconds", raw: "2024/06/03 08:55:00", want: time.Date(2024, 6, 3, 8, 55, 0, 0, time.Local)},
		{name: "dash without seconds", raw: "2024-06-03 08:55", want: time.Date(2024, 6, 3, 8, 55, 0, 0, time.Local)},
		{name: "slash without seconds", raw: "2024/06/03 08:55", want: time.Date(2024, 6, 3, 8, 55, 0, 0, time.Local)},
		{name: "day first dash", raw: "03-06-2024 08:55:00", want: time.Date(2024, 6, 3, 8, 55, 0, 0, time.Local)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolved, stats, err := NormalizeTimestamps(rawEvents(tt.raw), slog.Default())
			require.NoError(t, err)
			require.Len(t, resolved, 1)
			assert.True(t, resolved[0].Instant.Equal(tt.want))
			assert.Equal(t, ParseStats{Total: 1, Parsed: 1}, stats)
		})
	}
}

func TestNormalizeTimestampsMixedFormats(t *testing.T) {
	resolved, stats, err := NormalizeTimestamps(rawEvents(
		"2024-06-03 08:55:00",
		"2024/06/04 09:10",
		"garbage",
	), slog.Default())
	require.NoError(t, err)

	assert.Len(t, resolved, 2)
	assert.Equal(t, ParseStats{Total: 3, Parsed: 2, Dropped: 1}, stats)
}

func TestNormalizeTimestampsGenericFallback(t *testing.T) {
	// Not in the explicit layout list; the generic pass should still get it.
	resolved, stats, err := NormalizeTimestamps(rawEvents("June 3, 2024 8:55am"), slog.Default())
	require.NoError(t, err)

	require.Len(t, resolved, 1)
	assert.Equal(t, 1, stats.Parsed)
	assert.Equal(t, 8, resolved[0].Instant.Hour())
	assert.Equal(t, 55, resolved[0].Instant.Minute())
}

func TestNormalizeTimestampsAllInvalid(t *testing.T) {
	_, stats, err := NormalizeTimestamps(rawEvents("nope", "also nope"), slog.Default())

	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNoValidTimestamps))
	assert.Equal(t, 2, stats.Dropped)
}

func TestNormalizeTimestampsEmptyInput(t *testing.T) {
	_, _, err := NormalizeTimestamps(nil, slog.Default())
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNoValidTimestamps))
}
