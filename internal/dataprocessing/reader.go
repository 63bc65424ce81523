package dataprocessing

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/simplifiedchinese"

	apperrors "attendcli/internal/errors"
	"attendcli/pkg/contracts/domain"
)

// Recognized column headers, as they appear in the badge reader's CSV export.
const (
	ColumnTimestamp = "記錄時間"
	ColumnBadgeID   = "編號"
	ColumnName      = "姓名"
)

// requiredColumns must all be present after header repair.
var requiredColumns = []string{ColumnTimestamp, ColumnBadgeID, ColumnName}

// ReadResult carries the raw events plus the repair diagnostics a caller may
// want to surface.
type ReadResult struct {
	Events           []domain.RawEvent
	Encoding         string
	Columns          []string
	SyntheticColumns int
	TruncatedColumns int
	SkippedRows      int
}

// ReadLogFile loads a swipe log CSV, trying each encoding in priority order
// (UTF-8, GBK, Latin-1) and using the first that decodes cleanly. Header and
// data rows may disagree on column count; extra data columns get placeholder
// names and surplus header columns are dropped. Rows that are still malformed
// are skipped, not fatal.
func ReadLogFile(path string, logger *slog.Logger) (*ReadResult, error) {
	if logger == nil {
		logger = slog.Default()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.NewUnreadableFileError(path, err)
	}

	var lastErr error
	for _, enc := range encodings {
		text, err := enc.decode(data)
		if err != nil {
			logger.Debug("encoding attempt failed",
				slog.String("encoding", enc.name),
				slog.String("error", err.Error()))
			lastErr = err
			continue
		}

		result, err := parseRows(text, logger)
		if err != nil {
			// Column validation failures are definitive: the file decoded,
			// its shape is just wrong.
			if apperrors.IsType(err, apperrors.ErrTypeMissingColumn) {
				return nil, err
			}
			lastErr = err
			continue
		}

		result.Encoding = enc.name
		logger.Info("log file loaded",
			slog.String("path", path),
			slog.String("encoding", enc.name),
			slog.Int("event_count", len(result.Events)),
			slog.Int("skipped_rows", result.SkippedRows))
		return result, nil
	}

	return nil, apperrors.NewUnreadableFileError(path, lastErr)
}

// encodings is the priority list of decoders. Latin-1 accepts any byte
// sequence, which makes it the catch-all the priority order relies on.
var encodings = []struct {
	name   string
	decode func([]byte) (string, error)
}{
	{name: "utf-8", decode: decodeUTF8},
	{name: "gbk", decode: decodeGBK},
	{name: "latin1", decode: decodeLatin1},
}

func decodeUTF8(data []byte) (string, error) {
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})
	if !utf8.Valid(data) {
		return "", fmt.Errorf("input is not valid UTF-8")
	}
	return string(data), nil
}

func decodeGBK(data []byte) (string, error) {
	decoded, err := simplifiedchinese.GBK.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("gbk decode: %w", err)
	}
	// The decoder substitutes U+FFFD for invalid sequences instead of
	// returning an error; treat any substitution as a failed attempt.
	if bytes.ContainsRune(decoded, utf8.RuneError) {
		return "", fmt.Errorf("input is not valid GBK")
	}
	return string(decoded), nil
}

func decodeLatin1(data []byte) (string, error) {
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("latin1 decode: %w", err)
	}
	return string(decoded), nil
}

// parseRows splits decoded CSV text into raw events, repairing header/data
// column-count mismatches first.
func parseRows(text string, logger *slog.Logger) (*ReadResult, error) {
	reader := csv.NewReader(strings.NewReader(text))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	result := &ReadResult{}

	header, err := reader.Read()
	if err != nil {
		return nil, apperrors.NewParsingError("failed to read header row", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			result.SkippedRows++
			continue
		}
		rows = append(rows, row)
	}

	// Repair column-count mismatch against the first data row, the way the
	// badge reader's exports are known to be skewed.
	if len(rows) > 0 {
		dataCols := len(rows[0])
		switch {
		case dataCols > len(header):
			extra := dataCols - len(header)
			for i := 0; i < extra; i++ {
				header = append(header, fmt.Sprintf("临时列%d", i))
			}
			result.SyntheticColumns = extra
			logger.Warn("data rows wider than header, added placeholder columns",
				slog.Int("placeholder_count", extra))
		case dataCols < len(header):
			result.TruncatedColumns = len(header) - dataCols
			header = header[:dataCols]
			logger.Warn("header wider than data rows, truncated",
				slog.Int("dropped_count", result.TruncatedColumns))
		}
	}
	result.Columns = header

	columnIndex := make(map[string]int, len(header))
	for i, name := range header {
		columnIndex[name] = i
	}
	for _, col := range requiredColumns {
		if _, ok := columnIndex[col]; !ok {
			return nil, apperrors.NewMissingColumnError(col)
		}
	}

	tsIdx := columnIndex[ColumnTimestamp]
	badgeIdx := columnIndex[ColumnBadgeID]
	nameIdx := columnIndex[ColumnName]
	maxIdx := tsIdx
	if badgeIdx > maxIdx {
		maxIdx = badgeIdx
	}
	if nameIdx > maxIdx {
		maxIdx = nameIdx
	}

	for _, row := range rows {
		if len(row) <= maxIdx {
			result.SkippedRows++
			continue
		}
		result.Events = append(result.Events, domain.RawEvent{
			BadgeID:      strings.TrimSpace(row[badgeIdx]),
			Name:         strings.TrimSpace(row[nameIdx]),
			RawTimestamp: strings.TrimSpace(row[tsIdx]),
		})
	}

	return result, nil
}
