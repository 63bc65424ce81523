package services

import (
	"context"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"attendcli/internal/config"
	"attendcli/internal/dataprocessing"
	apperrors "attendcli/internal/errors"
	"attendcli/internal/infrastructure"
	"attendcli/pkg/contracts/domain"
)

// ErrNoAnalysis is returned by read operations before any log file has been
// loaded successfully.
var ErrNoAnalysis = apperrors.NewNotFoundError("analysis session")

// WorkbookWriter writes a record set plus its statistics to an xlsx file.
type WorkbookWriter interface {
	Export(ctx context.Context, path string, records []domain.AttendanceRecord, summary *dataprocessing.Summary) error
}

// LoadResult reports what a completed analysis run produced.
type LoadResult struct {
	SourcePath  string                    `json:"source_path"`
	Encoding    string                    `json:"encoding"`
	Stats       dataprocessing.ParseStats `json:"stats"`
	RecordCount int                       `json:"record_count"`
	Employees   int                       `json:"employees"`
	LoadedAt    time.Time                 `json:"loaded_at"`
}

// AnalysisService owns the current analysis session: the record set produced
// by the last successful load plus the identity mapping behind it. All reads
// serve from that session; a failed load leaves it untouched.
type AnalysisService struct {
	logger     *slog.Logger
	aggregator *dataprocessing.Aggregator
	summarizer *dataprocessing.Summarizer
	exporter   WorkbookWriter

	mu         sync.RWMutex
	records    []domain.AttendanceRecord
	identity   domain.IdentityMap
	sourcePath string
	loaded     bool
	lastResult LoadResult
}

// NewAnalysisService wires the pipeline stages together.
func NewAnalysisService(logger *slog.Logger, analysisCfg config.AnalysisConfig, exporter WorkbookWriter) (*AnalysisService, error) {
	if logger == nil {
		logger = slog.Default()
	}

	aggregator, err := dataprocessing.NewAggregator(logger, analysisCfg)
	if err != nil {
		return nil, err
	}

	return &AnalysisService{
		logger:     logger,
		aggregator: aggregator,
		summarizer: dataprocessing.NewSummarizer(logger),
		exporter:   exporter,
	}, nil
}

// Load runs the full pipeline on the log file at path and, on success, swaps
// it in as the current session. On any failure the previous session stays
// intact and remains readable.
func (s *AnalysisService) Load(ctx context.Context, path string) (*LoadResult, error) {
	timer := prometheus.NewTimer(infrastructure.AnalysisDuration)
	defer timer.ObserveDuration()

	result, err := dataprocessing.ReadLogFile(path, s.logger)
	if err != nil {
		infrastructure.AnalysesTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	// Identity comes from every row the reader produced, including rows that
	// timestamp normalization will drop. A badge's only usable name may sit
	// on a row with a broken timestamp.
	identity := dataprocessing.BuildIdentityMap(result.Events)

	events, stats, err := dataprocessing.NormalizeTimestamps(result.Events, s.logger)
	if err != nil {
		infrastructure.AnalysesTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	infrastructure.RowsParsed.Add(float64(stats.Parsed))
	infrastructure.RowsDropped.Add(float64(stats.Dropped))
	records := s.aggregator.Aggregate(ctx, events, identity)
	summary := s.summarizer.Summarize(ctx, records)

	loadResult := LoadResult{
		SourcePath:  path,
		Encoding:    result.Encoding,
		Stats:       stats,
		RecordCount: len(records),
		Employees:   len(summary.Employees),
		LoadedAt:    time.Now(),
	}

	s.mu.Lock()
	s.records = records
	s.identity = identity
	s.sourcePath = path
	s.loaded = true
	s.lastResult = loadResult
	s.mu.Unlock()

	infrastructure.AnalysesTotal.WithLabelValues("success").Inc()
	s.logger.InfoContext(ctx, "analysis session loaded",
		slog.String("path", path),
		slog.String("encoding", result.Encoding),
		slog.Int("record_count", len(records)),
		slog.Int("employee_count", len(summary.Employees)),
		slog.Int("dropped_rows", stats.Dropped))

	return &loadResult, nil
}

// Records returns the session's records, optionally filtered to one employee.
// The filtered view hides synthetic absences that fall on weekends; the full
// view keeps them so date coverage stays contiguous.
func (s *AnalysisService) Records(ctx context.Context, employee string) ([]domain.AttendanceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.loaded {
		return nil, ErrNoAnalysis
	}

	employee = strings.TrimSpace(employee)
	if employee == "" {
		out := make([]domain.AttendanceRecord, len(s.records))
		copy(out, s.records)
		return out, nil
	}

	known := false
	var out []domain.AttendanceRecord
	for _, r := range s.records {
		if r.EmployeeName != employee {
			continue
		}
		known = true
		if r.IsWeekend && domain.CanonicalStatus(r.Status) == domain.StatusAbsent {
			continue
		}
		out = append(out, r)
	}
	if !known {
		return nil, apperrors.NewNotFoundError("employee").WithContext("employee", employee)
	}
	return out, nil
}

// Employees returns the sorted distinct employee names of the session.
func (s *AnalysisService) Employees(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.loaded {
		return nil, ErrNoAnalysis
	}

	seen := make(map[string]bool)
	var names []string
	for _, r := range s.records {
		if !seen[r.EmployeeName] {
			seen[r.EmployeeName] = true
			names = append(names, r.EmployeeName)
		}
	}
	sort.Strings(names)
	return names, nil
}

// Statistics summarizes the session's full record set.
func (s *AnalysisService) Statistics(ctx context.Context) (*dataprocessing.Summary, error) {
	s.mu.RLock()
	records := s.records
	loaded := s.loaded
	s.mu.RUnlock()

	if !loaded {
		return nil, ErrNoAnalysis
	}
	return s.summarizer.Summarize(ctx, records), nil
}

// Session reports the outcome of the last successful load.
func (s *AnalysisService) Session(ctx context.Context) (*LoadResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.loaded {
		return nil, ErrNoAnalysis
	}
	result := s.lastResult
	return &result, nil
}

// Export writes the session's complete record set to an xlsx workbook at
// path and returns the path actually written. Any employee filter a caller
// has active elsewhere never narrows the export.
func (s *AnalysisService) Export(ctx context.Context, path string) (string, error) {
	s.mu.RLock()
	records := s.records
	loaded := s.loaded
	s.mu.RUnlock()

	if !loaded {
		infrastructure.ExportsTotal.WithLabelValues("error").Inc()
		return "", ErrNoAnalysis
	}

	if !strings.EqualFold(filepath.Ext(path), ".xlsx") {
		path += ".xlsx"
	}

	summary := s.summarizer.Summarize(ctx, records)
	if err := s.exporter.Export(ctx, path, records, summary); err != nil {
		infrastructure.ExportsTotal.WithLabelValues("error").Inc()
		return "", err
	}

	infrastructure.ExportsTotal.WithLabelValues("success").Inc()
	s.logger.InfoContext(ctx, "session exported",
		slog.String("path", path),
		slog.Int("record_count", len(records)))
	return path, nil
}
