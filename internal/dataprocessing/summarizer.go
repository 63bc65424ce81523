package dataprocessing

import (
	"context"
	"log/slog"
	"sort"

	"attendcli/pkg/contracts/domain"
)

// Summarizer is the single source of truth for attendance statistics. All
// consumers (CLI output, statistics API, workbook statistics sheet) count
// through it so the numbers can never disagree.
type Summarizer struct {
	logger *slog.Logger
}

// NewSummarizer creates a statistics summarizer.
func NewSummarizer(logger *slog.Logger) *Summarizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Summarizer{logger: logger}
}

// StatusCounts holds per-token counts. Combined statuses count toward every
// token they contain, so a "late,holiday" record increments both Late and
// Holiday.
type StatusCounts struct {
	Normal     int `json:"normal"`
	Late       int `json:"late"`
	EarlyLeave int `json:"early_leave"`
	Absent     int `json:"absent"`
	OffSite    int `json:"off_site"`
	Holiday    int `json:"holiday"`
}

// add folds one canonical status string into the counts.
func (c *StatusCounts) add(status string) {
	for _, token := range domain.SplitStatus(status) {
		switch token {
		case domain.StatusNormal:
			c.Normal++
		case domain.StatusLate:
			c.Late++
		case domain.StatusEarlyLeave:
			c.EarlyLeave++
		case domain.StatusAbsent:
			c.Absent++
		case domain.StatusOffSite:
			c.OffSite++
		case domain.StatusHoliday:
			c.Holiday++
		}
	}
}

// EmployeeSummary aggregates one employee's records.
type EmployeeSummary struct {
	Employee string         `json:"employee"`
	Total    int            `json:"total"`
	ByStatus map[string]int `json:"by_status"`
	Tokens   StatusCounts   `json:"tokens"`
}

// Summary aggregates the whole record set.
type Summary struct {
	Total     int               `json:"total"`
	ByStatus  map[string]int    `json:"by_status"`
	Tokens    StatusCounts      `json:"tokens"`
	Employees []EmployeeSummary `json:"employees"`
}

// Summarize counts records per distinct status combination and per employee.
// Status strings are canonicalized before counting, so traditional and
// simplified renderings of the same token land in one bucket.
func (s *Summarizer) Summarize(ctx context.Context, records []domain.AttendanceRecord) *Summary {
	summary := &Summary{
		ByStatus: make(map[string]int),
	}

	perEmployee := make(map[string]*EmployeeSummary)
	for _, r := range records {
		status := domain.CanonicalStatus(r.Status)

		summary.Total++
		summary.ByStatus[status]++
		summary.Tokens.add(status)

		emp, ok := perEmployee[r.EmployeeName]
		if !ok {
			emp = &EmployeeSummary{
				Employee: r.EmployeeName,
				ByStatus: make(map[string]int),
			}
			perEmployee[r.EmployeeName] = emp
		}
		emp.Total++
		emp.ByStatus[status]++
		emp.Tokens.add(status)
	}

	summary.Employees = make([]EmployeeSummary, 0, len(perEmployee))
	for _, emp := range perEmployee {
		summary.Employees = append(summary.Employees, *emp)
	}
	sort.Slice(summary.Employees, func(i, j int) bool {
		return summary.Employees[i].Employee < summary.Employees[j].Employee
	})

	s.logger.InfoContext(ctx, "statistics summarized",
		slog.Int("record_count", summary.Total),
		slog.Int("employee_count", len(summary.Employees)),
		slog.Int("status_variants", len(summary.ByStatus)))

	return summary
}
