package dataprocessing

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"attendcli/internal/config"
	"attendcli/pkg/contracts/domain"
)

// Aggregator turns normalized swipe events into one attendance record per
// (date, badge) group, then fills the date × employee grid with synthetic
// absence records. It never fails: empty input yields empty output.
type Aggregator struct {
	logger      *slog.Logger
	checkInSec  int
	checkOutSec int
}

// NewAggregator creates an aggregator with the given classification
// boundaries. Boundaries are HH:MM strings; zero-value config falls back to
// the standard 09:00/18:00.
func NewAggregator(logger *slog.Logger, cfg config.AnalysisConfig) (*Aggregator, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.CheckInBoundary == "" {
		cfg.CheckInBoundary = "09:00"
	}
	if cfg.CheckOutBoundary == "" {
		cfg.CheckOutBoundary = "18:00"
	}

	checkIn, err := config.ParseBoundary(cfg.CheckInBoundary)
	if err != nil {
		return nil, err
	}
	checkOut, err := config.ParseBoundary(cfg.CheckOutBoundary)
	if err != nil {
		return nil, err
	}

	return &Aggregator{
		logger:      logger,
		checkInSec:  checkIn * 60,
		checkOutSec: checkOut * 60,
	}, nil
}

// groupKey identifies one person-day of events.
type groupKey struct {
	date  string
	badge string
}

// Aggregate derives the full attendance record set from resolved events.
// Output ordering is date ascending, then employee name, then badge ID, so
// identical input always produces identical output.
func (a *Aggregator) Aggregate(ctx context.Context, events []domain.RawEvent, identity domain.IdentityMap) []domain.AttendanceRecord {
	if len(events) == 0 {
		return nil
	}

	groups := make(map[groupKey][]domain.RawEvent)
	var minDate, maxDate time.Time
	for _, e := range events {
		date := e.Date()
		if minDate.IsZero() || date.Before(minDate) {
			minDate = date
		}
		if maxDate.IsZero() || date.After(maxDate) {
			maxDate = date
		}
		key := groupKey{date: date.Format(domain.DateFormat), badge: e.BadgeID}
		groups[key] = append(groups[key], e)
	}

	a.logger.InfoContext(ctx, "aggregating swipe events",
		slog.Int("event_count", len(events)),
		slog.Int("group_count", len(groups)),
		slog.String("min_date", minDate.Format(domain.DateFormat)),
		slog.String("max_date", maxDate.Format(domain.DateFormat)))

	records := make([]domain.AttendanceRecord, 0, len(groups))
	for key, group := range groups {
		records = append(records, a.buildRecord(key, group, identity))
	}

	records = append(records, a.fillAbsences(records, minDate, maxDate)...)

	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Date != records[j].Date {
			return records[i].Date < records[j].Date
		}
		if records[i].EmployeeName != records[j].EmployeeName {
			return records[i].EmployeeName < records[j].EmployeeName
		}
		return records[i].BadgeID < records[j].BadgeID
	})

	return records
}

// buildRecord derives one attendance record from a person-day of events.
func (a *Aggregator) buildRecord(key groupKey, group []domain.RawEvent, identity domain.IdentityMap) domain.AttendanceRecord {
	sort.Slice(group, func(i, j int) bool {
		return group[i].Instant.Before(group[j].Instant)
	})

	first := group[0].Instant
	last := group[len(group)-1].Instant
	date := group[0].Date()
	weekday, weekend := domain.WeekdayInfo(date)

	var status string
	if len(group) == 1 {
		// One swipe and no matching return: the employee went out.
		status = domain.StatusOffSite
	} else {
		var tokens []string
		if secondsOfDay(first) > a.checkInSec {
			tokens = append(tokens, domain.StatusLate)
		}
		if secondsOfDay(last) < a.checkOutSec {
			tokens = append(tokens, domain.StatusEarlyLeave)
		}
		if weekend {
			tokens = append(tokens, domain.StatusHoliday)
		}
		if len(tokens) == 0 {
			status = domain.StatusNormal
		} else {
			status = domain.JoinStatus(tokens)
		}
	}

	return domain.AttendanceRecord{
		Date:         key.date,
		Weekday:      weekday,
		IsWeekend:    weekend,
		BadgeID:      key.badge,
		EmployeeName: identity.Resolve(key.badge),
		CheckIn:      first.Format(domain.ClockFormat),
		CheckOut:     last.Format(domain.ClockFormat),
		Status:       status,
	}
}

// fillAbsences synthesizes an absent record for every (date, employee) pair
// in the inclusive observed range that has no real record. Weekends are
// filled too; consumers that want to hide never-needed weekend absences must
// filter on (IsWeekend && status == absent) themselves.
func (a *Aggregator) fillAbsences(records []domain.AttendanceRecord, minDate, maxDate time.Time) []domain.AttendanceRecord {
	seen := make(map[string]map[string]bool)
	employees := make(map[string]bool)
	for _, r := range records {
		if seen[r.Date] == nil {
			seen[r.Date] = make(map[string]bool)
		}
		seen[r.Date][r.EmployeeName] = true
		employees[r.EmployeeName] = true
	}

	var missing []domain.AttendanceRecord
	for date := minDate; !date.After(maxDate); date = date.AddDate(0, 0, 1) {
		dateStr := date.Format(domain.DateFormat)
		weekday, weekend := domain.WeekdayInfo(date)
		for employee := range employees {
			if seen[dateStr][employee] {
				continue
			}
			missing = append(missing, domain.AttendanceRecord{
				Date:         dateStr,
				Weekday:      weekday,
				IsWeekend:    weekend,
				BadgeID:      "",
				EmployeeName: employee,
				CheckIn:      domain.TimePlaceholder,
				CheckOut:     domain.TimePlaceholder,
				Status:       domain.StatusAbsent,
			})
		}
	}

	if len(missing) > 0 {
		a.logger.Debug("synthesized absence records", slog.Int("count", len(missing)))
	}

	return missing
}

// secondsOfDay returns the time-of-day of t in seconds since midnight.
func secondsOfDay(t time.Time) int {
	return t.Hour()*3600 + t.Minute()*60 + t.Second()
}
