package domain

import (
	"time"
)

// TimePlaceholder is shown for check-in/check-out on synthetic absence rows.
const TimePlaceholder = "-"

// DateFormat is the wire format for record dates.
const DateFormat = "2006-01-02"

// ClockFormat is the wire format for check-in/check-out times.
const ClockFormat = "15:04"

// AttendanceRecord is the unit consumed by the statistics summarizer, the
// workbook exporter and the UI. One real record exists per (date, badge)
// group with at least one event; synthetic absence records complete the
// date × employee grid. Records are read-only after aggregation.
type AttendanceRecord struct {
	Date         string `json:"date" validate:"required"`
	Weekday      string `json:"weekday"`
	IsWeekend    bool   `json:"is_weekend"`
	BadgeID      string `json:"badge_id"`
	EmployeeName string `json:"employee_name" validate:"required"`
	CheckIn      string `json:"check_in"`
	CheckOut     string `json:"check_out"`
	Status       string `json:"status"`
}

// weekdayLabels holds the localized day-of-week labels, Monday first.
var weekdayLabels = [7]string{"周一", "周二", "周三", "周四", "周五", "周六", "周日"}

// WeekdayInfo derives the localized day-of-week label and the weekend flag
// for a date. All call sites share this single definition so the two values
// can never drift apart.
func WeekdayInfo(date time.Time) (label string, weekend bool) {
	// time.Weekday starts at Sunday; shift so Monday is index 0.
	idx := (int(date.Weekday()) + 6) % 7
	return weekdayLabels[idx], idx >= 5
}
