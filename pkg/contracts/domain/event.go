package domain

import (
	"time"
)

// RawEvent represents a single swipe line from an access-control log.
// The reader creates it from a CSV row; the timestamp normalizer fills in
// Instant. Events whose timestamp cannot be resolved are dropped before
// aggregation.
type RawEvent struct {
	BadgeID      string    `json:"badge_id"`
	Name         string    `json:"name,omitempty"`
	RawTimestamp string    `json:"raw_timestamp"`
	Instant      time.Time `json:"instant,omitempty"`
	Parsed       bool      `json:"parsed"`
}

// Date returns the calendar-date portion of the event instant.
func (e RawEvent) Date() time.Time {
	y, m, d := e.Instant.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, e.Instant.Location())
}

// IdentityMap maps a badge ID to an employee display name.
// Later mappings win when a badge ID recurs with a different name.
type IdentityMap map[string]string

// Resolve returns the display name for a badge ID, falling back to the
// badge ID itself when no name was ever recorded for it.
func (m IdentityMap) Resolve(badgeID string) string {
	if name, ok := m[badgeID]; ok && name != "" {
		return name
	}
	return badgeID
}
