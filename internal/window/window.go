// Package window classifies records into the "today" and "this week"
// display windows.
//
// Boundaries are computed from the wall clock on every call and never
// cached: the contents of "today" roll over silently at local midnight.
package window

import (
	"time"

	"github.com/theaarondumas/unitflow/internal/record"
)

// Clock supplies the current wall-clock time.
type Clock interface {
	Now() time.Time
}

// SystemClock reads time.Now.
type SystemClock struct{}

// Now returns the current time.
func (SystemClock) Now() time.Time { return time.Now() }

// Window names a display range.
type Window string

const (
	Today Window = "today"
	Week  Window = "week"
)

// StartOfToday returns local midnight of now's day, in now's location.
func StartOfToday(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
}

// StartOfWeek returns local midnight of the most recent Monday. On a Sunday
// that is the Monday six days earlier.
func StartOfWeek(now time.Time) time.Time {
	diff := int(now.Weekday()) - 1 // Monday = 0
	if now.Weekday() == time.Sunday {
		diff = 6
	}
	y, m, d := now.Date()
	return time.Date(y, m, d-diff, 0, 0, 0, 0, now.Location())
}

// Start returns the start of w relative to now.
func (w Window) Start(now time.Time) time.Time {
	if w == Week {
		return StartOfWeek(now)
	}
	return StartOfToday(now)
}

// FilterSince keeps records with Timestamp >= threshold (epoch ms),
// preserving order.
func FilterSince(records []record.Record, threshold int64) []record.Record {
	out := make([]record.Record, 0, len(records))
	for _, r := range records {
		if r.Timestamp >= threshold {
			out = append(out, r)
		}
	}
	return out
}

// Filter keeps the records inside w as seen at now.
func Filter(records []record.Record, w Window, now time.Time) []record.Record {
	return FilterSince(records, w.Start(now).UnixMilli())
}
