package cartstatus

import (
	"time"
)

// Status is the derived freshness classification of a cart.
type Status string

const (
	Unverified Status = "UNVERIFIED"
	Ready      Status = "READY"
	Attn       Status = "ATTN"
	Action     Status = "ACTION"
	Expired    Status = "EXPIRED"
)

// Day thresholds, inclusive.
const (
	ActionDays       = 7
	AttnDays         = 30
	AlertHorizonDays = AttnDays
)

// Class returns the badge class used by the presentation layer.
func (s Status) Class() string {
	switch s {
	case Expired, Action:
		return "crit"
	case Attn:
		return "attn"
	case Ready:
		return "ready"
	}
	return "unv"
}

// dateLayout is the ISO calendar date format used for expiration fields.
const dateLayout = "2006-01-02"

// DayOffset returns the signed number of calendar days from now's date to
// the ISO date iso. Time of day is ignored. ok is false for an empty or
// unparseable date, which then contributes nothing to status or alerts.
func DayOffset(iso string, now time.Time) (days int, ok bool) {
	if iso == "" {
		return 0, false
	}
	d, err := time.Parse(dateLayout, iso)
	if err != nil {
		return 0, false
	}
	y, m, dd := now.Date()
	today := time.Date(y, m, dd, 0, 0, 0, 0, time.UTC)
	return int(dayNumber(d) - dayNumber(today)), true
}

// dayNumber counts whole days since the Unix epoch for a UTC midnight.
func dayNumber(t time.Time) int64 {
	const secondsPerDay = 86400
	s := t.Unix()
	if s < 0 && s%secondsPerDay != 0 {
		return s/secondsPerDay - 1
	}
	return s / secondsPerDay
}

// classify maps a day offset onto a status.
func classify(days int) Status {
	switch {
	case days < 0:
		return Expired
	case days <= ActionDays:
		return Action
	case days <= AttnDays:
		return Attn
	}
	return Ready
}

// Derive computes the status from the latest central and med box dates.
// Both missing (or unparseable) is Unverified; otherwise the most urgent
// offset wins.
func Derive(central, med string, now time.Time) Status {
	dc, okC := DayOffset(central, now)
	dm, okM := DayOffset(med, now)

	switch {
	case !okC && !okM:
		return Unverified
	case !okC:
		return classify(dm)
	case !okM:
		return classify(dc)
	}
	return classify(min(dc, dm))
}
