package cartstatus

import (
	"fmt"
	"sort"
	"time"
)

// MaxAlerts caps the alert list to bound UI clutter.
const MaxAlerts = 6

// Components checked per cart, in alert order.
const (
	ComponentCentral = "Central"
	ComponentMedBox  = "Med Box"
)

// Alert is one expiring or expired component of one cart.
type Alert struct {
	Cart      Expirations `json:"-"`
	Component string      `json:"component"`
	Days      int         `json:"days"`
	Date      string      `json:"date"`
}

// Expired reports whether the component's date has passed.
func (a Alert) Expired() bool {
	return a.Days < 0
}

// String renders the alert line, e.g.
// "Adult Cart 12 (ER – Main) — Central expires in 5 days (2026-03-09)".
func (a Alert) String() string {
	label := a.Cart.Key.Label()
	if a.Expired() {
		return fmt.Sprintf("%s — %s EXPIRED (%s)", label, a.Component, a.Date)
	}
	unit := "days"
	if a.Days == 1 {
		unit = "day"
	}
	return fmt.Sprintf("%s — %s expires in %d %s (%s)", label, a.Component, a.Days, unit, a.Date)
}

// BuildAlerts evaluates the central and med box dates of every cart
// independently and returns one alert per date that is expired or due
// within AlertHorizonDays.
//
// Alerts are ordered most urgent first (fewest days remaining); ties keep
// cart first-seen order with Central before Med Box. At most limit alerts
// are returned; limit <= 0 means MaxAlerts.
func BuildAlerts(ix *Index, now time.Time, limit int) []Alert {
	if limit <= 0 {
		limit = MaxAlerts
	}

	alerts := []Alert{}
	for _, e := range ix.Carts() {
		if !e.HasDates() {
			continue
		}
		check := func(component, iso string) {
			days, ok := DayOffset(iso, now)
			if !ok || days > AlertHorizonDays {
				return
			}
			alerts = append(alerts, Alert{Cart: e, Component: component, Days: days, Date: iso})
		}
		check(ComponentCentral, e.Central)
		check(ComponentMedBox, e.Med)
	}

	sort.SliceStable(alerts, func(i, j int) bool { return alerts[i].Days < alerts[j].Days })

	if len(alerts) > limit {
		alerts = alerts[:limit]
	}
	return alerts
}

// Lines renders alerts as strings.
func Lines(alerts []Alert) []string {
	out := make([]string, len(alerts))
	for i, a := range alerts {
		out[i] = a.String()
	}
	return out
}
