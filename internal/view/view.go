// Package view builds the display-ready lists a presentation layer renders.
//
// Build is a pure function of the record history, the current time and the
// selection session. It never touches storage, so a caller re-renders by
// calling it again after every event.
package view

import (
	"fmt"
	"strings"
	"time"

	"github.com/theaarondumas/unitflow/internal/cartstatus"
	"github.com/theaarondumas/unitflow/internal/export"
	"github.com/theaarondumas/unitflow/internal/record"
	"github.com/theaarondumas/unitflow/internal/selection"
	"github.com/theaarondumas/unitflow/internal/window"
)

// AlertsHeading titles the crash alert panel.
const AlertsHeading = "Crash Cart Alerts (next 30 days)"

// Entry is one rendered row.
type Entry struct {
	ID         string            `json:"id"`
	Scope      selection.Scope   `json:"scope"`
	When       string            `json:"when"`
	Title      string            `json:"title"`
	Meta       string            `json:"meta"`
	Detail     string            `json:"detail,omitempty"`
	Badge      string            `json:"badge"`
	BadgeClass string            `json:"badge_class"`
	Status     cartstatus.Status `json:"status,omitempty"`
	Selected   bool              `json:"selected,omitempty"`

	Record record.Record `json:"-"`
}

// List is one rendered list (e.g. crash-today), newest first.
type List struct {
	Scope        selection.Scope `json:"scope"`
	Entries      []Entry         `json:"entries"`
	CountLabel   string          `json:"count_label"`
	EmptyMessage string          `json:"empty_message,omitempty"`
}

// Contains reports whether a record id is rendered in the list.
func (l List) Contains(id string) bool {
	for _, e := range l.Entries {
		if e.ID == id {
			return true
		}
	}
	return false
}

// Records returns the rendered records in list order.
func (l List) Records() []record.Record {
	out := make([]record.Record, len(l.Entries))
	for i, e := range l.Entries {
		out[i] = e.Record
	}
	return out
}

// Board is everything rendered for one mode.
type Board struct {
	Mode   record.Mode `json:"mode"`
	Today  List        `json:"today"`
	Week   List        `json:"week"`
	Alerts []string    `json:"alerts,omitempty"`

	Selection     selection.State `json:"selection"`
	SelectedLabel string          `json:"selected_label"`
	ActionBar     bool            `json:"action_bar"`
}

// List returns the board's list for w.
func (b Board) List(w window.Window) List {
	if w == window.Week {
		return b.Week
	}
	return b.Today
}

// CountLabel renders "1 entry" or "N entries".
func CountLabel(n int) string {
	if n == 1 {
		return "1 entry"
	}
	return fmt.Sprintf("%d entries", n)
}

// SelectedLabel renders the action bar counter.
func SelectedLabel(n int) string {
	return fmt.Sprintf("%d selected", n)
}

// Build renders the mode's today and week lists, newest first. Crash
// entries carry the status of their cart derived from the whole crash
// history, and the crash board carries at most cartstatus.MaxAlerts alerts.
// sess may be nil.
func Build(records []record.Record, mode record.Mode, now time.Time, sess *selection.Session) Board {
	logs := record.FilterMode(records, mode)
	record.SortByTimeDesc(logs)

	if sess == nil {
		sess = selection.New()
	}

	var ix *cartstatus.Index
	if mode == record.ModeCrash {
		ix = cartstatus.Aggregate(logs)
	}

	build := func(w window.Window) List {
		scope := selection.ScopeFor(mode, w)
		in := window.Filter(logs, w, now)
		l := List{
			Scope:      scope,
			Entries:    make([]Entry, 0, len(in)),
			CountLabel: CountLabel(len(in)),
		}
		if len(in) == 0 {
			l.EmptyMessage = emptyMessage(mode, w)
		}
		for _, r := range in {
			var e Entry
			if mode == record.ModeCrash {
				e = crashEntry(r, ix.Status(r.Key(), now), now.Location())
			} else {
				e = supplyEntry(r, now.Location())
			}
			e.Scope = scope
			e.Selected = sess.Scope() == scope && sess.Contains(r.ID)
			l.Entries = append(l.Entries, e)
		}
		return l
	}

	b := Board{
		Mode:          mode,
		Today:         build(window.Today),
		Week:          build(window.Week),
		Selection:     sess.Snapshot(),
		SelectedLabel: SelectedLabel(sess.Count()),
		ActionBar:     sess.ActionBarVisible(),
	}
	if ix != nil {
		b.Alerts = cartstatus.Lines(cartstatus.BuildAlerts(ix, now, cartstatus.MaxAlerts))
	}
	return b
}

func emptyMessage(mode record.Mode, w window.Window) string {
	what := "entries"
	if mode == record.ModeCrash {
		what = "crash cart logs"
	}
	if w == window.Week {
		return "No " + what + " yet this week."
	}
	return "No " + what + " yet today."
}

func joinNonEmpty(parts ...string) string {
	kept := parts[:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " • ")
}

func prefixed(prefix, v string) string {
	if v == "" {
		return ""
	}
	return prefix + v
}

func supplyEntry(r record.Record, loc *time.Location) Entry {
	title := r.Type
	if title == "" {
		title = "Entry"
	}
	badge := string(r.Severity)
	if badge == "" {
		badge = string(record.SeverityLow)
	}
	return Entry{
		ID:         r.ID,
		When:       r.Time(loc).Format(export.DisplayLayout),
		Title:      title,
		Meta:       joinNonEmpty(r.Time(loc).Format(export.DisplayLayout), r.Author, r.Shift, r.Unit, prefixed("Qty: ", r.Qty)),
		Detail:     r.Notes,
		Badge:      badge,
		BadgeClass: r.Severity.Badge(),
		Record:     r,
	}
}

func crashEntry(r record.Record, status cartstatus.Status, loc *time.Location) Entry {
	detail := joinNonEmpty(prefixed("Central: ", r.CentralNew), prefixed("Med: ", r.MedNew))
	if detail == "" {
		detail = r.Notes
	}
	return Entry{
		ID:         r.ID,
		When:       r.Time(loc).Format(export.DisplayLayout),
		Title:      joinNonEmpty(r.CartType, prefixed("Cart ", r.CartNumber), r.Location),
		Meta:       joinNonEmpty(r.Time(loc).Format(export.DisplayLayout), r.Reason, r.CheckedBy, prefixed("Seal: ", r.Seal)),
		Detail:     detail,
		Badge:      string(status),
		BadgeClass: status.Class(),
		Status:     status,
		Record:     r,
	}
}
