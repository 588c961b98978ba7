// Package selection implements the scoped multi-select session used to
// build export and print batches.
//
// A Session is either Idle or Selecting exactly one rendered list (its
// Scope). Items from any other list are refused, so a batch can never mix
// records from two lists. Every exit path (cancel, clear, navigation) drops
// back to Idle with an empty selection.
package selection

import (
	"fmt"
	"sort"
	"strings"

	"github.com/theaarondumas/unitflow/internal/record"
	"github.com/theaarondumas/unitflow/internal/window"
)

// Scope identifies one rendered list, e.g. "crash-today".
type Scope string

const (
	SupplyToday Scope = "supply-today"
	SupplyWeek  Scope = "supply-week"
	CrashToday  Scope = "crash-today"
	CrashWeek   Scope = "crash-week"
)

// Scopes lists every selectable list.
var Scopes = []Scope{SupplyToday, SupplyWeek, CrashToday, CrashWeek}

// ScopeFor returns the scope of the mode's list for window w.
func ScopeFor(mode record.Mode, w window.Window) Scope {
	return Scope(string(mode) + "-" + string(w))
}

// ParseScope validates a scope name.
func ParseScope(s string) (Scope, error) {
	sc := Scope(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Scopes {
		if sc == known {
			return sc, nil
		}
	}
	return "", fmt.Errorf("invalid scope %q: must be one of supply-today, supply-week, crash-today, crash-week", s)
}

// Mode returns the record mode listed under the scope.
func (s Scope) Mode() record.Mode {
	mode, _, _ := strings.Cut(string(s), "-")
	return record.Mode(mode)
}

// Window returns the time window listed under the scope.
func (s Scope) Window() window.Window {
	_, w, _ := strings.Cut(string(s), "-")
	return window.Window(w)
}

// Item is one selectable row: a record id and the list it is rendered in.
type Item struct {
	ID    string
	Scope Scope
}

// State is the exposed snapshot of a session.
type State struct {
	Active bool  `json:"active"`
	Scope  Scope `json:"scope,omitempty"`
	Count  int   `json:"count"`
}

// Session is the selection state machine. The zero value is Idle.
//
// Session is not safe for concurrent use; it lives in a single-threaded
// application context.
type Session struct {
	active   bool
	scope    Scope
	selected map[string]bool
}

// New returns an Idle session.
func New() *Session {
	return &Session{}
}

// Begin enters Selecting(scope). Any previous selection is discarded, even
// when scope equals the current one.
func (s *Session) Begin(scope Scope) {
	s.active = true
	s.scope = scope
	s.selected = make(map[string]bool)
}

// Cancel returns to Idle and drops the selection.
func (s *Session) Cancel() {
	s.active = false
	s.scope = ""
	s.selected = nil
}

// NavigateAway is the reset emitted by any navigation away from the lists.
func (s *Session) NavigateAway() {
	s.Cancel()
}

// Toggle flips membership of item. It is refused (returns false) while Idle
// or when the item belongs to a list other than the session's scope.
func (s *Session) Toggle(item Item) bool {
	if !s.active || item.Scope != s.scope || item.ID == "" {
		return false
	}
	if s.selected[item.ID] {
		delete(s.selected, item.ID)
	} else {
		s.selected[item.ID] = true
	}
	return true
}

// Retain drops every selected id for which keep returns false and reports
// how many were dropped. The session stays in its scope.
func (s *Session) Retain(keep func(id string) bool) int {
	dropped := 0
	for id := range s.selected {
		if !keep(id) {
			delete(s.selected, id)
			dropped++
		}
	}
	return dropped
}

// Active reports whether the session is Selecting.
func (s *Session) Active() bool {
	return s.active
}

// Scope returns the scope being selected, or "" while Idle.
func (s *Session) Scope() Scope {
	return s.scope
}

// Count returns the number of selected ids.
func (s *Session) Count() int {
	return len(s.selected)
}

// Contains reports whether id is selected.
func (s *Session) Contains(id string) bool {
	return s.selected[id]
}

// IDs returns the selected set. The returned map is a copy.
func (s *Session) IDs() map[string]bool {
	out := make(map[string]bool, len(s.selected))
	for id := range s.selected {
		out[id] = true
	}
	return out
}

// Selected returns the selected ids in lexical order.
func (s *Session) Selected() []string {
	out := make([]string, 0, len(s.selected))
	for id := range s.selected {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// ActionBarVisible reports whether batch actions should be offered.
func (s *Session) ActionBarVisible() bool {
	return s.active && len(s.selected) > 0
}

// Snapshot returns the exposed state.
func (s *Session) Snapshot() State {
	return State{Active: s.active, Scope: s.scope, Count: len(s.selected)}
}
