package record

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Mode discriminates the two record shapes sharing one store.
type Mode string

const (
	ModeSupply Mode = "supply"
	ModeCrash  Mode = "crash"
)

// ValidModes lists the modes a stored record may carry.
var ValidModes = map[Mode]bool{
	ModeSupply: true,
	ModeCrash:  true,
}

// ParseMode accepts "supply" or "crash" in any case.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	if !ValidModes[m] {
		return "", fmt.Errorf("invalid mode %q: must be supply or crash", s)
	}
	return m, nil
}

// Label is the display name of the mode ("Supply", "Crash").
func (m Mode) Label() string {
	switch m {
	case ModeSupply:
		return "Supply"
	case ModeCrash:
		return "Crash"
	}
	return string(m)
}

// Severity grades a supply entry.
type Severity string

const (
	SeverityHigh   Severity = "High"
	SeverityMedium Severity = "Medium"
	SeverityLow    Severity = "Low"
)

// Badge returns the display class for a severity. Unknown values render as low.
func (s Severity) Badge() string {
	switch s {
	case SeverityHigh:
		return "high"
	case SeverityMedium:
		return "med"
	}
	return "low"
}

// Record is one immutable logged event.
//
// Supply records populate Author..Qty and Notes; crash records populate
// CartType..Seal and Notes. Notes is shared by both modes.
type Record struct {
	ID        string `json:"id"`
	Mode      Mode   `json:"mode"`
	Timestamp int64  `json:"ts"` // epoch milliseconds

	// Supply
	Author   string   `json:"author,omitempty"`
	Shift    string   `json:"shift,omitempty"`
	Unit     string   `json:"unit,omitempty"`
	Type     string   `json:"type,omitempty"`
	Severity Severity `json:"severity,omitempty"`
	Qty      string   `json:"qty,omitempty"`

	// Crash
	CartType   string `json:"cartType,omitempty"`
	Location   string `json:"location,omitempty"`
	CartNumber string `json:"cartNumber,omitempty"`
	Reason     string `json:"reason,omitempty"`
	CentralOld string `json:"centralOld,omitempty"`
	CentralNew string `json:"centralNew,omitempty"`
	MedOld     string `json:"medOld,omitempty"`
	MedNew     string `json:"medNew,omitempty"`
	CheckedBy  string `json:"checkedBy,omitempty"`
	Seal       string `json:"seal,omitempty"`

	Notes string `json:"notes,omitempty"`
}

// Time returns the record timestamp as a time.Time in loc.
func (r Record) Time(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return time.UnixMilli(r.Timestamp).In(loc)
}

// Key returns the cart identity of a crash record.
func (r Record) Key() CartKey {
	return CartKey{CartType: r.CartType, Location: r.Location, CartNumber: r.CartNumber}
}

// Valid reports whether the record satisfies the model invariants:
// non-empty id, a known mode, and no fields from the other mode.
func (r Record) Valid() bool {
	if r.ID == "" || !ValidModes[r.Mode] {
		return false
	}
	return r == r.scoped()
}

// scoped returns a copy with every field outside the record's mode cleared.
func (r Record) scoped() Record {
	out := Record{ID: r.ID, Mode: r.Mode, Timestamp: r.Timestamp, Notes: r.Notes}
	switch r.Mode {
	case ModeSupply:
		out.Author, out.Shift, out.Unit = r.Author, r.Shift, r.Unit
		out.Type, out.Severity, out.Qty = r.Type, r.Severity, r.Qty
	case ModeCrash:
		out.CartType, out.Location, out.CartNumber, out.Reason = r.CartType, r.Location, r.CartNumber, r.Reason
		out.CentralOld, out.CentralNew = r.CentralOld, r.CentralNew
		out.MedOld, out.MedNew = r.MedOld, r.MedNew
		out.CheckedBy, out.Seal = r.CheckedBy, r.Seal
	}
	return out
}

// CartKey groups a crash cart's history. It is derived on every read and
// never stored.
type CartKey struct {
	CartType   string `json:"cart_type"`
	Location   string `json:"location"`
	CartNumber string `json:"cart_number"`
}

// String renders the key as "type|location|number".
func (k CartKey) String() string {
	return k.CartType + "|" + k.Location + "|" + k.CartNumber
}

// Label renders the key for humans: "Adult Cart 12 (ER – Main)".
func (k CartKey) Label() string {
	return fmt.Sprintf("%s Cart %s (%s)", k.CartType, k.CartNumber, k.Location)
}

// SortByTime sorts records ascending by timestamp, keeping insertion order
// for equal timestamps.
func SortByTime(records []Record) {
	sort.SliceStable(records, func(i, j int) bool { return records[i].Timestamp < records[j].Timestamp })
}

// SortByTimeDesc sorts records newest first.
func SortByTimeDesc(records []Record) {
	sort.SliceStable(records, func(i, j int) bool { return records[i].Timestamp > records[j].Timestamp })
}

// FilterMode returns the records of one mode, preserving order.
func FilterMode(records []Record, mode Mode) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if r.Mode == mode {
			out = append(out, r)
		}
	}
	return out
}
