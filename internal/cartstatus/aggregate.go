package cartstatus

import (
	"time"

	"github.com/theaarondumas/unitflow/internal/record"
)

// Expirations holds the latest known dates for one cart.
type Expirations struct {
	Key record.CartKey `json:"cart"`

	// Central is the most recent non-empty centralNew; CentralAt is the
	// timestamp of the record it came from.
	Central   string `json:"central,omitempty"`
	CentralAt int64  `json:"central_at,omitempty"`

	// Med is the most recent non-empty medNew; MedAt is its record timestamp.
	Med   string `json:"med,omitempty"`
	MedAt int64  `json:"med_at,omitempty"`

	// Checks counts the crash records seen for the cart.
	Checks int `json:"checks"`

	hasCentral bool
	hasMed     bool
}

// HasDates reports whether at least one expiration date is known.
func (e Expirations) HasDates() bool {
	return e.Central != "" || e.Med != ""
}

// Status derives the cart status at now.
func (e Expirations) Status(now time.Time) Status {
	return Derive(e.Central, e.Med, now)
}

// Index is the per-cart aggregation of a crash history.
type Index struct {
	byKey map[record.CartKey]*Expirations
	order []record.CartKey // first-seen order
}

// Aggregate scans records (supply records are ignored) and keeps, per cart,
// the most recent non-empty central and med dates. The two dates are
// tracked independently: a record carrying only a med date never erases a
// newer central date from another record. Equal timestamps resolve to the
// record seen last.
func Aggregate(records []record.Record) *Index {
	ix := &Index{byKey: make(map[record.CartKey]*Expirations)}
	for _, r := range records {
		if r.Mode != record.ModeCrash {
			continue
		}
		key := r.Key()
		e, ok := ix.byKey[key]
		if !ok {
			e = &Expirations{Key: key}
			ix.byKey[key] = e
			ix.order = append(ix.order, key)
		}
		e.Checks++

		if r.CentralNew != "" && (!e.hasCentral || r.Timestamp >= e.CentralAt) {
			e.Central, e.CentralAt, e.hasCentral = r.CentralNew, r.Timestamp, true
		}
		if r.MedNew != "" && (!e.hasMed || r.Timestamp >= e.MedAt) {
			e.Med, e.MedAt, e.hasMed = r.MedNew, r.Timestamp, true
		}
	}
	return ix
}

// Lookup returns the aggregation for key. ok is false for a cart with no
// crash records.
func (ix *Index) Lookup(key record.CartKey) (Expirations, bool) {
	e, ok := ix.byKey[key]
	if !ok {
		return Expirations{Key: key}, false
	}
	return *e, true
}

// Status returns the status of key at now. A cart with no history is
// Unverified.
func (ix *Index) Status(key record.CartKey, now time.Time) Status {
	e, _ := ix.Lookup(key)
	return e.Status(now)
}

// Carts returns every aggregated cart in first-seen order.
func (ix *Index) Carts() []Expirations {
	out := make([]Expirations, 0, len(ix.order))
	for _, k := range ix.order {
		out = append(out, *ix.byKey[k])
	}
	return out
}

// Len returns the number of distinct carts.
func (ix *Index) Len() int {
	return len(ix.order)
}
