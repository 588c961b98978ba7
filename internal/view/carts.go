package view

import (
	"time"

	"github.com/theaarondumas/unitflow/internal/cartstatus"
	"github.com/theaarondumas/unitflow/internal/record"
)

// Cart is one row of the cart overview.
type Cart struct {
	Cart    string            `json:"cart"`
	Key     record.CartKey    `json:"-"`
	Central string            `json:"central,omitempty"`
	Med     string            `json:"med,omitempty"`
	Checks  int               `json:"checks"`
	Status  cartstatus.Status `json:"status"`
	Class   string            `json:"class"`
}

// Carts lists every cart seen in crash history, most recently checked first,
// with its latest known dates and derived status.
func Carts(records []record.Record, now time.Time) []Cart {
	logs := record.FilterMode(records, record.ModeCrash)
	record.SortByTimeDesc(logs)

	ix := cartstatus.Aggregate(logs)
	out := make([]Cart, 0, ix.Len())
	for _, e := range ix.Carts() {
		st := e.Status(now)
		out = append(out, Cart{
			Cart:    e.Key.Label(),
			Key:     e.Key,
			Central: e.Central,
			Med:     e.Med,
			Checks:  e.Checks,
			Status:  st,
			Class:   st.Class(),
		})
	}
	return out
}
