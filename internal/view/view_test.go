package view

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theaarondumas/unitflow/internal/cartstatus"
	"github.com/theaarondumas/unitflow/internal/record"
	"github.com/theaarondumas/unitflow/internal/selection"
	"github.com/theaarondumas/unitflow/internal/window"
)

// now is Wednesday 2026-03-04 15:00 UTC; the week started Monday 03-02.
var now = time.Date(2026, 3, 4, 15, 0, 0, 0, time.UTC)

func at(day, hour int) int64 {
	return time.Date(2026, 3, day, hour, 0, 0, 0, time.UTC).UnixMilli()
}

func history() []record.Record {
	return []record.Record{
		{ID: "s-old", Mode: record.ModeSupply, Timestamp: at(1, 9), Type: "Replenishment", Severity: record.SeverityLow},
		{ID: "s-mon", Mode: record.ModeSupply, Timestamp: at(2, 9), Type: "Replenishment", Severity: record.SeverityMedium, Author: "Dana"},
		{ID: "s-today", Mode: record.ModeSupply, Timestamp: at(4, 8), Author: "Dana", Shift: "Day", Unit: "4 South", Qty: "3", Notes: "gloves"},
		{ID: "c-1", Mode: record.ModeCrash, Timestamp: at(2, 10), CartType: "Adult", Location: "ER – Main", CartNumber: "12",
			Reason: record.ReasonExpirationSwap, CentralNew: "2026-03-09", CheckedBy: "Lee"},
		{ID: "c-2", Mode: record.ModeCrash, Timestamp: at(4, 11), CartType: "Adult", Location: "ER – Main", CartNumber: "12",
			Reason: record.ReasonRoutineReseal, MedNew: "2026-04-13", CheckedBy: "Lee", Seal: "A7"},
		{ID: "c-3", Mode: record.ModeCrash, Timestamp: at(4, 12), CartType: "Pediatric", Location: "Cath Lab", CartNumber: "2",
			Reason: record.ReasonAfterUse, CheckedBy: "Kim", Notes: "code blue"},
	}
}

func ids(l List) []string {
	out := make([]string, len(l.Entries))
	for i, e := range l.Entries {
		out[i] = e.ID
	}
	return out
}

func TestBuild_SupplyWindows(t *testing.T) {
	b := Build(history(), record.ModeSupply, now, nil)

	assert.Equal(t, []string{"s-today"}, ids(b.Today))
	assert.Equal(t, []string{"s-today", "s-mon"}, ids(b.Week))
	assert.Equal(t, "1 entry", b.Today.CountLabel)
	assert.Equal(t, "2 entries", b.Week.CountLabel)
	assert.Equal(t, selection.SupplyToday, b.Today.Scope)
	assert.Empty(t, b.Alerts)

	e := b.Today.Entries[0]
	assert.Equal(t, "Entry", e.Title)
	assert.Equal(t, "2026-03-04 08:00 • Dana • Day • 4 South • Qty: 3", e.Meta)
	assert.Equal(t, "gloves", e.Detail)
	assert.Equal(t, "Low", e.Badge)
	assert.Equal(t, "low", e.BadgeClass)
	assert.Equal(t, selection.SupplyToday, e.Scope)
}

func TestBuild_CrashStatusFromWholeHistory(t *testing.T) {
	b := Build(history(), record.ModeCrash, now, nil)

	assert.Equal(t, []string{"c-3", "c-2"}, ids(b.Today))
	assert.Equal(t, []string{"c-3", "c-2", "c-1"}, ids(b.Week))

	er := b.Week.Entries[2]
	assert.Equal(t, cartstatus.Action, er.Status, "central +5 from c-1 and med +40 from c-2")
	assert.Equal(t, "ACTION", er.Badge)
	assert.Equal(t, "crit", er.BadgeClass)
	assert.Equal(t, "Adult • Cart 12 • ER – Main", er.Title)
	assert.Equal(t, "Central: 2026-03-09", er.Detail)

	reseal := b.Today.Entries[1]
	assert.Equal(t, "2026-03-04 11:00 • Routine reseal (seal broken) • Lee • Seal: A7", reseal.Meta)
	assert.Equal(t, "Med: 2026-04-13", reseal.Detail)

	peds := b.Today.Entries[0]
	assert.Equal(t, cartstatus.Unverified, peds.Status)
	assert.Equal(t, "unv", peds.BadgeClass)
	assert.Equal(t, "code blue", peds.Detail)

	assert.Equal(t, []string{"Adult Cart 12 (ER – Main) — Central expires in 5 days (2026-03-09)"}, b.Alerts)
}

func TestBuild_Empty(t *testing.T) {
	b := Build(nil, record.ModeCrash, now, nil)
	assert.Empty(t, b.Today.Entries)
	assert.Equal(t, "0 entries", b.Today.CountLabel)
	assert.Equal(t, "No crash cart logs yet today.", b.Today.EmptyMessage)
	assert.Equal(t, "No crash cart logs yet this week.", b.Week.EmptyMessage)

	s := Build(nil, record.ModeSupply, now, nil)
	assert.Equal(t, "No entries yet today.", s.Today.EmptyMessage)
}

func TestBuild_SelectionMarksOnlyScopedList(t *testing.T) {
	sess := selection.New()
	sess.Begin(selection.CrashWeek)
	require.True(t, sess.Toggle(selection.Item{ID: "c-2", Scope: selection.CrashWeek}))

	b := Build(history(), record.ModeCrash, now, sess)

	assert.False(t, b.Today.Entries[1].Selected, "same record in crash-today is not selected")
	assert.True(t, b.Week.Entries[1].Selected)
	assert.Equal(t, selection.State{Active: true, Scope: selection.CrashWeek, Count: 1}, b.Selection)
	assert.Equal(t, "1 selected", b.SelectedLabel)
	assert.True(t, b.ActionBar)
}

func TestList_ContainsAndRecords(t *testing.T) {
	b := Build(history(), record.ModeCrash, now, nil)
	l := b.List(window.Today)

	assert.True(t, l.Contains("c-2"))
	assert.False(t, l.Contains("c-1"))
	assert.Equal(t, "c-3", l.Records()[0].ID)
	assert.Equal(t, b.Week, b.List(window.Week))
}

func TestCarts(t *testing.T) {
	carts := Carts(history(), now)
	require.Len(t, carts, 2)

	assert.Equal(t, "Pediatric Cart 2 (Cath Lab)", carts[0].Cart)
	assert.Equal(t, cartstatus.Unverified, carts[0].Status)

	assert.Equal(t, "Adult Cart 12 (ER – Main)", carts[1].Cart)
	assert.Equal(t, "2026-03-09", carts[1].Central)
	assert.Equal(t, "2026-04-13", carts[1].Med)
	assert.Equal(t, 2, carts[1].Checks)
	assert.Equal(t, cartstatus.Action, carts[1].Status)
	assert.Equal(t, "crit", carts[1].Class)
}
