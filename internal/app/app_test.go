package app

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theaarondumas/unitflow/internal/cartstatus"
	"github.com/theaarondumas/unitflow/internal/export"
	"github.com/theaarondumas/unitflow/internal/record"
	"github.com/theaarondumas/unitflow/internal/selection"
	"github.com/theaarondumas/unitflow/internal/store"
	"github.com/theaarondumas/unitflow/internal/testutil"
)

// start is Wednesday 2026-03-04 10:00 UTC.
var start = time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)

type fixture struct {
	app   *App
	store *store.Store
	clock *testutil.FixedClock
	sink  *testutil.MemorySink
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "app.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	f := &fixture{
		store: st,
		clock: testutil.NewFixedClock(start),
		sink:  testutil.NewMemorySink(),
	}
	f.app = New(st, f.sink,
		WithClock(f.clock),
		WithIDGenerator(record.NewSequenceGenerator("rec")),
		WithLocation(time.UTC),
	)
	return f
}

func (f *fixture) selectionState(t *testing.T) selection.State {
	t.Helper()
	st, err := f.app.SelectionState(context.Background())
	require.NoError(t, err)
	return st
}

func erCart(central, med string) record.CrashFields {
	return record.CrashFields{
		CartType:   "Adult",
		Location:   "ER – Main",
		CartNumber: "12",
		Reason:     record.ReasonExpirationSwap,
		CentralNew: central,
		MedNew:     med,
		CheckedBy:  "Lee",
	}
}

func TestSubmitSupply_TrimsAndFlagsPHI(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sub, err := f.app.SubmitSupply(ctx, record.SupplyFields{
		Author:   "  Dana ",
		Unit:     " 4 South",
		Severity: "High",
		Notes:    "Room 204 refill",
	})
	require.NoError(t, err)

	assert.True(t, sub.PHILikely)
	assert.Equal(t, "rec-001", sub.Record.ID)
	assert.Equal(t, "Dana", sub.Record.Author)
	assert.Equal(t, "4 South", sub.Record.Unit)
	assert.Equal(t, start.UnixMilli(), sub.Record.Timestamp)

	stored, err := f.store.All(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "Room 204 refill", stored[0].Notes, "flagged text is stored unredacted")

	author, err := f.app.Author(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Dana", author)
}

func TestSubmitSupply_EmptyAuthorFallsBack(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.app.SetAuthor(ctx, "Dana"))

	sub, err := f.app.SubmitSupply(ctx, record.SupplyFields{Notes: "gloves"})
	require.NoError(t, err)
	assert.False(t, sub.PHILikely)
	assert.Equal(t, "Dana", sub.Record.Author)
}

func TestSubmitSupply_AcceptsEmptyForm(t *testing.T) {
	f := newFixture(t)

	sub, err := f.app.SubmitSupply(context.Background(), record.SupplyFields{})
	require.NoError(t, err)
	assert.Equal(t, record.ModeSupply, sub.Record.Mode)
	assert.True(t, sub.Record.Valid())
}

func TestSubmitCrash_ValidationErrorStoresNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.app.SubmitCrash(ctx, record.CrashFields{CartType: "Adult", Location: "  ", Reason: record.ReasonAfterUse})
	require.Error(t, err)
	require.True(t, record.IsValidationError(err))

	var ve *record.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, []string{"location", "cart number", "checked by"}, ve.Missing)

	stored, err := f.store.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestSubmitCrash_CheckedByFallsBackBeforeValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.app.SetAuthor(ctx, "Kim"))

	fields := erCart("2026-09-01", "")
	fields.CheckedBy = ""
	r, err := f.app.SubmitCrash(ctx, fields)
	require.NoError(t, err)
	assert.Equal(t, "Kim", r.CheckedBy)
	assert.Empty(t, r.Author, "supply fields stay empty on crash records")
}

type failingStore struct {
	*store.Store
}

func (failingStore) Append(context.Context, record.Record) error {
	return &store.StorageError{Op: "append", Err: errors.New("database or disk is full")}
}

func TestSubmit_StorageFaultSurfacesTyped(t *testing.T) {
	f := newFixture(t)
	a := New(failingStore{f.store}, f.sink, WithClock(f.clock), WithLocation(time.UTC))
	ctx := context.Background()

	_, err := a.SubmitSupply(ctx, record.SupplyFields{Author: "Dana"})
	require.Error(t, err)
	assert.True(t, store.IsStorageError(err))

	_, err = a.SubmitCrash(ctx, erCart("", ""))
	assert.True(t, store.IsStorageError(err))

	author, err := f.store.Author(ctx)
	require.NoError(t, err)
	assert.Empty(t, author, "nothing is remembered when the append fails")
}

func TestRendered_StatusAndAlerts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.app.SubmitCrash(ctx, erCart("2026-03-09", ""))
	require.NoError(t, err)
	f.clock.Advance(time.Hour)
	_, err = f.app.SubmitCrash(ctx, erCart("", "2026-04-13"))
	require.NoError(t, err)

	today, err := f.app.RenderedToday(ctx, record.ModeCrash)
	require.NoError(t, err)
	require.Len(t, today.Entries, 2)
	assert.Equal(t, "rec-002", today.Entries[0].ID)
	assert.Equal(t, cartstatus.Action, today.Entries[0].Status)

	week, err := f.app.RenderedWeek(ctx, record.ModeCrash)
	require.NoError(t, err)
	assert.Len(t, week.Entries, 2)

	alerts, err := f.app.CurrentAlerts(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Adult Cart 12 (ER – Main) — Central expires in 5 days (2026-03-09)"}, alerts)

	carts, err := f.app.Carts(ctx)
	require.NoError(t, err)
	require.Len(t, carts, 1)
	assert.Equal(t, "2026-03-09", carts[0].Central)
	assert.Equal(t, "2026-04-13", carts[0].Med)
}

func TestRendered_NoCrashRecords(t *testing.T) {
	f := newFixture(t)
	alerts, err := f.app.CurrentAlerts(context.Background())
	require.NoError(t, err)
	assert.Empty(t, alerts)
}

func TestToggleSelection(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	r, err := f.app.SubmitCrash(ctx, erCart("", ""))
	require.NoError(t, err)

	ok, err := f.app.ToggleSelection(ctx, selection.CrashToday, r.ID)
	require.NoError(t, err)
	assert.False(t, ok, "idle session refuses toggles")

	f.app.BeginSelection(selection.CrashToday)

	ok, err = f.app.ToggleSelection(ctx, selection.CrashWeek, r.ID)
	require.NoError(t, err)
	assert.False(t, ok, "cross-scope toggle refused")

	ok, err = f.app.ToggleSelection(ctx, selection.CrashToday, "rec-999")
	require.NoError(t, err)
	assert.False(t, ok, "id not rendered in the list")

	ok, err = f.app.ToggleSelection(ctx, selection.CrashToday, r.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, selection.State{Active: true, Scope: selection.CrashToday, Count: 1}, f.selectionState(t))
	ids, err := f.app.Selected(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{r.ID}, ids)

	f.app.NavigateAway()
	assert.Equal(t, selection.State{}, f.selectionState(t))
}

func TestToggleSelection_AfterMidnightRollover(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	r, err := f.app.SubmitSupply(ctx, record.SupplyFields{Author: "Dana"})
	require.NoError(t, err)

	f.clock.Advance(15 * time.Hour) // Thursday 01:00
	f.app.BeginSelection(selection.SupplyToday)

	ok, err := f.app.ToggleSelection(ctx, selection.SupplyToday, r.Record.ID)
	require.NoError(t, err)
	assert.False(t, ok, "yesterday's entry is no longer in today's list")

	f.app.BeginSelection(selection.SupplyWeek)
	ok, err = f.app.ToggleSelection(ctx, selection.SupplyWeek, r.Record.ID)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSelection_DropsEntriesThatLeaveTodayAtMidnight(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.clock.Set(time.Date(2026, 3, 4, 23, 50, 0, 0, time.UTC))
	late, err := f.app.SubmitSupply(ctx, record.SupplyFields{Author: "Dana", Notes: "late refill"})
	require.NoError(t, err)

	f.app.BeginSelection(selection.SupplyToday)
	ok, err := f.app.ToggleSelection(ctx, selection.SupplyToday, late.Record.ID)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 1, f.selectionState(t).Count)

	f.clock.Advance(20 * time.Minute) // Thursday 00:10

	today, err := f.app.RenderedToday(ctx, record.ModeSupply)
	require.NoError(t, err)
	assert.Empty(t, today.Entries)
	assert.Equal(t, selection.State{Active: true, Scope: selection.SupplyToday, Count: 0}, f.selectionState(t))
	ids, err := f.app.Selected(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)

	_, delivered, err := f.app.RequestExport(ctx, TargetSelected, "", FormatCSV)
	require.NoError(t, err)
	assert.False(t, delivered, "nothing left in today's list to export")
	_, delivered, err = f.app.RequestTableView(ctx)
	require.NoError(t, err)
	assert.False(t, delivered)
	assert.Empty(t, f.sink.Artifacts())
}

func TestSelection_PrunedBeforeExport(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.clock.Set(time.Date(2026, 3, 4, 23, 50, 0, 0, time.UTC))
	late, err := f.app.SubmitSupply(ctx, record.SupplyFields{Author: "Dana"})
	require.NoError(t, err)
	f.app.BeginSelection(selection.SupplyToday)
	_, err = f.app.ToggleSelection(ctx, selection.SupplyToday, late.Record.ID)
	require.NoError(t, err)

	// The export itself is the first read after midnight.
	f.clock.Advance(20 * time.Minute)
	_, delivered, err := f.app.RequestExport(ctx, TargetSelected, "", FormatCSV)
	require.NoError(t, err)
	assert.False(t, delivered)

	// The week list still shows the entry, so it can be selected again.
	f.app.BeginSelection(selection.SupplyWeek)
	ok, err := f.app.ToggleSelection(ctx, selection.SupplyWeek, late.Record.ID)
	require.NoError(t, err)
	require.True(t, ok)
	art, delivered, err := f.app.RequestExport(ctx, TargetSelected, "", FormatCSV)
	require.NoError(t, err)
	require.True(t, delivered)
	assert.Equal(t, export.Table([]record.Record{late.Record}), art.Body)
}

func TestRequestExport_Selected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, delivered, err := f.app.RequestExport(ctx, TargetSelected, "", FormatCSV)
	require.NoError(t, err)
	assert.False(t, delivered, "nothing selected")
	assert.Empty(t, f.sink.Artifacts())

	first, err := f.app.SubmitSupply(ctx, record.SupplyFields{Author: "Dana", Notes: "line one\nline two"})
	require.NoError(t, err)
	f.clock.Advance(time.Minute)
	second, err := f.app.SubmitSupply(ctx, record.SupplyFields{Author: "Dana"})
	require.NoError(t, err)

	f.app.BeginSelection(selection.SupplyToday)
	for _, id := range []string{second.Record.ID, first.Record.ID} {
		ok, err := f.app.ToggleSelection(ctx, selection.SupplyToday, id)
		require.NoError(t, err)
		require.True(t, ok)
	}

	art, delivered, err := f.app.RequestExport(ctx, TargetSelected, "", FormatCSV)
	require.NoError(t, err)
	require.True(t, delivered)

	assert.Equal(t, export.KindDownload, art.Kind)
	assert.Equal(t, "unitflow_selected_2026-03-04.csv", art.Name)
	assert.Equal(t, export.ContentTypeCSV, art.ContentType)
	assert.Equal(t, export.Table([]record.Record{first.Record, second.Record}), art.Body, "oldest first")

	last, ok := f.sink.Last()
	require.True(t, ok)
	assert.Equal(t, art, last)
	assert.True(t, f.selectionState(t).Active, "exporting keeps the session")
}

func TestRequestExport_AllXLSX(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.app.SubmitCrash(ctx, erCart("2026-09-01", ""))
	require.NoError(t, err)
	_, err = f.app.SubmitSupply(ctx, record.SupplyFields{Author: "Dana"})
	require.NoError(t, err)

	art, delivered, err := f.app.RequestExport(ctx, TargetAll, record.ModeCrash, FormatXLSX)
	require.NoError(t, err)
	require.True(t, delivered)
	assert.Equal(t, "unitflow_crash_all_2026-03-04.xlsx", art.Name)
	assert.Equal(t, export.ContentTypeXLSX, art.ContentType)
	assert.NotEmpty(t, art.Body)

	_, _, err = f.app.RequestExport(ctx, TargetAll, "audit", FormatCSV)
	assert.Error(t, err)
}

func TestRequestExport_AllEmptyIsNoop(t *testing.T) {
	f := newFixture(t)

	_, delivered, err := f.app.RequestExport(context.Background(), TargetAll, record.ModeSupply, FormatCSV)
	require.NoError(t, err)
	assert.False(t, delivered)
	assert.Empty(t, f.sink.Artifacts())
}

func TestRequestPrintAndTableView(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, delivered, err := f.app.RequestPrint(ctx, TargetSelected, "")
	require.NoError(t, err)
	assert.False(t, delivered, "print selected with nothing selected is a no-op")

	r, err := f.app.SubmitCrash(ctx, erCart("2026-09-01", ""))
	require.NoError(t, err)

	art, delivered, err := f.app.RequestPrint(ctx, TargetAll, record.ModeCrash)
	require.NoError(t, err)
	require.True(t, delivered)
	assert.Equal(t, export.KindPrint, art.Kind)
	assert.Equal(t, "unitflow_crash_all_2026-03-04.html", art.Name)
	assert.Contains(t, string(art.Body), "UnitFlow — Crash (all)")

	f.app.BeginSelection(selection.CrashWeek)
	_, err = f.app.ToggleSelection(ctx, selection.CrashWeek, r.ID)
	require.NoError(t, err)

	art, delivered, err = f.app.RequestTableView(ctx)
	require.NoError(t, err)
	require.True(t, delivered)
	assert.Equal(t, export.KindView, art.Kind)
	assert.Contains(t, string(art.Body), "Items: 1")
	assert.Contains(t, string(art.Body), "UnitFlow — Selected")
}

func TestRequestExport_SinkFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.app.SubmitSupply(ctx, record.SupplyFields{Author: "Dana"})
	require.NoError(t, err)

	f.sink.Err = errors.New("share sheet dismissed")
	_, delivered, err := f.app.RequestExport(ctx, TargetAll, record.ModeSupply, FormatCSV)
	assert.Error(t, err)
	assert.False(t, delivered)
}

func TestClearAll(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	r, err := f.app.SubmitSupply(ctx, record.SupplyFields{Author: "Dana"})
	require.NoError(t, err)
	f.app.BeginSelection(selection.SupplyToday)
	_, err = f.app.ToggleSelection(ctx, selection.SupplyToday, r.Record.ID)
	require.NoError(t, err)

	require.NoError(t, f.app.ClearAll(ctx))

	assert.Equal(t, selection.State{}, f.selectionState(t))
	today, err := f.app.RenderedToday(ctx, record.ModeSupply)
	require.NoError(t, err)
	assert.Empty(t, today.Entries)

	author, err := f.app.Author(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Dana", author)
}

func TestLocations(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	locs, err := f.app.Locations(ctx)
	require.NoError(t, err)
	assert.Equal(t, record.DefaultLocations, locs)

	require.NoError(t, f.app.SetLocations(ctx, []string{" Cath Lab ", "", "ER – Main"}))
	locs, err = f.app.Locations(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Cath Lab", "ER – Main"}, locs)

	require.NoError(t, f.app.SetLocations(ctx, nil))
	locs, err = f.app.Locations(ctx)
	require.NoError(t, err)
	assert.Len(t, locs, 11)
}

func TestImportLegacy(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	data := []byte(`[
		{"id":"a1","mode":"supply","ts":1772618400000,"author":"Dana","qty":3},
		{"id":"b2","mode":"crash","ts":1772618460000,"cartType":"Adult","location":"ER – Main","cartNumber":"12","reason":"Expiration swap","centralNew":"2026-09-01","checkedBy":"Lee"},
		{"id":"","mode":"supply"},
		"garbage"
	]`)

	res, err := f.app.ImportLegacy(ctx, data)
	require.NoError(t, err)
	assert.Equal(t, ImportResult{Imported: 2, Skipped: 2}, res)

	res, err = f.app.ImportLegacy(ctx, data)
	require.NoError(t, err)
	assert.Equal(t, ImportResult{Skipped: 2, Duplicates: 2}, res)

	stored, err := f.store.All(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, "3", stored[0].Qty)

	res, err = f.app.ImportLegacy(ctx, []byte(`{not json`))
	require.NoError(t, err)
	assert.Equal(t, ImportResult{}, res)
}

func TestParseTargetAndFormat(t *testing.T) {
	tg, err := ParseTarget(" Selected ")
	require.NoError(t, err)
	assert.Equal(t, TargetSelected, tg)
	_, err = ParseTarget("some")
	assert.Error(t, err)

	fm, err := ParseFormat("XLSX")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, fm)
	_, err = ParseFormat("pdf")
	assert.Error(t, err)
}
