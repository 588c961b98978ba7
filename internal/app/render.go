package app

import (
	"context"
	"fmt"

	"github.com/theaarondumas/unitflow/internal/cartstatus"
	"github.com/theaarondumas/unitflow/internal/record"
	"github.com/theaarondumas/unitflow/internal/view"
)

func (a *App) all(ctx context.Context) ([]record.Record, error) {
	records, err := a.store.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}
	return records, nil
}

// Rendered builds the mode's board against the current time and session.
func (a *App) Rendered(ctx context.Context, mode record.Mode) (view.Board, error) {
	records, err := a.all(ctx)
	if err != nil {
		return view.Board{}, err
	}
	a.pruneSelection(records)
	return view.Build(records, mode, a.Now(), a.session), nil
}

// RenderedToday returns the mode's today list, newest first.
func (a *App) RenderedToday(ctx context.Context, mode record.Mode) (view.List, error) {
	b, err := a.Rendered(ctx, mode)
	return b.Today, err
}

// RenderedWeek returns the mode's this-week list, newest first.
func (a *App) RenderedWeek(ctx context.Context, mode record.Mode) (view.List, error) {
	b, err := a.Rendered(ctx, mode)
	return b.Week, err
}

// CurrentAlerts returns at most cartstatus.MaxAlerts alert lines.
func (a *App) CurrentAlerts(ctx context.Context) ([]string, error) {
	records, err := a.all(ctx)
	if err != nil {
		return nil, err
	}
	logs := record.FilterMode(records, record.ModeCrash)
	record.SortByTimeDesc(logs)
	return cartstatus.Lines(cartstatus.BuildAlerts(cartstatus.Aggregate(logs), a.Now(), cartstatus.MaxAlerts)), nil
}

// Carts returns the status of every cart seen in crash history.
func (a *App) Carts(ctx context.Context) ([]view.Cart, error) {
	records, err := a.all(ctx)
	if err != nil {
		return nil, err
	}
	return view.Carts(records, a.Now()), nil
}

// RecordCount returns the number of stored records.
func (a *App) RecordCount(ctx context.Context) (int, error) {
	records, err := a.all(ctx)
	return len(records), err
}
