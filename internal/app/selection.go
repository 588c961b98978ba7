package app

import (
	"context"

	"github.com/theaarondumas/unitflow/internal/record"
	"github.com/theaarondumas/unitflow/internal/selection"
	"github.com/theaarondumas/unitflow/internal/window"
)

// BeginSelection starts selecting from the list named by scope, discarding
// any previous selection.
func (a *App) BeginSelection(scope selection.Scope) {
	a.session.Begin(scope)
	a.logger.Debug("selection started", "scope", scope)
}

// CancelSelection ends the session.
func (a *App) CancelSelection() {
	a.session.Cancel()
	a.logger.Debug("selection canceled")
}

// NavigateAway resets the session, as any screen change does.
func (a *App) NavigateAway() {
	a.session.NavigateAway()
}

// ToggleSelection flips id in the selection. The id must be rendered in the
// list for scope right now and scope must be the session's scope; otherwise
// the toggle is refused and false is returned.
func (a *App) ToggleSelection(ctx context.Context, scope selection.Scope, id string) (bool, error) {
	if !a.session.Active() || a.session.Scope() != scope {
		return false, nil
	}

	board, err := a.Rendered(ctx, scope.Mode())
	if err != nil {
		return false, err
	}
	if !board.List(scope.Window()).Contains(id) {
		a.logger.Debug("toggle refused: not rendered in scope", "id", id, "scope", scope)
		return false, nil
	}
	return a.session.Toggle(selection.Item{ID: id, Scope: scope}), nil
}

// SelectionState returns {active, scope, count}. Ids that have left the
// session's list since they were toggled are not counted.
func (a *App) SelectionState(ctx context.Context) (selection.State, error) {
	if err := a.refreshSelection(ctx); err != nil {
		return selection.State{}, err
	}
	return a.session.Snapshot(), nil
}

// Selected returns the selected ids in lexical order.
func (a *App) Selected(ctx context.Context) ([]string, error) {
	if err := a.refreshSelection(ctx); err != nil {
		return nil, err
	}
	return a.session.Selected(), nil
}

func (a *App) refreshSelection(ctx context.Context) error {
	if a.session.Count() == 0 {
		return nil
	}
	records, err := a.all(ctx)
	if err != nil {
		return err
	}
	a.pruneSelection(records)
	return nil
}

// pruneSelection keeps only selected ids still rendered in the session's
// list. Today's list empties at midnight, so a selection made before then
// shrinks with it.
func (a *App) pruneSelection(records []record.Record) {
	if a.session.Count() == 0 {
		return
	}
	scope := a.session.Scope()
	listed := make(map[string]bool)
	for _, r := range window.Filter(record.FilterMode(records, scope.Mode()), scope.Window(), a.Now()) {
		listed[r.ID] = true
	}
	if n := a.session.Retain(func(id string) bool { return listed[id] }); n > 0 {
		a.logger.Debug("selection pruned", "scope", scope, "dropped", n)
	}
}

// ClearAll removes every record and ends any selection. Saved author and
// locations are kept.
func (a *App) ClearAll(ctx context.Context) error {
	if err := a.store.Clear(ctx); err != nil {
		return err
	}
	a.session.Cancel()
	a.logger.Info("all records cleared")
	return nil
}
