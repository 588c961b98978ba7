package app

import (
	"context"
	"fmt"

	"github.com/theaarondumas/unitflow/internal/record"
)

// Submission is the outcome of a supply entry.
type Submission struct {
	Record record.Record `json:"record"`

	// PHILikely flags notes or unit text that looks like patient
	// information. The entry is stored as typed either way.
	PHILikely bool `json:"phi_likely"`
}

// SubmitSupply logs a supply entry. It never rejects input: fields are only
// cleaned. An empty author falls back to the saved one; a non-empty author
// is saved for next time.
func (a *App) SubmitSupply(ctx context.Context, f record.SupplyFields) (Submission, error) {
	if record.Clean(f.Author) == "" {
		f.Author = a.savedAuthor(ctx)
	}

	r := record.NewSupply(f, a.ids.Generate(), a.Now())
	phi := record.PHILikely(r.Notes) || record.PHILikely(r.Unit)

	if err := a.store.Append(ctx, r); err != nil {
		return Submission{}, fmt.Errorf("submit supply: %w", err)
	}
	a.rememberAuthor(ctx, r.Author)

	a.logger.Info("supply entry logged", "id", r.ID, "severity", r.Severity, "phi_likely", phi)
	if phi {
		a.logger.Warn("supply entry may contain patient information", "id", r.ID)
	}
	return Submission{Record: r, PHILikely: phi}, nil
}

// SubmitCrash logs a crash-cart check. An empty checked-by falls back to
// the saved author before validation. Missing location, cart number, reason
// or checked-by returns a *record.ValidationError and stores nothing.
func (a *App) SubmitCrash(ctx context.Context, f record.CrashFields) (record.Record, error) {
	if record.Clean(f.CheckedBy) == "" {
		f.CheckedBy = a.savedAuthor(ctx)
	}

	r, err := record.NewCrash(f, a.ids.Generate(), a.Now())
	if err != nil {
		a.logger.Debug("crash entry rejected", "error", err)
		return record.Record{}, err
	}

	if err := a.store.Append(ctx, r); err != nil {
		return record.Record{}, fmt.Errorf("submit crash: %w", err)
	}
	a.rememberAuthor(ctx, r.CheckedBy)

	a.logger.Info("crash cart check logged", "id", r.ID, "cart", r.Key().String(), "reason", r.Reason)
	return r, nil
}

func (a *App) savedAuthor(ctx context.Context) string {
	name, err := a.store.Author(ctx)
	if err != nil {
		a.logger.Warn("read saved author", "error", err)
		return ""
	}
	return name
}

// rememberAuthor saves a non-empty author. The entry is already stored, so
// a failure here is only logged.
func (a *App) rememberAuthor(ctx context.Context, name string) {
	if name == "" {
		return
	}
	if err := a.store.SaveAuthor(ctx, name); err != nil {
		a.logger.Warn("save author", "error", err)
	}
}

// Author returns the saved author/checked-by name.
func (a *App) Author(ctx context.Context) (string, error) {
	return a.store.Author(ctx)
}

// SetAuthor saves the author/checked-by name.
func (a *App) SetAuthor(ctx context.Context, name string) error {
	return a.store.SaveAuthor(ctx, record.Clean(name))
}

// Locations returns the saved location list, or the defaults.
func (a *App) Locations(ctx context.Context) ([]string, error) {
	return a.store.Locations(ctx)
}

// SetLocations saves an ordered location list. Entries are cleaned and
// blank ones dropped; an empty list restores the defaults on next read.
func (a *App) SetLocations(ctx context.Context, locations []string) error {
	cleaned := make([]string, 0, len(locations))
	for _, l := range locations {
		if c := record.Clean(l); c != "" {
			cleaned = append(cleaned, c)
		}
	}
	return a.store.SaveLocations(ctx, cleaned)
}
