// Package app is the application context behind every user-facing
// operation: submitting entries, the selection session, export and print
// hand-off, and the rendered views.
//
// An App owns exactly one selection.Session. It is single-threaded: callers
// serialize operations the way a UI event loop does.
package app

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/theaarondumas/unitflow/internal/export"
	"github.com/theaarondumas/unitflow/internal/record"
	"github.com/theaarondumas/unitflow/internal/selection"
	"github.com/theaarondumas/unitflow/internal/window"
)

// Store is the persistence the application needs. *store.Store satisfies it.
type Store interface {
	Append(ctx context.Context, r record.Record) error
	AppendAll(ctx context.Context, records []record.Record) error
	All(ctx context.Context) ([]record.Record, error)
	ByIDs(ctx context.Context, ids map[string]bool) ([]record.Record, error)
	Clear(ctx context.Context) error

	Author(ctx context.Context) (string, error)
	SaveAuthor(ctx context.Context, name string) error
	Locations(ctx context.Context) ([]string, error)
	SaveLocations(ctx context.Context, locations []string) error
}

// App wires storage, time, identity and hand-off together.
type App struct {
	store   Store
	sink    export.Sink
	clock   window.Clock
	ids     record.IDGenerator
	loc     *time.Location
	logger  *slog.Logger
	session *selection.Session
}

// Option configures an App.
type Option func(*App)

// WithClock replaces the system clock.
func WithClock(c window.Clock) Option {
	return func(a *App) { a.clock = c }
}

// WithIDGenerator replaces the UUIDv7 id generator.
func WithIDGenerator(g record.IDGenerator) Option {
	return func(a *App) { a.ids = g }
}

// WithLocation sets the time zone that defines local midnight.
func WithLocation(loc *time.Location) Option {
	return func(a *App) {
		if loc != nil {
			a.loc = loc
		}
	}
}

// WithLogger sets the logger. The default discards.
func WithLogger(l *slog.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.logger = l
		}
	}
}

// New creates an App with an Idle selection session.
func New(store Store, sink export.Sink, opts ...Option) *App {
	a := &App{
		store:   store,
		sink:    sink,
		clock:   window.SystemClock{},
		ids:     record.UUIDv7Generator{},
		loc:     time.Local,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		session: selection.New(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Now returns the current time in the configured location.
func (a *App) Now() time.Time {
	return a.clock.Now().In(a.loc)
}

// Location returns the configured time zone.
func (a *App) Location() *time.Location {
	return a.loc
}
