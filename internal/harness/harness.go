package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/theaarondumas/unitflow/internal/app"
	"github.com/theaarondumas/unitflow/internal/export"
	"github.com/theaarondumas/unitflow/internal/record"
	"github.com/theaarondumas/unitflow/internal/selection"
	"github.com/theaarondumas/unitflow/internal/store"
	"github.com/theaarondumas/unitflow/internal/testutil"
)

// Harness is the scenario execution engine.
// It runs scenarios with a fixed clock and sequential record ids.
type Harness struct {
	app    *app.App
	clock  *testutil.FixedClock
	sink   *testutil.MemorySink
	loc    *time.Location
	logger *slog.Logger
}

// Run executes a scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation.
// Step expectations and assertions that do not hold are reported in
// Result.Errors; an error is only returned when the scenario cannot run.
func Run(scenario *Scenario) (*Result, error) {
	return RunWithLogger(scenario, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// RunWithLogger is Run with application logging sent to logger.
func RunWithLogger(scenario *Scenario, logger *slog.Logger) (*Result, error) {
	now, loc, err := scenario.start()
	if err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	h := &Harness{
		clock:  testutil.NewFixedClock(now),
		sink:   testutil.NewMemorySink(),
		loc:    loc,
		logger: logger,
	}
	h.app = app.New(st, h.sink,
		app.WithClock(h.clock),
		app.WithIDGenerator(record.NewSequenceGenerator("rec")),
		app.WithLocation(loc),
		app.WithLogger(logger),
	)

	ctx := context.Background()
	if scenario.Author != "" {
		if err := h.app.SetAuthor(ctx, scenario.Author); err != nil {
			return nil, fmt.Errorf("failed to seed author: %w", err)
		}
	}
	if len(scenario.Locations) > 0 {
		if err := h.app.SetLocations(ctx, scenario.Locations); err != nil {
			return nil, fmt.Errorf("failed to seed locations: %w", err)
		}
	}

	result := NewResult()
	for i, step := range scenario.Steps {
		h.executeStep(ctx, i, step, result)
	}

	actx := &AssertionContext{App: h.app, Sink: h.sink, Ctx: ctx}
	for _, msg := range EvaluateAssertions(scenario.Assertions, actx) {
		result.AddError(msg)
	}

	h.logger.Debug("scenario finished", "name", scenario.Name, "pass", result.Pass, "steps", len(result.Trace))
	return result, nil
}

// stepOutcome is what executing one operation produced.
type stepOutcome struct {
	outcome   string
	record    string
	detail    string
	err       error
	phi       *bool
	accepted  *bool
	delivered *bool
}

func boolPtr(b bool) *bool { return &b }

// executeStep runs one step, traces it and checks its expectation.
func (h *Harness) executeStep(ctx context.Context, i int, step Step, result *Result) {
	name, _ := step.action()
	out := h.perform(ctx, step)

	result.AddTrace(TraceEvent{
		Step:    i + 1,
		Action:  name,
		At:      h.clock.Now().In(h.loc).Format(time.RFC3339),
		Outcome: out.outcome,
		Record:  out.record,
		Detail:  out.detail,
	})

	for _, msg := range checkExpect(step.Expect, out) {
		result.AddError(fmt.Sprintf("steps[%d] %s: %s", i, name, msg))
	}
}

func (h *Harness) perform(ctx context.Context, step Step) stepOutcome {
	switch {
	case step.SubmitSupply != nil:
		sub, err := h.app.SubmitSupply(ctx, *step.SubmitSupply)
		if err != nil {
			return failed(err)
		}
		out := stepOutcome{outcome: OutcomeOK, record: sub.Record.ID, phi: boolPtr(sub.PHILikely)}
		if sub.PHILikely {
			out.detail = "phi_likely"
		}
		return out

	case step.SubmitCrash != nil:
		r, err := h.app.SubmitCrash(ctx, *step.SubmitCrash)
		if err != nil {
			return failed(err)
		}
		return stepOutcome{outcome: OutcomeOK, record: r.ID, detail: r.Key().Label()}

	case step.Advance != "":
		d, _ := time.ParseDuration(step.Advance)
		h.clock.Advance(d)
		return stepOutcome{outcome: OutcomeOK}

	case step.SetTime != "":
		t, _ := time.Parse(time.RFC3339, step.SetTime)
		h.clock.Set(t)
		return stepOutcome{outcome: OutcomeOK}

	case step.BeginSelection != "":
		scope, _ := selection.ParseScope(step.BeginSelection)
		h.app.BeginSelection(scope)
		return stepOutcome{outcome: OutcomeOK, detail: string(scope)}

	case step.Toggle != nil:
		scope, _ := selection.ParseScope(step.Toggle.Scope)
		ok, err := h.app.ToggleSelection(ctx, scope, step.Toggle.ID)
		if err != nil {
			return failed(err)
		}
		out := stepOutcome{outcome: OutcomeOK, record: step.Toggle.ID, accepted: boolPtr(ok)}
		if !ok {
			out.outcome = OutcomeRejected
		}
		return out

	case step.CancelSelection:
		h.app.CancelSelection()
		return stepOutcome{outcome: OutcomeOK}

	case step.NavigateAway:
		h.app.NavigateAway()
		return stepOutcome{outcome: OutcomeOK}

	case step.Purge:
		if err := h.app.ClearAll(ctx); err != nil {
			return failed(err)
		}
		return stepOutcome{outcome: OutcomeOK}

	case step.Export != nil:
		target, _ := app.ParseTarget(step.Export.Target)
		format := app.FormatCSV
		if step.Export.Format != "" {
			format, _ = app.ParseFormat(step.Export.Format)
		}
		return handedOff(h.app.RequestExport(ctx, target, record.Mode(step.Export.Mode), format))

	case step.Print != nil:
		target, _ := app.ParseTarget(step.Print.Target)
		return handedOff(h.app.RequestPrint(ctx, target, record.Mode(step.Print.Mode)))

	case step.TableView:
		return handedOff(h.app.RequestTableView(ctx))
	}
	return stepOutcome{outcome: OutcomeError, err: fmt.Errorf("no operation given")}
}

func failed(err error) stepOutcome {
	out := stepOutcome{outcome: OutcomeError, err: err, detail: err.Error()}
	if record.IsValidationError(err) {
		out.outcome = OutcomeRejected
	}
	return out
}

func handedOff(art export.Artifact, delivered bool, err error) stepOutcome {
	if err != nil {
		return failed(err)
	}
	if !delivered {
		return stepOutcome{outcome: OutcomeNoop, delivered: boolPtr(false)}
	}
	return stepOutcome{outcome: OutcomeOK, detail: art.Name, delivered: boolPtr(true)}
}

// checkExpect compares an outcome with the step's expectation.
func checkExpect(exp *Expect, out stepOutcome) []string {
	var errs []string
	if exp == nil {
		exp = &Expect{}
	}

	switch exp.Error {
	case "":
		if out.err != nil {
			errs = append(errs, fmt.Sprintf("unexpected error: %v", out.err))
		}
	case ExpectValidationError:
		if !record.IsValidationError(out.err) {
			errs = append(errs, fmt.Sprintf("expected validation error, got %v", out.err))
		}
	case ExpectStorageError:
		if !store.IsStorageError(out.err) {
			errs = append(errs, fmt.Sprintf("expected storage error, got %v", out.err))
		}
	}

	if exp.ID != "" && exp.ID != out.record {
		errs = append(errs, fmt.Sprintf("expected record %q, got %q", exp.ID, out.record))
	}
	checkBool := func(what string, want, got *bool) {
		if want == nil {
			return
		}
		if got == nil || *got != *want {
			errs = append(errs, fmt.Sprintf("expected %s=%v, got %v", what, *want, describe(got)))
		}
	}
	checkBool("phi_likely", exp.PHILikely, out.phi)
	checkBool("accepted", exp.Accepted, out.accepted)
	checkBool("delivered", exp.Delivered, out.delivered)
	return errs
}

func describe(b *bool) string {
	if b == nil {
		return "<not applicable>"
	}
	return fmt.Sprint(*b)
}
