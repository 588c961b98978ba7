package harness

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/theaarondumas/unitflow/internal/app"
	"github.com/theaarondumas/unitflow/internal/export"
	"github.com/theaarondumas/unitflow/internal/selection"
	"github.com/theaarondumas/unitflow/internal/testutil"
	"github.com/theaarondumas/unitflow/internal/view"
	"github.com/theaarondumas/unitflow/internal/window"
)

// AssertionContext is what assertions inspect.
type AssertionContext struct {
	App  *app.App
	Sink *testutil.MemorySink
	Ctx  context.Context
}

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string // Assertion type for categorization
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s", e.Actual)
	return buf.String()
}

func mismatch(typ string, expected, actual any) error {
	return &AssertionError{Type: typ, Expected: fmt.Sprint(expected), Actual: fmt.Sprint(actual)}
}

// EvaluateAssertions runs all assertions and returns failure messages.
func EvaluateAssertions(assertions []Assertion, actx *AssertionContext) []string {
	var errs []string
	for i, a := range assertions {
		if err := evaluate(a, actx); err != nil {
			errs = append(errs, fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}
	return errs
}

func evaluate(a Assertion, actx *AssertionContext) error {
	switch a.Type {
	case AssertCartStatus:
		return assertCartStatus(a, actx)
	case AssertAlerts, AssertAlertCount:
		return assertAlerts(a, actx)
	case AssertSelection:
		return assertSelection(a, actx)
	case AssertListCount:
		return assertListCount(a, actx)
	case AssertArtifact:
		return assertArtifact(a, actx)
	case AssertArtifactCount:
		if got := len(actx.Sink.Artifacts()); got != a.Count {
			return mismatch(a.Type, a.Count, got)
		}
		return nil
	case AssertRecordCount:
		return assertRecordCount(a, actx)
	}
	return fmt.Errorf("unknown assertion type %q", a.Type)
}

func assertCartStatus(a Assertion, actx *AssertionContext) error {
	carts, err := actx.App.Carts(actx.Ctx)
	if err != nil {
		return err
	}
	key := a.Cart.Key()
	got := "UNVERIFIED"
	for _, c := range carts {
		if c.Key == key {
			got = string(c.Status)
			break
		}
	}
	if got != a.Status {
		return mismatch(a.Type, fmt.Sprintf("%s is %s", key.Label(), a.Status), got)
	}
	return nil
}

func assertAlerts(a Assertion, actx *AssertionContext) error {
	lines, err := actx.App.CurrentAlerts(actx.Ctx)
	if err != nil {
		return err
	}
	if a.Type == AssertAlertCount {
		if len(lines) != a.Count {
			return mismatch(a.Type, a.Count, fmt.Sprintf("%d %q", len(lines), lines))
		}
		return nil
	}
	want := a.Lines
	if want == nil {
		want = []string{}
	}
	if !slices.Equal(want, lines) {
		return mismatch(a.Type, fmt.Sprintf("%q", want), fmt.Sprintf("%q", lines))
	}
	return nil
}

func assertSelection(a Assertion, actx *AssertionContext) error {
	want := selection.State{Active: a.Active, Scope: selection.Scope(a.Scope), Count: a.Count}
	got, err := actx.App.SelectionState(actx.Ctx)
	if err != nil {
		return err
	}
	if got != want {
		return mismatch(a.Type, fmt.Sprintf("%+v", want), fmt.Sprintf("%+v", got))
	}
	return nil
}

func assertListCount(a Assertion, actx *AssertionContext) error {
	scope, _ := selection.ParseScope(a.Scope)
	var (
		list view.List
		err  error
	)
	if scope.Window() == window.Week {
		list, err = actx.App.RenderedWeek(actx.Ctx, scope.Mode())
	} else {
		list, err = actx.App.RenderedToday(actx.Ctx, scope.Mode())
	}
	if err != nil {
		return err
	}
	if len(list.Entries) != a.Count {
		return mismatch(a.Type, fmt.Sprintf("%s has %d entries", scope, a.Count), len(list.Entries))
	}
	return nil
}

func assertArtifact(a Assertion, actx *AssertionContext) error {
	var found *export.Artifact
	arts := actx.Sink.Artifacts()
	for i := range arts {
		if arts[i].Name == a.Name {
			found = &arts[i]
		}
	}
	if found == nil {
		names := make([]string, len(arts))
		for i, art := range arts {
			names[i] = art.Name
		}
		return mismatch(a.Type, "artifact "+a.Name, fmt.Sprintf("delivered %q", names))
	}
	if a.Kind != "" && string(found.Kind) != a.Kind {
		return mismatch(a.Type, "kind "+a.Kind, found.Kind)
	}
	for _, want := range a.Contains {
		if !strings.Contains(string(found.Body), want) {
			return mismatch(a.Type, fmt.Sprintf("%s contains %q", a.Name, want), "not found")
		}
	}
	return nil
}

func assertRecordCount(a Assertion, actx *AssertionContext) error {
	n, err := actx.App.RecordCount(actx.Ctx)
	if err != nil {
		return err
	}
	if n != a.Count {
		return mismatch(a.Type, a.Count, n)
	}
	return nil
}
