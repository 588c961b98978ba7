package harness

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/theaarondumas/unitflow/internal/app"
	"github.com/theaarondumas/unitflow/internal/record"
	"github.com/theaarondumas/unitflow/internal/selection"
)

// Scenario defines an end-to-end run of the application.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Now is the starting wall-clock time (RFC 3339).
	Now string `yaml:"now"`

	// Timezone defines local midnight. Defaults to UTC.
	Timezone string `yaml:"timezone,omitempty"`

	// Author pre-seeds the saved author name.
	Author string `yaml:"author,omitempty"`

	// Locations pre-seeds the saved location list.
	Locations []string `yaml:"locations,omitempty"`

	// Steps are executed in order.
	Steps []Step `yaml:"steps"`

	// Assertions validate the final state.
	Assertions []Assertion `yaml:"assertions"`
}

// Step is one user operation. Exactly one operation field must be set.
type Step struct {
	SubmitSupply    *record.SupplyFields `yaml:"submit_supply,omitempty"`
	SubmitCrash     *record.CrashFields  `yaml:"submit_crash,omitempty"`
	Advance         string               `yaml:"advance,omitempty"`
	SetTime         string               `yaml:"set_time,omitempty"`
	BeginSelection  string               `yaml:"begin_selection,omitempty"`
	Toggle          *ToggleStep          `yaml:"toggle,omitempty"`
	CancelSelection bool                 `yaml:"cancel_selection,omitempty"`
	NavigateAway    bool                 `yaml:"navigate_away,omitempty"`
	Purge           bool                 `yaml:"purge,omitempty"`
	Export          *HandoffStep         `yaml:"export,omitempty"`
	Print           *HandoffStep         `yaml:"print,omitempty"`
	TableView       bool                 `yaml:"table_view,omitempty"`

	// Expect checks the step outcome. If nil, the step must not fail.
	Expect *Expect `yaml:"expect,omitempty"`
}

// ToggleStep flips one record in the selection.
type ToggleStep struct {
	Scope string `yaml:"scope"`
	ID    string `yaml:"id"`
}

// HandoffStep requests an export or print.
type HandoffStep struct {
	Target string `yaml:"target"`
	Mode   string `yaml:"mode,omitempty"`
	Format string `yaml:"format,omitempty"`
}

// Expect describes the expected outcome of a step.
type Expect struct {
	// Error is "validation" or "storage" when the step must fail that way.
	Error string `yaml:"error,omitempty"`

	// ID is the expected id of the submitted record.
	ID string `yaml:"id,omitempty"`

	// PHILikely is the expected PHI flag of a supply submission.
	PHILikely *bool `yaml:"phi_likely,omitempty"`

	// Accepted is the expected toggle result.
	Accepted *bool `yaml:"accepted,omitempty"`

	// Delivered is the expected export/print/view hand-off result.
	Delivered *bool `yaml:"delivered,omitempty"`
}

// Expected step errors.
const (
	ExpectValidationError = "validation"
	ExpectStorageError    = "storage"
)

// CartRef names a cart in assertions.
type CartRef struct {
	CartType   string `yaml:"cart_type"`
	Location   string `yaml:"location"`
	CartNumber string `yaml:"cart_number"`
}

// Key returns the cart key.
func (c CartRef) Key() record.CartKey {
	return record.CartKey{CartType: c.CartType, Location: c.Location, CartNumber: c.CartNumber}
}

// Assertion validates final state.
type Assertion struct {
	// Type selects the assertion (see the Assert* constants).
	Type string `yaml:"type"`

	// Cart and Status are used by cart_status.
	Cart   *CartRef `yaml:"cart,omitempty"`
	Status string   `yaml:"status,omitempty"`

	// Lines is used by alerts.
	Lines []string `yaml:"lines,omitempty"`

	// Count is used by alert_count, list_count, artifact_count,
	// record_count and selection.
	Count int `yaml:"count"`

	// Active and Scope are used by selection; Scope also by list_count.
	Active bool   `yaml:"active,omitempty"`
	Scope  string `yaml:"scope,omitempty"`

	// Name, Kind and Contains are used by artifact.
	Name     string   `yaml:"name,omitempty"`
	Kind     string   `yaml:"kind,omitempty"`
	Contains []string `yaml:"contains,omitempty"`
}

// Assertion type constants.
const (
	AssertCartStatus    = "cart_status"
	AssertAlerts        = "alerts"
	AssertAlertCount    = "alert_count"
	AssertSelection     = "selection"
	AssertListCount     = "list_count"
	AssertArtifact      = "artifact"
	AssertArtifactCount = "artifact_count"
	AssertRecordCount   = "record_count"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict field validation catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// start returns the scenario's starting time and location.
func (s *Scenario) start() (time.Time, *time.Location, error) {
	tz := s.Timezone
	if tz == "" {
		tz = "UTC"
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return time.Time{}, nil, fmt.Errorf("timezone: %w", err)
	}
	now, err := time.ParseInLocation(time.RFC3339, s.Now, loc)
	if err != nil {
		return time.Time{}, nil, fmt.Errorf("now: %w", err)
	}
	return now.In(loc), loc, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Now == "" {
		return fmt.Errorf("now is required")
	}
	if _, _, err := s.start(); err != nil {
		return err
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		if err := validateStep(i, &step); err != nil {
			return err
		}
	}
	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}
	return nil
}

// action returns the name of the operation a step performs, and how many
// operation fields are set.
func (st *Step) action() (name string, n int) {
	set := func(ok bool, what string) {
		if ok {
			name = what
			n++
		}
	}
	set(st.SubmitSupply != nil, "submit_supply")
	set(st.SubmitCrash != nil, "submit_crash")
	set(st.Advance != "", "advance")
	set(st.SetTime != "", "set_time")
	set(st.BeginSelection != "", "begin_selection")
	set(st.Toggle != nil, "toggle")
	set(st.CancelSelection, "cancel_selection")
	set(st.NavigateAway, "navigate_away")
	set(st.Purge, "purge")
	set(st.Export != nil, "export")
	set(st.Print != nil, "print")
	set(st.TableView, "table_view")
	return name, n
}

func validateStep(i int, st *Step) error {
	name, n := st.action()
	switch {
	case n == 0:
		return fmt.Errorf("steps[%d]: no operation given", i)
	case n > 1:
		return fmt.Errorf("steps[%d]: exactly one operation per step, got %d", i, n)
	}

	switch name {
	case "advance":
		if _, err := time.ParseDuration(st.Advance); err != nil {
			return fmt.Errorf("steps[%d].advance: %w", i, err)
		}
	case "set_time":
		if _, err := time.Parse(time.RFC3339, st.SetTime); err != nil {
			return fmt.Errorf("steps[%d].set_time: %w", i, err)
		}
	case "begin_selection":
		if _, err := selection.ParseScope(st.BeginSelection); err != nil {
			return fmt.Errorf("steps[%d].begin_selection: %w", i, err)
		}
	case "toggle":
		if _, err := selection.ParseScope(st.Toggle.Scope); err != nil {
			return fmt.Errorf("steps[%d].toggle: %w", i, err)
		}
		if st.Toggle.ID == "" {
			return fmt.Errorf("steps[%d].toggle: id is required", i)
		}
	case "export", "print":
		h := st.Export
		if name == "print" {
			h = st.Print
		}
		if err := validateHandoff(h, name == "export"); err != nil {
			return fmt.Errorf("steps[%d].%s: %w", i, name, err)
		}
	}

	if st.Expect != nil && st.Expect.Error != "" &&
		st.Expect.Error != ExpectValidationError && st.Expect.Error != ExpectStorageError {
		return fmt.Errorf("steps[%d].expect: unknown error kind %q", i, st.Expect.Error)
	}
	return nil
}

func validateHandoff(h *HandoffStep, export bool) error {
	target, err := app.ParseTarget(h.Target)
	if err != nil {
		return err
	}
	if target == app.TargetAll {
		if _, err := record.ParseMode(h.Mode); err != nil {
			return err
		}
	}
	if export && h.Format != "" {
		if _, err := app.ParseFormat(h.Format); err != nil {
			return err
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	switch a.Type {
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	case AssertCartStatus:
		if a.Cart == nil {
			return fmt.Errorf("assertions[%d]: cart_status requires cart", index)
		}
		if a.Status == "" {
			return fmt.Errorf("assertions[%d]: cart_status requires status", index)
		}
	case AssertAlerts, AssertAlertCount, AssertArtifactCount, AssertRecordCount:
	case AssertSelection:
		if a.Scope != "" {
			if _, err := selection.ParseScope(a.Scope); err != nil {
				return fmt.Errorf("assertions[%d]: %w", index, err)
			}
		}
	case AssertListCount:
		if _, err := selection.ParseScope(a.Scope); err != nil {
			return fmt.Errorf("assertions[%d]: list_count: %w", index, err)
		}
	case AssertArtifact:
		if a.Name == "" {
			return fmt.Errorf("assertions[%d]: artifact requires name", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown type %q", index, a.Type)
	}
	return nil
}
