package harness

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// goldenTrace is the document stored per scenario under golden/.
type goldenTrace struct {
	ScenarioName string       `json:"scenario_name"`
	Pass         bool         `json:"pass"`
	Trace        []TraceEvent `json:"trace"`
}

// EncodeTrace renders the step trace of result as two-space indented JSON
// ending in a newline. Location names carry "&" and "–", so HTML escaping
// is off.
func EncodeTrace(name string, result *Result) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	err := enc.Encode(goldenTrace{ScenarioName: name, Pass: result.Pass, Trace: result.Trace})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// CheckGolden runs scenario and fails t when its trace differs from
// testdata/golden/<name>.golden. Pass -update to go test to rewrite it.
func CheckGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}
	data, err := EncodeTrace(scenario.Name, result)
	if err != nil {
		return err
	}
	goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	).Assert(t, scenario.Name, data)
	return nil
}
