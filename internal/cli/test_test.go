package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const passingScenario = `name: supply_today
description: "One supply entry shows in today's list"
now: "2026-03-04T10:00:00Z"
author: Dana
steps:
  - submit_supply: { unit: 4 South, notes: gloves }
    expect: { id: rec-001, phi_likely: false }
assertions:
  - type: list_count
    scope: supply-today
    count: 1
`

const failingScenario = `name: wrong_count
description: "Asserts a record count that never happens"
now: "2026-03-04T10:00:00Z"
steps:
  - submit_supply: { notes: gloves }
assertions:
  - type: record_count
    count: 5
`

func writeScenario(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func runTestCommand(t *testing.T, format string, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewTestCommand(&RootOptions{Format: format})
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestTestCommandMissingArgs(t *testing.T) {
	_, err := runTestCommand(t, "text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg")
}

func TestTestCommandNonExistentDir(t *testing.T) {
	_, err := runTestCommand(t, "text", "/nonexistent/scenarios")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scenarios directory not found")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestTestCommandNoScenarios(t *testing.T) {
	dir := t.TempDir()

	out, err := runTestCommand(t, "text", dir)
	require.NoError(t, err)
	assert.Equal(t, "No scenarios found.\n", out)

	out, err = runTestCommand(t, "json", dir)
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"ok","data":{"scenarios":[],"passed":0,"failed":0,"total":0}}`, out)
}

func TestTestCommandRunsRepositoryScenarios(t *testing.T) {
	dir, err := filepath.Abs(filepath.Join("..", "harness", "testdata", "scenarios"))
	require.NoError(t, err)

	out, err := runTestCommand(t, "text", dir)
	require.NoError(t, err, out)
	assert.Contains(t, out, "✓ expired_central")
	assert.Contains(t, out, "✓ crash_validation")
	assert.Contains(t, out, "scenarios passed.")
	assert.NotContains(t, out, "✗")
}

func TestTestCommandFailure(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "pass.yaml", passingScenario)
	writeScenario(t, dir, "fail.yaml", failingScenario)
	writeScenario(t, dir, "broken.yml", "name: [unterminated\n")
	writeScenario(t, dir, "notes.txt", "ignored")

	out, err := runTestCommand(t, "text", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "2 of 3 scenarios failed")
	assert.Contains(t, out, "✓ supply_today")
	assert.Contains(t, out, "✗ wrong_count")
	assert.Contains(t, out, "✗ broken.yml")
	assert.Contains(t, out, "1 passed, 2 failed, 3 total")

	out, err = runTestCommand(t, "json", dir)
	require.Error(t, err)

	var resp struct {
		Status string     `json:"status"`
		Data   TestResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, 3, resp.Data.Total)
	assert.Equal(t, 1, resp.Data.Passed)
	assert.Equal(t, 2, resp.Data.Failed)
}

func TestTestCommandFilter(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "pass.yaml", passingScenario)
	writeScenario(t, dir, "fail.yaml", failingScenario)

	out, err := runTestCommand(t, "text", dir, "--filter", "pass*")
	require.NoError(t, err)
	assert.Contains(t, out, "All 1 scenarios passed.")
	assert.NotContains(t, out, "wrong_count")

	_, err = runTestCommand(t, "text", dir, "--filter", "[")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestTestCommandGoldenUpdateAndCompare(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "supply.yaml", passingScenario)
	goldenPath := filepath.Join(dir, "golden", "supply.golden")

	out, err := runTestCommand(t, "text", dir, "--update")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ supply_today (golden updated)")

	golden, err := os.ReadFile(goldenPath)
	require.NoError(t, err)
	assert.Contains(t, string(golden), `"scenario_name": "supply_today"`)
	assert.Contains(t, string(golden), `"record": "rec-001"`)

	out, err = runTestCommand(t, "text", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ supply_today\n")

	require.NoError(t, os.WriteFile(goldenPath, []byte("{}\n"), 0o644))
	out, err = runTestCommand(t, "text", dir)
	require.Error(t, err)
	assert.Contains(t, out, "trace does not match golden file")
}
