package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/theaarondumas/unitflow/internal/harness"
)

// TestOptions holds flags for the test command.
type TestOptions struct {
	*RootOptions
	Update bool
	Filter string // glob on the scenario file name
}

// ScenarioResult is the outcome of one scenario file.
type ScenarioResult struct {
	Name   string   `json:"name"`
	Pass   bool     `json:"pass"`
	Errors []string `json:"errors,omitempty"`

	updated bool
}

// TestResult aggregates a test run.
type TestResult struct {
	Scenarios []ScenarioResult `json:"scenarios"`
	Passed    int              `json:"passed"`
	Failed    int              `json:"failed"`
	Total     int              `json:"total"`
}

// NewTestCommand creates the test command.
func NewTestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "test <scenarios-dir>",
		Short: "Run YAML scenarios against a scratch database",
		Long: `Replay scenario files against an in-memory database on a fixed clock.
Each step's expectation and every final assertion must hold.

A scenario with a trace at <scenarios-dir>/golden/<name>.golden must
reproduce it exactly; --update writes the current traces instead.

Exit status is 0 when every scenario passes, 1 when any fails and 2
when the directory or filter is unusable.

Examples:
  unitflow test ./scenarios
  unitflow test ./scenarios --filter "crash_*"
  unitflow test ./scenarios --update --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, args[0])
		},
	}

	cmd.Flags().BoolVar(&opts.Update, "update", false, "rewrite golden traces from this run")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "only run scenario files matching this glob")

	return cmd
}

func (o *TestOptions) run(cmd *cobra.Command, dir string) error {
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		return NewExitError(ExitCommandError, "scenarios directory not found: "+dir)
	}

	files, err := findScenarioFiles(dir, o.Filter)
	if err != nil {
		return WrapExitError(ExitCommandError, "find scenarios", err)
	}

	// Text mode streams a line per scenario; JSON waits for the summary.
	var progress io.Writer = io.Discard
	if o.Format != "json" {
		progress = cmd.OutOrStdout()
	}

	res := TestResult{Scenarios: []ScenarioResult{}, Total: len(files)}
	for _, file := range files {
		sr := o.runScenario(file)
		if sr.Pass {
			res.Passed++
			suffix := ""
			if sr.updated {
				suffix = " (golden updated)"
			}
			fmt.Fprintf(progress, "✓ %s%s\n", sr.Name, suffix)
		} else {
			res.Failed++
			fmt.Fprintf(progress, "✗ %s\n", sr.Name)
			for _, e := range sr.Errors {
				fmt.Fprintf(progress, "  %s\n", e)
			}
		}
		res.Scenarios = append(res.Scenarios, sr)
	}

	if err := o.summarize(cmd, res); err != nil {
		return err
	}
	if res.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d of %d scenarios failed", res.Failed, res.Total))
	}
	return nil
}

func (o *TestOptions) summarize(cmd *cobra.Command, res TestResult) error {
	if o.Format == "json" {
		status := "ok"
		if res.Failed > 0 {
			status = "error"
		}
		return o.formatter(cmd).respond(CLIResponse{Status: status, Data: res})
	}

	w := cmd.OutOrStdout()
	switch {
	case res.Total == 0:
		fmt.Fprintln(w, "No scenarios found.")
	case res.Failed == 0:
		fmt.Fprintf(w, "\nAll %d scenarios passed.\n", res.Total)
	default:
		fmt.Fprintf(w, "\n%d passed, %d failed, %d total\n", res.Passed, res.Failed, res.Total)
	}
	return nil
}

// findScenarioFiles lists .yaml and .yml files below dir in lexical order,
// skipping golden/ directories.
func findScenarioFiles(dir, filter string) ([]string, error) {
	if filter != "" {
		if _, err := filepath.Match(filter, "probe.yaml"); err != nil {
			return nil, fmt.Errorf("invalid filter pattern %q: %w", filter, err)
		}
	}

	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		switch {
		case err != nil:
			return err
		case d.IsDir():
			if path != dir && d.Name() == "golden" {
				return filepath.SkipDir
			}
			return nil
		}

		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
		default:
			return nil
		}
		if filter != "" {
			if ok, _ := filepath.Match(filter, d.Name()); !ok {
				return nil
			}
		}
		files = append(files, path)
		return nil
	})
	return files, err
}

// runScenario loads and replays one file. A file that fails to load is
// reported under its base name.
func (o *TestOptions) runScenario(file string) ScenarioResult {
	failed := func(name string, errs ...string) ScenarioResult {
		return ScenarioResult{Name: name, Errors: errs}
	}

	scenario, err := harness.LoadScenario(file)
	if err != nil {
		return failed(filepath.Base(file), "load error: "+err.Error())
	}
	name := scenario.Name

	result, err := harness.Run(scenario)
	if err != nil {
		return failed(name, "execution error: "+err.Error())
	}
	trace, err := harness.EncodeTrace(name, result)
	if err != nil {
		return failed(name, "encode trace: "+err.Error())
	}

	golden := goldenFilePath(file)
	if o.Update {
		if err := writeGolden(golden, trace); err != nil {
			return failed(name, "golden update error: "+err.Error())
		}
	} else {
		want, err := os.ReadFile(golden)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return failed(name, "read golden: "+err.Error())
		case !bytes.Equal(want, trace):
			msg := "trace does not match golden file (run with --update to regenerate)"
			return failed(name, append([]string{msg}, result.Errors...)...)
		}
	}

	if !result.Pass {
		return failed(name, result.Errors...)
	}
	return ScenarioResult{Name: name, Pass: true, updated: o.Update}
}

// goldenFilePath maps dir/x.yaml to dir/golden/x.golden.
func goldenFilePath(scenarioFile string) string {
	dir, base := filepath.Split(scenarioFile)
	return filepath.Join(dir, "golden", strings.TrimSuffix(base, filepath.Ext(base))+".golden")
}

func writeGolden(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create golden directory: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
