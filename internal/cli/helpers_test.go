package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/theaarondumas/unitflow/internal/record"
	"github.com/theaarondumas/unitflow/internal/testutil"
)

// start is Wednesday 2026-03-04 10:00 UTC.
var start = time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)

// cliFixture runs commands against one temp database with a fixed clock
// and a shared id sequence, so ids are rec-001, rec-002, ... across runs.
type cliFixture struct {
	t         *testing.T
	dir       string
	db        string
	exportDir string
	clock     *testutil.FixedClock
	ids       *record.SequenceGenerator
}

func newCLIFixture(t *testing.T) *cliFixture {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })

	return &cliFixture{
		t:         t,
		dir:       dir,
		db:        filepath.Join(dir, "unitflow.db"),
		exportDir: filepath.Join(dir, "out"),
		clock:     testutil.NewFixedClock(start),
		ids:       record.NewSequenceGenerator("rec"),
	}
}

type cliRun struct {
	stdout string
	stderr string
	err    error
}

// run executes the root command with the fixture's database, export
// directory and UTC time zone prepended to args.
func (f *cliFixture) run(args ...string) cliRun {
	return f.runWithInput("", args...)
}

func (f *cliFixture) runWithInput(stdin string, args ...string) cliRun {
	f.t.Helper()
	opts := &RootOptions{Clock: f.clock, IDs: f.ids}
	cmd := newRootCommand(opts)

	out := &bytes.Buffer{}
	errBuf := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errBuf)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--db", f.db, "--export-dir", f.exportDir, "--timezone", "UTC"}, args...))

	err := cmd.Execute()
	return cliRun{stdout: out.String(), stderr: errBuf.String(), err: err}
}
