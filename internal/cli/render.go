package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/theaarondumas/unitflow/internal/app"
	"github.com/theaarondumas/unitflow/internal/export"
	"github.com/theaarondumas/unitflow/internal/selection"
	"github.com/theaarondumas/unitflow/internal/view"
)

// writeList prints a rendered list. Selected entries are marked with '*'.
func writeList(w io.Writer, l view.List) {
	fmt.Fprintf(w, "%s: %s\n", l.Scope, l.CountLabel)
	if len(l.Entries) == 0 {
		fmt.Fprintf(w, "  %s\n", l.EmptyMessage)
		return
	}
	for _, e := range l.Entries {
		mark := "-"
		if e.Selected {
			mark = "*"
		}
		fmt.Fprintf(w, "%s [%s] %s (%s)\n", mark, e.Badge, e.Title, e.ID)
		fmt.Fprintf(w, "    %s\n", e.Meta)
		if e.Detail != "" {
			fmt.Fprintf(w, "    %s\n", e.Detail)
		}
	}
}

// writeAlerts prints the alert panel.
func writeAlerts(w io.Writer, alerts []string) {
	fmt.Fprintln(w, view.AlertsHeading)
	if len(alerts) == 0 {
		fmt.Fprintln(w, "  No crash carts expired or expiring soon.")
		return
	}
	for _, line := range alerts {
		fmt.Fprintf(w, "• %s\n", line)
	}
}

// writeCarts prints one line per cart, most recently checked first.
func writeCarts(w io.Writer, carts []view.Cart) {
	if len(carts) == 0 {
		fmt.Fprintln(w, "No crash carts logged yet.")
		return
	}
	fmt.Fprintf(w, "%-10s  %-10s  %-10s  %6s  %s\n", "STATUS", "CENTRAL", "MED", "CHECKS", "CART")
	for _, c := range carts {
		fmt.Fprintf(w, "%-10s  %-10s  %-10s  %6d  %s\n",
			c.Status, orDash(c.Central), orDash(c.Med), c.Checks, c.Cart)
	}
}

// writeState prints the selection session.
func writeState(w io.Writer, st selection.State, ids []string) {
	if !st.Active {
		fmt.Fprintln(w, "Not selecting.")
		return
	}
	fmt.Fprintf(w, "Selecting %s: %s\n", st.Scope, view.SelectedLabel(st.Count))
	if len(ids) > 0 {
		fmt.Fprintf(w, "  %s\n", strings.Join(ids, ", "))
	}
}

// handoffText describes the outcome of an export or print request.
func handoffText(art export.Artifact, delivered bool, dir string) string {
	if !delivered {
		return "Nothing to hand off."
	}
	return fmt.Sprintf("Wrote %s", export.FileSink{Dir: dir}.Path(art))
}

// handoffResult is the JSON payload for export and print.
type handoffResult struct {
	Delivered bool             `json:"delivered"`
	Artifact  *export.Artifact `json:"artifact,omitempty"`
	Path      string           `json:"path,omitempty"`
}

func newHandoffResult(art export.Artifact, delivered bool, dir string) handoffResult {
	if !delivered {
		return handoffResult{}
	}
	return handoffResult{
		Delivered: true,
		Artifact:  &art,
		Path:      export.FileSink{Dir: dir}.Path(art),
	}
}

func importText(res app.ImportResult) string {
	return fmt.Sprintf("Imported %d, skipped %d malformed, %d already present", res.Imported, res.Skipped, res.Duplicates)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
