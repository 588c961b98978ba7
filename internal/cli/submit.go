package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/theaarondumas/unitflow/internal/app"
	"github.com/theaarondumas/unitflow/internal/record"
)

// PHIWarning is printed after a supply entry whose text looks like patient
// information.
const PHIWarning = "Warning: notes or unit may contain patient information. Stored as entered."

// NewSupplyCommand creates the supply command.
func NewSupplyCommand(rootOpts *RootOptions) *cobra.Command {
	var f record.SupplyFields

	cmd := &cobra.Command{
		Use:   "supply",
		Short: "Log a supply-room entry",
		Long: `Log a supply-room restock entry.

Supply entries are never rejected; fields are trimmed and stored as typed.
An empty --author falls back to the last author used on this device.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSupply(cmd, rootOpts, f)
		},
	}

	cmd.Flags().StringVar(&f.Author, "author", "", "who is logging the entry")
	cmd.Flags().StringVar(&f.Shift, "shift", "", "shift (e.g. Day, Night)")
	cmd.Flags().StringVar(&f.Unit, "unit", "", "unit or area")
	cmd.Flags().StringVar(&f.Type, "type", record.DefaultSupplyType, "entry type")
	cmd.Flags().StringVar(&f.Severity, "severity", string(record.DefaultSeverity), "severity (High|Medium|Low)")
	cmd.Flags().StringVar(&f.Qty, "qty", "", "quantity (free form)")
	cmd.Flags().StringVar(&f.Notes, "notes", "", "notes")

	return cmd
}

func runSupply(cmd *cobra.Command, opts *RootOptions, f record.SupplyFields) error {
	a, closeFn, err := opts.openApp(cmd)
	if err != nil {
		return err
	}
	defer closeFn()

	sub, err := a.SubmitSupply(cmd.Context(), f)
	out := opts.formatter(cmd)
	if err != nil {
		return out.Fail("supply entry not saved", err)
	}
	if out.JSON() {
		return out.Success(sub)
	}
	return out.Success(supplyText(sub))
}

func supplyText(sub app.Submission) string {
	text := fmt.Sprintf("Logged supply entry %s", sub.Record.ID)
	if sub.PHILikely {
		text += "\n" + PHIWarning
	}
	return text
}

// NewCrashCommand creates the crash command.
func NewCrashCommand(rootOpts *RootOptions) *cobra.Command {
	var f record.CrashFields

	cmd := &cobra.Command{
		Use:   "crash",
		Short: "Log a crash cart check",
		Long: `Log a crash cart check.

--location, --cart, --reason and --checked-by are required. An empty
--checked-by falls back to the last author used on this device. Dates are
YYYY-MM-DD; the newest --central-new and --med-new recorded for a cart
drive its status and alerts.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCrash(cmd, rootOpts, f)
		},
	}

	cmd.Flags().StringVar(&f.CartType, "cart-type", record.DefaultCartType, "cart type (e.g. Adult, Pediatric)")
	cmd.Flags().StringVar(&f.Location, "location", "", "cart location")
	cmd.Flags().StringVar(&f.CartNumber, "cart", "", "cart number")
	cmd.Flags().StringVar(&f.Reason, "reason", record.DefaultReason, "reason for the check")
	cmd.Flags().StringVar(&f.CentralOld, "central-old", "", "previous central supply expiration (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.CentralNew, "central-new", "", "new central supply expiration (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.MedOld, "med-old", "", "previous med box expiration (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.MedNew, "med-new", "", "new med box expiration (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.CheckedBy, "checked-by", "", "who checked the cart")
	cmd.Flags().StringVar(&f.Seal, "seal", "", "seal number")
	cmd.Flags().StringVar(&f.Notes, "notes", "", "notes")

	return cmd
}

func runCrash(cmd *cobra.Command, opts *RootOptions, f record.CrashFields) error {
	a, closeFn, err := opts.openApp(cmd)
	if err != nil {
		return err
	}
	defer closeFn()

	r, err := a.SubmitCrash(cmd.Context(), f)
	out := opts.formatter(cmd)
	if err != nil {
		return out.Fail("crash entry rejected", err)
	}
	if out.JSON() {
		return out.Success(r)
	}
	return out.Success(crashText(r))
}

func crashText(r record.Record) string {
	text := fmt.Sprintf("Logged crash cart check %s: %s", r.ID, r.Key().Label())
	if record.RequiresExpiration(r.Reason) && r.CentralNew == "" && r.MedNew == "" {
		text += fmt.Sprintf("\nNote: %q usually records new expiration dates.", r.Reason)
	}
	return text
}

// supplyFieldRefs and crashFieldRefs name the form fields accepted as
// key=value pairs by the shell.
func supplyFieldRefs(f *record.SupplyFields) map[string]*string {
	return map[string]*string{
		"author":   &f.Author,
		"shift":    &f.Shift,
		"unit":     &f.Unit,
		"type":     &f.Type,
		"severity": &f.Severity,
		"qty":      &f.Qty,
		"notes":    &f.Notes,
	}
}

func crashFieldRefs(f *record.CrashFields) map[string]*string {
	return map[string]*string{
		"cart_type":   &f.CartType,
		"location":    &f.Location,
		"cart":        &f.CartNumber,
		"reason":      &f.Reason,
		"central_old": &f.CentralOld,
		"central_new": &f.CentralNew,
		"med_old":     &f.MedOld,
		"med_new":     &f.MedNew,
		"checked_by":  &f.CheckedBy,
		"seal":        &f.Seal,
		"notes":       &f.Notes,
	}
}

// assignFields applies key=value pairs to refs. Dashes in keys are read as
// underscores.
func assignFields(refs map[string]*string, pairs []string) error {
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			return fmt.Errorf("expected key=value, got %q", pair)
		}
		ref, known := refs[strings.ReplaceAll(strings.ToLower(key), "-", "_")]
		if !known {
			return fmt.Errorf("unknown field %q (known: %s)", key, strings.Join(fieldNames(refs), ", "))
		}
		*ref = value
	}
	return nil
}

func fieldNames(refs map[string]*string) []string {
	names := make([]string, 0, len(refs))
	for name := range refs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
