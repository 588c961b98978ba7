package cli

import (
	"github.com/spf13/cobra"

	"github.com/theaarondumas/unitflow/internal/app"
)

// ExportOptions holds flags for the export command.
type ExportOptions struct {
	*RootOptions
	XLSX bool
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "export <supply|crash>",
		Short: "Export every entry of a mode as CSV (or XLSX)",
		Long: `Export the full history of one mode, oldest first, to
unitflow_<mode>_all_<date>.csv in the export directory.

Exporting a selection is done from the shell command, which keeps a
selection session open across commands.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, opts, args[0])
		},
	}

	cmd.Flags().BoolVar(&opts.XLSX, "xlsx", false, "write an Excel workbook instead of CSV")

	return cmd
}

func runExport(cmd *cobra.Command, opts *ExportOptions, modeArg string) error {
	mode, err := parseMode(modeArg)
	if err != nil {
		return err
	}

	a, closeFn, err := opts.openApp(cmd)
	if err != nil {
		return err
	}
	defer closeFn()

	format := app.FormatCSV
	if opts.XLSX {
		format = app.FormatXLSX
	}

	art, delivered, err := a.RequestExport(cmd.Context(), app.TargetAll, mode, format)
	out := opts.formatter(cmd)
	if err != nil {
		return out.Fail("export", err)
	}
	if out.JSON() {
		return out.Success(newHandoffResult(art, delivered, opts.cfg.ExportDir))
	}
	return out.Success(handoffText(art, delivered, opts.cfg.ExportDir))
}

// NewPrintCommand creates the print command.
func NewPrintCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "print <supply|crash>",
		Short: "Write a printable HTML table of every entry of a mode",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := parseMode(args[0])
			if err != nil {
				return err
			}

			a, closeFn, err := rootOpts.openApp(cmd)
			if err != nil {
				return err
			}
			defer closeFn()

			art, delivered, err := a.RequestPrint(cmd.Context(), app.TargetAll, mode)
			out := rootOpts.formatter(cmd)
			if err != nil {
				return out.Fail("print", err)
			}
			if out.JSON() {
				return out.Success(newHandoffResult(art, delivered, rootOpts.cfg.ExportDir))
			}
			return out.Success(handoffText(art, delivered, rootOpts.cfg.ExportDir))
		},
	}
}
