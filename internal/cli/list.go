package cli

import (
	"github.com/spf13/cobra"

	"github.com/theaarondumas/unitflow/internal/window"
)

// ListOptions holds flags for the list command.
type ListOptions struct {
	*RootOptions
	Week bool
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list <supply|crash>",
		Short: "Show today's or this week's entries",
		Long: `Show the entries logged today (or this week with --week), newest first.

Crash entries carry the current status of their cart, derived from the
whole crash history.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, opts, args[0])
		},
	}

	cmd.Flags().BoolVar(&opts.Week, "week", false, "show this week (since Monday) instead of today")

	return cmd
}

func runList(cmd *cobra.Command, opts *ListOptions, modeArg string) error {
	mode, err := parseMode(modeArg)
	if err != nil {
		return err
	}

	a, closeFn, err := opts.openApp(cmd)
	if err != nil {
		return err
	}
	defer closeFn()

	w := window.Today
	if opts.Week {
		w = window.Week
	}

	board, err := a.Rendered(cmd.Context(), mode)
	out := opts.formatter(cmd)
	if err != nil {
		return out.Fail("load entries", err)
	}

	l := board.List(w)
	if out.JSON() {
		return out.Success(l)
	}
	writeList(out.Writer, l)
	return nil
}

// NewAlertsCommand creates the alerts command.
func NewAlertsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "alerts",
		Short: "Show crash cart components expired or expiring within 30 days",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, closeFn, err := rootOpts.openApp(cmd)
			if err != nil {
				return err
			}
			defer closeFn()

			alerts, err := a.CurrentAlerts(cmd.Context())
			out := rootOpts.formatter(cmd)
			if err != nil {
				return out.Fail("load alerts", err)
			}
			if out.JSON() {
				if alerts == nil {
					alerts = []string{}
				}
				return out.Success(map[string]any{"alerts": alerts})
			}
			writeAlerts(out.Writer, alerts)
			return nil
		},
	}
}

// NewCartsCommand creates the carts command.
func NewCartsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "carts",
		Short: "Show every crash cart with its latest dates and status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, closeFn, err := rootOpts.openApp(cmd)
			if err != nil {
				return err
			}
			defer closeFn()

			carts, err := a.Carts(cmd.Context())
			out := rootOpts.formatter(cmd)
			if err != nil {
				return out.Fail("load carts", err)
			}
			if out.JSON() {
				return out.Success(carts)
			}
			writeCarts(out.Writer, carts)
			return nil
		},
	}
}
