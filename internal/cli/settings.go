package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// NewPurgeCommand creates the purge command.
func NewPurgeCommand(rootOpts *RootOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete every logged entry",
		Long: `Delete every supply and crash entry on this device. The saved author
and location list are kept. Requires --yes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return NewExitError(ExitCommandError, "refusing to delete all entries without --yes")
			}

			a, closeFn, err := rootOpts.openApp(cmd)
			if err != nil {
				return err
			}
			defer closeFn()

			out := rootOpts.formatter(cmd)
			if err := a.ClearAll(cmd.Context()); err != nil {
				return out.Fail("purge", err)
			}
			if out.JSON() {
				return out.Success(map[string]bool{"cleared": true})
			}
			return out.Success("All entries deleted.")
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "confirm deleting every entry")

	return cmd
}

// NewLocationsCommand creates the locations command.
func NewLocationsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "locations",
		Short: "Show the crash cart location list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, closeFn, err := rootOpts.openApp(cmd)
			if err != nil {
				return err
			}
			defer closeFn()

			locations, err := a.Locations(cmd.Context())
			out := rootOpts.formatter(cmd)
			if err != nil {
				return out.Fail("load locations", err)
			}
			if out.JSON() {
				return out.Success(locations)
			}
			return out.Success(strings.Join(locations, "\n"))
		},
	}

	cmd.AddCommand(newLocationsSetCommand(rootOpts))
	return cmd
}

func newLocationsSetCommand(rootOpts *RootOptions) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "set [location...]",
		Short: "Replace the location list",
		Long: `Replace the location list with the given names, in order, or with the
YAML list in --file. Saving an empty list restores the defaults.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			locations := args
			if file != "" {
				if len(args) > 0 {
					return NewExitError(ExitCommandError, "give locations as arguments or --file, not both")
				}
				var err error
				locations, err = readLocationsFile(file)
				if err != nil {
					return WrapExitError(ExitCommandError, "read locations", err)
				}
			}

			a, closeFn, err := rootOpts.openApp(cmd)
			if err != nil {
				return err
			}
			defer closeFn()

			out := rootOpts.formatter(cmd)
			if err := a.SetLocations(cmd.Context(), locations); err != nil {
				return out.Fail("save locations", err)
			}
			saved, err := a.Locations(cmd.Context())
			if err != nil {
				return out.Fail("load locations", err)
			}
			if out.JSON() {
				return out.Success(saved)
			}
			return out.Success(fmt.Sprintf("Saved %d locations.", len(saved)))
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "YAML file containing a list of location names")

	return cmd
}

// readLocationsFile reads a YAML sequence of strings.
func readLocationsFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var locations []string
	if err := yaml.Unmarshal(data, &locations); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return locations, nil
}

// NewAuthorCommand creates the author command.
func NewAuthorCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "author [name]",
		Short: "Show or set the saved author",
		Long: `Show the saved author, or save a new one. The saved author fills in an
empty supply author or crash checked-by.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, closeFn, err := rootOpts.openApp(cmd)
			if err != nil {
				return err
			}
			defer closeFn()

			out := rootOpts.formatter(cmd)
			if len(args) == 1 {
				if err := a.SetAuthor(cmd.Context(), args[0]); err != nil {
					return out.Fail("save author", err)
				}
			}
			author, err := a.Author(cmd.Context())
			if err != nil {
				return out.Fail("load author", err)
			}
			if out.JSON() {
				return out.Success(map[string]string{"author": author})
			}
			if author == "" {
				return out.Success("No author saved.")
			}
			return out.Success(author)
		},
	}
}

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.json>",
		Short: "Import entries exported from the browser version",
		Long: `Import a JSON array of entries in the browser storage layout. Malformed
entries are skipped and ids already present are left alone.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return WrapExitError(ExitCommandError, "read import file", err)
			}

			a, closeFn, err := rootOpts.openApp(cmd)
			if err != nil {
				return err
			}
			defer closeFn()

			res, err := a.ImportLegacy(cmd.Context(), data)
			out := rootOpts.formatter(cmd)
			if err != nil {
				return out.Fail("import", err)
			}
			if out.JSON() {
				return out.Success(res)
			}
			return out.Success(importText(res))
		},
	}
}
