package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/theaarondumas/unitflow/internal/app"
	"github.com/theaarondumas/unitflow/internal/config"
	"github.com/theaarondumas/unitflow/internal/export"
	"github.com/theaarondumas/unitflow/internal/record"
	"github.com/theaarondumas/unitflow/internal/store"
	"github.com/theaarondumas/unitflow/internal/window"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"; empty defers to config
	ConfigFile string
	DB         string
	Timezone   string
	ExportDir  string

	// Clock and IDs replace the wall clock and UUIDv7 ids (for testing).
	Clock window.Clock
	IDs   record.IDGenerator

	cfg *config.Config
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{config.FormatText, config.FormatJSON}

// NewRootCommand creates the root command for the UnitFlow CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unitflow",
		Short: "UnitFlow - supply room and crash cart log",
		Long: `UnitFlow logs supply-room restocks and crash-cart checks on one device,
derives crash cart freshness from the latest recorded expiration dates,
and exports or prints batches of entries.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.Format != "" && !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			_, err := opts.load(cmd)
			return err
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "", "output format (json|text, default text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigFile, "config", "", "config file (default ./unitflow.yaml or $HOME/.config/unitflow/unitflow.yaml)")
	cmd.PersistentFlags().StringVar(&opts.DB, "db", "", "SQLite database path (default unitflow.db)")
	cmd.PersistentFlags().StringVar(&opts.Timezone, "timezone", "", "IANA time zone for today/this week (default Local)")
	cmd.PersistentFlags().StringVar(&opts.ExportDir, "export-dir", "", "directory export and print files are written to (default .)")

	cmd.AddCommand(NewSupplyCommand(opts))
	cmd.AddCommand(NewCrashCommand(opts))
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewAlertsCommand(opts))
	cmd.AddCommand(NewCartsCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))
	cmd.AddCommand(NewPrintCommand(opts))
	cmd.AddCommand(NewPurgeCommand(opts))
	cmd.AddCommand(NewLocationsCommand(opts))
	cmd.AddCommand(NewAuthorCommand(opts))
	cmd.AddCommand(NewImportCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))
	cmd.AddCommand(NewShellCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// load resolves the configuration once per process and installs the
// default logger. Values set on opts override the config file and
// environment.
func (o *RootOptions) load(cmd *cobra.Command) (config.Config, error) {
	if o.cfg != nil {
		return *o.cfg, nil
	}

	v := config.New(o.ConfigFile)
	overrides := map[string]string{
		config.KeyDB:        o.DB,
		config.KeyTimezone:  o.Timezone,
		config.KeyExportDir: o.ExportDir,
		config.KeyFormat:    o.Format,
	}
	for key, value := range overrides {
		if value != "" {
			v.Set(key, value)
		}
	}
	if o.Verbose {
		v.Set(config.KeyVerbose, true)
	}

	cfg, err := config.Load(v)
	if err != nil {
		return config.Config{}, WrapExitError(ExitCommandError, "load config", err)
	}
	o.cfg = &cfg
	o.Format = cfg.Format
	o.Verbose = cfg.Verbose

	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))

	if used := config.ConfigFileUsed(v); used != "" {
		slog.Debug("config loaded", "file", used)
	}
	return cfg, nil
}

// formatter returns an OutputFormatter bound to cmd's writers.
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}

// openApp opens the configured database and builds the application
// context around it. The returned func closes the database.
func (o *RootOptions) openApp(cmd *cobra.Command) (*app.App, func(), error) {
	cfg, err := o.load(cmd)
	if err != nil {
		return nil, nil, err
	}

	st, err := store.Open(cfg.DB)
	if err != nil {
		return nil, nil, WrapExitError(ExitCommandError, "open database", err)
	}
	slog.Debug("database opened", "path", cfg.DB, "timezone", cfg.Location().String())

	appOpts := []app.Option{
		app.WithLocation(cfg.Location()),
		app.WithLogger(slog.Default()),
	}
	if o.Clock != nil {
		appOpts = append(appOpts, app.WithClock(o.Clock))
	}
	if o.IDs != nil {
		appOpts = append(appOpts, app.WithIDGenerator(o.IDs))
	}

	a := app.New(st, export.FileSink{Dir: cfg.ExportDir}, appOpts...)
	closeFn := func() {
		if err := st.Close(); err != nil {
			slog.Warn("close database", "path", cfg.DB, "error", err)
		}
	}
	return a, closeFn, nil
}

// parseMode wraps record.ParseMode with a command error.
func parseMode(s string) (record.Mode, error) {
	mode, err := record.ParseMode(s)
	if err != nil {
		return "", WrapExitError(ExitCommandError, "invalid mode", err)
	}
	return mode, nil
}
