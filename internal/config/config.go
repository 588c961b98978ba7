// Package config loads UnitFlow settings.
//
// Precedence, lowest first: built-in defaults, an optional unitflow.yaml
// (searched in the working directory and $HOME/.config/unitflow),
// UNITFLOW_* environment variables, then any flags bound by the caller.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Keys understood by Load.
const (
	KeyDB        = "db"
	KeyTimezone  = "timezone"
	KeyExportDir = "export_dir"
	KeyFormat    = "format"
	KeyVerbose   = "verbose"
)

// EnvPrefix prefixes environment overrides, e.g. UNITFLOW_DB.
const EnvPrefix = "UNITFLOW"

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Config is the resolved configuration.
type Config struct {
	DB        string `mapstructure:"db"`
	Timezone  string `mapstructure:"timezone"`
	ExportDir string `mapstructure:"export_dir"`
	Format    string `mapstructure:"format"`
	Verbose   bool   `mapstructure:"verbose"`

	location *time.Location
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		DB:        "unitflow.db",
		Timezone:  "Local",
		ExportDir: ".",
		Format:    FormatText,
		location:  time.Local,
	}
}

// Location returns the time zone used for "today" and "this week".
func (c Config) Location() *time.Location {
	if c.location == nil {
		return time.Local
	}
	return c.location
}

// New returns a viper instance with defaults, search paths and environment
// binding set up. When file is non-empty it is the only config file read
// and must exist.
func New(file string) *viper.Viper {
	v := viper.New()

	d := Default()
	v.SetDefault(KeyDB, d.DB)
	v.SetDefault(KeyTimezone, d.Timezone)
	v.SetDefault(KeyExportDir, d.ExportDir)
	v.SetDefault(KeyFormat, d.Format)
	v.SetDefault(KeyVerbose, d.Verbose)

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("unitflow")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/unitflow")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the config file (a missing file is fine unless it was named
// explicitly) and resolves the configuration.
func Load(v *viper.Viper) (Config, error) {
	explicit := v.ConfigFileUsed() != ""
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := Config{
		DB:        v.GetString(KeyDB),
		Timezone:  v.GetString(KeyTimezone),
		ExportDir: v.GetString(KeyExportDir),
		Format:    strings.ToLower(v.GetString(KeyFormat)),
		Verbose:   v.GetBool(KeyVerbose),
	}
	if err := cfg.resolve(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ConfigFileUsed returns the path of the file Load read, if any.
func ConfigFileUsed(v *viper.Viper) string {
	return v.ConfigFileUsed()
}

func (c *Config) resolve() error {
	if strings.TrimSpace(c.DB) == "" {
		return fmt.Errorf("invalid config: %s must not be empty", KeyDB)
	}
	if c.Format != FormatText && c.Format != FormatJSON {
		return fmt.Errorf("invalid config: %s must be json or text, got %q", KeyFormat, c.Format)
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return fmt.Errorf("invalid config: %s: %w", KeyTimezone, err)
	}
	c.location = loc
	if c.ExportDir == "" {
		c.ExportDir = "."
	}
	return nil
}
