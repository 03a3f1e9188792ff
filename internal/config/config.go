// Package config loads the repokit application configuration.
//
// Values are layered: built-in defaults, then an optional configuration file
// (YAML, JSON or TOML, read with viper), then REPOKIT_ prefixed environment
// variables. A later layer wins for every non-zero value it sets.
package config

import (
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-repository-kit/cache"
	"github.com/goliatone/go-repository-kit/cli"
	"github.com/goliatone/go-repository-kit/internal/store"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "REPOKIT_"

// Config is the top-level configuration of the repokit binary.
type Config struct {
	// Cache configures the in-process cache engine.
	// Env: REPOKIT_CACHE_*
	Cache cache.Config `mapstructure:"cache" envPrefix:"CACHE_"`

	// Database configures the connection and table the validate commands
	// run against.
	// Env: REPOKIT_DATABASE_*
	Database Database `mapstructure:"database" envPrefix:"DATABASE_"`

	CLI CLI `mapstructure:"cli" envPrefix:"CLI_"`
	Log Log `mapstructure:"log" envPrefix:"LOG_"`
}

// Database holds the SQL finder settings.
type Database struct {
	// Driver is "postgres" or "sqlite3".
	// Env: REPOKIT_DATABASE_DRIVER
	Driver string `mapstructure:"driver" env:"DRIVER"`

	// DSN is the driver specific connection string.
	// Env: REPOKIT_DATABASE_DSN
	DSN string `mapstructure:"dsn" env:"DSN"`

	// Table is the table records are looked up in.
	// Env: REPOKIT_DATABASE_TABLE
	Table string `mapstructure:"table" env:"TABLE"`

	// Columns limits the selected columns. Empty selects every column.
	// Env: REPOKIT_DATABASE_COLUMNS (comma separated)
	Columns []string `mapstructure:"columns" env:"COLUMNS"`
}

// CLI holds the name and version reported by the application.
type CLI struct {
	Name    string `mapstructure:"name" env:"NAME"`
	Version string `mapstructure:"version" env:"VERSION"`
}

// Log holds the logger settings.
type Log struct {
	// Level is one of trace, debug, info, warn, error.
	// Env: REPOKIT_LOG_LEVEL
	Level string `mapstructure:"level" env:"LEVEL"`
}

// Store returns the connection settings for store.Open.
func (d Database) Store() store.Config {
	return store.Config{Driver: d.Driver, DSN: d.DSN}
}

// Default returns the built-in configuration layer.
func Default() Config {
	return Config{
		Cache: cache.DefaultConfig(),
		Database: Database{
			Driver: store.DriverSQLite,
			DSN:    "file:repokit.db?cache=shared",
			Table:  "users",
		},
		CLI: CLI{
			Name:    cli.DefaultName,
			Version: "dev",
		},
		Log: Log{Level: "info"},
	}
}

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// Validate checks every section.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Cache),
		validation.Field(&c.Database),
		validation.Field(&c.Log),
	)
}

// Validate checks the driver, DSN, table and column names.
func (d Database) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Driver, validation.Required, validation.In(store.DriverPostgres, store.DriverSQLite)),
		validation.Field(&d.DSN, validation.Required),
		validation.Field(&d.Table, validation.Required, validation.Match(identifierPattern)),
		validation.Field(&d.Columns, validation.Each(validation.Required, validation.Match(identifierPattern))),
	)
}

// Validate checks the level name.
func (l Log) Validate() error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.Level, validation.In("trace", "debug", "info", "warn", "error")),
	)
}
