// Package store opens the bun database handle used by the SQL backed finders.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/schema"

	"github.com/goliatone/go-repository-kit/pkg/logger"
)

// Supported drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

// ErrUnsupportedDriver is returned by Open for drivers other than
// DriverPostgres and DriverSQLite.
var ErrUnsupportedDriver = errors.New("unsupported database driver")

// Config holds the connection settings.
type Config struct {
	Driver string `mapstructure:"driver" env:"DRIVER"`
	DSN    string `mapstructure:"dsn" env:"DSN"`
}

// Validate checks that the driver is known and a DSN is given.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Driver, validation.Required, validation.In(DriverPostgres, DriverSQLite)),
		validation.Field(&c.DSN, validation.Required),
	)
}

// Open connects to the configured database, pings it and returns a bun.DB
// using the dialect matching the driver.
func Open(ctx context.Context, cfg Config, log *logger.Logger) (*bun.DB, error) {
	log = logger.OrNop(log)

	dialect, err := dialectFor(cfg.Driver)
	if err != nil {
		log.Err(err).Str("driver", cfg.Driver).Msg("error selecting dialect")
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		log.Err(err).Msg("invalid database configuration")
		return nil, fmt.Errorf("invalid database configuration: %w", err)
	}

	conn, err := sql.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		log.Err(err).Str("driver", cfg.Driver).Msg("error opening database connection")
		return nil, fmt.Errorf("error opening connection to DB: %w", err)
	}

	if err := conn.PingContext(ctx); err != nil {
		log.Err(err).Str("driver", cfg.Driver).Msg("error connecting database (ping)")
		_ = conn.Close()
		return nil, fmt.Errorf("error connecting to DB: %w", err)
	}
	log.Debug().Str("driver", cfg.Driver).Msg("connected to database successfully")

	return bun.NewDB(conn, dialect), nil
}

func dialectFor(driver string) (schema.Dialect, error) {
	switch driver {
	case DriverPostgres:
		return pgdialect.New(), nil
	case DriverSQLite:
		return sqlitedialect.New(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}
}
