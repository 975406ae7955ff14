// CLAUDE:SUMMARY Read-only handle on the annotation database (SQLite or PostgreSQL) with full-scan accessors.
// Package store reads line annotations and collection dates from the
// annotation database.
package store

import (
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/deloro-project/rocc-pipelines/dbopen"
)

// Config selects the database and the queries run against it.
type Config struct {
	// Driver is "sqlite" or "postgres" (default "postgres").
	Driver string `yaml:"driver"`
	// DSN is a SQLite path or a lib/pq connection string. When empty for
	// PostgreSQL, it is built from Postgres.
	DSN      string                `yaml:"dsn"`
	Postgres dbopen.PostgresParams `yaml:"postgres"`

	// LinesQuery must return (id, collection id, text) rows, one per line.
	LinesQuery string `yaml:"lines_query"`
	// CollectionsQuery must return (collection id, year) rows.
	CollectionsQuery string `yaml:"collections_query"`

	// Limit caps the number of lines read; 0 reads everything.
	Limit int `yaml:"limit"`
}

// Defaults fills zero values.
func (c *Config) Defaults() {
	if c.Driver == "" {
		c.Driver = dbopen.DriverPostgres
	}
	if c.Driver == dbopen.DriverPostgres && c.Postgres.Port == 0 {
		c.Postgres.Port = 5432
	}
	if c.LinesQuery == "" {
		c.LinesQuery = DefaultLinesQuery
	}
	if c.CollectionsQuery == "" {
		c.CollectionsQuery = DefaultCollectionsQuery
	}
}

// Validate checks the configuration after Defaults.
func (c *Config) Validate() error {
	switch c.Driver {
	case dbopen.DriverSQLite:
		if c.DSN == "" {
			return errors.New("store: sqlite source needs a dsn (database path)")
		}
	case dbopen.DriverPostgres:
		if c.DSN == "" && c.Postgres.Host == "" {
			return errors.New("store: postgres source needs a dsn or a host")
		}
	default:
		return fmt.Errorf("store: unsupported driver %q", c.Driver)
	}
	if c.Limit < 0 {
		return fmt.Errorf("store: negative limit %d", c.Limit)
	}
	return nil
}

// ConnString returns the DSN handed to the driver.
func (c *Config) ConnString() string {
	if c.DSN != "" || c.Driver != dbopen.DriverPostgres {
		return c.DSN
	}
	return dbopen.PostgresDSN(c.Postgres)
}

// Store is a read-only handle on the annotation database.
type Store struct {
	DB  *sql.DB
	cfg Config
}

// Open connects to the database described by cfg. SQLite files are opened
// read-only.
func Open(cfg Config, opts ...dbopen.Option) (*Store, error) {
	cfg.Defaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	allOpts := []dbopen.Option{dbopen.WithDriver(cfg.Driver)}
	if cfg.Driver == dbopen.DriverSQLite {
		allOpts = append(allOpts, dbopen.WithReadOnly())
	}
	db, err := dbopen.Open(cfg.ConnString(), append(allOpts, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}
	return &Store{DB: db, cfg: cfg}, nil
}

// New wraps an open database.
func New(db *sql.DB, cfg Config) *Store {
	cfg.Defaults()
	return &Store{DB: db, cfg: cfg}
}

// Close closes the database.
func (s *Store) Close() error {
	return s.DB.Close()
}
