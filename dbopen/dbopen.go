// Package dbopen opens the annotation database through database/sql.
//
// For SQLite (driver "sqlite", modernc.org/sqlite) it applies pragmas via
// EXEC after opening:
//
//	foreign_keys = ON
//	journal_mode = WAL   (skipped when read-only)
//	busy_timeout = 10000
//	synchronous  = NORMAL
//	query_only   = ON    (read-only)
//
// PostgreSQL (driver "postgres", github.com/lib/pq) gets no pragmas; the
// connection is verified with a ping.
//
// Usage:
//
//	import _ "modernc.org/sqlite"
//	db, err := dbopen.Open("rocc.db", dbopen.WithReadOnly())
//
//	import _ "github.com/lib/pq"
//	db, err := dbopen.Open(dbopen.PostgresDSN(p), dbopen.WithDriver(dbopen.DriverPostgres))
//
// In tests:
//
//	db := dbopen.OpenMemory(t)
package dbopen

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"
)

// Supported driver names.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type config struct {
	driver      string
	busyTimeout int
	synchronous string
	readOnly    bool
	mkdirAll    bool
	schemas     []string
	pingTimeout time.Duration
}

func defaults() config {
	return config{
		driver:      DriverSQLite,
		busyTimeout: 10_000,
		synchronous: "NORMAL",
		pingTimeout: 10 * time.Second,
	}
}

// Option customises Open behaviour.
type Option func(*config)

// WithDriver sets the database/sql driver name. Default: "sqlite".
func WithDriver(name string) Option { return func(c *config) { c.driver = name } }

// WithBusyTimeout sets PRAGMA busy_timeout in milliseconds. Default: 10000.
func WithBusyTimeout(ms int) Option { return func(c *config) { c.busyTimeout = ms } }

// WithSynchronous sets PRAGMA synchronous. Default: "NORMAL".
func WithSynchronous(mode string) Option { return func(c *config) { c.synchronous = mode } }

// WithReadOnly opens a SQLite database with query_only and leaves its
// journal mode alone. Pragmas are per connection, so the pool is limited to
// one connection: callers must not nest queries.
func WithReadOnly() Option { return func(c *config) { c.readOnly = true } }

// WithMkdirAll creates parent directories of a SQLite path before opening.
func WithMkdirAll() Option { return func(c *config) { c.mkdirAll = true } }

// WithSchema queues inline SQL to execute after pragmas are applied.
func WithSchema(s string) Option { return func(c *config) { c.schemas = append(c.schemas, s) } }

// WithPingTimeout bounds the connection check. Zero skips the ping.
func WithPingTimeout(d time.Duration) Option { return func(c *config) { c.pingTimeout = d } }

// Open opens dsn with the configured driver. The caller must blank-import
// the driver.
func Open(dsn string, opts ...Option) (*sql.DB, error) {
	cfg := defaults()
	for _, o := range opts {
		o(&cfg)
	}
	if dsn == "" {
		return nil, fmt.Errorf("dbopen: empty dsn")
	}

	sqlite := cfg.driver == DriverSQLite
	if sqlite && cfg.mkdirAll && dsn != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
			return nil, fmt.Errorf("dbopen: mkdir: %w", err)
		}
	}

	db, err := sql.Open(cfg.driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("dbopen: open: %w", err)
	}

	if sqlite {
		if cfg.readOnly {
			db.SetMaxOpenConns(1)
		}
		if err := applyPragmas(db, &cfg); err != nil {
			db.Close()
			return nil, err
		}
	}

	for _, s := range cfg.schemas {
		if _, err := db.Exec(s); err != nil {
			db.Close()
			return nil, fmt.Errorf("dbopen: exec schema: %w", err)
		}
	}

	if cfg.pingTimeout > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.pingTimeout)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("dbopen: ping: %w", err)
		}
	}

	return db, nil
}

// OpenMemory opens an in-memory SQLite database for testing.
// It sets MaxOpenConns(1) to ensure all queries hit the same in-memory
// database (each connection to ":memory:" creates a separate database).
// It registers t.Cleanup to close the database automatically.
func OpenMemory(t testing.TB, opts ...Option) *sql.DB {
	t.Helper()
	db, err := Open(":memory:", opts...)
	if err != nil {
		t.Fatalf("dbopen.OpenMemory: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}

func applyPragmas(db *sql.DB, cfg *config) error {
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		fmt.Sprintf("PRAGMA busy_timeout = %d", cfg.busyTimeout),
		fmt.Sprintf("PRAGMA synchronous = %s", cfg.synchronous),
	}
	if cfg.readOnly {
		pragmas = append(pragmas, "PRAGMA query_only = ON")
	} else {
		pragmas = append(pragmas, "PRAGMA journal_mode = WAL")
	}

	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("dbopen: %s: %w", p, err)
		}
	}
	return nil
}

// PostgresParams are the connection settings of a PostgreSQL server.
type PostgresParams struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

// PostgresDSN renders p as a lib/pq keyword/value connection string. Empty
// fields are left out so libpq defaults and PG* variables apply.
func PostgresDSN(p PostgresParams) string {
	var parts []string
	add := func(k, v string) {
		if v != "" {
			parts = append(parts, k+"="+quoteDSN(v))
		}
	}
	add("host", p.Host)
	if p.Port > 0 {
		add("port", strconv.Itoa(p.Port))
	}
	add("dbname", p.Name)
	add("user", p.User)
	add("password", p.Password)
	add("sslmode", p.SSLMode)
	return strings.Join(parts, " ")
}

func quoteDSN(v string) string {
	if v != "" && !strings.ContainsAny(v, ` '\`) {
		return v
	}
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`)
	return "'" + r.Replace(v) + "'"
}
