// CLAUDE:SUMMARY CLI entry point for lexii: builds the per-period vocabularies of the ROCC annotations and writes the report set.
// Command lexii builds the common lexicon of the annotated corpus.
//
// Usage:
//
//	lexii -config lexii.yaml
//	lexii -db-server db.local -db-name rocc -user reader -password secret -output-dir ./lexii
//	lexii -db rocc.db -transcripts ./transcripts -debug
//
// Flags given on the command line override the config file. A summary of
// the run is printed to stdout as JSON.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/deloro-project/rocc-pipelines/dbopen"
	"github.com/deloro-project/rocc-pipelines/lexbuild"
)

type options struct {
	configPath  string
	dbServer    string
	dbName      string
	user        string
	password    string
	port        int
	dbPath      string
	outputDir   string
	transcripts string
	anchor      int
	workers     int
	debug       bool
	archive     bool
}

func main() {
	var o options
	flag.StringVar(&o.configPath, "config", "", "path to lexii.yaml config file")
	flag.StringVar(&o.dbServer, "db-server", "", "PostgreSQL server host")
	flag.StringVar(&o.dbName, "db-name", "", "PostgreSQL database name")
	flag.StringVar(&o.user, "user", "", "PostgreSQL user")
	flag.StringVar(&o.password, "password", "", "PostgreSQL password")
	flag.IntVar(&o.port, "port", 5432, "PostgreSQL port")
	flag.StringVar(&o.dbPath, "db", "", "path to a SQLite copy of the annotation tables (instead of PostgreSQL)")
	flag.StringVar(&o.outputDir, "output-dir", "./lexii", "directory receiving the report set")
	flag.StringVar(&o.transcripts, "transcripts", "", "directory of full transcriptions, one file or folder per collection")
	flag.IntVar(&o.anchor, "anchor", 0, "start year of the reference period")
	flag.IntVar(&o.workers, "workers", 1, "normalisation workers")
	flag.BoolVar(&o.debug, "debug", false, fmt.Sprintf("read only the first %d lines", lexbuild.DebugLimit))
	flag.BoolVar(&o.archive, "archive", false, "also write <output-dir>.zip")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warning, error, critical (case-insensitive)")
	flag.Parse()

	level, err := parseLevel(*logLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if err := run(ctx, logger, o, set); err != nil {
		logger.Error("lexii: fatal", "error", err)
		os.Exit(1)
	}
}

// parseLevel accepts slog level names and the DEBUG, INFO, WARNING, ERROR
// and CRITICAL names of the original scripts, in any case. CRITICAL maps to
// error: nothing in lexii logs above it.
func parseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error", "critical":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("lexii: unknown log level %q (debug, info, warning, error, critical)", name)
	}
}

func run(ctx context.Context, logger *slog.Logger, o options, set map[string]bool) error {
	cfg, err := resolveConfig(o, set)
	if err != nil {
		return err
	}

	b, err := lexbuild.New(*cfg, logger)
	if err != nil {
		return err
	}
	res, runErr := b.Run(ctx)
	if res != nil {
		if err := printSummary(res); err != nil {
			return errors.Join(runErr, err)
		}
	}
	return runErr
}

// resolveConfig starts from the config file, if any, and applies the flags
// that were set explicitly. Without a config file every flag applies.
func resolveConfig(o options, set map[string]bool) (*lexbuild.Config, error) {
	cfg := &lexbuild.Config{}
	if o.configPath != "" {
		var err error
		if cfg, err = lexbuild.LoadConfigFile(o.configPath); err != nil {
			return nil, err
		}
	}
	apply := func(name string) bool { return o.configPath == "" || set[name] }

	src := &cfg.Source
	if o.dbPath != "" {
		src.Driver = dbopen.DriverSQLite
		src.DSN = o.dbPath
	} else if o.configPath == "" || set["db-server"] {
		src.Driver = dbopen.DriverPostgres
	}
	if set["db-server"] {
		src.Postgres.Host = o.dbServer
	}
	if set["db-name"] {
		src.Postgres.Name = o.dbName
	}
	if set["user"] {
		src.Postgres.User = o.user
	}
	if set["password"] {
		src.Postgres.Password = o.password
	}
	if apply("port") {
		src.Postgres.Port = o.port
	}
	if o.debug {
		src.Limit = lexbuild.DebugLimit
	}

	if apply("output-dir") {
		cfg.Output.Dir = o.outputDir
	}
	if o.archive {
		cfg.Output.Archive = true
	}
	if set["transcripts"] {
		cfg.Transcripts.Dir = o.transcripts
	}
	if set["anchor"] {
		anchor := o.anchor
		cfg.Period.Anchor = &anchor
	}
	if apply("workers") {
		cfg.Workers = o.workers
	}

	if o.configPath == "" && o.dbPath == "" && (src.Postgres.Host == "" || src.Postgres.Name == "") {
		fmt.Fprintln(os.Stderr, "usage: lexii -config <file> | -db-server <host> -db-name <name> -user <user> -password <password> [-port 5432] [-output-dir ./lexii] [-debug]")
		fmt.Fprintln(os.Stderr, "       lexii -db <sqlite path> [-output-dir ./lexii] [-debug]")
		os.Exit(2)
	}
	return cfg, nil
}

type summary struct {
	RunID            string          `json:"run_id"`
	Counts           lexbuild.Counts `json:"counts"`
	Periods          map[string]int  `json:"periods"`
	CrossPeriodTerms int             `json:"cross_period_terms"`
	Errors           int             `json:"errors"`
	OutputDir        string          `json:"output_dir"`
	Archive          string          `json:"archive,omitempty"`
	Published        string          `json:"published,omitempty"`
	Duration         string          `json:"duration"`
}

func printSummary(res *lexbuild.Result) error {
	s := summary{
		RunID:            res.RunID,
		Counts:           res.Counts,
		Periods:          make(map[string]int, len(res.Sizes)),
		CrossPeriodTerms: res.CrossPeriodTerms,
		Errors:           len(res.Errors),
		OutputDir:        res.OutputDir,
		Archive:          res.Archive,
		Published:        res.Published,
		Duration:         res.Duration.String(),
	}
	for _, st := range res.Sizes {
		s.Periods[st.Period.Label()] = st.Terms
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}
