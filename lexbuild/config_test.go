package lexbuild

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/deloro-project/rocc-pipelines/dbopen"
	"github.com/deloro-project/rocc-pipelines/period"
)

func TestConfig_Defaults(t *testing.T) {
	var cfg Config
	cfg.Source.Postgres.Host = "db.rocc.local"
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}

	if cfg.Source.Driver != dbopen.DriverPostgres || cfg.Source.Postgres.Port != 5432 {
		t.Errorf("source = %+v", cfg.Source)
	}
	if cfg.Period.Width != period.DefaultWidth || cfg.Period.Anchor != nil {
		t.Errorf("period = %+v", cfg.Period)
	}
	a, err := cfg.Period.Assigner()
	if err != nil || a.Anchor != period.DefaultAnchor {
		t.Errorf("assigner = %+v, %v", a, err)
	}
	if cfg.UnknownYear != UnknownDrop || cfg.Workers != 1 {
		t.Errorf("unknown_year = %q, workers = %d", cfg.UnknownYear, cfg.Workers)
	}
	if cfg.Output.Dir != "lexii" || cfg.Output.ArchivePath() != "lexii.zip" || cfg.Output.Archive {
		t.Errorf("output = %+v", cfg.Output)
	}
	if cfg.Output.SizesFile != "period_sizes.csv" {
		t.Errorf("report options not defaulted: %+v", cfg.Output.Options)
	}
}

func TestConfig_PublishForcesArchive(t *testing.T) {
	cfg := Config{}
	cfg.Source.Postgres.Host = "localhost"
	cfg.Publish.Endpoint = "minio.local:9000"
	cfg.Publish.Bucket = "lexii"
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
	if !cfg.Output.Archive {
		t.Error("publishing needs the archive")
	}
}

func TestConfig_OutputDirCleaned(t *testing.T) {
	cfg := Config{Output: OutputConfig{Dir: "./out/lexii/"}}
	cfg.Source.Postgres.Host = "localhost"
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
	if cfg.Output.Dir != filepath.Join("out", "lexii") {
		t.Errorf("dir = %q", cfg.Output.Dir)
	}
	if got := (OutputConfig{Dir: "lexii/"}).ArchivePath(); got != "lexii.zip" {
		t.Errorf("ArchivePath = %q, want lexii.zip", got)
	}
}

func TestConfig_ValidateJoinsErrors(t *testing.T) {
	cfg := Config{
		UnknownYear: "guess",
		Period:      PeriodConfig{Width: -5},
	}
	cfg.Source.Driver = "oracle"
	cfg.Transcripts.MaxFileSize = -1

	err := cfg.Validate()
	if !errors.Is(err, ErrConfig) {
		t.Fatalf("err = %v, want ErrConfig", err)
	}
	msg := err.Error()
	for _, want := range []string{"oracle", "unknown_year", "max_file_size"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error %q does not mention %q", msg, want)
		}
	}
}

// WHAT: a zero anchor set in YAML.
// WHY: year 0 is a legal anchor and must not fall back to the default.
func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lexii.yaml")
	yaml := `
source:
  driver: sqlite
  dsn: /data/rocc.db
  limit: 100
transcripts:
  dir: /data/transcripts
period:
  width: 25
  anchor: 0
normalize:
  diacritics: strip
  joiners: ["-"]
unknown_year: report
output:
  dir: /srv/lexii
  header: true
  frequencies: true
  sizes_file: sizes.csv
workers: 4
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfigFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
	if cfg.Source.Driver != dbopen.DriverSQLite || cfg.Source.DSN != "/data/rocc.db" || cfg.Source.Limit != 100 {
		t.Errorf("source = %+v", cfg.Source)
	}
	if cfg.Period.Anchor == nil || *cfg.Period.Anchor != 0 || cfg.Period.Width != 25 {
		t.Errorf("period = %+v", cfg.Period)
	}
	a, _ := cfg.Period.Assigner()
	if got := a.Of(1830); got != 1825 {
		t.Errorf("period of 1830 = %d, want 1825", got)
	}
	if cfg.Normalize.Diacritics != "strip" || len(cfg.Normalize.Joiners) != 1 {
		t.Errorf("normalize = %+v", cfg.Normalize)
	}
	if !cfg.Output.Header || !cfg.Output.Frequencies || cfg.Output.SizesFile != "sizes.csv" {
		t.Errorf("inline report options = %+v", cfg.Output.Options)
	}
	if cfg.Output.VocabularyFile == "" {
		t.Error("vocabulary_file not defaulted")
	}
	if cfg.UnknownYear != UnknownReport || cfg.Workers != 4 || cfg.Transcripts.Dir != "/data/transcripts" {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoadConfigFile_Errors(t *testing.T) {
	if _, err := LoadConfigFile(filepath.Join(t.TempDir(), "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file: %v", err)
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("period: [1, 2"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfigFile(path); err == nil {
		t.Error("expected a parse error")
	}
}
