// CLAUDE:SUMMARY Configuration structs (source, transcripts, period, normalize, output, publish) and YAML loader for lexbuild.
package lexbuild

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/deloro-project/rocc-pipelines/internal/store"
	"github.com/deloro-project/rocc-pipelines/period"
	"github.com/deloro-project/rocc-pipelines/publish"
	"github.com/deloro-project/rocc-pipelines/report"
	"github.com/deloro-project/rocc-pipelines/textnorm"
)

// DebugLimit is the number of lines read in debug mode.
const DebugLimit = 100

// UnknownPolicy decides what happens to records without a usable year.
type UnknownPolicy string

const (
	// UnknownDrop counts undated records and leaves them out of every report.
	UnknownDrop UnknownPolicy = "drop"
	// UnknownReport collects undated records into a separate vocabulary.
	UnknownReport UnknownPolicy = "report"
)

// Config holds all lexbuild configuration.
type Config struct {
	Source      store.Config      `yaml:"source"`
	Transcripts TranscriptsConfig `yaml:"transcripts"`
	Period      PeriodConfig      `yaml:"period"`
	Normalize   textnorm.Policy   `yaml:"normalize"`
	UnknownYear UnknownPolicy     `yaml:"unknown_year"`
	Output      OutputConfig      `yaml:"output"`
	Publish     publish.Config    `yaml:"publish"`

	// Workers is the number of normalisation goroutines. 1 processes records
	// inline while they are read.
	Workers int `yaml:"workers"`
}

// TranscriptsConfig locates the full transcriptions. An empty Dir disables
// them.
type TranscriptsConfig struct {
	Dir               string `yaml:"dir"`
	MaxFileSize       int64  `yaml:"max_file_size"`
	KeepOCRCandidates bool   `yaml:"keep_ocr_candidates"`
}

// PeriodConfig fixes the period grid. Anchor is a pointer so that year 0 can
// be configured explicitly.
type PeriodConfig struct {
	Width  int  `yaml:"width"`
	Anchor *int `yaml:"anchor"`
}

// Assigner returns the period assigner of the configuration.
func (c PeriodConfig) Assigner() (period.Assigner, error) {
	anchor := period.DefaultAnchor
	if c.Anchor != nil {
		anchor = *c.Anchor
	}
	return period.New(c.Width, anchor)
}

// OutputConfig controls where and how reports are written.
type OutputConfig struct {
	Dir string `yaml:"dir"`
	// Archive also writes <dir>.zip after the reports are committed.
	Archive bool `yaml:"archive"`

	report.Options `yaml:",inline"`
}

// ArchivePath is the path of the zip written next to the output directory.
func (c OutputConfig) ArchivePath() string { return filepath.Clean(c.Dir) + ".zip" }

func (c *Config) defaults() {
	c.Source.Defaults()
	if c.Period.Width <= 0 {
		c.Period.Width = period.DefaultWidth
	}
	if c.UnknownYear == "" {
		c.UnknownYear = UnknownDrop
	}
	if c.Output.Dir == "" {
		c.Output.Dir = "lexii"
	}
	c.Output.Dir = filepath.Clean(c.Output.Dir)
	c.Output.Options.Defaults()
	if c.Publish.Enabled() {
		c.Output.Archive = true
	}
	if c.Workers <= 0 {
		c.Workers = 1
	}
}

// Validate applies defaults and reports every configuration problem found.
func (c *Config) Validate() error {
	c.defaults()

	var errs []error
	errs = append(errs, c.Source.Validate())
	if _, err := c.Period.Assigner(); err != nil {
		errs = append(errs, err)
	}
	errs = append(errs, c.Normalize.Validate())
	switch c.UnknownYear {
	case UnknownDrop, UnknownReport:
	default:
		errs = append(errs, fmt.Errorf("lexbuild: unknown_year must be drop or report, got %q", c.UnknownYear))
	}
	errs = append(errs, c.Output.Options.Validate(), c.Publish.Validate())
	if c.Transcripts.MaxFileSize < 0 {
		errs = append(errs, fmt.Errorf("lexbuild: negative transcripts.max_file_size"))
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("%w: %w", ErrConfig, err)
	}
	return nil
}

// LoadConfigFile reads a YAML config file. Defaults are applied by Validate.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("lexbuild: parse %s: %w", path, err)
	}
	return cfg, nil
}
