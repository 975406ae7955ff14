package lexbuild

import (
	"time"

	"github.com/deloro-project/rocc-pipelines/lexicon"
)

// Counts are the record counters of a run.
type Counts struct {
	Lines          int `json:"lines"`          // line annotations read
	Transcriptions int `json:"transcriptions"` // collections with a usable full text
	Dated          int `json:"dated"`          // records assigned to a period
	Unknown        int `json:"unknown"`        // records without a usable year
	Skipped        int `json:"skipped"`        // records that failed normalisation
	Missing        int `json:"missing"`        // collections without a usable full text
}

func (c *Counts) add(o Counts) {
	c.Lines += o.Lines
	c.Transcriptions += o.Transcriptions
	c.Dated += o.Dated
	c.Unknown += o.Unknown
	c.Skipped += o.Skipped
	c.Missing += o.Missing
}

// Map returns the counters keyed by name, as stored in the manifest.
func (c Counts) Map() map[string]int {
	return map[string]int{
		"lines":          c.Lines,
		"transcriptions": c.Transcriptions,
		"dated":          c.Dated,
		"unknown":        c.Unknown,
		"skipped":        c.Skipped,
		"missing":        c.Missing,
	}
}

// Result describes a completed run.
type Result struct {
	RunID     string
	StartedAt time.Time
	Duration  time.Duration
	Counts    Counts

	// Errors holds the first recoverable errors of the run.
	Errors []*RecordError

	Lexicon          *lexicon.Lexicon
	Unknown          *lexicon.Vocabulary // nil unless unknown_year is report
	Sizes            []lexicon.SizeStat
	CrossPeriodTerms int

	OutputDir string
	Archive   string // empty when no archive was written
	Published string // object key, empty when not published
}
