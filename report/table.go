// CLAUDE:SUMMARY Builds the report tables (per-period vocabularies, size statistics, cross-period terms) from a lexicon.
// Package report turns a completed lexicon into report tables and commits
// them to disk as one consistent set.
//
// Build is a pure function of the lexicon: it never mutates it. Writer.Commit
// writes every table into a staging directory and swaps it into place with
// renames, so readers see either the previous report set or the new one.
package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/deloro-project/rocc-pipelines/lexicon"
	"github.com/deloro-project/rocc-pipelines/period"
)

// PeriodPlaceholder is replaced by the period label in Options.VocabularyFile.
const PeriodPlaceholder = "{period}"

// PeriodSeparator joins the periods of a cross-period row.
const PeriodSeparator = ";"

// Table is one tabular output file.
type Table struct {
	Name   string   // file name inside the output directory
	Header []string // nil when header rows are disabled
	Rows   [][]string
}

// Options controls file names and table shape.
type Options struct {
	Header          bool   `yaml:"header" json:"header"`
	Frequencies     bool   `yaml:"frequencies" json:"frequencies"`
	ExtendedStats   bool   `yaml:"extended_stats" json:"extended_stats"`
	VocabularyFile  string `yaml:"vocabulary_file" json:"vocabulary_file"`
	SizesFile       string `yaml:"sizes_file" json:"sizes_file"`
	CrossPeriodFile string `yaml:"cross_period_file" json:"cross_period_file"`
	UnknownFile     string `yaml:"unknown_file" json:"unknown_file"`
}

// Defaults fills empty file names.
func (o *Options) Defaults() {
	if o.VocabularyFile == "" {
		o.VocabularyFile = "vocabulary_" + PeriodPlaceholder + ".csv"
	}
	if o.SizesFile == "" {
		o.SizesFile = "period_sizes.csv"
	}
	if o.CrossPeriodFile == "" {
		o.CrossPeriodFile = "cross_period_terms.csv"
	}
	if o.UnknownFile == "" {
		o.UnknownFile = "vocabulary_unknown.csv"
	}
}

// VocabularyName returns the file name of the vocabulary of p.
func (o Options) VocabularyName(p period.Period) string {
	return strings.ReplaceAll(o.VocabularyFile, PeriodPlaceholder, p.Label())
}

// Build returns every table of a run: one vocabulary per populated period in
// period order, then the size statistics and the cross-period terms. unknown
// is the vocabulary of records without a year; when non-nil it is reported
// in its own table.
func Build(lex *lexicon.Lexicon, unknown *lexicon.Vocabulary, opts Options) []Table {
	opts.Defaults()

	tables := make([]Table, 0, lex.Len()+3)
	for _, p := range lex.Periods() {
		tables = append(tables, VocabularyTable(opts.VocabularyName(p), lex.Vocabulary(p), opts))
	}
	tables = append(tables,
		SizesTable(lex.SizeStats(), opts),
		CrossPeriodTable(lex.CrossPeriod(), opts),
	)
	if unknown != nil {
		tables = append(tables, VocabularyTable(opts.UnknownFile, unknown, opts))
	}
	return tables
}

// VocabularyTable lists the distinct terms of v in lexicographic order.
func VocabularyTable(name string, v *lexicon.Vocabulary, opts Options) Table {
	t := Table{Name: name}
	if opts.Header {
		t.Header = []string{"term"}
		if opts.Frequencies {
			t.Header = append(t.Header, "frequency")
		}
	}
	for _, term := range v.Terms() {
		row := []string{term}
		if opts.Frequencies {
			row = append(row, strconv.Itoa(v.Frequency(term)))
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// SizesTable has one row per populated period, ordered by period start.
func SizesTable(stats []lexicon.SizeStat, opts Options) Table {
	t := Table{Name: opts.SizesFile}
	if opts.Header {
		t.Header = []string{"period", "terms"}
		if opts.ExtendedStats {
			t.Header = append(t.Header, "records", "tokens")
		}
	}
	for _, s := range stats {
		row := []string{s.Period.Label(), strconv.Itoa(s.Terms)}
		if opts.ExtendedStats {
			row = append(row, strconv.Itoa(s.Records), strconv.Itoa(s.Tokens))
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// CrossPeriodTable has one row per term shared by two or more periods.
func CrossPeriodTable(terms []lexicon.CrossTerm, opts Options) Table {
	t := Table{Name: opts.CrossPeriodFile}
	if opts.Header {
		t.Header = []string{"term", "period_count", "periods"}
	}
	for _, ct := range terms {
		labels := make([]string, len(ct.Periods))
		for i, p := range ct.Periods {
			labels[i] = p.Label()
		}
		t.Rows = append(t.Rows, []string{
			ct.Term,
			strconv.Itoa(len(ct.Periods)),
			strings.Join(labels, PeriodSeparator),
		})
	}
	return t
}

// Validate rejects file names that would collide or escape the output
// directory.
func (o Options) Validate() error {
	o.Defaults()
	if !strings.Contains(o.VocabularyFile, PeriodPlaceholder) {
		return fmt.Errorf("report: vocabulary_file %q must contain %s", o.VocabularyFile, PeriodPlaceholder)
	}
	names := []string{o.VocabularyFile, o.SizesFile, o.CrossPeriodFile, o.UnknownFile}
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if err := checkName(n); err != nil {
			return err
		}
		if seen[n] {
			return fmt.Errorf("report: file name %q used twice", n)
		}
		seen[n] = true
	}
	return nil
}
