package lexbuild

import (
	"github.com/deloro-project/rocc-pipelines/lexicon"
	"github.com/deloro-project/rocc-pipelines/period"
	"github.com/deloro-project/rocc-pipelines/textnorm"
)

// Origin tells where the text of a record comes from.
type Origin string

const (
	OriginLine          Origin = "line"
	OriginTranscription Origin = "transcription"
)

// Record is one annotation record: a transcribed line or the full
// transcription of a collection. Year is nil when unknown.
type Record struct {
	ID           string
	CollectionID string
	Text         string
	Year         *int
	Origin       Origin
}

// maxRecordErrors bounds the errors kept in a Result; counters stay exact.
const maxRecordErrors = 1000

// accumulator folds records into a private lexicon. Workers each own one and
// they are merged once every record has been consumed.
type accumulator struct {
	tok         textnorm.Tokenizer
	assign      period.Assigner
	keepUnknown bool

	lex     *lexicon.Lexicon
	unknown *lexicon.Vocabulary
	counts  Counts
	errs    []*RecordError
}

func newAccumulator(tok textnorm.Tokenizer, assign period.Assigner, keepUnknown bool) *accumulator {
	return &accumulator{
		tok:         tok,
		assign:      assign,
		keepUnknown: keepUnknown,
		lex:         lexicon.New(),
		unknown:     lexicon.NewVocabulary(),
	}
}

// add assigns rec to its period and adds its terms. A record that cannot be
// normalised leaves the lexicon untouched and is returned as an error.
// Undated records are only normalised when they are reported.
func (a *accumulator) add(rec Record) *RecordError {
	p, dated := a.assign.Lookup(rec.Year)
	if !dated && !a.keepUnknown {
		a.counts.Unknown++
		return nil
	}

	terms, err := a.tok.Tokenize(rec.Text)
	if err != nil {
		a.counts.Skipped++
		re := &RecordError{RecordID: rec.ID, CollectionID: rec.CollectionID, Kind: ErrTokenization, Err: err}
		a.keep(re)
		return re
	}

	if !dated {
		a.counts.Unknown++
		a.unknown.AddRecord(terms)
		return nil
	}
	a.counts.Dated++
	a.lex.Add(p, terms)
	return nil
}

func (a *accumulator) keep(re *RecordError) {
	if len(a.errs) < maxRecordErrors {
		a.errs = append(a.errs, re)
	}
}

func (a *accumulator) merge(o *accumulator) {
	a.lex.Merge(o.lex)
	a.unknown.Merge(o.unknown)
	a.counts.add(o.counts)
	for _, re := range o.errs {
		a.keep(re)
	}
}
