// CLAUDE:SUMMARY Per-period lexicon accumulator with set semantics, frequency counters and order-independent merge.
package lexicon

import (
	"iter"
	"maps"
	"slices"

	"github.com/deloro-project/rocc-pipelines/period"
)

// Lexicon maps each populated period to its vocabulary. A period exists only
// once at least one record has been added to it. Not safe for concurrent
// use; parallel builders keep one Lexicon per worker and Merge them.
type Lexicon struct {
	periods map[period.Period]*Vocabulary
}

// New returns an empty Lexicon.
func New() *Lexicon {
	return &Lexicon{periods: make(map[period.Period]*Vocabulary)}
}

// Add registers one record assigned to p. Terms already present in p are not
// added twice; their frequency is incremented.
func (l *Lexicon) Add(p period.Period, terms iter.Seq[string]) {
	v, ok := l.periods[p]
	if !ok {
		v = NewVocabulary()
		l.periods[p] = v
	}
	v.AddRecord(terms)
}

// Merge folds other into l. other is not modified.
func (l *Lexicon) Merge(other *Lexicon) {
	for p, ov := range other.periods {
		v, ok := l.periods[p]
		if !ok {
			l.periods[p] = ov.Clone()
			continue
		}
		v.Merge(ov)
	}
}

// Periods returns the populated periods ordered by start year.
func (l *Lexicon) Periods() []period.Period {
	return slices.Sorted(maps.Keys(l.periods))
}

// Len is the number of populated periods.
func (l *Lexicon) Len() int { return len(l.periods) }

// Vocabulary returns the vocabulary of p, or nil if p is not populated.
func (l *Lexicon) Vocabulary(p period.Period) *Vocabulary {
	return l.periods[p]
}

// Terms returns the distinct terms of p in lexicographic order.
func (l *Lexicon) Terms(p period.Period) []string {
	v, ok := l.periods[p]
	if !ok {
		return nil
	}
	return v.Terms()
}

// Size is the number of distinct terms of p.
func (l *Lexicon) Size(p period.Period) int {
	v, ok := l.periods[p]
	if !ok {
		return 0
	}
	return v.Len()
}

// Frequency returns how many times term was added to p.
func (l *Lexicon) Frequency(p period.Period, term string) int {
	v, ok := l.periods[p]
	if !ok {
		return 0
	}
	return v.Frequency(term)
}

// Equal reports whether l and other have the same periods and, for each
// period, the same term set. Frequencies are ignored.
func (l *Lexicon) Equal(other *Lexicon) bool {
	if l.Len() != other.Len() {
		return false
	}
	for p, v := range l.periods {
		ov, ok := other.periods[p]
		if !ok || !v.SameTerms(ov) {
			return false
		}
	}
	return true
}
