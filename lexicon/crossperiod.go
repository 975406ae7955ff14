// CLAUDE:SUMMARY Derives the term -> periods index and the terms shared by two or more periods.
package lexicon

import (
	"maps"
	"slices"

	"github.com/deloro-project/rocc-pipelines/period"
)

// Index maps a term to the periods it occurs in.
type Index map[string][]period.Period

// CrossTerm is a term attested in at least two periods.
type CrossTerm struct {
	Term    string
	Periods []period.Period // ordered by start year
}

// Index derives the full term -> periods index. Each period list is ordered
// by start year.
func (l *Lexicon) Index() Index {
	idx := make(Index)
	for _, p := range l.Periods() {
		for term := range l.periods[p].freq {
			idx[term] = append(idx[term], p)
		}
	}
	return idx
}

// CrossPeriod returns the terms occurring in two or more periods, sorted
// lexicographically.
func (l *Lexicon) CrossPeriod() []CrossTerm {
	idx := l.Index()
	var out []CrossTerm
	for _, term := range slices.Sorted(maps.Keys(idx)) {
		periods := idx[term]
		if len(periods) < 2 {
			continue
		}
		out = append(out, CrossTerm{Term: term, Periods: periods})
	}
	return out
}
