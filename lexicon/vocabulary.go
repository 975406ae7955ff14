// CLAUDE:SUMMARY Vocabulary of one period: distinct terms with frequencies, record and token counters.
package lexicon

import (
	"iter"
	"maps"
	"slices"
)

// Vocabulary is the set of distinct terms of one bucket with frequency
// counters kept for statistics only.
type Vocabulary struct {
	freq    map[string]int
	records int
	tokens  int
}

// NewVocabulary returns an empty vocabulary.
func NewVocabulary() *Vocabulary {
	return &Vocabulary{freq: make(map[string]int)}
}

// AddRecord registers one record and its terms.
func (v *Vocabulary) AddRecord(terms iter.Seq[string]) {
	v.records++
	if terms == nil {
		return
	}
	for term := range terms {
		v.freq[term]++
		v.tokens++
	}
}

// Merge adds the terms and counters of other into v.
func (v *Vocabulary) Merge(other *Vocabulary) {
	for term, n := range other.freq {
		v.freq[term] += n
	}
	v.records += other.records
	v.tokens += other.tokens
}

// Contains reports whether term is in the set.
func (v *Vocabulary) Contains(term string) bool {
	_, ok := v.freq[term]
	return ok
}

// Len is the number of distinct terms.
func (v *Vocabulary) Len() int { return len(v.freq) }

// Records is the number of records that contributed to the vocabulary.
func (v *Vocabulary) Records() int { return v.records }

// Tokens is the number of term occurrences, duplicates included.
func (v *Vocabulary) Tokens() int { return v.tokens }

// Frequency returns how many times term was added.
func (v *Vocabulary) Frequency(term string) int { return v.freq[term] }

// Terms returns the distinct terms in lexicographic order.
func (v *Vocabulary) Terms() []string {
	return slices.Sorted(maps.Keys(v.freq))
}

// SameTerms reports whether v and other hold the same term set.
func (v *Vocabulary) SameTerms(other *Vocabulary) bool {
	if v.Len() != other.Len() {
		return false
	}
	for term := range v.freq {
		if !other.Contains(term) {
			return false
		}
	}
	return true
}

// Clone returns an independent copy.
func (v *Vocabulary) Clone() *Vocabulary {
	return &Vocabulary{
		freq:    maps.Clone(v.freq),
		records: v.records,
		tokens:  v.tokens,
	}
}
