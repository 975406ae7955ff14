// Package lexicon accumulates per-period vocabularies and derives the
// statistics and cross-period index reported from them.
//
// A Lexicon maps a period to the set of distinct terms observed in records
// assigned to it. Adding a term that is already present leaves the set
// unchanged and only increments its frequency counter. Because set union and
// counter addition are commutative, the final Lexicon does not depend on the
// order in which records are added, nor on how work is split between partial
// lexicons later combined with Merge.
//
// Usage:
//
//	lex := lexicon.New()
//	lex.Add(p, terms)          // once per record
//	stats := lex.SizeStats()   // ordered by period start
//	shared := lex.CrossPeriod() // terms present in >= 2 periods
package lexicon
