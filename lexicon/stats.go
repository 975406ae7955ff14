// CLAUDE:SUMMARY Per-period size statistics (distinct terms, tokens, records) in period order.
package lexicon

import "github.com/deloro-project/rocc-pipelines/period"

// SizeStat is the size of one populated period.
type SizeStat struct {
	Period  period.Period
	Terms   int // distinct terms, equal to Lexicon.Size(Period)
	Tokens  int
	Records int
}

// SizeStats returns one entry per populated period ordered by start year.
func (l *Lexicon) SizeStats() []SizeStat {
	periods := l.Periods()
	stats := make([]SizeStat, 0, len(periods))
	for _, p := range periods {
		v := l.periods[p]
		stats = append(stats, SizeStat{
			Period:  p,
			Terms:   v.Len(),
			Tokens:  v.Tokens(),
			Records: v.Records(),
		})
	}
	return stats
}
