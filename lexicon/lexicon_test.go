package lexicon

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/deloro-project/rocc-pipelines/period"
)

type record struct {
	period period.Period
	terms  []string
}

var corpus = []record{
	{1700, []string{"domnul", "a", "zis", "domnul"}},
	{1700, []string{"carte", "a"}},
	{1750, []string{"domnul", "scrisoare"}},
	{1750, []string{"scrisoare", "carte"}},
	{1800, []string{"hrisov"}},
	{1650, nil},
}

func build(records []record) *Lexicon {
	lex := New()
	for _, r := range records {
		lex.Add(r.period, slices.Values(r.terms))
	}
	return lex
}

func TestAdd_SetSemantics(t *testing.T) {
	lex := New()
	lex.Add(1700, slices.Values([]string{"domnul", "domnul", "zis"}))
	lex.Add(1700, slices.Values([]string{"domnul"}))

	if got := lex.Terms(1700); !slices.Equal(got, []string{"domnul", "zis"}) {
		t.Fatalf("terms = %q", got)
	}
	if lex.Size(1700) != 2 {
		t.Fatalf("size = %d, want 2", lex.Size(1700))
	}
	if lex.Frequency(1700, "domnul") != 3 {
		t.Fatalf("frequency = %d, want 3", lex.Frequency(1700, "domnul"))
	}
	v := lex.Vocabulary(1700)
	if v.Records() != 2 || v.Tokens() != 4 {
		t.Fatalf("records=%d tokens=%d, want 2 and 4", v.Records(), v.Tokens())
	}
}

func TestAdd_UnionPerPeriod(t *testing.T) {
	lex := build(corpus)

	want := map[period.Period][]string{
		1650: nil,
		1700: {"a", "carte", "domnul", "zis"},
		1750: {"carte", "domnul", "scrisoare"},
		1800: {"hrisov"},
	}
	if !slices.Equal(lex.Periods(), []period.Period{1650, 1700, 1750, 1800}) {
		t.Fatalf("periods = %v", lex.Periods())
	}
	for p, terms := range want {
		if got := lex.Terms(p); !slices.Equal(got, terms) {
			t.Errorf("Terms(%d) = %q, want %q", p, got, terms)
		}
	}
	if lex.Terms(1900) != nil || lex.Size(1900) != 0 || lex.Vocabulary(1900) != nil {
		t.Error("unpopulated period must be absent")
	}
}

func TestOrderIndependence(t *testing.T) {
	// WHAT: Any record order, and any split into merged partial lexicons,
	// produces the same lexicon.
	// WHY: Parallel builders rely on it.
	want := build(corpus)
	rng := rand.New(rand.NewPCG(1, 2))

	for i := range 20 {
		shuffled := slices.Clone(corpus)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })

		if got := build(shuffled); !got.Equal(want) {
			t.Fatalf("iteration %d: shuffled build differs", i)
		}

		cut := rng.IntN(len(shuffled) + 1)
		merged := New()
		merged.Merge(build(shuffled[cut:]))
		merged.Merge(build(shuffled[:cut]))
		if !merged.Equal(want) {
			t.Fatalf("iteration %d: merged build differs (cut %d)", i, cut)
		}
		for _, s := range want.SizeStats() {
			ms := merged.Vocabulary(s.Period)
			if ms.Records() != s.Records || ms.Tokens() != s.Tokens {
				t.Fatalf("iteration %d: counters differ for %d", i, s.Period)
			}
		}
	}
}

func TestMerge_DoesNotAliasSource(t *testing.T) {
	src := build(corpus[:1])
	dst := New()
	dst.Merge(src)
	dst.Add(1700, slices.Values([]string{"nou"}))

	if src.Vocabulary(1700).Contains("nou") {
		t.Fatal("merge must copy vocabularies, not share them")
	}
}

func TestSizeStats(t *testing.T) {
	lex := build(corpus)
	stats := lex.SizeStats()
	if len(stats) != lex.Len() {
		t.Fatalf("got %d stats, want %d", len(stats), lex.Len())
	}
	for i, s := range stats {
		if i > 0 && stats[i-1].Period >= s.Period {
			t.Fatalf("stats not ordered by period: %v", stats)
		}
		if s.Terms != lex.Size(s.Period) {
			t.Errorf("stat %d terms = %d, want %d", s.Period, s.Terms, lex.Size(s.Period))
		}
	}
	if stats[0].Period != 1650 || stats[0].Terms != 0 || stats[0].Records != 1 {
		t.Errorf("empty-record period stat = %+v", stats[0])
	}
}

func TestCrossPeriod(t *testing.T) {
	lex := build(corpus)
	got := lex.CrossPeriod()

	want := []CrossTerm{
		{Term: "carte", Periods: []period.Period{1700, 1750}},
		{Term: "domnul", Periods: []period.Period{1700, 1750}},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d cross terms, want %d: %+v", len(got), len(want), got)
	}
	for i := range want {
		if got[i].Term != want[i].Term || !slices.Equal(got[i].Periods, want[i].Periods) {
			t.Errorf("cross[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}

	idx := lex.Index()
	for term, periods := range idx {
		in := slices.ContainsFunc(got, func(c CrossTerm) bool { return c.Term == term })
		if in != (len(periods) >= 2) {
			t.Errorf("term %q with %d periods: in cross report = %v", term, len(periods), in)
		}
	}
}

func TestEmpty(t *testing.T) {
	lex := New()
	if lex.Len() != 0 || len(lex.SizeStats()) != 0 || len(lex.CrossPeriod()) != 0 {
		t.Fatal("empty lexicon must have no periods, stats or cross terms")
	}
}
