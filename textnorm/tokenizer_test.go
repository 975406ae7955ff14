package textnorm

import (
	"errors"
	"slices"
	"testing"
)

func mustTokenizer(t *testing.T, p Policy) *WordTokenizer {
	t.Helper()
	tok, err := NewWordTokenizer(p)
	if err != nil {
		t.Fatalf("NewWordTokenizer: %v", err)
	}
	return tok
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name   string
		policy Policy
		text   string
		want   []string
	}{
		{
			name: "punctuation and case",
			text: "Domnul, domnul!",
			want: []string{"domnul", "domnul"},
		},
		{
			name: "romanian diacritics kept",
			text: "Ştefan cel Mare şi ţara",
			want: []string{"ştefan", "cel", "mare", "şi", "ţara"},
		},
		{
			name: "cedilla and comma-below kept apart",
			text: "şi și ţara țara",
			want: []string{"şi", "și", "ţara", "țara"},
		},
		{
			name:   "cedilla unified to comma-below",
			policy: Policy{Orthography: OrthographyComma},
			text:   "Ştefan şi ţara, Ștefan și țara",
			want:   []string{"ștefan", "și", "țara", "ștefan", "și", "țara"},
		},
		{
			name:   "decomposed cedilla unified",
			policy: Policy{Orthography: OrthographyComma},
			text:   "s\u0327i",
			want:   []string{"și"},
		},
		{
			name:   "diacritics stripped",
			policy: Policy{Diacritics: DiacriticsStrip},
			text:   "Ştefan şi ţara",
			want:   []string{"stefan", "si", "tara"},
		},
		{
			name: "apostrophe stays inside word",
			text: "n'au venit",
			want: []string{"n'au", "venit"},
		},
		{
			name: "hyphen splits by default",
			text: "într-o zi",
			want: []string{"într", "o", "zi"},
		},
		{
			name:   "hyphen joiner",
			policy: Policy{Joiners: []string{"-"}},
			text:   "într-o zi",
			want:   []string{"într-o", "zi"},
		},
		{
			name: "cyrillic",
			text: "ДОМНУЛ Бог",
			want: []string{"домнул", "бог"},
		},
		{
			name: "numbers kept",
			text: "anul 1705",
			want: []string{"anul", "1705"},
		},
		{
			name:   "numbers dropped",
			policy: Policy{DropNumeric: true},
			text:   "anul 1705",
			want:   []string{"anul"},
		},
		{
			name:   "min length",
			policy: Policy{MinLength: 2},
			text:   "a fost o dată",
			want:   []string{"fost", "dată"},
		},
		{
			name:   "case preserved",
			policy: Policy{Case: CaseNone},
			text:   "Domnul Bog",
			want:   []string{"Domnul", "Bog"},
		},
		{
			name:   "case folded",
			policy: Policy{Case: CaseFold},
			text:   "DOMNUL",
			want:   []string{"domnul"},
		},
		{
			name:   "markup stripped",
			policy: Policy{StripMarkup: true},
			text:   "<b>Domnul</b> &amp; sluga",
			want:   []string{"domnul", "sluga"},
		},
		{
			name: "decomposed input composes",
			text: "s\u0327i",
			want: []string{"\u015fi"},
		},
		{
			name: "only punctuation",
			text: " ,.;! -- ",
			want: nil,
		},
		{
			name: "empty",
			text: "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok := mustTokenizer(t, tt.policy)
			got, err := Terms(tok, tt.text)
			if err != nil {
				t.Fatalf("Terms(%q): %v", tt.text, err)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("Terms(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestTokenize_Restartable(t *testing.T) {
	// WHAT: Ranging over the same sequence twice yields the same terms.
	// WHY: Reproducible lexicon builds rely on deterministic tokenization.
	tok := mustTokenizer(t, Policy{})
	seq, err := tok.Tokenize("Domnul Ştefan, domnul ţării.")
	if err != nil {
		t.Fatal(err)
	}
	first := slices.Collect(seq)
	second := slices.Collect(seq)
	if len(first) == 0 {
		t.Fatal("expected terms")
	}
	if !slices.Equal(first, second) {
		t.Fatalf("second pass = %q, first pass = %q", second, first)
	}

	again, err := Terms(mustTokenizer(t, Policy{}), "Domnul Ştefan, domnul ţării.")
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(first, again) {
		t.Fatalf("fresh tokenizer = %q, want %q", again, first)
	}
}

func TestTokenize_EarlyStop(t *testing.T) {
	tok := mustTokenizer(t, Policy{})
	seq, err := tok.Tokenize("unu doi trei patru")
	if err != nil {
		t.Fatal(err)
	}
	var got []string
	for term := range seq {
		got = append(got, term)
		if len(got) == 2 {
			break
		}
	}
	if !slices.Equal(got, []string{"unu", "doi"}) {
		t.Fatalf("got %q", got)
	}
}

func TestTokenize_InvalidEncoding(t *testing.T) {
	tok := mustTokenizer(t, Policy{})
	_, err := tok.Tokenize("abc\xffdef")
	if err == nil {
		t.Fatal("expected error for invalid UTF-8")
	}
	if !errors.Is(err, ErrTokenization) {
		t.Fatalf("error %v does not match ErrTokenization", err)
	}
	var te *TokenizationError
	if !errors.As(err, &te) {
		t.Fatalf("error %T is not *TokenizationError", err)
	}
	if te.Offset != 3 {
		t.Errorf("offset = %d, want 3", te.Offset)
	}
}

func TestPolicyValidate(t *testing.T) {
	bad := []Policy{
		{Case: "upper"},
		{Diacritics: "remove"},
		{Orthography: "cedilla"},
		{Joiners: []string{"--"}},
		{Language: "not a tag!"},
	}
	for _, p := range bad {
		if err := p.Validate(); err == nil {
			t.Errorf("Validate(%+v): expected error", p)
		}
		if _, err := NewWordTokenizer(p); err == nil {
			t.Errorf("NewWordTokenizer(%+v): expected error", p)
		}
	}

	if err := (Policy{}).Validate(); err != nil {
		t.Fatalf("zero policy should validate after defaults: %v", err)
	}
}

func TestPolicyDefaults(t *testing.T) {
	tok := mustTokenizer(t, Policy{})
	p := tok.Policy()
	if p.Language != "ro" || p.Case != CaseLower || p.Diacritics != DiacriticsKeep || p.Orthography != OrthographyKeep || p.MinLength != 1 {
		t.Fatalf("unexpected defaults: %+v", p)
	}
}
