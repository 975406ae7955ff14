// CLAUDE:SUMMARY Normalization policy for terms: NFC composition, Romanian s/t orthography, case mode (lower/fold/none), diacritics (keep/strip).
package textnorm

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// CaseMode selects how terms are case-normalized.
type CaseMode string

const (
	CaseLower CaseMode = "lower" // language-aware lowercase
	CaseFold  CaseMode = "fold"  // Unicode case folding
	CaseNone  CaseMode = "none"
)

// DiacriticsMode selects whether combining marks survive normalization.
type DiacriticsMode string

const (
	DiacriticsKeep  DiacriticsMode = "keep"
	DiacriticsStrip DiacriticsMode = "strip"
)

// OrthographyMode selects how the two Romanian spellings of s and t with a
// mark below are treated.
type OrthographyMode string

const (
	// OrthographyKeep leaves cedilla (ş ţ) and comma-below (ș ț) letters apart.
	OrthographyKeep OrthographyMode = "keep"
	// OrthographyComma rewrites cedilla letters to their comma-below form, so
	// "şi" and "și" are one term.
	OrthographyComma OrthographyMode = "comma"
)

// commaBelow maps the cedilla forms used by older fonts and transcriptions to
// the comma-below letters of Romanian orthography.
func commaBelow(r rune) rune {
	switch r {
	case 'ş':
		return 'ș'
	case 'Ş':
		return 'Ș'
	case 'ţ':
		return 'ț'
	case 'Ţ':
		return 'Ț'
	}
	return r
}

// Policy is the normalization configuration of a tokenizer. Two tokenizers
// built from equal policies produce identical term sequences.
type Policy struct {
	// Language is a BCP 47 tag used for language-aware lowercasing. Default: "ro".
	Language string `yaml:"language" json:"language"`
	// Case is the case mode. Default: lower.
	Case CaseMode `yaml:"case" json:"case"`
	// Diacritics is the diacritics mode. Default: keep.
	Diacritics DiacriticsMode `yaml:"diacritics" json:"diacritics"`
	// Orthography unifies cedilla and comma-below s/t. Default: keep.
	Orthography OrthographyMode `yaml:"orthography" json:"orthography"`
	// StripMarkup removes HTML/XML tags and decodes entities before tokenizing.
	StripMarkup bool `yaml:"strip_markup" json:"strip_markup"`
	// Joiners are single characters that join words where UAX #29 would
	// split them, e.g. "-" keeps "într-o" as one term.
	Joiners []string `yaml:"joiners" json:"joiners,omitempty"`
	// DropNumeric discards terms made only of digits.
	DropNumeric bool `yaml:"drop_numeric" json:"drop_numeric"`
	// MinLength is the minimum term length in runes. Default: 1.
	MinLength int `yaml:"min_length" json:"min_length"`
}

func (p *Policy) defaults() {
	if p.Language == "" {
		p.Language = "ro"
	}
	if p.Case == "" {
		p.Case = CaseLower
	}
	if p.Diacritics == "" {
		p.Diacritics = DiacriticsKeep
	}
	if p.Orthography == "" {
		p.Orthography = OrthographyKeep
	}
	if p.MinLength <= 0 {
		p.MinLength = 1
	}
}

// Validate checks the policy after defaults are applied.
func (p Policy) Validate() error {
	p.defaults()
	switch p.Case {
	case CaseLower, CaseFold, CaseNone:
	default:
		return fmt.Errorf("textnorm: unknown case mode %q", p.Case)
	}
	switch p.Diacritics {
	case DiacriticsKeep, DiacriticsStrip:
	default:
		return fmt.Errorf("textnorm: unknown diacritics mode %q", p.Diacritics)
	}
	switch p.Orthography {
	case OrthographyKeep, OrthographyComma:
	default:
		return fmt.Errorf("textnorm: unknown orthography mode %q", p.Orthography)
	}
	if _, err := language.Parse(p.Language); err != nil {
		return fmt.Errorf("textnorm: language %q: %w", p.Language, err)
	}
	for _, j := range p.Joiners {
		if utf8.RuneCountInString(j) != 1 {
			return fmt.Errorf("textnorm: joiner %q must be a single character", j)
		}
	}
	return nil
}

func (p Policy) joinerRunes() []rune {
	out := make([]rune, 0, len(p.Joiners))
	for _, j := range p.Joiners {
		r, _ := utf8.DecodeRuneInString(j)
		out = append(out, r)
	}
	return out
}

// termNormalizer holds the stateful transformers for one pass over a text.
// cases.Caser and transform chains must not be shared between goroutines.
type termNormalizer struct {
	ortho transform.Transformer
	caser cases.Caser
	lower bool
	strip transform.Transformer
}

func (p Policy) newTermNormalizer() *termNormalizer {
	n := &termNormalizer{}
	if p.Orthography == OrthographyComma {
		n.ortho = runes.Map(commaBelow)
	}
	switch p.Case {
	case CaseLower:
		n.caser = cases.Lower(language.Make(p.Language))
		n.lower = true
	case CaseFold:
		n.caser = cases.Fold()
		n.lower = true
	}
	if p.Diacritics == DiacriticsStrip {
		n.strip = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	}
	return n
}

func (n *termNormalizer) normalize(token string) string {
	s := norm.NFC.String(token)
	if n.ortho != nil {
		if out, _, err := transform.String(n.ortho, s); err == nil {
			s = out
		}
	}
	if n.lower {
		s = n.caser.String(s)
	}
	if n.strip != nil {
		if out, _, err := transform.String(n.strip, s); err == nil {
			s = out
		}
	}
	return s
}

func (p Policy) keep(term string) bool {
	if utf8.RuneCountInString(term) < p.MinLength {
		return false
	}
	if p.DropNumeric && isNumeric(term) {
		return false
	}
	return true
}

// isWordLike reports whether token carries at least one letter or digit.
func isWordLike(token string) bool {
	return strings.IndexFunc(token, func(r rune) bool {
		return unicode.IsLetter(r) || unicode.IsNumber(r)
	}) >= 0
}

func isNumeric(term string) bool {
	for _, r := range term {
		if !unicode.IsNumber(r) {
			return false
		}
	}
	return term != ""
}
