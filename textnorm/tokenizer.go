// CLAUDE:SUMMARY Tokenizer capability and its UAX #29 word-boundary implementation producing lazy term sequences.
package textnorm

import (
	"html"
	"iter"
	"slices"

	"github.com/clipperhouse/uax29/v2/words"
	"github.com/microcosm-cc/bluemonday"
)

// Tokenizer turns a text into a sequence of normalized terms. Implementations
// must be deterministic and safe for concurrent use.
type Tokenizer interface {
	Tokenize(text string) (iter.Seq[string], error)
}

// WordTokenizer splits on Unicode word boundaries and applies a Policy.
type WordTokenizer struct {
	policy  Policy
	joiners *words.Joiners[string]
	markup  *bluemonday.Policy
}

// NewWordTokenizer validates the policy and returns a tokenizer for it.
func NewWordTokenizer(p Policy) (*WordTokenizer, error) {
	p.defaults()
	if err := p.Validate(); err != nil {
		return nil, err
	}
	t := &WordTokenizer{policy: p}
	if len(p.Joiners) > 0 {
		t.joiners = &words.Joiners[string]{Middle: p.joinerRunes()}
	}
	if p.StripMarkup {
		t.markup = bluemonday.StrictPolicy()
	}
	return t, nil
}

// Policy returns the effective policy, defaults included.
func (t *WordTokenizer) Policy() Policy {
	return t.policy
}

// Tokenize returns the terms of text. The text is checked eagerly, so an
// encoding problem surfaces here rather than halfway through iteration.
func (t *WordTokenizer) Tokenize(text string) (iter.Seq[string], error) {
	if err := checkEncoding(text); err != nil {
		return nil, err
	}
	if t.markup != nil {
		text = html.UnescapeString(t.markup.Sanitize(text))
	}

	return func(yield func(string) bool) {
		n := t.policy.newTermNormalizer()
		tokens := words.FromString(text)
		if t.joiners != nil {
			tokens.Joiners(t.joiners)
		}
		for tokens.Next() {
			token := tokens.Value()
			if !isWordLike(token) {
				continue
			}
			term := n.normalize(token)
			if !t.policy.keep(term) {
				continue
			}
			if !yield(term) {
				return
			}
		}
	}, nil
}

// Terms collects every term of text produced by tok.
func Terms(tok Tokenizer, text string) ([]string, error) {
	seq, err := tok.Tokenize(text)
	if err != nil {
		return nil, err
	}
	return slices.Collect(seq), nil
}
