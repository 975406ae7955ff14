// Package textnorm turns raw transcription text into normalized terms.
//
// Tokenization follows Unicode word boundaries (UAX #29): apostrophes and
// periods between letters stay inside the word, extra joiners such as "-"
// are configurable. Every token that carries at least one letter or digit is
// NFC-composed, case-normalized and optionally stripped of diacritics.
// Punctuation and whitespace tokens are dropped.
//
// Usage:
//
//	tok, err := textnorm.NewWordTokenizer(textnorm.Policy{Language: "ro"})
//	terms, err := tok.Tokenize("Domnul Ştefan, domnul ţării")
//	for term := range terms {
//		fmt.Println(term)
//	}
//
// The sequence returned by Tokenize is lazy and may be ranged over any number
// of times; every pass yields the same terms.
package textnorm
