// CLAUDE:SUMMARY Tokenization error sentinel and the invalid UTF-8 check run before a text is segmented.
package textnorm

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// ErrTokenization is matched by every error returned when a text cannot be
// turned into terms.
var ErrTokenization = errors.New("textnorm: tokenization failed")

// TokenizationError reports why a text could not be tokenized.
type TokenizationError struct {
	Offset int // byte offset of the first offending byte
	Reason string
}

func (e *TokenizationError) Error() string {
	return fmt.Sprintf("textnorm: %s at byte %d", e.Reason, e.Offset)
}

// Is makes errors.Is(err, ErrTokenization) true.
func (e *TokenizationError) Is(target error) bool {
	return target == ErrTokenization
}

// checkEncoding returns a TokenizationError pointing at the first invalid
// UTF-8 sequence, or nil.
func checkEncoding(text string) error {
	if utf8.ValidString(text) {
		return nil
	}
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		if r == utf8.RuneError && size <= 1 {
			return &TokenizationError{Offset: i, Reason: "invalid UTF-8"}
		}
		i += size
	}
	return &TokenizationError{Offset: 0, Reason: "invalid UTF-8"}
}
