package docpipe

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingTranscription marks a collection whose full text could not be
	// obtained. Callers skip the collection and keep its line annotations.
	ErrMissingTranscription = errors.New("missing transcription")

	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrTooLarge          = errors.New("file too large")
	ErrNoText            = errors.New("no text content")
	ErrNeedsOCR          = errors.New("text layer needs OCR")
)

// MissingError reports why the transcription of one collection was skipped.
type MissingError struct {
	Collection string
	Path       string // empty when no file was found
	Err        error
}

func (e *MissingError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("collection %s: %v", e.Collection, ErrMissingTranscription)
	}
	return fmt.Sprintf("collection %s: %v: %s: %v", e.Collection, ErrMissingTranscription, e.Path, e.Err)
}

func (e *MissingError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrMissingTranscription}
	}
	return []error{ErrMissingTranscription, e.Err}
}
