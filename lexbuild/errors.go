package lexbuild

import (
	"errors"
	"fmt"

	"github.com/deloro-project/rocc-pipelines/docpipe"
	"github.com/deloro-project/rocc-pipelines/textnorm"
)

var (
	// ErrDataAccess: source records or texts are unreachable. The run is
	// aborted and no report is written.
	ErrDataAccess = errors.New("data access failed")

	// ErrMissingTranscription: a collection has no usable full text. Its
	// line annotations are still processed.
	ErrMissingTranscription = docpipe.ErrMissingTranscription

	// ErrTokenization: one record's text could not be normalised. The record
	// is skipped and counted.
	ErrTokenization = textnorm.ErrTokenization

	// ErrOutputWrite: the report set could not be persisted or published.
	ErrOutputWrite = errors.New("output write failed")

	ErrConfig = errors.New("invalid configuration")
)

// RecordError is a recoverable failure attached to one record or collection.
// It matches both its Kind and its cause with errors.Is.
type RecordError struct {
	RecordID     string // empty for collection-level errors
	CollectionID string
	Kind         error
	Err          error
}

func (e *RecordError) Error() string {
	cause := e.Kind
	if e.Err != nil {
		cause = e.Err
	}
	if e.RecordID == "" {
		return fmt.Sprintf("collection %s: %v", e.CollectionID, cause)
	}
	return fmt.Sprintf("record %s (collection %s): %v", e.RecordID, e.CollectionID, cause)
}

func (e *RecordError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// missingError converts a loader report into a RecordError.
func missingError(m *docpipe.MissingError) *RecordError {
	re := &RecordError{CollectionID: m.Collection, Kind: ErrMissingTranscription}
	if m.Err != nil {
		re.Err = fmt.Errorf("%s: %w", m.Path, m.Err)
	}
	return re
}
