package pipeline

import (
	"errors"
	"fmt"
)

// Sentinel errors for the upload pipeline. Handlers branch on these with
// errors.Is to pick status codes; the richer error types below carry the
// row/player context for the message.
var (
	// ErrEmptyInput means the upload contained no data rows after the header.
	ErrEmptyInput = errors.New("upload contains no data rows")

	// ErrInvalidScore means a scored-format upload had a row with no parseable
	// gross score. This is fatal for the whole upload: nothing is persisted.
	ErrInvalidScore = errors.New("invalid score")

	// ErrDuplicatePlayer means the same player token appeared on two rows of
	// one upload. Results are unique per (tournament, player), so this can
	// never commit cleanly; reject it before any write.
	ErrDuplicatePlayer = errors.New("duplicate player in upload")

	// ErrPersistenceFailure means the bulk result write failed after the
	// tournament row was created. The tournament has been rolled back by the
	// time this error is returned.
	ErrPersistenceFailure = errors.New("persistence failure")
)

// InvalidScoreError identifies which row failed score validation.
type InvalidScoreError struct {
	PlayerToken string
	Row         int // 1-based data row ordinal
}

func (e *InvalidScoreError) Error() string {
	return fmt.Sprintf("no parseable score for player %q (row %d)", e.PlayerToken, e.Row)
}

func (e *InvalidScoreError) Unwrap() error { return ErrInvalidScore }

// PersistenceError wraps the original store failure after the compensating
// tournament delete has run. It unwraps to both ErrPersistenceFailure and the
// original error, so callers can match either.
type PersistenceError struct {
	Op  string // the store call that failed, e.g. "create results"
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() []error {
	return []error{ErrPersistenceFailure, e.Err}
}
