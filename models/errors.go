package models

import (
	"errors"
	"fmt"
)

var (
	// ErrNoteNotFound is returned when an operation references an id that is not live
	ErrNoteNotFound = errors.New("note not found")

	// ErrNoteConflict is returned when the caller's last-seen updated_at no longer matches the stored row
	ErrNoteConflict = errors.New("note was modified concurrently")
)

// StorageError reports that the relational store was unreachable or rejected a query
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// MirrorError reports a failed filesystem operation on a note's mirror file
type MirrorError struct {
	Op  string
	ID  int64
	Err error
}

func (e *MirrorError) Error() string {
	return fmt.Sprintf("mirror %s %d: %v", e.Op, e.ID, e.Err)
}

func (e *MirrorError) Unwrap() error { return e.Err }

// PartialFailure reports a dual write whose repository step succeeded
// but whose mirror step failed. The repository row reflects the new state.
type PartialFailure struct {
	Op  string
	ID  int64
	Err error
}

func (e *PartialFailure) Error() string {
	return fmt.Sprintf("%s note %d: repository updated but mirror failed: %v", e.Op, e.ID, e.Err)
}

func (e *PartialFailure) Unwrap() error { return e.Err }

// Outcome is the tagged result of a note operation
type Outcome string

const (
	OutcomeOK             Outcome = "ok"
	OutcomeNotFound       Outcome = "not_found"
	OutcomeConflict       Outcome = "conflict"
	OutcomeInvalid        Outcome = "invalid"
	OutcomeStorageError   Outcome = "storage_error"
	OutcomeMirrorError    Outcome = "mirror_error"
	OutcomePartialFailure Outcome = "partial_failure"
	OutcomeInternal       Outcome = "internal"
)

// OutcomeOf classifies an error returned by the note layer.
// PartialFailure wraps a MirrorError, so it must be checked first.
func OutcomeOf(err error) Outcome {
	if err == nil {
		return OutcomeOK
	}

	var partial *PartialFailure
	var storageErr *StorageError
	var mirrorErr *MirrorError

	switch {
	case errors.As(err, &partial):
		return OutcomePartialFailure
	case errors.Is(err, ErrNoteNotFound):
		return OutcomeNotFound
	case errors.Is(err, ErrNoteConflict):
		return OutcomeConflict
	case errors.As(err, &storageErr):
		return OutcomeStorageError
	case errors.As(err, &mirrorErr):
		return OutcomeMirrorError
	default:
		return OutcomeInternal
	}
}
