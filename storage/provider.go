package storage

import (
	"context"
)

// Mirror is the interface for secondary copies of note bodies.
// It has no notion of which ids are live; callers only invoke it
// after the corresponding repository write has succeeded.
type Mirror interface {
	// Write creates or replaces the copy of a note's body
	Write(ctx context.Context, id int64, body string) error

	// Remove deletes the copy of a note; a missing copy is an error
	Remove(ctx context.Context, id int64) error

	// Read returns the mirrored body of a note
	Read(ctx context.Context, id int64) (string, error)

	// List returns the ids of every mirrored note
	List(ctx context.Context) ([]int64, error)
}
