package models

import "time"

// DefaultTitle is used when a note is saved without a title
const DefaultTitle = "Untitled"

type Note struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreateNoteRequest struct {
	Title string `json:"title" validate:"max=255,notetitle"`
	Body  string `json:"body" validate:"max=1048576"`
}

type UpdateNoteRequest struct {
	Title             string     `json:"title" validate:"max=255,notetitle"`
	Body              string     `json:"body" validate:"max=1048576"`
	ExpectedUpdatedAt *time.Time `json:"expected_updated_at,omitempty"`
}

// ReconcileReport summarizes one repair sweep between the notes table and the mirror directory
type ReconcileReport struct {
	Checked   int       `json:"checked"`
	Restored  []int64   `json:"restored"`
	Rewritten []int64   `json:"rewritten"`
	Removed   []int64   `json:"removed"`
	Failed    []int64   `json:"failed"`
	DryRun    bool      `json:"dry_run"`
	StartedAt time.Time `json:"started_at"`
	Duration  string    `json:"duration"`
}

// Repaired returns the number of mirror files that were (or would be) fixed
func (r *ReconcileReport) Repaired() int {
	return len(r.Restored) + len(r.Rewritten) + len(r.Removed)
}
