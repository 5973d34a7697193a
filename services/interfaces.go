package services

import (
	"context"
	"time"

	"notes-server/models"
)

// NoteRepository defines the interface for note data access
type NoteRepository interface {
	ListNotes(ctx context.Context, search string) ([]models.Note, error)
	GetNote(ctx context.Context, id int64) (*models.Note, error)
	CreateNote(ctx context.Context, title, body string, now time.Time) (int64, error)
	UpdateNote(ctx context.Context, id int64, title, body string, now time.Time) error
	DeleteNote(ctx context.Context, id int64) error
}
