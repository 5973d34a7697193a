package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"notes-server/metrics"
	"notes-server/models"
	"notes-server/pkg/keylock"
	"notes-server/storage"
)

// NoteService sequences repository and mirror writes for each user action.
// The repository step always runs first; the mirror step runs only after it
// succeeds. A failed mirror step is reported as *models.PartialFailure and is
// never rolled back.
type NoteService struct {
	repo   NoteRepository
	mirror storage.Mirror
	locks  *keylock.Locker
	logger *slog.Logger
	now    func() time.Time
}

// NewNoteService creates a new note service. locks is shared with the reconciler.
func NewNoteService(repo NoteRepository, mirror storage.Mirror, locks *keylock.Locker, logger *slog.Logger) *NoteService {
	if locks == nil {
		locks = keylock.New()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &NoteService{
		repo:   repo,
		mirror: mirror,
		locks:  locks,
		logger: logger,
		now:    Now,
	}
}

// Now returns the current time at the precision the notes table stores
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// List returns live notes, most recently created first.
// A non-blank search keeps only notes whose title contains it, ignoring case.
func (ns *NoteService) List(ctx context.Context, search string) ([]models.Note, error) {
	return ns.repo.ListNotes(ctx, strings.TrimSpace(search))
}

// Get retrieves a note, or models.ErrNoteNotFound when the id is not live
func (ns *NoteService) Get(ctx context.Context, id int64) (*models.Note, error) {
	note, err := ns.repo.GetNote(ctx, id)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, models.ErrNoteNotFound
	}
	return note, nil
}

// Create inserts the note and then mirrors the row as it stands once the id's lock is held.
// On *models.PartialFailure the returned id is valid: the row exists without a mirror file.
// models.ErrNoteNotFound means a concurrent delete removed the row before it was mirrored.
func (ns *NoteService) Create(ctx context.Context, title, body string) (id int64, err error) {
	defer func() { metrics.ObserveOperation("create", err) }()

	id, err = ns.repo.CreateNote(ctx, normalizeTitle(title), body, ns.now())
	if err != nil {
		return 0, err
	}

	unlock, err := ns.locks.Lock(ctx, id)
	if err != nil {
		return id, ns.partial("create", id, err)
	}
	defer unlock()

	// Another edit may have taken the lock between the insert and here
	current, err := ns.repo.GetNote(ctx, id)
	if err != nil {
		return id, ns.partial("create", id, err)
	}
	if current == nil {
		return id, models.ErrNoteNotFound
	}

	if err := ns.mirror.Write(ctx, id, current.Body); err != nil {
		return id, ns.partial("create", id, err)
	}

	return id, nil
}

// Update overwrites title and body, then rewrites the mirror file.
// When expectedUpdatedAt is set the update is refused with models.ErrNoteConflict
// unless it matches the stored updated_at.
func (ns *NoteService) Update(ctx context.Context, id int64, title, body string, expectedUpdatedAt *time.Time) (err error) {
	defer func() { metrics.ObserveOperation("update", err) }()

	unlock, err := ns.locks.Lock(ctx, id)
	if err != nil {
		return fmt.Errorf("update note %d: %w", id, err)
	}
	defer unlock()

	if err := ns.checkVersion(ctx, id, expectedUpdatedAt); err != nil {
		return err
	}

	if err := ns.repo.UpdateNote(ctx, id, normalizeTitle(title), body, ns.now()); err != nil {
		return err
	}

	if err := ns.mirror.Write(ctx, id, body); err != nil {
		return ns.partial("update", id, err)
	}

	return nil
}

// Delete removes the row, then the mirror file. A second delete of the same id is models.ErrNoteNotFound.
func (ns *NoteService) Delete(ctx context.Context, id int64, expectedUpdatedAt *time.Time) (err error) {
	defer func() { metrics.ObserveOperation("delete", err) }()

	unlock, err := ns.locks.Lock(ctx, id)
	if err != nil {
		return fmt.Errorf("delete note %d: %w", id, err)
	}
	defer unlock()

	if err := ns.checkVersion(ctx, id, expectedUpdatedAt); err != nil {
		return err
	}

	if err := ns.repo.DeleteNote(ctx, id); err != nil {
		return err
	}

	if err := ns.mirror.Remove(ctx, id); err != nil {
		return ns.partial("delete", id, err)
	}

	return nil
}

// checkVersion must run while holding the id's lock
func (ns *NoteService) checkVersion(ctx context.Context, id int64, expected *time.Time) error {
	if expected == nil {
		return nil
	}

	current, err := ns.Get(ctx, id)
	if err != nil {
		return err
	}
	if !current.UpdatedAt.Equal(*expected) {
		return models.ErrNoteConflict
	}
	return nil
}

func (ns *NoteService) partial(op string, id int64, err error) error {
	ns.logger.Warn("note mirror out of sync",
		"op", op,
		"note_id", id,
		"error", err,
	)
	return &models.PartialFailure{Op: op, ID: id, Err: err}
}

func normalizeTitle(title string) string {
	if strings.TrimSpace(title) == "" {
		return models.DefaultTitle
	}
	return title
}
