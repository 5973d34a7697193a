package database

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"notes-server/models"
)

// ==================== NOTE OPERATIONS ====================

// ListNotes returns live notes, most recently created first.
// A non-empty search keeps notes whose title contains it, case-insensitively.
func (r *Repository) ListNotes(ctx context.Context, search string) ([]models.Note, error) {
	query := `SELECT id, title, body, created_at, updated_at FROM notes`
	var args []any
	if search != "" {
		query += ` WHERE title ` + r.likeOperator() + ` $1 ESCAPE '\'`
		args = append(args, "%"+likeEscaper.Replace(search)+"%")
	}
	query += ` ORDER BY id DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storageErr("list", err)
	}
	defer rows.Close()

	// Initialize with empty slice to avoid returning nil
	notes := make([]models.Note, 0)
	for rows.Next() {
		var note models.Note
		if err := rows.Scan(&note.ID, &note.Title, &note.Body, &note.CreatedAt, &note.UpdatedAt); err != nil {
			return nil, storageErr("list", err)
		}
		notes = append(notes, note)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list", err)
	}

	return notes, nil
}

// GetNote retrieves a single note. A nil note with a nil error means the id is not live.
func (r *Repository) GetNote(ctx context.Context, id int64) (*models.Note, error) {
	var note models.Note

	err := r.db.QueryRowContext(ctx, `
		SELECT id, title, body, created_at, updated_at
		FROM notes
		WHERE id = $1
	`, id).Scan(&note.ID, &note.Title, &note.Body, &note.CreatedAt, &note.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr("get", err)
	}

	return &note, nil
}

// CreateNote inserts a row with created_at = updated_at = now and returns the assigned id
func (r *Repository) CreateNote(ctx context.Context, title, body string, now time.Time) (int64, error) {
	var id int64

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO notes (title, body, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, title, body, now, now).Scan(&id)
	if err != nil {
		return 0, storageErr("create", err)
	}

	return id, nil
}

// UpdateNote overwrites title and body and refreshes updated_at
func (r *Repository) UpdateNote(ctx context.Context, id int64, title, body string, now time.Time) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE notes
		SET title = $1, body = $2, updated_at = $3
		WHERE id = $4
	`, title, body, now, id)
	if err != nil {
		return storageErr("update", err)
	}

	return requireAffected("update", result)
}

// DeleteNote permanently removes a note row
func (r *Repository) DeleteNote(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM notes WHERE id = $1`, id)
	if err != nil {
		return storageErr("delete", err)
	}

	return requireAffected("delete", result)
}

// ListNoteIDs returns the ids of all live notes in ascending order
func (r *Repository) ListNoteIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM notes ORDER BY id ASC`)
	if err != nil {
		return nil, storageErr("list ids", err)
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, storageErr("list ids", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list ids", err)
	}

	return ids, nil
}

func requireAffected(op string, result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return storageErr(op, err)
	}
	if n == 0 {
		return models.ErrNoteNotFound
	}
	return nil
}

// likeEscaper makes user input match literally inside a LIKE pattern
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likeOperator is ILIKE on Postgres. SQLite's LIKE already ignores ASCII case.
func (r *Repository) likeOperator() string {
	if r.db.Driver() == DriverPostgres {
		return "ILIKE"
	}
	return "LIKE"
}
