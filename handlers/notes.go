package handlers

import (
	"time"

	"notes-server/app"
	"notes-server/models"

	"github.com/gofiber/fiber/v2"
)

// ListNotes returns live notes, newest first. ?q= filters by title.
func ListNotes(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		notes, err := a.Notes.List(c.UserContext(), c.Query("q"))
		if err != nil {
			return noteError(c, "Failed to fetch notes", err)
		}

		return success(c, fiber.Map{"notes": notes})
	}
}

// GetNote retrieves a single note by id
func GetNote(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := noteID(c)
		if !ok {
			return badRequest(c, "note id must be a positive integer")
		}

		note, err := a.Notes.Get(c.UserContext(), id)
		if err != nil {
			return noteError(c, "Failed to fetch note", err)
		}

		return success(c, fiber.Map{"note": note})
	}
}

// CreateNote stores a new note and mirrors its body
func CreateNote(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.CreateNoteRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}

		// Validate request
		if err := a.Validator.Validate(&req); err != nil {
			return validationError(c, err)
		}

		id, err := a.Notes.Create(c.UserContext(), req.Title, req.Body)
		if err != nil {
			return noteError(c, "Failed to save note", err)
		}

		note, err := a.Notes.Get(c.UserContext(), id)
		if err != nil {
			return noteError(c, "Failed to fetch saved note", err)
		}

		return created(c, fiber.Map{"note": note})
	}
}

// UpdateNote overwrites a note's title and body
func UpdateNote(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := noteID(c)
		if !ok {
			return badRequest(c, "note id must be a positive integer")
		}

		var req models.UpdateNoteRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}

		if err := a.Validator.Validate(&req); err != nil {
			return validationError(c, err)
		}

		if err := a.Notes.Update(c.UserContext(), id, req.Title, req.Body, req.ExpectedUpdatedAt); err != nil {
			return noteError(c, "Failed to save note", err)
		}

		note, err := a.Notes.Get(c.UserContext(), id)
		if err != nil {
			return noteError(c, "Failed to fetch saved note", err)
		}

		return success(c, fiber.Map{"note": note})
	}
}

// DeleteNote removes a note and its mirror file.
// An optional expected_updated_at query parameter (RFC 3339) guards against deleting a newer edit.
func DeleteNote(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := noteID(c)
		if !ok {
			return badRequest(c, "note id must be a positive integer")
		}

		var expected *time.Time
		if raw := c.Query("expected_updated_at"); raw != "" {
			t, err := time.Parse(time.RFC3339Nano, raw)
			if err != nil {
				return badRequest(c, "expected_updated_at must be an RFC 3339 timestamp")
			}
			expected = &t
		}

		if err := a.Notes.Delete(c.UserContext(), id, expected); err != nil {
			return noteError(c, "Failed to delete note", err)
		}

		return success(c, fiber.Map{
			"message": "Note deleted successfully",
			"id":      id,
		})
	}
}

// Reconcile runs one repair sweep between the notes table and the mirror directory
func Reconcile(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		report, err := a.Reconciler.Reconcile(c.UserContext(), c.QueryBool("dry_run", false))
		if err != nil {
			return noteError(c, "Reconcile failed", err)
		}

		return success(c, fiber.Map{"report": report})
	}
}
