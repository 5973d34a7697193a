package handlers

import (
	"errors"
	"log/slog"
	"strconv"

	"notes-server/models"
	"notes-server/validator"

	"github.com/gofiber/fiber/v2"
)

func success(c *fiber.Ctx, data fiber.Map) error {
	return c.JSON(data)
}

func created(c *fiber.Ctx, data fiber.Map) error {
	return c.Status(fiber.StatusCreated).JSON(data)
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error":      message,
		"outcome":    models.OutcomeInvalid,
		"request_id": requestID(c),
	})
}

func validationError(c *fiber.Ctx, err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return badRequest(c, err.Error())
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error":      "Validation failed",
		"outcome":    models.OutcomeInvalid,
		"fields":     validationErrs,
		"request_id": requestID(c),
	})
}

// noteError maps a note-layer error to its HTTP status by tagged outcome
func noteError(c *fiber.Ctx, message string, err error) error {
	outcome := models.OutcomeOf(err)

	status := fiber.StatusInternalServerError
	switch outcome {
	case models.OutcomeNotFound:
		status = fiber.StatusNotFound
		message = "Note not found"
	case models.OutcomeConflict:
		status = fiber.StatusConflict
		message = "Note was modified by someone else"
	case models.OutcomeStorageError:
		status = fiber.StatusServiceUnavailable
	}

	body := fiber.Map{
		"error":      message,
		"outcome":    outcome,
		"request_id": requestID(c),
	}

	var partial *models.PartialFailure
	if errors.As(err, &partial) {
		body["id"] = partial.ID
		message = message + " (mirror out of sync)"
		body["error"] = message
	}

	if status >= fiber.StatusInternalServerError {
		slog.Error("server error",
			"request_id", requestID(c),
			"method", c.Method(),
			"path", c.Path(),
			"message", message,
			"outcome", outcome,
			"error", err,
		)
	}

	return c.Status(status).JSON(body)
}

func requestID(c *fiber.Ctx) string {
	if id, ok := c.Locals("requestID").(string); ok {
		return id
	}
	return ""
}

func noteID(c *fiber.Ctx) (int64, bool) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
