package setup

import (
	"errors"
	"log/slog"
	"time"

	"notes-server/config"
	"notes-server/models"

	"github.com/gofiber/fiber/v2"
)

// NewFiberApp creates the Fiber application. A zero BodyLimit keeps Fiber's default.
func NewFiberApp(cfg *config.Config, logger *slog.Logger) *fiber.App {
	return fiber.New(fiber.Config{
		AppName:               "notes-server",
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		IdleTimeout:           30 * time.Second,
		BodyLimit:             cfg.BodyLimit,
		DisableStartupMessage: cfg.IsProduction(),
		ErrorHandler:          CustomErrorHandler(logger),
	})
}

// CustomErrorHandler renders errors that escape the handlers (routing misses,
// oversized bodies, panics) in the same shape as note errors.
func CustomErrorHandler(logger *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "Internal server error"

		var e *fiber.Error
		if errors.As(err, &e) {
			code = e.Code
			message = e.Message
		}

		outcome := models.OutcomeInternal
		switch {
		case code == fiber.StatusNotFound:
			outcome = models.OutcomeNotFound
		case code < fiber.StatusInternalServerError:
			outcome = models.OutcomeInvalid
		}

		requestID, _ := c.Locals("requestID").(string)

		level := slog.LevelWarn
		if code >= fiber.StatusInternalServerError {
			level = slog.LevelError
		}
		logger.Log(c.UserContext(), level, "request failed",
			"request_id", requestID,
			"method", c.Method(),
			"path", c.Path(),
			"status", code,
			"error", err,
		)

		return c.Status(code).JSON(fiber.Map{
			"error":      message,
			"outcome":    outcome,
			"request_id": requestID,
		})
	}
}
