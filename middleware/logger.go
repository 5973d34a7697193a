package middleware

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// RequestIDHeader carries the id assigned to every request
const RequestIDHeader = "X-Request-ID"

// StructuredLogger assigns a request id and writes one access log line per request
func StructuredLogger(logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		requestID := c.Get(RequestIDHeader)
		if _, err := uuid.Parse(requestID); err != nil {
			requestID = uuid.New().String()
		}

		c.Locals("requestID", requestID)
		c.Set(RequestIDHeader, requestID)

		err := c.Next()

		status := c.Response().StatusCode()
		latency := time.Since(start)

		logAttrs := []slog.Attr{
			slog.String("request_id", requestID),
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.Int("status", status),
			slog.Duration("latency", latency),
			slog.Int("bytes", len(c.Response().Body())),
			slog.String("ip", c.IP()),
		}

		if id := c.Params("id"); id != "" {
			logAttrs = append(logAttrs, slog.String("note_id", id))
		}

		if err != nil {
			logAttrs = append(logAttrs, slog.String("error", err.Error()))
			logger.LogAttrs(c.Context(), slog.LevelError, "request error", logAttrs...)
		} else if status >= 500 {
			logger.LogAttrs(c.Context(), slog.LevelError, "server error", logAttrs...)
		} else if status >= 400 {
			logger.LogAttrs(c.Context(), slog.LevelWarn, "client error", logAttrs...)
		} else {
			logger.LogAttrs(c.Context(), slog.LevelInfo, "request completed", logAttrs...)
		}

		return err
	}
}
