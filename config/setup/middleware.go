package setup

import (
	"log/slog"
	"time"

	"notes-server/config"
	"notes-server/middleware"
	"notes-server/models"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// ApplyMiddleware installs the global chain. RATE_LIMIT_PER_MINUTE=0 disables rate limiting.
func ApplyMiddleware(app *fiber.App, cfg *config.Config, logger *slog.Logger) {
	app.Use(
		recover.New(recover.Config{EnableStackTrace: !cfg.IsProduction()}),
		middleware.StructuredLogger(logger),
		middleware.Security(cfg.IsProduction()),
		cors.New(cors.Config{
			AllowOrigins:  cfg.CORSOrigins,
			AllowMethods:  "GET,POST,PUT,DELETE,OPTIONS",
			AllowHeaders:  "Origin,Content-Type,Accept," + middleware.RequestIDHeader,
			ExposeHeaders: middleware.RequestIDHeader,
			MaxAge:        86400,
		}),
	)

	if cfg.RateLimitPerMinute > 0 {
		app.Use(limiter.New(limiter.Config{
			Max:        cfg.RateLimitPerMinute,
			Expiration: time.Minute,
			// Health checks and scrapes are not rate limited
			Next: func(c *fiber.Ctx) bool {
				return c.Path() == "/health" || c.Path() == "/metrics"
			},
			LimitReached: func(c *fiber.Ctx) error {
				requestID, _ := c.Locals("requestID").(string)
				return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
					"error":      "Rate limit exceeded",
					"outcome":    models.OutcomeInvalid,
					"request_id": requestID,
				})
			},
		}))
	}
}
