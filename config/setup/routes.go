package setup

import (
	"notes-server/app"
	"notes-server/handlers"
	"notes-server/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
)

// RegisterRoutes registers all application routes
func RegisterRoutes(fiberApp *fiber.App, application *app.App) {
	fiberApp.Get("/health", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"status": "ok"}) })
	fiberApp.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	api := fiberApp.Group("/api")

	api.Get("/notes", handlers.ListNotes(application))
	api.Post("/notes", handlers.CreateNote(application))
	api.Get("/notes/:id", handlers.GetNote(application))
	api.Put("/notes/:id", handlers.UpdateNote(application))
	api.Delete("/notes/:id", handlers.DeleteNote(application))
	api.Post("/reconcile", handlers.Reconcile(application))
}
