package app

import (
	"log/slog"

	"notes-server/services"
	"notes-server/sync"
	"notes-server/validator"
)

// App holds all application dependencies
// This struct is the central point for dependency injection
type App struct {
	Notes      *services.NoteService
	Reconciler *sync.Worker
	Validator  *validator.Validator
	Logger     *slog.Logger
}

// New creates a new App instance with all dependencies
func New(notes *services.NoteService, reconciler *sync.Worker, logger *slog.Logger) *App {
	return &App{
		Notes:      notes,
		Reconciler: reconciler,
		Validator:  validator.New(),
		Logger:     logger,
	}
}
