package setup

import (
	"log/slog"

	"notes-server/app"
	"notes-server/config"
	"notes-server/database"
	"notes-server/pkg/keylock"
	"notes-server/services"
	"notes-server/storage/localfs"
	"notes-server/sync"
)

// InitDatabase opens the connection pool and runs migrations
func InitDatabase(cfg *config.Config, logger *slog.Logger) (*database.DB, error) {
	db, err := database.New(database.Options{
		Driver:          cfg.DBDriver,
		DSN:             cfg.DataSource(),
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
	})
	if err != nil {
		return nil, err
	}

	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("database initialized", "driver", cfg.DBDriver)
	return db, nil
}

// InitApp initializes the application with all dependencies
func InitApp(cfg *config.Config, db *database.DB, logger *slog.Logger) (*app.App, error) {
	repo := database.NewRepository(db)

	mirror, err := localfs.New(cfg.MirrorDir)
	if err != nil {
		return nil, err
	}
	logger.Info("note mirror initialized", "dir", mirror.Dir())

	// One locker shared by user actions and the reconciler
	locks := keylock.New()

	notes := services.NewNoteService(repo, mirror, locks, logger)
	reconciler := sync.NewWorker(repo, mirror, locks, logger, cfg.ReconcileSchedule)

	application := app.New(notes, reconciler, logger)
	logger.Info("application initialized with dependency injection")

	return application, nil
}

// Shutdown performs graceful shutdown of all services
func Shutdown(reconciler *sync.Worker, db *database.DB, logger *slog.Logger) {
	logger.Info("shutting down services...")

	if reconciler != nil {
		reconciler.Stop()
		logger.Info("reconciler stopped")
	}

	if db != nil {
		db.Close()
		logger.Info("database closed")
	}
}
