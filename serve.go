package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"notes-server/config/setup"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the scheduled reconciler",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func runServe() error {
	db, err := setup.InitDatabase(cfg, logger)
	if err != nil {
		return fmt.Errorf("init database: %w", err)
	}

	application, err := setup.InitApp(cfg, db, logger)
	if err != nil {
		db.Close()
		return fmt.Errorf("init app: %w", err)
	}

	if err := application.Reconciler.Start(); err != nil {
		setup.Shutdown(nil, db, logger)
		return fmt.Errorf("start reconciler: %w", err)
	}

	app := setup.NewFiberApp(cfg, logger)
	setup.ApplyMiddleware(app, cfg, logger)
	setup.RegisterRoutes(app, application)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(quit)

	addr := ":" + cfg.Port
	logger.Info("starting server", "addr", addr, "env", cfg.Env)

	sig, listenErr := listenAndWait(app, addr, quit)
	if listenErr != nil {
		logger.Error("server error", "error", listenErr)
	} else {
		logger.Info("shutting down server...", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		if err := app.ShutdownWithContext(ctx); err != nil {
			logger.Error("server forced to shutdown", "error", err)
		}
	}

	setup.Shutdown(application.Reconciler, db, logger)
	logger.Info("server exited")
	return listenErr
}

// listenAndWait serves on addr until a signal arrives on quit or Listen fails
func listenAndWait(app *fiber.App, addr string, quit <-chan os.Signal) (os.Signal, error) {
	listenErr := make(chan error, 1)
	go func() {
		listenErr <- app.Listen(addr)
	}()

	select {
	case err := <-listenErr:
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	case sig := <-quit:
		return sig, nil
	}
}
