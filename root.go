package main

import (
	"log/slog"
	"os"

	"notes-server/config"
	"notes-server/config/setup"

	"github.com/spf13/cobra"
)

var (
	cfg    *config.Config
	logger *slog.Logger
)

// rootCmd runs the HTTP server when called without a subcommand
var rootCmd = &cobra.Command{
	Use:   "notes-server",
	Short: "Notes service backed by PostgreSQL with a Markdown file mirror",
	Long: `notes-server stores notes in a relational database and keeps a
<id>.md copy of every note body in a mirror directory.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return err
		}
		cfg = loaded

		logger = setup.NewLogger(cfg)
		slog.SetDefault(logger)
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

// Execute adds all child commands to the root command and runs it
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fatal("notes-server", err)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, reconcileCmd)
}

func exitOnError(msg string, err error) {
	if err == nil {
		return
	}
	if logger != nil {
		logger.Error(msg, "error", err)
	}
	os.Exit(1)
}
