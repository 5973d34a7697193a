package main

import (
	"notes-server/config/setup"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the notes table if it does not exist",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		// InitDatabase migrates on open
		db, err := setup.InitDatabase(cfg, logger)
		exitOnError("migration failed", err)
		defer db.Close()

		logger.Info("migrations applied", "driver", db.Driver())
	},
}
