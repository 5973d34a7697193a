package main

import (
	"context"
	"encoding/json"
	"os"

	"notes-server/config/setup"

	"github.com/spf13/cobra"
)

var reconcileDryRun bool

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Run one repair sweep between the notes table and the mirror directory",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		db, err := setup.InitDatabase(cfg, logger)
		exitOnError("failed to open database", err)

		application, err := setup.InitApp(cfg, db, logger)
		if err != nil {
			db.Close()
			exitOnError("failed to initialize app", err)
		}
		defer setup.Shutdown(nil, db, logger)

		report, err := application.Reconciler.Reconcile(context.Background(), reconcileDryRun)
		if err != nil {
			db.Close()
			exitOnError("reconcile failed", err)
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			fatal("Error encoding report", err)
		}
	},
}

func init() {
	reconcileCmd.Flags().BoolVar(&reconcileDryRun, "dry-run", false, "Report divergences without repairing them")
}
