package main

import (
	"github.com/spf13/cobra"

	"github.com/honeycarbs/job-aggregator/internal/mcp"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the job store schema, indexes and constraints",
	RunE: func(cmd *cobra.Command, _ []string) error {
		store, err := mcp.OpenStore(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.Migrate(cmd.Context()); err != nil {
			return err
		}
		logger.Info("migration complete", "driver", store.Driver)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
