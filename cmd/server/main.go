package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/honeycarbs/job-aggregator/internal/config"
	"github.com/honeycarbs/job-aggregator/pkg/logging"
)

var (
	cfg    config.Config
	logger *logging.Logger

	storeFlag    string
	logLevelFlag string
)

var rootCmd = &cobra.Command{
	Use:           "job-aggregator",
	Short:         "Aggregate job listings from Adzuna, JSearch, Google Jobs and Reed",
	Long:          "job-aggregator fetches listings from several job APIs, classifies them by country and sector, and upserts them into one job store. It serves MCP tools and a REST API.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if storeFlag != "" {
			_ = os.Setenv("STORE_DRIVER", storeFlag)
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if logLevelFlag != "" {
			cfg.LogLevel = logLevelFlag
		}

		logger = logging.New(cfg.LogLevel, cfg.LogFormat)
		return nil
	},
	PersistentPostRun: func(*cobra.Command, []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&storeFlag, "store", "", "Job store driver: postgres, sqlite, neo4j or memory (overrides STORE_DRIVER)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Log level (overrides LOG_LEVEL)")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
